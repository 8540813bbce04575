// Package event provides a generic, in-process notification hub modelled on the
// host editor's EventEmitter. Listeners are invoked synchronously on the
// goroutine that calls Fire, in the order they were registered.
package event

import (
	"log/slog"
	"sync"
)

// Event is the subscribe surface handed to consumers. Calling it registers the
// listener and returns a handle that releases the registration.
type Event[T any] func(listener func(T)) Disposable

// Option configures an Emitter.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	onPanic func(recovered any)
}

// WithLogger sets the logger used to report recovered listener panics.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPanicHandler registers a callback that receives every value recovered
// from a panicking listener.
func WithPanicHandler(fn func(recovered any)) Option {
	return func(o *options) {
		o.onPanic = fn
	}
}

// entry wraps a listener so that two registrations of the same func stay
// independent and can be removed individually.
type entry[T any] struct {
	fn func(T)
}

// Emitter owns an insertion-ordered sequence of listeners.
type Emitter[T any] struct {
	mu       sync.RWMutex
	entries  []*entry[T]
	disposed bool
	opts     options
}

// NewEmitter creates an active Emitter with no listeners.
func NewEmitter[T any](opts ...Option) *Emitter[T] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Emitter[T]{opts: o}
}

// Event returns the subscribe surface of the emitter.
func (e *Emitter[T]) Event() Event[T] {
	return e.Subscribe
}

// Subscribe appends listener to the sequence. The returned handle removes
// exactly this registration and may be disposed any number of times.
// A nil listener, or a disposed emitter, yields a no-op handle.
func (e *Emitter[T]) Subscribe(listener func(T)) Disposable {
	if listener == nil {
		return Nop
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return Nop
	}

	ent := &entry[T]{fn: listener}
	e.entries = append(e.entries, ent)

	var once sync.Once
	return DisposableFunc(func() {
		once.Do(func() { e.remove(ent) })
	})
}

func (e *Emitter[T]) remove(target *entry[T]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, ent := range e.entries {
		if ent == target {
			// Copy-on-remove keeps snapshots taken by an in-flight Fire intact.
			next := make([]*entry[T], 0, len(e.entries)-1)
			next = append(next, e.entries[:i]...)
			e.entries = append(next, e.entries[i+1:]...)
			return
		}
	}
}

// Fire invokes every listener registered before the call, in registration
// order, passing payload to each. A panicking listener is recovered and
// logged; the remaining listeners still run.
func (e *Emitter[T]) Fire(payload T) {
	e.mu.RLock()
	snapshot := e.entries
	e.mu.RUnlock()

	for _, ent := range snapshot {
		e.deliver(ent, payload)
	}
}

func (e *Emitter[T]) deliver(ent *entry[T], payload T) {
	defer func() {
		if r := recover(); r != nil {
			e.opts.logger.Error("event: listener panicked", "panic", r)
			if e.opts.onPanic != nil {
				e.opts.onPanic(r)
			}
		}
	}()
	ent.fn(payload)
}

// Len returns the number of registered listeners.
func (e *Emitter[T]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.entries)
}

// Dispose drops all listeners. Subsequent Fire calls deliver nothing and
// subsequent Subscribe calls return no-op handles.
func (e *Emitter[T]) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disposed = true
	e.entries = nil
}
