package event

import "sync"

// Disposable releases a resource such as a listener registration.
type Disposable interface {
	Dispose()
}

// DisposableFunc adapts a plain function to Disposable.
type DisposableFunc func()

// Dispose calls f.
func (f DisposableFunc) Dispose() {
	if f != nil {
		f()
	}
}

// Nop is a Disposable that does nothing.
var Nop Disposable = DisposableFunc(nil)

// Disposables collects handles and releases them together, last added first.
type Disposables struct {
	mu    sync.Mutex
	items []Disposable
}

// Add appends d and returns it for chaining.
func (s *Disposables) Add(d Disposable) Disposable {
	if d == nil {
		return Nop
	}
	s.mu.Lock()
	s.items = append(s.items, d)
	s.mu.Unlock()
	return d
}

// Dispose releases every collected handle and empties the collection.
func (s *Disposables) Dispose() {
	s.mu.Lock()
	items := s.items
	s.items = nil
	s.mu.Unlock()

	for i := len(items) - 1; i >= 0; i-- {
		items[i].Dispose()
	}
}
