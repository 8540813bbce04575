package vscode

import (
	"log/slog"
	"sync"

	"github.com/shaharia-lab/vscode-testkit/internal/event"
	"github.com/shaharia-lab/vscode-testkit/internal/logger"
)

// Window is an explicitly constructed stand-in for the host window namespace.
// Pass it to the code under test instead of reaching for a shared instance.
type Window struct {
	log     *slog.Logger
	level   logger.LogLevel
	created *event.Emitter[*logger.OutputChannel]

	mu       sync.Mutex
	channels []*logger.OutputChannel
}

// NewWindow creates a window whose output channels log through log at level.
func NewWindow(log *slog.Logger, level logger.LogLevel) *Window {
	if log == nil {
		log = slog.Default()
	}
	return &Window{
		log:     log,
		level:   level,
		created: event.NewEmitter[*logger.OutputChannel](event.WithLogger(log)),
	}
}

// CreateOutputChannel returns a new log output channel called name.
func (w *Window) CreateOutputChannel(name string) *logger.OutputChannel {
	ch := logger.NewOutputChannel(name, w.level, w.log)

	w.mu.Lock()
	w.channels = append(w.channels, ch)
	w.mu.Unlock()

	w.created.Fire(ch)
	return ch
}

// OnDidCreateOutputChannel fires after every CreateOutputChannel call.
func (w *Window) OnDidCreateOutputChannel() event.Event[*logger.OutputChannel] {
	return w.created.Event()
}

// OutputChannels returns the channels created so far, oldest first.
func (w *Window) OutputChannels() []*logger.OutputChannel {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*logger.OutputChannel, len(w.channels))
	copy(out, w.channels)
	return out
}

// Dispose disposes every channel the window created.
func (w *Window) Dispose() {
	w.mu.Lock()
	channels := w.channels
	w.channels = nil
	w.mu.Unlock()

	for _, ch := range channels {
		ch.Dispose()
	}
	w.created.Dispose()
}
