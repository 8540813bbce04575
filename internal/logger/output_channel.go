package logger

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/shaharia-lab/vscode-testkit/internal/event"
)

// LogOutputChannel is the logging facade code under test depends on.
// Implementations must accept every call at any time without failing.
type LogOutputChannel interface {
	Name() string
	LogLevel() LogLevel
	OnDidChangeLogLevel() event.Event[LogLevel]

	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	Append(value string)
	AppendLine(value string)
	Replace(value string)
	Clear()

	Show(preserveFocus bool)
	Hide()
	Dispose()
}

// OutputChannel is an in-memory LogOutputChannel. Level messages go to the
// injected slog.Logger; raw text written with Append and friends is kept in a
// buffer readable through Content.
type OutputChannel struct {
	name   string
	log    *slog.Logger
	levels *event.Emitter[LogLevel]

	mu       sync.RWMutex
	level    LogLevel
	content  strings.Builder
	visible  bool
	disposed bool
}

var _ LogOutputChannel = (*OutputChannel)(nil)

// NewOutputChannel creates a channel called name at the given level.
// A nil logger falls back to slog.Default().
func NewOutputChannel(name string, level LogLevel, log *slog.Logger) *OutputChannel {
	if log == nil {
		log = slog.Default()
	}
	return &OutputChannel{
		name:   name,
		log:    log.With("channel", name),
		levels: event.NewEmitter[LogLevel](event.WithLogger(log)),
		level:  level,
	}
}

// Name returns the name the channel was created with.
func (c *OutputChannel) Name() string { return c.name }

// LogLevel returns the current channel level.
func (c *OutputChannel) LogLevel() LogLevel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.level
}

// OnDidChangeLogLevel fires with the new level whenever SetLogLevel changes it.
func (c *OutputChannel) OnDidChangeLogLevel() event.Event[LogLevel] {
	return c.levels.Event()
}

// SetLogLevel updates the level and notifies listeners if it changed.
func (c *OutputChannel) SetLogLevel(level LogLevel) {
	c.mu.Lock()
	if c.disposed || c.level == level {
		c.mu.Unlock()
		return
	}
	c.level = level
	c.mu.Unlock()

	c.levels.Fire(level)
}

// Trace, Debug, Info, Warn and Error write msg with slog-style key/value args
// when the channel level admits them.
func (c *OutputChannel) Trace(msg string, args ...any) { c.logAt(Trace, msg, args) }
func (c *OutputChannel) Debug(msg string, args ...any) { c.logAt(Debug, msg, args) }
func (c *OutputChannel) Info(msg string, args ...any)  { c.logAt(Info, msg, args) }
func (c *OutputChannel) Warn(msg string, args ...any)  { c.logAt(Warning, msg, args) }
func (c *OutputChannel) Error(msg string, args ...any) { c.logAt(Error, msg, args) }

func (c *OutputChannel) logAt(level LogLevel, msg string, args []any) {
	c.mu.RLock()
	current, disposed := c.level, c.disposed
	c.mu.RUnlock()

	if disposed || current == Off || level < current {
		return
	}
	c.log.Log(context.Background(), level.SlogLevel(), msg, args...)
}

// Append adds value to the buffered text.
func (c *OutputChannel) Append(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.disposed {
		c.content.WriteString(value)
	}
}

// AppendLine adds value and a newline to the buffered text.
func (c *OutputChannel) AppendLine(value string) {
	c.Append(value + "\n")
}

// Replace discards the buffered text and writes value in its place.
func (c *OutputChannel) Replace(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.disposed {
		c.content.Reset()
		c.content.WriteString(value)
	}
}

// Clear discards the buffered text.
func (c *OutputChannel) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.disposed {
		c.content.Reset()
	}
}

// Show marks the channel visible. Focus is not modelled.
func (c *OutputChannel) Show(_ bool) { c.setVisible(true) }

// Hide marks the channel hidden.
func (c *OutputChannel) Hide() { c.setVisible(false) }

func (c *OutputChannel) setVisible(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.disposed {
		c.visible = v
	}
}

// Content returns the text written with Append, AppendLine and Replace.
func (c *OutputChannel) Content() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.content.String()
}

// Visible reports whether the channel was last shown rather than hidden.
func (c *OutputChannel) Visible() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visible
}

// Dispose hides the channel, releases level listeners and turns every later
// call into a no-op.
func (c *OutputChannel) Dispose() {
	c.mu.Lock()
	c.disposed = true
	c.visible = false
	c.mu.Unlock()

	c.levels.Dispose()
}
