package logger

import (
	"log/slog"
	"strings"
)

// LogLevel mirrors the host editor's numeric log levels.
type LogLevel int

const (
	Off LogLevel = iota
	Trace
	Debug
	Info
	Warning
	Error
)

// LevelTrace sits below slog.LevelDebug.
const LevelTrace = slog.Level(-8)

// ParseLogLevel converts a level name to a LogLevel.
// Unknown values default to Info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off":
		return Off
	case "trace":
		return Trace
	case "debug":
		return Debug
	case "warn", "warning":
		return Warning
	case "error":
		return Error
	default:
		return Info
	}
}

func (l LogLevel) String() string {
	switch l {
	case Off:
		return "off"
	case Trace:
		return "trace"
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// SlogLevel maps the level onto slog. Off maps above every slog level.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case Trace:
		return LevelTrace
	case Debug:
		return slog.LevelDebug
	case Warning:
		return slog.LevelWarn
	case Error:
		return slog.LevelError
	case Off:
		return slog.LevelError + 4
	default:
		return slog.LevelInfo
	}
}
