package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChannel(t *testing.T, level LogLevel) (*OutputChannel, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: LevelTrace}))
	return NewOutputChannel("Test Channel", level, log), &buf
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestOutputChannel_LevelGating(t *testing.T) {
	ch, buf := newTestChannel(t, Info)

	ch.Trace("trace msg")
	ch.Debug("debug msg")
	ch.Info("info msg", "k", "v")
	ch.Warn("warn msg")
	ch.Error("error msg")

	lines := logLines(t, buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "info msg", lines[0]["msg"])
	assert.Equal(t, "v", lines[0]["k"])
	assert.Equal(t, "Test Channel", lines[0]["channel"])
	assert.Equal(t, "WARN", lines[1]["level"])
	assert.Equal(t, "ERROR", lines[2]["level"])
}

func TestOutputChannel_TraceLevelLogsEverything(t *testing.T) {
	ch, buf := newTestChannel(t, Trace)

	ch.Trace("a")
	ch.Debug("b")
	ch.Info("c")

	assert.Len(t, logLines(t, buf), 3)
}

func TestOutputChannel_OffSuppressesAll(t *testing.T) {
	ch, buf := newTestChannel(t, Off)

	ch.Error("nope")

	assert.Empty(t, buf.String())
}

func TestOutputChannel_SetLogLevelFiresOnChange(t *testing.T) {
	ch, _ := newTestChannel(t, Info)

	var got []LogLevel
	sub := ch.OnDidChangeLogLevel()(func(l LogLevel) { got = append(got, l) })

	ch.SetLogLevel(Info)
	ch.SetLogLevel(Debug)
	ch.SetLogLevel(Error)
	sub.Dispose()
	ch.SetLogLevel(Trace)

	assert.Equal(t, []LogLevel{Debug, Error}, got)
	assert.Equal(t, Trace, ch.LogLevel())
}

func TestOutputChannel_Content(t *testing.T) {
	ch, _ := newTestChannel(t, Info)

	ch.Append("hello")
	ch.AppendLine(" world")
	ch.AppendLine("second")
	assert.Equal(t, "hello world\nsecond\n", ch.Content())

	ch.Replace("fresh")
	assert.Equal(t, "fresh", ch.Content())

	ch.Clear()
	assert.Empty(t, ch.Content())
}

func TestOutputChannel_ShowHide(t *testing.T) {
	ch, _ := newTestChannel(t, Info)

	assert.False(t, ch.Visible())
	ch.Show(true)
	assert.True(t, ch.Visible())
	ch.Hide()
	assert.False(t, ch.Visible())
}

func TestOutputChannel_Dispose(t *testing.T) {
	ch, buf := newTestChannel(t, Info)

	fired := 0
	ch.OnDidChangeLogLevel()(func(LogLevel) { fired++ })
	ch.Show(false)
	ch.Append("kept")

	ch.Dispose()
	ch.Dispose()

	assert.NotPanics(t, func() {
		ch.Info("ignored")
		ch.Append(" more")
		ch.Replace("gone")
		ch.Clear()
		ch.Show(false)
		ch.SetLogLevel(Debug)
	})
	assert.Empty(t, buf.String())
	assert.Equal(t, "kept", ch.Content())
	assert.False(t, ch.Visible())
	assert.Equal(t, 0, fired)
	assert.Equal(t, Info, ch.LogLevel())
	assert.Equal(t, "Test Channel", ch.Name())
}

func TestNewOutputChannel_NilLogger(t *testing.T) {
	ch := NewOutputChannel("default", Info, nil)
	assert.NotPanics(t, func() { ch.Info("to default logger") })
}
