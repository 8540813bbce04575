package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/vscode-testkit/internal/event"
	"github.com/shaharia-lab/vscode-testkit/internal/logger"
)

// MockLogOutputChannel is a mock implementation of logger.LogOutputChannel.
type MockLogOutputChannel struct {
	mock.Mock
}

var _ logger.LogOutputChannel = (*MockLogOutputChannel)(nil)

// NewStubLogOutputChannel returns a mock that accepts every call. Its
// OnDidChangeLogLevel event is backed by the returned emitter.
func NewStubLogOutputChannel(name string, level logger.LogLevel) (*MockLogOutputChannel, *event.Emitter[logger.LogLevel]) {
	levels := event.NewEmitter[logger.LogLevel]()
	m := &MockLogOutputChannel{}

	m.On("Name").Return(name).Maybe()
	m.On("LogLevel").Return(level).Maybe()
	m.On("OnDidChangeLogLevel").Return(levels.Event()).Maybe()
	for _, method := range []string{"Trace", "Debug", "Info", "Warn", "Error"} {
		m.On(method, mock.Anything, mock.Anything).Return().Maybe()
	}
	for _, method := range []string{"Append", "AppendLine", "Replace", "Show"} {
		m.On(method, mock.Anything).Return().Maybe()
	}
	for _, method := range []string{"Clear", "Hide", "Dispose"} {
		m.On(method).Return().Maybe()
	}
	return m, levels
}

// CallCount returns how many times method was invoked.
func (m *MockLogOutputChannel) CallCount(method string) int {
	n := 0
	for _, c := range m.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// LastArgs returns the arguments of the most recent call to method, or nil.
func (m *MockLogOutputChannel) LastArgs(method string) mock.Arguments {
	for i := len(m.Calls) - 1; i >= 0; i-- {
		if m.Calls[i].Method == method {
			return m.Calls[i].Arguments
		}
	}
	return nil
}

//nolint:revive
func (m *MockLogOutputChannel) Name() string {
	args := m.Called()
	return args.String(0)
}

//nolint:revive
func (m *MockLogOutputChannel) LogLevel() logger.LogLevel {
	args := m.Called()
	return args.Get(0).(logger.LogLevel)
}

//nolint:revive
func (m *MockLogOutputChannel) OnDidChangeLogLevel() event.Event[logger.LogLevel] {
	args := m.Called()
	return args.Get(0).(event.Event[logger.LogLevel])
}

//nolint:revive
func (m *MockLogOutputChannel) Trace(msg string, args ...any) {
	m.Called(msg, args)
}

//nolint:revive
func (m *MockLogOutputChannel) Debug(msg string, args ...any) {
	m.Called(msg, args)
}

//nolint:revive
func (m *MockLogOutputChannel) Info(msg string, args ...any) {
	m.Called(msg, args)
}

//nolint:revive
func (m *MockLogOutputChannel) Warn(msg string, args ...any) {
	m.Called(msg, args)
}

//nolint:revive
func (m *MockLogOutputChannel) Error(msg string, args ...any) {
	m.Called(msg, args)
}

//nolint:revive
func (m *MockLogOutputChannel) Append(value string) {
	m.Called(value)
}

//nolint:revive
func (m *MockLogOutputChannel) AppendLine(value string) {
	m.Called(value)
}

//nolint:revive
func (m *MockLogOutputChannel) Replace(value string) {
	m.Called(value)
}

//nolint:revive
func (m *MockLogOutputChannel) Clear() {
	m.Called()
}

//nolint:revive
func (m *MockLogOutputChannel) Show(preserveFocus bool) {
	m.Called(preserveFocus)
}

//nolint:revive
func (m *MockLogOutputChannel) Hide() {
	m.Called()
}

//nolint:revive
func (m *MockLogOutputChannel) Dispose() {
	m.Called()
}
