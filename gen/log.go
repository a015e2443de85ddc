package gen

import (
	"time"
)

type LogLevel int

const (
	LogLevelTrace    LogLevel = 1
	LogLevelDebug    LogLevel = 2
	LogLevelInfo     LogLevel = 3
	LogLevelWarning  LogLevel = 4
	LogLevelError    LogLevel = 5
	LogLevelPanic    LogLevel = 6
	LogLevelDisabled LogLevel = 7
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelTrace:
		return "trace"
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarning:
		return "warning"
	case LogLevelError:
		return "error"
	case LogLevelPanic:
		return "panic"
	case LogLevelDisabled:
		return "disabled"
	}
	return "unknown"
}

type Log interface {
	Level() LogLevel
	SetLevel(level LogLevel) error

	Trace(format string, args ...any)
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)
	Panic(format string, args ...any)
}

type LoggerBehavior interface {
	Log(message MessageLog)
	Terminate()
}

// MessageLog
type MessageLog struct {
	Time   time.Time
	Level  LogLevel
	Source any // MessageLogProcess or MessageLogRuntime
	Format string
	Args   []any
}

// MessageLogProcess
type MessageLogProcess struct {
	PID  PID
	Name string
}

// MessageLogRuntime
type MessageLogRuntime struct{}
