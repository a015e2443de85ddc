package core

import (
	"sync/atomic"
	"time"

	"github.com/xenog/nqe/gen"
)

type log struct {
	level  int32
	source any
}

func newLog(source any) *log {
	return &log{
		level:  int32(gen.LogLevelInfo),
		source: source,
	}
}

func (l *log) Level() gen.LogLevel {
	return gen.LogLevel(atomic.LoadInt32(&l.level))
}

func (l *log) SetLevel(level gen.LogLevel) error {
	if level < gen.LogLevelTrace || level > gen.LogLevelDisabled {
		return gen.ErrIncorrect
	}
	atomic.StoreInt32(&l.level, int32(level))
	return nil
}

func (l *log) Trace(format string, args ...any) {
	l.write(gen.LogLevelTrace, format, args)
}

func (l *log) Debug(format string, args ...any) {
	l.write(gen.LogLevelDebug, format, args)
}

func (l *log) Info(format string, args ...any) {
	l.write(gen.LogLevelInfo, format, args)
}

func (l *log) Warning(format string, args ...any) {
	l.write(gen.LogLevelWarning, format, args)
}

func (l *log) Error(format string, args ...any) {
	l.write(gen.LogLevelError, format, args)
}

func (l *log) Panic(format string, args ...any) {
	l.write(gen.LogLevelPanic, format, args)
}

func (l *log) write(level gen.LogLevel, format string, args []any) {
	if level < l.Level() {
		return
	}
	currentLogger().Log(gen.MessageLog{
		Time:   time.Now(),
		Level:  level,
		Source: l.source,
		Format: format,
		Args:   args,
	})
}
