package gen

import (
	"fmt"
	"io"
	"os"
)

// DefaultLoggerOptions
type DefaultLoggerOptions struct {
	// TimeFormat enables output time in the defined format. See https://pkg.go.dev/time#pkg-constants
	// Not defined format makes output time as a timestamp in nanoseconds.
	TimeFormat string
	// IncludeName includes registered process name to the log message
	IncludeName bool
	// Filter enables filtering log messages.
	Filter []LogLevel
	// Output defines output for the log messages. By default it uses os.Stdout
	Output io.Writer
}

//
// default logger for the runtime. It uses stdout as an output by default, but can be used
// any io.Writer.
//

func CreateDefaultLogger(options DefaultLoggerOptions) LoggerBehavior {
	var l defaultLogger

	l.out = options.Output
	if l.out == nil {
		l.out = os.Stdout
	}

	l.format = options.TimeFormat
	l.includeName = options.IncludeName

	if len(options.Filter) > 0 {
		l.filter = make(map[LogLevel]bool)
		for _, level := range options.Filter {
			l.filter[level] = true
		}
	}

	return &l
}

type defaultLogger struct {
	out         io.Writer
	format      string
	includeName bool
	filter      map[LogLevel]bool
}

func (l *defaultLogger) Log(m MessageLog) {
	var t string
	var source string

	if l.filter != nil && l.filter[m.Level] == false {
		return
	}

	if l.format == "" {
		t = fmt.Sprintf("%d", m.Time.UnixNano())
	} else {
		t = m.Time.Format(l.format)
	}

	switch src := m.Source.(type) {
	case MessageLogProcess:
		source = src.PID.String()
		if l.includeName && src.Name != "" {
			source = fmt.Sprintf("%s %q", source, src.Name)
		}
	case MessageLogRuntime:
		source = "runtime"
	default:
		source = fmt.Sprintf("%v", m.Source)
	}

	message := fmt.Sprintf(m.Format, m.Args...)
	_, err := fmt.Fprintf(l.out, "%s [%s] %s: %s\n", t, m.Level, source, message)
	if err != nil {
		fmt.Printf("(fallback) %s [%s] %s: %s\n", t, m.Level, source, message)
	}
}

func (l *defaultLogger) Terminate() {}
