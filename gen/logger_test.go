package gen

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultLogger(t *testing.T) {
	var out bytes.Buffer
	logger := CreateDefaultLogger(DefaultLoggerOptions{
		TimeFormat: time.RFC3339,
		Output:     &out,
	})

	logger.Log(MessageLog{
		Time:   time.Now(),
		Level:  LogLevelInfo,
		Source: MessageLogProcess{PID: PID(7)},
		Format: "hello %s",
		Args:   []any{"world"},
	})

	line := out.String()
	require.Contains(t, line, "[info]")
	require.Contains(t, line, "<7>")
	require.Contains(t, line, "hello world")
}

func TestDefaultLoggerIncludeName(t *testing.T) {
	var out bytes.Buffer
	logger := CreateDefaultLogger(DefaultLoggerOptions{
		IncludeName: true,
		Output:      &out,
	})

	logger.Log(MessageLog{
		Time:   time.Now(),
		Level:  LogLevelWarning,
		Source: MessageLogProcess{PID: PID(7), Name: "keeper"},
		Format: "late",
	})
	require.Contains(t, out.String(), `"keeper"`)
}

func TestDefaultLoggerFilter(t *testing.T) {
	var out bytes.Buffer
	logger := CreateDefaultLogger(DefaultLoggerOptions{
		Filter: []LogLevel{LogLevelError, LogLevelPanic},
		Output: &out,
	})

	logger.Log(MessageLog{Time: time.Now(), Level: LogLevelDebug, Source: MessageLogRuntime{}, Format: "dropped"})
	logger.Log(MessageLog{Time: time.Now(), Level: LogLevelError, Source: MessageLogRuntime{}, Format: "kept"})

	lines := strings.TrimSpace(out.String())
	require.NotContains(t, lines, "dropped")
	require.Contains(t, lines, "kept")
	require.Contains(t, lines, "runtime")
}
