package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bubblerow/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("computed layout") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("cache hit") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("cache hit") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Computed layout of 19 entities")

	out := buf.String()
	if !strings.Contains(out, "Computed layout of 19 entities (") || !strings.Contains(out, "s)") {
		t.Errorf("progress output = %q, want message with elapsed time", out)
	}
}

func TestSetLogLevelInstallsHooks(t *testing.T) {
	observability.Reset()
	t.Cleanup(observability.Reset)

	c := New(&bytes.Buffer{}, LogInfo)
	c.SetLogLevel(LogInfo)
	if _, ok := observability.Pipeline().(observability.LogHooks); ok {
		t.Fatal("info level should keep the no-op hooks")
	}

	c.SetLogLevel(LogDebug)
	if _, ok := observability.Pipeline().(observability.LogHooks); !ok {
		t.Errorf("Pipeline() = %T, want LogHooks at debug level", observability.Pipeline())
	}
	if _, ok := observability.Cache().(observability.LogHooks); !ok {
		t.Errorf("Cache() = %T, want LogHooks at debug level", observability.Cache())
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("logger level = %v", c.Logger.GetLevel())
	}
}
