package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{log.InfoLevel, func(l *log.Logger) { l.Info("rule attached") }, true},
		{log.InfoLevel, func(l *log.Logger) { l.Debug("rule attached") }, false},
		{log.DebugLevel, func(l *log.Logger) { l.Debug("rule attached") }, true},
		{log.ErrorLevel, func(l *log.Logger) { l.Warn("violation") }, false},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		tt.emit(newLogger(&buf, tt.level))
		if got := buf.Len() > 0; got != tt.want {
			t.Errorf("level %v: wrote output = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("hello")
	// "15:04:05.00 INFO hello"
	fields := strings.Fields(buf.String())
	if len(fields) < 3 || len(fields[0]) != len("15:04:05.00") {
		t.Errorf("output %q does not start with a HH:MM:SS.ms timestamp", buf.String())
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(10 * time.Millisecond)
	prog.done("computed report", "algorithm", "bfs")

	out := buf.String()
	for _, want := range []string{"computed report", "algorithm=bfs", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestProgressBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.WarnLevel)).done("quiet")
	if buf.Len() != 0 {
		t.Errorf("got %q, want no output below warn level", buf.String())
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should yield log.Default()")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), l)
	if loggerFromContext(ctx) != l {
		t.Fatal("loggerFromContext did not return the attached logger")
	}
	loggerFromContext(ctx).Info("through context")
	if !strings.Contains(buf.String(), "through context") {
		t.Errorf("attached logger did not write: %q", buf.String())
	}
}
