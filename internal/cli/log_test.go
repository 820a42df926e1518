package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("log output = %q, want only the message logged after SetLogLevel", out)
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Rendered sales.csv")

	out := buf.String()
	if !strings.Contains(out, "Rendered sales.csv (") || !strings.Contains(out, "s)") {
		t.Errorf("progress.done() = %q, want the message with its elapsed time", out)
	}
}

func TestLogHooks(t *testing.T) {
	ctx := context.Background()
	id := "0123456789abcdef"

	tests := []struct {
		name string
		emit func(h *logHooks)
		want []string
	}{
		{
			name: "started",
			emit: func(h *logHooks) { h.OnRenderStarted(ctx, id) },
			want: []string{"update started", "id=01234567"},
		},
		{
			name: "stage",
			emit: func(h *logHooks) { h.OnStageComplete(ctx, id, "layout", time.Millisecond, nil) },
			want: []string{"stage complete", "stage=layout"},
		},
		{
			name: "stage failed",
			emit: func(h *logHooks) { h.OnStageComplete(ctx, id, "layout", time.Millisecond, errors.New("boom")) },
			want: []string{"stage failed", "err=boom"},
		},
		{
			name: "finished",
			emit: func(h *logHooks) { h.OnRenderFinished(ctx, id, 12, time.Second) },
			want: []string{"update finished", "points=12"},
		},
		{
			name: "failed",
			emit: func(h *logHooks) { h.OnRenderFailed(ctx, id, errors.New("boom")) },
			want: []string{"update failed", "err=boom"},
		},
		{
			name: "cache write",
			emit: func(h *logHooks) { h.OnCacheSet(ctx, "svg", 1024) },
			want: []string{"cache write", "format=svg", "bytes=1024"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(&logHooks{logger: newLogger(&buf, log.DebugLevel)})
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("log output = %q, want %q", buf.String(), want)
				}
			}
		})
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := &logHooks{logger: newLogger(&buf, log.InfoLevel)}
	h.OnRenderStarted(context.Background(), "r1")
	h.OnCacheHit(context.Background(), "svg")
	if buf.Len() != 0 {
		t.Errorf("log output = %q, want none at info level", buf.String())
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"0123456789", "01234567"},
	}
	for _, tt := range tests {
		if got := short(tt.in); got != tt.want {
			t.Errorf("short(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
