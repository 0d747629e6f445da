package logx

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelFromFlags(t *testing.T) {
	tests := []struct {
		vv, v, q bool
		want     slog.Level
	}{
		{false, false, false, slog.LevelWarn},
		{true, false, false, slog.LevelDebug},
		{false, true, false, slog.LevelInfo},
		{false, false, true, slog.LevelError},
		{true, false, true, slog.LevelDebug},
		{false, true, true, slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := LevelFromFlags(tt.vv, tt.v, tt.q); got != tt.want {
			t.Errorf("LevelFromFlags(%v, %v, %v) = %v, want %v", tt.vv, tt.v, tt.q, got, tt.want)
		}
	}
}

func TestHandlerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, slog.LevelWarn))

	l.Info("hidden")
	l.Warn("shown", "steps", 4000)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "steps") || !strings.Contains(out, "4000") {
		t.Errorf("warn record missing: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected one line, got %q", out)
	}
}

func TestHandlerAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, slog.LevelDebug)).With("session", 1).WithGroup("body")
	l.Debug("created", "id", 3)

	out := buf.String()
	for _, want := range []string{"created", "session", "body.id", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}
