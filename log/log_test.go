package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func decodeJSON(t *testing.T, line string) map[string]any {
	t.Helper()

	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid JSON %q: %v", line, err)
	}

	return m
}

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if got := logger.Level(); got != DefaultLevel {
		t.Errorf("Level() = %v, want %v", got, DefaultLevel)
	}
	if got := logger.Format(); got != DefaultFormat {
		t.Errorf("Format() = %v, want %v", got, DefaultFormat)
	}
	if logger.caller {
		t.Error("caller info enabled by default")
	}
	if !logger.pretty {
		t.Error("pretty printing disabled by default")
	}
}

func TestLogger_WithLevel_FiltersMessages(t *testing.T) {
	tests := []struct {
		name   string
		level  Level
		logged []string
	}{
		{"trace", LevelTrace, []string{"t", "d", "i", "w", "e"}},
		{"debug", LevelDebug, []string{"d", "i", "w", "e"}},
		{"warn", LevelWarn, []string{"w", "e"}},
		{"error", LevelError, []string{"e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithLevel(tt.level), WithFormat(FormatJSON))

			logger.Trace("t")
			logger.Debug("d")
			logger.Info("i")
			logger.Warn("w")
			logger.Error("e")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != len(tt.logged) {
				t.Fatalf("logged %d messages, want %d:\n%s",
					len(lines), len(tt.logged), buf.String())
			}

			for i, line := range lines {
				if got := decodeJSON(t, line)[slog.MessageKey]; got != tt.logged[i] {
					t.Errorf("message %d = %v, want %q", i, got, tt.logged[i])
				}
			}
		})
	}
}

func TestLogger_JSON_LevelNames(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON))

	logger.TraceContext(t.Context(), "scanned", slog.Int("tokens", 3))

	m := decodeJSON(t, strings.TrimSpace(buf.String()))
	if m[slog.LevelKey] != "TRACE" {
		t.Errorf("level = %v, want TRACE", m[slog.LevelKey])
	}
	if m["tokens"] != float64(3) {
		t.Errorf("tokens = %v, want 3", m["tokens"])
	}
}

func TestLogger_WithTimeLayout_None_OmitsTime(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))

	logger.Warn("quiet")

	m := decodeJSON(t, strings.TrimSpace(buf.String()))
	if _, ok := m[slog.TimeKey]; ok {
		t.Errorf("time present with layout none: %v", m)
	}
}

func TestLogger_WithCaller_ReportsCallSite(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON), WithCaller(true))

	logger.Warn("here")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("source does not name the calling file: %s", buf.String())
	}
}

func TestLogger_With_AddsAttributes(t *testing.T) {
	tests := []struct {
		name   string
		opts   []Option
		expect []string
	}{
		{"json", []Option{WithFormat(FormatJSON)}, []string{`"component":"repl"`, `"line":7`}},
		{"text", []Option{WithPretty(false)}, []string{"component=repl", "line=7"}},
		{"pretty", nil, []string{"component", "repl", "line", "7"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, tt.opts...).With(slog.String("component", "repl"))

			logger.Warn("runtime error", slog.Int("line", 7))

			for _, want := range tt.expect {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q: %s", want, buf.String())
				}
			}
		})
	}
}

func TestLogger_WithGroup_QualifiesKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(true), WithTimeLayout("")).
		WithGroup("cache")

	logger.Warn("miss", slog.String("key", "abc"))

	if !strings.Contains(buf.String(), "cache.key") {
		t.Errorf("group not applied: %q", buf.String())
	}
}

func TestLogger_Wrap_OverridesConfiguration(t *testing.T) {
	var buf bytes.Buffer
	base := Make(&buf, WithLevel(LevelError))
	wrapped := base.Wrap(WithLevel(LevelDebug), WithFormat(FormatJSON))

	if base.Level() != LevelError {
		t.Errorf("Wrap modified the original level: %v", base.Level())
	}
	if wrapped.Level() != LevelDebug || wrapped.Format() != FormatJSON {
		t.Errorf("Wrap = (%v, %v), want (debug, json)",
			wrapped.Level(), wrapped.Format())
	}

	wrapped.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("wrapped logger did not write to the original output")
	}
}

func TestLogger_ZeroValue_Safety(t *testing.T) {
	var logger Logger

	logger.Error("nothing happens")
	logger.TraceContext(t.Context(), "nothing happens")
	logger = logger.With(slog.String("k", "v")).WithGroup("g").Wrap(WithLevel(LevelTrace))

	if logger.Logger != nil {
		t.Error("derived zero logger is not a zero logger")
	}
	if logger.Level() != DefaultLevel || logger.Format() != DefaultFormat {
		t.Error("zero logger does not report defaults")
	}
}

func TestLogger_ConcurrentCalls_ThreadSafe(t *testing.T) {
	var (
		buf bytes.Buffer
		mu  sync.Mutex
	)

	logger := Make(writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()

		return buf.Write(p)
	}), WithFormat(FormatJSON))

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			logger.With(slog.Int("worker", i)).Warn("tick")
		}()
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 16 {
		t.Errorf("logged %d lines, want 16", n)
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func BenchmarkLogger_Warn(b *testing.B) {
	logger := Make(&bytes.Buffer{}, WithFormat(FormatJSON))

	for b.Loop() {
		logger.Warn("benchmark", slog.Int("n", 1))
	}
}

func BenchmarkLogger_Trace_Disabled(b *testing.B) {
	logger := Make(&bytes.Buffer{})

	for b.Loop() {
		logger.Trace("benchmark", slog.Int("n", 1))
	}
}
