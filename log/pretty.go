package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyTextHandler writes one colorized key=value line per record. Keys are
// gray and values are colored by kind. Strings are never quoted.
type prettyTextHandler struct {
	opts    slog.HandlerOptions
	mu      *sync.Mutex
	w       io.Writer
	prefix  string // group qualifier for subsequent attrs, e.g. "a.b."
	preface []byte // attrs added by WithAttrs, already rendered
	groups  []string
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		h.writeBuiltin(buf, slog.Time(slog.TimeKey, r.Time))
	}

	h.writeBuiltin(buf, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.writeBuiltin(buf, slog.String(slog.SourceKey,
				src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	h.writeBuiltin(buf, slog.String(slog.MessageKey, r.Message))

	if len(h.preface) > 0 {
		buf.WriteByte(' ')
		buf.Write(h.preface)
	}

	r.Attrs(func(a slog.Attr) bool {
		writeAttr(buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h

	buf := bytes.NewBuffer(append([]byte(nil), h.preface...))
	for _, a := range attrs {
		writeAttr(buf, h.prefix, a)
	}

	c.preface = buf.Bytes()

	return &c
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	c.prefix = strings.Join(c.groups, ".") + "."

	return &c
}

// writeBuiltin writes one of the record's own fields, which are never
// qualified by groups.
func (h *prettyTextHandler) writeBuiltin(buf *bytes.Buffer, a slog.Attr) {
	if rep := h.opts.ReplaceAttr; rep != nil {
		a = rep(nil, a)
	}

	if a.Equal(slog.Attr{}) {
		return
	}

	color := valueColor(a.Value)
	if a.Key == slog.LevelKey {
		color = levelColor(valueText(a.Value))
	}

	writeKeyValue(buf, a.Key, valueText(a.Value), color)
}

func writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		sub := prefix
		if a.Key != "" {
			sub += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			writeAttr(buf, sub, ga)
		}

		return
	}

	writeKeyValue(buf, prefix+a.Key, valueText(a.Value), valueColor(a.Value))
}

func writeKeyValue(buf *bytes.Buffer, key, value, color string) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(colorGray)
	buf.WriteString(key)
	buf.WriteString(colorReset)
	buf.WriteByte('=')

	buf.WriteString(color)
	buf.WriteString(value)
	buf.WriteString(colorReset)
}

// valueColor selects the color for v by kind.
func valueColor(v slog.Value) string {
	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return colorYellow

	case slog.KindBool:
		if v.Bool() {
			return colorGreen
		}

		return colorRed

	case slog.KindDuration:
		return colorMagenta

	case slog.KindTime:
		return colorBlue

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			return levelColor(strings.ToUpper(Level(level).String()))
		}
	}

	return colorCyan
}

// levelColor colors level names; any other string is cyan.
func levelColor(s string) string {
	switch s {
	case "ERROR":
		return colorRed
	case "WARN":
		return colorYellow
	case "INFO":
		return colorGreen
	case "DEBUG", "TRACE":
		return colorBlue
	default:
		return colorCyan
	}
}

func valueText(v slog.Value) string {
	switch v.Kind() {
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			return strings.ToUpper(Level(level).String())
		}
	}

	return v.String()
}
