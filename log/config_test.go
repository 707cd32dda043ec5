package log

import (
	"slices"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"Info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info+2", LevelInfo + 2},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{" JSON ", FormatJSON},
		{"text", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseFormat(tt.in); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnmarshalText_RejectsUnknown(t *testing.T) {
	var l Level
	if err := l.UnmarshalText([]byte("loud")); err == nil {
		t.Error("Level.UnmarshalText accepted an unknown level")
	}

	var f Format
	if err := f.UnmarshalText([]byte("xml")); err == nil {
		t.Error("Format.UnmarshalText accepted an unknown format")
	}
}

func TestLevelsAndFormats(t *testing.T) {
	levels := slices.Collect(Levels())
	if want := []string{"trace", "debug", "info", "warn", "error"}; !slices.Equal(levels, want) {
		t.Errorf("Levels() = %v, want %v", levels, want)
	}

	formats := slices.Collect(Formats())
	if want := []string{"text", "json"}; !slices.Equal(formats, want) {
		t.Errorf("Formats() = %v, want %v", formats, want)
	}

	if s := Level(3).String(); s != "Level(3)" {
		t.Errorf("Level(3).String() = %q", s)
	}
}

func TestConfig_formatTime(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"rfc3339", "RFC3339", "2023-10-15T14:30:45Z"},
		{"rfc3339 nano", "RFC3339Nano", "2023-10-15T14:30:45.123456789Z"},
		{"kitchen", "kitchen", "2:30PM"},
		{"date time", "Date-Time", "2023-10-15 14:30:45"},
		{"custom", "2006/01/02", "2023/10/15"},
		{"empty", "", ""},
		{"whitespace", "   \t  ", ""},
		{"none", "none", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := WithTimeLayout(tt.layout)(config{})

			if got := c.formatTime(now); got != tt.want {
				t.Errorf("formatTime(%q) = %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestWithDefaults_NilWriter(t *testing.T) {
	c := makeConfig(nil)
	if c.output == nil {
		t.Fatal("nil writer was not replaced")
	}

	c = apply(c, WithOutput(nil))
	if c.output == nil {
		t.Fatal("WithOutput(nil) left a nil writer")
	}

	if !strings.Contains(c.formatTime(time.Unix(0, 0).UTC()), "1970") {
		t.Error("default time layout not applied")
	}
}
