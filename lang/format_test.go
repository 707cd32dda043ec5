package lang

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func mustParse(t *testing.T, source string) *Program {
	t.Helper()

	prog, err := Parse(t.Context(), source, WithCache(false))
	if err != nil {
		t.Fatalf("Parse(%q): %v", source, err)
	}

	return prog
}

func TestProgram_Format_Native(t *testing.T) {
	prog := mustParse(t, "var a = 1 + 2;\nprint a;")

	var buf bytes.Buffer
	if err := prog.Format(t.Context(), &buf, EncodingNative, 0); err != nil {
		t.Fatal(err)
	}

	want := "(var a (+ 1 2))\n(print a)\n"
	if got := buf.String(); got != want {
		t.Errorf("Format native =\n%s\nwant:\n%s", got, want)
	}
}

func TestProgram_Format_JSON(t *testing.T) {
	prog := mustParse(t, "print 1;")

	for _, indent := range []int{0, 2} {
		var buf bytes.Buffer
		if err := prog.Format(t.Context(), &buf, EncodingJSON, indent); err != nil {
			t.Fatal(err)
		}

		var tree []map[string]any
		if err := json.Unmarshal(buf.Bytes(), &tree); err != nil {
			t.Fatalf("indent %d: invalid JSON: %v\n%s", indent, err, buf.String())
		}

		if len(tree) != 1 || tree[0]["node"] != "print" {
			t.Errorf("indent %d: tree = %v", indent, tree)
		}
	}
}

func TestProgram_Format_YAML(t *testing.T) {
	prog := mustParse(t, "print 1;")

	var buf bytes.Buffer
	if err := prog.Format(t.Context(), &buf, EncodingYAML, 2); err != nil {
		t.Fatal(err)
	}

	var tree []map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &tree); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}

	if len(tree) != 1 || tree[0]["node"] != "print" {
		t.Errorf("tree = %v", tree)
	}
}

func TestProgram_FormatTokens(t *testing.T) {
	prog := mustParse(t, `print "hi";`)

	var buf bytes.Buffer
	if err := prog.FormatTokens(t.Context(), &buf, EncodingNative, 0); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d token lines, want 4:\n%s", len(lines), buf.String())
	}

	if !strings.Contains(lines[1], `string "hi" "hi"`) {
		t.Errorf("string token line = %q", lines[1])
	}

	if !strings.HasSuffix(strings.TrimSpace(lines[3]), "eof") {
		t.Errorf("last token line = %q, want eof", lines[3])
	}

	buf.Reset()

	if err := prog.FormatTokens(t.Context(), &buf, EncodingJSON, 0); err != nil {
		t.Fatal(err)
	}

	var toks []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &toks); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if toks[1]["literal"] != "hi" || toks[0]["kind"] != "print" {
		t.Errorf("tokens = %v", toks)
	}
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in   string
		want Encoding
		ok   bool
	}{
		{"", EncodingNative, true},
		{"native", EncodingNative, true},
		{"JSON", EncodingJSON, true},
		{"yaml", EncodingYAML, true},
		{"xml", EncodingNative, false},
	}

	for _, tt := range tests {
		got, ok := ParseEncoding(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseEncoding(%q) = (%v, %v), want (%v, %v)",
				tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
