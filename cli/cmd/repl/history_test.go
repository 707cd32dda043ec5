package repl

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory_WriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file error = %v", err)
	}

	for _, step := range []struct {
		line string
		mode inputMode
	}{
		{"var a = 1;", modeEval},
		{"list", modeCtrl},
		{"print a;", modeEval},
		{"  ", modeEval},
		{"var a = 1;", modeEval},
	} {
		if err := h.WriteWithMode(step.line, step.mode); err != nil {
			t.Fatalf("WriteWithMode(%q) error = %v", step.line, err)
		}
	}

	if got := h.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	want := "C:list\nE:print a;\nE:var a = 1;\n"
	if string(data) != want {
		t.Errorf("history file = %q, want %q", data, want)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := reloaded.Lines(modeEval); !slices.Equal(got, []string{"print a;", "var a = 1;"}) {
		t.Errorf("Lines(eval) = %v", got)
	}

	entry, err := reloaded.GetEntry(0)
	if err != nil || entry != (HistoryEntry{Line: "list", Mode: modeCtrl}) {
		t.Errorf("GetEntry(0) = %+v, %v", entry, err)
	}

	if _, err := reloaded.GetEntry(3); err != ErrOutOfBounds {
		t.Errorf("GetEntry(3) error = %v, want %v", err, ErrOutOfBounds)
	}
}

func TestHistory_UnprefixedLinesAreEval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	if err := os.WriteFile(path, []byte("print 1;\n\nC:quit\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := h.Lines(modeEval); !slices.Equal(got, []string{"print 1;"}) {
		t.Errorf("Lines(eval) = %v", got)
	}

	if got := h.Lines(modeCtrl); !slices.Equal(got, []string{"quit"}) {
		t.Errorf("Lines(ctrl) = %v", got)
	}
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("")

	if err := h.Write("print 1;"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
}
