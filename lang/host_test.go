package lang

import (
	"errors"
	"os"
	"slices"
	"strings"
	"testing"
)

func TestWithDefines(t *testing.T) {
	t.Setenv("LOX_TEST_GREETING", "hello")

	s, out := newSession(t, WithDefines(
		"N=2 * 21",
		`GREETING=env("LOX_TEST_GREETING")`,
		"FLAG=1 > 2",
		"NOTHING=nil",
		"RATIO=1.5",
	))

	if err := s.Run(t.Context(), "print N; print GREETING; print FLAG; print NOTHING; print RATIO;"); err != nil {
		t.Fatal(err)
	}

	if got, want := out.String(), "42\nhello\nfalse\nnil\n1.5\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestWithDefines_Invalid(t *testing.T) {
	tests := []struct {
		name string
		def  string
	}{
		{"missing equals", "N"},
		{"keyword name", "while=1"},
		{"bad name", "1abc=1"},
		{"compile error", "N=1 +"},
		{"unsupported type", `N=["a", "b"]`},
		{"unknown name", "N=nosuchthing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSession(t.Context(), WithDefines(tt.def))
			if !errors.Is(err, ErrDefine) {
				t.Errorf("error = %v, want ErrDefine", err)
			}
		})
	}
}

func TestSession_Define(t *testing.T) {
	s, out := newSession(t)

	if err := s.Define("count", 3); err != nil {
		t.Fatal(err)
	}

	if err := s.Define("bad", struct{}{}); !errors.Is(err, ErrDefine) {
		t.Errorf("error = %v, want ErrDefine", err)
	}

	if err := s.Run(t.Context(), "print count + 1;"); err != nil {
		t.Fatal(err)
	}

	if out.String() != "4\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestHostEnvKeys(t *testing.T) {
	keys := HostEnvKeys()

	for _, k := range []string{"arch", "cwd", "env", "file", "mung", "os", "path"} {
		if !slices.Contains(keys, k) {
			t.Errorf("HostEnvKeys() = %v, missing %s", keys, k)
		}
	}

	if !slices.IsSorted(keys) {
		t.Error("HostEnvKeys() is not sorted")
	}
}

func TestPrefixPathList(t *testing.T) {
	sep := string(os.PathListSeparator)

	got := PrefixPathList("/usr/bin"+sep+"/bin", "/opt/lox")
	if !strings.HasPrefix(got, "/opt/lox"+sep) {
		t.Errorf("PrefixPathList = %q, want /opt/lox first", got)
	}

	if !strings.Contains(got, "/usr/bin") {
		t.Errorf("PrefixPathList = %q, lost original entries", got)
	}
}
