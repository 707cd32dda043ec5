package lang

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestParse_Cached(t *testing.T) {
	ClearCache()

	ctx := t.Context()
	src := "var cached = 1; print cached;"

	first, err := Parse(ctx, src)
	if err != nil {
		t.Fatal(err)
	}

	second, err := Parse(ctx, src)
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Error("identical source should reuse the cached program")
	}

	bare, err := Parse(ctx, src, WithInteractive(true))
	if err != nil {
		t.Fatal(err)
	}

	if bare == first {
		t.Error("interactive parse must not share the batch cache entry")
	}

	fresh, err := Parse(ctx, src, WithCache(false))
	if err != nil {
		t.Fatal(err)
	}

	if fresh == first {
		t.Error("WithCache(false) returned a cached program")
	}

	ClearCache()

	again, _ := Parse(ctx, src)
	if again == first {
		t.Error("ClearCache kept the cached program")
	}
}

func TestParse_CachedProgramRunsInManySessions(t *testing.T) {
	ClearCache()

	src := "{ var x = 1; fun get() { return x; } print get(); }"

	for range 3 {
		s, out := newSession(t)

		if err := s.Run(t.Context(), src); err != nil {
			t.Fatal(err)
		}

		if out.String() != "1\n" {
			t.Errorf("output = %q", out.String())
		}
	}
}

func TestParse_StaticErrorKeepsTree(t *testing.T) {
	prog, err := Parse(t.Context(), "print 1;\nprint ;\nprint 2;")

	var serr *StaticError
	if !errors.As(err, &serr) || len(serr.Diagnostics) != 1 {
		t.Fatalf("error = %v", err)
	}

	if prog == nil || len(prog.Stmts) != 3 {
		t.Fatalf("expected a best-effort tree of 3 statements")
	}
}

func TestParseReader(t *testing.T) {
	prog, err := ParseReader(t.Context(), strings.NewReader("print 1;"))
	if err != nil {
		t.Fatal(err)
	}

	if len(prog.Tokens) != 4 {
		t.Errorf("tokens = %d, want 4", len(prog.Tokens))
	}

	_, err = ParseReader(t.Context(), iotest.ErrReader(io.ErrUnexpectedEOF))
	if !errors.Is(err, ErrReadInput) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("error = %v, want ErrReadInput wrapping the read error", err)
	}
}
