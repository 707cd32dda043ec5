package lang

import (
	"fmt"
	"io"
	"testing"
)

// BenchmarkRun benchmarks a full parse, resolve and run of small programs.
func BenchmarkRun(b *testing.B) {
	tests := []struct {
		name   string
		source string
	}{
		{
			name:   "arithmetic",
			source: `var x = 10; var y = 20; var z = x * y + x / y;`,
		},
		{
			name:   "string_concatenation",
			source: `var greeting = "Hello"; var name = "World"; var s = greeting + ", " + name + "!";`,
		},
		{
			name:   "loop",
			source: `var sum = 0; for (var i = 0; i < 100; i = i + 1) { sum = sum + i; }`,
		},
		{
			name: "recursion",
			source: `
fun fib(n) { if (n < 2) return n; return fib(n - 1) + fib(n - 2); }
var r = fib(15);`,
		},
		{
			name: "closures",
			source: `
fun counter() { var n = 0; fun inc() { n = n + 1; return n; } return inc; }
var c = counter();
for (var i = 0; i < 100; i = i + 1) c();`,
		},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			b.ReportAllocs()

			for b.Loop() {
				if err := Run(b.Context(), tt.source, WithOutput(io.Discard)); err != nil {
					b.Fatalf("run error: %v", err)
				}
			}
		})
	}
}

// BenchmarkParse_CacheEffect compares parsing fresh source against parsing
// source already in the cache.
func BenchmarkParse_CacheEffect(b *testing.B) {
	ClearCache()

	sources := []string{
		"var x = 1;",
		"print x + 2;",
		"fun f(a, b) { return a * b; }",
		"while (x < 10) x = x + 1;",
	}

	b.Run("uncached", func(b *testing.B) {
		b.ReportAllocs()

		i := 0
		for b.Loop() {
			src := fmt.Sprintf("var x = %d;", i)
			i++

			if _, err := Parse(b.Context(), src, WithCache(false)); err != nil {
				b.Fatalf("parse error: %v", err)
			}
		}
	})

	b.Run("cached", func(b *testing.B) {
		for _, src := range sources {
			_, _ = Parse(b.Context(), src)
		}

		b.ReportAllocs()

		i := 0
		for b.Loop() {
			if _, err := Parse(b.Context(), sources[i%len(sources)]); err != nil {
				b.Fatalf("parse error: %v", err)
			}

			i++
		}
	})
}

// BenchmarkSession_Run benchmarks repeated runs against one session, as an
// interactive prompt does.
func BenchmarkSession_Run(b *testing.B) {
	s, err := NewSession(b.Context(), WithOutput(io.Discard))
	if err != nil {
		b.Fatal(err)
	}

	if err := s.Run(b.Context(), "fun sq(n) { return n * n; } var total = 0;"); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()

	for b.Loop() {
		if err := s.Run(b.Context(), "total = total + sq(3);"); err != nil {
			b.Fatal(err)
		}
	}
}
