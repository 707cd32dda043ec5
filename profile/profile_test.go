package profile

import "testing"

func TestMake_AppliesOptions(t *testing.T) {
	c := Make(WithMode("cpu"), WithPath("/tmp/p"), WithQuiet(true))

	want := Config{Mode: "cpu", Path: "/tmp/p", Quiet: true}
	if c != want {
		t.Errorf("Make = %+v, want %+v", c, want)
	}
}

func TestStart_NoMode_IsNoop(t *testing.T) {
	s := Make(WithPath(t.TempDir())).Start(t.Context())

	if _, ok := s.(ignore); !ok {
		t.Errorf("Start without mode = %T, want no-op", s)
	}

	s.Stop()
}

func TestStart_UnknownMode_IsNoop(t *testing.T) {
	s := Make(WithMode("nonsense"), WithPath(t.TempDir())).Start(t.Context())

	if _, ok := s.(ignore); !ok {
		t.Errorf("Start with unknown mode = %T, want no-op", s)
	}

	s.Stop()
}

func TestModes_MatchBuild(t *testing.T) {
	if Enabled != (len(Modes()) > 0) {
		t.Errorf("Enabled = %v but Modes() = %v", Enabled, Modes())
	}
}
