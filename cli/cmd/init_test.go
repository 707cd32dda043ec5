package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initTestCLI struct {
	Level   string   `default:"warn"`
	Pretty  bool     `default:"true" negatable:""`
	Define  []string `short:"D"`
	Empty   string
	Secret  string `hidden:""`
	Version kong.VersionFlag
}

func initContext(t *testing.T, confPath string, args ...string) *kong.Context {
	t.Helper()

	var cli initTestCLI

	parser, err := kong.New(&cli,
		kong.Vars{ConfigIdentifier: confPath, "version": "test"},
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return ktx
}

func TestInit_Run(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{"create", false, false, nil},
		{"overwrite with force", true, true, nil},
		{"exists without force", false, true, ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("old: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			ktx := initContext(t, confPath, "-D", "a=1", "-D", `b="x"`, "--no-pretty")
			ctx := WithContext(t.Context(), ktx)

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteConfig) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatalf("invalid YAML: %v\n%s", err, data)
			}

			if got["level"] != "warn" || got["pretty"] != false {
				t.Errorf("config = %v", got)
			}

			defines, _ := got["define"].([]any)
			if len(defines) != 2 || defines[0] != "a=1" || defines[1] != `b="x"` {
				t.Errorf("define = %v", got["define"])
			}

			for _, key := range []string{"empty", "secret", "help", "version"} {
				if _, ok := got[key]; ok {
					t.Errorf("config has %q: %v", key, got)
				}
			}
		})
	}
}

func TestInit_InvalidPath(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "missing", "config.yaml")
	ctx := WithContext(t.Context(), initContext(t, confPath))

	if err := (&Init{}).Run(ctx); !errors.Is(err, ErrWriteConfig) {
		t.Errorf("Init.Run() error = %v, want %v", err, ErrWriteConfig)
	}
}

func TestConfigValue(t *testing.T) {
	type named string

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"named string", named("debug"), "debug"},
		{"bool", false, false},
		{"int", 3, 3},
		{"empty slice", []string{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := configValue(tt.in); got != tt.want {
				t.Errorf("configValue(%v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}

	items, ok := configValue([]string{"a", "b"}).([]any)
	if !ok || len(items) != 2 || items[0] != "a" {
		t.Errorf("configValue(slice) = %#v", items)
	}
}
