package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/lox/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Nested mappings are flattened by joining keys with hyphens, so both of
// the following set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Keys may use underscores in place of hyphens. A mapping named after a
// subcommand holds that command's flags:
//
//	fmt:
//	  encoding: yaml
//
// Command-line flags override config file values. A config file that cannot
// be parsed is logged and otherwise ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil && !errors.Is(err, io.EOF) {
			log.WarnContext(ctx, "ignoring config file",
				slog.String("error", err.Error()))

			return config{}, nil
		}

		cfg := config{}
		cfg.flatten("", doc)

		log.TraceContext(ctx, "config loaded", slog.Int("keys", len(cfg)))

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flattened YAML document.
type config map[string]any

// flatten stores every leaf of m in c under its hyphen-joined path.
func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		key = strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := value.(map[string]any); ok {
			c.flatten(key, sub)

			continue
		}

		c[key] = flagValue(value)
	}
}

// flagValue converts a decoded YAML scalar or sequence to a form Kong can
// decode. Kong parses numbers from their string form.
func flagValue(value any) any {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = flagValue(elem)
		}

		return out
	case nil, string, bool:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver]. A flag of a subcommand is looked up
// under the full command path, then under each enclosing command, nearest
// first, and finally by its bare name.
func (c config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	name := strings.ReplaceAll(flag.Name, "_", "-")

	var commands []string

	if parent != nil {
		for n := parent.Command; n != nil && n.Type == kong.CommandNode; n = n.Parent {
			commands = append(commands, n.Name)
		}
	}

	keys := make([]string, 0, len(commands)+2)

	if len(commands) > 1 {
		path := slices.Clone(commands)
		slices.Reverse(path)
		keys = append(keys, strings.Join(path, "-")+"-"+name)
	}

	for _, command := range commands {
		keys = append(keys, command+"-"+name)
	}

	for _, key := range append(keys, name) {
		if value, ok := c[key]; ok {
			return value, nil
		}
	}

	// Not found: let Kong use defaults.
	return nil, nil
}
