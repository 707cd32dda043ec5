package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parsed programs keyed by source hash and parse mode.
var globalCache sync.Map

// entry parses its source at most once.
type entry struct {
	once sync.Once
	prog *Program
}

// cacheKey combines the source hash with the options that change the parse.
func (o options) cacheKey(source string) string {
	key := strconv.FormatUint(xxh3.HashString(source), 36)
	if o.bare {
		key += ":bare"
	}

	return key
}

// parseCached parses source, reusing the result of an earlier parse of the
// same text in the same mode.
func (o options) parseCached(ctx context.Context, source string) *Program {
	key := o.cacheKey(source)

	value, hit := globalCache.LoadOrStore(key, new(entry))

	ent, ok := value.(*entry)
	if !ok {
		return o.parse(ctx, source)
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", hit))

	ent.once.Do(func() {
		ent.prog = o.parse(ctx, source)
	})

	// A hash collision must never substitute another program.
	if ent.prog.Source != source {
		o.logger.DebugContext(ctx, "cache collision", slog.String("key", key))

		return o.parse(ctx, source)
	}

	return ent.prog
}

// ClearCache removes all cached programs.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}

// ReadSource reads all of r with asynchronous read-ahead.
func ReadSource(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return string(data), nil
}
