//go:build !pprof

package profile

// Enabled reports whether the binary was built with the pprof tag.
const Enabled = false

// Modes returns nil: no profiling modes are compiled in.
func Modes() []string { return nil }

func start(Config) Stopper { return ignore{} }
