//go:build !allocdebug

package check

// Enabled reports whether assertions are compiled in.
const Enabled = false

// That is a no-op without the allocdebug build tag.
func That(bool, string, ...any) {}
