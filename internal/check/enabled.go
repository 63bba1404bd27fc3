//go:build allocdebug

package check

// Enabled reports whether assertions are compiled in.
const Enabled = true

// That panics with a *Violation when cond is false.
func That(cond bool, format string, args ...any) {
	if !cond {
		fail(format, args...)
	}
}
