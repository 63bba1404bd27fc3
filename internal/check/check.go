// Package check provides contract assertions that compile to nothing unless
// the allocdebug build tag is set.
//
//	go test -tags allocdebug ./...
//
// Allocators use them to catch undefined behaviour such as foreign blocks,
// double frees and stale checkpoints during development.
package check

import "fmt"

// Violation is the panic value raised by a failed assertion.
type Violation struct {
	Msg string
}

func (v *Violation) Error() string {
	return "contract violation: " + v.Msg
}

func fail(format string, args ...any) {
	panic(&Violation{Msg: fmt.Sprintf(format, args...)})
}
