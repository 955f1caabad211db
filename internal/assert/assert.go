// Package assert provides precondition checks for invariants that a correct
// caller never violates. Failed checks panic; building with the noassert tag
// turns every check into a no-op.
//
// That takes a constant message so a passing check costs a branch. Checks that
// want formatted context guard a Failf call themselves, which keeps argument
// boxing off the success path:
//
//	if assert.Enabled && id >= n {
//		assert.Failf("id %d out of range", id)
//	}
package assert

import "fmt"

// That panics with msg when cond is false.
func That(cond bool, msg string) {
	if Enabled && !cond {
		fail(msg)
	}
}

// Failf panics with a formatted assertion message. It does not consult
// Enabled; callers check it together with their condition.
//
//go:noinline
func Failf(format string, args ...any) {
	fail(fmt.Sprintf(format, args...))
}

//go:noinline
func fail(msg string) {
	panic("assertion failed: " + msg)
}
