//go:build noassert

package assert

// Enabled reports whether checks are compiled in.
const Enabled = false
