// Package invariant provides contract assertions for internal consistency
// checks. A violation is a programming error, never bad input, so every
// function panics instead of returning an error.
package invariant

import (
	"fmt"
	"runtime"
)

// Precondition checks an input contract at function entry.
func Precondition(condition bool, format string, args ...any) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before function return.
//
// Example:
//
//	typ, n, ok := r.Match(rest)
//	invariant.Postcondition(!ok || n <= len(rest), "rule consumed past the buffer")
func Postcondition(condition bool, format string, args ...any) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks an internal invariant, typically loop progress.
func Invariant(condition bool, format string, args ...any) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// InRange panics if value is outside [minVal, maxVal].
func InRange(value, minVal, maxVal int, name string) {
	if value < minVal || value > maxVal {
		fail("PRECONDITION", "%s must be in range [%d, %d], got %d", name, minVal, maxVal, value)
	}
}

// fail panics with the violation and the file:line of the failing check
func fail(kind, format string, args ...any) {
	msg := fmt.Sprintf("%s VIOLATION: %s", kind, fmt.Sprintf(format, args...))

	// skip runtime.Caller, fail and the exported wrapper
	if _, file, line, ok := runtime.Caller(2); ok {
		msg += fmt.Sprintf("\n  at %s:%d", file, line)
	}
	panic(msg)
}
