package lexer

import (
	"errors"
	"fmt"
)

// ErrNoMatch is matched by every *NoMatchError via errors.Is.
var ErrNoMatch = errors.New("no lexical rule matches")

// NoMatchError reports that no alternative of a composition matches at a
// position. The scanner does not resynchronize; skipping ahead is up to the
// caller.
type NoMatchError struct {
	Mode     Mode
	Position Position
	Char     rune // first character at Position
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no %s rule matches at line %d, column %d: %q",
		e.Mode, e.Position.Line, e.Position.Column, e.Char)
}

func (e *NoMatchError) Is(target error) bool {
	return target == ErrNoMatch
}
