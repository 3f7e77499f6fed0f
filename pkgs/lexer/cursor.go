package lexer

import (
	"io"
	"unicode/utf8"

	"github.com/aledsdavies/clex/internal/invariant"
)

// Cursor is an immutable scanning position over a source buffer. Trying a
// rule returns a new Cursor on success and leaves the receiver untouched, so
// a failed attempt costs nothing beyond the match itself.
type Cursor struct {
	src string
	pos Position
}

// NewCursor returns a cursor at line 1, column 1 of src.
func NewCursor(src string) Cursor {
	return Cursor{src: src, pos: Position{Line: 1, Column: 1}}
}

// Position returns where the next token would start.
func (c Cursor) Position() Position { return c.pos }

// Remaining returns the unconsumed part of the buffer.
func (c Cursor) Remaining() string { return c.src[c.pos.Offset:] }

// Done reports whether the whole buffer has been consumed.
func (c Cursor) Done() bool { return c.pos.Offset >= len(c.src) }

// Try attempts r at the cursor. On success it returns the token and the
// advanced cursor; otherwise it returns the receiver and false.
func (c Cursor) Try(r Rule) (Token, Cursor, bool) {
	rest := c.src[c.pos.Offset:]
	typ, n, ok := r.Match(rest)
	if !ok {
		return Token{}, c, false
	}
	invariant.Postcondition(n > 0 && n <= len(rest), "rule %v consumed %d of %d remaining bytes", r, n, len(rest))

	text := rest[:n]
	return Token{Type: typ, Text: text, Position: c.pos}, c.advance(text), true
}

// Next applies the composition for mode. At the end of the buffer it
// returns io.EOF; when no alternative matches it returns a *NoMatchError
// and the receiver.
func (c Cursor) Next(mode Mode) (Token, Cursor, error) {
	if c.Done() {
		return Token{}, c, io.EOF
	}
	tok, next, ok := c.Try(mode.Grammar())
	if !ok {
		ch, _ := utf8.DecodeRuneInString(c.Remaining())
		return Token{}, c, &NoMatchError{Mode: mode, Position: c.pos, Char: ch}
	}
	return tok, next, nil
}

// advance moves past text. Each "\r\n", "\n" or "\r" starts a new line and
// the column restarts after the last one.
func (c Cursor) advance(text string) Cursor {
	next := c
	next.pos.Offset += len(text)

	lines, tail := 0, 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			fallthrough
		case '\n':
			lines++
			tail = i + 1
		}
	}

	if lines == 0 {
		next.pos.Column += utf8.RuneCountInString(text)
		return next
	}
	next.pos.Line += lines
	next.pos.Column = 1 + utf8.RuneCountInString(text[tail:])
	return next
}
