// Package tokfmt encodes scanned token streams in a versioned binary
// container so another process can consume them without rescanning.
//
// Layout: MAGIC(4) | VERSION(2) | FLAGS(2) | HEADER_LEN(4) | BODY_LEN(8) | HEADER | BODY
//
// HEADER and BODY are canonical CBOR. The BLAKE2b-256 digest of BODY
// identifies the stream.
package tokfmt

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/clex/pkgs/lexer"
)

// Stream is a token sequence together with the source it was scanned from
type Stream struct {
	Mode      lexer.Mode
	SourceLen int
	Tokens    []lexer.Token

	// Sparse streams omit some tokens (usually whitespace), so their text
	// no longer concatenates to the source.
	Sparse bool
}

// NewStream builds a stream for tokens scanned from source, marking it
// sparse when the tokens do not cover the source exactly.
func NewStream(mode lexer.Mode, source string, tokens []lexer.Token) Stream {
	s := Stream{Mode: mode, SourceLen: len(source), Tokens: tokens}
	s.Sparse = !s.contiguous()
	return s
}

func (s Stream) contiguous() bool {
	offset := 0
	for _, tok := range s.Tokens {
		if tok.Position.Offset != offset {
			return false
		}
		offset = tok.End()
	}
	return offset == s.SourceLen
}

// Validate checks that tokens are non-empty, ordered, inside the source and,
// for dense streams, that they cover the source without gaps.
func (s Stream) Validate() error {
	if s.Mode != lexer.ModeToken && s.Mode != lexer.ModePreprocessing {
		return fmt.Errorf("invalid mode %d", s.Mode)
	}
	if s.SourceLen < 0 {
		return fmt.Errorf("negative source length %d", s.SourceLen)
	}

	end := 0
	for i, tok := range s.Tokens {
		switch {
		case !tok.Type.Valid():
			return fmt.Errorf("token %d: invalid type %s", i, tok.Type)
		case tok.Text == "":
			return fmt.Errorf("token %d: empty text", i)
		case tok.Position.Line < 1 || tok.Position.Column < 1:
			return fmt.Errorf("token %d: invalid position %s", i, tok.Position)
		case tok.Position.Offset < end:
			return fmt.Errorf("token %d: offset %d overlaps previous token ending at %d", i, tok.Position.Offset, end)
		case !s.Sparse && tok.Position.Offset != end:
			return fmt.Errorf("token %d: gap before offset %d in dense stream", i, tok.Position.Offset)
		}
		end = tok.End()
	}

	if end > s.SourceLen {
		return fmt.Errorf("tokens end at %d beyond source length %d", end, s.SourceLen)
	}
	if !s.Sparse && end != s.SourceLen {
		return fmt.Errorf("dense stream covers %d of %d source bytes", end, s.SourceLen)
	}
	return nil
}

// Source reconstructs the scanned text of a dense stream
func (s Stream) Source() (string, error) {
	if s.Sparse {
		return "", fmt.Errorf("sparse stream cannot reconstruct its source")
	}

	var sb strings.Builder
	sb.Grow(s.SourceLen)
	for _, tok := range s.Tokens {
		sb.WriteString(tok.Text)
	}
	return sb.String(), nil
}
