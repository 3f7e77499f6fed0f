package tokfmt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	clexerrors "github.com/aledsdavies/clex/pkgs/errors"
)

const (
	// Magic is the file magic number "CLEX" (4 bytes)
	Magic = "CLEX"

	// Version is the format version (uint16, little-endian)
	// 0x0001 = version 1.0
	Version uint16 = 0x0001

	preambleLen = 20
)

// Flags is a bitmask for optional features
type Flags uint16

const (
	// FlagSparse marks a stream whose tokens do not cover the source
	FlagSparse Flags = 1 << 0

	// Bits 1-15 reserved for future use
	knownFlags = FlagSparse
)

// header is the CBOR form of the stream metadata
type header struct {
	Mode       string `cbor:"mode"`
	SourceLen  uint64 `cbor:"source_len"`
	TokenCount uint64 `cbor:"token_count"`
}

// record is the CBOR form of one token. Text is a byte string so the exact
// source bytes survive even when they are not valid UTF-8.
type record struct {
	Kind   string `cbor:"k"`
	Text   []byte `cbor:"t"`
	Line   uint64 `cbor:"l"`
	Column uint64 `cbor:"c"`
	Offset uint64 `cbor:"o"`
}

var encMode = func() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("tokfmt: canonical CBOR options: %v", err))
	}
	return em
}()

// Write validates s, writes it to w and returns the BLAKE2b-256 digest of
// the encoded body.
func Write(w io.Writer, s Stream) ([32]byte, error) {
	digest, err := (&Writer{w: w}).WriteStream(s)
	if err != nil {
		return [32]byte{}, clexerrors.Wrap(clexerrors.ErrEncode, "failed to write token stream", err).
			WithContext("mode", s.Mode.String())
	}
	return digest, nil
}

// Writer handles writing streams to binary format.
type Writer struct {
	w io.Writer
}

// NewWriter returns a Writer for w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteStream writes the stream to the underlying writer.
// Header and body are buffered first so the preamble can carry their lengths.
func (wr *Writer) WriteStream(s Stream) ([32]byte, error) {
	if err := s.Validate(); err != nil {
		return [32]byte{}, fmt.Errorf("invalid stream: %w", err)
	}

	headerBytes, err := encMode.Marshal(header{
		Mode:       s.Mode.String(),
		SourceLen:  uint64(s.SourceLen),
		TokenCount: uint64(len(s.Tokens)),
	})
	if err != nil {
		return [32]byte{}, fmt.Errorf("encode header: %w", err)
	}

	records := make([]record, len(s.Tokens))
	for i, tok := range s.Tokens {
		records[i] = record{
			Kind:   tok.Type.String(),
			Text:   []byte(tok.Text),
			Line:   uint64(tok.Position.Line),
			Column: uint64(tok.Position.Column),
			Offset: uint64(tok.Position.Offset),
		}
	}
	bodyBytes, err := encMode.Marshal(records)
	if err != nil {
		return [32]byte{}, fmt.Errorf("encode body: %w", err)
	}

	if len(headerBytes) > maxHeaderLen {
		return [32]byte{}, fmt.Errorf("header length %d exceeds maximum %d", len(headerBytes), maxHeaderLen)
	}
	if len(bodyBytes) > maxBodyLen {
		return [32]byte{}, fmt.Errorf("body length %d exceeds maximum %d", len(bodyBytes), maxBodyLen)
	}

	flags := Flags(0)
	if s.Sparse {
		flags |= FlagSparse
	}

	var buf bytes.Buffer
	buf.Grow(preambleLen + len(headerBytes) + len(bodyBytes))
	writePreamble(&buf, flags, uint32(len(headerBytes)), uint64(len(bodyBytes)))
	buf.Write(headerBytes)
	buf.Write(bodyBytes)

	if _, err := wr.w.Write(buf.Bytes()); err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(bodyBytes), nil
}

// writePreamble writes the fixed-size preamble (20 bytes)
func writePreamble(buf *bytes.Buffer, flags Flags, headerLen uint32, bodyLen uint64) {
	var preamble [preambleLen]byte
	copy(preamble[0:4], Magic)
	binary.LittleEndian.PutUint16(preamble[4:6], Version)
	binary.LittleEndian.PutUint16(preamble[6:8], uint16(flags))
	binary.LittleEndian.PutUint32(preamble[8:12], headerLen)
	binary.LittleEndian.PutUint64(preamble[12:20], bodyLen)
	buf.Write(preamble[:])
}
