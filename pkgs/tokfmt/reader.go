package tokfmt

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	clexerrors "github.com/aledsdavies/clex/pkgs/errors"
	"github.com/aledsdavies/clex/pkgs/lexer"
)

// Length limits applied before allocating, so a corrupt preamble cannot
// trigger huge reads.
const (
	maxHeaderLen = 4 * 1024          // header is three small integers and a mode name
	maxBodyLen   = 256 * 1024 * 1024 // 256MB body
	maxTokens    = 1 << 26
)

var decMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements:  maxTokens,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("tokfmt: CBOR decode options: %v", err))
	}
	return dm
}()

// Read reads a stream from r and returns it with the digest of its body.
func Read(r io.Reader) (Stream, [32]byte, error) {
	s, digest, err := (&Reader{r: r}).ReadStream()
	if err != nil {
		return Stream{}, [32]byte{}, clexerrors.Wrap(clexerrors.ErrDecode, "failed to read token stream", err)
	}
	return s, digest, nil
}

// Reader handles reading streams from binary format.
type Reader struct {
	r io.Reader
}

// NewReader returns a Reader for r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadStream reads one stream from the underlying reader, validates it and
// returns the computed body digest.
func (rd *Reader) ReadStream() (Stream, [32]byte, error) {
	var preamble [preambleLen]byte
	if _, err := io.ReadFull(rd.r, preamble[:]); err != nil {
		return Stream{}, [32]byte{}, fmt.Errorf("read preamble: %w", err)
	}

	magic := string(preamble[0:4])
	if magic != Magic {
		return Stream{}, [32]byte{}, fmt.Errorf("invalid magic: got %q, expected %q", magic, Magic)
	}

	version := binary.LittleEndian.Uint16(preamble[4:6])
	if version != Version {
		return Stream{}, [32]byte{}, fmt.Errorf("unsupported version: got 0x%04x, expected 0x%04x", version, Version)
	}

	flags := Flags(binary.LittleEndian.Uint16(preamble[6:8]))
	if flags&^knownFlags != 0 {
		return Stream{}, [32]byte{}, fmt.Errorf("unsupported flags: 0x%04x (unknown bits: 0x%04x)", flags, flags&^knownFlags)
	}

	headerLen := binary.LittleEndian.Uint32(preamble[8:12])
	bodyLen := binary.LittleEndian.Uint64(preamble[12:20])
	if headerLen > maxHeaderLen {
		return Stream{}, [32]byte{}, fmt.Errorf("header length %d exceeds maximum %d", headerLen, maxHeaderLen)
	}
	if bodyLen > maxBodyLen {
		return Stream{}, [32]byte{}, fmt.Errorf("body length %d exceeds maximum %d", bodyLen, maxBodyLen)
	}

	headerBuf := make([]byte, headerLen)
	if _, err := io.ReadFull(rd.r, headerBuf); err != nil {
		return Stream{}, [32]byte{}, fmt.Errorf("read header: %w", err)
	}
	var h header
	if err := decMode.Unmarshal(headerBuf, &h); err != nil {
		return Stream{}, [32]byte{}, fmt.Errorf("parse header: %w", err)
	}

	bodyBuf := make([]byte, bodyLen)
	if _, err := io.ReadFull(rd.r, bodyBuf); err != nil {
		return Stream{}, [32]byte{}, fmt.Errorf("read body: %w", err)
	}
	var records []record
	if err := decMode.Unmarshal(bodyBuf, &records); err != nil {
		return Stream{}, [32]byte{}, fmt.Errorf("parse body: %w", err)
	}

	s, err := buildStream(h, flags, records)
	if err != nil {
		return Stream{}, [32]byte{}, err
	}
	return s, blake2b.Sum256(bodyBuf), nil
}

func buildStream(h header, flags Flags, records []record) (Stream, error) {
	mode, err := lexer.ParseMode(h.Mode)
	if err != nil {
		return Stream{}, fmt.Errorf("parse header: %w", err)
	}
	if h.TokenCount != uint64(len(records)) {
		return Stream{}, fmt.Errorf("header declares %d tokens, body has %d", h.TokenCount, len(records))
	}
	if h.SourceLen > maxBodyLen {
		return Stream{}, fmt.Errorf("source length %d exceeds maximum %d", h.SourceLen, maxBodyLen)
	}

	s := Stream{
		Mode:      mode,
		SourceLen: int(h.SourceLen),
		Tokens:    make([]lexer.Token, len(records)),
		Sparse:    flags&FlagSparse != 0,
	}
	for i, rec := range records {
		typ, ok := lexer.ParseTokenType(rec.Kind)
		if !ok {
			return Stream{}, fmt.Errorf("token %d: unknown kind %q", i, rec.Kind)
		}
		if rec.Line > maxBodyLen || rec.Column > maxBodyLen || rec.Offset > h.SourceLen {
			return Stream{}, fmt.Errorf("token %d: position out of range", i)
		}
		s.Tokens[i] = lexer.Token{
			Type: typ,
			Text: string(rec.Text),
			Position: lexer.Position{
				Line:   int(rec.Line),
				Column: int(rec.Column),
				Offset: int(rec.Offset),
			},
		}
	}

	if err := s.Validate(); err != nil {
		return Stream{}, fmt.Errorf("invalid stream: %w", err)
	}
	return s, nil
}
