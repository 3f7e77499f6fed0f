package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "INVALID_ARGUMENTS: bad mode", New(ErrInvalidArguments, "bad mode").Error())

	err := Wrap(ErrDecode, "read stream", io.ErrUnexpectedEOF)
	assert.Equal(t, "DECODE_ERROR: read stream (caused by: unexpected EOF)", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestContext(t *testing.T) {
	err := NewInputError("main.c", io.EOF)

	source, ok := err.GetContext("source")
	require.True(t, ok)
	assert.Equal(t, "main.c", source)

	_, ok = err.GetContext("missing")
	assert.False(t, ok)
}

func TestInvalidArgumentSuggestions(t *testing.T) {
	err := NewInvalidArgumentError("unknown kind")
	_, ok := err.GetContext("suggestions")
	assert.False(t, ok)

	err = NewInvalidArgumentError("unknown kind", "keyword")
	suggestions, ok := err.GetContext("suggestions")
	require.True(t, ok)
	assert.Equal(t, []string{"keyword"}, suggestions)
}

func TestIsErrorTypeFollowsChain(t *testing.T) {
	lexical := NewLexicalError("<stdin>", stderrors.New("no rule"))
	wrapped := fmt.Errorf("watch: %w", lexical)

	assert.True(t, IsErrorType(lexical, ErrLexical))
	assert.True(t, IsErrorType(wrapped, ErrLexical))
	assert.False(t, IsErrorType(wrapped, ErrInputRead))
	assert.False(t, IsErrorType(nil, ErrLexical))
	assert.False(t, IsErrorType(io.EOF, ErrLexical))

	assert.Equal(t, ErrLexical, TypeOf(wrapped))
	assert.Equal(t, "", TypeOf(io.EOF))
}
