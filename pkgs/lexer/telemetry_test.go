package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTelemetryOff tests that no telemetry is allocated by default
func TestTelemetryOff(t *testing.T) {
	s := New("int x = 1;")
	assert.Nil(t, s.tokenTelemetry)

	for _, err := range s.All(ModeToken) {
		require.NoError(t, err)
	}
	assert.Nil(t, s.Telemetry())
}

// TestTelemetryCounts tests that counts match the emitted tokens per type
func TestTelemetryCounts(t *testing.T) {
	s := New("int x = 1;\nx += 0x2;", WithTelemetry())

	expected := map[TokenType]int{}
	for tok, err := range s.All(ModeToken) {
		require.NoError(t, err)
		expected[tok.Type]++
	}

	telemetry := s.Telemetry()
	require.Len(t, telemetry, len(expected))
	for typ, count := range expected {
		assert.Equal(t, count, telemetry[typ].Count, typ.String())
		assert.Equal(t, typ, telemetry[typ].Type)
	}
	assert.Equal(t, 2, telemetry[IDENTIFIER].Count)
	assert.Equal(t, 4, telemetry[PUNCTUATOR].Count)
	assert.Equal(t, 5, telemetry[PUNCTUATOR].Bytes)
}

// TestTelemetryCountsSkippedWhitespace tests that skipped tokens are still counted
func TestTelemetryCountsSkippedWhitespace(t *testing.T) {
	s := New("a b\tc", WithTelemetry(), WithSkipWhitespace())
	for _, err := range s.All(ModeToken) {
		require.NoError(t, err)
	}
	assert.Equal(t, 2, s.Telemetry()[WHITESPACE].Count)
}

// TestTelemetryIsACopy tests that callers cannot modify scanner state
func TestTelemetryIsACopy(t *testing.T) {
	s := New("a", WithTelemetry())
	_, err := s.Next()
	require.NoError(t, err)

	snapshot := s.Telemetry()
	snapshot[IDENTIFIER] = TokenTelemetry{Count: 99}
	assert.Equal(t, 1, s.Telemetry()[IDENTIFIER].Count)
}
