package hashid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()

	c, err := New("test-salt")
	require.NoError(t, err)
	return c
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	ids := []int64{1, 2, 7, 42, 999, 100000, 987654321, 1<<40 + 17}
	for _, id := range ids {
		token, err := c.Encode(id)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		decoded, ok := c.Decode(token)
		assert.True(t, ok, "token %q for id %d should decode", token, id)
		assert.Equal(t, id, decoded)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	c := newTestCodec(t)

	first, err := c.Encode(42)
	require.NoError(t, err)
	second, err := c.Encode(42)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// A fresh codec with the same salt produces the same token, so tokens
	// survive process restarts.
	other := newTestCodec(t)
	third, err := other.Encode(42)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestEncodeRejectsNonPositiveIDs(t *testing.T) {
	c := newTestCodec(t)

	for _, id := range []int64{0, -1, -42} {
		_, err := c.Encode(id)
		assert.Error(t, err, "id %d", id)
	}
}

func TestDecodeRejectsEmptyInput(t *testing.T) {
	c := newTestCodec(t)

	_, ok := c.Decode("")
	assert.False(t, ok)
}

func TestDecodeRejectsNumericInput(t *testing.T) {
	c := newTestCodec(t)

	// A raw internal id must never pass for a token.
	for _, input := range []string{"1", "42", "987654321", "0", "-5"} {
		_, ok := c.Decode(input)
		assert.False(t, ok, "input %q", input)
	}
}

func TestDecodeRejectsForeignStrings(t *testing.T) {
	c := newTestCodec(t)

	inputs := []string{
		"not-a-token",
		"hello world",
		"!!!???",
		"abcDEFghiJKL",
		"G0XAW57BqoDY", // token shape, wrong salt
	}
	for _, input := range inputs {
		if _, ok := c.Decode(input); ok {
			// The only acceptable way a foreign string passes is a genuine
			// round-trip, which the implementation verifies; reaching here
			// means that verification is broken.
			token, err := c.Encode(mustDecode(t, c, input))
			require.NoError(t, err)
			assert.Equal(t, input, token, "input %q decoded without round-tripping", input)
		}
	}
}

func TestDecodeRejectsTamperedTokens(t *testing.T) {
	c := newTestCodec(t)

	token, err := c.Encode(42)
	require.NoError(t, err)

	tampered := token[:len(token)-1] + "_"
	decoded, ok := c.Decode(tampered)
	if ok {
		assert.NotEqual(t, int64(0), decoded)
		// Tampering may still produce a valid-looking token for a different
		// id only if it round-trips exactly; verify it is not a silent
		// acceptance of the altered string.
		reencoded, err := c.Encode(decoded)
		require.NoError(t, err)
		assert.Equal(t, tampered, reencoded)
	}
}

func TestDecodeRejectsTokensFromOtherSalts(t *testing.T) {
	c := newTestCodec(t)
	other, err := New("another-salt")
	require.NoError(t, err)

	token, err := other.Encode(42)
	require.NoError(t, err)

	decoded, ok := c.Decode(token)
	if ok {
		// Cross-salt collisions are astronomically unlikely but not
		// impossible; a pass is only legitimate via exact round-trip.
		reencoded, err := c.Encode(decoded)
		require.NoError(t, err)
		assert.Equal(t, token, reencoded)
	}
}

func mustDecode(t *testing.T, c *Codec, token string) int64 {
	t.Helper()

	id, ok := c.Decode(token)
	require.True(t, ok)
	return id
}
