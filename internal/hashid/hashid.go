// Package hashid translates internal integer ids to opaque public tokens
// and back. Tokens are the only form in which ids leave the process.
package hashid

import (
	"fmt"
	"strconv"

	hashids "github.com/speps/go-hashids/v2"
)

const minTokenLength = 12

// Codec is a deterministic, reversible id obfuscator. A given id always
// produces the same token, so tokens survive restarts and may be cached
// or bookmarked by clients.
type Codec struct {
	h *hashids.HashID
}

// New creates a Codec using the given salt. The salt must stay stable for
// the lifetime of the stored data; changing it invalidates every token
// already handed out.
func New(salt string) (*Codec, error) {
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = minTokenLength

	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hashid codec: %w", err)
	}
	return &Codec{h: h}, nil
}

// Encode maps a positive internal id to its public token.
func (c *Codec) Encode(id int64) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("id must be positive, got %d", id)
	}
	token, err := c.h.EncodeInt64([]int64{id})
	if err != nil {
		return "", fmt.Errorf("failed to encode id %d: %w", id, err)
	}
	return token, nil
}

// Decode maps a public token back to the internal id it was produced from.
// It returns false for empty input, purely numeric input (a raw internal id
// is never a valid token), tokens that fail to decode, and tokens that do
// not round-trip back to the same string. It never panics.
func (c *Codec) Decode(token string) (int64, bool) {
	if token == "" {
		return 0, false
	}
	if _, err := strconv.ParseInt(token, 10, 64); err == nil {
		return 0, false
	}

	ids, err := c.h.DecodeInt64WithError(token)
	if err != nil || len(ids) == 0 || ids[0] <= 0 {
		return 0, false
	}

	// Hashids will happily decode some strings it never produced; only a
	// token whose re-encoding matches the input is accepted.
	reencoded, err := c.h.EncodeInt64([]int64{ids[0]})
	if err != nil || reencoded != token {
		return 0, false
	}
	return ids[0], true
}
