package hashid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntity struct {
	id     int64
	userID int64

	token     string
	userToken string
}

func (e *fakeEntity) TokenProjections() []Projection {
	return []Projection{
		{Target: &e.token, ID: e.id},
		{Target: &e.userToken, ID: e.userID},
	}
}

func TestApplyFillsDeclaredProjections(t *testing.T) {
	c := newTestCodec(t)

	e := &fakeEntity{id: 7, userID: 11}
	require.NoError(t, Apply(c, e))

	decoded, ok := c.Decode(e.token)
	require.True(t, ok)
	assert.Equal(t, int64(7), decoded)

	decoded, ok = c.Decode(e.userToken)
	require.True(t, ok)
	assert.Equal(t, int64(11), decoded)
}

func TestApplySkipsZeroIDs(t *testing.T) {
	c := newTestCodec(t)

	e := &fakeEntity{id: 7}
	require.NoError(t, Apply(c, e))

	assert.NotEmpty(t, e.token)
	assert.Empty(t, e.userToken)
}
