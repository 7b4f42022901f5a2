package board

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardGobRoundTrip(t *testing.T) {
	b := Empty(3, 3)
	b = Apply(b, 0, 0)
	b = Apply(b, 1, 1)

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(b))

	var decoded Board
	require.NoError(t, gob.NewDecoder(&buf).Decode(&decoded))

	assert.True(t, Eq(b, decoded))
	assert.Equal(t, b.ToMove(), decoded.ToMove())
}
