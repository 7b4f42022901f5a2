package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnkzero/mnkzero/internal/board"
)

func TestPNGProducesValidHeader(t *testing.T) {
	b := board.Empty(3, 3)
	b = board.Apply(b, 0, 0)

	var buf bytes.Buffer
	require.NoError(t, PNG(b, Options{}, &buf))

	pngMagic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}
