package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigIsValid(t *testing.T) {
	c := DefaultConfig(3, 9)
	assert.True(t, c.IsValid())
	assert.Equal(t, 3, c.Size)
	assert.Equal(t, 9, c.ActionSpace)
}

func TestConfigInvalidBoundaries(t *testing.T) {
	base := DefaultConfig(3, 9)

	zeroK := base
	zeroK.K = 0
	assert.False(t, zeroK.IsValid())

	tinyActionSpace := base
	tinyActionSpace.ActionSpace = 2
	assert.False(t, tinyActionSpace.IsValid())

	zeroBatch := base
	zeroBatch.BatchSize = 0
	assert.False(t, zeroBatch.IsValid())

	tinyFC := base
	tinyFC.FC = 1
	assert.False(t, tinyFC.IsValid())
}

func TestRoundToPow2(t *testing.T) {
	assert.Equal(t, 1, roundToPow2(0))
	assert.Equal(t, 8, roundToPow2(9))
	assert.Equal(t, 4, roundToPow2(3))
}
