package train

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueMSEExactMatchIsZero(t *testing.T) {
	assert.Equal(t, float32(0), valueMSE([]float32{1, -1, 0.5}, []float32{1, -1, 0.5}))
}

func TestValueMSEKnownResidual(t *testing.T) {
	got := valueMSE([]float32{1, 1}, []float32{0, 0})
	assert.InDelta(t, 1.0, got, 1e-6)
}

func TestValueMSEMismatchedLengthsIsZero(t *testing.T) {
	assert.Equal(t, float32(0), valueMSE([]float32{1}, []float32{1, 2}))
}
