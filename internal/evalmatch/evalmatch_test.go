package evalmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mnkzero/mnkzero/internal/evaluator"
)

func TestPlayTerminatesAndReturnsBool(t *testing.T) {
	cfg := Config{NumSims: 4, CPUCT: 1.5, VLoss: 1, BatchSize: 4}
	cand := evaluator.HashOracle{ActionSpace: 9, Size: 3}
	best := evaluator.HashOracle{ActionSpace: 9, Size: 3}

	// Deterministic oracles on a small board must terminate in finite moves
	// (at most S*S plies); this simply exercises that Play returns rather
	// than looping forever, and is type-checked against a bool result.
	result := Play(3, 3, cand, best, cfg)
	assert.IsType(t, true, result)
}

func TestSideZeroWonInterpretsPerspective(t *testing.T) {
	assert.True(t, sideZeroWon(1, 0))
	assert.False(t, sideZeroWon(1, 1))
	assert.False(t, sideZeroWon(0, 0))
	assert.True(t, sideZeroWon(-1, 1))
}

func TestArgmaxMoveBreaksTiesLow(t *testing.T) {
	pi := []float32{0.5, 0.5, 0, 0}
	x, y := argmaxMove(pi, 2)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
}
