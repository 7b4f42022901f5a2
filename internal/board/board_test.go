package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyBoardIsOngoing(t *testing.T) {
	b := Empty(15, 5)
	assert.Equal(t, Ongoing, Winner(b).Kind)
	assert.False(t, b.Full())
}

func TestApplySwapsPlanes(t *testing.T) {
	b := Empty(9, 5)
	require.True(t, Legal(b, 3, 3))
	b2 := Apply(b, 3, 3)
	// the stone just placed belongs to the mover; after swap it's on plane 1
	assert.Equal(t, 1, b2.Occupant(3, 3))
	assert.False(t, Legal(b2, 3, 3))
}

func TestApplyOppositeColorCellsBothOccupied(t *testing.T) {
	b := Empty(9, 5)
	b = Apply(b, 0, 0)
	b = Apply(b, 1, 1)
	assert.Equal(t, 2, b.Occupied())
	assert.NotEqual(t, -1, b.Occupant(0, 0))
	assert.NotEqual(t, -1, b.Occupant(1, 1))
}

func TestIllegalApplyPanics(t *testing.T) {
	b := Empty(9, 5)
	b = Apply(b, 4, 4)
	assert.Panics(t, func() { Apply(b, 4, 4) })
}

func TestFullBoardNoRunIsDraw(t *testing.T) {
	// 3x3 board, run length 3, filled in an order that leaves no line of
	// three for either side (X O X / X O O / O X X): expect a draw.
	b := Empty(3, 3)
	moves := []Move{{0, 0}, {0, 1}, {0, 2}, {1, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 0}, {2, 2}}
	for _, m := range moves {
		b = Apply(b, m.X, m.Y)
	}
	require.True(t, b.Full())
	assert.Equal(t, Draw, Winner(b).Kind)
}

func TestWinDetectionHorizontal(t *testing.T) {
	b := Empty(15, 5)
	// place 4 stones for plane 0 (mover), then opponent moves elsewhere each
	// time so plane 0's run completes on the mover's own turn.
	moves := []Move{{0, 0}, {5, 5}, {0, 1}, {5, 6}, {0, 2}, {5, 7}, {0, 3}, {5, 8}, {0, 4}}
	for _, m := range moves {
		b = Apply(b, m.X, m.Y)
	}
	// after the last Apply, the stone-placer's run is now on plane 1.
	assert.Equal(t, WinPlane1, Winner(b).Kind)
}

func TestWinnerRotateInvariant(t *testing.T) {
	b := Empty(15, 5)
	moves := []Move{{7, 7}, {0, 0}, {7, 8}, {0, 1}, {7, 9}, {0, 2}, {7, 10}}
	for _, m := range moves {
		b = Apply(b, m.X, m.Y)
	}
	w := Winner(b)
	rotated := Rotate90(b)
	assert.Equal(t, w, Winner(rotated))
}

func TestWinnerFlipInvariant(t *testing.T) {
	b := Empty(15, 5)
	moves := []Move{{7, 7}, {0, 0}, {7, 8}, {0, 1}, {7, 9}, {0, 2}, {7, 10}}
	for _, m := range moves {
		b = Apply(b, m.X, m.Y)
	}
	w := Winner(b)
	flipped := FlipHorizontal(b)
	assert.Equal(t, w, Winner(flipped))
}

func TestTerminalValueFromSideToMovePerspective(t *testing.T) {
	// E3: five stones belonging to the side that just moved (now on plane 1)
	// with the opponent to move next: terminal value is -1.
	b := Empty(15, 5)
	moves := []Move{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}, {1, 2}, {0, 3}, {1, 3}, {0, 4}}
	for _, m := range moves {
		b = Apply(b, m.X, m.Y)
	}
	value, terminal := TerminalValue(b)
	require.True(t, terminal)
	assert.Equal(t, float32(-1), value)
}

func TestLegalMovesExcludesOccupied(t *testing.T) {
	b := Empty(3, 3)
	b = Apply(b, 1, 1)
	moves := LegalMoves(b)
	assert.Len(t, moves, 8)
	for _, m := range moves {
		assert.False(t, m.X == 1 && m.Y == 1)
	}
}

func TestPlaneFloatsShape(t *testing.T) {
	b := Empty(5, 4)
	b = Apply(b, 0, 0)
	dst := make([]float32, 2*25)
	b.PlaneFloats(dst)
	assert.Equal(t, float32(0), dst[0]) // plane0 cell (0,0) empty post-swap
	assert.Equal(t, float32(1), dst[25+0])
}
