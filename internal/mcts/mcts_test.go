package mcts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	distrand "golang.org/x/exp/rand"

	"github.com/mnkzero/mnkzero/internal/board"
	"github.com/mnkzero/mnkzero/internal/evaluator"
)

func newTestTree(size, k int) *Tree {
	eval := evaluator.Constant{ActionSpace: size * size, Value: 0}
	return New(board.Empty(size, k), 1, 8, eval, WithNoiseSource(distrand.NewSource(1)))
}

func TestSearchZeroSimsOnlyExpandsRoot(t *testing.T) {
	tr := newTestTree(3, 3)
	require.NoError(t, tr.Search(0, 1.5, nil))

	assert.Equal(t, 1, tr.Nodes(), "no children should be created for 0 simulations")
	root := tr.rootNode()
	assert.True(t, root.expanded)
	assert.Equal(t, uint32(0), root.n, "root visit count untouched by a 0-sim search")
}

func TestSearchExpandsAndVisitsRoot(t *testing.T) {
	tr := newTestTree(3, 3)
	require.NoError(t, tr.Search(16, 1.5, nil))

	root := tr.rootNode()
	assert.True(t, root.expanded)
	assert.Greater(t, tr.Nodes(), 1)

	var childSum uint32
	for _, c := range root.children {
		if c == noRef {
			continue
		}
		childSum += tr.nodes[c].n
	}
	assert.GreaterOrEqual(t, root.n, childSum+1, "spec invariant: N.n >= 1 + sum(child.n)")
}

func TestGetPiSumsToOneAndMasksIllegalMoves(t *testing.T) {
	tr := newTestTree(3, 3)
	require.NoError(t, tr.Search(32, 1.5, nil))

	pi := tr.GetPi(1.0)
	require.Len(t, pi, 9)

	var sum float32
	for _, p := range pi {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-4)

	root := tr.rootNode()
	for idx, p := range pi {
		x, y := idx/tr.size, idx%tr.size
		if !board.Legal(root.b, x, y) {
			assert.Zero(t, p, "illegal move must carry zero probability")
		}
	}
}

func TestGetPiZeroTemperaturePicksArgmax(t *testing.T) {
	tr := newTestTree(3, 3)
	require.NoError(t, tr.Search(64, 1.5, nil))

	pi := tr.GetPi(0)
	var sum float32
	var nonZero int
	for _, p := range pi {
		sum += p
		if p > 0 {
			nonZero++
		}
	}
	assert.InDelta(t, 1.0, sum, 1e-4)
	assert.GreaterOrEqual(t, nonZero, 1)
}

func TestSelectChildBreaksTiesTowardLowestIndex(t *testing.T) {
	tr := newTestTree(3, 3)
	require.NoError(t, tr.ensureExpanded(tr.root))

	idx := tr.selectChild(tr.root, 1.5)
	// With a uniform prior, zero visits everywhere, and Q == 0 for all
	// legal children, PUCT scores tie exactly; the lowest flattened legal
	// index must win.
	assert.Equal(t, 0, idx)
}

func TestStepForwardPreservesSubtreeStatistics(t *testing.T) {
	tr := newTestTree(3, 3)
	require.NoError(t, tr.Search(32, 1.5, nil))

	root := tr.rootNode()
	var x, y int
firstLegal:
	for xi := 0; xi < tr.size; xi++ {
		for yi := 0; yi < tr.size; yi++ {
			if board.Legal(root.b, xi, yi) {
				x, y = xi, yi
				break firstLegal
			}
		}
	}
	idx := actionIndex(tr.size, x, y)
	childRef := root.children[idx]
	require.NotEqual(t, noRef, childRef)
	wantN := tr.nodes[childRef].n
	wantSigmaV := tr.nodes[childRef].sigmaV
	wantBoard := tr.nodes[childRef].b

	require.NoError(t, tr.StepForward(x, y))

	newRoot := tr.rootNode()
	assert.True(t, board.Eq(wantBoard, newRoot.b))
	assert.Equal(t, wantN, newRoot.n)
	assert.Equal(t, wantSigmaV, newRoot.sigmaV)
	assert.Nil(t, newRoot.noise)
}

func TestStepForwardOnUnvisitedChildExpandsImmediately(t *testing.T) {
	tr := newTestTree(3, 3)
	require.NoError(t, tr.Search(0, 1.5, nil))

	require.NoError(t, tr.StepForward(0, 0))
	newRoot := tr.rootNode()
	assert.True(t, newRoot.expanded, "step_forward must expand the adopted child if it wasn't visited")
}

func TestSearchWithRootNoiseAltersPriors(t *testing.T) {
	tr := newTestTree(3, 3)
	alpha := float32(0.3)
	require.NoError(t, tr.Search(1, 1.5, &alpha))

	root := tr.rootNode()
	require.NotNil(t, root.noise)
	assert.Len(t, root.noise, tr.actionSpace)
}

func TestScenarioE1TerminalRootSearchIsNoop(t *testing.T) {
	b := board.Empty(3, 3)
	b = board.Apply(b, 0, 0)
	b = board.Apply(b, 1, 0)
	b = board.Apply(b, 0, 1)
	b = board.Apply(b, 1, 1)
	b = board.Apply(b, 0, 2) // completes a three-in-a-row on plane 1 after swap

	eval := evaluator.Constant{ActionSpace: 9, Value: 0}
	tr := New(b, 1, 8, eval)
	require.True(t, tr.Terminated())

	require.NoError(t, tr.Search(10, 1.5, nil))
	assert.Equal(t, 1, tr.Nodes(), "a terminal root must never expand or grow the arena")
}
