package mcts

import "github.com/mnkzero/mnkzero/internal/board"

// ref indexes into Tree.nodes; it plays the role of the teacher's Naughty
// arena index (mcts/tree.go), generalized from a chess-move index to a
// flattened m-n-k cell index.
type ref int32

const noRef ref = -1

// node is one arena slot: one per visited canonical board, per spec.md §3.
type node struct {
	b board.Board

	isTerminal bool
	vTerm      float32

	expanded bool // prior/v installed (Fresh -> Evaluated transition)
	reserved bool // leaf reserved mid-batch, awaiting evaluator install

	prior []float32 // P(s, ·), length actionSpace; nil until expanded
	v     float32   // evaluator value, or vTerm if terminal

	children []ref // lazily populated, length actionSpace; nil until expanded
	n        uint32
	sigmaV   float32

	noise []float32 // Dirichlet noise, set only on the root when requested
}

// q returns Q(s, a) from this node's own perspective: sigma_v / max(n, 1).
func (nd *node) q() float32 {
	d := nd.n
	if d == 0 {
		d = 1
	}
	return nd.sigmaV / float32(d)
}

// priorAt returns the (possibly noise-mixed) prior for action idx.
func (nd *node) priorAt(idx int) float32 {
	p := nd.prior[idx]
	if nd.noise != nil {
		return 0.75*p + 0.25*nd.noise[idx]
	}
	return p
}
