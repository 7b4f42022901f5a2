// Package evalmatch implements the evaluator match (component G): an
// alternating-move head-to-head game between a candidate and the current
// best network, deciding whether the candidate should be promoted,
// generalizing the teacher's Arena.Play(record=false) head-to-head loop
// (arena.go) from chess colors to side 0/1.
package evalmatch

import (
	"github.com/mnkzero/mnkzero/internal/board"
	"github.com/mnkzero/mnkzero/internal/evaluator"
	"github.com/mnkzero/mnkzero/internal/mcts"
)

// Config holds the match's search budget, per spec.md §4.G.
type Config struct {
	NumSims   int
	CPUCT     float32
	VLoss     float32
	BatchSize int
}

// Play runs one game, side 0 using evalSide0 and side 1 using evalSide1,
// each move driven by a fresh MCTS tree over the current canonical position
// at EVAL_NUM_SIMS/EVAL_CPUCT, no root noise, moves chosen at τ = 0, per
// spec.md §4.G. It returns true iff side 0 won.
func Play(size, k int, evalSide0, evalSide1 evaluator.Evaluator, cfg Config) bool {
	b := board.Empty(size, k)
	side := 0
	evaluators := [2]evaluator.Evaluator{evalSide0, evalSide1}

	for {
		tr := mcts.New(b, cfg.VLoss, cfg.BatchSize, evaluators[side])
		if tr.Terminated() {
			return sideZeroWon(tr.V(), side)
		}
		if err := tr.Search(cfg.NumSims, cfg.CPUCT, nil); err != nil {
			panic(err)
		}

		pi := tr.GetPi(0)
		x, y := argmaxMove(pi, size)
		b = board.Apply(b, x, y)
		side = 1 - side
	}
}

// sideZeroWon interprets the terminal tree's value (from the perspective of
// the side to move at the terminal node, which is `side`) as a side-0-win
// verdict.
func sideZeroWon(terminalValue float32, sideToMove int) bool {
	if terminalValue == 0 {
		return false
	}
	sideZeroValue := terminalValue
	if sideToMove != 0 {
		sideZeroValue = -terminalValue
	}
	return sideZeroValue > 0
}

// argmaxMove picks the highest-probability legal move, breaking ties toward
// the lowest flattened index, matching τ = 0 selection semantics.
func argmaxMove(pi []float32, size int) (int, int) {
	best := -1
	var bestP float32 = -1
	for idx, p := range pi {
		if p > bestP {
			bestP = p
			best = idx
		}
	}
	return best / size, best % size
}
