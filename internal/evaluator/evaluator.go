// Package evaluator defines the opaque batched policy+value oracle boundary
// (component B) and ships two reference implementations used by tests: a
// constant oracle and a deterministic hash-based oracle, per spec.md §9
// ("Dynamic dispatch of evaluator" — provide at least two implementations).
package evaluator

import (
	"github.com/pkg/errors"

	"github.com/mnkzero/mnkzero/internal/board"
)

// Evaluator is the callable boundary to the neural network: a pure function
// of a batch of canonical boards to (policy, value) pairs. Implementations
// must be safe to call from whichever goroutine the MCTS engine runs on;
// they may block arbitrarily, and must not assume hidden state survives
// between calls (spec.md §4.B).
type Evaluator interface {
	// Evaluate returns, for each board in boards, a policy over the S*S
	// flattened cells (row-major, summing to 1) and a scalar value in
	// [-1, 1]. len(policy) == len(value) == len(boards) on success.
	Evaluate(boards []board.Board) (policy [][]float32, value []float32, err error)
}

// ErrEvaluatorFailure is a sentinel for evaluator failures. The MCTS engine
// does not wrap evaluator errors with it: it wraps them with a context
// message (errors.Cause still returns the original error) and aborts the
// search that triggered them.
var ErrEvaluatorFailure = errors.New("evaluator: underlying evaluation failed")

// Constant always returns the same uniform policy and fixed value,
// regardless of input. Used by scenario E1 in spec.md §8 and as a baseline
// in tests that only care about visit-count shape, not policy quality.
type Constant struct {
	ActionSpace int
	Value       float32
}

// Evaluate implements Evaluator.
func (c Constant) Evaluate(boards []board.Board) ([][]float32, []float32, error) {
	policy := make([][]float32, len(boards))
	value := make([]float32, len(boards))
	uniform := make([]float32, c.ActionSpace)
	p := float32(1) / float32(c.ActionSpace)
	for i := range uniform {
		uniform[i] = p
	}
	for i := range boards {
		cp := make([]float32, c.ActionSpace)
		copy(cp, uniform)
		policy[i] = cp
		value[i] = c.Value
	}
	return policy, value, nil
}

// HashOracle derives a deterministic (policy, value) pair from each board's
// bit-plane bytes, so that distinct positions get distinct (but
// reproducible) priors without any trained network — useful for
// property-based tests that need a varying but deterministic evaluator.
type HashOracle struct {
	ActionSpace int
	Size        int
}

// Evaluate implements Evaluator.
func (h HashOracle) Evaluate(boards []board.Board) ([][]float32, []float32, error) {
	policy := make([][]float32, len(boards))
	value := make([]float32, len(boards))
	for i, b := range boards {
		buf := make([]float32, 2*h.Size*h.Size)
		b.PlaneFloats(buf)
		policy[i] = hashPolicy(buf, h.ActionSpace)
		value[i] = hashValue(buf)
	}
	return policy, value, nil
}

// hashPolicy produces a reproducible probability simplex over ActionSpace
// cells by hashing the whole of buf once per cell, seeded with the cell index.
func hashPolicy(buf []float32, actionSpace int) []float32 {
	out := make([]float32, actionSpace)
	var sum float32
	for i := range out {
		h := fnv1aFloats(buf, uint32(i)+1)
		v := float32(h%1000) + 1
		out[i] = v
		sum += v
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func hashValue(buf []float32) float32 {
	h := fnv1aFloats(buf, 0x9e3779b9)
	// map into [-1, 1]
	return float32(h%2000)/1000 - 1
}

func fnv1aFloats(buf []float32, seed uint32) uint32 {
	const prime = 16777619
	h := uint32(2166136261) ^ seed
	for _, f := range buf {
		b := uint32(0)
		if f > 0 {
			b = 1
		}
		h ^= b
		h *= prime
	}
	return h
}
