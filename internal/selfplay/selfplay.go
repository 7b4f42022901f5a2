// Package selfplay implements the self-play driver (component D): for each
// move, it runs a batched MCTS search, samples a move from the resulting
// policy, and records a trajectory, generalizing the teacher's
// Arena.Play(record=true) loop (arena.go) from chess to the mnk domain, with
// the reference implementation's temperature/noise schedule from
// original_source/src/selfplay.py.
package selfplay

import (
	"math/rand"

	"github.com/mnkzero/mnkzero/internal/board"
	"github.com/mnkzero/mnkzero/internal/evaluator"
	"github.com/mnkzero/mnkzero/internal/mcts"
	"github.com/mnkzero/mnkzero/internal/trajectory"
)

// TemperatureSchedule returns the search temperature to apply for the move
// at index i, per spec.md §4.D ("τ = 1 for i < 8, else τ = 0").
type TemperatureSchedule func(i int) float32

// NoiseSchedule returns the Dirichlet alpha to request for the move at
// index i, or nil to search without root noise, per spec.md §4.D ("α =
// SELFPLAY_ALPHA for i >= 8, else None").
type NoiseSchedule func(i int) *float32

// DefaultTemperatureSchedule matches spec.md §4.D exactly.
func DefaultTemperatureSchedule(i int) float32 {
	if i < 8 {
		return 1
	}
	return 0
}

// DefaultNoiseSchedule matches the reference implementation's observed
// move-8 switch-on behaviour (spec.md §9 "Noise schedule polarity"; see
// DESIGN.md Open Questions).
func DefaultNoiseSchedule(alpha float32) NoiseSchedule {
	return func(i int) *float32 {
		if i < 8 {
			return nil
		}
		a := alpha
		return &a
	}
}

// NoiseFromMoveZero applies Dirichlet noise at every move, the conventional
// AlphaZero recipe, used when config.Config.NoiseFromMoveEight is false (see
// DESIGN.md Open Questions, "Noise schedule polarity").
func NoiseFromMoveZero(alpha float32) NoiseSchedule {
	return func(i int) *float32 {
		a := alpha
		return &a
	}
}

// Driver runs self-play games against a fixed evaluator, per spec.md §4.D.
type Driver struct {
	Eval evaluator.Evaluator

	NumSims   int
	CPUCT     float32
	VLoss     float32
	BatchSize int

	Temperature TemperatureSchedule
	Noise       NoiseSchedule

	// ActionRand samples the move index from the policy distribution.
	// Injectable per spec.md §5 "Tests MUST inject both RNGs".
	ActionRand *rand.Rand
}

// PlayGame runs one self-play game to completion from the empty S-K board
// and returns its trajectory records with values reverse-filled from the
// terminal result, per spec.md §4.D.
func (d *Driver) PlayGame(size, k int) []trajectory.Record {
	tr := mcts.New(board.Empty(size, k), d.VLoss, d.BatchSize, d.Eval)

	var records []trajectory.Record
	for i := 0; !tr.Terminated(); i++ {
		var alpha *float32
		if d.Noise != nil {
			alpha = d.Noise(i)
		}
		if err := tr.Search(d.NumSims, d.CPUCT, alpha); err != nil {
			panic(err)
		}

		tau := float32(1)
		if d.Temperature != nil {
			tau = d.Temperature(i)
		}
		pi := tr.GetPi(tau)

		x, y := sampleMove(pi, tr.Board().Size(), d.ActionRand)
		records = append(records, trajectory.Record{Board: tr.Board(), Pi: pi})
		if err := tr.StepForward(x, y); err != nil {
			panic(err)
		}
	}

	vLast := -tr.V()
	fillValuesInReverse(records, vLast)
	return records
}

// fillValuesInReverse assigns records[k].v = -records[k+1].v, seeded from
// the terminal value, per spec.md §4.D.
func fillValuesInReverse(records []trajectory.Record, vLast float32) {
	v := vLast
	for k := len(records) - 1; k >= 0; k-- {
		records[k].V = v
		v = -v
	}
}

// sampleMove draws (x, y) from the flattened policy pi using rng, falling
// back to math/rand's global source if rng is nil.
func sampleMove(pi []float32, size int, r *rand.Rand) (int, int) {
	roll := func() float32 {
		if r != nil {
			return r.Float32()
		}
		return rand.Float32()
	}

	target := roll()
	var cum float32
	for idx, p := range pi {
		cum += p
		if target <= cum {
			return idx / size, idx % size
		}
	}
	// Floating point rounding may leave a residual; fall back to the last
	// nonzero entry.
	for idx := len(pi) - 1; idx >= 0; idx-- {
		if pi[idx] > 0 {
			return idx / size, idx % size
		}
	}
	return 0, 0
}
