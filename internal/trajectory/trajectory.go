// Package trajectory implements the bounded self-play trajectory buffer and
// 8-fold symmetry augmentation (component E), generalizing the teacher's
// Augmenter hook (datatypes.go) and Example type into a concrete pipeline
// fed straight from internal/selfplay into internal/train.
package trajectory

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/mnkzero/mnkzero/internal/board"
)

// Record is one training example: a canonical board snapshot, the search
// policy at that position, and the eventual game result from that
// position's perspective, per spec.md §3 "Trajectory record".
type Record struct {
	Board board.Board
	Pi    []float32
	V     float32
}

// ErrBufferClosed names the closed-buffer condition. Push and Pop do not
// return it: after Close, Pop reports ok == false once drained, and Push
// panics (send on a closed channel).
var ErrBufferClosed = errors.New("trajectory: buffer closed")

// Buffer is a bounded multi-producer/single-consumer queue of per-game
// record lists, per spec.md §4.E. Self-play workers push one game's records
// at a time; the trainer pops and augments.
type Buffer struct {
	ch chan []Record
}

// NewBuffer returns a Buffer with room for capacity pending games before a
// producer blocks (back-pressure, spec.md §5 "Trajectory queue").
func NewBuffer(capacity int) *Buffer {
	return &Buffer{ch: make(chan []Record, capacity)}
}

// Push enqueues one completed game's records, blocking if the buffer is full.
func (b *Buffer) Push(records []Record) {
	b.ch <- records
}

// Pop dequeues one game's records, blocking while the buffer is empty. ok is
// false once Close has been called and the buffer has drained.
func (b *Buffer) Pop() (records []Record, ok bool) {
	records, ok = <-b.ch
	return records, ok
}

// Close signals that no further games will be pushed; a drained Buffer's Pop
// calls return ok == false thereafter.
func (b *Buffer) Close() {
	close(b.ch)
}

// Augment applies the full 8-fold dihedral symmetry group (4 rotations ×
// {identity, horizontal flip}) to one record, returning all 8 variants
// (including the identity transform itself as the first element), per
// spec.md §4.E. v is invariant across every variant.
func Augment(r Record) []Record {
	out := make([]Record, 0, 8)
	b := r.Board
	pi := r.Pi

	for rot := 0; rot < 4; rot++ {
		out = append(out, Record{Board: b, Pi: pi, V: r.V})
		out = append(out, Record{Board: board.FlipHorizontal(b), Pi: flipPi(pi, b.Size()), V: r.V})
		b = board.Rotate90(b)
		pi = rotatePi(pi, b.Size())
	}
	return out
}

func rotatePi(pi []float32, size int) []float32 {
	out := make([]float32, len(pi))
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			nx, ny := board.RotateMove(size, x, y)
			out[nx*size+ny] = pi[x*size+y]
		}
	}
	return out
}

func flipPi(pi []float32, size int) []float32 {
	out := make([]float32, len(pi))
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			nx, ny := board.FlipMove(size, x, y)
			out[nx*size+ny] = pi[x*size+y]
		}
	}
	return out
}

// Shuffle randomizes the order of records in place, matching the teacher's
// shuffleExamples (agogo.go) time-seeded Fisher-Yates shuffle; rng is
// injectable so tests are deterministic.
func Shuffle(records []Record, rng *rand.Rand) {
	for i := range records {
		j := rng.Intn(i + 1)
		records[i], records[j] = records[j], records[i]
	}
}
