// Package board implements the immutable m-n-k board (component A of
// SPEC_FULL.md): a fixed S×S grid, win detection for a run of K collinear
// stones, and the canonical two-bit-plane representation the rest of the
// engine searches over.
//
// A Board is always kept in canonical form: plane 0 holds the stones of the
// side to move, plane 1 holds the opponent's. Applying a move places a stone
// on plane 0, then swaps the planes — the side to move flips implicitly,
// exactly as spec.md §4.A describes.
package board

import "fmt"

// Board is an immutable m-n-k board snapshot. The zero value is not valid;
// construct with Empty.
type Board struct {
	size, k int
	// toMove is the absolute (game-level) identity of the side to move,
	// 0 or 1. It never affects legality/apply/winner (those only look at
	// the canonical planes) but lets callers (self-play, evaluator match)
	// track which absolute player a canonical value belongs to.
	toMove int
	planes [2]bitset
}

// Move is a coordinate into an empty cell.
type Move struct {
	X, Y int
}

// Empty returns the empty board of side s with a winning run of length k,
// side 0 to move.
func Empty(s, k int) Board {
	if s <= 0 || k <= 0 || k > s {
		panic(fmt.Sprintf("board: invalid size=%d k=%d", s, k))
	}
	return Board{
		size: s,
		k:    k,
		planes: [2]bitset{
			newBitset(s * s),
			newBitset(s * s),
		},
	}
}

// Size returns S.
func (b Board) Size() int { return b.size }

// InARow returns K.
func (b Board) InARow() int { return b.k }

// ToMove returns the absolute identity (0 or 1) of the side to move.
func (b Board) ToMove() int { return b.toMove }

func (b Board) index(x, y int) int { return x*b.size + y }

func (b Board) inRange(x, y int) bool {
	return x >= 0 && x < b.size && y >= 0 && y < b.size
}

// Occupant reports which plane (0, 1) occupies (x, y), or -1 if empty.
func (b Board) Occupant(x, y int) int {
	idx := b.index(x, y)
	switch {
	case b.planes[0].get(idx):
		return 0
	case b.planes[1].get(idx):
		return 1
	default:
		return -1
	}
}

// Legal reports whether (x, y) is in range and empty on both planes.
func Legal(b Board, x, y int) bool {
	return b.inRange(x, y) && b.Occupant(x, y) == -1
}

// Apply returns the board after placing a stone for the side to move at
// (x, y), with planes swapped (side to move flips implicitly). Panics if the
// move is illegal — spec.md §4.C calls an illegal move a fatal programmer
// error, and Apply is the one place that invariant is enforced at the data
// layer.
func Apply(b Board, x, y int) Board {
	if !Legal(b, x, y) {
		panic(fmt.Sprintf("board: illegal move (%d, %d)", x, y))
	}
	next := Board{
		size:   b.size,
		k:      b.k,
		toMove: 1 - b.toMove,
		planes: [2]bitset{b.planes[1].clone(), b.planes[0].clone()},
	}
	// The stone just placed belonged to the mover, now recorded as the
	// opponent's plane (plane 1) from the next side-to-move's perspective.
	next.planes[1].set(b.index(x, y))
	return next
}

// Occupied reports the total number of occupied cells.
func (b Board) Occupied() int {
	return b.planes[0].popcount() + b.planes[1].popcount()
}

// Full reports whether every cell is occupied.
func (b Board) Full() bool {
	return b.Occupied() == b.size*b.size
}

// LegalMoves returns every legal (x, y) pair, in row-major order.
func LegalMoves(b Board) []Move {
	moves := make([]Move, 0, b.size*b.size-b.Occupied())
	for x := 0; x < b.size; x++ {
		for y := 0; y < b.size; y++ {
			if Legal(b, x, y) {
				moves = append(moves, Move{X: x, Y: y})
			}
		}
	}
	return moves
}

// PlaneFloats writes the board's two planes into a flat (2, S, S) float32
// buffer, plane 0 first, matching the evaluator's input contract
// (spec.md §6: shape (B, 2, S, S), values in {0, 1}).
func (b Board) PlaneFloats(dst []float32) {
	n := b.size * b.size
	if len(dst) != 2*n {
		panic(fmt.Sprintf("board: dst length %d, want %d", len(dst), 2*n))
	}
	for i := 0; i < n; i++ {
		if b.planes[0].get(i) {
			dst[i] = 1
		} else {
			dst[i] = 0
		}
		if b.planes[1].get(i) {
			dst[n+i] = 1
		} else {
			dst[n+i] = 0
		}
	}
}

// Eq reports whether two boards have the same size, run length k and
// identical planes; toMove is not compared (mirroring the teacher's
// game.State.Eq, which only compares positions).
func Eq(a, b Board) bool {
	return a.size == b.size && a.k == b.k &&
		a.planes[0].equal(b.planes[0]) && a.planes[1].equal(b.planes[1])
}

func (b Board) String() string {
	out := make([]byte, 0, b.size*(b.size+1))
	for x := 0; x < b.size; x++ {
		for y := 0; y < b.size; y++ {
			switch b.Occupant(x, y) {
			case 0:
				out = append(out, 'X')
			case 1:
				out = append(out, 'O')
			default:
				out = append(out, '.')
			}
		}
		out = append(out, '\n')
	}
	return string(out)
}
