package board

// Rotate90 returns b rotated 90 degrees clockwise: cell (x, y) moves to
// (y, size-1-x). Used both directly (tests: winner(rotate(b)) == winner(b))
// and by the trajectory package's 8-fold augmentation.
func Rotate90(b Board) Board {
	out := Board{size: b.size, k: b.k, toMove: b.toMove, planes: [2]bitset{newBitset(b.size * b.size), newBitset(b.size * b.size)}}
	for x := 0; x < b.size; x++ {
		for y := 0; y < b.size; y++ {
			occ := b.Occupant(x, y)
			if occ < 0 {
				continue
			}
			nx, ny := y, b.size-1-x
			out.planes[occ].set(out.index(nx, ny))
		}
	}
	return out
}

// FlipHorizontal mirrors b left-right: cell (x, y) moves to (x, size-1-y).
func FlipHorizontal(b Board) Board {
	out := Board{size: b.size, k: b.k, toMove: b.toMove, planes: [2]bitset{newBitset(b.size * b.size), newBitset(b.size * b.size)}}
	for x := 0; x < b.size; x++ {
		for y := 0; y < b.size; y++ {
			occ := b.Occupant(x, y)
			if occ < 0 {
				continue
			}
			ny := b.size - 1 - y
			out.planes[occ].set(out.index(x, ny))
		}
	}
	return out
}

// RotateMove rotates a flattened move index (x*size+y) the same way Rotate90
// rotates a board, so a policy vector pi can be transformed in lock-step with
// its board.
func RotateMove(size, x, y int) (nx, ny int) {
	return y, size - 1 - x
}

// FlipMove mirrors a coordinate left-right, in lock-step with FlipHorizontal.
func FlipMove(size, x, y int) (nx, ny int) {
	return x, size - 1 - y
}
