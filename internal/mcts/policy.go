package mcts

import (
	"github.com/chewxy/math32"

	"github.com/mnkzero/mnkzero/internal/board"
)

// GetPi extracts the policy from the root's visit counts (spec.md §4.C).
// temperature == 0 returns a uniform distribution over the argmax
// children (ties averaged); otherwise pi(x,y) is proportional to
// child.n^(1/temperature), renormalized. Illegal moves always get zero
// mass; children absent from the arena (never visited) count as n == 0.
func (t *Tree) GetPi(temperature float32) []float32 {
	root := t.rootNode()
	pi := make([]float32, t.actionSpace)

	type cell struct {
		idx int
		n   uint32
	}
	var legal []cell
	for x := 0; x < t.size; x++ {
		for y := 0; y < t.size; y++ {
			if !board.Legal(root.b, x, y) {
				continue
			}
			idx := actionIndex(t.size, x, y)
			var n uint32
			if root.children != nil {
				if cr := root.children[idx]; cr != noRef {
					n = t.nodes[cr].n
				}
			}
			legal = append(legal, cell{idx: idx, n: n})
		}
	}
	if len(legal) == 0 {
		return pi
	}

	if temperature == 0 {
		var maxN uint32
		for _, c := range legal {
			if c.n > maxN {
				maxN = c.n
			}
		}
		var count int
		for _, c := range legal {
			if c.n == maxN {
				count++
			}
		}
		share := 1 / float32(count)
		for _, c := range legal {
			if c.n == maxN {
				pi[c.idx] = share
			}
		}
		return pi
	}

	var sum float32
	vals := make([]float32, len(legal))
	for i, c := range legal {
		v := math32.Pow(float32(c.n), 1/temperature)
		vals[i] = v
		sum += v
	}
	if sum <= 0 {
		share := 1 / float32(len(legal))
		for _, c := range legal {
			pi[c.idx] = share
		}
		return pi
	}
	for i, c := range legal {
		pi[c.idx] = vals[i] / sum
	}
	return pi
}
