package mcts

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/mnkzero/mnkzero/internal/board"
)

// pending records one mini-batch descent's outcome: a path from root to a
// leaf (inclusive), and either the leaf's already-known terminal value or a
// marker that the leaf still needs a batched evaluator call.
type pending struct {
	path      []ref
	leaf      ref
	needsEval bool
	value     float32
}

// Search runs simulations in cooperative mini-batches of up to batchSize
// until num_sims total simulations have been performed (spec.md §4.C). If
// alpha is non-nil, a fresh Dirichlet(alpha, ..., alpha) sample is drawn and
// installed as root noise before searching. num_sims == 0 still ensures the
// root is expanded (prior/value installed) but performs no simulations.
func (t *Tree) Search(numSims int, cpuct float32, alpha *float32) error {
	root := t.rootNode()
	if alpha != nil {
		root.noise = t.drawDirichlet(*alpha)
	}
	if root.isTerminal {
		return nil
	}
	if numSims <= 0 {
		return t.ensureExpanded(t.root)
	}

	done := 0
	for done < numSims {
		n := t.batchSize
		if n > numSims-done {
			n = numSims - done
		}
		if err := t.runMiniBatch(n, cpuct); err != nil {
			return err
		}
		done += n
	}
	return nil
}

// runMiniBatch performs n virtual descents, batches the resulting unexpanded
// leaves into a single evaluator call, then backs up every path, per
// spec.md §4.C "Virtual loss and batched evaluation".
func (t *Tree) runMiniBatch(n int, cpuct float32) error {
	pendings := make([]pending, 0, n)

	for i := 0; i < n; i++ {
		p := t.descend(cpuct)
		pendings = append(pendings, p)
	}

	// Evaluate all distinct reserved (non-terminal, non-expanded) leaves in
	// one oracle call; several pendings may share the same leaf ref if two
	// descents converged on it before expansion.
	var toEval []board.Board
	leafPos := make(map[ref]int) // leaf ref -> position in toEval
	for _, p := range pendings {
		if !p.needsEval {
			continue
		}
		if _, ok := leafPos[p.leaf]; ok {
			continue
		}
		leafPos[p.leaf] = len(toEval)
		toEval = append(toEval, t.nodes[p.leaf].b)
	}

	if len(toEval) > 0 {
		policies, values, err := t.eval.Evaluate(toEval)
		if err != nil {
			return errors.Wrap(err, "mcts: batched evaluator call failed")
		}
		for leaf, pos := range leafPos {
			t.install(leaf, policies[pos], values[pos])
		}
		for i := range pendings {
			if pendings[i].needsEval {
				pendings[i].value = t.nodes[pendings[i].leaf].v
			}
		}
	}

	for _, p := range pendings {
		t.backupReplace(p.path, p.value)
	}
	return nil
}

// descend performs one virtual-loss descent from the root, stopping at a
// terminal node or an unexpanded leaf, and returns its pending record.
func (t *Tree) descend(cpuct float32) pending {
	path := make([]ref, 0, 8)
	cur := t.root
	for {
		path = append(path, cur)
		nd := &t.nodes[cur]
		t.applyVirtualLoss(cur)

		if nd.isTerminal {
			return pending{path: path, leaf: cur, needsEval: false, value: nd.vTerm}
		}
		if !nd.expanded {
			nd.reserved = true
			return pending{path: path, leaf: cur, needsEval: true}
		}

		idx := t.selectChild(cur, cpuct)
		cur = t.ensureChild(cur, idx)
	}
}

// applyVirtualLoss applies the pessimistic temporary update described in
// spec.md §4.C: n += 1, sigma_v += -vloss, from the node's own perspective.
func (t *Tree) applyVirtualLoss(r ref) {
	nd := &t.nodes[r]
	nd.n++
	nd.sigmaV += -t.vloss
}

// backupReplace walks path in reverse, replacing each node's virtual-loss
// contribution with the real backed-up value, negating delta at each step
// (spec.md §4.C step 3).
func (t *Tree) backupReplace(path []ref, leafValue float32) {
	delta := leafValue
	for i := len(path) - 1; i >= 0; i-- {
		nd := &t.nodes[path[i]]
		nd.sigmaV += delta + t.vloss
		delta = -delta
	}
}

// selectChild applies the PUCT selection rule (spec.md §4.C) among the
// legal moves of the node at parent, returning the flattened index of the
// maximizer. Ties break toward the lowest flattened index.
func (t *Tree) selectChild(parent ref, cpuct float32) int {
	nd := &t.nodes[parent]
	parentN := nd.n
	numerator := math32.Sqrt(float32(parentN))

	best := -1
	bestScore := float32(math32.Inf(-1))
	for x := 0; x < t.size; x++ {
		for y := 0; y < t.size; y++ {
			if !board.Legal(nd.b, x, y) {
				continue
			}
			idx := actionIndex(t.size, x, y)
			childRef := nd.children[idx]

			var q, childN float32
			if childRef != noRef {
				child := &t.nodes[childRef]
				q = -child.q()
				childN = float32(child.n)
			}
			u := cpuct * nd.priorAt(idx) * numerator / (1 + childN)
			score := q + u
			if score > bestScore {
				bestScore = score
				best = idx
			}
		}
	}
	if best < 0 {
		panic("mcts: selectChild found no legal move on a non-terminal node")
	}
	return best
}
