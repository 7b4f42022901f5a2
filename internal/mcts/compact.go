package mcts

import "github.com/mnkzero/mnkzero/internal/board"

// StepForward commits move (x, y) as the game's actual next move: the
// existing (or freshly expanded) child becomes the new root, every other
// subtree is discarded, and root noise is cleared, per spec.md §4.C
// ("step_forward... drop all other subtrees; clear root noise").
//
// Unlike the teacher's agent.go, which simply reassigns a pointer and lets
// the garbage collector reclaim the abandoned chess subtrees, this arena
// keeps every node in one contiguous slice, so stepping forward requires an
// explicit compaction pass that rebuilds the slice from the surviving
// subtree and remaps every ref.
func (t *Tree) StepForward(x, y int) error {
	root := t.rootNode()
	if root.isTerminal {
		panic("mcts: step_forward called on a terminal root")
	}
	if !board.Legal(root.b, x, y) {
		panic("mcts: step_forward called with an illegal move")
	}

	idx := actionIndex(t.size, x, y)
	if !root.expanded {
		if err := t.ensureExpanded(t.root); err != nil {
			return err
		}
		root = t.rootNode()
	}
	newRoot := t.ensureChild(t.root, idx)

	t.compact(newRoot)
	t.nodes[t.root].noise = nil
	return t.ensureExpanded(t.root)
}

// compact rebuilds t.nodes so that it contains only the subtree reachable
// from keep, with keep remapped to index 0 (the new root). Traversal order
// is BFS so parents are always copied before their children are visited,
// though remapping itself works regardless of order since every ref is
// rewritten from the old arena before any node is moved.
func (t *Tree) compact(keep ref) {
	oldNodes := t.nodes
	remap := make(map[ref]ref, len(oldNodes))
	order := []ref{keep}
	remap[keep] = 0

	for i := 0; i < len(order); i++ {
		old := order[i]
		for _, c := range oldNodes[old].children {
			if c == noRef {
				continue
			}
			if _, seen := remap[c]; seen {
				continue
			}
			remap[c] = ref(len(order))
			order = append(order, c)
		}
	}

	newNodes := make([]node, len(order))
	for newIdx, oldRef := range order {
		nd := oldNodes[oldRef]
		if nd.children != nil {
			remapped := make([]ref, len(nd.children))
			for i, c := range nd.children {
				if c == noRef {
					remapped[i] = noRef
				} else {
					remapped[i] = remap[c]
				}
			}
			nd.children = remapped
		}
		newNodes[newIdx] = nd
	}

	t.nodes = newNodes
	t.root = 0
}
