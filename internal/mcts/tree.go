// Package mcts implements the neural-guided Monte-Carlo Tree Search engine
// (component C): an arena-backed mutable search tree, PUCT selection with
// Dirichlet root noise, cooperative batched leaf evaluation with virtual
// loss, and policy extraction, per spec.md §4.C.
//
// Unlike the teacher's mcts package (one goroutine per simulation, with a
// sync.Mutex on every Node guarding concurrent descents into a shared
// chess tree), this engine's simulations are cooperative and
// single-threaded within one Search call, per spec.md §5 ("logical
// concurrency is cooperative... All tree mutation is synchronous"). A Tree
// still embeds a sync.RWMutex, used the way the teacher's MCTS embeds one
// (mcts/tree.go): to let a diagnostics reader (cmd/mctsviz) take a
// consistent snapshot of a tree between search batches, not to protect the
// hot selection/backup path itself.
package mcts

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	distrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/mnkzero/mnkzero/internal/board"
	"github.com/mnkzero/mnkzero/internal/evaluator"
)

// Tree is the MCTS engine's public handle: one per game, created fresh at
// game start and dropped (garbage collected) at game end, per spec.md §3
// Lifecycles.
type Tree struct {
	mu sync.RWMutex

	size        int
	actionSpace int
	vloss       float32
	batchSize   int

	eval evaluator.Evaluator

	nodes []node
	root  ref

	// noiseRand seeds the Dirichlet draw; injectable so tests can make
	// noise deterministic, per spec.md §5 "Tests MUST inject both RNGs".
	noiseRand *distrand.Rand
}

// Option configures a Tree under construction.
type Option func(*Tree)

// WithNoiseSource injects the RNG source used to draw Dirichlet root noise.
func WithNoiseSource(src distrand.Source) Option {
	return func(t *Tree) { t.noiseRand = distrand.New(src) }
}

// New constructs an MCTS engine rooted at b0. vloss is the virtual-loss
// constant (spec.md §9 default 1), batchSize the number of simulations
// collected per cooperative mini-batch before the evaluator is called, and
// eval the batched policy+value oracle.
func New(b0 board.Board, vloss float32, batchSize int, eval evaluator.Evaluator, opts ...Option) *Tree {
	s := b0.Size()
	t := &Tree{
		size:        s,
		actionSpace: s * s,
		vloss:       vloss,
		batchSize:   batchSize,
		eval:        eval,
		nodes:       make([]node, 0, 4096),
		noiseRand:   distrand.New(distrand.NewSource(uint64(time.Now().UnixNano()))),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.root = t.newNode(b0)
	return t
}

// newNode appends a freshly-created node for board b to the arena,
// detecting terminal status immediately on creation, per spec.md §3
// ("Node is created only for legal, reachable canonical boards"... "terminal
// is detected when created").
func (t *Tree) newNode(b board.Board) ref {
	nd := node{b: b}
	if v, ok := board.TerminalValue(b); ok {
		nd.isTerminal = true
		nd.vTerm = v
		nd.v = v
	}
	t.nodes = append(t.nodes, nd)
	return ref(len(t.nodes) - 1)
}

// ensureChild returns the child of parent reached by the legal move at
// flattened index idx, lazily creating it (and its board, via board.Apply)
// if absent.
func (t *Tree) ensureChild(parent ref, idx int) ref {
	pn := &t.nodes[parent]
	if pn.children[idx] != noRef {
		return pn.children[idx]
	}
	x, y := idx/t.size, idx%t.size
	childBoard := board.Apply(pn.b, x, y)
	childRef := t.newNode(childBoard)
	// re-fetch pn: newNode may have grown the slice and invalidated pn.
	t.nodes[parent].children[idx] = childRef
	return childRef
}

// ensureExpanded installs (p, v) on ref via a single-board evaluator call if
// the node is neither terminal nor already expanded.
func (t *Tree) ensureExpanded(r ref) error {
	nd := &t.nodes[r]
	if nd.isTerminal || nd.expanded {
		return nil
	}
	policies, values, err := t.eval.Evaluate([]board.Board{nd.b})
	if err != nil {
		return errors.Wrap(err, "mcts: evaluator failed")
	}
	t.install(r, policies[0], values[0])
	return nil
}

// install stores a freshly-evaluated prior/value on ref and allocates its
// children slot table.
func (t *Tree) install(r ref, prior []float32, v float32) {
	nd := &t.nodes[r]
	nd.prior = prior
	nd.v = v
	nd.expanded = true
	nd.reserved = false
	nd.children = make([]ref, t.actionSpace)
	for i := range nd.children {
		nd.children[i] = noRef
	}
}

// Terminated reports whether the current root position is terminal.
func (t *Tree) Terminated() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nodes[t.root].isTerminal
}

// Board returns the root's canonical board (the spec's "chessboard()").
func (t *Tree) Board() board.Board {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nodes[t.root].b
}

// V returns the root's evaluator value, or its terminal value if the root
// is terminal.
func (t *Tree) V() float32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nodes[t.root].v
}

// Nodes reports the number of nodes currently in the arena (diagnostics).
func (t *Tree) Nodes() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

// rootNode returns the root's node snapshot; callers must hold or not need
// the lock (used internally by the single-threaded search path).
func (t *Tree) rootNode() *node {
	return &t.nodes[t.root]
}

// childRef returns the existing child ref at idx under parent, or noRef.
func (t *Tree) childRef(parent ref, idx int) ref {
	return t.nodes[parent].children[idx]
}

// drawDirichlet draws a fresh Dirichlet(alpha, ..., alpha) sample of length
// actionSpace, exactly as the teacher's mcts.New seeds dirichletSample via
// gonum's distmv.Dirichlet + golang.org/x/exp/rand.
func (t *Tree) drawDirichlet(alpha float32) []float32 {
	alphaVec := make([]float64, t.actionSpace)
	for i := range alphaVec {
		alphaVec[i] = float64(alpha)
	}
	dist, ok := distmv.NewDirichlet(alphaVec, t.noiseRand)
	if !ok {
		panic("mcts: invalid dirichlet parameters")
	}
	sample := dist.Rand(nil)
	out := make([]float32, len(sample))
	for i, v := range sample {
		out[i] = float32(v)
	}
	return out
}

// actionIndex flattens (x, y) into a row-major index, matching
// board.RotateMove/FlipMove's convention.
func actionIndex(size, x, y int) int { return x*size + y }
