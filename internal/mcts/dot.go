package mcts

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
)

// DumpDOT renders the tree's current arena as a Graphviz DOT graph, for
// cmd/mctsviz's debug dump. Only expanded/visited nodes are included; each
// node is labeled with its visit count and Q value from its own
// perspective.
func (t *Tree) DumpDOT() (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	g := gographviz.NewGraph()
	if err := g.SetName("mcts"); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}

	for i := range t.nodes {
		nd := &t.nodes[i]
		name := fmt.Sprintf("n%d", i)
		label := fmt.Sprintf("\"n=%d q=%.3f term=%v\"", nd.n, nd.q(), nd.isTerminal)
		if err := g.AddNode("mcts", name, map[string]string{"label": label}); err != nil {
			return "", err
		}
	}

	for i := range t.nodes {
		nd := &t.nodes[i]
		if !nd.expanded {
			continue
		}
		for idx, c := range nd.children {
			if c == noRef {
				continue
			}
			src := fmt.Sprintf("n%d", i)
			dst := fmt.Sprintf("n%d", c)
			edgeLabel := fmt.Sprintf("\"%d\"", idx)
			if err := g.AddEdge(src, dst, true, map[string]string{"label": edgeLabel}); err != nil {
				return "", err
			}
		}
	}

	return g.String(), nil
}
