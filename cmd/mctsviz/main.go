// Command mctsviz is a debug tool (spec.md §9 "debug tooling"): it runs one
// MCTS search from a fresh board against the currently promoted checkpoint
// and dumps the resulting tree both as a Graphviz DOT file and as a PNG of
// the root board position, so a developer can inspect search behavior
// without instrumenting the trainer/self-play binaries.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/mnkzero/mnkzero/internal/board"
	"github.com/mnkzero/mnkzero/internal/config"
	"github.com/mnkzero/mnkzero/internal/mcts"
	"github.com/mnkzero/mnkzero/internal/network"
	"github.com/mnkzero/mnkzero/internal/registry"
	"github.com/mnkzero/mnkzero/internal/render"
)

var (
	ckptDir = flag.String("ckpt_dir", "ckpts", "checkpoint directory")
	size    = flag.Int("size", 3, "board side length S")
	inARow  = flag.Int("k", 3, "winning run length K")
	numSims = flag.Int("num_sims", 200, "simulations to run before dumping")
	dotOut  = flag.String("dot_out", "tree.dot", "output path for the Graphviz dump")
	pngOut  = flag.String("png_out", "board.png", "output path for the board PNG")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	cfg := config.New(*size, *inARow)

	reg, err := registry.New(*ckptDir)
	if err != nil {
		log.Fatalf("mctsviz: open registry: %+v", err)
	}
	bestIdx, err := reg.Best()
	if err != nil {
		log.Fatalf("mctsviz: no promoted checkpoint available: %+v", err)
	}
	blob, err := reg.Get(bestIdx)
	if err != nil {
		log.Fatalf("mctsviz: read checkpoint %d: %+v", bestIdx, err)
	}

	conf := network.DefaultConfig(*size, cfg.ActionSpace())
	conf.BatchSize = cfg.SelfplayMCTSBatch
	net, err := network.New(conf)
	if err != nil {
		log.Fatalf("mctsviz: build network: %+v", err)
	}
	if err := net.UnmarshalWeights(blob); err != nil {
		log.Fatalf("mctsviz: load checkpoint %d: %+v", bestIdx, err)
	}

	b0 := board.Empty(*size, *inARow)
	tr := mcts.New(b0, cfg.VirtualLoss, conf.BatchSize, net)
	if err := tr.Search(*numSims, cfg.SelfplayCPUCT, nil); err != nil {
		log.Fatalf("mctsviz: search: %+v", err)
	}

	dot, err := tr.DumpDOT()
	if err != nil {
		log.Fatalf("mctsviz: dump dot: %+v", err)
	}
	if err := os.WriteFile(*dotOut, []byte(dot), 0644); err != nil {
		log.Fatalf("mctsviz: write %s: %+v", *dotOut, err)
	}

	f, err := os.Create(*pngOut)
	if err != nil {
		log.Fatalf("mctsviz: create %s: %+v", *pngOut, err)
	}
	defer f.Close()
	if err := render.PNG(tr.Board(), render.Options{}, f); err != nil {
		log.Fatalf("mctsviz: render board png: %+v", err)
	}

	log.Printf("mctsviz: wrote %s and %s (%d nodes)", *dotOut, *pngOut, tr.Nodes())
}
