// Command trainer is the trainer process (component F): it listens for
// self-play trajectories over the local Unix socket, trains the candidate
// network, and periodically runs an evaluator match (component G) to decide
// promotion, per spec.md §4.F/§4.H.
package main

import (
	"flag"
	"log"
	"path/filepath"
	"time"

	"github.com/mnkzero/mnkzero/internal/config"
	"github.com/mnkzero/mnkzero/internal/evalmatch"
	"github.com/mnkzero/mnkzero/internal/ipc"
	"github.com/mnkzero/mnkzero/internal/logging"
	"github.com/mnkzero/mnkzero/internal/network"
	"github.com/mnkzero/mnkzero/internal/registry"
	"github.com/mnkzero/mnkzero/internal/train"
	"github.com/mnkzero/mnkzero/internal/trajectory"
)

var (
	ckptDir = flag.String("ckpt_dir", "ckpts", "checkpoint directory")
	size    = flag.Int("size", 3, "board side length S")
	inARow  = flag.Int("k", 3, "winning run length K")
	socket  = flag.String("socket", "", "trajectory unix socket path (defaults to <ckpt_dir>/trajectories.sock)")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)
	lg := logging.Stderr("trainer: ")

	cfg := config.New(*size, *inARow)
	reg, err := registry.New(*ckptDir)
	if err != nil {
		log.Fatalf("trainer: open registry: %+v", err)
	}

	bestIdx, err := reg.BestWithRetry(20, 250*time.Millisecond)
	if err != nil {
		log.Fatalf("trainer: no best checkpoint available: %+v", err)
	}

	sockPath := *socket
	if sockPath == "" {
		sockPath = filepath.Join(*ckptDir, "trajectories.sock")
	}
	buf := trajectory.NewBuffer(1 << 9)
	server, err := ipc.Listen(sockPath, buf)
	if err != nil {
		log.Fatalf("trainer: listen trajectory socket: %+v", err)
	}
	go func() {
		if err := server.Serve(); err != nil {
			lg.Printf("trainer: socket server stopped: %v", err)
		}
	}()

	conf := network.DefaultConfig(*size, cfg.ActionSpace())
	conf.BatchSize = cfg.SelfplayMCTSBatch
	candidate, err := network.New(conf)
	if err != nil {
		log.Fatalf("trainer: build candidate network: %+v", err)
	}

	bestConf := conf
	bestNet, err := network.New(bestConf)
	if err != nil {
		log.Fatalf("trainer: build best network: %+v", err)
	}
	bestBlob, err := reg.Get(bestIdx)
	if err != nil {
		log.Fatalf("trainer: load best checkpoint: %+v", err)
	}
	if err := bestNet.UnmarshalWeights(bestBlob); err != nil {
		log.Fatalf("trainer: restore best weights: %+v", err)
	}

	trainerCfg := train.Config{
		Size: *size,
		K:    *inARow,

		BatchSize:    conf.BatchSize,
		GamesPerCkpt: 1,
		EvalFreq:     cfg.EvalFreq,

		EvalCfg: evalmatch.Config{
			NumSims:   cfg.EvalNumSims,
			CPUCT:     cfg.EvalCPUCT,
			VLoss:     cfg.VirtualLoss,
			BatchSize: cfg.EvalMCTSBatch,
		},

		LearnRate: cfg.TrainLR,
	}

	trainer, err := train.New(trainerCfg, buf, reg, candidate, bestIdx, lg)
	if err != nil {
		log.Fatalf("trainer: construct trainer: %+v", err)
	}

	if err := trainer.Loop(bestNet); err != nil {
		log.Fatalf("trainer: training loop failed: %+v", err)
	}
}
