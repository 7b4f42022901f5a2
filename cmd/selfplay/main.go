// Command selfplay is one self-play worker process (component D): it loads
// the current best network, plays games in a loop, and streams each game's
// trajectory to the trainer process over the local Unix socket, per
// spec.md §4.D/§4.H, with per-process log file naming matching
// original_source/src/selfplay.py's `config_log("selfplay-{}.log")`.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/mnkzero/mnkzero/internal/config"
	"github.com/mnkzero/mnkzero/internal/ipc"
	"github.com/mnkzero/mnkzero/internal/logging"
	"github.com/mnkzero/mnkzero/internal/network"
	"github.com/mnkzero/mnkzero/internal/registry"
	"github.com/mnkzero/mnkzero/internal/selfplay"
)

var (
	ckptDir  = flag.String("ckpt_dir", "ckpts", "checkpoint directory")
	size     = flag.Int("size", 3, "board side length S")
	inARow   = flag.Int("k", 3, "winning run length K")
	workerID = flag.String("worker_id", "0", "worker identifier, used in log messages")
	socket   = flag.String("socket", "", "trajectory unix socket path (defaults to <ckpt_dir>/trajectories.sock)")
)

func main() {
	flag.Parse()

	lg, f, err := logging.PerProcessFile(*ckptDir, "selfplay-%d.log")
	if err != nil {
		log.Fatalf("selfplay[%s]: open log file: %+v", *workerID, err)
	}
	defer f.Close()

	sockPath := *socket
	if sockPath == "" {
		sockPath = filepath.Join(*ckptDir, "trajectories.sock")
	}
	client, err := ipc.Dial(sockPath)
	if err != nil {
		log.Fatalf("selfplay[%s]: dial trainer socket: %+v", *workerID, err)
	}
	defer client.Close()

	cfg := config.New(*size, *inARow)
	reg, err := registry.New(*ckptDir)
	if err != nil {
		log.Fatalf("selfplay[%s]: open registry: %+v", *workerID, err)
	}

	conf := network.DefaultConfig(*size, cfg.ActionSpace())
	conf.BatchSize = cfg.SelfplayMCTSBatch

	var currentIdx = -1
	var net *network.Net

	for {
		idx, err := reg.BestWithRetry(20, 250*time.Millisecond)
		if err != nil {
			lg.Printf("selfplay[%s]: best checkpoint unavailable: %+v", *workerID, err)
			continue
		}
		if idx != currentIdx {
			blob, err := reg.Get(idx)
			if err != nil {
				lg.Printf("selfplay[%s]: read checkpoint %d: %+v", *workerID, idx, err)
				continue
			}
			net, err = network.New(conf)
			if err != nil {
				log.Fatalf("selfplay[%s]: build network: %+v", *workerID, err)
			}
			if err := net.UnmarshalWeights(blob); err != nil {
				lg.Printf("selfplay[%s]: load checkpoint %d: %+v", *workerID, idx, err)
				continue
			}
			currentIdx = idx
			lg.Printf("selfplay[%s]: now using checkpoint %d", *workerID, idx)
		}

		noise := selfplay.NoiseFromMoveZero(cfg.SelfplayAlpha)
		if cfg.NoiseFromMoveEight {
			noise = selfplay.DefaultNoiseSchedule(cfg.SelfplayAlpha)
		}
		driver := &selfplay.Driver{
			Eval:        net,
			NumSims:     cfg.SelfplayNumSims,
			CPUCT:       cfg.SelfplayCPUCT,
			VLoss:       cfg.VirtualLoss,
			BatchSize:   cfg.SelfplayMCTSBatch,
			Temperature: selfplay.DefaultTemperatureSchedule,
			Noise:       noise,
		}
		game := driver.PlayGame(*size, *inARow)

		if err := client.Send(game); err != nil {
			log.Fatalf("selfplay[%s]: send trajectory: %+v", *workerID, err)
		}
		lg.Printf("selfplay[%s]: %s", *workerID, fmt.Sprintf("played game with %d moves", len(game)))
	}
}
