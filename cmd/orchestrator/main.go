// Command orchestrator implements component H's start/kill CLI: it owns
// the checkpoint directory and the self-play/trainer worker fleet,
// generalizing original_source/src/master.py's argparse "instruction"
// subcommand into the teacher's own flag-based CLI idiom (cmd/train,
// cmd/infer used stdlib flag, not a CLI framework).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mnkzero/mnkzero/internal/logging"
	"github.com/mnkzero/mnkzero/internal/orchestrator"
)

var (
	ckptDir        = flag.String("ckpt_dir", "ckpts", "checkpoint directory")
	size           = flag.Int("size", 3, "board side length S")
	inARow         = flag.Int("k", 3, "winning run length K")
	selfplay       = flag.Int("selfplay_workers", 3, "number of self-play worker processes")
	selfplayBinary = flag.String("selfplay_binary", "selfplay", "path to the cmd/selfplay binary")
	trainerBinary  = flag.String("trainer_binary", "trainer", "path to the cmd/trainer binary")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	if flag.NArg() != 1 {
		log.Fatalf("usage: %s [flags] start|kill", os.Args[0])
	}

	sockPath := filepath.Join(*ckptDir, "trajectories.sock")

	cfg := orchestrator.Config{
		CkptDir: *ckptDir,
		Size:    *size,
		K:       *inARow,

		SelfPlayBinary: *selfplayBinary,
		TrainerBinary:  *trainerBinary,

		TrainerArgs: []string{
			fmt.Sprintf("-ckpt_dir=%s", *ckptDir),
			fmt.Sprintf("-size=%d", *size),
			fmt.Sprintf("-k=%d", *inARow),
			fmt.Sprintf("-socket=%s", sockPath),
		},
	}
	for i := 0; i < *selfplay; i++ {
		cfg.SelfPlayArgs = append(cfg.SelfPlayArgs, []string{
			fmt.Sprintf("-ckpt_dir=%s", *ckptDir),
			fmt.Sprintf("-size=%d", *size),
			fmt.Sprintf("-k=%d", *inARow),
			fmt.Sprintf("-worker_id=%s", strconv.Itoa(i)),
			fmt.Sprintf("-socket=%s", sockPath),
		})
	}

	o := orchestrator.New(cfg, logging.Stderr("orchestrator: "))

	switch flag.Arg(0) {
	case "start":
		if err := o.Start(); err != nil {
			log.Fatalf("%+v", err)
		}
	case "kill":
		if err := o.Kill(); err != nil {
			log.Fatalf("%+v", err)
		}
	default:
		log.Fatalf("unknown instruction %q: want start or kill", flag.Arg(0))
	}
}
