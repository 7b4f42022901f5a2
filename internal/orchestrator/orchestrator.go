// Package orchestrator implements component H: it ensures a checkpoint
// directory exists, spawns one self-play worker process per configured
// device identifier plus one trainer process, and tears them down on
// request, generalizing original_source/src/master.py's start/kill hidden
// PID file scheme onto Go os/exec-spawned worker binaries (spec.md §4.H).
package orchestrator

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/mnkzero/mnkzero/internal/logging"
	"github.com/mnkzero/mnkzero/internal/network"
	"github.com/mnkzero/mnkzero/internal/registry"
)

const hiddenPIDFile = ".master"

// ErrNoRecordFile is returned by Kill when no hidden PID file is tracked,
// per spec.md §6 ("kill called with no record file exits nonzero").
var ErrNoRecordFile = errors.New("orchestrator: no background run is tracked")

// Config describes the fleet to spawn: the checkpoint directory, the board
// shape (needed to create an initial checkpoint if none exists), the
// cmd/selfplay and cmd/trainer binaries, and one argument list per
// self-play device plus one for the trainer.
type Config struct {
	CkptDir string
	Size, K int

	SelfPlayBinary string
	TrainerBinary  string

	SelfPlayArgs [][]string // one arg list per configured device
	TrainerArgs  []string
}

// Orchestrator owns the hidden PID file bookkeeping.
type Orchestrator struct {
	cfg Config
	log *logging.Logger
}

// New returns an Orchestrator for cfg.
func New(cfg Config, log *logging.Logger) *Orchestrator {
	return &Orchestrator{cfg: cfg, log: log}
}

func (o *Orchestrator) hiddenFile() string {
	return filepath.Join(o.cfg.CkptDir, hiddenPIDFile)
}

func (o *Orchestrator) bestFile() string {
	return filepath.Join(o.cfg.CkptDir, "best")
}

// Start ensures the checkpoint directory and an initial best checkpoint
// exist, then spawns one self-play worker per device and one trainer
// process, recording their PIDs to the hidden file, per spec.md §4.H.
// It refuses to run if a previous Start's hidden file is still present
// (mirrors master.py's "run kill first" guard).
func (o *Orchestrator) Start() error {
	if _, err := os.Stat(o.hiddenFile()); err == nil {
		return errors.New("orchestrator: a background run is already tracked; run kill first")
	}

	reg, err := registry.New(o.cfg.CkptDir)
	if err != nil {
		return errors.Wrap(err, "orchestrator: prepare checkpoint dir")
	}

	if _, err := reg.Best(); err != nil {
		o.log.Printf("orchestrator: best index not found, initializing")
		if err := o.initializeCheckpoint(reg); err != nil {
			return errors.Wrap(err, "orchestrator: initialize checkpoint")
		}
	}

	var pids []int
	for _, args := range o.cfg.SelfPlayArgs {
		pid, err := o.spawn(o.cfg.SelfPlayBinary, args)
		if err != nil {
			return errors.Wrap(err, "orchestrator: spawn self-play worker")
		}
		pids = append(pids, pid)
	}

	pid, err := o.spawn(o.cfg.TrainerBinary, o.cfg.TrainerArgs)
	if err != nil {
		return errors.Wrap(err, "orchestrator: spawn trainer")
	}
	pids = append(pids, pid)

	blob, err := json.Marshal(pids)
	if err != nil {
		return errors.Wrap(err, "orchestrator: marshal pid list")
	}
	if err := ioutil.WriteFile(o.hiddenFile(), blob, 0644); err != nil {
		return errors.Wrap(err, "orchestrator: write hidden pid file")
	}
	return nil
}

// initializeCheckpoint creates a fresh network and writes it as checkpoint
// 0, promoting it as best, mirroring master.py's "no ckpt available" branch.
func (o *Orchestrator) initializeCheckpoint(reg *registry.Registry) error {
	conf := network.DefaultConfig(o.cfg.Size, o.cfg.Size*o.cfg.Size)
	net, err := network.New(conf)
	if err != nil {
		return err
	}
	blob, err := net.MarshalWeights()
	if err != nil {
		return err
	}
	if err := reg.Put(0, blob); err != nil {
		return err
	}
	return reg.Promote(0)
}

func (o *Orchestrator) spawn(binary string, args []string) (int, error) {
	cmd := exec.Command(binary, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	return cmd.Process.Pid, nil
}

// Kill reads the hidden PID file and sends SIGKILL to every tracked
// process, then removes the file, per spec.md §4.H/§5 "no clean-shutdown
// protocol is required". Individual kill failures are aggregated so one
// already-dead process doesn't mask the others. Kill returns ErrNoRecordFile
// (a nonzero-exit condition, per spec.md §6) if no background run is
// currently tracked.
func (o *Orchestrator) Kill() error {
	raw, err := ioutil.ReadFile(o.hiddenFile())
	if err != nil {
		if os.IsNotExist(err) {
			o.log.Printf("orchestrator: no background run is tracked")
			return ErrNoRecordFile
		}
		return errors.Wrap(err, "orchestrator: read hidden pid file")
	}

	var pids []int
	if err := json.Unmarshal(raw, &pids); err != nil {
		return errors.Wrap(err, "orchestrator: parse hidden pid file")
	}

	var result *multierror.Error
	for _, pid := range pids {
		proc, err := os.FindProcess(pid)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "orchestrator: find pid %d", pid))
			continue
		}
		if err := proc.Kill(); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "orchestrator: kill pid %d", pid))
		}
	}

	if err := os.Remove(o.hiddenFile()); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "orchestrator: remove hidden pid file"))
	}
	return result.ErrorOrNil()
}
