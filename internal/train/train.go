// Package train implements the trainer loop (component F): it drains
// augmented batches from the trajectory buffer, runs gradient steps against
// a candidate network, and periodically triggers an evaluator match,
// promoting the candidate on a win. Generalizes the teacher's
// agogo.go:LearnAZ epoch/episode loop and original_source/src/train.py's
// ckpt_idx/EVAL_FREQ bookkeeping.
package train

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/mnkzero/mnkzero/internal/board"
	"github.com/mnkzero/mnkzero/internal/evalmatch"
	"github.com/mnkzero/mnkzero/internal/evaluator"
	"github.com/mnkzero/mnkzero/internal/logging"
	"github.com/mnkzero/mnkzero/internal/network"
	"github.com/mnkzero/mnkzero/internal/registry"
	"github.com/mnkzero/mnkzero/internal/trajectory"
)

// Config holds the trainer's tunables, drawn from config.Config's
// EvalFreq/EvalNumSims/EvalCPUCT/TrainLR/ChessboardSize/InARow fields.
type Config struct {
	Size, K int

	BatchSize  int
	GamesPerCkpt int
	EvalFreq   int

	EvalCfg evalmatch.Config

	LearnRate float32
}

// Trainer owns the candidate network, the registry, and the pending
// trajectory buffer, and runs Loop until the buffer closes.
type Trainer struct {
	cfg Config
	log *logging.Logger

	buf *trajectory.Buffer
	reg *registry.Registry

	candidate *network.Net
	trainer   *network.Trainer

	ckptIdx     int
	lastEvalIdx int
}

// New constructs a Trainer with candidate initialized from initIdx's
// checkpoint, mirroring the Python reference's "Loads N_cand from
// <init_idx>.pt" (spec.md §4.F).
func New(cfg Config, buf *trajectory.Buffer, reg *registry.Registry, candidate *network.Net, initIdx int, log *logging.Logger) (*Trainer, error) {
	blob, err := reg.Get(initIdx)
	if err != nil {
		return nil, errors.Wrap(err, "train: load initial checkpoint")
	}
	if err := candidate.UnmarshalWeights(blob); err != nil {
		return nil, errors.Wrap(err, "train: restore initial weights")
	}

	nnTrainer, err := network.NewTrainer(candidate, cfg.BatchSize, cfg.LearnRate)
	if err != nil {
		return nil, errors.Wrap(err, "train: build training graph")
	}

	return &Trainer{
		cfg:         cfg,
		log:         log,
		buf:         buf,
		reg:         reg,
		candidate:   candidate,
		trainer:     nnTrainer,
		ckptIdx:     initIdx,
		lastEvalIdx: initIdx,
	}, nil
}

// Loop drains the trajectory buffer until it is closed and drained,
// training on each incoming game's augmented records and periodically
// evaluating/promoting, per spec.md §4.F steps 1-4.
func (t *Trainer) Loop(best evaluator.Evaluator) error {
	for {
		game, ok := t.buf.Pop()
		if !ok {
			return nil
		}

		records := augmentGame(game)
		if err := t.trainOnRecords(records); err != nil {
			return errors.Wrap(err, "train: gradient step failed")
		}

		step := t.cfg.GamesPerCkpt
		if step <= 0 {
			step = 1
		}
		t.ckptIdx += step
		if t.ckptIdx-t.lastEvalIdx >= t.cfg.EvalFreq {
			if err := t.evaluateAndMaybePromote(best); err != nil {
				return errors.Wrap(err, "train: evaluation/promotion failed")
			}
			t.lastEvalIdx = t.ckptIdx
		}
	}
}

func augmentGame(game []trajectory.Record) []trajectory.Record {
	var out []trajectory.Record
	for _, r := range game {
		out = append(out, trajectory.Augment(r)...)
	}
	trajectory.Shuffle(out, rand.New(rand.NewSource(int64(len(out)))))
	return out
}

func (t *Trainer) trainOnRecords(records []trajectory.Record) error {
	xs, policies, values, batches := trajectory.AssembleBatches(records, t.cfg.Size, t.cfg.BatchSize)
	if batches == 0 {
		t.log.Printf("train: skipping step, %d records insufficient for batch size %d", len(records), t.cfg.BatchSize)
		return nil
	}
	loss, err := t.trainer.Step(xs, policies, values)
	if err != nil {
		return err
	}
	t.log.Printf("train: ckpt=%d batches=%d loss=%.4f", t.ckptIdx, batches, loss)
	if err := t.trainer.SyncToNet(); err != nil {
		return err
	}
	t.logHeldOutValueMSE(records)
	return nil
}

// logHeldOutValueMSE re-evaluates the first (up to 64) of the records just
// trained on through the just-synced candidate and reports the value head's
// MSE against the recorded targets, as a cheap sanity metric distinct from
// the training loss (which is computed before the sync, on the training
// graph). The sample is not held out from training. Net.Evaluate rejects
// more boards than the candidate's configured batch size; the check is then
// logged as skipped.
func (t *Trainer) logHeldOutValueMSE(records []trajectory.Record) {
	sample := records
	if len(sample) > 64 {
		sample = sample[:64]
	}
	boards := make([]board.Board, len(sample))
	target := make([]float32, len(sample))
	for i, r := range sample {
		boards[i] = r.Board
		target[i] = r.V
	}
	_, predicted, err := t.candidate.Evaluate(boards)
	if err != nil {
		t.log.Printf("train: held-out value check skipped: %v", err)
		return
	}
	t.log.Printf("train: held-out value MSE=%.4f", valueMSE(predicted, target))
}

// evaluateAndMaybePromote runs the head-to-head match (component G) and, on
// a candidate win, persists and promotes the new checkpoint, per spec.md
// §4.F step 4.
func (t *Trainer) evaluateAndMaybePromote(best evaluator.Evaluator) error {
	won := evalmatch.Play(t.cfg.Size, t.cfg.K, t.candidate, best, t.cfg.EvalCfg)
	if !won {
		t.log.Printf("train: candidate lost evaluation at ckpt=%d, not promoting", t.ckptIdx)
		return nil
	}

	blob, err := t.candidate.MarshalWeights()
	if err != nil {
		return errors.Wrap(err, "train: marshal candidate weights")
	}
	if err := t.reg.Put(t.ckptIdx, blob); err != nil {
		return errors.Wrap(err, "train: persist candidate checkpoint")
	}
	if err := t.reg.Promote(t.ckptIdx); err != nil {
		return errors.Wrap(err, "train: promote candidate checkpoint")
	}
	t.log.Printf("train: promoted ckpt=%d", t.ckptIdx)
	return nil
}
