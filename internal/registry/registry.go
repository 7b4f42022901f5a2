// Package registry implements the on-disk checkpoint registry (component of
// spec.md §6 "External interfaces — checkpoint layout"): a directory of
// opaque numbered checkpoint blobs, plus a `best` pointer promoted only by
// an atomic rename, mirroring the teacher's `agogo.go:SaveAZ/Load` gob
// encoding and the Python reference's `update_best_ckpt_idx` promotion.
package registry

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrCheckpointUnavailable mirrors the Python reference's transient
// "cannot get best ckpt index temporarily" condition (selfplay.py
// get_best_ckpt_idx): the best pointer file is momentarily missing or
// mid-write because a promotion is racing the read.
var ErrCheckpointUnavailable = errors.New("registry: checkpoint temporarily unavailable")

const bestFileName = "best"

// Registry manages checkpoint blobs under Dir: files named "<i>.pt", where i
// is a monotonically increasing index, plus a "best" file holding the
// decimal index of the currently promoted checkpoint.
type Registry struct {
	Dir string
}

// New returns a Registry rooted at dir, creating dir if absent.
func New(dir string) (*Registry, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "registry: create checkpoint dir")
	}
	return &Registry{Dir: dir}, nil
}

// Put writes blob as checkpoint index idx, failing if it already exists
// (checkpoints are immutable once written, per spec.md §3 "Checkpoint
// registry").
func (r *Registry) Put(idx int, blob []byte) error {
	path := r.path(idx)
	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("registry: checkpoint %d already exists", idx)
	}
	tmp := path + ".tmp"
	if err := ioutil.WriteFile(tmp, blob, 0644); err != nil {
		return errors.Wrapf(err, "registry: write checkpoint %d", idx)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "registry: finalize checkpoint %d", idx)
	}
	return nil
}

// Get reads checkpoint index idx.
func (r *Registry) Get(idx int) ([]byte, error) {
	blob, err := ioutil.ReadFile(r.path(idx))
	if err != nil {
		return nil, errors.Wrapf(err, "registry: read checkpoint %d", idx)
	}
	return blob, nil
}

// Promote atomically sets idx as the best checkpoint: it writes the new
// pointer to a temp file, then renames over "best" in one filesystem
// operation, so concurrent readers never observe a half-written pointer
// (spec.md §3/§7 "PromotionRaced").
func (r *Registry) Promote(idx int) error {
	if _, err := os.Stat(r.path(idx)); err != nil {
		return errors.Wrapf(err, "registry: promote non-existent checkpoint %d", idx)
	}
	tmp := filepath.Join(r.Dir, bestFileName+".tmp")
	if err := ioutil.WriteFile(tmp, []byte(strconv.Itoa(idx)), 0644); err != nil {
		return errors.Wrap(err, "registry: write best pointer")
	}
	if err := os.Rename(tmp, filepath.Join(r.Dir, bestFileName)); err != nil {
		return errors.Wrap(err, "registry: promote best pointer")
	}
	return nil
}

// Best reads the currently promoted checkpoint index.
func (r *Registry) Best() (int, error) {
	raw, err := ioutil.ReadFile(filepath.Join(r.Dir, bestFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.Wrap(ErrCheckpointUnavailable, err.Error())
		}
		return 0, errors.Wrap(ErrCheckpointUnavailable, err.Error())
	}
	idx, convErr := strconv.Atoi(strings.TrimSpace(string(raw)))
	if convErr != nil {
		return 0, errors.Wrap(ErrCheckpointUnavailable, convErr.Error())
	}
	return idx, nil
}

// BestWithRetry polls Best with backoff between attempts, mirroring the
// Python reference's get_best_ckpt_idx retry loop ("sleep then retry on
// transient failure"). It gives up after attempts tries.
func (r *Registry) BestWithRetry(attempts int, backoff time.Duration) (int, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		idx, err := r.Best()
		if err == nil {
			return idx, nil
		}
		lastErr = err
		time.Sleep(backoff)
	}
	return 0, errors.Wrap(lastErr, "registry: best checkpoint still unavailable after retries")
}

func (r *Registry) path(idx int) string {
	return filepath.Join(r.Dir, fmt.Sprintf("%d.pt", idx))
}
