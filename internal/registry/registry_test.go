package registry

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempRegistry(t *testing.T) *Registry {
	reg, _ := tempRegistryDir(t)
	return reg
}

func tempRegistryDir(t *testing.T) (*Registry, string) {
	t.Helper()
	dir, err := ioutil.TempDir("", "registry-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	reg, err := New(dir)
	require.NoError(t, err)
	return reg, dir
}

func TestPutGetRoundTrip(t *testing.T) {
	reg := tempRegistry(t)
	require.NoError(t, reg.Put(0, []byte("ckpt-zero")))

	got, err := reg.Get(0)
	require.NoError(t, err)
	assert.Equal(t, []byte("ckpt-zero"), got)
}

func TestPutWritesDotPtFile(t *testing.T) {
	reg, dir := tempRegistryDir(t)
	require.NoError(t, reg.Put(27, []byte("ckpt-27")))

	_, err := os.Stat(filepath.Join(dir, "27.pt"))
	assert.NoError(t, err, "checkpoint 27 must be written as 27.pt")
}

func TestPutRejectsOverwrite(t *testing.T) {
	reg := tempRegistry(t)
	require.NoError(t, reg.Put(1, []byte("a")))
	assert.Error(t, reg.Put(1, []byte("b")))
}

func TestBestUnavailableBeforeFirstPromotion(t *testing.T) {
	reg := tempRegistry(t)
	_, err := reg.Best()
	assert.ErrorIs(t, err, ErrCheckpointUnavailable)
}

func TestPromoteThenBest(t *testing.T) {
	reg := tempRegistry(t)
	require.NoError(t, reg.Put(0, []byte("a")))
	require.NoError(t, reg.Put(1, []byte("b")))
	require.NoError(t, reg.Promote(1))

	idx, err := reg.Best()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestPromoteRejectsUnknownCheckpoint(t *testing.T) {
	reg := tempRegistry(t)
	assert.Error(t, reg.Promote(42))
}

func TestBestWithRetryEventuallySucceeds(t *testing.T) {
	reg := tempRegistry(t)
	require.NoError(t, reg.Put(5, []byte("c")))

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = reg.Promote(5)
	}()

	idx, err := reg.BestWithRetry(10, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 5, idx)
}
