package orchestrator

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnkzero/mnkzero/internal/logging"
)

func tempOrchestrator(t *testing.T) (*Orchestrator, string) {
	t.Helper()
	dir, err := ioutil.TempDir("", "orchestrator-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	o := New(Config{CkptDir: dir, Size: 3, K: 3}, logging.Stderr("test"))
	return o, dir
}

func TestKillWithNoHiddenFileReturnsErrNoRecordFile(t *testing.T) {
	o, _ := tempOrchestrator(t)
	assert.ErrorIs(t, o.Kill(), ErrNoRecordFile)
}

func TestKillRemovesHiddenFileAndReportsDeadPIDs(t *testing.T) {
	o, dir := tempOrchestrator(t)
	require.NoError(t, ioutil.WriteFile(o.hiddenFile(), []byte("[999999999]"), 0644))

	err := o.Kill()
	assert.Error(t, err, "killing a nonexistent pid should be reported, not silently dropped")

	_, statErr := os.Stat(dir + "/.master")
	assert.True(t, os.IsNotExist(statErr), "hidden file must be removed even when a kill failed")
}
