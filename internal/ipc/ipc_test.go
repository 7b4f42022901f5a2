package ipc

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnkzero/mnkzero/internal/board"
	"github.com/mnkzero/mnkzero/internal/trajectory"
)

func tempSocketPath(t *testing.T) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "ipc-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "trajectories.sock")
}

func TestClientSendIsReceivedOnBuffer(t *testing.T) {
	sockPath := tempSocketPath(t)
	buf := trajectory.NewBuffer(4)

	server, err := Listen(sockPath, buf)
	require.NoError(t, err)
	go server.Serve()
	defer server.Close()

	client, err := Dial(sockPath)
	require.NoError(t, err)
	defer client.Close()

	game := []trajectory.Record{
		{Board: board.Empty(3, 3), Pi: []float32{1, 0, 0, 0, 0, 0, 0, 0, 0}, V: 1},
		{Board: board.Apply(board.Empty(3, 3), 0, 0), Pi: []float32{0, 1, 0, 0, 0, 0, 0, 0, 0}, V: -1},
	}
	require.NoError(t, client.Send(game))

	type popResult struct {
		records []trajectory.Record
		ok      bool
	}
	popped := make(chan popResult, 1)
	go func() {
		records, ok := buf.Pop()
		popped <- popResult{records, ok}
	}()

	select {
	case res := <-popped:
		require.True(t, res.ok)
		require.Len(t, res.records, len(game))
		assert.Equal(t, game[0].V, res.records[0].V)
		assert.True(t, board.Eq(game[1].Board, res.records[1].Board))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for trajectory to arrive on buffer")
	}
}

func TestDialFailsWithoutListener(t *testing.T) {
	_, err := Dial(tempSocketPath(t))
	assert.Error(t, err)
}
