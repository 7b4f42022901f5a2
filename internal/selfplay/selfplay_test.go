package selfplay

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnkzero/mnkzero/internal/evaluator"
)

func TestDefaultTemperatureSchedule(t *testing.T) {
	assert.Equal(t, float32(1), DefaultTemperatureSchedule(0))
	assert.Equal(t, float32(1), DefaultTemperatureSchedule(7))
	assert.Equal(t, float32(0), DefaultTemperatureSchedule(8))
	assert.Equal(t, float32(0), DefaultTemperatureSchedule(50))
}

func TestDefaultNoiseSchedule(t *testing.T) {
	sched := DefaultNoiseSchedule(0.3)
	assert.Nil(t, sched(0))
	assert.Nil(t, sched(7))
	require.NotNil(t, sched(8))
	assert.Equal(t, float32(0.3), *sched(8))
}

func TestPlayGameProducesReverseFilledRecordsSummingToTerminal(t *testing.T) {
	d := &Driver{
		Eval:        evaluator.Constant{ActionSpace: 9, Value: 0},
		NumSims:     4,
		CPUCT:       1.5,
		VLoss:       1,
		BatchSize:   4,
		Temperature: DefaultTemperatureSchedule,
		Noise:       nil,
		ActionRand:  rand.New(rand.NewSource(7)),
	}

	records := d.PlayGame(3, 3)
	require.NotEmpty(t, records)

	for i := 0; i < len(records)-1; i++ {
		assert.Equal(t, -records[i+1].V, records[i].V, "records must alternate sign in reverse fill")
	}
	for _, r := range records {
		assert.Len(t, r.Pi, 9)
		var sum float32
		for _, p := range r.Pi {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-3)
	}
}

func TestSampleMoveRespectsDeterministicRNG(t *testing.T) {
	pi := []float32{1, 0, 0, 0}
	r := rand.New(rand.NewSource(1))
	x, y := sampleMove(pi, 2, r)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
}
