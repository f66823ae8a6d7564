package poseact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftmax(t *testing.T) {
	t.Run("uniform", func(t *testing.T) {
		out := softmax([]float32{3, 3, 3, 3})
		for _, v := range out {
			assert.InDelta(t, 0.25, v, 1e-6)
		}
	})

	t.Run("large logits stay finite", func(t *testing.T) {
		out := softmax([]float32{1e30, 1e30 - 1e24, -1e30})
		var sum float32
		for _, v := range out {
			assert.False(t, v != v, "NaN")
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-6)
		assert.InDelta(t, 0, out[2], 1e-6)
	})

	t.Run("order preserved", func(t *testing.T) {
		out := softmax([]float32{0, 1, 2})
		assert.Less(t, out[0], out[1])
		assert.Less(t, out[1], out[2])
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, softmax(nil))
	})
}

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"Action_0", true},
		{"Action_12", true},
		{"Action_", false},
		{"Action_1a", false},
		{"action_1", false},
		{"wave", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPlaceholder(tt.label))
		})
	}
	assert.Equal(t, "Action_3", PlaceholderLabel(3))
}

func TestResult_BestAndReal(t *testing.T) {
	res := &Result{
		Slots: []SlotScore{
			{Index: 0, Label: "Action_0", Score: 0.7, Placeholder: true},
			{Index: 1, Label: "clap", Score: 0.1},
			{Index: 2, Label: "wave", Score: 0.2},
		},
		Scores: map[string]float32{"Action_0": 0.7, "clap": 0.1, "wave": 0.2},
	}

	best, ok := res.Best()
	require.True(t, ok)
	assert.Equal(t, "wave", best.Label)
	assert.Equal(t, map[string]float32{"clap": 0.1, "wave": 0.2}, res.Real())

	v, ok := res.Score("clap")
	require.True(t, ok)
	assert.InDelta(t, 0.1, v, 1e-6)
	assert.Equal(t, "Action_0=0.700 clap=0.100 wave=0.200", res.String())

	empty := &Result{Slots: []SlotScore{{Label: "Action_0", Score: 1, Placeholder: true}}}
	_, ok = empty.Best()
	assert.False(t, ok)
}

func TestBasicMetricsCollector(t *testing.T) {
	m := &BasicMetricsCollector{}

	m.RecordInfer(100, true, nil)
	m.RecordInfer(300, true, nil)
	m.RecordInfer(50, false, nil)
	m.RecordInfer(10, false, assert.AnError)
	m.RecordRegister(1, nil)
	m.RecordRegister(1, assert.AnError)
	m.RecordRemove(1, nil)
	m.RecordRestore(1, assert.AnError)

	stats := m.GetStats()
	assert.Equal(t, int64(4), stats.InferCount)
	assert.Equal(t, int64(1), stats.InferErrors)
	assert.Equal(t, int64(2), stats.PredictCount)
	assert.Equal(t, int64(200), stats.PredictAvgNanos)
	assert.Equal(t, int64(2), stats.RegisterCount)
	assert.Equal(t, int64(1), stats.RegisterErrors)
	assert.Equal(t, int64(1), stats.RemoveCount)
	assert.Equal(t, int64(0), stats.RemoveErrors)
	assert.Equal(t, int64(1), stats.RestoreCount)
	assert.Equal(t, int64(1), stats.RestoreErrors)
}
