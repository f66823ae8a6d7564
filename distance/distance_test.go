package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two joints, flattened: hip at the origin, hand raised or stretched out.
var (
	handUp  = []float32{0, 0, 0, 0, 1, 0}
	handOut = []float32{0, 0, 0, 1, 0, 0}
)

func TestKernels(t *testing.T) {
	tests := []struct {
		name   string
		fn     Func
		a, b   []float32
		expect float32
	}{
		{"dot same", Dot, handUp, handUp, 1},
		{"dot orthogonal", Dot, handUp, handOut, 0},
		{"dot unrolled tail", Dot, []float32{1, 2, 3, 4, 5}, []float32{1, 1, 1, 1, 2}, 20},
		{"l2 same", SquaredL2, handUp, handUp, 0},
		{"l2 orthogonal", SquaredL2, handUp, handOut, 2},
		{"l2 unrolled tail", SquaredL2, []float32{1, 2, 3, 4, 5}, []float32{1, 2, 3, 4, 2}, 9},
		{"cosine same", Cosine, handUp, handUp, 1},
		{"cosine scaled", Cosine, []float32{0, 2, 0}, []float32{0, 5, 0}, 1},
		{"cosine opposite", Cosine, []float32{1, 1}, []float32{-1, -1}, -1},
		{"cosine zero frame", Cosine, make([]float32, 6), handUp, 0},
		{"empty", SquaredL2, nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expect, tt.fn(tt.a, tt.b), 1e-5)
		})
	}
}

func TestSimilarity_Orientation(t *testing.T) {
	for _, m := range []Metric{MetricL2, MetricCosine, MetricDot} {
		t.Run(m.String(), func(t *testing.T) {
			sim, err := Similarity(m)
			require.NoError(t, err)
			assert.Greater(t, sim(handUp, handUp), sim(handUp, handOut))
		})
	}

	_, err := Similarity(Metric(99))
	require.Error(t, err)
}

func TestSimilarityKernel_Agree(t *testing.T) {
	a := []float32{0.1, -0.4, 0.9, 0.3, 0.2, -0.7, 0.5}
	b := []float32{0.3, 0.2, -0.1, 0.8, -0.6, 0.4, 0.05}
	for _, m := range []Metric{MetricL2, MetricCosine, MetricDot} {
		t.Run(m.String(), func(t *testing.T) {
			unrolled, err := SimilarityKernel(m, KernelUnrolled)
			require.NoError(t, err)
			plain, err := SimilarityKernel(m, KernelPlain)
			require.NoError(t, err)
			assert.InDelta(t, unrolled(a, b), plain(a, b), 1e-5)
		})
	}

	_, err := SimilarityKernel(MetricL2, Kernel(9))
	require.Error(t, err)
	assert.Equal(t, "plain", KernelPlain.String())
	assert.Equal(t, "unrolled", KernelUnrolled.String())
}

func TestMetric(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "L2", MetricL2.String())
		assert.Equal(t, "Cosine", MetricCosine.String())
		assert.Equal(t, "Dot", MetricDot.String())
		assert.Equal(t, "Unknown(99)", Metric(99).String())
	})

	t.Run("Parse", func(t *testing.T) {
		for in, want := range map[string]Metric{"": MetricL2, "l2": MetricL2, "cosine": MetricCosine, "dot": MetricDot} {
			got, err := ParseMetric(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
		_, err := ParseMetric("hamming")
		require.Error(t, err)
	})
}
