package distance

import (
	"fmt"
	"math"
)

// Dot returns the inner product of two flattened frames.
// a and b must have the same length.
func Dot(a, b []float32) float32 {
	var s0, s1, s2, s3 float32
	n := len(a)
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
	}
	for ; i < n; i++ {
		s0 += a[i] * b[i]
	}
	return s0 + s1 + s2 + s3
}

// SquaredL2 returns the sum of squared joint displacements between two
// flattened frames. a and b must have the same length.
func SquaredL2(a, b []float32) float32 {
	var s0, s1, s2, s3 float32
	n := len(a)
	i := 0
	for ; i+4 <= n; i += 4 {
		d0 := a[i] - b[i]
		d1 := a[i+1] - b[i+1]
		d2 := a[i+2] - b[i+2]
		d3 := a[i+3] - b[i+3]
		s0 += d0 * d0
		s1 += d1 * d1
		s2 += d2 * d2
		s3 += d3 * d3
	}
	for ; i < n; i++ {
		d := a[i] - b[i]
		s0 += d * d
	}
	return s0 + s1 + s2 + s3
}

// Cosine returns the cosine similarity of a and b.
// Returns 0 if either vector has zero norm.
func Cosine(a, b []float32) float32 {
	return cosineWith(Dot, a, b)
}

func cosineWith(dot Func, a, b []float32) float32 {
	na := dot(a, a)
	nb := dot(b, b)
	if na == 0 || nb == 0 {
		return 0
	}
	return dot(a, b) / float32(math.Sqrt(float64(na))*math.Sqrt(float64(nb)))
}

func dotPlain(a, b []float32) float32 {
	var s float32
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func squaredL2Plain(a, b []float32) float32 {
	var s float32
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

// Kernel selects the loop shape of the similarity functions.
type Kernel uint8

const (
	// KernelUnrolled keeps four independent accumulators. It pays off on
	// CPUs with wide vector units.
	KernelUnrolled Kernel = iota
	// KernelPlain uses a single accumulator.
	KernelPlain
)

func (k Kernel) String() string {
	switch k {
	case KernelUnrolled:
		return "unrolled"
	case KernelPlain:
		return "plain"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Metric selects how two frames are compared.
type Metric int

const (
	MetricL2 Metric = iota
	MetricCosine
	MetricDot
)

func (m Metric) String() string {
	switch m {
	case MetricL2:
		return "L2"
	case MetricCosine:
		return "Cosine"
	case MetricDot:
		return "Dot"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMetric parses a metric name ("l2", "cosine", "dot"). The empty string selects L2.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "l2", "L2", "":
		return MetricL2, nil
	case "cosine", "Cosine":
		return MetricCosine, nil
	case "dot", "Dot":
		return MetricDot, nil
	default:
		return 0, fmt.Errorf("unsupported metric %q", s)
	}
}

// Func is a function type for distance calculation.
type Func func(a, b []float32) float32

// Similarity returns a function where larger values mean more similar frames.
// L2 is negated so that every metric shares the same orientation.
func Similarity(m Metric) (Func, error) {
	return SimilarityKernel(m, KernelUnrolled)
}

// SimilarityKernel is Similarity built on the given kernel.
func SimilarityKernel(m Metric, k Kernel) (Func, error) {
	dot, l2 := Dot, SquaredL2
	switch k {
	case KernelUnrolled:
	case KernelPlain:
		dot, l2 = dotPlain, squaredL2Plain
	default:
		return nil, fmt.Errorf("unsupported kernel: %v", k)
	}

	switch m {
	case MetricL2:
		return func(a, b []float32) float32 { return -l2(a, b) }, nil
	case MetricCosine:
		return func(a, b []float32) float32 { return cosineWith(dot, a, b) }, nil
	case MetricDot:
		return dot, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
