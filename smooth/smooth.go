// Package smooth provides filters that steady per-label scores across ticks.
package smooth

import (
	"errors"
	"maps"
)

// ErrInvalidSize is returned for a non-positive history size.
var ErrInvalidSize = errors.New("smooth: size must be > 0")

type labelState struct {
	index  int
	count  int
	sum    float64
	values []float64
}

// MovingAverage is a per-label moving average over the last Size updates.
//
// Labels are tracked from their first appearance. A label missing from an
// update is forgotten, so a removed and re-registered label starts fresh.
// Until a label has Size values, its average is over the values seen so far.
//
// MovingAverage is not safe for concurrent use.
type MovingAverage struct {
	size  int
	state map[string]*labelState
}

// NewMovingAverage returns a filter with a history of size updates.
func NewMovingAverage(size int) (*MovingAverage, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	return &MovingAverage{
		size:  size,
		state: map[string]*labelState{},
	}, nil
}

// Size returns the history length.
func (m *MovingAverage) Size() int { return m.size }

// Update adds one set of scores and returns the smoothed scores for the
// same labels.
func (m *MovingAverage) Update(scores map[string]float32) map[string]float32 {
	for label := range m.state {
		if _, ok := scores[label]; !ok {
			delete(m.state, label)
		}
	}

	out := make(map[string]float32, len(scores))
	for label, v := range scores {
		ls, ok := m.state[label]
		if !ok {
			ls = &labelState{values: make([]float64, m.size)}
			m.state[label] = ls
		}
		ls.sum -= ls.values[ls.index]
		ls.sum += float64(v)
		ls.values[ls.index] = float64(v)
		ls.index = (ls.index + 1) % m.size
		if ls.count < m.size {
			ls.count++
		}
		out[label] = float32(ls.sum / float64(ls.count))
	}
	return out
}

// Labels returns the currently tracked labels in no particular order.
func (m *MovingAverage) Labels() []string {
	out := make([]string, 0, len(m.state))
	for label := range maps.Keys(m.state) {
		out = append(out, label)
	}
	return out
}

// Reset forgets all history.
func (m *MovingAverage) Reset() {
	clear(m.state)
}
