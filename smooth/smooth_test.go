package smooth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMovingAverage(t *testing.T) {
	_, err := NewMovingAverage(0)
	require.ErrorIs(t, err, ErrInvalidSize)

	m, err := NewMovingAverage(3)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Size())
}

func TestMovingAverage_Update(t *testing.T) {
	m, err := NewMovingAverage(3)
	require.NoError(t, err)

	out := m.Update(map[string]float32{"wave": 0.9, "clap": 0.1})
	assert.InDelta(t, 0.9, out["wave"], 1e-6)

	out = m.Update(map[string]float32{"wave": 0.3, "clap": 0.7})
	assert.InDelta(t, 0.6, out["wave"], 1e-6)
	assert.InDelta(t, 0.4, out["clap"], 1e-6)

	m.Update(map[string]float32{"wave": 0.6, "clap": 0.4})
	out = m.Update(map[string]float32{"wave": 0, "clap": 1})
	// History is now 0.3, 0.6, 0.
	assert.InDelta(t, 0.3, out["wave"], 1e-6)
	assert.InDelta(t, 0.7, out["clap"], 1e-6)
}

func TestMovingAverage_DropsVanishedLabels(t *testing.T) {
	m, err := NewMovingAverage(4)
	require.NoError(t, err)

	m.Update(map[string]float32{"wave": 1, "clap": 0})
	m.Update(map[string]float32{"clap": 1, "Action_0": 0})
	assert.ElementsMatch(t, []string{"clap", "Action_0"}, m.Labels())

	// wave comes back without history.
	out := m.Update(map[string]float32{"wave": 0.2, "clap": 1})
	assert.InDelta(t, 0.2, out["wave"], 1e-6)

	m.Reset()
	assert.Empty(t, m.Labels())
}
