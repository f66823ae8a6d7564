package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherCounter(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metrics
				}
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewPrometheusCollector(reg)
	require.NoError(t, err)

	c.RecordInfer(time.Millisecond, true, nil)
	c.RecordInfer(time.Millisecond, false, nil)
	c.RecordInfer(time.Millisecond, false, errors.New("boom"))
	c.RecordRegister(time.Millisecond, nil)
	c.RecordRemove(time.Millisecond, errors.New("unknown"))
	c.RecordRestore(time.Millisecond, nil)
	c.OnFrameDropped()
	c.OnSupportChanged(3)

	assert.Equal(t, 1.0, gatherCounter(t, reg, "poseact_predictions_total", nil))
	assert.Equal(t, 1.0, gatherCounter(t, reg, "poseact_operations_total", map[string]string{"op": "infer", "status": "skipped"}))
	assert.Equal(t, 1.0, gatherCounter(t, reg, "poseact_operations_total", map[string]string{"op": "infer", "status": "error"}))
	assert.Equal(t, 1.0, gatherCounter(t, reg, "poseact_operations_total", map[string]string{"op": "register", "status": "success"}))
	assert.Equal(t, 1.0, gatherCounter(t, reg, "poseact_operations_total", map[string]string{"op": "remove", "status": "error"}))
	assert.Equal(t, 1.0, gatherCounter(t, reg, "poseact_operations_total", map[string]string{"op": "restore", "status": "success"}))
	assert.Equal(t, 1.0, gatherCounter(t, reg, "poseact_frames_dropped_total", nil))
	assert.Equal(t, 3.0, gatherCounter(t, reg, "poseact_support_labels", nil))
}

func TestPrometheusCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusCollector(reg)
	require.NoError(t, err)

	_, err = NewPrometheusCollector(reg)
	require.Error(t, err)
}
