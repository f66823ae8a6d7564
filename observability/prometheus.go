// Package observability exports recognizer metrics to Prometheus.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/poseact"
)

var _ poseact.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector implements poseact.MetricsCollector and the stream
// runner's observer hooks.
type PrometheusCollector struct {
	opLatency     *prometheus.HistogramVec
	ops           *prometheus.CounterVec
	predictions   prometheus.Counter
	framesDropped prometheus.Counter
	supportSize   prometheus.Gauge
}

// NewPrometheusCollector creates the collector and registers its metrics
// with reg. Pass prometheus.DefaultRegisterer to expose them through
// promhttp.Handler.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	c := &PrometheusCollector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "poseact_operation_latency_seconds",
			Help:    "Latency of recognizer operations",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"op", "status"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "poseact_operations_total",
			Help: "Total recognizer operations",
		}, []string{"op", "status"}),
		predictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "poseact_predictions_total",
			Help: "Inferences that produced a result",
		}),
		framesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "poseact_frames_dropped_total",
			Help: "Frames dropped by the frame-rate limit",
		}),
		supportSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "poseact_support_labels",
			Help: "Number of registered labels",
		}),
	}

	for _, col := range []prometheus.Collector{c.opLatency, c.ops, c.predictions, c.framesDropped, c.supportSize} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *PrometheusCollector) observe(op string, d time.Duration, err error) {
	s := status(err)
	c.opLatency.WithLabelValues(op, s).Observe(d.Seconds())
	c.ops.WithLabelValues(op, s).Inc()
}

// RecordInfer implements poseact.MetricsCollector.
// Only calls that reached the scorer or failed are timed.
func (c *PrometheusCollector) RecordInfer(d time.Duration, ready bool, err error) {
	if !ready && err == nil {
		c.ops.WithLabelValues("infer", "skipped").Inc()
		return
	}
	c.observe("infer", d, err)
	if ready {
		c.predictions.Inc()
	}
}

// RecordRegister implements poseact.MetricsCollector.
func (c *PrometheusCollector) RecordRegister(d time.Duration, err error) {
	c.observe("register", d, err)
}

// RecordRemove implements poseact.MetricsCollector.
func (c *PrometheusCollector) RecordRemove(d time.Duration, err error) {
	c.observe("remove", d, err)
}

// RecordRestore implements poseact.MetricsCollector.
func (c *PrometheusCollector) RecordRestore(d time.Duration, err error) {
	c.observe("restore", d, err)
}

// OnFrameDropped counts a frame rejected by the frame-rate limit.
func (c *PrometheusCollector) OnFrameDropped() {
	c.framesDropped.Inc()
}

// OnSupportChanged records the number of registered labels.
func (c *PrometheusCollector) OnSupportChanged(n int) {
	c.supportSize.Set(float64(n))
}
