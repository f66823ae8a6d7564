package poseact

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// package observability ships such an implementation.
type MetricsCollector interface {
	// RecordInfer is called after each Infer call that received a pose.
	// ready is true when the call produced a result.
	RecordInfer(duration time.Duration, ready bool, err error)

	// RecordRegister is called after each Register or Train call.
	RecordRegister(duration time.Duration, err error)

	// RecordRemove is called after each Remove call.
	RecordRemove(duration time.Duration, err error)

	// RecordRestore is called after each Restore call.
	RecordRestore(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInfer(time.Duration, bool, error) {}
func (NoopMetricsCollector) RecordRegister(time.Duration, error)    {}
func (NoopMetricsCollector) RecordRemove(time.Duration, error)      {}
func (NoopMetricsCollector) RecordRestore(time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InferCount        atomic.Int64
	InferErrors       atomic.Int64
	PredictCount      atomic.Int64
	PredictTotalNanos atomic.Int64
	RegisterCount     atomic.Int64
	RegisterErrors    atomic.Int64
	RemoveCount       atomic.Int64
	RemoveErrors      atomic.Int64
	RestoreCount      atomic.Int64
	RestoreErrors     atomic.Int64
}

// RecordInfer implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInfer(duration time.Duration, ready bool, err error) {
	b.InferCount.Add(1)
	if err != nil {
		b.InferErrors.Add(1)
		return
	}
	if ready {
		b.PredictCount.Add(1)
		b.PredictTotalNanos.Add(duration.Nanoseconds())
	}
}

// RecordRegister implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRegister(_ time.Duration, err error) {
	b.RegisterCount.Add(1)
	if err != nil {
		b.RegisterErrors.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(_ time.Duration, err error) {
	b.RemoveCount.Add(1)
	if err != nil {
		b.RemoveErrors.Add(1)
	}
}

// RecordRestore implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRestore(_ time.Duration, err error) {
	b.RestoreCount.Add(1)
	if err != nil {
		b.RestoreErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InferCount:      b.InferCount.Load(),
		InferErrors:     b.InferErrors.Load(),
		PredictCount:    b.PredictCount.Load(),
		PredictAvgNanos: b.getAvgPredictNanos(),
		RegisterCount:   b.RegisterCount.Load(),
		RegisterErrors:  b.RegisterErrors.Load(),
		RemoveCount:     b.RemoveCount.Load(),
		RemoveErrors:    b.RemoveErrors.Load(),
		RestoreCount:    b.RestoreCount.Load(),
		RestoreErrors:   b.RestoreErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgPredictNanos() int64 {
	count := b.PredictCount.Load()
	if count == 0 {
		return 0
	}
	return b.PredictTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InferCount      int64
	InferErrors     int64
	PredictCount    int64
	PredictAvgNanos int64
	RegisterCount   int64
	RegisterErrors  int64
	RemoveCount     int64
	RemoveErrors    int64
	RestoreCount    int64
	RestoreErrors   int64
}
