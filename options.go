package poseact

import (
	"log/slog"
	"time"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	scoreTimeout     time.Duration
}

// Option configures Recognizer construction.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &poseact.BasicMetricsCollector{}
//	rec, _ := poseact.New(sc, cfg, poseact.WithMetricsCollector(metrics))
//	// ... use rec ...
//	stats := metrics.GetStats()
//	fmt.Printf("Predictions: %d, Avg latency: %dns\n", stats.PredictCount, stats.PredictAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := poseact.NewJSONLogger(slog.LevelInfo)
//	rec, _ := poseact.New(sc, cfg, poseact.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithScoreTimeout bounds each scorer call. When the deadline passes, Infer
// fails with a transient *ErrScorerFailure; the pushed frame stays in the window.
// Zero (the default) means no timeout beyond the caller's context.
func WithScoreTimeout(d time.Duration) Option {
	return func(o *options) {
		o.scoreTimeout = d
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
