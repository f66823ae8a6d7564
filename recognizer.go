package poseact

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/poseact/pose"
	"github.com/hupe1980/poseact/scorer"
	"github.com/hupe1980/poseact/support"
	"github.com/hupe1980/poseact/window"
)

// Recognizer is the online few-shot inference engine.
//
// It owns the support set and the sliding window. Both are guarded by one
// mutex; the scorer is called outside of it on a snapshot, so control-path
// calls never wait for a running prediction.
type Recognizer struct {
	cfg    Config
	scorer scorer.Scorer

	mu       sync.Mutex
	window   *window.Buffer
	registry *support.Registry

	scoreTimeout time.Duration
	metrics      MetricsCollector
	logger       *Logger
}

// SlotInfo describes one support slot.
type SlotInfo struct {
	Index    int
	Label    string // empty when the slot is free
	Exemplar pose.Sequence
}

// Occupied reports whether a label holds the slot.
func (s SlotInfo) Occupied() bool { return s.Label != "" }

// New creates a Recognizer that delegates scoring to s.
// cfg.Way must equal the number of slots s was built for.
func New(s scorer.Scorer, cfg Config, optFns ...Option) (*Recognizer, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: scorer is required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := applyOptions(optFns)

	return &Recognizer{
		cfg:          cfg,
		scorer:       s,
		window:       window.New(cfg.SequenceLength),
		registry:     support.NewRegistry(cfg.Way, cfg.SequenceLength, cfg.Dim()),
		scoreTimeout: opts.scoreTimeout,
		metrics:      opts.metricsCollector,
		logger:       opts.logger,
	}, nil
}

// Config returns the shapes the recognizer was built with.
func (r *Recognizer) Config() Config { return r.cfg }

// Infer pushes p into the window and, once the window is full, scores it
// against the support set.
//
// A nil result with a nil error means there is nothing to report this tick:
// p is nil, no label is registered, or the window is still filling. In the
// first two cases the window is not touched.
//
// A pose of the wrong dimensionality fails with *ErrShapeMismatch before the
// window changes. A scorer error, timeout or unusable output fails with
// *ErrScorerFailure; the frame stays in the window.
func (r *Recognizer) Infer(ctx context.Context, p pose.Pose) (*Result, error) {
	if p == nil {
		return nil, nil
	}

	start := time.Now()

	res, active, err := r.infer(ctx, p)

	r.metrics.RecordInfer(time.Since(start), res != nil, err)
	if res != nil || err != nil {
		best, _ := bestLabel(res)
		r.logger.LogInfer(ctx, active, best, err)
	}

	return res, err
}

func (r *Recognizer) infer(ctx context.Context, p pose.Pose) (*Result, int, error) {
	r.mu.Lock()
	active := r.registry.Len()
	if active == 0 {
		r.mu.Unlock()
		return nil, 0, nil
	}
	if err := pose.Validate(p, r.cfg.Dim()); err != nil {
		r.mu.Unlock()
		return nil, active, translateError(err)
	}
	if r.window.Push(p) != window.Ready {
		r.mu.Unlock()
		return nil, active, nil
	}
	snap := r.registry.Snapshot()
	query := r.window.Sequence()
	r.mu.Unlock()

	logits, err := r.score(ctx, snap, query)
	if err != nil {
		return nil, active, err
	}

	return newResult(snap, logits), active, nil
}

func (r *Recognizer) score(ctx context.Context, snap support.Snapshot, query pose.Sequence) ([]float32, error) {
	if r.scoreTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.scoreTimeout)
		defer cancel()
	}

	logits, err := r.scorer.Score(ctx, scorer.Request{
		Exemplars: snap.Exemplars(),
		SlotIDs:   snap.SlotIDs(),
		Query:     query,
	})
	if err != nil {
		return nil, scorerFailure(ctx, err)
	}
	if err := scorer.CheckLogits(logits, snap.Way()); err != nil {
		return nil, logitsFailure(err, snap.Way(), len(logits))
	}
	return logits, nil
}

func newResult(snap support.Snapshot, logits []float32) *Result {
	scores := softmax(logits)
	res := &Result{
		Slots:  make([]SlotScore, len(scores)),
		Scores: make(map[string]float32, len(scores)),
	}
	for i, v := range scores {
		s := SlotScore{Index: i, Score: v}
		if label, ok := snap.LabelAt(i); ok {
			s.Label = label
		} else {
			s.Label = PlaceholderLabel(i)
			s.Placeholder = true
		}
		res.Slots[i] = s
		res.Scores[s.Label] = v
	}
	return res
}

func bestLabel(res *Result) (string, bool) {
	if res == nil {
		return "", false
	}
	best, ok := res.Best()
	return best.Label, ok
}

// Register stores a copy of s as the exemplar of label.
//
// A label that is already registered keeps its slot and gets the new
// exemplar. A new label takes the lowest free slot; when all slots are taken
// Register fails with ErrCapacityExceeded. Labels of the form "Action_<n>"
// are reserved for placeholders and rejected with ErrInvalidLabel.
func (r *Recognizer) Register(ctx context.Context, label string, s pose.Sequence) error {
	start := time.Now()

	slot, replaced, err := r.register(label, s)

	r.metrics.RecordRegister(time.Since(start), err)
	r.logger.LogRegister(ctx, label, slot, replaced, err)

	return err
}

func (r *Recognizer) register(label string, s pose.Sequence) (int, bool, error) {
	if IsPlaceholder(label) {
		return -1, false, fmt.Errorf("%w: %q is reserved", ErrInvalidLabel, label)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	slot, replaced, err := r.registry.Register(label, s)
	return slot, replaced, translateError(err)
}

// Train registers a recording given as per-joint coordinates.
// The recording must have SequenceLength frames of Joints joints each; the
// coordinates are used as given.
func (r *Recognizer) Train(ctx context.Context, label string, frames [][][3]float32) error {
	if err := r.checkRecording(frames); err != nil {
		r.metrics.RecordRegister(0, err)
		r.logger.LogRegister(ctx, label, -1, false, err)
		return err
	}

	s := make(pose.Sequence, len(frames))
	for i, f := range frames {
		s[i] = pose.Flatten(f)
	}
	return r.Register(ctx, label, s)
}

func (r *Recognizer) checkRecording(frames [][][3]float32) error {
	if len(frames) != r.cfg.SequenceLength {
		return &ErrShapeMismatch{What: "frames", Expected: r.cfg.SequenceLength, Actual: len(frames), Frame: -1}
	}
	for i, f := range frames {
		if len(f) != r.cfg.Joints {
			return &ErrShapeMismatch{What: "joints", Expected: r.cfg.Joints, Actual: len(f), Frame: i}
		}
	}
	return nil
}

// Remove forgets label and zeroes its slot. Other labels keep their slots.
// It fails with ErrUnknownLabel if label is not registered.
func (r *Recognizer) Remove(ctx context.Context, label string) error {
	start := time.Now()

	r.mu.Lock()
	slot, err := r.registry.Remove(label)
	r.mu.Unlock()
	err = translateError(err)

	r.metrics.RecordRemove(time.Since(start), err)
	r.logger.LogRemove(ctx, label, slot, err)

	return err
}

// Restore replaces the whole support set with exs, keeping each exemplar in
// the slot it names. Nothing changes if any exemplar is invalid.
// The window is left as it is.
func (r *Recognizer) Restore(ctx context.Context, exs []support.Exemplar) error {
	start := time.Now()
	err := r.restore(exs)
	r.metrics.RecordRestore(time.Since(start), err)
	r.logger.LogRestore(ctx, len(exs), err)
	return err
}

func (r *Recognizer) restore(exs []support.Exemplar) error {
	for _, ex := range exs {
		if IsPlaceholder(ex.Label) {
			return fmt.Errorf("%w: %q is reserved", ErrInvalidLabel, ex.Label)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return translateError(r.registry.Restore(exs))
}

// Exemplars returns copies of the registered exemplars in registration order.
func (r *Recognizer) Exemplars() []support.Exemplar {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.registry.Exemplars()
}

// Labels returns the registered labels in registration order.
func (r *Recognizer) Labels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.registry.Labels()
}

// Len returns the number of registered labels.
func (r *Recognizer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.registry.Len()
}

// Slot returns the slot held by label.
func (r *Recognizer) Slot(label string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.registry.Lookup(label)
}

// Slots lists every slot in index order, free ones included.
func (r *Recognizer) Slots() []SlotInfo {
	r.mu.Lock()
	snap := r.registry.Snapshot()
	r.mu.Unlock()

	out := make([]SlotInfo, snap.Way())
	for i, ex := range snap.Exemplars() {
		label, _ := snap.LabelAt(i)
		out[i] = SlotInfo{Index: i, Label: label, Exemplar: ex.Clone()}
	}
	return out
}

// Ready reports whether the window is full.
func (r *Recognizer) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.window.Ready()
}

// WindowLen returns the number of frames in the window.
func (r *Recognizer) WindowLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.window.Len()
}
