package testutil

import (
	"context"
	"math/rand"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/poseact/pose"
	"github.com/hupe1980/poseact/scorer"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float32, minVal, maxVal float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float32()*span
	}
}

// Pose returns a pose of dim coordinates in range [-1, 1).
func (r *RNG) Pose(dim int) pose.Pose {
	p := make(pose.Pose, dim)
	r.FillUniformRange(p, -1, 1)
	return p
}

// Sequence returns length random poses of dim coordinates.
func (r *RNG) Sequence(length, dim int) pose.Sequence {
	s := make(pose.Sequence, length)
	for i := range s {
		s[i] = r.Pose(dim)
	}
	return s
}

// Joints returns a recording of frames frames with joints joints each,
// in camera-space millimetres around (0, 0, 2000).
func (r *RNG) Joints(frames, joints int) [][][3]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([][][3]float32, frames)
	for i := range out {
		out[i] = make([][3]float32, joints)
		for j := range out[i] {
			out[i][j] = [3]float32{
				r.rand.Float32()*1000 - 500,
				r.rand.Float32()*1000 - 500,
				1500 + r.rand.Float32()*1000,
			}
		}
	}
	return out
}

// ConstantSequence returns length frames in which every coordinate equals v.
func ConstantSequence(length, dim int, v float32) pose.Sequence {
	s := make(pose.Sequence, length)
	for i := range s {
		p := make(pose.Pose, dim)
		for j := range p {
			p[j] = v
		}
		s[i] = p
	}
	return s
}

// FixedScorer returns a copy of Logits for every request, or Err if set.
type FixedScorer struct {
	Logits []float32
	Err    error
}

// Score implements scorer.Scorer.
func (f FixedScorer) Score(ctx context.Context, _ scorer.Request) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return slices.Clone(f.Logits), nil
}

// SlotScorer returns, for every slot, the negated mean absolute difference
// between the exemplar and the query. It is deterministic and needs no setup.
type SlotScorer struct{}

// Score implements scorer.Scorer.
func (SlotScorer) Score(ctx context.Context, req scorer.Request) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]float32, req.Way())
	for i, ex := range req.Exemplars {
		var sum float32
		var n int
		for f := range ex {
			for j := range ex[f] {
				d := ex[f][j] - req.Query[f][j]
				if d < 0 {
					d = -d
				}
				sum += d
				n++
			}
		}
		if n > 0 {
			out[i] = -sum / float32(n)
		}
	}
	return out, nil
}

// CountingScorer counts calls and records the last request.
type CountingScorer struct {
	Scorer scorer.Scorer

	calls atomic.Int64
	mu    sync.Mutex
	last  scorer.Request
}

// Score implements scorer.Scorer.
func (c *CountingScorer) Score(ctx context.Context, req scorer.Request) ([]float32, error) {
	c.calls.Add(1)
	c.mu.Lock()
	c.last = req
	c.mu.Unlock()
	return c.Scorer.Score(ctx, req)
}

// Calls returns the number of Score calls so far.
func (c *CountingScorer) Calls() int { return int(c.calls.Load()) }

// Last returns the most recent request.
func (c *CountingScorer) Last() scorer.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// BlockingScorer blocks every Score call until Release is called or the
// context ends. Entered receives one value per call that started waiting.
type BlockingScorer struct {
	Scorer  scorer.Scorer
	Entered chan struct{}

	release chan struct{}
	once    sync.Once
}

// NewBlockingScorer wraps s.
func NewBlockingScorer(s scorer.Scorer) *BlockingScorer {
	return &BlockingScorer{
		Scorer:  s,
		Entered: make(chan struct{}, 64),
		release: make(chan struct{}),
	}
}

// Score implements scorer.Scorer.
func (b *BlockingScorer) Score(ctx context.Context, req scorer.Request) ([]float32, error) {
	select {
	case b.Entered <- struct{}{}:
	default:
	}
	select {
	case <-b.release:
		return b.Scorer.Score(ctx, req)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release unblocks all current and future calls.
func (b *BlockingScorer) Release() {
	b.once.Do(func() { close(b.release) })
}
