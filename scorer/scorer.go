// Package scorer defines the boundary between the recognizer and the
// few-shot classification model.
//
// A Scorer receives the exemplar sequences of every support slot, the slot
// indices and the query window, and returns one raw logit per slot. The
// recognizer normalizes the logits; a Scorer never has to.
//
// The package ships a deterministic reference implementation (Prototype) and
// an HTTP client for an external model server (package remote).
package scorer

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/poseact/pose"
)

var (
	// ErrOutputShape is returned when a scorer emits the wrong number of logits.
	ErrOutputShape = errors.New("scorer output shape mismatch")

	// ErrNonFinite is returned when a scorer emits NaN or infinite logits.
	ErrNonFinite = errors.New("scorer output is not finite")

	// ErrInvalidRequest is returned when a request is internally inconsistent.
	ErrInvalidRequest = errors.New("invalid score request")
)

// Request is the input of one scoring call.
// All sequences are shared with the caller and must not be modified.
type Request struct {
	// Exemplars holds one sequence per slot, in slot order. Empty slots are zero.
	Exemplars []pose.Sequence
	// SlotIDs holds the slot index of each exemplar (0..W-1).
	SlotIDs []int
	// Query is the current window, oldest frame first.
	Query pose.Sequence
}

// Way returns the number of slots in the request.
func (r Request) Way() int { return len(r.Exemplars) }

// Validate checks that every exemplar has as many frames as the query and
// that every frame has the query's dimensionality.
func (r Request) Validate() error {
	if len(r.SlotIDs) != len(r.Exemplars) {
		return fmt.Errorf("%w: %d slot ids for %d exemplars", ErrInvalidRequest, len(r.SlotIDs), len(r.Exemplars))
	}
	if len(r.Query) == 0 {
		return fmt.Errorf("%w: empty query", ErrInvalidRequest)
	}
	dim := len(r.Query[0])
	if err := pose.ValidateSequence(r.Query, len(r.Query), dim); err != nil {
		return fmt.Errorf("%w: query: %w", ErrInvalidRequest, err)
	}
	for i, ex := range r.Exemplars {
		if err := pose.ValidateSequence(ex, len(r.Query), dim); err != nil {
			return fmt.Errorf("%w: slot %d: %w", ErrInvalidRequest, r.SlotIDs[i], err)
		}
	}
	return nil
}

// Scorer computes raw per-slot logits. Implementations must be deterministic
// for identical requests and safe for concurrent use.
type Scorer interface {
	Score(ctx context.Context, req Request) ([]float32, error)
}

// Func adapts a function to the Scorer interface.
type Func func(ctx context.Context, req Request) ([]float32, error)

// Score calls f.
func (f Func) Score(ctx context.Context, req Request) ([]float32, error) {
	return f(ctx, req)
}

// CheckLogits verifies that logits has exactly way finite values.
func CheckLogits(logits []float32, way int) error {
	if len(logits) != way {
		return fmt.Errorf("%w: expected %d logits, got %d", ErrOutputShape, way, len(logits))
	}
	for i, v := range logits {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: slot %d = %v", ErrNonFinite, i, v)
		}
	}
	return nil
}
