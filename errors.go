package poseact

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/poseact/pose"
	"github.com/hupe1980/poseact/scorer"
	"github.com/hupe1980/poseact/support"
)

var (
	// ErrCapacityExceeded is returned when a new label is registered while all slots are in use.
	// The support set is left unchanged.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrUnknownLabel is returned when removing a label that is not registered.
	ErrUnknownLabel = errors.New("unknown label")

	// ErrInvalidLabel is returned for empty labels and labels reserved for placeholder slots.
	ErrInvalidLabel = errors.New("invalid label")

	// ErrInvalidConfig is returned when a Config has a non-positive dimension.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrSlotConflict is returned by Restore when an exemplar's slot is out of
	// range or claimed by more than one label.
	ErrSlotConflict = errors.New("slot conflict")
)

// ErrShapeMismatch indicates that a pose or exemplar does not match the
// configured sequence length or pose dimensionality.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrShapeMismatch struct {
	What     string
	Expected int
	Actual   int
	Frame    int
	cause    error
}

func (e *ErrShapeMismatch) Error() string {
	if e.Frame >= 0 {
		return fmt.Sprintf("shape mismatch: frame %d has %d %s, expected %d", e.Frame, e.Actual, e.What, e.Expected)
	}
	return fmt.Sprintf("shape mismatch: expected %d %s, got %d", e.Expected, e.What, e.Actual)
}

func (e *ErrShapeMismatch) Unwrap() error { return e.cause }

// ErrScorerFailure indicates that the scorer returned an error, timed out or
// produced unusable logits. The window keeps the frame that was pushed.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrScorerFailure struct {
	// Transient is true when the call was canceled or hit its deadline;
	// the next tick may succeed.
	Transient bool
	cause     error
}

func (e *ErrScorerFailure) Error() string {
	if e.Transient {
		return fmt.Sprintf("scorer failure (transient): %v", e.cause)
	}
	return fmt.Sprintf("scorer failure: %v", e.cause)
}

func (e *ErrScorerFailure) Unwrap() error { return e.cause }

// scorerFailure wraps an error returned by the scorer. The failure is
// transient when the scorer's context ended, even if the scorer did not
// report that itself.
func scorerFailure(ctx context.Context, err error) error {
	return &ErrScorerFailure{
		Transient: errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || ctx.Err() != nil,
		cause:     err,
	}
}

// logitsFailure wraps an unusable scorer output.
func logitsFailure(err error, way, got int) error {
	if errors.Is(err, scorer.ErrOutputShape) {
		err = &ErrShapeMismatch{What: "logits", Expected: way, Actual: got, Frame: -1, cause: err}
	}
	return &ErrScorerFailure{cause: err}
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, support.ErrCapacityExceeded) {
		return fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
	}
	if errors.Is(err, support.ErrUnknownLabel) {
		return fmt.Errorf("%w: %w", ErrUnknownLabel, err)
	}
	if errors.Is(err, support.ErrEmptyLabel) || errors.Is(err, support.ErrDuplicateLabel) {
		return fmt.Errorf("%w: %w", ErrInvalidLabel, err)
	}
	if errors.Is(err, support.ErrSlotConflict) {
		return fmt.Errorf("%w: %w", ErrSlotConflict, err)
	}

	var sm *pose.ErrShapeMismatch
	if errors.As(err, &sm) {
		return &ErrShapeMismatch{What: sm.What, Expected: sm.Expected, Actual: sm.Actual, Frame: sm.Frame, cause: err}
	}

	return err
}
