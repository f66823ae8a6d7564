package pose

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidScale is returned when a Normalizer has a non-positive scale.
	ErrInvalidScale = errors.New("scale must be positive")

	// ErrInvalidRootJoint is returned when the root joint index is outside the skeleton.
	ErrInvalidRootJoint = errors.New("root joint out of range")

	// ErrEmptySequence is returned when a recording holds no frames.
	ErrEmptySequence = errors.New("sequence has no frames")
)

// ErrShapeMismatch indicates that a pose or sequence does not have the configured shape.
type ErrShapeMismatch struct {
	// What names the mismatching dimension: "frames" or "coordinates".
	What     string
	Expected int
	Actual   int
	// Frame is the offending frame index, or -1 when the whole sequence is at fault.
	Frame int
}

func (e *ErrShapeMismatch) Error() string {
	if e.Frame >= 0 {
		return fmt.Sprintf("shape mismatch: frame %d has %d %s, expected %d", e.Frame, e.Actual, e.What, e.Expected)
	}
	return fmt.Sprintf("shape mismatch: expected %d %s, got %d", e.Expected, e.What, e.Actual)
}

// Validate checks that p has exactly dim coordinates.
func Validate(p Pose, dim int) error {
	if len(p) != dim {
		return &ErrShapeMismatch{What: "coordinates", Expected: dim, Actual: len(p), Frame: -1}
	}
	return nil
}

// ValidateSequence checks that s has exactly length frames of dim coordinates each.
func ValidateSequence(s Sequence, length, dim int) error {
	if len(s) != length {
		return &ErrShapeMismatch{What: "frames", Expected: length, Actual: len(s), Frame: -1}
	}
	for i, p := range s {
		if len(p) != dim {
			return &ErrShapeMismatch{What: "coordinates", Expected: dim, Actual: len(p), Frame: i}
		}
	}
	return nil
}
