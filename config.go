package poseact

import "fmt"

// Config fixes the tensor shapes the recognizer and its scorer agree on.
type Config struct {
	// SequenceLength is the number of frames per window and per exemplar (L).
	SequenceLength int
	// Way is the number of support slots (W). It must match the scorer.
	Way int
	// Joints is the number of skeleton joints (J); a pose has Joints*3 values.
	Joints int
}

// DefaultConfig returns 16-frame windows, 5 slots and 30-joint skeletons.
func DefaultConfig() Config {
	return Config{
		SequenceLength: 16,
		Way:            5,
		Joints:         30,
	}
}

// Dim returns the number of values per pose.
func (c Config) Dim() int { return c.Joints * 3 }

// Validate checks that every dimension is positive.
func (c Config) Validate() error {
	switch {
	case c.SequenceLength <= 0:
		return fmt.Errorf("%w: sequence length must be positive, got %d", ErrInvalidConfig, c.SequenceLength)
	case c.Way <= 0:
		return fmt.Errorf("%w: way must be positive, got %d", ErrInvalidConfig, c.Way)
	case c.Joints <= 0:
		return fmt.Errorf("%w: joints must be positive, got %d", ErrInvalidConfig, c.Joints)
	}
	return nil
}
