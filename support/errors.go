package support

import "errors"

var (
	// ErrCapacityExceeded is returned when a new label is registered while every slot is taken.
	ErrCapacityExceeded = errors.New("support set is full")

	// ErrUnknownLabel is returned when a label is not registered.
	ErrUnknownLabel = errors.New("unknown label")

	// ErrEmptyLabel is returned when a label is the empty string.
	ErrEmptyLabel = errors.New("label must not be empty")

	// ErrDuplicateLabel is returned by Restore when a label appears twice.
	ErrDuplicateLabel = errors.New("duplicate label")

	// ErrSlotConflict is returned by Restore when a slot is out of range or used twice.
	ErrSlotConflict = errors.New("slot conflict")
)
