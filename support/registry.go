package support

import (
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/poseact/pose"
)

// Entry binds an active label to its slot.
type Entry struct {
	Label string
	Slot  int
}

// Exemplar is a labeled sequence together with the slot it occupies.
type Exemplar struct {
	Label  string        `json:"label" msgpack:"label"`
	Slot   int           `json:"slot" msgpack:"slot"`
	Frames pose.Sequence `json:"frames" msgpack:"frames"`
}

// Registry is the support set.
type Registry struct {
	length int
	dim    int

	slots    []pose.Sequence // len == way; empty slots hold zero
	entries  []Entry         // active labels in insertion order
	occupied *roaring.Bitmap
	zero     pose.Sequence
}

// NewRegistry creates an empty registry of way slots holding sequences of
// length frames with dim coordinates each.
func NewRegistry(way, length, dim int) *Registry {
	if way <= 0 || length <= 0 || dim <= 0 {
		panic(fmt.Sprintf("support: invalid registry shape way=%d length=%d dim=%d", way, length, dim))
	}
	r := &Registry{
		length:   length,
		dim:      dim,
		slots:    make([]pose.Sequence, way),
		occupied: roaring.New(),
		zero:     pose.ZeroSequence(length, dim),
	}
	for i := range r.slots {
		r.slots[i] = r.zero
	}
	return r
}

// Way returns the number of slots.
func (r *Registry) Way() int { return len(r.slots) }

// Len returns the number of active labels.
func (r *Registry) Len() int { return len(r.entries) }

// Lookup returns the slot of label.
func (r *Registry) Lookup(label string) (int, bool) {
	if i := r.indexOf(label); i >= 0 {
		return r.entries[i].Slot, true
	}
	return -1, false
}

// Labels returns the active labels in insertion order.
func (r *Registry) Labels() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Label
	}
	return out
}

// Register stores a copy of s under label.
//
// An existing label keeps its slot and has its exemplar replaced (replaced is
// true). A new label takes the lowest free slot, or fails with
// ErrCapacityExceeded when none is left. The registry is unchanged on error.
func (r *Registry) Register(label string, s pose.Sequence) (slot int, replaced bool, err error) {
	if label == "" {
		return -1, false, ErrEmptyLabel
	}
	if err := pose.ValidateSequence(s, r.length, r.dim); err != nil {
		return -1, false, err
	}

	if i := r.indexOf(label); i >= 0 {
		slot = r.entries[i].Slot
		r.slots[slot] = s.Clone()
		return slot, true, nil
	}

	slot = r.freeSlot()
	if slot < 0 {
		return -1, false, fmt.Errorf("%w: %d of %d slots in use, cannot add %q", ErrCapacityExceeded, len(r.entries), len(r.slots), label)
	}

	r.slots[slot] = s.Clone()
	r.occupied.Add(uint32(slot))
	r.entries = append(r.entries, Entry{Label: label, Slot: slot})
	return slot, false, nil
}

// Remove zeroes the slot held by label and forgets the label.
// Other slots keep their index.
func (r *Registry) Remove(label string) (int, error) {
	i := r.indexOf(label)
	if i < 0 {
		return -1, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}

	slot := r.entries[i].Slot
	r.slots[slot] = r.zero
	r.occupied.Remove(uint32(slot))
	r.entries = slices.Delete(r.entries, i, i+1)
	return slot, nil
}

// Snapshot returns an immutable view of the current state.
func (r *Registry) Snapshot() Snapshot {
	byslot := make([]string, len(r.slots))
	for _, e := range r.entries {
		byslot[e.Slot] = e.Label
	}
	return Snapshot{
		exemplars: slices.Clone(r.slots),
		entries:   slices.Clone(r.entries),
		byslot:    byslot,
	}
}

// Exemplars returns deep copies of the active exemplars in insertion order.
func (r *Registry) Exemplars() []Exemplar {
	out := make([]Exemplar, len(r.entries))
	for i, e := range r.entries {
		out[i] = Exemplar{Label: e.Label, Slot: e.Slot, Frames: r.slots[e.Slot].Clone()}
	}
	return out
}

// Restore replaces the whole registry with exs, keeping their slots and order.
// Every exemplar is validated before anything changes.
func (r *Registry) Restore(exs []Exemplar) error {
	if len(exs) > len(r.slots) {
		return fmt.Errorf("%w: %d exemplars for %d slots", ErrCapacityExceeded, len(exs), len(r.slots))
	}

	labels := make(map[string]struct{}, len(exs))
	used := roaring.New()
	for _, ex := range exs {
		if ex.Label == "" {
			return ErrEmptyLabel
		}
		if _, dup := labels[ex.Label]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateLabel, ex.Label)
		}
		if ex.Slot < 0 || ex.Slot >= len(r.slots) || used.Contains(uint32(ex.Slot)) {
			return fmt.Errorf("%w: label %q slot %d", ErrSlotConflict, ex.Label, ex.Slot)
		}
		if err := pose.ValidateSequence(ex.Frames, r.length, r.dim); err != nil {
			return fmt.Errorf("exemplar %q: %w", ex.Label, err)
		}
		labels[ex.Label] = struct{}{}
		used.Add(uint32(ex.Slot))
	}

	for i := range r.slots {
		r.slots[i] = r.zero
	}
	r.entries = r.entries[:0]
	for _, ex := range exs {
		r.slots[ex.Slot] = ex.Frames.Clone()
		r.entries = append(r.entries, Entry{Label: ex.Label, Slot: ex.Slot})
	}
	r.occupied = used
	return nil
}

func (r *Registry) indexOf(label string) int {
	for i, e := range r.entries {
		if e.Label == label {
			return i
		}
	}
	return -1
}

// freeSlot returns the lowest unoccupied slot, or -1 when all are taken.
func (r *Registry) freeSlot() int {
	if r.occupied.GetCardinality() >= uint64(len(r.slots)) {
		return -1
	}
	for i := range r.slots {
		if !r.occupied.Contains(uint32(i)) {
			return i
		}
	}
	return -1
}
