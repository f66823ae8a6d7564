package support

import "github.com/hupe1980/poseact/pose"

// Snapshot is a coherent, read-only view of a Registry at one point in time.
// It is safe to share between goroutines.
type Snapshot struct {
	exemplars []pose.Sequence
	entries   []Entry
	byslot    []string
}

// Way returns the number of slots.
func (s Snapshot) Way() int { return len(s.exemplars) }

// Len returns the number of active labels.
func (s Snapshot) Len() int { return len(s.entries) }

// Exemplars returns the sequences of all slots in slot order; empty slots are zero.
// The sequences are shared and must not be modified.
func (s Snapshot) Exemplars() []pose.Sequence { return s.exemplars }

// Entries returns the active labels with their slots in insertion order.
func (s Snapshot) Entries() []Entry { return s.entries }

// LabelAt returns the label occupying slot, if any.
func (s Snapshot) LabelAt(slot int) (string, bool) {
	if slot < 0 || slot >= len(s.byslot) || s.byslot[slot] == "" {
		return "", false
	}
	return s.byslot[slot], true
}

// SlotIDs returns the slot indices 0..Way()-1.
func (s Snapshot) SlotIDs() []int {
	ids := make([]int, len(s.exemplars))
	for i := range ids {
		ids[i] = i
	}
	return ids
}
