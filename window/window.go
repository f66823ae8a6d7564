// Package window implements the sliding window of recent pose frames that
// forms the recognizer's query sequence.
package window

import "github.com/hupe1980/poseact/pose"

// State reports whether the window holds enough frames for inference.
type State uint8

const (
	// NotReady means fewer than capacity frames have been pushed.
	NotReady State = iota
	// Ready means the window holds exactly capacity frames.
	Ready
)

func (s State) String() string {
	switch s {
	case NotReady:
		return "not-ready"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Buffer is a fixed-capacity FIFO of poses backed by a ring.
// Once full, every Push evicts the oldest frame.
//
// Buffer is not safe for concurrent use; the recognizer guards it.
type Buffer struct {
	frames []pose.Pose // ring storage
	pos    int         // next write position
	filled int         // number of valid frames (<= len(frames))
}

// New creates an empty Buffer holding up to capacity frames.
// capacity must be positive.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		panic("window: capacity must be positive")
	}
	return &Buffer{frames: make([]pose.Pose, capacity)}
}

// Push appends a copy of p, evicting the oldest frame when full.
func (b *Buffer) Push(p pose.Pose) State {
	b.frames[b.pos] = p.Clone()
	b.pos = (b.pos + 1) % len(b.frames)
	if b.filled < len(b.frames) {
		b.filled++
	}
	return b.State()
}

// State returns the readiness of the buffer without modifying it.
func (b *Buffer) State() State {
	if b.filled == len(b.frames) {
		return Ready
	}
	return NotReady
}

// Ready reports whether the buffer is full.
func (b *Buffer) Ready() bool { return b.State() == Ready }

// Len returns the number of frames currently held.
func (b *Buffer) Len() int { return b.filled }

// Cap returns the window length.
func (b *Buffer) Cap() int { return len(b.frames) }

// Sequence returns the held frames, oldest first.
// The frames are shared with the buffer and must not be modified;
// the buffer never mutates a frame after it has been pushed.
func (b *Buffer) Sequence() pose.Sequence {
	out := make(pose.Sequence, b.filled)
	start := (b.pos - b.filled + len(b.frames)) % len(b.frames)
	for i := range out {
		out[i] = b.frames[(start+i)%len(b.frames)]
	}
	return out
}
