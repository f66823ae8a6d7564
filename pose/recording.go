package pose

import (
	"fmt"
	"io"

	"github.com/hupe1980/poseact/codec"
)

// ReadFrames decodes a recording of shape [frames][joints][3].
// If c is nil, codec.Default is used.
func ReadFrames(r io.Reader, c codec.Codec) ([][][3]float32, error) {
	if c == nil {
		c = codec.Default
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	var frames [][][3]float32
	if err := c.Unmarshal(data, &frames); err != nil {
		return nil, fmt.Errorf("decode recording (%s): %w", c.Name(), err)
	}
	if len(frames) == 0 {
		return nil, ErrEmptySequence
	}
	return frames, nil
}

// ReadSequence decodes a recording and normalizes every frame with n.
func ReadSequence(r io.Reader, c codec.Codec, n Normalizer) (Sequence, error) {
	frames, err := ReadFrames(r, c)
	if err != nil {
		return nil, err
	}
	return n.NormalizeAll(frames)
}

// Resample picks length frames from s at evenly spaced positions,
// keeping the first and last frame. The returned frames are copies.
func Resample(s Sequence, length int) (Sequence, error) {
	if len(s) == 0 {
		return nil, ErrEmptySequence
	}
	if length <= 0 {
		return nil, fmt.Errorf("invalid target length %d", length)
	}
	if len(s) == length {
		return s.Clone(), nil
	}

	out := make(Sequence, length)
	if length == 1 {
		out[0] = s[0].Clone()
		return out, nil
	}
	last := len(s) - 1
	for i := range out {
		// Round to the nearest source frame.
		idx := (i*last*2 + (length - 1)) / ((length - 1) * 2)
		out[i] = s[idx].Clone()
	}
	return out, nil
}
