package pose

// Pose is a single skeleton frame flattened to J*3 coordinates.
// A Pose is treated as immutable once it has been handed to the recognizer.
type Pose []float32

// Clone returns a copy of p.
func (p Pose) Clone() Pose {
	if p == nil {
		return nil
	}
	out := make(Pose, len(p))
	copy(out, p)
	return out
}

// Dim returns the number of coordinates in p.
func (p Pose) Dim() int { return len(p) }

// Sequence is an ordered run of poses, oldest first.
type Sequence []Pose

// Clone returns a deep copy of s.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	for i, p := range s {
		out[i] = p.Clone()
	}
	return out
}

// IsZero reports whether every coordinate of every frame is zero.
// Empty registry slots are represented by zero sequences.
func (s Sequence) IsZero() bool {
	for _, p := range s {
		for _, v := range p {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

// Flat returns the frames of s concatenated row-major into one slice.
func (s Sequence) Flat() []float32 {
	n := 0
	for _, p := range s {
		n += len(p)
	}
	out := make([]float32, 0, n)
	for _, p := range s {
		out = append(out, p...)
	}
	return out
}

// ZeroSequence returns a sequence of length all-zero frames of dim coordinates.
// The frames share a single backing array.
func ZeroSequence(length, dim int) Sequence {
	backing := make([]float32, length*dim)
	s := make(Sequence, length)
	for i := range s {
		s[i] = Pose(backing[i*dim : (i+1)*dim : (i+1)*dim])
	}
	return s
}

// Flatten turns per-joint coordinates into a Pose without normalising them.
func Flatten(joints [][3]float32) Pose {
	p := make(Pose, 0, len(joints)*3)
	for _, j := range joints {
		p = append(p, j[0], j[1], j[2])
	}
	return p
}
