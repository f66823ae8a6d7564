package pose

import "fmt"

// DefaultScale is the divisor applied to raw estimator coordinates (millimetres).
const DefaultScale = 2200

// Normalizer centres a skeleton on its root joint and rescales it.
type Normalizer struct {
	// RootJoint is the joint subtracted from every other joint.
	RootJoint int
	// Scale divides every coordinate after centring.
	Scale float32
}

// DefaultNormalizer centres on joint 0 and divides by DefaultScale.
func DefaultNormalizer() Normalizer {
	return Normalizer{RootJoint: 0, Scale: DefaultScale}
}

// Normalize centres joints on the root joint, divides by the scale and
// flattens the result into a Pose.
func (n Normalizer) Normalize(joints [][3]float32) (Pose, error) {
	if n.Scale <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScale, n.Scale)
	}
	if n.RootJoint < 0 || n.RootJoint >= len(joints) {
		return nil, fmt.Errorf("%w: %d of %d joints", ErrInvalidRootJoint, n.RootJoint, len(joints))
	}

	root := joints[n.RootJoint]
	inv := 1 / n.Scale
	p := make(Pose, 0, len(joints)*3)
	for _, j := range joints {
		p = append(p,
			(j[0]-root[0])*inv,
			(j[1]-root[1])*inv,
			(j[2]-root[2])*inv,
		)
	}
	return p, nil
}

// NormalizeAll normalizes every frame of a recording.
func (n Normalizer) NormalizeAll(frames [][][3]float32) (Sequence, error) {
	s := make(Sequence, len(frames))
	for i, joints := range frames {
		p, err := n.Normalize(joints)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		s[i] = p
	}
	return s, nil
}
