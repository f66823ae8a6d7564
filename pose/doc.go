// Package pose defines the frame types consumed by the recognizer.
//
// A Pose is one skeleton frame flattened to J*3 float32 values
// (x, y, z per joint). A Sequence is an ordered run of poses, oldest first;
// exemplars and query windows are both Sequences of the configured length.
//
// Raw joint coordinates from a pose estimator are centred on a root joint and
// divided by a scale before they reach the recognizer:
//
//	n := pose.DefaultNormalizer()
//	p, err := n.Normalize(joints) // joints: [][3]float32
package pose
