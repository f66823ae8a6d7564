// Package testutil provides testing utilities for poseact.
//
// This package is intended for use in tests only.
// It provides a deterministic random source for poses and sequences and
// stub scorers with predictable behaviour.
//
// # Random Poses
//
//	rng := testutil.NewRNG(seed)
//	p := rng.Pose(90)            // one frame, 30 joints
//	s := rng.Sequence(16, 90)    // 16 frames
//
// # Stub Scorers
//
//	sc := testutil.FixedScorer{Logits: []float32{1, 2, 0}}
//	cs := &testutil.CountingScorer{Scorer: sc}
//	bs := testutil.NewBlockingScorer(sc) // Score waits until Release
package testutil
