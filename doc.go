// Package poseact provides an online few-shot action recognizer for
// skeleton pose streams.
//
// A Recognizer holds a small support set of labeled example actions
// ("exemplars") and a sliding window of the most recent pose frames. Every
// incoming pose is pushed into the window; once the window is full, the
// window and the support set are handed to a Scorer and the returned logits
// are turned into a probability distribution over the support slots.
//
// # Quick Start
//
//	cfg := poseact.DefaultConfig() // 16 frames, 5 slots, 30 joints
//	sc, _ := scorer.NewPrototype()
//	rec, err := poseact.New(sc, cfg, poseact.WithLogLevel(slog.LevelInfo))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Control path: register examples, possibly concurrently with inference.
//	_ = rec.Register(ctx, "wave", waveFrames) // pose.Sequence of cfg.SequenceLength frames
//
//	// Inference path: one call per frame tick.
//	res, err := rec.Infer(ctx, p)
//	if err != nil {
//	    // ScorerFailure, ShapeMismatch, ...
//	}
//	if res != nil {
//	    best, _ := res.Best()
//	    fmt.Println(best.Label, best.Score)
//	}
//
// # Results
//
// The scorer always produces one logit per slot, so a Result carries one
// score per slot. Slots without a registered label appear under placeholder
// labels ("Action_<slot>"); Result.Real filters them out. Scores over all
// slots sum to one.
//
// # Concurrency
//
// Register, Train, Remove and Restore may be called from any goroutine while
// Infer runs. Each Infer call scores an immutable snapshot of the support set
// taken together with the window, so a registration is either fully visible to
// a prediction or not at all. The scorer runs outside the recognizer's lock.
package poseact
