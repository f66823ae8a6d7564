package poseact_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/poseact"
	"github.com/hupe1980/poseact/pose"
	"github.com/hupe1980/poseact/scorer"
)

func constant(length, dim int, v float32) pose.Sequence {
	s := make(pose.Sequence, length)
	for i := range s {
		s[i] = make(pose.Pose, dim)
		for j := range s[i] {
			s[i][j] = v
		}
	}
	return s
}

// Example demonstrates registering two actions and recognizing a stream.
func Example() {
	ctx := context.Background()
	cfg := poseact.Config{SequenceLength: 4, Way: 3, Joints: 2}

	sc, err := scorer.NewPrototype()
	if err != nil {
		log.Fatal(err)
	}

	rec, err := poseact.New(sc, cfg)
	if err != nil {
		log.Fatal(err)
	}

	_ = rec.Register(ctx, "raise", constant(cfg.SequenceLength, cfg.Dim(), 1))
	_ = rec.Register(ctx, "lower", constant(cfg.SequenceLength, cfg.Dim(), -1))

	var res *poseact.Result
	for _, p := range constant(cfg.SequenceLength, cfg.Dim(), 0.9) {
		res, err = rec.Infer(ctx, p)
		if err != nil {
			log.Fatal(err)
		}
	}

	best, _ := res.Best()
	fmt.Println(best.Label, len(res.Slots))
	// Output: raise 3
}

// Example_placeholders shows the keys produced for free slots.
func Example_placeholders() {
	ctx := context.Background()
	cfg := poseact.Config{SequenceLength: 1, Way: 2, Joints: 1}

	sc, _ := scorer.NewPrototype()
	rec, _ := poseact.New(sc, cfg)
	_ = rec.Register(ctx, "wave", constant(1, cfg.Dim(), 1))

	res, _ := rec.Infer(ctx, pose.Pose{1, 1, 1})
	for _, s := range res.Slots {
		fmt.Println(s.Index, s.Label, s.Placeholder)
	}
	// Output:
	// 0 wave false
	// 1 Action_1 true
}
