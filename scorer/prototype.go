package scorer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/poseact/distance"
	"github.com/hupe1980/poseact/pose"
)

// PrototypeOptions configures the reference scorer.
type PrototypeOptions struct {
	// Metric compares aligned frames.
	Metric distance.Metric
	// Temperature divides every logit. Lower values sharpen the softmax.
	Temperature float32
	// MotionWeight scales the similarity of frame-to-frame motion.
	// Zero compares static poses only.
	MotionWeight float32
	// Device is accepted for configuration symmetry; Prototype always runs on the CPU.
	Device Device
	// Workers bounds parallel slot evaluation. Zero means one per CPU.
	Workers int
	// Capabilities selects the similarity kernel. Nil means
	// DetectCapabilities.
	Capabilities *Capabilities
}

// DefaultPrototypeOptions contains the default reference scorer configuration.
var DefaultPrototypeOptions = PrototypeOptions{
	Metric:       distance.MetricL2,
	Temperature:  1,
	MotionWeight: 1,
	Device:       DeviceAuto,
}

// Prototype is a training-free, deterministic Scorer.
//
// The logit of a slot is the mean similarity between temporally aligned
// query and exemplar frames, plus the weighted mean similarity of their
// frame-to-frame motion, divided by the temperature.
type Prototype struct {
	opts   PrototypeOptions
	kernel distance.Kernel
	sim    distance.Func
}

// NewPrototype creates a reference scorer.
func NewPrototype(optFns ...func(o *PrototypeOptions)) (*Prototype, error) {
	opts := DefaultPrototypeOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Temperature <= 0 {
		return nil, fmt.Errorf("temperature must be positive, got %v", opts.Temperature)
	}
	if opts.Device == DeviceCUDA {
		return nil, fmt.Errorf("prototype scorer cannot run on %s", opts.Device)
	}
	caps := DetectCapabilities()
	if opts.Capabilities != nil {
		caps = *opts.Capabilities
	}
	if opts.Workers <= 0 {
		opts.Workers = max(caps.CPUs, 1)
	}
	kernel := caps.Kernel()
	sim, err := distance.SimilarityKernel(opts.Metric, kernel)
	if err != nil {
		return nil, err
	}
	return &Prototype{opts: opts, kernel: kernel, sim: sim}, nil
}

// Kernel returns the similarity kernel chosen for the host.
func (p *Prototype) Kernel() distance.Kernel { return p.kernel }

// Score implements Scorer.
func (p *Prototype) Score(ctx context.Context, req Request) ([]float32, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	logits := make([]float32, req.Way())
	queryMotion := motion(req.Query)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, ex := range req.Exemplars {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			logits[i] = p.slotLogit(req.Query, queryMotion, ex)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return logits, nil
}

func (p *Prototype) slotLogit(query, queryMotion, ex pose.Sequence) float32 {
	var static float32
	for t := range query {
		static += p.sim(query[t], ex[t])
	}
	logit := static / float32(len(query))

	if p.opts.MotionWeight != 0 && len(queryMotion) > 0 {
		exMotion := motion(ex)
		var dyn float32
		for t := range queryMotion {
			dyn += p.sim(queryMotion[t], exMotion[t])
		}
		logit += p.opts.MotionWeight * dyn / float32(len(queryMotion))
	}
	return logit / p.opts.Temperature
}

// motion returns the differences between consecutive frames.
func motion(s pose.Sequence) pose.Sequence {
	if len(s) < 2 {
		return nil
	}
	out := make(pose.Sequence, len(s)-1)
	for t := range out {
		d := make(pose.Pose, len(s[t]))
		for j := range d {
			d[j] = s[t+1][j] - s[t][j]
		}
		out[t] = d
	}
	return out
}
