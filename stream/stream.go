// Package stream drives a recognizer from a pose source and a control channel.
//
// A Runner reads one optional pose per tick, feeds it to the recognizer and
// hands results to a sink, while a second loop applies register and remove
// commands as they arrive. Errors of single calls are logged and counted;
// they never stop the runner.
package stream

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/poseact"
	"github.com/hupe1980/poseact/pose"
	"github.com/hupe1980/poseact/resource"
	"github.com/hupe1980/poseact/smooth"
)

// ErrUnknownCommand is replied to commands of an unknown kind.
var ErrUnknownCommand = errors.New("stream: unknown command")

// Engine is the part of *poseact.Recognizer the runner uses.
type Engine interface {
	Infer(ctx context.Context, p pose.Pose) (*poseact.Result, error)
	Register(ctx context.Context, label string, s pose.Sequence) error
	Remove(ctx context.Context, label string) error
	Len() int
}

// Observer receives runner events. *observability.PrometheusCollector implements it.
type Observer interface {
	OnFrameDropped()
	OnSupportChanged(n int)
}

// CommandKind selects the control operation.
type CommandKind uint8

const (
	// CommandRegister registers Frames under Label.
	CommandRegister CommandKind = iota + 1
	// CommandRemove removes Label.
	CommandRemove
)

func (k CommandKind) String() string {
	switch k {
	case CommandRegister:
		return "register"
	case CommandRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Command is a control-path request. If Reply is not nil, the outcome is
// sent on it; it should be buffered.
type Command struct {
	Kind   CommandKind
	Label  string
	Frames pose.Sequence
	Reply  chan<- error
}

// RegisterCommand returns a register command and the channel its outcome arrives on.
func RegisterCommand(label string, frames pose.Sequence) (Command, <-chan error) {
	reply := make(chan error, 1)
	return Command{Kind: CommandRegister, Label: label, Frames: frames, Reply: reply}, reply
}

// RemoveCommand returns a remove command and the channel its outcome arrives on.
func RemoveCommand(label string) (Command, <-chan error) {
	reply := make(chan error, 1)
	return Command{Kind: CommandRemove, Label: label, Reply: reply}, reply
}

// Output is one reported tick.
type Output struct {
	// Seq numbers outputs from 1.
	Seq uint64
	// Result is the raw recognizer result.
	Result *poseact.Result
	// Smoothed holds the moving average of Result.Scores, or Result.Scores
	// when smoothing is off.
	Smoothed map[string]float32
}

// Sink consumes outputs. It runs on the pose loop; a slow sink slows inference.
type Sink func(ctx context.Context, out Output)

// Options configures a Runner.
type Options struct {
	// Controller limits frame rate and inference concurrency. Runners sharing
	// a Controller share its inference slots. Nil means no limits.
	Controller *resource.Controller

	// Smoothing is the moving-average window over results. 0 or 1 disables it.
	Smoothing int

	// Logger receives runner events. Failures of single calls are logged at
	// Debug only; the engine reports them itself. Nil discards everything.
	Logger *slog.Logger

	// Observer receives frame-drop and support-size events. Optional.
	Observer Observer
}

// Stats is a snapshot of runner counters.
type Stats struct {
	Frames        int64 // poses received, absent ones included
	Absent        int64 // ticks without a pose
	Dropped       int64 // poses rejected by the frame-rate limit
	Results       int64 // outputs sent to the sink
	InferErrors   int64
	Commands      int64
	CommandErrors int64
}

// Runner connects a pose source and a control channel to an Engine.
type Runner struct {
	engine Engine
	sink   Sink
	opts   Options
	filter *smooth.MovingAverage

	frames        atomic.Int64
	absent        atomic.Int64
	dropped       atomic.Int64
	results       atomic.Int64
	inferErrors   atomic.Int64
	commands      atomic.Int64
	commandErrors atomic.Int64
}

// New creates a Runner. sink may be nil to discard outputs.
func New(engine Engine, sink Sink, optFns ...func(o *Options)) (*Runner, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if sink == nil {
		sink = func(context.Context, Output) {}
	}

	r := &Runner{engine: engine, sink: sink, opts: opts}
	if opts.Smoothing > 1 {
		f, err := smooth.NewMovingAverage(opts.Smoothing)
		if err != nil {
			return nil, err
		}
		r.filter = f
	}
	return r, nil
}

// Run processes poses and commands until both channels are closed or ctx
// ends. A nil channel counts as closed. It returns ctx.Err() when canceled.
//
// A nil pose on the pose channel marks a tick without a usable pose.
func (r *Runner) Run(ctx context.Context, poses <-chan pose.Pose, control <-chan Command) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return r.poseLoop(ctx, poses) })
	g.Go(func() error { return r.controlLoop(ctx, control) })

	return g.Wait()
}

func (r *Runner) poseLoop(ctx context.Context, poses <-chan pose.Pose) error {
	if poses == nil {
		return nil
	}
	var seq uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p, ok := <-poses:
			if !ok {
				return nil
			}
			if out, ok := r.tick(ctx, p); ok {
				seq++
				out.Seq = seq
				r.sink(ctx, out)
			}
		}
	}
}

func (r *Runner) tick(ctx context.Context, p pose.Pose) (Output, bool) {
	r.frames.Add(1)
	if p == nil {
		r.absent.Add(1)
		return Output{}, false
	}

	if !r.opts.Controller.AllowFrame() {
		r.dropped.Add(1)
		if r.opts.Observer != nil {
			r.opts.Observer.OnFrameDropped()
		}
		return Output{}, false
	}

	if err := r.opts.Controller.AcquireInfer(ctx); err != nil {
		return Output{}, false
	}
	res, err := r.engine.Infer(ctx, p)
	r.opts.Controller.ReleaseInfer()

	if err != nil {
		r.inferErrors.Add(1)
		var sf *poseact.ErrScorerFailure
		transient := errors.As(err, &sf) && sf.Transient
		r.opts.Logger.DebugContext(ctx, "tick skipped", "error", err, "transient", transient)
		return Output{}, false
	}
	if res == nil {
		return Output{}, false
	}

	out := Output{Result: res, Smoothed: res.Scores}
	if r.filter != nil {
		out.Smoothed = r.filter.Update(res.Scores)
	}
	r.results.Add(1)
	return out, true
}

func (r *Runner) controlLoop(ctx context.Context, control <-chan Command) error {
	if control == nil {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd, ok := <-control:
			if !ok {
				return nil
			}
			r.apply(ctx, cmd)
		}
	}
}

func (r *Runner) apply(ctx context.Context, cmd Command) {
	r.commands.Add(1)

	var err error
	switch cmd.Kind {
	case CommandRegister:
		err = r.engine.Register(ctx, cmd.Label, cmd.Frames)
	case CommandRemove:
		err = r.engine.Remove(ctx, cmd.Label)
	default:
		err = ErrUnknownCommand
	}

	if err != nil {
		r.commandErrors.Add(1)
		r.opts.Logger.DebugContext(ctx, "command rejected", "command", cmd.Kind.String(), "label", cmd.Label, "error", err)
	} else if r.opts.Observer != nil {
		r.opts.Observer.OnSupportChanged(r.engine.Len())
	}

	if cmd.Reply != nil {
		select {
		case cmd.Reply <- err:
		default:
			r.opts.Logger.WarnContext(ctx, "command reply dropped", "command", cmd.Kind.String(), "label", cmd.Label)
		}
	}
}

// Stats returns the current counters.
func (r *Runner) Stats() Stats {
	return Stats{
		Frames:        r.frames.Load(),
		Absent:        r.absent.Load(),
		Dropped:       r.dropped.Load(),
		Results:       r.results.Load(),
		InferErrors:   r.inferErrors.Load(),
		Commands:      r.commands.Load(),
		CommandErrors: r.commandErrors.Load(),
	}
}
