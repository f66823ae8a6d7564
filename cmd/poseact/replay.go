package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hupe1980/poseact"
	"github.com/hupe1980/poseact/observability"
	"github.com/hupe1980/poseact/pose"
	"github.com/hupe1980/poseact/scorer"
	"github.com/hupe1980/poseact/stream"
)

type replayFlags struct {
	examples []string
	support  string
	save     string
}

func newReplayCmd(a *app) *cobra.Command {
	var f replayFlags

	cmd := &cobra.Command{
		Use:   "replay RECORDING",
		Short: "Replay a recording through the recognizer and print per-tick scores",
		Long: `Replay registers the given examples (and/or loads a saved support set),
then feeds every frame of RECORDING to the recognizer as if it came from a
live pose estimator. One line is printed per reported tick.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.replay(cmd, args[0], f)
		},
	}

	cmd.Flags().StringArrayVarP(&f.examples, "example", "e", nil, "example recording as label=path (repeatable)")
	cmd.Flags().StringVar(&f.support, "support", "", "load this saved support set first")
	cmd.Flags().StringVar(&f.save, "save", "", "save the support set under this name before replaying")

	return cmd
}

func (a *app) replay(cmd *cobra.Command, recording string, f replayFlags) error {
	ctx := cmd.Context()

	caps := scorer.DetectCapabilities()
	a.logger.InfoContext(ctx, "replay starting",
		"recording", recording,
		"scorer", a.cfg.Scorer.Kind,
		"cpu", caps.String(),
		"kernel", caps.Kernel().String(),
	)

	var (
		recOpts  []poseact.Option
		observer stream.Observer
	)
	if a.cfg.Metrics.Addr != "" {
		prom, err := observability.NewPrometheusCollector(prometheus.DefaultRegisterer)
		if err != nil {
			return err
		}
		recOpts = append(recOpts, poseact.WithMetricsCollector(prom))
		observer = prom

		srv := serveMetrics(a.cfg.Metrics.Addr, a.logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	rec, err := a.newRecognizer(recOpts...)
	if err != nil {
		return err
	}

	if f.support != "" || f.save != "" {
		manager, err := a.newManager(ctx)
		if err != nil {
			return err
		}
		if f.support != "" {
			if _, err := manager.Load(ctx, f.support, rec); err != nil {
				return err
			}
		}
		if err := a.registerExamples(cmd, rec, f.examples); err != nil {
			return err
		}
		if f.save != "" {
			if err := manager.Save(ctx, f.save, rec); err != nil {
				return err
			}
		}
	} else if err := a.registerExamples(cmd, rec, f.examples); err != nil {
		return err
	}

	if rec.Len() == 0 {
		return errors.New("no examples registered: use --example or --support")
	}
	if observer != nil {
		observer.OnSupportChanged(rec.Len())
	}

	frames, err := a.readRecording(recording)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	runner, err := stream.New(rec, printSink(out), func(o *stream.Options) {
		o.Controller = a.cfg.Controller()
		o.Smoothing = a.cfg.Stream.Smoothing
		o.Logger = a.logger
		o.Observer = observer
	})
	if err != nil {
		return err
	}

	poses := make(chan pose.Pose)
	go func() {
		defer close(poses)
		for _, p := range frames {
			select {
			case poses <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := runner.Run(ctx, poses, nil); err != nil {
		return err
	}

	st := runner.Stats()
	fmt.Fprintf(out, "frames=%d results=%d dropped=%d errors=%d\n", st.Frames, st.Results, st.Dropped, st.InferErrors)
	return nil
}

// readRecording decodes a recording and normalizes every frame.
func (a *app) readRecording(path string) ([]pose.Pose, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	s, err := pose.ReadSequence(file, codecFor(path), a.cfg.Normalizer())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// printSink writes "seq best label=score ..." per output, scores in slot order.
func printSink(w io.Writer) stream.Sink {
	return func(_ context.Context, out stream.Output) {
		best := "-"
		if b, ok := out.Result.Best(); ok {
			best = b.Label
		}

		parts := make([]string, 0, len(out.Result.Slots))
		for _, s := range out.Result.Slots {
			parts = append(parts, fmt.Sprintf("%s=%.3f", s.Label, out.Smoothed[s.Label]))
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", out.Seq, best, strings.Join(parts, " "))
	}
}

func serveMetrics(addr string, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}
