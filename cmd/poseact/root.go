package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/poseact"
	"github.com/hupe1980/poseact/codec"
	"github.com/hupe1980/poseact/config"
	"github.com/hupe1980/poseact/pose"
)

// app carries state shared by all subcommands.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "poseact",
		Short: "Few-shot skeleton action recognition",
		Long: `poseact recognizes actions in a stream of 3D skeleton poses after seeing
a single example recording of each action.

Examples:
  poseact replay --example wave=wave.json --example clap=clap.json live.json
  poseact support save demo --example wave=wave.json
  poseact replay --support demo live.json
  poseact support ls`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.init()
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (yaml, toml or json); POSEACT_* env vars override it")

	cmd.AddCommand(newReplayCmd(a))
	cmd.AddCommand(newSupportCmd(a))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	logger, err := cfg.SlogLogger()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// newRecognizer builds the configured recognizer with the process logger.
func (a *app) newRecognizer(opts ...poseact.Option) (*poseact.Recognizer, error) {
	opts = append([]poseact.Option{poseact.WithLogger(poseact.NewLogger(a.logger.Handler()))}, opts...)
	return a.cfg.NewRecognizer(opts...)
}

// example is one "label=path" flag value.
type example struct {
	label string
	path  string
}

func parseExamples(values []string) ([]example, error) {
	out := make([]example, 0, len(values))
	for _, v := range values {
		label, path, ok := strings.Cut(v, "=")
		if !ok || label == "" || path == "" {
			return nil, fmt.Errorf("invalid example %q, want label=path", v)
		}
		out = append(out, example{label: label, path: path})
	}
	return out, nil
}

// codecFor picks the recording codec from the file extension.
func codecFor(path string) codec.Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mpk":
		return codec.MsgPack{}
	default:
		return codec.JSON{}
	}
}

// readExample loads a recording, normalizes it and resamples it to the
// configured sequence length.
func (a *app) readExample(path string) (pose.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := pose.ReadSequence(f, codecFor(path), a.cfg.Normalizer())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(s) != a.cfg.Model.SequenceLength {
		a.logger.Debug("resampling example", "path", path, "frames", len(s), "length", a.cfg.Model.SequenceLength)
	}
	return pose.Resample(s, a.cfg.Model.SequenceLength)
}

func (a *app) registerExamples(cmd *cobra.Command, rec *poseact.Recognizer, values []string) error {
	examples, err := parseExamples(values)
	if err != nil {
		return err
	}
	for _, ex := range examples {
		s, err := a.readExample(ex.path)
		if err != nil {
			return err
		}
		if err := rec.Register(cmd.Context(), ex.label, s); err != nil {
			return fmt.Errorf("register %q: %w", ex.label, err)
		}
	}
	return nil
}
