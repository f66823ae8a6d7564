package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/hupe1980/poseact"
	"github.com/hupe1980/poseact/blobstore"
	"github.com/hupe1980/poseact/blobstore/minio"
	"github.com/hupe1980/poseact/blobstore/s3"
	"github.com/hupe1980/poseact/codec"
	"github.com/hupe1980/poseact/distance"
	"github.com/hupe1980/poseact/persistence"
	"github.com/hupe1980/poseact/pose"
	"github.com/hupe1980/poseact/resource"
	"github.com/hupe1980/poseact/scorer"
	"github.com/hupe1980/poseact/scorer/remote"
)

// RecognizerConfig returns the recognizer shapes.
func (c *Config) RecognizerConfig() poseact.Config {
	return poseact.Config{
		SequenceLength: c.Model.SequenceLength,
		Way:            c.Model.Way,
		Joints:         c.Model.Joints,
	}
}

// SlogLogger builds the process logger writing to stderr.
func (c *Config) SlogLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return nil, fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}

// Normalizer returns the pose normalizer.
func (c *Config) Normalizer() pose.Normalizer {
	return pose.Normalizer{RootJoint: c.Pose.RootJoint, Scale: float32(c.Pose.Scale)}
}

// NewScorer builds the configured scorer.
func (c *Config) NewScorer() (scorer.Scorer, error) {
	device, err := scorer.ParseDevice(c.Model.Device)
	if err != nil {
		return nil, fmt.Errorf("%w: model.device: %w", ErrInvalid, err)
	}

	switch c.Scorer.Kind {
	case ScorerRemote:
		client, err := remote.New(c.Scorer.Endpoint, func(o *remote.Options) {
			o.Timeout = c.Scorer.Timeout
			o.Device = device
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case ScorerPrototype:
		metric, err := distance.ParseMetric(c.Scorer.Metric)
		if err != nil {
			return nil, fmt.Errorf("%w: scorer.metric: %w", ErrInvalid, err)
		}
		p, err := scorer.NewPrototype(func(o *scorer.PrototypeOptions) {
			o.Metric = metric
			o.Temperature = float32(c.Scorer.Temperature)
			o.MotionWeight = float32(c.Scorer.MotionWeight)
			o.Device = device
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: unknown scorer.kind %q", ErrInvalid, c.Scorer.Kind)
	}
}

// NewRecognizer builds the scorer and a recognizer around it.
// opts are applied after the configured score timeout.
func (c *Config) NewRecognizer(opts ...poseact.Option) (*poseact.Recognizer, error) {
	s, err := c.NewScorer()
	if err != nil {
		return nil, err
	}
	all := append([]poseact.Option{poseact.WithScoreTimeout(c.Model.ScoreTimeout)}, opts...)
	return poseact.New(s, c.RecognizerConfig(), all...)
}

// Controller returns the stream resource limits.
func (c *Config) Controller() *resource.Controller {
	return resource.NewController(resource.Config{
		MaxFPS:             c.Stream.MaxFPS,
		FrameBurst:         c.Stream.FrameBurst,
		MaxConcurrentInfer: c.Stream.MaxConcurrentInfer,
	})
}

// NewStore opens the configured blob store.
func (c *Config) NewStore(ctx context.Context) (blobstore.BlobStore, error) {
	switch c.Store.Kind {
	case StoreMemory:
		return blobstore.NewMemoryStore(), nil
	case StoreLocal:
		return blobstore.NewLocalStore(c.Store.Dir), nil
	case StoreMinIO:
		st, err := minio.Dial(c.Store.Endpoint, c.Store.AccessKey, c.Store.SecretKey, c.Store.Secure, c.Store.Bucket, c.Store.Prefix)
		if err != nil {
			return nil, err
		}
		if err := st.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return st, nil
	case StoreS3:
		var opts []s3.Option
		if c.Store.Prefix != "" {
			opts = append(opts, s3.WithPrefix(c.Store.Prefix))
		}
		if c.Store.Region != "" {
			opts = append(opts, s3.WithRegion(c.Store.Region))
		}
		if c.Store.Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(c.Store.Endpoint))
		}
		st, err := s3.New(ctx, c.Store.Bucket, opts...)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("%w: unknown store.kind %q", ErrInvalid, c.Store.Kind)
	}
}

// NewManager returns a persistence manager on store using the configured
// codec and compression.
func (c *Config) NewManager(store blobstore.BlobStore, logger *slog.Logger) (*persistence.Manager, error) {
	cd, ok := codec.ByName(c.Store.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: unknown store.codec %q", ErrInvalid, c.Store.Codec)
	}
	comp, err := persistence.ParseCompression(c.Store.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: store.compression: %w", ErrInvalid, err)
	}
	return persistence.NewManager(store, func(o *persistence.ManagerOptions) {
		o.Codec = cd
		o.Compression = comp
		o.Logger = logger
	}), nil
}
