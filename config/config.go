// Package config loads application settings for the poseact command from a
// file and POSEACT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. POSEACT_MODEL_WAY.
const EnvPrefix = "POSEACT"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete application configuration.
type Config struct {
	Model   ModelConfig   `mapstructure:"model"`
	Scorer  ScorerConfig  `mapstructure:"scorer"`
	Pose    PoseConfig    `mapstructure:"pose"`
	Stream  StreamConfig  `mapstructure:"stream"`
	Store   StoreConfig   `mapstructure:"store"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`
}

// ModelConfig holds the shapes the recognizer and the model agree on.
type ModelConfig struct {
	SequenceLength int           `mapstructure:"sequence_length"`
	Way            int           `mapstructure:"way"`
	Joints         int           `mapstructure:"joints"`
	Device         string        `mapstructure:"device"`
	ScoreTimeout   time.Duration `mapstructure:"score_timeout"`
}

// ScorerConfig selects and tunes the scorer.
type ScorerConfig struct {
	Kind         string        `mapstructure:"kind"` // prototype | remote
	Endpoint     string        `mapstructure:"endpoint"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Temperature  float64       `mapstructure:"temperature"`
	Metric       string        `mapstructure:"metric"`
	MotionWeight float64       `mapstructure:"motion_weight"`
}

// PoseConfig controls normalization of raw joint coordinates.
type PoseConfig struct {
	Scale     float64 `mapstructure:"scale"`
	RootJoint int     `mapstructure:"root_joint"`
}

// StreamConfig tunes the stream runner.
type StreamConfig struct {
	MaxFPS             float64 `mapstructure:"max_fps"`
	FrameBurst         int     `mapstructure:"frame_burst"`
	MaxConcurrentInfer int64   `mapstructure:"max_concurrent_infer"`
	Smoothing          int     `mapstructure:"smoothing"`
}

// StoreConfig selects where support sets are saved.
type StoreConfig struct {
	Kind        string `mapstructure:"kind"` // memory | local | minio | s3
	Dir         string `mapstructure:"dir"`
	Bucket      string `mapstructure:"bucket"`
	Prefix      string `mapstructure:"prefix"`
	Endpoint    string `mapstructure:"endpoint"`
	Region      string `mapstructure:"region"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	Secure      bool   `mapstructure:"secure"`
	Compression string `mapstructure:"compression"`
	Codec       string `mapstructure:"codec"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // empty disables /metrics
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text | json
}

// NewViper returns a Viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	BindSensitiveEnvVars(v)
	SetDefaults(v)

	return v
}

// Load reads the configuration file at path, if path is not empty, and
// applies environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	v := NewViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates the configuration held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Model.SequenceLength > 0, "model.sequence_length must be positive, got %d", c.Model.SequenceLength)
	check(c.Model.Way > 0, "model.way must be positive, got %d", c.Model.Way)
	check(c.Model.Joints > 0, "model.joints must be positive, got %d", c.Model.Joints)
	check(c.Model.ScoreTimeout >= 0, "model.score_timeout must not be negative")

	switch c.Scorer.Kind {
	case ScorerPrototype:
		check(c.Scorer.Temperature > 0, "scorer.temperature must be positive, got %v", c.Scorer.Temperature)
	case ScorerRemote:
		check(c.Scorer.Endpoint != "", "scorer.endpoint is required for the remote scorer")
	default:
		check(false, "unknown scorer.kind %q", c.Scorer.Kind)
	}

	check(c.Pose.Scale > 0, "pose.scale must be positive, got %v", c.Pose.Scale)
	check(c.Pose.RootJoint >= 0 && c.Pose.RootJoint < c.Model.Joints,
		"pose.root_joint %d out of range for %d joints", c.Pose.RootJoint, c.Model.Joints)

	check(c.Stream.MaxFPS >= 0, "stream.max_fps must not be negative")
	check(c.Stream.Smoothing >= 0, "stream.smoothing must not be negative")

	switch c.Store.Kind {
	case StoreMemory:
	case StoreLocal:
		check(c.Store.Dir != "", "store.dir is required for the local store")
	case StoreMinIO:
		check(c.Store.Endpoint != "", "store.endpoint is required for the minio store")
		check(c.Store.Bucket != "", "store.bucket is required for the minio store")
	case StoreS3:
		check(c.Store.Bucket != "", "store.bucket is required for the s3 store")
	default:
		check(false, "unknown store.kind %q", c.Store.Kind)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		check(false, "unknown log.format %q", c.Log.Format)
	}

	return errors.Join(errs...)
}
