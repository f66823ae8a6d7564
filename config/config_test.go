package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/poseact/blobstore"
	"github.com/hupe1980/poseact/persistence"
	"github.com/hupe1980/poseact/scorer"
	"github.com/hupe1980/poseact/scorer/remote"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Model.SequenceLength)
	assert.Equal(t, 5, cfg.Model.Way)
	assert.Equal(t, 30, cfg.Model.Joints)
	assert.Equal(t, ScorerPrototype, cfg.Scorer.Kind)
	assert.InDelta(t, 2200, cfg.Pose.Scale, 1e-9)
	assert.Equal(t, 0, cfg.Pose.RootJoint)
	assert.Equal(t, StoreLocal, cfg.Store.Kind)
	assert.Equal(t, "msgpack", cfg.Store.Codec)
	assert.Equal(t, "zstd", cfg.Store.Compression)
	assert.Empty(t, cfg.Metrics.Addr)

	rc := cfg.RecognizerConfig()
	assert.Equal(t, 90, rc.Dim())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poseact.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model:
  sequence_length: 8
  way: 3
  joints: 17
  score_timeout: 250ms
scorer:
  metric: cosine
  temperature: 0.5
stream:
  max_fps: 30
  smoothing: 4
store:
  kind: memory
  compression: lz4
  codec: json
log:
  level: debug
  format: json
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Model.SequenceLength)
	assert.Equal(t, 3, cfg.Model.Way)
	assert.Equal(t, 17, cfg.Model.Joints)
	assert.Equal(t, 250*time.Millisecond, cfg.Model.ScoreTimeout)
	assert.Equal(t, "cosine", cfg.Scorer.Metric)
	assert.InDelta(t, 0.5, cfg.Scorer.Temperature, 1e-9)
	assert.InDelta(t, 30, cfg.Stream.MaxFPS, 1e-9)
	assert.Equal(t, 4, cfg.Stream.Smoothing)
	assert.Equal(t, StoreMemory, cfg.Store.Kind)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("POSEACT_MODEL_WAY", "7")
	t.Setenv("POSEACT_STORE_KIND", "memory")
	t.Setenv("POSEACT_STORE_ACCESS_KEY", "key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Model.Way)
	assert.Equal(t, StoreMemory, cfg.Store.Kind)
	assert.Equal(t, "key", cfg.Store.AccessKey)
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	v := NewViper()
	v.Set("store.kind", StoreMemory)
	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero way", func(c *Config) { c.Model.Way = 0 }},
		{"zero length", func(c *Config) { c.Model.SequenceLength = 0 }},
		{"zero joints", func(c *Config) { c.Model.Joints = 0 }},
		{"unknown scorer", func(c *Config) { c.Scorer.Kind = "onnx" }},
		{"remote without endpoint", func(c *Config) { c.Scorer.Kind = ScorerRemote }},
		{"zero temperature", func(c *Config) { c.Scorer.Temperature = 0 }},
		{"zero scale", func(c *Config) { c.Pose.Scale = 0 }},
		{"root joint out of range", func(c *Config) { c.Pose.RootJoint = c.Model.Joints }},
		{"negative fps", func(c *Config) { c.Stream.MaxFPS = -1 }},
		{"unknown store", func(c *Config) { c.Store.Kind = "ftp" }},
		{"local without dir", func(c *Config) { c.Store.Kind = StoreLocal; c.Store.Dir = "" }},
		{"minio without endpoint", func(c *Config) { c.Store.Kind = StoreMinIO; c.Store.Bucket = "b" }},
		{"s3 without bucket", func(c *Config) { c.Store.Kind = StoreS3 }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestNewScorer(t *testing.T) {
	cfg := validConfig(t)

	s, err := cfg.NewScorer()
	require.NoError(t, err)
	assert.IsType(t, &scorer.Prototype{}, s)

	cfg.Scorer.Kind = ScorerRemote
	cfg.Scorer.Endpoint = "http://localhost:8080/score"
	s, err = cfg.NewScorer()
	require.NoError(t, err)
	assert.IsType(t, &remote.Client{}, s)

	cfg.Scorer.Kind = ScorerPrototype
	cfg.Scorer.Metric = "manhattan"
	_, err = cfg.NewScorer()
	require.ErrorIs(t, err, ErrInvalid)

	cfg.Scorer.Metric = "l2"
	cfg.Model.Device = "tpu"
	_, err = cfg.NewScorer()
	require.ErrorIs(t, err, ErrInvalid)
}

func TestNewRecognizer(t *testing.T) {
	cfg := validConfig(t)
	rec, err := cfg.NewRecognizer()
	require.NoError(t, err)
	assert.Equal(t, cfg.RecognizerConfig(), rec.Config())
}

func TestNewStoreAndManager(t *testing.T) {
	ctx := context.Background()
	cfg := validConfig(t)

	st, err := cfg.NewStore(ctx)
	require.NoError(t, err)
	assert.IsType(t, &blobstore.MemoryStore{}, st)

	cfg.Store.Kind = StoreLocal
	cfg.Store.Dir = t.TempDir()
	st, err = cfg.NewStore(ctx)
	require.NoError(t, err)
	assert.IsType(t, &blobstore.LocalStore{}, st)

	m, err := cfg.NewManager(st, nil)
	require.NoError(t, err)

	rec, err := cfg.NewRecognizer()
	require.NoError(t, err)
	require.NoError(t, m.Save(ctx, "empty", rec))
	names, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"empty"}, names)

	cfg.Store.Codec = "gob"
	_, err = cfg.NewManager(st, nil)
	require.ErrorIs(t, err, ErrInvalid)

	cfg.Store.Codec = "json"
	cfg.Store.Compression = "brotli"
	_, err = cfg.NewManager(st, nil)
	require.ErrorIs(t, err, ErrInvalid)
	require.ErrorIs(t, err, persistence.ErrUnknownCompression)
}

func TestSlogLogger(t *testing.T) {
	cfg := validConfig(t)
	l, err := cfg.SlogLogger()
	require.NoError(t, err)
	assert.NotNil(t, l)

	cfg.Log.Level = "loud"
	_, err = cfg.SlogLogger()
	require.ErrorIs(t, err, ErrInvalid)
}

func TestController(t *testing.T) {
	cfg := validConfig(t)
	cfg.Stream.MaxFPS = 1.0 / 3600
	c := cfg.Controller()
	assert.True(t, c.AllowFrame())
	assert.False(t, c.AllowFrame())
}
