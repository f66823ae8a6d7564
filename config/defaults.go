package config

import (
	"time"

	"github.com/spf13/viper"
)

// Scorer kinds.
const (
	ScorerPrototype = "prototype"
	ScorerRemote    = "remote"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreLocal  = "local"
	StoreMinIO  = "minio"
	StoreS3     = "s3"
)

// SetDefaults sets every default value on v.
func SetDefaults(v *viper.Viper) {
	// Model shapes
	v.SetDefault("model.sequence_length", 16)
	v.SetDefault("model.way", 5)
	v.SetDefault("model.joints", 30)
	v.SetDefault("model.device", "auto")
	v.SetDefault("model.score_timeout", time.Duration(0))

	// Scorer
	v.SetDefault("scorer.kind", ScorerPrototype)
	v.SetDefault("scorer.endpoint", "")
	v.SetDefault("scorer.timeout", 5*time.Second)
	v.SetDefault("scorer.temperature", 1.0)
	v.SetDefault("scorer.metric", "l2")
	v.SetDefault("scorer.motion_weight", 1.0)

	// Raw estimator output is in millimetres
	v.SetDefault("pose.scale", 2200.0)
	v.SetDefault("pose.root_joint", 0)

	// Stream
	v.SetDefault("stream.max_fps", 0.0)
	v.SetDefault("stream.frame_burst", 1)
	v.SetDefault("stream.max_concurrent_infer", 1)
	v.SetDefault("stream.smoothing", 0)

	// Support-set store
	v.SetDefault("store.kind", StoreLocal)
	v.SetDefault("store.dir", "support")
	v.SetDefault("store.bucket", "")
	v.SetDefault("store.prefix", "")
	v.SetDefault("store.endpoint", "")
	v.SetDefault("store.region", "")
	v.SetDefault("store.access_key", "")
	v.SetDefault("store.secret_key", "")
	v.SetDefault("store.secure", true)
	v.SetDefault("store.compression", "zstd")
	v.SetDefault("store.codec", "msgpack")

	v.SetDefault("metrics.addr", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// BindSensitiveEnvVars binds credentials to their environment variables
// so they never need to appear in a config file.
func BindSensitiveEnvVars(v *viper.Viper) {
	_ = v.BindEnv("store.access_key", EnvPrefix+"_STORE_ACCESS_KEY", "MINIO_ACCESS_KEY")
	_ = v.BindEnv("store.secret_key", EnvPrefix+"_STORE_SECRET_KEY", "MINIO_SECRET_KEY")
}
