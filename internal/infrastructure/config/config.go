package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"JWT_TTL, default=30m"`

	// MaxUploadBytes bounds the accepted image size on /ml/predict.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES, default=10485760"`

	// HistoryWorkers sizes the async classification-history writer pool.
	HistoryWorkers int `env:"HISTORY_WORKERS, default=4"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Inference InferenceConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=vision_api"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type InferenceConfig struct {
	URL     string        `env:"INFERENCE_URL,     default=http://localhost:8501"`
	Timeout time.Duration `env:"INFERENCE_TIMEOUT, default=10s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	return &cfg, nil
}
