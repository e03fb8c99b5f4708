package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	HTTPPort    string `envconfig:"HTTP_PORT"    default:":8002"`
	GRPCPort    string `envconfig:"GRPC_PORT"    default:":50051"`
	LogLevel    string `envconfig:"LOG_LEVEL"    default:"info"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"pizza-catalog"`

	JWTSecret   string        `envconfig:"JWT_SECRET"   required:"true"`
	TokenTTL    time.Duration `envconfig:"TOKEN_TTL"    default:"20m"`
	AdminEmails []string      `envconfig:"ADMIN_EMAILS"`

	BlobBackend    string `envconfig:"BLOB_BACKEND"     default:"fs"` // fs or redis
	UploadDir      string `envconfig:"UPLOAD_DIR"       default:"uploads"`
	MaxUploadBytes int64  `envconfig:"MAX_UPLOAD_BYTES" default:"8388608"`
	RedisAddr      string `envconfig:"REDIS_ADDR"       default:"localhost:6379"`

	KafkaBrokers  []string `envconfig:"KAFKA_BROKERS"`
	CheckoutTopic string   `envconfig:"CHECKOUT_TOPIC" default:"catalog.checkout"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig(logger *logrus.Logger) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration from environment variables: %w", err)
	}

	if cfg.DatabaseURL == "" || cfg.JWTSecret == "" {
		return nil, fmt.Errorf("DATABASE_URL and JWT_SECRET must not be empty")
	}
	switch cfg.BlobBackend {
	case "fs", "redis":
	default:
		return nil, fmt.Errorf("unsupported BLOB_BACKEND %q, want fs or redis", cfg.BlobBackend)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	cfg.AdminEmails = normalizeEmails(cfg.AdminEmails)

	logger.Infof("Configuration loaded: HTTP Port=%s, gRPC Port=%s, LogLevel=%s, BlobBackend=%s, KafkaBrokers=%d",
		cfg.HTTPPort, cfg.GRPCPort, cfg.LogLevel, cfg.BlobBackend, len(cfg.KafkaBrokers))
	return &cfg, nil
}

// IsAdminEmail reports whether email belongs to the configured admin list.
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, e := range c.AdminEmails {
		if e == email {
			return true
		}
	}
	return false
}

func normalizeEmails(in []string) []string {
	out := make([]string, 0, len(in))
	for _, e := range in {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
