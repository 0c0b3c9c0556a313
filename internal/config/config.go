package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration sourced from env vars. The signing
// key, algorithm, and lifetimes are fixed here at startup and never
// reloaded.
type Config struct {
	AppAddr         string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout  time.Duration `envconfig:"APP_READ_TIMEOUT" default:"10s"`
	AppWriteTimeout time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"10s"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	JWTSecret    string        `envconfig:"JWT_SECRET" required:"true"`
	JWTAlgorithm string        `envconfig:"JWT_ALGORITHM" default:"HS256"`
	JWTIssuer    string        `envconfig:"JWT_ISSUER" default:"fittogether"`
	JWTTTL       time.Duration `envconfig:"JWT_TTL" default:"60m"`

	PasswordMaxAge time.Duration `envconfig:"PASSWORD_MAX_AGE" default:"720h"`

	CORSOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// Redis is only used for the failed-login throttle; leaving the
	// address empty disables it.
	RedisAddr          string        `envconfig:"REDIS_ADDR"`
	LoginMaxAttempts   int           `envconfig:"LOGIN_MAX_ATTEMPTS" default:"10"`
	LoginAttemptWindow time.Duration `envconfig:"LOGIN_ATTEMPT_WINDOW" default:"15m"`
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	switch cfg.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return Config{}, fmt.Errorf("unsupported JWT_ALGORITHM %q", cfg.JWTAlgorithm)
	}
	if cfg.JWTTTL <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL must be positive, got %s", cfg.JWTTTL)
	}
	if cfg.PasswordMaxAge <= 0 {
		return Config{}, fmt.Errorf("PASSWORD_MAX_AGE must be positive, got %s", cfg.PasswordMaxAge)
	}
	return cfg, nil
}

// ThrottleEnabled reports whether the Redis-backed login throttle is
// configured.
func (c Config) ThrottleEnabled() bool {
	return c.RedisAddr != ""
}
