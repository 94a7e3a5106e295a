// Package config loads CLI settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/erniranjank15/Bank/pkg/client"
	"github.com/erniranjank15/Bank/pkg/session"
)

const DefaultEnvFile = ".env"

type Config struct {
	APIURL    string        `env:"BANK_API_URL,default=http://localhost:8000"`
	Timeout   time.Duration `env:"BANK_TIMEOUT,default=30s"`
	RateLimit float64       `env:"BANK_RATE_LIMIT,default=0"`
	RateBurst int           `env:"BANK_RATE_BURST,default=1"`
	TokenFile string        `env:"BANK_TOKEN_FILE"` // empty: ~/.bank_token
	LogLevel  string        `env:"BANK_LOG_LEVEL,default=info"`
	LogFormat string        `env:"BANK_LOG_FORMAT,default=text"`
}

// Load reads envFile into the environment, then decodes the environment.
// Variables already set win over the file. A missing default .env is not an
// error; a missing file that was asked for is.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", DefaultEnvFile, err)
		}
	} else if err := godotenv.Load(envFile); err != nil {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = session.DefaultPath()
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("BANK_API_URL %q is not an http(s) URL", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("BANK_TIMEOUT must be positive, got %s", c.Timeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("BANK_RATE_LIMIT must not be negative, got %v", c.RateLimit)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("BANK_LOG_LEVEL: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("BANK_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

func (c Config) Client() client.Config {
	return client.Config{
		BaseURL:   c.APIURL,
		Timeout:   c.Timeout,
		RateLimit: c.RateLimit,
		Burst:     c.RateBurst,
	}
}

// Logger builds a logger writing to stderr with the configured level and
// format.
func (c Config) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	if strings.EqualFold(c.LogFormat, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
