package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the runtime configuration. Priority: ENV > YAML > env-default tags.
type Config struct {
	DBPath string      `yaml:"db_path" env:"NUTRI_DB_PATH"`
	Log    LogConfig   `yaml:"log"`
	AI     AIConfig    `yaml:"ai"`
	Image  ImageConfig `yaml:"image"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"NUTRI_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"NUTRI_LOG_FORMAT" env-default:"text"`
}

type AIConfig struct {
	ConnectTimeout  time.Duration `yaml:"connect_timeout"  env:"NUTRI_AI_CONNECT_TIMEOUT"  env-default:"20s"`
	Timeout         time.Duration `yaml:"timeout"          env:"NUTRI_AI_TIMEOUT"          env-default:"120s"`
	DefaultProvider string        `yaml:"default_provider" env:"NUTRI_AI_DEFAULT_PROVIDER"`
}

type ImageConfig struct {
	MaxEdge int `yaml:"max_edge" env:"NUTRI_IMAGE_MAX_EDGE" env-default:"1280"`
	Quality int `yaml:"quality"  env:"NUTRI_IMAGE_QUALITY"  env-default:"85"`
}

// LoadConfig reads path (or NUTRI_CONFIG, or the default location) when the file
// exists, then applies environment overrides. A path given explicitly must exist.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("NUTRI_CONFIG"))
	}
	explicitPath := path != ""
	if !explicitPath {
		if def, err := DefaultConfigPath(); err == nil {
			path = def
		}
	}

	if _, err := os.Stat(path); path != "" && err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", c.Log.Level)
	}
	if c.AI.ConnectTimeout <= 0 {
		return fmt.Errorf("ai.connect_timeout must be > 0 (got %s)", c.AI.ConnectTimeout)
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("ai.timeout must be > 0 (got %s)", c.AI.Timeout)
	}
	if c.AI.ConnectTimeout > c.AI.Timeout {
		return fmt.Errorf("ai.connect_timeout (%s) must not exceed ai.timeout (%s)", c.AI.ConnectTimeout, c.AI.Timeout)
	}
	if c.Image.MaxEdge <= 0 {
		return fmt.Errorf("image.max_edge must be > 0 (got %d)", c.Image.MaxEdge)
	}
	if c.Image.Quality < 1 || c.Image.Quality > 100 {
		return fmt.Errorf("image.quality must be within 1..100 (got %d)", c.Image.Quality)
	}
	return nil
}
