package config

import (
	"errors"
	"os"
	"time"
)

// ErrNoChannels is returned when the channels file exists but defines no channels.
var ErrNoChannels = errors.New("config: channels file defines no channels")

// DefaultUserAgent is a desktop-browser User-Agent. YouTube serves a reduced
// watch page (without the player response blob) to clients it classifies as
// bots, so the fetcher always identifies as a browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Config holds application configuration (fetcher settings and the optional
// Postgres/Redis endpoints).
type Config struct {
	UserAgent     string        `yaml:"user_agent" env:"FETCHER_USER_AGENT"`
	Timeout       time.Duration `yaml:"timeout" env:"FETCHER_TIMEOUT"`
	OutputDir     string        `yaml:"output_dir" env:"OUTPUT_DIR"`
	ProbeVariants bool          `yaml:"probe_variants" env:"PROBE_VARIANTS"`
	ServerPort    string        `yaml:"server_port" env:"SERVER_PORT"`
	DatabaseURL   string        `yaml:"database_url" env:"DATABASE_URL"`
	RedisURL      string        `yaml:"redis_url" env:"REDIS_URL"`
}

// Load builds config from environment variables. If none of the known
// variables are set, Load tries .env.local and .env from the current
// directory first. Everything is optional; defaults produce a working
// one-shot run writing into the current directory.
func Load() (*Config, error) {
	if os.Getenv("OUTPUT_DIR") == "" && os.Getenv("DATABASE_URL") == "" && os.Getenv("REDIS_URL") == "" {
		loadEnvFiles()
	}
	c := &Config{
		UserAgent:   os.Getenv("FETCHER_USER_AGENT"),
		Timeout:     15 * time.Second,
		OutputDir:   os.Getenv("OUTPUT_DIR"),
		ServerPort:  os.Getenv("SERVER_PORT"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
	}
	if s := os.Getenv("FETCHER_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			c.Timeout = d
		}
	}
	if os.Getenv("PROBE_VARIANTS") == "1" || os.Getenv("PROBE_VARIANTS") == "true" {
		c.ProbeVariants = true
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.ServerPort == "" {
		c.ServerPort = "8080"
	}
}
