package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	UserAgent     string `yaml:"user_agent"`
	Timeout       string `yaml:"timeout"`
	OutputDir     string `yaml:"output_dir"`
	ProbeVariants bool   `yaml:"probe_variants"`
	ServerPort    string `yaml:"server_port"`
	DatabaseURL   string `yaml:"database_url"`
	RedisURL      string `yaml:"redis_url"`
}

// LoadFromFile loads config from a YAML file. All fields are optional;
// missing fields fall back to the same defaults Load uses.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	c := &Config{
		UserAgent:     f.UserAgent,
		Timeout:       15 * time.Second,
		OutputDir:     f.OutputDir,
		ProbeVariants: f.ProbeVariants,
		ServerPort:    f.ServerPort,
		DatabaseURL:   f.DatabaseURL,
		RedisURL:      f.RedisURL,
	}
	if f.Timeout != "" {
		if d, err := time.ParseDuration(f.Timeout); err == nil {
			c.Timeout = d
		}
	}
	c.applyDefaults()
	return c, nil
}
