package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/PhantomInTheWire/gridsplit/pkg/storage"
)

// Config is the on-disk configuration for gridsplit. Command-line flags take
// precedence over every field.
type Config struct {
	Format  string         `yaml:"format"`
	Log     LogConfig      `yaml:"log"`
	Storage storage.Config `yaml:"storage"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaultConfig() Config {
	return Config{
		Format:  "png",
		Log:     LogConfig{Level: "info", Format: "text"},
		Storage: storage.DefaultConfig(),
	}
}

// loadConfig reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
