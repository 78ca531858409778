package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// config holds configuration from profile files. Each field is the default
// for the flag of the same name.
type config struct {
	Accuracy         float64  `yaml:"accuracy"`
	IgnoreWhitespace bool     `yaml:"ignore-whitespace"`
	OrphanThreshold  float64  `yaml:"orphan-threshold"`
	Blocks           []string `yaml:"blocks"`
	IgnoreAttributes bool     `yaml:"ignore-attributes"`
	Markdown         bool     `yaml:"markdown"`
	Page             bool     `yaml:"page"`
	Statistics       bool     `yaml:"statistics"`
}

// defaultConfig returns a config with default values
func defaultConfig() config {
	return config{
		Accuracy: 1.0,
	}
}

// findConfigFile returns the path to the config file for the given profile.
// If a profile is specified but the file doesn't exist, it returns an error.
func findConfigFile(profile string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		if profile != "" {
			return "", fmt.Errorf("profile %q: %w", profile, err)
		}
		return "", nil // No home dir, use defaults
	}

	if profile == "" {
		path := filepath.Join(home, ".htmldiff.yaml")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		xdgConfig := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfig == "" {
			xdgConfig = filepath.Join(home, ".config")
		}
		path = filepath.Join(xdgConfig, "htmldiff", "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return "", nil // No default config found, use defaults
	}

	// Profile explicitly specified - file must exist
	path := filepath.Join(home, ".htmldiff."+profile+".yaml")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("profile config file not found: %s", path)
	}
	return path, nil
}

// loadConfig reads a config file and returns the configuration.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer file.Close()

	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return defaultConfig(), err
	}

	if err := validateOptions(cfg.Accuracy, cfg.OrphanThreshold); err != nil {
		return defaultConfig(), err
	}
	if _, err := compileBlocks(cfg.Blocks); err != nil {
		return defaultConfig(), err
	}
	return cfg, nil
}

// validateOptions rejects values the diff engine would silently replace.
func validateOptions(accuracy, orphanThreshold float64) error {
	if math.IsNaN(accuracy) || accuracy <= 0 || accuracy > 1 {
		return fmt.Errorf("accuracy must be greater than 0 and at most 1, got %v", accuracy)
	}
	if math.IsNaN(orphanThreshold) || orphanThreshold < 0 {
		return fmt.Errorf("orphan threshold must not be negative, got %v", orphanThreshold)
	}
	return nil
}
