package cli

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Shaik-Faizan-Ahmed/genai-media-verifier/internal/app"
)

// FileConfig is the YAML config file schema. Durations are strings in
// time.ParseDuration syntax ("10m", "1500ms").
type FileConfig struct {
	Server struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"server"`

	Progress struct {
		Backend           string `yaml:"backend"`
		SimulatedInterval string `yaml:"simulated_interval"`
	} `yaml:"progress"`

	History struct {
		Path string `yaml:"path"`
	} `yaml:"history"`
}

// Load reads and decodes a YAML config file.
func Load(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// apply folds the file values into cfg. Unset fields keep their defaults.
func (f *FileConfig) apply(cfg *app.Config) error {
	if f.Server.BaseURL != "" {
		cfg.Client.BaseURL = f.Server.BaseURL
	}
	if f.Server.Timeout != "" {
		d, err := time.ParseDuration(f.Server.Timeout)
		if err != nil {
			return fmt.Errorf("server.timeout: %w", err)
		}
		cfg.Client.Timeout = d
	}
	if f.Progress.Backend != "" {
		cfg.LiveBackend = f.Progress.Backend
	}
	if f.Progress.SimulatedInterval != "" {
		d, err := time.ParseDuration(f.Progress.SimulatedInterval)
		if err != nil {
			return fmt.Errorf("progress.simulated_interval: %w", err)
		}
		cfg.SimulatedInterval = d
	}
	if f.History.Path != "" {
		cfg.HistoryPath = f.History.Path
	}
	return nil
}
