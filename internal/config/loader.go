package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FormatMapping binds a selectable model format to its remote repository.
type FormatMapping struct {
	Label      string `json:"label" yaml:"label" toml:"label"`
	Repository string `json:"repository" yaml:"repository" toml:"repository"`
}

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr        string `json:"addr" yaml:"addr" toml:"addr"`
	DataDir     string `json:"data_dir" yaml:"data_dir" toml:"data_dir"`
	ModelsDir   string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	PrefsDir    string `json:"prefs_dir" yaml:"prefs_dir" toml:"prefs_dir"`
	HistoryPath string `json:"history_path" yaml:"history_path" toml:"history_path"`
	LogLevel    string `json:"log_level" yaml:"log_level" toml:"log_level"`

	// Remote catalog
	HubURL            string          `json:"hub_url" yaml:"hub_url" toml:"hub_url"`
	ArtifactExtension string          `json:"artifact_extension" yaml:"artifact_extension" toml:"artifact_extension"`
	Formats           []FormatMapping `json:"formats" yaml:"formats" toml:"formats"`
	UserAgent         string          `json:"user_agent" yaml:"user_agent" toml:"user_agent"`
	ProgressStep      int             `json:"progress_step" yaml:"progress_step" toml:"progress_step"`

	// Inference engine
	ContextSize int   `json:"context_size" yaml:"context_size" toml:"context_size"`
	GPULayers   *int  `json:"gpu_layers" yaml:"gpu_layers" toml:"gpu_layers"`
	MLock       *bool `json:"mlock" yaml:"mlock" toml:"mlock"`
	Threads     int   `json:"threads" yaml:"threads" toml:"threads"`
	MaxTokens   int   `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`

	// StopSequences end a completion; empty selects the built-in turn markers.
	StopSequences []string `json:"stop_sequences" yaml:"stop_sequences" toml:"stop_sequences"`

	// HTTP
	MaxBodyBytes int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	CORSEnabled  bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins  []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	// ChatTimeoutSeconds bounds one /chat request; 0 disables.
	ChatTimeoutSeconds int64 `json:"chat_timeout_seconds" yaml:"chat_timeout_seconds" toml:"chat_timeout_seconds"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations that would break the format mapping
// invariant: every label maps to exactly one repository.
func (c Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Formats))
	for i, f := range c.Formats {
		if strings.TrimSpace(f.Label) == "" {
			return fmt.Errorf("formats[%d]: empty label", i)
		}
		if strings.TrimSpace(f.Repository) == "" {
			return fmt.Errorf("formats[%d] %q: empty repository", i, f.Label)
		}
		if _, dup := seen[f.Label]; dup {
			return fmt.Errorf("formats[%d]: duplicate label %q", i, f.Label)
		}
		seen[f.Label] = struct{}{}
	}
	if c.ChatTimeoutSeconds < 0 {
		return fmt.Errorf("chat_timeout_seconds must not be negative, got %d", c.ChatTimeoutSeconds)
	}
	if c.GPULayers != nil && *c.GPULayers < 0 {
		return fmt.Errorf("gpu_layers must not be negative, got %d", *c.GPULayers)
	}
	if c.ProgressStep < 0 || c.ProgressStep > 100 {
		return fmt.Errorf("progress_step must be within 0..100, got %d", c.ProgressStep)
	}
	return nil
}
