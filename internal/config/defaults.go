package config

import "path/filepath"

// Defaults applied when corresponding Config fields are unset.
const (
	DefaultAddr              = ":8080"
	DefaultDataDir           = "~/.pocketchat"
	DefaultHubURL            = "https://huggingface.co"
	DefaultArtifactExtension = ".gguf"
	DefaultUserAgent         = "pocketchat/1.0"
	DefaultProgressStep      = 5
	DefaultContextSize       = 2048
	DefaultGPULayers         = 1
	DefaultMaxTokens         = 10000
	DefaultLogLevel          = "info"
	DefaultMaxBodyBytes      = 1 << 20
)

// DefaultFormats is the built-in format catalog.
var DefaultFormats = []FormatMapping{
	{Label: "Llama-3.2-1B-Instruct", Repository: "medmekk/Llama-3.2-1B-Instruct.GGUF"},
	{Label: "Qwen2-0.5B-Instruct", Repository: "medmekk/Qwen2.5-0.5B-Instruct.GGUF"},
	{Label: "DeepSeek-R1-Distill-Qwen-1.5B", Repository: "medmekk/DeepSeek-R1-Distill-Qwen-1.5B.GGUF"},
	{Label: "SmolLM2-1.7B-Instruct", Repository: "medmekk/SmolLM2-1.7B-Instruct.GGUF"},
}

// Defaults returns a fully populated configuration.
func Defaults() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills every unset field. Directories derive from DataDir.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.ModelsDir == "" {
		c.ModelsDir = filepath.Join(c.DataDir, "models")
	}
	if c.PrefsDir == "" {
		c.PrefsDir = filepath.Join(c.DataDir, "prefs")
	}
	if c.HistoryPath == "" {
		c.HistoryPath = filepath.Join(c.DataDir, "history.db")
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.HubURL == "" {
		c.HubURL = DefaultHubURL
	}
	if c.ArtifactExtension == "" {
		c.ArtifactExtension = DefaultArtifactExtension
	}
	if len(c.Formats) == 0 {
		c.Formats = append([]FormatMapping(nil), DefaultFormats...)
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.ProgressStep == 0 {
		c.ProgressStep = DefaultProgressStep
	}
	if c.ContextSize <= 0 {
		c.ContextSize = DefaultContextSize
	}
	if c.GPULayers == nil {
		n := DefaultGPULayers
		c.GPULayers = &n
	}
	if c.MLock == nil {
		on := true
		c.MLock = &on
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
}
