package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pocketchat/internal/config"
)

func init() {
	rootCmd.PersistentFlags().String("config", os.Getenv("POCKETCHAT_CONFIG"), "Path to a YAML, JSON or TOML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory for models, preferences and chat history")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(artifactsCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(localCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(historyCmd)
}

var rootCmd = &cobra.Command{
	Use:   "pocketchat",
	Short: "Chat with small on-device language models",
	Long: `pocketchat downloads a small GGUF model from a Hugging Face compatible hub,
loads it into a local llama.cpp session and keeps a conversation with it.
The last used model is reloaded automatically on the next start.`,
	Example: `
# Serve the HTTP API
pocketchat serve --addr :8080

# List artifacts for a format and download one
pocketchat artifacts Llama-3.2-1B-Instruct
pocketchat pull Llama-3.2-1B-Instruct Llama-3.2-1B-Instruct-Q4_0.gguf

# Chat with the last used model
pocketchat chat
pocketchat chat -m "What should I do after a minor burn?"
  `,
	SilenceUsage: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges the config file, persistent flag overrides and defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		loaded, err := config.Load(p)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.DataDir = v
		cfg.ModelsDir, cfg.PrefsDir, cfg.HistoryPath = "", "", ""
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// newLogger writes human readable logs to stderr.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
