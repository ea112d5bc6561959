package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pocketchat/internal/catalog"
	"pocketchat/internal/config"
	"pocketchat/internal/conversation"
	"pocketchat/internal/download"
	"pocketchat/internal/history"
	"pocketchat/internal/manager"
	"pocketchat/internal/prefs"
	"pocketchat/internal/session"
	"pocketchat/internal/store"
)

// eventTail is how many lifecycle events GET /events keeps.
const eventTail = 256

// app holds every wired component of one process.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	store   *store.Store
	prefs   *prefs.Store
	history *history.Archive
	session *session.Session
	events  *manager.MemoryPublisher
	mgr     *manager.Manager
	chat    *conversation.Controller
}

func newApp(ctx context.Context, cfg config.Config, log zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}
	var err error
	if a.store, err = store.New(cfg.ModelsDir, cfg.ArtifactExtension); err != nil {
		return nil, fmt.Errorf("models dir: %w", err)
	}
	if a.prefs, err = prefs.Open(prefs.Config{Dir: cfg.PrefsDir, Logger: log.With().Str("component", "prefs").Logger()}); err != nil {
		return nil, err
	}
	if a.history, err = history.Open(ctx, cfg.HistoryPath); err != nil {
		a.prefs.Close()
		return nil, err
	}

	mappings := make([]catalog.Mapping, 0, len(cfg.Formats))
	for _, f := range cfg.Formats {
		mappings = append(mappings, catalog.Mapping{Label: f.Label, Repository: f.Repository})
	}
	cat := catalog.New(catalog.Options{
		BaseURL:   cfg.HubURL,
		Extension: cfg.ArtifactExtension,
		Formats:   mappings,
		UserAgent: cfg.UserAgent,
		Logger:    log.With().Str("component", "catalog").Logger(),
	})
	// No overall timeout: artifacts are hundreds of megabytes.
	dl := download.New(a.store, download.Options{
		HTTPClient:   &http.Client{Transport: &http.Transport{Proxy: http.ProxyFromEnvironment, ResponseHeaderTimeout: time.Minute}},
		UserAgent:    cfg.UserAgent,
		ProgressStep: cfg.ProgressStep,
		Logger:       log.With().Str("component", "download").Logger(),
	})
	a.session = session.New(session.NewLlamaAdapter(), session.Options{
		MaxTokens: cfg.MaxTokens,
		Threads:   cfg.Threads,
		Logger:    log.With().Str("component", "session").Logger(),
	})

	a.events = manager.NewRingPublisher(eventTail)

	a.mgr = manager.NewWithConfig(manager.ManagerConfig{
		Catalog:    cat,
		Store:      a.store,
		Downloader: dl,
		Session:    a.session,
		Prefs:      a.prefs,
		LoadOptions: session.LoadOptions{
			ContextSize: cfg.ContextSize,
			GPULayers:   *cfg.GPULayers,
			MLock:       *cfg.MLock,
			Threads:     cfg.Threads,
		},
		Publisher: manager.Publishers{
			manager.PublisherFunc(func(e manager.Event) { a.chat.Publish(e) }),
			a.events,
			manager.PublisherFunc(func(e manager.Event) {
				log.Debug().Str("event", e.Name).Str("model", e.Model).Fields(e.Fields).Msg("manager event")
			}),
		},
		Logger: log.With().Str("component", "manager").Logger(),
	})
	a.chat = conversation.New(a.mgr, a.history, log.With().Str("component", "chat").Logger())
	a.chat.SetStopSequences(cfg.StopSequences)

	if !session.LlamaBuilt {
		log.Warn().Msg("built without the llama tag; models download but cannot be loaded")
	}
	return a, nil
}

// Close unloads the model and closes the stores.
func (a *app) Close() {
	a.mgr.Unload()
	if err := a.history.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close history")
	}
	if err := a.prefs.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close prefs")
	}
}

// setup loads the configuration and wires an app for a subcommand.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return newApp(cmd.Context(), cfg, newLogger(cfg.LogLevel))
}
