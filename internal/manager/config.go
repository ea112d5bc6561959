package manager

import (
	"time"

	"github.com/rs/zerolog"

	"pocketchat/internal/session"
)

// ManagerConfig encapsulates all collaborators and tunables for Manager construction.
type ManagerConfig struct {
	Catalog    Catalog
	Store      ArtifactStore
	Downloader Downloader
	Session    Session
	Prefs      Preferences
	// LoadOptions are passed to every session load unchanged.
	LoadOptions session.LoadOptions
	Publisher   EventPublisher
	Logger      zerolog.Logger
}

// NewWithConfig constructs a Manager from ManagerConfig. The manager starts in
// StateSelectingFormat on the model selection page; call Recover to reload
// the last used model.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		catalog:    cfg.Catalog,
		store:      cfg.Store,
		downloader: cfg.Downloader,
		session:    cfg.Session,
		prefs:      cfg.Prefs,
		loadOpts:   cfg.LoadOptions,
		publisher:  cfg.Publisher,
		log:        cfg.Logger,
		state:      StateSelectingFormat,
		page:       PageModelSelection,
		startTime:  time.Now(),
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	return m
}
