package manager

// Event represents a manager lifecycle event.
// Minimal and stable: name + model filename and optional fields.
type Event struct {
	Name   string
	Model  string
	Fields map[string]any
}

// Event names.
const (
	EventFormatSelected  = "format_selected"
	EventArtifactsListed = "artifacts_listed"
	EventListFailed      = "list_failed"
	EventDownloadStart   = "download_start"
	EventDownloadDone    = "download_done"
	EventDownloadFailed  = "download_failed"
	EventLoadStart       = "load_start"
	EventLoadFailed      = "load_failed"
	EventSessionReady    = "session_ready"
	EventUnload          = "unload"
	EventRecoverSkipped  = "recover_skipped"
)

// EventPublisher receives events from the manager. Implementations should be
// lightweight and non-blocking; Publish must not panic. The manager never
// holds its lock while publishing.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// Publishers fans every event out to each non-nil publisher in order.
type Publishers []EventPublisher

func (ps Publishers) Publish(e Event) {
	for _, p := range ps {
		if p != nil {
			p.Publish(e)
		}
	}
}

// PublisherFunc adapts an ordinary function to EventPublisher.
type PublisherFunc func(Event)

func (f PublisherFunc) Publish(e Event) { f(e) }
