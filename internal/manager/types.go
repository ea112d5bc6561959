package manager

import "pocketchat/pkg/types"

// State is the position of the manager in the acquisition flow.
type State string

const (
	StateSelectingFormat    State = "selecting_format"
	StateListingArtifacts   State = "listing_artifacts"
	StateSelectingArtifact  State = "selecting_artifact"
	StateConfirmingDownload State = "confirming_download"
	StateDownloading        State = "downloading"
	StateLoading            State = "loading"
	StateReady              State = "ready"
)

// busy reports whether a download or load owns the manager.
func (s State) busy() bool {
	return s == StateConfirmingDownload || s == StateDownloading || s == StateLoading
}

// Page is the screen the user interface should present.
type Page string

const (
	PageModelSelection Page = "model_selection"
	PageConversation   Page = "conversation"
)

// DownloadState tracks the current download attempt.
type DownloadState struct {
	IsDownloading   bool
	ProgressPercent int
}

// Snapshot is a read-only projection of the manager state.
type Snapshot struct {
	State     State
	Page      Page
	Format    string
	Artifacts []types.Artifact
	Pending   string
	Current   string
	Download  DownloadState
	Session   string
	LastError string
	Attempt   uint64
}
