// Package manager drives model acquisition and the inference session
// lifecycle: format selection, artifact listing, confirmed download, load and
// startup recovery. It is structured into small files by concern:
//
//   - manager.go: core Manager type, collaborator interfaces, getters.
//   - config.go: ManagerConfig and defaults; NewWithConfig applies them.
//   - types.go: State, Page, Snapshot.
//   - errors.go: error types and IsX helpers.
//   - select.go: SelectFormat, SelectArtifact.
//   - acquire.go: ConfirmDownload, download then load.
//   - ops.go: ConfirmDownloadAsync.
//   - recover.go: Recover at startup.
//   - unload.go: Unload.
//   - infer.go: Complete/Stream delegation while a session is ready.
//   - status_report.go: Snapshot and Status.
//   - events.go, eventpub_memory.go: lifecycle event publishing.
//   - metrics.go: Prometheus collectors.
//
// Every operation that can complete asynchronously takes a fresh attempt id.
// Completions carrying an id that is no longer current are dropped, so a
// stale listing can never overwrite a newer one.
package manager
