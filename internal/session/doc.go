// Package session owns the single in-process inference context.
//
//   - session.go: Session type; Load, Complete, Stream, Unload.
//   - adapter_iface.go: InferenceAdapter/InferSession runtime abstraction.
//   - adapter_llama.go: go-llama.cpp adapter, built with `-tags=llama`.
//   - adapter_llama_stub.go: CGO-free stub used otherwise; every load fails
//     with a dependency-unavailable error.
//   - llama_cgo.go: linker hints for the llama variant.
//   - prompt.go: transcript rendering and default stop words.
//
// At most one model handle is alive at a time. Loads and completions are
// serialized, so a reload waits for an in-flight completion to finish.
package session
