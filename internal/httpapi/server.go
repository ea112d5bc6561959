package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"iter"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"pocketchat/pkg/types"
)

// Service is the model lifecycle surface required by the HTTP API layer.
type Service interface {
	Formats() []string
	SelectFormat(ctx context.Context, label string) error
	Artifacts() (string, []types.Artifact)
	SelectArtifact(filename string) error
	ConfirmDownloadAsync(ctx context.Context, accept bool) (uint64, error)
	Unload()
	Status() types.StatusResponse
	LocalArtifacts() ([]types.LocalArtifact, error)
	SessionReady() bool
}

// Chat is the conversation surface required by the HTTP API layer.
type Chat interface {
	Send(ctx context.Context, text string) (types.Message, error)
	SendStream(ctx context.Context, text string) iter.Seq2[string, error]
	Transcript() (string, []types.Message)
	Reset(model string)
}

// streamLine is one NDJSON line of a streamed chat reply.
type streamLine struct {
	Delta string         `json:"delta,omitempty"`
	Done  bool           `json:"done,omitempty"`
	Reply *types.Message `json:"reply,omitempty"`
	Error string         `json:"error,omitempty"`
}

func NewMux(svc Service, chat Chat) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}
	// Compression for JSON endpoints; NDJSON streams are left alone.
	r.Use(middleware.Compress(5, "application/json"))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/formats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.FormatsResponse{Formats: svc.Formats()})
	})

	r.Post("/format", func(w http.ResponseWriter, r *http.Request) {
		var req types.SelectFormatRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Format) == "" {
			writeJSONError(w, http.StatusBadRequest, "format is required")
			return
		}
		if err := svc.SelectFormat(r.Context(), req.Format); err != nil {
			writeError(w, err)
			return
		}
		format, arts := svc.Artifacts()
		writeJSON(w, http.StatusOK, types.ArtifactsResponse{Format: format, Artifacts: nonNil(arts)})
	})

	r.Get("/artifacts", func(w http.ResponseWriter, r *http.Request) {
		format, arts := svc.Artifacts()
		writeJSON(w, http.StatusOK, types.ArtifactsResponse{Format: format, Artifacts: nonNil(arts)})
	})

	r.Post("/artifact", func(w http.ResponseWriter, r *http.Request) {
		var req types.SelectArtifactRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Filename) == "" {
			writeJSONError(w, http.StatusBadRequest, "filename is required")
			return
		}
		if err := svc.SelectArtifact(req.Filename); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Post("/artifact/confirm", func(w http.ResponseWriter, r *http.Request) {
		var req types.ConfirmRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		id, err := svc.ConfirmDownloadAsync(r.Context(), req.Accept)
		if err != nil {
			writeError(w, err)
			return
		}
		status := http.StatusOK
		if id != 0 {
			status = http.StatusAccepted
		}
		writeJSON(w, status, types.ConfirmResponse{Attempt: id, State: svc.Status().State})
	})

	r.Post("/unload", func(w http.ResponseWriter, r *http.Request) {
		svc.Unload()
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	r.Get("/events", func(w http.ResponseWriter, r *http.Request) {
		out := types.EventsResponse{Events: []types.Event{}}
		if eventLog != nil {
			for _, e := range eventLog.Events() {
				out.Events = append(out.Events, types.Event{Name: e.Name, Model: e.Model, Fields: e.Fields})
			}
		}
		writeJSON(w, http.StatusOK, out)
	})

	r.Get("/local", func(w http.ResponseWriter, r *http.Request) {
		arts, err := svc.LocalArtifacts()
		if err != nil {
			writeError(w, err)
			return
		}
		if arts == nil {
			arts = []types.LocalArtifact{}
		}
		writeJSON(w, http.StatusOK, types.LocalResponse{Artifacts: arts})
	})

	r.Post("/chat", func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		lvl := requestLogLevel(r)
		logStart(r, lvl, req.Stream)
		start := time.Now()

		// Shutdown cancels work too.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if chatTimeout > 0 {
			var tcancel context.CancelFunc
			ctx, tcancel = context.WithTimeout(ctx, chatTimeout)
			defer tcancel()
		}

		if !req.Stream {
			reply, err := chat.Send(ctx, req.Message)
			if err != nil {
				if r.Context().Err() != nil {
					return
				}
				status := writeError(w, err)
				logEnd(r, lvl, status, func(e *zerolog.Event) *zerolog.Event {
					return e.Dur("dur", time.Since(start)).Err(err)
				})
				return
			}
			writeJSON(w, http.StatusOK, types.ChatResponse{Reply: reply})
			logEnd(r, lvl, http.StatusOK, func(e *zerolog.Event) *zerolog.Event {
				return e.Dur("dur", time.Since(start)).Int("chars", len(reply.Content))
			})
			return
		}

		status := streamChat(w, r, chat.SendStream(ctx, req.Message), lvl)
		logEnd(r, lvl, status, func(e *zerolog.Event) *zerolog.Event {
			return e.Dur("dur", time.Since(start))
		})
	})

	r.Get("/transcript", func(w http.ResponseWriter, r *http.Request) {
		id, msgs := chat.Transcript()
		writeJSON(w, http.StatusOK, types.TranscriptResponse{ConversationID: id, Messages: msgs})
	})

	r.Delete("/transcript", func(w http.ResponseWriter, r *http.Request) {
		chat.Reset(svc.Status().Current)
		id, msgs := chat.Transcript()
		writeJSON(w, http.StatusOK, types.TranscriptResponse{ConversationID: id, Messages: msgs})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.SessionReady() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(svc.Status().State))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// streamChat writes fragments as NDJSON. An error before the first fragment
// is answered as a regular JSON error; later errors become a final error line.
func streamChat(w http.ResponseWriter, r *http.Request, seq iter.Seq2[string, error], lvl LogLevel) int {
	var out io.Writer = w
	if lvl >= LevelDebug {
		out = io.MultiWriter(w, &loggingLineWriter{rid: middleware.GetReqID(r.Context())})
	}
	enc := json.NewEncoder(out)
	flush := func() {}
	if f, ok := w.(http.Flusher); ok {
		flush = f.Flush
	}

	started := false
	var b strings.Builder
	for frag, err := range seq {
		if err != nil {
			if !started {
				return writeError(w, err)
			}
			_ = enc.Encode(streamLine{Error: err.Error()})
			flush()
			return statusFor(err)
		}
		if !started {
			w.Header().Set("Content-Type", "application/x-ndjson")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		b.WriteString(frag)
		if err := enc.Encode(streamLine{Delta: frag}); err != nil {
			return http.StatusOK
		}
		flush()
	}
	if !started {
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.WriteHeader(http.StatusOK)
	}
	reply := types.Message{Role: types.RoleAssistant, Content: strings.TrimSpace(b.String())}
	_ = enc.Encode(streamLine{Done: true, Reply: &reply})
	flush()
	return http.StatusOK
}

// decodeJSON enforces a JSON content type and the body size limit.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Debug().Err(err).Msg("encode response")
	}
}

func nonNil(a []types.Artifact) []types.Artifact {
	if a == nil {
		return []types.Artifact{}
	}
	return a
}
