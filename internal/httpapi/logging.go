package httpapi

import (
	"bytes"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is the structured logger of the HTTP layer. Silent until SetLogger.
var zlog = zerolog.Nop()

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = l }

// loggingLineWriter logs complete NDJSON lines at debug level.
type loggingLineWriter struct {
	rid string
	buf []byte
}

func (lw *loggingLineWriter) Write(p []byte) (int, error) {
	lw.buf = append(lw.buf, p...)
	for {
		idx := bytes.IndexByte(lw.buf, '\n')
		if idx < 0 {
			break
		}
		if line := lw.buf[:idx]; len(line) > 0 {
			zlog.Debug().Str("request_id", lw.rid).Bytes("line", line).Msg("chat>")
		}
		lw.buf = lw.buf[idx+1:]
	}
	return len(p), nil
}

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// global default, read once
var defaultLogLevel = parseLevel(os.Getenv("POCKETCHAT_HTTP_LOG"))

func requestLogLevel(r *http.Request) LogLevel {
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// logStart and logEnd bracket a chat request.
func logStart(r *http.Request, lvl LogLevel, stream bool) {
	if lvl < LevelInfo {
		return
	}
	zlog.Info().Str("path", r.URL.Path).Bool("stream", stream).
		Str("request_id", middleware.GetReqID(r.Context())).Msg("chat start")
}

func logEnd(r *http.Request, lvl LogLevel, status int, ev func(*zerolog.Event) *zerolog.Event) {
	if lvl == LevelOff || (lvl == LevelError && status < 400) {
		return
	}
	e := zlog.Info()
	if status >= 500 {
		e = zlog.Error()
	}
	e = e.Int("status", status).Str("request_id", middleware.GetReqID(r.Context()))
	if ev != nil {
		e = ev(e)
	}
	e.Msg("chat end")
}
