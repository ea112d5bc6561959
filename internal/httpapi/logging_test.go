package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"pocketchat/internal/session"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	t.Cleanup(func() { SetLogger(zerolog.Nop()) })
	return &buf
}

func TestRequestLogLevel(t *testing.T) {
	cases := []struct {
		query, header string
		want          LogLevel
	}{
		{"?log=debug", "", LevelDebug},
		{"?log=1", "", LevelDebug},
		{"?log=chatty", "", LevelInfo},
		{"", "error", LevelError},
		{"?log=off", "debug", LevelOff},
		{"", "", defaultLogLevel},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodPost, "/chat"+c.query, nil)
		if c.header != "" {
			r.Header.Set("X-Log-Level", c.header)
		}
		if got := requestLogLevel(r); got != c.want {
			t.Fatalf("query=%q header=%q: got %v want %v", c.query, c.header, got, c.want)
		}
	}
}

func TestChatLogging_StartAndEnd(t *testing.T) {
	buf := captureLog(t)
	h := NewMux(&mockService{}, &mockChat{reply: "hello"})
	if rec := do(t, h, http.MethodPost, "/chat?log=info", `{"message":"hi"}`); rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	out := buf.String()
	for _, want := range []string{`"message":"chat start"`, `"stream":false`, `"message":"chat end"`, `"status":200`, `"chars":5`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in %q", want, out)
		}
	}
}

func TestChatLogging_ErrorLevelOnlyReportsFailures(t *testing.T) {
	buf := captureLog(t)
	h := NewMux(&mockService{}, &mockChat{reply: "fine"})
	do(t, h, http.MethodPost, "/chat?log=error", `{"message":"hi"}`)
	if buf.Len() != 0 {
		t.Fatalf("successful chat logged at error level: %q", buf.String())
	}

	h = NewMux(&mockService{}, &mockChat{err: session.ErrNoActiveSession})
	do(t, h, http.MethodPost, "/chat?log=error", `{"message":"hi"}`)
	out := buf.String()
	if !strings.Contains(out, `"level":"error"`) || !strings.Contains(out, `"status":503`) {
		t.Fatalf("expected an error-level chat end line, got %q", out)
	}
	if strings.Contains(out, "chat start") {
		t.Fatalf("start line logged at error level: %q", out)
	}
}

func TestChatLogging_DebugMirrorsStreamLines(t *testing.T) {
	buf := captureLog(t)
	h := NewMux(&mockService{}, &mockChat{frags: []string{"one ", "two"}})
	rec := do(t, h, http.MethodPost, "/chat?log=debug", `{"message":"hi","stream":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if n := strings.Count(buf.String(), `"message":"chat>"`); n != 3 {
		t.Fatalf("expected 3 mirrored stream lines, got %d in %q", n, buf.String())
	}
}

func TestLoggingLineWriter_JoinsPartialWrites(t *testing.T) {
	buf := captureLog(t)
	lw := &loggingLineWriter{rid: "req-1"}
	_, _ = lw.Write([]byte(`{"delta":"he`))
	_, _ = lw.Write([]byte("llo\"}\n\n"))
	out := buf.String()
	if strings.Count(out, "\n") != 1 || !strings.Contains(out, `"request_id":"req-1"`) {
		t.Fatalf("expected one joined line, got %q", out)
	}
}
