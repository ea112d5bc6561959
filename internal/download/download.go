// Package download fetches model artifacts over HTTP into the artifact store.
package download

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/rs/zerolog"
)

// DefaultProgressStep is the percent granularity of progress reports.
const DefaultProgressStep = 5

// Target resolves and clears local artifact paths.
type Target interface {
	ResolvePath(filename string) string
	Remove(filename string) error
}

// Options configures a Downloader.
type Options struct {
	HTTPClient *http.Client
	UserAgent  string
	// ProgressStep is the minimum percent delta between two reports.
	ProgressStep int
	Logger       zerolog.Logger
}

// Downloader streams remote files to local paths. It never resumes: an
// existing local copy is removed before the request is sent.
type Downloader struct {
	target Target
	client *http.Client
	ua     string
	step   int
	log    zerolog.Logger
}

// New returns a Downloader writing into target.
func New(target Target, opts Options) *Downloader {
	d := &Downloader{
		target: target,
		client: opts.HTTPClient,
		ua:     opts.UserAgent,
		step:   opts.ProgressStep,
		log:    opts.Logger,
	}
	if d.client == nil {
		// No overall timeout; large weights take minutes. Cancellation comes from ctx.
		d.client = &http.Client{}
	}
	if d.step <= 0 || d.step > 100 {
		d.step = DefaultProgressStep
	}
	return d
}

// Download fetches sourceURL into the local path for filename and returns that
// path. onProgress, when set, receives non-decreasing whole percentages and
// always 100 on success. A failed download leaves any partial file in place.
func (d *Downloader) Download(ctx context.Context, filename, sourceURL string, onProgress func(int)) (string, error) {
	if strings.TrimSpace(filename) == "" || strings.TrimSpace(sourceURL) == "" {
		return "", ErrInvalidArgument
	}
	if onProgress == nil {
		onProgress = func(int) {}
	}
	if err := d.target.Remove(filename); err != nil {
		return "", failedError{filename: filename, cause: err}
	}
	dest := d.target.ResolvePath(filename)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", failedError{filename: filename, cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", failedError{filename: filename, cause: err}
	}
	if d.ua != "" {
		req.Header.Set("User-Agent", d.ua)
	}
	start := time.Now()
	d.log.Info().Str("file", filename).Str("url", sourceURL).Msg("download start")
	resp, err := d.client.Do(req)
	if err != nil {
		return "", failedError{filename: filename, cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		d.log.Warn().Str("file", filename).Int("status", resp.StatusCode).Msg("download rejected")
		return "", ErrDownloadFailed(filename, resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", failedError{filename: filename, cause: err}
	}
	pw := &progressWriter{
		writer: out,
		total:  resp.ContentLength,
		step:   d.step,
		report: onProgress,
		last:   -1,
	}
	pw.emit(0)
	written, err := io.Copy(pw, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", failedError{filename: filename, cause: err}
	}
	pw.emit(100)
	d.log.Info().Str("file", filename).Str("size", units.HumanSize(float64(written))).
		Dur("dur", time.Since(start)).Msg("download end")
	return dest, nil
}

// progressWriter counts bytes written through it and reports whole percentages
// once they have advanced by at least step.
type progressWriter struct {
	writer  io.Writer
	total   int64
	written int64
	step    int
	report  func(int)
	last    int
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.writer.Write(p)
	pw.written += int64(n)
	if pw.total > 0 {
		pct := int(pw.written * 100 / pw.total)
		if pct >= pw.last+pw.step && pct < 100 {
			pw.emit(pct)
		}
	}
	return n, err
}

func (pw *progressWriter) emit(pct int) {
	if pct > 100 {
		pct = 100
	}
	if pct <= pw.last {
		return
	}
	pw.last = pct
	pw.report(pct)
}
