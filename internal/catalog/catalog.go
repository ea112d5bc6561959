// Package catalog lists downloadable model artifacts from a Hugging Face
// compatible model host.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pocketchat/pkg/types"
)

const defaultTimeout = 30 * time.Second

// ModelFormat is a selectable model family.
type ModelFormat struct {
	Label string
}

// Mapping binds a format label to its remote repository id.
type Mapping struct {
	Label      string
	Repository string
}

// Options configures a Client.
type Options struct {
	// BaseURL of the model host, e.g. https://huggingface.co.
	BaseURL string
	// Extension kept when filtering repository files, matched without
	// regard to case (default .gguf).
	Extension string
	// Formats in display order. Labels must be unique.
	Formats    []Mapping
	HTTPClient *http.Client
	UserAgent  string
	Logger     zerolog.Logger
}

// Client queries the model host for repository file listings. It keeps no
// cache: every ListArtifacts call issues a fresh request.
type Client struct {
	baseURL   string
	ext       string
	formats   []ModelFormat
	repos     map[string]string
	client    *http.Client
	userAgent string
	log       zerolog.Logger
}

// New builds a Client. Duplicate labels keep their first mapping.
func New(opts Options) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		ext:       strings.ToLower(opts.Extension),
		repos:     make(map[string]string, len(opts.Formats)),
		client:    opts.HTTPClient,
		userAgent: opts.UserAgent,
		log:       opts.Logger,
	}
	if c.ext == "" {
		c.ext = ".gguf"
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: defaultTimeout}
	}
	for _, f := range opts.Formats {
		if _, dup := c.repos[f.Label]; dup {
			continue
		}
		c.repos[f.Label] = f.Repository
		c.formats = append(c.formats, ModelFormat{Label: f.Label})
	}
	return c
}

// Formats returns the configured formats in display order.
func (c *Client) Formats() []ModelFormat {
	out := make([]ModelFormat, len(c.formats))
	copy(out, c.formats)
	return out
}

// Repository resolves a format label to its repository id.
func (c *Client) Repository(label string) (string, error) {
	repo, ok := c.repos[label]
	if !ok {
		return "", ErrUnknownFormat(label)
	}
	return repo, nil
}

// SourceURL returns the download URL of filename inside the format's repository.
func (c *Client) SourceURL(format ModelFormat, filename string) (string, error) {
	repo, err := c.Repository(format.Label)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/resolve/main/%s", c.baseURL, repo, escapePath(filename)), nil
}

// repoListing is the subset of the model info document we rely on.
type repoListing struct {
	Siblings *[]struct {
		RFilename string `json:"rfilename"`
	} `json:"siblings"`
}

// ListArtifacts returns the repository files of format whose name carries the
// artifact extension, in listing order.
func (c *Client) ListArtifacts(ctx context.Context, format ModelFormat) ([]types.Artifact, error) {
	repo, err := c.Repository(format.Label)
	if err != nil {
		return nil, err
	}
	reqURL := fmt.Sprintf("%s/api/models/%s", c.baseURL, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, networkError{cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("repo", repo).Msg("catalog request failed")
		return nil, networkError{cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, networkError{status: resp.StatusCode}
	}

	var listing repoListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, malformedResponseError{reason: err.Error()}
	}
	if listing.Siblings == nil {
		return nil, malformedResponseError{reason: "missing siblings"}
	}
	out := make([]types.Artifact, 0, len(*listing.Siblings))
	for _, s := range *listing.Siblings {
		if !strings.HasSuffix(strings.ToLower(s.RFilename), c.ext) {
			continue
		}
		out = append(out, types.Artifact{Filename: s.RFilename, Repository: repo})
	}
	c.log.Debug().Str("repo", repo).Int("files", len(*listing.Siblings)).Int("artifacts", len(out)).
		Dur("dur", time.Since(start)).Msg("catalog listed")
	return out, nil
}

// escapePath escapes each segment of a slash-separated repository path.
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}
