// Package store manages downloaded model artifacts on local disk.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docker/go-units"
	parser "github.com/gpustack/gguf-parser-go"

	"pocketchat/internal/common/fsutil"
	"pocketchat/pkg/types"
)

// Store maps artifact filenames to files under a single directory. The
// mapping is deterministic, so paths stay stable across restarts.
type Store struct {
	dir string
	ext string
}

// New opens (and creates if needed) the artifact directory. ext filters List;
// it defaults to .gguf.
func New(dir, ext string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("artifact dir is empty")
	}
	abs, err := fsutil.ResolveDir(dir)
	if err != nil {
		return nil, err
	}
	if ext == "" {
		ext = ".gguf"
	}
	return &Store{dir: abs, ext: strings.ToLower(ext)}, nil
}

// Dir returns the absolute artifact directory.
func (s *Store) Dir() string { return s.dir }

// ResolvePath returns the local path for filename.
func (s *Store) ResolvePath(filename string) string {
	return fsutil.JoinWithin(s.dir, filename)
}

// Exists reports whether a local copy of filename is present.
func (s *Store) Exists(filename string) bool {
	if strings.TrimSpace(filename) == "" {
		return false
	}
	return fsutil.IsRegularFile(s.ResolvePath(filename))
}

// Remove deletes the local copy of filename. Removing a missing file is not an error.
func (s *Store) Remove(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return nil
	}
	if err := os.Remove(s.ResolvePath(filename)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", filename, err)
	}
	return nil
}

// List walks the artifact directory for files carrying the artifact extension.
// Filenames are reported relative to the directory using forward slashes.
func (s *Store) List() ([]types.LocalArtifact, error) {
	var out []types.LocalArtifact
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), s.ext) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(s.dir, p)
		if err != nil {
			return nil
		}
		out = append(out, types.LocalArtifact{
			Filename:  filepath.ToSlash(rel),
			Path:      p,
			SizeBytes: fi.Size(),
			Size:      units.HumanSize(float64(fi.Size())),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}

// Inspect reads the GGUF header of a local artifact.
func (s *Store) Inspect(filename string) (types.ArtifactMetadata, error) {
	p := s.ResolvePath(filename)
	if !fsutil.IsRegularFile(p) {
		return types.ArtifactMetadata{}, fmt.Errorf("inspect %s: %w", filename, fs.ErrNotExist)
	}
	gf, err := parser.ParseGGUFFile(p)
	if err != nil {
		return types.ArtifactMetadata{}, fmt.Errorf("parse gguf %s: %w", filename, err)
	}
	md := gf.Metadata()
	return types.ArtifactMetadata{
		Architecture: strings.TrimSpace(md.Architecture),
		Quantization: strings.TrimSpace(md.FileType.String()),
		Parameters:   strings.TrimSpace(md.Parameters.String()),
		Size:         strings.TrimSpace(md.Size.String()),
	}, nil
}

// ListWithMetadata is List plus a best-effort Inspect of every entry.
func (s *Store) ListWithMetadata() ([]types.LocalArtifact, error) {
	list, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := range list {
		if md, err := s.Inspect(list[i].Filename); err == nil {
			list[i].Metadata = &md
		}
	}
	return list, nil
}
