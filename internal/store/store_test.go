package store

import (
	"os"
	"path/filepath"
	"testing"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "models"), "")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func writeFile(t *testing.T, p string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestNew_RejectsEmptyDir(t *testing.T) {
	if _, err := New("  ", ".gguf"); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}

func TestResolvePath_Deterministic(t *testing.T) {
	s := newStore(t)
	a := s.ResolvePath("m.gguf")
	b := s.ResolvePath("m.gguf")
	if a != b || a != filepath.Join(s.Dir(), "m.gguf") {
		t.Fatalf("unexpected paths %q %q", a, b)
	}
	// A second store over the same directory resolves identically.
	s2, err := New(s.Dir(), "")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if s2.ResolvePath("m.gguf") != a {
		t.Fatalf("path changed across instances")
	}
	if p := s.ResolvePath("../escape.gguf"); filepath.Dir(p) != s.Dir() {
		t.Fatalf("path escaped store dir: %q", p)
	}
}

func TestExistsAndRemove(t *testing.T) {
	s := newStore(t)
	if s.Exists("m.gguf") {
		t.Fatalf("unexpected existing file")
	}
	writeFile(t, s.ResolvePath("m.gguf"), "weights")
	if !s.Exists("m.gguf") {
		t.Fatalf("expected file to exist")
	}
	if err := s.Remove("m.gguf"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.Exists("m.gguf") {
		t.Fatalf("file still exists after remove")
	}
	// idempotent
	if err := s.Remove("m.gguf"); err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if s.Exists("") {
		t.Fatalf("empty name reported as existing")
	}
}

func TestList_FiltersAndSorts(t *testing.T) {
	s := newStore(t)
	writeFile(t, s.ResolvePath("b.gguf"), "bb")
	writeFile(t, s.ResolvePath("a.GGUF"), "a")
	writeFile(t, s.ResolvePath("notes.txt"), "x")
	writeFile(t, s.ResolvePath("sub/c.gguf"), "ccc")
	got, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 artifacts, got %+v", got)
	}
	if got[0].Filename != "a.GGUF" || got[1].Filename != "b.gguf" || got[2].Filename != "sub/c.gguf" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[1].SizeBytes != 2 || got[1].Size == "" {
		t.Fatalf("size not populated: %+v", got[1])
	}
}

func TestInspect_Errors(t *testing.T) {
	s := newStore(t)
	if _, err := s.Inspect("missing.gguf"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	writeFile(t, s.ResolvePath("junk.gguf"), "definitely not a gguf header")
	if _, err := s.Inspect("junk.gguf"); err == nil {
		t.Fatalf("expected parse error for junk file")
	}
	list, err := s.ListWithMetadata()
	if err != nil {
		t.Fatalf("list with metadata: %v", err)
	}
	if len(list) != 1 || list[0].Metadata != nil {
		t.Fatalf("expected junk file without metadata: %+v", list)
	}
}

func TestList_ExtensionIgnoresCase(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "models"), ".GGUF")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	writeFile(t, s.ResolvePath("a.gguf"), "a")
	writeFile(t, s.ResolvePath("B.GGUF"), "b")
	got, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both casings listed, got %+v", got)
	}
}
