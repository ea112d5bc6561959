package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestExpandHome_DataDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}
	cases := []struct{ in, want string }{
		{"", ""},
		{"/srv/pocketchat", "/srv/pocketchat"},
		{"~", home},
		{"~/.pocketchat", filepath.Join(home, ".pocketchat")},
		{"~/.pocketchat/history.db", filepath.Join(home, ".pocketchat", "history.db")},
	}
	for _, c := range cases {
		got, err := ExpandHome(c.in)
		if err != nil {
			t.Fatalf("%q: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("%q: got %q want %q", c.in, got, c.want)
		}
	}
}

func TestResolveDir_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}
	p, err := ResolveDir("~/.pocketchat/models")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p != filepath.Join(home, ".pocketchat", "models") {
		t.Fatalf("unexpected dir %q", p)
	}
}

func TestResolveDirCreatesAbsolute(t *testing.T) {
	root := t.TempDir()
	p, err := ResolveDir(filepath.Join(root, "a", "b"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !filepath.IsAbs(p) {
		t.Fatalf("expected absolute path, got %q", p)
	}
	if fi, err := os.Stat(p); err != nil || !fi.IsDir() {
		t.Fatalf("expected directory at %q: %v", p, err)
	}
}

func TestIsRegularFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "x.gguf")
	if IsRegularFile(f) {
		t.Fatalf("expected missing file")
	}
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !IsRegularFile(f) {
		t.Fatalf("expected existing regular file")
	}
	if IsRegularFile(dir) {
		t.Fatalf("directory reported as regular file")
	}
}

func TestJoinWithin(t *testing.T) {
	root := filepath.FromSlash("/data/models")
	cases := []struct{ in, want string }{
		{"a.gguf", "/data/models/a.gguf"},
		{"sub/a.gguf", "/data/models/sub/a.gguf"},
		{"../a.gguf", "/data/models/a.gguf"},
		{"../../etc/passwd", "/data/models/etc/passwd"},
		{"/abs.gguf", "/data/models/abs.gguf"},
	}
	for _, c := range cases {
		if got := JoinWithin(root, c.in); got != filepath.FromSlash(c.want) {
			t.Fatalf("%q -> %q, want %q", c.in, got, c.want)
		}
	}
}
