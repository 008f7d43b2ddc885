package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pinport/pinport/pkg/errors"
)

func TestFindZenProfileIn(t *testing.T) {
	t.Run("prefers default profile", func(t *testing.T) {
		root := t.TempDir()
		mustMkdir(t, filepath.Join(root, "aaaa.release"))
		mustMkdir(t, filepath.Join(root, "bbbb.Default-release"))

		p, err := findZenProfileIn(root)
		if err != nil {
			t.Fatalf("findZenProfileIn() error = %v", err)
		}
		if p.Name != "bbbb.Default-release" {
			t.Errorf("profile = %q, want the default-named one", p.Name)
		}
	})

	t.Run("falls back to first directory", func(t *testing.T) {
		root := t.TempDir()
		mustMkdir(t, filepath.Join(root, "aaaa.release"))
		mustMkdir(t, filepath.Join(root, "zzzz.release"))

		p, err := findZenProfileIn(root)
		if err != nil {
			t.Fatalf("findZenProfileIn() error = %v", err)
		}
		if p.Name != "aaaa.release" {
			t.Errorf("profile = %q, want %q", p.Name, "aaaa.release")
		}
	})

	t.Run("ignores plain files", func(t *testing.T) {
		root := t.TempDir()
		if err := os.WriteFile(filepath.Join(root, "profiles.ini"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := findZenProfileIn(root)
		if !errors.Is(err, errors.ErrCodeProfileNotFound) {
			t.Errorf("error = %v, want PROFILE_NOT_FOUND", err)
		}
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := findZenProfileIn(filepath.Join(t.TempDir(), "absent"))
		if !errors.Is(err, errors.ErrCodeProfileNotFound) {
			t.Errorf("error = %v, want PROFILE_NOT_FOUND", err)
		}
	})
}

func TestZenProfilePaths(t *testing.T) {
	p := &ZenProfile{Dir: filepath.Join("home", "profiles", "abc.default"), Name: "abc.default"}

	if got := p.SessionsPath(); got != filepath.Join(p.Dir, "zen-sessions.jsonlz4") {
		t.Errorf("SessionsPath() = %q", got)
	}
	if got := p.RecoveryPath(); got != filepath.Join(p.Dir, "sessionstore-backups", "recovery.jsonlz4") {
		t.Errorf("RecoveryPath() = %q", got)
	}
	if got := p.RecoveryBackupPath(); got != filepath.Join(p.Dir, "sessionstore-backups", "recovery.baklz4") {
		t.Errorf("RecoveryBackupPath() = %q", got)
	}
}

func TestZenProfileAt(t *testing.T) {
	dir := t.TempDir()

	p, err := ZenProfileAt(dir)
	if err != nil {
		t.Fatalf("ZenProfileAt() error = %v", err)
	}
	if p.Dir != dir {
		t.Errorf("Dir = %q, want %q", p.Dir, dir)
	}

	if _, err := ZenProfileAt(filepath.Join(dir, "missing")); err == nil {
		t.Error("ZenProfileAt() on missing dir returned nil error")
	}
}

func TestArcSidebarPathFindsWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.WriteFile(SidebarFilename, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	path, err := ArcSidebarPath()
	if err != nil {
		t.Fatalf("ArcSidebarPath() error = %v", err)
	}
	if path != SidebarFilename {
		t.Errorf("path = %q, want %q", path, SidebarFilename)
	}
}

func TestArcSidebarPathMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	_, err := ArcSidebarPath()
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func mustMkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
}
