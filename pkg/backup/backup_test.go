package backup

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/pinport/pinport/pkg/errors"
	"github.com/pinport/pinport/pkg/profile"
)

func testProfile(t *testing.T) *profile.ZenProfile {
	t.Helper()
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sessionstore-backups"), 0o755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}
	p, err := profile.ZenProfileAt(dir)
	if err != nil {
		t.Fatalf("ZenProfileAt() error = %v", err)
	}
	return p
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}

func TestSnapshot(t *testing.T) {
	p := testProfile(t)
	writeFile(t, p.SessionsPath(), "sessions v1")
	writeFile(t, p.RecoveryPath(), "recovery v1")

	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	created, err := NewManager(p).Snapshot(now)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	want := []string{
		p.SessionsPath() + ".backup_20240315_103000",
		p.RecoveryPath() + ".backup_20240315_103000",
	}
	if !reflect.DeepEqual(created, want) {
		t.Errorf("Snapshot() = %v, want %v", created, want)
	}
	if got := readFile(t, created[0]); got != "sessions v1" {
		t.Errorf("sessions backup content = %q, want %q", got, "sessions v1")
	}
	if got := readFile(t, created[1]); got != "recovery v1" {
		t.Errorf("recovery backup content = %q, want %q", got, "recovery v1")
	}
}

func TestSnapshotSkipsMissingStores(t *testing.T) {
	p := testProfile(t)
	writeFile(t, p.RecoveryPath(), "recovery only")

	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	created, err := NewManager(p).Snapshot(now)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	want := []string{p.RecoveryPath() + ".backup_20240315_103000"}
	if !reflect.DeepEqual(created, want) {
		t.Errorf("Snapshot() = %v, want %v", created, want)
	}
}

func TestSnapshotEmptyProfile(t *testing.T) {
	p := testProfile(t)

	created, err := NewManager(p).Snapshot(time.Now())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(created) != 0 {
		t.Errorf("Snapshot() = %v, want no files", created)
	}
}

func TestList(t *testing.T) {
	p := testProfile(t)
	m := NewManager(p)

	writeFile(t, p.SessionsPath()+".backup_20240101_090000", "s1")
	writeFile(t, p.RecoveryPath()+".backup_20240101_090000", "r1")
	writeFile(t, p.RecoveryPath()+".backup_20240202_120000", "r2")
	writeFile(t, p.SessionsPath()+".backup_20231231_235959", "s0")

	entries, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []Entry{
		{
			Timestamp: "20240202_120000",
			Files:     []string{p.RecoveryPath() + ".backup_20240202_120000"},
		},
		{
			Timestamp: "20240101_090000",
			Files: []string{
				p.SessionsPath() + ".backup_20240101_090000",
				p.RecoveryPath() + ".backup_20240101_090000",
			},
		},
		{
			Timestamp: "20231231_235959",
			Files:     []string{p.SessionsPath() + ".backup_20231231_235959"},
		},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("List() = %v, want %v", entries, want)
	}
}

func TestListEmpty(t *testing.T) {
	p := testProfile(t)

	entries, err := NewManager(p).List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List() = %v, want no entries", entries)
	}
}

func TestRestore(t *testing.T) {
	t.Run("latest generation", func(t *testing.T) {
		p := testProfile(t)
		m := NewManager(p)

		writeFile(t, p.SessionsPath(), "sessions live")
		writeFile(t, p.RecoveryPath(), "recovery live")
		writeFile(t, p.SessionsPath()+".backup_20240101_090000", "sessions old")
		writeFile(t, p.RecoveryPath()+".backup_20240101_090000", "recovery old")
		writeFile(t, p.SessionsPath()+".backup_20240202_120000", "sessions new")
		writeFile(t, p.RecoveryPath()+".backup_20240202_120000", "recovery new")

		restored, err := m.Restore("")
		if err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if restored != 2 {
			t.Errorf("Restore() = %d, want 2", restored)
		}
		if got := readFile(t, p.SessionsPath()); got != "sessions new" {
			t.Errorf("sessions store = %q, want %q", got, "sessions new")
		}
		if got := readFile(t, p.RecoveryPath()); got != "recovery new" {
			t.Errorf("recovery store = %q, want %q", got, "recovery new")
		}
	})

	t.Run("specific timestamp", func(t *testing.T) {
		p := testProfile(t)
		m := NewManager(p)

		writeFile(t, p.SessionsPath()+".backup_20240101_090000", "sessions old")
		writeFile(t, p.SessionsPath()+".backup_20240202_120000", "sessions new")

		restored, err := m.Restore("20240101_090000")
		if err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if restored != 1 {
			t.Errorf("Restore() = %d, want 1", restored)
		}
		if got := readFile(t, p.SessionsPath()); got != "sessions old" {
			t.Errorf("sessions store = %q, want %q", got, "sessions old")
		}
	})

	t.Run("refreshes recovery fallback", func(t *testing.T) {
		p := testProfile(t)
		m := NewManager(p)

		writeFile(t, p.RecoveryBackupPath(), "stale fallback")
		writeFile(t, p.RecoveryPath()+".backup_20240101_090000", "recovery old")

		if _, err := m.Restore("20240101_090000"); err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if got := readFile(t, p.RecoveryBackupPath()); got != "recovery old" {
			t.Errorf("recovery fallback = %q, want %q", got, "recovery old")
		}
	})

	t.Run("unknown timestamp", func(t *testing.T) {
		p := testProfile(t)
		writeFile(t, p.SessionsPath()+".backup_20240101_090000", "s")

		_, err := NewManager(p).Restore("20990101_000000")
		if got := errors.GetCode(err); got != errors.ErrCodeBackupNotFound {
			t.Errorf("Restore() error code = %q, want %q", got, errors.ErrCodeBackupNotFound)
		}
	})

	t.Run("no backups", func(t *testing.T) {
		p := testProfile(t)

		_, err := NewManager(p).Restore("")
		if got := errors.GetCode(err); got != errors.ErrCodeBackupNotFound {
			t.Errorf("Restore() error code = %q, want %q", got, errors.ErrCodeBackupNotFound)
		}
	})
}

func TestPrune(t *testing.T) {
	p := testProfile(t)
	m := NewManager(p)

	writeFile(t, p.SessionsPath(), "sessions live")
	writeFile(t, p.SessionsPath()+".backup_20240101_090000", "s1")
	writeFile(t, p.RecoveryPath()+".backup_20240101_090000", "r1")
	writeFile(t, p.RecoveryPath()+".backup_20240202_120000", "r2")

	deleted, err := m.Prune()
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 3 {
		t.Errorf("Prune() = %d, want 3", deleted)
	}

	entries, err := m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List() after prune = %v, want no entries", entries)
	}
	if got := readFile(t, p.SessionsPath()); got != "sessions live" {
		t.Errorf("live sessions store = %q, want untouched", got)
	}
}
