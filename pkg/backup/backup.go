// Package backup snapshots and restores a Zen profile's session
// stores. Every migration writes a backup generation first, so a bad
// import is always one restore away from undone.
//
// A generation is the set of session stores copied under one shared
// timestamp: zen-sessions.jsonlz4 next to the original in the profile
// directory, recovery.jsonlz4 inside sessionstore-backups. Backup file
// names append ".backup_<timestamp>" to the store name they shadow.
package backup

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pinport/pinport/pkg/errors"
	"github.com/pinport/pinport/pkg/profile"
)

// TimestampFormat is the generation timestamp layout in backup names.
const TimestampFormat = "20060102_150405"

const suffix = ".backup_"

// Manager handles the backup generations of one profile.
type Manager struct {
	profile *profile.ZenProfile
}

// NewManager returns a Manager for the given profile.
func NewManager(p *profile.ZenProfile) *Manager {
	return &Manager{profile: p}
}

// Entry is one backup generation: a timestamp and the backup files
// created under it, sessions store first.
type Entry struct {
	Timestamp string
	Files     []string
}

// Snapshot copies every live session store to a backup named with now's
// timestamp. Stores that do not exist are skipped; a profile with no
// session stores at all yields an empty generation, not an error.
func (m *Manager) Snapshot(now time.Time) ([]string, error) {
	timestamp := now.Format(TimestampFormat)

	var created []string
	for _, live := range []string{m.profile.SessionsPath(), m.profile.RecoveryPath()} {
		if _, err := os.Stat(live); os.IsNotExist(err) {
			continue
		} else if err != nil {
			return created, errors.Wrap(errors.ErrCodeInternal, err, "stat %s", live)
		}

		dst := live + suffix + timestamp
		if err := copyFile(live, dst); err != nil {
			return created, errors.Wrap(errors.ErrCodeInternal, err, "back up %s", filepath.Base(live))
		}
		created = append(created, dst)
	}
	return created, nil
}

// List returns the backup generations, newest first. Files sharing a
// timestamp form one generation.
func (m *Manager) List() ([]Entry, error) {
	byStamp := make(map[string][]string)
	var stamps []string

	for _, live := range []string{m.profile.SessionsPath(), m.profile.RecoveryPath()} {
		matches, err := filepath.Glob(live + suffix + "*")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "scan backups of %s", filepath.Base(live))
		}
		for _, path := range matches {
			stamp := strings.TrimPrefix(filepath.Base(path), filepath.Base(live)+suffix)
			if _, ok := byStamp[stamp]; !ok {
				stamps = append(stamps, stamp)
			}
			byStamp[stamp] = append(byStamp[stamp], path)
		}
	}

	slices.Sort(stamps)
	slices.Reverse(stamps)

	entries := make([]Entry, 0, len(stamps))
	for _, stamp := range stamps {
		entries = append(entries, Entry{Timestamp: stamp, Files: byStamp[stamp]})
	}
	return entries, nil
}

// Restore copies the generation's backups over the live session stores
// and returns how many stores were restored. An empty timestamp picks
// the newest generation. Restoring the recovery store also refreshes
// recovery.baklz4, which Zen otherwise prefers over the restored file.
func (m *Manager) Restore(timestamp string) (int, error) {
	entries, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, errors.New(errors.ErrCodeBackupNotFound, "no backups found")
	}

	if timestamp == "" {
		timestamp = entries[0].Timestamp
	} else if !slices.ContainsFunc(entries, func(e Entry) bool { return e.Timestamp == timestamp }) {
		return 0, errors.New(errors.ErrCodeBackupNotFound, "no backup with timestamp %s", timestamp)
	}

	restored := 0

	sessionsBackup := m.profile.SessionsPath() + suffix + timestamp
	if _, err := os.Stat(sessionsBackup); err == nil {
		if err := copyFile(sessionsBackup, m.profile.SessionsPath()); err != nil {
			return restored, errors.Wrap(errors.ErrCodeInternal, err, "restore sessions store")
		}
		restored++
	}

	recoveryBackup := m.profile.RecoveryPath() + suffix + timestamp
	if _, err := os.Stat(recoveryBackup); err == nil {
		if err := copyFile(recoveryBackup, m.profile.RecoveryPath()); err != nil {
			return restored, errors.Wrap(errors.ErrCodeInternal, err, "restore recovery store")
		}
		if err := copyFile(recoveryBackup, m.profile.RecoveryBackupPath()); err != nil {
			return restored, errors.Wrap(errors.ErrCodeInternal, err, "refresh recovery fallback")
		}
		restored++
	}
	return restored, nil
}

// Prune deletes every backup file of the profile and returns the count.
func (m *Manager) Prune() (int, error) {
	entries, err := m.List()
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, entry := range entries {
		for _, path := range entry.Files {
			if err := os.Remove(path); err != nil {
				return deleted, errors.Wrap(errors.ErrCodeInternal, err, "delete %s", filepath.Base(path))
			}
			deleted++
		}
	}
	return deleted, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".tmp*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(out.Name())
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return err
	}
	if err := os.Chmod(out.Name(), 0o644); err != nil {
		os.Remove(out.Name())
		return err
	}
	return os.Rename(out.Name(), dst)
}
