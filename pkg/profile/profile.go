// Package profile locates browser data on disk: Arc's sidebar file and Zen
// profile directories, plus a best-effort check that Zen is not running
// while its session files are rewritten.
package profile

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pinport/pinport/pkg/errors"
)

// SidebarFilename is Arc's pinned-sidebar store.
const SidebarFilename = "StorableSidebar.json"

// zenProcessPattern matches Zen process command lines ("zen",
// "Zen Browser", "zen-browser"). Written as a bracket expression because
// pgrep -i is not portable across procps and BSD variants.
const zenProcessPattern = "[zZ][eE][nN]"

// ArcSidebarPath returns the path to Arc's sidebar file. The working
// directory is checked first so exported copies can be parsed directly,
// then Arc's data directory.
func ArcSidebarPath() (string, error) {
	if _, err := os.Stat(SidebarFilename); err == nil {
		return SidebarFilename, nil
	}

	dir, err := arcDataDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, SidebarFilename)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	return "", errors.New(errors.ErrCodeFileNotFound,
		"%s not found; looked in the current directory and %s", SidebarFilename, dir)
}

// arcDataDir is where Arc keeps its sidebar store.
func arcDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeProfileNotFound, err, "resolve home directory")
	}
	return filepath.Join(home, "Library", "Application Support", "Arc"), nil
}

// ZenProfile is one Zen Browser profile directory.
type ZenProfile struct {
	Dir  string // absolute profile directory
	Name string // directory basename, e.g. "k3v9x2lq.default-release"
}

// SessionsPath returns the pinned-session store inside the profile.
func (p *ZenProfile) SessionsPath() string {
	return filepath.Join(p.Dir, "zen-sessions.jsonlz4")
}

// RecoveryPath returns the live session-restore document.
func (p *ZenProfile) RecoveryPath() string {
	return filepath.Join(p.Dir, "sessionstore-backups", "recovery.jsonlz4")
}

// RecoveryBackupPath returns the browser's own rolling copy of the
// recovery document, kept in step with it on writes and restores.
func (p *ZenProfile) RecoveryBackupPath() string {
	return filepath.Join(p.Dir, "sessionstore-backups", "recovery.baklz4")
}

// ZenProfilesRoot returns the platform directory containing Zen profiles.
func ZenProfilesRoot() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeProfileNotFound, err, "resolve home directory")
		}
		return filepath.Join(home, "Library", "Application Support", "zen", "Profiles"), nil
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", errors.New(errors.ErrCodeProfileNotFound, "APPDATA is not set")
		}
		return filepath.Join(appData, "zen", "Profiles"), nil
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeProfileNotFound, err, "resolve home directory")
		}
		return filepath.Join(home, ".zen", "Profiles"), nil
	}
}

// FindZenProfile locates the profile to operate on: the first directory
// under the profiles root whose name contains "default", else the first
// directory at all.
func FindZenProfile() (*ZenProfile, error) {
	root, err := ZenProfilesRoot()
	if err != nil {
		return nil, err
	}
	return findZenProfileIn(root)
}

// ZenProfileAt wraps an explicit profile directory, bypassing discovery.
func ZenProfileAt(dir string) (*ZenProfile, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.New(errors.ErrCodeProfileNotFound, "profile directory %s does not exist", dir)
	}
	return &ZenProfile{Dir: dir, Name: filepath.Base(dir)}, nil
}

func findZenProfileIn(root string) (*ZenProfile, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.New(errors.ErrCodeProfileNotFound,
			"no Zen profiles found under %s", root)
	}

	var first *ZenProfile
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		p := &ZenProfile{Dir: filepath.Join(root, entry.Name()), Name: entry.Name()}
		if strings.Contains(strings.ToLower(entry.Name()), "default") {
			return p, nil
		}
		if first == nil {
			first = p
		}
	}
	if first == nil {
		return nil, errors.New(errors.ErrCodeProfileNotFound,
			"no Zen profiles found under %s", root)
	}
	return first, nil
}

// ZenRunning reports whether a Zen Browser process appears to be running.
// Uses pgrep where available; on Windows or without pgrep it reports
// false, leaving the decision to the user. The current process is
// excluded so arguments like --profile ~/.zen/... do not self-match.
func ZenRunning(ctx context.Context) bool {
	if runtime.GOOS == "windows" {
		return false
	}
	out, err := exec.CommandContext(ctx, "pgrep", "-f", zenProcessPattern).Output()
	if err != nil {
		return false
	}
	self := strconv.Itoa(os.Getpid())
	for _, pid := range strings.Fields(string(out)) {
		if pid != self {
			return true
		}
	}
	return false
}
