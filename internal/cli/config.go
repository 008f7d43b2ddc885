package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/pinport/pinport/pkg/errors"
)

// config holds the optional TOML settings file. Every field maps to a
// command flag; flags win over the file, and the file wins over
// platform discovery. A missing file yields the zero config.
type config struct {
	// ZenProfile pins the Zen profile directory instead of scanning
	// the platform profile root.
	ZenProfile string `toml:"zen_profile"`

	// ArcSidebar overrides the platform Arc sidebar location.
	ArcSidebar string `toml:"arc_sidebar"`

	// ExportDir is where HTML exports land when -o is not given.
	// Defaults to the working directory.
	ExportDir string `toml:"export_dir"`

	// IncludeUnpinned also exports Arc's unpinned tabs unless the
	// flag says otherwise.
	IncludeUnpinned bool `toml:"include_unpinned"`

	// ServeAddr is the default listen address for the serve command.
	ServeAddr string `toml:"serve_addr"`
}

// configPath returns the default settings location, honoring
// XDG_CONFIG_HOME and falling back to ~/.config.
func configPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "resolve home directory")
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the TOML file at path, or the default location when
// path is empty. A missing default file is not an error; a missing
// explicit path is.
func loadConfig(path string) (config, error) {
	var cfg config

	explicit := path != ""
	if !explicit {
		var err error
		path, err = configPath()
		if err != nil {
			return cfg, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	return cfg, nil
}
