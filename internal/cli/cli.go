// Package cli implements the pinport command-line interface.
//
// The CLI wires the parsing, matching and migration packages into
// cobra commands. Every command builds on the same resolution order
// for locations: explicit flags win, then the TOML config file, then
// platform discovery.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/pinport/pinport/pkg/buildinfo"
	"github.com/pinport/pinport/pkg/errors"
	"github.com/pinport/pinport/pkg/profile"
)

const appName = "pinport"

// Log levels exposed to main without importing charmbracelet/log.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// CLI carries the state shared by all commands.
type CLI struct {
	Logger *log.Logger

	cfg     config
	cfgFile string
	verbose bool
	silent  bool
	noColor bool
}

// New creates a CLI logging to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel adjusts the log level at runtime.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand builds the root cobra command with all subcommands
// registered. Running it without arguments on a terminal opens the
// interactive menu.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Move pinned tabs between Arc and Zen",
		Long: `pinport reads Arc's sidebar and Zen's session stores, converts pinned
tabs into a common bookmark tree, and writes them back as Zen pinned
tabs or NETSCAPE bookmark files.

Run without arguments for an interactive menu.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.cfgFile)
			if err != nil {
				return err
			}
			c.cfg = cfg
			switch {
			case c.verbose:
				c.SetLogLevel(log.DebugLevel)
			case c.silent:
				c.SetLogLevel(log.ErrorLevel)
			}
			if c.noColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				return cmd.Help()
			}
			return c.runMenu(cmd.Context())
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&c.silent, "silent", false, "only log errors")
	root.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default ~/.config/pinport/config.toml)")

	root.AddCommand(
		c.migrateCommand(),
		c.exportCommand(),
		c.spacesCommand(),
		c.backupsCommand(),
		c.treeCommand(),
		c.serveCommand(),
		c.completionCommand(),
		c.versionCommand(),
	)
	return root
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(buildinfo.String())
		},
	}
}

// =============================================================================
// Location resolution
// =============================================================================

// sidebarPath resolves the Arc sidebar location. Empty means platform
// discovery.
func (c *CLI) sidebarPath(flag string) string {
	if flag != "" {
		return flag
	}
	return c.cfg.ArcSidebar
}

// profileDir resolves the Zen profile directory. Empty means scanning
// the platform profile root.
func (c *CLI) profileDir(flag string) string {
	if flag != "" {
		return flag
	}
	return c.cfg.ZenProfile
}

func (c *CLI) findProfile(flag string) (*profile.ZenProfile, error) {
	if dir := c.profileDir(flag); dir != "" {
		return profile.ZenProfileAt(dir)
	}
	return profile.FindZenProfile()
}

// includeUnpinned resolves the unpinned default: the flag when set,
// otherwise the config file.
func (c *CLI) includeUnpinned(cmd *cobra.Command, flag bool) bool {
	if cmd.Flags().Changed("include-unpinned") {
		return flag
	}
	return c.cfg.IncludeUnpinned
}

// =============================================================================
// Interactive menu
// =============================================================================

var menuItems = []string{
	"Export Arc pinned tabs to HTML",
	"Export Zen pinned tabs to HTML",
	"Migrate Arc pinned tabs to Zen",
	"Restore a session store backup",
	"Delete all backups",
	"Quit",
}

// runMenu loops the main menu until the user quits. Errors from a
// menu action are reported and the menu shown again, so one failed
// export does not end the session.
func (c *CLI) runMenu(ctx context.Context) error {
	for {
		idx, err := runPick(ctx, "pinport "+buildinfo.Version, menuItems)
		if err != nil {
			if errors.Is(err, errors.ErrCodeAborted) {
				return nil
			}
			return err
		}

		var actErr error
		switch idx {
		case 0:
			actErr = c.runExport(ctx, sourceArc, "", c.cfg.IncludeUnpinned)
		case 1:
			actErr = c.runExport(ctx, sourceZen, "", c.cfg.IncludeUnpinned)
		case 2:
			actErr = c.runMigrate(ctx, migrateOptions{includeUnpinned: c.cfg.IncludeUnpinned})
		case 3:
			actErr = c.runRestore(ctx, "", true)
		case 4:
			actErr = c.runPrune(ctx, false)
		case 5:
			return nil
		}

		switch {
		case actErr == nil:
		case ctx.Err() != nil:
			return actErr
		case errors.Is(actErr, errors.ErrCodeAborted):
			printWarning("Cancelled.")
		default:
			printError(errors.UserMessage(actErr))
		}
		printNewline()
	}
}
