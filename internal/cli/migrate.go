package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pinport/pinport/pkg/migrate"
	"github.com/pinport/pinport/pkg/profile"
	"github.com/pinport/pinport/pkg/zen"
)

type migrateOptions struct {
	includeUnpinned bool   // also migrate unpinned Arc tabs
	dryRun          bool   // plan only, never write
	yes             bool   // skip confirmation
	allowRunning    bool   // skip the Zen process check
	profileDir      string // Zen profile override
	sidebar         string // Arc sidebar override
}

func (c *CLI) migrateCommand() *cobra.Command {
	var opts migrateOptions

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Write Arc pinned tabs into Zen's session stores",
		Long: `Migrate parses Arc's sidebar, matches each space to a Zen workspace
by name, and replaces Zen's pinned tabs with the Arc ones. Unmatched
spaces are resolved interactively. Every touched session store is
backed up first.

Zen must not be running: it rewrites the session stores on quit and
would overwrite the migration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.includeUnpinned = c.includeUnpinned(cmd, opts.includeUnpinned)
			return c.runMigrate(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.includeUnpinned, "include-unpinned", false, "also migrate unpinned Arc tabs")
	f.BoolVar(&opts.dryRun, "dry-run", false, "show the migration plan without writing")
	f.BoolVarP(&opts.yes, "yes", "y", false, "skip the confirmation prompt")
	f.BoolVar(&opts.allowRunning, "allow-running", false, "do not check whether Zen is running")
	f.StringVar(&opts.profileDir, "profile", "", "Zen profile directory (default: discovered)")
	f.StringVar(&opts.sidebar, "sidebar", "", "Arc sidebar file (default: discovered)")
	return cmd
}

func (c *CLI) runMigrate(ctx context.Context, opts migrateOptions) error {
	if !opts.allowRunning && !opts.dryRun {
		if err := waitForZenClosed(ctx); err != nil {
			return err
		}
	}

	runner := migrate.NewRunner(c.Logger)
	mopts := migrate.Options{
		SidebarPath:     c.sidebarPath(opts.sidebar),
		IncludeUnpinned: opts.includeUnpinned,
		ProfileDir:      c.profileDir(opts.profileDir),
		DryRun:          opts.dryRun,
	}

	if isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
		mopts.Port = &prompter{reload: func(ctx context.Context) ([]zen.Workspace, error) {
			if err := waitForZenClosed(ctx); err != nil {
				return nil, err
			}
			prof, err := runner.FindProfile(mopts)
			if err != nil {
				return nil, err
			}
			_, workspaces, err := runner.ReadTarget(prof)
			return workspaces, err
		}}
	}
	if !opts.yes && !opts.dryRun {
		mopts.Confirm = func(p *migrate.Plan) (bool, error) {
			printNewline()
			printPlan(p)
			printNewline()
			return confirmPrompt("Write these pinned tabs to Zen? Existing pinned tabs are replaced.")
		}
	}

	res, err := runner.Execute(ctx, mopts)
	if err != nil {
		return err
	}

	if opts.dryRun {
		printNewline()
		printPlan(res.Plan)
		printNewline()
		printInfo("Dry run. Nothing was written.")
		return nil
	}

	printNewline()
	printSuccess(fmt.Sprintf("Migrated %d of %d spaces to Zen.", res.Plan.Migrated(), len(res.Plan.Spaces)))
	printCounts(res.Stats.Bookmarks, res.Stats.Folders, res.Stats.Standalone)
	for _, path := range res.Backups {
		printFile("backup", path)
	}
	for _, path := range res.Written {
		printFile("wrote", path)
	}
	printNextStep("Start Zen and check the pinned tabs in each workspace.")
	return nil
}

// printPlan renders the space-to-workspace table and content totals.
func printPlan(p *migrate.Plan) {
	rows := make([][]string, 0, len(p.Spaces))
	for _, sp := range p.Spaces {
		ws := sp.Workspace
		if sp.WorkspaceID == "" {
			ws = "(skipped)"
		}
		rows = append(rows, []string{sp.Space, ws, strconv.Itoa(sp.Bookmarks)})
	}
	fmt.Println(renderTable([]string{"SPACE", "WORKSPACE", "TABS"}, rows))
	printCounts(p.Bookmarks, p.Folders, p.Standalone)
	if p.Migrated() == 0 {
		printWarning("No spaces are mapped. Writing would clear Zen's pinned tabs.")
	}
}

// waitForZenClosed blocks until no Zen process is found. Zen rewrites
// its session stores on quit, so writing while it runs is futile.
func waitForZenClosed(ctx context.Context) error {
	for profile.ZenRunning(ctx) {
		if err := ctx.Err(); err != nil {
			return err
		}
		printWarning("Zen is running. Close it completely before migrating.")
		printInline("Press Enter to check again... ")
		if _, err := readLine(); err != nil {
			return err
		}
	}
	return ctx.Err()
}
