package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pinport/pinport/pkg/backup"
	"github.com/pinport/pinport/pkg/errors"
)

func (c *CLI) backupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "Manage session store backups",
		Long: `Backups manages the timestamped session store snapshots that every
migration takes before writing. Restore puts a snapshot back in
place; prune deletes all snapshots.`,
	}
	cmd.AddCommand(
		c.backupsListCommand(),
		c.backupsRestoreCommand(),
		c.backupsPruneCommand(),
	)
	return cmd
}

func (c *CLI) backupsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBackupsList()
		},
	}
}

func (c *CLI) backupsRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore [TIMESTAMP]",
		Short: "Restore a backup over the current session stores",
		Long: `Restore copies a backup's session stores back into place. Without a
timestamp the most recent backup is used. Zen must not be running.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts := ""
			if len(args) == 1 {
				ts = args[0]
			}
			if err := errors.ValidateBackupTimestamp(ts); err != nil {
				return err
			}
			return c.runRestore(cmd.Context(), ts, false)
		},
	}
}

func (c *CLI) backupsPruneCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPrune(cmd.Context(), yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (c *CLI) runBackupsList() error {
	mgr, err := c.backupManager()
	if err != nil {
		return err
	}
	entries, err := mgr.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printWarning("No backups found.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		names := make([]string, 0, len(e.Files))
		for _, f := range e.Files {
			names = append(names, filepath.Base(f))
		}
		rows = append(rows, []string{e.Timestamp, strings.Join(names, ", ")})
	}
	fmt.Println(renderTable([]string{"TIMESTAMP", "FILES"}, rows))
	printDetail(fmt.Sprintf("%d backups", len(entries)))
	return nil
}

// runRestore restores the named backup, or the latest when timestamp
// is empty. With pick set it offers the backup list interactively and
// asks before overwriting, which is the menu behavior.
func (c *CLI) runRestore(ctx context.Context, timestamp string, pick bool) error {
	if err := waitForZenClosed(ctx); err != nil {
		return err
	}
	mgr, err := c.backupManager()
	if err != nil {
		return err
	}

	if pick {
		entries, err := mgr.List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			printWarning("No backups found.")
			return nil
		}
		items := make([]string, 0, len(entries))
		for _, e := range entries {
			items = append(items, fmt.Sprintf("%s (%d files)", e.Timestamp, len(e.Files)))
		}
		idx, err := runPick(ctx, "Which backup should be restored?", items)
		if err != nil {
			return err
		}
		timestamp = entries[idx].Timestamp

		ok, err := confirmPrompt(fmt.Sprintf("Overwrite the current session stores with backup %s?", timestamp))
		if err != nil {
			return err
		}
		if !ok {
			return errors.New(errors.ErrCodeAborted, "restore cancelled")
		}
	}

	count, err := mgr.Restore(timestamp)
	if err != nil {
		return err
	}
	if timestamp == "" {
		printSuccess(fmt.Sprintf("Restored %d session stores from the latest backup.", count))
	} else {
		printSuccess(fmt.Sprintf("Restored %d session stores from backup %s.", count, timestamp))
	}
	printNextStep("Start Zen to pick up the restored stores.")
	return nil
}

func (c *CLI) runPrune(ctx context.Context, yes bool) error {
	mgr, err := c.backupManager()
	if err != nil {
		return err
	}
	entries, err := mgr.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printWarning("No backups found.")
		return nil
	}

	files := 0
	for _, e := range entries {
		files += len(e.Files)
	}
	if !yes {
		ok, err := confirmPrompt(fmt.Sprintf("Delete %d backup files from %d backups?", files, len(entries)))
		if err != nil {
			return err
		}
		if !ok {
			return errors.New(errors.ErrCodeAborted, "prune cancelled")
		}
	}

	count, err := mgr.Prune()
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Deleted %d backup files.", count))
	return nil
}

func (c *CLI) backupManager() (*backup.Manager, error) {
	prof, err := c.findProfile("")
	if err != nil {
		return nil, err
	}
	return backup.NewManager(prof), nil
}
