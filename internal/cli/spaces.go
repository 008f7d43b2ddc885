package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pinport/pinport/pkg/bookmarks"
)

func (c *CLI) spacesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "spaces (arc|zen)",
		Short: "List spaces or workspaces with their content counts",
		Long: `Spaces lists Arc's sidebar spaces or Zen's workspaces together with
how many pinned tabs and folders each one holds. Useful to preview
what a migration or export would cover.`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{sourceArc, sourceZen},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSpaces(args[0])
		},
	}
}

func (c *CLI) runSpaces(source string) error {
	spaces, err := c.loadForest(source, c.cfg.IncludeUnpinned)
	if err != nil {
		return err
	}
	if len(spaces) == 0 {
		printWarning("No spaces found.")
		return nil
	}

	rows := make([][]string, 0, len(spaces))
	for _, sp := range spaces {
		bm, folders, loose := bookmarks.Count([]bookmarks.Space{sp})
		rows = append(rows, []string{sp.Name, strconv.Itoa(bm + loose), strconv.Itoa(folders)})
	}
	fmt.Println(renderTable([]string{"SPACE", "TABS", "FOLDERS"}, rows))

	bm, folders, loose := bookmarks.Count(spaces)
	printCounts(bm, folders, loose)
	return nil
}
