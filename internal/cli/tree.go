package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/pinport/pinport/pkg/bookmarks"
	"github.com/pinport/pinport/pkg/errors"
	"github.com/pinport/pinport/pkg/render/dot"
)

const (
	formatText = "text"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPNG  = "png"
)

func (c *CLI) treeCommand() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "tree (arc|zen)",
		Short: "Render the bookmark tree",
		Long: `Tree renders the bookmark forest of a source. The text format prints
an indented tree to the terminal; dot, svg and png produce Graphviz
output with one cluster per space.`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{sourceArc, sourceZen},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(args[0], format, out)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, dot, svg or png")
	cmd.Flags().StringVarP(&out, "output", "o", "", `output file (default stdout, or <source>_tree.<format> for svg/png)`)
	return cmd
}

func (c *CLI) runTree(source, format, out string) error {
	switch format {
	case formatText, formatDOT, formatSVG, formatPNG:
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"unknown format %q (supported: text, dot, svg, png)", format)
	}

	spaces, err := c.loadForest(source, c.cfg.IncludeUnpinned)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case formatText:
		data = []byte(renderTextTree(spaces) + "\n")
	case formatDOT:
		data = []byte(dot.ToDOT(spaces))
	case formatSVG, formatPNG:
		p := newProgress(c.Logger)
		graph := dot.ToDOT(spaces)
		if format == formatSVG {
			data, err = dot.RenderSVG(graph)
		} else {
			data, err = dot.RenderPNG(graph)
		}
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		p.done("rendered graph")
	}

	if out == "" {
		if format == formatSVG || format == formatPNG {
			out = fmt.Sprintf("%s_tree.%s", source, format)
		} else {
			out = "-"
		}
	}

	w, err := openOutput(out)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", out)
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "close %s", out)
	}

	if out != "-" {
		printSuccess("Rendered bookmark tree.")
		printFile("file", out)
	}
	return nil
}

// renderTextTree draws the forest with rounded branch glyphs, folders
// bold and URLs dimmed.
func renderTextTree(spaces []bookmarks.Space) string {
	root := tree.New().
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(styleDim)
	for _, sp := range spaces {
		branch := tree.Root(styleHeader.Render(sp.Name))
		addTreeItems(branch, sp.Children)
		root.Child(branch)
	}
	return root.String()
}

func addTreeItems(t *tree.Tree, items []bookmarks.Node) {
	for _, item := range items {
		switch n := item.(type) {
		case bookmarks.Bookmark:
			t.Child(n.Title + " " + styleDim.Render(n.URL))
		case *bookmarks.Folder:
			branch := tree.Root(styleBold.Render(n.Title))
			addTreeItems(branch, n.Children)
			t.Child(branch)
		}
	}
}
