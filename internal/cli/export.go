package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pinport/pinport/pkg/bookmarks"
	"github.com/pinport/pinport/pkg/errors"
	"github.com/pinport/pinport/pkg/migrate"
	"github.com/pinport/pinport/pkg/netscape"
	"github.com/pinport/pinport/pkg/zen"
)

// Tab sources accepted by export, spaces, tree and serve.
const (
	sourceArc = "arc"
	sourceZen = "zen"
)

func (c *CLI) exportCommand() *cobra.Command {
	var (
		out             string
		includeUnpinned bool
	)

	cmd := &cobra.Command{
		Use:   "export (arc|zen)",
		Short: "Export pinned tabs as a NETSCAPE bookmark file",
		Long: `Export reads pinned tabs from Arc's sidebar or Zen's session store
and writes them as a NETSCAPE bookmark file, the HTML format every
browser's import dialog accepts.`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{sourceArc, sourceZen},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], out, c.includeUnpinned(cmd, includeUnpinned))
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", `output file, "-" for stdout (default <source>_bookmarks_<date>.html)`)
	cmd.Flags().BoolVar(&includeUnpinned, "include-unpinned", false, "also export unpinned Arc tabs")
	return cmd
}

func (c *CLI) runExport(ctx context.Context, source, out string, includeUnpinned bool) error {
	p := newProgress(c.Logger)

	spaces, err := c.loadForest(source, includeUnpinned)
	if err != nil {
		return err
	}
	if out == "" {
		out = c.defaultExportPath(source, time.Now())
	}

	w, err := openOutput(out)
	if err != nil {
		return err
	}
	if err := netscape.Export(w, spaces); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "close %s", out)
	}
	p.done("exported bookmarks")

	if out != "-" {
		bm, folders, standalone := bookmarks.Count(spaces)
		printSuccess(fmt.Sprintf("Exported %d spaces.", len(spaces)))
		printFile("file", out)
		printCounts(bm, folders, standalone)
	}
	return nil
}

// loadForest reads the bookmark forest from the given source. The
// unpinned switch only applies to Arc; the Zen side is pinned-only.
func (c *CLI) loadForest(source string, includeUnpinned bool) ([]bookmarks.Space, error) {
	runner := migrate.NewRunner(c.Logger)
	switch source {
	case sourceArc:
		return runner.ReadSource(migrate.Options{
			SidebarPath:     c.sidebarPath(""),
			IncludeUnpinned: includeUnpinned,
		})
	case sourceZen:
		prof, err := c.findProfile("")
		if err != nil {
			return nil, err
		}
		doc, workspaces, err := runner.ReadTarget(prof)
		if err != nil {
			return nil, err
		}
		return zen.BuildForest(doc, workspaces, zen.Options{Logger: c.Logger.Debugf})
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown source %q", source)
	}
}

// defaultExportPath names the export file after the source and date,
// under the configured export directory when one is set.
func (c *CLI) defaultExportPath(source string, now time.Time) string {
	name := fmt.Sprintf("%s_bookmarks_%s.html", source, now.Format("2006_01_02"))
	if c.cfg.ExportDir != "" {
		return filepath.Join(c.cfg.ExportDir, name)
	}
	return name
}

// openOutput opens path for writing, with "-" meaning stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	if err := errors.ValidateOutputPath(path); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
