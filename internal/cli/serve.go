package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/pinport/pinport/pkg/bookmarks"
	"github.com/pinport/pinport/pkg/errors"
	"github.com/pinport/pinport/pkg/netscape"
)

const defaultServeAddr = "127.0.0.1:8080"

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr   string
		source string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bookmark tree over HTTP",
		Long: `Serve starts a local, read-only HTTP server for browsing pinned tabs.
GET / renders the bookmark file, GET /api/tree returns the tree as
JSON. The source is parsed fresh on every request, so changes show up
on reload.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, source)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+defaultServeAddr+")")
	cmd.Flags().StringVar(&source, "source", sourceArc, "tab source: arc or zen")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, source string) error {
	if err := errors.ValidateSource(source); err != nil {
		return err
	}
	source = strings.ToLower(strings.TrimSpace(source))
	if addr == "" {
		addr = c.cfg.ServeAddr
	}
	if addr == "" {
		addr = defaultServeAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           c.serveHandler(source),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	printSuccess("Serving bookmarks on http://" + addr)
	printKeyValue("source", source)
	printKeyValue("endpoints", "/  /api/tree  /healthz")
	printNextStep("Press Ctrl-C to stop.")

	select {
	case err := <-errCh:
		return errors.Wrap(errors.ErrCodeInternal, err, "serve")
	case <-ctx.Done():
		// Ctrl-C is the normal way to stop the server, not an abort.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "shutdown")
		}
		c.Logger.Info("server stopped")
		return nil
	}
}

func (c *CLI) serveHandler(source string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(c.requestLogger)

	r.Get("/", c.handleBookmarks(source))
	r.Get("/api/tree", c.handleTree(source))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return r
}

func (c *CLI) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		c.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond))
	})
}

// handleBookmarks serves the NETSCAPE bookmark file. Browsers render
// it as a plain list of links, and saving the page yields a file the
// import dialog accepts.
func (c *CLI) handleBookmarks(source string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spaces, err := c.loadForest(source, c.cfg.IncludeUnpinned)
		if err != nil {
			c.serveError(w, err)
			return
		}
		var buf bytes.Buffer
		if err := netscape.Export(&buf, spaces); err != nil {
			c.serveError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
	}
}

func (c *CLI) handleTree(source string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spaces, err := c.loadForest(source, c.cfg.IncludeUnpinned)
		if err != nil {
			c.serveError(w, err)
			return
		}
		payload := treePayload{Source: source, Spaces: make([]treeSpace, 0, len(spaces))}
		for _, sp := range spaces {
			payload.Spaces = append(payload.Spaces, treeSpace{
				Name:  sp.Name,
				Items: toTreeNodes(sp.Children),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			c.Logger.Error("encode tree", "err", err)
		}
	}
}

func (c *CLI) serveError(w http.ResponseWriter, err error) {
	c.Logger.Error("load bookmarks", "err", err)
	http.Error(w, errors.UserMessage(err), http.StatusInternalServerError)
}

type treePayload struct {
	Source string      `json:"source"`
	Spaces []treeSpace `json:"spaces"`
}

type treeSpace struct {
	Name  string     `json:"name"`
	Items []treeNode `json:"items"`
}

type treeNode struct {
	Title    string     `json:"title"`
	URL      string     `json:"url,omitempty"`
	Children []treeNode `json:"children,omitempty"`
}

func toTreeNodes(items []bookmarks.Node) []treeNode {
	nodes := make([]treeNode, 0, len(items))
	for _, item := range items {
		switch n := item.(type) {
		case bookmarks.Bookmark:
			nodes = append(nodes, treeNode{Title: n.Title, URL: n.URL})
		case *bookmarks.Folder:
			nodes = append(nodes, treeNode{Title: n.Title, Children: toTreeNodes(n.Children)})
		}
	}
	return nodes
}
