// Package pkg provides the core libraries for pinport browser tab migration.
//
// # Overview
//
// pinport moves pinned tabs between the Arc and Zen browsers. Arc keeps
// its sidebar in a JSON file, Zen keeps pinned tabs inside Firefox-style
// session stores. The pkg directory is organized into three main areas:
//
//  1. Parsing - Reading browser state into a common tree (arc, zen, mozlz4)
//  2. Domain - The common tree and the migration flow (bookmarks, match, migrate, backup)
//  3. Output - Writing trees back out (netscape, zen, render/dot)
//
// # Architecture
//
// The typical data flow through pinport:
//
//	Arc StorableSidebar.json          Zen session stores (.jsonlz4)
//	         ↓                                  ↓
//	    [arc] package                      [zen] package
//	         └──────────→ [bookmarks] ←────────┘
//	                           ↓
//	          [netscape] HTML export, [render/dot] graphs,
//	          or [match] + [zen] write-back into Zen
//
// # Main Packages
//
// [arc] - Parses Arc's sidebar JSON. Walks the item graph per space and
// produces one bookmark tree per pinned container.
//
// [zen] - Decodes and encodes Zen's session stores in both layouts
// (zen-sessions and recovery), builds bookmark trees from pinned
// records, and synthesizes new pinned records from a tree.
//
// [mozlz4] - The mozLz4 container format: LZ4 block compression behind
// the "mozLz40\0" magic, used by all Firefox-family session files.
//
// [bookmarks] - The common tree: spaces holding folders and bookmark
// leaves. Everything downstream of parsing works on this type.
//
// [match] - Pairs Arc space names with Zen workspaces, first exactly,
// then case-insensitively, and drives interactive resolution for the
// rest.
//
// [migrate] - The five-stage migration flow: parse, locate, match,
// plan, write. Takes backups before touching any store.
//
// [backup] - Timestamped session store snapshots with list, restore
// and prune operations.
//
// [profile] - Platform discovery of Arc's sidebar and Zen's profile
// directory, and the running-process check.
//
// [netscape] - NETSCAPE-Bookmark-file-1 export, the HTML format every
// browser import dialog accepts.
//
// [render/dot] - Graphviz rendering of bookmark forests: DOT text, SVG
// and PNG, one cluster per space.
//
// [errors] - Coded errors shared by all packages, so the CLI can map
// failures to user-facing messages and exit codes.
//
// # Common Workflows
//
// Parse Arc's sidebar and export it:
//
//	data, _ := os.ReadFile(path)
//	spaces, _ := arc.Parse(data, arc.Options{})
//	netscape.Export(os.Stdout, spaces)
//
// Run a full migration:
//
//	runner := migrate.NewRunner(logger)
//	result, _ := runner.Execute(ctx, migrate.Options{})
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/zen/...      # Specific package
//
// [arc]: https://pkg.go.dev/github.com/pinport/pinport/pkg/arc
// [zen]: https://pkg.go.dev/github.com/pinport/pinport/pkg/zen
// [mozlz4]: https://pkg.go.dev/github.com/pinport/pinport/pkg/mozlz4
// [bookmarks]: https://pkg.go.dev/github.com/pinport/pinport/pkg/bookmarks
// [match]: https://pkg.go.dev/github.com/pinport/pinport/pkg/match
// [migrate]: https://pkg.go.dev/github.com/pinport/pinport/pkg/migrate
// [backup]: https://pkg.go.dev/github.com/pinport/pinport/pkg/backup
// [profile]: https://pkg.go.dev/github.com/pinport/pinport/pkg/profile
// [netscape]: https://pkg.go.dev/github.com/pinport/pinport/pkg/netscape
// [render/dot]: https://pkg.go.dev/github.com/pinport/pinport/pkg/render/dot
// [errors]: https://pkg.go.dev/github.com/pinport/pinport/pkg/errors
package pkg
