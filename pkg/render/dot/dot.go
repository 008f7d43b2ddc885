// Package dot renders bookmark forests as Graphviz graphs. Each space
// becomes a cluster, folders and bookmarks become nodes, and nesting
// becomes edges.
package dot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/pinport/pinport/pkg/bookmarks"
)

const maxLabelLen = 48

// ToDOT builds the DOT representation of the forest.
func ToDOT(spaces []bookmarks.Space) string {
	var buf bytes.Buffer
	buf.WriteString("digraph bookmarks {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=11];\n")
	buf.WriteString("  edge [arrowsize=0.6, color=\"#999999\"];\n")

	seq := 0
	next := func() string {
		seq++
		return fmt.Sprintf("n%d", seq)
	}

	for i, sp := range spaces {
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", label(sp.Name))
		buf.WriteString("    style=rounded;\n")
		buf.WriteString("    color=\"#bbbbbb\";\n")
		writeNodes(&buf, sp.Children, "", next)
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNodes(buf *bytes.Buffer, items []bookmarks.Node, parent string, next func() string) {
	for _, item := range items {
		id := next()
		switch n := item.(type) {
		case bookmarks.Bookmark:
			fmt.Fprintf(buf, "    %s [label=%q, fillcolor=\"#eef6ff\", tooltip=%q];\n",
				id, label(n.Title), n.URL)
		case *bookmarks.Folder:
			fmt.Fprintf(buf, "    %s [label=%q, fillcolor=\"#fff3d6\"];\n", id, label(n.Title))
		}
		if parent != "" {
			fmt.Fprintf(buf, "    %s -> %s;\n", parent, id)
		}
		if f, ok := item.(*bookmarks.Folder); ok {
			writeNodes(buf, f.Children, id, next)
		}
	}
}

// label truncates long titles so nodes stay readable.
func label(s string) string {
	runes := []rune(s)
	if len(runes) <= maxLabelLen {
		return s
	}
	return string(runes[:maxLabelLen-1]) + "…"
}

// RenderSVG renders a DOT graph to SVG.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse dot: %w", err)
	}
	defer func() { _ = g.Close() }()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
