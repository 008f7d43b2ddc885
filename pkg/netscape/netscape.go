// Package netscape writes bookmark forests in the NETSCAPE-Bookmark
// format, the de-facto interchange file every browser's import dialog
// accepts. Each space renders as a top-level folder.
package netscape

import (
	"io"
	"strings"

	"github.com/pinport/pinport/pkg/bookmarks"
)

const header = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>`

// Export writes the forest as a bookmark file. Nesting is expressed
// with tab-indented DL blocks, one level per folder depth.
func Export(w io.Writer, spaces []bookmarks.Space) error {
	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')

	for _, space := range spaces {
		writeFolder(&b, space.Name, space.Children, 1)
	}

	b.WriteString("</DL><p>")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeFolder(b *strings.Builder, title string, children []bookmarks.Node, level int) {
	indent := strings.Repeat("\t", level)
	b.WriteString(indent)
	b.WriteString("<DT><H3>")
	b.WriteString(escape(title))
	b.WriteString("</H3>\n")
	b.WriteString(indent)
	b.WriteString("<DL><p>\n")

	for _, child := range children {
		switch n := child.(type) {
		case bookmarks.Bookmark:
			b.WriteString(indent)
			b.WriteString("\t<DT><A HREF=\"")
			b.WriteString(escape(n.URL))
			b.WriteString("\">")
			b.WriteString(escape(n.Title))
			b.WriteString("</A>\n")
		case *bookmarks.Folder:
			writeFolder(b, n.Title, n.Children, level+1)
		}
	}

	b.WriteString(indent)
	b.WriteString("</DL><p>\n")
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(text string) string {
	return escaper.Replace(text)
}
