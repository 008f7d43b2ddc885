// Package bookmarks defines the canonical bookmark tree that every source
// parser produces and every target synthesizer consumes.
//
// The model is deliberately tiny: a Bookmark leaf, a Folder subtree, and a
// Space as the top-level grouping unit. Trees are built once per run and
// read-only afterward; construction cannot fail.
//
// # Structure
//
//	Space "Work"
//	├── Bookmark {Title, URL}            (standalone, direct child)
//	└── Folder "Docs"
//	    ├── Bookmark {Title, URL}
//	    └── Folder "Archive" ...
//
// Child order is display order and is semantically significant everywhere.
package bookmarks

// Node is one member of a bookmark tree: a Bookmark leaf or a Folder
// subtree. The implementation set is closed.
type Node interface {
	node()
}

// Bookmark is a single saved page. Immutable once constructed.
type Bookmark struct {
	Title string
	URL   string
}

// Folder is a named, ordered collection of bookmarks and nested folders.
// Producers never materialize a folder whose children filtered down to
// nothing, so a Folder in a finished tree always has at least one child.
type Folder struct {
	Title    string
	Children []Node
}

// Space is the top-level grouping of pinned items: a "space" in the Arc
// sidebar, a "workspace" in the Zen session store. Unlike a Folder, its
// children routinely mix loose bookmarks with folders.
type Space struct {
	Name     string
	Children []Node
}

func (Bookmark) node() {}
func (*Folder) node()  {}

// Walk visits every node under items in display order, parents before
// children.
func Walk(items []Node, fn func(Node)) {
	for _, item := range items {
		fn(item)
		if f, ok := item.(*Folder); ok {
			Walk(f.Children, fn)
		}
	}
}

// CountBookmarks returns the number of bookmark leaves reachable from
// items. Folders themselves are not counted.
func CountBookmarks(items []Node) int {
	n := 0
	Walk(items, func(node Node) {
		if _, ok := node.(Bookmark); ok {
			n++
		}
	})
	return n
}

// Count returns the bookmark and folder totals within f, counting f
// itself as one folder.
func (f *Folder) Count() (bookmarks, folders int) {
	folders = 1
	for _, item := range f.Children {
		switch child := item.(type) {
		case Bookmark:
			bookmarks++
		case *Folder:
			bm, fl := child.Count()
			bookmarks += bm
			folders += fl
		}
	}
	return bookmarks, folders
}

// Count tallies a forest. Bookmarks inside folders and folder nodes are
// counted recursively; bookmarks sitting directly under a space are
// reported separately as standalone.
func Count(spaces []Space) (bookmarks, folders, standalone int) {
	for _, space := range spaces {
		for _, item := range space.Children {
			switch child := item.(type) {
			case Bookmark:
				standalone++
			case *Folder:
				bm, fl := child.Count()
				bookmarks += bm
				folders += fl
			}
		}
	}
	return bookmarks, folders, standalone
}
