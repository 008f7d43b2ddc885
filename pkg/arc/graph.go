package arc

import (
	"encoding/json"

	"github.com/pinport/pinport/pkg/bookmarks"
	"github.com/pinport/pinport/pkg/errors"
)

// item is the wire shape of one sidebar item. Title is a pointer because
// key presence matters: an item with a title and no tab payload is a
// folder, even when the title is empty.
type item struct {
	ID          string            `json:"id"`
	Title       *string           `json:"title"`
	ParentID    string            `json:"parentID"`
	ChildrenIDs []json.RawMessage `json:"childrenIds"`
	Data        struct {
		Tab *struct {
			SavedTitle string `json:"savedTitle"`
			SavedURL   string `json:"savedURL"`
		} `json:"tab"`
	} `json:"data"`
}

// itemGraph is the flat id-keyed arena of one container's items. The
// order slice preserves file order, which the parentID fallback scan
// depends on.
type itemGraph struct {
	records map[string]*item
	order   []string
}

func newItemGraph(raw json.RawMessage, opts Options) (*itemGraph, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "items is not a list")
	}

	g := &itemGraph{records: make(map[string]*item, len(entries))}
	for _, entry := range entries {
		var it item
		if err := json.Unmarshal(entry, &it); err != nil {
			opts.logf("skipping unreadable item: %v", err)
			continue
		}
		if it.ID == "" {
			opts.logf("skipping item without id")
			continue
		}
		if _, dup := g.records[it.ID]; !dup {
			g.order = append(g.order, it.ID)
		}
		g.records[it.ID] = &it
	}
	return g, nil
}

// childIDs returns the ordered child ids of parentID. When the parent
// record carries a childrenIds list, that list is authoritative,
// including when it is empty. Otherwise every item naming parentID as
// its parent is collected in file order, a weaker ordering the source
// sometimes forces on us.
func (g *itemGraph) childIDs(parentID string) []string {
	if parent, ok := g.records[parentID]; ok && parent.ChildrenIDs != nil {
		ids := make([]string, 0, len(parent.ChildrenIDs))
		for _, raw := range parent.ChildrenIDs {
			var id string
			if err := json.Unmarshal(raw, &id); err != nil {
				continue
			}
			ids = append(ids, id)
		}
		return ids
	}

	var ids []string
	for _, id := range g.order {
		if g.records[id].ParentID == parentID {
			ids = append(ids, id)
		}
	}
	return ids
}

// buildChildren resolves parentID's children into canonical nodes in
// child order. Items with a tab payload become Bookmarks, items with a
// title become Folders resolved recursively, and anything else is
// skipped. Folders whose subtree resolves to nothing are dropped, so an
// empty folder never reaches the output. The path set breaks reference
// cycles in malformed stores.
func (g *itemGraph) buildChildren(parentID string, path map[string]bool, opts Options) []bookmarks.Node {
	var children []bookmarks.Node
	for _, id := range g.childIDs(parentID) {
		it, ok := g.records[id]
		if !ok {
			opts.logf("skipping dangling child id %s", id)
			continue
		}

		switch {
		case it.Data.Tab != nil:
			title := ""
			if it.Title != nil {
				title = *it.Title
			}
			if title == "" {
				title = it.Data.Tab.SavedTitle
			}
			if title == "" {
				title = "Untitled"
			}
			children = append(children, bookmarks.Bookmark{Title: title, URL: it.Data.Tab.SavedURL})

		case it.Title != nil:
			if path[id] {
				opts.logf("skipping folder %q: reference cycle", *it.Title)
				continue
			}
			path[id] = true
			sub := g.buildChildren(id, path, opts)
			delete(path, id)
			if len(sub) == 0 {
				opts.logf("dropping empty folder %q", *it.Title)
				continue
			}
			children = append(children, &bookmarks.Folder{Title: *it.Title, Children: sub})

		default:
			opts.logf("skipping item %s: neither tab nor folder", id)
		}
	}
	return children
}
