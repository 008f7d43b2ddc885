package zen

import (
	"encoding/json"

	"github.com/pinport/pinport/pkg/bookmarks"
)

// Options configure forest building.
type Options struct {
	// Logger receives diagnostics for skipped records. Nil disables.
	Logger func(msg string, args ...any)
}

func (o Options) logf(msg string, args ...any) {
	if o.Logger != nil {
		o.Logger(msg, args...)
	}
}

// wireEntry is the part of a history entry the reader cares about.
type wireEntry struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// wireTab probes one tab record. Pointer fields distinguish an absent
// key from a present empty value, which changes the fallback taken.
type wireTab struct {
	Entries      []wireEntry     `json:"entries"`
	Pinned       bool            `json:"pinned"`
	ZenIsEmpty   bool            `json:"zenIsEmpty"`
	ZenWorkspace *string         `json:"zenWorkspace"`
	GroupID      json.RawMessage `json:"groupId"`
	Initial      *struct {
		Entry wireEntry `json:"entry"`
	} `json:"_zenPinnedInitialState"`
}

// groupID returns the tab's folder reference, or "" when it has none.
// Non-string ids never match a folder and count as none.
func (t *wireTab) groupID() string {
	if t.GroupID == nil {
		return ""
	}
	var id string
	if err := json.Unmarshal(t.GroupID, &id); err != nil {
		return ""
	}
	return id
}

type wireFolder struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	ParentID    *string `json:"parentId"`
	WorkspaceID *string `json:"workspaceId"`
}

func (f *wireFolder) name() string {
	if f.Name == nil {
		return "Unnamed"
	}
	return *f.Name
}

// BuildForest converts the store's pinned tabs and folders into the
// canonical forest, one Space per workspace that holds any content.
// Workspaces supplies display names for workspace uuids, normally from
// the sessions store; unknown uuids fall back to a derived name.
// Workspaces appear in first-reference order: tab records first, then
// folder records, each in file order.
func BuildForest(doc *Document, workspaces []Workspace, opts Options) ([]bookmarks.Space, error) {
	names := make(map[string]string, len(workspaces))
	for _, ws := range workspaces {
		names[ws.ID] = ws.Name
	}

	rawTabs, err := doc.Tabs()
	if err != nil {
		return nil, err
	}
	rawFolders, err := doc.Folders()
	if err != nil {
		return nil, err
	}

	var order []string
	tabsByWS := make(map[string][]*wireTab)
	foldersByWS := make(map[string][]*wireFolder)
	seen := make(map[string]bool)
	note := func(wsID string) {
		if !seen[wsID] {
			seen[wsID] = true
			order = append(order, wsID)
		}
	}

	for _, raw := range rawTabs {
		var tab wireTab
		if err := json.Unmarshal(raw, &tab); err != nil {
			opts.logf("skipping unreadable tab: %v", err)
			continue
		}
		if !tab.Pinned || tab.ZenIsEmpty {
			continue
		}
		wsID := "default"
		if tab.ZenWorkspace != nil {
			wsID = *tab.ZenWorkspace
		}
		note(wsID)
		tabsByWS[wsID] = append(tabsByWS[wsID], &tab)
	}

	for _, raw := range rawFolders {
		var folder wireFolder
		if err := json.Unmarshal(raw, &folder); err != nil {
			opts.logf("skipping unreadable folder: %v", err)
			continue
		}
		wsID := "default"
		if folder.WorkspaceID != nil {
			wsID = *folder.WorkspaceID
		}
		note(wsID)
		foldersByWS[wsID] = append(foldersByWS[wsID], &folder)
	}

	var forest []bookmarks.Space
	for _, wsID := range order {
		children := workspaceTree(tabsByWS[wsID], foldersByWS[wsID], opts)
		if len(children) == 0 {
			continue
		}
		name, ok := names[wsID]
		if !ok {
			short := wsID
			if len(short) > 8 {
				short = short[:8]
			}
			name = "Workspace " + short
		}
		forest = append(forest, bookmarks.Space{Name: name, Children: children})
	}
	return forest, nil
}

// workspaceTree resolves one workspace's tabs and folders into nodes.
// Tabs attach to the folder their groupId names when that folder lives
// in the same workspace, and to the root otherwise. Root nodes list
// loose tabs first, then root folders, each in file order. Folders that
// resolve to nothing are dropped, and that emptiness propagates upward.
func workspaceTree(tabs []*wireTab, folders []*wireFolder, opts Options) []bookmarks.Node {
	known := make(map[string]bool, len(folders))
	byParent := make(map[string][]*wireFolder)
	var roots []*wireFolder
	for _, f := range folders {
		known[f.ID] = true
	}
	for _, f := range folders {
		if f.ParentID == nil {
			roots = append(roots, f)
			continue
		}
		byParent[*f.ParentID] = append(byParent[*f.ParentID], f)
	}

	tabNodes := make(map[string][]bookmarks.Node)
	var loose []bookmarks.Node
	for _, tab := range tabs {
		if len(tab.Entries) == 0 {
			continue
		}
		entry := tab.Entries[len(tab.Entries)-1]
		if entry.URL == "" || entry.URL == "about:blank" {
			continue
		}
		title := entry.Title
		if title == "" && tab.Initial != nil {
			title = tab.Initial.Entry.Title
		}
		if title == "" {
			title = entry.URL
		}
		bookmark := bookmarks.Bookmark{Title: title, URL: entry.URL}

		if gid := tab.groupID(); gid != "" && known[gid] {
			tabNodes[gid] = append(tabNodes[gid], bookmark)
		} else {
			loose = append(loose, bookmark)
		}
	}

	var build func(f *wireFolder) *bookmarks.Folder
	build = func(f *wireFolder) *bookmarks.Folder {
		children := append([]bookmarks.Node(nil), tabNodes[f.ID]...)
		for _, child := range byParent[f.ID] {
			if sub := build(child); sub != nil {
				children = append(children, sub)
			}
		}
		if len(children) == 0 {
			opts.logf("dropping empty folder %q", f.name())
			return nil
		}
		return &bookmarks.Folder{Title: f.name(), Children: children}
	}

	nodes := loose
	for _, f := range roots {
		if built := build(f); built != nil {
			nodes = append(nodes, built)
		}
	}
	return nodes
}
