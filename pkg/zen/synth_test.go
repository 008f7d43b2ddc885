package zen

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pinport/pinport/pkg/bookmarks"
)

// testSynthOptions pin the clock and make randomness sequential so
// synthesized records are reproducible.
func testSynthOptions() SynthOptions {
	var rolls, uuids int
	return SynthOptions{
		Now: func() time.Time { return time.UnixMilli(1755000000000) },
		RandInt: func(n int) int {
			rolls++
			return (rolls - 1) % n
		},
		NewUUID: func() string {
			uuids++
			return fmt.Sprintf("00000000-0000-4000-8000-%012d", uuids)
		},
	}
}

func TestSynthesize(t *testing.T) {
	spaces := []bookmarks.Space{
		{
			Name: "Work",
			Children: []bookmarks.Node{
				&bookmarks.Folder{Title: "Docs", Children: []bookmarks.Node{
					bookmarks.Bookmark{Title: "Spec", URL: "https://example.com/spec"},
				}},
				bookmarks.Bookmark{Title: "Home", URL: "https://example.com"},
			},
		},
	}

	g := Synthesize(spaces, map[string]string{"Work": "ws-work"}, nil, testSynthOptions())

	if len(g.Folders) != 1 || len(g.Groups) != 1 || len(g.Tabs) != 3 {
		t.Fatalf("graph sizes = %d folders, %d groups, %d tabs; want 1, 1, 3",
			len(g.Folders), len(g.Groups), len(g.Tabs))
	}

	folder := g.Folders[0]
	if !folder.Pinned || !folder.Collapsed || !folder.SaveOnWindowClose {
		t.Errorf("folder flags = %+v, want pinned, collapsed, saveOnWindowClose", folder)
	}
	if folder.Name != "Docs" || folder.WorkspaceID != "ws-work" {
		t.Errorf("folder = %q in %q, want Docs in ws-work", folder.Name, folder.WorkspaceID)
	}
	if folder.ParentID != nil {
		t.Errorf("folder.ParentID = %v, want nil for top level", *folder.ParentID)
	}
	if folder.PrevSiblingInfo.Type != "start" || folder.PrevSiblingInfo.ID != nil {
		t.Errorf("folder.PrevSiblingInfo = %+v, want start marker", folder.PrevSiblingInfo)
	}
	if !strings.HasPrefix(folder.ID, "1755000000000-") {
		t.Errorf("folder.ID = %q, want timestamp-random format", folder.ID)
	}

	group := g.Groups[0]
	if group.ID != folder.ID || group.Name != folder.Name {
		t.Errorf("group = %+v, want twin of folder %+v", group, folder)
	}
	if group.Color != "zen-workspace-color" {
		t.Errorf("group.Color = %q, want zen-workspace-color", group.Color)
	}

	placeholder, ok := g.Tabs[0].(*PlaceholderTab)
	if !ok {
		t.Fatalf("g.Tabs[0] = %T, want placeholder before folder content", g.Tabs[0])
	}
	if placeholder.GroupID != folder.ID || !placeholder.ZenIsEmpty || !placeholder.Pinned {
		t.Errorf("placeholder = %+v, want empty pinned tab in folder", placeholder)
	}
	if placeholder.Entries[0].URL != "about:blank" {
		t.Errorf("placeholder url = %q, want about:blank", placeholder.Entries[0].URL)
	}
	if !reflect.DeepEqual(folder.EmptyTabIDs, []string{placeholder.ZenSyncID}) {
		t.Errorf("folder.EmptyTabIDs = %v, want [%s]", folder.EmptyTabIDs, placeholder.ZenSyncID)
	}

	spec, ok := g.Tabs[1].(*ContentTab)
	if !ok {
		t.Fatalf("g.Tabs[1] = %T, want content tab", g.Tabs[1])
	}
	if spec.GroupID != folder.ID {
		t.Errorf("spec.GroupID = %q, want folder id %q", spec.GroupID, folder.ID)
	}
	entry := spec.Entries[0]
	wantID, wantDoc := urlIDs("https://example.com/spec")
	if entry.URL != "https://example.com/spec" || entry.Title != "Spec" {
		t.Errorf("entry = %+v, want Spec bookmark", entry)
	}
	if entry.ID != wantID || entry.DocIdentifier != wantDoc {
		t.Errorf("entry ids = %d/%d, want %d/%d", entry.ID, entry.DocIdentifier, wantID, wantDoc)
	}
	if entry.TriggeringPrincipal != `{"3":{}}` {
		t.Errorf("entry.TriggeringPrincipal = %q", entry.TriggeringPrincipal)
	}
	if !strings.HasPrefix(entry.DocshellUUID, "{") || !strings.HasSuffix(entry.DocshellUUID, "}") {
		t.Errorf("entry.DocshellUUID = %q, want braced uuid", entry.DocshellUUID)
	}
	if spec.InitialState == nil || spec.InitialState.Entry.URL != entry.URL || spec.InitialState.Entry.ID != entry.ID {
		t.Errorf("spec.InitialState = %+v, want snapshot of entry", spec.InitialState)
	}
	if spec.LastAccessed != 1755000000000 {
		t.Errorf("spec.LastAccessed = %d, want fixed clock", spec.LastAccessed)
	}

	home, ok := g.Tabs[2].(*ContentTab)
	if !ok {
		t.Fatalf("g.Tabs[2] = %T, want content tab", g.Tabs[2])
	}
	if home.GroupID != "" {
		t.Errorf("home.GroupID = %q, want empty for workspace root", home.GroupID)
	}
	if home.ZenWorkspace != "ws-work" {
		t.Errorf("home.ZenWorkspace = %q, want ws-work", home.ZenWorkspace)
	}
}

func TestSynthesizeSiblingChains(t *testing.T) {
	spaces := []bookmarks.Space{
		{
			Name: "Work",
			Children: []bookmarks.Node{
				&bookmarks.Folder{Title: "A", Children: []bookmarks.Node{
					&bookmarks.Folder{Title: "A1", Children: []bookmarks.Node{
						bookmarks.Bookmark{Title: "x", URL: "https://x"},
					}},
					bookmarks.Bookmark{Title: "between", URL: "https://between"},
					&bookmarks.Folder{Title: "A2", Children: []bookmarks.Node{
						bookmarks.Bookmark{Title: "y", URL: "https://y"},
					}},
				}},
				&bookmarks.Folder{Title: "B", Children: []bookmarks.Node{
					bookmarks.Bookmark{Title: "z", URL: "https://z"},
				}},
			},
		},
		{
			Name: "Second",
			Children: []bookmarks.Node{
				&bookmarks.Folder{Title: "C", Children: []bookmarks.Node{
					bookmarks.Bookmark{Title: "w", URL: "https://w"},
				}},
			},
		},
	}
	assign := map[string]string{"Work": "ws-1", "Second": "ws-2"}

	g := Synthesize(spaces, assign, nil, testSynthOptions())

	byName := make(map[string]*FolderRecord)
	for _, f := range g.Folders {
		byName[f.Name] = f
	}
	if len(byName) != 5 {
		t.Fatalf("folders = %d, want 5", len(g.Folders))
	}

	wantStart := []string{"A", "A1", "C"}
	for _, name := range wantStart {
		if info := byName[name].PrevSiblingInfo; info.Type != "start" || info.ID != nil {
			t.Errorf("%s.PrevSiblingInfo = %+v, want start marker", name, info)
		}
	}

	chains := []struct{ name, prev string }{
		{"A2", "A1"}, // the bookmark between them does not break the chain
		{"B", "A"},
	}
	for _, c := range chains {
		info := byName[c.name].PrevSiblingInfo
		if info.Type != "folder" || info.ID == nil || *info.ID != byName[c.prev].ID {
			t.Errorf("%s.PrevSiblingInfo = %+v, want folder %s", c.name, info, c.prev)
		}
	}

	wantParents := map[string]string{
		byName["A1"].ID: byName["A"].ID,
		byName["A2"].ID: byName["A"].ID,
	}
	if !reflect.DeepEqual(g.Parents, wantParents) {
		t.Errorf("Parents = %v, want %v", g.Parents, wantParents)
	}

	if byName["C"].WorkspaceID != "ws-2" {
		t.Errorf("C.WorkspaceID = %q, want ws-2", byName["C"].WorkspaceID)
	}
}

func TestSynthesizeSkipsUnassignedSpaces(t *testing.T) {
	spaces := []bookmarks.Space{
		{Name: "Kept", Children: []bookmarks.Node{bookmarks.Bookmark{Title: "a", URL: "https://a"}}},
		{Name: "Skipped", Children: []bookmarks.Node{bookmarks.Bookmark{Title: "b", URL: "https://b"}}},
	}
	g := Synthesize(spaces, map[string]string{"Kept": "ws-1"}, nil, testSynthOptions())
	if got := g.CountBookmarks(); got != 1 {
		t.Errorf("CountBookmarks() = %d, want 1", got)
	}
	tab := g.Tabs[0].(*ContentTab)
	if tab.Entries[0].URL != "https://a" {
		t.Errorf("kept tab url = %q, want https://a", tab.Entries[0].URL)
	}
}

func TestSynthesizeMintsFreshIDs(t *testing.T) {
	existing := map[string]bool{
		"1755000000000-0": true,
		"1755000000000-1": true,
	}
	spaces := []bookmarks.Space{
		{Name: "Work", Children: []bookmarks.Node{
			&bookmarks.Folder{Title: "Docs", Children: []bookmarks.Node{
				bookmarks.Bookmark{Title: "a", URL: "https://a"},
			}},
		}},
	}

	g := Synthesize(spaces, map[string]string{"Work": "ws-1"}, existing, testSynthOptions())

	var minted []string
	minted = append(minted, g.Folders[0].ID)
	minted = append(minted, g.Folders[0].EmptyTabIDs...)
	for _, tab := range g.Tabs {
		switch tb := tab.(type) {
		case *ContentTab:
			minted = append(minted, tb.ZenSyncID)
		case *PlaceholderTab:
			minted = append(minted, tb.ZenSyncID)
		}
	}

	seen := make(map[string]bool)
	for _, id := range minted {
		if existing[id] {
			t.Errorf("minted id %q collides with existing store id", id)
		}
		seen[id] = true
	}
	// Folder id, placeholder sync id (also in emptyTabIds) and content
	// sync id must be three distinct ids.
	if len(seen) != 3 {
		t.Errorf("distinct minted ids = %d, want 3 (%v)", len(seen), minted)
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	spaces := []bookmarks.Space{
		{Name: "Work", Children: []bookmarks.Node{
			&bookmarks.Folder{Title: "Docs", Children: []bookmarks.Node{
				bookmarks.Bookmark{Title: "Spec", URL: "https://example.com/spec"},
			}},
		}},
	}
	assign := map[string]string{"Work": "ws-1"}

	first := Synthesize(spaces, assign, nil, testSynthOptions())
	second := Synthesize(spaces, assign, nil, testSynthOptions())
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different graphs")
	}
}

func TestPropagateEmptyTabIDs(t *testing.T) {
	spaces := []bookmarks.Space{
		{Name: "Work", Children: []bookmarks.Node{
			&bookmarks.Folder{Title: "Outer", Children: []bookmarks.Node{
				&bookmarks.Folder{Title: "Mid", Children: []bookmarks.Node{
					&bookmarks.Folder{Title: "Leaf", Children: []bookmarks.Node{
						bookmarks.Bookmark{Title: "a", URL: "https://a"},
					}},
				}},
			}},
		}},
	}
	g := Synthesize(spaces, map[string]string{"Work": "ws-1"}, nil, testSynthOptions())

	byName := make(map[string]*FolderRecord)
	for _, f := range g.Folders {
		byName[f.Name] = f
	}
	for name, f := range byName {
		if len(f.EmptyTabIDs) != 1 {
			t.Fatalf("%s.EmptyTabIDs = %v before propagation, want own id only", name, f.EmptyTabIDs)
		}
	}

	PropagateEmptyTabIDs(g)

	wantLens := map[string]int{"Outer": 3, "Mid": 2, "Leaf": 1}
	for name, want := range wantLens {
		if got := len(byName[name].EmptyTabIDs); got != want {
			t.Errorf("%s.EmptyTabIDs has %d ids, want %d", name, got, want)
		}
	}

	leafID := byName["Leaf"].EmptyTabIDs[0]
	for _, name := range []string{"Mid", "Outer"} {
		found := false
		for _, id := range byName[name].EmptyTabIDs {
			if id == leafID {
				found = true
			}
		}
		if !found {
			t.Errorf("%s.EmptyTabIDs missing leaf placeholder %q", name, leafID)
		}
	}

	// Running again must not duplicate anything.
	PropagateEmptyTabIDs(g)
	for name, want := range wantLens {
		if got := len(byName[name].EmptyTabIDs); got != want {
			t.Errorf("after second run %s.EmptyTabIDs has %d ids, want %d", name, got, want)
		}
	}
}
