package zen

import (
	"hash/fnv"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pinport/pinport/pkg/bookmarks"
)

// triggeringPrincipal is the serialized system principal Zen stores on
// entries it creates itself.
const triggeringPrincipal = `{"3":{}}`

// SynthOptions inject the nondeterministic inputs of record synthesis.
// Zero values fall back to the wall clock, math/rand and random uuids.
type SynthOptions struct {
	// Now supplies record timestamps.
	Now func() time.Time

	// RandInt returns a pseudo-random number in [0, n).
	RandInt func(n int) int

	// NewUUID returns a fresh RFC 4122 uuid string without braces.
	NewUUID func() string
}

func (o SynthOptions) withDefaults() SynthOptions {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.RandInt == nil {
		o.RandInt = rand.IntN
	}
	if o.NewUUID == nil {
		o.NewUUID = uuid.NewString
	}
	return o
}

// PinnedGraph is the record set synthesized from a bookmark forest,
// ready to splice into a session store. Parents maps each folder id to
// its parent folder id and drives empty-tab propagation.
type PinnedGraph struct {
	Folders []*FolderRecord
	Groups  []*GroupRecord
	Tabs    []Tab
	Parents map[string]string
}

// CountBookmarks returns the number of content tabs in the graph.
func (g *PinnedGraph) CountBookmarks() int {
	n := 0
	for _, tab := range g.Tabs {
		if _, ok := tab.(*ContentTab); ok {
			n++
		}
	}
	return n
}

// Synthesize mints session records for every space that assign maps to
// a workspace uuid; spaces without an assignment are skipped. Record
// order follows the forest: folders pre-order, each folder's
// placeholder tab directly before its content. Minted ids never collide
// with each other or with the ids in existingIDs.
//
// The returned graph has per-folder emptyTabIds only. Run
// PropagateEmptyTabIDs once all spaces are in.
func Synthesize(spaces []bookmarks.Space, assign map[string]string, existingIDs map[string]bool, opts SynthOptions) *PinnedGraph {
	s := &synth{
		opts:    opts.withDefaults(),
		used:    make(map[string]bool, len(existingIDs)),
		parents: make(map[string]string),
	}
	for id := range existingIDs {
		s.used[id] = true
	}

	for _, space := range spaces {
		workspaceID := assign[space.Name]
		if workspaceID == "" {
			continue
		}
		prevSibling := ""
		for _, node := range space.Children {
			switch n := node.(type) {
			case *bookmarks.Folder:
				prevSibling = s.addFolder(n, workspaceID, "", prevSibling)
			case bookmarks.Bookmark:
				s.tabs = append(s.tabs, s.contentTab(n, workspaceID, ""))
			}
		}
	}

	return &PinnedGraph{Folders: s.folders, Groups: s.groups, Tabs: s.tabs, Parents: s.parents}
}

type synth struct {
	opts    SynthOptions
	used    map[string]bool
	folders []*FolderRecord
	groups  []*GroupRecord
	tabs    []Tab
	parents map[string]string
}

// newID mints a timestamp-random id that is unused so far. When one
// millisecond's random space is exhausted the timestamp is advanced.
func (s *synth) newID() string {
	ts := s.opts.Now().UnixMilli()
	for attempt := 0; ; attempt++ {
		id := strconv.FormatInt(ts+int64(attempt/100), 10) + "-" + strconv.Itoa(s.opts.RandInt(100))
		if !s.used[id] {
			s.used[id] = true
			return id
		}
	}
}

func (s *synth) addFolder(f *bookmarks.Folder, workspaceID, parentID, prevSiblingID string) string {
	id := s.newID()
	name := f.Title
	if name == "" {
		name = "Unnamed"
	}

	sibling := SiblingInfo{Type: "start"}
	if prevSiblingID != "" {
		sibling = SiblingInfo{Type: "folder", ID: &prevSiblingID}
	}

	folder := &FolderRecord{
		Pinned:            true,
		ID:                id,
		Name:              name,
		Collapsed:         true,
		SaveOnWindowClose: true,
		PrevSiblingInfo:   sibling,
		WorkspaceID:       workspaceID,
	}
	if parentID != "" {
		folder.ParentID = &parentID
		s.parents[id] = parentID
	}

	group := &GroupRecord{
		Pinned:            true,
		ID:                id,
		Name:              name,
		Color:             "zen-workspace-color",
		Collapsed:         true,
		SaveOnWindowClose: true,
	}

	placeholder := s.placeholderTab(workspaceID, id)
	folder.EmptyTabIDs = []string{placeholder.ZenSyncID}

	s.folders = append(s.folders, folder)
	s.groups = append(s.groups, group)
	s.tabs = append(s.tabs, placeholder)

	prevChild := ""
	for _, node := range f.Children {
		switch n := node.(type) {
		case *bookmarks.Folder:
			prevChild = s.addFolder(n, workspaceID, id, prevChild)
		case bookmarks.Bookmark:
			s.tabs = append(s.tabs, s.contentTab(n, workspaceID, id))
		}
	}
	return id
}

func (s *synth) placeholderTab(workspaceID, groupID string) *PlaceholderTab {
	return &PlaceholderTab{
		Entries:      []PlaceholderEntry{{URL: "about:blank", Title: ""}},
		LastAccessed: s.opts.Now().UnixMilli(),
		Pinned:       true,
		GroupID:      groupID,
		ZenWorkspace: workspaceID,
		ZenSyncID:    s.newID(),
		ZenIsEmpty:   true,
		Index:        1,
	}
}

func (s *synth) contentTab(b bookmarks.Bookmark, workspaceID, groupID string) *ContentTab {
	entryID, docID := urlIDs(b.URL)
	return &ContentTab{
		Entries: []Entry{{
			URL:                 b.URL,
			Title:               b.Title,
			ID:                  entryID,
			DocshellUUID:        braced(s.opts.NewUUID()),
			TriggeringPrincipal: triggeringPrincipal,
			DocIdentifier:       docID,
			NavigationKey:       braced(s.opts.NewUUID()),
			NavigationID:        braced(s.opts.NewUUID()),
		}},
		LastAccessed: s.opts.Now().UnixMilli(),
		Pinned:       true,
		ZenWorkspace: workspaceID,
		ZenSyncID:    s.newID(),
		InitialState: &InitialState{Entry: InitialEntry{
			URL:                 b.URL,
			Title:               b.Title,
			ID:                  entryID,
			TriggeringPrincipal: triggeringPrincipal,
		}},
		Index:   1,
		GroupID: groupID,
	}
}

// urlIDs derives the entry ID and docIdentifier a synthesized history
// entry carries from its url.
func urlIDs(url string) (entryID, docID int64) {
	h := fnv.New64a()
	h.Write([]byte(url))
	sum := h.Sum64()
	return int64(sum % 1_000_000_000), int64(sum % 1000)
}

func braced(id string) string {
	return "{" + id + "}"
}
