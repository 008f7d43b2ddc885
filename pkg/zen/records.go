package zen

// Synthesized session records. Field sets mirror what Zen itself writes
// for pinned tabs, folders and groups; nullable fields are typed any so
// they encode as JSON null rather than disappearing.

// SiblingInfo records a folder's position among its siblings. The first
// folder at a nesting level points at the start marker, every later one
// at the folder before it.
type SiblingInfo struct {
	Type string  `json:"type"`
	ID   *string `json:"id"`
}

// FolderRecord is one pinned-folder record.
type FolderRecord struct {
	Pinned            bool        `json:"pinned"`
	SplitViewGroup    bool        `json:"splitViewGroup"`
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Collapsed         bool        `json:"collapsed"`
	SaveOnWindowClose bool        `json:"saveOnWindowClose"`
	ParentID          *string     `json:"parentId"`
	PrevSiblingInfo   SiblingInfo `json:"prevSiblingInfo"`
	EmptyTabIDs       []string    `json:"emptyTabIds"`
	UserIcon          string      `json:"userIcon"`
	WorkspaceID       string      `json:"workspaceId"`
}

// GroupRecord is the tab-group twin of a folder record. Zen keeps one
// group per pinned folder under the same id.
type GroupRecord struct {
	Pinned            bool   `json:"pinned"`
	SplitView         bool   `json:"splitView"`
	ID                string `json:"id"`
	Name              string `json:"name"`
	Color             string `json:"color"`
	Collapsed         bool   `json:"collapsed"`
	SaveOnWindowClose bool   `json:"saveOnWindowClose"`
}

// Tab is one synthesized pinned-tab record: either a ContentTab holding
// a bookmark or the hidden PlaceholderTab every folder carries.
type Tab interface {
	tab()
}

func (*ContentTab) tab()     {}
func (*PlaceholderTab) tab() {}

// Entry is the navigation history entry of a content tab.
type Entry struct {
	URL                 string `json:"url"`
	Title               string `json:"title"`
	CacheKey            int    `json:"cacheKey"`
	ID                  int64  `json:"ID"`
	DocshellUUID        string `json:"docshellUUID"`
	ResultPrincipalURI  any    `json:"resultPrincipalURI"`
	HasUserInteraction  bool   `json:"hasUserInteraction"`
	TriggeringPrincipal string `json:"triggeringPrincipal_base64"`
	DocIdentifier       int64  `json:"docIdentifier"`
	Transient           bool   `json:"transient"`
	NavigationKey       string `json:"navigationKey"`
	NavigationID        string `json:"navigationId"`
}

// InitialEntry is the trimmed entry Zen snapshots when a tab is pinned.
type InitialEntry struct {
	URL                 string `json:"url"`
	Title               string `json:"title"`
	CacheKey            int    `json:"cacheKey"`
	ID                  int64  `json:"ID"`
	TriggeringPrincipal string `json:"triggeringPrincipal_base64"`
}

// InitialState is the pinned-tab restore snapshot.
type InitialState struct {
	Entry InitialEntry `json:"entry"`
	Image any          `json:"image"`
}

// ContentTab is a pinned tab holding one bookmark. GroupID is set when
// the tab lives inside a folder and omitted for workspace-root tabs.
type ContentTab struct {
	Entries                 []Entry       `json:"entries"`
	LastAccessed            int64         `json:"lastAccessed"`
	Pinned                  bool          `json:"pinned"`
	Hidden                  bool          `json:"hidden"`
	ZenWorkspace            string        `json:"zenWorkspace"`
	ZenSyncID               string        `json:"zenSyncId"`
	ZenEssential            bool          `json:"zenEssential"`
	ZenDefaultUserContextID any           `json:"zenDefaultUserContextId"`
	ZenPinnedIcon           any           `json:"zenPinnedIcon"`
	ZenIsEmpty              bool          `json:"zenIsEmpty"`
	ZenHasStaticIcon        bool          `json:"zenHasStaticIcon"`
	ZenGlanceID             any           `json:"zenGlanceId"`
	ZenIsGlance             bool          `json:"zenIsGlance"`
	InitialState            *InitialState `json:"_zenPinnedInitialState"`
	SearchMode              any           `json:"searchMode"`
	UserContextID           int           `json:"userContextId"`
	Attributes              struct{}      `json:"attributes"`
	Index                   int           `json:"index"`
	UserTypedValue          string        `json:"userTypedValue"`
	UserTypedClear          int           `json:"userTypedClear"`
	Image                   any           `json:"image"`
	GroupID                 string        `json:"groupId,omitempty"`
}

// PlaceholderEntry is the single about:blank entry of a placeholder.
type PlaceholderEntry struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// PlaceholderTab is the hidden empty tab Zen requires in every pinned
// folder. Its sync id is what folder emptyTabIds lists refer to.
type PlaceholderTab struct {
	Entries                 []PlaceholderEntry `json:"entries"`
	LastAccessed            int64              `json:"lastAccessed"`
	Pinned                  bool               `json:"pinned"`
	Hidden                  bool               `json:"hidden"`
	GroupID                 string             `json:"groupId"`
	ZenWorkspace            string             `json:"zenWorkspace"`
	ZenSyncID               string             `json:"zenSyncId"`
	ZenEssential            bool               `json:"zenEssential"`
	ZenDefaultUserContextID any                `json:"zenDefaultUserContextId"`
	ZenPinnedIcon           any                `json:"zenPinnedIcon"`
	ZenIsEmpty              bool               `json:"zenIsEmpty"`
	ZenHasStaticIcon        bool               `json:"zenHasStaticIcon"`
	ZenGlanceID             any                `json:"zenGlanceId"`
	ZenIsGlance             bool               `json:"zenIsGlance"`
	SearchMode              any                `json:"searchMode"`
	UserContextID           int                `json:"userContextId"`
	Attributes              struct{}           `json:"attributes"`
	Index                   int                `json:"index"`
	UserTypedValue          string             `json:"userTypedValue"`
	UserTypedClear          int                `json:"userTypedClear"`
	Image                   any                `json:"image"`
}
