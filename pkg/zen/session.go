// Package zen reads and rewrites Zen Browser session stores.
//
// Zen keeps pinned tabs, folders and groups in two mozlz4 compressed
// JSON documents: zen-sessions.jsonlz4 with the records at the top
// level, and sessionstore-backups/recovery.jsonlz4 with the records
// inside the first window. Both are owned by the browser and carry many
// fields this tool knows nothing about, so a Document keeps every value
// as raw JSON and only touches the keys it edits. Unknown fields
// survive a decode/encode cycle untouched.
//
// The package converts between session records and the canonical
// bookmark forest in both directions: BuildForest reads pinned tabs
// into bookmark spaces, and Synthesize mints fresh session records
// from a forest for splicing into a store.
package zen

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pinport/pinport/pkg/errors"
)

// Layout selects where a session store keeps its tab records.
type Layout int

const (
	// LayoutSessions is the zen-sessions store: tabs, folders, groups
	// and spaces live at the top level of the document.
	LayoutSessions Layout = iota

	// LayoutRecovery is the session-store recovery file: tab records
	// live inside the first element of the windows list.
	LayoutRecovery
)

// Workspace is one Zen workspace as declared in the sessions store.
type Workspace struct {
	Name string
	ID   string
}

// Document is one decoded session store. All values are held as raw
// JSON; accessors decode only the records they need.
type Document struct {
	layout  Layout
	root    map[string]json.RawMessage
	windows []json.RawMessage
	window  map[string]json.RawMessage
}

// Decode parses a session store. A recovery store without at least one
// window is rejected, since every edit targets the first window.
func Decode(data []byte, layout Layout) (*Document, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode session store")
	}
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "session store is null")
	}

	doc := &Document{layout: layout, root: root}
	if layout != LayoutRecovery {
		return doc, nil
	}

	rawWindows, ok := root["windows"]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "recovery store has no windows list")
	}
	if err := json.Unmarshal(rawWindows, &doc.windows); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "recovery windows is not a list")
	}
	if len(doc.windows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "recovery store has no windows")
	}
	if err := json.Unmarshal(doc.windows[0], &doc.window); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode first window")
	}
	return doc, nil
}

// Encode serializes the document back to JSON, folding the edited first
// window back into the windows list for recovery stores.
func (d *Document) Encode() ([]byte, error) {
	if d.layout == LayoutRecovery {
		window, err := json.Marshal(d.window)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode first window")
		}
		d.windows[0] = window
		windows, err := json.Marshal(d.windows)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode windows")
		}
		d.root["windows"] = windows
	}
	data, err := json.Marshal(d.root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode session store")
	}
	return data, nil
}

// fields returns the object holding the tab records for this layout.
func (d *Document) fields() map[string]json.RawMessage {
	if d.layout == LayoutRecovery {
		return d.window
	}
	return d.root
}

func (d *Document) records(key string) ([]json.RawMessage, error) {
	raw, ok := d.fields()[key]
	if !ok {
		return nil, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s is not a list", key)
	}
	return records, nil
}

func (d *Document) setRecords(key string, records []json.RawMessage) {
	parts := make([][]byte, len(records))
	for i, r := range records {
		parts[i] = r
	}
	raw := append([]byte{'['}, bytes.Join(parts, []byte{','})...)
	d.fields()[key] = append(raw, ']')
}

// Tabs returns the raw tab records, or nil when the store has none.
func (d *Document) Tabs() ([]json.RawMessage, error) { return d.records("tabs") }

// SetTabs replaces the tab records. A nil slice writes an empty list.
func (d *Document) SetTabs(records []json.RawMessage) { d.setRecords("tabs", records) }

// Folders returns the raw pinned-folder records.
func (d *Document) Folders() ([]json.RawMessage, error) { return d.records("folders") }

// SetFolders replaces the pinned-folder records.
func (d *Document) SetFolders(records []json.RawMessage) { d.setRecords("folders", records) }

// Groups returns the raw tab-group records.
func (d *Document) Groups() ([]json.RawMessage, error) { return d.records("groups") }

// SetGroups replaces the tab-group records.
func (d *Document) SetGroups(records []json.RawMessage) { d.setRecords("groups", records) }

// Workspaces lists the store's workspaces in declaration order.
// Entries with a blank name or no uuid are dropped; recovery stores
// declare no workspaces and yield nil.
func (d *Document) Workspaces() []Workspace {
	raw, ok := d.root["spaces"]
	if !ok {
		return nil
	}
	var entries []struct {
		Name string `json:"name"`
		UUID string `json:"uuid"`
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	var workspaces []Workspace
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" || e.UUID == "" {
			continue
		}
		workspaces = append(workspaces, Workspace{Name: name, ID: e.UUID})
	}
	return workspaces
}

// ExistingIDs collects every record id already present in the store,
// so freshly minted ids can be checked against them.
func (d *Document) ExistingIDs() map[string]bool {
	ids := make(map[string]bool)

	collect := func(records []json.RawMessage, err error) {
		if err != nil {
			return
		}
		for _, raw := range records {
			var probe struct {
				ID        string `json:"id"`
				ZenSyncID string `json:"zenSyncId"`
				GroupID   string `json:"groupId"`
			}
			if json.Unmarshal(raw, &probe) != nil {
				continue
			}
			for _, id := range []string{probe.ID, probe.ZenSyncID, probe.GroupID} {
				if id != "" {
					ids[id] = true
				}
			}
		}
	}

	collect(d.Folders())
	collect(d.Groups())
	collect(d.Tabs())
	return ids
}

// Touch bumps the store's freshness timestamp: lastCollected for a
// sessions store, session.lastUpdate for a recovery store. Sibling keys
// inside the session object are preserved.
func (d *Document) Touch(now time.Time) {
	ms := json.RawMessage(strconv.FormatInt(now.UnixMilli(), 10))

	if d.layout == LayoutSessions {
		d.root["lastCollected"] = ms
		return
	}

	session := make(map[string]json.RawMessage)
	if raw, ok := d.root["session"]; ok {
		// A malformed session object is replaced rather than kept.
		_ = json.Unmarshal(raw, &session)
		if session == nil {
			session = make(map[string]json.RawMessage)
		}
	}
	session["lastUpdate"] = ms
	d.root["session"] = mustJSON(session)
}

// mustJSON marshals values that are valid by construction.
func mustJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
