// Package arc parses Arc Browser's sidebar store (StorableSidebar.json)
// into the canonical bookmark forest.
//
// The sidebar is a flat, id-keyed item graph, not a tree: every container
// carries a "spaces" list describing its top-level groupings and an
// "items" list holding tabs and folders that reference each other through
// childrenIds and parentID fields. Parsing resolves each pinned space's
// container id into an ordered folder tree.
//
// Structural problems (a missing sidebar or containers key) abort the
// parse. Individual malformed entries are skipped with a diagnostic and
// never interrupt the run.
package arc

import (
	"encoding/json"
	"strconv"

	"github.com/pinport/pinport/pkg/bookmarks"
	"github.com/pinport/pinport/pkg/errors"
)

// Options configure a sidebar parse.
type Options struct {
	// IncludeUnpinned also imports spaces that are not pinned; their names
	// get an " (Unpinned)" suffix to keep them distinguishable.
	IncludeUnpinned bool

	// Logger receives diagnostics for skipped entries. Nil disables.
	Logger func(msg string, args ...any)
}

func (o Options) logf(msg string, args ...any) {
	if o.Logger != nil {
		o.Logger(msg, args...)
	}
}

// spaceRef is one space membership discovered in a container: the space
// name plus one member container id and its pinned flag. A space usually
// yields two refs, one pinned and one unpinned.
type spaceRef struct {
	name        string
	containerID string
	pinned      bool
}

// Parse decodes raw sidebar JSON and returns the canonical forest, one
// Space per eligible sidebar space. When several sidebar containers carry
// space data (multiple Arc profiles), each container's spaces are demoted
// to folders inside one umbrella Space per profile, so the result is
// always a flat forest covering the whole source.
func Parse(data []byte, opts Options) ([]bookmarks.Space, error) {
	var file struct {
		Sidebar map[string]json.RawMessage `json:"sidebar"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode sidebar store")
	}
	if file.Sidebar == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "sidebar key missing from store")
	}

	var containers []json.RawMessage
	rawContainers, ok := file.Sidebar["containers"]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "sidebar.containers missing from store")
	}
	if err := json.Unmarshal(rawContainers, &containers); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "sidebar.containers is not a list")
	}
	if containers == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "sidebar.containers is null")
	}

	type eligibleContainer struct {
		index     int
		fields    map[string]json.RawMessage
		hasGlobal bool
	}

	var eligible []eligibleContainer
	for i, raw := range containers {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}
		if _, ok := fields["spaces"]; !ok {
			opts.logf("skipping container %d: no spaces", i)
			continue
		}
		if _, ok := fields["items"]; !ok {
			opts.logf("skipping container %d: no items", i)
			continue
		}
		_, hasGlobal := fields["global"]
		eligible = append(eligible, eligibleContainer{index: i, fields: fields, hasGlobal: hasGlobal})
	}

	var forest []bookmarks.Space
	for _, c := range eligible {
		refs := parseSpaces(c.fields["spaces"], opts)
		graph, err := newItemGraph(c.fields["items"], opts)
		if err != nil {
			opts.logf("skipping container %d: %v", c.index, err)
			continue
		}

		folders := spacesToFolders(refs, graph, opts)
		if len(folders) == 0 {
			continue
		}

		if len(eligible) > 1 {
			name := "Main Profile"
			if !c.hasGlobal {
				name = "Profile " + strconv.Itoa(c.index+1)
			}
			children := make([]bookmarks.Node, len(folders))
			for i, f := range folders {
				children[i] = f
			}
			forest = append(forest, bookmarks.Space{Name: name, Children: children})
			continue
		}
		for _, f := range folders {
			forest = append(forest, bookmarks.Space{Name: f.Title, Children: f.Children})
		}
	}

	if len(forest) == 0 {
		opts.logf("no bookmark data found in any container")
	}
	return forest, nil
}

// parseSpaces extracts space memberships from a container's spaces list.
// A space entry is an object carrying newContainerIDs, an ordered list
// alternating marker objects and container-id strings: the string after a
// marker is a member container id, pinned iff the marker has a "pinned"
// key. Everything else is skipped with a diagnostic.
func parseSpaces(raw json.RawMessage, opts Options) []spaceRef {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		opts.logf("spaces list unreadable: %v", err)
		return nil
	}

	var refs []spaceRef
	unnamed := 1
	for _, entry := range entries {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil {
			opts.logf("skipping non-object space entry")
			continue
		}

		idsRaw, ok := fields["newContainerIDs"]
		if !ok {
			opts.logf("skipping space without newContainerIDs")
			continue
		}

		name := "Space " + strconv.Itoa(unnamed)
		if titleRaw, ok := fields["title"]; ok {
			var title string
			if err := json.Unmarshal(titleRaw, &title); err == nil {
				name = title
			}
		} else {
			unnamed++
		}

		var ids []json.RawMessage
		if err := json.Unmarshal(idsRaw, &ids); err != nil {
			opts.logf("space %q: newContainerIDs unreadable", name)
			continue
		}

		for i := range ids {
			var marker map[string]json.RawMessage
			if err := json.Unmarshal(ids[i], &marker); err != nil {
				continue // container-id slot, consumed via its marker
			}
			if i+1 >= len(ids) {
				continue
			}
			var containerID string
			if err := json.Unmarshal(ids[i+1], &containerID); err != nil {
				opts.logf("space %q: marker not followed by a container id", name)
				continue
			}
			_, pinned := marker["pinned"]
			refs = append(refs, spaceRef{name: name, containerID: containerID, pinned: pinned})
		}
	}
	return refs
}

// spacesToFolders resolves each eligible space membership into a folder
// whose children are the space's pinned items. Spaces that resolve to
// nothing are omitted.
func spacesToFolders(refs []spaceRef, graph *itemGraph, opts Options) []*bookmarks.Folder {
	var folders []*bookmarks.Folder
	for _, ref := range refs {
		if !opts.IncludeUnpinned && !ref.pinned {
			continue
		}

		children := graph.buildChildren(ref.containerID, map[string]bool{ref.containerID: true}, opts)
		if len(children) == 0 {
			continue
		}

		title := ref.name
		if !ref.pinned {
			title += " (Unpinned)"
		}
		folders = append(folders, &bookmarks.Folder{Title: title, Children: children})
		opts.logf("space %q: %d bookmarks", ref.name, bookmarks.CountBookmarks(children))
	}
	return folders
}
