package zen

import (
	"encoding/json"

	"github.com/pinport/pinport/pkg/errors"
)

// CleanPinned removes every pinned tab and all folder and group records
// from the document. Non-pinned tabs keep their original bytes. A tab
// record that cannot be probed is kept rather than destroyed.
func CleanPinned(doc *Document, opts Options) error {
	tabs, err := doc.Tabs()
	if err != nil {
		return err
	}

	kept := make([]json.RawMessage, 0, len(tabs))
	for _, raw := range tabs {
		var probe struct {
			Pinned bool `json:"pinned"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			opts.logf("keeping unreadable tab record: %v", err)
			kept = append(kept, raw)
			continue
		}
		if !probe.Pinned {
			kept = append(kept, raw)
		}
	}

	doc.SetTabs(kept)
	doc.SetFolders(nil)
	doc.SetGroups(nil)
	return nil
}

// ApplyPinned splices a synthesized graph into the document: graph tabs
// are appended after the tabs already present, and the folder and group
// records are replaced wholesale. Run CleanPinned first so the existing
// tabs are the non-pinned survivors.
func ApplyPinned(doc *Document, g *PinnedGraph) error {
	tabs, err := doc.Tabs()
	if err != nil {
		return err
	}
	for _, tab := range g.Tabs {
		raw, err := json.Marshal(tab)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode tab record")
		}
		tabs = append(tabs, raw)
	}

	folders := make([]json.RawMessage, 0, len(g.Folders))
	for _, f := range g.Folders {
		raw, err := json.Marshal(f)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode folder record")
		}
		folders = append(folders, raw)
	}

	groups := make([]json.RawMessage, 0, len(g.Groups))
	for _, grp := range g.Groups {
		raw, err := json.Marshal(grp)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode group record")
		}
		groups = append(groups, raw)
	}

	doc.SetTabs(tabs)
	doc.SetFolders(folders)
	doc.SetGroups(groups)
	return nil
}
