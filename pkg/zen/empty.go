package zen

import "slices"

// PropagateEmptyTabIDs unions every folder's placeholder-tab ids into
// all of its ancestors, so each folder's emptyTabIds covers its whole
// subtree. Zen needs the full set on every level to collapse folders
// correctly. Call this once, after all spaces are synthesized; the
// parent chains are only complete then.
func PropagateEmptyTabIDs(g *PinnedGraph) {
	byID := make(map[string]*FolderRecord, len(g.Folders))
	for _, f := range g.Folders {
		byID[f.ID] = f
	}

	for _, f := range g.Folders {
		own := slices.Clone(f.EmptyTabIDs)
		for parentID := g.Parents[f.ID]; parentID != ""; parentID = g.Parents[parentID] {
			parent, ok := byID[parentID]
			if !ok {
				continue
			}
			for _, id := range own {
				if !slices.Contains(parent.EmptyTabIDs, id) {
					parent.EmptyTabIDs = append(parent.EmptyTabIDs, id)
				}
			}
		}
	}
}
