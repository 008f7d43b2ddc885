// Package match reconciles source space names with the target's
// workspace list.
//
// Matching is deterministic: an exact name match wins, otherwise the
// first case-insensitive match in workspace declaration order. Spaces
// that match nothing are reported unresolved and handed to a Port, the
// interactive seam that lets a caller create, remap or skip them.
package match

import (
	"context"
	"strings"

	"github.com/pinport/pinport/pkg/errors"
	"github.com/pinport/pinport/pkg/zen"
)

// Result is the outcome of automatic matching. Resolved maps each space
// name as given to a workspace uuid; Unresolved lists the space names
// that matched nothing, in input order without duplicates.
type Result struct {
	Resolved   map[string]string
	Unresolved []string
}

// Match resolves space names against the workspace list. Names are
// trimmed for comparison but keyed verbatim, so lookups by the original
// space name always hit.
func Match(names []string, workspaces []zen.Workspace) Result {
	result := Result{Resolved: make(map[string]string)}
	seen := make(map[string]bool)

	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		if id, ok := resolve(name, workspaces); ok {
			result.Resolved[name] = id
		} else {
			result.Unresolved = append(result.Unresolved, name)
		}
	}
	return result
}

// resolve finds the workspace for one space name: exact match first,
// then the first case-insensitive match in declaration order.
func resolve(name string, workspaces []zen.Workspace) (string, bool) {
	trimmed := strings.TrimSpace(name)
	for _, ws := range workspaces {
		if ws.Name == trimmed {
			return ws.ID, true
		}
	}
	for _, ws := range workspaces {
		if strings.EqualFold(ws.Name, trimmed) {
			return ws.ID, true
		}
	}
	return "", false
}

// Decision says what to do with one unresolved space.
type Decision int

const (
	// Create waits for the user to create the workspace in the target
	// browser, then re-reads the workspace list and retries the match.
	Create Decision = iota

	// MapTo assigns the space to an existing workspace of another name.
	MapTo

	// Skip leaves the space out of the migration.
	Skip
)

// Resolution is a Port's answer for one unresolved space. Workspace is
// consulted for MapTo only.
type Resolution struct {
	Decision  Decision
	Workspace zen.Workspace
}

// Port supplies the interactive half of resolution. Implementations
// prompt the user; tests script the answers.
type Port interface {
	// PickResolution asks what to do with one unresolved space, given
	// the current workspace list.
	PickResolution(ctx context.Context, space string, workspaces []zen.Workspace) (Resolution, error)

	// RefreshWorkspaces re-reads the target's workspace list after the
	// user reports having created one.
	RefreshWorkspaces(ctx context.Context) ([]zen.Workspace, error)
}

// Resolve drives the interactive loop until every unresolved space is
// assigned or skipped, and returns the final space-to-workspace
// assignment. A Create decision re-matches by exact name only and
// prompts again on a miss. Without a Port, unresolved spaces are a hard
// error carrying every affected name.
func Resolve(ctx context.Context, result Result, workspaces []zen.Workspace, port Port) (map[string]string, error) {
	assign := make(map[string]string, len(result.Resolved))
	for name, id := range result.Resolved {
		assign[name] = id
	}
	if len(result.Unresolved) == 0 {
		return assign, nil
	}
	if port == nil {
		return nil, &errors.UnresolvedSpacesError{Spaces: append([]string(nil), result.Unresolved...)}
	}

	for _, space := range result.Unresolved {
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			res, err := port.PickResolution(ctx, space, workspaces)
			if err != nil {
				return nil, err
			}

			switch res.Decision {
			case Create:
				refreshed, err := port.RefreshWorkspaces(ctx)
				if err != nil {
					return nil, err
				}
				workspaces = refreshed
				if id, ok := exact(space, workspaces); ok {
					assign[space] = id
				} else {
					continue
				}
			case MapTo:
				if res.Workspace.ID == "" {
					continue
				}
				assign[space] = res.Workspace.ID
			case Skip:
			}
			break
		}
	}
	return assign, nil
}

// exact finds a workspace by exact trimmed name.
func exact(name string, workspaces []zen.Workspace) (string, bool) {
	trimmed := strings.TrimSpace(name)
	for _, ws := range workspaces {
		if ws.Name == trimmed {
			return ws.ID, true
		}
	}
	return "", false
}
