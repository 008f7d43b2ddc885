// Package migrate orchestrates the Arc to Zen pinned-tab migration.
//
// The pipeline runs in two halves. The planning half is read-only: it
// parses the Arc sidebar, reads the Zen workspace listing, matches
// space names against workspaces, and routes the leftovers through an
// interactive resolution port. The writing half starts only after the
// caller confirms the plan: it snapshots the session stores, strips
// the existing pinned records, synthesizes replacements for the whole
// resolved mapping, and writes every store in one pass.
//
// # Stages
//
// The pipeline consists of five stages:
//
//  1. Source: parse the Arc sidebar into the canonical forest
//  2. Target: locate the Zen profile and its workspace listing
//  3. Match: resolve source space names to workspace ids
//  4. Plan: summarize what the migration will write
//  5. Write: backup, clean, synthesize, apply, encode
//
// The first four stages never modify the profile; DryRun stops after
// the fourth. The session stores are re-read at the start of stage
// five because interactive resolution can change them (the user may
// open Zen to create a missing workspace).
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := migrate.NewRunner(logger)
//	opts := migrate.Options{
//	    Port:    prompter,
//	    Confirm: confirmer,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.Bookmarks, "bookmarks migrated")
package migrate

import (
	"time"

	"github.com/pinport/pinport/pkg/bookmarks"
	"github.com/pinport/pinport/pkg/match"
	"github.com/pinport/pinport/pkg/zen"
)

// Options contains all configuration for a migration run.
type Options struct {
	// Source options
	SidebarPath     string // Arc sidebar file; empty uses discovery
	IncludeUnpinned bool

	// Target options
	ProfileDir string // Zen profile directory; empty uses discovery

	// Flow options
	DryRun bool

	// Runtime options
	Port    match.Port                // interactive space resolution; nil makes unmatched spaces fatal
	Confirm func(*Plan) (bool, error) // plan confirmation; nil confirms automatically
	Now     func() time.Time          // clock; nil uses time.Now
}

// setDefaults applies defaults for optional runtime fields.
func (o *Options) setDefaults() {
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Plan describes what a migration will write, before anything is
// written. Every source space gets a row; rows without a workspace id
// are skipped by the write stage.
type Plan struct {
	// Spaces holds one row per source space, in sidebar order.
	Spaces []SpacePlan

	// Assignment maps source space names to target workspace ids.
	Assignment map[string]string

	// Bookmarks, Folders and Standalone total the assigned spaces only.
	// Bookmarks counts leaves inside folders; Standalone counts leaves
	// sitting directly under a space.
	Bookmarks  int
	Folders    int
	Standalone int
}

// SpacePlan is the per-space row of a Plan.
type SpacePlan struct {
	Space       string // source space name
	WorkspaceID string // target workspace id; empty when the space is skipped
	Workspace   string // target display name, falling back to the id
	Bookmarks   int    // bookmark leaves in the space, loose ones included
}

// Migrated returns how many spaces the plan assigns to a workspace.
func (p *Plan) Migrated() int {
	n := 0
	for _, row := range p.Spaces {
		if row.WorkspaceID != "" {
			n++
		}
	}
	return n
}

// Result contains the outputs of a migration run.
type Result struct {
	// Plan is the migration plan, also populated on dry runs.
	Plan *Plan

	// Backups lists the backup files created before writing.
	Backups []string

	// Written lists the session store files written.
	Written []string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains migration execution statistics. The counts mirror the
// plan totals for the assigned spaces.
type Stats struct {
	Spaces     int
	Folders    int
	Bookmarks  int
	Standalone int
	ParseTime  time.Duration
	WriteTime  time.Duration
}

// buildPlan pairs every source space with its assigned workspace and
// totals what the assigned subset will write.
func buildPlan(spaces []bookmarks.Space, assign map[string]string, workspaces []zen.Workspace) *Plan {
	names := make(map[string]string, len(workspaces))
	for _, ws := range workspaces {
		names[ws.ID] = ws.Name
	}

	plan := &Plan{Assignment: assign}
	for _, space := range spaces {
		row := SpacePlan{
			Space:       space.Name,
			WorkspaceID: assign[space.Name],
			Bookmarks:   bookmarks.CountBookmarks(space.Children),
		}
		if row.WorkspaceID != "" {
			row.Workspace = names[row.WorkspaceID]
			if row.Workspace == "" {
				// Workspaces created during resolution are not in the
				// stage-two listing yet.
				row.Workspace = row.WorkspaceID
			}
			bm, fl, loose := bookmarks.Count([]bookmarks.Space{space})
			plan.Bookmarks += bm
			plan.Folders += fl
			plan.Standalone += loose
		}
		plan.Spaces = append(plan.Spaces, row)
	}
	return plan
}
