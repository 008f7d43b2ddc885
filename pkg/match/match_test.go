package match

import (
	"context"
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/pinport/pinport/pkg/errors"
	"github.com/pinport/pinport/pkg/zen"
)

func TestMatch(t *testing.T) {
	workspaces := []zen.Workspace{
		{Name: "Work", ID: "ws-work"},
		{Name: "personal", ID: "ws-personal"},
		{Name: "PERSONAL", ID: "ws-shouty"},
	}

	tests := []struct {
		name           string
		spaces         []string
		wantResolved   map[string]string
		wantUnresolved []string
	}{
		{
			name:         "exact match",
			spaces:       []string{"Work"},
			wantResolved: map[string]string{"Work": "ws-work"},
		},
		{
			name:         "case insensitive falls back to declaration order",
			spaces:       []string{"Personal"},
			wantResolved: map[string]string{"Personal": "ws-personal"},
		},
		{
			name:         "exact beats case insensitive",
			spaces:       []string{"personal"},
			wantResolved: map[string]string{"personal": "ws-personal"},
		},
		{
			name:         "surrounding whitespace trimmed for comparison",
			spaces:       []string{"  Work  "},
			wantResolved: map[string]string{"  Work  ": "ws-work"},
		},
		{
			name:           "unresolved reported in order",
			spaces:         []string{"Errand", "Work", "Hobby"},
			wantResolved:   map[string]string{"Work": "ws-work"},
			wantUnresolved: []string{"Errand", "Hobby"},
		},
		{
			name:           "duplicates collapse",
			spaces:         []string{"Errand", "Errand", "Work", "Work"},
			wantResolved:   map[string]string{"Work": "ws-work"},
			wantUnresolved: []string{"Errand"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.spaces, workspaces)
			if !reflect.DeepEqual(got.Resolved, tt.wantResolved) {
				t.Errorf("Resolved = %v, want %v", got.Resolved, tt.wantResolved)
			}
			if !reflect.DeepEqual(got.Unresolved, tt.wantUnresolved) {
				t.Errorf("Unresolved = %v, want %v", got.Unresolved, tt.wantUnresolved)
			}
		})
	}
}

func TestMatchDeterministic(t *testing.T) {
	// Two case-insensitive candidates: declaration order decides, every
	// time.
	workspaces := []zen.Workspace{
		{Name: "WORK", ID: "ws-1"},
		{Name: "work", ID: "ws-2"},
	}
	for range 50 {
		got := Match([]string{"Work"}, workspaces)
		if got.Resolved["Work"] != "ws-1" {
			t.Fatalf("Resolved[Work] = %q, want ws-1 on every run", got.Resolved["Work"])
		}
	}
}

// scriptedPort replays canned answers and tracks refresh calls.
type scriptedPort struct {
	answers    []Resolution
	refreshed  [][]zen.Workspace
	pickCalls  int
	refreshOut int
}

func (p *scriptedPort) PickResolution(_ context.Context, _ string, _ []zen.Workspace) (Resolution, error) {
	if p.pickCalls >= len(p.answers) {
		return Resolution{}, stderrors.New("no scripted answer left")
	}
	res := p.answers[p.pickCalls]
	p.pickCalls++
	return res, nil
}

func (p *scriptedPort) RefreshWorkspaces(context.Context) ([]zen.Workspace, error) {
	if p.refreshOut >= len(p.refreshed) {
		return nil, stderrors.New("no scripted refresh left")
	}
	out := p.refreshed[p.refreshOut]
	p.refreshOut++
	return out, nil
}

func TestResolveWithoutPort(t *testing.T) {
	result := Result{Resolved: map[string]string{"Work": "ws-1"}}

	t.Run("nothing unresolved", func(t *testing.T) {
		assign, err := Resolve(context.Background(), result, nil, nil)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if !reflect.DeepEqual(assign, map[string]string{"Work": "ws-1"}) {
			t.Errorf("assign = %v", assign)
		}
	})

	t.Run("unresolved is a hard error", func(t *testing.T) {
		result := Result{Unresolved: []string{"Errand", "Hobby"}}
		_, err := Resolve(context.Background(), result, nil, nil)
		var unresolved *errors.UnresolvedSpacesError
		if !stderrors.As(err, &unresolved) {
			t.Fatalf("Resolve() error = %v, want UnresolvedSpacesError", err)
		}
		if !reflect.DeepEqual(unresolved.Spaces, []string{"Errand", "Hobby"}) {
			t.Errorf("Spaces = %v", unresolved.Spaces)
		}
	})
}

func TestResolveCreate(t *testing.T) {
	// First create attempt does not surface the workspace, the second
	// does. The exact-name re-match must see the refreshed list.
	port := &scriptedPort{
		answers: []Resolution{{Decision: Create}, {Decision: Create}},
		refreshed: [][]zen.Workspace{
			{{Name: "Work", ID: "ws-work"}},
			{{Name: "Work", ID: "ws-work"}, {Name: "Errand", ID: "ws-errand"}},
		},
	}
	result := Result{Resolved: map[string]string{}, Unresolved: []string{"Errand"}}

	assign, err := Resolve(context.Background(), result, []zen.Workspace{{Name: "Work", ID: "ws-work"}}, port)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if assign["Errand"] != "ws-errand" {
		t.Errorf("assign[Errand] = %q, want ws-errand", assign["Errand"])
	}
	if port.pickCalls != 2 {
		t.Errorf("pick calls = %d, want 2 (re-prompt after miss)", port.pickCalls)
	}
}

func TestResolveCreateIsExactOnly(t *testing.T) {
	// The refreshed list carries a case-variant only, which the create
	// path must not accept; the scripted port then skips.
	port := &scriptedPort{
		answers: []Resolution{{Decision: Create}, {Decision: Skip}},
		refreshed: [][]zen.Workspace{
			{{Name: "errand", ID: "ws-lower"}},
		},
	}
	result := Result{Unresolved: []string{"Errand"}}

	assign, err := Resolve(context.Background(), result, nil, port)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if _, ok := assign["Errand"]; ok {
		t.Errorf("assign = %v, want Errand absent after skip", assign)
	}
	if port.pickCalls != 2 {
		t.Errorf("pick calls = %d, want 2", port.pickCalls)
	}
}

func TestResolveMapAndSkip(t *testing.T) {
	port := &scriptedPort{
		answers: []Resolution{
			{Decision: MapTo, Workspace: zen.Workspace{Name: "Work", ID: "ws-work"}},
			{Decision: Skip},
		},
	}
	result := Result{
		Resolved:   map[string]string{"Docs": "ws-docs"},
		Unresolved: []string{"Errand", "Hobby"},
	}

	assign, err := Resolve(context.Background(), result, nil, port)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := map[string]string{"Docs": "ws-docs", "Errand": "ws-work"}
	if !reflect.DeepEqual(assign, want) {
		t.Errorf("assign = %v, want %v", assign, want)
	}
}

func TestResolveContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := Result{Unresolved: []string{"Errand"}}
	_, err := Resolve(ctx, result, nil, &scriptedPort{})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want context.Canceled", err)
	}
}
