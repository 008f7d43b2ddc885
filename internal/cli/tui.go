package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pinport/pinport/pkg/errors"
	"github.com/pinport/pinport/pkg/match"
	"github.com/pinport/pinport/pkg/zen"
)

// =============================================================================
// Selection list
// =============================================================================

const pickHeight = 12

var (
	stylePickTitle    = lipgloss.NewStyle().Foreground(colorBlue).Bold(true).MarginBottom(1)
	stylePickCursor   = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	stylePickItem     = lipgloss.NewStyle().Foreground(colorWhite)
	stylePickHelp     = lipgloss.NewStyle().Foreground(colorDim).MarginTop(1)
	stylePickSelected = lipgloss.NewStyle().Foreground(colorCyan)
)

// pickModel is a scrollable single-choice list.
type pickModel struct {
	title  string
	items  []string
	cursor int
	offset int
	choice int
	quit   bool
}

func newPickModel(title string, items []string) pickModel {
	return pickModel{title: title, items: items, choice: -1}
}

func (m pickModel) Init() tea.Cmd {
	return nil
}

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.quit = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset = m.cursor
			}
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
			if m.cursor >= m.offset+pickHeight {
				m.offset = m.cursor - pickHeight + 1
			}
		}
	case "enter":
		m.choice = m.cursor
		return m, tea.Quit
	}
	return m, nil
}

func (m pickModel) View() string {
	if m.quit || m.choice >= 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(stylePickTitle.Render(m.title))
	b.WriteString("\n")

	end := m.offset + pickHeight
	if end > len(m.items) {
		end = len(m.items)
	}
	for i := m.offset; i < end; i++ {
		if i == m.cursor {
			b.WriteString(stylePickCursor.Render("> "))
			b.WriteString(stylePickSelected.Render(m.items[i]))
		} else {
			b.WriteString("  ")
			b.WriteString(stylePickItem.Render(m.items[i]))
		}
		b.WriteString("\n")
	}
	if len(m.items) > pickHeight {
		b.WriteString(styleDim.Render(fmt.Sprintf("  %d/%d", m.cursor+1, len(m.items))))
		b.WriteString("\n")
	}

	b.WriteString(stylePickHelp.Render("↑/k up · ↓/j down · enter select · q quit"))
	return b.String()
}

// runPick displays the list and returns the chosen index. Quitting the
// list yields a user abort error.
func runPick(ctx context.Context, title string, items []string) (int, error) {
	p := tea.NewProgram(newPickModel(title, items), tea.WithContext(ctx))
	out, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return -1, ctx.Err()
		}
		return -1, errors.Wrap(errors.ErrCodeInternal, err, "run selection")
	}
	final, ok := out.(pickModel)
	if !ok || final.quit || final.choice < 0 {
		return -1, errors.New(errors.ErrCodeAborted, "selection cancelled")
	}
	return final.choice, nil
}

// =============================================================================
// Line prompts
// =============================================================================

// stdin is shared so buffered input survives across prompts.
var stdin = bufio.NewReader(os.Stdin)

func readLine() (string, error) {
	line, err := stdin.ReadString('\n')
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeAborted, err, "read input")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// confirmPrompt asks a yes/no question. Anything but y/yes is a no.
func confirmPrompt(msg string) (bool, error) {
	printInline(msg + " [y/N]: ")
	line, err := readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// =============================================================================
// Space resolution
// =============================================================================

// prompter resolves unmatched sidebar spaces interactively. It fulfills
// the decisions a migration needs when automatic name matching comes up
// short: map to an existing workspace, create one in Zen, or skip.
type prompter struct {
	// reload re-reads the workspace listing after the user created a
	// workspace in Zen.
	reload func(context.Context) ([]zen.Workspace, error)
}

func workspaceLabel(ws zen.Workspace) string {
	if ws.Name == "" {
		short := ws.ID
		if len(short) > 8 {
			short = short[:8]
		}
		return "Workspace " + short
	}
	return ws.Name
}

func (p *prompter) PickResolution(ctx context.Context, space string, workspaces []zen.Workspace) (match.Resolution, error) {
	items := make([]string, 0, len(workspaces)+2)
	for _, ws := range workspaces {
		items = append(items, workspaceLabel(ws))
	}
	items = append(items, "Create a new workspace in Zen", "Skip this space")

	title := fmt.Sprintf("No Zen workspace matches %q. Where should it go?", space)
	idx, err := runPick(ctx, title, items)
	if err != nil {
		return match.Resolution{}, err
	}

	switch {
	case idx < len(workspaces):
		return match.Resolution{Decision: match.MapTo, Workspace: workspaces[idx]}, nil
	case idx == len(workspaces):
		return match.Resolution{Decision: match.Create}, nil
	default:
		return match.Resolution{Decision: match.Skip}, nil
	}
}

func (p *prompter) RefreshWorkspaces(ctx context.Context) ([]zen.Workspace, error) {
	printInfo("Open Zen, create the workspace with the exact space name, then quit Zen completely.")
	printInline("Press Enter when done... ")
	if _, err := readLine(); err != nil {
		return nil, err
	}
	printNewline()
	return p.reload(ctx)
}
