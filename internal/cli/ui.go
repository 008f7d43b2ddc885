package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// =============================================================================
// Colors
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleInfo    = lipgloss.NewStyle().Foreground(colorBlue)
	styleDetail  = lipgloss.NewStyle().Foreground(colorGray)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleBold    = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	styleFile    = lipgloss.NewStyle().Foreground(colorCyan)
	styleHeader  = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Print helpers
// =============================================================================

func printSuccess(msg string) {
	fmt.Println(styleSuccess.Render(iconSuccess) + " " + msg)
}

func printError(msg string) {
	fmt.Println(styleError.Render(iconError) + " " + msg)
}

func printWarning(msg string) {
	fmt.Println(styleWarning.Render(iconWarning) + " " + msg)
}

func printInfo(msg string) {
	fmt.Println(styleInfo.Render(iconInfo) + " " + msg)
}

func printDetail(msg string) {
	fmt.Println("  " + styleDetail.Render(msg))
}

func printFile(label, path string) {
	fmt.Println("  " + styleDetail.Render(label+":") + " " + styleFile.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println("  " + styleDetail.Render(key+":") + " " + value)
}

// printCounts prints a one-line content summary in dim style.
func printCounts(bookmarks, folders, standalone int) {
	parts := []string{
		fmt.Sprintf("%d bookmarks", bookmarks),
		fmt.Sprintf("%d folders", folders),
	}
	if standalone > 0 {
		parts = append(parts, fmt.Sprintf("%d loose tabs", standalone))
	}
	fmt.Println("  " + styleDim.Render(strings.Join(parts, " · ")))
}

// =============================================================================
// Tables
// =============================================================================

var (
	styleTableHeader = lipgloss.NewStyle().Foreground(colorBlue).Bold(true).Padding(0, 1)
	styleTableCell   = lipgloss.NewStyle().Padding(0, 1)
)

// renderTable draws a bordered table with the shared palette.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			return styleTableCell
		}).
		Render()
}

// printNextStep suggests a follow-up command.
func printNextStep(msg string) {
	fmt.Println(styleDim.Render("  " + iconArrow + " " + msg))
}

// printInline prints without a trailing newline, for prompts.
func printInline(msg string) {
	fmt.Print(msg)
}

func printNewline() {
	fmt.Println()
}
