package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ideaplexa/voicetyprd/internal/reset"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	clearedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// RenderResult formats a reset report for terminal output.
func RenderResult(res reset.Result) string {
	var b strings.Builder

	if res.Success {
		b.WriteString(okStyle.Render("App data reset complete"))
	} else {
		b.WriteString(failStyle.Render("App data reset finished with errors"))
	}
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(fmt.Sprintf("run %s", res.RunID)))
	b.WriteString("\n")

	if len(res.ClearedItems) > 0 {
		b.WriteString("\nCleared:\n")
		for _, item := range res.ClearedItems {
			b.WriteString(clearedStyle.Render(fmt.Sprintf("  ✓ %s", item)))
			b.WriteString("\n")
		}
	}
	if len(res.Errors) > 0 {
		b.WriteString("\nErrors:\n")
		for _, msg := range res.Errors {
			b.WriteString(errStyle.Render(fmt.Sprintf("  ✗ %s", msg)))
			b.WriteString("\n")
		}
	}
	return b.String()
}
