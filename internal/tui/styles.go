package tui

import (
	"github.com/charmbracelet/lipgloss"

	"todoctl/internal/notify"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
	editingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	emptyStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	inputBoxStyle = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).Padding(0, 1)
)

func statusStyle(sev notify.Severity) lipgloss.Style {
	switch sev {
	case notify.Error:
		return errorStyle
	case notify.Warning:
		return warningStyle
	case notify.Success:
		return successStyle
	default:
		return infoStyle
	}
}
