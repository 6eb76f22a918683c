// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todoctl/internal/service"
)

// Checkbox markers for open and completed tasks.
const (
	OpenMark      = "[ ]"
	CompletedMark = "[x]"
)

// FormatTask formats a task line for the list command.
// Format: "{N:>4}  {MARK}  {TITLE}\n" (4-wide right-aligned number, checkbox, title)
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s  %s\n", num, Mark(task), NormalizeTitle(task.Title))
}

// FormatTaskWithID is FormatTask followed by the store ID.
func FormatTaskWithID(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s  %s  (@%s)\n", num, Mark(task), NormalizeTitle(task.Title), task.ID)
}

// Mark returns the checkbox for task.
func Mark(task service.Task) string {
	if task.Completed {
		return CompletedMark
	}
	return OpenMark
}

// NormalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
