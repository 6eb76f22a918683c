package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"todoctl/internal/notify"
)

// Notifier queues notifications for the view. Notify never blocks; when the
// queue is full the message is dropped.
type Notifier struct {
	ch chan notify.Message
}

// NewNotifier returns a Notifier holding up to size pending messages.
func NewNotifier(size int) *Notifier {
	if size < 1 {
		size = 1
	}
	return &Notifier{ch: make(chan notify.Message, size)}
}

// Notify implements notify.Notifier.
func (n *Notifier) Notify(sev notify.Severity, text string) {
	select {
	case n.ch <- notify.Message{Severity: sev, Text: text}:
	default:
	}
}

type noteMsg notify.Message

// wait returns a command that delivers the next notification.
func (n *Notifier) wait() tea.Cmd {
	return func() tea.Msg {
		return noteMsg(<-n.ch)
	}
}
