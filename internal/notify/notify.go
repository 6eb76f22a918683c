// Package notify delivers transient user-visible messages.
package notify

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Severity classifies a notification.
type Severity int

const (
	Info Severity = iota
	Success
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Notifier shows a transient message. It is fire-and-forget: no return
// value and no acknowledgment.
type Notifier interface {
	Notify(sev Severity, text string)
}

// Func adapts a function to Notifier.
type Func func(sev Severity, text string)

// Notify implements Notifier.
func (f Func) Notify(sev Severity, text string) { f(sev, text) }

// Discard drops every notification.
var Discard Notifier = Func(func(Severity, string) {})

// Writer prints notifications as "<severity>: <text>" lines.
// Info and Success lines are suppressed when Quiet is set.
type Writer struct {
	mu    sync.Mutex
	w     io.Writer
	quiet bool
}

// NewWriter returns a Writer notifier.
func NewWriter(w io.Writer, quiet bool) *Writer {
	return &Writer{w: w, quiet: quiet}
}

// Notify implements Notifier.
func (n *Writer) Notify(sev Severity, text string) {
	if n.quiet && sev < Warning {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "%s: %s\n", sev, text)
}

// Log forwards notifications to a zap logger.
type Log struct {
	logger *zap.Logger
}

// NewLog returns a Log notifier.
func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

// Notify implements Notifier.
func (n *Log) Notify(sev Severity, text string) {
	fields := []zap.Field{zap.String("severity", sev.String())}
	switch sev {
	case Error:
		n.logger.Error(text, fields...)
	case Warning:
		n.logger.Warn(text, fields...)
	default:
		n.logger.Info(text, fields...)
	}
}

// Multi fans a notification out to several notifiers in order.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(sev Severity, text string) {
	for _, n := range m {
		if n != nil {
			n.Notify(sev, text)
		}
	}
}
