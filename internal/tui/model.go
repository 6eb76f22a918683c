// Package tui is the interactive terminal view over the task list.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"todoctl/internal/notify"
	"todoctl/internal/output"
	"todoctl/internal/service"
	"todoctl/internal/tasklist"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

type opKind int

const (
	opLoad opKind = iota
	opCreate
	opDelete
	opToggle
	opSave
)

// opDoneMsg reports that a controller operation finished.
type opDoneMsg struct {
	kind opKind
	err  error
}

type Model struct {
	ctx    context.Context
	ctrl   *tasklist.Controller
	notes  *Notifier
	logger *zap.Logger

	state   tasklist.State
	cursor  int
	mode    mode
	input   textinput.Model
	edit    textinput.Model
	spinner spinner.Model
	status  notify.Message
	width   int
}

// New builds the view. notes must be the notifier ctrl was created with.
func New(ctx context.Context, ctrl *tasklist.Controller, notes *Notifier, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.CharLimit = 256
	input.Width = 40

	edit := textinput.New()
	edit.CharLimit = 256
	edit.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		notes:   notes,
		logger:  logger,
		state:   ctrl.Snapshot(),
		input:   input,
		edit:    edit,
		spinner: s,
		status:  notify.Message{Severity: notify.Info, Text: "a add · space toggle · e edit · d delete · r reload · q quit"},
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, svc service.Service, logger *zap.Logger, opts ...tea.ProgramOption) error {
	notes := NewNotifier(16)
	ctrl := tasklist.New(svc, notify.Multi{notes, notify.NewLog(logger)}, logger)

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, ctrl, notes, logger), opts...).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.notes.wait(), m.run(opLoad, m.ctrl.Load))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case opDoneMsg:
		return m.finish(msg), nil
	case noteMsg:
		m.status = notify.Message(msg)
		return m, m.notes.wait()
	case spinner.TickMsg:
		// Operations run off the update loop; each tick picks up the
		// controller's in-flight state, such as Loading.
		m.sync()
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
		m.edit.Width = max(msg.Width-10, 10)
	}
	return m, nil
}

// run executes op as a command; the model syncs when it finishes.
func (m Model) run(kind opKind, op func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{kind: kind, err: op(ctx)}
	}
}

func (m Model) finish(msg opDoneMsg) Model {
	if msg.err != nil {
		m.logger.Debug("operation failed", zap.Int("op", int(msg.kind)), zap.Error(msg.err))
	}
	m.sync()

	switch msg.kind {
	case opCreate:
		if msg.err == nil && m.mode == modeAdd {
			m.input.SetValue(m.state.Input)
			m.input.Blur()
			m.mode = modeList
			m.cursor = clampCursor(len(m.state.Tasks)-1, len(m.state.Tasks))
		}
	case opSave:
		if m.state.Edit == nil && m.mode == modeEdit {
			m.edit.Blur()
			m.mode = modeList
		}
	}
	return m
}

// sync refreshes the rendered state from the controller.
func (m *Model) sync() {
	m.state = m.ctrl.Snapshot()
	m.cursor = clampCursor(m.cursor, len(m.state.Tasks))
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case modeAdd:
		return m.updateAddMode(msg)
	case modeEdit:
		return m.updateEditMode(msg)
	default:
		return m.updateListMode(msg.String())
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "j", "down":
		m.cursor = clampCursor(m.cursor+1, len(m.state.Tasks))
	case "k", "up":
		m.cursor = clampCursor(m.cursor-1, len(m.state.Tasks))
	case "r":
		m.sync()
		m.state.Loading = true
		return m, m.run(opLoad, m.ctrl.Load)
	case "a":
		m.mode = modeAdd
		m.input.SetValue(m.state.Input)
		return m, m.input.Focus()
	case " ":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.run(opToggle, func(ctx context.Context) error {
			return m.ctrl.ToggleCompletion(ctx, task)
		})
	case "d":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.run(opDelete, func(ctx context.Context) error {
			return m.ctrl.Delete(ctx, task.ID)
		})
	case "e":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.ctrl.BeginEdit(task)
		m.sync()
		m.mode = modeEdit
		m.edit.SetValue(task.Title)
		m.edit.CursorEnd()
		return m, m.edit.Focus()
	}
	return m, nil
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.mode = modeList
		return m, nil
	case "enter":
		title := m.input.Value()
		m.ctrl.SetInput(title)
		return m, m.run(opCreate, func(ctx context.Context) error {
			return m.ctrl.Create(ctx, title)
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetInput(m.input.Value())
	m.state.Input = m.input.Value()
	return m, cmd
}

func (m Model) updateEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctrl.CancelEdit()
		m.sync()
		m.edit.Blur()
		m.mode = modeList
		return m, nil
	case "enter":
		m.ctrl.SetEditText(m.edit.Value())
		return m, m.run(opSave, m.ctrl.SaveEdit)
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	m.ctrl.SetEditText(m.edit.Value())
	return m, cmd
}

func (m Model) selected() (service.Task, bool) {
	if len(m.state.Tasks) == 0 {
		return service.Task{}, false
	}
	return m.state.Tasks[clampCursor(m.cursor, len(m.state.Tasks))], true
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString("\n")

	if m.state.Loading {
		b.WriteString(fmt.Sprintf("%s loading tasks...\n", m.spinner.View()))
	}

	if len(m.state.Tasks) == 0 && !m.state.Loading {
		b.WriteString(emptyStyle.Render("no tasks yet"))
		b.WriteString("\n")
	}

	for i, t := range m.state.Tasks {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		title := output.NormalizeTitle(t.Title)
		switch {
		case m.state.Editing(t.ID):
			title = editingStyle.Render(title + " (editing)")
		case t.Completed:
			title = doneStyle.Render(title)
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", prefix, output.Mark(t), title))
	}

	b.WriteString("\n")
	switch m.mode {
	case modeAdd:
		b.WriteString(inputBoxStyle.Render("New task: " + m.input.View()))
		b.WriteString("\n")
	case modeEdit:
		b.WriteString(inputBoxStyle.Render("Edit: " + m.edit.View()))
		b.WriteString("\n")
	}

	b.WriteString(statusStyle(m.status.Severity).Render(m.status.Text))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) help() string {
	switch m.mode {
	case modeAdd:
		return "enter add · esc back"
	case modeEdit:
		return "enter save · esc cancel"
	default:
		return "j/k move · q quit"
	}
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
