// Package tui is the terminal client for the task API.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"taskboard/pkg/client"
	"taskboard/pkg/task"
)

// Run starts the terminal UI and blocks until the user quits.
func Run(ctx context.Context, api *client.Client, logger *log.Logger) error {
	program := tea.NewProgram(NewModel(ctx, api, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type mode int

const (
	modeBrowse mode = iota
	modeNewTitle
	modeNewDescription
	modeEditTitle
	modeConfirmDelete
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	footerStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderTop(true)
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	orangeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

const emptyMessage = "No hay tareas. ¡Crea tu primera tarea!"

// Model is the bubbletea model. The client State is only touched from Update.
type Model struct {
	ctx    context.Context
	api    *client.Client
	logger *log.Logger

	state     client.State
	cursor    int
	mode      mode
	input     string
	flash     string
	confirmID string // task awaiting a delete answer
}

type loadedMsg struct {
	tasks []task.Task
	err   error
}

type createdMsg struct {
	task *task.Task
	err  error
}

type updatedMsg struct {
	task *task.Task
	err  error
}

type deletedMsg struct {
	id  string
	err error
}

// NewModel creates a Model in the loading state.
func NewModel(ctx context.Context, api *client.Client, logger *log.Logger) *Model {
	return &Model{
		ctx:    ctx,
		api:    api,
		logger: logger,
		state:  client.NewState(),
	}
}

// State returns the current client state.
func (m *Model) State() client.State {
	return m.state
}

func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case loadedMsg:
		if msg.err != nil {
			m.fail("load tasks", msg.err)
			m.state = client.Reduce(m.state, client.LoadFailed{})
			return m, nil
		}
		m.state = client.Reduce(m.state, client.Loaded{Tasks: msg.tasks})
		m.clampCursor()
	case createdMsg:
		if msg.err != nil {
			m.fail("create task", msg.err)
			return m, nil
		}
		m.state = client.Reduce(m.state, client.Created{Task: *msg.task})
		m.cursor = 0
	case updatedMsg:
		if msg.err != nil {
			m.fail("update task", msg.err)
			return m, nil
		}
		wasEditing := m.state.EditingID == msg.task.ID
		m.state = client.Reduce(m.state, client.Updated{Task: *msg.task})
		if wasEditing && m.mode == modeEditTitle {
			m.mode = modeBrowse
			m.input = ""
		}
	case deletedMsg:
		if msg.err != nil {
			m.fail("delete task", msg.err)
			return m, nil
		}
		m.state = client.Reduce(m.state, client.Deleted{ID: msg.id})
		m.clampCursor()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case modeNewTitle, modeNewDescription, modeEditTitle:
		return m.handleInput(msg)
	case modeConfirmDelete:
		return m.handleConfirm(msg)
	}

	m.flash = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.Tasks)-1 {
			m.cursor++
		}
	case "r":
		return m, m.load()
	case "n":
		m.mode = modeNewTitle
		m.input = ""
	case "e":
		if t, ok := m.selected(); ok {
			m.state = client.Reduce(m.state, client.EditStarted{ID: t.ID})
			m.mode = modeEditTitle
			m.input = t.Title
		}
	case " ", "space":
		if t, ok := m.selected(); ok {
			done := !t.Completed
			return m, m.update(t.ID, task.Patch{Completed: &done})
		}
	case "d":
		if t, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
			m.confirmID = t.ID
		}
	}
	return m, nil
}

func (m *Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.mode == modeEditTitle {
			m.state = client.Reduce(m.state, client.EditCancelled{})
		} else {
			m.state = client.Reduce(m.state, client.DraftChanged{})
		}
		m.mode = modeBrowse
		m.input = ""
		return m, nil
	case tea.KeyEnter:
		return m.submitInput()
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m *Model) submitInput() (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeNewTitle:
		if strings.TrimSpace(m.input) == "" {
			m.flash = "El título es obligatorio"
			return m, nil
		}
		m.state = client.Reduce(m.state, client.DraftChanged{Title: m.input})
		m.mode = modeNewDescription
		m.input = ""
	case modeNewDescription:
		draft := m.state.Draft
		m.state = client.Reduce(m.state, client.DraftChanged{Title: draft.Title, Description: m.input})
		m.mode = modeBrowse
		m.input = ""
		return m, m.create(m.state.Draft)
	case modeEditTitle:
		title, err := task.NormalizeTitle(m.input)
		if err != nil {
			m.flash = "El título es obligatorio"
			return m, nil
		}
		return m, m.update(m.state.EditingID, task.Patch{Title: &title})
	}
	return m, nil
}

// handleConfirm answers for the task chosen when d was pressed, wherever the
// cursor is now.
func (m *Model) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.confirmID
	m.mode = modeBrowse
	m.confirmID = ""
	if _, ok := m.state.Find(id); !ok {
		return m, nil
	}
	switch msg.String() {
	case "y", "Y", "s", "S":
		return m, m.delete(id)
	}
	return m, nil
}

func (m *Model) selected() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Tasks) {
		return task.Task{}, false
	}
	return m.state.Tasks[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.state.Tasks) {
		m.cursor = len(m.state.Tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) fail(op string, err error) {
	m.logger.Error(op, "err", err)
	m.flash = fmt.Sprintf("%s: %v", op, err)
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.api.List(m.ctx)
		return loadedMsg{tasks: tasks, err: err}
	}
}

// create sends nothing when the draft title is blank.
func (m *Model) create(d client.Draft) tea.Cmd {
	if strings.TrimSpace(d.Title) == "" {
		return nil
	}
	return func() tea.Msg {
		t, err := m.api.Create(m.ctx, d.Title, d.Description)
		return createdMsg{task: t, err: err}
	}
}

func (m *Model) update(id string, p task.Patch) tea.Cmd {
	return func() tea.Msg {
		t, err := m.api.Update(m.ctx, id, p)
		return updatedMsg{task: t, err: err}
	}
}

func (m *Model) delete(id string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, err: m.api.Delete(m.ctx, id)}
	}
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Gestor de Tareas"))
	b.WriteString("\n\n")

	if m.state.Loading {
		b.WriteString("Cargando...\n")
		return b.String()
	}

	if len(m.state.Tasks) == 0 {
		b.WriteString(dimStyle.Render(emptyMessage))
		b.WriteString("\n")
	}
	for i, t := range m.state.Tasks {
		writeTask(&b, t, i == m.cursor, t.ID == m.state.EditingID)
	}
	b.WriteString("\n")

	switch m.mode {
	case modeNewTitle:
		b.WriteString(promptStyle.Render("Título de la tarea *: ") + m.input + "█\n")
	case modeNewDescription:
		b.WriteString(promptStyle.Render("Descripción (opcional): ") + m.input + "█\n")
	case modeEditTitle:
		b.WriteString(promptStyle.Render("Editar título: ") + m.input + "█\n")
	case modeConfirmDelete:
		if t, ok := m.state.Find(m.confirmID); ok {
			b.WriteString(promptStyle.Render(fmt.Sprintf("%s %q (y/n)", client.DeletePrompt, t.Title)) + "\n")
		}
	}
	if m.flash != "" {
		b.WriteString(errStyle.Render(m.flash) + "\n")
	}

	b.WriteString(footerStyle.Render(footer(m.state.Counts())))
	b.WriteString("\n")
	return b.String()
}

func writeTask(b *strings.Builder, t task.Task, selected, editing bool) {
	prefix := "  "
	if selected {
		prefix = cursorStyle.Render("> ")
	}
	box := "[ ]"
	title := t.Title
	if t.Completed {
		box = "[x]"
		title = doneStyle.Render(title)
	}
	line := fmt.Sprintf("%s%s %s", prefix, box, title)
	if editing {
		line += promptStyle.Render(" (editando)")
	}
	b.WriteString(line)
	b.WriteString(dimStyle.Render("  " + t.CreatedAt.Local().Format("02 Jan 2006")))
	b.WriteString("\n")
	if t.Description != "" {
		b.WriteString("      " + dimStyle.Render(t.Description) + "\n")
	}
}

func footer(c task.Counts) string {
	counts := fmt.Sprintf("Total: %d  %s  %s",
		c.Total,
		greenStyle.Render(fmt.Sprintf("Completadas: %d", c.Completed)),
		orangeStyle.Render(fmt.Sprintf("Pendientes: %d", c.Pending)),
	)
	help := dimStyle.Render("n nueva · e editar · espacio completar · d eliminar · r recargar · q salir")
	return counts + "\n" + help
}
