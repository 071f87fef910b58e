package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskflow/internal/todo"
)

// Form field order. The first three are text inputs.
const (
	fieldTitle = iota
	fieldDescription
	fieldDueDate
	fieldPriority
	fieldProject
	formFieldCount
)

var formLabels = [formFieldCount]string{"Title", "Description", "Due date", "Priority", "Project"}

type taskForm struct {
	inputs   [fieldPriority]textinput.Model
	priority int
	project  int
	focus    int
}

func newTaskForm() *taskForm {
	f := &taskForm{}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Width = 40
		f.inputs[i] = in
	}
	f.inputs[fieldTitle].Placeholder = "What needs to be done?"
	f.inputs[fieldTitle].CharLimit = 256
	f.inputs[fieldDescription].Placeholder = "Optional details"
	f.inputs[fieldDescription].CharLimit = 1024
	f.inputs[fieldDueDate].Placeholder = "YYYY-MM-DD"
	f.inputs[fieldDueDate].CharLimit = len(todo.DueDateLayout)

	f.priority = indexOf(todo.Priorities, todo.DefaultPriority)
	f.project = indexOf(todo.Projects, todo.DefaultProject)
	return f
}

func (f *taskForm) fields() todo.Fields {
	return todo.Fields{
		Title:       f.inputs[fieldTitle].Value(),
		Description: f.inputs[fieldDescription].Value(),
		DueDate:     f.inputs[fieldDueDate].Value(),
		Priority:    todo.Priorities[f.priority],
		Project:     todo.Projects[f.project],
	}
}

// setFocus moves focus to field i, wrapping around.
func (f *taskForm) setFocus(i int) tea.Cmd {
	f.focus = (i + formFieldCount) % formFieldCount
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

// cycle steps the focused choice field by delta.
func (f *taskForm) cycle(delta int) {
	switch f.focus {
	case fieldPriority:
		f.priority = (f.priority + delta + len(todo.Priorities)) % len(todo.Priorities)
	case fieldProject:
		f.project = (f.project + delta + len(todo.Projects)) % len(todo.Projects)
	}
}

type confirmDialog struct {
	id    string
	title string
}

type titlePrompt struct {
	id    string
	input textinput.Model
}

// openForm shows a fresh creation form, discarding any open modal.
func (m *Model) openForm() tea.Cmd {
	m.closeModal()
	m.form = newTaskForm()
	m.modal = modalForm
	return m.form.setFocus(fieldTitle)
}

func (m *Model) openConfirm(c *card) {
	m.closeModal()
	m.confirm = &confirmDialog{id: c.task.ID, title: c.task.Title}
	m.modal = modalConfirm
}

func (m *Model) openPrompt(c *card) tea.Cmd {
	m.closeModal()
	in := textinput.New()
	in.Prompt = "> "
	in.CharLimit = 256
	in.Width = 40
	in.SetValue(c.task.Title)
	in.CursorEnd()
	m.prompt = &titlePrompt{id: c.task.ID, input: in}
	m.modal = modalPrompt
	return m.prompt.input.Focus()
}

func (m *Model) closeModal() {
	m.modal = modalNone
	m.form = nil
	m.confirm = nil
	m.prompt = nil
}

func (m *Model) updateModal(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	switch m.modal {
	case modalForm:
		return m.updateForm(msg)
	case modalConfirm:
		return m.updateConfirm(msg)
	case modalPrompt:
		return m.updatePrompt(msg)
	}
	return nil
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	f := m.form
	switch msg.String() {
	case "esc":
		m.closeModal()
		return nil
	case "ctrl+s":
		return m.submitForm()
	case "enter":
		if f.focus == formFieldCount-1 {
			return m.submitForm()
		}
		return f.setFocus(f.focus + 1)
	case "tab", "down":
		return f.setFocus(f.focus + 1)
	case "shift+tab", "up":
		return f.setFocus(f.focus - 1)
	}

	if f.focus >= fieldPriority {
		switch msg.String() {
		case "right", "l", " ", "space":
			f.cycle(1)
		case "left", "h":
			f.cycle(-1)
		}
		return nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// submitForm validates and creates the task. The form stays open on failure.
func (m *Model) submitForm() tea.Cmd {
	fields := m.form.fields()
	if err := fields.Validate(m.now()); err != nil {
		return m.notify(NotifyError, formErrorMessage(err))
	}
	cmd, ok := m.createTask(fields)
	if ok {
		m.closeModal()
	}
	return cmd
}

func formErrorMessage(err error) string {
	var ve *todo.ValidationError
	if errors.As(err, &ve) {
		switch ve.Path {
		case "title":
			return "Please enter a task title"
		case "dueDate":
			return "Invalid due date: " + ve.Err.Error()
		}
	}
	return err.Error()
}

func (m *Model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		id := m.confirm.id
		m.closeModal()
		return m.deleteTask(id)
	case "n", "N", "esc":
		m.closeModal()
	}
	return nil
}

func (m *Model) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.closeModal()
		return nil
	case "enter":
		id, title := m.prompt.id, m.prompt.input.Value()
		m.closeModal()
		if strings.TrimSpace(title) == "" {
			return nil
		}
		return m.updateTitle(id, title)
	}
	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	return cmd
}

func indexOf[T comparable](items []T, v T) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return 0
}
