package update

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/todo/internal/editor"
	"github.com/sandeepkv93/todo/internal/model"
)

func (m Model) selectedTask() (model.Task, bool) {
	tasks := m.store.Tasks()
	if m.Cursor < 0 || m.Cursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.Cursor], true
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(msg, m.Keys.Down):
		if m.Cursor < m.store.Len()-1 {
			m.Cursor++
		}
	case key.Matches(msg, m.Keys.Toggle):
		if t, ok := m.selectedTask(); ok {
			m.store.ToggleTask(t.ID)
		}
	case key.Matches(msg, m.Keys.Delete):
		if t, ok := m.selectedTask(); ok {
			m.store.DeleteTask(t.ID)
			m.clampCursor()
		}
	case key.Matches(msg, m.Keys.Edit):
		return m.beginEdit()
	}
	return m, nil
}

func (m Model) handleCaptureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.newTaskInput.Blur()
		m.Mode = ModeList
		return m, nil
	case "enter":
		// The field clears whether or not the text was accepted.
		if _, ok := m.store.CreateTask(m.newTaskInput.Value()); ok {
			m.Cursor = m.store.Len() - 1
		}
		m.newTaskInput.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.newTaskInput, cmd = m.newTaskInput.Update(msg)
	return m, cmd
}

func (m Model) beginEdit() (tea.Model, tea.Cmd) {
	t, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	it := m.rows.get(t.ID)
	if it == nil || !it.Begin() {
		return m, nil
	}
	m.Mode = ModeEditing
	var cmd tea.Cmd
	if it.FocusRequested() {
		m.editInput.SetValue(it.Buffer())
		m.editInput.CursorEnd()
		cmd = m.editInput.Focus()
	}
	return m, cmd
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	it := m.rows.editing()
	if it == nil {
		m.Mode = ModeList
		m.editInput.Blur()
		return m, nil
	}
	switch msg.String() {
	case "enter", "esc", "tab":
		m.commitEdit(it)
		return m, nil
	case "up", "down":
		// Moving off the row leaves the field, which commits like blur.
		m.commitEdit(it)
		return m.handleListKey(msg)
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	it.SetBuffer(m.editInput.Value())
	return m, cmd
}

func (m *Model) commitEdit(it *editor.Item) {
	st := m.store
	it.Commit(func(id, text string) {
		st.EditTask(id, text)
	})
	m.editInput.Blur()
	m.editInput.SetValue("")
	m.Mode = ModeList
}
