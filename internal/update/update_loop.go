package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/notify"
	"github.com/sandeepkv93/todo/internal/scheduler"
	"github.com/sandeepkv93/todo/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.loadSpinner.Tick, waitForExpiryCmd(m.timer.C()))
}

func (m Model) loadCmd() tea.Cmd {
	source, ctx := m.source, m.ctx
	return func() tea.Msg {
		return LoadedMsg{Tasks: source.Load(ctx)}
	}
}

func waitForExpiryCmd(ch <-chan scheduler.ExpiryEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return NoticeExpiredMsg{Event: ev}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case LoadedMsg:
		m.store.Hydrate(typed.Tasks)
		m.Loading = false
		m.clampCursor()
		m.logger.Info("tasks loaded", zap.Int("count", len(typed.Tasks)))
		return m, nil
	case spinner.TickMsg:
		if m.Loading {
			var cmd tea.Cmd
			m.loadSpinner, cmd = m.loadSpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case NoticeExpiredMsg:
		m.sink.Expire(typed.Event.At)
		return m, waitForExpiryCmd(m.timer.C())
	case ClearStatusMsg:
		if m.Status.Text == typed.Text {
			m.Status = StatusBar{}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	switch m.Mode {
	case ModePalette:
		return m.handlePaletteKey(msg)
	case ModeCapture:
		return m.handleCaptureKey(msg)
	case ModeEditing:
		return m.handleEditKey(msg)
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m.quit()
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case key.Matches(msg, m.Keys.Palette):
		m.Mode = ModePalette
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case key.Matches(msg, m.Keys.Add):
		m.Mode = ModeCapture
		cmd := m.newTaskInput.Focus()
		return m, cmd
	}
	return m.handleListKey(msg)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if it := m.rows.editing(); it != nil {
		m.commitEdit(it)
	}
	m.Quitting = true
	return m, tea.Quit
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	tasks := m.store.Tasks()
	data := views.TaskListData{
		Loading:      m.Loading,
		SpinnerView:  m.loadSpinner.View(),
		Rows:         make([]views.TaskRowData, 0, len(tasks)),
		Remaining:    remaining(tasks),
		NewTaskView:  m.newTaskInput.View(),
		CaptureFocus: m.Mode == ModeCapture,
	}
	for i, t := range tasks {
		row := views.TaskRowData{
			Position:  i + 1,
			Text:      t.Text,
			Completed: t.Completed,
			Selected:  m.Mode == ModeList && i == m.Cursor,
		}
		if it := m.rows.get(t.ID); it != nil && it.Editing() {
			row.Editing = true
			row.EditView = m.editInput.View()
		}
		data.Rows = append(data.Rows, row)
	}

	side := views.RenderCommandPalette(m.Mode == ModePalette, m.commandInput.View())
	if m.HelpVisible {
		if side != "" {
			side += "\n\n"
		}
		side += m.renderHelpView()
	}

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("todo | mode: %s | tasks: %d", m.Mode, len(tasks)),
		Body:       views.RenderTaskList(data),
		SidePane:   side,
		Notices:    views.RenderNotices(noticeData(m.sink.Active())),
		StatusLine: status,
		Footer:     m.helpModel.ShortHelpView(m.Keys.ShortHelp()),
	})
}

func noticeData(active []notify.Notice) []views.NoticeData {
	out := make([]views.NoticeData, 0, len(active))
	for _, n := range active {
		out = append(out, views.NoticeData{Level: string(n.Level), Message: n.Message})
	}
	return out
}

func remaining(tasks []model.Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

func (m *Model) clampCursor() {
	n := m.store.Len()
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m Model) clearStatusAfter(d time.Duration) tea.Cmd {
	text := m.Status.Text
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{Text: text}
	})
}

func (m Model) now() time.Time {
	return time.Now()
}
