package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/todo/internal/commands"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/notify"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, m.clearStatusAfter(m.sink.TTL())
	case "enter":
		m = m.executePaletteCommand(m.commandInput.Value())
		return m, m.clearStatusAfter(m.sink.TTL())
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func (m *Model) closePalette() {
	m.Mode = ModeList
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand(input string) Model {
	m.closePalette()

	cmd, err := commands.Parse(strings.TrimSpace(input))
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			t, ok := m.store.CreateTask(a.Text)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "task text is empty"}
			}
			m.Cursor = m.store.Len() - 1
			return commands.Result{Message: fmt.Sprintf("added task: %s", t.Text)}, nil
		},
		Toggle: func(a commands.ToggleArgs) (commands.Result, error) {
			t, err := m.taskAt(a.Position)
			if err != nil {
				return commands.Result{}, err
			}
			m.store.ToggleTask(t.ID)
			return commands.Result{Message: fmt.Sprintf("toggled task %d", a.Position)}, nil
		},
		Edit: func(a commands.EditArgs) (commands.Result, error) {
			t, err := m.taskAt(a.Position)
			if err != nil {
				return commands.Result{}, err
			}
			if !m.store.EditTask(t.ID, a.Text) {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "task text is empty"}
			}
			return commands.Result{Message: fmt.Sprintf("edited task %d", a.Position)}, nil
		},
		Delete: func(a commands.DeleteArgs) (commands.Result, error) {
			t, err := m.taskAt(a.Position)
			if err != nil {
				return commands.Result{}, err
			}
			m.store.DeleteTask(t.ID)
			m.clampCursor()
			return commands.Result{Message: fmt.Sprintf("deleted task %d", a.Position)}, nil
		},
		Seed: func(a commands.SeedArgs) (commands.Result, error) {
			if m.Loading {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "tasks are still loading"}
			}
			if a.Count < 1 || a.Count > model.MaxFakeTasks {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("seed count must be between 1 and %d", model.MaxFakeTasks)}
			}
			tasks, err := m.source.Seed(m.ctx, a.Count, m.now())
			if err != nil {
				return commands.Result{}, err
			}
			m.store.Hydrate(tasks)
			m.Cursor = 0
			return commands.Result{Message: fmt.Sprintf("seeded %d demo task(s)", len(tasks))}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.logger.Warn("command failed", zap.String("command", string(cmd.Type)), zap.Error(err))
		return m
	}
	m.Status = StatusBar{Text: res.Message}
	kind := notify.KindCommand
	if cmd.Type == commands.TypeSeed {
		kind = notify.KindSeeded
	}
	m.sink.Notify(kind, notify.LevelInfo, res.Message)
	return m
}

func (m Model) taskAt(position int) (model.Task, error) {
	tasks := m.store.Tasks()
	if position < 1 || position > len(tasks) {
		return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task at position %d", position)}
	}
	return tasks[position-1], nil
}
