package update

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/todo/internal/config"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/notify"
	"github.com/sandeepkv93/todo/internal/persistence"
	"github.com/sandeepkv93/todo/internal/scheduler"
	"github.com/sandeepkv93/todo/internal/storage"
)

func newTestModel(t *testing.T, texts ...string) (Model, *persistence.Adapter) {
	t.Helper()
	adapter := persistence.NewAdapter(storage.NewMemoryKV(), nil)
	if len(texts) > 0 {
		now := time.Now()
		tasks := make([]model.Task, 0, len(texts))
		for _, text := range texts {
			task, err := model.NewTask(text, now)
			if err != nil {
				t.Fatalf("new task: %v", err)
			}
			tasks = append(tasks, task)
		}
		if err := adapter.Save(context.Background(), tasks); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	m := New(adapter, config.Default(), nil)
	t.Cleanup(m.Shutdown)
	return m, adapter
}

func newLoadedModel(t *testing.T, texts ...string) (Model, *persistence.Adapter) {
	t.Helper()
	m, adapter := newTestModel(t, texts...)
	return step(m, m.loadCmd()()), adapter
}

func step(m Model, msg tea.Msg) Model {
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m = step(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func hasNotice(m Model, kind notify.Kind) bool {
	for _, n := range m.Notices() {
		if n.ID == kind {
			return true
		}
	}
	return false
}

func TestNewModelDefaults(t *testing.T) {
	m, _ := newTestModel(t)
	if m.Mode != ModeList {
		t.Fatalf("expected list mode, got %q", m.Mode)
	}
	if !m.Loading || m.Store().Loaded() {
		t.Fatalf("expected model to wait for the initial load")
	}
	if m.Init() == nil {
		t.Fatalf("expected init command")
	}
	if !strings.Contains(m.View(), "loading tasks") {
		t.Fatalf("expected loading indicator in view")
	}
}

func TestLoadedMsgHydratesStore(t *testing.T) {
	m, _ := newLoadedModel(t, "Buy milk", "Walk dog")
	if m.Loading || !m.Store().Loaded() {
		t.Fatalf("expected loaded model")
	}
	tasks := m.Store().Tasks()
	if len(tasks) != 2 || tasks[0].Text != "Buy milk" || tasks[1].Text != "Walk dog" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
	view := m.View()
	if !strings.Contains(view, "My Todo List") || !strings.Contains(view, "2 of 2 remaining") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestCaptureAddsTaskAndPersists(t *testing.T) {
	m, adapter := newLoadedModel(t)
	m = step(m, runes("a"))
	if m.Mode != ModeCapture {
		t.Fatalf("expected capture mode, got %q", m.Mode)
	}
	m = typeText(m, "  Buy milk ")
	m = step(m, tea.KeyMsg{Type: tea.KeyEnter})

	tasks := m.Store().Tasks()
	if len(tasks) != 1 || tasks[0].Text != "Buy milk" || tasks[0].Completed {
		t.Fatalf("unexpected tasks after capture: %+v", tasks)
	}
	if m.newTaskInput.Value() != "" {
		t.Fatalf("expected input cleared, got %q", m.newTaskInput.Value())
	}
	stored := adapter.Load(context.Background())
	if len(stored) != 1 || stored[0].ID != tasks[0].ID {
		t.Fatalf("expected task persisted, got %+v", stored)
	}

	m = step(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Mode != ModeList {
		t.Fatalf("expected list mode after esc, got %q", m.Mode)
	}
}

func TestCaptureBlankTextShowsNotice(t *testing.T) {
	m, _ := newLoadedModel(t)
	m = step(m, runes("a"))
	m = typeText(m, "   ")
	m = step(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.Store().Len() != 0 {
		t.Fatalf("expected no task for blank input")
	}
	if !hasNotice(m, notify.KindShortInput) {
		t.Fatalf("expected short input notice, got %+v", m.Notices())
	}
	if m.newTaskInput.Value() != "" {
		t.Fatalf("expected input cleared after rejection")
	}
}

func TestToggleAndDeleteSelectedTask(t *testing.T) {
	m, adapter := newLoadedModel(t, "Buy milk", "Walk dog")
	m = step(m, runes("j"))
	if m.Cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", m.Cursor)
	}
	m = step(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if tasks := m.Store().Tasks(); !tasks[1].Completed || tasks[0].Completed {
		t.Fatalf("expected second task completed: %+v", tasks)
	}
	if !strings.Contains(m.View(), "1 of 2 remaining") {
		t.Fatalf("expected remaining count to follow toggle")
	}

	m = step(m, runes("d"))
	tasks := m.Store().Tasks()
	if len(tasks) != 1 || tasks[0].Text != "Buy milk" {
		t.Fatalf("unexpected tasks after delete: %+v", tasks)
	}
	if m.Cursor != 0 {
		t.Fatalf("expected cursor clamped to 0, got %d", m.Cursor)
	}
	if !hasNotice(m, notify.KindDeleteSuccess) {
		t.Fatalf("expected delete notice")
	}
	if stored := adapter.Load(context.Background()); len(stored) != 1 {
		t.Fatalf("expected delete persisted, got %+v", stored)
	}
}

func TestEditCommitsOnEnter(t *testing.T) {
	m, _ := newLoadedModel(t, "Buy milk")
	m = step(m, runes("e"))
	if m.Mode != ModeEditing {
		t.Fatalf("expected editing mode, got %q", m.Mode)
	}
	if m.editInput.Value() != "Buy milk" || !m.editInput.Focused() {
		t.Fatalf("expected focused edit field with current text, got %q", m.editInput.Value())
	}
	for range "milk" {
		m = step(m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m = typeText(m, "oat milk")
	m = step(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.Mode != ModeList {
		t.Fatalf("expected list mode after commit, got %q", m.Mode)
	}
	task := m.Store().Tasks()[0]
	if task.Text != "Buy oat milk" {
		t.Fatalf("expected edited text, got %q", task.Text)
	}
	if task.UpdatedOn < task.CreatedOn {
		t.Fatalf("expected updatedOn >= createdOn: %+v", task)
	}
}

func TestEditEmptyTextReverts(t *testing.T) {
	m, _ := newLoadedModel(t, "Buy milk")
	before := m.Store().Tasks()[0]
	m = step(m, runes("e"))
	for range before.Text {
		m = step(m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m = step(m, tea.KeyMsg{Type: tea.KeyEsc})

	after := m.Store().Tasks()[0]
	if after != before {
		t.Fatalf("expected task unchanged, got %+v", after)
	}
	if it := m.rows.get(before.ID); it == nil || it.Editing() || it.Buffer() != "Buy milk" {
		t.Fatalf("expected viewing state with reverted buffer")
	}
}

func TestMovingOffRowCommitsEdit(t *testing.T) {
	m, _ := newLoadedModel(t, "Buy milk", "Walk dog")
	m = step(m, runes("e"))
	m = typeText(m, "!")
	m = step(m, tea.KeyMsg{Type: tea.KeyDown})

	if m.Mode != ModeList || m.Cursor != 1 {
		t.Fatalf("expected list mode on second row, got %q cursor %d", m.Mode, m.Cursor)
	}
	if got := m.Store().Tasks()[0].Text; got != "Buy milk!" {
		t.Fatalf("expected committed edit, got %q", got)
	}
}

func TestPaletteCommands(t *testing.T) {
	m, _ := newLoadedModel(t)

	run := func(m Model, input string) Model {
		m = step(m, runes("/"))
		if m.Mode != ModePalette {
			t.Fatalf("expected palette mode, got %q", m.Mode)
		}
		m = typeText(m, input)
		return step(m, tea.KeyMsg{Type: tea.KeyEnter})
	}

	m = run(m, "add Walk dog")
	if m.Mode != ModeList || m.Store().Len() != 1 {
		t.Fatalf("expected task added from palette")
	}
	if m.Status.IsError || !hasNotice(m, notify.KindCommand) {
		t.Fatalf("expected command notice, status %+v", m.Status)
	}

	m = run(m, "toggle 1")
	if !m.Store().Tasks()[0].Completed {
		t.Fatalf("expected toggle from palette")
	}

	m = run(m, "edit 1 Walk the dog")
	if got := m.Store().Tasks()[0].Text; got != "Walk the dog" {
		t.Fatalf("expected edit from palette, got %q", got)
	}

	m = run(m, "delete 4")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "position 4") {
		t.Fatalf("expected out of range error, got %+v", m.Status)
	}

	m = run(m, "delete 1")
	if m.Store().Len() != 0 {
		t.Fatalf("expected delete from palette")
	}

	m = run(m, "bogus")
	if !m.Status.IsError {
		t.Fatalf("expected unknown command error")
	}
}

func TestPaletteSeedReplacesTasks(t *testing.T) {
	m, adapter := newLoadedModel(t, "Buy milk")
	m = step(m, runes("/"))
	m = typeText(m, "seed 3")
	m = step(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.Store().Len() != 3 {
		t.Fatalf("expected 3 seeded tasks, got %d", m.Store().Len())
	}
	if stored := adapter.Load(context.Background()); len(stored) != 3 {
		t.Fatalf("expected seeded tasks stored, got %d", len(stored))
	}
	if !hasNotice(m, notify.KindSeeded) {
		t.Fatalf("expected seeded notice")
	}

	m = step(m, runes("/"))
	m = typeText(m, "seed 500")
	m = step(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Status.IsError || m.Store().Len() != 3 {
		t.Fatalf("expected oversized seed rejected, status %+v", m.Status)
	}
}

func TestPaletteEscCloses(t *testing.T) {
	m, _ := newLoadedModel(t)
	m = step(m, runes("/"))
	m = typeText(m, "add x")
	m = step(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Mode != ModeList || m.Store().Len() != 0 || m.commandInput.Value() != "" {
		t.Fatalf("expected palette closed without running")
	}
}

func TestNoticeExpiredMsgDropsNotices(t *testing.T) {
	m, _ := newLoadedModel(t, "Buy milk")
	m = step(m, runes("d"))
	if !hasNotice(m, notify.KindDeleteSuccess) {
		t.Fatalf("expected delete notice")
	}

	updated, cmd := m.Update(NoticeExpiredMsg{Event: scheduler.ExpiryEvent{
		Key: string(notify.KindDeleteSuccess),
		At:  time.Now().Add(time.Hour),
	}})
	m = updated.(Model)
	if len(m.Notices()) != 0 {
		t.Fatalf("expected notices expired, got %+v", m.Notices())
	}
	if cmd == nil {
		t.Fatalf("expected expiry wait to be re-armed")
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newLoadedModel(t)
	m = step(m, runes("?"))
	if !m.HelpVisible || !strings.Contains(m.View(), "help:") {
		t.Fatalf("expected help panel")
	}
	m = step(m, runes("?"))
	if m.HelpVisible {
		t.Fatalf("expected help hidden")
	}
}

func TestPaletteResultStatusIsCleared(t *testing.T) {
	m, _ := newLoadedModel(t)
	m = step(m, runes("/"))
	m = typeText(m, "add Walk dog")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if m.Status.Text != "added task: Walk dog" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	if cmd == nil {
		t.Fatalf("expected status clear to be scheduled")
	}

	m = step(m, ClearStatusMsg{Text: "something older"})
	if m.Status.Text == "" {
		t.Fatalf("expected newer status to survive a stale clear")
	}
	m = step(m, ClearStatusMsg{Text: "added task: Walk dog"})
	if m.Status.Text != "" {
		t.Fatalf("expected cleared status, got %+v", m.Status)
	}
}

func TestPaletteSeedRefusedUntilLoaded(t *testing.T) {
	m, adapter := newTestModel(t, "Existing")
	pending := m.loadCmd()()

	m = step(m, runes("/"))
	m = typeText(m, "seed 2")
	m = step(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "still loading") {
		t.Fatalf("expected seed refused while loading, got %+v", m.Status)
	}
	if m.Store().Loaded() {
		t.Fatalf("expected store to stay unloaded")
	}
	if stored := adapter.Load(context.Background()); len(stored) != 1 || stored[0].Text != "Existing" {
		t.Fatalf("expected storage untouched before load, got %+v", stored)
	}

	m = step(m, runes("a"))
	m = typeText(m, "typed early")
	m = step(m, tea.KeyMsg{Type: tea.KeyEnter})
	if stored := adapter.Load(context.Background()); len(stored) != 1 {
		t.Fatalf("expected no save before load, got %+v", stored)
	}

	m = step(m, pending)
	tasks := m.Store().Tasks()
	stored := adapter.Load(context.Background())
	if len(tasks) != 1 || tasks[0].Text != "Existing" || len(stored) != len(tasks) {
		t.Fatalf("memory %+v and storage %+v diverged", tasks, stored)
	}

	m = step(m, tea.KeyMsg{Type: tea.KeyEsc})
	m = step(m, runes("/"))
	m = typeText(m, "seed 2")
	m = step(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Store().Len() != 2 || len(adapter.Load(context.Background())) != 2 {
		t.Fatalf("expected seed to work once loaded, status %+v", m.Status)
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m, _ := newLoadedModel(t, "Buy milk")
	m = step(m, runes("e"))
	m = typeText(m, "!")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	next := updated.(Model)
	if !next.Quitting || cmd == nil {
		t.Fatalf("expected quit command")
	}
	if got := next.Store().Tasks()[0].Text; got != "Buy milk!" {
		t.Fatalf("expected pending edit committed on quit, got %q", got)
	}

	m, _ = newLoadedModel(t)
	updated, cmd = m.Update(runes("q"))
	if !updated.(Model).Quitting || cmd == nil {
		t.Fatalf("expected q to quit from list mode")
	}
}
