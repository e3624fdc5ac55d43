package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"github.com/sandeepkv93/todo/internal/config"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/notify"
	"github.com/sandeepkv93/todo/internal/scheduler"
	"github.com/sandeepkv93/todo/internal/store"
)

type Mode string

const (
	ModeList    Mode = "list"
	ModeCapture Mode = "capture"
	ModeEditing Mode = "editing"
	ModePalette Mode = "palette"
)

type StatusBar struct {
	Text    string
	IsError bool
}

// TaskSource is the persistence boundary the shell needs: the initial load
// and demo seeding.
type TaskSource interface {
	store.Saver
	Load(ctx context.Context) []model.Task
	Seed(ctx context.Context, count int, now time.Time) ([]model.Task, error)
}

type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Add     key.Binding
	Palette key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/↑", "move up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/↓", "move down")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space/x", "toggle done")),
		Edit:    key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit task")),
		Delete:  key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete task")),
		Add:     key.NewBinding(key.WithKeys("a", "i"), key.WithHelp("a", "new task")),
		Palette: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command palette")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Edit, k.Delete, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Add, k.Edit, k.Delete},
		{k.Palette, k.Help, k.Quit},
	}
}

type LoadedMsg struct {
	Tasks []model.Task
}

type NoticeExpiredMsg struct {
	Event scheduler.ExpiryEvent
}

// ClearStatusMsg clears the status bar if it still shows Text.
type ClearStatusMsg struct {
	Text string
}

type Model struct {
	Mode        Mode
	Cursor      int
	Status      StatusBar
	HelpVisible bool
	Quitting    bool
	Loading     bool
	Keys        KeyMap

	ctx    context.Context
	source TaskSource
	store  *store.Store
	sink   *notify.Sink
	timer  *scheduler.Engine
	rows   *rowSet
	logger *zap.Logger

	newTaskInput textinput.Model
	editInput    textinput.Model
	commandInput textinput.Model
	loadSpinner  spinner.Model
	helpModel    help.Model
}

// New wires the store, notice sink and expiry timer around source. Call
// Shutdown when the program exits.
func New(source TaskSource, cfg config.RuntimeConfig, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	timer := scheduler.NewEngine(cfg.TimerBuffer)
	timer.Start()

	var sink *notify.Sink
	sinkOpts := []notify.Option{
		notify.WithTTL(cfg.NoticeTTL),
		notify.WithLogger(logger),
		notify.OnPush(func(n notify.Notice) {
			if err := timer.Schedule(scheduler.ExpiryEvent{Key: string(n.ID), At: n.At.Add(sink.TTL())}); err != nil {
				logger.Debug("notice expiry not scheduled", zap.String("notice", string(n.ID)), zap.Error(err))
			}
		}),
	}
	if cfg.DesktopNotifications {
		sinkOpts = append(sinkOpts, notify.WithDesktop(notify.ExecDesktopNotifier{}))
	}
	sink = notify.NewSink(sinkOpts...)

	st := store.New(source, store.WithNotifier(sink), store.WithLogger(logger))
	rows := newRowSet()
	st.Subscribe(rows.apply)

	m := Model{
		Mode:    ModeList,
		Loading: true,
		Keys:    DefaultKeyMap(),
		ctx:     context.Background(),
		source:  source,
		store:   st,
		sink:    sink,
		timer:   timer,
		rows:    rows,
		logger:  logger,
	}
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.newTaskInput = textinput.New()
	m.newTaskInput.Prompt = "add> "
	m.newTaskInput.Placeholder = "Create New Task"
	m.newTaskInput.CharLimit = 256
	m.newTaskInput.Width = 48

	m.editInput = textinput.New()
	m.editInput.Prompt = "edit> "
	m.editInput.CharLimit = 256
	m.editInput.Width = 48

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 40

	m.loadSpinner = spinner.New()
	m.loadSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}

func (m Model) Store() *store.Store {
	return m.store
}

func (m Model) Notices() []notify.Notice {
	return m.sink.Active()
}

func (m Model) Shutdown() {
	m.timer.Stop()
}
