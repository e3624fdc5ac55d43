package store

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/notify"
)

const (
	msgShortInput    = "Task must have a minimum of one character."
	msgDeleteSuccess = "Todo deleted successfully."
	msgSaveFailed    = "Could not save your tasks."
)

type ChangeKind string

const (
	ChangeLoaded  ChangeKind = "loaded"
	ChangeCreated ChangeKind = "created"
	ChangeToggled ChangeKind = "toggled"
	ChangeEdited  ChangeKind = "edited"
	ChangeDeleted ChangeKind = "deleted"
)

// Change is published to subscribers after the collection is replaced.
type Change struct {
	Kind   ChangeKind
	TaskID string
	Tasks  []model.Task
}

// Saver persists the full collection. The persistence adapter satisfies it.
type Saver interface {
	Save(ctx context.Context, tasks []model.Task) error
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

type noopNotifier struct{}

func (noopNotifier) Notify(notify.Kind, notify.Level, string) {}

// Store owns the ordered task collection. It is not safe for concurrent use:
// the owning event loop serializes every call.
type Store struct {
	tasks       []model.Task
	loaded      bool
	saver       Saver
	notifier    notify.Notifier
	logger      *zap.Logger
	now         func() time.Time
	subscribers map[int]func(Change)
	nextSubID   int
}

func New(saver Saver, opts ...Option) *Store {
	s := &Store{
		tasks:       []model.Task{},
		saver:       saver,
		notifier:    noopNotifier{},
		logger:      zap.NewNop(),
		now:         time.Now,
		subscribers: make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn for every change and returns a function removing it.
func (s *Store) Subscribe(fn func(Change)) func() {
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() { delete(s.subscribers, id) }
}

func (s *Store) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) Loaded() bool {
	return s.loaded
}

func (s *Store) Get(id string) (model.Task, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

// Hydrate installs the initially loaded collection. Saves are enabled only
// after it returns, so the empty startup collection never overwrites storage.
func (s *Store) Hydrate(tasks []model.Task) {
	next := make([]model.Task, len(tasks))
	copy(next, tasks)
	s.tasks = next
	s.loaded = true
	s.logger.Info("task store hydrated", zap.Int("count", len(next)))
	s.publish(Change{Kind: ChangeLoaded, Tasks: s.Tasks()})
}

func (s *Store) CreateTask(raw string) (model.Task, bool) {
	task, err := model.NewTask(raw, s.now())
	if err != nil {
		s.notifier.Notify(notify.KindShortInput, notify.LevelInfo, msgShortInput)
		return model.Task{}, false
	}
	next := make([]model.Task, 0, len(s.tasks)+1)
	next = append(next, s.tasks...)
	next = append(next, task)
	s.commit(ChangeCreated, task.ID, next)
	return task, true
}

func (s *Store) ToggleTask(id string) bool {
	return s.replace(ChangeToggled, id, func(t model.Task) model.Task {
		t.Completed = !t.Completed
		return t
	})
}

// EditTask replaces the text of id. Blank text is silently discarded.
func (s *Store) EditTask(id, text string) bool {
	if !model.ValidText(text) {
		return false
	}
	trimmed := strings.TrimSpace(text)
	now := s.now().UnixMilli()
	return s.replace(ChangeEdited, id, func(t model.Task) model.Task {
		t.Text = trimmed
		t.UpdatedOn = max(now, t.UpdatedOn, t.CreatedOn)
		return t
	})
}

// DeleteTask removes id. The success notice is emitted whether or not a
// record matched.
func (s *Store) DeleteTask(id string) bool {
	defer s.notifier.Notify(notify.KindDeleteSuccess, notify.LevelInfo, msgDeleteSuccess)
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	next := make([]model.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:idx]...)
	next = append(next, s.tasks[idx+1:]...)
	s.commit(ChangeDeleted, id, next)
	return true
}

func (s *Store) replace(kind ChangeKind, id string, fn func(model.Task) model.Task) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	next := make([]model.Task, len(s.tasks))
	copy(next, s.tasks)
	next[idx] = fn(next[idx])
	s.commit(kind, id, next)
	return true
}

func (s *Store) commit(kind ChangeKind, id string, next []model.Task) {
	s.tasks = next
	s.logger.Debug("task collection changed", zap.String("change", string(kind)), zap.String("task_id", id), zap.Int("count", len(next)))
	if s.loaded && s.saver != nil {
		if err := s.saver.Save(context.Background(), s.Tasks()); err != nil {
			s.logger.Error("save task collection failed", zap.String("change", string(kind)), zap.Error(err))
			s.notifier.Notify(notify.KindSaveFailed, notify.LevelError, msgSaveFailed)
		}
	}
	s.publish(Change{Kind: kind, TaskID: id, Tasks: s.Tasks()})
}

func (s *Store) publish(c Change) {
	for _, fn := range s.subscribers {
		fn(c)
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
