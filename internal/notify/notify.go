package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Kind identifies a class of message. At most one notice per kind is active,
// so repeated triggers refresh instead of stacking.
type Kind string

const (
	KindShortInput    Kind = "SHORT TODO LENGTH"
	KindDeleteSuccess Kind = "TODO DELETE SUCCESS"
	KindSaveFailed    Kind = "TODO SAVE FAILED"
	KindSeeded        Kind = "TODO SEEDED"
	KindCommand       Kind = "COMMAND RESULT"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

type Position string

const (
	PositionTopLeft Position = "top-left"
)

type Notice struct {
	ID       Kind
	Message  string
	Level    Level
	Position Position
	At       time.Time
}

// Notifier is the fire-and-forget side of the sink used by the task store.
type Notifier interface {
	Notify(kind Kind, level Level, message string)
}

type DesktopNotifier interface {
	Send(Notice) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notice) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notice) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", "todo", n.Message).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "todo"`, escapeAppleScript(n.Message))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

type Option func(*Sink)

func WithTTL(ttl time.Duration) Option {
	return func(s *Sink) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Sink) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Sink) {
		if now != nil {
			s.now = now
		}
	}
}

func WithDesktop(d DesktopNotifier) Option {
	return func(s *Sink) {
		if d != nil {
			s.desktop = d
		}
	}
}

// OnPush registers a hook called after every accepted notice, e.g. to schedule
// its expiry.
func OnPush(fn func(Notice)) Option {
	return func(s *Sink) { s.onPush = fn }
}

type Sink struct {
	mu       sync.Mutex
	active   []Notice
	ttl      time.Duration
	position Position
	now      func() time.Time
	desktop  DesktopNotifier
	onPush   func(Notice)
	logger   *zap.Logger
}

func NewSink(opts ...Option) *Sink {
	s := &Sink{
		ttl:      5 * time.Second,
		position: PositionTopLeft,
		now:      time.Now,
		desktop:  NoopDesktopNotifier{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sink) TTL() time.Duration {
	return s.ttl
}

func (s *Sink) Notify(kind Kind, level Level, message string) {
	if strings.TrimSpace(message) == "" {
		return
	}
	n := Notice{
		ID:       kind,
		Message:  message,
		Level:    level,
		Position: s.position,
		At:       s.now().UTC(),
	}

	s.mu.Lock()
	replaced := false
	for i := range s.active {
		if s.active[i].ID == kind {
			s.active[i] = n
			replaced = true
			break
		}
	}
	if !replaced {
		s.active = append(s.active, n)
	}
	hook := s.onPush
	s.mu.Unlock()

	if err := s.desktop.Send(n); err != nil {
		s.logger.Debug("desktop notification failed", zap.String("notice", string(kind)), zap.Error(err))
	}
	if hook != nil {
		hook(n)
	}
}

func (s *Sink) Active() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notice, len(s.active))
	copy(out, s.active)
	return out
}

func (s *Sink) Dismiss(kind Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.active {
		if s.active[i].ID == kind {
			s.active = append(s.active[:i], s.active[i+1:]...)
			return true
		}
	}
	return false
}

// Expire drops notices shown for at least the TTL and returns how many were
// removed.
func (s *Sink) Expire(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.active[:0]
	removed := 0
	for _, n := range s.active {
		if !now.Before(n.At.Add(s.ttl)) {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	s.active = kept
	return removed
}
