package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("model: task text must have a minimum of one character")
	ErrEmptyID           = errors.New("model: task id is required")
	ErrInvalidTimestamps = errors.New("model: task timestamps are invalid")
)

// Task is the persisted unit of the to-do list. Field names on the wire are
// fixed; timestamps are milliseconds since the Unix epoch.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedOn int64  `json:"createdOn"`
	UpdatedOn int64  `json:"updatedOn"`
}

// NewTask builds a fresh, not yet completed task for the trimmed text.
func NewTask(text string, now time.Time) (Task, error) {
	if !ValidText(text) {
		return Task{}, ErrInvalidInput
	}
	trimmed := strings.TrimSpace(text)
	ts := now.UnixMilli()
	return Task{
		ID:        uuid.New().String(),
		Text:      trimmed,
		Completed: false,
		CreatedOn: ts,
		UpdatedOn: ts,
	}, nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if !ValidText(t.Text) {
		return ErrInvalidInput
	}
	if t.CreatedOn <= 0 {
		return fmt.Errorf("%w: createdOn %d", ErrInvalidTimestamps, t.CreatedOn)
	}
	if t.UpdatedOn < t.CreatedOn {
		return fmt.Errorf("%w: updatedOn %d before createdOn %d", ErrInvalidTimestamps, t.UpdatedOn, t.CreatedOn)
	}
	return nil
}

// ValidText reports whether s is acceptable as task text once trimmed.
func ValidText(s string) bool {
	return strings.TrimSpace(s) != ""
}
