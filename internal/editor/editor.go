package editor

import "strings"

type State string

const (
	StateViewing State = "viewing"
	StateEditing State = "editing"
)

// CommitFunc receives the item id and the trimmed, non-empty buffer.
type CommitFunc func(id, text string)

// Item tracks the viewing/editing state of one task row. Every exit from
// editing goes through Commit, which either commits or reverts.
type Item struct {
	id        string
	text      string
	buffer    string
	state     State
	wantFocus bool
}

func New(id, text string) *Item {
	return &Item{id: id, text: text, buffer: text, state: StateViewing}
}

func (it *Item) ID() string     { return it.id }
func (it *Item) State() State   { return it.state }
func (it *Item) Buffer() string { return it.buffer }
func (it *Item) Text() string   { return it.text }

func (it *Item) Editing() bool {
	return it.state == StateEditing
}

// Begin enters editing with the current text in the buffer. It is a no-op
// while already editing.
func (it *Item) Begin() bool {
	if it.state == StateEditing {
		return false
	}
	it.buffer = it.text
	it.state = StateEditing
	it.wantFocus = true
	return true
}

// FocusRequested reports, once, that the host should focus the edit field.
func (it *Item) FocusRequested() bool {
	if !it.wantFocus {
		return false
	}
	it.wantFocus = false
	return true
}

func (it *Item) SetBuffer(s string) bool {
	if it.state != StateEditing {
		return false
	}
	it.buffer = s
	return true
}

// Commit leaves editing. A valid buffer is handed to fn and kept; an invalid
// one is replaced by the last known text without calling fn. It returns true
// when fn was called.
func (it *Item) Commit(fn CommitFunc) bool {
	if it.state != StateEditing {
		return false
	}
	it.state = StateViewing
	it.wantFocus = false
	trimmed := strings.TrimSpace(it.buffer)
	if trimmed == "" {
		it.buffer = it.text
		return false
	}
	it.buffer = trimmed
	if fn != nil {
		fn(it.id, trimmed)
	}
	return true
}

// Sync records an external change of the task text. While viewing the buffer
// follows it; an edit in progress keeps its buffer.
func (it *Item) Sync(text string) {
	it.text = text
	if it.state == StateViewing {
		it.buffer = text
	}
}
