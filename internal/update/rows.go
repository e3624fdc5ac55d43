package update

import (
	"github.com/sandeepkv93/todo/internal/editor"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/store"
)

// rowSet keeps one edit state machine per task, following store changes.
type rowSet struct {
	items map[string]*editor.Item
}

func newRowSet() *rowSet {
	return &rowSet{items: make(map[string]*editor.Item)}
}

func (r *rowSet) apply(c store.Change) {
	r.sync(c.Tasks)
}

func (r *rowSet) sync(tasks []model.Task) {
	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		seen[t.ID] = true
		if it, ok := r.items[t.ID]; ok {
			it.Sync(t.Text)
			continue
		}
		r.items[t.ID] = editor.New(t.ID, t.Text)
	}
	for id := range r.items {
		if !seen[id] {
			delete(r.items, id)
		}
	}
}

func (r *rowSet) get(id string) *editor.Item {
	return r.items[id]
}

func (r *rowSet) editing() *editor.Item {
	for _, it := range r.items {
		if it.Editing() {
			return it
		}
	}
	return nil
}
