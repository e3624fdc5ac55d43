package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/storage"
)

// StorageKey is the single entry holding the serialized task collection.
const StorageKey = "TodoAppStore1412230914"

const emptyCollection = "[]"

var errShape = errors.New("persistence: stored value is not a task collection")

// Adapter mirrors the whole task collection into a key-value store. It is the
// only component that touches the store.
type Adapter struct {
	kv     storage.KV
	logger *zap.Logger
}

func NewAdapter(kv storage.KV, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{kv: kv, logger: logger}
}

// Load returns the persisted collection. It never fails: a missing entry is
// initialized to an empty collection and anything unreadable is treated as no
// data.
func (a *Adapter) Load(ctx context.Context) []model.Task {
	raw, ok, err := a.kv.Get(ctx, StorageKey)
	if err != nil {
		a.logger.Warn("read task collection failed", zap.String("key", StorageKey), zap.Error(err))
		return []model.Task{}
	}
	if !ok {
		if err := a.kv.Set(ctx, StorageKey, emptyCollection); err != nil {
			a.logger.Warn("initialize task collection failed", zap.String("key", StorageKey), zap.Error(err))
		}
		return []model.Task{}
	}
	tasks, err := decode(raw)
	if err != nil {
		a.logger.Warn("discarding unreadable task collection", zap.String("key", StorageKey), zap.Error(err))
		return []model.Task{}
	}
	invalid := 0
	for _, t := range tasks {
		if t.Validate() != nil {
			invalid++
		}
	}
	a.logger.Debug("task collection loaded", zap.Int("count", len(tasks)), zap.Int("invalid", invalid))
	return tasks
}

// Save overwrites the stored collection with tasks.
func (a *Adapter) Save(ctx context.Context, tasks []model.Task) error {
	raw, err := encode(tasks)
	if err != nil {
		return err
	}
	if err := a.kv.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("persistence: save tasks: %w", err)
	}
	a.logger.Debug("task collection saved", zap.Int("count", len(tasks)))
	return nil
}

// Seed replaces the stored collection with count generated demo tasks.
func (a *Adapter) Seed(ctx context.Context, count int, now time.Time) ([]model.Task, error) {
	tasks := model.GenerateFake(count, now)
	if err := a.Save(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func encode(tasks []model.Task) (string, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("persistence: encode tasks: %w", err)
	}
	return string(raw), nil
}

// decode accepts only a JSON array of objects whose known fields carry the
// expected types. Individual records are otherwise taken verbatim.
func decode(raw string) ([]model.Task, error) {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errShape
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, err
	}
	out := make([]model.Task, 0, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			return nil, fmt.Errorf("%w: element %d is not an object", errShape, i)
		}
		var task model.Task
		if err := json.Unmarshal(item, &task); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", errShape, i, err)
		}
		out = append(out, task)
	}
	return out, nil
}
