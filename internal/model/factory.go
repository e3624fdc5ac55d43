package model

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

const (
	DefaultFakeTasks = 5
	MaxFakeTasks     = 100

	minFakeWords = 3
	maxFakeWords = 45
)

// GenerateFake returns count demo tasks with filler text and a random
// completion flag. Counts outside 1..MaxFakeTasks yield an empty slice.
func GenerateFake(count int, now time.Time) []Task {
	out := make([]Task, 0)
	if count <= 0 || count > MaxFakeTasks {
		return out
	}
	ts := now.UnixMilli()
	for i := 0; i < count; i++ {
		out = append(out, Task{
			ID:        uuid.New().String(),
			Text:      gofakeit.Sentence(gofakeit.IntRange(minFakeWords, maxFakeWords)),
			Completed: gofakeit.Bool(),
			CreatedOn: ts,
			UpdatedOn: ts,
		})
	}
	return out
}
