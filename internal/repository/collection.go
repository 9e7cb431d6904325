package repository

import (
	"context"
	"errors"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

// ErrDuplicateID is returned when a record is inserted with an id already in use.
var ErrDuplicateID = errors.New("duplicate id")

// Collection is the storage contract shared by every entity table.
//
// List returns records in id order, which is also creation order. Get and
// Update report sql.ErrNoRows for unknown ids. Insert assigns
// max(existing ids, 0)+1 when the record carries no id. Delete of an unknown
// id is a no-op.
type Collection[T models.Record[T]] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Insert(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, record T) error
	Delete(ctx context.Context, id int64) error
}

// Filter returns the records matching keep, preserving order. It never returns nil.
func Filter[T any](records []T, keep func(T) bool) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// NextID computes max(existing ids, 0)+1.
func NextID[T models.Record[T]](records []T) int64 {
	var highest int64
	for _, r := range records {
		if id := r.EntityID(); id > highest {
			highest = id
		}
	}
	return highest + 1
}
