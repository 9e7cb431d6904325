package repository

import (
	"context"
	"database/sql"
	"sync"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

// MemoryCollection keeps records in process memory in insertion order.
type MemoryCollection[T models.Record[T]] struct {
	mu   sync.RWMutex
	rows []T
}

// NewMemoryCollection constructs an empty in-memory collection.
func NewMemoryCollection[T models.Record[T]]() *MemoryCollection[T] {
	return &MemoryCollection[T]{}
}

// List returns a copy of all records.
func (c *MemoryCollection[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.rows))
	copy(out, c.rows)
	return out, nil
}

// Get fetches a record by id.
func (c *MemoryCollection[T]) Get(ctx context.Context, id int64) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.rows[i], nil
	}
	return zero, sql.ErrNoRows
}

// Insert appends the record, assigning the next id when none is set.
func (c *MemoryCollection[T]) Insert(ctx context.Context, record T) (T, error) {
	if err := ctx.Err(); err != nil {
		return record, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if record.EntityID() == 0 {
		record = record.WithEntityID(NextID(c.rows))
	} else if c.indexOf(record.EntityID()) >= 0 {
		return record, ErrDuplicateID
	}
	c.rows = append(c.rows, record)
	return record, nil
}

// Update replaces the stored record with the same id.
func (c *MemoryCollection[T]) Update(ctx context.Context, record T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(record.EntityID())
	if i < 0 {
		return sql.ErrNoRows
	}
	c.rows[i] = record
	return nil
}

// Delete removes the record; unknown ids are ignored.
func (c *MemoryCollection[T]) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		c.rows = append(c.rows[:i], c.rows[i+1:]...)
	}
	return nil
}

func (c *MemoryCollection[T]) indexOf(id int64) int {
	for i, r := range c.rows {
		if r.EntityID() == id {
			return i
		}
	}
	return -1
}
