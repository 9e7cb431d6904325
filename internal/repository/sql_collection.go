package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

// SQLCollection persists records of one entity in a PostgreSQL table via sqlx.
// Column names must match the entity's db tags; the id column is implicit.
type SQLCollection[T models.Record[T]] struct {
	db       *sqlx.DB
	table    string
	columns  []string
	observer QueryObserver
}

// QueryObserver receives the duration of every statement, labelled
// "<table>.<operation>".
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// NewSQLCollection constructs a collection bound to table.
func NewSQLCollection[T models.Record[T]](db *sqlx.DB, table string, columns ...string) *SQLCollection[T] {
	return &SQLCollection[T]{db: db, table: table, columns: columns}
}

// WithObserver attaches a query timing observer.
func (c *SQLCollection[T]) WithObserver(obs QueryObserver) *SQLCollection[T] {
	c.observer = obs
	return c
}

func (c *SQLCollection[T]) observe(op string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveDBQuery(c.table+"."+op, time.Since(start))
	}
}

func (c *SQLCollection[T]) selectList() string {
	return "id, " + strings.Join(c.columns, ", ")
}

// List returns all rows ordered by id.
func (c *SQLCollection[T]) List(ctx context.Context) ([]T, error) {
	defer c.observe("list", time.Now())
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", c.selectList(), c.table)
	var rows []T
	if err := c.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list %s: %w", c.table, err)
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

// Get fetches a single row by id; sql.ErrNoRows is returned untouched.
func (c *SQLCollection[T]) Get(ctx context.Context, id int64) (T, error) {
	defer c.observe("get", time.Now())
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", c.selectList(), c.table)
	var row T
	if err := c.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return row, err
		}
		return row, fmt.Errorf("get %s: %w", c.table, err)
	}
	return row, nil
}

// Insert writes a new row, allocating max(id)+1 inside the transaction when no id is set.
func (c *SQLCollection[T]) Insert(ctx context.Context, record T) (T, error) {
	defer c.observe("insert", time.Now())
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return record, fmt.Errorf("begin insert %s: %w", c.table, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if record.EntityID() == 0 {
		var next int64
		if err := tx.GetContext(ctx, &next, fmt.Sprintf("SELECT COALESCE(MAX(id), 0) + 1 FROM %s", c.table)); err != nil {
			return record, fmt.Errorf("next id %s: %w", c.table, err)
		}
		record = record.WithEntityID(next)
	}

	named := make([]string, len(c.columns))
	for i, col := range c.columns {
		named[i] = ":" + col
	}
	query := fmt.Sprintf("INSERT INTO %s (id, %s) VALUES (:id, %s)", c.table, strings.Join(c.columns, ", "), strings.Join(named, ", "))
	if _, err := tx.NamedExecContext(ctx, query, record); err != nil {
		return record, fmt.Errorf("insert %s: %w", c.table, err)
	}
	if err := tx.Commit(); err != nil {
		return record, fmt.Errorf("commit insert %s: %w", c.table, err)
	}
	return record, nil
}

// Update overwrites every column of the row with the record's id.
func (c *SQLCollection[T]) Update(ctx context.Context, record T) error {
	defer c.observe("update", time.Now())
	sets := make([]string, len(c.columns))
	for i, col := range c.columns {
		sets[i] = fmt.Sprintf("%s = :%s", col, col)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = :id", c.table, strings.Join(sets, ", "))
	res, err := c.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return fmt.Errorf("update %s: %w", c.table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s rows: %w", c.table, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the row; deleting a missing id succeeds.
func (c *SQLCollection[T]) Delete(ctx context.Context, id int64) error {
	defer c.observe("delete", time.Now())
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", c.table)
	if _, err := c.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete %s: %w", c.table, err)
	}
	return nil
}
