package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestMigrateCreatesEveryTable(t *testing.T) {
	db, mock := newMock(t)
	for _, step := range schema {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS " + step.table + " ").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Len(t, schema, 15)
}

func TestMigrateStopsOnFailure(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users ").WillReturnError(errors.New("permission denied"))

	err := Migrate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate users")
}

func TestIsEmpty(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	empty, err := IsEmpty(context.Background(), db)
	require.NoError(t, err)
	assert.True(t, empty)
}
