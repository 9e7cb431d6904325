package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-dashboard-api/internal/models"
)

func newSQLMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func newSubjects(db *sqlx.DB) *SQLCollection[models.Subject] {
	return NewSQLCollection[models.Subject](db, "subjects", "name", "code")
}

func TestSQLCollectionList(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "name", "code"}).
		AddRow(1, "Mathematics", "MATH101").
		AddRow(2, "History", "HIST101")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, code FROM subjects ORDER BY id")).WillReturnRows(rows)

	subjects, err := newSubjects(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, "HIST101", subjects[1].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCollectionListEmpty(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id, name, code FROM subjects").WillReturnRows(sqlmock.NewRows([]string{"id", "name", "code"}))

	subjects, err := newSubjects(db).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, subjects)
	assert.Empty(t, subjects)
}

func TestSQLCollectionGetNotFound(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, code FROM subjects WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "code"}))

	_, err := newSubjects(db).Get(context.Background(), 7)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSQLCollectionInsertAllocatesID(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(id), 0) + 1 FROM subjects")).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(4))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subjects (id, name, code) VALUES (?, ?, ?)")).
		WithArgs(int64(4), "Biology", "BIO101").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectCommit()

	created, err := newSubjects(db).Insert(context.Background(), models.Subject{Name: "Biology", Code: "BIO101"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCollectionInsertKeepsExplicitID(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO subjects").
		WithArgs(int64(3), "Physics", "PHY101").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	created, err := newSubjects(db).Insert(context.Background(), models.Subject{ID: 3, Name: "Physics", Code: "PHY101"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCollectionUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE subjects SET name = ?, code = ? WHERE id = ?")).
		WithArgs("Art", "ART1", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := newSubjects(db).Update(context.Background(), models.Subject{ID: 9, Name: "Art", Code: "ART1"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSQLCollectionDelete(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subjects WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, newSubjects(db).Delete(context.Background(), 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

type recordingObserver struct {
	labels []string
}

func (r *recordingObserver) ObserveDBQuery(label string, _ time.Duration) {
	r.labels = append(r.labels, label)
}

func TestSQLCollectionReportsQueryTimings(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id, name, code FROM subjects").WillReturnRows(sqlmock.NewRows([]string{"id", "name", "code"}))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subjects WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	obs := &recordingObserver{}
	subjects := newSubjects(db).WithObserver(obs)
	_, err := subjects.List(context.Background())
	require.NoError(t, err)
	require.NoError(t, subjects.Delete(context.Background(), 3))

	assert.Equal(t, []string{"subjects.list", "subjects.delete"}, obs.labels)
}
