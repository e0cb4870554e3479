package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"contentlib/internal/content/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "title", "description", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgresList(t *testing.T) {
	repo, mock := newMockRepo(t)
	newer := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(listContentsQuery)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(2, "Content 2", "Description 2", newer, newer).
			AddRow(1, "Content 1", nil, older, older))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, "Description 2", *got[0].Description)
	assert.Nil(t, got[1].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(listContentsQuery)).WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPostgresGetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(getContentQuery)).WithArgs(999).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 999)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	desc := "New Description"

	mock.ExpectQuery(regexp.QuoteMeta(createContentQuery)).
		WithArgs("New Content", "New Description").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(1, "New Content", "New Description", now, now))

	got, err := repo.Create(context.Background(), model.NewContent{Title: "New Content", Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, 1, got.ID)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateWithoutDescription(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(createContentQuery)).
		WithArgs("Sample", nil).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(5, "Sample", nil, now, now))

	got, err := repo.Create(context.Background(), model.NewContent{Title: "Sample"})
	require.NoError(t, err)
	assert.Nil(t, got.Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildUpdateQuery(t *testing.T) {
	title := "T"
	desc := ""

	q, args := buildUpdateQuery(3, model.Patch{Title: &title, SetDescription: true, Description: &desc})
	assert.Equal(t, "UPDATE contents SET title = $1, description = $2, updated_at = NOW() WHERE id = $3 RETURNING "+contentColumns, q)
	assert.Equal(t, []interface{}{"T", &desc, 3}, args)

	q, args = buildUpdateQuery(4, model.Patch{})
	assert.Equal(t, "UPDATE contents SET updated_at = NOW() WHERE id = $1 RETURNING "+contentColumns, q)
	assert.Equal(t, []interface{}{4}, args)
}

func TestPostgresUpdateDescriptionOnly(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	desc := "Updated"
	patch := model.Patch{SetDescription: true, Description: &desc}
	q, _ := buildUpdateQuery(1, patch)

	mock.ExpectQuery(regexp.QuoteMeta(q)).
		WithArgs("Updated", 1).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(1, "Original", "Updated", created, updated))

	got, err := repo.Update(context.Background(), 1, patch)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Title)
	assert.Equal(t, "Updated", *got.Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	title := "x"
	patch := model.Patch{Title: &title}
	q, _ := buildUpdateQuery(42, patch)

	mock.ExpectQuery(regexp.QuoteMeta(q)).WithArgs("x", 42).WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), 42, patch)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPostgresDelete(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(deleteContentQuery)).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteContentQuery)).WithArgs(2).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 1))
	err := repo.Delete(context.Background(), 2)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorageErrorIsReturned(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(listContentsQuery)).WillReturnError(errors.New("connection refused"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestPostgresMigrate(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta(createContentsTableQuery)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
