package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marndt/prompt-vault/internal/model"
)

func joinedRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "body", "tag", "created_at", "updated_at",
		"creator_id", "username", "image",
	})
}

func TestListByCreatorPopulatesCreator(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM prompts p").
		WithArgs(uint64(1)).
		WillReturnRows(joinedRows().
			AddRow(2, "yo", "greetings", now, now, 1, "alice", "https://img/a.png").
			AddRow(1, "hi", "greetings", now.Add(-time.Hour), now.Add(-time.Hour), 1, "alice", "https://img/a.png"))

	repo := NewPromptRepo(db)
	out, err := repo.ListByCreator(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, out, 2)

	// Every row carries the populated creator instead of a bare FK.
	for _, row := range out {
		assert.Equal(t, uint64(1), row.Creator.ID)
		assert.Equal(t, "alice", row.Creator.Username)
	}
	assert.Equal(t, uint64(2), out[0].ID, "newest first")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCreatorEmptyIsNotAnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM prompts p").
		WithArgs(uint64(42)).
		WillReturnRows(joinedRows())

	repo := NewPromptRepo(db)
	out, err := repo.ListByCreator(context.Background(), 42)
	require.NoError(t, err)
	assert.NotNil(t, out, "empty result must serialize as [] not null")
	assert.Len(t, out, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCreatorQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM prompts p").
		WithArgs(uint64(1)).
		WillReturnError(errors.New("connection refused"))

	repo := NewPromptRepo(db)
	_, err = repo.ListByCreator(context.Background(), 1)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO prompts").
		WithArgs(uint64(1), "hi", "greetings").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("SELECT id, creator_id, body, tag, created_at, updated_at FROM prompts").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "body", "tag", "created_at", "updated_at"}).
			AddRow(7, 1, "hi", "greetings", now, now))

	repo := NewPromptRepo(db)
	p := &model.Prompt{CreatorID: 1, Body: "hi", Tag: "greetings"}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, uint64(7), p.ID)
	assert.Equal(t, now, p.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWithCreatorNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM prompts p").
		WithArgs(uint64(99)).
		WillReturnRows(joinedRows())

	repo := NewPromptRepo(db)
	_, err = repo.GetWithCreator(context.Background(), 99)
	assert.ErrorIs(t, err, ErrPromptNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingPrompt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM prompts").
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPromptRepo(db)
	err = repo.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, ErrPromptNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchFiltersByTextAndPaginates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("%poem%", "%poem%", "%poem%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM prompts p").
		WithArgs("%poem%", "%poem%", "%poem%", 20, 0).
		WillReturnRows(joinedRows().
			AddRow(3, "write a poem", "poetry", now, now, 2, "bob", ""))

	repo := NewPromptRepo(db)
	out, total, err := repo.Search(context.Background(), PromptSearchQuery{Text: "poem"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, out, 1)
	assert.Equal(t, "bob", out[0].Creator.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}
