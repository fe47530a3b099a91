package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marndt/prompt-vault/internal/repository"
)

// newPublicTest wires a PublicHandler against a mocked DB and returns an
// echo context for GET /api/users/:id/posts with the given path id.
func newPublicTest(t *testing.T) (*PublicHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &PublicHandler{
		PromptRepo: repository.NewPromptRepo(db),
		UserRepo:   repository.NewUserRepo(db),
	}, mock
}

func userPromptsRequest(id string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users/"+id+"/posts", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/users/:id/posts")
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func promptJoinRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "body", "tag", "created_at", "updated_at",
		"creator_id", "username", "image",
	})
}

func TestGetUserPromptsReturnsPopulatedRows(t *testing.T) {
	h, mock := newPublicTest(t)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM prompts p").
		WithArgs(uint64(1)).
		WillReturnRows(promptJoinRows().
			AddRow(2, "yo", "greetings", now, now, 1, "Alice", "").
			AddRow(1, "hi", "greetings", now, now, 1, "Alice", ""))

	c, rec := userPromptsRequest("1")
	require.NoError(t, h.GetUserPrompts(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "application/json")

	var out []repository.PromptWithCreator
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	for _, row := range out {
		assert.Equal(t, uint64(1), row.Creator.ID, "creator FK replaced by populated object")
		assert.Equal(t, "Alice", row.Creator.Username)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserPromptsZeroMatchesIsEmptyArray(t *testing.T) {
	h, mock := newPublicTest(t)

	mock.ExpectQuery("SELECT (.+) FROM prompts p").
		WithArgs(uint64(42)).
		WillReturnRows(promptJoinRows())

	c, rec := userPromptsRequest("42")
	require.NoError(t, h.GetUserPrompts(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String(), "unknown or promptless creator is not an error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserPromptsStoreFailureIsOpaque500(t *testing.T) {
	h, mock := newPublicTest(t)

	mock.ExpectQuery("SELECT (.+) FROM prompts p").
		WithArgs(uint64(1)).
		WillReturnError(errors.New("dial tcp: connection refused"))

	c, rec := userPromptsRequest("1")
	require.NoError(t, h.GetUserPrompts(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"failed to load prompts"}`, rec.Body.String(),
		"every internal failure collapses into the same fixed body")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserPromptsInvalidID(t *testing.T) {
	h, _ := newPublicTest(t)

	c, rec := userPromptsRequest("not-a-number")
	require.NoError(t, h.GetUserPrompts(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid id"}`, rec.Body.String())
}

func TestGetUserPromptsIdempotentAgainstUnchangedStore(t *testing.T) {
	h, mock := newPublicTest(t)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		mock.ExpectQuery("SELECT (.+) FROM prompts p").
			WithArgs(uint64(1)).
			WillReturnRows(promptJoinRows().
				AddRow(1, "hi", "greetings", now, now, 1, "Alice", ""))
	}

	c1, rec1 := userPromptsRequest("1")
	require.NoError(t, h.GetUserPrompts(c1))
	c2, rec2 := userPromptsRequest("1")
	require.NoError(t, h.GetUserPrompts(c2))

	assert.Equal(t, rec1.Body.String(), rec2.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPromptNotFound(t *testing.T) {
	h, mock := newPublicTest(t)

	mock.ExpectQuery("SELECT (.+) FROM prompts p").
		WithArgs(uint64(9)).
		WillReturnRows(promptJoinRows())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/prompts/9", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/prompts/:id")
	c.SetParamNames("id")
	c.SetParamValues("9")

	require.NoError(t, h.GetPrompt(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFeedSearch(t *testing.T) {
	h, mock := newPublicTest(t)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("%poem%", "%poem%", "%poem%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM prompts p").
		WithArgs("%poem%", "%poem%", "%poem%", 20, 0).
		WillReturnRows(promptJoinRows().
			AddRow(3, "write a poem", "poetry", now, now, 2, "bob", ""))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/prompts?q=poem", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/prompts")

	require.NoError(t, h.GetFeed(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Items []repository.PromptWithCreator `json:"items"`
		Total int64                          `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.EqualValues(t, 1, out.Total)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "bob", out.Items[0].Creator.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}
