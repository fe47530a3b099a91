package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marndt/prompt-vault/internal/queue"
	"github.com/marndt/prompt-vault/internal/repository"
)

// capturedEvents swaps the broker publisher for an in-memory recorder.
type capturedEvents struct {
	mu     sync.Mutex
	events []queue.PromptActivityEvent
	done   chan struct{}
}

func captureActivity(t *testing.T, expect int) *capturedEvents {
	t.Helper()
	rec := &capturedEvents{done: make(chan struct{}, expect)}
	orig := publishActivity
	publishActivity = func(_ context.Context, ev queue.PromptActivityEvent) error {
		rec.mu.Lock()
		rec.events = append(rec.events, ev)
		rec.mu.Unlock()
		rec.done <- struct{}{}
		return nil
	}
	t.Cleanup(func() { publishActivity = orig })
	return rec
}

func (c *capturedEvents) wait(t *testing.T) queue.PromptActivityEvent {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for activity event")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events[len(c.events)-1]
}

func newPromptTest(t *testing.T) (*PromptHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPromptHandler(repository.NewPromptRepo(db), repository.NewUserRepo(db)), mock
}

// authedRequest builds a context carrying the claims JWTAuth would set.
// JWT numeric claims decode as float64, which is what handlers see.
func authedRequest(method, path, body string, uid float64, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uid)
	c.Set("role", role)
	return c, rec
}

func userRow(id uint64, username string) *sqlmock.Rows {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "email", "username", "image_url", "password_hash", "role", "is_active", "created_at", "updated_at",
	}).AddRow(id, username+"@example.com", username, "", "x", "USER", true, now, now)
}

func TestCreatePrompt(t *testing.T) {
	h, mock := newPromptTest(t)
	events := captureActivity(t, 1)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(uint64(1)).
		WillReturnRows(userRow(1, "alice"))
	mock.ExpectExec("INSERT INTO prompts").
		WithArgs(uint64(1), "write a haiku", "poetry").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("SELECT id, creator_id, body, tag").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "body", "tag", "created_at", "updated_at"}).
			AddRow(7, 1, "write a haiku", "poetry", now, now))

	c, rec := authedRequest(http.MethodPost, "/api/prompts",
		`{"body":"write a haiku","tag":"poetry"}`, 1, "USER")
	require.NoError(t, h.CreatePrompt(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var out promptResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, uint64(7), out.ID)
	assert.Equal(t, "alice", out.Creator.Username)

	ev := events.wait(t)
	assert.Equal(t, "created", ev.Action)
	assert.Equal(t, uint64(7), ev.PromptID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePromptRejectsEmptyBody(t *testing.T) {
	h, _ := newPromptTest(t)

	c, rec := authedRequest(http.MethodPost, "/api/prompts", `{"body":"  ","tag":"x"}`, 1, "USER")
	require.NoError(t, h.CreatePrompt(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePromptForbiddenForNonOwner(t *testing.T) {
	h, mock := newPromptTest(t)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, creator_id, body, tag").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "body", "tag", "created_at", "updated_at"}).
			AddRow(7, 1, "hi", "greetings", now, now))

	c, rec := authedRequest(http.MethodPut, "/api/prompts/7",
		`{"body":"hijacked","tag":"greetings"}`, 2, "USER")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.UpdatePrompt(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePromptByOwner(t *testing.T) {
	h, mock := newPromptTest(t)
	events := captureActivity(t, 1)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, creator_id, body, tag").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "body", "tag", "created_at", "updated_at"}).
			AddRow(7, 1, "hi", "greetings", now, now))
	mock.ExpectExec("DELETE FROM prompts").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := authedRequest(http.MethodDelete, "/api/prompts/7", "", 1, "USER")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.DeletePrompt(c))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	ev := events.wait(t)
	assert.Equal(t, "deleted", ev.Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePromptNotFound(t *testing.T) {
	h, mock := newPromptTest(t)

	mock.ExpectQuery("SELECT id, creator_id, body, tag").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "creator_id", "body", "tag", "created_at", "updated_at"}))

	c, rec := authedRequest(http.MethodDelete, "/api/prompts/9", "", 1, "USER")
	c.SetParamNames("id")
	c.SetParamValues("9")
	require.NoError(t, h.DeletePrompt(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminDeleteAnyPrompt(t *testing.T) {
	h, mock := newPromptTest(t)

	mock.ExpectExec("DELETE FROM prompts").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := authedRequest(http.MethodDelete, "/api/admin/prompts/7", "", 99, "ADMIN")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.AdminDeletePrompt(c))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
