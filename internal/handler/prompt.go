// This file defines handlers for authenticated prompt management. Every
// route here sits behind JWTAuth; ownership is enforced per prompt, with
// admins allowed to delete anything via the separate admin route.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marndt/prompt-vault/internal/model"
	"github.com/marndt/prompt-vault/internal/queue"
	"github.com/marndt/prompt-vault/internal/repository"
	publisher "github.com/marndt/prompt-vault/internal/service"
)

// PromptHandler bundles dependencies for prompt write endpoints.
type PromptHandler struct {
	Prompts *repository.PromptRepo
	Users   *repository.UserRepo
}

func NewPromptHandler(p *repository.PromptRepo, u *repository.UserRepo) *PromptHandler {
	if p == nil || u == nil {
		panic("nil repository passed to NewPromptHandler")
	}
	return &PromptHandler{Prompts: p, Users: u}
}

// publishActivity is indirected so tests can stub out the broker.
var publishActivity = publisher.PublishPromptActivity

type promptReq struct {
	Body string `json:"body"`
	Tag  string `json:"tag"`
}

// promptResp is the write-path response shape. The creator is populated
// the same way the public read endpoints do it.
type promptResp struct {
	ID        uint64             `json:"id"`
	Body      string             `json:"body"`
	Tag       string             `json:"tag"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	Creator   repository.Creator `json:"creator"`
}

// CreatePrompt stores a new prompt owned by the authenticated user and
// publishes a prompt.activity event. Event delivery is best effort; a
// broker outage never fails the request.
func (h *PromptHandler) CreatePrompt(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req promptReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Body = strings.TrimSpace(req.Body)
	req.Tag = strings.TrimSpace(req.Tag)
	if req.Body == "" || req.Tag == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body/tag required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	p := model.Prompt{CreatorID: uid, Body: req.Body, Tag: req.Tag}
	if err := h.Prompts.Create(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create prompt failed"})
	}

	go func() {
		ev := queue.PromptActivityEvent{
			Action:     "created",
			PromptID:   p.ID,
			CreatorID:  uid,
			Username:   u.Username,
			Tag:        p.Tag,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		}
		_ = publishActivity(context.Background(), ev)
	}()

	return c.JSON(http.StatusCreated, promptResp{
		ID:        p.ID,
		Body:      p.Body,
		Tag:       p.Tag,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Creator:   repository.Creator{ID: u.ID, Username: u.Username, Image: u.ImageURL},
	})
}

// UpdatePrompt rewrites the body and tag of a prompt owned by the caller.
func (h *PromptHandler) UpdatePrompt(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var req promptReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Body = strings.TrimSpace(req.Body)
	req.Tag = strings.TrimSpace(req.Tag)
	if req.Body == "" || req.Tag == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body/tag required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Prompts.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrPromptNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "prompt not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if p.CreatorID != uid && getRole(c) != "ADMIN" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Prompts.Update(ctx, id, req.Body, req.Tag); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update prompt failed"})
	}

	row, err := h.Prompts.GetWithCreator(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, row)
}

// DeletePrompt removes a prompt owned by the caller and publishes a
// prompt.activity event.
func (h *PromptHandler) DeletePrompt(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Prompts.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrPromptNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "prompt not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if p.CreatorID != uid && getRole(c) != "ADMIN" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Prompts.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete prompt failed"})
	}

	go func() {
		ev := queue.PromptActivityEvent{
			Action:     "deleted",
			PromptID:   id,
			CreatorID:  p.CreatorID,
			Tag:        p.Tag,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		}
		_ = publishActivity(context.Background(), ev)
	}()

	return c.NoContent(http.StatusNoContent)
}

// AdminDeletePrompt removes any prompt regardless of owner. The route is
// gated by RequireRole("ADMIN") in the router.
func (h *PromptHandler) AdminDeletePrompt(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Prompts.Delete(ctx, id); err != nil {
		if err == repository.ErrPromptNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "prompt not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete prompt failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
