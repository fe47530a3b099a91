// Package handler exposes HTTP handlers for both authenticated and public
// endpoints. This file defines the public browsing API: the prompt feed,
// single prompt lookups, creator profiles, and the creator-prompts listing.
// These routes require no authentication; sensitive user fields (email,
// password hash, role) are never included in responses.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/marndt/prompt-vault/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated browsing.
type PublicHandler struct {
	PromptRepo *repository.PromptRepo // provides access to prompt data
	UserRepo   *repository.UserRepo   // provides access to user data
}

// PublicProfile represents a creator exposed via the public API. It
// contains only safe fields.
type PublicProfile struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Image    string `json:"image"`
}

// GetFeed returns the public prompt feed with creators populated. The
// optional ?q= parameter matches prompt body, tag or creator username;
// ?tag= filters by exact tag. Results are paginated via ?page= and
// ?page_size=.
func (h *PublicHandler) GetFeed(c echo.Context) error {
	ctx := c.Request().Context()
	q := repository.PromptSearchQuery{
		Text: c.QueryParam("q"),
		Tag:  c.QueryParam("tag"),
	}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		q.Page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil {
		q.PageSize = v
	}
	items, total, err := h.PromptRepo.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": total})
}

// GetPrompt returns a single prompt with its creator populated.
func (h *PublicHandler) GetPrompt(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	row, err := h.PromptRepo.GetWithCreator(ctx, id)
	if err != nil {
		if err == repository.ErrPromptNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "prompt not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, row)
}

// GetUserPrompts lists every prompt belonging to the creator identified by
// the :id path parameter, each with the bare creator foreign key replaced
// by the populated creator object. Zero matches, including an id that
// matches no user at all, is not an error and yields an empty JSON array.
// Any store failure collapses into a single opaque 500; callers cannot
// distinguish cause. The handler is read-only and stateless; the shared
// connection pool is reused across invocations.
func (h *PublicHandler) GetUserPrompts(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	items, err := h.PromptRepo.ListByCreator(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load prompts"})
	}
	return c.JSON(http.StatusOK, items)
}

// GetUserProfile returns the public profile of a single creator.
func (h *PublicHandler) GetUserProfile(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	u, err := h.UserRepo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, PublicProfile{ID: u.ID, Username: u.Username, Image: u.ImageURL})
}
