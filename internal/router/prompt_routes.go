package router

import (
	"github.com/labstack/echo/v4"

	"github.com/marndt/prompt-vault/internal/handler"
	"github.com/marndt/prompt-vault/internal/middleware"
)

// RegisterPrompts registers authenticated prompt management endpoints
// under /api. All routes require a valid JWT; ownership checks happen in
// the handlers so admins can also operate on their own prompts here.
func RegisterPrompts(e *echo.Echo, h *handler.PromptHandler, jwtSecret string) {
	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("USER", "ADMIN"),
	)

	g.POST("/prompts", h.CreatePrompt)
	g.PUT("/prompts/:id", h.UpdatePrompt)
	g.PATCH("/prompts/:id", h.UpdatePrompt) // allow partial-style clients to use PATCH as well
	g.DELETE("/prompts/:id", h.DeletePrompt)

	// ---- Admin ----
	admin := e.Group(
		"/api/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	admin.DELETE("/prompts/:id", h.AdminDeletePrompt)
}
