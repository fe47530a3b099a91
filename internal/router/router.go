// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/marndt/prompt-vault/internal/handler"
	"github.com/marndt/prompt-vault/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check,
// used by load balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware. Unauthenticated operations live under /api/auth,
// while the protected /api/me endpoint requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token and returns a new pair.
	g.POST("/refresh", a.Refresh)
	// Logout accepts a refresh_token body or a Bearer token; it does not
	// sit behind the JWT middleware so a session can always be ended.
	g.POST("/logout", a.Logout)

	auth := e.Group("/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("USER", "ADMIN"),
	)
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance. The PublicHandler returns sanitized data: prompts with
// their creators populated, and public creator profiles. The caller passes
// the response cache and rate limit middlewares so the public surface is
// cached and throttled while the write paths stay untouched.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/api", mw...)
	// Feed of all prompts, optionally filtered with ?q= / ?tag=.
	g.GET("/prompts", p.GetFeed)
	// Single prompt with populated creator.
	g.GET("/prompts/:id", p.GetPrompt)
	// All prompts belonging to one creator, creator populated in each row.
	g.GET("/users/:id/posts", p.GetUserPrompts)
	// Public creator profile.
	g.GET("/users/:id", p.GetUserProfile)
}
