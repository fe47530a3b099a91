package middleware

// identity.go holds helpers shared across middleware files. currentUserID
// resolves the identity placed into context by JWTAuth for use in rate
// limit keys; "anon" is returned for unauthenticated traffic.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a stable string identity for the request. The
// JWT sub claim is numeric, so values arrive as float64 after parsing.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%.0f", v)
	case uint64:
		return fmt.Sprintf("%d", v)
	}
	return "anon"
}
