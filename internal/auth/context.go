package auth

import "github.com/labstack/echo/v4"

const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserName = "user_name"
	ContextKeyRole     = "user_role"
)

// ActorID returns the authenticated admin's id, or 0 when the request is
// unauthenticated (guarded routes never see 0).
func ActorID(c echo.Context) int64 {
	if v, ok := c.Get(ContextKeyUserID).(int64); ok {
		return v
	}
	return 0
}

func ActorName(c echo.Context) string {
	if v, ok := c.Get(ContextKeyUserName).(string); ok {
		return v
	}
	return ""
}

func Role(c echo.Context) string {
	if v, ok := c.Get(ContextKeyRole).(string); ok {
		return v
	}
	return ""
}
