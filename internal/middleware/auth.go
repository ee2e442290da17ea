package middleware

import (
	"homescout-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUserID(c) == uuid.Nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetUser returns the raw session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// CurrentUser decodes the session user. ok is false for anonymous requests.
func CurrentUser(c *fiber.Ctx) (SessionUser, bool) {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return SessionUser{}, false
	}
	u := SessionUser{
		UserID:   str(m["user_id"]),
		Fullname: str(m["fullname"]),
		Email:    str(m["email"]),
		Role:     str(m["role"]),
	}
	u.KYCVerified, _ = m["kyc_verified"].(bool)
	if u.UserID == "" {
		return SessionUser{}, false
	}
	return u, true
}

// CurrentUserID returns the session user's id, or uuid.Nil when anonymous or malformed.
func CurrentUserID(c *fiber.Ctx) uuid.UUID {
	u, ok := CurrentUser(c)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(u.UserID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func str(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
