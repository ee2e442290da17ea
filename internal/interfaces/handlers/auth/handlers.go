package auth

import (
	"errors"

	authsvc "homescout-backend/internal/application/auth"
	"homescout-backend/internal/middleware"
	"homescout-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	UserFinder authsvc.UserFinder
	Rdb        *redis.Client
	Config     middleware.SessionConfig
}

// Login POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req authsvc.LoginInput
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return response.Error(c, authsvc.ErrEmailPasswordRequired.Error(), fiber.StatusBadRequest, nil)
	}

	user, err := h.UserFinder.FindByEmailAndPassword(c.UserContext(), req.Email, req.Password)
	switch {
	case errors.Is(err, authsvc.ErrEmailPasswordRequired):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	case errors.Is(err, authsvc.ErrInvalidEmail), errors.Is(err, authsvc.ErrIncorrectPassword):
		return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
	case err != nil:
		log.Error().Err(err).Msg("login lookup failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	sessionID := middleware.RegenerateSessionID(c)
	shape := authsvc.SessionUserShape{
		UserID:      user.UserID.String(),
		Fullname:    user.Fullname,
		Email:       user.Email,
		Role:        user.Role,
		KYCVerified: user.KYCVerified,
	}
	middleware.SetSessionUser(c, middleware.SessionUser(shape))

	// Track every session of the user so they can be revoked together.
	if err := h.Rdb.SAdd(c.UserContext(), userSessionsPrefix+shape.UserID, sessionID).Err(); err != nil {
		log.Error().Err(err).Msg("session tracking failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	return response.Success(c, "Login successful", fiber.Map{"user": shape}, nil)
}

// Me GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, err := authsvc.VerifyUser(middleware.GetUser(c))
	if err != nil {
		log.Debug().Bool("cookie_present", c.Cookies(middleware.SessionCookieName) != "").
			Msg("auth/me: not authenticated")
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": user}, nil)
}

// Logout DELETE /api/v1/auth/logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	ctx := c.UserContext()
	sessionID := middleware.GetSessionID(c)
	if sessionID != "" {
		if u, ok := middleware.CurrentUser(c); ok {
			_ = h.Rdb.SRem(ctx, userSessionsPrefix+u.UserID, sessionID).Err()
		}
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}
