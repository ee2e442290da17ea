package user

import (
	"errors"

	usersvc "homescout-backend/internal/application/user"
	"homescout-backend/internal/domain"
	"homescout-backend/internal/middleware"
	"homescout-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds the user service and session config; registering also logs the user in.
type Handlers struct {
	Service *usersvc.Service
	Rdb     *redis.Client
	Config  middleware.SessionConfig
}

// Register POST /api/v1/users/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req usersvc.RegisterInput
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" || req.Fullname == "" {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}

	u, err := h.Service.Register(c.UserContext(), req)
	if err != nil {
		return mapError(c, err)
	}

	sid := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:      u.UserID.String(),
		Fullname:    u.Fullname,
		Email:       u.Email,
		Role:        u.Role,
		KYCVerified: u.KYCVerified,
	})
	if h.Rdb != nil {
		_ = h.Rdb.SAdd(c.UserContext(), userSessionsPrefix+u.UserID.String(), sid).Err()
	}
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sid
	c.Cookie(&cookie)

	return response.SuccessCreated(c, "User created successfully", fiber.Map{"user": safeUser(u)}, nil)
}

// Profile GET /api/v1/users/profile
func (h *Handlers) Profile(c *fiber.Ctx) error {
	u, err := h.Service.Profile(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "User found", fiber.Map{"user": safeUser(u)}, nil)
}

// UpdateProfile PUT /api/v1/users/profile
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	var req usersvc.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Missing update fields", fiber.StatusBadRequest, nil)
	}
	u, err := h.Service.UpdateProfile(c.UserContext(), middleware.CurrentUserID(c), req)
	if err != nil {
		return mapError(c, err)
	}
	// Keep the session's display name in step with the profile.
	if su, ok := middleware.CurrentUser(c); ok {
		su.Fullname = u.Fullname
		middleware.SetSessionUser(c, su)
	}
	return response.Success(c, "User updated successfully", fiber.Map{"user": safeUser(u)}, nil)
}

func safeUser(u *domain.User) fiber.Map {
	return fiber.Map{
		"user_id":      u.UserID.String(),
		"fullname":     u.Fullname,
		"email":        u.Email,
		"phone":        u.Phone,
		"role":         u.Role,
		"kyc_verified": u.KYCVerified,
		"createdAt":    u.CreatedAt,
		"updatedAt":    u.UpdatedAt,
	}
}

var errorStatus = map[error]int{
	usersvc.ErrInvalidEmail:      fiber.StatusBadRequest,
	usersvc.ErrInvalidPassword:   fiber.StatusBadRequest,
	usersvc.ErrInvalidFullname:   fiber.StatusBadRequest,
	usersvc.ErrInvalidPhone:      fiber.StatusBadRequest,
	usersvc.ErrNoUpdateFields:    fiber.StatusBadRequest,
	usersvc.ErrIncorrectPassword: fiber.StatusUnauthorized,
	usersvc.ErrUserNotFound:      fiber.StatusNotFound,
	usersvc.ErrEmailTaken:        fiber.StatusConflict,
}

func mapError(c *fiber.Ctx, err error) error {
	for target, status := range errorStatus {
		if errors.Is(err, target) {
			return response.Error(c, target.Error(), status, nil)
		}
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("user request failed")
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}
