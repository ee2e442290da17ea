package notifications

import (
	"errors"
	"strconv"

	notifsvc "homescout-backend/internal/application/notifications"
	"homescout-backend/internal/middleware"
	"homescout-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *notifsvc.Service
}

// List GET /api/v1/notifications?unread=true
func (h *Handlers) List(c *fiber.Ctx) error {
	out, err := h.Service.List(c.UserContext(), middleware.CurrentUserID(c), c.QueryBool("unread"))
	if err != nil {
		return internalError(c, err)
	}
	return response.Success(c, "Notifications fetched", fiber.Map{"notifications": out}, fiber.Map{"count": len(out)})
}

// MarkRead PATCH /api/v1/notifications/:id/read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.Error(c, "Invalid notification id", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.MarkRead(c.UserContext(), middleware.CurrentUserID(c), uint(id)); err != nil {
		if errors.Is(err, notifsvc.ErrNotificationNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		return internalError(c, err)
	}
	return response.Success(c, "Notification marked as read", nil, nil)
}

// MarkAllRead PATCH /api/v1/notifications/read-all
func (h *Handlers) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.Service.MarkAllRead(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return internalError(c, err)
	}
	return response.Success(c, "Notifications marked as read", fiber.Map{"updated": n}, nil)
}

// UnreadCount GET /api/v1/notifications/unread-count
func (h *Handlers) UnreadCount(c *fiber.Ctx) error {
	n, err := h.Service.UnreadCount(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return internalError(c, err)
	}
	return response.Success(c, "Unread count fetched", fiber.Map{"unread": n}, nil)
}

func internalError(c *fiber.Ctx, err error) error {
	log.Error().Err(err).Str("path", c.Path()).Msg("notification request failed")
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}
