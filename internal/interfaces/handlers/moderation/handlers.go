package moderation

import (
	"errors"
	"strconv"

	listsvc "homescout-backend/internal/application/listings"
	modsvc "homescout-backend/internal/application/moderation"
	"homescout-backend/internal/middleware"
	"homescout-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers serves the admin review queue for listings.
type Handlers struct {
	Service *modsvc.Service
}

type rejectBody struct {
	Reason string `json:"reason"`
}

// Pending GET /api/v1/admin/listings/pending
func (h *Handlers) Pending(c *fiber.Ctx) error {
	out, err := h.Service.ListPending(c.UserContext())
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Pending listings fetched", fiber.Map{"listings": out}, fiber.Map{"count": len(out)})
}

// Approve POST /api/v1/admin/listings/:id/approve
func (h *Handlers) Approve(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return response.Error(c, "Invalid listing id", fiber.StatusBadRequest, nil)
	}
	l, err := h.Service.Approve(c.UserContext(), middleware.CurrentUserID(c), id)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Listing approved", fiber.Map{"listing": l}, nil)
}

// Reject POST /api/v1/admin/listings/:id/reject
func (h *Handlers) Reject(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return response.Error(c, "Invalid listing id", fiber.StatusBadRequest, nil)
	}
	var body rejectBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	l, err := h.Service.Reject(c.UserContext(), middleware.CurrentUserID(c), id, body.Reason)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Listing rejected", fiber.Map{"listing": l}, nil)
}

func mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, modsvc.ErrReasonRequired):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	case errors.Is(err, modsvc.ErrWithdrawn):
		return response.Error(c, modsvc.ErrWithdrawn.Error(), fiber.StatusConflict, nil)
	case errors.Is(err, modsvc.ErrInvalidTransition):
		return response.Error(c, modsvc.ErrInvalidTransition.Error(), fiber.StatusConflict, nil)
	case errors.Is(err, listsvc.ErrListingNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("moderation request failed")
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}
