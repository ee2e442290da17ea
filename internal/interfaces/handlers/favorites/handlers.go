package favorites

import (
	"errors"
	"strconv"

	favsvc "homescout-backend/internal/application/favorites"
	listsvc "homescout-backend/internal/application/listings"
	"homescout-backend/internal/middleware"
	"homescout-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *favsvc.Service
}

// Toggle POST /api/v1/favorites/:listingId
func (h *Handlers) Toggle(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("listingId"), 10, 64)
	if err != nil {
		return response.Error(c, "Invalid listing id", fiber.StatusBadRequest, nil)
	}
	saved, err := h.Service.Toggle(c.UserContext(), middleware.CurrentUserID(c), id)
	if err != nil {
		if errors.Is(err, listsvc.ErrListingNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		log.Error().Err(err).Int64("listing_id", id).Msg("favorite toggle failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	msg := "Removed from favorites"
	if saved {
		msg = "Added to favorites"
	}
	return response.Success(c, msg, fiber.Map{"listing_id": id, "favorited": saved}, nil)
}

// List GET /api/v1/favorites
func (h *Handlers) List(c *fiber.Ctx) error {
	out, err := h.Service.List(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		log.Error().Err(err).Msg("favorites list failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Favorites fetched", fiber.Map{"listings": out}, fiber.Map{"count": len(out)})
}

// IDs GET /api/v1/favorites/ids
func (h *Handlers) IDs(c *fiber.Ctx) error {
	ids, err := h.Service.IDs(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		log.Error().Err(err).Msg("favorite ids failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Favorite ids fetched", fiber.Map{"ids": ids}, nil)
}
