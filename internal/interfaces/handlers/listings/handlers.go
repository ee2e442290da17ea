package listings

import (
	"errors"
	"strconv"

	listsvc "homescout-backend/internal/application/listings"
	"homescout-backend/internal/middleware"
	"homescout-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *listsvc.Service
}

// Create POST /api/v1/listings
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in listsvc.ListingInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	l, err := h.Service.Create(c.UserContext(), middleware.CurrentUserID(c), in)
	if err != nil {
		return mapError(c, err)
	}
	return response.SuccessCreated(c, "Listing submitted for review", fiber.Map{"listing": l}, nil)
}

// Get GET /api/v1/listings/:id. Opening a listing counts as a view.
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, ok := listingID(c)
	if !ok {
		return response.Error(c, "Invalid listing id", fiber.StatusBadRequest, nil)
	}
	viewer := middleware.CurrentUserID(c)
	l, err := h.Service.Get(c.UserContext(), id, viewer, middleware.IsAdmin(c))
	if err != nil {
		return mapError(c, err)
	}
	if err := h.Service.RecordView(c.UserContext(), id, viewer); err != nil {
		log.Warn().Err(err).Int64("listing_id", id).Msg("view not recorded")
	}
	return response.Success(c, "Listing found", fiber.Map{"listing": l}, nil)
}

// Mine GET /api/v1/listings/mine
func (h *Handlers) Mine(c *fiber.Ctx) error {
	out, err := h.Service.ListByOwner(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Listings fetched", fiber.Map{"listings": out}, fiber.Map{"count": len(out)})
}

// Update PUT /api/v1/listings/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, ok := listingID(c)
	if !ok {
		return response.Error(c, "Invalid listing id", fiber.StatusBadRequest, nil)
	}
	var in listsvc.ListingInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	l, err := h.Service.Update(c.UserContext(), middleware.CurrentUserID(c), id, in)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Listing updated", fiber.Map{"listing": l}, nil)
}

// Withdraw POST /api/v1/listings/:id/withdraw
func (h *Handlers) Withdraw(c *fiber.Ctx) error {
	id, ok := listingID(c)
	if !ok {
		return response.Error(c, "Invalid listing id", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.SoftDelete(c.UserContext(), middleware.CurrentUserID(c), id); err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Listing withdrawn", nil, nil)
}

// Delete DELETE /api/v1/listings/:id. Owner or admin.
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, ok := listingID(c)
	if !ok {
		return response.Error(c, "Invalid listing id", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.HardDelete(c.UserContext(), middleware.CurrentUserID(c), middleware.IsAdmin(c), id); err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Listing deleted", nil, nil)
}

// Events GET /api/v1/listings/:id/events. Owner or admin.
func (h *Handlers) Events(c *fiber.Ctx) error {
	id, ok := listingID(c)
	if !ok {
		return response.Error(c, "Invalid listing id", fiber.StatusBadRequest, nil)
	}
	user := middleware.CurrentUserID(c)
	admin := middleware.IsAdmin(c)
	l, err := h.Service.Get(c.UserContext(), id, user, admin)
	if err != nil {
		return mapError(c, err)
	}
	if !admin && l.OwnerID != user {
		return mapError(c, listsvc.ErrNotOwner)
	}
	events, err := h.Service.Events(c.UserContext(), id)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Listing events fetched", fiber.Map{"events": events}, nil)
}

func listingID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

var errorStatus = map[error]int{
	listsvc.ErrTitleRequired:       fiber.StatusBadRequest,
	listsvc.ErrPriceRequired:       fiber.StatusBadRequest,
	listsvc.ErrLocationRequired:    fiber.StatusBadRequest,
	listsvc.ErrInvalidMarketType:   fiber.StatusBadRequest,
	listsvc.ErrInvalidPropertyType: fiber.StatusBadRequest,
	listsvc.ErrInvalidFurnishing:   fiber.StatusBadRequest,
	listsvc.ErrInvalidCoordinates:  fiber.StatusBadRequest,
	listsvc.ErrInvalidRooms:        fiber.StatusBadRequest,
	listsvc.ErrInvalidImageURL:     fiber.StatusBadRequest,
	listsvc.ErrListingNotFound:     fiber.StatusNotFound,
	listsvc.ErrOwnerNotFound:       fiber.StatusNotFound,
	listsvc.ErrNotOwner:            fiber.StatusForbidden,
}

func mapError(c *fiber.Ctx, err error) error {
	for target, status := range errorStatus {
		if errors.Is(err, target) {
			return response.Error(c, target.Error(), status, nil)
		}
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("listing request failed")
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}
