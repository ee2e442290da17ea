package nearby

import (
	"errors"
	"strconv"

	nearbysvc "homescout-backend/internal/application/nearby"
	"homescout-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *nearbysvc.Service
}

// Nearby GET /api/v1/nearby?lat=..&lon=..&radius=..
// radius is in meters and optional.
func (h *Handlers) Nearby(c *fiber.Ctx) error {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		return response.Error(c, "lat and lon are required", fiber.StatusBadRequest, nil)
	}
	res, err := h.Service.Nearby(c.UserContext(), lat, lon, c.QueryInt("radius"))
	if err != nil {
		if errors.Is(err, nearbysvc.ErrInvalidCoordinates) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		log.Error().Err(err).Msg("nearby lookup failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Nearby places fetched", res, fiber.Map{"generated": res.Generated})
}
