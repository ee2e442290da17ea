package search

import (
	searchsvc "homescout-backend/internal/application/search"
	"homescout-backend/internal/middleware"
	"homescout-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *searchsvc.Service
}

// Search GET /api/v1/search. Filters come from the query string.
func (h *Handlers) Search(c *fiber.Ctx) error {
	req := searchsvc.RequestFromQuery(func(key string) string { return c.Query(key) })
	return h.run(c, req)
}

// SearchBody POST /api/v1/search. Same as Search with a JSON request.
func (h *Handlers) SearchBody(c *fiber.Ctx) error {
	var req searchsvc.Request
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	return h.run(c, req)
}

func (h *Handlers) run(c *fiber.Ctx, req searchsvc.Request) error {
	res, err := h.Service.Search(c.UserContext(), middleware.CurrentUserID(c), req)
	if err != nil {
		log.Error().Err(err).Msg("search failed")
		return response.Error(c, "Search is temporarily unavailable", fiber.StatusServiceUnavailable, nil)
	}
	msg := "Search completed"
	if res.Empty {
		msg = res.Message
	}
	return response.Success(c, msg, res, fiber.Map{
		"total":  res.Total,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}

// History GET /api/v1/search/history
func (h *Handlers) History(c *fiber.Ctx) error {
	user := middleware.CurrentUserID(c)
	if user == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	out, err := h.Service.History(c.UserContext(), user, c.QueryInt("limit"))
	if err != nil {
		log.Error().Err(err).Msg("search history read failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Search history fetched", fiber.Map{"history": out}, nil)
}

// ClearHistory DELETE /api/v1/search/history
func (h *Handlers) ClearHistory(c *fiber.Ctx) error {
	user := middleware.CurrentUserID(c)
	if user == uuid.Nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	n, err := h.Service.ClearHistory(c.UserContext(), user)
	if err != nil {
		log.Error().Err(err).Msg("search history clear failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Search history cleared", fiber.Map{"deleted": n}, nil)
}
