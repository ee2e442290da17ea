package uploads

import (
	"errors"

	uploadsvc "homescout-backend/internal/application/uploads"
	"homescout-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers bundles upload handlers with the service.
type Handlers struct {
	Service *uploadsvc.Service
}

type signRequest struct {
	Folder   string `json:"folder"`
	PublicID string `json:"public_id"`
}

// Sign POST /api/v1/uploads/sign returns signed Cloudinary upload parameters.
func (h *Handlers) Sign(c *fiber.Ctx) error {
	var req signRequest
	if err := c.BodyParser(&req); err != nil || req.Folder == "" {
		return response.Error(c, "folder is required", fiber.StatusBadRequest, nil)
	}

	res, err := h.Service.Sign(req.Folder, req.PublicID)
	switch {
	case errors.Is(err, uploadsvc.ErrInvalidFolder), errors.Is(err, uploadsvc.ErrInvalidPublicID):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	case errors.Is(err, uploadsvc.ErrNotConfigured):
		return response.Error(c, err.Error(), fiber.StatusServiceUnavailable, nil)
	case err != nil:
		log.Error().Err(err).Str("folder", req.Folder).Msg("upload: failed to sign")
		return response.Error(c, "Failed to sign upload", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Upload signed", res, nil)
}
