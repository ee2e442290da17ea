package kyc

import (
	"errors"
	"strconv"

	kycsvc "homescout-backend/internal/application/kyc"
	"homescout-backend/internal/middleware"
	"homescout-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *kycsvc.Service
}

// Submit POST /api/v1/kyc
func (h *Handlers) Submit(c *fiber.Ctx) error {
	var in kycsvc.SubmitInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	sub, err := h.Service.Submit(c.UserContext(), middleware.CurrentUserID(c), in)
	if err != nil {
		return mapError(c, err)
	}
	return response.SuccessCreated(c, "KYC submitted for review", fiber.Map{"submission": sub}, nil)
}

// Status GET /api/v1/kyc/status
func (h *Handlers) Status(c *fiber.Ctx) error {
	sub, err := h.Service.Status(c.UserContext(), middleware.CurrentUserID(c))
	if errors.Is(err, kycsvc.ErrSubmissionNotFound) {
		return response.Success(c, "No KYC submission yet", fiber.Map{"submission": nil, "status": "NotSubmitted"}, nil)
	}
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "KYC status fetched", fiber.Map{"submission": sub, "status": sub.Status}, nil)
}

// Pending GET /api/v1/admin/kyc/pending
func (h *Handlers) Pending(c *fiber.Ctx) error {
	out, err := h.Service.ListPending(c.UserContext())
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Pending KYC submissions fetched", fiber.Map{"submissions": out}, fiber.Map{"count": len(out)})
}

// Approve POST /api/v1/admin/kyc/:id/approve
func (h *Handlers) Approve(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.Error(c, "Invalid submission id", fiber.StatusBadRequest, nil)
	}
	sub, err := h.Service.Approve(c.UserContext(), middleware.CurrentUserID(c), uint(id))
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "KYC approved", fiber.Map{"submission": sub}, nil)
}

// Reject POST /api/v1/admin/kyc/:id/reject
func (h *Handlers) Reject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return response.Error(c, "Invalid submission id", fiber.StatusBadRequest, nil)
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	sub, err := h.Service.Reject(c.UserContext(), middleware.CurrentUserID(c), uint(id), body.Reason)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "KYC rejected", fiber.Map{"submission": sub}, nil)
}

var errorStatus = map[error]int{
	kycsvc.ErrInvalidFullname:       fiber.StatusBadRequest,
	kycsvc.ErrInvalidDateOfBirth:    fiber.StatusBadRequest,
	kycsvc.ErrUnderage:              fiber.StatusBadRequest,
	kycsvc.ErrAddressRequired:       fiber.StatusBadRequest,
	kycsvc.ErrInvalidPhone:          fiber.StatusBadRequest,
	kycsvc.ErrInvalidDocumentType:   fiber.StatusBadRequest,
	kycsvc.ErrInvalidDocumentNumber: fiber.StatusBadRequest,
	kycsvc.ErrInvalidDocumentURL:    fiber.StatusBadRequest,
	kycsvc.ErrReasonRequired:        fiber.StatusBadRequest,
	kycsvc.ErrActiveSubmission:      fiber.StatusConflict,
	kycsvc.ErrAlreadyReviewed:       fiber.StatusConflict,
	kycsvc.ErrSubmissionNotFound:    fiber.StatusNotFound,
}

func mapError(c *fiber.Ctx, err error) error {
	for target, status := range errorStatus {
		if errors.Is(err, target) {
			return response.Error(c, target.Error(), status, nil)
		}
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("kyc request failed")
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}
