package messages

import (
	"errors"
	"strconv"

	msgsvc "homescout-backend/internal/application/messages"
	"homescout-backend/internal/middleware"
	"homescout-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service *msgsvc.Service
}

type messageBody struct {
	Body string `json:"body"`
}

// Send POST /api/v1/listings/:id/messages starts or continues the thread about a listing.
func (h *Handlers) Send(c *fiber.Ctx) error {
	listingID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return response.Error(c, "Invalid listing id", fiber.StatusBadRequest, nil)
	}
	var in messageBody
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	conv, msg, err := h.Service.Send(c.UserContext(), middleware.CurrentUserID(c), listingID, in.Body)
	if err != nil {
		return mapError(c, err)
	}
	return response.SuccessCreated(c, "Message sent", fiber.Map{"conversation": conv, "message": msg}, nil)
}

// Reply POST /api/v1/conversations/:id/messages
func (h *Handlers) Reply(c *fiber.Ctx) error {
	id, ok := conversationID(c)
	if !ok {
		return response.Error(c, "Invalid conversation id", fiber.StatusBadRequest, nil)
	}
	var in messageBody
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	msg, err := h.Service.Reply(c.UserContext(), middleware.CurrentUserID(c), id, in.Body)
	if err != nil {
		return mapError(c, err)
	}
	return response.SuccessCreated(c, "Message sent", fiber.Map{"message": msg}, nil)
}

// Conversations GET /api/v1/conversations
func (h *Handlers) Conversations(c *fiber.Ctx) error {
	out, err := h.Service.Conversations(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Conversations fetched", fiber.Map{"conversations": out}, nil)
}

// Messages GET /api/v1/conversations/:id/messages. Reading marks incoming messages read.
func (h *Handlers) Messages(c *fiber.Ctx) error {
	id, ok := conversationID(c)
	if !ok {
		return response.Error(c, "Invalid conversation id", fiber.StatusBadRequest, nil)
	}
	out, err := h.Service.Messages(c.UserContext(), middleware.CurrentUserID(c), id)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Messages fetched", fiber.Map{"messages": out}, nil)
}

// UnreadCount GET /api/v1/conversations/unread-count
func (h *Handlers) UnreadCount(c *fiber.Ctx) error {
	n, err := h.Service.UnreadCount(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "Unread count fetched", fiber.Map{"unread": n}, nil)
}

func conversationID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	return uint(id), err == nil
}

func mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, msgsvc.ErrEmptyBody), errors.Is(err, msgsvc.ErrBodyTooLong), errors.Is(err, msgsvc.ErrOwnListing):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	case errors.Is(err, msgsvc.ErrListingNotFound), errors.Is(err, msgsvc.ErrConversationNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("message request failed")
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}
