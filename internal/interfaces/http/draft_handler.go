package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mikiyas-t/etax-receipts-api/internal/application/drafts"
	"github.com/mikiyas-t/etax-receipts-api/internal/application/dto"
)

// DraftHandler handles draft autosave endpoints (protected).
type DraftHandler struct {
	svc *drafts.Service
}

// NewDraftHandler builds the handler.
func NewDraftHandler(svc *drafts.Service) *DraftHandler {
	return &DraftHandler{svc: svc}
}

// Load returns the draft for a receipt number, creating an empty one on
// first touch.
// GET /api/drafts/load?receipt_number=
func (h *DraftHandler) Load(c *fiber.Ctx) error {
	callerTIN := GetCallerTIN(c)
	if callerTIN == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	number := c.Query("receipt_number")
	if number == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "receipt_number required"})
	}
	draft, err := h.svc.Load(c.Context(), callerTIN, number)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(draft)
}

// Save patches a draft under optimistic concurrency. A stale
// expected_revision gets 409 with the authoritative state in the body.
// PATCH /api/drafts
func (h *DraftHandler) Save(c *fiber.Ctx) error {
	callerTIN := GetCallerTIN(c)
	if callerTIN == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.SaveDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	resp, err := h.svc.Save(c.Context(), callerTIN, in)
	if err != nil {
		var conflict *drafts.ConflictError
		if errors.As(err, &conflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.DraftConflictResponse{
				Code:            "DRAFT_CONFLICT",
				Message:         "draft was modified by another session",
				CurrentRevision: conflict.CurrentRevision,
				CurrentData:     conflict.CurrentData,
			})
		}
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// List returns the company's active drafts.
// GET /api/drafts
func (h *DraftHandler) List(c *fiber.Ctx) error {
	callerTIN := GetCallerTIN(c)
	if callerTIN == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	list, err := h.svc.List(c.Context(), callerTIN)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Discard marks a draft discarded.
// DELETE /api/drafts/:id
func (h *DraftHandler) Discard(c *fiber.Ctx) error {
	callerTIN := GetCallerTIN(c)
	if callerTIN == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id required"})
	}
	if err := h.svc.Discard(c.Context(), callerTIN, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
