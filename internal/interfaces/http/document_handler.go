package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mikiyas-t/etax-receipts-api/internal/application/documents"
	"github.com/mikiyas-t/etax-receipts-api/internal/application/dto"
)

// DocumentHandler handles uploaded source documents (protected).
type DocumentHandler struct {
	svc *documents.Service
}

// NewDocumentHandler builds the handler.
func NewDocumentHandler(svc *documents.Service) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// Register stores uploaded document metadata and opens the reconciliation
// row. A byte-identical re-upload gets 409.
// POST /api/documents
func (h *DocumentHandler) Register(c *fiber.Ctx) error {
	callerTIN := GetCallerTIN(c)
	if callerTIN == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.RegisterDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	doc, err := h.svc.Register(c.Context(), callerTIN, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// List returns the company's document inbox, optionally filtered by status.
// GET /api/documents?status=
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	callerTIN := GetCallerTIN(c)
	if callerTIN == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	list, err := h.svc.ListInbox(c.Context(), callerTIN, c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Match resolves a clerk-typed receipt number to its uploaded document
// number.
// GET /api/documents/match?receipt_number=
func (h *DocumentHandler) Match(c *fiber.Ctx) error {
	callerTIN := GetCallerTIN(c)
	if callerTIN == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	number := c.Query("receipt_number")
	if number == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "receipt_number required"})
	}
	resp, err := h.svc.MatchNumber(c.Context(), callerTIN, number)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
