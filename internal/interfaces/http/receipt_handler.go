package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/mikiyas-t/etax-receipts-api/internal/application/dto"
	"github.com/mikiyas-t/etax-receipts-api/internal/application/receipts"
)

// ReceiptHandler handles receipt recording and retrieval (protected).
type ReceiptHandler struct {
	recorder *receipts.Recorder
}

// NewReceiptHandler builds the handler.
func NewReceiptHandler(recorder *receipts.Recorder) *ReceiptHandler {
	return &ReceiptHandler{recorder: recorder}
}

// Create records a receipt with its lines, document link and withholding.
// POST /api/receipts
func (h *ReceiptHandler) Create(c *fiber.Ctx) error {
	callerTIN := GetCallerTIN(c)
	if callerTIN == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.CreateReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	receipt, err := h.recorder.Create(c.Context(), callerTIN, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(receipt)
}

// GetByID returns one receipt with recomputed totals.
// GET /api/receipts/:id
func (h *ReceiptHandler) GetByID(c *fiber.Ctx) error {
	callerTIN := GetCallerTIN(c)
	if callerTIN == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id required"})
	}
	receipt, err := h.recorder.Get(c.Context(), callerTIN, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(receipt)
}

// List returns the company's receipts, filterable by date range and issuer.
// GET /api/receipts?from_date=&to_date=&issued_by_tin=&limit=&offset=
func (h *ReceiptHandler) List(c *fiber.Ctx) error {
	callerTIN := GetCallerTIN(c)
	if callerTIN == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	list, err := h.recorder.List(c.Context(), callerTIN, receipts.ListFilter{
		FromDate:    c.Query("from_date"),
		ToDate:      c.Query("to_date"),
		IssuedByTIN: c.Query("issued_by_tin"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Exists answers the pre-entry duplicate probe.
// GET /api/receipts/exists?issued_by_tin=&receipt_number=&receipt_date=
func (h *ReceiptHandler) Exists(c *fiber.Ctx) error {
	callerTIN := GetCallerTIN(c)
	if callerTIN == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	issuedByTIN := c.Query("issued_by_tin")
	number := c.Query("receipt_number")
	date := c.Query("receipt_date")
	if issuedByTIN == "" || number == "" || date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "issued_by_tin, receipt_number and receipt_date are required"})
	}
	resp, err := h.recorder.Exists(c.Context(), callerTIN, issuedByTIN, number, date)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
