package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mikiyas-t/etax-receipts-api/internal/application/dto"
	"github.com/mikiyas-t/etax-receipts-api/internal/application/lookup"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
)

// LookupHandler serves the receipt classification enumerations.
type LookupHandler struct {
	resolver *lookup.Resolver
}

// NewLookupHandler builds the handler.
func NewLookupHandler(resolver *lookup.Resolver) *LookupHandler {
	return &LookupHandler{resolver: resolver}
}

// List returns the four enumerations for form dropdowns.
// GET /api/lookups
func (h *LookupHandler) List(c *fiber.Ctx) error {
	all, err := h.resolver.All(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LookupsResponse{
		Categories: toEntries(all[entity.LookupCategory]),
		Kinds:      toEntries(all[entity.LookupKind]),
		Types:      toEntries(all[entity.LookupType]),
		Names:      toEntries(all[entity.LookupName]),
	})
}

func toEntries(in []entity.LookupEntry) []dto.LookupEntryResponse {
	out := make([]dto.LookupEntryResponse, 0, len(in))
	for _, e := range in {
		out = append(out, dto.LookupEntryResponse{ID: e.ID, Name: e.Name})
	}
	return out
}
