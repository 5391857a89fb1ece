package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mikiyas-t/etax-receipts-api/internal/application/documents"
	"github.com/mikiyas-t/etax-receipts-api/internal/application/drafts"
	"github.com/mikiyas-t/etax-receipts-api/internal/application/lookup"
	"github.com/mikiyas-t/etax-receipts-api/internal/application/receipts"
)

// RouterDeps are the router's dependencies.
type RouterDeps struct {
	Recorder  *receipts.Recorder
	Drafts    *drafts.Service
	Documents *documents.Service
	Lookups   *lookup.Resolver
	JWTSecret string
}

// Router registers the API routes. Everything except /api/lookups requires
// a Bearer token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Reference data (public)
	lookupHandler := NewLookupHandler(deps.Lookups)
	api.Get("/lookups", lookupHandler.List)

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Receipts (protected)
	receiptHandler := NewReceiptHandler(deps.Recorder)
	receiptsGroup := protected.Group("/receipts")
	receiptsGroup.Post("/", receiptHandler.Create)
	receiptsGroup.Get("/", receiptHandler.List)
	receiptsGroup.Get("/exists", receiptHandler.Exists)
	receiptsGroup.Get("/:id", receiptHandler.GetByID)

	// Drafts (protected)
	draftHandler := NewDraftHandler(deps.Drafts)
	draftsGroup := protected.Group("/drafts")
	draftsGroup.Get("/", draftHandler.List)
	draftsGroup.Get("/load", draftHandler.Load)
	draftsGroup.Patch("/", draftHandler.Save)
	draftsGroup.Delete("/:id", draftHandler.Discard)

	// Documents (protected)
	documentHandler := NewDocumentHandler(deps.Documents)
	docsGroup := protected.Group("/documents")
	docsGroup.Post("/", documentHandler.Register)
	docsGroup.Get("/", documentHandler.List)
	docsGroup.Get("/match", documentHandler.Match)
}
