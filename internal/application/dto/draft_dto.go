package dto

import (
	"encoding/json"
	"time"
)

// DraftResponse is an autosaved draft with its concurrency revision. Data
// is the opaque form blob exactly as last saved.
type DraftResponse struct {
	DraftID                string          `json:"draft_id"`
	UploadedDocumentNumber string          `json:"uploaded_document_number"`
	ReceiptNumber          string          `json:"receipt_number,omitempty"`
	Data                   json.RawMessage `json:"data"`
	Revision               int             `json:"revision"`
	Status                 string          `json:"status"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// SaveDraftRequest patches a draft. ExpectedRevision, when present, must
// equal the stored revision or the save is rejected with the current state.
type SaveDraftRequest struct {
	ReceiptNumber    string          `json:"receipt_number"`
	ExpectedRevision *int            `json:"expected_revision,omitempty"`
	Patch            json.RawMessage `json:"data"`
}

// SaveDraftResponse returns the revision after a successful save.
type SaveDraftResponse struct {
	Revision int `json:"revision"`
}

// DraftConflictResponse carries the authoritative server state on a
// revision mismatch so the client can merge or overwrite deliberately.
type DraftConflictResponse struct {
	Code            string          `json:"code"`
	Message         string          `json:"message"`
	CurrentRevision int             `json:"current_revision"`
	CurrentData     json.RawMessage `json:"current_data"`
}
