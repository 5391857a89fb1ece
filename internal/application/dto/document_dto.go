package dto

import "time"

// RegisterDocumentRequest registers the metadata of an uploaded source
// document. Content is the raw bytes (base64 in JSON); only its hash is
// stored; the blob itself lives in external storage.
type RegisterDocumentRequest struct {
	ReceiptNumber string `json:"receipt_number"`
	Filename      string `json:"filename"`
	ContentType   string `json:"content_type"`
	Content       []byte `json:"content"`
	Notes         string `json:"notes"`

	WithholdingReceiptNumber string `json:"withholding_receipt_number"`
	WithholdingFilename      string `json:"withholding_filename"`
	WithholdingContentType   string `json:"withholding_content_type"`
}

// DocumentResponse is one inbox entry: an uploaded document awaiting (or
// done with) reconciliation.
type DocumentResponse struct {
	ID                string    `json:"id"`
	ReceiptNumber     string    `json:"receipt_number"`
	Status            string    `json:"status"`
	LinkedReceiptID   string    `json:"linked_receipt_id,omitempty"`
	WithholdingNumber string    `json:"withholding_receipt_number,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	UploadedAt        time.Time `json:"uploaded_at"`
}

// MatchDocumentResponse is the result of resolving a clerk-typed number
// against the uploaded, unlinked documents.
type MatchDocumentResponse struct {
	MatchedDocumentNumber string `json:"matched_document_number"`
}
