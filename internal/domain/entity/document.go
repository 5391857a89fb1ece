package entity

import "time"

// Lifecycle of an uploaded source document.
const (
	DocumentStatusUploaded  = "uploaded"
	DocumentStatusProcessed = "processed"
	DocumentStatusRejected  = "rejected"
)

// MainReceiptDocument is the metadata of an uploaded receipt evidence file.
// The binary blob lives in external storage; only the content hash is kept
// here to reject byte-identical re-uploads.
type MainReceiptDocument struct {
	ID            string
	ReceiptNumber string // number as written on the uploaded paper, e.g. "246"
	CompanyTIN    string
	Filename      string
	ContentType   string
	ContentHash   string // MD5 of the uploaded bytes
	UploadedAt    time.Time
}

// WithholdingReceiptDocument is the metadata of an uploaded withholding
// certificate, keyed by (number, company TIN).
type WithholdingReceiptDocument struct {
	ID                       string
	WithholdingReceiptNumber string
	CompanyTIN               string
	Filename                 string
	ContentType              string
	UploadedAt               time.Time
}

// ReceiptDocument joins an uploaded main document (plus optional
// withholding document) to the structured Receipt that is eventually
// recorded for it. Once LinkedReceiptID is set the link is permanent and
// status moves from uploaded to processed.
type ReceiptDocument struct {
	ID                    string
	MainDocumentID        string
	WithholdingDocumentID string // optional
	LinkedReceiptID       string // set exactly once, by the claim update
	UploadedByContactID   string
	ForCompanyID          string
	Notes                 string
	Status                string
	UploadedAt            time.Time

	// MainReceiptNumber mirrors the joined main document's number; filled
	// by queries that join the two tables.
	MainReceiptNumber string
}
