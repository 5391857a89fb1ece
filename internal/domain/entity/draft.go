package entity

import "time"

// Draft lifecycle.
const (
	DraftStatusDraft     = "draft"
	DraftStatusSubmitted = "submitted"
	DraftStatusDiscarded = "discarded"
)

// DraftReceipt holds a partially completed receipt form so a clerk's
// session survives a crash. One draft per (company, uploaded document
// number). Revision is the optimistic-concurrency counter: incremented on
// every successful save, and the only concurrency primitive for drafts.
type DraftReceipt struct {
	ID                     string
	CompanyID              string
	UploadedDocumentNumber string // number from the upload, e.g. "246"
	ReceiptNumber          string // number the clerk is creating, e.g. "FS246"
	Data                   []byte // opaque JSON form blob, intentionally schemaless
	Status                 string
	Revision               int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
