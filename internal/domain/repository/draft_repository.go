package repository

import (
	"context"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
)

// DraftRepository is the persistence port for autosaved receipt drafts.
type DraftRepository interface {
	Create(ctx context.Context, d *entity.DraftReceipt) error
	GetByKey(ctx context.Context, companyID, uploadedDocumentNumber string) (*entity.DraftReceipt, error)
	GetByID(ctx context.Context, id string) (*entity.DraftReceipt, error)

	// UpdateData persists new form data iff the stored revision still equals
	// expectedRevision, bumping the revision by one. Returns false when the
	// row was not updated (revision moved or draft gone).
	UpdateData(ctx context.Context, id string, data []byte, receiptNumber string, expectedRevision int) (bool, error)

	ListByCompany(ctx context.Context, companyID, status string) ([]*entity.DraftReceipt, error)
	SetStatus(ctx context.Context, id, status string) error
	// SetStatusByKey transitions the draft for an uploaded document number,
	// used to retire a draft once its receipt is recorded.
	SetStatusByKey(ctx context.Context, companyID, uploadedDocumentNumber, status string) error
}
