package repository

import (
	"context"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
)

// DocumentRepository is the persistence port for uploaded source documents
// and their reconciliation join rows.
type DocumentRepository interface {
	CreateMain(ctx context.Context, d *entity.MainReceiptDocument) error
	CreateWithholdingDocument(ctx context.Context, d *entity.WithholdingReceiptDocument) error
	CreateReceiptDocument(ctx context.Context, d *entity.ReceiptDocument) error

	// GetMainByNumber / GetMainByNumberFold list main documents whose stored
	// number matches exactly / case-insensitively.
	GetMainByNumber(ctx context.Context, receiptNumber string) ([]*entity.MainReceiptDocument, error)
	GetMainByNumberFold(ctx context.Context, receiptNumber string) ([]*entity.MainReceiptDocument, error)
	GetMainByHash(ctx context.Context, companyTIN, contentHash string) (*entity.MainReceiptDocument, error)

	// FindUnlinked returns the join row for a main document that is still
	// status='uploaded' with no linked receipt, scoped to the company.
	FindUnlinked(ctx context.Context, mainDocumentID, forCompanyID string) (*entity.ReceiptDocument, error)

	// Claim links a receipt to the document iff it is still unlinked and
	// uploaded, as one conditional update. Returns false when another
	// caller already claimed it.
	Claim(ctx context.Context, receiptDocumentID, receiptID string) (bool, error)

	ListByCompany(ctx context.Context, forCompanyID, status string) ([]*entity.ReceiptDocument, error)
}
