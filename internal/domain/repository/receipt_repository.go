package repository

import (
	"context"
	"time"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
)

// ReceiptFilter narrows receipt listings.
type ReceiptFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	IssuedBy string // contact id
	Limit    int
	Offset   int
}

// ReceiptRepository is the persistence port for the receipt aggregate.
type ReceiptRepository interface {
	Create(ctx context.Context, r *entity.Receipt) error
	CreateLine(ctx context.Context, l *entity.ReceiptLine) error
	CreateCRVItem(ctx context.Context, c *entity.CRVItem) error
	// Exists checks the (recorded_by, issued_by, receipt_number, receipt_date)
	// uniqueness tuple.
	Exists(ctx context.Context, recordedByID, issuedByID, receiptNumber string, receiptDate time.Time) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.Receipt, error)
	ListByCompany(ctx context.Context, recordedByID string, f ReceiptFilter) ([]*entity.Receipt, error)
	ListLines(ctx context.Context, receiptID string) ([]*entity.ReceiptLine, error)
	ListCRVItems(ctx context.Context, receiptID string) ([]*entity.CRVItem, error)
	SetWithholding(ctx context.Context, receiptID, withholdingID string) error
	SetPurchaseVoucher(ctx context.Context, receiptID, voucherID string) error
}
