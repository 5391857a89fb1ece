package postgres

import (
	"context"
	"fmt"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/repository"
)

var _ repository.WithholdingRepository = (*WithholdingRepo)(nil)

// WithholdingRepo implements WithholdingRepository (works with pool or tx).
type WithholdingRepo struct {
	q Querier
}

// NewWithholdingRepository builds the adapter. Pass a pool or a tx (Querier).
func NewWithholdingRepository(q Querier) *WithholdingRepo {
	return &WithholdingRepo{q: q}
}

// Create persists a withholding record.
func (r *WithholdingRepo) Create(ctx context.Context, w *entity.Withholding) error {
	query := `
		INSERT INTO withholdings (id, withholding_receipt_number, withholding_receipt_date, transaction_description,
		                          sub_total, tax_withholding_amount, buyer_tin, seller_tin, supplier_name,
		                          sales_invoice_number, main_receipt_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		w.ID, w.WithholdingReceiptNumber, w.WithholdingReceiptDate, nullIfEmpty(w.TransactionDescription),
		w.SubTotal, w.TaxWithholdingAmount, w.BuyerTIN, w.SellerTIN, nullIfEmpty(w.SupplierName),
		nullIfEmpty(w.SalesInvoiceNumber), w.MainReceiptNumber, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("withholding receipt number already exists: %w", err)
		}
		return fmt.Errorf("insert withholding: %w", err)
	}
	return nil
}
