package postgres

import (
	"context"
	"fmt"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/repository"
)

var _ repository.PurchaseVoucherRepository = (*PurchaseVoucherRepo)(nil)

// PurchaseVoucherRepo implements PurchaseVoucherRepository (works with pool or tx).
type PurchaseVoucherRepo struct {
	q Querier
}

// NewPurchaseVoucherRepository builds the adapter. Pass a pool or a tx (Querier).
func NewPurchaseVoucherRepository(q Querier) *PurchaseVoucherRepo {
	return &PurchaseVoucherRepo{q: q}
}

// Create persists a purchase voucher.
func (r *PurchaseVoucherRepo) Create(ctx context.Context, v *entity.PurchaseVoucher) error {
	query := `
		INSERT INTO purchase_vouchers (id, voucher_number, voucher_date, description, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.VoucherNumber, v.VoucherDate, nullIfEmpty(v.Description), v.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("voucher number already exists: %w", err)
		}
		return fmt.Errorf("insert purchase voucher: %w", err)
	}
	return nil
}
