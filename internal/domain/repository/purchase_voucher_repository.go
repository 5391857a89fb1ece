package repository

import (
	"context"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
)

// PurchaseVoucherRepository is the persistence port for purchase vouchers.
type PurchaseVoucherRepository interface {
	Create(ctx context.Context, v *entity.PurchaseVoucher) error
}
