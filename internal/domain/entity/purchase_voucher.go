package entity

import "time"

// PurchaseVoucher is an optional internal voucher a receipt can link to.
type PurchaseVoucher struct {
	ID            string
	VoucherNumber string
	VoucherDate   time.Time
	Description   string
	CreatedAt     time.Time
}
