package tax

import (
	"time"

	"github.com/shopspring/decimal"
)

// IsVATExpired reports whether a receipt's VAT is no longer claimable:
// true when the receipt date falls before the first day of the month
// preceding today's month. VAT is therefore claimable through the end of
// the month following the transaction month (a rolling one-month grace
// window). A function of wall-clock time, never a stored attribute.
func IsVATExpired(receiptDate, today time.Time) bool {
	firstOfPrevMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -1, 0)
	rd := time.Date(receiptDate.Year(), receiptDate.Month(), receiptDate.Day(), 0, 0, 0, 0, today.Location())
	return rd.Before(firstOfPrevMonth)
}

// ClaimableVAT returns the VAT still claimable: zero once expired.
func ClaimableVAT(taxAmount decimal.Decimal, receiptDate, today time.Time) decimal.Decimal {
	if IsVATExpired(receiptDate, today) {
		return decimal.Zero
	}
	return taxAmount
}

// NonClaimableVAT returns the VAT lost to the claim window: the full tax
// once expired, zero otherwise.
func NonClaimableVAT(taxAmount decimal.Decimal, receiptDate, today time.Time) decimal.Decimal {
	if IsVATExpired(receiptDate, today) {
		return taxAmount
	}
	return decimal.Zero
}
