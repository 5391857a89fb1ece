package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Calendar types for the receipt date as written on the paper document.
const (
	CalendarGregorian = "gregorian"
	CalendarEthiopian = "ethiopian"
)

// Receipt is the aggregate root for a recorded commercial tax receipt.
// Subtotal, tax and total are derived from the lines and never stored;
// ExpiredVAT is denormalized and recomputed on every save.
type Receipt struct {
	ID            string
	RecordedByID  string // company entering the receipt
	IssuedByID    string // seller / vendor
	IssuedToID    string // buyer / customer
	MachineNumber string

	ReceiptNumber string
	ReceiptDate   time.Time
	CalendarType  string

	CategoryID int64
	KindID     int64
	TypeID     int64
	NameID     int64

	IsWithholdingApplicable bool
	PaymentMethodType       string
	BankName                string
	ReasonOfReceiving       string

	PurchaseVoucherID string // optional one-to-one link
	WithholdingID     string // optional link to a withholding record

	ExpiredVAT decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReceiptLine is a single catalog-item line on a receipt.
type ReceiptLine struct {
	ID             string
	ReceiptID      string
	ItemID         string
	Quantity       decimal.Decimal
	UnitCost       decimal.Decimal
	ItemType       string // denormalized from the item for threshold checks
	TaxType        string
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
}

// Subtotal returns quantity × unit cost - discount.
func (l ReceiptLine) Subtotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCost).Sub(l.DiscountAmount)
}

// TotalAfterTax returns the line subtotal plus its tax amount.
func (l ReceiptLine) TotalAfterTax() decimal.Decimal {
	return l.Subtotal().Add(l.TaxAmount)
}
