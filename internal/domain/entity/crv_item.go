package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CRVItem is the simplified line shape used when the receipt category is
// "CRV" (cash receipt voucher, pure income): quantity × amount per unit.
type CRVItem struct {
	ID                string
	ReceiptID         string
	GLAccount         string
	Nature            string
	Quantity          decimal.Decimal
	AmountPerUnit     decimal.Decimal
	TotalAmount       decimal.Decimal
	DeclarationNumber string
	ReasonOfReceiving string
	HasImportExport   bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Subtotal returns quantity × amount per unit.
func (c CRVItem) Subtotal() decimal.Decimal {
	return c.Quantity.Mul(c.AmountPerUnit)
}
