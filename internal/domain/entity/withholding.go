package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Withholding is a tax-authority withholding record, either supplied by the
// clerk or auto-generated from the receipt subtotal when withholding
// applies and no explicit payload was given.
type Withholding struct {
	ID                       string
	WithholdingReceiptNumber string // unique
	WithholdingReceiptDate   time.Time
	TransactionDescription   string
	SubTotal                 decimal.Decimal
	TaxWithholdingAmount     decimal.Decimal
	BuyerTIN                 string
	SellerTIN                string
	SupplierName             string
	SalesInvoiceNumber       string
	MainReceiptNumber        string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}
