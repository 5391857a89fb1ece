package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goods/service classification of an item. Drives the TOT rate.
const (
	ItemTypeGoods   = "goods"
	ItemTypeService = "service"
)

// Tax regimes applied per line item.
const (
	TaxTypeVAT      = "VAT"
	TaxTypeTOT      = "TOT"
	TaxTypeExempted = "EXEMPTED"
)

// Item is a catalog entry referenced by receipt lines. Created or updated
// implicitly when a receipt line references an unknown item code.
type Item struct {
	ID                string
	ItemCode          string // SKU or internal code, unique
	Description       string
	UnitOfMeasurement string
	ItemType          string // goods | service
	TaxType           string // VAT | TOT | EXEMPTED
	UnitCost          decimal.Decimal
	GLAccount         string
	Nature            string
	HSCode            string
	HasImportExport   bool
	DeclarationNumber string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
