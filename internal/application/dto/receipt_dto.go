package dto

import (
	"github.com/shopspring/decimal"
)

// ContactDetails identifies a transaction party by TIN, with the
// name/address used to create or refresh the contact record.
type ContactDetails struct {
	TIN     string `json:"tin_number"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// ReceiptItemRequest is one line of the receipt form. For CRV receipts the
// AmountPerUnit/TotalAmount/ReasonOfReceiving fields apply instead of the
// catalog fields.
type ReceiptItemRequest struct {
	ItemCode          string          `json:"item_code"`
	Description       string          `json:"item_description"`
	UnitOfMeasurement string          `json:"unit_of_measurement"`
	GLAccount         string          `json:"gl_account"`
	Nature            string          `json:"nature"`
	HSCode            string          `json:"hs_code"`
	ItemType          string          `json:"item_type"` // goods | service (accepts "services")
	TaxType           string          `json:"tax_type"`
	HasImportExport   bool            `json:"has_import_export"`
	DeclarationNumber string          `json:"declaration_number"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`

	AmountPerUnit     decimal.Decimal `json:"amount_per_unit"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	ReasonOfReceiving string          `json:"reason_of_receiving"`
}

// PurchaseVoucherRequest is the optional purchase voucher payload.
type PurchaseVoucherRequest struct {
	VoucherNumber string `json:"voucher_number"`
	VoucherDate   string `json:"voucher_date"` // YYYY-MM-DD
	Description   string `json:"description"`
}

// WithholdingRequest is the optional explicit withholding payload. When
// absent and withholding applies, a record is auto-generated.
type WithholdingRequest struct {
	WithholdingReceiptNumber string          `json:"withholding_receipt_number"`
	WithholdingReceiptDate   string          `json:"withholding_receipt_date"` // YYYY-MM-DD
	TransactionDescription   string          `json:"transaction_description"`
	SubTotal                 decimal.Decimal `json:"sub_total"`
	TaxWithholdingAmount     decimal.Decimal `json:"tax_withholding_amount"`
}

// CreateReceiptRequest is the structured receipt form a clerk submits.
type CreateReceiptRequest struct {
	ReceiptNumber string `json:"receipt_number"`
	ReceiptDate   string `json:"receipt_date"` // YYYY-MM-DD
	CalendarType  string `json:"calendar_type"`
	MachineNumber string `json:"machine_number"`

	CategoryID int64 `json:"receipt_category_id"`
	KindID     int64 `json:"receipt_kind_id"`
	TypeID     int64 `json:"receipt_type_id"`
	NameID     int64 `json:"receipt_name_id"`

	RecordedBy *ContactDetails `json:"recorded_by_details"`
	IssuedBy   ContactDetails  `json:"issued_by_details"`
	IssuedTo   ContactDetails  `json:"issued_to_details"`

	IsWithholdingApplicable bool   `json:"is_withholding_applicable"`
	PaymentMethodType       string `json:"payment_method_type"`
	BankName                string `json:"bank_name"`
	ReasonOfReceiving       string `json:"reason_of_receiving"`

	Items           []ReceiptItemRequest    `json:"items"`
	PurchaseVoucher *PurchaseVoucherRequest `json:"purchase_voucher_details"`
	Withholding     *WithholdingRequest     `json:"withholding_details"`
}

// TotalsResponse carries the derived monetary aggregates.
type TotalsResponse struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	Tax               decimal.Decimal `json:"tax"`
	Total             decimal.Decimal `json:"total"`
	WithholdingAmount decimal.Decimal `json:"withholding_amount"`
	NetPayable        decimal.Decimal `json:"net_payable_to_supplier"`
}

// ReceiptResponse is the recorded receipt with derived amounts. Claimable
// and non-claimable VAT are recomputed against the clock on every read.
type ReceiptResponse struct {
	ID                      string          `json:"id"`
	ReceiptNumber           string          `json:"receipt_number"`
	ReceiptDate             string          `json:"receipt_date"`
	CalendarType            string          `json:"calendar_type,omitempty"`
	IssuedByTIN             string          `json:"issued_by_tin"`
	IssuedByName            string          `json:"issued_by_name"`
	IssuedToTIN             string          `json:"issued_to_tin"`
	IssuedToName            string          `json:"issued_to_name"`
	IsWithholdingApplicable bool            `json:"is_withholding_applicable"`
	PaymentMethodType       string          `json:"payment_method_type"`
	Totals                  TotalsResponse  `json:"totals"`
	ClaimableVAT            decimal.Decimal `json:"claimable_vat"`
	NonClaimableVAT         decimal.Decimal `json:"non_claimable_vat"`
	LinkedDocumentNumber    string          `json:"linked_document_number,omitempty"`
	WithholdingNumber       string          `json:"withholding_receipt_number,omitempty"`
}

// ReceiptExistsResponse answers the pre-entry duplicate probe.
type ReceiptExistsResponse struct {
	Exists bool `json:"exists"`
}
