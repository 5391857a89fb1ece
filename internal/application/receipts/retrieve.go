package receipts

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mikiyas-t/etax-receipts-api/internal/application/dto"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/repository"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/tax"
)

// ListFilter narrows receipt listings at the service boundary.
type ListFilter struct {
	FromDate    string // YYYY-MM-DD
	ToDate      string // YYYY-MM-DD
	IssuedByTIN string
	Limit       int
	Offset      int
}

// Get returns one receipt with totals recomputed from its stored lines.
// Claimable and non-claimable VAT are evaluated against today's clock, so
// a receipt read after its claim window lapses reports differently than it
// did at recording time.
func (r *Recorder) Get(ctx context.Context, callerTIN, receiptID string) (*dto.ReceiptResponse, error) {
	company, err := r.contacts.GetByTIN(ctx, callerTIN)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	receipt, err := r.receipts.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, domain.ErrNotFound
	}
	if receipt.RecordedByID != company.ID {
		return nil, domain.ErrForbidden
	}
	return r.toResponse(ctx, receipt)
}

// List returns the company's receipts, newest first, with per-receipt
// totals recomputed from stored lines.
func (r *Recorder) List(ctx context.Context, callerTIN string, f ListFilter) ([]dto.ReceiptResponse, error) {
	company, err := r.contacts.GetByTIN(ctx, callerTIN)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	filter := repository.ReceiptFilter{Limit: f.Limit, Offset: f.Offset}
	if f.FromDate != "" {
		from, err := time.Parse(dateLayout, f.FromDate)
		if err != nil {
			return nil, &ValidationError{Field: "from_date", Message: "must be YYYY-MM-DD"}
		}
		filter.FromDate = &from
	}
	if f.ToDate != "" {
		to, err := time.Parse(dateLayout, f.ToDate)
		if err != nil {
			return nil, &ValidationError{Field: "to_date", Message: "must be YYYY-MM-DD"}
		}
		filter.ToDate = &to
	}
	if f.IssuedByTIN != "" {
		issuer, err := r.contacts.GetByTIN(ctx, f.IssuedByTIN)
		if err != nil {
			return nil, err
		}
		if issuer == nil {
			return []dto.ReceiptResponse{}, nil
		}
		filter.IssuedBy = issuer.ID
	}

	rows, err := r.receipts.ListByCompany(ctx, company.ID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReceiptResponse, 0, len(rows))
	for _, receipt := range rows {
		resp, err := r.toResponse(ctx, receipt)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// Exists answers the pre-entry duplicate probe without recording anything.
// Unknown parties mean no receipt can exist yet.
func (r *Recorder) Exists(ctx context.Context, callerTIN, issuedByTIN, receiptNumber, receiptDate string) (*dto.ReceiptExistsResponse, error) {
	date, err := time.Parse(dateLayout, receiptDate)
	if err != nil {
		return nil, &ValidationError{Field: "receipt_date", Message: "must be YYYY-MM-DD"}
	}
	company, err := r.contacts.GetByTIN(ctx, callerTIN)
	if err != nil {
		return nil, err
	}
	issuer, err := r.contacts.GetByTIN(ctx, issuedByTIN)
	if err != nil {
		return nil, err
	}
	if company == nil || issuer == nil {
		return &dto.ReceiptExistsResponse{Exists: false}, nil
	}
	exists, err := r.receipts.Exists(ctx, company.ID, issuer.ID, receiptNumber, date)
	if err != nil {
		return nil, err
	}
	return &dto.ReceiptExistsResponse{Exists: exists}, nil
}

func (r *Recorder) toResponse(ctx context.Context, receipt *entity.Receipt) (*dto.ReceiptResponse, error) {
	issuedBy, err := r.contacts.GetByID(ctx, receipt.IssuedByID)
	if err != nil {
		return nil, err
	}
	issuedTo, err := r.contacts.GetByID(ctx, receipt.IssuedToID)
	if err != nil {
		return nil, err
	}

	totals, err := r.storedTotals(ctx, receipt)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	resp := &dto.ReceiptResponse{
		ID:                      receipt.ID,
		ReceiptNumber:           receipt.ReceiptNumber,
		ReceiptDate:             receipt.ReceiptDate.Format(dateLayout),
		CalendarType:            receipt.CalendarType,
		IsWithholdingApplicable: receipt.IsWithholdingApplicable,
		PaymentMethodType:       receipt.PaymentMethodType,
		Totals: dto.TotalsResponse{
			Subtotal:          totals.Subtotal,
			Tax:               totals.Tax,
			Total:             totals.Total,
			WithholdingAmount: totals.WithholdingAmount,
			NetPayable:        totals.NetPayable,
		},
		ClaimableVAT:    tax.ClaimableVAT(totals.Tax, receipt.ReceiptDate, now),
		NonClaimableVAT: tax.NonClaimableVAT(totals.Tax, receipt.ReceiptDate, now),
	}
	if issuedBy != nil {
		resp.IssuedByTIN = issuedBy.TIN
		resp.IssuedByName = issuedBy.Name
	}
	if issuedTo != nil {
		resp.IssuedToTIN = issuedTo.TIN
		resp.IssuedToName = issuedTo.Name
	}
	return resp, nil
}

// storedTotals rebuilds the monetary aggregates from persisted lines. CRV
// receipts sum their voucher lines with no tax or withholding.
func (r *Recorder) storedTotals(ctx context.Context, receipt *entity.Receipt) (tax.Totals, error) {
	lines, err := r.receipts.ListLines(ctx, receipt.ID)
	if err != nil {
		return tax.Totals{}, err
	}
	if len(lines) == 0 {
		crvItems, err := r.receipts.ListCRVItems(ctx, receipt.ID)
		if err != nil {
			return tax.Totals{}, err
		}
		subtotal := decimal.Zero
		for _, c := range crvItems {
			subtotal = subtotal.Add(c.TotalAmount)
		}
		return tax.Totals{Subtotal: subtotal, Tax: decimal.Zero, Total: subtotal, NetPayable: subtotal}, nil
	}

	subtotal, taxSum := decimal.Zero, decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal())
		taxSum = taxSum.Add(l.TaxAmount)
	}
	withholding := decimal.Zero
	if receipt.IsWithholdingApplicable {
		totals := tax.CalculateTotals(lineInputsFromLines(lines), true, r.policy)
		withholding = totals.WithholdingAmount
	}
	total := subtotal.Add(taxSum)
	return tax.Totals{
		Subtotal:          subtotal,
		Tax:               taxSum,
		Total:             total,
		WithholdingAmount: withholding,
		NetPayable:        total.Sub(withholding),
	}, nil
}

func lineInputsFromLines(lines []*entity.ReceiptLine) []tax.LineInput {
	out := make([]tax.LineInput, len(lines))
	for i, l := range lines {
		out[i] = tax.LineInput{
			UnitCost:       l.UnitCost,
			Quantity:       l.Quantity,
			DiscountAmount: l.DiscountAmount,
			TaxType:        l.TaxType,
			ItemType:       l.ItemType,
		}
	}
	return out
}
