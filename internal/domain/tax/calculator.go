package tax

import (
	"github.com/shopspring/decimal"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
)

// Tax rates in percent. TOT depends on the goods/service classification.
var (
	rateVAT        = decimal.NewFromInt(15)
	rateTOTGoods   = decimal.NewFromInt(2)
	rateTOTService = decimal.NewFromInt(10)
	rateZero       = decimal.Zero
	oneHundred     = decimal.NewFromInt(100)
)

// LineInput is one line item as fed into the calculator.
type LineInput struct {
	UnitCost       decimal.Decimal
	Quantity       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxType        string // VAT | TOT | EXEMPTED | other
	ItemType       string // goods | service
}

// Totals aggregates the monetary results for a receipt.
type Totals struct {
	Subtotal          decimal.Decimal
	Tax               decimal.Decimal
	Total             decimal.Decimal
	WithholdingAmount decimal.Decimal
	NetPayable        decimal.Decimal // payable to the supplier: total - withholding
}

// RateFor returns the tax rate in percent for a tax type / item type pair.
// Unrecognized tax types are taxed at zero, matching EXEMPTED.
func RateFor(taxType, itemType string) decimal.Decimal {
	switch taxType {
	case entity.TaxTypeVAT:
		return rateVAT
	case entity.TaxTypeTOT:
		if itemType == entity.ItemTypeGoods {
			return rateTOTGoods
		}
		if itemType == entity.ItemTypeService {
			return rateTOTService
		}
		return rateZero
	default:
		return rateZero
	}
}

// LineTax computes round_half_up(lineTotal * rate / 100, 2dp).
func LineTax(lineTotal, ratePercent decimal.Decimal) decimal.Decimal {
	return RoundMoney(lineTotal.Mul(ratePercent).Div(oneHundred))
}

// RoundMoney rounds to 2 decimal places, half up. decimal.Round rounds
// halves away from zero, which is half-up for the non-negative amounts in
// scope; banker's rounding is deliberately not used.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CalculateTotals is the discount-aware variant used at recording time:
// line_total = unit_cost × quantity - discount. Pure and deterministic.
func CalculateTotals(lines []LineInput, withholdingApplicable bool, policy WithholdingPolicy) Totals {
	return calculate(lines, withholdingApplicable, policy, true)
}

// EstimateTotals is the subtotal-only variant (discounts ignored), used for
// draft summaries before a receipt is recorded.
func EstimateTotals(lines []LineInput, withholdingApplicable bool, policy WithholdingPolicy) Totals {
	return calculate(lines, withholdingApplicable, policy, false)
}

func calculate(lines []LineInput, withholdingApplicable bool, policy WithholdingPolicy, applyDiscount bool) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	lineTotals := make([]decimal.Decimal, len(lines))

	for i, l := range lines {
		lineTotal := l.UnitCost.Mul(l.Quantity)
		if applyDiscount {
			lineTotal = lineTotal.Sub(l.DiscountAmount)
		}
		lineTotals[i] = lineTotal
		subtotal = subtotal.Add(lineTotal)
		tax = tax.Add(LineTax(lineTotal, RateFor(l.TaxType, l.ItemType)))
	}

	total := subtotal.Add(tax)

	withholding := decimal.Zero
	if withholdingApplicable {
		withholding = policy.Amount(subtotal, lines, lineTotals)
	}

	return Totals{
		Subtotal:          subtotal,
		Tax:               tax,
		Total:             total,
		WithholdingAmount: withholding,
		NetPayable:        total.Sub(withholding),
	}
}
