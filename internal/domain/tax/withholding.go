package tax

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
)

// WithholdingPolicy is the rule set deciding when and how much tax the
// buyer withholds from the seller's payment. Two rule sets exist in the
// field and disagree on rate and thresholds; the active one is picked by
// configuration and logged at startup so the choice is visible to
// stakeholders rather than hard-coded.
type WithholdingPolicy struct {
	Name             string
	RatePercent      decimal.Decimal
	GoodsThreshold   decimal.Decimal
	ServiceThreshold decimal.Decimal
	// Inclusive: threshold met at subtotal == threshold (>=) instead of >.
	Inclusive bool
}

// The two observed rule sets.
var (
	// WithholdingPolicyStandard: 3% once the receipt subtotal reaches
	// 20,000 for goods or 30,000 for services.
	WithholdingPolicyStandard = WithholdingPolicy{
		Name:             "standard",
		RatePercent:      decimal.NewFromInt(3),
		GoodsThreshold:   decimal.NewFromInt(20000),
		ServiceThreshold: decimal.NewFromInt(30000),
		Inclusive:        true,
	}

	// WithholdingPolicyLegacy: 2% once the subtotal exceeds 10,000 for
	// goods or 3,000 for services.
	WithholdingPolicyLegacy = WithholdingPolicy{
		Name:             "legacy",
		RatePercent:      decimal.NewFromInt(2),
		GoodsThreshold:   decimal.NewFromInt(10000),
		ServiceThreshold: decimal.NewFromInt(3000),
		Inclusive:        false,
	}
)

// PolicyByName resolves a configured policy name.
func PolicyByName(name string) (WithholdingPolicy, error) {
	switch name {
	case WithholdingPolicyStandard.Name, "":
		return WithholdingPolicyStandard, nil
	case WithholdingPolicyLegacy.Name:
		return WithholdingPolicyLegacy, nil
	default:
		return WithholdingPolicy{}, fmt.Errorf("unknown withholding policy %q", name)
	}
}

// Amount computes the withheld amount for a receipt. The threshold is
// checked against the aggregate subtotal using each line's goods/service
// classification, and the rate applies to the line totals whose
// classification met it. A receipt with a single classification therefore
// withholds rate × subtotal once the matching threshold is reached.
// Rounded half up to 2dp.
func (p WithholdingPolicy) Amount(subtotal decimal.Decimal, lines []LineInput, lineTotals []decimal.Decimal) decimal.Decimal {
	base := decimal.Zero
	for i, l := range lines {
		if p.thresholdMet(subtotal, l.ItemType) {
			base = base.Add(lineTotals[i])
		}
	}
	if base.IsZero() {
		return decimal.Zero
	}
	return RoundMoney(base.Mul(p.RatePercent).Div(oneHundred))
}

func (p WithholdingPolicy) thresholdMet(subtotal decimal.Decimal, itemType string) bool {
	var threshold decimal.Decimal
	switch itemType {
	case entity.ItemTypeGoods:
		threshold = p.GoodsThreshold
	case entity.ItemTypeService:
		threshold = p.ServiceThreshold
	default:
		return false
	}
	if p.Inclusive {
		return subtotal.GreaterThanOrEqual(threshold)
	}
	return subtotal.GreaterThan(threshold)
}
