package receipts

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikiyas-t/etax-receipts-api/internal/application/dto"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// ValidationError is a field-scoped validation failure. Always recoverable
// by resubmitting corrected input. errors.Is(err, domain.ErrInvalidInput)
// holds.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is makes validation failures matchable against the domain sentinel.
func (e *ValidationError) Is(target error) bool { return target == domain.ErrInvalidInput }

// validateCreate checks the form before any write happens and normalizes
// it in place (trimmed number, canonical item/tax types). Pure: it never
// touches contact or item tables.
func validateCreate(callerTIN string, in *dto.CreateReceiptRequest) (time.Time, error) {
	if !entity.ValidTIN(callerTIN) {
		return time.Time{}, &ValidationError{Field: "caller_tin", Message: "TIN must be exactly 10 digits"}
	}

	in.ReceiptNumber = strings.TrimSpace(in.ReceiptNumber)
	if in.ReceiptNumber == "" {
		return time.Time{}, &ValidationError{Field: "receipt_number", Message: "required"}
	}
	receiptDate, err := time.Parse(dateLayout, in.ReceiptDate)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "receipt_date", Message: "must be YYYY-MM-DD"}
	}
	if in.CalendarType != "" && in.CalendarType != entity.CalendarGregorian && in.CalendarType != entity.CalendarEthiopian {
		return time.Time{}, &ValidationError{Field: "calendar_type", Message: "must be gregorian or ethiopian"}
	}

	for _, party := range []struct {
		field string
		tin   string
	}{
		{"issued_by_details.tin_number", in.IssuedBy.TIN},
		{"issued_to_details.tin_number", in.IssuedTo.TIN},
	} {
		if !entity.ValidTIN(party.tin) {
			return time.Time{}, &ValidationError{Field: party.field, Message: "TIN must be exactly 10 digits"}
		}
	}
	in.IssuedBy.TIN = strings.TrimSpace(in.IssuedBy.TIN)
	in.IssuedTo.TIN = strings.TrimSpace(in.IssuedTo.TIN)

	if len(in.Items) == 0 {
		return time.Time{}, &ValidationError{Field: "items", Message: "at least one line item is required"}
	}
	for i := range in.Items {
		item := &in.Items[i]
		item.ItemType = normalizeItemType(item.ItemType)
		item.TaxType = strings.ToUpper(strings.TrimSpace(item.TaxType))
		if item.Quantity.IsZero() || item.Quantity.IsNegative() {
			return time.Time{}, &ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "must be positive"}
		}
		if item.UnitCost.IsNegative() || item.AmountPerUnit.IsNegative() {
			return time.Time{}, &ValidationError{Field: fmt.Sprintf("items[%d].unit_cost", i), Message: "must not be negative"}
		}
		if item.DiscountAmount.IsNegative() {
			return time.Time{}, &ValidationError{Field: fmt.Sprintf("items[%d].discount_amount", i), Message: "must not be negative"}
		}
	}
	return receiptDate, nil
}

// normalizeItemType folds the two observed spellings of the service
// classification ("service" and "services") into the canonical enum.
func normalizeItemType(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case entity.ItemTypeGoods:
		return entity.ItemTypeGoods
	case entity.ItemTypeService, "services":
		return entity.ItemTypeService
	default:
		return strings.ToLower(strings.TrimSpace(s))
	}
}
