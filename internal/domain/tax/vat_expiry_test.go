package tax_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/tax"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsVATExpired_WindowBoundaries(t *testing.T) {
	today := day(2026, time.March, 15)

	cases := []struct {
		name        string
		receiptDate time.Time
		expired     bool
	}{
		{"same day", today, false},
		{"earlier this month", day(2026, time.March, 1), false},
		{"any day of previous month", day(2026, time.February, 1), false},
		{"last day of previous month", day(2026, time.February, 28), false},
		{"last day two months back", day(2026, time.January, 31), true},
		{"first of two months back", day(2026, time.January, 1), true},
		{"a year ago", day(2025, time.March, 15), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expired, tax.IsVATExpired(c.receiptDate, today))
		})
	}
}

func TestIsVATExpired_YearBoundary(t *testing.T) {
	// In January the previous month is December of the prior year.
	today := day(2026, time.January, 10)

	assert.False(t, tax.IsVATExpired(day(2025, time.December, 1), today),
		"December receipts are still claimable in January")
	assert.True(t, tax.IsVATExpired(day(2025, time.November, 30), today),
		"November receipts have expired by January")
}

func TestClaimableAndNonClaimableVAT_Partition(t *testing.T) {
	today := day(2026, time.June, 20)
	amount := dec("450.75")

	fresh := day(2026, time.June, 1)
	assert.True(t, tax.ClaimableVAT(amount, fresh, today).Equal(amount))
	assert.True(t, tax.NonClaimableVAT(amount, fresh, today).IsZero())

	stale := day(2026, time.March, 1)
	assert.True(t, tax.ClaimableVAT(amount, stale, today).IsZero())
	assert.True(t, tax.NonClaimableVAT(amount, stale, today).Equal(amount))
}
