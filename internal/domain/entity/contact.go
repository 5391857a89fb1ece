package entity

import (
	"regexp"
	"strings"
	"time"
)

var tinPattern = regexp.MustCompile(`^\d{10}$`)

// Contact is any party a receipt refers to: the recording company,
// the issuer (seller) or the receiver (buyer). Identified by TIN.
type Contact struct {
	ID        string
	Name      string
	TIN       string // 10-digit taxpayer identification number, unique
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidTIN reports whether s is exactly 10 digits after trimming.
func ValidTIN(s string) bool {
	return tinPattern.MatchString(strings.TrimSpace(s))
}
