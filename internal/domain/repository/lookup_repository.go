package repository

import (
	"context"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
)

// LookupRepository reads the four receipt classification enumerations
// (externally owned reference data).
type LookupRepository interface {
	// GetName returns the display name for an enumeration id, or "" when
	// the id does not exist.
	GetName(ctx context.Context, kind string, id int64) (string, error)
	List(ctx context.Context, kind string) ([]entity.LookupEntry, error)
}
