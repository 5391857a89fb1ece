package repository

import (
	"context"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
)

// WithholdingRepository is the persistence port for withholding records.
type WithholdingRepository interface {
	Create(ctx context.Context, w *entity.Withholding) error
}
