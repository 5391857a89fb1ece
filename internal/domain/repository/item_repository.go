package repository

import (
	"context"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
)

// ItemRepository is the persistence port for catalog items.
type ItemRepository interface {
	Create(ctx context.Context, i *entity.Item) error
	Update(ctx context.Context, i *entity.Item) error
	GetByCode(ctx context.Context, itemCode string) (*entity.Item, error)
}
