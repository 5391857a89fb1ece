package repository

import (
	"context"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
)

// ContactRepository is the persistence port for Contact. Get methods
// return (nil, nil) when no row matches.
type ContactRepository interface {
	Create(ctx context.Context, c *entity.Contact) error
	Update(ctx context.Context, c *entity.Contact) error
	GetByID(ctx context.Context, id string) (*entity.Contact, error)
	GetByTIN(ctx context.Context, tin string) (*entity.Contact, error)
}
