package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/repository"
)

var _ repository.ContactRepository = (*ContactRepo)(nil)

// ContactRepo implements ContactRepository (works with pool or tx).
type ContactRepo struct {
	q Querier
}

// NewContactRepository builds the adapter. Pass a pool or a tx (Querier).
func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

// Create persists a contact.
func (r *ContactRepo) Create(ctx context.Context, c *entity.Contact) error {
	query := `
		INSERT INTO contacts (id, name, tin_number, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, strings.TrimSpace(c.TIN), nullIfEmpty(c.Address), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("contact TIN already exists: %w", err)
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// Update refreshes the mutable fields of a contact.
func (r *ContactRepo) Update(ctx context.Context, c *entity.Contact) error {
	query := `
		UPDATE contacts
		SET name       = $2,
		    address    = COALESCE($3, address),
		    updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, c.ID, c.Name, nullIfEmpty(c.Address), c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return nil
}

// GetByID fetches a contact by id, (nil, nil) when absent.
func (r *ContactRepo) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	query := `
		SELECT id, name, tin_number, COALESCE(address, ''), created_at, updated_at
		FROM contacts WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetByTIN fetches a contact by TIN, (nil, nil) when absent.
func (r *ContactRepo) GetByTIN(ctx context.Context, tin string) (*entity.Contact, error) {
	query := `
		SELECT id, name, tin_number, COALESCE(address, ''), created_at, updated_at
		FROM contacts WHERE tin_number = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, strings.TrimSpace(tin)))
}

func (r *ContactRepo) scanOne(row pgx.Row) (*entity.Contact, error) {
	var c entity.Contact
	err := row.Scan(&c.ID, &c.Name, &c.TIN, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &c, nil
}
