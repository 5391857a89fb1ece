package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/repository"
)

var _ repository.LookupRepository = (*LookupRepo)(nil)

// LookupRepo reads the receipt classification enumerations. All four kinds
// live in one table keyed by kind.
type LookupRepo struct {
	q Querier
}

// NewLookupRepository builds the adapter. Pass a pool or a tx (Querier).
func NewLookupRepository(q Querier) *LookupRepo {
	return &LookupRepo{q: q}
}

// GetName returns the display name for an enumeration id, "" when the id
// does not exist.
func (r *LookupRepo) GetName(ctx context.Context, kind string, id int64) (string, error) {
	var name string
	err := r.q.QueryRow(ctx, `SELECT name FROM receipt_lookups WHERE kind = $1 AND id = $2`, kind, id).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get lookup name: %w", err)
	}
	return name, nil
}

// List returns all entries of one enumeration kind.
func (r *LookupRepo) List(ctx context.Context, kind string) ([]entity.LookupEntry, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM receipt_lookups WHERE kind = $1 ORDER BY id`, kind)
	if err != nil {
		return nil, fmt.Errorf("list lookups: %w", err)
	}
	defer rows.Close()
	var list []entity.LookupEntry
	for rows.Next() {
		var e entity.LookupEntry
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("scan lookup: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
