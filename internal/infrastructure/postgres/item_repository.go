package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implements ItemRepository (works with pool or tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository builds the adapter. Pass a pool or a tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persists a catalog item.
func (r *ItemRepo) Create(ctx context.Context, i *entity.Item) error {
	query := `
		INSERT INTO items (id, item_code, description, unit_of_measurement, item_type, tax_type,
		                   unit_cost, gl_account, nature, hs_code, has_import_export, declaration_number,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		i.ID, i.ItemCode, i.Description, i.UnitOfMeasurement, i.ItemType, i.TaxType,
		i.UnitCost, i.GLAccount, nullIfEmpty(i.Nature), nullIfEmpty(i.HSCode),
		i.HasImportExport, nullIfEmpty(i.DeclarationNumber),
		i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("item code already exists: %w", err)
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Update refreshes a catalog item.
func (r *ItemRepo) Update(ctx context.Context, i *entity.Item) error {
	query := `
		UPDATE items
		SET description         = $2,
		    unit_of_measurement = $3,
		    item_type           = $4,
		    tax_type            = $5,
		    unit_cost           = $6,
		    gl_account          = $7,
		    nature              = COALESCE($8, nature),
		    hs_code             = COALESCE($9, hs_code),
		    has_import_export   = $10,
		    declaration_number  = COALESCE($11, declaration_number),
		    updated_at          = $12
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		i.ID, i.Description, i.UnitOfMeasurement, i.ItemType, i.TaxType,
		i.UnitCost, i.GLAccount, nullIfEmpty(i.Nature), nullIfEmpty(i.HSCode),
		i.HasImportExport, nullIfEmpty(i.DeclarationNumber), i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// GetByCode fetches an item by code, (nil, nil) when absent.
func (r *ItemRepo) GetByCode(ctx context.Context, itemCode string) (*entity.Item, error) {
	query := `
		SELECT id, item_code, description, unit_of_measurement, item_type, tax_type,
		       unit_cost, gl_account, COALESCE(nature, ''), COALESCE(hs_code, ''),
		       has_import_export, COALESCE(declaration_number, ''),
		       created_at, updated_at
		FROM items WHERE item_code = $1`
	var i entity.Item
	err := r.q.QueryRow(ctx, query, itemCode).Scan(
		&i.ID, &i.ItemCode, &i.Description, &i.UnitOfMeasurement, &i.ItemType, &i.TaxType,
		&i.UnitCost, &i.GLAccount, &i.Nature, &i.HSCode,
		&i.HasImportExport, &i.DeclarationNumber,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &i, nil
}
