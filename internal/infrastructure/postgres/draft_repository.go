package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/repository"
)

var _ repository.DraftRepository = (*DraftRepo)(nil)

// DraftRepo implements DraftRepository (works with pool or tx).
type DraftRepo struct {
	q Querier
}

// NewDraftRepository builds the adapter. Pass a pool or a tx (Querier).
func NewDraftRepository(q Querier) *DraftRepo {
	return &DraftRepo{q: q}
}

// Create persists a fresh draft at revision 0.
func (r *DraftRepo) Create(ctx context.Context, d *entity.DraftReceipt) error {
	query := `
		INSERT INTO draft_receipts (id, company_id, uploaded_document_number, receipt_number, data, status, revision, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.CompanyID, d.UploadedDocumentNumber, nullIfEmpty(d.ReceiptNumber), d.Data, d.Status, d.Revision,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("draft already exists for document: %w", err)
		}
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

const draftColumns = `
	id, company_id, uploaded_document_number, COALESCE(receipt_number, ''), data, status, revision, created_at, updated_at`

// GetByKey fetches the draft for (company, uploaded document number),
// (nil, nil) when absent.
func (r *DraftRepo) GetByKey(ctx context.Context, companyID, uploadedDocumentNumber string) (*entity.DraftReceipt, error) {
	query := `SELECT ` + draftColumns + ` FROM draft_receipts WHERE company_id = $1 AND uploaded_document_number = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, companyID, uploadedDocumentNumber))
}

// GetByID fetches a draft by id, (nil, nil) when absent.
func (r *DraftRepo) GetByID(ctx context.Context, id string) (*entity.DraftReceipt, error) {
	query := `SELECT ` + draftColumns + ` FROM draft_receipts WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// UpdateData is the optimistic-concurrency save: the row is updated only
// when its revision still equals expectedRevision, bumping it by one.
func (r *DraftRepo) UpdateData(ctx context.Context, id string, data []byte, receiptNumber string, expectedRevision int) (bool, error) {
	query := `
		UPDATE draft_receipts
		SET data           = $2,
		    receipt_number = COALESCE($3, receipt_number),
		    revision       = revision + 1,
		    updated_at     = now()
		WHERE id = $1 AND revision = $4`
	tag, err := r.q.Exec(ctx, query, id, data, nullIfEmpty(receiptNumber), expectedRevision)
	if err != nil {
		return false, fmt.Errorf("update draft: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByCompany lists a company's drafts by status, newest first.
func (r *DraftRepo) ListByCompany(ctx context.Context, companyID, status string) ([]*entity.DraftReceipt, error) {
	query := `SELECT ` + draftColumns + ` FROM draft_receipts WHERE company_id = $1`
	args := []any{companyID}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY updated_at DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()
	var list []*entity.DraftReceipt
	for rows.Next() {
		var d entity.DraftReceipt
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.UploadedDocumentNumber, &d.ReceiptNumber, &d.Data, &d.Status, &d.Revision, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// SetStatus transitions a draft's lifecycle status.
func (r *DraftRepo) SetStatus(ctx context.Context, id, status string) error {
	_, err := r.q.Exec(ctx, `UPDATE draft_receipts SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set draft status: %w", err)
	}
	return nil
}

// SetStatusByKey transitions the draft keyed to an uploaded document
// number. No-op when no draft exists.
func (r *DraftRepo) SetStatusByKey(ctx context.Context, companyID, uploadedDocumentNumber, status string) error {
	query := `UPDATE draft_receipts SET status = $3, updated_at = now() WHERE company_id = $1 AND uploaded_document_number = $2`
	_, err := r.q.Exec(ctx, query, companyID, uploadedDocumentNumber, status)
	if err != nil {
		return fmt.Errorf("set draft status by key: %w", err)
	}
	return nil
}

func (r *DraftRepo) scanOne(row pgx.Row) (*entity.DraftReceipt, error) {
	var d entity.DraftReceipt
	err := row.Scan(&d.ID, &d.CompanyID, &d.UploadedDocumentNumber, &d.ReceiptNumber, &d.Data, &d.Status, &d.Revision, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return &d, nil
}
