package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implements DocumentRepository (works with pool or tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository builds the adapter. Pass a pool or a tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

// CreateMain persists main document metadata.
func (r *DocumentRepo) CreateMain(ctx context.Context, d *entity.MainReceiptDocument) error {
	query := `
		INSERT INTO main_receipt_documents (id, receipt_number, company_tin, filename, content_type, content_hash, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.ReceiptNumber, d.CompanyTIN, nullIfEmpty(d.Filename), nullIfEmpty(d.ContentType), d.ContentHash, d.UploadedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("document already uploaded: %w", err)
		}
		return fmt.Errorf("insert main document: %w", err)
	}
	return nil
}

// CreateWithholdingDocument persists withholding certificate metadata.
func (r *DocumentRepo) CreateWithholdingDocument(ctx context.Context, d *entity.WithholdingReceiptDocument) error {
	query := `
		INSERT INTO withholding_receipt_documents (id, withholding_receipt_number, company_tin, filename, content_type, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.WithholdingReceiptNumber, d.CompanyTIN, nullIfEmpty(d.Filename), nullIfEmpty(d.ContentType), d.UploadedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("withholding document already uploaded: %w", err)
		}
		return fmt.Errorf("insert withholding document: %w", err)
	}
	return nil
}

// CreateReceiptDocument opens the reconciliation join row.
func (r *DocumentRepo) CreateReceiptDocument(ctx context.Context, d *entity.ReceiptDocument) error {
	query := `
		INSERT INTO receipt_documents (id, main_document_id, withholding_document_id, linked_receipt_id,
		                               uploaded_by_contact_id, for_company_id, notes, status, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.MainDocumentID, nullIfEmpty(d.WithholdingDocumentID), nullIfEmpty(d.LinkedReceiptID),
		d.UploadedByContactID, d.ForCompanyID, nullIfEmpty(d.Notes), d.Status, d.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("insert receipt document: %w", err)
	}
	return nil
}

const mainDocColumns = `
	id, receipt_number, company_tin, COALESCE(filename, ''), COALESCE(content_type, ''), content_hash, uploaded_at`

// GetMainByNumber lists main documents whose stored number matches exactly.
func (r *DocumentRepo) GetMainByNumber(ctx context.Context, receiptNumber string) ([]*entity.MainReceiptDocument, error) {
	query := `SELECT ` + mainDocColumns + ` FROM main_receipt_documents WHERE receipt_number = $1 ORDER BY uploaded_at`
	return r.listMain(ctx, query, receiptNumber)
}

// GetMainByNumberFold lists main documents matching case-insensitively.
func (r *DocumentRepo) GetMainByNumberFold(ctx context.Context, receiptNumber string) ([]*entity.MainReceiptDocument, error) {
	query := `SELECT ` + mainDocColumns + ` FROM main_receipt_documents WHERE lower(receipt_number) = lower($1) ORDER BY uploaded_at`
	return r.listMain(ctx, query, receiptNumber)
}

// GetMainByHash fetches the company's document with this content hash,
// (nil, nil) when absent.
func (r *DocumentRepo) GetMainByHash(ctx context.Context, companyTIN, contentHash string) (*entity.MainReceiptDocument, error) {
	query := `SELECT ` + mainDocColumns + ` FROM main_receipt_documents WHERE company_tin = $1 AND content_hash = $2`
	var d entity.MainReceiptDocument
	err := r.q.QueryRow(ctx, query, companyTIN, contentHash).Scan(
		&d.ID, &d.ReceiptNumber, &d.CompanyTIN, &d.Filename, &d.ContentType, &d.ContentHash, &d.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document by hash: %w", err)
	}
	return &d, nil
}

// FindUnlinked returns the company's still-claimable join row for a main
// document, (nil, nil) when none.
func (r *DocumentRepo) FindUnlinked(ctx context.Context, mainDocumentID, forCompanyID string) (*entity.ReceiptDocument, error) {
	query := `
		SELECT rd.id, rd.main_document_id, COALESCE(rd.withholding_document_id::text, ''), COALESCE(rd.linked_receipt_id::text, ''),
		       rd.uploaded_by_contact_id, rd.for_company_id, COALESCE(rd.notes, ''), rd.status, rd.uploaded_at,
		       md.receipt_number
		FROM receipt_documents rd
		JOIN main_receipt_documents md ON md.id = rd.main_document_id
		WHERE rd.main_document_id = $1 AND rd.for_company_id = $2
		  AND rd.linked_receipt_id IS NULL AND rd.status = 'uploaded'`
	rd, err := scanReceiptDocument(r.q.QueryRow(ctx, query, mainDocumentID, forCompanyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find unlinked document: %w", err)
	}
	return rd, nil
}

// Claim links the receipt in one conditional update: only an unlinked row
// still in status 'uploaded' is taken, so exactly one concurrent caller wins.
func (r *DocumentRepo) Claim(ctx context.Context, receiptDocumentID, receiptID string) (bool, error) {
	query := `
		UPDATE receipt_documents
		SET linked_receipt_id = $2, status = 'processed'
		WHERE id = $1 AND linked_receipt_id IS NULL AND status = 'uploaded'`
	tag, err := r.q.Exec(ctx, query, receiptDocumentID, receiptID)
	if err != nil {
		return false, fmt.Errorf("claim document: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByCompany lists the company's join rows, optionally filtered by
// status, newest first.
func (r *DocumentRepo) ListByCompany(ctx context.Context, forCompanyID, status string) ([]*entity.ReceiptDocument, error) {
	query := `
		SELECT rd.id, rd.main_document_id, COALESCE(rd.withholding_document_id::text, ''), COALESCE(rd.linked_receipt_id::text, ''),
		       rd.uploaded_by_contact_id, rd.for_company_id, COALESCE(rd.notes, ''), rd.status, rd.uploaded_at,
		       md.receipt_number
		FROM receipt_documents rd
		JOIN main_receipt_documents md ON md.id = rd.main_document_id
		WHERE rd.for_company_id = $1`
	args := []any{forCompanyID}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND rd.status = $%d", len(args))
	}
	query += " ORDER BY rd.uploaded_at DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list receipt documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReceiptDocument
	for rows.Next() {
		rd, err := scanReceiptDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt document: %w", err)
		}
		list = append(list, rd)
	}
	return list, rows.Err()
}

func (r *DocumentRepo) listMain(ctx context.Context, query string, args ...any) ([]*entity.MainReceiptDocument, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list main documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.MainReceiptDocument
	for rows.Next() {
		var d entity.MainReceiptDocument
		if err := rows.Scan(&d.ID, &d.ReceiptNumber, &d.CompanyTIN, &d.Filename, &d.ContentType, &d.ContentHash, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan main document: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

func scanReceiptDocument(row pgx.Row) (*entity.ReceiptDocument, error) {
	var rd entity.ReceiptDocument
	err := row.Scan(
		&rd.ID, &rd.MainDocumentID, &rd.WithholdingDocumentID, &rd.LinkedReceiptID,
		&rd.UploadedByContactID, &rd.ForCompanyID, &rd.Notes, &rd.Status, &rd.UploadedAt,
		&rd.MainReceiptNumber,
	)
	if err != nil {
		return nil, err
	}
	return &rd, nil
}
