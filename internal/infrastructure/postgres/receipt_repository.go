package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/repository"
)

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

// ReceiptRepo implements ReceiptRepository (works with pool or tx).
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository builds the adapter. Pass a pool or a tx (Querier).
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

// Create persists the receipt header.
func (r *ReceiptRepo) Create(ctx context.Context, rec *entity.Receipt) error {
	query := `
		INSERT INTO receipts (id, recorded_by_id, issued_by_id, issued_to_id, machine_number,
		                      receipt_number, receipt_date, calendar_type,
		                      category_id, kind_id, type_id, name_id,
		                      is_withholding_applicable, payment_method_type, bank_name, reason_of_receiving,
		                      expired_vat, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.RecordedByID, rec.IssuedByID, rec.IssuedToID, nullIfEmpty(rec.MachineNumber),
		rec.ReceiptNumber, rec.ReceiptDate, nullIfEmpty(rec.CalendarType),
		rec.CategoryID, rec.KindID, rec.TypeID, rec.NameID,
		rec.IsWithholdingApplicable, nullIfEmpty(rec.PaymentMethodType), nullIfEmpty(rec.BankName), nullIfEmpty(rec.ReasonOfReceiving),
		rec.ExpiredVAT, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("receipt already recorded: %w", err)
		}
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

// CreateLine persists one catalog-item line.
func (r *ReceiptRepo) CreateLine(ctx context.Context, l *entity.ReceiptLine) error {
	query := `
		INSERT INTO receipt_lines (id, receipt_id, item_id, quantity, unit_cost, item_type, tax_type, tax_amount, discount_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.ReceiptID, l.ItemID, l.Quantity, l.UnitCost, l.ItemType, l.TaxType, l.TaxAmount, l.DiscountAmount,
	)
	if err != nil {
		return fmt.Errorf("insert receipt line: %w", err)
	}
	return nil
}

// CreateCRVItem persists one cash-receipt-voucher line.
func (r *ReceiptRepo) CreateCRVItem(ctx context.Context, c *entity.CRVItem) error {
	query := `
		INSERT INTO crv_items (id, receipt_id, gl_account, nature, quantity, amount_per_unit, total_amount,
		                       declaration_number, reason_of_receiving, has_import_export, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ReceiptID, c.GLAccount, nullIfEmpty(c.Nature), c.Quantity, c.AmountPerUnit, c.TotalAmount,
		nullIfEmpty(c.DeclarationNumber), nullIfEmpty(c.ReasonOfReceiving), c.HasImportExport, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert crv item: %w", err)
	}
	return nil
}

// Exists checks the duplicate-recording tuple.
func (r *ReceiptRepo) Exists(ctx context.Context, recordedByID, issuedByID, receiptNumber string, receiptDate time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM receipts
			WHERE recorded_by_id = $1 AND issued_by_id = $2 AND receipt_number = $3 AND receipt_date = $4
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, recordedByID, issuedByID, receiptNumber, receiptDate).Scan(&exists); err != nil {
		return false, fmt.Errorf("check receipt exists: %w", err)
	}
	return exists, nil
}

const receiptColumns = `
	id, recorded_by_id, issued_by_id, issued_to_id, COALESCE(machine_number, ''),
	receipt_number, receipt_date, COALESCE(calendar_type, ''),
	category_id, kind_id, type_id, name_id,
	is_withholding_applicable, COALESCE(payment_method_type, ''), COALESCE(bank_name, ''), COALESCE(reason_of_receiving, ''),
	COALESCE(purchase_voucher_id::text, ''), COALESCE(withholding_id::text, ''),
	expired_vat, created_at, updated_at`

// GetByID fetches a receipt header, (nil, nil) when absent.
func (r *ReceiptRepo) GetByID(ctx context.Context, id string) (*entity.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE id = $1`
	rec, err := scanReceipt(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	return rec, nil
}

// ListByCompany lists receipts recorded by one company, newest first.
func (r *ReceiptRepo) ListByCompany(ctx context.Context, recordedByID string, f repository.ReceiptFilter) ([]*entity.Receipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts WHERE recorded_by_id = $1`
	args := []any{recordedByID}
	if f.FromDate != nil {
		args = append(args, *f.FromDate)
		query += fmt.Sprintf(" AND receipt_date >= $%d", len(args))
	}
	if f.ToDate != nil {
		args = append(args, *f.ToDate)
		query += fmt.Sprintf(" AND receipt_date <= $%d", len(args))
	}
	if f.IssuedBy != "" {
		args = append(args, f.IssuedBy)
		query += fmt.Sprintf(" AND issued_by_id = $%d", len(args))
	}
	query += " ORDER BY receipt_date DESC, created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Receipt
	for rows.Next() {
		rec, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// ListLines fetches all catalog-item lines of a receipt.
func (r *ReceiptRepo) ListLines(ctx context.Context, receiptID string) ([]*entity.ReceiptLine, error) {
	query := `
		SELECT id, receipt_id, item_id, quantity, unit_cost, item_type, tax_type, tax_amount, discount_amount
		FROM receipt_lines WHERE receipt_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, receiptID)
	if err != nil {
		return nil, fmt.Errorf("list receipt lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReceiptLine
	for rows.Next() {
		var l entity.ReceiptLine
		if err := rows.Scan(&l.ID, &l.ReceiptID, &l.ItemID, &l.Quantity, &l.UnitCost, &l.ItemType, &l.TaxType, &l.TaxAmount, &l.DiscountAmount); err != nil {
			return nil, fmt.Errorf("scan receipt line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ListCRVItems fetches all CRV lines of a receipt.
func (r *ReceiptRepo) ListCRVItems(ctx context.Context, receiptID string) ([]*entity.CRVItem, error) {
	query := `
		SELECT id, receipt_id, gl_account, COALESCE(nature, ''), quantity, amount_per_unit, total_amount,
		       COALESCE(declaration_number, ''), COALESCE(reason_of_receiving, ''), has_import_export,
		       created_at, updated_at
		FROM crv_items WHERE receipt_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, receiptID)
	if err != nil {
		return nil, fmt.Errorf("list crv items: %w", err)
	}
	defer rows.Close()
	var list []*entity.CRVItem
	for rows.Next() {
		var c entity.CRVItem
		if err := rows.Scan(&c.ID, &c.ReceiptID, &c.GLAccount, &c.Nature, &c.Quantity, &c.AmountPerUnit, &c.TotalAmount,
			&c.DeclarationNumber, &c.ReasonOfReceiving, &c.HasImportExport, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan crv item: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// SetWithholding links a withholding record to the receipt.
func (r *ReceiptRepo) SetWithholding(ctx context.Context, receiptID, withholdingID string) error {
	_, err := r.q.Exec(ctx, `UPDATE receipts SET withholding_id = $2, updated_at = now() WHERE id = $1`, receiptID, withholdingID)
	if err != nil {
		return fmt.Errorf("set receipt withholding: %w", err)
	}
	return nil
}

// SetPurchaseVoucher links a purchase voucher to the receipt.
func (r *ReceiptRepo) SetPurchaseVoucher(ctx context.Context, receiptID, voucherID string) error {
	_, err := r.q.Exec(ctx, `UPDATE receipts SET purchase_voucher_id = $2, updated_at = now() WHERE id = $1`, receiptID, voucherID)
	if err != nil {
		return fmt.Errorf("set receipt purchase voucher: %w", err)
	}
	return nil
}

func scanReceipt(row pgx.Row) (*entity.Receipt, error) {
	var rec entity.Receipt
	err := row.Scan(
		&rec.ID, &rec.RecordedByID, &rec.IssuedByID, &rec.IssuedToID, &rec.MachineNumber,
		&rec.ReceiptNumber, &rec.ReceiptDate, &rec.CalendarType,
		&rec.CategoryID, &rec.KindID, &rec.TypeID, &rec.NameID,
		&rec.IsWithholdingApplicable, &rec.PaymentMethodType, &rec.BankName, &rec.ReasonOfReceiving,
		&rec.PurchaseVoucherID, &rec.WithholdingID,
		&rec.ExpiredVAT, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
