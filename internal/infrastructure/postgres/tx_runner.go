package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mikiyas-t/etax-receipts-api/internal/application/receipts"
)

var _ receipts.TxRunner = (*TxRunner)(nil)

// TxRunner runs callbacks inside one PostgreSQL transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner over the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunReceipts begins a transaction, hands fn repositories bound to it, and
// commits or rolls back as one unit.
func (r *TxRunner) RunReceipts(ctx context.Context, fn func(tr receipts.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := receipts.TxRepos{
		Contacts:     NewContactRepository(tx),
		Items:        NewItemRepository(tx),
		Receipts:     NewReceiptRepository(tx),
		Documents:    NewDocumentRepository(tx),
		Drafts:       NewDraftRepository(tx),
		Withholdings: NewWithholdingRepository(tx),
		Vouchers:     NewPurchaseVoucherRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
