package receipts

import (
	"context"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain/repository"
)

// TxRepos bundles the repositories rebound to one database transaction for
// the recording flow.
type TxRepos struct {
	Contacts     repository.ContactRepository
	Items        repository.ItemRepository
	Receipts     repository.ReceiptRepository
	Documents    repository.DocumentRepository
	Drafts       repository.DraftRepository
	Withholdings repository.WithholdingRepository
	Vouchers     repository.PurchaseVoucherRepository
}

// TxRunner runs fn inside a single transaction: every write fn performs
// through the bound repositories commits or rolls back as one unit.
type TxRunner interface {
	RunReceipts(ctx context.Context, fn func(r TxRepos) error) error
}
