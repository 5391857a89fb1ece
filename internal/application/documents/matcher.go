package documents

import (
	"context"

	"github.com/mikiyas-t/etax-receipts-api/internal/domain"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/docmatch"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/repository"
)

// MatchResult is a resolved uploaded document: the reconciliation join row
// plus the number under which the document was uploaded.
type MatchResult struct {
	Document       *entity.ReceiptDocument
	UploadedNumber string
}

// Match resolves a clerk-typed receipt number to the single uploaded,
// unlinked document for the company. Candidates are tried in order; each
// is matched exactly first, then case-insensitively. Returns
// domain.ErrNotFound when no candidate yields a usable match; callers
// decide whether that is fatal.
//
// Match takes the document repository as an argument so the recorder can
// run it against a transaction-bound repository while the draft store uses
// the pool-bound one.
func Match(ctx context.Context, docs repository.DocumentRepository, forCompanyID, receiptNumber string) (*MatchResult, error) {
	for _, candidate := range docmatch.Candidates(receiptNumber) {
		mains, err := docs.GetMainByNumber(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if len(mains) == 0 {
			mains, err = docs.GetMainByNumberFold(ctx, candidate)
			if err != nil {
				return nil, err
			}
		}
		for _, main := range mains {
			rd, err := docs.FindUnlinked(ctx, main.ID, forCompanyID)
			if err != nil {
				return nil, err
			}
			if rd != nil {
				rd.MainReceiptNumber = main.ReceiptNumber
				return &MatchResult{Document: rd, UploadedNumber: main.ReceiptNumber}, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}
