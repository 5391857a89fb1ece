package receipts_test

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mikiyas-t/etax-receipts-api/internal/application/receipts"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/repository"
)

// memStore is an in-memory implementation of every repository port the
// recorder touches. A single instance backs both the pool-bound reads and
// the transactional writes in tests.
type memStore struct {
	contacts     []*entity.Contact
	items        []*entity.Item
	receipts     []*entity.Receipt
	lines        []*entity.ReceiptLine
	crvItems     []*entity.CRVItem
	mains        []*entity.MainReceiptDocument
	joins        []*entity.ReceiptDocument
	drafts       []*entity.DraftReceipt
	withholdings []*entity.Withholding
	vouchers     []*entity.PurchaseVoucher
	lookups      map[string]map[int64]string
}

func newMemStore() *memStore {
	return &memStore{
		lookups: map[string]map[int64]string{
			entity.LookupCategory: {1: "Revenue", 2: "Expense", 3: "CRV"},
			entity.LookupKind:     {1: "Manual"},
			entity.LookupType:     {1: "Cash"},
			entity.LookupName:     {1: "Cash Sales Invoice"},
		},
	}
}

// ── ContactRepository ─────────────────────────────────────────────────────────

func (s *memStore) Create(_ context.Context, c *entity.Contact) error {
	for _, e := range s.contacts {
		if e.TIN == c.TIN {
			return errors.New("duplicate TIN")
		}
	}
	cp := *c
	s.contacts = append(s.contacts, &cp)
	return nil
}

func (s *memStore) Update(_ context.Context, c *entity.Contact) error {
	for i, e := range s.contacts {
		if e.ID == c.ID {
			cp := *c
			s.contacts[i] = &cp
			return nil
		}
	}
	return errors.New("contact not found")
}

func (s *memStore) GetByID(_ context.Context, id string) (*entity.Contact, error) {
	for _, c := range s.contacts {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) GetByTIN(_ context.Context, tin string) (*entity.Contact, error) {
	for _, c := range s.contacts {
		if c.TIN == tin {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

// itemRepo / receiptRepo / docRepo / draftRepo / whRepo / voucherRepo /
// lookupRepo expose the other ports through named views so the method sets
// do not collide.

type itemRepo struct{ s *memStore }

func (r itemRepo) Create(_ context.Context, i *entity.Item) error {
	for _, e := range r.s.items {
		if e.ItemCode == i.ItemCode {
			return errors.New("duplicate item code")
		}
	}
	cp := *i
	r.s.items = append(r.s.items, &cp)
	return nil
}

func (r itemRepo) Update(_ context.Context, i *entity.Item) error {
	for idx, e := range r.s.items {
		if e.ID == i.ID {
			cp := *i
			r.s.items[idx] = &cp
			return nil
		}
	}
	return errors.New("item not found")
}

func (r itemRepo) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	for _, i := range r.s.items {
		if i.ItemCode == code {
			cp := *i
			return &cp, nil
		}
	}
	return nil, nil
}

type receiptRepo struct{ s *memStore }

func (r receiptRepo) Create(_ context.Context, rec *entity.Receipt) error {
	cp := *rec
	r.s.receipts = append(r.s.receipts, &cp)
	return nil
}

func (r receiptRepo) CreateLine(_ context.Context, l *entity.ReceiptLine) error {
	cp := *l
	r.s.lines = append(r.s.lines, &cp)
	return nil
}

func (r receiptRepo) CreateCRVItem(_ context.Context, c *entity.CRVItem) error {
	cp := *c
	r.s.crvItems = append(r.s.crvItems, &cp)
	return nil
}

func (r receiptRepo) Exists(_ context.Context, recordedByID, issuedByID, number string, date time.Time) (bool, error) {
	for _, rec := range r.s.receipts {
		if rec.RecordedByID == recordedByID && rec.IssuedByID == issuedByID &&
			rec.ReceiptNumber == number && rec.ReceiptDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (r receiptRepo) GetByID(_ context.Context, id string) (*entity.Receipt, error) {
	for _, rec := range r.s.receipts {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r receiptRepo) ListByCompany(_ context.Context, recordedByID string, f repository.ReceiptFilter) ([]*entity.Receipt, error) {
	var out []*entity.Receipt
	for _, rec := range r.s.receipts {
		if rec.RecordedByID != recordedByID {
			continue
		}
		if f.FromDate != nil && rec.ReceiptDate.Before(*f.FromDate) {
			continue
		}
		if f.ToDate != nil && rec.ReceiptDate.After(*f.ToDate) {
			continue
		}
		if f.IssuedBy != "" && rec.IssuedByID != f.IssuedBy {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (r receiptRepo) ListLines(_ context.Context, receiptID string) ([]*entity.ReceiptLine, error) {
	var out []*entity.ReceiptLine
	for _, l := range r.s.lines {
		if l.ReceiptID == receiptID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r receiptRepo) ListCRVItems(_ context.Context, receiptID string) ([]*entity.CRVItem, error) {
	var out []*entity.CRVItem
	for _, c := range r.s.crvItems {
		if c.ReceiptID == receiptID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r receiptRepo) SetWithholding(_ context.Context, receiptID, withholdingID string) error {
	for _, rec := range r.s.receipts {
		if rec.ID == receiptID {
			rec.WithholdingID = withholdingID
			return nil
		}
	}
	return errors.New("receipt not found")
}

func (r receiptRepo) SetPurchaseVoucher(_ context.Context, receiptID, voucherID string) error {
	for _, rec := range r.s.receipts {
		if rec.ID == receiptID {
			rec.PurchaseVoucherID = voucherID
			return nil
		}
	}
	return errors.New("receipt not found")
}

type docRepo struct{ s *memStore }

func (r docRepo) CreateMain(_ context.Context, d *entity.MainReceiptDocument) error {
	cp := *d
	r.s.mains = append(r.s.mains, &cp)
	return nil
}

func (r docRepo) CreateWithholdingDocument(_ context.Context, _ *entity.WithholdingReceiptDocument) error {
	return nil
}

func (r docRepo) CreateReceiptDocument(_ context.Context, d *entity.ReceiptDocument) error {
	cp := *d
	r.s.joins = append(r.s.joins, &cp)
	return nil
}

func (r docRepo) GetMainByNumber(_ context.Context, n string) ([]*entity.MainReceiptDocument, error) {
	var out []*entity.MainReceiptDocument
	for _, m := range r.s.mains {
		if m.ReceiptNumber == n {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r docRepo) GetMainByNumberFold(_ context.Context, n string) ([]*entity.MainReceiptDocument, error) {
	var out []*entity.MainReceiptDocument
	for _, m := range r.s.mains {
		if strings.EqualFold(m.ReceiptNumber, n) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r docRepo) GetMainByHash(_ context.Context, _, _ string) (*entity.MainReceiptDocument, error) {
	return nil, nil
}

func (r docRepo) FindUnlinked(_ context.Context, mainID, companyID string) (*entity.ReceiptDocument, error) {
	for _, rd := range r.s.joins {
		if rd.MainDocumentID == mainID && rd.ForCompanyID == companyID &&
			rd.LinkedReceiptID == "" && rd.Status == entity.DocumentStatusUploaded {
			cp := *rd
			return &cp, nil
		}
	}
	return nil, nil
}

func (r docRepo) Claim(_ context.Context, rdID, receiptID string) (bool, error) {
	for _, rd := range r.s.joins {
		if rd.ID == rdID && rd.LinkedReceiptID == "" && rd.Status == entity.DocumentStatusUploaded {
			rd.LinkedReceiptID = receiptID
			rd.Status = entity.DocumentStatusProcessed
			return true, nil
		}
	}
	return false, nil
}

func (r docRepo) ListByCompany(_ context.Context, companyID, status string) ([]*entity.ReceiptDocument, error) {
	var out []*entity.ReceiptDocument
	for _, rd := range r.s.joins {
		if rd.ForCompanyID == companyID && (status == "" || rd.Status == status) {
			cp := *rd
			out = append(out, &cp)
		}
	}
	return out, nil
}

type draftRepo struct{ s *memStore }

func (r draftRepo) Create(_ context.Context, d *entity.DraftReceipt) error {
	cp := *d
	r.s.drafts = append(r.s.drafts, &cp)
	return nil
}

func (r draftRepo) GetByKey(_ context.Context, companyID, number string) (*entity.DraftReceipt, error) {
	for _, d := range r.s.drafts {
		if d.CompanyID == companyID && d.UploadedDocumentNumber == number {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r draftRepo) GetByID(_ context.Context, id string) (*entity.DraftReceipt, error) {
	for _, d := range r.s.drafts {
		if d.ID == id {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r draftRepo) UpdateData(_ context.Context, id string, data []byte, number string, expectedRevision int) (bool, error) {
	for _, d := range r.s.drafts {
		if d.ID == id && d.Revision == expectedRevision {
			d.Data = data
			if number != "" {
				d.ReceiptNumber = number
			}
			d.Revision++
			return true, nil
		}
	}
	return false, nil
}

func (r draftRepo) ListByCompany(_ context.Context, companyID, status string) ([]*entity.DraftReceipt, error) {
	var out []*entity.DraftReceipt
	for _, d := range r.s.drafts {
		if d.CompanyID == companyID && (status == "" || d.Status == status) {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r draftRepo) SetStatus(_ context.Context, id, status string) error {
	for _, d := range r.s.drafts {
		if d.ID == id {
			d.Status = status
		}
	}
	return nil
}

func (r draftRepo) SetStatusByKey(_ context.Context, companyID, number, status string) error {
	for _, d := range r.s.drafts {
		if d.CompanyID == companyID && d.UploadedDocumentNumber == number {
			d.Status = status
		}
	}
	return nil
}

type whRepo struct{ s *memStore }

func (r whRepo) Create(_ context.Context, w *entity.Withholding) error {
	for _, e := range r.s.withholdings {
		if e.WithholdingReceiptNumber == w.WithholdingReceiptNumber {
			return errors.New("duplicate withholding number")
		}
	}
	cp := *w
	r.s.withholdings = append(r.s.withholdings, &cp)
	return nil
}

type voucherRepo struct{ s *memStore }

func (r voucherRepo) Create(_ context.Context, v *entity.PurchaseVoucher) error {
	cp := *v
	r.s.vouchers = append(r.s.vouchers, &cp)
	return nil
}

type lookupRepo struct{ s *memStore }

func (r lookupRepo) GetName(_ context.Context, kind string, id int64) (string, error) {
	return r.s.lookups[kind][id], nil
}

func (r lookupRepo) List(_ context.Context, kind string) ([]entity.LookupEntry, error) {
	var out []entity.LookupEntry
	for id, name := range r.s.lookups[kind] {
		out = append(out, entity.LookupEntry{ID: id, Name: name})
	}
	return out, nil
}

// ── Transaction runner ────────────────────────────────────────────────────────

// memTxRunner snapshots the store before fn and restores it when fn fails,
// mimicking a rolled-back transaction.
type memTxRunner struct{ s *memStore }

func (r memTxRunner) RunReceipts(_ context.Context, fn func(tr receipts.TxRepos) error) error {
	snap := r.s.snapshot()
	err := fn(receipts.TxRepos{
		Contacts:     r.s,
		Items:        itemRepo{r.s},
		Receipts:     receiptRepo{r.s},
		Documents:    docRepo{r.s},
		Drafts:       draftRepo{r.s},
		Withholdings: whRepo{r.s},
		Vouchers:     voucherRepo{r.s},
	})
	if err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func cloneSlice[T any](in []*T) []*T {
	out := make([]*T, len(in))
	for i, p := range in {
		cp := *p
		out[i] = &cp
	}
	return out
}

func (s *memStore) snapshot() *memStore {
	return &memStore{
		contacts:     cloneSlice(s.contacts),
		items:        cloneSlice(s.items),
		receipts:     cloneSlice(s.receipts),
		lines:        cloneSlice(s.lines),
		crvItems:     cloneSlice(s.crvItems),
		mains:        cloneSlice(s.mains),
		joins:        cloneSlice(s.joins),
		drafts:       cloneSlice(s.drafts),
		withholdings: cloneSlice(s.withholdings),
		vouchers:     cloneSlice(s.vouchers),
		lookups:      s.lookups,
	}
}

func (s *memStore) restore(snap *memStore) {
	s.contacts = snap.contacts
	s.items = snap.items
	s.receipts = snap.receipts
	s.lines = snap.lines
	s.crvItems = snap.crvItems
	s.mains = snap.mains
	s.joins = snap.joins
	s.drafts = snap.drafts
	s.withholdings = snap.withholdings
	s.vouchers = snap.vouchers
}
