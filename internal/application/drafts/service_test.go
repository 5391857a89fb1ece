package drafts_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikiyas-t/etax-receipts-api/internal/application/drafts"
	"github.com/mikiyas-t/etax-receipts-api/internal/application/dto"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeContactRepo struct {
	byTIN map[string]*entity.Contact
}

func (f *fakeContactRepo) Create(_ context.Context, c *entity.Contact) error {
	f.byTIN[c.TIN] = c
	return nil
}
func (f *fakeContactRepo) Update(_ context.Context, c *entity.Contact) error {
	f.byTIN[c.TIN] = c
	return nil
}
func (f *fakeContactRepo) GetByID(_ context.Context, id string) (*entity.Contact, error) {
	for _, c := range f.byTIN {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}
func (f *fakeContactRepo) GetByTIN(_ context.Context, tin string) (*entity.Contact, error) {
	return f.byTIN[tin], nil
}

type fakeDocumentRepo struct {
	mains []*entity.MainReceiptDocument
	joins []*entity.ReceiptDocument
}

func (f *fakeDocumentRepo) CreateMain(_ context.Context, d *entity.MainReceiptDocument) error {
	f.mains = append(f.mains, d)
	return nil
}
func (f *fakeDocumentRepo) CreateWithholdingDocument(_ context.Context, _ *entity.WithholdingReceiptDocument) error {
	return nil
}
func (f *fakeDocumentRepo) CreateReceiptDocument(_ context.Context, d *entity.ReceiptDocument) error {
	f.joins = append(f.joins, d)
	return nil
}
func (f *fakeDocumentRepo) GetMainByNumber(_ context.Context, n string) ([]*entity.MainReceiptDocument, error) {
	var out []*entity.MainReceiptDocument
	for _, m := range f.mains {
		if m.ReceiptNumber == n {
			out = append(out, m)
		}
	}
	return out, nil
}
func (f *fakeDocumentRepo) GetMainByNumberFold(_ context.Context, n string) ([]*entity.MainReceiptDocument, error) {
	var out []*entity.MainReceiptDocument
	for _, m := range f.mains {
		if strings.EqualFold(m.ReceiptNumber, n) {
			out = append(out, m)
		}
	}
	return out, nil
}
func (f *fakeDocumentRepo) GetMainByHash(_ context.Context, _, _ string) (*entity.MainReceiptDocument, error) {
	return nil, nil
}
func (f *fakeDocumentRepo) FindUnlinked(_ context.Context, mainID, companyID string) (*entity.ReceiptDocument, error) {
	for _, rd := range f.joins {
		if rd.MainDocumentID == mainID && rd.ForCompanyID == companyID &&
			rd.LinkedReceiptID == "" && rd.Status == entity.DocumentStatusUploaded {
			return rd, nil
		}
	}
	return nil, nil
}
func (f *fakeDocumentRepo) Claim(_ context.Context, _, _ string) (bool, error) { return false, nil }
func (f *fakeDocumentRepo) ListByCompany(_ context.Context, _, _ string) ([]*entity.ReceiptDocument, error) {
	return nil, nil
}

type fakeDraftRepo struct {
	drafts []*entity.DraftReceipt
	// raceData, when set, lands as a competing write just before the next
	// UpdateData revision check, then clears itself.
	raceData []byte
}

func (f *fakeDraftRepo) Create(_ context.Context, d *entity.DraftReceipt) error {
	for _, e := range f.drafts {
		if e.CompanyID == d.CompanyID && e.UploadedDocumentNumber == d.UploadedDocumentNumber {
			return errors.New("duplicate draft key")
		}
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	f.drafts = append(f.drafts, d)
	return nil
}
// Reads return copies, as the pgx repository scans a fresh row per query.
func (f *fakeDraftRepo) GetByKey(_ context.Context, companyID, number string) (*entity.DraftReceipt, error) {
	for _, d := range f.drafts {
		if d.CompanyID == companyID && d.UploadedDocumentNumber == number {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}
func (f *fakeDraftRepo) GetByID(_ context.Context, id string) (*entity.DraftReceipt, error) {
	for _, d := range f.drafts {
		if d.ID == id {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}
func (f *fakeDraftRepo) UpdateData(_ context.Context, id string, data []byte, receiptNumber string, expectedRevision int) (bool, error) {
	for _, d := range f.drafts {
		if d.ID == id {
			if f.raceData != nil {
				d.Data = f.raceData
				d.Revision++
				f.raceData = nil
			}
			if d.Revision != expectedRevision {
				return false, nil
			}
			d.Data = data
			if receiptNumber != "" {
				d.ReceiptNumber = receiptNumber
			}
			d.Revision++
			d.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}
func (f *fakeDraftRepo) ListByCompany(_ context.Context, companyID, status string) ([]*entity.DraftReceipt, error) {
	var out []*entity.DraftReceipt
	for _, d := range f.drafts {
		if d.CompanyID == companyID && (status == "" || d.Status == status) {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (f *fakeDraftRepo) SetStatus(_ context.Context, id, status string) error {
	for _, d := range f.drafts {
		if d.ID == id {
			d.Status = status
		}
	}
	return nil
}
func (f *fakeDraftRepo) SetStatusByKey(_ context.Context, companyID, number, status string) error {
	for _, d := range f.drafts {
		if d.CompanyID == companyID && d.UploadedDocumentNumber == number {
			d.Status = status
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyTIN = "0000000001"
	companyID  = "company-1"
)

func newFixture() (*drafts.Service, *fakeDraftRepo, *fakeDocumentRepo) {
	contacts := &fakeContactRepo{byTIN: map[string]*entity.Contact{
		companyTIN: {ID: companyID, TIN: companyTIN},
	}}
	docs := &fakeDocumentRepo{}
	draftRepo := &fakeDraftRepo{}
	return drafts.NewService(draftRepo, docs, contacts), draftRepo, docs
}

func addUpload(docs *fakeDocumentRepo, number string) {
	main := &entity.MainReceiptDocument{
		ID:            uuid.New().String(),
		ReceiptNumber: number,
		CompanyTIN:    companyTIN,
	}
	docs.mains = append(docs.mains, main)
	docs.joins = append(docs.joins, &entity.ReceiptDocument{
		ID:             uuid.New().String(),
		MainDocumentID: main.ID,
		ForCompanyID:   companyID,
		Status:         entity.DocumentStatusUploaded,
	})
}

func intPtr(n int) *int { return &n }

// ──────────────────────────────────────────────────────────────────────────────
// Load
// ──────────────────────────────────────────────────────────────────────────────

func TestLoad_CreatesEmptyDraftOnFirstTouch(t *testing.T) {
	svc, draftRepo, docs := newFixture()
	addUpload(docs, "246")

	d, err := svc.Load(context.Background(), companyTIN, "FS246")
	require.NoError(t, err)
	assert.Equal(t, 0, d.Revision, "fresh draft starts at revision 0")
	assert.Equal(t, "246", d.UploadedDocumentNumber)
	assert.JSONEq(t, `{}`, string(d.Data))
	assert.Len(t, draftRepo.drafts, 1)
}

func TestLoad_ReturnsExistingDraft(t *testing.T) {
	svc, _, docs := newFixture()
	addUpload(docs, "246")

	_, err := svc.Load(context.Background(), companyTIN, "FS246")
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), companyTIN, dto.SaveDraftRequest{
		ReceiptNumber: "FS246",
		Patch:         json.RawMessage(`{"bank_name":"CBE"}`),
	})
	require.NoError(t, err)

	d, err := svc.Load(context.Background(), companyTIN, "FS246")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Revision)
	assert.JSONEq(t, `{"bank_name":"CBE"}`, string(d.Data))
}

func TestLoad_NoUploadedDocument(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.Load(context.Background(), companyTIN, "FS999")
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"a draft cannot be opened without its source document")
}

// ──────────────────────────────────────────────────────────────────────────────
// Save / optimistic concurrency
// ──────────────────────────────────────────────────────────────────────────────

func TestSave_MergesShallowAndBumpsRevision(t *testing.T) {
	svc, _, docs := newFixture()
	addUpload(docs, "246")
	_, err := svc.Load(context.Background(), companyTIN, "FS246")
	require.NoError(t, err)

	resp, err := svc.Save(context.Background(), companyTIN, dto.SaveDraftRequest{
		ReceiptNumber:    "FS246",
		ExpectedRevision: intPtr(0),
		Patch:            json.RawMessage(`{"bank_name":"CBE","machine_number":"M1"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Revision)

	resp, err = svc.Save(context.Background(), companyTIN, dto.SaveDraftRequest{
		ReceiptNumber:    "FS246",
		ExpectedRevision: intPtr(1),
		Patch:            json.RawMessage(`{"bank_name":"Awash"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Revision)

	d, err := svc.Load(context.Background(), companyTIN, "FS246")
	require.NoError(t, err)
	assert.JSONEq(t, `{"bank_name":"Awash","machine_number":"M1"}`, string(d.Data),
		"sent keys overwrite, absent keys are preserved")
}

func TestSave_StaleRevisionConflictLeavesStoreUntouched(t *testing.T) {
	svc, draftRepo, docs := newFixture()
	addUpload(docs, "246")
	_, err := svc.Load(context.Background(), companyTIN, "FS246")
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), companyTIN, dto.SaveDraftRequest{
		ReceiptNumber:    "FS246",
		ExpectedRevision: intPtr(0),
		Patch:            json.RawMessage(`{"bank_name":"CBE"}`),
	})
	require.NoError(t, err)

	// A second session still holding revision 0 must be rejected with the
	// authoritative state.
	_, err = svc.Save(context.Background(), companyTIN, dto.SaveDraftRequest{
		ReceiptNumber:    "FS246",
		ExpectedRevision: intPtr(0),
		Patch:            json.RawMessage(`{"bank_name":"Dashen"}`),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)

	var conflict *drafts.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 1, conflict.CurrentRevision)
	assert.JSONEq(t, `{"bank_name":"CBE"}`, string(conflict.CurrentData))

	assert.JSONEq(t, `{"bank_name":"CBE"}`, string(draftRepo.drafts[0].Data),
		"the rejected save must not change stored data")
	assert.Equal(t, 1, draftRepo.drafts[0].Revision)
}

func TestSave_WithoutExpectedRevisionIsLastWriterWins(t *testing.T) {
	svc, _, docs := newFixture()
	addUpload(docs, "246")
	_, err := svc.Load(context.Background(), companyTIN, "FS246")
	require.NoError(t, err)

	resp, err := svc.Save(context.Background(), companyTIN, dto.SaveDraftRequest{
		ReceiptNumber: "FS246",
		Patch:         json.RawMessage(`{"bank_name":"CBE"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Revision)
}

func TestSave_WithoutExpectedRevisionAbsorbsConcurrentWrite(t *testing.T) {
	svc, draftRepo, docs := newFixture()
	addUpload(docs, "246")
	_, err := svc.Load(context.Background(), companyTIN, "FS246")
	require.NoError(t, err)

	// A competing writer lands between this save's read and its
	// conditional update.
	draftRepo.raceData = []byte(`{"machine_number":"M9"}`)
	resp, err := svc.Save(context.Background(), companyTIN, dto.SaveDraftRequest{
		ReceiptNumber: "FS246",
		Patch:         json.RawMessage(`{"bank_name":"CBE"}`),
	})
	require.NoError(t, err, "without an expected revision the save retries, never conflicts")
	assert.Equal(t, 2, resp.Revision)

	d, err := svc.Load(context.Background(), companyTIN, "FS246")
	require.NoError(t, err)
	assert.JSONEq(t, `{"bank_name":"CBE","machine_number":"M9"}`, string(d.Data),
		"the competing write's keys survive the remerge")
}

func TestSave_ExpectedRevisionRaceSurfacesConflict(t *testing.T) {
	svc, draftRepo, docs := newFixture()
	addUpload(docs, "246")
	_, err := svc.Load(context.Background(), companyTIN, "FS246")
	require.NoError(t, err)

	draftRepo.raceData = []byte(`{"machine_number":"M9"}`)
	_, err = svc.Save(context.Background(), companyTIN, dto.SaveDraftRequest{
		ReceiptNumber:    "FS246",
		ExpectedRevision: intPtr(0),
		Patch:            json.RawMessage(`{"bank_name":"CBE"}`),
	})
	var conflict *drafts.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 1, conflict.CurrentRevision)
	assert.JSONEq(t, `{"machine_number":"M9"}`, string(conflict.CurrentData),
		"the conflict carries the competing writer's state")
}

func TestSave_NoDraftYet(t *testing.T) {
	svc, _, docs := newFixture()
	addUpload(docs, "246")

	_, err := svc.Save(context.Background(), companyTIN, dto.SaveDraftRequest{
		ReceiptNumber: "FS246",
		Patch:         json.RawMessage(`{}`),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "save requires a prior load")
}

// ──────────────────────────────────────────────────────────────────────────────
// List / Discard
// ──────────────────────────────────────────────────────────────────────────────

func TestList_ReturnsOnlyActiveDrafts(t *testing.T) {
	svc, draftRepo, docs := newFixture()
	addUpload(docs, "246")
	addUpload(docs, "300")

	_, err := svc.Load(context.Background(), companyTIN, "246")
	require.NoError(t, err)
	loaded, err := svc.Load(context.Background(), companyTIN, "300")
	require.NoError(t, err)

	require.NoError(t, svc.Discard(context.Background(), companyTIN, loaded.DraftID))

	list, err := svc.List(context.Background(), companyTIN)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "246", list[0].UploadedDocumentNumber)
	assert.Len(t, draftRepo.drafts, 2, "discard marks, never deletes")
}

func TestDiscard_OtherCompanyForbidden(t *testing.T) {
	contacts := &fakeContactRepo{byTIN: map[string]*entity.Contact{
		companyTIN:   {ID: companyID, TIN: companyTIN},
		"0000000002": {ID: "company-2", TIN: "0000000002"},
	}}
	docs := &fakeDocumentRepo{}
	draftRepo := &fakeDraftRepo{}
	svc := drafts.NewService(draftRepo, docs, contacts)
	addUpload(docs, "246")

	d, err := svc.Load(context.Background(), companyTIN, "246")
	require.NoError(t, err)

	err = svc.Discard(context.Background(), "0000000002", d.DraftID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
