package drafts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mikiyas-t/etax-receipts-api/internal/application/documents"
	"github.com/mikiyas-t/etax-receipts-api/internal/application/dto"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/repository"
)

// ConflictError is returned on a revision mismatch. It carries the
// authoritative server state so the client can merge or overwrite
// deliberately. errors.Is(err, domain.ErrConflict) holds.
type ConflictError struct {
	CurrentRevision int
	CurrentData     json.RawMessage
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("draft revision conflict: current revision is %d", e.CurrentRevision)
}

// Is makes the conflict matchable against the domain sentinel.
func (e *ConflictError) Is(target error) bool { return target == domain.ErrConflict }

// Service is the draft autosave store: one draft per (company, uploaded
// document number), guarded only by an optimistic revision counter. No
// locks are held between load and save; a caller that wants lost-update
// detection must send back the revision it last observed.
type Service struct {
	drafts   repository.DraftRepository
	docs     repository.DocumentRepository
	contacts repository.ContactRepository
}

// NewService builds the draft service.
func NewService(drafts repository.DraftRepository, docs repository.DocumentRepository, contacts repository.ContactRepository) *Service {
	return &Service{drafts: drafts, docs: docs, contacts: contacts}
}

// Load resolves the receipt number to an uploaded document and returns the
// draft keyed to it, creating an empty one (revision 0) on first touch.
// Fails with domain.ErrNotFound when no matching document was ever
// uploaded; a draft cannot be opened without its source document.
func (s *Service) Load(ctx context.Context, callerTIN, receiptNumber string) (*dto.DraftResponse, error) {
	company, res, err := s.resolve(ctx, callerTIN, receiptNumber)
	if err != nil {
		return nil, err
	}

	d, err := s.drafts.GetByKey(ctx, company.ID, res.UploadedNumber)
	if err != nil {
		return nil, err
	}
	if d == nil {
		d = &entity.DraftReceipt{
			ID:                     uuid.New().String(),
			CompanyID:              company.ID,
			UploadedDocumentNumber: res.UploadedNumber,
			Data:                   []byte("{}"),
			Status:                 entity.DraftStatusDraft,
			Revision:               0,
		}
		if err := s.drafts.Create(ctx, d); err != nil {
			// Lost a create race: another request opened the draft first.
			if existing, getErr := s.drafts.GetByKey(ctx, company.ID, res.UploadedNumber); getErr == nil && existing != nil {
				d = existing
			} else {
				return nil, err
			}
		}
	}
	return toResponse(d), nil
}

// Save merges a patch into the stored draft under optimistic concurrency.
// When expectedRevision is supplied and stale, the save is rejected with a
// ConflictError carrying the current state and the store is left
// untouched. Without an expectedRevision the save is last-writer-wins: a
// write that lands between our read and the conditional update is absorbed
// by remerging onto the fresh state and retrying once. The merge is
// shallow: sent keys overwrite, absent keys are preserved.
func (s *Service) Save(ctx context.Context, callerTIN string, in dto.SaveDraftRequest) (*dto.SaveDraftResponse, error) {
	if strings.TrimSpace(in.ReceiptNumber) == "" {
		return nil, domain.ErrInvalidInput
	}
	company, res, err := s.resolve(ctx, callerTIN, in.ReceiptNumber)
	if err != nil {
		return nil, err
	}

	d, err := s.drafts.GetByKey(ctx, company.ID, res.UploadedNumber)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}

	if in.ExpectedRevision != nil && *in.ExpectedRevision != d.Revision {
		return nil, &ConflictError{CurrentRevision: d.Revision, CurrentData: d.Data}
	}

	merged, err := shallowMerge(d.Data, in.Patch)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	ok, err := s.drafts.UpdateData(ctx, d.ID, merged, strings.TrimSpace(in.ReceiptNumber), d.Revision)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The revision moved between our read and the conditional update.
		current, getErr := s.drafts.GetByID(ctx, d.ID)
		if getErr != nil || current == nil {
			return nil, domain.ErrConflict
		}
		if in.ExpectedRevision == nil {
			// Last-writer-wins: remerge onto the fresh state, retry once.
			merged, err = shallowMerge(current.Data, in.Patch)
			if err != nil {
				return nil, domain.ErrInvalidInput
			}
			ok, err = s.drafts.UpdateData(ctx, current.ID, merged, strings.TrimSpace(in.ReceiptNumber), current.Revision)
			if err != nil {
				return nil, err
			}
			if ok {
				return &dto.SaveDraftResponse{Revision: current.Revision + 1}, nil
			}
			if current, getErr = s.drafts.GetByID(ctx, d.ID); getErr != nil || current == nil {
				return nil, domain.ErrConflict
			}
		}
		return nil, &ConflictError{CurrentRevision: current.Revision, CurrentData: current.Data}
	}
	return &dto.SaveDraftResponse{Revision: d.Revision + 1}, nil
}

// List returns the company's active drafts, newest first.
func (s *Service) List(ctx context.Context, callerTIN string) ([]dto.DraftResponse, error) {
	company, err := s.contacts.GetByTIN(ctx, callerTIN)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	rows, err := s.drafts.ListByCompany(ctx, company.ID, entity.DraftStatusDraft)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DraftResponse, 0, len(rows))
	for _, d := range rows {
		out = append(out, *toResponse(d))
	}
	return out, nil
}

// Discard marks a draft discarded. Only the owning company may do so.
func (s *Service) Discard(ctx context.Context, callerTIN, draftID string) error {
	company, err := s.contacts.GetByTIN(ctx, callerTIN)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrNotFound
	}
	d, err := s.drafts.GetByID(ctx, draftID)
	if err != nil {
		return err
	}
	if d == nil {
		return domain.ErrNotFound
	}
	if d.CompanyID != company.ID {
		return domain.ErrForbidden
	}
	return s.drafts.SetStatus(ctx, d.ID, entity.DraftStatusDiscarded)
}

func (s *Service) resolve(ctx context.Context, callerTIN, receiptNumber string) (*entity.Contact, *documents.MatchResult, error) {
	company, err := s.contacts.GetByTIN(ctx, callerTIN)
	if err != nil {
		return nil, nil, err
	}
	if company == nil {
		return nil, nil, domain.ErrNotFound
	}
	res, err := documents.Match(ctx, s.docs, company.ID, receiptNumber)
	if err != nil {
		return nil, nil, err
	}
	return company, res, nil
}

// shallowMerge overlays patch keys onto the stored object. Values are
// replaced wholesale. Drafts are schemaless and never merged deeply.
func shallowMerge(stored, patch []byte) ([]byte, error) {
	base := map[string]json.RawMessage{}
	if len(stored) > 0 {
		if err := json.Unmarshal(stored, &base); err != nil {
			return nil, err
		}
	}
	overlay := map[string]json.RawMessage{}
	if len(patch) > 0 {
		if err := json.Unmarshal(patch, &overlay); err != nil {
			return nil, err
		}
	}
	for k, v := range overlay {
		base[k] = v
	}
	return json.Marshal(base)
}

func toResponse(d *entity.DraftReceipt) *dto.DraftResponse {
	return &dto.DraftResponse{
		DraftID:                d.ID,
		UploadedDocumentNumber: d.UploadedDocumentNumber,
		ReceiptNumber:          d.ReceiptNumber,
		Data:                   json.RawMessage(d.Data),
		Revision:               d.Revision,
		Status:                 d.Status,
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
	}
}
