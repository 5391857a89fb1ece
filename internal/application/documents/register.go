package documents

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mikiyas-t/etax-receipts-api/internal/application/dto"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/repository"
)

// Service registers uploaded source documents and answers inbox queries.
// The binary blob itself is stored externally; the service keeps metadata
// plus an MD5 content hash used to reject byte-identical re-uploads.
type Service struct {
	docs     repository.DocumentRepository
	contacts repository.ContactRepository
}

// NewService builds the document service.
func NewService(docs repository.DocumentRepository, contacts repository.ContactRepository) *Service {
	return &Service{docs: docs, contacts: contacts}
}

// Register stores the metadata of an uploaded main document (and optional
// withholding document) and opens a reconciliation row in status
// "uploaded". Rejects a byte-identical re-upload and a second upload of
// the same number for the same company.
func (s *Service) Register(ctx context.Context, callerTIN string, in dto.RegisterDocumentRequest) (*dto.DocumentResponse, error) {
	number := strings.TrimSpace(in.ReceiptNumber)
	if number == "" || len(in.Content) == 0 {
		return nil, domain.ErrInvalidInput
	}
	company, err := s.contacts.GetByTIN(ctx, callerTIN)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	sum := md5.Sum(in.Content)
	hash := hex.EncodeToString(sum[:])
	if existing, err := s.docs.GetMainByHash(ctx, callerTIN, hash); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicateUpload
	}

	// One main document per (receipt_number, company); the DB constraint
	// backs this up.
	sameNumber, err := s.docs.GetMainByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	for _, m := range sameNumber {
		if m.CompanyTIN == callerTIN {
			return nil, domain.ErrDuplicateUpload
		}
	}

	now := time.Now()
	main := &entity.MainReceiptDocument{
		ID:            uuid.New().String(),
		ReceiptNumber: number,
		CompanyTIN:    callerTIN,
		Filename:      in.Filename,
		ContentType:   in.ContentType,
		ContentHash:   hash,
		UploadedAt:    now,
	}
	if err := s.docs.CreateMain(ctx, main); err != nil {
		return nil, err
	}

	rd := &entity.ReceiptDocument{
		ID:                  uuid.New().String(),
		MainDocumentID:      main.ID,
		UploadedByContactID: company.ID,
		ForCompanyID:        company.ID,
		Notes:               in.Notes,
		Status:              entity.DocumentStatusUploaded,
		UploadedAt:          now,
	}

	if strings.TrimSpace(in.WithholdingReceiptNumber) != "" {
		wd := &entity.WithholdingReceiptDocument{
			ID:                       uuid.New().String(),
			WithholdingReceiptNumber: strings.TrimSpace(in.WithholdingReceiptNumber),
			CompanyTIN:               callerTIN,
			Filename:                 in.WithholdingFilename,
			ContentType:              in.WithholdingContentType,
			UploadedAt:               now,
		}
		if err := s.docs.CreateWithholdingDocument(ctx, wd); err != nil {
			return nil, err
		}
		rd.WithholdingDocumentID = wd.ID
	}

	if err := s.docs.CreateReceiptDocument(ctx, rd); err != nil {
		return nil, err
	}

	return &dto.DocumentResponse{
		ID:                rd.ID,
		ReceiptNumber:     main.ReceiptNumber,
		Status:            rd.Status,
		WithholdingNumber: strings.TrimSpace(in.WithholdingReceiptNumber),
		Notes:             rd.Notes,
		UploadedAt:        rd.UploadedAt,
	}, nil
}

// ListInbox lists the company's uploaded documents, optionally filtered by
// status.
func (s *Service) ListInbox(ctx context.Context, callerTIN, status string) ([]dto.DocumentResponse, error) {
	company, err := s.contacts.GetByTIN(ctx, callerTIN)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	rows, err := s.docs.ListByCompany(ctx, company.ID, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DocumentResponse, 0, len(rows))
	for _, rd := range rows {
		out = append(out, dto.DocumentResponse{
			ID:              rd.ID,
			ReceiptNumber:   rd.MainReceiptNumber,
			Status:          rd.Status,
			LinkedReceiptID: rd.LinkedReceiptID,
			Notes:           rd.Notes,
			UploadedAt:      rd.UploadedAt,
		})
	}
	return out, nil
}

// MatchNumber resolves a clerk-typed receipt number to the uploaded
// document number it corresponds to, or domain.ErrNotFound.
func (s *Service) MatchNumber(ctx context.Context, callerTIN, receiptNumber string) (*dto.MatchDocumentResponse, error) {
	company, err := s.contacts.GetByTIN(ctx, callerTIN)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	res, err := Match(ctx, s.docs, company.ID, receiptNumber)
	if err != nil {
		return nil, err
	}
	return &dto.MatchDocumentResponse{MatchedDocumentNumber: res.UploadedNumber}, nil
}
