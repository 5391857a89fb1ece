package receipts

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mikiyas-t/etax-receipts-api/internal/application/documents"
	"github.com/mikiyas-t/etax-receipts-api/internal/application/dto"
	"github.com/mikiyas-t/etax-receipts-api/internal/application/lookup"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/entity"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/repository"
	"github.com/mikiyas-t/etax-receipts-api/internal/domain/tax"
	"github.com/mikiyas-t/etax-receipts-api/pkg/logger"
)

// Recorder orchestrates atomic creation of the receipt aggregate: contacts,
// header, lines, document claim and withholding all commit or roll back as
// one transaction.
type Recorder struct {
	tx       TxRunner
	receipts repository.ReceiptRepository // pool-bound, reads only
	contacts repository.ContactRepository // pool-bound, reads only
	lookups  *lookup.Resolver
	policy   tax.WithholdingPolicy
	log      *logger.Logger
}

// NewRecorder builds the recorder.
func NewRecorder(
	tx TxRunner,
	receipts repository.ReceiptRepository,
	contacts repository.ContactRepository,
	lookups *lookup.Resolver,
	policy tax.WithholdingPolicy,
	log *logger.Logger,
) *Recorder {
	return &Recorder{
		tx:       tx,
		receipts: receipts,
		contacts: contacts,
		lookups:  lookups,
		policy:   policy,
		log:      log,
	}
}

// Create records a receipt for the calling company. Validation runs before
// any write; everything else happens inside one transaction. Document
// linking is best-effort: a receipt with no prior upload records fine, but
// when an uploaded document matches, exactly one concurrent creation wins
// the claim.
func (r *Recorder) Create(ctx context.Context, callerTIN string, in dto.CreateReceiptRequest) (*dto.ReceiptResponse, error) {
	receiptDate, err := validateCreate(callerTIN, &in)
	if err != nil {
		return nil, err
	}

	categoryName, err := r.lookups.CategoryName(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	isCRV := strings.EqualFold(strings.TrimSpace(categoryName), "CRV")

	totals := r.computeTotals(in, isCRV)
	now := time.Now()

	var resp *dto.ReceiptResponse
	err = r.tx.RunReceipts(ctx, func(tr TxRepos) error {
		recordedBy, err := getOrCreateContact(ctx, tr.Contacts, callerTIN, contactDetailsOrEmpty(in.RecordedBy))
		if err != nil {
			return err
		}
		issuedBy, err := getOrCreateContact(ctx, tr.Contacts, in.IssuedBy.TIN, in.IssuedBy)
		if err != nil {
			return err
		}
		issuedTo, err := getOrCreateContact(ctx, tr.Contacts, in.IssuedTo.TIN, in.IssuedTo)
		if err != nil {
			return err
		}

		exists, err := tr.Receipts.Exists(ctx, recordedBy.ID, issuedBy.ID, in.ReceiptNumber, receiptDate)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateReceipt
		}

		receipt := &entity.Receipt{
			ID:                      uuid.New().String(),
			RecordedByID:            recordedBy.ID,
			IssuedByID:              issuedBy.ID,
			IssuedToID:              issuedTo.ID,
			MachineNumber:           in.MachineNumber,
			ReceiptNumber:           in.ReceiptNumber,
			ReceiptDate:             receiptDate,
			CalendarType:            in.CalendarType,
			CategoryID:              in.CategoryID,
			KindID:                  in.KindID,
			TypeID:                  in.TypeID,
			NameID:                  in.NameID,
			IsWithholdingApplicable: in.IsWithholdingApplicable,
			PaymentMethodType:       in.PaymentMethodType,
			BankName:                in.BankName,
			ReasonOfReceiving:       in.ReasonOfReceiving,
			ExpiredVAT:              tax.NonClaimableVAT(totals.Tax, receiptDate, now),
			CreatedAt:               now,
			UpdatedAt:               now,
		}
		if err := tr.Receipts.Create(ctx, receipt); err != nil {
			return err
		}

		if isCRV {
			if err := r.createCRVItems(ctx, tr, receipt, in.Items); err != nil {
				return err
			}
		} else {
			if err := r.createLines(ctx, tr, receipt, in.Items); err != nil {
				return err
			}
		}

		linkedNumber, err := r.claimDocument(ctx, tr, recordedBy.ID, receipt)
		if err != nil {
			return err
		}

		if in.PurchaseVoucher != nil {
			if err := r.createVoucher(ctx, tr, receipt, in.PurchaseVoucher); err != nil {
				return err
			}
		}

		withholdingNumber, err := r.recordWithholding(ctx, tr, receipt, in, issuedBy, issuedTo, totals)
		if err != nil {
			return err
		}

		resp = &dto.ReceiptResponse{
			ID:                      receipt.ID,
			ReceiptNumber:           receipt.ReceiptNumber,
			ReceiptDate:             receipt.ReceiptDate.Format(dateLayout),
			CalendarType:            receipt.CalendarType,
			IssuedByTIN:             issuedBy.TIN,
			IssuedByName:            issuedBy.Name,
			IssuedToTIN:             issuedTo.TIN,
			IssuedToName:            issuedTo.Name,
			IsWithholdingApplicable: receipt.IsWithholdingApplicable,
			PaymentMethodType:       receipt.PaymentMethodType,
			Totals: dto.TotalsResponse{
				Subtotal:          totals.Subtotal,
				Tax:               totals.Tax,
				Total:             totals.Total,
				WithholdingAmount: totals.WithholdingAmount,
				NetPayable:        totals.NetPayable,
			},
			ClaimableVAT:         tax.ClaimableVAT(totals.Tax, receiptDate, now),
			NonClaimableVAT:      tax.NonClaimableVAT(totals.Tax, receiptDate, now),
			LinkedDocumentNumber: linkedNumber,
			WithholdingNumber:    withholdingNumber,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (r *Recorder) computeTotals(in dto.CreateReceiptRequest, isCRV bool) tax.Totals {
	if isCRV {
		// CRV receipts are pure income: no per-line tax, no withholding.
		subtotal := decimal.Zero
		for _, item := range in.Items {
			subtotal = subtotal.Add(item.Quantity.Mul(item.AmountPerUnit))
		}
		return tax.Totals{Subtotal: subtotal, Tax: decimal.Zero, Total: subtotal, NetPayable: subtotal}
	}
	lines := make([]tax.LineInput, len(in.Items))
	for i, item := range in.Items {
		lines[i] = tax.LineInput{
			UnitCost:       item.UnitCost,
			Quantity:       item.Quantity,
			DiscountAmount: item.DiscountAmount,
			TaxType:        item.TaxType,
			ItemType:       item.ItemType,
		}
	}
	return tax.CalculateTotals(lines, in.IsWithholdingApplicable, r.policy)
}

func (r *Recorder) createLines(ctx context.Context, tr TxRepos, receipt *entity.Receipt, items []dto.ReceiptItemRequest) error {
	for _, item := range items {
		code := strings.TrimSpace(item.ItemCode)
		if code == "" {
			code = "TEMP-" + receipt.ID[:8] + "-" + uuid.New().String()[:4]
		}
		catalogItem, err := getOrCreateItem(ctx, tr.Items, code, item)
		if err != nil {
			return err
		}
		unitCost := item.UnitCost
		if unitCost.IsZero() {
			unitCost = catalogItem.UnitCost
		}
		lineTotal := unitCost.Mul(item.Quantity).Sub(item.DiscountAmount)
		taxAmount := tax.LineTax(lineTotal, tax.RateFor(item.TaxType, item.ItemType))
		line := &entity.ReceiptLine{
			ID:             uuid.New().String(),
			ReceiptID:      receipt.ID,
			ItemID:         catalogItem.ID,
			Quantity:       item.Quantity,
			UnitCost:       unitCost,
			ItemType:       item.ItemType,
			TaxType:        item.TaxType,
			TaxAmount:      taxAmount,
			DiscountAmount: item.DiscountAmount,
		}
		if err := tr.Receipts.CreateLine(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) createCRVItems(ctx context.Context, tr TxRepos, receipt *entity.Receipt, items []dto.ReceiptItemRequest) error {
	now := time.Now()
	for _, item := range items {
		total := item.TotalAmount
		if total.IsZero() {
			total = item.Quantity.Mul(item.AmountPerUnit)
		}
		crv := &entity.CRVItem{
			ID:                uuid.New().String(),
			ReceiptID:         receipt.ID,
			GLAccount:         item.GLAccount,
			Nature:            item.Nature,
			Quantity:          item.Quantity,
			AmountPerUnit:     item.AmountPerUnit,
			TotalAmount:       total,
			DeclarationNumber: item.DeclarationNumber,
			ReasonOfReceiving: item.ReasonOfReceiving,
			HasImportExport:   item.HasImportExport,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := tr.Receipts.CreateCRVItem(ctx, crv); err != nil {
			return err
		}
	}
	return nil
}

// claimDocument links the receipt to its uploaded source document. Not
// finding one is normal (no prior upload); losing the claim race to a
// concurrent creation is logged and degrades to "unlinked" as well.
func (r *Recorder) claimDocument(ctx context.Context, tr TxRepos, companyID string, receipt *entity.Receipt) (string, error) {
	res, err := documents.Match(ctx, tr.Documents, companyID, receipt.ReceiptNumber)
	if err != nil {
		if err == domain.ErrNotFound {
			r.log.Warn().
				Str("receipt_number", receipt.ReceiptNumber).
				Msg("no uploaded document found for receipt; recording unlinked")
			return "", nil
		}
		return "", err
	}

	claimed, err := tr.Documents.Claim(ctx, res.Document.ID, receipt.ID)
	if err != nil {
		return "", err
	}
	if !claimed {
		r.log.Warn().
			Str("receipt_number", receipt.ReceiptNumber).
			Str("document_id", res.Document.ID).
			Msg("uploaded document already claimed by a concurrent recording")
		return "", nil
	}

	// Retire the autosaved draft now that its receipt exists.
	if err := tr.Drafts.SetStatusByKey(ctx, companyID, res.UploadedNumber, entity.DraftStatusSubmitted); err != nil {
		return "", err
	}

	r.log.Info().
		Str("receipt_number", receipt.ReceiptNumber).
		Str("uploaded_number", res.UploadedNumber).
		Msg("linked uploaded document to receipt")
	return res.UploadedNumber, nil
}

func (r *Recorder) createVoucher(ctx context.Context, tr TxRepos, receipt *entity.Receipt, in *dto.PurchaseVoucherRequest) error {
	voucherDate := receipt.ReceiptDate
	if in.VoucherDate != "" {
		parsed, err := time.Parse(dateLayout, in.VoucherDate)
		if err != nil {
			return &ValidationError{Field: "purchase_voucher_details.voucher_date", Message: "must be YYYY-MM-DD"}
		}
		voucherDate = parsed
	}
	voucher := &entity.PurchaseVoucher{
		ID:            uuid.New().String(),
		VoucherNumber: in.VoucherNumber,
		VoucherDate:   voucherDate,
		Description:   in.Description,
		CreatedAt:     time.Now(),
	}
	if err := tr.Vouchers.Create(ctx, voucher); err != nil {
		return err
	}
	return tr.Receipts.SetPurchaseVoucher(ctx, receipt.ID, voucher.ID)
}

// recordWithholding stores the explicit withholding payload, or
// auto-generates one from the computed subtotal when withholding applies
// and the configured policy yields a non-zero amount.
func (r *Recorder) recordWithholding(
	ctx context.Context,
	tr TxRepos,
	receipt *entity.Receipt,
	in dto.CreateReceiptRequest,
	issuedBy, issuedTo *entity.Contact,
	totals tax.Totals,
) (string, error) {
	var w *entity.Withholding
	now := time.Now()

	switch {
	case in.Withholding != nil:
		whDate := receipt.ReceiptDate
		if in.Withholding.WithholdingReceiptDate != "" {
			parsed, err := time.Parse(dateLayout, in.Withholding.WithholdingReceiptDate)
			if err != nil {
				return "", &ValidationError{Field: "withholding_details.withholding_receipt_date", Message: "must be YYYY-MM-DD"}
			}
			whDate = parsed
		}
		subTotal := in.Withholding.SubTotal
		if subTotal.IsZero() {
			subTotal = totals.Subtotal
		}
		amount := in.Withholding.TaxWithholdingAmount
		if amount.IsZero() {
			amount = totals.WithholdingAmount
		}
		w = &entity.Withholding{
			ID:                       uuid.New().String(),
			WithholdingReceiptNumber: in.Withholding.WithholdingReceiptNumber,
			WithholdingReceiptDate:   whDate,
			TransactionDescription:   in.Withholding.TransactionDescription,
			SubTotal:                 subTotal,
			TaxWithholdingAmount:     amount,
			BuyerTIN:                 issuedBy.TIN,
			SellerTIN:                issuedTo.TIN,
			SupplierName:             issuedTo.Name,
			MainReceiptNumber:        receipt.ReceiptNumber,
			CreatedAt:                now,
			UpdatedAt:                now,
		}
	case in.IsWithholdingApplicable && totals.WithholdingAmount.IsPositive():
		w = &entity.Withholding{
			ID:                       uuid.New().String(),
			WithholdingReceiptNumber: "WHT-" + strings.ToUpper(receipt.ID[:8]),
			WithholdingReceiptDate:   receipt.ReceiptDate,
			TransactionDescription:   "Auto-generated withholding",
			SubTotal:                 totals.Subtotal,
			TaxWithholdingAmount:     totals.WithholdingAmount,
			BuyerTIN:                 issuedBy.TIN,
			SellerTIN:                issuedTo.TIN,
			SupplierName:             issuedTo.Name,
			MainReceiptNumber:        receipt.ReceiptNumber,
			CreatedAt:                now,
			UpdatedAt:                now,
		}
	default:
		return "", nil
	}

	if err := tr.Withholdings.Create(ctx, w); err != nil {
		return "", err
	}
	if err := tr.Receipts.SetWithholding(ctx, receipt.ID, w.ID); err != nil {
		return "", err
	}
	return w.WithholdingReceiptNumber, nil
}

// getOrCreateContact resolves a contact by TIN, creating it or refreshing
// name/address from the form when already present. Recording-time only:
// validation never calls this.
func getOrCreateContact(ctx context.Context, contacts repository.ContactRepository, tin string, details dto.ContactDetails) (*entity.Contact, error) {
	existing, err := contacts.GetByTIN(ctx, tin)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if existing == nil {
		c := &entity.Contact{
			ID:        uuid.New().String(),
			Name:      details.Name,
			TIN:       tin,
			Address:   details.Address,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := contacts.Create(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	}
	if details.Name != "" || details.Address != "" {
		if details.Name != "" {
			existing.Name = details.Name
		}
		if details.Address != "" {
			existing.Address = details.Address
		}
		existing.UpdatedAt = now
		if err := contacts.Update(ctx, existing); err != nil {
			return nil, err
		}
	}
	return existing, nil
}

// getOrCreateItem resolves a catalog item by code, creating it or
// refreshing its attributes from the submitted line.
func getOrCreateItem(ctx context.Context, items repository.ItemRepository, code string, line dto.ReceiptItemRequest) (*entity.Item, error) {
	existing, err := items.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if existing == nil {
		item := &entity.Item{
			ID:                uuid.New().String(),
			ItemCode:          code,
			Description:       line.Description,
			UnitOfMeasurement: defaultString(line.UnitOfMeasurement, "unit"),
			ItemType:          line.ItemType,
			TaxType:           line.TaxType,
			UnitCost:          line.UnitCost,
			GLAccount:         defaultString(line.GLAccount, "4000"),
			Nature:            line.Nature,
			HSCode:            line.HSCode,
			HasImportExport:   line.HasImportExport,
			DeclarationNumber: line.DeclarationNumber,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := items.Create(ctx, item); err != nil {
			return nil, err
		}
		return item, nil
	}
	existing.Description = line.Description
	existing.UnitOfMeasurement = defaultString(line.UnitOfMeasurement, existing.UnitOfMeasurement)
	existing.ItemType = line.ItemType
	existing.TaxType = line.TaxType
	existing.UnitCost = line.UnitCost
	existing.GLAccount = defaultString(line.GLAccount, existing.GLAccount)
	existing.Nature = line.Nature
	existing.HSCode = line.HSCode
	existing.HasImportExport = line.HasImportExport
	existing.DeclarationNumber = line.DeclarationNumber
	existing.UpdatedAt = now
	if err := items.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func contactDetailsOrEmpty(d *dto.ContactDetails) dto.ContactDetails {
	if d == nil {
		return dto.ContactDetails{}
	}
	return *d
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
