package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/klopper/paydesk/internal/domain"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func timePtr(t time.Time) *time.Time { return &t }

func mustParse(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

// NewSeededMemoryRepository returns an in-memory repository pre-populated with
// the demo dataset: two source accounts, five beneficiaries, payments covering
// every lifecycle status, and four inbound emails. Demo mode runs off this
// seed when no database is configured; the data resets on every restart.
func NewSeededMemoryRepository() *MemoryRepository {
	repo := NewMemoryRepository()
	ctx := context.Background()

	trustAccount := domain.BankAccount{ID: uuid.New(), Name: "Klopper Family Trust — ABSA", AccountNumber: "4076543210", BranchCode: "632005"}
	propsAccount := domain.BankAccount{ID: uuid.New(), Name: "Klopper Properties — ABSA", AccountNumber: "4071234567", BranchCode: "632005"}
	repo.SetBankAccounts([]domain.BankAccount{trustAccount, propsAccount})

	municipality, _ := repo.CreateBeneficiary(ctx, &domain.Beneficiary{
		Name: "Cape Town Municipality", Type: domain.BeneficiaryPreloaded, LoadedOnABSA: true,
		BeneficiaryNumber: intPtr(12), InstitutionRef: strPtr("CPT-ACC-884421"),
		DefaultPayerReference: strPtr("RATES"),
	})
	sarsVAT, _ := repo.CreateBeneficiary(ctx, &domain.Beneficiary{
		Name: "SARS-VAT", Type: domain.BeneficiaryPreloaded, LoadedOnABSA: true,
		BeneficiaryNumber: intPtr(8), InstitutionRef: strPtr("PRN-20261234567"),
		DefaultBeneficiaryReference: strPtr("VAT201"),
	})
	buildIt, _ := repo.CreateBeneficiary(ctx, &domain.Beneficiary{
		Name: "BuildIt Suppliers (Pty) Ltd", Type: domain.BeneficiaryStandard, LoadedOnABSA: true,
		BankName: strPtr("FNB"), BankAccountNumber: strPtr("62987654321"), BranchCode: strPtr("250655"),
		DefaultBeneficiaryReference: strPtr("INV"), DefaultPayerReference: strPtr("KLOPPER"),
		DefaultBeneficiaryPOPEmail: strPtr("accounts@buildit.co.za"),
	})
	apexLegal, _ := repo.CreateBeneficiary(ctx, &domain.Beneficiary{
		// Not yet on ABSA — payments to this beneficiary are blocked until loaded.
		Name: "Apex Legal Inc", Type: domain.BeneficiaryStandard, LoadedOnABSA: false,
		BankName: strPtr("Nedbank"), BankAccountNumber: strPtr("1234567890"), BranchCode: strPtr("198765"),
		DefaultPayerReference: strPtr("RETAINER"),
	})
	waterBoard, _ := repo.CreateBeneficiary(ctx, &domain.Beneficiary{
		Name: "SA Water Board", Type: domain.BeneficiaryPreloaded, LoadedOnABSA: true,
		BeneficiaryNumber: intPtr(3), InstitutionRef: strPtr("SAWB-009912"),
	})

	invoiceEmail := domain.PaymentEmail{
		ID: uuid.New(), Subject: "Invoice INV-2026-0089 from BuildIt Suppliers",
		SenderEmail: "ricky@klopper.co.za",
		Body:        "Please find attached invoice INV-2026-0089 for R12,500.00 for materials supplied in January 2026.",
		ReceivedAt:  mustParse("2026-02-10T07:45:00Z"), Processed: true,
		AttachmentPaths: []string{"payments/2026-feb/INV-2026-0089.pdf"},
	}
	vatEmail := domain.PaymentEmail{
		ID: uuid.New(), Subject: "SARS VAT Payment Due — Feb 2026",
		SenderEmail: "ricky@klopper.co.za",
		Body:        "VAT201 payment required. PRN: PRN-20261234567. Amount: R95,000.00. Due: 28 Feb 2026.",
		ReceivedAt:  mustParse("2026-02-07T10:30:00Z"), Processed: true,
		AttachmentPaths: []string{"payments/2026-feb/SARS-VAT-201-FEB2026.pdf"},
	}
	retainerEmail := domain.PaymentEmail{
		ID: uuid.New(), Subject: "Apex Legal Inc — February Retainer",
		SenderEmail: "ricky@klopper.co.za",
		Body:        "February retainer invoice from Apex Legal Inc. Amount: R33,400.00. Please load as new beneficiary.",
		ReceivedAt:  mustParse("2026-02-14T07:15:00Z"), Processed: true,
		AttachmentPaths: []string{"payments/2026-feb/Apex-Legal-Retainer-Feb2026.pdf"},
	}
	insuranceEmail := domain.PaymentEmail{
		// Not yet linked to a payment; awaiting manual review.
		ID: uuid.New(), Subject: "Pending: Insurance Renewal Premium",
		SenderEmail: "ricky@klopper.co.za",
		Body:        "Annual insurance renewal. See attached invoice. Urgent — due end of month.",
		ReceivedAt:  mustParse("2026-02-17T09:00:00Z"), Processed: false,
		AttachmentPaths: []string{"payments/2026-feb/Insurance-Renewal-2026.pdf"},
	}
	repo.SetPaymentEmails([]domain.PaymentEmail{invoiceEmail, vatEmail, retainerEmail, insuranceEmail})

	seedPayments := []*domain.Payment{
		{
			Reference: "PAY-001", Status: domain.PaymentPending, AmountCents: 1_250_000,
			SourceAccount: domain.AccountRef{ID: trustAccount.ID, Name: trustAccount.Name},
			Beneficiary:   domain.BeneficiaryRef{ID: buildIt.ID, Name: buildIt.Name},
			BeneficiaryReference: strPtr("INV-2026-0089"), PayerReference: strPtr("KLOPPER-FEB"),
			BeneficiaryPOPEmail: strPtr("accounts@buildit.co.za"),
			LinkedEmailID:       &invoiceEmail.ID,
			CreatedAt:           mustParse("2026-02-10T08:30:00Z"), UpdatedAt: mustParse("2026-02-10T08:30:00Z"),
		},
		{
			Reference: "PAY-002", Status: domain.PaymentApproved, AmountCents: 4_875_000,
			SourceAccount: domain.AccountRef{ID: trustAccount.ID, Name: trustAccount.Name},
			Beneficiary:   domain.BeneficiaryRef{ID: municipality.ID, Name: municipality.Name},
			BeneficiaryReference: strPtr("RATES-Q1-2026"), PayerReference: strPtr("RATES"),
			DateApproved: timePtr(mustParse("2026-02-12T09:00:00Z")),
			CreatedAt:    mustParse("2026-02-11T14:00:00Z"), UpdatedAt: mustParse("2026-02-12T09:00:00Z"),
		},
		{
			Reference: "PAY-003", Status: domain.PaymentLoaded, AmountCents: 9_500_000,
			SourceAccount: domain.AccountRef{ID: trustAccount.ID, Name: trustAccount.Name},
			Beneficiary:   domain.BeneficiaryRef{ID: sarsVAT.ID, Name: sarsVAT.Name},
			BeneficiaryReference: strPtr("VAT201"), PayerReference: strPtr("PRN-20261234567"),
			DateApproved:  timePtr(mustParse("2026-02-08T10:00:00Z")),
			LinkedEmailID: &vatEmail.ID,
			CreatedAt:     mustParse("2026-02-07T11:00:00Z"), UpdatedAt: mustParse("2026-02-13T16:00:00Z"),
		},
		{
			Reference: "PAY-004", Status: domain.PaymentAuthorised, AmountCents: 725_050,
			SourceAccount: domain.AccountRef{ID: propsAccount.ID, Name: propsAccount.Name},
			Beneficiary:   domain.BeneficiaryRef{ID: waterBoard.ID, Name: waterBoard.Name},
			DateApproved: timePtr(mustParse("2026-02-01T09:30:00Z")),
			CreatedAt:    mustParse("2026-01-31T14:00:00Z"), UpdatedAt: mustParse("2026-02-04T12:00:00Z"),
		},
		{
			Reference: "PAY-005", Status: domain.PaymentRejected, AmountCents: 1_500_000,
			SourceAccount: domain.AccountRef{ID: propsAccount.ID, Name: propsAccount.Name},
			Beneficiary:   domain.BeneficiaryRef{ID: apexLegal.ID, Name: apexLegal.Name},
			BeneficiaryReference: strPtr("RETAINER-JAN"), PayerReference: strPtr("KLOPPER"),
			Notes:     strPtr("Beneficiary not yet loaded on ABSA — rejected, needs to be loaded first."),
			CreatedAt: mustParse("2026-02-05T10:00:00Z"), UpdatedAt: mustParse("2026-02-06T09:00:00Z"),
		},
		{
			Reference: "PAY-006", Status: domain.PaymentPending, AmountCents: 3_340_000,
			SourceAccount: domain.AccountRef{ID: trustAccount.ID, Name: trustAccount.Name},
			Beneficiary:   domain.BeneficiaryRef{ID: apexLegal.ID, Name: apexLegal.Name},
			BeneficiaryReference: strPtr("RETAINER-FEB"), PayerReference: strPtr("KLOPPER"),
			IsNewBeneficiary: true,
			Notes:            strPtr("New beneficiary — Apex Legal Inc must be loaded on ABSA before payment can proceed."),
			LinkedEmailID:    &retainerEmail.ID,
			CreatedAt:        mustParse("2026-02-14T08:00:00Z"), UpdatedAt: mustParse("2026-02-14T08:00:00Z"),
		},
		{
			Reference: "PAY-007", Status: domain.PaymentApproved, AmountCents: 550_000,
			SourceAccount: domain.AccountRef{ID: propsAccount.ID, Name: propsAccount.Name},
			Beneficiary:   domain.BeneficiaryRef{ID: buildIt.ID, Name: buildIt.Name},
			BeneficiaryReference: strPtr("INV-2026-0092"), PayerReference: strPtr("PROPS-FEB"),
			DateApproved: timePtr(mustParse("2026-02-15T11:00:00Z")),
			CreatedAt:    mustParse("2026-02-14T15:00:00Z"), UpdatedAt: mustParse("2026-02-15T11:00:00Z"),
		},
		{
			Reference: "PAY-008", Status: domain.PaymentAuthorised, AmountCents: 2_210_000,
			SourceAccount: domain.AccountRef{ID: trustAccount.ID, Name: trustAccount.Name},
			Beneficiary:   domain.BeneficiaryRef{ID: municipality.ID, Name: municipality.Name},
			BeneficiaryReference: strPtr("LEVIES-Q4-2025"),
			DateApproved:         timePtr(mustParse("2025-12-15T09:00:00Z")),
			CreatedAt:            mustParse("2025-12-14T10:00:00Z"), UpdatedAt: mustParse("2025-12-16T14:00:00Z"),
		},
		{
			Reference: "PAY-009", Status: domain.PaymentLoaded, AmountCents: 1_120_000,
			SourceAccount: domain.AccountRef{ID: trustAccount.ID, Name: trustAccount.Name},
			Beneficiary:   domain.BeneficiaryRef{ID: waterBoard.ID, Name: waterBoard.Name},
			DateApproved: timePtr(mustParse("2026-02-16T08:00:00Z")),
			CreatedAt:    mustParse("2026-02-15T16:00:00Z"), UpdatedAt: mustParse("2026-02-17T09:00:00Z"),
		},
	}
	for _, p := range seedPayments {
		if _, err := repo.CreatePayment(ctx, p); err != nil {
			panic(err)
		}
	}

	return repo
}
