/**
 * @description
 * This file contains the in-memory implementation of the Repository interface.
 * It backs demo mode (no DATABASE_URL configured) and the test suites. All data
 * lives in process memory behind a single RWMutex and resets on restart.
 *
 * Reads return copies of the stored records so callers can never mutate the
 * store through a returned pointer; all writes go through the repository
 * methods, which preserves the single-writer guarantee per entity id.
 */

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klopper/paydesk/internal/domain"
)

// MemoryRepository is an in-memory Repository. Safe for concurrent use.
type MemoryRepository struct {
	mu sync.RWMutex

	payments      map[uuid.UUID]*domain.Payment
	beneficiaries map[uuid.UUID]*domain.Beneficiary
	bankAccounts  []domain.BankAccount
	emails        []domain.PaymentEmail

	// now is swappable so tests can pin transition timestamps.
	now func() time.Time
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		payments:      map[uuid.UUID]*domain.Payment{},
		beneficiaries: map[uuid.UUID]*domain.Beneficiary{},
		now:           time.Now,
	}
}

func copyPayment(p *domain.Payment) *domain.Payment {
	c := *p
	return &c
}

func copyBeneficiary(b *domain.Beneficiary) *domain.Beneficiary {
	c := *b
	return &c
}

// GetPaymentByID returns a copy of the payment with the given id.
func (r *MemoryRepository) GetPaymentByID(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.payments[paymentID]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	return copyPayment(p), nil
}

// ListPayments returns copies of all payments, newest first, optionally
// filtered by status.
func (r *MemoryRepository) ListPayments(ctx context.Context, opts domain.PaymentListOptions) ([]domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payments := make([]domain.Payment, 0, len(r.payments))
	for _, p := range r.payments {
		if opts.Status != "" && p.Status != opts.Status {
			continue
		}
		payments = append(payments, *copyPayment(p))
	}
	sort.Slice(payments, func(i, j int) bool {
		if payments[i].CreatedAt.Equal(payments[j].CreatedAt) {
			return payments[i].Reference > payments[j].Reference
		}
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
	return payments, nil
}

// TransitionPaymentStatus applies a compare-and-swap status update under the
// store lock, mirroring the conditional UPDATE of the Postgres implementation.
func (r *MemoryRepository) TransitionPaymentStatus(ctx context.Context, paymentID uuid.UUID, t PaymentStatusTransition) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[paymentID]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	if p.Status != t.From {
		return nil, ErrPaymentStatusConflict
	}

	now := r.now()
	p.Status = t.To
	if t.SetDateApproved {
		stamp := now
		p.DateApproved = &stamp
	}
	if t.AppendNotes != nil {
		notes := *t.AppendNotes
		p.Notes = &notes
	}
	p.UpdatedAt = now

	return copyPayment(p), nil
}

// CreatePayment appends a new payment record and returns a copy of it.
func (r *MemoryRepository) CreatePayment(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyPayment(p)
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	now := r.now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = stored.CreatedAt
	}
	r.payments[stored.ID] = stored
	return copyPayment(stored), nil
}

// CreateBeneficiary appends a new beneficiary and returns a copy of the stored record.
func (r *MemoryRepository) CreateBeneficiary(ctx context.Context, b *domain.Beneficiary) (*domain.Beneficiary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyBeneficiary(b)
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	r.beneficiaries[stored.ID] = stored
	return copyBeneficiary(stored), nil
}

// GetBeneficiaryByID returns a copy of the beneficiary with the given id.
func (r *MemoryRepository) GetBeneficiaryByID(ctx context.Context, beneficiaryID uuid.UUID) (*domain.Beneficiary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.beneficiaries[beneficiaryID]
	if !ok {
		return nil, ErrBeneficiaryNotFound
	}
	return copyBeneficiary(b), nil
}

// ListBeneficiaries returns copies of all beneficiaries ordered by name.
func (r *MemoryRepository) ListBeneficiaries(ctx context.Context) ([]domain.Beneficiary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	beneficiaries := make([]domain.Beneficiary, 0, len(r.beneficiaries))
	for _, b := range r.beneficiaries {
		beneficiaries = append(beneficiaries, *copyBeneficiary(b))
	}
	sort.Slice(beneficiaries, func(i, j int) bool {
		return beneficiaries[i].Name < beneficiaries[j].Name
	})
	return beneficiaries, nil
}

// SetBankAccounts replaces the fixed source-account list. Seeding only.
func (r *MemoryRepository) SetBankAccounts(accounts []domain.BankAccount) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bankAccounts = append([]domain.BankAccount(nil), accounts...)
}

// ListBankAccounts returns a copy of the source-account list.
func (r *MemoryRepository) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.BankAccount(nil), r.bankAccounts...), nil
}

// SetPaymentEmails replaces the ingestion email list. Seeding only.
func (r *MemoryRepository) SetPaymentEmails(emails []domain.PaymentEmail) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails = append([]domain.PaymentEmail(nil), emails...)
}

// ListPaymentEmails returns a copy of the email list, newest first.
func (r *MemoryRepository) ListPaymentEmails(ctx context.Context) ([]domain.PaymentEmail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emails := append([]domain.PaymentEmail(nil), r.emails...)
	sort.Slice(emails, func(i, j int) bool {
		return emails[i].ReceivedAt.After(emails[j].ReceivedAt)
	})
	return emails, nil
}
