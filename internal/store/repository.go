/**
 * @description
 * This file defines the `Repository` interface, the contract for all data
 * access the lifecycle engine and handlers depend on. Defining an interface
 * decouples the business logic from the concrete storage (PostgreSQL in
 * production, in-memory for demo mode and tests) so the engine's transition
 * logic is storage-agnostic.
 *
 * @dependencies
 * - context: Standard Go library.
 * - github.com/google/uuid: For UUID handling.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/klopper/paydesk/internal/domain"
)

var (
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrBeneficiaryNotFound   = errors.New("beneficiary not found")
	ErrPaymentStatusConflict = errors.New("payment status changed concurrently")
)

// PaymentStatusTransition describes a compare-and-swap status update. The store
// must apply it only if the payment's current status still equals From, and must
// re-stamp updated_at as part of the same write.
type PaymentStatusTransition struct {
	From            domain.PaymentStatus
	To              domain.PaymentStatus
	SetDateApproved bool    // stamp date_approved = now (first pending→approved only)
	AppendNotes     *string // optional operator note recorded with the transition
}

// Repository defines the set of methods for interacting with the record store.
type Repository interface {
	// Payment methods
	GetPaymentByID(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error)
	ListPayments(ctx context.Context, opts domain.PaymentListOptions) ([]domain.Payment, error)
	// TransitionPaymentStatus applies t atomically. Returns ErrPaymentNotFound if
	// the id is unknown and ErrPaymentStatusConflict if the status no longer
	// matches t.From at write time.
	TransitionPaymentStatus(ctx context.Context, paymentID uuid.UUID, t PaymentStatusTransition) (*domain.Payment, error)
	// CreatePayment appends a new pending payment. Used by the upstream
	// ingestion collaborator and by seeding; not exposed over HTTP.
	CreatePayment(ctx context.Context, p *domain.Payment) (*domain.Payment, error)

	// Beneficiary methods (append-only in current scope)
	CreateBeneficiary(ctx context.Context, b *domain.Beneficiary) (*domain.Beneficiary, error)
	GetBeneficiaryByID(ctx context.Context, beneficiaryID uuid.UUID) (*domain.Beneficiary, error)
	ListBeneficiaries(ctx context.Context) ([]domain.Beneficiary, error)

	// Reference data
	ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error)
	ListPaymentEmails(ctx context.Context) ([]domain.PaymentEmail, error)
}
