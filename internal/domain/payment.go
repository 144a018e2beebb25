/**
 * @description
 * This file defines the core domain models for paydesk: the Payment entity and
 * its lifecycle status, plus the immutable reference entities (bank accounts).
 * These structs are shared by the store, the lifecycle engine, and the API layer.
 *
 * @notes
 * - Amounts are stored as `int64` in cents to avoid floating-point inaccuracies
 *   with financial data.
 * - Payments embed `{id, name}` snapshots of the source account and destination
 *   beneficiary so a payment row stays readable even if reference data changes.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the lifecycle state of a payment.
//
//	pending → approved → loaded → authorised
//
// A payment can also be rejected from pending or from loaded.
// `authorised` and `rejected` are terminal.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentApproved   PaymentStatus = "approved"
	PaymentLoaded     PaymentStatus = "loaded"
	PaymentAuthorised PaymentStatus = "authorised"
	PaymentRejected   PaymentStatus = "rejected"
)

// Valid reports whether s is one of the five known lifecycle states.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentApproved, PaymentLoaded, PaymentAuthorised, PaymentRejected:
		return true
	}
	return false
}

// Terminal reports whether no transition is defined out of s.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentAuthorised || s == PaymentRejected
}

// AccountRef is a point-in-time snapshot of a source bank account on a payment.
type AccountRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// BeneficiaryRef is a point-in-time snapshot of the destination beneficiary on a payment.
type BeneficiaryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Payment represents a single outbound payment instruction moving through the
// approval workflow. This struct maps directly to the `payments` table.
type Payment struct {
	ID                   uuid.UUID      `json:"id" db:"id"`
	Reference            string         `json:"reference" db:"reference"` // human-readable, e.g. "PAY-001"
	Status               PaymentStatus  `json:"status" db:"status"`
	AmountCents          int64          `json:"amount_cents" db:"amount_cents"`
	SourceAccount        AccountRef     `json:"source_account"`
	Beneficiary          BeneficiaryRef `json:"beneficiary"`
	BeneficiaryReference *string        `json:"beneficiary_reference,omitempty" db:"beneficiary_reference"` // shown on the beneficiary's statement
	PayerReference       *string        `json:"payer_reference,omitempty" db:"payer_reference"`             // shown on the payer's statement
	BeneficiaryPOPEmail  *string        `json:"beneficiary_pop_email,omitempty" db:"beneficiary_pop_email"` // proof-of-payment recipient
	PayerPOPEmail        *string        `json:"payer_pop_email,omitempty" db:"payer_pop_email"`
	IsNewBeneficiary     bool           `json:"is_new_beneficiary" db:"is_new_beneficiary"` // blocked until the beneficiary is loaded on ABSA
	Notes                *string        `json:"notes,omitempty" db:"notes"`
	LinkedEmailID        *uuid.UUID     `json:"linked_email_id,omitempty" db:"linked_email_id"`
	DateApproved         *time.Time     `json:"date_approved,omitempty" db:"date_approved"`
	CreatedAt            time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at" db:"updated_at"`
}

// BankAccount is one of the organisation's own source accounts. Reference data,
// never mutated through this service.
type BankAccount struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	AccountNumber string    `json:"account_number"`
	BranchCode    string    `json:"branch_code"`
}

// PaymentListOptions controls filtering when listing payments.
type PaymentListOptions struct {
	Status PaymentStatus // zero value means no status filter
}
