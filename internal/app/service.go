/**
 * @description
 * This file contains the core business logic for paydesk: the payment lifecycle
 * engine. The `Service` struct owns the status state machine, enforces which
 * role may trigger each transition, and coordinates the compare-and-swap writes
 * against the record store. It also carries the beneficiary creation flow and
 * the read operations backing the dashboard.
 *
 * The legal transitions are held in a single package-level table and queried
 * once per action; the role check happens here, independent of the HTTP layer,
 * because the UI is not a trust boundary.
 *
 * @dependencies
 * - context, errors, fmt, log, sync, time: Standard Go libraries.
 * - github.com/google/uuid: For UUID handling.
 * - internal/domain, internal/store: For domain models and data access.
 * - pkg/rabbitmq: For publishing lifecycle events.
 */

package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klopper/paydesk/internal/domain"
	"github.com/klopper/paydesk/internal/store"
	"github.com/klopper/paydesk/pkg/rabbitmq"
)

// Action is an operator-triggered lifecycle action on a payment.
type Action string

const (
	ActionApprove   Action = "approve"
	ActionReject    Action = "reject"
	ActionLoad      Action = "load"
	ActionAuthorise Action = "authorise"
)

type transitionKey struct {
	From   domain.PaymentStatus
	Action Action
}

type transitionRule struct {
	To              domain.PaymentStatus
	Role            domain.Role
	SetDateApproved bool
}

// transitionTable is the complete set of legal (status, action) pairs, the role
// permitted to trigger each, and the resulting status. Anything not listed here
// is denied. Note: reject is legal from pending and from loaded but not from
// approved, matching the workflow as operated.
var transitionTable = map[transitionKey]transitionRule{
	{domain.PaymentPending, ActionApprove}:  {To: domain.PaymentApproved, Role: domain.RoleAdmin, SetDateApproved: true},
	{domain.PaymentPending, ActionReject}:   {To: domain.PaymentRejected, Role: domain.RoleAdmin},
	{domain.PaymentApproved, ActionLoad}:    {To: domain.PaymentLoaded, Role: domain.RoleLoader},
	{domain.PaymentLoaded, ActionReject}:    {To: domain.PaymentRejected, Role: domain.RoleAdmin},
	{domain.PaymentLoaded, ActionAuthorise}: {To: domain.PaymentAuthorised, Role: domain.RoleAdmin},
}

// TransitionDeniedError reports an illegal transition attempt: either the
// action is not defined for the payment's current status, or the calling role
// is not permitted to trigger it. The payment is left unmodified.
type TransitionDeniedError struct {
	PaymentID    uuid.UUID
	Status       domain.PaymentStatus
	Action       Action
	Role         domain.Role
	RoleMismatch bool
}

func (e *TransitionDeniedError) Error() string {
	if e.RoleMismatch {
		return fmt.Sprintf("transition denied: role %q may not %s payment %s in status %q", e.Role, e.Action, e.PaymentID, e.Status)
	}
	return fmt.Sprintf("transition denied: cannot %s payment %s in status %q", e.Action, e.PaymentID, e.Status)
}

// BeneficiaryValidationError reports a beneficiary payload whose fields do not
// match its declared type.
type BeneficiaryValidationError struct {
	Message string
}

func (e *BeneficiaryValidationError) Error() string {
	return "invalid beneficiary: " + e.Message
}

// InvalidStatusFilterError reports an unknown status value in a list filter.
type InvalidStatusFilterError struct {
	Value string
}

func (e *InvalidStatusFilterError) Error() string {
	return fmt.Sprintf("unknown payment status %q", e.Value)
}

// Service provides the core business logic for the payments desk.
type Service struct {
	repo          store.Repository
	eventProducer rabbitmq.Publisher
	eventExchange string

	// paymentLocks serialises transitions per payment id so at most one
	// transition is in flight per payment at a time. The store's
	// compare-and-swap is the backstop for anything outside this process.
	lockMu       sync.Mutex
	paymentLocks map[uuid.UUID]*sync.Mutex
}

// NewService creates a new paydesk service instance. The event producer may be
// nil when the broker is unavailable; transitions then proceed without events.
func NewService(repo store.Repository, producer rabbitmq.Publisher, eventExchange string) *Service {
	return &Service{
		repo:          repo,
		eventProducer: producer,
		eventExchange: eventExchange,
		paymentLocks:  map[uuid.UUID]*sync.Mutex{},
	}
}

func (s *Service) lockPayment(paymentID uuid.UUID) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	mu, ok := s.paymentLocks[paymentID]
	if !ok {
		mu = &sync.Mutex{}
		s.paymentLocks[paymentID] = mu
	}
	return mu
}

// ApprovePayment moves a pending payment to approved and stamps dateApproved.
// Admin only.
func (s *Service) ApprovePayment(ctx context.Context, paymentID uuid.UUID, actor domain.Identity) (*domain.Payment, error) {
	return s.transition(ctx, paymentID, actor, ActionApprove, nil)
}

// RejectPayment moves a pending or loaded payment to rejected. Admin only.
// An optional note (e.g. the rejection reason) is recorded on the payment.
func (s *Service) RejectPayment(ctx context.Context, paymentID uuid.UUID, actor domain.Identity, notes *string) (*domain.Payment, error) {
	return s.transition(ctx, paymentID, actor, ActionReject, notes)
}

// MarkPaymentLoaded moves an approved payment to loaded, meaning it has been
// entered into the bank platform and awaits final authorisation. Loader only.
func (s *Service) MarkPaymentLoaded(ctx context.Context, paymentID uuid.UUID, actor domain.Identity) (*domain.Payment, error) {
	return s.transition(ctx, paymentID, actor, ActionLoad, nil)
}

// AuthorisePayment moves a loaded payment to authorised, the terminal success
// state: the bank has released the funds. Admin only.
func (s *Service) AuthorisePayment(ctx context.Context, paymentID uuid.UUID, actor domain.Identity) (*domain.Payment, error) {
	return s.transition(ctx, paymentID, actor, ActionAuthorise, nil)
}

func (s *Service) transition(ctx context.Context, paymentID uuid.UUID, actor domain.Identity, action Action, notes *string) (*domain.Payment, error) {
	mu := s.lockPayment(paymentID)
	mu.Lock()
	defer mu.Unlock()

	// Re-fetch before every transition; the engine holds no payment state of
	// its own and must not act on a stale snapshot.
	payment, err := s.repo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	rule, ok := transitionTable[transitionKey{payment.Status, action}]
	if !ok {
		return nil, &TransitionDeniedError{PaymentID: paymentID, Status: payment.Status, Action: action, Role: actor.Role}
	}
	if actor.Role != rule.Role {
		return nil, &TransitionDeniedError{PaymentID: paymentID, Status: payment.Status, Action: action, Role: actor.Role, RoleMismatch: true}
	}

	previous := payment.Status
	updated, err := s.repo.TransitionPaymentStatus(ctx, paymentID, store.PaymentStatusTransition{
		From:            previous,
		To:              rule.To,
		SetDateApproved: rule.SetDateApproved && payment.DateApproved == nil,
		AppendNotes:     notes,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("level=info component=lifecycle msg=\"payment transitioned\" payment_id=%s reference=%s from=%s to=%s actor=%s role=%s",
		updated.ID, updated.Reference, previous, updated.Status, actor.Email, actor.Role)

	s.publishStatusEvent(ctx, updated, previous, actor)
	return updated, nil
}

func (s *Service) publishStatusEvent(ctx context.Context, p *domain.Payment, previous domain.PaymentStatus, actor domain.Identity) {
	if s.eventProducer == nil {
		return
	}

	event := domain.PaymentStatusEvent{
		PaymentID:      p.ID,
		Reference:      p.Reference,
		PreviousStatus: previous,
		NewStatus:      p.Status,
		ActorEmail:     actor.Email,
		ActorRole:      actor.Role,
		OccurredAt:     time.Now().UTC(),
	}
	routingKey := "payment.status." + string(p.Status)
	if err := s.eventProducer.Publish(ctx, s.eventExchange, routingKey, event); err != nil {
		// The transition has already committed; a lost event must not fail the
		// request. Downstream consumers reconcile from the store.
		log.Printf("level=warn component=lifecycle msg=\"status event publish failed\" payment_id=%s routing_key=%s err=%v", p.ID, routingKey, err)
	}
}

// GetPayment returns a single payment by id.
func (s *Service) GetPayment(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error) {
	return s.repo.GetPaymentByID(ctx, paymentID)
}

// ListPayments returns payments, optionally filtered by status. The raw filter
// value comes from a query string, so it is validated here.
func (s *Service) ListPayments(ctx context.Context, statusFilter string) ([]domain.Payment, error) {
	opts := domain.PaymentListOptions{}
	if trimmed := strings.TrimSpace(statusFilter); trimmed != "" {
		status := domain.PaymentStatus(trimmed)
		if !status.Valid() {
			return nil, &InvalidStatusFilterError{Value: trimmed}
		}
		opts.Status = status
	}
	return s.repo.ListPayments(ctx, opts)
}

// CreateBeneficiary validates that exactly the fields appropriate to the
// declared type are populated, then appends the beneficiary to the store and
// returns the stored record.
func (s *Service) CreateBeneficiary(ctx context.Context, payload domain.CreateBeneficiaryPayload) (*domain.Beneficiary, error) {
	if err := validateBeneficiaryPayload(payload); err != nil {
		return nil, err
	}

	beneficiary := &domain.Beneficiary{
		Name:                        strings.TrimSpace(payload.Name),
		Type:                        payload.Type,
		LoadedOnABSA:                payload.LoadedOnABSA,
		BeneficiaryNumber:           payload.BeneficiaryNumber,
		BankName:                    payload.BankName,
		BankAccountNumber:           payload.BankAccountNumber,
		BranchCode:                  payload.BranchCode,
		InstitutionRef:              payload.InstitutionRef,
		DefaultBeneficiaryReference: payload.DefaultBeneficiaryReference,
		DefaultPayerReference:       payload.DefaultPayerReference,
		DefaultBeneficiaryPOPEmail:  payload.DefaultBeneficiaryPOPEmail,
		DefaultPayerPOPEmail:        payload.DefaultPayerPOPEmail,
	}
	return s.repo.CreateBeneficiary(ctx, beneficiary)
}

func hasValue(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func validateBeneficiaryPayload(p domain.CreateBeneficiaryPayload) error {
	if strings.TrimSpace(p.Name) == "" {
		return &BeneficiaryValidationError{Message: "name is required"}
	}

	switch p.Type {
	case domain.BeneficiaryStandard:
		if !hasValue(p.BankName) || !hasValue(p.BankAccountNumber) || !hasValue(p.BranchCode) {
			return &BeneficiaryValidationError{Message: "standard beneficiaries require bank name, account number and branch code"}
		}
		if hasValue(p.InstitutionRef) || p.BeneficiaryNumber != nil {
			return &BeneficiaryValidationError{Message: "standard beneficiaries may not carry an institution reference or beneficiary number"}
		}
	case domain.BeneficiaryPreloaded:
		if !hasValue(p.InstitutionRef) {
			return &BeneficiaryValidationError{Message: "preloaded beneficiaries require an institution reference"}
		}
		if hasValue(p.BankName) || hasValue(p.BankAccountNumber) || hasValue(p.BranchCode) {
			return &BeneficiaryValidationError{Message: "preloaded beneficiaries may not carry banking fields"}
		}
	default:
		return &BeneficiaryValidationError{Message: fmt.Sprintf("unknown beneficiary type %q", p.Type)}
	}
	return nil
}

// GetBeneficiary returns a single beneficiary by id.
func (s *Service) GetBeneficiary(ctx context.Context, beneficiaryID uuid.UUID) (*domain.Beneficiary, error) {
	return s.repo.GetBeneficiaryByID(ctx, beneficiaryID)
}

// ListBeneficiaries returns all known beneficiaries.
func (s *Service) ListBeneficiaries(ctx context.Context) ([]domain.Beneficiary, error) {
	return s.repo.ListBeneficiaries(ctx)
}

// ListBankAccounts returns the organisation's own source accounts.
func (s *Service) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	return s.repo.ListBankAccounts(ctx)
}

// ListPaymentEmails returns inbound payment-request emails, processed or not.
func (s *Service) ListPaymentEmails(ctx context.Context) ([]domain.PaymentEmail, error) {
	return s.repo.ListPaymentEmails(ctx)
}
