/**
 * @description
 * This file contains the PostgreSQL implementation of the Repository interface.
 * It uses the pgx driver and a pgxpool connection pool. Status transitions are
 * written with a conditional UPDATE so that the previous status is re-checked at
 * write time (compare-and-swap); a lost race surfaces as ErrPaymentStatusConflict
 * rather than silently overwriting a concurrent transition.
 *
 * @dependencies
 * - context, fmt, time: Standard Go libraries.
 * - github.com/jackc/pgx/v5, pgxpool: PostgreSQL driver and pooling.
 * - github.com/google/uuid: For UUID handling.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klopper/paydesk/internal/domain"
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const paymentColumns = `
	id, reference, status, amount_cents,
	source_account_id, source_account_name,
	beneficiary_id, beneficiary_name,
	beneficiary_reference, payer_reference,
	beneficiary_pop_email, payer_pop_email,
	is_new_beneficiary, notes, linked_email_id,
	date_approved, created_at, updated_at
`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	var status string
	err := row.Scan(
		&p.ID, &p.Reference, &status, &p.AmountCents,
		&p.SourceAccount.ID, &p.SourceAccount.Name,
		&p.Beneficiary.ID, &p.Beneficiary.Name,
		&p.BeneficiaryReference, &p.PayerReference,
		&p.BeneficiaryPOPEmail, &p.PayerPOPEmail,
		&p.IsNewBeneficiary, &p.Notes, &p.LinkedEmailID,
		&p.DateApproved, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = domain.PaymentStatus(status)
	return &p, nil
}

// GetPaymentByID retrieves a single payment by its internal id.
func (r *PostgresRepository) GetPaymentByID(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(r.db.QueryRow(ctx, query, paymentID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListPayments returns payments newest first, optionally filtered by status.
func (r *PostgresRepository) ListPayments(ctx context.Context, opts domain.PaymentListOptions) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments`
	args := []interface{}{}
	if opts.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(opts.Status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

// TransitionPaymentStatus applies a compare-and-swap status update. The WHERE
// clause re-checks the previous status so two concurrent transitions on the
// same payment cannot both succeed.
func (r *PostgresRepository) TransitionPaymentStatus(ctx context.Context, paymentID uuid.UUID, t PaymentStatusTransition) (*domain.Payment, error) {
	query := `
		UPDATE payments
		SET
			status = $3,
			date_approved = CASE WHEN $4 THEN NOW() ELSE date_approved END,
			notes = COALESCE($5, notes),
			updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + paymentColumns

	p, err := scanPayment(r.db.QueryRow(ctx, query, paymentID, string(t.From), string(t.To), t.SetDateApproved, t.AppendNotes))
	if err == nil {
		return p, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	// No row updated: distinguish a missing payment from a lost status race.
	var exists bool
	if checkErr := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE id = $1)`, paymentID).Scan(&exists); checkErr != nil {
		return nil, checkErr
	}
	if !exists {
		return nil, ErrPaymentNotFound
	}
	return nil, ErrPaymentStatusConflict
}

// CreatePayment appends a new payment record. Callers are expected to supply
// pending status; timestamps are stamped by the database.
func (r *PostgresRepository) CreatePayment(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	query := `
		INSERT INTO payments (
			id, reference, status, amount_cents,
			source_account_id, source_account_name,
			beneficiary_id, beneficiary_name,
			beneficiary_reference, payer_reference,
			beneficiary_pop_email, payer_pop_email,
			is_new_beneficiary, notes, linked_email_id,
			date_approved, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING ` + paymentColumns

	return scanPayment(r.db.QueryRow(ctx, query,
		p.ID, p.Reference, string(p.Status), p.AmountCents,
		p.SourceAccount.ID, p.SourceAccount.Name,
		p.Beneficiary.ID, p.Beneficiary.Name,
		p.BeneficiaryReference, p.PayerReference,
		p.BeneficiaryPOPEmail, p.PayerPOPEmail,
		p.IsNewBeneficiary, p.Notes, p.LinkedEmailID,
		p.DateApproved,
	))
}

const beneficiaryColumns = `
	id, name, type, loaded_on_absa, beneficiary_number,
	bank_name, bank_account_number, branch_code, institution_reference,
	default_beneficiary_reference, default_payer_reference,
	default_beneficiary_pop_email, default_payer_pop_email
`

func scanBeneficiary(row pgx.Row) (*domain.Beneficiary, error) {
	var b domain.Beneficiary
	var benType string
	err := row.Scan(
		&b.ID, &b.Name, &benType, &b.LoadedOnABSA, &b.BeneficiaryNumber,
		&b.BankName, &b.BankAccountNumber, &b.BranchCode, &b.InstitutionRef,
		&b.DefaultBeneficiaryReference, &b.DefaultPayerReference,
		&b.DefaultBeneficiaryPOPEmail, &b.DefaultPayerPOPEmail,
	)
	if err != nil {
		return nil, err
	}
	b.Type = domain.BeneficiaryType(benType)
	return &b, nil
}

// CreateBeneficiary appends a new beneficiary record and returns the stored row.
func (r *PostgresRepository) CreateBeneficiary(ctx context.Context, b *domain.Beneficiary) (*domain.Beneficiary, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	query := `
		INSERT INTO beneficiaries (` + beneficiaryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + beneficiaryColumns

	return scanBeneficiary(r.db.QueryRow(ctx, query,
		b.ID, b.Name, string(b.Type), b.LoadedOnABSA, b.BeneficiaryNumber,
		b.BankName, b.BankAccountNumber, b.BranchCode, b.InstitutionRef,
		b.DefaultBeneficiaryReference, b.DefaultPayerReference,
		b.DefaultBeneficiaryPOPEmail, b.DefaultPayerPOPEmail,
	))
}

// GetBeneficiaryByID retrieves a beneficiary by id.
func (r *PostgresRepository) GetBeneficiaryByID(ctx context.Context, beneficiaryID uuid.UUID) (*domain.Beneficiary, error) {
	query := `SELECT ` + beneficiaryColumns + ` FROM beneficiaries WHERE id = $1`
	b, err := scanBeneficiary(r.db.QueryRow(ctx, query, beneficiaryID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrBeneficiaryNotFound
		}
		return nil, err
	}
	return b, nil
}

// ListBeneficiaries returns all beneficiaries ordered by name.
func (r *PostgresRepository) ListBeneficiaries(ctx context.Context) ([]domain.Beneficiary, error) {
	query := `SELECT ` + beneficiaryColumns + ` FROM beneficiaries ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	beneficiaries := []domain.Beneficiary{}
	for rows.Next() {
		b, err := scanBeneficiary(rows)
		if err != nil {
			return nil, err
		}
		beneficiaries = append(beneficiaries, *b)
	}
	return beneficiaries, rows.Err()
}

// ListBankAccounts returns the organisation's source accounts.
func (r *PostgresRepository) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, account_number, branch_code FROM bank_accounts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []domain.BankAccount{}
	for rows.Next() {
		var a domain.BankAccount
		if err := rows.Scan(&a.ID, &a.Name, &a.AccountNumber, &a.BranchCode); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// ListPaymentEmails returns inbound payment-request emails, newest first.
func (r *PostgresRepository) ListPaymentEmails(ctx context.Context) ([]domain.PaymentEmail, error) {
	query := `
		SELECT id, subject, sender_email, body, received_at, processed, attachment_paths
		FROM payment_emails
		ORDER BY received_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := []domain.PaymentEmail{}
	for rows.Next() {
		var e domain.PaymentEmail
		if err := rows.Scan(&e.ID, &e.Subject, &e.SenderEmail, &e.Body, &e.ReceivedAt, &e.Processed, &e.AttachmentPaths); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// Ping verifies database connectivity with a bounded timeout; used at bootstrap.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.db.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
