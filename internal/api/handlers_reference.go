/**
 * @description
 * This file contains the HTTP handlers for the dashboard's reference data:
 * beneficiaries (list + append-only create), the organisation's own bank
 * accounts, and inbound payment-request emails.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/klopper/paydesk/internal/app"
	"github.com/klopper/paydesk/internal/domain"
)

// ListBeneficiariesHandler handles GET /dashboard/beneficiaries.
func (h *Handlers) ListBeneficiariesHandler(w http.ResponseWriter, r *http.Request) {
	beneficiaries, err := h.service.ListBeneficiaries(r.Context())
	if err != nil {
		log.Printf("level=error component=api endpoint=list_beneficiaries outcome=failed err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "Could not retrieve beneficiaries")
		return
	}
	h.writeJSON(w, http.StatusOK, beneficiaries)
}

// CreateBeneficiaryHandler handles POST /dashboard/beneficiaries.
func (h *Handlers) CreateBeneficiaryHandler(w http.ResponseWriter, r *http.Request) {
	var payload domain.CreateBeneficiaryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	beneficiary, err := h.service.CreateBeneficiary(r.Context(), payload)
	if err != nil {
		var validationErr *app.BeneficiaryValidationError
		if errors.As(err, &validationErr) {
			h.writeError(w, http.StatusBadRequest, validationErr.Error())
			return
		}
		log.Printf("level=error component=api endpoint=create_beneficiary outcome=failed err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "Could not create beneficiary")
		return
	}

	h.writeJSON(w, http.StatusCreated, beneficiary)
}

// ListBankAccountsHandler handles GET /dashboard/bank-accounts.
func (h *Handlers) ListBankAccountsHandler(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListBankAccounts(r.Context())
	if err != nil {
		log.Printf("level=error component=api endpoint=list_bank_accounts outcome=failed err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "Could not retrieve bank accounts")
		return
	}
	h.writeJSON(w, http.StatusOK, accounts)
}

// ListEmailsHandler handles GET /dashboard/emails.
func (h *Handlers) ListEmailsHandler(w http.ResponseWriter, r *http.Request) {
	emails, err := h.service.ListPaymentEmails(r.Context())
	if err != nil {
		log.Printf("level=error component=api endpoint=list_emails outcome=failed err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "Could not retrieve emails")
		return
	}
	h.writeJSON(w, http.StatusOK, emails)
}
