/**
 * @description
 * This file contains the HTTP handlers for payment endpoints: listing, detail,
 * and the four lifecycle transition operations. The caller's role is always
 * taken from the guard-verified session identity, never from client input; the
 * lifecycle engine re-checks it independently.
 */

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/klopper/paydesk/internal/app"
	"github.com/klopper/paydesk/internal/domain"
	"github.com/klopper/paydesk/internal/store"
)

// ListPaymentsHandler handles GET /dashboard/payments, optionally filtered
// with ?status=.
func (h *Handlers) ListPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.ListPayments(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		var filterErr *app.InvalidStatusFilterError
		if errors.As(err, &filterErr) {
			h.writeError(w, http.StatusBadRequest, filterErr.Error())
			return
		}
		log.Printf("level=error component=api endpoint=list_payments outcome=failed err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "Could not retrieve payments")
		return
	}
	h.writeJSON(w, http.StatusOK, payments)
}

// GetPaymentHandler handles GET /dashboard/payments/{id}.
func (h *Handlers) GetPaymentHandler(w http.ResponseWriter, r *http.Request) {
	paymentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	payment, err := h.service.GetPayment(r.Context(), paymentID)
	if err != nil {
		if errors.Is(err, store.ErrPaymentNotFound) {
			h.writeError(w, http.StatusNotFound, "Payment not found")
			return
		}
		log.Printf("level=error component=api endpoint=get_payment outcome=failed payment_id=%s err=%v", paymentID, err)
		h.writeError(w, http.StatusInternalServerError, "Could not retrieve payment")
		return
	}
	h.writeJSON(w, http.StatusOK, payment)
}

type rejectRequest struct {
	Notes *string `json:"notes,omitempty"`
}

type transitionFunc func(ctx context.Context, paymentID uuid.UUID, actor domain.Identity) (*domain.Payment, error)

func (h *Handlers) handleTransition(w http.ResponseWriter, r *http.Request, endpoint string, fn transitionFunc) {
	identity, ok := GetIdentity(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	paymentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid payment ID")
		return
	}

	payment, err := fn(r.Context(), paymentID, identity)
	if err != nil {
		h.writeTransitionError(w, endpoint, paymentID, err)
		return
	}

	h.writeJSON(w, http.StatusOK, payment)
}

func (h *Handlers) writeTransitionError(w http.ResponseWriter, endpoint string, paymentID uuid.UUID, err error) {
	var denied *app.TransitionDeniedError
	switch {
	case errors.Is(err, store.ErrPaymentNotFound):
		h.writeError(w, http.StatusNotFound, "Payment not found")
	case errors.As(err, &denied):
		status := http.StatusConflict
		if denied.RoleMismatch {
			status = http.StatusForbidden
		}
		h.writeError(w, status, denied.Error())
	case errors.Is(err, store.ErrPaymentStatusConflict):
		h.writeError(w, http.StatusConflict, "Payment was modified concurrently; refresh and retry")
	default:
		log.Printf("level=error component=api endpoint=%s outcome=failed payment_id=%s err=%v", endpoint, paymentID, err)
		h.writeError(w, http.StatusInternalServerError, "Could not update payment")
	}
}

// ApprovePaymentHandler handles POST /dashboard/payments/{id}/approve.
func (h *Handlers) ApprovePaymentHandler(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "approve_payment", h.service.ApprovePayment)
}

// RejectPaymentHandler handles POST /dashboard/payments/{id}/reject. The body
// may carry an optional rejection note; an empty body is accepted.
func (h *Handlers) RejectPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.handleTransition(w, r, "reject_payment", func(ctx context.Context, paymentID uuid.UUID, actor domain.Identity) (*domain.Payment, error) {
		return h.service.RejectPayment(ctx, paymentID, actor, req.Notes)
	})
}

// LoadPaymentHandler handles POST /dashboard/payments/{id}/load.
func (h *Handlers) LoadPaymentHandler(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "load_payment", h.service.MarkPaymentLoaded)
}

// AuthorisePaymentHandler handles POST /dashboard/payments/{id}/authorise.
func (h *Handlers) AuthorisePaymentHandler(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "authorise_payment", h.service.AuthorisePayment)
}
