/**
 * @description
 * This file sets up the HTTP router for paydesk. It defines the public
 * endpoints (health, login, logout) and mounts the session guard over every
 * route under the /dashboard prefix.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS for the browser dashboard origin.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes creates and returns the paydesk router. guard is the session guard
// middleware applied to every dashboard route.
func Routes(h *Handlers, guard func(http.Handler) http.Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	// Standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true, // the session rides on a cookie
			MaxAge:           300,
		}))
	}

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// Unauthenticated session endpoints.
	r.Post("/auth/login", h.LoginHandler)
	r.Post("/auth/logout", h.LogoutHandler)

	// Everything under the dashboard prefix requires a valid session.
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(guard)

		r.Get("/payments", h.ListPaymentsHandler)
		r.Get("/payments/{id}", h.GetPaymentHandler)
		r.Post("/payments/{id}/approve", h.ApprovePaymentHandler)
		r.Post("/payments/{id}/reject", h.RejectPaymentHandler)
		r.Post("/payments/{id}/load", h.LoadPaymentHandler)
		r.Post("/payments/{id}/authorise", h.AuthorisePaymentHandler)

		r.Get("/beneficiaries", h.ListBeneficiariesHandler)
		r.Post("/beneficiaries", h.CreateBeneficiaryHandler)

		r.Get("/bank-accounts", h.ListBankAccountsHandler)
		r.Get("/emails", h.ListEmailsHandler)
	})

	return r
}
