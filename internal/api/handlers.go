/**
 * @description
 * This file defines the Handlers struct shared by all paydesk endpoints, plus
 * the JSON response helpers. Handlers parse incoming requests, call the
 * application service, and translate every error into a structured response;
 * no error propagates out of a handler untranslated.
 */

package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/klopper/paydesk/internal/app"
	"github.com/klopper/paydesk/internal/auth"
)

// Handlers holds the application service and auth collaborators used by the
// HTTP layer.
type Handlers struct {
	service       *app.Service
	tokens        *auth.TokenService
	credentials   *auth.CredentialStore
	loginLimiter  auth.LoginRateLimiter
	secureCookies bool
}

// NewHandlers creates a new Handlers instance. loginLimiter may be nil when
// Redis is not configured; login throttling is then disabled.
func NewHandlers(service *app.Service, tokens *auth.TokenService, credentials *auth.CredentialStore, loginLimiter auth.LoginRateLimiter, secureCookies bool) *Handlers {
	return &Handlers{
		service:       service,
		tokens:        tokens,
		credentials:   credentials,
		loginLimiter:  loginLimiter,
		secureCookies: secureCookies,
	}
}

// ErrorResponse is the JSON error body returned by every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("level=error component=api msg=\"response encode failed\" err=%v", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, ErrorResponse{Error: message})
}
