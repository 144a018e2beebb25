/**
 * @description
 * This file contains the login and logout handlers. Login validates the
 * request body before any credential work, throttles attempts when Redis is
 * configured, checks the static operator credentials, and sets the session
 * cookie on success. Failure responses are deliberately generic so a caller
 * cannot tell an unknown email from a wrong password.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/klopper/paydesk/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool `json:"success"`
}

// LoginHandler handles POST /auth/login.
func (h *Handlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Reject missing/empty fields before any hash comparison is attempted.
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	if h.loginLimiter != nil {
		allowed, retryAfter, err := h.loginLimiter.Allow(r.Context(), email)
		if err != nil {
			// Fail open: a limiter outage must not lock operators out.
			log.Printf("level=warn component=api endpoint=login msg=\"rate limiter unavailable\" err=%v", err)
		} else if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			h.writeError(w, http.StatusTooManyRequests, "Too many login attempts. Please wait and try again.")
			return
		}
	}

	identity, err := h.credentials.Authenticate(email, req.Password)
	if err != nil {
		log.Printf("level=warn component=api endpoint=login outcome=reject reason=invalid_credentials")
		h.writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.tokens.Issue(identity)
	if err != nil {
		if errors.Is(err, auth.ErrSigningSecretMissing) {
			log.Printf("level=error component=api endpoint=login msg=\"signing secret not configured\"")
		} else {
			log.Printf("level=error component=api endpoint=login msg=\"token issuance failed\" err=%v", err)
		}
		h.writeError(w, http.StatusInternalServerError, "Authentication configuration error")
		return
	}

	setSessionCookie(w, token, h.secureCookies)
	log.Printf("level=info component=api endpoint=login outcome=success email=%s role=%s", identity.Email, identity.Role)
	h.writeJSON(w, http.StatusOK, loginResponse{Success: true})
}

// LogoutHandler handles POST /auth/logout. It clears the session cookie; the
// token itself simply ages out, there is no server-side revocation state.
func (h *Handlers) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, h.secureCookies)
	h.writeJSON(w, http.StatusOK, loginResponse{Success: true})
}
