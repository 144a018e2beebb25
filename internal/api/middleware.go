/**
 * @description
 * This file contains the session guard middleware protecting every route under
 * the dashboard prefix. It is the only writer of identity context: downstream
 * handlers read the verified email and role through the typed accessors here
 * and must treat a request without guard-verified context as unauthenticated.
 *
 * @dependencies
 * - context, net/http: Standard Go libraries.
 * - internal/auth: Session token verification.
 * - internal/domain: The operator identity type.
 */

package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/klopper/paydesk/internal/auth"
	"github.com/klopper/paydesk/internal/domain"
)

type contextKey string

const identityContextKey contextKey = "operatorIdentity"

const (
	// SessionCookieName is the session cookie set at login time.
	SessionCookieName = "session"

	// LoginPath is where unauthenticated dashboard requests are redirected.
	LoginPath = "/login"
)

// sessionCookieMaxAge matches the token's own 8-hour lifetime.
var sessionCookieMaxAge = int(auth.SessionTTL / time.Second)

func setSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionGuard creates middleware that requires a valid session token from the
// request's cookie store. A missing cookie redirects to the login path; an
// invalid or expired token additionally clears the stale cookie. On success
// the verified identity is attached to the request context.
func SessionGuard(tokens *auth.TokenService, secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			identity, err := tokens.Verify(cookie.Value)
			if err != nil {
				if errors.Is(err, auth.ErrSigningSecretMissing) {
					log.Printf("level=error component=session_guard msg=\"session verification unavailable\" err=%v", err)
					http.Error(w, "Authentication configuration error", http.StatusInternalServerError)
					return
				}
				clearSessionCookie(w, secureCookies)
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the guard-verified operator identity from the request
// context. Handlers must use this function rather than inferring a role from
// any client-supplied header.
func GetIdentity(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(domain.Identity)
	return identity, ok
}
