package api

import (
	"net/http"
	"testing"

	"github.com/klopper/paydesk/internal/auth"
	"github.com/klopper/paydesk/internal/domain"
)

func TestSessionGuard_MissingCookieRedirectsToLogin(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/dashboard/payments", nil, nil)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 redirect, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != LoginPath {
		t.Fatalf("expected redirect to %q, got %q", LoginPath, location)
	}
}

func TestSessionGuard_InvalidTokenClearsCookieAndRedirects(t *testing.T) {
	ts := newTestServer(t, nil)

	stale := &http.Cookie{Name: SessionCookieName, Value: "not-a-valid-token"}
	rec := ts.do(t, http.MethodGet, "/dashboard/payments", nil, stale)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 redirect, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != LoginPath {
		t.Fatalf("expected redirect to %q, got %q", LoginPath, location)
	}

	var cleared *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookieName {
			cleared = cookie
		}
	}
	if cleared == nil {
		t.Fatal("expected the stale session cookie to be cleared")
	}
	if cleared.Value != "" || cleared.MaxAge >= 0 {
		t.Fatalf("expected an expired empty cookie, got value=%q max_age=%d", cleared.Value, cleared.MaxAge)
	}
}

func TestSessionGuard_ValidTokenAttachesIdentity(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.login(t, testAdminEmail, testAdminPass)

	rec := ts.do(t, http.MethodGet, "/dashboard/payments", nil, cookie)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with a valid session, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSessionGuard_ExpiredTokenRedirects(t *testing.T) {
	ts := newTestServer(t, nil)

	// A token from a different signing secret is as good as expired here: the
	// guard cannot verify it and must fall back to the login redirect.
	foreign, err := auth.NewTokenService("another-secret").Issue(domain.Identity{Email: testAdminEmail, Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issuing foreign token: %v", err)
	}
	rec := ts.do(t, http.MethodGet, "/dashboard/payments", nil, &http.Cookie{Name: SessionCookieName, Value: foreign})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 redirect for unverifiable token, got %d", rec.Code)
	}
}
