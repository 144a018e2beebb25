package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
	"github.com/klopper/paydesk/internal/app"
	"github.com/klopper/paydesk/internal/auth"
	"github.com/klopper/paydesk/internal/domain"
	"github.com/klopper/paydesk/internal/store"
)

const (
	testAdminEmail  = "ricky@klopper.co.za"
	testAdminPass   = "admin-pass"
	testLoaderEmail = "lara@klopper.co.za"
	testLoaderPass  = "loader-pass"
)

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	return nil
}

func (noopPublisher) Close() {}

type testServer struct {
	handler http.Handler
	repo    *store.MemoryRepository
	tokens  *auth.TokenService
}

func newTestServer(t *testing.T, limiter auth.LoginRateLimiter) *testServer {
	t.Helper()

	hash := func(password string) string {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("bcrypt hash failed: %v", err)
		}
		return string(h)
	}

	repo := store.NewMemoryRepository()
	service := app.NewService(repo, noopPublisher{}, "paydesk.events")
	tokens := auth.NewTokenService("test-secret")
	credentials := auth.NewCredentialStore(
		auth.Operator{Email: testAdminEmail, PasswordHash: hash(testAdminPass), Role: domain.RoleAdmin},
		auth.Operator{Email: testLoaderEmail, PasswordHash: hash(testLoaderPass), Role: domain.RoleLoader},
	)

	handlers := NewHandlers(service, tokens, credentials, limiter, false)
	guard := SessionGuard(tokens, false)

	return &testServer{
		handler: Routes(handlers, guard, nil),
		repo:    repo,
		tokens:  tokens,
	}
}

// login performs a real login round-trip and returns the session cookie.
func (ts *testServer) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		t.Fatalf("marshal login body: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	ts.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", rec.Code, rec.Body.String())
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookieName && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("login response did not set a session cookie")
	return nil
}

func (ts *testServer) do(t *testing.T, method, target string, body []byte, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) seedPayment(t *testing.T, status domain.PaymentStatus) *domain.Payment {
	t.Helper()

	payment := &domain.Payment{
		Reference:     "PAY-100",
		Status:        status,
		AmountCents:   1_250_000,
		SourceAccount: domain.AccountRef{ID: uuid.New(), Name: "Klopper Family Trust"},
		Beneficiary:   domain.BeneficiaryRef{ID: uuid.New(), Name: "BuildIt Suppliers (Pty) Ltd"},
		CreatedAt:     time.Now().Add(-time.Hour),
		UpdatedAt:     time.Now().Add(-time.Hour),
	}
	stored, err := ts.repo.CreatePayment(context.Background(), payment)
	if err != nil {
		t.Fatalf("seeding payment failed: %v", err)
	}
	return stored
}

func decodePayment(t *testing.T, rec *httptest.ResponseRecorder) domain.Payment {
	t.Helper()
	var payment domain.Payment
	if err := json.Unmarshal(rec.Body.Bytes(), &payment); err != nil {
		t.Fatalf("decode payment response: %v (body %s)", err, rec.Body.String())
	}
	return payment
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v (body %s)", err, rec.Body.String())
	}
	return resp.Error
}
