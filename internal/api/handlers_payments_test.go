package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/klopper/paydesk/internal/domain"
)

func TestApprovePayment_AdminEndToEnd(t *testing.T) {
	ts := newTestServer(t, nil)
	payment := ts.seedPayment(t, domain.PaymentPending)
	cookie := ts.login(t, testAdminEmail, testAdminPass)

	rec := ts.do(t, http.MethodPost, "/dashboard/payments/"+payment.ID.String()+"/approve", nil, cookie)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decodePayment(t, rec)
	if updated.Status != domain.PaymentApproved {
		t.Fatalf("expected approved status, got %q", updated.Status)
	}
	if updated.DateApproved == nil {
		t.Fatal("expected dateApproved in the response")
	}
}

func TestApprovePayment_LoaderGets403(t *testing.T) {
	ts := newTestServer(t, nil)
	payment := ts.seedPayment(t, domain.PaymentPending)
	cookie := ts.login(t, testLoaderEmail, testLoaderPass)

	rec := ts.do(t, http.MethodPost, "/dashboard/payments/"+payment.ID.String()+"/approve", nil, cookie)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for loader approving, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestApprovePayment_IllegalStateGets409(t *testing.T) {
	ts := newTestServer(t, nil)
	payment := ts.seedPayment(t, domain.PaymentAuthorised)
	cookie := ts.login(t, testAdminEmail, testAdminPass)

	rec := ts.do(t, http.MethodPost, "/dashboard/payments/"+payment.ID.String()+"/approve", nil, cookie)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for approving a terminal payment, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTransitionEndpoints_BadAndUnknownIDs(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.login(t, testAdminEmail, testAdminPass)

	rec := ts.do(t, http.MethodPost, "/dashboard/payments/not-a-uuid/approve", nil, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed id, got %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/dashboard/payments/"+uuid.NewString()+"/approve", nil, cookie)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown id, got %d", rec.Code)
	}
}

func TestLoadAndAuthorise_FullFlow(t *testing.T) {
	ts := newTestServer(t, nil)
	payment := ts.seedPayment(t, domain.PaymentPending)
	adminCookie := ts.login(t, testAdminEmail, testAdminPass)
	loaderCookie := ts.login(t, testLoaderEmail, testLoaderPass)

	rec := ts.do(t, http.MethodPost, "/dashboard/payments/"+payment.ID.String()+"/approve", nil, adminCookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodPost, "/dashboard/payments/"+payment.ID.String()+"/load", nil, loaderCookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("load failed: %d %s", rec.Code, rec.Body.String())
	}
	if loaded := decodePayment(t, rec); loaded.Status != domain.PaymentLoaded {
		t.Fatalf("expected loaded status, got %q", loaded.Status)
	}

	// The loader cannot give final authorisation.
	rec = ts.do(t, http.MethodPost, "/dashboard/payments/"+payment.ID.String()+"/authorise", nil, loaderCookie)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for loader authorising, got %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/dashboard/payments/"+payment.ID.String()+"/authorise", nil, adminCookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("authorise failed: %d %s", rec.Code, rec.Body.String())
	}
	if authorised := decodePayment(t, rec); authorised.Status != domain.PaymentAuthorised {
		t.Fatalf("expected authorised status, got %q", authorised.Status)
	}
}

func TestRejectPayment_NotesAreRecorded(t *testing.T) {
	ts := newTestServer(t, nil)
	payment := ts.seedPayment(t, domain.PaymentPending)
	cookie := ts.login(t, testAdminEmail, testAdminPass)

	body := []byte(`{"notes":"Duplicate of PAY-038."}`)
	rec := ts.do(t, http.MethodPost, "/dashboard/payments/"+payment.ID.String()+"/reject", body, cookie)

	if rec.Code != http.StatusOK {
		t.Fatalf("reject failed: %d %s", rec.Code, rec.Body.String())
	}
	rejected := decodePayment(t, rec)
	if rejected.Status != domain.PaymentRejected {
		t.Fatalf("expected rejected status, got %q", rejected.Status)
	}
	if rejected.Notes == nil || *rejected.Notes != "Duplicate of PAY-038." {
		t.Fatalf("expected the rejection note to be recorded, got %v", rejected.Notes)
	}
}

func TestRejectPayment_EmptyBodyIsAccepted(t *testing.T) {
	ts := newTestServer(t, nil)
	payment := ts.seedPayment(t, domain.PaymentPending)
	cookie := ts.login(t, testAdminEmail, testAdminPass)

	rec := ts.do(t, http.MethodPost, "/dashboard/payments/"+payment.ID.String()+"/reject", nil, cookie)

	if rec.Code != http.StatusOK {
		t.Fatalf("reject with empty body failed: %d %s", rec.Code, rec.Body.String())
	}
}

func TestListPayments_FilterValidation(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.seedPayment(t, domain.PaymentPending)
	cookie := ts.login(t, testAdminEmail, testAdminPass)

	rec := ts.do(t, http.MethodGet, "/dashboard/payments?status=pending", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a valid filter, got %d", rec.Code)
	}
	var payments []domain.Payment
	if err := json.Unmarshal(rec.Body.Bytes(), &payments); err != nil {
		t.Fatalf("decode payments list: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("expected one pending payment, got %d", len(payments))
	}

	rec = ts.do(t, http.MethodGet, "/dashboard/payments?status=shipped", nil, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown status filter, got %d", rec.Code)
	}
}

func TestGetPayment_ByID(t *testing.T) {
	ts := newTestServer(t, nil)
	payment := ts.seedPayment(t, domain.PaymentLoaded)
	cookie := ts.login(t, testAdminEmail, testAdminPass)

	rec := ts.do(t, http.MethodGet, "/dashboard/payments/"+payment.ID.String(), nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decodePayment(t, rec)
	if got.ID != payment.ID || got.Reference != payment.Reference {
		t.Fatalf("expected payment %s back, got %s", payment.Reference, got.Reference)
	}

	rec = ts.do(t, http.MethodGet, "/dashboard/payments/"+uuid.NewString(), nil, cookie)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown payment, got %d", rec.Code)
	}
}

func TestCreateBeneficiary_EndToEnd(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.login(t, testAdminEmail, testAdminPass)

	body := []byte(`{
		"name": "Apex Legal Inc",
		"type": "standard",
		"bank_name": "First National Bank",
		"bank_account_number": "62000000001",
		"branch_code": "250655"
	}`)
	rec := ts.do(t, http.MethodPost, "/dashboard/beneficiaries", body, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created domain.Beneficiary
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode beneficiary response: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected the response to carry the assigned id")
	}

	// The invalid shape comes back as a client error, not a server one.
	bad := []byte(`{"name": "Apex Legal Inc", "type": "standard"}`)
	rec = ts.do(t, http.MethodPost, "/dashboard/beneficiaries", bad, cookie)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an invalid payload, got %d: %s", rec.Code, rec.Body.String())
	}
	if msg := decodeError(t, rec); msg == "" {
		t.Fatal("expected a validation message in the error body")
	}
}
