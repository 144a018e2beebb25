package auth

import (
	"errors"
	"testing"

	"github.com/klopper/paydesk/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt hash failed: %v", err)
	}
	return string(hash)
}

func testCredentialStore(t *testing.T) *CredentialStore {
	t.Helper()
	return NewCredentialStore(
		Operator{Email: "ricky@klopper.co.za", PasswordHash: hashPassword(t, "admin-pass"), Role: domain.RoleAdmin},
		Operator{Email: "lara@klopper.co.za", PasswordHash: hashPassword(t, "loader-pass"), Role: domain.RoleLoader},
	)
}

func TestCredentialStore_AuthenticateSuccess(t *testing.T) {
	store := testCredentialStore(t)

	identity, err := store.Authenticate("ricky@klopper.co.za", "admin-pass")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if identity.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", identity.Role)
	}

	identity, err = store.Authenticate("lara@klopper.co.za", "loader-pass")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if identity.Role != domain.RoleLoader {
		t.Fatalf("expected loader role, got %q", identity.Role)
	}
}

func TestCredentialStore_EmailIsCaseInsensitive(t *testing.T) {
	store := testCredentialStore(t)

	identity, err := store.Authenticate("  Ricky@Klopper.co.za ", "admin-pass")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if identity.Email != "ricky@klopper.co.za" {
		t.Fatalf("expected normalized email, got %q", identity.Email)
	}
}

func TestCredentialStore_WrongPasswordAndUnknownEmailAreIndistinguishable(t *testing.T) {
	store := testCredentialStore(t)

	_, wrongPassErr := store.Authenticate("ricky@klopper.co.za", "not-the-password")
	_, unknownEmailErr := store.Authenticate("nobody@klopper.co.za", "admin-pass")

	if !errors.Is(wrongPassErr, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPassErr)
	}
	if !errors.Is(unknownEmailErr, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknownEmailErr)
	}
	if wrongPassErr.Error() != unknownEmailErr.Error() {
		t.Fatalf("failure messages must not leak which field was wrong: %q vs %q", wrongPassErr, unknownEmailErr)
	}
}

func TestCredentialStore_PartiallyConfiguredOperatorIsNotMatchable(t *testing.T) {
	store := NewCredentialStore(
		Operator{Email: "ricky@klopper.co.za", PasswordHash: "", Role: domain.RoleAdmin},
	)

	if _, err := store.Authenticate("ricky@klopper.co.za", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for operator without hash, got %v", err)
	}
}
