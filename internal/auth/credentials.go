/**
 * @description
 * This file implements the static credential store. Exactly two operator
 * identities exist (admin and loader), sourced from configuration as
 * email + bcrypt hash pairs. There is no registration flow and no user table;
 * the store is resolved once at bootstrap.
 */

package auth

import (
	"errors"
	"strings"

	"github.com/klopper/paydesk/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for every authentication failure. The
// message is deliberately generic so a caller cannot tell an unknown email
// from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// dummyHash is compared against when the email is unknown so the request does
// roughly the same amount of work on both failure paths.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Operator is one static identity from configuration.
type Operator struct {
	Email        string
	PasswordHash string // bcrypt
	Role         domain.Role
}

// CredentialStore resolves login attempts against the configured operators.
type CredentialStore struct {
	operators []Operator
}

// NewCredentialStore builds a store from the configured operators. Entries
// with a missing email or hash are skipped; a partially configured identity
// must never become a matchable login.
func NewCredentialStore(operators ...Operator) *CredentialStore {
	store := &CredentialStore{}
	for _, op := range operators {
		op.Email = strings.ToLower(strings.TrimSpace(op.Email))
		op.PasswordHash = strings.TrimSpace(op.PasswordHash)
		if op.Email == "" || op.PasswordHash == "" || !op.Role.Valid() {
			continue
		}
		store.operators = append(store.operators, op)
	}
	return store
}

// Authenticate checks an email/password pair against the configured operators
// and returns the matched identity. bcrypt's comparison is constant-time with
// respect to the hash contents.
func (s *CredentialStore) Authenticate(email, password string) (domain.Identity, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	var matched *Operator
	for i := range s.operators {
		if s.operators[i].Email == normalized {
			matched = &s.operators[i]
			break
		}
	}

	hash := dummyHash
	if matched != nil {
		hash = matched.PasswordHash
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil || matched == nil {
		return domain.Identity{}, ErrInvalidCredentials
	}

	return domain.Identity{Email: matched.Email, Role: matched.Role}, nil
}
