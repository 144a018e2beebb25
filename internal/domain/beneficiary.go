package domain

import "github.com/google/uuid"

// BeneficiaryType determines how a beneficiary is handled on the banking side.
//
//	standard  — a regular bank-to-bank transfer to a private party
//	preloaded — an institution already registered on the ABSA platform (e.g. SARS)
type BeneficiaryType string

const (
	BeneficiaryStandard  BeneficiaryType = "standard"
	BeneficiaryPreloaded BeneficiaryType = "preloaded"
)

// Beneficiary represents a payment recipient. Standard beneficiaries carry
// banking fields; preloaded beneficiaries carry an institution reference and an
// ABSA-assigned beneficiary number instead. The two field sets are mutually
// exclusive by type.
type Beneficiary struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Type              BeneficiaryType `json:"type"`
	LoadedOnABSA      bool            `json:"loaded_on_absa"`
	BeneficiaryNumber *int            `json:"beneficiary_number,omitempty"` // preloaded only
	BankName          *string         `json:"bank_name,omitempty"`          // standard only
	BankAccountNumber *string         `json:"bank_account_number,omitempty"`
	BranchCode        *string         `json:"branch_code,omitempty"`
	InstitutionRef    *string         `json:"institution_reference,omitempty"` // preloaded only

	// Defaults pre-filled into new payments targeting this beneficiary.
	DefaultBeneficiaryReference *string `json:"default_beneficiary_reference,omitempty"`
	DefaultPayerReference       *string `json:"default_payer_reference,omitempty"`
	DefaultBeneficiaryPOPEmail  *string `json:"default_beneficiary_pop_email,omitempty"`
	DefaultPayerPOPEmail        *string `json:"default_payer_pop_email,omitempty"`
}

// CreateBeneficiaryPayload is the DTO for the beneficiary creation endpoint.
// The `id` is assigned by the store.
type CreateBeneficiaryPayload struct {
	Name              string          `json:"name"`
	Type              BeneficiaryType `json:"type"`
	LoadedOnABSA      bool            `json:"loaded_on_absa"`
	BeneficiaryNumber *int            `json:"beneficiary_number,omitempty"`
	BankName          *string         `json:"bank_name,omitempty"`
	BankAccountNumber *string         `json:"bank_account_number,omitempty"`
	BranchCode        *string         `json:"branch_code,omitempty"`
	InstitutionRef    *string         `json:"institution_reference,omitempty"`

	DefaultBeneficiaryReference *string `json:"default_beneficiary_reference,omitempty"`
	DefaultPayerReference       *string `json:"default_payer_reference,omitempty"`
	DefaultBeneficiaryPOPEmail  *string `json:"default_beneficiary_pop_email,omitempty"`
	DefaultPayerPOPEmail        *string `json:"default_payer_pop_email,omitempty"`
}
