package app

import (
	"context"
	"errors"
	"testing"

	"github.com/klopper/paydesk/internal/domain"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCreateBeneficiary_StandardIsStoredAndRetrievable(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.CreateBeneficiary(context.Background(), domain.CreateBeneficiaryPayload{
		Name:                        "  Apex Legal Inc  ",
		Type:                        domain.BeneficiaryStandard,
		BankName:                    strPtr("First National Bank"),
		BankAccountNumber:           strPtr("62000000001"),
		BranchCode:                  strPtr("250655"),
		DefaultBeneficiaryReference: strPtr("KLOPPER"),
	})
	if err != nil {
		t.Fatalf("CreateBeneficiary returned error: %v", err)
	}
	if created.Name != "Apex Legal Inc" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}

	fetched, err := svc.GetBeneficiary(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetBeneficiary returned error: %v", err)
	}
	if fetched.Type != domain.BeneficiaryStandard {
		t.Fatalf("expected standard type, got %q", fetched.Type)
	}
	if fetched.BankName == nil || *fetched.BankName != "First National Bank" {
		t.Fatalf("expected bank name to round-trip, got %v", fetched.BankName)
	}
	if fetched.DefaultBeneficiaryReference == nil || *fetched.DefaultBeneficiaryReference != "KLOPPER" {
		t.Fatalf("expected default reference to round-trip, got %v", fetched.DefaultBeneficiaryReference)
	}
}

func TestCreateBeneficiary_PreloadedIsStoredAndRetrievable(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.CreateBeneficiary(context.Background(), domain.CreateBeneficiaryPayload{
		Name:              "SARS - VAT",
		Type:              domain.BeneficiaryPreloaded,
		LoadedOnABSA:      true,
		InstitutionRef:    strPtr("SARS-VAT"),
		BeneficiaryNumber: intPtr(734),
	})
	if err != nil {
		t.Fatalf("CreateBeneficiary returned error: %v", err)
	}

	fetched, err := svc.GetBeneficiary(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetBeneficiary returned error: %v", err)
	}
	if fetched.InstitutionRef == nil || *fetched.InstitutionRef != "SARS-VAT" {
		t.Fatalf("expected institution reference to round-trip, got %v", fetched.InstitutionRef)
	}
	if fetched.BeneficiaryNumber == nil || *fetched.BeneficiaryNumber != 734 {
		t.Fatalf("expected beneficiary number to round-trip, got %v", fetched.BeneficiaryNumber)
	}
	if !fetched.LoadedOnABSA {
		t.Fatal("expected loaded_on_absa to round-trip")
	}
}

func TestCreateBeneficiary_ValidationRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload domain.CreateBeneficiaryPayload
	}{
		{"missing name", domain.CreateBeneficiaryPayload{
			Type:              domain.BeneficiaryStandard,
			BankName:          strPtr("ABSA"),
			BankAccountNumber: strPtr("4050000000"),
			BranchCode:        strPtr("632005"),
		}},
		{"standard missing banking fields", domain.CreateBeneficiaryPayload{
			Name:     "BuildIt Suppliers",
			Type:     domain.BeneficiaryStandard,
			BankName: strPtr("ABSA"),
		}},
		{"standard with institution reference", domain.CreateBeneficiaryPayload{
			Name:              "BuildIt Suppliers",
			Type:              domain.BeneficiaryStandard,
			BankName:          strPtr("ABSA"),
			BankAccountNumber: strPtr("4050000000"),
			BranchCode:        strPtr("632005"),
			InstitutionRef:    strPtr("BUILDIT"),
		}},
		{"standard with beneficiary number", domain.CreateBeneficiaryPayload{
			Name:              "BuildIt Suppliers",
			Type:              domain.BeneficiaryStandard,
			BankName:          strPtr("ABSA"),
			BankAccountNumber: strPtr("4050000000"),
			BranchCode:        strPtr("632005"),
			BeneficiaryNumber: intPtr(12),
		}},
		{"preloaded missing institution reference", domain.CreateBeneficiaryPayload{
			Name: "SA Water Board",
			Type: domain.BeneficiaryPreloaded,
		}},
		{"preloaded with banking fields", domain.CreateBeneficiaryPayload{
			Name:           "SA Water Board",
			Type:           domain.BeneficiaryPreloaded,
			InstitutionRef: strPtr("SAWB"),
			BankName:       strPtr("ABSA"),
		}},
		{"unknown type", domain.CreateBeneficiaryPayload{
			Name: "Mystery Recipient",
			Type: domain.BeneficiaryType("international"),
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _ := newTestService(t)

			_, err := svc.CreateBeneficiary(context.Background(), tc.payload)
			var validationErr *BeneficiaryValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected BeneficiaryValidationError, got %v", err)
			}

			// Nothing was persisted.
			list, listErr := svc.ListBeneficiaries(context.Background())
			if listErr != nil {
				t.Fatalf("ListBeneficiaries returned error: %v", listErr)
			}
			if len(list) != 0 {
				t.Fatalf("rejected payload must not be persisted, found %d records", len(list))
			}
		})
	}
}
