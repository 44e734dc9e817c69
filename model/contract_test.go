package model

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"
)

func TestStatusValid(t *testing.T) {
	tests := []struct {
		status Status
		valid  bool
	}{
		{StatusPending, true},
		{StatusInProgress, true},
		{StatusCompleted, true},
		{Status("processing"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.valid {
			t.Errorf("Status(%q).Valid() = %v, expected %v", tt.status, got, tt.valid)
		}
	}
}

func TestNewContractNumber(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 200; i++ {
		number := NewContractNumber(now)
		if !ValidContractNumber(number) {
			t.Fatalf("Generated number %q does not match CON-<year>-<nnnn>", number)
		}
		var year, suffix int
		if _, err := fmt.Sscanf(number, "CON-%d-%d", &year, &suffix); err != nil {
			t.Fatalf("Failed to parse %q: %v", number, err)
		}
		if year != 2025 {
			t.Errorf("Expected year 2025, got %d", year)
		}
		if suffix < 1000 || suffix > 9999 {
			t.Errorf("Expected 4-digit suffix, got %d", suffix)
		}
	}
}

func TestValidContractNumber(t *testing.T) {
	tests := map[string]bool{
		"CON-2024-1234":  true,
		"CON-24-1234":    false,
		"CON-2024-123":   false,
		"CON-2024-12345": false,
		"con-2024-1234":  false,
		"":               false,
	}
	for input, expected := range tests {
		if got := ValidContractNumber(input); got != expected {
			t.Errorf("ValidContractNumber(%q) = %v, expected %v", input, got, expected)
		}
	}
}

func TestServicesEnabledKeepsDocumentOrder(t *testing.T) {
	s := Services{
		Marketing:     true,
		GraphicDesign: true,
		Photography:   true,
		Others:        "Packaging",
	}

	got := s.Enabled()
	expected := []string{ServiceGraphicDesign, ServicePhotography, ServiceMarketing}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	if len(Services{}.Enabled()) != 0 {
		t.Error("Expected no enabled services for zero value")
	}
}

func TestApplyEditKeepsImmutableFields(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	stored := &Contract{
		ID:             "contract-1",
		OwnerID:        "owner-1",
		ContractNumber: "CON-2025-4242",
		ProjectName:    "Old name",
		Status:         StatusPending,
		CreatedAt:      created,
	}
	edit := &Contract{
		ID:             "forged",
		OwnerID:        "someone-else",
		ContractNumber: "CON-2030-0000",
		ProjectName:    "New name",
		Status:         StatusCompleted,
	}

	stored.ApplyEdit(edit)

	if stored.ID != "contract-1" || stored.OwnerID != "owner-1" {
		t.Errorf("Identifier or owner changed: %s / %s", stored.ID, stored.OwnerID)
	}
	if stored.ContractNumber != "CON-2025-4242" {
		t.Errorf("Contract number was regenerated: %s", stored.ContractNumber)
	}
	if !stored.CreatedAt.Equal(created) {
		t.Errorf("Creation timestamp changed: %v", stored.CreatedAt)
	}
	if stored.ProjectName != "New name" || stored.Status != StatusCompleted {
		t.Errorf("Editable fields not applied: %+v", stored)
	}
}

func TestIncompleteRecordError(t *testing.T) {
	var err error = &IncompleteRecordError{Missing: []string{"service_scope", "start_date"}}

	if !errors.Is(err, ErrIncompleteRecord) {
		t.Error("Expected errors.Is to match ErrIncompleteRecord")
	}
	if errors.Is(err, ErrRenderFailure) {
		t.Error("Did not expect match with ErrRenderFailure")
	}
	expected := "incomplete contract record: missing service_scope, start_date"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}
}
