package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestComplexityRank(t *testing.T) {
	tiers := []Complexity{ComplexityBasic, ComplexityIntermediate, ComplexityAdvanced}
	for i, tier := range tiers {
		if tier.Rank() != i {
			t.Errorf("Expected rank %d for %s, got %d", i, tier, tier.Rank())
		}
	}
	if Complexity("bespoke").Valid() {
		t.Error("Expected unknown tier to be invalid")
	}
}

func TestParseComplexity(t *testing.T) {
	c, ok := ParseComplexity(" Advanced ")
	if !ok || c != ComplexityAdvanced {
		t.Errorf("Expected advanced, got %q (%v)", c, ok)
	}
	if _, ok := ParseComplexity("expert"); ok {
		t.Error("Expected expert to be rejected")
	}
}

func TestSmartFieldMustHaveValue(t *testing.T) {
	tests := []struct {
		name     string
		field    SmartField
		expected bool
	}{
		{"required", SmartField{Required: true, Importance: ImportanceImportant}, true},
		{"critical optional", SmartField{Importance: ImportanceCritical}, true},
		{"informational optional", SmartField{Importance: ImportanceInformational}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.field.MustHaveValue(); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSignerRoleValid(t *testing.T) {
	if !RoleContractor.Valid() || !RoleClient.Valid() {
		t.Error("Expected both parties to be valid roles")
	}
	if SignerRole("witness").Valid() {
		t.Error("Expected witness to be rejected")
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{fmt.Errorf("store: %w", ErrContractNotFound), KindContractNotFound},
		{fmt.Errorf("ledger: %w: blank", ErrInvalidSignature), KindInvalidSignature},
		{ErrTemplateNotFound, KindTemplateNotFound},
		{ErrSignatureConflict, KindSignatureConflict},
		{errors.New("disk full"), KindInternal},
	}
	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.expected {
			t.Errorf("ErrorKind(%v): expected %s, got %s", tt.err, tt.expected, got)
		}
	}
}
