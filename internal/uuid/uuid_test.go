// Package uuid tests for UUID generation and validation.
package uuid

import (
	"strings"
	"testing"
)

// TestNew_format verifies generated UUIDs are valid v4.
func TestNew_format(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := New()
		if !IsValid(id) {
			t.Fatalf("New() produced invalid UUID v4: %q", id)
		}
	}
}

// TestNew_unique verifies generated UUIDs don't collide.
func TestNew_unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("New() produced duplicate UUID: %q", id)
		}
		seen[id] = true
	}
}

// TestIsValid covers accept and reject cases.
func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid v4", "9b2f2c3a-1d4e-4f5a-8b6c-7d8e9f0a1b2c", true},
		{"uppercase hex", "9B2F2C3A-1D4E-4F5A-8B6C-7D8E9F0A1B2C", true},
		{"empty", "", false},
		{"no dashes", "9b2f2c3a1d4e4f5a8b6c7d8e9f0a1b2c", false},
		{"wrong version", "9b2f2c3a-1d4e-1f5a-8b6c-7d8e9f0a1b2c", false},
		{"wrong variant", "9b2f2c3a-1d4e-4f5a-0b6c-7d8e9f0a1b2c", false},
		{"too short", "9b2f2c3a-1d4e-4f5a-8b6c", false},
		{"garbage", "not-a-uuid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.input); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestValidate_errorMessage verifies the error names the offending value.
func TestValidate_errorMessage(t *testing.T) {
	if err := Validate(New()); err != nil {
		t.Errorf("Validate() on fresh UUID returned error: %v", err)
	}

	err := Validate("bogus")
	if err == nil {
		t.Fatal("Validate(\"bogus\") should return error")
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error should name the invalid value, got: %v", err)
	}
}
