package errors

import (
	"strings"
	"testing"
)

func TestValidateSketchName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "cat", false},
		{"valid with dash", "my-cat", false},
		{"valid with underscore", "my_cat", false},
		{"valid with dot", "cat.v2", false},
		{"valid digits", "2025-10-15", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 65), true},
		{"path traversal", "a..b", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"leading dot", ".hidden", true},
		{"leading dash", "-flag", true},
		{"space", "my cat", true},
		{"control char", "cat\x01", true},
		{"newline", "cat\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSketchName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSketchName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateSketchName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	allowed := []string{"png", "svg", "ansi"}

	tests := []struct {
		input   string
		wantErr bool
	}{
		{"png", false},
		{"svg", false},
		{"ansi", false},
		{"", true},
		{"PNG", true},
		{"pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateFormat(tt.input, allowed...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFormat) {
				t.Errorf("ValidateFormat(%q) code = %v", tt.input, GetCode(err))
			}
		})
	}
}
