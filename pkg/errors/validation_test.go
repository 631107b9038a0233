package errors

import (
	"strings"
	"testing"
)

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"simple", "Greeting", false},
		{"multi-line", "Ask for account number\nthen confirm", false},
		{"tab", "a\tb", false},
		{"crlf", "line one\r\nline two", false},
		{"unicode", "Begrüßung 👋", false},

		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"escape", "foo\x1bbar", true},
		{"delete", "foo\x7fbar", true},
		{"too long", strings.Repeat("x", MaxLabelLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateLabel(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateElementID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"node id", "node_1", false},
		{"edge id", "enode_1-node_2-3", false},

		{"empty", "", true},
		{"slash", "node/1", true},
		{"backslash", "node\\1", true},
		{"newline", "node\n1", true},
		{"too long", strings.Repeat("n", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateElementID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateElementID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "flow.json", false},
		{"valid nested", "flows/support/intake.json", false},
		{"valid absolute", "/tmp/flow.json", false},
		{"valid with dots", "v1.2.3/flow.json", false},
		{"valid double dot in name", "flow..json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 600), true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidConnection,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeImportMalformed,
		ErrCodeImportInvalidNode,
		ErrCodeImportInvalidEdge,
		ErrCodeImportDanglingEdge,
		ErrCodeImportInvalidGraph,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeNotEditing,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
