package errors

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "hinted error",
			err:      WithHint(errors.New("missing api key"), "run 'hustle keyring set gemini-api-key <key>'"),
			expected: "Error: missing api key\n  hint: run 'hustle keyring set gemini-api-key <key>'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	if got := Formatf("failed to load %s", "habits"); got != "Error: failed to load habits" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestWithHintPreservesIdentity(t *testing.T) {
	sentinel := errors.New("sentinel")
	wrapped := fmt.Errorf("outer: %w", WithHint(sentinel, "do something"))

	if !errors.Is(wrapped, sentinel) {
		t.Error("errors.Is should see through the hint wrapper")
	}
	if Hint(wrapped) != "do something" {
		t.Errorf("Hint() = %q, want %q", Hint(wrapped), "do something")
	}
	if WithHint(nil, "ignored") != nil {
		t.Error("WithHint(nil) should return nil")
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	if Report(&buf, nil) {
		t.Error("Report(nil) should return false")
	}
	if !Report(&buf, errors.New("boom")) {
		t.Error("Report(err) should return true")
	}
	if !strings.Contains(buf.String(), "Error: boom") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
