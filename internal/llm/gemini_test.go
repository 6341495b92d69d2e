package llm

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiContents_Roles(t *testing.T) {
	contents := buildGeminiContents([]Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	})
	if len(contents) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(contents))
	}
	if contents[0].Role != "user" || contents[1].Role != "model" {
		t.Fatalf("unexpected roles: %q, %q", contents[0].Role, contents[1].Role)
	}
	if contents[1].Parts[0].Text != "hello" {
		t.Fatalf("unexpected text: %q", contents[1].Parts[0].Text)
	}
}

func TestMapGeminiError(t *testing.T) {
	apiErr := mapGeminiError(fmt.Errorf("call: %w", genai.APIError{Code: 503, Message: "overloaded"}))
	var failure *ErrAPIFailure
	if !errors.As(apiErr, &failure) {
		t.Fatalf("expected ErrAPIFailure, got %T", apiErr)
	}
	if failure.StatusCode != 503 || failure.Body != "overloaded" {
		t.Fatalf("unexpected failure: %+v", failure)
	}

	other := mapGeminiError(errors.New("dial tcp: refused"))
	var unexp *ErrUnexpected
	if !errors.As(other, &unexp) {
		t.Fatalf("expected ErrUnexpected, got %T", other)
	}
}
