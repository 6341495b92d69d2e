package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/abhisek/papergen/internal/logger"
	"github.com/abhisek/papergen/internal/store"
)

func openTestRepo(t *testing.T) store.EventRepo {
	t.Helper()
	s, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	repo := openTestRepo(t)
	mock := NewMockProvider(MockResponse{
		Text:  "Define velocity. (L1) [2m]",
		Usage: Usage{InputTokens: 30, OutputTokens: 8, TotalTokens: 38},
	})
	p := WithLogging(mock, "openrouter", repo, logger.Nop())

	ctx := WithPurpose(context.Background(), "question-gen")
	resp, err := p.Generate(ctx, Request{
		System:      "sys prompt",
		Messages:    []Message{{Role: RoleUser, Content: "user prompt"}},
		MaxTokens:   700,
		Temperature: 0.3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "Define velocity. (L1) [2m]" {
		t.Fatalf("response altered: %q", resp.Text)
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Provider != "openrouter" || e.Model != "mock" || e.Purpose != "question-gen" {
		t.Fatalf("unexpected event identity: %+v", e)
	}
	if !e.Success || e.InputTokens != 30 || e.OutputTokens != 8 {
		t.Fatalf("unexpected event usage: %+v", e)
	}
	if e.ResponseBody != "Define velocity. (L1) [2m]" {
		t.Fatalf("unexpected response body %q", e.ResponseBody)
	}
	for _, want := range []string{"[system]\nsys prompt", "[user]\nuser prompt", "temperature=0.30 max_tokens=700"} {
		if !strings.Contains(e.RequestBody, want) {
			t.Errorf("request body missing %q:\n%s", want, e.RequestBody)
		}
	}
}

func TestLoggingProvider_RecordsFailure(t *testing.T) {
	repo := openTestRepo(t)
	mock := NewMockProvider(MockResponse{Err: &ErrAPIFailure{StatusCode: 500, Body: "boom"}})
	p := WithLogging(mock, "openrouter", repo, nil)

	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	if !IsAPIFailure(err) {
		t.Fatalf("expected API failure to pass through, got %v", err)
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Success {
		t.Fatal("expected failed event")
	}
	if events[0].Purpose != "unknown" {
		t.Fatalf("expected purpose 'unknown', got %q", events[0].Purpose)
	}
	if !strings.Contains(events[0].ErrorMessage, "status 500") {
		t.Fatalf("unexpected error message %q", events[0].ErrorMessage)
	}
}

func TestLoggingProvider_ModelID(t *testing.T) {
	p := WithLogging(NewMockProvider(), "mock", openTestRepo(t), nil)
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}
