package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genai"

	"audit-backend/internal/llm"
)

func TestClassifyErrorRateLimited(t *testing.T) {
	err := classifyError(genai.APIError{Code: 429, Message: "quota exceeded", Status: "RESOURCE_EXHAUSTED"})
	if !errors.Is(err, llm.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if got := err.Error(); got == llm.ErrRateLimited.Error() {
		t.Fatalf("expected upstream message preserved, got %q", got)
	}
}

func TestClassifyErrorServerError(t *testing.T) {
	err := classifyError(genai.APIError{Code: 503, Message: "overloaded", Status: "UNAVAILABLE"})
	if !errors.Is(err, llm.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClassifyErrorDeadline(t *testing.T) {
	err := classifyError(fmt.Errorf("call: %w", context.DeadlineExceeded))
	if !errors.Is(err, llm.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestClassifyErrorTransportStrings(t *testing.T) {
	cases := []struct {
		msg  string
		want error
	}{
		{"rpc error: RESOURCE_EXHAUSTED", llm.ErrRateLimited},
		{"client timeout while awaiting headers", llm.ErrTimeout},
		{"dial tcp: connection refused", llm.ErrUnavailable},
	}
	for _, tc := range cases {
		err := classifyError(errors.New(tc.msg))
		if !errors.Is(err, tc.want) {
			t.Fatalf("classifyError(%q) = %v, want %v", tc.msg, err, tc.want)
		}
	}
}

func TestClassifyErrorClientFaultPassesThrough(t *testing.T) {
	err := classifyError(genai.APIError{Code: 400, Message: "invalid argument", Status: "INVALID_ARGUMENT"})
	if llm.IsRetryable(err) {
		t.Fatalf("expected non-retryable classification for client fault, got %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), "", "gemini-2.0-flash", 0); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}
