package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/faqpilot/faqpilot/internal/testutil"
)

const testDirectory = `- 1: Billing and payments
  - 1.1: Refund requests
- 2: Shipping
  - 2.1: Package tracking`

func TestClassifier_Classify(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockLLM(`{"category_key_path": "0", "reason": "no match"}`)
	mock.AddResponse("track", `{"category_key_path": "2.1", "reason": "asks about package location"}`)

	c, err := NewClassifier(newMockConfig(t, mock))
	if err != nil {
		t.Fatalf("NewClassifier() error = %v", err)
	}

	got, err := c.Classify(context.Background(), "where can I track my package", testDirectory)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got.CategoryKeyPath != "2.1" {
		t.Errorf("CategoryKeyPath = %q, want %q", got.CategoryKeyPath, "2.1")
	}
	if got.Reason == "" {
		t.Error("Reason should be carried through")
	}

	// The directory must be embedded in the system prompt, not the user message.
	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("mock recorded %d calls, want 1", len(calls))
	}
	if !strings.Contains(calls[0].System, "- 2.1: Package tracking") {
		t.Errorf("system prompt missing directory entry:\n%s", calls[0].System)
	}
	if calls[0].UserMessage != "where can I track my package" {
		t.Errorf("user message = %q, want the query verbatim", calls[0].UserMessage)
	}
}

func TestClassifier_NoMatchSentinel(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockLLM(`{"category_key_path": "0", "reason": "off topic"}`)
	c, err := NewClassifier(newMockConfig(t, mock))
	if err != nil {
		t.Fatalf("NewClassifier() error = %v", err)
	}

	got, err := c.Classify(context.Background(), "what is the weather", testDirectory)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got.CategoryKeyPath != "0" {
		t.Errorf("CategoryKeyPath = %q, want the no-match sentinel", got.CategoryKeyPath)
	}
}

func TestClassifier_StripsCodeFences(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockLLM("```json\n{\"category_key_path\": \"1.1\", \"reason\": \"refund\"}\n```")
	c, err := NewClassifier(newMockConfig(t, mock))
	if err != nil {
		t.Fatalf("NewClassifier() error = %v", err)
	}

	got, err := c.Classify(context.Background(), "refund please", testDirectory)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got.CategoryKeyPath != "1.1" {
		t.Errorf("CategoryKeyPath = %q, want %q", got.CategoryKeyPath, "1.1")
	}
}

func TestClassifier_MalformedResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
	}{
		{name: "not JSON", response: "the best category is 1.1"},
		{name: "JSON array", response: `["1.1"]`},
		{name: "missing category_key_path", response: `{"reason": "because"}`},
		{name: "wrong type", response: `{"category_key_path": 11}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := testutil.NewMockLLM(tt.response)
			c, err := NewClassifier(newMockConfig(t, mock))
			if err != nil {
				t.Fatalf("NewClassifier() error = %v", err)
			}

			_, err = c.Classify(context.Background(), "any question", testDirectory)
			if !errors.Is(err, ErrClassificationParse) {
				t.Fatalf("Classify() error = %v, want ErrClassificationParse", err)
			}
		})
	}
}

func TestClassifier_TransportFailureIsNotParseError(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockLLM("unused")
	mock.AddError("question", errors.New("invalid API key"))

	c, err := NewClassifier(newMockConfig(t, mock))
	if err != nil {
		t.Fatalf("NewClassifier() error = %v", err)
	}

	_, err = c.Classify(context.Background(), "a question", testDirectory)
	if err == nil {
		t.Fatal("Classify() should surface the transport failure")
	}
	if errors.Is(err, ErrClassificationParse) {
		t.Errorf("transport failure should not be ErrClassificationParse: %v", err)
	}
}
