package agent

import (
	"context"
	"testing"

	"github.com/faqpilot/faqpilot/internal/llm"
	"github.com/faqpilot/faqpilot/internal/log"
	"github.com/faqpilot/faqpilot/internal/taxonomy"
)

// StubRewriter adapts a function to the Rewriter interface for tests.
type StubRewriter func(ctx context.Context, turns []Turn, params map[string]string) (string, error)

// Rewrite calls the wrapped function.
func (f StubRewriter) Rewrite(ctx context.Context, turns []Turn, params map[string]string) (string, error) {
	return f(ctx, turns, params)
}

// StubClassifier adapts a function to the Classifier interface for tests.
type StubClassifier func(ctx context.Context, query, directory string) (llm.Classification, error)

// Classify calls the wrapped function.
func (f StubClassifier) Classify(ctx context.Context, query, directory string) (llm.Classification, error) {
	return f(ctx, query, directory)
}

// EchoRewriter returns the last user turn unchanged, skipping the model.
func EchoRewriter() StubRewriter {
	return func(_ context.Context, turns []Turn, _ map[string]string) (string, error) {
		return llm.LastUserContent(turns), nil
	}
}

// FixedClassifier always claims the given category path.
func FixedClassifier(keyPath string) StubClassifier {
	return func(_ context.Context, _, _ string) (llm.Classification, error) {
		return llm.Classification{CategoryKeyPath: keyPath, Reason: "stubbed"}, nil
	}
}

// testTaxonomyDoc is a minimal two-branch FAQ document used across the
// agent, api, and mcp tests.
const testTaxonomyDoc = `[
  {
    "category_key": "1",
    "category_desc": "Billing and payments",
    "sub_category": [
      {"category_key": "1", "category_desc": "Refund requests", "answer": "Refunds are issued within 5 business days."},
      {"category_key": "2", "category_desc": "Invoice copies", "answer": "Invoices can be downloaded from your account page."}
    ]
  },
  {
    "category_key": "2",
    "category_desc": "Shipping",
    "sub_category": [
      {"category_key": "1", "category_desc": "Package tracking", "answer": "Track your package with the link in the confirmation email."}
    ]
  }
]`

// NewTestStore parses the shared test document into a Store with no
// backing file.
func NewTestStore(t *testing.T) *taxonomy.Store {
	t.Helper()

	tree, err := taxonomy.Parse([]byte(testTaxonomyDoc))
	if err != nil {
		t.Fatalf("parsing test taxonomy: %v", err)
	}
	return taxonomy.NewStoreFromTree(tree, log.NewNop())
}

// NewTestAgent builds an Agent over the shared test store with the given
// stubs, failing the test on configuration errors.
func NewTestAgent(t *testing.T, rewriter Rewriter, classifier Classifier) *Agent {
	t.Helper()

	a, err := New(Config{
		Store:      NewTestStore(t),
		Rewriter:   rewriter,
		Classifier: classifier,
		Logger:     log.NewNop(),
	})
	if err != nil {
		t.Fatalf("creating test agent: %v", err)
	}
	return a
}
