package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// rewriteTemperature keeps the rewrite near-deterministic.
const rewriteTemperature = 0.1

// maxResponseBytes limits model response size before JSON parsing (16 KB).
const maxResponseBytes = 16 * 1024

// Rewriter condenses a multi-turn conversation plus context parameters into
// one self-contained query suitable as classification input.
type Rewriter struct {
	*client
}

// NewRewriter creates a query rewrite client.
func NewRewriter(cfg Config) (*Rewriter, error) {
	c, err := newClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating rewriter: %w", err)
	}
	return &Rewriter{client: c}, nil
}

// rewritePayload is the JSON user message sent to the rewrite model.
type rewritePayload struct {
	Conversation []Turn            `json:"conversation"`
	Context      map[string]string `json:"context"`
}

// rewriteResponse is the JSON shape the rewrite model is instructed to return.
type rewriteResponse struct {
	QueryRewrite string `json:"query_rewrite"`
	Reason       string `json:"reason"`
}

// Rewrite returns a self-contained query for the conversation's current
// question. Context params are passed through to the prompt verbatim.
//
// The result is never empty: when the model returns blank output, Rewrite
// falls back to the literal content of the last user turn. Communication
// and malformed-response failures are reported as ErrRewriteUnavailable
// wraps; the caller owns the degrade policy.
func (r *Rewriter) Rewrite(ctx context.Context, turns []Turn, params map[string]string) (string, error) {
	if !HasUserTurn(turns) {
		return "", fmt.Errorf("%w: conversation has no user turn", ErrRewriteUnavailable)
	}
	if params == nil {
		params = map[string]string{}
	}

	payload, err := json.Marshal(rewritePayload{Conversation: turns, Context: params})
	if err != nil {
		return "", fmt.Errorf("%w: encoding payload: %w", ErrRewriteUnavailable, err)
	}

	text, err := r.generateText(ctx, rewriteSystemPrompt, string(payload), rewriteTemperature)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRewriteUnavailable, err)
	}

	text = stripCodeFences(text)
	if len(text) > maxResponseBytes {
		return "", fmt.Errorf("%w: response too large: %d bytes", ErrRewriteUnavailable, len(text))
	}

	var out rewriteResponse
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return "", fmt.Errorf("%w: parsing response: %w (raw: %q)",
			ErrRewriteUnavailable, err, truncate(text, 200))
	}

	query := strings.TrimSpace(out.QueryRewrite)
	if query == "" {
		// Blank rewrite is not a failure; the raw question still classifies.
		fallback := LastUserContent(turns)
		r.logger.Debug("empty rewrite, using last user turn", "model", r.modelName)
		return fallback, nil
	}

	r.logger.Debug("query rewritten",
		"model", r.modelName,
		"query_length", len(query),
		"reason", truncate(out.Reason, 120),
	)
	return query, nil
}
