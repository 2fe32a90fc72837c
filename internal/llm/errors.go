package llm

import "errors"

// Sentinel errors checked with errors.Is by the orchestrator's degrade
// policy.
var (
	// ErrRewriteUnavailable indicates the rewrite call failed or returned
	// an unusable response. Rewriting is an optimization; callers degrade
	// to the raw user question.
	ErrRewriteUnavailable = errors.New("query rewrite unavailable")

	// ErrClassificationParse indicates the classification response was not
	// the expected JSON object.
	ErrClassificationParse = errors.New("classification response malformed")
)
