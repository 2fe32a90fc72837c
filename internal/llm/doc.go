// Package llm implements the two language-model clients the FAQ agent
// chains together: query rewriting and category classification.
//
// Both clients sit on top of Genkit and share the same resilience stack:
// a proactive rate limiter, exponential-backoff retry for transient
// provider failures, a circuit breaker, and a per-call timeout. Each call
// is context-cancellable; cancelling the request context aborts the
// outbound call.
//
// The clients parse model output defensively (code fences stripped, strict
// JSON shape checks) but never validate category paths against the
// taxonomy — that is the taxonomy store's job at lookup time.
package llm
