// Package agent orchestrates the FAQ answering pipeline: query rewrite,
// category classification, and deterministic answer lookup in the taxonomy.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/faqpilot/faqpilot/internal/llm"
	"github.com/faqpilot/faqpilot/internal/log"
	"github.com/faqpilot/faqpilot/internal/taxonomy"
)

// Turn is a single message of the support conversation, oldest first.
type Turn = llm.Turn

// DefaultFallbackAnswer is returned when no FAQ category matches and no
// custom fallback is configured.
const DefaultFallbackAnswer = "Sorry, we could not find an answer to your question. Please contact our support team for further help."

// ErrEmptyConversation is returned when the conversation carries no user
// turn with content. This is the only error Process returns for well-formed
// infrastructure; degradable failures never surface.
var ErrEmptyConversation = errors.New("conversation is empty or has no user turn")

// State identifies where in the pipeline a request currently is. The final
// state is recorded on the Result for logging and tracing.
type State int

const (
	StateReceived State = iota
	StateRewriting
	StateRewritten
	StateClassifying
	StateClassified
	StateResolving
	StateAnswered
	StateFallback
)

var stateNames = map[State]string{
	StateReceived:    "received",
	StateRewriting:   "rewriting",
	StateRewritten:   "rewritten",
	StateClassifying: "classifying",
	StateClassified:  "classified",
	StateResolving:   "resolving",
	StateAnswered:    "answered",
	StateFallback:    "fallback",
}

// String returns the state name for logs and traces.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON encodes the state by name.
func (s State) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// UnmarshalJSON decodes a state from its name, so clients can round-trip a
// Result. Unknown names are rejected.
func (s *State) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("decoding state: %w", err)
	}
	for state, n := range stateNames {
		if n == name {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", name)
}

// Result is the outcome of one pipeline run.
//
// Matched is true only when the classified path resolved to a category with
// an answer. On fallback, Answer carries the configured fallback text and
// CategoryKeyPath carries whatever the classifier claimed (the "0" sentinel
// when classification itself failed).
type Result struct {
	Answer          string `json:"answer"`
	CategoryKeyPath string `json:"category_key_path"`
	Reason          string `json:"reason,omitempty"`
	Breadcrumb      string `json:"breadcrumb,omitempty"`
	Matched         bool   `json:"matched"`
	State           State  `json:"state"`
}

// Rewriter condenses a conversation into one self-contained query.
type Rewriter interface {
	Rewrite(ctx context.Context, turns []Turn, params map[string]string) (string, error)
}

// Classifier picks one category path for a query given a directory rendering.
type Classifier interface {
	Classify(ctx context.Context, query, directory string) (llm.Classification, error)
}

// Config wires the agent's collaborators.
type Config struct {
	Store      *taxonomy.Store
	Rewriter   Rewriter
	Classifier Classifier
	Logger     log.Logger

	// FallbackAnswer overrides DefaultFallbackAnswer when non-empty.
	FallbackAnswer string
}

// Agent runs the rewrite → classify → lookup pipeline. It holds only
// read-only references; no per-request state survives a call, so one Agent
// serves concurrent requests.
type Agent struct {
	store      *taxonomy.Store
	rewriter   Rewriter
	classifier Classifier
	logger     log.Logger
	fallback   string
}

// New creates an Agent, validating that all collaborators are present.
func New(cfg Config) (*Agent, error) {
	if cfg.Store == nil {
		return nil, errors.New("taxonomy store is required")
	}
	if cfg.Rewriter == nil {
		return nil, errors.New("rewriter is required")
	}
	if cfg.Classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}

	fallback := cfg.FallbackAnswer
	if fallback == "" {
		fallback = DefaultFallbackAnswer
	}

	return &Agent{
		store:      cfg.Store,
		rewriter:   cfg.Rewriter,
		classifier: cfg.Classifier,
		logger:     cfg.Logger,
		fallback:   fallback,
	}, nil
}

// Process answers the current question of a support conversation.
//
// Degradation policy: a rewrite failure falls back to the literal last user
// turn and continues; a classification failure terminates in Fallback with
// the "0" sentinel; a lookup miss terminates in Fallback with the
// classifier's claimed path. Only an empty conversation returns an error.
func (a *Agent) Process(ctx context.Context, turns []Turn, params map[string]string) (Result, error) {
	if !llm.HasUserTurn(turns) {
		return Result{State: StateReceived}, ErrEmptyConversation
	}

	a.logger.Debug("processing conversation",
		"state", StateRewriting.String(),
		"turns", len(turns),
		"params", len(params),
	)

	query, err := a.rewriter.Rewrite(ctx, turns, params)
	if err != nil {
		// llm.ErrRewriteUnavailable and everything else degrade the same
		// way: classify the raw question instead.
		query = llm.LastUserContent(turns)
		a.logger.Warn("query rewrite unavailable, using last user turn",
			"error", err,
		)
	}

	a.logger.Debug("query ready",
		"state", StateRewritten.String(),
		"query_length", len(query),
	)

	classification, err := a.classifier.Classify(ctx, query, a.store.RenderDirectory())
	if err != nil {
		a.logger.Warn("classification failed, returning fallback answer",
			"state", StateFallback.String(),
			"error", err,
		)
		return Result{
			Answer:          a.fallback,
			CategoryKeyPath: taxonomy.NoMatchKey,
			State:           StateFallback,
		}, nil
	}

	a.logger.Debug("classification received",
		"state", StateResolving.String(),
		"category_key_path", classification.CategoryKeyPath,
	)

	match := a.store.Lookup(classification.CategoryKeyPath)
	if !match.OK {
		a.logger.Info("no answer for classified path, returning fallback answer",
			"state", StateFallback.String(),
			"category_key_path", classification.CategoryKeyPath,
			"breadcrumb", match.Breadcrumb,
		)
		return Result{
			Answer:          a.fallback,
			CategoryKeyPath: classification.CategoryKeyPath,
			Reason:          classification.Reason,
			Breadcrumb:      match.Breadcrumb,
			State:           StateFallback,
		}, nil
	}

	a.logger.Info("question answered",
		"state", StateAnswered.String(),
		"category_key_path", classification.CategoryKeyPath,
		"breadcrumb", match.Breadcrumb,
	)

	return Result{
		Answer:          match.Answer,
		CategoryKeyPath: classification.CategoryKeyPath,
		Reason:          classification.Reason,
		Breadcrumb:      match.Breadcrumb,
		Matched:         true,
		State:           StateAnswered,
	}, nil
}
