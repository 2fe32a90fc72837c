package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// classifyTemperature: classification must be as deterministic as the
// provider allows.
const classifyTemperature = 0.01

// Classification is the model's raw claim for the classify step. The path
// is an opaque dotted string here; only the taxonomy store decides whether
// it resolves to anything.
type Classification struct {
	CategoryKeyPath string `json:"category_key_path"`
	Reason          string `json:"reason"`
}

// Classifier selects the single best-matching FAQ category for a query.
type Classifier struct {
	*client
}

// NewClassifier creates a classification client.
func NewClassifier(cfg Config) (*Classifier, error) {
	c, err := newClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating classifier: %w", err)
	}
	return &Classifier{client: c}, nil
}

// Classify asks the model to pick one category path for the rewritten query
// given the current directory rendering.
//
// The response must be a JSON object carrying "category_key_path"; anything
// else is an ErrClassificationParse wrap. Transport failures are returned
// as plain wrapped errors. The reserved path "0" is a valid response
// meaning no applicable category.
func (c *Classifier) Classify(ctx context.Context, query, directory string) (Classification, error) {
	system, err := renderClassifyPrompt(directory)
	if err != nil {
		return Classification{}, err
	}

	text, err := c.generateText(ctx, system, query, classifyTemperature)
	if err != nil {
		return Classification{}, fmt.Errorf("classify: %w", err)
	}

	text = stripCodeFences(text)
	if len(text) > maxResponseBytes {
		return Classification{}, fmt.Errorf("%w: response too large: %d bytes",
			ErrClassificationParse, len(text))
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return Classification{}, fmt.Errorf("%w: %w (raw: %q)",
			ErrClassificationParse, err, truncate(text, 200))
	}

	path, ok := obj["category_key_path"].(string)
	if !ok {
		return Classification{}, fmt.Errorf("%w: missing category_key_path (raw: %q)",
			ErrClassificationParse, truncate(text, 200))
	}
	reason, _ := obj["reason"].(string)

	c.logger.Debug("query classified",
		"model", c.modelName,
		"category_key_path", path,
		"reason", truncate(reason, 120),
	)
	return Classification{CategoryKeyPath: path, Reason: reason}, nil
}
