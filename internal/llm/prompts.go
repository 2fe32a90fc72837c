package llm

import (
	"fmt"
	"strings"
	"text/template"
)

// rewriteSystemPrompt instructs the model to condense a multi-turn support
// conversation into one self-contained question. The user message is a JSON
// payload with "conversation" and "context" fields.
const rewriteSystemPrompt = `You are a query rewriting system for a customer support service.

You receive a JSON object with two fields:
- "conversation": the support conversation so far, oldest message first. The last user message is the current question.
- "context": key/value pairs describing the channel the user is writing from.

Rewrite the current question into ONE self-contained query:
- Resolve pronouns and references using the earlier messages.
- Fold in any context values that change the meaning of the question.
- Keep the user's language. Do not answer the question.

Respond with ONLY a JSON object in this exact shape:
{"query_rewrite": "<the rewritten query>", "reason": "<one short sentence on what you changed>"}`

// classifySystemTemplate instructs the model to pick exactly one category
// from the rendered taxonomy directory. The user message is the rewritten
// query.
const classifySystemTemplate = `You are a classification system for a customer support FAQ.

Below is the FAQ category directory. Each line is "- <key>: <description>"; indentation marks sub-categories and keys are dotted paths.

{{.Directory}}

Classify the user's question into the single best-matching category:
- Prefer the most specific matching sub-category.
- If a top-level category matches but none of its sub-categories do, answer with the category key followed by ".0" (for example "2.0").
- If no category applies at all, answer with "0".

Respond with ONLY a JSON object in this exact shape:
{"category_key_path": "<dotted key, or 0>", "reason": "<one short sentence justifying the choice>"}`

var classifyTmpl = template.Must(template.New("classify").Parse(classifySystemTemplate))

// renderClassifyPrompt injects the current directory rendering into the
// classification system prompt.
func renderClassifyPrompt(directory string) (string, error) {
	var b strings.Builder
	if err := classifyTmpl.Execute(&b, struct{ Directory string }{Directory: directory}); err != nil {
		return "", fmt.Errorf("rendering classification prompt: %w", err)
	}
	return b.String(), nil
}

// stripCodeFences removes a ```json ... ``` wrapper some models add around
// JSON output despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}

// truncate shortens s to at most n bytes for log and error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
