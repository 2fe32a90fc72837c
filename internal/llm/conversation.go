package llm

import "strings"

// Conversation roles. The wire values match the chat-completion convention
// used by every supported provider.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message of the support conversation, oldest first in a
// slice. The final user turn is presumed to be the current question.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LastUserContent returns the content of the most recent user turn, or ""
// if the conversation has none.
func LastUserContent(turns []Turn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RoleUser {
			return turns[i].Content
		}
	}
	return ""
}

// HasUserTurn reports whether the conversation contains at least one user
// turn with non-blank content.
func HasUserTurn(turns []Turn) bool {
	for _, t := range turns {
		if t.Role == RoleUser && strings.TrimSpace(t.Content) != "" {
			return true
		}
	}
	return false
}
