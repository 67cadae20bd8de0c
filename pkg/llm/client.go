package llm

import "context"

type Prompt struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int64
}

type Completion struct {
	Content   string
	ModelUsed string
}

// Client is a chat-completion backend. Implementations return the raw
// assistant text; callers own parsing.
type Client interface {
	Complete(ctx context.Context, prompt Prompt) (*Completion, error)
	Provider() string
}
