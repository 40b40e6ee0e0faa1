// Package nlu turns free-form chat text into structured intents by asking
// an OpenAI-compatible model to pick one of the registered tools. When the
// model answers in plain prose, that prose is passed through untouched.
package nlu

import "context"

// ToolCall is a structured intent extracted from a message.
type ToolCall struct {
	Name      string
	Arguments map[string]any
}

// Result holds either a tool call or the model's direct text reply.
type Result struct {
	Text string
	Call *ToolCall
}

// Parser extracts intents from user messages.
type Parser interface {
	Parse(ctx context.Context, text string) (*Result, error)
}
