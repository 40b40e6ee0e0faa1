package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIParser talks to any OpenAI-compatible chat completion endpoint.
type OpenAIParser struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	tools   []openai.Tool
}

func NewOpenAIParser(apiKey, baseURL, model string, timeout time.Duration) *OpenAIParser {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIParser{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
		tools:   toolDefinitions(),
	}
}

func (p *OpenAIParser) Parse(ctx context.Context, text string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Tools:      p.tools,
		ToolChoice: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	message := resp.Choices[0].Message
	if len(message.ToolCalls) == 0 {
		return &Result{Text: message.Content}, nil
	}

	// Only the first call matters; each user message carries one intent.
	call := message.ToolCalls[0]
	args, err := decodeArguments(call.Function.Arguments)
	if err != nil {
		return nil, fmt.Errorf("decode %s arguments: %w", call.Function.Name, err)
	}

	slog.DebugContext(ctx, "Extracted intent",
		"tool", call.Function.Name,
		"model", p.model)

	return &Result{Call: &ToolCall{Name: call.Function.Name, Arguments: args}}, nil
}

func decodeArguments(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	return args, nil
}
