package nlu

import (
	"fmt"

	"dime/internal/config"
)

// NewParser builds the parser selected by MODEL_TYPE. A local model is any
// OpenAI-compatible server (Ollama, llama.cpp, vLLM); the API key it gets
// is a placeholder because those servers ignore authentication.
func NewParser(cfg *config.Config) (Parser, error) {
	switch cfg.ModelType {
	case "openai":
		return NewOpenAIParser(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.ModelTimeout), nil
	case "local", "":
		return NewOpenAIParser("local", cfg.LocalModelURL, cfg.LocalModelName, cfg.ModelTimeout), nil
	default:
		return nil, fmt.Errorf("unknown model type %q", cfg.ModelType)
	}
}
