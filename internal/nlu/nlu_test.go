package nlu

import (
	"encoding/json"
	"testing"
	"time"

	"dime/internal/config"
)

func TestNewParserSelection(t *testing.T) {
	tests := []struct {
		name      string
		modelType string
		wantErr   bool
	}{
		{"openai", "openai", false},
		{"local", "local", false},
		{"empty defaults to local", "", false},
		{"unknown", "claude", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				ModelType:      tt.modelType,
				OpenAIAPIKey:   "sk-test",
				OpenAIModel:    "gpt-4o-mini",
				LocalModelURL:  "http://localhost:11434/v1",
				LocalModelName: "llama3",
				ModelTimeout:   30 * time.Second,
			}
			parser, err := NewParser(cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if parser == nil {
				t.Fatal("nil parser")
			}
		})
	}
}

func TestDecodeArguments(t *testing.T) {
	args, err := decodeArguments(`{"amount": 12.5, "description": "lunch", "limit": 3}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if args["description"] != "lunch" {
		t.Fatalf("description: %v", args["description"])
	}
	if args["amount"].(float64) != 12.5 {
		t.Fatalf("amount: %v", args["amount"])
	}
}

func TestDecodeArgumentsEmpty(t *testing.T) {
	args, err := decodeArguments("  ")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(args) != 0 {
		t.Fatalf("expected empty map, got %v", args)
	}
}

func TestDecodeArgumentsInvalid(t *testing.T) {
	if _, err := decodeArguments("{broken"); err == nil {
		t.Fatal("expected error")
	}
}

func TestToolDefinitionsSchemas(t *testing.T) {
	tools := toolDefinitions()
	if len(tools) != 5 {
		t.Fatalf("expected 5 tools, got %d", len(tools))
	}

	names := map[string]bool{}
	for _, tool := range tools {
		names[tool.Function.Name] = true

		// every schema must be valid JSON
		raw, ok := tool.Function.Parameters.(json.RawMessage)
		if !ok {
			t.Fatalf("%s: parameters not raw JSON", tool.Function.Name)
		}
		var schema map[string]any
		if err := json.Unmarshal(raw, &schema); err != nil {
			t.Fatalf("%s: invalid schema: %v", tool.Function.Name, err)
		}
		if schema["type"] != "object" {
			t.Fatalf("%s: schema type %v", tool.Function.Name, schema["type"])
		}
	}

	for _, want := range []string{
		ToolAddExpense, ToolAddIncome, ToolGetAnalytics,
		ToolListTransactions, ToolDeleteTransaction,
	} {
		if !names[want] {
			t.Fatalf("missing tool %s", want)
		}
	}
}
