package nlu

import (
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"
)

// Tool names the gateway can emit. The router dispatches on these.
const (
	ToolAddExpense        = "add_expense"
	ToolAddIncome         = "add_income"
	ToolGetAnalytics      = "get_analytics"
	ToolListTransactions  = "list_transactions"
	ToolDeleteTransaction = "delete_transaction"
)

const systemPrompt = "You are a personal finance assistant. " +
	"When the user describes money coming in or going out, record it with the matching tool. " +
	"When they ask about totals, spending, or balance, call get_analytics. " +
	"When they ask to see transactions, call list_transactions. " +
	"When they ask to remove a transaction, call delete_transaction with the id or id prefix they gave. " +
	"Use ISO 4217 codes for currencies and YYYY-MM-DD for dates. " +
	"Only answer in plain text when no tool fits the request."

func transactionParams(kind string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"amount": map[string]any{
				"type":        "number",
				"description": "Amount of money, must be greater than zero",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "What the " + kind + " was for",
			},
			"currency_code": map[string]any{
				"type":        "string",
				"description": "ISO 4217 currency code, omit to use the user's default",
			},
			"category": map[string]any{
				"type":        "string",
				"description": "Category like food, transport, salary",
			},
			"date": map[string]any{
				"type":        "string",
				"description": "Date of the " + kind + " (YYYY-MM-DD), omit for now",
			},
		},
		"required": []string{"amount", "description"},
	}
}

// toolDefinitions builds the tool schemas sent with every request.
func toolDefinitions() []openai.Tool {
	defs := []struct {
		name        string
		description string
		params      map[string]any
	}{
		{
			name:        ToolAddExpense,
			description: "Record money the user spent",
			params:      transactionParams("expense"),
		},
		{
			name:        ToolAddIncome,
			description: "Record money the user received",
			params:      transactionParams("income"),
		},
		{
			name:        ToolGetAnalytics,
			description: "Summarize income, expenses and balance over a time window",
			params: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"time_range": map[string]any{
						"type":        "string",
						"enum":        []string{"current_month", "today", "last_month"},
						"description": "Named period, ignored when explicit dates are given",
					},
					"start_date": map[string]any{
						"type":        "string",
						"description": "Window start (YYYY-MM-DD), inclusive",
					},
					"end_date": map[string]any{
						"type":        "string",
						"description": "Window end (YYYY-MM-DD), exclusive",
					},
				},
			},
		},
		{
			name:        ToolListTransactions,
			description: "Show the user's most recent transactions",
			params: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"limit": map[string]any{
						"type":        "integer",
						"description": "How many to show, default 10, max 50",
					},
				},
			},
		},
		{
			name:        ToolDeleteTransaction,
			description: "Delete a transaction by its id or a unique id prefix",
			params: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"transaction_id": map[string]any{
						"type":        "string",
						"description": "Transaction id or its leading characters",
					},
				},
				"required": []string{"transaction_id"},
			},
		},
	}

	tools := make([]openai.Tool, 0, len(defs))
	for _, d := range defs {
		params, _ := json.Marshal(d.params)
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.name,
				Description: d.description,
				Parameters:  json.RawMessage(params),
			},
		})
	}
	return tools
}
