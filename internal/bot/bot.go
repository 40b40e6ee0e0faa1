// Package bot is the Telegram front end: it provisions users from chat
// identities, answers slash commands directly, and routes free-form text
// through the intent gateway.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"dime/internal/core"
	"dime/internal/nlu"
	"dime/internal/router"
	"dime/internal/users"
)

const helpText = `I track your money. Just tell me what happened:
- "spent 12.50 EUR on lunch"
- "got paid 3000 salary"
- "how much did I spend this month?"

Commands:
/list [n] - show your recent transactions
/delete <id> - delete a transaction by id or id prefix
/currency <CODE> - set your default currency
/help - this message`

type Bot struct {
	api    *tgbotapi.BotAPI
	users  *users.Service
	parser nlu.Parser
	router *router.Router
}

func New(token string, userService *users.Service, parser nlu.Parser, r *router.Router) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}
	return &Bot{
		api:    api,
		users:  userService,
		parser: parser,
		router: r,
	}, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	slog.InfoContext(ctx, "Bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("update channel closed")
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	reply, err := b.reply(ctx, message)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to handle message",
			"chat_id", message.Chat.ID, "error", err)
		reply = "Error: " + err.Error()
	}
	if reply == "" {
		return
	}

	if _, err := b.api.Send(tgbotapi.NewMessage(message.Chat.ID, reply)); err != nil {
		slog.ErrorContext(ctx, "Failed to send reply",
			"chat_id", message.Chat.ID, "error", err)
	}
}

func (b *Bot) reply(ctx context.Context, message *tgbotapi.Message) (string, error) {
	user, err := b.users.GetOrCreate(ctx, identityOf(message))
	if err != nil {
		return "", fmt.Errorf("resolve user: %w", err)
	}

	if message.IsCommand() {
		return b.handleCommand(ctx, user, message)
	}

	result, err := b.parser.Parse(ctx, message.Text)
	if err != nil {
		return "", fmt.Errorf("parse message: %w", err)
	}
	if result.Call == nil {
		return result.Text, nil
	}
	return b.router.Dispatch(ctx, user.ID, result.Call)
}

func (b *Bot) handleCommand(ctx context.Context, user *core.User, message *tgbotapi.Message) (string, error) {
	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start":
		return "Hi! I'm your expense tracker.\n\n" + helpText, nil

	case "help":
		return helpText, nil

	case "list":
		limit := 0
		if args != "" {
			if n, err := strconv.Atoi(args); err == nil {
				limit = n
			}
		}
		return b.router.Dispatch(ctx, user.ID, &nlu.ToolCall{
			Name:      nlu.ToolListTransactions,
			Arguments: map[string]any{"limit": limit},
		})

	case "delete":
		return b.router.Dispatch(ctx, user.ID, &nlu.ToolCall{
			Name:      nlu.ToolDeleteTransaction,
			Arguments: map[string]any{"transaction_id": args},
		})

	case "currency":
		if args == "" {
			code, err := b.users.DefaultCurrencyCode(ctx, user)
			if err != nil {
				return "", err
			}
			if code == "" {
				return "No default currency set. Use /currency <CODE>.", nil
			}
			return fmt.Sprintf("Your default currency is %s.", code), nil
		}
		return b.users.SetDefaultCurrency(ctx, user, args)

	default:
		return "Unknown command. Try /help.", nil
	}
}

func identityOf(message *tgbotapi.Message) users.ExternalIdentity {
	from := message.From
	if from == nil {
		return users.ExternalIdentity{ID: strconv.FormatInt(message.Chat.ID, 10)}
	}
	return users.ExternalIdentity{
		ID:        strconv.FormatInt(from.ID, 10),
		Username:  from.UserName,
		FirstName: from.FirstName,
		LastName:  from.LastName,
	}
}
