// dime-cli is a terminal front end for the same ledger the bot uses.
// Handy for trying the intent gateway without a Telegram token.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"dime/internal/backend"
	"dime/internal/config"
	"dime/internal/core"
	"dime/internal/ledger"
	"dime/internal/log"
	"dime/internal/nlu"
	"dime/internal/router"
	"dime/internal/users"
)

type repl struct {
	user   *core.User
	users  *users.Service
	parser nlu.Parser
	router *router.Router
}

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	// keep log lines off stdout, the REPL owns it
	logger := log.New(log.Config{
		Level:     slog.LevelWarn,
		Component: "dime-cli",
		Handler:   slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}),
	})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	parser, err := nlu.NewParser(cfg)
	if err != nil {
		return err
	}

	userService := users.NewService(store)
	user, err := userService.GetOrCreate(ctx, users.ExternalIdentity{
		ID:       "cli:" + username(),
		Username: username(),
	})
	if err != nil {
		return err
	}

	r := &repl{
		user:   user,
		users:  userService,
		parser: parser,
		router: router.New(ledger.NewService(store, nil)),
	}

	fmt.Println("dime - type what happened ('spent 12.50 EUR on lunch'), or:")
	fmt.Println("  /list [n], /delete <id>, /currency <CODE>, /quit")

	scanner := bufio.NewScanner(os.Stdin)
	for ctx.Err() == nil {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}

		reply, err := r.handle(ctx, line)
		if err != nil {
			reply = "Error: " + err.Error()
		}
		fmt.Println(reply)
	}
	return scanner.Err()
}

func (r *repl) handle(ctx context.Context, line string) (string, error) {
	if strings.HasPrefix(line, "/") {
		return r.handleCommand(ctx, line)
	}

	result, err := r.parser.Parse(ctx, line)
	if err != nil {
		return "", err
	}
	if result.Call == nil {
		return result.Text, nil
	}
	return r.router.Dispatch(ctx, r.user.ID, result.Call)
}

func (r *repl) handleCommand(ctx context.Context, line string) (string, error) {
	command, args, _ := strings.Cut(line[1:], " ")
	args = strings.TrimSpace(args)

	switch command {
	case "list":
		limit := 0
		if n, err := strconv.Atoi(args); err == nil {
			limit = n
		}
		return r.router.Dispatch(ctx, r.user.ID, &nlu.ToolCall{
			Name:      nlu.ToolListTransactions,
			Arguments: map[string]any{"limit": limit},
		})

	case "delete":
		return r.router.Dispatch(ctx, r.user.ID, &nlu.ToolCall{
			Name:      nlu.ToolDeleteTransaction,
			Arguments: map[string]any{"transaction_id": args},
		})

	case "currency":
		if args == "" {
			code, err := r.users.DefaultCurrencyCode(ctx, r.user)
			if err != nil {
				return "", err
			}
			if code == "" {
				return "No default currency set. Use /currency <CODE>.", nil
			}
			return fmt.Sprintf("Your default currency is %s.", code), nil
		}
		return r.users.SetDefaultCurrency(ctx, r.user, args)

	default:
		return "Unknown command. Try /list, /delete, /currency or /quit.", nil
	}
}

func username() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}
