// The dime bot: a Telegram expense tracker that understands natural
// language through an LLM tool-calling gateway.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"dime/internal/amqp"
	"dime/internal/backend"
	"dime/internal/bot"
	"dime/internal/config"
	"dime/internal/ledger"
	"dime/internal/log"
	"dime/internal/nlu"
	"dime/internal/router"
	"dime/internal/users"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is a convenience for local runs; absence is fine
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return fmt.Errorf("connect AMQP: %w", err)
		}
		defer events.Close()
	} else {
		slog.Info("AMQP not configured, transaction events disabled")
	}

	parser, err := nlu.NewParser(cfg)
	if err != nil {
		return err
	}

	userService := users.NewService(store)
	ledgerService := ledger.NewService(store, events)
	intentRouter := router.New(ledgerService)

	telegramBot, err := bot.New(cfg.BotToken, userService, parser, intentRouter)
	if err != nil {
		return err
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return telegramBot.Run(ctx)
	})

	slog.Info("dime is running",
		"backend", cfg.DataBackend,
		"model_type", cfg.ModelType)

	if err := group.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	slog.Info("Shutdown complete")
	return nil
}
