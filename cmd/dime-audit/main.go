// dime-audit tails the transaction event stream and logs every recorded
// and deleted transaction. It is the consuming half of the AMQP side
// channel the bot publishes to.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"dime/internal/amqp"
	"dime/internal/config"
	"dime/internal/log"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	logger := log.New(log.Config{Level: slog.LevelInfo, Component: "dime-audit"})
	log.SetDefault(logger)

	cfg := config.Load()
	if cfg.AMQPURL == "" {
		return fmt.Errorf("AMQP_URL is required")
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("connect AMQP: %w", err)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = client.ConsumeTransactionEvents(ctx, func(event *amqp.TransactionEvent) error {
		slog.Info("Transaction event",
			"kind", event.Kind,
			"transaction_id", event.TransactionID,
			"user_id", event.UserID,
			"timestamp", event.Timestamp)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
