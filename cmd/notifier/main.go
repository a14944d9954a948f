// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/carterperez-dev/storefront/internal/config"
	"github.com/carterperez-dev/storefront/internal/core"
	"github.com/carterperez-dev/storefront/internal/events"
	"github.com/carterperez-dev/storefront/internal/notify"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("notifier error", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := core.NewLogger(cfg.Log).With("component", "notifier")
	slog.SetDefault(logger)

	if !cfg.RabbitMQ.Enabled() {
		return errors.New("rabbitmq.url is required to run the notifier")
	}

	var sender notify.Sender = notify.LogSender{Logger: logger}
	if cfg.Mailgun.Enabled() {
		sender = notify.NewMailgun(cfg.Mailgun)
		logger.Info("mailgun sender configured", "domain", cfg.Mailgun.Domain)
	} else {
		logger.Warn("mailgun not configured, emails will only be logged")
	}

	consumer, err := events.NewConsumer(cfg.RabbitMQ, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Error("consumer close error", "error", err)
		}
	}()

	notifier := notify.NewNotifier(sender, cfg.App.Name, logger)

	logger.Info("consuming events",
		"exchange", cfg.RabbitMQ.Exchange,
		"queue", cfg.RabbitMQ.Queue,
	)

	if err := consumer.Run(ctx, notifier.Handle); err != nil {
		return err
	}

	logger.Info("notifier stopped")
	return nil
}
