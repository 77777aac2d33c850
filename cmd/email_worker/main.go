package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-realty-backend/config"
	"github.com/oksasatya/go-realty-backend/pkg/helpers"
	"github.com/oksasatya/go-realty-backend/pkg/mailer"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)
	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	consumer, msgs, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, 16)
	if err != nil {
		log.Fatalf("amqp consumer: %v", err)
	}
	defer consumer.Close()

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	handle := func(ctx context.Context, body []byte) error {
		return mailer.DeliverJSON(ctx, mg, body)
	}
	permanent := func(err error) bool { return errors.Is(err, mailer.ErrBadJob) }

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Infof("email worker listening on queue=%s", cfg.RabbitMQEmailQueue)
	helpers.ConsumeLoop(ctx, cfg.RabbitMQEmailQueue, msgs, handle, permanent, 15*time.Second, logger)
	logger.Info("email worker stopped")
}
