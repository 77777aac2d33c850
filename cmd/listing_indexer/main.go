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
	"github.com/oksasatya/go-realty-backend/internal/application"
	"github.com/oksasatya/go-realty-backend/pkg/helpers"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-listing-indexer", cfg.Env)
	if !cfg.EventsEnabled {
		logger.Info("EVENTS_ENABLED=false; listing indexer disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQPropertyQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("elasticsearch: %v", err)
	}
	indexer := application.NewListingIndexer(helpers.NewESIndex(es, cfg.ESPropertiesIndex), logger)

	consumer, msgs, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQPropertyQueue, 32)
	if err != nil {
		log.Fatalf("amqp consumer: %v", err)
	}
	defer consumer.Close()

	permanent := func(err error) bool { return errors.Is(err, application.ErrBadEvent) }

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Infof("listing indexer listening on queue=%s index=%s", cfg.RabbitMQPropertyQueue, cfg.ESPropertiesIndex)
	helpers.ConsumeLoop(ctx, cfg.RabbitMQPropertyQueue, msgs, indexer.Handle, permanent, 10*time.Second, logger)
	logger.Info("listing indexer stopped")
}
