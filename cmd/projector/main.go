package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/catalog-browser/internal/app"
	"github.com/example/catalog-browser/internal/config"
	"github.com/example/catalog-browser/internal/infrastructure/kafka"
)

// The projector follows the event topic and keeps session snapshots
// current so the API can restore sessions quickly after a restart.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Projector] Invalid configuration: %v", err)
	}
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("[Projector] KAFKA_BROKERS environment variable is required")
	}

	log.Println("[Projector] ========================================")
	log.Println("[Projector] Catalog Browser - Snapshot Projector")
	log.Println("[Projector] ========================================")
	log.Printf("[Projector] Kafka: %v", cfg.KafkaBrokers)
	log.Printf("[Projector] Topic: %s", cfg.KafkaTopic)
	log.Printf("[Projector] Group: %s", cfg.KafkaConsumerGroup)

	a, err := app.Build(ctx, cfg, app.Options{Publish: false})
	if err != nil {
		log.Fatalf("[Projector] %v", err)
	}
	defer a.Close()

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaConsumerGroup)
	defer consumer.Close()

	go func() {
		log.Println("[Projector] Starting event consumer...")
		if err := consumer.Consume(ctx, a.Projector.HandleEvent); err != nil && ctx.Err() == nil {
			log.Printf("[Projector] Consumer error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Projector] Shutting down...")
	cancel()
}
