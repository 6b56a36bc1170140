package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yourrightpocket/charityround/config"
	"github.com/yourrightpocket/charityround/internal/application"
	"github.com/yourrightpocket/charityround/internal/container"
	pginfra "github.com/yourrightpocket/charityround/internal/infrastructure/postgres"
	"github.com/yourrightpocket/charityround/internal/router"
	"github.com/yourrightpocket/charityround/pkg/apperrors"
	"github.com/yourrightpocket/charityround/pkg/helpers"
)

// The ingest worker drains the transactions queue, applying round-up
// credits and threshold auto-donations, and runs a periodic sweep for
// balances that crossed threshold outside the hot path.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-ingest", cfg.Env)

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	receiptsPub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQReceiptQueue)
	if err != nil {
		logger.WithError(err).Warn("receipts queue unavailable, skipping donation receipts")
	} else {
		defer receiptsPub.Close()
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetReceiptsPub(receiptsPub)

	svc := router.BuildLedgerService()

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQTxnQueue)
	if err != nil {
		log.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Consume()
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var job application.TransactionJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				logger.WithError(err).Error("bad message")
				_ = msg.Nack(false, false)
				continue
			}
			c, cancel := context.WithTimeout(ctx, 30*time.Second)
			_, _, err := svc.IngestTransaction(c, job)
			cancel()
			if err != nil {
				if apperrors.KindOf(err) == apperrors.KindInternal {
					// Transient failure: requeue for another attempt.
					logger.WithError(err).WithField("external_id", job.ExternalID).Warn("ingest failed, requeueing")
					_ = msg.Nack(false, true)
				} else {
					// Domain rejection will never succeed; drop it.
					logger.WithError(err).WithField("external_id", job.ExternalID).Error("transaction rejected")
					_ = msg.Nack(false, false)
				}
				continue
			}
			_ = msg.Ack(false)
		}
		close(done)
	}()

	ticker := time.NewTicker(cfg.AutoDonateSweepEvery)
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			c, cancel := context.WithTimeout(ctx, 5*time.Minute)
			if err := svc.Sweep(c); err != nil {
				logger.WithError(err).Warn("auto-donate sweep failed")
			}
			cancel()
		}
	}()

	logger.Infof("ingest worker listening on queue=%s", cfg.RabbitMQTxnQueue)
	<-stop
	logger.Info("shutting down...")
	consumer.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
