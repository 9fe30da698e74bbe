package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"mediagen/internal/adapter/repo"
	"mediagen/internal/artifact"
	"mediagen/internal/infra"
	"mediagen/internal/jobs"
	"mediagen/internal/jobstore"
	"mediagen/internal/openai"
	"mediagen/internal/queue"
	"mediagen/internal/settings"
	"mediagen/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if cfg.RabbitURL == "" {
		logger.Fatal().Msg("RABBIT_URL is required for the worker")
	}
	if cfg.RedisAddr == "" {
		logger.Fatal().Msg("REDIS_ADDR is required for the worker, job state must be shared with the API")
	}

	ctx := context.Background()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	rdb, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer rdb.Close()

	files, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open storage path")
	}

	options := repo.NewOptionRepository(dbpool)
	attachments := repo.NewAttachmentRepository(dbpool)

	// The credential is deliberately absent from queue payloads; the
	// worker resolves its own settings.
	base := settings.Defaults()
	base.APIKey = cfg.OpenAIAPIKey
	base.VisionModel = cfg.VisionModel
	s, err := settings.Load(ctx, options, base)
	if err != nil {
		logger.Warn().Err(err).Msg("options load failed, using env defaults")
		s = base
	}

	client := openai.NewClient(openai.Options{
		APIKey:      s.APIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		VisionModel: s.VisionModel,
	})

	orchestrator := jobs.NewOrchestrator(jobs.Options{
		Store:     jobstore.NewRedisStore(rdb),
		Generator: client,
		Artifacts: artifact.NewStore(files, attachments),
		Logger:    logger,
	})

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("rabbit dial failed")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal().Err(err).Msg("rabbit channel failed")
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(cfg.RabbitQueue, true, false, false, false, nil); err != nil {
		logger.Fatal().Err(err).Msg("queue declare failed")
	}
	if err := ch.Qos(cfg.WorkerConcurrency, 0, false); err != nil {
		logger.Fatal().Err(err).Msg("qos failed")
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("consume failed")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("queue", cfg.RabbitQueue).Int("concurrency", cfg.WorkerConcurrency).Msg("worker started")

	deliveries := make(chan amqp.Delivery, cfg.WorkerConcurrency*2)

	var wg sync.WaitGroup
	wg.Add(cfg.WorkerConcurrency)
	for i := 0; i < cfg.WorkerConcurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range deliveries {
				handle(ctx, logger, orchestrator, workerID, d)
			}
		}(i)
	}

loop:
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("worker shutting down")
			break loop
		case d, ok := <-msgs:
			if !ok {
				logger.Error().Msg("consume channel closed")
				break loop
			}
			deliveries <- d
		}
	}

	close(deliveries)
	wg.Wait()
	logger.Info().Msg("worker stopped")
}

func handle(ctx context.Context, logger infra.Logger, orch *jobs.Orchestrator, workerID int, d amqp.Delivery) {
	if d.Type != queue.ActionGenerateImage {
		logger.Warn().Int("worker", workerID).Str("action", d.Type).Msg("unknown action, dropping")
		_ = d.Nack(false, false)
		return
	}

	var task jobs.Task
	if err := json.Unmarshal(d.Body, &task); err != nil || task.JobID == "" {
		logger.Warn().Int("worker", workerID).Err(err).Msg("bad message, dropping")
		_ = d.Nack(false, false)
		return
	}

	start := time.Now()
	// Execute records failures as job state; the delivery is always
	// acked so a poisoned task cannot loop.
	orch.Execute(ctx, task)
	logger.Info().Int("worker", workerID).Str("job_id", task.JobID).Dur("took", time.Since(start)).Msg("task handled")

	if err := d.Ack(false); err != nil {
		logger.Error().Int("worker", workerID).Str("job_id", task.JobID).Err(err).Msg("ack failed")
	}
}
