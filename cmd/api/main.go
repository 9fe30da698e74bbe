package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"mediagen/internal/adapter/repo"
	"mediagen/internal/artifact"
	"mediagen/internal/http/handlers"
	httpapi "mediagen/internal/http"
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

	ctx := context.Background()

	if err := infra.RunMigrations(cfg); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	files, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open storage path")
	}

	attachments := repo.NewAttachmentRepository(dbpool)
	options := repo.NewOptionRepository(dbpool)

	var store jobstore.Store
	if cfg.RedisAddr != "" {
		rdb, err := infra.NewRedisClient(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer rdb.Close()
		store = jobstore.NewRedisStore(rdb)
		logger.Info().Str("addr", cfg.RedisAddr).Msg("job store: redis")
	} else {
		store = jobstore.NewMemoryStore()
		logger.Warn().Msg("job store: in-process memory, jobs do not survive restarts")
	}

	var dispatcher queue.Dispatcher
	if cfg.RabbitURL != "" {
		pub, err := queue.NewRabbitPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect rabbitmq")
		}
		defer pub.Close()
		dispatcher = pub
		logger.Info().Str("queue", cfg.RabbitQueue).Msg("dispatch: rabbitmq")
	} else {
		logger.Warn().Msg("dispatch: inline, generation blocks the submit request")
	}

	base := settings.Defaults()
	base.APIKey = cfg.OpenAIAPIKey
	base.VisionModel = cfg.VisionModel
	base.ImageModel = cfg.ImageModel
	base.ImageQuality = cfg.ImageQuality
	base.ImageSize = cfg.ImageSize

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
		Store:     store,
		Queue:     dispatcher,
		Generator: client,
		Artifacts: artifact.NewStore(files, attachments),
		Logger:    logger,
	})

	app := &handlers.App{
		Jobs:        orchestrator,
		Options:     options,
		Attachments: attachments,
		Files:       files,
		Vision:      client,
		Base:        base,
		Logger:      logger,
	}

	router := httpapi.NewRouter(app, logger, cfg.RateLimitPerMin)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
