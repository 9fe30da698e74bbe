package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"mediagen/internal/adapter/repo"
	"mediagen/internal/domain"
	"mediagen/internal/infra"
	"mediagen/internal/media"
	"mediagen/internal/openai"
	"mediagen/internal/settings"
	"mediagen/internal/storage"
)

const (
	chunkSize     = 50
	chunkPause    = 3 * time.Second
	visionTimeout = 30 * time.Second
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report attachments without writing alt text")
	limit := flag.Int("limit", 0, "stop after this many attachments (0: no limit)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	files, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open storage path")
	}

	options := repo.NewOptionRepository(dbpool)
	attachments := repo.NewAttachmentRepository(dbpool)

	base := settings.Defaults()
	base.APIKey = cfg.OpenAIAPIKey
	base.VisionModel = cfg.VisionModel
	s, err := settings.Load(ctx, options, base)
	if err != nil {
		logger.Warn().Err(err).Msg("options load failed, using env defaults")
		s = base
	}
	if !*dryRun && s.APIKey == "" {
		logger.Fatal().Msg("OpenAI API key not found")
	}

	// Batch runs tolerate slow vendor responses better than the API
	// server does, so the vision window is widened here.
	client := openai.NewClient(openai.Options{
		APIKey:        s.APIKey,
		BaseURL:       cfg.OpenAIBaseURL,
		VisionModel:   s.VisionModel,
		VisionTimeout: visionTimeout,
	})

	generated := 0
	processed := 0
	for {
		batch, err := attachments.ListMissingAltText(ctx, chunkSize)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to list attachments")
		}
		if len(batch) == 0 {
			break
		}

		wrote := false
		for _, att := range batch {
			if *limit > 0 && processed >= *limit {
				logger.Info().Int("generated", generated).Msg("limit reached")
				return
			}
			processed++
			logger.Info().Int64("attachment_id", att.ID).Str("file", att.FileKey).Msg("processing")

			if *dryRun {
				continue
			}
			if backfill(ctx, logger, client, files, attachments, att) {
				generated++
				wrote = true
			}
		}

		// A dry run never updates rows, so the same batch would come
		// back forever.
		if *dryRun || !wrote {
			break
		}

		logger.Info().Dur("pause", chunkPause).Msg("sleeping between chunks")
		time.Sleep(chunkPause)
	}

	logger.Info().Int("generated", generated).Int("processed", processed).Msg("alt text backfill done")
}

func backfill(ctx context.Context, logger zerolog.Logger, client *openai.Client, files *storage.FileStore, attachments *repo.AttachmentRepositoryPG, att domain.Attachment) bool {
	path, err := files.Path(att.FileKey)
	if err != nil {
		logger.Warn().Int64("attachment_id", att.ID).Err(err).Msg("bad file key, skipping")
		return false
	}
	if ok, err := media.IsImage(path); err != nil || !ok {
		logger.Warn().Int64("attachment_id", att.ID).Msg("not a readable image, skipping")
		return false
	}

	resized, cleanup, err := media.ResizeForVision(path)
	if err != nil {
		logger.Warn().Int64("attachment_id", att.ID).Err(err).Msg("resize failed, skipping")
		return false
	}
	defer cleanup()

	text, err := client.SuggestAltText(ctx, resized)
	if err != nil {
		logger.Warn().Int64("attachment_id", att.ID).Err(err).Msg("alt text request failed")
		return false
	}
	if text == "" {
		return false
	}

	if err := attachments.UpdateAltText(ctx, att.ID, text); err != nil {
		logger.Warn().Int64("attachment_id", att.ID).Err(err).Msg("alt text write failed")
		return false
	}
	return true
}
