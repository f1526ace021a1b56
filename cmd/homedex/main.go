package main

import (
	"context"
	"log"
	"log/slog"

	"homedex/internal/analysis"
	"homedex/internal/blobstore"
	localblobs "homedex/internal/blobstore/local"
	minioblobs "homedex/internal/blobstore/minio"
	"homedex/internal/config"
	"homedex/internal/db"
	"homedex/internal/logging"
	"homedex/internal/recognition"
	claudereco "homedex/internal/recognition/claudeai"
	openaireco "homedex/internal/recognition/openai"
	"homedex/internal/service"
	"homedex/internal/store"
	"homedex/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	homeStore := store.NewHomeStore(database)
	roomStore := store.NewRoomStore(database)

	blobs := newBlobStore(cfg, logger)
	if blobs == nil {
		return
	}

	recognizer := newRecognizer(cfg, logger)
	if recognizer == nil {
		return
	}

	clock := analysis.SystemClock{}
	coordinator := analysis.NewCoordinator(roomStore, blobs, recognizer, clock, logger)
	homeService := service.NewHomeService(homeStore, roomStore, blobs, clock, logger)
	roomService := service.NewRoomService(roomStore, blobs, logger)

	server := web.NewServer(homeService, roomService, coordinator, blobs, logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newBlobStore(cfg *config.Config, logger *slog.Logger) blobstore.Store {
	switch cfg.BlobBackend {
	case "minio":
		logger.Info("using minio blob backend", "endpoint", cfg.MinioEndpoint, "bucket", cfg.MinioBucket)
		blobs, err := minioblobs.New(context.Background(), cfg.MinioEndpoint, cfg.MinioRegion,
			cfg.MinioBucket, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
		if err != nil {
			logger.Error("failed to initialize minio blob store", "error", err)
			return nil
		}
		return blobs
	default:
		logger.Info("using local blob backend", "path", cfg.BlobLocalPath)
		blobs, err := localblobs.New(cfg.BlobLocalPath, cfg.PublicBaseURL)
		if err != nil {
			logger.Error("failed to initialize local blob store", "error", err)
			return nil
		}
		return blobs
	}
}

func newRecognizer(cfg *config.Config, logger *slog.Logger) recognition.Recognizer {
	switch cfg.RecognitionBackend {
	case "claude":
		if cfg.AnthropicAPIKey == "" {
			logger.Error("ANTHROPIC_API_KEY is required when RECOGNITION_BACKEND=claude")
			return nil
		}
		logger.Info("using claude recognition backend", "model", cfg.AnthropicModel)
		return claudereco.New(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	default:
		if cfg.OpenAIAPIKey == "" {
			logger.Error("OPENAI_API_KEY is required when RECOGNITION_BACKEND=openai")
			return nil
		}
		logger.Info("using openai recognition backend", "model", cfg.OpenAIModel)
		return openaireco.New(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
}
