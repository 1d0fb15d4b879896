package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/topdev70/artify-and-buy-now-server/internal/adapter/repo"
	"github.com/topdev70/artify-and-buy-now-server/internal/events"
	"github.com/topdev70/artify-and-buy-now-server/internal/http/handlers"
	"github.com/topdev70/artify-and-buy-now-server/internal/http/httpapi"
	"github.com/topdev70/artify-and-buy-now-server/internal/infra"
	"github.com/topdev70/artify-and-buy-now-server/internal/metrics"
	"github.com/topdev70/artify-and-buy-now-server/internal/providers/imageedit"
	"github.com/topdev70/artify-and-buy-now-server/internal/providers/imghost"
	"github.com/topdev70/artify-and-buy-now-server/internal/storage"
	"github.com/topdev70/artify-and-buy-now-server/internal/tempfile"
	"github.com/topdev70/artify-and-buy-now-server/internal/transform"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if err := infra.EnsureDirs(cfg.UploadDir, cfg.GeneratedDir); err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare directories")
	}

	temp, err := tempfile.NewManager(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init temp manager")
	}
	store, err := storage.NewFileStore(cfg.GeneratedDir, cfg.PublicBaseURL+"/generated")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init storage")
	}

	ctx := context.Background()
	var (
		observers []transform.SaveObserver
		catalog   handlers.SavedImageCatalog
	)
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		savedImages := repo.NewSavedImageRepository(infra.NewSQLRunner(pool, logger))
		if err := savedImages.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare saved image catalog")
		}
		observers = append(observers, savedImages)
		catalog = savedImages
		logger.Info().Msg("saved image catalog enabled")
	}
	if strings.TrimSpace(cfg.EventSink) != "" {
		publisher, err := events.NewPublisher(cfg.EventSink, cfg.EventSource, cfg.EventType, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init event publisher")
		}
		observers = append(observers, publisher)
		logger.Info().Str("sink", cfg.EventSink).Msg("saved image events enabled")
	}

	editLogger := logger.With().Str("component", "imageedit").Logger()
	service, err := transform.NewService(transform.Options{
		Temp: temp,
		Editor: imageedit.NewClient(imageedit.Options{
			BaseURL: cfg.ImageEditBaseURL,
			Model:   cfg.ImageEditModel,
			Timeout: cfg.ImageEditTimeout,
			Logger:  &editLogger,
		}),
		Fetcher:       imageedit.NewDownloader(cfg.ImageFetchTimeout),
		Store:         store,
		Observers:     observers,
		DefaultPrompt: cfg.DefaultPrompt,
		Logger:        logger.With().Str("component", "transform").Logger(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init transform service")
	}

	registry := metrics.NewRegistry("artify")
	app := &handlers.App{
		Transformer: service,
		ImageHost: imghost.NewClient(imghost.Options{
			APIKey:  cfg.ImgBBAPIKey,
			BaseURL: cfg.ImgBBBaseURL,
		}),
		Catalog:      catalog,
		Metrics:      registry,
		Logger:       logger,
		GeneratedDir: cfg.GeneratedDir,
		MaxBodyBytes: cfg.MaxBodyBytes,
	}
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Metrics:         registry,
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Str("public_base_url", cfg.PublicBaseURL).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	// in-flight transforms may wait on the edit service
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ImageEditTimeout+5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	if err := service.Wait(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("saved image notifications still pending")
	}
	logger.Info().Msg("server stopped")
}
