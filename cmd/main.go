package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"vision-overlay/config"
	"vision-overlay/internal/api/rest"
	"vision-overlay/internal/api/telegram"
	app "vision-overlay/internal/application"
	"vision-overlay/internal/container"
	"vision-overlay/internal/domain/port"
	"vision-overlay/internal/infrastructure/camera"
	"vision-overlay/internal/infrastructure/canvas"
	"vision-overlay/internal/infrastructure/inference"
	"vision-overlay/internal/infrastructure/storage"
	"vision-overlay/internal/logging"
	"vision-overlay/internal/overlay"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logging.Setup(cfg)

	log.Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Str("inference_url", cfg.InferenceURL).
		Str("render_backend", cfg.RenderBackend).
		Str("fit_mode", string(cfg.DefaultFitMode)).
		Bool("camera", cfg.CameraSnapshotURL != "").
		Bool("telegram", cfg.TelegramToken != "").
		Msg("Starting vision overlay")

	factory, err := canvas.Factory(cfg.RenderBackend)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to select render backend")
	}
	renderer := overlay.NewRenderer(factory,
		overlay.WithJPEGQuality(cfg.JPEGQuality),
		overlay.WithMaxTargetSide(cfg.MaxTargetSide),
		overlay.WithMaxSourcePixels(cfg.MaxSourcePixels),
	)

	client := inference.NewClient(cfg.InferenceURL, cfg.InferenceTimeout,
		inference.WithStrictValidation(cfg.InferenceStrict))

	healthCtx, cancelHealth := context.WithTimeout(context.Background(), 5*time.Second)
	if err := client.CheckHealth(healthCtx); err != nil {
		log.Warn().Err(err).Msg("Inference service is not reachable yet")
	}
	cancelHealth()

	opts := []app.AnnotationOption{
		app.WithDefaultMode(cfg.DefaultFitMode),
		app.WithMinConfidence(cfg.MinConfidence),
	}
	if cfg.CameraSnapshotURL != "" {
		opts = append(opts, app.WithCamera(func() port.Camera {
			return camera.NewSnapshotCamera(cfg.CameraSnapshotURL, cfg.CameraTimeout)
		}))
	}

	appContainer := container.New(storage.NewMemoryUserRepository(), client, renderer, opts...)

	server := rest.NewServer(cfg, appContainer, inference.NewDegrading(client))
	server.Setup()

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create bot")
		}
		go func() {
			if err := bot.Run(ctx); err != nil {
				log.Error().Err(err).Msg("Bot stopped")
			}
		}()
	}

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	} else {
		log.Info().Msg("Server shutdown complete")
	}
}
