package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	config "github.com/callsight/backend/config/web"
	"github.com/callsight/backend/gateways/web/handler"
	"github.com/callsight/backend/pkg/gen"
	"github.com/callsight/backend/pkg/logger"
	"github.com/callsight/backend/services/analysis/classification"
	"github.com/callsight/backend/services/analysis/diarization"
	analysisusecase "github.com/callsight/backend/services/analysis/usecase"
	audiousecase "github.com/callsight/backend/services/audio/usecase"
	convstorage "github.com/callsight/backend/services/conversation/storage"
	convusecase "github.com/callsight/backend/services/conversation/usecase"
	"github.com/callsight/backend/services/pipeline"
	"github.com/callsight/backend/services/progress"
	transcriptionclient "github.com/callsight/backend/services/transcription/client"
	transcriptionusecase "github.com/callsight/backend/services/transcription/usecase"
)

func main() {
	log := logger.New(logger.Config{
		Level:      slog.LevelDebug,
		Output:     os.Stderr,
		AddSource:  true,
		JSONFormat: false,
	})

	cfg := config.MustLoad()

	ctx := logger.WithContext(context.Background(), log)

	rootCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(rootCtx, cfg, log); err != nil {
		log.Error("failed to run()", slog.String("error", err.Error()))
		return
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	store, err := newStorage(ctx, cfg)
	if err != nil {
		log.Error("failed to open conversation storage", slog.String("error", err.Error()))
		return err
	}
	defer store.Close()

	conversations := convusecase.New(store, gen.UUID())

	audio, err := audiousecase.New(cfg.UploadDir, gen.UUID())
	if err != nil {
		return err
	}

	asr := transcriptionclient.NewHTTP(cfg.AsrURL, 5*time.Minute)
	transcriber := transcriptionusecase.New(asr)

	analyzer := analysisusecase.New(
		diarization.NewClusterer(nil),
		classification.New(nil, nil),
	)

	tracker := progress.NewTracker(time.Duration(cfg.TaskTTLHours) * time.Hour)
	go tracker.Run(ctx, time.Hour)

	runner := pipeline.New(transcriber, analyzer, conversations, tracker)

	h := handler.New(cfg, conversations, audio, runner, tracker, log)

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.URLFormat)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Owner-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(apiRouter chi.Router) {
		apiRouter.Route("/conversations", func(convRouter chi.Router) {
			convRouter.Post("/", h.UploadHandler)
			convRouter.Get("/", h.SearchConversationsHandler)
			convRouter.Get("/stats", h.StatsHandler)
			convRouter.Get("/{id}", h.GetConversationHandler)
		})
		apiRouter.Route("/tasks", func(taskRouter chi.Router) {
			taskRouter.Get("/{id}", h.TaskProgressHandler)
		})
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.ListenAndServe()
	}()
	log.Info("web gateway started", slog.String("address", srv.Addr))

	select {
	case err := <-serverErrors:
		return fmt.Errorf("http server has closed: %w", err)
	case <-ctx.Done():
		log.Info("start shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// newStorage picks Postgres when DATABASE_URL is set, otherwise the
// embedded bbolt store.
func newStorage(ctx context.Context, cfg *config.Config) (convstorage.Storage, error) {
	if cfg.DatabaseURL != "" {
		return convstorage.NewPostgres(ctx, cfg.DatabaseURL)
	}
	return convstorage.NewBolt(cfg.BoltPath)
}
