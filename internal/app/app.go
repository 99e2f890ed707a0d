package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"ConversationViewer/internal/config"
	"ConversationViewer/internal/domain"
	"ConversationViewer/internal/infrastructure/auth"
	"ConversationViewer/internal/infrastructure/feeds"
	"ConversationViewer/internal/infrastructure/httpapi"
	"ConversationViewer/internal/infrastructure/llm"
	"ConversationViewer/internal/infrastructure/storage"
	"ConversationViewer/internal/logging"
	"ConversationViewer/internal/ports"
	"ConversationViewer/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sql.DB
	store    ports.ConversationStore
	pipeline *usecase.Pipeline
	server   *httpapi.Server
}

// New builds every component; the caller must Close the application.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	reg, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("topic registry: %w", err)
	}

	a := &Application{cfg: cfg, logger: baseLogger}
	if err := a.openStore(ctx); err != nil {
		return nil, err
	}

	completer := llm.NewChatGPTClient(cfg.ChatGPT)
	fetcher := feeds.NewFetcher(&http.Client{}, feeds.Options{
		Timeout:   cfg.News.FetchTimeout.Std(),
		PerFeed:   cfg.News.ArticlesPerFeed,
		UserAgent: cfg.News.UserAgent,
	})

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Store:      a.store,
		Classifier: usecase.NewTopicClassifier(completer, reg, baseLogger.With("component", "classifier")),
		Candidates: usecase.NewAggregator(reg, fetcher, usecase.AggregatorOptions{
			Workers:       cfg.News.Workers,
			FeedsPerTopic: cfg.News.FeedsPerTopic,
			DedupeByURL:   cfg.News.DedupeByURL,
		}, baseLogger.With("component", "aggregator")),
		Selector: usecase.NewRelevanceSelector(completer, cfg.News.CandidateLimit, cfg.News.HeadlineLimit,
			baseLogger.With("component", "selector")),
		Logger: baseLogger.With("component", "pipeline"),
	})

	handler := httpapi.NewHandler(
		a.store,
		a.pipeline,
		usecase.NewNotes(a.store, completer, baseLogger.With("component", "notes")),
		usecase.NewOnboarding(a.store),
		baseLogger.With("component", "http"),
	)
	verifier := auth.NewJWTVerifier(cfg.Auth, baseLogger.With("component", "auth"))
	a.server = httpapi.NewServer(cfg.Server, handler, verifier, baseLogger.With("component", "http"))

	return a, nil
}

func (a *Application) openStore(ctx context.Context) error {
	switch a.cfg.Storage.Backend {
	case "", config.BackendFile:
		a.store = storage.NewFileStore(a.cfg.Storage.Dir)
		a.logger.Info("using file store", "dir", a.cfg.Storage.Dir)
	case config.BackendPostgres:
		db, err := storage.OpenPostgres(ctx, a.cfg.Storage.DSN)
		if err != nil {
			return err
		}
		pg := storage.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return err
		}
		a.db = db
		a.store = pg
		a.logger.Info("using postgres store")
	default:
		return fmt.Errorf("unknown storage backend %q", a.cfg.Storage.Backend)
	}
	return nil
}

// Serve runs the HTTP API until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Recommend runs the news pipeline once outside of HTTP.
func (a *Application) Recommend(ctx context.Context, userID, conversationID string) (domain.Recommendation, error) {
	return a.pipeline.Recommend(ctx, userID, conversationID)
}

// Close releases the database connection if one was opened.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
