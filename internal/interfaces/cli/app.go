package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"orangenews/internal/application"
	"orangenews/internal/domain/repository"
	"orangenews/internal/infrastructure/gnews"
	"orangenews/internal/infrastructure/llm"
	"orangenews/internal/infrastructure/rss"
	"orangenews/internal/infrastructure/scraper"
	"orangenews/internal/infrastructure/storage"
	"orangenews/internal/interfaces/config"
)

// App は1回のコマンド実行で使うサービスをまとめたもの
type App struct {
	Config    *config.Config
	Feed      *application.FeedService
	Summaries *application.SummaryService
	Bookmarks *application.BookmarkService
	Fetcher   scraper.ContentFetcher
	Logger    *slog.Logger

	db *sql.DB
}

func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	bookmarkRepo, prefRepo, db, err := newStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	llmCfg := cfg.GetLLMConfig()
	summarizer, err := llm.NewSummarizerRepository(ctx, llm.Config{
		Provider:    llmCfg.Provider,
		APIKey:      llmCfg.APIKey,
		Model:       llmCfg.Model,
		BaseURL:     llmCfg.BaseURL,
		Region:      llmCfg.Region,
		MaxTokens:   llmCfg.MaxTokens,
		Temperature: llmCfg.Temperature,
		Timeout:     llmCfg.Timeout,
	})
	if err != nil {
		logger.Warn("LLM summarizer initialization failed, continuing without summaries", "error", err)
		summarizer, _ = llm.NewSummarizerRepository(ctx, llm.Config{Provider: "noop"})
	}

	fetcher := scraper.NewContentFetcher(llmCfg.Timeout)
	var opts []application.SummaryOption
	if cfg.SummaryFetchFullText {
		opts = append(opts, application.WithFullTextFetch(fetcher))
	}
	summaries := application.NewSummaryService(summarizer, logger, opts...)

	feed := application.NewFeedService(
		newHeadlineRepository(cfg),
		prefRepo,
		summaries,
		application.FeedConfig{Country: cfg.NewsCountry, Language: cfg.NewsLanguage},
		logger,
	)

	return &App{
		Config:    cfg,
		Feed:      feed,
		Summaries: summaries,
		Bookmarks: application.NewBookmarkService(bookmarkRepo, summaries, logger),
		Fetcher:   fetcher,
		Logger:    logger,
		db:        db,
	}, nil
}

// Close はバックグラウンドの要約が終わるのを待ち、データベースを閉じます
func (a *App) Close() error {
	a.Feed.Wait()
	a.Summaries.Wait()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func newStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.BookmarkRepository, repository.PreferenceRepository, *sql.DB, error) {
	if cfg.StorageDriver == config.StorageMemory {
		return storage.NewMemoryBookmarkRepository(), storage.NewMemoryPreferenceRepository(), nil, nil
	}

	db, err := storage.OpenSQLite(ctx, cfg.GetBookmarkDBPath())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open bookmark database: %w", err)
	}

	bookmarks, err := storage.NewSQLiteBookmarkRepository(ctx, db, storage.WithLogger(logger))
	if err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}

	return bookmarks, storage.NewSQLitePreferenceRepository(db), db, nil
}

func newHeadlineRepository(cfg *config.Config) repository.HeadlineRepository {
	if cfg.NewsProvider == config.NewsProviderRSS {
		return rss.NewHeadlineRepository(rss.Config{
			BaseURL:     cfg.RSSBaseURL,
			MaxArticles: cfg.NewsMaxArticles,
		})
	}
	return gnews.NewHeadlineRepository(gnews.Config{
		BaseURL:           cfg.GNewsBaseURL,
		APIKey:            cfg.GNewsAPIKey,
		MaxArticles:       cfg.NewsMaxArticles,
		RequestsPerSecond: cfg.NewsRateLimit,
	})
}
