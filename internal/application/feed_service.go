package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"orangenews/internal/domain/entity"
	"orangenews/internal/domain/repository"
	"orangenews/internal/observable"
)

// regionQualifier は検索語の末尾に付与し、英国の記事を優先させます
const regionQualifier = " UK"

const (
	defaultCountry  = "gb"
	defaultLanguage = "en"
)

type FeedConfig struct {
	Country  string
	Language string
}

// FeedService は表示中の記事一覧を管理するアプリケーションサービス。
// 取得に成功すると一覧全体を置き換え、失敗した場合は元の一覧を残す。
type FeedService struct {
	headlines   repository.HeadlineRepository
	preferences repository.PreferenceRepository
	summaries   *SummaryService
	country     string
	language    string
	logger      *slog.Logger

	articles *observable.Value[[]*entity.Article]
	pending  sync.WaitGroup
}

func NewFeedService(
	headlines repository.HeadlineRepository,
	preferences repository.PreferenceRepository,
	summaries *SummaryService,
	cfg FeedConfig,
	logger *slog.Logger,
) *FeedService {
	if logger == nil {
		logger = slog.Default()
	}
	country := strings.ToLower(strings.TrimSpace(cfg.Country))
	if country == "" {
		country = defaultCountry
	}
	language := strings.ToLower(strings.TrimSpace(cfg.Language))
	if language == "" {
		language = defaultLanguage
	}

	return &FeedService{
		headlines:   headlines,
		preferences: preferences,
		summaries:   summaries,
		country:     country,
		language:    language,
		logger:      logger,
		articles:    observable.NewValue([]*entity.Article{}),
	}
}

// FetchByCategory は "Business" や "UK news" などのカテゴリのトップニュースを取得します
func (s *FeedService) FetchByCategory(ctx context.Context, category string) error {
	topic := entity.TopicForCategory(category)
	result, err := s.headlines.TopHeadlines(ctx, repository.HeadlineRequest{
		Topic:    topic,
		Country:  s.country,
		Language: s.language,
	})
	if err != nil {
		s.logger.Error("failed to fetch headlines", "category", category, "topic", topic, "error", err)
		return fmt.Errorf("failed to fetch headlines for %q: %w", category, err)
	}

	s.replace(result.Articles)
	s.logger.Info("fetched headlines", "category", category, "topic", topic, "count", len(result.Articles))
	return nil
}

// FetchByQuery は地域の修飾語を付けてtextを検索します
func (s *FeedService) FetchByQuery(ctx context.Context, text string) error {
	query := text + regionQualifier
	result, err := s.headlines.Search(ctx, repository.HeadlineRequest{
		Query:    query,
		Country:  s.country,
		Language: s.language,
	})
	if err != nil {
		s.logger.Error("failed to search articles", "query", query, "error", err)
		return fmt.Errorf("failed to search articles for %q: %w", text, err)
	}

	s.replace(result.Articles)
	s.logger.Info("fetched search results", "query", query, "count", len(result.Articles))
	return nil
}

func (s *FeedService) FetchByCategoryAsync(ctx context.Context, category string) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		_ = s.FetchByCategory(ctx, category)
	}()
}

func (s *FeedService) FetchByQueryAsync(ctx context.Context, text string) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		_ = s.FetchByQuery(ctx, text)
	}()
}

// Wait はすべての非同期取得が終わるまで待ちます
func (s *FeedService) Wait() {
	s.pending.Wait()
}

// LoadDefaultCategory は保存済みのデフォルトカテゴリで一覧を取得し、そのカテゴリ名を返します
func (s *FeedService) LoadDefaultCategory(ctx context.Context) (string, error) {
	category, err := s.DefaultCategory(ctx)
	if err != nil {
		return "", err
	}
	return category, s.FetchByCategory(ctx, category)
}

// SetDefaultCategory はcategoryを保存し、そのカテゴリで一覧を取得し直します
func (s *FeedService) SetDefaultCategory(ctx context.Context, category string) error {
	if s.preferences == nil {
		return fmt.Errorf("preference store is not configured")
	}
	if err := s.preferences.SetDefaultCategory(ctx, category); err != nil {
		return fmt.Errorf("failed to save default category: %w", err)
	}
	return s.FetchByCategory(ctx, category)
}

// DefaultCategory は保存済みのデフォルトカテゴリ名を返します
func (s *FeedService) DefaultCategory(ctx context.Context) (string, error) {
	if s.preferences == nil {
		return entity.DefaultCategory, nil
	}
	category, err := s.preferences.DefaultCategory(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load default category: %w", err)
	}
	return category, nil
}

// Articles は最後に成功した取得結果を返します
func (s *FeedService) Articles() []*entity.Article {
	return s.articles.Load()
}

// Article は現在の一覧のindex番目の記事を返します
func (s *FeedService) Article(index int) (*entity.Article, error) {
	articles := s.articles.Load()
	if index < 0 || index >= len(articles) {
		return nil, fmt.Errorf("article index %d out of range (have %d)", index, len(articles))
	}
	return articles[index], nil
}

// FindByURL は現在の一覧からurlに一致する記事を探します
func (s *FeedService) FindByURL(url string) (*entity.Article, bool) {
	for _, article := range s.articles.Load() {
		if article.URL == url {
			return article, true
		}
	}
	return nil, false
}

// Subscribe は一覧が置き換わるたびに新しい一覧を流します。受け取ったスライスは変更しないこと
func (s *FeedService) Subscribe(ctx context.Context) <-chan []*entity.Article {
	return s.articles.Subscribe(ctx)
}

// Summarize は記事のメモ化された要約を返します
func (s *FeedService) Summarize(ctx context.Context, article *entity.Article) string {
	return s.summaries.GetOrGenerate(ctx, article.URL, article.SummarySource())
}

func (s *FeedService) SummarizeAsync(ctx context.Context, article *entity.Article) {
	s.summaries.GenerateAsync(ctx, article.URL, article.SummarySource())
}

func (s *FeedService) Summaries() *SummaryService {
	return s.summaries
}

func (s *FeedService) replace(articles []*entity.Article) {
	if articles == nil {
		articles = []*entity.Article{}
	}
	s.articles.Store(articles)
}
