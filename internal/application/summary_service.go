package application

import (
	"context"
	"log/slog"
	"maps"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"orangenews/internal/domain/entity"
	"orangenews/internal/domain/repository"
	"orangenews/internal/infrastructure/scraper"
	"orangenews/internal/observable"
)

// truncatedContent はGNewsが短縮した本文の末尾 "... [1234 chars]" にマッチします
var truncatedContent = regexp.MustCompile(`\[\+?\d+ chars\]\s*$`)

// SummaryService は記事の要約をURLごとにプロセスの生存期間中メモ化します。
// エントリは一度だけ書き込まれ、失効しない。フォールバック文もキャッシュされる。
type SummaryService struct {
	summarizer    repository.SummarizerRepository
	fetcher       scraper.ContentFetcher
	fetchFullText bool
	logger        *slog.Logger

	cache   *observable.Value[map[string]string]
	group   singleflight.Group
	pending sync.WaitGroup
}

type SummaryOption func(*SummaryService)

// WithFullTextFetch は本文が途中で切れている場合に記事ページから全文を取得するようにします
func WithFullTextFetch(fetcher scraper.ContentFetcher) SummaryOption {
	return func(s *SummaryService) {
		s.fetcher = fetcher
		s.fetchFullText = fetcher != nil
	}
}

func NewSummaryService(summarizer repository.SummarizerRepository, logger *slog.Logger, opts ...SummaryOption) *SummaryService {
	if logger == nil {
		logger = slog.Default()
	}

	s := &SummaryService{
		summarizer: summarizer,
		logger:     logger,
		cache:      observable.NewValue(map[string]string{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrGenerate はurlのキャッシュ済み要約を返し、なければプロバイダに一度だけ問い合わせて結果をキャッシュします。
// 同じurlへの同時呼び出しは1回のリクエストを共有する。共有リクエストは呼び出し元のキャンセルから切り離して実行し、
// キャンセルした呼び出し元にはキャッシュしないフォールバック文を返す。
func (s *SummaryService) GetOrGenerate(ctx context.Context, url, text string) string {
	if summary, ok := s.Cached(url); ok {
		return summary
	}

	flightCtx := context.WithoutCancel(ctx)
	results := s.group.DoChan(url, func() (interface{}, error) {
		if summary, ok := s.Cached(url); ok {
			return summary, nil
		}
		return s.store(url, s.generate(flightCtx, s.enrich(flightCtx, url, text))), nil
	})

	select {
	case res := <-results:
		return res.Val.(string)
	case <-ctx.Done():
		s.logger.Debug("summary request cancelled", "url", url, "error", ctx.Err())
		return entity.SummaryUnavailable
	}
}

// GenerateAsync はGetOrGenerateをバックグラウンドで実行します。結果はSubscribeで受け取る
func (s *SummaryService) GenerateAsync(ctx context.Context, url, text string) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.GetOrGenerate(ctx, url, text)
	}()
}

// GenerateBlocking はキャッシュを読み書きせずにtextを要約します
func (s *SummaryService) GenerateBlocking(ctx context.Context, text string) string {
	return s.generate(ctx, text)
}

func (s *SummaryService) Cached(url string) (string, bool) {
	summary, ok := s.cache.Load()[url]
	return summary, ok
}

// Summaries はURLから要約へのマップのコピーを返します
func (s *SummaryService) Summaries() map[string]string {
	return maps.Clone(s.cache.Load())
}

// Subscribe はURLから要約へのマップを流します。受け取ったマップは変更しないこと
func (s *SummaryService) Subscribe(ctx context.Context) <-chan map[string]string {
	return s.cache.Subscribe(ctx)
}

// Wait はすべてのGenerateAsyncが終わるまで待ちます
func (s *SummaryService) Wait() {
	s.pending.Wait()
}

// store は最初に書き込まれた値を優先し、キャッシュに残った要約を返します
func (s *SummaryService) store(url, summary string) string {
	stored := s.cache.Update(func(current map[string]string) map[string]string {
		if _, exists := current[url]; exists {
			return current
		}
		next := maps.Clone(current)
		next[url] = summary
		return next
	})
	return stored[url]
}

func (s *SummaryService) generate(ctx context.Context, text string) string {
	if s.summarizer == nil || !s.summarizer.IsEnabled() {
		return entity.SummaryUnavailable
	}

	summary, err := s.summarizer.Summarize(ctx, text)
	if err != nil {
		s.logger.Warn("failed to generate summary", "error", err)
		return entity.SummaryUnavailable
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		s.logger.Warn("summary provider returned empty text")
		return entity.SummaryUnavailable
	}
	return summary
}

func (s *SummaryService) enrich(ctx context.Context, url, text string) string {
	if !s.fetchFullText || url == "" || !truncatedContent.MatchString(text) {
		return text
	}

	content, err := s.fetcher.FetchContent(ctx, url)
	if err != nil {
		s.logger.Warn("failed to fetch full article text", "url", url, "error", err)
		return text
	}
	return content
}
