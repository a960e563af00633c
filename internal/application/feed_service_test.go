package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"orangenews/internal/domain/entity"
)

func newTestFeedService(headlines *mockHeadlineRepository, prefs *mockPreferenceRepository) *FeedService {
	summaries := NewSummaryService(newMockSummarizer("summary"), nil)
	if prefs == nil {
		return NewFeedService(headlines, nil, summaries, FeedConfig{}, nil)
	}
	return NewFeedService(headlines, prefs, summaries, FeedConfig{}, nil)
}

func mustFetchCategory(t *testing.T, service *FeedService, category string) {
	t.Helper()
	if err := service.FetchByCategory(context.Background(), category); err != nil {
		t.Fatalf("FetchByCategory(%q) failed: %v", category, err)
	}
}

func TestFeedService_FetchByCategory_TopicMapping(t *testing.T) {
	testCases := []struct {
		category  string
		wantTopic string
	}{
		{category: "Business", wantTopic: "business"},
		{category: "UK news", wantTopic: "nation"},
		{category: "General", wantTopic: "world"},
		{category: "science", wantTopic: "science"},
		{category: "unknown-category", wantTopic: "nation"},
	}

	for _, tc := range testCases {
		t.Run(tc.category, func(t *testing.T) {
			headlines := &mockHeadlineRepository{articles: sampleArticles()}
			service := newTestFeedService(headlines, nil)

			mustFetchCategory(t, service, tc.category)

			req := headlines.lastRequest()
			if req.Topic != tc.wantTopic {
				t.Errorf("expected topic %q, got %q", tc.wantTopic, req.Topic)
			}
			if req.Country != "gb" || req.Language != "en" {
				t.Errorf("expected gb/en locale, got %s/%s", req.Country, req.Language)
			}
		})
	}
}

func TestFeedService_FetchByCategory_ReplacesList(t *testing.T) {
	headlines := &mockHeadlineRepository{articles: sampleArticles()}
	service := newTestFeedService(headlines, nil)

	mustFetchCategory(t, service, "science")
	if got := service.Articles(); len(got) != 2 || got[0].Title != "Comet spotted" {
		t.Fatalf("unexpected first list %+v", got)
	}

	headlines.articles = sampleArticles()[1:]
	mustFetchCategory(t, service, "science")
	if got := service.Articles(); len(got) != 1 || got[0].URL != "https://example.com/crystal" {
		t.Fatalf("expected list to be replaced, got %+v", got)
	}

	headlines.articles = nil
	mustFetchCategory(t, service, "science")
	if got := service.Articles(); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
}

func TestFeedService_FetchFailureKeepsList(t *testing.T) {
	headlines := &mockHeadlineRepository{articles: sampleArticles()}
	service := newTestFeedService(headlines, nil)
	ctx := context.Background()

	mustFetchCategory(t, service, "business")
	before := service.Articles()

	headlines.err = errors.New("503 service unavailable")
	if err := service.FetchByCategory(ctx, "sports"); err == nil {
		t.Error("expected category fetch error, got nil")
	}
	if err := service.FetchByQuery(ctx, "election"); err == nil {
		t.Error("expected query fetch error, got nil")
	}

	after := service.Articles()
	if len(after) != len(before) || after[0] != before[0] {
		t.Errorf("expected list to be kept after failure, got %+v", after)
	}
}

func TestFeedService_FetchByQuery_AppendsRegion(t *testing.T) {
	headlines := &mockHeadlineRepository{articles: sampleArticles()}
	service := newTestFeedService(headlines, nil)

	if err := service.FetchByQuery(context.Background(), "energy prices"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q := headlines.lastRequest().Query; q != "energy prices UK" {
		t.Errorf("expected region qualifier, got %q", q)
	}
	if n := len(service.Articles()); n != 2 {
		t.Errorf("expected 2 articles, got %d", n)
	}
}

func TestFeedService_CustomLocale(t *testing.T) {
	headlines := &mockHeadlineRepository{}
	service := NewFeedService(headlines, nil, NewSummaryService(nil, nil), FeedConfig{Country: " IE", Language: "GA"}, nil)

	mustFetchCategory(t, service, "general")

	req := headlines.lastRequest()
	if req.Country != "ie" || req.Language != "ga" {
		t.Errorf("expected normalised ie/ga locale, got %s/%s", req.Country, req.Language)
	}
}

func TestFeedService_Subscribe(t *testing.T) {
	headlines := &mockHeadlineRepository{articles: sampleArticles()}
	service := newTestFeedService(headlines, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := service.Subscribe(ctx)
	if initial := <-updates; len(initial) != 0 {
		t.Fatalf("expected empty initial list, got %d", len(initial))
	}

	service.FetchByCategoryAsync(ctx, "technology")

	select {
	case got := <-updates:
		if len(got) != 2 {
			t.Errorf("expected 2 articles, got %d", len(got))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for list update")
	}
	service.Wait()
}

func TestFeedService_FetchByQueryAsync(t *testing.T) {
	headlines := &mockHeadlineRepository{articles: sampleArticles()}
	service := newTestFeedService(headlines, nil)

	service.FetchByQueryAsync(context.Background(), "floods")
	service.Wait()

	if q := headlines.lastRequest().Query; q != "floods UK" {
		t.Errorf("expected region qualifier, got %q", q)
	}
	if n := len(service.Articles()); n != 2 {
		t.Errorf("expected 2 articles, got %d", n)
	}
}

func TestFeedService_DefaultCategory(t *testing.T) {
	headlines := &mockHeadlineRepository{articles: sampleArticles()}
	prefs := &mockPreferenceRepository{}
	service := newTestFeedService(headlines, prefs)
	ctx := context.Background()

	category, err := service.LoadDefaultCategory(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if category != entity.DefaultCategory {
		t.Errorf("expected %q, got %q", entity.DefaultCategory, category)
	}
	if topic := headlines.lastRequest().Topic; topic != "world" {
		t.Errorf("expected default category to map to world, got %q", topic)
	}

	if err := service.SetDefaultCategory(ctx, "Sports"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prefs.category != "Sports" {
		t.Errorf("expected saved category Sports, got %q", prefs.category)
	}
	if topic := headlines.lastRequest().Topic; topic != "sports" {
		t.Errorf("expected refetch for sports, got %q", topic)
	}

	category, err = service.LoadDefaultCategory(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if category != "Sports" {
		t.Errorf("expected Sports, got %q", category)
	}
}

func TestFeedService_DefaultCategory_StoreError(t *testing.T) {
	headlines := &mockHeadlineRepository{}
	prefs := &mockPreferenceRepository{err: errors.New("disk full")}
	service := newTestFeedService(headlines, prefs)

	if _, err := service.LoadDefaultCategory(context.Background()); err == nil {
		t.Error("expected load error, got nil")
	}
	if err := service.SetDefaultCategory(context.Background(), "business"); err == nil {
		t.Error("expected save error, got nil")
	}
	if n := len(headlines.requests); n != 0 {
		t.Errorf("expected no fetch after store errors, got %d", n)
	}
}

func TestFeedService_ArticleLookup(t *testing.T) {
	headlines := &mockHeadlineRepository{articles: sampleArticles()}
	service := newTestFeedService(headlines, nil)
	mustFetchCategory(t, service, "science")

	article, err := service.Article(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.URL != "https://example.com/crystal" {
		t.Errorf("unexpected article %s", article.URL)
	}

	if _, err := service.Article(2); err == nil {
		t.Error("expected out of range error, got nil")
	}

	found, ok := service.FindByURL("https://example.com/comet")
	if !ok || found.Title != "Comet spotted" {
		t.Errorf("expected comet article, got %+v (ok=%v)", found, ok)
	}
	if _, ok := service.FindByURL("https://example.com/missing"); ok {
		t.Error("expected missing URL not to be found")
	}
}

func TestFeedService_SummarizeUsesSummarySource(t *testing.T) {
	summarizer := newMockSummarizer("It rained.")
	headlines := &mockHeadlineRepository{articles: sampleArticles()}
	service := NewFeedService(headlines, nil, NewSummaryService(summarizer, nil), FeedConfig{}, nil)
	mustFetchCategory(t, service, "science")

	crystal := service.Articles()[1]
	if got := service.Summarize(context.Background(), crystal); got != "It rained." {
		t.Errorf("unexpected summary %q", got)
	}
	if got := summarizer.lastText(); got != "Crystal grown in lab" {
		t.Errorf("expected title as summary source, got %q", got)
	}

	service.SummarizeAsync(context.Background(), crystal)
	service.Summaries().Wait()
	if calls := summarizer.calls.Load(); calls != 1 {
		t.Errorf("expected 1 provider call, got %d", calls)
	}
}
