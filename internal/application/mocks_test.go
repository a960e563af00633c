package application

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"orangenews/internal/domain/entity"
	"orangenews/internal/domain/repository"
)

type mockHeadlineRepository struct {
	mu       sync.Mutex
	articles []*entity.Article
	err      error
	requests []repository.HeadlineRequest
}

func (m *mockHeadlineRepository) TopHeadlines(ctx context.Context, req repository.HeadlineRequest) (*repository.HeadlineResult, error) {
	return m.respond(req)
}

func (m *mockHeadlineRepository) Search(ctx context.Context, req repository.HeadlineRequest) (*repository.HeadlineResult, error) {
	return m.respond(req)
}

func (m *mockHeadlineRepository) respond(req repository.HeadlineRequest) (*repository.HeadlineResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &repository.HeadlineResult{TotalArticles: len(m.articles), Articles: m.articles}, nil
}

func (m *mockHeadlineRepository) lastRequest() repository.HeadlineRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[len(m.requests)-1]
}

type mockSummarizer struct {
	summary string
	err     error
	enabled bool
	// releaseが設定されている場合、閉じられるまでSummarizeをブロックする
	release chan struct{}
	calls   atomic.Int32
	mu      sync.Mutex
	texts   []string
}

func newMockSummarizer(summary string) *mockSummarizer {
	return &mockSummarizer{summary: summary, enabled: true}
}

func (m *mockSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()

	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.err != nil {
		return "", m.err
	}
	return m.summary, nil
}

func (m *mockSummarizer) IsEnabled() bool {
	return m.enabled
}

func (m *mockSummarizer) lastText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.texts[len(m.texts)-1]
}

type mockContentFetcher struct {
	content string
	err     error
	urls    []string
}

func (m *mockContentFetcher) FetchContent(ctx context.Context, url string) (string, error) {
	m.urls = append(m.urls, url)
	if m.err != nil {
		return "", m.err
	}
	return m.content, nil
}

type mockPreferenceRepository struct {
	category string
	err      error
}

func (m *mockPreferenceRepository) DefaultCategory(ctx context.Context) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.category == "" {
		return entity.DefaultCategory, nil
	}
	return m.category, nil
}

func (m *mockPreferenceRepository) SetDefaultCategory(ctx context.Context, category string) error {
	if m.err != nil {
		return m.err
	}
	m.category = category
	return nil
}

func sampleArticles() []*entity.Article {
	return []*entity.Article{
		entity.NewArticle("Comet spotted - BBC News", "A bright comet", "Astronomers saw a comet... [900 chars]",
			"https://example.com/comet", "https://example.com/comet.jpg", "2024-05-01T10:00:00Z",
			entity.Source{Name: "BBC News", URL: "https://www.bbc.co.uk"}),
		entity.NewArticle("Crystal grown in lab", "", "", "https://example.com/crystal", "", "2024-05-01T11:00:00Z",
			entity.Source{Name: "The Guardian"}),
	}
}

// waitFor はcondが真になるまで最大1秒待ちます
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met within 1s")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
