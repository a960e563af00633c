package rss

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/rss"

	"orangenews/internal/domain/entity"
	"orangenews/internal/domain/repository"
	"orangenews/internal/infrastructure/html"
)

const (
	DefaultBaseURL = "https://news.google.com"
	defaultTimeout = 30 * time.Second
	userAgent      = "OrangeNews/1.0"
)

type Config struct {
	BaseURL     string
	MaxArticles int
	Timeout     time.Duration
}

// headlineRepository はGoogle NewsのRSSフィードを読み込む実装。APIキーは不要
type headlineRepository struct {
	baseURL     string
	maxArticles int
	client      *http.Client
	parser      *rss.Parser
}

func NewHeadlineRepository(cfg Config) repository.HeadlineRepository {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &headlineRepository{
		baseURL:     baseURL,
		maxArticles: cfg.MaxArticles,
		client:      &http.Client{Timeout: timeout},
		parser:      &rss.Parser{},
	}
}

func (r *headlineRepository) TopHeadlines(ctx context.Context, req repository.HeadlineRequest) (*repository.HeadlineResult, error) {
	topic := strings.ToUpper(req.Topic)
	if topic == "" {
		topic = strings.ToUpper(entity.DefaultTopic)
	}
	return r.fetch(ctx, "/rss/headlines/section/topic/"+url.PathEscape(topic), localeParams(req))
}

func (r *headlineRepository) Search(ctx context.Context, req repository.HeadlineRequest) (*repository.HeadlineResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("search query is required")
	}
	params := localeParams(req)
	params.Set("q", req.Query)
	return r.fetch(ctx, "/rss/search", params)
}

// localeParams はGoogle Newsが版を選ぶためのhl/gl/ceidパラメータを組み立てます
func localeParams(req repository.HeadlineRequest) url.Values {
	country := strings.ToUpper(req.Country)
	if country == "" {
		country = "GB"
	}
	language := strings.ToLower(req.Language)
	if language == "" {
		language = "en"
	}

	params := url.Values{}
	params.Set("hl", language+"-"+country)
	params.Set("gl", country)
	params.Set("ceid", country+":"+language)
	return params
}

func (r *headlineRepository) fetch(ctx context.Context, path string, params url.Values) (*repository.HeadlineResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch RSS feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("RSS feed returned non-OK status: %d", resp.StatusCode)
	}

	feed, err := r.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSS feed: %w", err)
	}

	articles := make([]*entity.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}

		var source entity.Source
		if item.Source != nil {
			source = entity.Source{Name: item.Source.Title, URL: item.Source.URL}
		}

		var publishedAt string
		if item.PubDateParsed != nil {
			publishedAt = item.PubDateParsed.UTC().Format(time.RFC3339)
		}

		articles = append(articles, entity.NewArticle(
			item.Title,
			html.PlainText(item.Description),
			html.PlainText(item.Content),
			item.Link,
			enclosureImage(item),
			publishedAt,
			source,
		))

		if r.maxArticles > 0 && len(articles) == r.maxArticles {
			break
		}
	}

	return &repository.HeadlineResult{
		TotalArticles: len(feed.Items),
		Articles:      articles,
	}, nil
}

func enclosureImage(item *rss.Item) string {
	if item.Enclosure != nil && strings.HasPrefix(item.Enclosure.Type, "image/") {
		return item.Enclosure.URL
	}
	return ""
}
