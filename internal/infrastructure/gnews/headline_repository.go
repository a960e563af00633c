package gnews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"orangenews/internal/domain/entity"
	"orangenews/internal/domain/repository"
)

const (
	DefaultBaseURL     = "https://gnews.io/api/v4"
	defaultMaxArticles = 10
	defaultTimeout     = 30 * time.Second
)

type Config struct {
	BaseURL           string
	APIKey            string
	MaxArticles       int
	RequestsPerSecond float64
	Timeout           time.Duration
}

type headlineRepository struct {
	baseURL     string
	apiKey      string
	maxArticles int
	client      *http.Client
	limiter     *rate.Limiter
}

type articleDTO struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	Image       string    `json:"image"`
	PublishedAt string    `json:"publishedAt"`
	Source      sourceDTO `json:"source"`
}

type sourceDTO struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type headlinesResponse struct {
	TotalArticles int          `json:"totalArticles"`
	Articles      []articleDTO `json:"articles"`
}

type errorResponse struct {
	Errors json.RawMessage `json:"errors"`
}

// NewHeadlineRepository はGNews v4 APIのクライアントを生成します。RequestsPerSecondが0以下ならレート制限しない
func NewHeadlineRepository(cfg Config) repository.HeadlineRepository {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	maxArticles := cfg.MaxArticles
	if maxArticles <= 0 {
		maxArticles = defaultMaxArticles
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &headlineRepository{
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		maxArticles: maxArticles,
		client:      &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(limit, 1),
	}
}

func (r *headlineRepository) TopHeadlines(ctx context.Context, req repository.HeadlineRequest) (*repository.HeadlineResult, error) {
	params := r.baseParams(req)
	if req.Topic != "" {
		params.Set("topic", req.Topic)
	}
	return r.get(ctx, "/top-headlines", params)
}

func (r *headlineRepository) Search(ctx context.Context, req repository.HeadlineRequest) (*repository.HeadlineResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("search query is required")
	}
	params := r.baseParams(req)
	params.Set("q", req.Query)
	return r.get(ctx, "/search", params)
}

func (r *headlineRepository) baseParams(req repository.HeadlineRequest) url.Values {
	params := url.Values{}
	if req.Country != "" {
		params.Set("country", req.Country)
	}
	if req.Language != "" {
		params.Set("lang", req.Language)
	}
	params.Set("max", strconv.Itoa(r.maxArticles))
	params.Set("apikey", r.apiKey)
	return params
}

func (r *headlineRepository) get(ctx context.Context, path string, params url.Values) (*repository.HeadlineResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to GNews API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if msg := errorMessage(body); msg != "" {
			return nil, fmt.Errorf("GNews API returned non-OK status: %d: %s", resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("GNews API returned non-OK status: %d", resp.StatusCode)
	}

	var payload headlinesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode GNews response: %w", err)
	}

	articles := make([]*entity.Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		articles = append(articles, entity.NewArticle(
			a.Title,
			a.Description,
			a.Content,
			a.URL,
			a.Image,
			a.PublishedAt,
			entity.Source{Name: a.Source.Name, URL: a.Source.URL},
		))
	}

	return &repository.HeadlineResult{
		TotalArticles: payload.TotalArticles,
		Articles:      articles,
	}, nil
}

// errorMessage はGNewsが配列またはオブジェクトで返す "errors" フィールドを1行にまとめます
func errorMessage(body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Errors) == 0 {
		return ""
	}

	var list []string
	if err := json.Unmarshal(resp.Errors, &list); err == nil {
		return strings.Join(list, "; ")
	}

	var keyed map[string]string
	if err := json.Unmarshal(resp.Errors, &keyed); err == nil {
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		msgs := make([]string, 0, len(keys))
		for _, k := range keys {
			msgs = append(msgs, k+": "+keyed[k])
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
