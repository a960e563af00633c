package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"orangenews/internal/infrastructure/html"
)

const maxPageBytes = int64(2 * 1024 * 1024)

// ContentFetcher はWebページから記事本文を取得するインターフェース
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

type webScraper struct {
	client    *http.Client
	userAgent string
}

// NewContentFetcher は新しいContentFetcherを生成します
func NewContentFetcher(timeout time.Duration) ContentFetcher {
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &webScraper{
		client:    &http.Client{Timeout: timeout},
		userAgent: "OrangeNews/1.0",
	}
}

// FetchContent はURLから記事本文を取得し、空白を正規化して返します
func (s *webScraper) FetchContent(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	content := strings.Join(strings.Fields(extractMainContent(doc)), " ")
	if content == "" {
		return "", fmt.Errorf("no content found")
	}

	return html.Truncate(content), nil
}

// extractMainContent はHTMLドキュメントから本文らしい要素のテキストを抽出します
func extractMainContent(doc *goquery.Document) string {
	selectors := []string{
		"article",
		"main",
		"[itemprop=articleBody]",
		".article-body",
		".article-content",
		".story-body",
		".entry-content",
		"#content",
	}

	for _, selector := range selectors {
		selection := doc.Find(selector)
		if selection.Length() == 0 {
			continue
		}
		selection.Find("script, style, nav, header, footer, aside, figure, .ad, .advertisement").Remove()
		cleaned := strings.TrimSpace(selection.Text())
		// 短すぎる断片はナビゲーション等の可能性が高いので次のセレクタへ
		if len(cleaned) > 100 {
			return cleaned
		}
	}

	doc.Find("script, style, nav, header, footer, aside").Remove()
	return strings.TrimSpace(doc.Find("body").Text())
}
