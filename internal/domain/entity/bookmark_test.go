package entity

import (
	"errors"
	"strings"
	"testing"
)

func TestNewBookmarkFromArticle(t *testing.T) {
	article := &Article{
		Title:       "Title",
		Description: "Description",
		Content:     "Body",
		URL:         "https://example.tld/article",
		Image:       "https://example.tld/image.png",
		PublishedAt: "2024-05-01T10:00:00Z",
		Source:      Source{Name: "Example", URL: "https://example.tld"},
	}

	bookmark := NewBookmarkFromArticle(article, "A summary.")

	if bookmark.URL != article.URL {
		t.Errorf("expected URL '%s', got '%s'", article.URL, bookmark.URL)
	}
	if bookmark.ImageURL != article.Image {
		t.Errorf("expected image URL '%s', got '%s'", article.Image, bookmark.ImageURL)
	}
	if bookmark.SourceName != "Example" {
		t.Errorf("expected source name 'Example', got '%s'", bookmark.SourceName)
	}
	if bookmark.Summary != "A summary." {
		t.Errorf("expected summary 'A summary.', got '%s'", bookmark.Summary)
	}
}

func TestBookmarkedArticle_Validate(t *testing.T) {
	if err := (&BookmarkedArticle{URL: "https://example.tld"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (&BookmarkedArticle{}).Validate(); !errors.Is(err, ErrEmptyURL) {
		t.Errorf("expected ErrEmptyURL, got %v", err)
	}
	var nilBookmark *BookmarkedArticle
	if err := nilBookmark.Validate(); !errors.Is(err, ErrEmptyURL) {
		t.Errorf("expected ErrEmptyURL for nil record, got %v", err)
	}
}

func TestTopicForCategory(t *testing.T) {
	tests := []struct {
		category string
		expected string
	}{
		{"General", "world"},
		{"UK news", "nation"},
		{"Business", "business"},
		{"sports", "sports"},
		{"Entertainment", "entertainment"},
		{"TECHNOLOGY", "technology"},
		{"science", "science"},
		{"unknown-category", "nation"},
		{"", "nation"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			if got := TopicForCategory(tt.category); got != tt.expected {
				t.Errorf("expected topic '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

func TestSummaryPrompt(t *testing.T) {
	prompt := SummaryPrompt("Article body")

	if !strings.HasPrefix(prompt, "Summarize this article in 3–5 short sentences.") {
		t.Errorf("unexpected prompt prefix: %s", prompt)
	}
	if !strings.Contains(prompt, "'Summary not available'") {
		t.Errorf("expected prompt to mention the fallback, got: %s", prompt)
	}
	if !strings.HasSuffix(prompt, "\nArticle body") {
		t.Errorf("expected prompt to end with the article text, got: %s", prompt)
	}
}
