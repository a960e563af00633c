package entity

import "errors"

var ErrEmptyURL = errors.New("bookmark URL must not be empty")

// BookmarkedArticle は保存された記事を表すエンティティ。URLで一意になる。
// Summaryは保存時点のコピーで、要約キャッシュとは連動しない
type BookmarkedArticle struct {
	URL         string
	Title       string
	Description string
	ImageURL    string
	PublishedAt string
	SourceName  string
	Summary     string
}

func NewBookmarkFromArticle(article *Article, summary string) *BookmarkedArticle {
	return &BookmarkedArticle{
		URL:         article.URL,
		Title:       article.Title,
		Description: article.Description,
		ImageURL:    article.Image,
		PublishedAt: article.PublishedAt,
		SourceName:  article.Source.Name,
		Summary:     summary,
	}
}

func (b *BookmarkedArticle) Validate() error {
	if b == nil || b.URL == "" {
		return ErrEmptyURL
	}
	return nil
}
