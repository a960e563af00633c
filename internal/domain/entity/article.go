package entity

import (
	"regexp"
	"strings"
)

// NoTitle は整形後に空になった見出しの代わりに使います
const NoTitle = "No Title"

// headlineSuffix はニュースAPIが見出しの末尾に付ける " - 配信元" や " | 配信元" にマッチします
var headlineSuffix = regexp.MustCompile(` [-|] .*`)

type Source struct {
	Name string
	URL  string
}

// Article はプロバイダから取得した記事を表すエンティティ。直接永続化はしない。
// プロバイダが返さなかった項目は空文字になる
type Article struct {
	Title       string
	Description string
	Content     string
	URL         string
	Image       string
	PublishedAt string
	Source      Source
}

func NewArticle(title, description, content, url, image, publishedAt string, source Source) *Article {
	return &Article{
		Title:       CleanTitle(title),
		Description: description,
		Content:     content,
		URL:         url,
		Image:       image,
		PublishedAt: publishedAt,
		Source:      source,
	}
}

// CleanTitle は最初の " - " または " | " 以降を取り除いた見出しを返します
func CleanTitle(title string) string {
	cleaned := strings.TrimSpace(headlineSuffix.ReplaceAllString(title, ""))
	if cleaned == "" {
		return NoTitle
	}
	return cleaned
}

// SummarySource は要約に使うテキストを返します。
// 本文、説明文、見出しの順に空でないものを使う
func (a *Article) SummarySource() string {
	if a.Content != "" {
		return a.Content
	}
	if a.Description != "" {
		return a.Description
	}
	return a.Title
}
