package repository

import (
	"context"

	"orangenews/internal/domain/entity"
)

// HeadlineRequest はプロバイダへのリクエストパラメータ。
// TopicはTopHeadlinesで、QueryはSearchで使用する
type HeadlineRequest struct {
	Topic    string
	Query    string
	Country  string
	Language string
}

type HeadlineResult struct {
	TotalArticles int
	Articles      []*entity.Article
}

type HeadlineRepository interface {
	TopHeadlines(ctx context.Context, req HeadlineRequest) (*HeadlineResult, error)
	Search(ctx context.Context, req HeadlineRequest) (*HeadlineResult, error)
}
