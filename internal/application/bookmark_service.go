package application

import (
	"context"
	"fmt"
	"log/slog"

	"orangenews/internal/domain/entity"
	"orangenews/internal/domain/repository"
)

// BookmarkService はブックマークの保存・削除・監視を扱うアプリケーションサービス
type BookmarkService struct {
	repo      repository.BookmarkRepository
	summaries *SummaryService
	logger    *slog.Logger
}

func NewBookmarkService(repo repository.BookmarkRepository, summaries *SummaryService, logger *slog.Logger) *BookmarkService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookmarkService{
		repo:      repo,
		summaries: summaries,
		logger:    logger,
	}
}

// Bookmark は記事を要約のコピーとともに保存します。
// summaryが空の場合はキャッシュ済みの要約を使い、なければ記事本文から生成します(キャッシュには書き込まない)。
func (s *BookmarkService) Bookmark(ctx context.Context, article *entity.Article, summary string) (*entity.BookmarkedArticle, error) {
	if article == nil || article.URL == "" {
		return nil, entity.ErrEmptyURL
	}

	if summary == "" && s.summaries != nil {
		if cached, ok := s.summaries.Cached(article.URL); ok {
			summary = cached
		} else {
			summary = s.summaries.GenerateBlocking(ctx, article.SummarySource())
		}
	}

	bookmark := entity.NewBookmarkFromArticle(article, summary)
	if err := s.repo.Insert(ctx, bookmark); err != nil {
		return nil, fmt.Errorf("failed to save bookmark: %w", err)
	}

	s.logger.Info("bookmarked article", "url", bookmark.URL)
	return bookmark, nil
}

// Remove はurlのブックマークを削除します。未登録のURLはエラーにしない
func (s *BookmarkService) Remove(ctx context.Context, url string) error {
	if err := s.repo.Remove(ctx, &entity.BookmarkedArticle{URL: url}); err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	s.logger.Info("removed bookmark", "url", url)
	return nil
}

// Toggle は登録済みなら削除し、未登録なら保存します。戻り値は実行後に登録されているかどうか
func (s *BookmarkService) Toggle(ctx context.Context, article *entity.Article) (bool, error) {
	bookmarked, err := s.IsBookmarked(ctx, article.URL)
	if err != nil {
		return false, err
	}
	if bookmarked {
		return false, s.Remove(ctx, article.URL)
	}
	if _, err := s.Bookmark(ctx, article, ""); err != nil {
		return false, err
	}
	return true, nil
}

func (s *BookmarkService) IsBookmarked(ctx context.Context, url string) (bool, error) {
	bookmarks, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	for _, b := range bookmarks {
		if b.URL == url {
			return true, nil
		}
	}
	return false, nil
}

func (s *BookmarkService) List(ctx context.Context) ([]*entity.BookmarkedArticle, error) {
	bookmarks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return bookmarks, nil
}

// Observe は現在の一覧と、以後の変更ごとの一覧を流すチャネルを返します
func (s *BookmarkService) Observe(ctx context.Context) (<-chan []*entity.BookmarkedArticle, error) {
	ch, err := s.repo.Observe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to observe bookmarks: %w", err)
	}
	return ch, nil
}
