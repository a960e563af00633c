package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"orangenews/internal/domain/entity"
	"orangenews/internal/domain/repository"
	"orangenews/internal/observable"
)

// 他プロセスからの書き込みを検出する間隔のデフォルト値
const defaultChangePollInterval = 500 * time.Millisecond

type sqliteBookmarkRepository struct {
	db           *sql.DB
	pollInterval time.Duration
	logger       *slog.Logger

	// 書き込みとその後のスナップショット更新を直列化し、購読者に古いスナップショットが後から届かないようにする
	writeMu   sync.Mutex
	bookmarks *observable.Value[[]*entity.BookmarkedArticle]
}

// SQLiteBookmarkOption はsqliteBookmarkRepositoryの設定を変更します
type SQLiteBookmarkOption func(*sqliteBookmarkRepository)

// WithChangePollInterval は他の接続による変更を確認する間隔を設定します
func WithChangePollInterval(interval time.Duration) SQLiteBookmarkOption {
	return func(r *sqliteBookmarkRepository) {
		if interval > 0 {
			r.pollInterval = interval
		}
	}
}

// WithLogger はスナップショット更新失敗などを出力するロガーを設定します
func WithLogger(logger *slog.Logger) SQLiteBookmarkOption {
	return func(r *sqliteBookmarkRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewSQLiteBookmarkRepository(ctx context.Context, db *sql.DB, opts ...SQLiteBookmarkOption) (repository.BookmarkRepository, error) {
	r := &sqliteBookmarkRepository{
		db:           db,
		pollInterval: defaultChangePollInterval,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	current, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	r.bookmarks = observable.NewValue(current)

	return r, nil
}

// Insert は同じURLの既存レコードを置き換えます。
// 書き込みが成功した後のスナップショット更新失敗はエラーにせず、ログに残します。
func (r *sqliteBookmarkRepository) Insert(ctx context.Context, bookmark *entity.BookmarkedArticle) error {
	if err := bookmark.Validate(); err != nil {
		return err
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	_, err := r.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO bookmarked_articles
			(url, title, description, image_url, published_at, source_name, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		bookmark.URL,
		bookmark.Title,
		nullString(bookmark.Description),
		nullString(bookmark.ImageURL),
		bookmark.PublishedAt,
		bookmark.SourceName,
		nullString(bookmark.Summary),
	)
	if err != nil {
		return fmt.Errorf("failed to insert bookmark: %w", err)
	}

	r.refreshOrLog(ctx)
	return nil
}

func (r *sqliteBookmarkRepository) Remove(ctx context.Context, bookmark *entity.BookmarkedArticle) error {
	if bookmark == nil {
		return nil
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	result, err := r.db.ExecContext(ctx, "DELETE FROM bookmarked_articles WHERE url = ?", bookmark.URL)
	if err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if deleted == 0 {
		return nil
	}

	r.refreshOrLog(ctx)
	return nil
}

func (r *sqliteBookmarkRepository) List(ctx context.Context) ([]*entity.BookmarkedArticle, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT url, title, description, image_url, published_at, source_name, summary
		FROM bookmarked_articles`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := make([]*entity.BookmarkedArticle, 0)
	for rows.Next() {
		var (
			b                              entity.BookmarkedArticle
			description, imageURL, summary sql.NullString
		)
		if err := rows.Scan(&b.URL, &b.Title, &description, &imageURL, &b.PublishedAt, &b.SourceName, &summary); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		b.Description = description.String
		b.ImageURL = imageURL.String
		b.Summary = summary.String
		bookmarks = append(bookmarks, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookmarks: %w", err)
	}

	return bookmarks, nil
}

// Observe は現在のブックマーク一覧を流し、以後の変更を通知します。
// 同じDBファイルを開いている別プロセスの書き込みもctxが終了するまで検出します。
func (r *sqliteBookmarkRepository) Observe(ctx context.Context) (<-chan []*entity.BookmarkedArticle, error) {
	version, err := r.dataVersion(ctx)
	if err != nil {
		return nil, err
	}

	r.writeMu.Lock()
	err = r.refresh(ctx)
	r.writeMu.Unlock()
	if err != nil {
		return nil, err
	}

	updates := r.bookmarks.Subscribe(ctx)
	go r.watchExternalWrites(ctx, version)
	return updates, nil
}

// watchExternalWrites はPRAGMA data_versionを監視し、他の接続がコミットしたらスナップショットを読み直します。
// 接続プールは1接続に制限しているため、このリポジトリ自身の書き込みではdata_versionは変化しない。
func (r *sqliteBookmarkRepository) watchExternalWrites(ctx context.Context, last int64) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		version, err := r.dataVersion(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.logger.Warn("failed to read sqlite data_version", "error", err)
			continue
		}
		if version == last {
			continue
		}
		last = version

		r.writeMu.Lock()
		r.refreshOrLog(ctx)
		r.writeMu.Unlock()
	}
}

func (r *sqliteBookmarkRepository) dataVersion(ctx context.Context) (int64, error) {
	var version int64
	if err := r.db.QueryRowContext(ctx, "PRAGMA data_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read data_version: %w", err)
	}
	return version, nil
}

// refresh はwriteMuを保持した状態で呼び出すこと
func (r *sqliteBookmarkRepository) refresh(ctx context.Context) error {
	current, err := r.List(ctx)
	if err != nil {
		return err
	}
	r.bookmarks.Store(current)
	return nil
}

func (r *sqliteBookmarkRepository) refreshOrLog(ctx context.Context) {
	if err := r.refresh(ctx); err != nil {
		r.logger.Warn("bookmark saved but snapshot refresh failed", "error", err)
	}
}
