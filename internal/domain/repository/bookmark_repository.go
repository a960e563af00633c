package repository

import (
	"context"

	"orangenews/internal/domain/entity"
)

type BookmarkRepository interface {
	// Insert は同じURLの既存レコードを置き換えます
	Insert(ctx context.Context, bookmark *entity.BookmarkedArticle) error
	// Remove はブックマークのURLに一致するレコードを削除します。未登録でもエラーにしない
	Remove(ctx context.Context, bookmark *entity.BookmarkedArticle) error
	List(ctx context.Context) ([]*entity.BookmarkedArticle, error)
	// Observe は現在の一覧を流し、ctxが終了するまで変更のたびに一覧を流します
	Observe(ctx context.Context) (<-chan []*entity.BookmarkedArticle, error)
}
