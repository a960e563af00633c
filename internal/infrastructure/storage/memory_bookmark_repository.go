package storage

import (
	"context"
	"sync"

	"orangenews/internal/domain/entity"
	"orangenews/internal/domain/repository"
	"orangenews/internal/observable"
)

// memoryBookmarkRepository はプロセスの生存期間中だけブックマークを保持する実装
type memoryBookmarkRepository struct {
	mu        sync.Mutex
	byURL     map[string]*entity.BookmarkedArticle
	bookmarks *observable.Value[[]*entity.BookmarkedArticle]
}

func NewMemoryBookmarkRepository() repository.BookmarkRepository {
	return &memoryBookmarkRepository{
		byURL:     make(map[string]*entity.BookmarkedArticle),
		bookmarks: observable.NewValue([]*entity.BookmarkedArticle{}),
	}
}

func (r *memoryBookmarkRepository) Insert(ctx context.Context, bookmark *entity.BookmarkedArticle) error {
	if err := bookmark.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *bookmark
	r.byURL[bookmark.URL] = &stored
	r.publish()
	return nil
}

func (r *memoryBookmarkRepository) Remove(ctx context.Context, bookmark *entity.BookmarkedArticle) error {
	if bookmark == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byURL[bookmark.URL]; !ok {
		return nil
	}
	delete(r.byURL, bookmark.URL)
	r.publish()
	return nil
}

func (r *memoryBookmarkRepository) List(ctx context.Context) ([]*entity.BookmarkedArticle, error) {
	return r.bookmarks.Load(), nil
}

func (r *memoryBookmarkRepository) Observe(ctx context.Context) (<-chan []*entity.BookmarkedArticle, error) {
	return r.bookmarks.Subscribe(ctx), nil
}

// publish はmuを保持した状態で呼び出すこと
func (r *memoryBookmarkRepository) publish() {
	snapshot := make([]*entity.BookmarkedArticle, 0, len(r.byURL))
	for _, b := range r.byURL {
		copied := *b
		snapshot = append(snapshot, &copied)
	}
	r.bookmarks.Store(snapshot)
}
