package storage

import (
	"context"
	"sync"

	"orangenews/internal/domain/entity"
	"orangenews/internal/domain/repository"
)

type memoryPreferenceRepository struct {
	mu       sync.RWMutex
	category string
}

func NewMemoryPreferenceRepository() repository.PreferenceRepository {
	return &memoryPreferenceRepository{category: entity.DefaultCategory}
}

func (r *memoryPreferenceRepository) DefaultCategory(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.category, nil
}

func (r *memoryPreferenceRepository) SetDefaultCategory(ctx context.Context, category string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.category = category
	return nil
}
