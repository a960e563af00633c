package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"orangenews/internal/domain/entity"
	"orangenews/internal/domain/repository"
)

const defaultCategoryKey = "default_category"

type sqlitePreferenceRepository struct {
	db *sql.DB
}

func NewSQLitePreferenceRepository(db *sql.DB) repository.PreferenceRepository {
	return &sqlitePreferenceRepository{db: db}
}

func (r *sqlitePreferenceRepository) DefaultCategory(ctx context.Context) (string, error) {
	var category string
	err := r.db.QueryRowContext(
		ctx,
		"SELECT value FROM preferences WHERE key = ?",
		defaultCategoryKey,
	).Scan(&category)

	if errors.Is(err, sql.ErrNoRows) {
		return entity.DefaultCategory, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get default category: %w", err)
	}

	return category, nil
}

func (r *sqlitePreferenceRepository) SetDefaultCategory(ctx context.Context, category string) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		defaultCategoryKey,
		category,
	)
	if err != nil {
		return fmt.Errorf("failed to save default category: %w", err)
	}

	return nil
}
