package repository

import "context"

type PreferenceRepository interface {
	DefaultCategory(ctx context.Context) (string, error)
	SetDefaultCategory(ctx context.Context, category string) error
}
