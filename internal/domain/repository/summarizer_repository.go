package repository

import "context"

// SummarizerRepository はテキストの要約機能を提供するインターフェース
type SummarizerRepository interface {
	// Summarize は記事本文を要約します。失敗時はエラーを返し、フォールバックは呼び出し側が決めます。
	Summarize(ctx context.Context, text string) (string, error)

	// IsEnabled は要約機能が有効かどうかを返します
	IsEnabled() bool
}
