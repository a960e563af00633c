package llm

import (
	"context"
	"errors"

	"orangenews/internal/domain/repository"
)

// ErrSummarizerDisabled は要約プロバイダが設定されていない場合に返されます
var ErrSummarizerDisabled = errors.New("summarizer is disabled")

// noopSummarizer は要約機能が無効の場合に使用される何もしない実装
type noopSummarizer struct{}

func newNoopSummarizer() repository.SummarizerRepository {
	return &noopSummarizer{}
}

func (s *noopSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	return "", ErrSummarizerDisabled
}

func (s *noopSummarizer) IsEnabled() bool {
	return false
}
