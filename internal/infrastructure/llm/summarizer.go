package llm

import (
	"context"
	"fmt"
	"time"

	"orangenews/internal/domain/entity"
	"orangenews/internal/domain/repository"
)

// Config はLLM要約機能の設定
type Config struct {
	Provider          string        // "openai", "gemini", "bedrock", "noop" のいずれか (空ならnoop)
	APIKey            string        // LLM APIキー (bedrockの場合はベアラートークン)
	Model             string        // モデル名
	BaseURL           string        // APIのベースURL (テストやプロキシ用、空ならデフォルト)
	Region            string        // AWSリージョン (bedrockのみ)
	MaxTokens         int           // 最大出力トークン数 (0なら各プロバイダのデフォルト)
	Temperature       float64       // 0ならプロバイダごとのデフォルト
	SystemInstruction string        // カスタムシステムインストラクション
	Timeout           time.Duration // APIタイムアウト
}

// DefaultSystemPrompt はデフォルトのシステムインストラクション
const DefaultSystemPrompt = entity.SummarySystemPrompt

const defaultTimeout = 30 * time.Second

// NewSummarizerRepository はConfigに基づいてSummarizerRepositoryを生成します
func NewSummarizerRepository(ctx context.Context, cfg Config) (repository.SummarizerRepository, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAISummarizer(cfg)
	case "gemini":
		return newGeminiSummarizer(ctx, cfg)
	case "bedrock":
		return newBedrockSummarizer(ctx, cfg)
	case "noop", "":
		return newNoopSummarizer(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}

func systemPrompt(cfg Config) string {
	if cfg.SystemInstruction != "" {
		return cfg.SystemInstruction
	}
	return DefaultSystemPrompt
}

func timeoutOrDefault(timeout time.Duration) time.Duration {
	if timeout == 0 {
		return defaultTimeout
	}
	return timeout
}
