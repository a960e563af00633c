package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"orangenews/internal/domain/entity"
	"orangenews/internal/domain/repository"
)

const (
	openAIDefaultModel       = "gpt-4"
	openAIDefaultTemperature = 0.7
)

// openAISummarizer はOpenAI Chat Completions APIを使用した要約実装
type openAISummarizer struct {
	client       openai.Client
	model        string
	temperature  float64
	maxTokens    int
	systemPrompt string
}

func newOpenAISummarizer(cfg Config) (repository.SummarizerRepository, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = openAIDefaultModel
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = openAIDefaultTemperature
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: timeoutOrDefault(cfg.Timeout)}),
		// 失敗はフォールバック文で扱うため再試行しない
		option.WithMaxRetries(0),
	}
	if baseURL := openAIBaseURL(cfg.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &openAISummarizer{
		client:       openai.NewClient(opts...),
		model:        model,
		temperature:  temperature,
		maxTokens:    cfg.MaxTokens,
		systemPrompt: systemPrompt(cfg),
	}, nil
}

// openAIBaseURL はホスト名のみのURL(例: http://localhost:8080)にAPIのバージョンパスを付与します
func openAIBaseURL(base string) string {
	base = strings.TrimRight(base, "/")
	if base == "" {
		return ""
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/"
	}
	return base + "/v1/"
}

func (s *openAISummarizer) Summarize(ctx context.Context, text string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(s.systemPrompt),
			openai.UserMessage(entity.SummaryPrompt(text)),
		},
		Temperature: openai.Float(s.temperature),
	}
	if s.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(s.maxTokens))
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("OpenAI API returned status %d: %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("failed to call OpenAI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI API")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("empty summary returned from OpenAI API")
	}

	return summary, nil
}

func (s *openAISummarizer) IsEnabled() bool {
	return true
}
