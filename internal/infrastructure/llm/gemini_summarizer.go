package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"orangenews/internal/domain/entity"
	"orangenews/internal/domain/repository"
)

const (
	geminiDefaultModel       = "gemini-2.0-flash" // コスト効率の良いデフォルト
	geminiDefaultTemperature = float32(0.3)
)

// geminiSummarizer はGoogle Gemini API (genai SDK) を使用した要約実装
type geminiSummarizer struct {
	client       *genai.Client
	model        string
	maxTokens    *int32
	temperature  float32
	systemPrompt string
	timeout      time.Duration
}

func newGeminiSummarizer(ctx context.Context, cfg Config) (repository.SummarizerRepository, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = geminiDefaultModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	var maxTokens *int32
	if cfg.MaxTokens > 0 {
		tokens := int32(cfg.MaxTokens)
		maxTokens = &tokens
	}

	temperature := geminiDefaultTemperature
	if cfg.Temperature > 0 {
		temperature = float32(cfg.Temperature)
	}

	return &geminiSummarizer{
		client:       client,
		model:        model,
		maxTokens:    maxTokens,
		temperature:  temperature,
		systemPrompt: systemPrompt(cfg),
		timeout:      timeoutOrDefault(cfg.Timeout),
	}, nil
}

func (s *geminiSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(entity.SummaryPrompt(text)), s.generateConfig())
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}

	summary := strings.TrimSpace(resp.Text())
	if summary == "" {
		return "", fmt.Errorf("no summary returned from Gemini API")
	}

	return summary, nil
}

func (s *geminiSummarizer) generateConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(s.systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(s.temperature),
	}
	if s.maxTokens != nil {
		cfg.MaxOutputTokens = *s.maxTokens
	}
	return cfg
}

func (s *geminiSummarizer) IsEnabled() bool {
	return true
}
