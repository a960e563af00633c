package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go/auth/bearer"

	"orangenews/internal/domain/entity"
	"orangenews/internal/domain/repository"
)

// bedrockSummarizer はAmazon Bedrock Converse APIを使用した要約実装
type bedrockSummarizer struct {
	client       *bedrockruntime.Client
	modelID      string
	maxTokens    int32
	temperature  float32
	systemPrompt string
	timeout      time.Duration
}

const (
	bedrockDefaultMaxTokens   = int32(512)
	bedrockDefaultTemperature = float32(0.3)
)

func newBedrockSummarizer(ctx context.Context, cfg Config) (repository.SummarizerRepository, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("bedrock model ID is required")
	}
	bearerToken := cfg.APIKey
	if bearerToken == "" {
		return nil, fmt.Errorf("bedrock bearer token is required (set LLM_API_KEY)")
	}

	region := cfg.Region
	if region == "" {
		return nil, fmt.Errorf("bedrock region is required (set LLM_REGION)")
	}

	maxTokens := bedrockDefaultMaxTokens
	if cfg.MaxTokens > 0 {
		maxTokens = int32(cfg.MaxTokens)
	}

	temperature := bedrockDefaultTemperature
	if cfg.Temperature > 0 {
		temperature = float32(cfg.Temperature)
	}

	sdkConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithRetryMaxAttempts(1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	sdkConfig.BearerAuthTokenProvider = bearer.NewTokenCache(bearer.StaticTokenProvider{
		Token: bearer.Token{Value: bearerToken},
	})
	sdkConfig.AuthSchemePreference = []string{"httpBearerAuth"}

	var opts []func(*bedrockruntime.Options)
	if cfg.BaseURL != "" {
		opts = append(opts, func(o *bedrockruntime.Options) {
			o.BaseEndpoint = aws.String(cfg.BaseURL)
		})
	}
	client := bedrockruntime.NewFromConfig(sdkConfig, opts...)

	return &bedrockSummarizer{
		client:       client,
		modelID:      cfg.Model,
		maxTokens:    maxTokens,
		temperature:  temperature,
		systemPrompt: systemPrompt(cfg),
		timeout:      timeoutOrDefault(cfg.Timeout),
	}, nil
}

func (s *bedrockSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	input := s.buildConverseInput(entity.SummaryPrompt(text))
	resp, err := s.client.Converse(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to invoke bedrock model: %w", err)
	}

	summary, err := s.parseResponse(resp)
	if err != nil {
		return "", err
	}

	return summary, nil
}

func (s *bedrockSummarizer) IsEnabled() bool {
	return true
}

func (s *bedrockSummarizer) buildConverseInput(prompt string) *bedrockruntime.ConverseInput {
	topP := float32(0.9)

	return &bedrockruntime.ConverseInput{
		ModelId: aws.String(s.modelID),
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: prompt},
				},
			},
		},
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: s.systemPrompt},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(s.maxTokens),
			Temperature: aws.Float32(s.temperature),
			TopP:        aws.Float32(topP),
		},
	}
}

func (s *bedrockSummarizer) parseResponse(resp *bedrockruntime.ConverseOutput) (string, error) {
	messageOutput, ok := resp.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("unexpected bedrock response output type: %T", resp.Output)
	}

	if len(messageOutput.Value.Content) == 0 {
		return "", fmt.Errorf("no content in bedrock response")
	}

	var builder strings.Builder
	for _, block := range messageOutput.Value.Content {
		textBlock, ok := block.(*types.ContentBlockMemberText)
		if !ok {
			continue
		}
		text := strings.TrimSpace(textBlock.Value)
		if text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(text)
	}

	summary := strings.TrimSpace(builder.String())
	if summary == "" {
		return "", fmt.Errorf("empty summary in bedrock response")
	}
	return summary, nil
}
