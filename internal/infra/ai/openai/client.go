package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/ai"
	"github.com/bryanwahyu/secscan-dashboard/internal/domain/analysis"
	"github.com/bryanwahyu/secscan-dashboard/internal/infra/ai/prompt"
)

const (
	maxTokens    = 4000
	DefaultModel = "gpt-4o-mini"
)

type Client struct {
	*openai.Client
	Model string
}

// NewClient builds a chat client. baseURL may point at any
// OpenAI-compatible endpoint; empty keeps the default.
func NewClient(apiKey, model, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model}
}

func (c *Client) Analyze(ctx context.Context, code string) (analysis.AIReport, error) {
	req := openai.ChatCompletionRequest{
		Model: c.Model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.SystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.UserPrompt(code)},
		},
	}
	// reasoning models only accept MaxCompletionTokens
	if isReasoningModel(c.Model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && (apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.Code == "insufficient_quota") {
			return analysis.AIReport{}, fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
		}
		return analysis.AIReport{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return analysis.AIReport{}, fmt.Errorf("%w: no choices returned", ai.ErrBadResponse)
	}
	return prompt.ParseReport(resp.Choices[0].Message.Content)
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}
