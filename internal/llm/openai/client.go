package openai

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/phanicodella/talentsync/internal/config"
	"github.com/phanicodella/talentsync/internal/llm"
	"github.com/phanicodella/talentsync/internal/models"
	"github.com/phanicodella/talentsync/internal/prompts"
	"github.com/phanicodella/talentsync/internal/retry"
	"github.com/phanicodella/talentsync/internal/utils"
)

func init() {
	llm.RegisterProvider("openai", func(cfg *config.Config) (llm.Provider, error) {
		promptManager, err := prompts.NewManager()
		if err != nil {
			return nil, err
		}
		return NewClient(cfg.OpenAI, promptManager), nil
	})
}

// Client evaluates interview answers through the OpenAI chat-completions
// API. Every call runs inside a bounded retry loop; once retries are
// exhausted the error is returned as-is and the caller decides what a usable
// substitute looks like.
type Client struct {
	api         completionAPI
	model       string
	maxTokens   int
	temperature float32
	prompts     prompts.PromptProvider
	policy      retry.Policy
}

// completionAPI is the slice of the OpenAI client the provider needs;
// tests substitute it.
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

func NewClient(cfg config.OpenAIConfig, promptManager prompts.PromptProvider) *Client {
	return &Client{
		api:         openai.NewClient(cfg.APIKey),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		prompts:     promptManager,
		policy: retry.Policy{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			Retryable:   retryableCompletionError,
		},
	}
}

// SetCompletionAPI swaps the underlying API client, typically for tests.
func (c *Client) SetCompletionAPI(api completionAPI) { c.api = api }

// SetRetryPolicy replaces the default policy.
func (c *Client) SetRetryPolicy(p retry.Policy) {
	if p.Retryable == nil {
		p.Retryable = retryableCompletionError
	}
	c.policy = p
}

func (c *Client) GetProviderName() string { return "openai" }

type scorePayload struct {
	Clarity    *float64 `json:"clarity"`
	Relevance  *float64 `json:"relevance"`
	Confidence *float64 `json:"confidence"`
	Analysis   string   `json:"analysis"`
}

// ScoreAnswer asks the model for a clarity/relevance/confidence triple plus
// free-text analysis. Unparseable output counts as a failed call.
func (c *Client) ScoreAnswer(ctx context.Context, question, answer string) (*llm.ScoreResult, error) {
	system, user, err := c.prompts.BuildMessages("score", map[string]string{
		"Question": question,
		"Answer":   answer,
	})
	if err != nil {
		return nil, &llm.ProviderError{Provider: "openai", Code: llm.ErrCodeInvalidInput, Message: "failed to build scoring prompt", Err: err}
	}

	content, err := c.complete(ctx, system, user)
	if err != nil {
		return nil, err
	}

	var payload scorePayload
	if err := json.Unmarshal([]byte(utils.StripFences(content)), &payload); err != nil {
		return nil, &llm.ProviderError{Provider: "openai", Code: llm.ErrCodeBadOutput, Message: "scoring response is not valid JSON", Err: err}
	}
	if payload.Clarity == nil || payload.Relevance == nil || payload.Confidence == nil {
		return nil, &llm.ProviderError{Provider: "openai", Code: llm.ErrCodeBadOutput, Message: "scoring response is missing score fields"}
	}

	scores := models.ScoreTriple{
		Clarity:    *payload.Clarity,
		Relevance:  *payload.Relevance,
		Confidence: *payload.Confidence,
	}.Clamp()

	return &llm.ScoreResult{Scores: scores, Analysis: payload.Analysis}, nil
}

type feedbackPayload struct {
	OverallScore *float64 `json:"overallScore"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Analysis     string   `json:"analysis"`
}

// SummarizeInterview asks the model for end-of-session feedback over the
// whole answer history.
func (c *Client) SummarizeInterview(ctx context.Context, answers []models.AnsweredQuestion) (*models.FeedbackSummary, error) {
	history, err := json.Marshal(answers)
	if err != nil {
		return nil, &llm.ProviderError{Provider: "openai", Code: llm.ErrCodeInvalidInput, Message: "failed to encode answer history", Err: err}
	}

	system, user, err := c.prompts.BuildMessages("feedback", map[string]string{
		"Answers": string(history),
	})
	if err != nil {
		return nil, &llm.ProviderError{Provider: "openai", Code: llm.ErrCodeInvalidInput, Message: "failed to build feedback prompt", Err: err}
	}

	content, err := c.complete(ctx, system, user)
	if err != nil {
		return nil, err
	}

	var payload feedbackPayload
	if err := json.Unmarshal([]byte(utils.StripFences(content)), &payload); err != nil {
		return nil, &llm.ProviderError{Provider: "openai", Code: llm.ErrCodeBadOutput, Message: "feedback response is not valid JSON", Err: err}
	}
	if payload.OverallScore == nil {
		return nil, &llm.ProviderError{Provider: "openai", Code: llm.ErrCodeBadOutput, Message: "feedback response is missing overallScore"}
	}

	score := *payload.OverallScore
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}

	return &models.FeedbackSummary{
		OverallScore: score,
		Strengths:    payload.Strengths,
		Improvements: payload.Improvements,
		AIAnalysis:   payload.Analysis,
	}, nil
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	var content string
	err := c.policy.Do(ctx, func() error {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return &llm.ProviderError{Provider: "openai", Code: llm.ErrCodeBadOutput, Message: "no choices in response"}
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", &llm.ProviderError{Provider: "openai", Code: classify(err), Message: "chat completion failed", Err: err}
	}
	return content, nil
}

func retryableCompletionError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retry.RetryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retry.RetryableStatus(reqErr.HTTPStatusCode)
	}
	return false
}

func classify(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 401:
			return llm.ErrCodeAPIKey
		case apiErr.HTTPStatusCode == 429:
			return llm.ErrCodeRateLimit
		case apiErr.HTTPStatusCode >= 500:
			return llm.ErrCodeServiceDown
		}
	}
	var provErr *llm.ProviderError
	if errors.As(err, &provErr) {
		return provErr.Code
	}
	return llm.ErrCodeServiceDown
}
