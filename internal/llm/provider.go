package llm

import (
	"context"

	"github.com/phanicodella/talentsync/internal/models"
)

// ScoreResult is the model's evaluation of a single answer.
type ScoreResult struct {
	Scores   models.ScoreTriple
	Analysis string
}

// Provider is the interface language-model backends implement. Both
// operations return an error once the provider's own bounded retries are
// exhausted; the lifecycle controller is the single layer that substitutes
// deterministic fallbacks.
type Provider interface {
	ScoreAnswer(ctx context.Context, question, answer string) (*ScoreResult, error)
	SummarizeInterview(ctx context.Context, answers []models.AnsweredQuestion) (*models.FeedbackSummary, error)
	GetProviderName() string
}

// ProviderError is an error from an LLM backend.
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Common error codes shared across providers.
const (
	ErrCodeAPIKey       = "invalid_api_key"
	ErrCodeRateLimit    = "rate_limit_exceeded"
	ErrCodeServiceDown  = "service_unavailable"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeBadOutput    = "unparseable_output"
)
