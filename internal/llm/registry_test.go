package llm

import (
	"context"
	"testing"

	"github.com/phanicodella/talentsync/internal/config"
	"github.com/phanicodella/talentsync/internal/models"
)

type stubProvider struct{}

func (stubProvider) ScoreAnswer(ctx context.Context, question, answer string) (*ScoreResult, error) {
	return &ScoreResult{}, nil
}

func (stubProvider) SummarizeInterview(ctx context.Context, answers []models.AnsweredQuestion) (*models.FeedbackSummary, error) {
	return &models.FeedbackSummary{}, nil
}

func (stubProvider) GetProviderName() string { return "stub" }

func TestRegistry(t *testing.T) {
	RegisterProvider("stub", func(cfg *config.Config) (Provider, error) {
		return stubProvider{}, nil
	})

	p, err := NewProvider("stub", &config.Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.GetProviderName() != "stub" {
		t.Errorf("provider name = %q", p.GetProviderName())
	}

	if _, err := NewProvider("unknown", &config.Config{}); err == nil {
		t.Error("expected error for an unregistered provider")
	}
}
