package openai

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/phanicodella/talentsync/internal/config"
	"github.com/phanicodella/talentsync/internal/llm"
	"github.com/phanicodella/talentsync/internal/models"
	"github.com/phanicodella/talentsync/internal/prompts"
	"github.com/phanicodella/talentsync/internal/retry"
)

type fakeCompletionAPI struct {
	responses []string
	errs      []error
	calls     int
}

func (f *fakeCompletionAPI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return openai.ChatCompletionResponse{}, f.errs[i]
	}
	content := ""
	if i < len(f.responses) {
		content = f.responses[i]
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}, nil
}

func newTestClient(t *testing.T, api completionAPI) *Client {
	t.Helper()
	promptManager, err := prompts.NewManager()
	if err != nil {
		t.Fatalf("failed to load prompts: %v", err)
	}
	c := NewClient(config.OpenAIConfig{Model: "gpt-3.5-turbo", MaxTokens: 2000}, promptManager)
	c.SetCompletionAPI(api)
	c.SetRetryPolicy(retry.Policy{MaxAttempts: 3, Sleep: func(time.Duration) {}})
	return c
}

func TestScoreAnswer(t *testing.T) {
	api := &fakeCompletionAPI{responses: []string{
		`{"clarity": 8, "relevance": 7.5, "confidence": 9, "analysis": "Well structured answer."}`,
	}}
	c := newTestClient(t, api)

	result, err := c.ScoreAnswer(context.Background(), "Tell me about yourself", "I am an engineer.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := models.ScoreTriple{Clarity: 8, Relevance: 7.5, Confidence: 9}
	if result.Scores != want {
		t.Errorf("scores = %+v, want %+v", result.Scores, want)
	}
	if result.Analysis != "Well structured answer." {
		t.Errorf("analysis = %q", result.Analysis)
	}
}

func TestScoreAnswerStripsFences(t *testing.T) {
	api := &fakeCompletionAPI{responses: []string{
		"```json\n{\"clarity\": 6, \"relevance\": 6, \"confidence\": 6, \"analysis\": \"ok\"}\n```",
	}}
	c := newTestClient(t, api)

	result, err := c.ScoreAnswer(context.Background(), "Tell me about yourself", "I am an engineer.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Scores.Clarity != 6 {
		t.Errorf("clarity = %v, want 6", result.Scores.Clarity)
	}
}

func TestScoreAnswerClampsOutOfRange(t *testing.T) {
	api := &fakeCompletionAPI{responses: []string{
		`{"clarity": 15, "relevance": 0, "confidence": 5, "analysis": ""}`,
	}}
	c := newTestClient(t, api)

	result, err := c.ScoreAnswer(context.Background(), "Tell me about yourself", "I am an engineer.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Scores.Valid() {
		t.Errorf("scores not clamped into range: %+v", result.Scores)
	}
}

func TestScoreAnswerRejectsPartialScores(t *testing.T) {
	api := &fakeCompletionAPI{responses: []string{
		`{"clarity": 8, "analysis": "missing the other two axes"}`,
	}}
	c := newTestClient(t, api)

	_, err := c.ScoreAnswer(context.Background(), "Tell me about yourself", "I am an engineer.")
	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) || provErr.Code != llm.ErrCodeBadOutput {
		t.Fatalf("err = %v, want bad-output ProviderError", err)
	}
}

func TestScoreAnswerRejectsNonJSON(t *testing.T) {
	api := &fakeCompletionAPI{responses: []string{"I cannot answer that."}}
	c := newTestClient(t, api)

	_, err := c.ScoreAnswer(context.Background(), "Tell me about yourself", "I am an engineer.")
	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) || provErr.Code != llm.ErrCodeBadOutput {
		t.Fatalf("err = %v, want bad-output ProviderError", err)
	}
}

func TestScoreAnswerRetriesOnServerFault(t *testing.T) {
	serverFault := &openai.APIError{HTTPStatusCode: 500, Message: "overloaded"}
	api := &fakeCompletionAPI{
		errs: []error{serverFault, serverFault},
		responses: []string{"", "",
			`{"clarity": 7, "relevance": 7, "confidence": 7, "analysis": "ok"}`,
		},
	}
	c := newTestClient(t, api)

	result, err := c.ScoreAnswer(context.Background(), "Tell me about yourself", "I am an engineer.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.calls != 3 {
		t.Errorf("calls = %d, want 3", api.calls)
	}
	if result.Scores.Clarity != 7 {
		t.Errorf("clarity = %v, want 7", result.Scores.Clarity)
	}
}

func TestScoreAnswerTerminalOnAuthFault(t *testing.T) {
	api := &fakeCompletionAPI{errs: []error{
		&openai.APIError{HTTPStatusCode: 401, Message: "bad key"},
	}}
	c := newTestClient(t, api)

	_, err := c.ScoreAnswer(context.Background(), "Tell me about yourself", "I am an engineer.")
	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) || provErr.Code != llm.ErrCodeAPIKey {
		t.Fatalf("err = %v, want api-key ProviderError", err)
	}
	if api.calls != 1 {
		t.Errorf("calls = %d, want 1 (401 is terminal)", api.calls)
	}
}

func TestScoreAnswerExhaustsRetries(t *testing.T) {
	fault := &openai.APIError{HTTPStatusCode: 429, Message: "rate limited"}
	api := &fakeCompletionAPI{errs: []error{fault, fault, fault}}
	c := newTestClient(t, api)

	_, err := c.ScoreAnswer(context.Background(), "Tell me about yourself", "I am an engineer.")
	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) || provErr.Code != llm.ErrCodeRateLimit {
		t.Fatalf("err = %v, want rate-limit ProviderError", err)
	}
	if api.calls != 3 {
		t.Errorf("calls = %d, want 3", api.calls)
	}
}

func TestSummarizeInterview(t *testing.T) {
	api := &fakeCompletionAPI{responses: []string{
		`{"overallScore": 8.2, "strengths": ["clear"], "improvements": ["detail"], "analysis": "Solid overall."}`,
	}}
	c := newTestClient(t, api)

	answers := []models.AnsweredQuestion{
		{Question: "Tell me about yourself", Answer: "I am an engineer.", Analysis: models.ScoreTriple{Clarity: 8, Relevance: 8, Confidence: 8}},
	}
	feedback, err := c.SummarizeInterview(context.Background(), answers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feedback.OverallScore != 8.2 {
		t.Errorf("overallScore = %v, want 8.2", feedback.OverallScore)
	}
	if len(feedback.Strengths) != 1 || feedback.Strengths[0] != "clear" {
		t.Errorf("strengths = %v", feedback.Strengths)
	}
}

func TestSummarizeInterviewClampsScore(t *testing.T) {
	api := &fakeCompletionAPI{responses: []string{
		`{"overallScore": 14, "strengths": [], "improvements": [], "analysis": ""}`,
	}}
	c := newTestClient(t, api)

	feedback, err := c.SummarizeInterview(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feedback.OverallScore != 10 {
		t.Errorf("overallScore = %v, want 10", feedback.OverallScore)
	}
}

func TestSummarizeInterviewRejectsMissingScore(t *testing.T) {
	api := &fakeCompletionAPI{responses: []string{
		`{"strengths": ["clear"], "improvements": [], "analysis": "no score"}`,
	}}
	c := newTestClient(t, api)

	_, err := c.SummarizeInterview(context.Background(), nil)
	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) || provErr.Code != llm.ErrCodeBadOutput {
		t.Fatalf("err = %v, want bad-output ProviderError", err)
	}
}
