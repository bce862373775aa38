package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/phanicodella/talentsync/internal/models"
)

// APIError is a non-2xx reply from the interview service, carrying the
// envelope's error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("interview api: status %d: %s", e.Status, e.Message)
}

// APIClient talks to the interview service's HTTP surface.
type APIClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *APIClient) SetHTTPClient(client *http.Client) {
	c.http = client
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *APIClient) do(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		return &APIError{Status: resp.StatusCode, Message: env.Error}
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

func (c *APIClient) CreateInterview(ctx context.Context, name, email string) (*models.InterviewSession, error) {
	req := models.CreateInterviewRequest{Name: name, Email: email}
	var session models.InterviewSession
	if err := c.do(ctx, http.MethodPost, "/api/interviews/create", &req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *APIClient) SubmitAnswer(ctx context.Context, id, question, answer string, duration int) (*models.InterviewSession, error) {
	req := models.SubmitAnswerRequest{InterviewID: id, Question: question, Answer: answer, Duration: duration}
	var session models.InterviewSession
	if err := c.do(ctx, http.MethodPost, "/api/interviews/answer", &req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *APIClient) EndInterview(ctx context.Context, id string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	if err := c.do(ctx, http.MethodPost, "/api/interviews/"+id+"/end", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *APIClient) GetInterview(ctx context.Context, id string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	if err := c.do(ctx, http.MethodGet, "/api/interviews/"+id, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
