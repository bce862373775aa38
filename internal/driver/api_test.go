package driver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phanicodella/talentsync/internal/models"
)

func envelopeOK(t *testing.T, w http.ResponseWriter, status int, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data}); err != nil {
		t.Fatalf("failed to encode envelope: %v", err)
	}
}

func TestAPIClientCreateInterview(t *testing.T) {
	id := primitive.NewObjectID()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/interviews/create" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req models.CreateInterviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Name != "Ada Lovelace" || req.Email != "ada@example.com" {
			t.Errorf("request = %+v", req)
		}
		envelopeOK(t, w, http.StatusCreated, &models.InterviewSession{
			ID:        id,
			Status:    models.StatusScheduled,
			StartTime: time.Now().UTC(),
		})
	}))
	defer server.Close()

	c := NewAPIClient(server.URL, "")
	session, err := c.CreateInterview(context.Background(), "Ada Lovelace", "ada@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.ID != id || session.Status != models.StatusScheduled {
		t.Errorf("session = %+v", session)
	}
}

func TestAPIClientSendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("Authorization = %q", got)
		}
		envelopeOK(t, w, http.StatusOK, &models.InterviewSession{})
	}))
	defer server.Close()

	c := NewAPIClient(server.URL, "token-123")
	if _, err := c.GetInterview(context.Background(), "507f1f77bcf86cd799439011"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAPIClientErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Interview not found"})
	}))
	defer server.Close()

	c := NewAPIClient(server.URL, "")
	_, err := c.GetInterview(context.Background(), "507f1f77bcf86cd799439011")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "Interview not found" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestAPIClientSubmitAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.SubmitAnswerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Duration != 42 {
			t.Errorf("duration = %d, want 42", req.Duration)
		}
		envelopeOK(t, w, http.StatusOK, &models.InterviewSession{Status: models.StatusInProgress})
	}))
	defer server.Close()

	c := NewAPIClient(server.URL, "")
	session, err := c.SubmitAnswer(context.Background(), "507f1f77bcf86cd799439011", "Tell me about yourself", "I am an engineer.", 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Status != models.StatusInProgress {
		t.Errorf("status = %s", session.Status)
	}
}

func TestAPIClientEndInterview(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/interviews/507f1f77bcf86cd799439011/end" {
			t.Errorf("path = %s", r.URL.Path)
		}
		envelopeOK(t, w, http.StatusOK, &models.InterviewSession{
			Status:   models.StatusCompleted,
			Feedback: &models.FeedbackSummary{OverallScore: 8},
		})
	}))
	defer server.Close()

	c := NewAPIClient(server.URL, "")
	session, err := c.EndInterview(context.Background(), "507f1f77bcf86cd799439011")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Feedback == nil || session.Feedback.OverallScore != 8 {
		t.Errorf("feedback = %+v", session.Feedback)
	}
}
