package models

import (
	"errors"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail checks the standard email shape used across the API.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// CreateInterviewRequest starts a new interview session.
type CreateInterviewRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate implements the middleware Validator interface. It also sanitizes
// the input in place: name is trimmed, email is trimmed and lowercased.
func (r *CreateInterviewRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if len(r.Name) < 2 {
		return errors.New("Valid name is required")
	}
	if !IsValidEmail(r.Email) {
		return errors.New("Valid email is required")
	}
	return nil
}

// SubmitAnswerRequest records one answered question on a session.
type SubmitAnswerRequest struct {
	InterviewID string `json:"interviewId"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	// Duration is how long the candidate spent answering, in seconds.
	// Optional; the client-side driver supplies it.
	Duration int `json:"duration,omitempty"`
}

func (r *SubmitAnswerRequest) Validate() error {
	r.InterviewID = strings.TrimSpace(r.InterviewID)
	r.Question = strings.TrimSpace(r.Question)
	r.Answer = strings.TrimSpace(r.Answer)

	if r.InterviewID == "" {
		return errors.New("Valid interview ID is required")
	}
	if len(r.Question) < 5 {
		return errors.New("Valid question is required")
	}
	if r.Answer == "" {
		return errors.New("Valid answer is required")
	}
	if r.Duration < 0 {
		r.Duration = 0
	}
	return nil
}

// ShareRequest emails a finished interview's report to a recipient.
type ShareRequest struct {
	Email string `json:"email"`
}

func (r *ShareRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if !IsValidEmail(r.Email) {
		return errors.New("Valid email is required")
	}
	return nil
}
