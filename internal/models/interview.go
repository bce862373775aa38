package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the lifecycle state of an interview session.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether no further transitions are allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// NextStatusOnAnswer is the transition applied when an answer is appended:
// the first answer moves a scheduled session to in-progress, everything else
// keeps its state.
func NextStatusOnAnswer(s Status) Status {
	if s == StatusScheduled {
		return StatusInProgress
	}
	return s
}

// ScoreTriple is the three-axis evaluation of a single answer. All three
// components are always present together; a partially scored answer is not a
// valid state.
type ScoreTriple struct {
	Clarity    float64 `bson:"clarity" json:"clarity"`
	Relevance  float64 `bson:"relevance" json:"relevance"`
	Confidence float64 `bson:"confidence" json:"confidence"`
}

// Valid reports whether every component is within the 1-10 scoring scale.
func (s ScoreTriple) Valid() bool {
	for _, v := range []float64{s.Clarity, s.Relevance, s.Confidence} {
		if v < 1 || v > 10 {
			return false
		}
	}
	return true
}

// Mean returns the average of the three components.
func (s ScoreTriple) Mean() float64 {
	return (s.Clarity + s.Relevance + s.Confidence) / 3
}

// Clamp returns a copy with every component forced into [1,10].
func (s ScoreTriple) Clamp() ScoreTriple {
	clamp := func(v float64) float64 {
		if v < 1 {
			return 1
		}
		if v > 10 {
			return 10
		}
		return v
	}
	return ScoreTriple{
		Clarity:    clamp(s.Clarity),
		Relevance:  clamp(s.Relevance),
		Confidence: clamp(s.Confidence),
	}
}

// AnsweredQuestion is one question/answer exchange, immutable once appended
// to its session.
type AnsweredQuestion struct {
	Question   string      `bson:"question" json:"question"`
	Answer     string      `bson:"answer" json:"answer"`
	Analysis   ScoreTriple `bson:"analysis" json:"analysis"`
	AIAnalysis string      `bson:"aiAnalysis" json:"aiAnalysis"`
	Duration   int         `bson:"duration" json:"duration"`
	CreatedAt  time.Time   `bson:"createdAt" json:"createdAt"`
}

// FeedbackSummary is the end-of-session synthesis, created exactly once when
// the session completes.
type FeedbackSummary struct {
	OverallScore float64  `bson:"overallScore" json:"overallScore"`
	Strengths    []string `bson:"strengths" json:"strengths"`
	Improvements []string `bson:"improvements" json:"improvements"`
	AIAnalysis   string   `bson:"aiAnalysis" json:"aiAnalysis"`
}

// InterviewSession is the aggregate root. It is owned exclusively by the
// lifecycle controller after creation; nothing else mutates it.
type InterviewSession struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Candidate     string             `bson:"candidate" json:"candidate"`
	CandidateName string             `bson:"candidateName" json:"candidateName"`
	RoomURL       string             `bson:"roomUrl" json:"roomUrl"`
	Status        Status             `bson:"status" json:"status"`
	Answers       []AnsweredQuestion `bson:"answers" json:"answers"`
	Feedback      *FeedbackSummary   `bson:"feedback,omitempty" json:"feedback,omitempty"`
	StartTime     time.Time          `bson:"startTime" json:"startTime"`
	EndTime       *time.Time         `bson:"endTime,omitempty" json:"endTime,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DurationSeconds returns the session length in whole seconds, or 0 while the
// session has no end time yet.
func (s *InterviewSession) DurationSeconds() int {
	if s.EndTime == nil {
		return 0
	}
	return int(s.EndTime.Sub(s.StartTime).Round(time.Second).Seconds())
}

// RoomName extracts the provisioned room's name from its URL. Room APIs are
// keyed by name, not by the full join URL the session stores.
func (s *InterviewSession) RoomName() string {
	if s.RoomURL == "" {
		return ""
	}
	parts := strings.Split(strings.TrimRight(s.RoomURL, "/"), "/")
	return parts[len(parts)-1]
}

// MarshalJSON adds the derived duration field once the session has ended.
func (s *InterviewSession) MarshalJSON() ([]byte, error) {
	type alias InterviewSession
	out := struct {
		*alias
		Duration *int `json:"duration,omitempty"`
	}{alias: (*alias)(s)}
	if s.EndTime != nil {
		d := s.DurationSeconds()
		out.Duration = &d
	}
	return json.Marshal(out)
}
