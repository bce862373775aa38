package interview

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/phanicodella/talentsync/internal/llm"
	"github.com/phanicodella/talentsync/internal/metrics"
	"github.com/phanicodella/talentsync/internal/models"
	"github.com/phanicodella/talentsync/internal/repositories"
	"github.com/phanicodella/talentsync/internal/rooms"
)

// ErrNotActive is returned when an operation targets a session that already
// reached a terminal state.
var ErrNotActive = errors.New("interview is not active")

// ValidationError marks bad input shape; the HTTP boundary maps it to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// RoomService is the slice of the room-provisioning client the controller
// uses. DeleteRoom never reports failure; that is the client's contract.
type RoomService interface {
	CreateRoom(ctx context.Context) (*rooms.Room, error)
	DeleteRoom(ctx context.Context, name string)
}

// Controller owns the interview lifecycle: it is the only component that
// mutates a session after creation, and the single layer that guarantees a
// deterministic fallback whenever the language model is unavailable.
//
// Calls to the external clients within one operation are strictly
// sequential. Updates are whole-document replaces with no concurrency
// control: two concurrent SubmitAnswer calls for the same session can lose
// one of the answers. Callers are expected not to interleave writes to a
// single session.
type Controller struct {
	repo     repositories.InterviewRepository
	roomSvc  RoomService
	provider llm.Provider
	logger   *zap.Logger

	now    func() time.Time
	jitter func() float64
}

func NewController(repo repositories.InterviewRepository, roomSvc RoomService, provider llm.Provider, logger *zap.Logger) *Controller {
	return &Controller{
		repo:     repo,
		roomSvc:  roomSvc,
		provider: provider,
		logger:   logger,
		now:      time.Now,
		jitter:   rand.Float64,
	}
}

// SetClock overrides the time source for tests.
func (c *Controller) SetClock(now func() time.Time) { c.now = now }

// SetJitter overrides the fallback-score jitter source for tests.
func (c *Controller) SetJitter(jitter func() float64) { c.jitter = jitter }

// StartSession provisions a video room and persists a new session in the
// scheduled state. If room provisioning fails the whole operation fails and
// no session becomes visible.
func (c *Controller) StartSession(ctx context.Context, name, email string) (*models.InterviewSession, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if len(name) < 2 {
		return nil, &ValidationError{Message: "Valid name is required"}
	}
	if !models.IsValidEmail(email) {
		return nil, &ValidationError{Message: "Valid email is required"}
	}

	room, err := c.roomSvc.CreateRoom(ctx)
	if err != nil {
		return nil, err
	}

	session := &models.InterviewSession{
		Candidate:     email,
		CandidateName: name,
		RoomURL:       room.URL,
		Status:        models.StatusScheduled,
		StartTime:     c.now().UTC(),
		Answers:       []models.AnsweredQuestion{},
	}

	persisted, err := c.repo.Create(ctx, session)
	if err != nil {
		return nil, err
	}

	c.logger.Info("interview session created",
		zap.String("id", persisted.ID.Hex()),
		zap.String("candidate", persisted.Candidate),
		zap.String("room", persisted.RoomName()))
	return persisted, nil
}

// SubmitAnswer scores one question/answer pair and appends it to the
// session. Scoring failure never blocks submission: after the provider's own
// retries are exhausted a deterministic fallback triple is attached instead.
func (c *Controller) SubmitAnswer(ctx context.Context, sessionID, question, answer string, duration int) (*models.InterviewSession, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if len(question) < 5 {
		return nil, &ValidationError{Message: "Valid question is required"}
	}
	if answer == "" {
		return nil, &ValidationError{Message: "Valid answer is required"}
	}
	if duration < 0 {
		duration = 0
	}

	session, err := c.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		return nil, ErrNotActive
	}

	result, err := c.provider.ScoreAnswer(ctx, question, answer)
	if err != nil {
		metrics.LLMFallback("score")
		c.logger.Warn("scoring unavailable, using fallback scores",
			zap.String("id", sessionID),
			zap.Error(err))
		result = &llm.ScoreResult{
			Scores:   c.fallbackScores(),
			Analysis: "Analysis not available at the moment.",
		}
	}

	session.Answers = append(session.Answers, models.AnsweredQuestion{
		Question:   question,
		Answer:     answer,
		Analysis:   result.Scores,
		AIAnalysis: result.Analysis,
		Duration:   duration,
		CreatedAt:  c.now().UTC(),
	})
	session.Status = models.NextStatusOnAnswer(session.Status)

	return c.repo.Update(ctx, session)
}

// EndSession finalizes the session: end time, feedback, persistence, then a
// best-effort room teardown. Feedback failure substitutes a deterministic
// summary; room-deletion failure is logged by the client and never surfaces.
// Ending an already-terminal session is rejected with ErrNotActive.
func (c *Controller) EndSession(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	session, err := c.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		return nil, ErrNotActive
	}

	end := c.now().UTC()
	session.EndTime = &end
	session.Status = models.StatusCompleted

	feedback, err := c.provider.SummarizeInterview(ctx, session.Answers)
	if err != nil {
		metrics.LLMFallback("feedback")
		c.logger.Warn("feedback unavailable, using fallback summary",
			zap.String("id", sessionID),
			zap.Error(err))
		feedback = fallbackFeedback()
	}
	session.Feedback = feedback

	persisted, err := c.repo.Update(ctx, session)
	if err != nil {
		return nil, err
	}

	// Room teardown happens only after the finalized session is durable.
	c.roomSvc.DeleteRoom(ctx, persisted.RoomName())

	c.logger.Info("interview session completed",
		zap.String("id", persisted.ID.Hex()),
		zap.Int("answers", len(persisted.Answers)),
		zap.Float64("overall_score", persisted.Feedback.OverallScore))
	return persisted, nil
}

// GetSession is a pure read.
func (c *Controller) GetSession(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	return c.repo.GetByID(ctx, sessionID)
}

// fallbackScores produces the baseline triple used when scoring is
// unavailable: 7 with up to ±2 jitter, clamped to the scoring scale.
func (c *Controller) fallbackScores() models.ScoreTriple {
	score := func() float64 {
		return 7 + (c.jitter()*4 - 2)
	}
	return models.ScoreTriple{
		Clarity:    score(),
		Relevance:  score(),
		Confidence: score(),
	}.Clamp()
}

func fallbackFeedback() *models.FeedbackSummary {
	return &models.FeedbackSummary{
		OverallScore: 7.5,
		Strengths:    []string{"Good communication", "Clear examples"},
		Improvements: []string{"Provide more detail", "Structure responses better"},
		AIAnalysis:   "Detailed feedback not available at the moment.",
	}
}
