// Package driver runs an interview session from the client side. A single
// event loop mirrors the server's lifecycle, consuming live transcript and
// presence adapters and submitting answers at each question boundary.
package driver

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/phanicodella/talentsync/internal/models"
)

// State is the driver's position in the session loop.
type State string

const (
	StateIdle          State = "idle"
	StateCapturing     State = "capturing"
	StateAwaitingScore State = "awaitingScore"
	StateEnded         State = "ended"
)

// Question is one prompt put to the candidate, with a per-question time limit.
type Question struct {
	Text      string
	TimeLimit time.Duration
}

// Segment is one transcription update. Final segments accumulate; a non-final
// segment replaces the previous non-final one until a final version arrives.
type Segment struct {
	Text  string
	Final bool
}

// TranscriptSource streams transcription updates. The channel is read only
// while a question is being captured; Stop must release the underlying
// capability and may close the channel.
type TranscriptSource interface {
	Segments() <-chan Segment
	Stop()
}

// PresenceSource streams face-presence updates, last value wins.
type PresenceSource interface {
	Updates() <-chan bool
	Stop()
}

// InterviewAPI is the slice of the server surface the driver drives.
type InterviewAPI interface {
	CreateInterview(ctx context.Context, name, email string) (*models.InterviewSession, error)
	SubmitAnswer(ctx context.Context, id, question, answer string, duration int) (*models.InterviewSession, error)
	EndInterview(ctx context.Context, id string) (*models.InterviewSession, error)
}

// CachedAnswer is an answer the server never acknowledged. The loop keeps it
// locally and moves on rather than stalling the interview.
type CachedAnswer struct {
	Question string
	Answer   string
	Duration int
}

// Event notifies an observer of a state change.
type Event struct {
	State         State
	QuestionIndex int
	Question      string
	Transcript    string
	Present       bool
	Session       *models.InterviewSession
}

// Driver owns the session loop. All state mutation happens on the goroutine
// running Run; StopAnswer is the only call safe from other goroutines.
type Driver struct {
	api         InterviewAPI
	transcripts TranscriptSource
	presence    PresenceSource
	questions   []Question
	logger      *zap.Logger
	notify      func(Event)

	state     State
	session   *models.InterviewSession
	committed []string
	pending   string
	present   bool
	cached    []CachedAnswer

	stopAnswer chan struct{}
	teardown   sync.Once
}

func New(api InterviewAPI, transcripts TranscriptSource, presence PresenceSource, questions []Question, logger *zap.Logger) *Driver {
	return &Driver{
		api:         api,
		transcripts: transcripts,
		presence:    presence,
		questions:   questions,
		logger:      logger,
		state:       StateIdle,
		stopAnswer:  make(chan struct{}, 1),
	}
}

// SetNotify registers an observer called from the loop goroutine on each
// state change. Must be set before Run.
func (d *Driver) SetNotify(fn func(Event)) {
	d.notify = fn
}

// StopAnswer ends the current question early, as if the time limit expired.
func (d *Driver) StopAnswer() {
	select {
	case d.stopAnswer <- struct{}{}:
	default:
	}
}

// State reports the loop's last published state.
func (d *Driver) State() State {
	return d.state
}

// Session returns the most recent server copy of the session.
func (d *Driver) Session() *models.InterviewSession {
	return d.session
}

// CachedAnswers returns answers that never reached the server.
func (d *Driver) CachedAnswers() []CachedAnswer {
	return d.cached
}

// Run drives one full session: create, capture each question, end. It returns
// the finalized session. Submission failures do not stop the loop; creation
// and finalization failures do.
func (d *Driver) Run(ctx context.Context, name, email string) (*models.InterviewSession, error) {
	defer d.stopSources()

	session, err := d.api.CreateInterview(ctx, name, email)
	if err != nil {
		return nil, err
	}
	d.session = session
	d.logger.Info("session created",
		zap.String("id", session.ID.Hex()),
		zap.String("room", session.RoomURL))

	for i, q := range d.questions {
		answer, duration, err := d.capture(ctx, i, q)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(answer) == "" {
			d.logger.Warn("no transcript captured, skipping question", zap.Int("question", i))
			continue
		}
		d.submit(ctx, i, q.Text, answer, duration)
	}

	d.publish(StateEnded, len(d.questions), "")
	final, err := d.api.EndInterview(ctx, d.session.ID.Hex())
	if err != nil {
		return nil, err
	}
	d.session = final
	return final, nil
}

// capture runs one question: arm the timer, accumulate transcript and
// presence until the timer fires, the candidate stops early, or the context
// ends. The timer is stopped on every exit path.
func (d *Driver) capture(ctx context.Context, index int, q Question) (string, int, error) {
	d.committed = d.committed[:0]
	d.pending = ""
	started := time.Now()

	segments := d.transcripts.Segments()
	updates := d.presence.Updates()

	timer := time.NewTimer(q.TimeLimit)
	defer timer.Stop()

	d.publish(StateCapturing, index, q.Text)

	for {
		select {
		case seg, ok := <-segments:
			if !ok {
				return d.snapshot(), d.elapsed(started, q), nil
			}
			if seg.Final {
				d.committed = append(d.committed, seg.Text)
				d.pending = ""
			} else {
				d.pending = seg.Text
			}
		case v, ok := <-updates:
			if !ok {
				// A nil channel is never selectable; without this a closed
				// presence stream keeps the case permanently ready and the
				// loop spins until the timer fires.
				updates = nil
				continue
			}
			d.present = v
		case <-d.stopAnswer:
			return d.snapshot(), d.elapsed(started, q), nil
		case <-timer.C:
			return d.snapshot(), int(q.TimeLimit / time.Second), nil
		case <-ctx.Done():
			return "", 0, ctx.Err()
		}
	}
}

// submit sends one answer and waits for the verdict. A failed call is cached
// locally and the loop advances regardless.
func (d *Driver) submit(ctx context.Context, index int, question, answer string, duration int) {
	d.publish(StateAwaitingScore, index, question)

	session, err := d.api.SubmitAnswer(ctx, d.session.ID.Hex(), question, answer, duration)
	if err != nil {
		d.logger.Warn("answer submission failed, caching locally",
			zap.Int("question", index),
			zap.Error(err))
		d.cached = append(d.cached, CachedAnswer{Question: question, Answer: answer, Duration: duration})
		return
	}
	d.session = session
}

func (d *Driver) snapshot() string {
	parts := append([]string{}, d.committed...)
	if d.pending != "" {
		parts = append(parts, d.pending)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func (d *Driver) elapsed(started time.Time, q Question) int {
	elapsed := int(time.Since(started) / time.Second)
	limit := int(q.TimeLimit / time.Second)
	if elapsed > limit {
		elapsed = limit
	}
	return elapsed
}

func (d *Driver) publish(state State, index int, question string) {
	d.state = state
	if d.notify != nil {
		d.notify(Event{
			State:         state,
			QuestionIndex: index,
			Question:      question,
			Transcript:    d.snapshot(),
			Present:       d.present,
			Session:       d.session,
		})
	}
}

func (d *Driver) stopSources() {
	d.teardown.Do(func() {
		d.transcripts.Stop()
		d.presence.Stop()
	})
}
