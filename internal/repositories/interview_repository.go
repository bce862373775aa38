package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/phanicodella/talentsync/internal/models"
)

// ErrNotFound is returned when no session exists for an identifier.
var ErrNotFound = errors.New("interview not found")

// InterviewRepository is the document-store contract for interview sessions.
// Update is a whole-document replace: last writer wins, no concurrency token.
// Concurrent writers to one session may silently lose an update; callers that
// care must serialize their own writes.
type InterviewRepository interface {
	Create(ctx context.Context, session *models.InterviewSession) (*models.InterviewSession, error)
	GetByID(ctx context.Context, id string) (*models.InterviewSession, error)
	Update(ctx context.Context, session *models.InterviewSession) (*models.InterviewSession, error)

	// ListWithRooms returns sessions still holding a room reference that are
	// either completed or were created before the cutoff. The reaper job uses
	// it to sweep leaked rooms.
	ListWithRooms(ctx context.Context, createdBefore time.Time) ([]models.InterviewSession, error)
}
