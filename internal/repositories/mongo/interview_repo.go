package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phanicodella/talentsync/internal/models"
	"github.com/phanicodella/talentsync/internal/repositories"
)

// InterviewRepo persists interview sessions, one document per session.
type InterviewRepo struct {
	col *mongo.Collection
}

// NewInterviewRepo binds the collection and ensures the operational indexes
// on candidate, status, and creation time.
func NewInterviewRepo(c *Client) (*InterviewRepo, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}

	col := db.Collection(c.cfg.Collection)
	r := &InterviewRepo{col: col}

	// Query-only indexes; correctness never depends on them.
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "candidate", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	})

	return r, nil
}

func (r *InterviewRepo) Create(ctx context.Context, session *models.InterviewSession) (*models.InterviewSession, error) {
	now := time.Now().UTC()
	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
	}
	session.CreatedAt, session.UpdatedAt = now, now
	if session.Answers == nil {
		session.Answers = []models.AnsweredQuestion{}
	}

	if _, err := r.col.InsertOne(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *InterviewRepo) GetByID(ctx context.Context, id string) (*models.InterviewSession, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}

	var session models.InterviewSession
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&session); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Update replaces the whole document. Last writer wins.
func (r *InterviewRepo) Update(ctx context.Context, session *models.InterviewSession) (*models.InterviewSession, error) {
	session.UpdatedAt = time.Now().UTC()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": session.ID}, session)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, repositories.ErrNotFound
	}
	return session, nil
}

func (r *InterviewRepo) ListWithRooms(ctx context.Context, createdBefore time.Time) ([]models.InterviewSession, error) {
	filter := bson.M{
		"roomUrl": bson.M{"$ne": ""},
		"$or": bson.A{
			bson.M{"status": models.StatusCompleted},
			bson.M{"createdAt": bson.M{"$lt": createdBefore.UTC()}},
		},
	}

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.InterviewSession
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
