package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SuryanshuBanerjee/tempmitra/internal/model"
	"github.com/SuryanshuBanerjee/tempmitra/internal/triage"
)

const sessionsCollection = "chat_sessions"

// SessionCounts summarizes stored chat sessions
type SessionCounts struct {
	Total     int64
	Crisis    int64
	Escalated int64
}

// SessionRepo handles MongoDB operations for chat sessions
type SessionRepo interface {
	Create(ctx context.Context, session *model.ChatSession) error
	GetByID(ctx context.Context, id string) (*model.ChatSession, error)
	Update(ctx context.Context, session *model.ChatSession) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.ChatSession, error)
	Counts(ctx context.Context) (*SessionCounts, error)
}

type sessionRepo struct {
	collection *mongo.Collection
}

// NewSessionRepo creates a new chat session repository
func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		collection: db.Collection(sessionsCollection),
	}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.ChatSession) error {
	_, err := r.collection.InsertOne(ctx, session)
	return err
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) Update(ctx context.Context, session *model.ChatSession) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, session)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("session %s not found", session.ID)
	}
	return nil
}

func (r *sessionRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.ChatSession, error) {
	opts := findSorted("startedAt", -1, limit)
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.ChatSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepo) Counts(ctx context.Context) (*SessionCounts, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	crisis, err := r.collection.CountDocuments(ctx, bson.M{"crisisDetected": true})
	if err != nil {
		return nil, err
	}
	escalated, err := r.collection.CountDocuments(ctx, bson.M{"status": triage.SessionEscalated})
	if err != nil {
		return nil, err
	}
	return &SessionCounts{Total: total, Crisis: crisis, Escalated: escalated}, nil
}
