package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SuryanshuBanerjee/tempmitra/internal/model"
)

const messagesCollection = "chat_messages"

// MessageRepo handles MongoDB operations for chat messages
type MessageRepo interface {
	Append(ctx context.Context, msgs ...*model.ChatMessage) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*model.ChatMessage, error)
	EachUserMessage(ctx context.Context, fn func(*model.ChatMessage) error) error
}

type messageRepo struct {
	collection *mongo.Collection
}

// NewMessageRepo creates a new chat message repository
func NewMessageRepo(db *mongo.Database) MessageRepo {
	return &messageRepo{
		collection: db.Collection(messagesCollection),
	}
}

func (r *messageRepo) Append(ctx context.Context, msgs ...*model.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	docs := make([]interface{}, len(msgs))
	for i, m := range msgs {
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
		docs[i] = m
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *messageRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]*model.ChatMessage, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, findSorted("createdAt", 1, limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var msgs []*model.ChatMessage
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// EachUserMessage streams every student-authored message to fn
func (r *messageRepo) EachUserMessage(ctx context.Context, fn func(*model.ChatMessage) error) error {
	cursor, err := r.collection.Find(ctx, bson.M{"senderType": model.SenderUser})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var msg model.ChatMessage
		if err := cursor.Decode(&msg); err != nil {
			return err
		}
		if err := fn(&msg); err != nil {
			return err
		}
	}
	return cursor.Err()
}

func findSorted(field string, order int, limit int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: field, Value: order}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}
