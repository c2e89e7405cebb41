package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SuryanshuBanerjee/tempmitra/internal/observability"
)

// EnsureIndexes creates the indexes every collection relies on. Failures are
// logged and do not stop startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	createIndex(ctx, db.Collection(sessionsCollection), bson.D{{Key: "userId", Value: 1}, {Key: "startedAt", Value: -1}}, false)
	createIndex(ctx, db.Collection(sessionsCollection), bson.D{{Key: "crisisDetected", Value: 1}}, false)
	createIndex(ctx, db.Collection(messagesCollection), bson.D{{Key: "sessionId", Value: 1}, {Key: "createdAt", Value: 1}}, false)
	createIndex(ctx, db.Collection(screeningsCollection), bson.D{{Key: "userId", Value: 1}, {Key: "completedAt", Value: -1}}, false)
	createIndex(ctx, db.Collection(profilesCollection), bson.D{{Key: "riskLevel", Value: 1}}, false)

	observability.Logger().Info("mongo indexes ensured", "database", db.Name())
}

func createIndex(ctx context.Context, coll *mongo.Collection, keys bson.D, unique bool) {
	opts := options.Index().SetUnique(unique)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts})
	if err != nil {
		observability.Logger().Warn("failed to create index", "collection", coll.Name(), "error", err)
	}
}

type groupCount struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

// countBy groups a collection on field and returns value -> document count
func countBy(ctx context.Context, coll *mongo.Collection, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []groupCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}
