package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SuryanshuBanerjee/tempmitra/internal/model"
)

const (
	screeningsCollection = "screening_responses"
	profilesCollection   = "risk_profiles"
)

// ScreeningRepo handles MongoDB operations for screening responses and risk profiles
type ScreeningRepo interface {
	SaveResponse(ctx context.Context, resp *model.ScreeningResponse) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.ScreeningResponse, error)
	CountByTier(ctx context.Context) (map[string]int64, error)

	GetProfile(ctx context.Context, userID string) (*model.UserRiskProfile, error)
	SaveProfile(ctx context.Context, profile *model.UserRiskProfile) error
	RiskDistribution(ctx context.Context) (map[string]int64, error)
}

type screeningRepo struct {
	responses *mongo.Collection
	profiles  *mongo.Collection
}

// NewScreeningRepo creates a new screening repository
func NewScreeningRepo(db *mongo.Database) ScreeningRepo {
	return &screeningRepo{
		responses: db.Collection(screeningsCollection),
		profiles:  db.Collection(profilesCollection),
	}
}

func (r *screeningRepo) SaveResponse(ctx context.Context, resp *model.ScreeningResponse) error {
	_, err := r.responses.InsertOne(ctx, resp)
	return err
}

func (r *screeningRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.ScreeningResponse, error) {
	cursor, err := r.responses.Find(ctx, bson.M{"userId": userID}, findSorted("completedAt", -1, limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*model.ScreeningResponse
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *screeningRepo) CountByTier(ctx context.Context) (map[string]int64, error) {
	return countBy(ctx, r.responses, "riskTier")
}

func (r *screeningRepo) GetProfile(ctx context.Context, userID string) (*model.UserRiskProfile, error) {
	var profile model.UserRiskProfile
	err := r.profiles.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *screeningRepo) SaveProfile(ctx context.Context, profile *model.UserRiskProfile) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.profiles.ReplaceOne(ctx, bson.M{"_id": profile.UserID}, profile, opts)
	return err
}

func (r *screeningRepo) RiskDistribution(ctx context.Context) (map[string]int64, error) {
	return countBy(ctx, r.profiles, "riskLevel")
}
