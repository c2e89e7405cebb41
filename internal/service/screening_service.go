package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SuryanshuBanerjee/tempmitra/internal/metrics"
	"github.com/SuryanshuBanerjee/tempmitra/internal/model"
	"github.com/SuryanshuBanerjee/tempmitra/internal/observability"
	"github.com/SuryanshuBanerjee/tempmitra/internal/repository"
	"github.com/SuryanshuBanerjee/tempmitra/internal/triage"
)

const defaultHistoryLimit = 50

// ScreeningService scores questionnaires and maintains user risk profiles
type ScreeningService struct {
	repo    repository.ScreeningRepo
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewScreeningService creates a new screening service
func NewScreeningService(repo repository.ScreeningRepo, m *metrics.Metrics) *ScreeningService {
	return &ScreeningService{
		repo:    repo,
		metrics: m,
		now:     time.Now,
	}
}

// Submit scores one questionnaire, stores it and updates the user's profile
func (s *ScreeningService) Submit(ctx context.Context, userID, instrument string, answers map[string]int) (*model.ScreeningResponse, error) {
	inst, err := triage.ParseInstrument(instrument)
	if err != nil {
		return nil, err
	}
	result, err := triage.Score(inst, answers)
	if err != nil {
		return nil, err
	}

	now := s.now()
	resp := &model.ScreeningResponse{
		ID:                 uuid.New().String(),
		UserID:             userID,
		Instrument:         result.Instrument,
		Answers:            answers,
		TotalScore:         result.TotalScore,
		RiskTier:           result.RiskTier,
		Recommendations:    result.Recommendations,
		NeedsImmediateHelp: result.NeedsImmediateHelp,
		CompletedAt:        now,
	}
	if err := s.repo.SaveResponse(ctx, resp); err != nil {
		return nil, fmt.Errorf("failed to save screening: %w", err)
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get risk profile: %w", err)
	}
	if profile == nil {
		profile = model.NewUserRiskProfile(userID)
	}
	profile.ApplyScreening(result, now)
	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save risk profile: %w", err)
	}

	s.metrics.ObserveScreening(result)

	log := observability.LoggerFromContext(ctx)
	attrs := []any{"user_id", userID, "instrument", result.Instrument, "score", result.TotalScore, "tier", result.RiskTier}
	if result.NeedsImmediateHelp {
		log.Warn("screening needs immediate help", attrs...)
	} else {
		log.Info("screening scored", attrs...)
	}

	return resp, nil
}

// History lists a user's screenings, newest first
func (s *ScreeningService) History(ctx context.Context, userID string, limit int) ([]*model.ScreeningResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	out, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list screenings: %w", err)
	}
	if out == nil {
		out = []*model.ScreeningResponse{}
	}
	return out, nil
}

// Profile returns the user's risk profile, or the unscreened default
func (s *ScreeningService) Profile(ctx context.Context, userID string) (*model.UserRiskProfile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get risk profile: %w", err)
	}
	if profile == nil {
		return model.NewUserRiskProfile(userID), nil
	}
	return profile, nil
}
