package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SuryanshuBanerjee/tempmitra/internal/cache"
	"github.com/SuryanshuBanerjee/tempmitra/internal/model"
	"github.com/SuryanshuBanerjee/tempmitra/internal/observability"
	"github.com/SuryanshuBanerjee/tempmitra/internal/repository"
	"github.com/SuryanshuBanerjee/tempmitra/internal/triage"
)

// AnalyticsService builds the admin dashboard numbers
type AnalyticsService struct {
	sessionRepo    repository.SessionRepo
	messageRepo    repository.MessageRepo
	screeningRepo  repository.ScreeningRepo
	analyticsCache cache.AnalyticsCache
	classifier     *triage.Classifier
	now            func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	sessionRepo repository.SessionRepo,
	messageRepo repository.MessageRepo,
	screeningRepo repository.ScreeningRepo,
	analyticsCache cache.AnalyticsCache,
	classifier *triage.Classifier,
) *AnalyticsService {
	return &AnalyticsService{
		sessionRepo:    sessionRepo,
		messageRepo:    messageRepo,
		screeningRepo:  screeningRepo,
		analyticsCache: analyticsCache,
		classifier:     classifier,
		now:            time.Now,
	}
}

// Overview aggregates session, screening and classification counts
func (s *AnalyticsService) Overview(ctx context.Context) (*model.AnalyticsOverview, error) {
	counts, err := s.sessionRepo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	risk, err := s.screeningRepo.RiskDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get risk distribution: %w", err)
	}
	tiers, err := s.screeningRepo.CountByTier(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count screenings: %w", err)
	}
	topics, err := s.analyticsCache.TopicCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read topic counts: %w", err)
	}
	sentiments, err := s.analyticsCache.SentimentCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sentiment counts: %w", err)
	}

	return &model.AnalyticsOverview{
		TotalSessions:     counts.Total,
		CrisisSessions:    counts.Crisis,
		EscalatedSessions: counts.Escalated,
		RiskDistribution:  orEmpty(risk),
		TopicCounts:       orEmpty(topics),
		SentimentCounts:   orEmpty(sentiments),
		ScreeningsByTier:  orEmpty(tiers),
		GeneratedAt:       s.now(),
	}, nil
}

// RecomputeTopics re-classifies every stored student message with the live
// lexicon and replaces the topic counters with the result.
func (s *AnalyticsService) RecomputeTopics(ctx context.Context) (*model.TopicRecount, error) {
	out := &model.TopicRecount{TopicCounts: map[string]int64{}}

	err := s.messageRepo.EachUserMessage(ctx, func(msg *model.ChatMessage) error {
		result := s.classifier.Classify(msg.Text)
		out.MessagesScanned++
		out.TopicCounts[string(result.Topic)]++
		if result.Crisis {
			out.CrisisMessages++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan messages: %w", err)
	}

	if err := s.analyticsCache.ReplaceTopicCounts(ctx, out.TopicCounts); err != nil {
		return nil, fmt.Errorf("failed to store topic counts: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("topic counts recomputed",
		"messages", out.MessagesScanned,
		"crisis_messages", out.CrisisMessages,
	)
	return out, nil
}

func orEmpty(m map[string]int64) map[string]int64 {
	if m == nil {
		return map[string]int64{}
	}
	return m
}
