package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SuryanshuBanerjee/tempmitra/internal/cache"
	"github.com/SuryanshuBanerjee/tempmitra/internal/metrics"
	"github.com/SuryanshuBanerjee/tempmitra/internal/model"
	"github.com/SuryanshuBanerjee/tempmitra/internal/observability"
	"github.com/SuryanshuBanerjee/tempmitra/internal/repository"
	"github.com/SuryanshuBanerjee/tempmitra/internal/triage"
)

var (
	ErrEmptyMessage    = errors.New("message is required")
	ErrSessionNotFound = errors.New("session not found")
	ErrForbidden       = errors.New("not allowed to access this session")
)

const defaultTimelineLimit = 200

// ChatService runs student messages through triage and keeps session state
type ChatService struct {
	sessionRepo    repository.SessionRepo
	messageRepo    repository.MessageRepo
	sessionCache   cache.SessionCache
	locker         cache.SessionLocker
	analyticsCache cache.AnalyticsCache
	classifier     *triage.Classifier
	metrics        *metrics.Metrics
	broadcaster    Broadcaster
	now            func() time.Time
}

// NewChatService creates a new chat service
func NewChatService(
	sessionRepo repository.SessionRepo,
	messageRepo repository.MessageRepo,
	sessionCache cache.SessionCache,
	locker cache.SessionLocker,
	analyticsCache cache.AnalyticsCache,
	classifier *triage.Classifier,
	m *metrics.Metrics,
) *ChatService {
	return &ChatService{
		sessionRepo:    sessionRepo,
		messageRepo:    messageRepo,
		sessionCache:   sessionCache,
		locker:         locker,
		analyticsCache: analyticsCache,
		classifier:     classifier,
		metrics:        m,
		now:            time.Now,
	}
}

// SetBroadcaster sets the broadcaster for counselor alerts
func (s *ChatService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SendMessage classifies a student message, advances the session and
// returns the agent's reply. An empty SessionID starts a new session.
func (s *ChatService) SendMessage(ctx context.Context, userID string, req *model.SendMessageRequest) (*model.SendMessageResponse, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	log := observability.LoggerFromContext(ctx)

	sessionID := req.SessionID
	isNew := sessionID == ""
	if isNew {
		sessionID = uuid.New().String()
	}

	unlock, err := s.locker.Lock(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock session: %w", err)
	}
	defer unlock()

	var session *model.ChatSession
	if isNew {
		session = s.newSession(sessionID, userID)
		if err := s.sessionRepo.Create(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
		log.Info("chat session created", "session_id", sessionID, "user_id", userID)
	} else {
		session, err = s.loadForUpdate(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if session.UserID != userID {
			return nil, ErrForbidden
		}
	}

	result := s.classifier.Classify(text)
	reply := triage.Compose(result)

	prev := session.State()
	next, err := triage.Advance(prev, result)
	if err != nil {
		return nil, err
	}
	escalated := prev.Status != triage.SessionEscalated && next.Status == triage.SessionEscalated

	now := s.now()
	session.Apply(next)
	session.AddTopic(result.Topic)
	session.MessageCount += 2
	session.UpdatedAt = now
	if escalated {
		session.EscalatedAt = &now
	}

	userMsg := &model.ChatMessage{
		ID:             uuid.New().String(),
		SessionID:      sessionID,
		SenderType:     model.SenderUser,
		SenderID:       userID,
		Text:           text,
		MessageType:    "text",
		CrisisKeywords: result.CrisisMatches,
		Sentiment:      result.Sentiment,
		Topic:          result.Topic,
		CreatedAt:      now,
	}
	agentMsg := &model.ChatMessage{
		ID:             uuid.New().String(),
		SessionID:      sessionID,
		SenderType:     model.SenderAI,
		Text:           reply.Body,
		MessageType:    string(reply.Kind),
		CrisisKeywords: result.CrisisMatches,
		Sentiment:      result.Sentiment,
		Topic:          result.Topic,
		Resources:      reply.Resources,
		FollowUps:      reply.FollowUpQuestions,
		Kind:           reply.Kind,
		// Mongo stores milliseconds; keep the reply sorted after the message.
		CreatedAt: now.Add(time.Millisecond),
	}
	if err := s.messageRepo.Append(ctx, userMsg, agentMsg); err != nil {
		return nil, fmt.Errorf("failed to save messages: %w", err)
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	if err := s.sessionCache.Set(ctx, session); err != nil {
		log.Warn("session cache write failed", "session_id", sessionID, "error", err)
	}

	if err := s.analyticsCache.RecordClassification(ctx, result); err != nil {
		log.Warn("analytics counters not updated", "session_id", sessionID, "error", err)
	}
	s.metrics.ObserveClassification(result)

	log.Debug("message classified",
		"session_id", sessionID,
		"topic", result.Topic,
		"sentiment", result.Sentiment,
		"crisis", result.Crisis,
	)

	if escalated {
		s.metrics.ObserveEscalation()
		log.Warn("chat session escalated", "session_id", sessionID, "user_id", userID, "keywords", result.CrisisMatches)
		if s.broadcaster != nil {
			s.broadcaster.BroadcastToCounselors(EventCrisisAlert, &model.CrisisAlert{
				SessionID:   sessionID,
				UserID:      userID,
				Keywords:    result.CrisisMatches,
				EscalatedAt: now,
			})
		}
	}

	return &model.SendMessageResponse{
		SessionID:         sessionID,
		Response:          reply.Body,
		Type:              reply.Kind,
		Resources:         nonNilResources(reply.Resources),
		FollowUpQuestions: nonNilStrings(reply.FollowUpQuestions),
		CrisisDetected:    session.CrisisDetected,
		Topic:             result.Topic,
		Sentiment:         result.Sentiment,
		Status:            session.Status,
	}, nil
}

// EndSession closes a session. Ending an ended session returns it unchanged.
// A nil caller is the platform itself.
func (s *ChatService) EndSession(ctx context.Context, sessionID string, caller *model.UserClaims) (*model.ChatSession, error) {
	unlock, err := s.locker.Lock(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock session: %w", err)
	}
	defer unlock()

	session, err := s.loadForUpdate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !canAccess(session, caller) {
		return nil, ErrForbidden
	}
	if session.Status == triage.SessionEnded {
		return session, nil
	}

	now := s.now()
	session.Apply(triage.End(session.State()))
	session.EndedAt = &now
	session.UpdatedAt = now

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	log := observability.LoggerFromContext(ctx)
	if err := s.sessionCache.Delete(ctx, sessionID); err != nil {
		log.Warn("session cache delete failed", "session_id", sessionID, "error", err)
	}
	log.Info("chat session ended", "session_id", sessionID, "crisis_detected", session.CrisisDetected)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToCounselors(EventSessionEnded, map[string]interface{}{
			"sessionId":      sessionID,
			"crisisDetected": session.CrisisDetected,
			"endedAt":        now,
		})
	}

	return session, nil
}

// GetTimeline returns a session and its messages in send order
func (s *ChatService) GetTimeline(ctx context.Context, sessionID string, caller *model.UserClaims, limit int) (*model.SessionTimeline, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !canAccess(session, caller) {
		return nil, ErrForbidden
	}

	if limit <= 0 {
		limit = defaultTimelineLimit
	}
	msgs, err := s.messageRepo.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if msgs == nil {
		msgs = []*model.ChatMessage{}
	}

	return &model.SessionTimeline{Session: session, Messages: msgs}, nil
}

func (s *ChatService) newSession(id, userID string) *model.ChatSession {
	state := triage.NewSession(id)
	now := s.now()
	session := &model.ChatSession{
		ID:        id,
		UserID:    userID,
		Type:      model.SessionTypeAI,
		Topics:    []triage.Topic{},
		StartedAt: now,
		UpdatedAt: now,
	}
	session.Apply(state)
	return session
}

// loadForUpdate reads the stored record. Callers must hold the session lock;
// the cache may lag behind the store after a failed write.
func (s *ChatService) loadForUpdate(ctx context.Context, id string) (*model.ChatSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// loadSession reads through the cache and fails with ErrSessionNotFound
func (s *ChatService) loadSession(ctx context.Context, id string) (*model.ChatSession, error) {
	log := observability.LoggerFromContext(ctx)

	session, err := s.sessionCache.Get(ctx, id)
	if err != nil {
		log.Warn("session cache read failed", "session_id", id, "error", err)
	}
	if session != nil {
		return session, nil
	}

	session, err = s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.Status != triage.SessionEnded {
		if err := s.sessionCache.Set(ctx, session); err != nil {
			log.Warn("session cache write failed", "session_id", id, "error", err)
		}
	}
	return session, nil
}

func canAccess(session *model.ChatSession, caller *model.UserClaims) bool {
	if caller == nil || caller.IsStaff() {
		return true
	}
	return session.UserID == caller.UserID
}

func nonNilResources(in []triage.Resource) []triage.Resource {
	if in == nil {
		return []triage.Resource{}
	}
	return in
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
