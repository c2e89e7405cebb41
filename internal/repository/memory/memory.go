// Package memory provides in-process repository implementations for tests
// and for running the API without MongoDB.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SuryanshuBanerjee/tempmitra/internal/model"
	"github.com/SuryanshuBanerjee/tempmitra/internal/repository"
	"github.com/SuryanshuBanerjee/tempmitra/internal/triage"
)

var (
	_ repository.SessionRepo   = (*SessionRepo)(nil)
	_ repository.MessageRepo   = (*MessageRepo)(nil)
	_ repository.ScreeningRepo = (*ScreeningRepo)(nil)
)

// SessionRepo stores chat sessions in a map
type SessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.ChatSession
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: map[string]*model.ChatSession{}}
}

func copySession(s *model.ChatSession) *model.ChatSession {
	cp := *s
	cp.Topics = append([]triage.Topic(nil), s.Topics...)
	return &cp
}

func (r *SessionRepo) Create(ctx context.Context, session *model.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; ok {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	r.sessions[session.ID] = copySession(session)
	return nil
}

func (r *SessionRepo) GetByID(ctx context.Context, id string) (*model.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return copySession(s), nil
}

func (r *SessionRepo) Update(ctx context.Context, session *model.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; !ok {
		return fmt.Errorf("session %s not found", session.ID)
	}
	r.sessions[session.ID] = copySession(session)
	return nil
}

func (r *SessionRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ChatSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, copySession(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return truncate(out, limit), nil
}

func (r *SessionRepo) Counts(ctx context.Context) (*repository.SessionCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &repository.SessionCounts{}
	for _, s := range r.sessions {
		c.Total++
		if s.CrisisDetected {
			c.Crisis++
		}
		if s.Status == triage.SessionEscalated {
			c.Escalated++
		}
	}
	return c, nil
}

// MessageRepo stores chat messages in insertion order
type MessageRepo struct {
	mu   sync.Mutex
	msgs []*model.ChatMessage
}

func NewMessageRepo() *MessageRepo {
	return &MessageRepo{}
}

func (r *MessageRepo) Append(ctx context.Context, msgs ...*model.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		cp := *m
		r.msgs = append(r.msgs, &cp)
	}
	return nil
}

func (r *MessageRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]*model.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ChatMessage
	for _, m := range r.msgs {
		if m.SessionID == sessionID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

func (r *MessageRepo) EachUserMessage(ctx context.Context, fn func(*model.ChatMessage) error) error {
	r.mu.Lock()
	msgs := append([]*model.ChatMessage(nil), r.msgs...)
	r.mu.Unlock()

	for _, m := range msgs {
		if m.SenderType != model.SenderUser {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		cp := *m
		if err := fn(&cp); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of stored messages
func (r *MessageRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

// ScreeningRepo stores screening responses and risk profiles
type ScreeningRepo struct {
	mu        sync.Mutex
	responses []*model.ScreeningResponse
	profiles  map[string]*model.UserRiskProfile
}

func NewScreeningRepo() *ScreeningRepo {
	return &ScreeningRepo{profiles: map[string]*model.UserRiskProfile{}}
}

func (r *ScreeningRepo) SaveResponse(ctx context.Context, resp *model.ScreeningResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *resp
	r.responses = append(r.responses, &cp)
	return nil
}

func (r *ScreeningRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.ScreeningResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ScreeningResponse
	for i := len(r.responses) - 1; i >= 0; i-- {
		if r.responses[i].UserID == userID {
			cp := *r.responses[i]
			out = append(out, &cp)
		}
	}
	return truncate(out, limit), nil
}

func (r *ScreeningRepo) CountByTier(ctx context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int64{}
	for _, resp := range r.responses {
		out[string(resp.RiskTier)]++
	}
	return out, nil
}

func (r *ScreeningRepo) GetProfile(ctx context.Context, userID string) (*model.UserRiskProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ScreeningRepo) SaveProfile(ctx context.Context, profile *model.UserRiskProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *profile
	r.profiles[profile.UserID] = &cp
	return nil
}

func (r *ScreeningRepo) RiskDistribution(ctx context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int64{}
	for _, p := range r.profiles {
		out[string(p.RiskLevel)]++
	}
	return out, nil
}

func truncate[T any](in []T, limit int) []T {
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}
