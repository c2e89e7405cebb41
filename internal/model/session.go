package model

import (
	"time"

	"github.com/SuryanshuBanerjee/tempmitra/internal/triage"
)

type SessionType string

const (
	SessionTypeAI        SessionType = "ai"
	SessionTypePeer      SessionType = "peer"
	SessionTypeCounselor SessionType = "counselor"
)

// ChatSession is the stored record of one conversation with the triage agent
type ChatSession struct {
	ID             string               `json:"id" bson:"_id"`
	UserID         string               `json:"userId" bson:"userId"`
	Type           SessionType          `json:"type" bson:"type"`
	Status         triage.SessionStatus `json:"status" bson:"status"`
	CrisisDetected bool                 `json:"crisisDetected" bson:"crisisDetected"`
	Topics         []triage.Topic       `json:"topics" bson:"topics"`
	MessageCount   int                  `json:"messageCount" bson:"messageCount"`
	StartedAt      time.Time            `json:"startedAt" bson:"startedAt"`
	UpdatedAt      time.Time            `json:"updatedAt" bson:"updatedAt"`
	EscalatedAt    *time.Time           `json:"escalatedAt,omitempty" bson:"escalatedAt,omitempty"`
	EndedAt        *time.Time           `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
}

// State returns the triage view of the record
func (s *ChatSession) State() triage.Session {
	return triage.Session{ID: s.ID, Status: s.Status, CrisisDetected: s.CrisisDetected}
}

// Apply copies a triage state back onto the record
func (s *ChatSession) Apply(state triage.Session) {
	s.Status = state.Status
	s.CrisisDetected = state.CrisisDetected
}

// AddTopic records a topic once; TopicNone is not tracked
func (s *ChatSession) AddTopic(topic triage.Topic) {
	if topic == triage.TopicNone || topic == "" {
		return
	}
	for _, t := range s.Topics {
		if t == topic {
			return
		}
	}
	s.Topics = append(s.Topics, topic)
}

// SessionTimeline is a session record with its messages in send order
type SessionTimeline struct {
	Session  *ChatSession   `json:"session"`
	Messages []*ChatMessage `json:"messages"`
}
