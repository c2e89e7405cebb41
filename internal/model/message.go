package model

import (
	"time"

	"github.com/SuryanshuBanerjee/tempmitra/internal/triage"
)

type SenderType string

const (
	SenderUser      SenderType = "user"
	SenderAI        SenderType = "ai"
	SenderCounselor SenderType = "counselor"
)

// ChatMessage is one stored line of a conversation
type ChatMessage struct {
	ID             string              `json:"id" bson:"_id"`
	SessionID      string              `json:"sessionId" bson:"sessionId"`
	SenderType     SenderType          `json:"senderType" bson:"senderType"`
	SenderID       string              `json:"senderId,omitempty" bson:"senderId,omitempty"`
	Text           string              `json:"text" bson:"text"`
	MessageType    string              `json:"messageType" bson:"messageType"` // text, crisis, support, normal
	CrisisKeywords []string            `json:"crisisKeywords,omitempty" bson:"crisisKeywords,omitempty"`
	Sentiment      triage.Sentiment    `json:"sentiment,omitempty" bson:"sentiment,omitempty"`
	Topic          triage.Topic        `json:"topic,omitempty" bson:"topic,omitempty"`
	Resources      []triage.Resource   `json:"resources,omitempty" bson:"resources,omitempty"`
	FollowUps      []string            `json:"followUps,omitempty" bson:"followUps,omitempty"`
	Kind           triage.ResponseKind `json:"kind,omitempty" bson:"kind,omitempty"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
}

// SendMessageRequest is the request body for POST /v1/chat/messages
type SendMessageRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message"`
}

// SendMessageResponse is the agent reply returned to the student
type SendMessageResponse struct {
	SessionID         string               `json:"sessionId"`
	Response          string               `json:"response"`
	Type              triage.ResponseKind  `json:"type"`
	Resources         []triage.Resource    `json:"resources"`
	FollowUpQuestions []string             `json:"followUpQuestions"`
	CrisisDetected    bool                 `json:"crisisDetected"`
	Topic             triage.Topic         `json:"topic"`
	Sentiment         triage.Sentiment     `json:"sentiment"`
	Status            triage.SessionStatus `json:"status"`
}

// CrisisAlert is pushed to connected counselors when a session escalates
type CrisisAlert struct {
	SessionID   string    `json:"sessionId"`
	UserID      string    `json:"userId,omitempty"`
	Keywords    []string  `json:"keywords"`
	EscalatedAt time.Time `json:"escalatedAt"`
}
