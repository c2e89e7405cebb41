package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToCounselors(msgType string, payload interface{})
}

// Counselor event types
const (
	EventCrisisAlert  = "crisis_alert"
	EventSessionEnded = "session_ended"
)
