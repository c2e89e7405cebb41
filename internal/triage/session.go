package triage

// SessionStatus is the escalation state of a chat session
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionEscalated SessionStatus = "escalated"
	SessionEnded     SessionStatus = "ended"
)

// Session is the triage state tracked for one conversation.
// CrisisDetected is set once and never cleared.
type Session struct {
	ID             string        `json:"id" bson:"_id"`
	Status         SessionStatus `json:"status" bson:"status"`
	CrisisDetected bool          `json:"crisisDetected" bson:"crisisDetected"`
}

// NewSession starts a conversation in the active state
func NewSession(id string) Session {
	return Session{ID: id, Status: SessionActive}
}

// Advance applies one classified message to the session. Escalation is
// sticky: only an external review may move a session out of escalated.
// Callers must serialize Advance calls for the same session.
func Advance(s Session, c ClassificationResult) (Session, error) {
	switch s.Status {
	case SessionEnded:
		return s, &InvalidStateError{SessionID: s.ID, Status: s.Status}
	case SessionEscalated:
		if c.Crisis {
			s.CrisisDetected = true
		}
		return s, nil
	default:
		if c.Crisis {
			s.Status = SessionEscalated
			s.CrisisDetected = true
		}
		return s, nil
	}
}

// End moves the session to the terminal ended state
func End(s Session) Session {
	s.Status = SessionEnded
	return s
}
