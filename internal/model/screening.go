package model

import (
	"time"

	"github.com/SuryanshuBanerjee/tempmitra/internal/triage"
)

// ScreeningResponse is a stored, scored questionnaire submission
type ScreeningResponse struct {
	ID                 string            `json:"id" bson:"_id"`
	UserID             string            `json:"userId" bson:"userId"`
	Instrument         triage.Instrument `json:"instrument" bson:"instrument"`
	Answers            map[string]int    `json:"answers" bson:"answers"`
	TotalScore         int               `json:"totalScore" bson:"totalScore"`
	RiskTier           triage.RiskTier   `json:"riskTier" bson:"riskTier"`
	Recommendations    []string          `json:"recommendations" bson:"recommendations"`
	NeedsImmediateHelp bool              `json:"needsImmediateHelp" bson:"needsImmediateHelp"`
	CompletedAt        time.Time         `json:"completedAt" bson:"completedAt"`
}

// UserRiskProfile holds the latest screening scores for a user
type UserRiskProfile struct {
	UserID        string          `json:"userId" bson:"_id"`
	PHQ9Score     int             `json:"phq9Score" bson:"phq9Score"`
	GAD7Score     int             `json:"gad7Score" bson:"gad7Score"`
	GHQScore      int             `json:"ghqScore" bson:"ghqScore"`
	RiskLevel     triage.RiskTier `json:"riskLevel" bson:"riskLevel"`
	LastScreening *time.Time      `json:"lastScreening,omitempty" bson:"lastScreening,omitempty"`
}

// DefaultRiskLevel is the level of a user who has never been screened
const DefaultRiskLevel = triage.TierLow

// NewUserRiskProfile returns the zero-score profile for a user
func NewUserRiskProfile(userID string) *UserRiskProfile {
	return &UserRiskProfile{UserID: userID, RiskLevel: DefaultRiskLevel}
}

// ApplyScreening records a result on the profile
func (p *UserRiskProfile) ApplyScreening(result triage.ScreeningResult, at time.Time) {
	switch result.Instrument {
	case triage.InstrumentPHQ9:
		p.PHQ9Score = result.TotalScore
	case triage.InstrumentGAD7:
		p.GAD7Score = result.TotalScore
	case triage.InstrumentGHQ:
		p.GHQScore = result.TotalScore
	}
	p.RiskLevel = result.RiskTier
	p.LastScreening = &at
}

// SubmitScreeningRequest is the request body for POST /v1/screenings/{instrument}
type SubmitScreeningRequest struct {
	Responses map[string]int `json:"responses"`
}
