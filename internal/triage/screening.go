package triage

import "strings"

// Instrument identifies a standardized screening questionnaire
type Instrument string

const (
	InstrumentPHQ9 Instrument = "phq9"
	InstrumentGAD7 Instrument = "gad7"
	InstrumentGHQ  Instrument = "ghq"
)

// Instruments lists the supported questionnaires
var Instruments = []Instrument{InstrumentPHQ9, InstrumentGAD7, InstrumentGHQ}

// RiskTier is a severity label from an instrument's cutoff table
type RiskTier string

const (
	TierMinimal          RiskTier = "minimal"
	TierMild             RiskTier = "mild"
	TierModerate         RiskTier = "moderate"
	TierModeratelySevere RiskTier = "moderately_severe"
	TierSevere           RiskTier = "severe"
	TierLow              RiskTier = "low"
	TierHigh             RiskTier = "high"
)

// Band maps totals up to and including Max onto Tier
type Band struct {
	Max  int      `json:"max"`
	Tier RiskTier `json:"tier"`
}

// CutoffTable is an ascending list of bands plus the tier for totals above the last band
type CutoffTable struct {
	Bands []Band   `json:"bands"`
	Above RiskTier `json:"above"`
}

// Tier returns the first band whose upper bound covers total
func (t CutoffTable) Tier(total int) RiskTier {
	for _, b := range t.Bands {
		if total <= b.Max {
			return b.Tier
		}
	}
	return t.Above
}

var cutoffs = map[Instrument]CutoffTable{
	InstrumentPHQ9: {
		Bands: []Band{
			{Max: 4, Tier: TierMinimal},
			{Max: 9, Tier: TierMild},
			{Max: 14, Tier: TierModerate},
			{Max: 19, Tier: TierModeratelySevere},
		},
		Above: TierSevere,
	},
	InstrumentGAD7: {
		Bands: []Band{
			{Max: 4, Tier: TierMinimal},
			{Max: 9, Tier: TierMild},
			{Max: 14, Tier: TierModerate},
		},
		Above: TierSevere,
	},
	InstrumentGHQ: {
		Bands: []Band{{Max: 3, Tier: TierLow}},
		Above: TierHigh,
	},
}

// Cutoffs returns a copy of every instrument's cutoff table
func Cutoffs() map[Instrument]CutoffTable {
	out := make(map[Instrument]CutoffTable, len(cutoffs))
	for k, v := range cutoffs {
		bands := make([]Band, len(v.Bands))
		copy(bands, v.Bands)
		out[k] = CutoffTable{Bands: bands, Above: v.Above}
	}
	return out
}

// Recommendation texts
const (
	RecommendCounselor   = "Consider booking a session with a counselor"
	RecommendPeerSupport = "Join our peer support community"
	RecommendMindfulness = "Practice daily mindfulness exercises"
	RecommendUrgent      = "Urgent: Please contact mental health services immediately"
)

// ScreeningResult is the scored outcome of one completed questionnaire
type ScreeningResult struct {
	Instrument         Instrument `json:"instrument" bson:"instrument"`
	TotalScore         int        `json:"totalScore" bson:"totalScore"`
	RiskTier           RiskTier   `json:"riskTier" bson:"riskTier"`
	Recommendations    []string   `json:"recommendations" bson:"recommendations"`
	NeedsImmediateHelp bool       `json:"needsImmediateHelp" bson:"needsImmediateHelp"`
}

// ParseInstrument resolves a case-insensitive instrument name
func ParseInstrument(name string) (Instrument, error) {
	inst := Instrument(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := cutoffs[inst]; !ok {
		return "", &ScoringError{Instrument: name, Err: ErrUnknownInstrument}
	}
	return inst, nil
}

// Score sums the answers and applies the instrument's cutoff table. Answer
// ranges are the caller's responsibility.
func Score(instrument Instrument, answers map[string]int) (ScreeningResult, error) {
	table, ok := cutoffs[instrument]
	if !ok {
		return ScreeningResult{}, &ScoringError{Instrument: string(instrument), Err: ErrUnknownInstrument}
	}
	if len(answers) == 0 {
		return ScreeningResult{}, &ScoringError{Instrument: string(instrument), Err: ErrEmptyAnswers}
	}

	total := 0
	for _, v := range answers {
		total += v
	}
	tier := table.Tier(total)

	return ScreeningResult{
		Instrument:         instrument,
		TotalScore:         total,
		RiskTier:           tier,
		Recommendations:    recommendations(tier),
		NeedsImmediateHelp: tier == TierSevere || tier == TierHigh,
	}, nil
}

func recommendations(tier RiskTier) []string {
	recs := []string{}
	switch tier {
	case TierModerate, TierModeratelySevere, TierSevere, TierHigh:
		recs = append(recs, RecommendCounselor, RecommendPeerSupport, RecommendMindfulness)
	}
	switch tier {
	case TierModeratelySevere, TierSevere:
		recs = append(recs, RecommendUrgent)
	}
	return recs
}
