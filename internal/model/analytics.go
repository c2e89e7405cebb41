package model

import "time"

// AnalyticsOverview is the admin dashboard summary
type AnalyticsOverview struct {
	TotalSessions     int64            `json:"totalSessions"`
	CrisisSessions    int64            `json:"crisisSessions"`
	EscalatedSessions int64            `json:"escalatedSessions"`
	RiskDistribution  map[string]int64 `json:"riskDistribution"`
	TopicCounts       map[string]int64 `json:"topicCounts"`
	SentimentCounts   map[string]int64 `json:"sentimentCounts"`
	ScreeningsByTier  map[string]int64 `json:"screeningsByTier"`
	GeneratedAt       time.Time        `json:"generatedAt"`
}

// TopicRecount is the result of re-classifying stored messages with the live lexicon
type TopicRecount struct {
	MessagesScanned int              `json:"messagesScanned"`
	TopicCounts     map[string]int64 `json:"topicCounts"`
	CrisisMessages  int              `json:"crisisMessages"`
}
