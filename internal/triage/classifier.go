package triage

import "strings"

// Topic is the conversational category chosen for a message
type Topic string

const (
	TopicCrisis     Topic = "crisis"
	TopicAnxiety    Topic = "anxiety"
	TopicDepression Topic = "depression"
	TopicStress     Topic = "stress"
	TopicNone       Topic = "none"
)

// Sentiment is the coarse polarity of a message
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// topicPriority is evaluated top to bottom; the first category with a match wins.
var topicPriority = []struct {
	category Category
	topic    Topic
}{
	{CategoryCrisis, TopicCrisis},
	{CategoryAnxiety, TopicAnxiety},
	{CategoryDepression, TopicDepression},
	{CategoryStress, TopicStress},
}

// ClassificationResult is the outcome of classifying one chat message
type ClassificationResult struct {
	Crisis        bool      `json:"crisis" bson:"crisis"`
	CrisisMatches []string  `json:"crisisMatches" bson:"crisisMatches"`
	Topic         Topic     `json:"topic" bson:"topic"`
	Sentiment     Sentiment `json:"sentiment" bson:"sentiment"`
}

// Classifier detects crisis language, topic and sentiment by lexicon lookup.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	lexicon *Lexicon
}

// NewClassifier creates a classifier over the given lexicon
func NewClassifier(lexicon *Lexicon) *Classifier {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &Classifier{lexicon: lexicon}
}

// Lexicon returns the lexicon the classifier was built with
func (c *Classifier) Lexicon() *Lexicon {
	return c.lexicon
}

// Classify inspects a message. Matching is a case-insensitive substring test
// with no word boundaries, so "die" also matches inside "diet".
func (c *Classifier) Classify(message string) ClassificationResult {
	lowered := strings.ToLower(message)

	matches := c.lexicon.matches(CategoryCrisis, lowered)
	result := ClassificationResult{
		Crisis:        len(matches) > 0,
		CrisisMatches: matches,
		Topic:         c.topic(lowered, len(matches) > 0),
		Sentiment:     c.sentiment(lowered),
	}
	if result.CrisisMatches == nil {
		result.CrisisMatches = []string{}
	}
	return result
}

func (c *Classifier) topic(lowered string, crisis bool) Topic {
	if crisis {
		return TopicCrisis
	}
	for _, p := range topicPriority[1:] {
		if c.lexicon.any(p.category, lowered) {
			return p.topic
		}
	}
	return TopicNone
}

func (c *Classifier) sentiment(lowered string) Sentiment {
	pos := len(c.lexicon.matches(CategorySentimentPositive, lowered))
	neg := len(c.lexicon.matches(CategorySentimentNegative, lowered))
	switch {
	case neg > pos:
		return SentimentNegative
	case pos > neg:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}

// TopicOf returns the topic for a message. Analytics uses this to recompute
// topic statistics with the same rules as the live classifier.
func (c *Classifier) TopicOf(message string) Topic {
	lowered := strings.ToLower(message)
	return c.topic(lowered, c.lexicon.any(CategoryCrisis, lowered))
}
