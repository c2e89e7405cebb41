package triage

import "strings"

// Category names a lexicon word list
type Category string

const (
	CategoryCrisis            Category = "crisis"
	CategoryAnxiety           Category = "anxiety"
	CategoryDepression        Category = "depression"
	CategoryStress            Category = "stress"
	CategorySentimentPositive Category = "sentiment_positive"
	CategorySentimentNegative Category = "sentiment_negative"
)

// Categories lists every lexicon category in a stable order
var Categories = []Category{
	CategoryCrisis,
	CategoryAnxiety,
	CategoryDepression,
	CategoryStress,
	CategorySentimentPositive,
	CategorySentimentNegative,
}

var defaultPhrases = map[Category][]string{
	CategoryCrisis: {
		"suicide", "kill myself", "end my life", "self-harm", "hurt myself",
		"crisis", "emergency", "death", "die", "hopeless", "worthless",
		"cut myself", "overdose", "jump", "hanging",
	},
	CategoryAnxiety: {
		"anxious", "anxiety", "panic", "worry", "nervous", "stressed",
		"fear", "scared", "overwhelmed", "racing heart", "can't breathe",
	},
	CategoryDepression: {
		"depressed", "depression", "sad", "empty", "hopeless", "tired",
		"lonely", "worthless", "guilt", "sleep problems", "no energy",
	},
	CategoryStress: {
		"stressed", "stress", "pressure", "overwhelmed", "busy", "exam",
		"deadlines", "workload", "burnout", "exhausted",
	},
	CategorySentimentPositive: {"good", "better", "happy", "great", "fine", "okay", "well"},
	CategorySentimentNegative: {"bad", "worse", "terrible", "awful", "horrible", "sad", "angry"},
}

// Lexicon is an immutable set of categorized lowercase phrases.
// A single instance is built at startup and shared by every classifier.
type Lexicon struct {
	phrases map[Category][]string
}

// NewLexicon builds a lexicon from the given word lists. Phrases are
// lowercased and trimmed; empty phrases and exact repeats are dropped
// while keeping first-occurrence order.
func NewLexicon(sets map[Category][]string) *Lexicon {
	l := &Lexicon{phrases: make(map[Category][]string, len(sets))}
	for cat, list := range sets {
		seen := make(map[string]struct{}, len(list))
		out := make([]string, 0, len(list))
		for _, p := range list {
			p = strings.ToLower(strings.TrimSpace(p))
			if p == "" {
				continue
			}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
		l.phrases[cat] = out
	}
	return l
}

// DefaultLexicon returns the built-in word lists used by the chat agent
func DefaultLexicon() *Lexicon {
	return NewLexicon(defaultPhrases)
}

// Phrases returns a copy of the phrases for a category
func (l *Lexicon) Phrases(cat Category) []string {
	src := l.phrases[cat]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Snapshot returns a copy of every category's phrases, for reference endpoints
func (l *Lexicon) Snapshot() map[Category][]string {
	out := make(map[Category][]string, len(l.phrases))
	for cat := range l.phrases {
		out[cat] = l.Phrases(cat)
	}
	return out
}

// matches returns the phrases of cat that occur as substrings of lowered.
// The caller must lowercase the text.
func (l *Lexicon) matches(cat Category, lowered string) []string {
	var found []string
	for _, p := range l.phrases[cat] {
		if strings.Contains(lowered, p) {
			found = append(found, p)
		}
	}
	return found
}

func (l *Lexicon) any(cat Category, lowered string) bool {
	for _, p := range l.phrases[cat] {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}
