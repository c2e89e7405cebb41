package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier() *Classifier {
	return NewClassifier(DefaultLexicon())
}

func TestClassifyCrisisAlwaysWins(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name    string
		message string
		matches []string
	}{
		{"plain", "I want to kill myself", []string{"kill myself"}},
		{"with anxiety", "I feel anxious and hopeless", []string{"hopeless"}},
		{"with stress", "exam pressure makes me want to end my life", []string{"end my life"}},
		{"uppercase", "I WANT TO END MY LIFE", []string{"end my life"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.message)
			assert.True(t, got.Crisis)
			assert.Equal(t, TopicCrisis, got.Topic)
			assert.Equal(t, tt.matches, got.CrisisMatches)
		})
	}
}

func TestClassifyCrisisMatchesFollowLexiconOrder(t *testing.T) {
	got := newTestClassifier().Classify("hopeless and worthless, I want to die")

	require.True(t, got.Crisis)
	assert.Equal(t, []string{"die", "hopeless", "worthless"}, got.CrisisMatches)
}

func TestClassifyTopicPriority(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		message string
		want    Topic
	}{
		{"I am anxious and lonely", TopicAnxiety},
		{"I feel so lonely", TopicDepression},
		{"My workload is huge this week", TopicStress},
		{"I'm overwhelmed", TopicAnxiety},
		{"Hello there", TopicNone},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got := c.Classify(tt.message)
			assert.False(t, got.Crisis)
			assert.Empty(t, got.CrisisMatches)
			assert.Equal(t, tt.want, got.Topic)
		})
	}
}

func TestClassifyEmptyMessage(t *testing.T) {
	got := newTestClassifier().Classify("")

	assert.False(t, got.Crisis)
	assert.NotNil(t, got.CrisisMatches)
	assert.Empty(t, got.CrisisMatches)
	assert.Equal(t, TopicNone, got.Topic)
	assert.Equal(t, SentimentNeutral, got.Sentiment)
}

func TestClassifySubstringMatching(t *testing.T) {
	// No word boundaries: "die" is found inside "diet".
	got := newTestClassifier().Classify("I started a new diet")

	assert.True(t, got.Crisis)
	assert.Equal(t, []string{"die"}, got.CrisisMatches)
}

func TestClassifySentiment(t *testing.T) {
	c := newTestClassifier()

	assert.Equal(t, SentimentPositive, c.Classify("good day").Sentiment)
	assert.Equal(t, SentimentNegative, c.Classify("bad day").Sentiment)
	assert.Equal(t, SentimentNeutral, c.Classify("good and bad").Sentiment)
	assert.Equal(t, SentimentNeutral, c.Classify("nothing to report").Sentiment)
}

func TestClassifySentimentSymmetry(t *testing.T) {
	c := newTestClassifier()

	pos := c.Classify("happy and great")
	neg := c.Classify("awful and terrible")
	both := c.Classify("happy and great but awful and terrible")

	assert.Equal(t, SentimentPositive, pos.Sentiment)
	assert.Equal(t, SentimentNegative, neg.Sentiment)
	assert.Equal(t, SentimentNeutral, both.Sentiment)
}

func TestClassifyIsIdempotent(t *testing.T) {
	c := newTestClassifier()
	msg := "I'm stressed about exams and feel sad"

	assert.Equal(t, c.Classify(msg), c.Classify(msg))
}

func TestTopicOfMatchesClassify(t *testing.T) {
	c := newTestClassifier()
	for _, msg := range []string{"I want to die", "panic attack", "so tired", "deadlines", "hi"} {
		assert.Equal(t, c.Classify(msg).Topic, c.TopicOf(msg), msg)
	}
}

func TestNewLexiconNormalizes(t *testing.T) {
	lex := NewLexicon(map[Category][]string{
		CategoryCrisis: {"  Suicide ", "suicide", "", "Overdose"},
	})

	assert.Equal(t, []string{"suicide", "overdose"}, lex.Phrases(CategoryCrisis))
	assert.Empty(t, lex.Phrases(CategoryStress))

	// Returned slices are copies.
	p := lex.Phrases(CategoryCrisis)
	p[0] = "changed"
	assert.Equal(t, "suicide", lex.Phrases(CategoryCrisis)[0])
}

func TestNewClassifierDefaultsLexicon(t *testing.T) {
	c := NewClassifier(nil)
	require.NotNil(t, c.Lexicon())
	assert.True(t, c.Classify("overdose").Crisis)
}
