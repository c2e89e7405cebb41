package triage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	crisisResult = ClassificationResult{Crisis: true, CrisisMatches: []string{"suicide"}, Topic: TopicCrisis}
	calmResult   = ClassificationResult{CrisisMatches: []string{}, Topic: TopicNone, Sentiment: SentimentNeutral}
)

func TestNewSessionIsActive(t *testing.T) {
	s := NewSession("s1")
	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, SessionActive, s.Status)
	assert.False(t, s.CrisisDetected)
}

func TestAdvanceActiveNonCrisisIsNoop(t *testing.T) {
	s, err := Advance(NewSession("s1"), calmResult)
	require.NoError(t, err)
	assert.Equal(t, SessionActive, s.Status)
	assert.False(t, s.CrisisDetected)
}

func TestAdvanceEscalationIsMonotonic(t *testing.T) {
	s, err := Advance(NewSession("s1"), crisisResult)
	require.NoError(t, err)
	require.Equal(t, SessionEscalated, s.Status)
	require.True(t, s.CrisisDetected)

	for i := 0; i < 3; i++ {
		s, err = Advance(s, calmResult)
		require.NoError(t, err)
		assert.Equal(t, SessionEscalated, s.Status)
		assert.True(t, s.CrisisDetected)
	}

	s, err = Advance(s, crisisResult)
	require.NoError(t, err)
	assert.Equal(t, SessionEscalated, s.Status)
}

func TestAdvanceEndedFails(t *testing.T) {
	for _, start := range []Session{NewSession("a"), {ID: "b", Status: SessionEscalated, CrisisDetected: true}} {
		ended := End(start)
		require.Equal(t, SessionEnded, ended.Status)

		for _, c := range []ClassificationResult{crisisResult, calmResult} {
			got, err := Advance(ended, c)
			require.Error(t, err)

			var ise *InvalidStateError
			assert.True(t, errors.As(err, &ise))
			assert.Equal(t, start.ID, ise.SessionID)
			assert.ErrorIs(t, err, ErrSessionEnded)
			assert.Equal(t, ended, got)
		}
	}
}

func TestEndKeepsCrisisFlag(t *testing.T) {
	s, err := Advance(NewSession("s1"), crisisResult)
	require.NoError(t, err)

	s = End(s)
	assert.Equal(t, SessionEnded, s.Status)
	assert.True(t, s.CrisisDetected)
}
