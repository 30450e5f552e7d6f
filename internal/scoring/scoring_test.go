package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineDefaultWeights(t *testing.T) {
	r := Combine(0.8, 0.2, DefaultWeights())

	assert.InDelta(t, 0.53, r.CombinedScore, 1e-12)
	assert.True(t, r.Positive)
	assert.Equal(t, LabelPositive, r.Label)
	assert.InDelta(t, 0.06, r.Confidence, 1e-12)
	assert.Equal(t, 0.8, r.DrawingProb)
	assert.Equal(t, 0.2, r.VoiceProb)
}

func TestCombineLaw(t *testing.T) {
	weights := []Weights{DefaultWeights(), {0.5, 0.5}, {1, 0}, {0, 1}, {0.3, 0.3}}
	for _, w := range weights {
		for p1 := 0.0; p1 <= 1.0; p1 += 0.125 {
			for p2 := 0.0; p2 <= 1.0; p2 += 0.125 {
				r := Combine(p1, p2, w)
				score := w.Drawing*p1 + w.Voice*p2

				assert.Equal(t, score, r.CombinedScore)
				assert.Equal(t, score >= 0.5, r.Positive)
				assert.InDelta(t, math.Abs(score-0.5)*2, r.Confidence, 1e-12)
				assert.GreaterOrEqual(t, r.Confidence, 0.0)
				assert.LessOrEqual(t, r.Confidence, 1.0)
			}
		}
	}
}

func TestCombineThresholdIsInclusive(t *testing.T) {
	r := Combine(0.5, 0.5, Weights{Drawing: 0.5, Voice: 0.5})
	assert.True(t, r.Positive)
	assert.Zero(t, r.Confidence)

	r = Combine(0.2, 0.3, DefaultWeights())
	assert.False(t, r.Positive)
	assert.Equal(t, LabelNegative, r.Label)
}

func TestCombineDoesNotClamp(t *testing.T) {
	r := Combine(1.5, 0, Weights{Drawing: 1, Voice: 0})
	assert.Equal(t, 1.5, r.CombinedScore)
	assert.Equal(t, 2.0, r.Confidence)
}

func TestAgeCautionDiffersBetweenShells(t *testing.T) {
	cli := CLIAgeRule().Caution("15")
	require.NotNil(t, cli)
	assert.Equal(t, "⚠ Age = 15.0: model may be unreliable for very young/old people; interpret result cautiously.", *cli)

	assert.Nil(t, HTTPAgeRule().Caution("15"))
}

func TestAgeCaution(t *testing.T) {
	tests := []struct {
		rule    AgeRule
		age     string
		caution bool
	}{
		{CLIAgeRule(), "", false},
		{CLIAgeRule(), "unknown", false},
		{CLIAgeRule(), "18", false},
		{CLIAgeRule(), "80", false},
		{CLIAgeRule(), "17.5", true},
		{CLIAgeRule(), "81", true},
		{CLIAgeRule(), " 90 ", true},
		{CLIAgeRule(), "NaN", false},
		{HTTPAgeRule(), "10", true},
		{HTTPAgeRule(), "11", false},
		{HTTPAgeRule(), "75", false},
		{HTTPAgeRule(), "76", true},
	}

	for _, tt := range tests {
		got := tt.rule.Caution(tt.age)
		assert.Equal(t, tt.caution, got != nil, "age %q with range %v-%v", tt.age, tt.rule.Min, tt.rule.Max)
	}
}

func TestHTTPCautionText(t *testing.T) {
	got := HTTPAgeRule().Caution("80.5")
	require.NotNil(t, got)
	assert.Equal(t, "⚠ Age = 80.5: model may be unreliable for kids under 11 or elders over 75; interpret result cautiously.", *got)
}
