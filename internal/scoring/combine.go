// Package scoring fuses the two model probabilities into a screening decision.
package scoring

import "math"

// Threshold separates positive from negative combined scores.
const Threshold = 0.5

const (
	LabelPositive = "Parkinson"
	LabelNegative = "No Parkinson"
)

type Weights struct {
	Drawing float64
	Voice   float64
}

func DefaultWeights() Weights {
	return Weights{Drawing: 0.55, Voice: 0.45}
}

type Result struct {
	DrawingProb   float64
	VoiceProb     float64
	CombinedScore float64
	Positive      bool
	Label         string
	Confidence    float64
}

// Combine weights the two probabilities. Inputs are neither clamped nor
// validated and the weights need not sum to one.
func Combine(drawingProb, voiceProb float64, w Weights) Result {
	score := w.Drawing*drawingProb + w.Voice*voiceProb
	positive := score >= Threshold

	label := LabelNegative
	if positive {
		label = LabelPositive
	}

	return Result{
		DrawingProb:   drawingProb,
		VoiceProb:     voiceProb,
		CombinedScore: score,
		Positive:      positive,
		Label:         label,
		Confidence:    math.Abs(score-Threshold) * 2,
	}
}
