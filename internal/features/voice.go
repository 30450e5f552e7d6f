package features

import (
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/puja9882/multimodal-parkinsons-detection/internal/acoustic"
)

// Source tells where a feature value came from.
type Source int

const (
	Extracted Source = iota
	Defaulted
	Placeholder
)

func (s Source) String() string {
	switch s {
	case Extracted:
		return "extracted"
	case Defaulted:
		return "defaulted"
	case Placeholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Reading is one base feature.
type Reading struct {
	Name   string
	Value  float64
	Source Source
}

// VoiceFeatures is the base readings plus the row aligned to the scaler width.
type VoiceFeatures struct {
	Base   []Reading
	Vector []float64
}

// Defaulted lists the base features that fell back to zero.
func (v *VoiceFeatures) Defaulted() []string {
	var names []string
	for _, r := range v.Base {
		if r.Source == Defaulted {
			names = append(names, r.Name)
		}
	}
	return names
}

// Analyzer summarizes an audio file.
type Analyzer interface {
	Analyze(path string) (*acoustic.Summary, error)
}

// ExtractVoice computes [mean F0, mean HNR, 0] for the audio at path and
// aligns it to expected values. It never fails: anything that cannot be
// measured becomes 0 marked Defaulted. expected <= 0 keeps the base width.
func ExtractVoice(a Analyzer, path string, expected int) *VoiceFeatures {
	f0 := Reading{Name: "f0_mean", Source: Defaulted}
	hnr := Reading{Name: "hnr_mean", Source: Defaulted}
	placeholder := Reading{Name: "placeholder", Source: Placeholder}

	sum, err := a.Analyze(path)
	switch {
	case err != nil:
		log.WithError(err).Warn("voice analysis failed, using zero features")
	case sum == nil:
		log.Warn("voice analysis returned no summary, using zero features")
	default:
		if sum.VoicedFrames > 0 && isFinite(sum.MeanF0) {
			f0.Value, f0.Source = sum.MeanF0, Extracted
		}
		if sum.HNRFrames > 0 && isFinite(sum.MeanHNR) {
			hnr.Value, hnr.Source = sum.MeanHNR, Extracted
		}
	}

	base := []Reading{f0, hnr, placeholder}
	values := make([]float64, len(base))
	for i, r := range base {
		values[i] = r.Value
	}

	if expected <= 0 {
		expected = len(values)
	}
	return &VoiceFeatures{Base: base, Vector: Align(values, expected)}
}

// Align truncates base to n values or zero-pads it on the right.
func Align(base []float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	out := make([]float64, n)
	copy(out, base)
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
