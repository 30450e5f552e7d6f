package acoustic

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Unvoiced is the harmonicity value reported for silent or aperiodic frames.
const Unvoiced = -200.0

// maxStrength caps the correlation so a perfectly periodic frame stays finite (60 dB).
const maxStrength = 1 - 1e-6

// DefaultHarmonicityParams: 10 ms steps, 75 Hz floor, 4.5 periods per window.
var DefaultHarmonicityParams = Params{
	Floor:            75,
	Ceiling:          600,
	PeriodsPerWindow: 4.5,
	TimeStep:         0.01,
	SilenceThreshold: 0.1,
	VoicingThreshold: 0,
	OctaveCost:       0.01,
}

// Harmonicity returns the harmonics-to-noise ratio of every frame in dB.
func Harmonicity(s *Sound, p Params) []float64 {
	frames := track(s, p)
	hnr := make([]float64, len(frames))
	for i, f := range frames {
		hnr[i] = frameHNR(f)
	}
	return hnr
}

func frameHNR(f frame) float64 {
	if f.Silent || !f.Voiced || f.Strength <= 0 {
		return Unvoiced
	}
	r := math.Min(f.Strength, maxStrength)
	return 10 * math.Log10(r/(1-r))
}

// MeanHNR averages all frames, unvoiced ones included.
func MeanHNR(hnr []float64) (float64, int) {
	if len(hnr) == 0 {
		return 0, 0
	}
	return stat.Mean(hnr, nil), len(hnr)
}
