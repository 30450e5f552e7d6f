package acoustic

import "gonum.org/v1/gonum/stat"

// DefaultPitchParams mirrors the usual autocorrelation pitch settings:
// 75-600 Hz, three floor periods per window, a time step of 0.75 floor periods.
var DefaultPitchParams = Params{
	Floor:            75,
	Ceiling:          600,
	PeriodsPerWindow: 3,
	TimeStep:         0.75 / 75,
	SilenceThreshold: 0.03,
	VoicingThreshold: 0.45,
	OctaveCost:       0.01,
}

// Pitch returns one fundamental frequency per frame in Hz, 0 for unvoiced
// or silent frames.
func Pitch(s *Sound, p Params) []float64 {
	frames := track(s, p)
	f0 := make([]float64, len(frames))
	for i, f := range frames {
		if f.Voiced {
			f0[i] = float64(s.SampleRate) / f.Lag
		}
	}
	return f0
}

// MeanF0 averages the voiced frames only. It returns 0 frames when nothing is voiced.
func MeanF0(f0 []float64) (float64, int) {
	voiced := make([]float64, 0, len(f0))
	for _, v := range f0 {
		if v > 0 {
			voiced = append(voiced, v)
		}
	}
	if len(voiced) == 0 {
		return 0, 0
	}
	return stat.Mean(voiced, nil), len(voiced)
}
