// Package acoustic computes pitch and harmonicity statistics from speech
// recordings using short-term autocorrelation.
package acoustic

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Summary holds the per-recording statistics. Zero frame counts mean the
// corresponding mean could not be measured.
type Summary struct {
	Duration     float64
	MeanF0       float64
	VoicedFrames int
	MeanHNR      float64
	HNRFrames    int
}

type Analyzer struct {
	PitchParams       Params
	HarmonicityParams Params
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		PitchParams:       DefaultPitchParams,
		HarmonicityParams: DefaultHarmonicityParams,
	}
}

// Analyze decodes the WAV file at path and summarizes it.
func (a *Analyzer) Analyze(path string) (*Summary, error) {
	sound, err := ReadWAV(path)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", path, err)
	}
	return a.AnalyzeSound(sound), nil
}

func (a *Analyzer) AnalyzeSound(s *Sound) *Summary {
	meanF0, voiced := MeanF0(Pitch(s, a.PitchParams))
	meanHNR, frames := MeanHNR(Harmonicity(s, a.HarmonicityParams))

	sum := &Summary{
		Duration:     s.Duration(),
		MeanF0:       meanF0,
		VoicedFrames: voiced,
		MeanHNR:      meanHNR,
		HNRFrames:    frames,
	}
	log.WithFields(log.Fields{
		"duration":      sum.Duration,
		"sample_rate":   s.SampleRate,
		"voiced_frames": voiced,
		"hnr_frames":    frames,
	}).Debug("voice analyzed")
	return sum
}
