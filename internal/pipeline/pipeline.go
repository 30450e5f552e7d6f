// Package pipeline runs one screening: drawing tensor, voice features,
// both models, score fusion and the age caution.
package pipeline

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/puja9882/multimodal-parkinsons-detection/internal/acoustic"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/features"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/model"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/scoring"
)

type DrawingClassifier interface {
	Shape() model.Shape
	Predict(tensor []float32) (float64, error)
}

type VoiceClassifier interface {
	Predict(x []float32) (float64, error)
}

type FeatureScaler interface {
	Width() int
	Check(x []float64) error
	Transform(x []float64) ([]float64, error)
}

type Pipeline struct {
	drawing  DrawingClassifier
	voice    VoiceClassifier
	scaler   FeatureScaler
	analyzer features.Analyzer
}

func New(drawing DrawingClassifier, voice VoiceClassifier, scaler FeatureScaler, analyzer features.Analyzer) *Pipeline {
	if analyzer == nil {
		analyzer = acoustic.NewAnalyzer()
	}
	return &Pipeline{
		drawing:  drawing,
		voice:    voice,
		scaler:   scaler,
		analyzer: analyzer,
	}
}

// FromModels wires the loaded artifacts with the default acoustic analyzer.
func FromModels(m *model.Models) *Pipeline {
	return New(m.Drawing, m.Voice, m.Scaler, acoustic.NewAnalyzer())
}

type Request struct {
	ImagePath string
	VoicePath string
	Age       string
	Weights   scoring.Weights
	// AgeRule may be nil, in which case no caution is produced.
	AgeRule *scoring.AgeRule
}

type Prediction struct {
	scoring.Result
	Caution *string
	Voice   *features.VoiceFeatures
	// ScalerFallback is set when the voice row failed the scaler check and
	// a zero row was classified instead.
	ScalerFallback bool
}

func (p *Pipeline) Predict(req Request) (*Prediction, error) {
	tensor, err := features.DrawingTensor(req.ImagePath, p.drawing.Shape())
	if err != nil {
		return nil, err
	}
	drawingProb, err := p.drawing.Predict(tensor.Data)
	if err != nil {
		return nil, fmt.Errorf("drawing model: %w", err)
	}

	voice := features.ExtractVoice(p.analyzer, req.VoicePath, p.scaler.Width())
	if names := voice.Defaulted(); len(names) > 0 {
		log.WithField("features", names).Warn("voice features defaulted to zero")
	}

	scaled, fallback, err := p.scale(voice.Vector)
	if err != nil {
		return nil, err
	}
	voiceProb, err := p.voice.Predict(toFloat32(scaled))
	if err != nil {
		return nil, fmt.Errorf("voice model: %w", err)
	}

	pred := &Prediction{
		Result:         scoring.Combine(drawingProb, voiceProb, req.Weights),
		Voice:          voice,
		ScalerFallback: fallback,
	}
	if req.AgeRule != nil {
		pred.Caution = req.AgeRule.Caution(req.Age)
	}
	return pred, nil
}

// scale checks the row against the scaler before transforming it. A row
// that fails the check is replaced by zeros of the scaler's width.
func (p *Pipeline) scale(row []float64) ([]float64, bool, error) {
	fallback := false
	if err := p.scaler.Check(row); err != nil {
		log.WithError(err).Warn("voice row rejected by scaler, classifying a zero row")
		row = make([]float64, p.scaler.Width())
		fallback = true
	}
	scaled, err := p.scaler.Transform(row)
	if err != nil {
		return nil, fallback, fmt.Errorf("scale voice features: %w", err)
	}
	return scaled, fallback, nil
}

func toFloat32(x []float64) []float32 {
	out := make([]float32, len(x))
	for i, v := range x {
		out[i] = float32(v)
	}
	return out
}
