package pipeline

import (
	"bytes"
	"errors"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/puja9882/multimodal-parkinsons-detection/internal/acoustic"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/domain"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/model"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/scoring"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/testutil"
)

type stubAnalyzer struct {
	summary *acoustic.Summary
	err     error
}

func (s stubAnalyzer) Analyze(string) (*acoustic.Summary, error) {
	return s.summary, s.err
}

var smallShape = model.Shape{Height: 4, Width: 4, Channels: 3, Layout: model.LayoutNHWC, Order: model.OrderBGR}

func spiral(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spiral.png")
	testutil.WritePNG(t, path, 16, 16, func(x, y int) color.Color {
		return color.Gray{Y: uint8(x * 16)}
	})
	return path
}

func setup(drawProb, voiceProb float64) (*testutil.MockDrawingClassifier, *testutil.MockVoiceClassifier) {
	drawing := new(testutil.MockDrawingClassifier)
	drawing.On("Shape").Return(smallShape)
	drawing.On("Predict", mock.AnythingOfType("[]float32")).Return(drawProb, nil)

	voice := new(testutil.MockVoiceClassifier)
	voice.On("Predict", mock.AnythingOfType("[]float32")).Return(voiceProb, nil)
	return drawing, voice
}

func TestPredictEndToEnd(t *testing.T) {
	drawing, voice := setup(0.8, 0.2)
	scaler := &model.Scaler{Mean: []float64{150, 10, 0, 0}, Scale: []float64{50, 5, 1, 1}}
	analyzer := stubAnalyzer{summary: &acoustic.Summary{MeanF0: 200, VoicedFrames: 10, MeanHNR: 15, HNRFrames: 10}}

	p := New(drawing, voice, scaler, analyzer)
	rule := scoring.CLIAgeRule()
	pred, err := p.Predict(Request{
		ImagePath: spiral(t),
		VoicePath: "voice.wav",
		Age:       "15",
		Weights:   scoring.DefaultWeights(),
		AgeRule:   &rule,
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.53, pred.CombinedScore, 1e-9)
	assert.True(t, pred.Positive)
	assert.Equal(t, "Parkinson", pred.Label)
	assert.InDelta(t, 0.06, pred.Confidence, 1e-9)
	require.NotNil(t, pred.Caution)
	assert.Contains(t, *pred.Caution, "Age = 15.0")
	assert.False(t, pred.ScalerFallback)
	assert.Equal(t, []float64{200, 15, 0, 0}, pred.Voice.Vector)

	drawing.AssertCalled(t, "Predict", mock.MatchedBy(func(x []float32) bool { return len(x) == smallShape.Size() }))
	voice.AssertCalled(t, "Predict", []float32{1, 1, 0, 0})

	var out bytes.Buffer
	require.NoError(t, pred.WriteReport(&out))
	assert.Equal(t, "\n--- PREDICTION RESULTS ---\n"+
		"Drawing Model (prob Parkinson): 0.8000\n"+
		"Voice  Model (prob Parkinson): 0.2000\n"+
		"Combined score (weighted):    0.5300\n"+
		"Decision: Parkinson\n"+
		"Confidence: 0.06 (0 low -> 1 high)\n"+
		"⚠ Age = 15.0: model may be unreliable for very young/old people; interpret result cautiously.\n",
		out.String())
}

func TestPredictWithoutAgeRule(t *testing.T) {
	drawing, voice := setup(0.1, 0.3)
	scaler := &model.Scaler{Mean: []float64{0, 0, 0}, Scale: []float64{1, 1, 1}}

	p := New(drawing, voice, scaler, stubAnalyzer{err: errors.New("unreadable")})
	pred, err := p.Predict(Request{ImagePath: spiral(t), VoicePath: "x.wav", Age: "5", Weights: scoring.DefaultWeights()})
	require.NoError(t, err)

	assert.Nil(t, pred.Caution)
	assert.False(t, pred.Positive)
	assert.Equal(t, "No Parkinson", pred.Label)
	assert.Equal(t, []string{"f0_mean", "hnr_mean"}, pred.Voice.Defaulted())
	assert.Equal(t, []float64{0, 0, 0}, pred.Voice.Vector)
}

func TestPredictUnreadableImage(t *testing.T) {
	drawing, voice := setup(0.5, 0.5)
	scaler := &model.Scaler{Mean: []float64{0}, Scale: []float64{1}}

	p := New(drawing, voice, scaler, stubAnalyzer{})
	_, err := p.Predict(Request{ImagePath: filepath.Join(t.TempDir(), "missing.png"), VoicePath: "x.wav"})

	assert.ErrorIs(t, err, domain.ErrImageNotFound)
	drawing.AssertNotCalled(t, "Predict", mock.Anything)
	voice.AssertNotCalled(t, "Predict", mock.Anything)
}

func TestPredictDrawingModelError(t *testing.T) {
	drawing := new(testutil.MockDrawingClassifier)
	drawing.On("Shape").Return(smallShape)
	drawing.On("Predict", mock.Anything).Return(0.0, errors.New("session closed"))
	voice := new(testutil.MockVoiceClassifier)

	p := New(drawing, voice, &model.Scaler{Mean: []float64{0}, Scale: []float64{1}}, stubAnalyzer{})
	_, err := p.Predict(Request{ImagePath: spiral(t)})

	assert.ErrorContains(t, err, "session closed")
}

func TestPredictScalerFallback(t *testing.T) {
	drawing, voice := setup(0.6, 0.4)
	scaler := new(testutil.MockScaler)
	scaler.On("Width").Return(3)
	scaler.On("Check", []float64{210, 9, 0}).Return(domain.ErrShapeMismatch)
	scaler.On("Transform", []float64{0, 0, 0}).Return([]float64{-1, -2, 0}, nil)

	analyzer := stubAnalyzer{summary: &acoustic.Summary{MeanF0: 210, VoicedFrames: 1, MeanHNR: 9, HNRFrames: 1}}
	p := New(drawing, voice, scaler, analyzer)
	pred, err := p.Predict(Request{ImagePath: spiral(t), Weights: scoring.DefaultWeights()})
	require.NoError(t, err)

	assert.True(t, pred.ScalerFallback)
	assert.Equal(t, []float64{210, 9, 0}, pred.Voice.Vector)
	voice.AssertCalled(t, "Predict", []float32{-1, -2, 0})
	scaler.AssertExpectations(t)
}
