package commands

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puja9882/multimodal-parkinsons-detection/internal/config"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/pipeline"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/scoring"
)

type fakePredictor struct {
	got  pipeline.Request
	pred *pipeline.Prediction
	err  error
}

func (f *fakePredictor) Predict(req pipeline.Request) (*pipeline.Prediction, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	pred := *f.pred
	pred.Caution = req.AgeRule.Caution(req.Age)
	return &pred, nil
}

func withPredictor(t *testing.T, p Predictor) {
	t.Helper()
	orig := loader
	loader = func(*config.Config) (Predictor, func(), error) {
		return p, func() {}, nil
	}
	t.Cleanup(func() { loader = orig })
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestRequiredFlags(t *testing.T) {
	withPredictor(t, &fakePredictor{})

	_, err := execute(t, "--wav", "voice.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"img"`)

	_, err = execute(t, "--img", "spiral.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"wav"`)
}

func TestReport(t *testing.T) {
	fake := &fakePredictor{pred: &pipeline.Prediction{Result: scoring.Combine(0.8, 0.2, scoring.DefaultWeights())}}
	withPredictor(t, fake)

	out, err := execute(t, "--img", "spiral.png", "--wav", "voice.wav", "--age", "15")
	require.NoError(t, err)

	assert.Equal(t, "MODEL PATHS:\n"+
		" Drawing: models/drawing_model.onnx\n"+
		" Voice model: models/voice_model.onnx\n"+
		" Voice scaler: models/voice_scaler.json\n"+
		"\n--- PREDICTION RESULTS ---\n"+
		"Drawing Model (prob Parkinson): 0.8000\n"+
		"Voice  Model (prob Parkinson): 0.2000\n"+
		"Combined score (weighted):    0.5300\n"+
		"Decision: Parkinson\n"+
		"Confidence: 0.06 (0 low -> 1 high)\n"+
		"⚠ Age = 15.0: model may be unreliable for very young/old people; interpret result cautiously.\n",
		out)

	assert.Equal(t, "spiral.png", fake.got.ImagePath)
	assert.Equal(t, "voice.wav", fake.got.VoicePath)
	assert.Equal(t, scoring.DefaultWeights(), fake.got.Weights)
	assert.Equal(t, 18.0, fake.got.AgeRule.Min)
	assert.Equal(t, 80.0, fake.got.AgeRule.Max)
}

func TestWeightFlagsOverrideConfig(t *testing.T) {
	t.Setenv("DRAW_WEIGHT", "0.7")
	t.Setenv("VOICE_WEIGHT", "0.3")
	fake := &fakePredictor{pred: &pipeline.Prediction{}}
	withPredictor(t, fake)

	_, err := execute(t, "--img", "a.png", "--wav", "b.wav")
	require.NoError(t, err)
	assert.Equal(t, scoring.Weights{Drawing: 0.7, Voice: 0.3}, fake.got.Weights)

	_, err = execute(t, "--img", "a.png", "--wav", "b.wav", "--voice-weight", "0.9")
	require.NoError(t, err)
	assert.Equal(t, scoring.Weights{Drawing: 0.7, Voice: 0.9}, fake.got.Weights)
}

func TestPredictionError(t *testing.T) {
	withPredictor(t, &fakePredictor{err: errors.New("image not found: a.png")})

	out, err := execute(t, "--img", "a.png", "--wav", "b.wav")
	require.Error(t, err)
	assert.Equal(t, "image not found: a.png", err.Error())
	assert.NotContains(t, out, "PREDICTION RESULTS")
}
