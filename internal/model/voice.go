package model

import (
	"fmt"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/puja9882/multimodal-parkinsons-detection/internal/config"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/domain"
)

// VoiceModel runs the tabular classifier on a scaled feature row.
type VoiceModel struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	width        int
	Info         Info
}

// NewVoiceModel loads the classifier for rows of width features. A model
// that declares a different static width is rejected.
func NewVoiceModel(cfg config.VoiceConfig, width int) (*VoiceModel, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("voice model: %w", err)
	}

	outputDims := []int64{1, 2}
	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		log.WithError(err).Warn("voice model shape introspection failed")
	} else {
		if dims := findDims(inputs, cfg.InputName); len(dims) == 2 && dims[1] > 0 && int(dims[1]) != width {
			return nil, fmt.Errorf("%w: voice model expects %d features, scaler has %d", domain.ErrShapeMismatch, dims[1], width)
		}
		if dims := findDims(outputs, cfg.OutputName); len(dims) > 0 {
			outputDims = batchOne(dims)
		}
	}

	inputDims := []int64{1, int64(width)}
	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(inputDims...))
	if err != nil {
		return nil, fmt.Errorf("failed to create voice input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(outputDims...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create voice output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(cfg.ModelPath,
		[]string{cfg.InputName}, []string{cfg.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create voice session: %w", err)
	}

	return &VoiceModel{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		width:        width,
		Info: Info{
			Path:       cfg.ModelPath,
			InputName:  cfg.InputName,
			OutputName: cfg.OutputName,
			InputDims:  inputDims,
			OutputDims: outputDims,
		},
	}, nil
}

// Predict returns the positive-class probability. With a single output
// column the value is the classifier's own prediction.
func (m *VoiceModel) Predict(x []float32) (float64, error) {
	if len(x) != m.width {
		return 0, fmt.Errorf("%w: voice model expects %d features, got %d", domain.ErrShapeMismatch, m.width, len(x))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copy(m.inputTensor.GetData(), x)
	if err := m.session.Run(); err != nil {
		return 0, fmt.Errorf("voice inference failed: %w", err)
	}

	return positiveColumn(m.outputTensor.GetData())
}

func positiveColumn(out []float32) (float64, error) {
	switch {
	case len(out) >= 2:
		return float64(out[1]), nil
	case len(out) == 1:
		return float64(out[0]), nil
	default:
		return 0, fmt.Errorf("voice inference returned no values")
	}
}

func (m *VoiceModel) Close() {
	if m.inputTensor != nil {
		m.inputTensor.Destroy()
	}
	if m.outputTensor != nil {
		m.outputTensor.Destroy()
	}
	if m.session != nil {
		m.session.Destroy()
	}
}
