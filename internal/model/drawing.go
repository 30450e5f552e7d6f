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

// DrawingModel runs the spiral-drawing CNN. Its tensors are bound to the
// session once, so Predict calls are serialized.
type DrawingModel struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	shape        Shape
	Info         Info
}

func NewDrawingModel(cfg config.DrawingConfig) (*DrawingModel, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("drawing model: %w", err)
	}

	var declared []int64
	outputDims := []int64{1, 1}
	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		log.WithError(err).Warn("drawing model shape introspection failed")
	} else {
		declared = findDims(inputs, cfg.InputName)
		if dims := findDims(outputs, cfg.OutputName); len(dims) > 0 {
			outputDims = batchOne(dims)
		}
	}

	shape, source := ResolveShape(cfg.InputShape, Layout(cfg.Layout), ChannelOrder(cfg.ChannelOrder), declared)
	log.WithFields(log.Fields{"shape": shape.String(), "source": source}).Info("drawing input shape resolved")

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(shape.Dims()...))
	if err != nil {
		return nil, fmt.Errorf("failed to create drawing input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(outputDims...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create drawing output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(cfg.ModelPath,
		[]string{cfg.InputName}, []string{cfg.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create drawing session: %w", err)
	}

	return &DrawingModel{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		shape:        shape,
		Info: Info{
			Path:       cfg.ModelPath,
			InputName:  cfg.InputName,
			OutputName: cfg.OutputName,
			InputDims:  shape.Dims(),
			OutputDims: outputDims,
		},
	}, nil
}

// Shape is the input geometry resolved at load time.
func (m *DrawingModel) Shape() Shape {
	return m.shape
}

// Predict returns the first output value, the probability of the positive class.
func (m *DrawingModel) Predict(tensor []float32) (float64, error) {
	if len(tensor) != m.shape.Size() {
		return 0, fmt.Errorf("%w: drawing model expects %d values, got %d", domain.ErrShapeMismatch, m.shape.Size(), len(tensor))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copy(m.inputTensor.GetData(), tensor)
	if err := m.session.Run(); err != nil {
		return 0, fmt.Errorf("drawing inference failed: %w", err)
	}

	out := m.outputTensor.GetData()
	if len(out) == 0 {
		return 0, fmt.Errorf("drawing inference returned no values")
	}
	return float64(out[0]), nil
}

func (m *DrawingModel) Close() {
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

// findDims returns the dimensions of the named tensor, or of the first one
// when name is not declared.
func findDims(infos []ort.InputOutputInfo, name string) []int64 {
	for _, info := range infos {
		if info.Name == name {
			return []int64(info.Dimensions)
		}
	}
	if len(infos) > 0 {
		return []int64(infos[0].Dimensions)
	}
	return nil
}
