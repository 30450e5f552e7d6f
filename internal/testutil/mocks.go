package testutil

import (
	"github.com/stretchr/testify/mock"

	"github.com/puja9882/multimodal-parkinsons-detection/internal/model"
)

// ============================================================================
// Model mocks
// ============================================================================

type MockDrawingClassifier struct {
	mock.Mock
}

func (m *MockDrawingClassifier) Shape() model.Shape {
	args := m.Called()
	return args.Get(0).(model.Shape)
}

func (m *MockDrawingClassifier) Predict(tensor []float32) (float64, error) {
	args := m.Called(tensor)
	return args.Get(0).(float64), args.Error(1)
}

type MockVoiceClassifier struct {
	mock.Mock
}

func (m *MockVoiceClassifier) Predict(x []float32) (float64, error) {
	args := m.Called(x)
	return args.Get(0).(float64), args.Error(1)
}

type MockScaler struct {
	mock.Mock
}

func (m *MockScaler) Width() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockScaler) Check(x []float64) error {
	args := m.Called(x)
	return args.Error(0)
}

func (m *MockScaler) Transform(x []float64) ([]float64, error) {
	args := m.Called(x)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}
