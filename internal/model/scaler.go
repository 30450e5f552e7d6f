package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/puja9882/multimodal-parkinsons-detection/internal/domain"
)

// Scaler holds fitted standard-scaler parameters exported from training.
type Scaler struct {
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
	FeatureNames []string  `json:"feature_names,omitempty"`
}

func LoadScaler(path string) (*Scaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scaler: %w", err)
	}

	var s Scaler
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scaler: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scaler %s: %w", path, err)
	}
	return &s, nil
}

func (s *Scaler) validate() error {
	if len(s.Mean) == 0 {
		return fmt.Errorf("%w: scaler has no features", domain.ErrShapeMismatch)
	}
	if len(s.Scale) != len(s.Mean) {
		return fmt.Errorf("%w: %d means but %d scales", domain.ErrShapeMismatch, len(s.Mean), len(s.Scale))
	}
	if len(s.FeatureNames) > 0 && len(s.FeatureNames) != len(s.Mean) {
		return fmt.Errorf("%w: %d feature names for %d features", domain.ErrShapeMismatch, len(s.FeatureNames), len(s.Mean))
	}
	return nil
}

// Width is the number of features the scaler was fitted on.
func (s *Scaler) Width() int {
	return len(s.Mean)
}

// Check reports whether x can be transformed: it must have exactly Width
// finite values.
func (s *Scaler) Check(x []float64) error {
	if len(x) != s.Width() {
		return fmt.Errorf("%w: scaler expects %d features, got %d", domain.ErrShapeMismatch, s.Width(), len(x))
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: feature %d is %v", domain.ErrInvalidFeature, i, v)
		}
	}
	return nil
}

func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if err := s.Check(x); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, v := range x {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}
