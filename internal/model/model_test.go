package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puja9882/multimodal-parkinsons-detection/internal/domain"
)

func TestResolveShape(t *testing.T) {
	tests := []struct {
		name     string
		override [3]int
		layout   Layout
		declared []int64
		want     Shape
		source   string
	}{
		{
			name:     "override wins",
			override: [3]int{64, 32, 1},
			layout:   LayoutNHWC,
			declared: []int64{-1, 128, 128, 3},
			want:     Shape{Height: 64, Width: 32, Channels: 1, Layout: LayoutNHWC, Order: OrderBGR},
			source:   ShapeFromOverride,
		},
		{
			name:     "nhwc from model",
			layout:   LayoutNHWC,
			declared: []int64{-1, 128, 96, 1},
			want:     Shape{Height: 128, Width: 96, Channels: 1, Layout: LayoutNHWC, Order: OrderBGR},
			source:   ShapeFromModel,
		},
		{
			name:     "nchw from model",
			layout:   LayoutNCHW,
			declared: []int64{1, 3, 48, 40},
			want:     Shape{Height: 48, Width: 40, Channels: 3, Layout: LayoutNCHW, Order: OrderBGR},
			source:   ShapeFromModel,
		},
		{
			name:     "dynamic dims fall back",
			layout:   LayoutNHWC,
			declared: []int64{-1, -1, -1, 3},
			want:     DefaultShape,
			source:   ShapeFromDefault,
		},
		{
			name:     "unsupported channels fall back",
			layout:   LayoutNHWC,
			declared: []int64{1, 224, 224, 4},
			want:     DefaultShape,
			source:   ShapeFromDefault,
		},
		{
			name:   "no introspection",
			want:   DefaultShape,
			source: ShapeFromDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, source := ResolveShape(tt.override, tt.layout, OrderBGR, tt.declared)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.source, source)
		})
	}
}

func TestShapeDims(t *testing.T) {
	s := Shape{Height: 10, Width: 20, Channels: 3, Layout: LayoutNHWC}
	assert.Equal(t, []int64{1, 10, 20, 3}, s.Dims())
	assert.Equal(t, 600, s.Size())

	s.Layout = LayoutNCHW
	assert.Equal(t, []int64{1, 3, 10, 20}, s.Dims())
}

func TestBatchOne(t *testing.T) {
	assert.Equal(t, []int64{1, 2}, batchOne([]int64{-1, 2}))
	assert.Equal(t, []int64{1, 1}, batchOne([]int64{0, 1}))
}

func writeScaler(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scaler.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScaler(t *testing.T) {
	path := writeScaler(t, `{"mean":[100,20,0,1],"scale":[50,5,0,2],"feature_names":["f0","hnr","x","y"]}`)

	s, err := LoadScaler(path)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Width())

	out, err := s.Transform([]float64{150, 10, 3, 0})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, -2, 3, -0.5}, out, 1e-12)
}

func TestLoadScalerErrors(t *testing.T) {
	_, err := LoadScaler(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadScaler(writeScaler(t, `{"mean":[1,2],"scale":[1]}`))
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)

	_, err = LoadScaler(writeScaler(t, `{"mean":[]}`))
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)

	_, err = LoadScaler(writeScaler(t, `not json`))
	assert.Error(t, err)
}

func TestScalerCheck(t *testing.T) {
	s := &Scaler{Mean: []float64{0, 0, 0}, Scale: []float64{1, 1, 1}}

	assert.NoError(t, s.Check([]float64{1, 2, 3}))
	assert.ErrorIs(t, s.Check([]float64{1, 2}), domain.ErrShapeMismatch)

	assert.ErrorIs(t, s.Check([]float64{1, math.NaN(), 0}), domain.ErrInvalidFeature)
	assert.ErrorIs(t, s.Check([]float64{math.Inf(1), 0, 0}), domain.ErrInvalidFeature)

	_, err := s.Transform([]float64{1})
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestPositiveColumn(t *testing.T) {
	p, err := positiveColumn([]float32{0.25, 0.75})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, p, 1e-6)

	p, err = positiveColumn([]float32{1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)

	_, err = positiveColumn(nil)
	assert.Error(t, err)
}
