// Package model loads the three screening artifacts: the drawing CNN and
// the voice classifier as ONNX sessions, and the voice feature scaler.
package model

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/puja9882/multimodal-parkinsons-detection/internal/config"
)

// Models is the application context holding the loaded artifacts. It is
// built once at startup and is read-only afterwards.
type Models struct {
	Drawing *DrawingModel
	Voice   *VoiceModel
	Scaler  *Scaler
}

// Load initializes ONNX Runtime and loads every artifact. Any failure is
// returned as is; there is no partial mode.
func Load(cfg *config.Config) (*Models, error) {
	if cfg.Runtime.LibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.Runtime.LibraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	scaler, err := LoadScaler(cfg.Voice.ScalerPath)
	if err != nil {
		ort.DestroyEnvironment()
		return nil, err
	}

	drawing, err := NewDrawingModel(cfg.Drawing)
	if err != nil {
		ort.DestroyEnvironment()
		return nil, err
	}

	voice, err := NewVoiceModel(cfg.Voice, scaler.Width())
	if err != nil {
		drawing.Close()
		ort.DestroyEnvironment()
		return nil, err
	}

	log.WithFields(log.Fields{
		"drawing":        drawing.Info.Path,
		"drawing_input":  drawing.Info.InputDims,
		"voice":          voice.Info.Path,
		"voice_features": scaler.Width(),
		"scaler":         cfg.Voice.ScalerPath,
	}).Info("models loaded")

	return &Models{Drawing: drawing, Voice: voice, Scaler: scaler}, nil
}

func (m *Models) Close() {
	if m.Drawing != nil {
		m.Drawing.Close()
	}
	if m.Voice != nil {
		m.Voice.Close()
	}
	ort.DestroyEnvironment()
}
