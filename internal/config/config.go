package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/puja9882/multimodal-parkinsons-detection/internal/domain"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Runtime   RuntimeConfig
	Drawing   DrawingConfig
	Voice     VoiceConfig
	Scoring   ScoringConfig
	Transcode TranscodeConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	UploadMaxBytes int64
}

type LoggerConfig struct {
	Level  string
	Format string
}

// RuntimeConfig locates the ONNX Runtime shared library. An empty path
// keeps the runtime's platform default.
type RuntimeConfig struct {
	LibraryPath string
}

type DrawingConfig struct {
	ModelPath  string
	InputName  string
	OutputName string
	// InputShape is an optional H,W,C override. Zero means introspect the model.
	InputShape   [3]int
	Layout       string
	ChannelOrder string
}

type VoiceConfig struct {
	ModelPath  string
	InputName  string
	OutputName string
	ScalerPath string
}

type AgeRange struct {
	Min float64
	Max float64
}

type ScoringConfig struct {
	DrawWeight  float64
	VoiceWeight float64
	CLIAge      AgeRange
	HTTPAge     AgeRange
}

type TranscodeConfig struct {
	FFmpegPath string
	Timeout    time.Duration
}

// Load reads defaults, then the optional config file (path, or CONFIG_FILE
// when path is empty), then the environment.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 10000)
	v.SetDefault("UPLOAD_MAX_BYTES", 32<<20)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("ORT_LIBRARY_PATH", "")
	v.SetDefault("DRAWING_MODEL_PATH", "models/drawing_model.onnx")
	v.SetDefault("DRAWING_INPUT_NAME", "input")
	v.SetDefault("DRAWING_OUTPUT_NAME", "output")
	v.SetDefault("DRAWING_INPUT_SHAPE", "")
	v.SetDefault("DRAWING_LAYOUT", "nhwc")
	v.SetDefault("DRAWING_CHANNEL_ORDER", "bgr")
	v.SetDefault("VOICE_MODEL_PATH", "models/voice_model.onnx")
	v.SetDefault("VOICE_INPUT_NAME", "float_input")
	v.SetDefault("VOICE_OUTPUT_NAME", "probabilities")
	v.SetDefault("VOICE_SCALER_PATH", "models/voice_scaler.json")
	v.SetDefault("DRAW_WEIGHT", 0.55)
	v.SetDefault("VOICE_WEIGHT", 0.45)
	v.SetDefault("CLI_AGE_MIN", 18)
	v.SetDefault("CLI_AGE_MAX", 80)
	v.SetDefault("HTTP_AGE_MIN", 11)
	v.SetDefault("HTTP_AGE_MAX", 75)
	v.SetDefault("FFMPEG_PATH", "ffmpeg")
	v.SetDefault("TRANSCODE_TIMEOUT", "30s")

	v.AutomaticEnv()

	if path == "" {
		path = v.GetString("CONFIG_FILE")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	timeout, err := time.ParseDuration(v.GetString("TRANSCODE_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSCODE_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("TRANSCODE_TIMEOUT must be positive, got %s", timeout)
	}

	shape, err := ParseShape(v.GetString("DRAWING_INPUT_SHAPE"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("SERVER_HOST"),
			Port:           v.GetInt("SERVER_PORT"),
			UploadMaxBytes: v.GetInt64("UPLOAD_MAX_BYTES"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
		Runtime: RuntimeConfig{
			LibraryPath: v.GetString("ORT_LIBRARY_PATH"),
		},
		Drawing: DrawingConfig{
			ModelPath:    v.GetString("DRAWING_MODEL_PATH"),
			InputName:    v.GetString("DRAWING_INPUT_NAME"),
			OutputName:   v.GetString("DRAWING_OUTPUT_NAME"),
			InputShape:   shape,
			Layout:       strings.ToLower(v.GetString("DRAWING_LAYOUT")),
			ChannelOrder: strings.ToLower(v.GetString("DRAWING_CHANNEL_ORDER")),
		},
		Voice: VoiceConfig{
			ModelPath:  v.GetString("VOICE_MODEL_PATH"),
			InputName:  v.GetString("VOICE_INPUT_NAME"),
			OutputName: v.GetString("VOICE_OUTPUT_NAME"),
			ScalerPath: v.GetString("VOICE_SCALER_PATH"),
		},
		Scoring: ScoringConfig{
			DrawWeight:  v.GetFloat64("DRAW_WEIGHT"),
			VoiceWeight: v.GetFloat64("VOICE_WEIGHT"),
			CLIAge:      AgeRange{Min: v.GetFloat64("CLI_AGE_MIN"), Max: v.GetFloat64("CLI_AGE_MAX")},
			HTTPAge:     AgeRange{Min: v.GetFloat64("HTTP_AGE_MIN"), Max: v.GetFloat64("HTTP_AGE_MAX")},
		},
		Transcode: TranscodeConfig{
			FFmpegPath: v.GetString("FFMPEG_PATH"),
			Timeout:    timeout,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if math.IsNaN(c.Scoring.DrawWeight) || math.IsInf(c.Scoring.DrawWeight, 0) {
		return fmt.Errorf("invalid DRAW_WEIGHT %v", c.Scoring.DrawWeight)
	}
	if math.IsNaN(c.Scoring.VoiceWeight) || math.IsInf(c.Scoring.VoiceWeight, 0) {
		return fmt.Errorf("invalid VOICE_WEIGHT %v", c.Scoring.VoiceWeight)
	}
	if c.Scoring.CLIAge.Min > c.Scoring.CLIAge.Max {
		return fmt.Errorf("CLI age range is empty: min %v > max %v", c.Scoring.CLIAge.Min, c.Scoring.CLIAge.Max)
	}
	if c.Scoring.HTTPAge.Min > c.Scoring.HTTPAge.Max {
		return fmt.Errorf("HTTP age range is empty: min %v > max %v", c.Scoring.HTTPAge.Min, c.Scoring.HTTPAge.Max)
	}
	switch c.Drawing.Layout {
	case "nhwc", "nchw":
	default:
		return fmt.Errorf("unknown DRAWING_LAYOUT %q", c.Drawing.Layout)
	}
	switch c.Drawing.ChannelOrder {
	case "bgr", "rgb":
	default:
		return fmt.Errorf("unknown DRAWING_CHANNEL_ORDER %q", c.Drawing.ChannelOrder)
	}
	if c.Server.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

// ParseShape parses an "H,W,C" override. The empty string yields the zero shape.
func ParseShape(s string) ([3]int, error) {
	var shape [3]int
	s = strings.TrimSpace(s)
	if s == "" {
		return shape, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return shape, fmt.Errorf("%w: DRAWING_INPUT_SHAPE must be H,W,C, got %q", domain.ErrInvalidShape, s)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return shape, fmt.Errorf("%w: DRAWING_INPUT_SHAPE has invalid dimension %q", domain.ErrInvalidShape, p)
		}
		shape[i] = n
	}
	if shape[2] != 1 && shape[2] != 3 {
		return shape, fmt.Errorf("%w: DRAWING_INPUT_SHAPE channels must be 1 or 3, got %d", domain.ErrInvalidShape, shape[2])
	}
	return shape, nil
}
