package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/puja9882/multimodal-parkinsons-detection/internal/domain"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/pipeline"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/scoring"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/web"
)

// multipartMemory is how much of an upload is kept in memory before
// spilling to disk.
const multipartMemory = 10 << 20

type Predictor interface {
	Predict(req pipeline.Request) (*pipeline.Prediction, error)
}

type Converter interface {
	ToWAV(ctx context.Context, src, dst string) error
}

type Options struct {
	Weights        scoring.Weights
	AgeRule        scoring.AgeRule
	MaxUploadBytes int64
	// TempDir holds per-request uploads; empty means os.TempDir().
	TempDir string
}

type Handler struct {
	predictor Predictor
	converter Converter
	opts      Options
}

func NewHandler(predictor Predictor, converter Converter, opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	return &Handler{
		predictor: predictor,
		converter: converter,
		opts:      opts,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(web.Templates())

	r.GET("/", h.page("home.html"))
	r.GET("/screening", h.page("screening.html"))
	r.GET("/about", h.page("about.html"))
	r.GET("/health", h.Health)
	r.POST("/predict", h.Predict)
}

func (h *Handler) page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, name, nil)
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *Handler) Predict(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			mapDomainError(c, domain.ErrUploadTooLarge)
			return
		}
	}

	files := &tempFiles{dir: h.opts.TempDir}
	defer files.cleanup()

	spiral, err := c.FormFile("spiral_img")
	if err != nil {
		mapDomainError(c, domain.ErrMissingSpiral)
		return
	}
	spiralPath, err := files.save(c, spiral, ".png")
	if err != nil {
		h.fail(c, "save spiral upload", err)
		return
	}

	voice, err := c.FormFile("voice_wav")
	if err != nil {
		mapDomainError(c, domain.ErrMissingVoice)
		return
	}
	name := voice.Filename
	if name == "" {
		name = "voice_input"
	}
	ext := strings.ToLower(filepath.Ext(name))
	voicePath, err := files.save(c, voice, ext)
	if err != nil {
		h.fail(c, "save voice upload", err)
		return
	}

	log.WithFields(log.Fields{
		"request_id":  c.GetString("request_id"),
		"spiral_size": spiral.Size,
		"voice_size":  voice.Size,
		"voice_ext":   ext,
	}).Info("screening request received")

	if ext == ".webm" {
		wavPath, err := files.create(".wav")
		if err != nil {
			h.fail(c, "create wav file", err)
			return
		}
		if err := h.converter.ToWAV(c.Request.Context(), voicePath, wavPath); err != nil {
			log.WithError(err).Warn("webm conversion failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to convert webm to wav: %v", err)})
			return
		}
		voicePath = wavPath
	}

	rule := h.opts.AgeRule
	pred, err := h.predictor.Predict(pipeline.Request{
		ImagePath: spiralPath,
		VoicePath: voicePath,
		Age:       c.PostForm("age"),
		Weights:   h.opts.Weights,
		AgeRule:   &rule,
	})
	if err != nil {
		log.WithError(err).Error("prediction failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPredictResponse(pred))
}

func (h *Handler) fail(c *gin.Context, what string, err error) {
	log.WithError(err).Error(what)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
