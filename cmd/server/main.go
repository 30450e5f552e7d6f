package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/puja9882/multimodal-parkinsons-detection/internal/config"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/handlers"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/logging"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/middleware"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/model"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/pipeline"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/scoring"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/transcode"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Init(cfg.Logger, nil)

	models, err := model.Load(cfg)
	if err != nil {
		log.Fatalf("load models: %v", err)
	}
	defer models.Close()

	rule := scoring.HTTPAgeRule()
	rule.Min, rule.Max = cfg.Scoring.HTTPAge.Min, cfg.Scoring.HTTPAge.Max

	h := handlers.NewHandler(
		pipeline.FromModels(models),
		transcode.NewFFmpeg(cfg.Transcode.FFmpegPath, cfg.Transcode.Timeout),
		handlers.Options{
			Weights:        scoring.Weights{Drawing: cfg.Scoring.DrawWeight, Voice: cfg.Scoring.VoiceWeight},
			AgeRule:        rule,
			MaxUploadBytes: cfg.Server.UploadMaxBytes,
		},
	)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), middleware.CORS(), gin.Recovery())
	h.RegisterRoutes(router)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}
