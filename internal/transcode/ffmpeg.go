// Package transcode converts browser-recorded audio to WAV with ffmpeg.
package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/puja9882/multimodal-parkinsons-detection/internal/domain"
)

type FFmpeg struct {
	Binary  string
	Timeout time.Duration
}

func NewFFmpeg(binary string, timeout time.Duration) *FFmpeg {
	if binary == "" {
		binary = "ffmpeg"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FFmpeg{Binary: binary, Timeout: timeout}
}

// ToWAV writes src as a WAV file at dst, overwriting it. Failures wrap
// domain.ErrTranscode and carry ffmpeg's stderr.
func (f *FFmpeg) ToWAV(ctx context.Context, src, dst string) error {
	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.Binary, "-nostdin", "-hide_banner", "-loglevel", "error",
		"-y", "-i", src, "-f", "wav", dst)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if ctx.Err() == context.DeadlineExceeded {
			msg = fmt.Sprintf("timed out after %s", f.Timeout)
		}
		if msg == "" {
			return fmt.Errorf("%w: %v", domain.ErrTranscode, err)
		}
		return fmt.Errorf("%w: %v: %s", domain.ErrTranscode, err, msg)
	}

	log.WithFields(log.Fields{
		"src":        src,
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("audio transcoded")
	return nil
}
