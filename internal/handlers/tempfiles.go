package handlers

import (
	"mime/multipart"
	"os"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// tempFiles tracks the files created for one request so they can be
// removed once it is answered.
type tempFiles struct {
	dir   string
	paths []string
}

func (t *tempFiles) create(suffix string) (string, error) {
	f, err := os.CreateTemp(t.dir, "screening-*"+suffix)
	if err != nil {
		return "", err
	}
	path := f.Name()
	t.paths = append(t.paths, path)
	return path, f.Close()
}

func (t *tempFiles) save(c *gin.Context, fh *multipart.FileHeader, suffix string) (string, error) {
	path, err := t.create(suffix)
	if err != nil {
		return "", err
	}
	return path, c.SaveUploadedFile(fh, path)
}

// cleanup is best-effort.
func (t *tempFiles) cleanup() {
	for _, p := range t.paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.WithError(err).WithField("path", p).Debug("temp file not removed")
		}
	}
	t.paths = nil
}
