package domain

import "errors"

var (
	ErrImageNotFound  = errors.New("image not found")
	ErrMissingSpiral  = errors.New("spiral_img is required")
	ErrMissingVoice   = errors.New("voice_wav is required")
	ErrTranscode      = errors.New("transcode failed")
	ErrShapeMismatch  = errors.New("feature shape mismatch")
	ErrInvalidShape   = errors.New("invalid model input shape")
	ErrUploadTooLarge = errors.New("upload too large")
	ErrInvalidFeature = errors.New("invalid feature value")
)
