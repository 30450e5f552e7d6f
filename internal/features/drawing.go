// Package features turns raw uploads into model inputs: a normalized image
// tensor for the drawing model and a fixed-width acoustic row for the
// voice model.
package features

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/nfnt/resize"
	log "github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/puja9882/multimodal-parkinsons-detection/internal/domain"
	"github.com/puja9882/multimodal-parkinsons-detection/internal/model"
)

// Tensor is a batch of one image laid out as Shape.Dims().
type Tensor struct {
	Data  []float32
	Shape model.Shape
}

// DrawingTensor reads the image at path and converts it to the model's input.
// Missing or undecodable files fail with domain.ErrImageNotFound.
func DrawingTensor(path string, shape model.Shape) (*Tensor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrImageNotFound, path)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrImageNotFound, path, err)
	}

	log.WithFields(log.Fields{
		"format": format,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
		"target": shape.String(),
	}).Debug("drawing decoded")

	return &Tensor{Data: imageToTensor(img, shape), Shape: shape}, nil
}

func imageToTensor(img image.Image, shape model.Shape) []float32 {
	resized := resize.Resize(uint(shape.Width), uint(shape.Height), img, resize.Bilinear)

	bounds := resized.Bounds()
	width, height := shape.Width, shape.Height
	channels := shape.Channels
	plane := width * height
	data := make([]float32, plane*channels)

	px := make([]float32, 3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(resized.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			px = pixel(px[:0], c, channels, shape.Order)

			pixelIndex := y*width + x
			for ch, v := range px {
				if shape.Layout == model.LayoutNCHW {
					data[ch*plane+pixelIndex] = v
				} else {
					data[pixelIndex*channels+ch] = v
				}
			}
		}
	}
	return data
}

// pixel appends the normalized channel values of c to dst.
func pixel(dst []float32, c color.NRGBA, channels int, order model.ChannelOrder) []float32 {
	if channels == 1 {
		y := (19595*uint32(c.R) + 38470*uint32(c.G) + 7471*uint32(c.B) + 1<<15) >> 16
		return append(dst, float32(y)/255)
	}
	r, g, b := float32(c.R)/255, float32(c.G)/255, float32(c.B)/255
	if order == model.OrderRGB {
		return append(dst, r, g, b)
	}
	return append(dst, b, g, r)
}
