package model

import "fmt"

type Layout string

const (
	LayoutNHWC Layout = "nhwc"
	LayoutNCHW Layout = "nchw"
)

type ChannelOrder string

const (
	OrderBGR ChannelOrder = "bgr"
	OrderRGB ChannelOrder = "rgb"
)

// Shape is the drawing model's input geometry for a batch of one.
type Shape struct {
	Height   int
	Width    int
	Channels int
	Layout   Layout
	Order    ChannelOrder
}

// DefaultShape is used when neither an override nor the model declares a usable input shape.
var DefaultShape = Shape{Height: 224, Width: 224, Channels: 3, Layout: LayoutNHWC, Order: OrderBGR}

// Dims returns the tensor dimensions including the batch axis.
func (s Shape) Dims() []int64 {
	if s.Layout == LayoutNCHW {
		return []int64{1, int64(s.Channels), int64(s.Height), int64(s.Width)}
	}
	return []int64{1, int64(s.Height), int64(s.Width), int64(s.Channels)}
}

func (s Shape) Size() int {
	return s.Height * s.Width * s.Channels
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d/%s/%s", s.Height, s.Width, s.Channels, s.Layout, s.Order)
}

// Shape sources reported by ResolveShape.
const (
	ShapeFromOverride = "override"
	ShapeFromModel    = "model"
	ShapeFromDefault  = "default"
)

// ResolveShape picks the drawing input shape: an explicit H,W,C override
// wins, then the dimensions the model declares, then DefaultShape. Declared
// dimensions that are dynamic, missing or not 1/3 channels are ignored.
func ResolveShape(override [3]int, layout Layout, order ChannelOrder, declared []int64) (Shape, string) {
	if layout == "" {
		layout = LayoutNHWC
	}
	if order == "" {
		order = OrderBGR
	}

	if override[0] > 0 && override[1] > 0 && override[2] > 0 {
		return Shape{Height: override[0], Width: override[1], Channels: override[2], Layout: layout, Order: order}, ShapeFromOverride
	}

	if len(declared) == 4 {
		var h, w, c int64
		if layout == LayoutNCHW {
			c, h, w = declared[1], declared[2], declared[3]
		} else {
			h, w, c = declared[1], declared[2], declared[3]
		}
		if h > 0 && w > 0 && (c == 1 || c == 3) {
			return Shape{Height: int(h), Width: int(w), Channels: int(c), Layout: layout, Order: order}, ShapeFromModel
		}
	}

	shape := DefaultShape
	shape.Layout = layout
	shape.Order = order
	return shape, ShapeFromDefault
}

// Info describes a loaded ONNX model for startup logging.
type Info struct {
	Path       string
	InputName  string
	OutputName string
	InputDims  []int64
	OutputDims []int64
}

// batchOne replaces dynamic dimensions with 1.
func batchOne(dims []int64) []int64 {
	out := make([]int64, len(dims))
	for i, d := range dims {
		if d <= 0 {
			d = 1
		}
		out[i] = d
	}
	return out
}
