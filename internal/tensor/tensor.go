// Package tensor holds channel-first float tensors used for image and mask
// data. Each channel is a gonum dense matrix of Height rows by Width columns.
package tensor

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/mat"
)

var ErrShape = errors.New("invalid tensor shape")

type Tensor struct {
	planes []*mat.Dense
	height int
	width  int
}

// New allocates a zeroed tensor of shape (c, h, w).
func New(c, h, w int) (*Tensor, error) {
	if c <= 0 || h <= 0 || w <= 0 {
		return nil, fmt.Errorf("%w: (%d, %d, %d)", ErrShape, c, h, w)
	}

	planes := make([]*mat.Dense, c)
	for i := range planes {
		planes[i] = mat.NewDense(h, w, nil)
	}
	return &Tensor{planes: planes, height: h, width: w}, nil
}

func (t *Tensor) Channels() int { return len(t.planes) }
func (t *Tensor) Height() int   { return t.height }
func (t *Tensor) Width() int    { return t.width }

// Shape returns (C, H, W).
func (t *Tensor) Shape() []int {
	return []int{len(t.planes), t.height, t.width}
}

func (t *Tensor) At(c, y, x int) float64 {
	return t.planes[c].At(y, x)
}

func (t *Tensor) Set(c, y, x int, v float64) {
	t.planes[c].Set(y, x, v)
}

// Plane exposes the backing matrix of channel c.
func (t *Tensor) Plane(c int) *mat.Dense {
	return t.planes[c]
}

func (t *Tensor) Min() float64 {
	lo := math.Inf(1)
	for _, p := range t.planes {
		lo = math.Min(lo, mat.Min(p))
	}
	return lo
}

func (t *Tensor) Max() float64 {
	hi := math.Inf(-1)
	for _, p := range t.planes {
		hi = math.Max(hi, mat.Max(p))
	}
	return hi
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(%d, %d, %d)", len(t.planes), t.height, t.width)
}

// ToImage permutes the tensor to height-width-channel order for display.
// One channel yields *image.Gray, three yield *image.RGBA.
func (t *Tensor) ToImage() (image.Image, error) {
	rect := image.Rect(0, 0, t.width, t.height)

	switch len(t.planes) {
	case 1:
		img := image.NewGray(rect)
		for y := 0; y < t.height; y++ {
			for x := 0; x < t.width; x++ {
				img.SetGray(x, y, color.Gray{Y: toByte(t.At(0, y, x))})
			}
		}
		return img, nil
	case 3:
		img := image.NewRGBA(rect)
		for y := 0; y < t.height; y++ {
			for x := 0; x < t.width; x++ {
				img.SetRGBA(x, y, color.RGBA{
					R: toByte(t.At(0, y, x)),
					G: toByte(t.At(1, y, x)),
					B: toByte(t.At(2, y, x)),
					A: 255,
				})
			}
		}
		return img, nil
	default:
		return nil, fmt.Errorf("%w: cannot display %d channels", ErrShape, len(t.planes))
	}
}

func toByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(math.Round(v * 255))
	}
}
