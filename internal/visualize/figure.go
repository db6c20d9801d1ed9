// Package visualize renders an image tensor and its mask side by side,
// either into a PNG figure or into an interactive window.
package visualize

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"dataload/internal/tensor"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	ImageTitle = "Input Image"
	MaskTitle  = "Mask"
)

var ErrChannels = errors.New("unexpected channel count")

// Figure lays out the image and mask as a 1x2 grid of titled panels.
type Figure struct {
	Width  vg.Length
	Height vg.Length
}

func NewFigure(width, height vg.Length) *Figure {
	return &Figure{Width: width, Height: height}
}

// Panels converts the tensors into displayable images after checking that
// img has three channels and mask has one.
func Panels(img, mask *tensor.Tensor) (image.Image, image.Image, error) {
	if img == nil || mask == nil {
		return nil, nil, errors.New("image and mask are required")
	}
	if img.Channels() != 3 {
		return nil, nil, fmt.Errorf("%w: image has %d channels, want 3", ErrChannels, img.Channels())
	}
	if mask.Channels() != 1 {
		return nil, nil, fmt.Errorf("%w: mask has %d channels, want 1", ErrChannels, mask.Channels())
	}

	left, err := img.ToImage()
	if err != nil {
		return nil, nil, err
	}
	right, err := mask.ToImage()
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

// Render draws the figure into an in-memory raster at 72 dpi.
func (f *Figure) Render(img, mask *tensor.Tensor) (image.Image, error) {
	c, err := f.draw(img, mask)
	if err != nil {
		return nil, err
	}
	return c.Image(), nil
}

// WriteTo encodes the figure as PNG.
func (f *Figure) WriteTo(w io.Writer, img, mask *tensor.Tensor) error {
	c, err := f.draw(img, mask)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode figure: %w", err)
	}
	return nil
}

// Save writes the figure as a PNG file at path.
func (f *Figure) Save(path string, img, mask *tensor.Tensor) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create figure file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	return f.WriteTo(file, img, mask)
}

func (f *Figure) draw(img, mask *tensor.Tensor) (*vgimg.Canvas, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("figure size must be positive, got %vx%v", f.Width, f.Height)
	}

	left, right, err := Panels(img, mask)
	if err != nil {
		return nil, err
	}

	plots := [][]*plot.Plot{{
		panel(ImageTitle, left),
		panel(MaskTitle, right),
	}}

	c := vgimg.New(f.Width, f.Height)
	dc := draw.New(c)

	tiles := draw.Tiles{
		Rows:      1,
		Cols:      2,
		PadX:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}

	canvases := plot.Align(plots, tiles, dc)
	for j, p := range plots[0] {
		p.Draw(canvases[0][j])
	}
	return c, nil
}

func panel(title string, img image.Image) *plot.Plot {
	b := img.Bounds()

	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	p.X.Min, p.X.Max = 0, float64(b.Dx())
	p.Y.Min, p.Y.Max = 0, float64(b.Dy())
	p.Add(plotter.NewImage(img, 0, 0, float64(b.Dx()), float64(b.Dy())))
	return p
}
