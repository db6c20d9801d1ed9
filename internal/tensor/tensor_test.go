package tensor

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tensorFromRGBA builds a (3, H, W) tensor from src the way the loader
// scales 8-bit samples.
func tensorFromRGBA(t *testing.T, src *image.RGBA) *Tensor {
	t.Helper()
	b := src.Bounds()
	tt, err := New(3, b.Dy(), b.Dx())
	require.NoError(t, err)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := src.RGBAAt(b.Min.X+x, b.Min.Y+y)
			tt.Set(0, y, x, float64(c.R)/255)
			tt.Set(1, y, x, float64(c.G)/255)
			tt.Set(2, y, x, float64(c.B)/255)
		}
	}
	return tt
}

func TestNewRejectsNonPositiveDims(t *testing.T) {
	for _, dims := range [][3]int{{0, 2, 2}, {3, 0, 2}, {3, 2, -1}} {
		_, err := New(dims[0], dims[1], dims[2])
		assert.ErrorIs(t, err, ErrShape, "dims %v", dims)
	}
}

func TestSetAtAndRange(t *testing.T) {
	tt, err := New(3, 2, 4)
	require.NoError(t, err)

	tt.Set(1, 1, 3, 0.75)
	tt.Set(2, 0, 0, 0.25)

	assert.Equal(t, []int{3, 2, 4}, tt.Shape())
	assert.Equal(t, 0.75, tt.At(1, 1, 3))
	assert.Equal(t, 0.75, tt.Plane(1).At(1, 3))
	assert.Equal(t, 0.0, tt.Min())
	assert.Equal(t, 0.75, tt.Max())
	assert.Equal(t, "Tensor(3, 2, 4)", tt.String())
}

func TestToImageRoundTripsPixels(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	tt := tensorFromRGBA(t, src)

	out, err := tt.ToImage()
	require.NoError(t, err)
	rgba, ok := out.(*image.RGBA)
	require.True(t, ok)
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, rgba.RGBAAt(1, 1))

	mask, err := New(1, 1, 1)
	require.NoError(t, err)
	mask.Set(0, 0, 0, 2.5)
	gray, err := mask.ToImage()
	require.NoError(t, err)
	assert.Equal(t, color.Gray{Y: 255}, gray.(*image.Gray).GrayAt(0, 0))
}

func TestToImageRejectsTwoChannels(t *testing.T) {
	tt, err := New(2, 1, 1)
	require.NoError(t, err)
	_, err = tt.ToImage()
	assert.ErrorIs(t, err, ErrShape)
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    Size
		wantErr bool
	}{
		{"256x128", Size{Width: 256, Height: 128}, false},
		{"64", Size{Width: 64, Height: 64}, false},
		{" 32X16 ", Size{Width: 32, Height: 16}, false},
		{"0x10", Size{}, true},
		{"axb", Size{}, true},
		{"1x2x3", Size{}, true},
		{"", Size{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Size {
	t.Helper()
	size, err := ParseSize(s)
	require.NoError(t, err)
	return size
}
