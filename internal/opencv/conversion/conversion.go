package conversion

import (
	"fmt"
	"image"

	"dataload/internal/opencv/safe"
	"dataload/internal/tensor"

	"gocv.io/x/gocv"
)

// EXIF orientation tags are ignored so an image and its mask keep the
// stored pixel layout even when only one of them carries the tag.
const (
	readColor = gocv.IMReadColor | gocv.IMReadIgnoreOrientation
	readGray  = gocv.IMReadGrayScale | gocv.IMReadIgnoreOrientation
)

// ReadRGB decodes path as a three-channel image in R, G, B order.
func ReadRGB(path string) (*safe.Mat, error) {
	bgr, err := safe.Read(path, readColor)
	if err != nil {
		return nil, err
	}
	defer bgr.Close()

	dst := gocv.NewMat()
	gocv.CvtColor(bgr.GetMat(), &dst, gocv.ColorBGRToRGB)

	return safe.Wrap(dst, path)
}

// ReadGray decodes path as a single-channel 8-bit image.
func ReadGray(path string) (*safe.Mat, error) {
	return safe.Read(path, readGray)
}

// ResizeMat resizes src to exactly width x height with bilinear interpolation.
func ResizeMat(src *safe.Mat, width, height int) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "Mat resizing"); err != nil {
		return nil, err
	}

	if err := safe.ValidateDimensions(width, height, "Mat resizing"); err != nil {
		return nil, err
	}

	dst := gocv.NewMat()
	gocv.Resize(src.GetMat(), &dst, image.Point{X: width, Y: height}, 0, 0, gocv.InterpolationLinear)

	return safe.Wrap(dst, src.Tag()+"_resized")
}

// MatToTensor converts an 8-bit Mat into a channel-first tensor scaled to
// [0,1]. Channel order is preserved as stored in the Mat.
func MatToTensor(src *safe.Mat) (*tensor.Tensor, error) {
	if err := safe.ValidateMatForOperation(src, "tensor conversion"); err != nil {
		return nil, err
	}

	if err := safe.ValidateMatType(src.Type(), "tensor conversion"); err != nil {
		return nil, err
	}

	rows, cols, channels := src.Rows(), src.Cols(), src.Channels()

	data, err := src.Bytes()
	if err != nil {
		return nil, fmt.Errorf("pixel buffer read failed: %w", err)
	}

	if len(data) != rows*cols*channels {
		return nil, fmt.Errorf("pixel buffer has %d bytes, want %d", len(data), rows*cols*channels)
	}

	t, err := tensor.New(channels, rows, cols)
	if err != nil {
		return nil, err
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			base := (y*cols + x) * channels
			for c := 0; c < channels; c++ {
				t.Set(c, y, x, float64(data[base+c])/255)
			}
		}
	}

	return t, nil
}
