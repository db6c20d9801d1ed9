// Package loader decodes image/mask pairs from disk into channel-first
// tensors.
package loader

import (
	"errors"
	"fmt"
	"os"

	"dataload/internal/debug/timing"
	"dataload/internal/logger"
	"dataload/internal/opencv/conversion"
	"dataload/internal/opencv/safe"
	"dataload/internal/tensor"
)

var ErrDecode = errors.New("image decode failed")

type ImageLoader struct {
	logger        logger.Logger
	timingTracker *timing.Tracker
}

func NewImageLoader(log logger.Logger, tracker *timing.Tracker) *ImageLoader {
	if log == nil {
		log = logger.Nop()
	}
	if tracker == nil {
		tracker = timing.NewTracker(log)
	}
	return &ImageLoader{logger: log, timingTracker: tracker}
}

// Load decodes imagePath as RGB and maskPath as grayscale with a default
// ImageLoader. See ImageLoader.LoadPair.
func Load(imagePath, maskPath string, size *tensor.Size) (*tensor.Tensor, *tensor.Tensor, error) {
	return NewImageLoader(nil, nil).LoadPair(imagePath, maskPath, size)
}

// LoadPair returns the image as a (3, H, W) tensor and the mask as a
// (1, H, W) tensor. When size is non-nil both are resized to exactly
// size.Width x size.Height. Image and mask dimensions are not compared.
func (l *ImageLoader) LoadPair(imagePath, maskPath string, size *tensor.Size) (*tensor.Tensor, *tensor.Tensor, error) {
	ctx := l.timingTracker.StartTiming("load_pair")
	defer l.timingTracker.EndTiming(ctx)

	img, err := l.LoadImage(imagePath, size)
	if err != nil {
		return nil, nil, err
	}

	mask, err := l.LoadMask(maskPath, size)
	if err != nil {
		return nil, nil, err
	}

	l.logger.Info("ImageLoader", "pair loaded", map[string]interface{}{
		"image":      imagePath,
		"mask":       maskPath,
		"image_size": fmt.Sprintf("%dx%d", img.Width(), img.Height()),
		"mask_size":  fmt.Sprintf("%dx%d", mask.Width(), mask.Height()),
	})

	return img, mask, nil
}

// LoadImage decodes path as RGB into a (3, H, W) tensor.
func (l *ImageLoader) LoadImage(path string, size *tensor.Size) (*tensor.Tensor, error) {
	return l.load(path, size, "image", conversion.ReadRGB)
}

// LoadMask decodes path as grayscale into a (1, H, W) tensor.
func (l *ImageLoader) LoadMask(path string, size *tensor.Size) (*tensor.Tensor, error) {
	return l.load(path, size, "mask", conversion.ReadGray)
}

func (l *ImageLoader) load(path string, size *tensor.Size, kind string, read func(string) (*safe.Mat, error)) (*tensor.Tensor, error) {
	ctx := l.timingTracker.StartTiming("load_" + kind)
	defer l.timingTracker.EndTiming(ctx)

	if size != nil {
		if err := size.Validate(); err != nil {
			return nil, fmt.Errorf("%s target size: %w", kind, err)
		}
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", kind, err)
	}

	mat, err := read(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrDecode, kind, path, err)
	}
	defer mat.Close()

	l.logger.Debug("ImageLoader", kind+" decoded", map[string]interface{}{
		"path":     path,
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	})

	if size != nil && (mat.Cols() != size.Width || mat.Rows() != size.Height) {
		resized, err := conversion.ResizeMat(mat, size.Width, size.Height)
		if err != nil {
			return nil, fmt.Errorf("failed to resize %s to %s: %w", kind, size, err)
		}
		defer resized.Close()
		mat = resized
	}

	t, err := conversion.MatToTensor(mat)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", kind, err)
	}

	return t, nil
}
