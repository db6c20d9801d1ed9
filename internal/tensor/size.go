package tensor

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is a spatial target in pixels.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ParseSize accepts "WxH" or a single "N" for a square N×N target.
func ParseSize(s string) (Size, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Size{}, fmt.Errorf("empty size")
	}

	parts := strings.Split(s, "x")
	if len(parts) > 2 {
		return Size{}, fmt.Errorf("invalid size %q", s)
	}

	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Size{}, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	h := w
	if len(parts) == 2 {
		h, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return Size{}, fmt.Errorf("invalid height in %q: %w", s, err)
		}
	}

	size := Size{Width: w, Height: h}
	if err := size.Validate(); err != nil {
		return Size{}, err
	}
	return size, nil
}

func (s Size) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrShape, s.Width, s.Height)
	}
	return nil
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
