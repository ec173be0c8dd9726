// Package screenshot exports display frames as PNG images.
package screenshot

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
)

// ErrInvalidScale is returned for a scale factor below 1.
var ErrInvalidScale = errors.New("invalid scale")

// Scale returns the frame enlarged by the given integer factor using
// nearest neighbour sampling. The palette of the frame is kept.
func Scale(frame *image.Paletted, scale int) (*image.Paletted, error) {
	if scale < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidScale, scale)
	}

	bounds := frame.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, bounds.Dx()*scale, bounds.Dy()*scale), frame.Palette)
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), frame, bounds, draw.Src, nil)
	return dst, nil
}

// Write encodes the scaled frame as PNG.
func Write(w io.Writer, frame *image.Paletted, scale int) error {
	img, err := Scale(frame, scale)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// Save writes the scaled frame as PNG file.
func Save(path string, frame *image.Paletted, scale int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}

	if err := Write(file, frame, scale); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing file %s: %w", path, err)
	}
	return nil
}
