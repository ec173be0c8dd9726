// Package framebuffer implements the 64x32 monochrome display of the CHIP-8 interpreter.
package framebuffer

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

const (
	// Width of the display in pixels.
	Width = 64
	// Height of the display in pixels.
	Height = 32
	// MaxSpriteHeight is the maximum number of rows of a sprite.
	MaxSpriteHeight = 15
)

// Palette maps the pixel states to colors, index 0 is the background
// and index 1 a set pixel.
var Palette = color.Palette{
	color.Gray{Y: 0xDD},
	color.Gray{Y: 0x44},
}

// WrapPolicy controls how sprite pixels outside of the display are handled.
type WrapPolicy uint8

const (
	// Clip discards pixels that fall outside of the display.
	Clip WrapPolicy = iota
	// Wrap draws pixels outside of the display at the opposite edge.
	Wrap
)

// String returns the name of the policy.
func (p WrapPolicy) String() string {
	switch p {
	case Clip:
		return "clip"
	case Wrap:
		return "wrap"
	default:
		return fmt.Sprintf("WrapPolicy(%d)", uint8(p))
	}
}

// ParseWrapPolicy returns the policy for the given name.
func ParseWrapPolicy(s string) (WrapPolicy, error) {
	switch strings.ToLower(s) {
	case "", "clip":
		return Clip, nil
	case "wrap":
		return Wrap, nil
	default:
		return Clip, fmt.Errorf("unsupported wrap policy '%s'", s)
	}
}

// FrameBuffer holds the pixel state of the display.
type FrameBuffer struct {
	pixels [Height][Width]bool
	policy WrapPolicy
}

// New returns a cleared frame buffer using the given wrap policy.
func New(policy WrapPolicy) *FrameBuffer {
	return &FrameBuffer{
		policy: policy,
	}
}

// Clear unsets all pixels.
func (f *FrameBuffer) Clear() {
	f.pixels = [Height][Width]bool{}
}

// Pixel returns whether the pixel at the given coordinate is set.
// Coordinates outside of the display are reported as unset.
func (f *FrameBuffer) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return f.pixels[y][x]
}

// DrawSprite XORs the sprite rows onto the display with the top left corner
// at x,y. The most significant bit of each row is the leftmost pixel.
// It returns true if any set pixel was unset by the draw.
func (f *FrameBuffer) DrawSprite(x, y int, rows []byte) bool {
	if len(rows) > MaxSpriteHeight {
		rows = rows[:MaxSpriteHeight]
	}

	collision := false
	for row, data := range rows {
		for bit := range 8 {
			if data&(0x80>>bit) == 0 {
				continue
			}

			px, py, ok := f.position(x+bit, y+row)
			if !ok {
				continue
			}

			if f.pixels[py][px] {
				collision = true
			}
			f.pixels[py][px] = !f.pixels[py][px]
		}
	}
	return collision
}

// position maps a sprite pixel coordinate to a display coordinate
// based on the wrap policy.
func (f *FrameBuffer) position(x, y int) (int, int, bool) {
	if f.policy == Wrap {
		return mod(x, Width), mod(y, Height), true
	}
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return 0, 0, false
	}
	return x, y, true
}

// Image returns a two color snapshot of the display using Palette.
func (f *FrameBuffer) Image() *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, Width, Height), Palette)
	for y := range Height {
		for x := range Width {
			if f.Pixel(x, y) {
				img.Pix[y*img.Stride+x] = 1
			}
		}
	}
	return img
}

func mod(value, n int) int {
	value %= n
	if value < 0 {
		value += n
	}
	return value
}
