package screenshot

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/framebuffer"
	"github.com/retroenv/retrogolib/assert"
)

func testFrame() *image.Paletted {
	fb := framebuffer.New(framebuffer.Clip)
	fb.DrawSprite(0, 0, []byte{0x80})
	fb.DrawSprite(63, 31, []byte{0x80})
	return fb.Image()
}

func TestScale(t *testing.T) {
	img, err := Scale(testFrame(), 3)
	assert.NoError(t, err)
	assert.Equal(t, 64*3, img.Bounds().Dx())
	assert.Equal(t, 32*3, img.Bounds().Dy())

	assert.Equal(t, uint8(1), img.ColorIndexAt(0, 0))
	assert.Equal(t, uint8(1), img.ColorIndexAt(2, 2))
	assert.Equal(t, uint8(0), img.ColorIndexAt(3, 0))
	assert.Equal(t, uint8(1), img.ColorIndexAt(64*3-1, 32*3-1))
	assert.Equal(t, uint8(0), img.ColorIndexAt(64*3-4, 32*3-1))
}

func TestScale_Invalid(t *testing.T) {
	_, err := Scale(testFrame(), 0)
	assert.True(t, errors.Is(err, ErrInvalidScale))
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, testFrame(), 2))

	img, err := png.Decode(&buf)
	assert.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 128, 64), img.Bounds())

	r, g, b, _ := img.At(0, 0).RGBA()
	er, eg, eb, _ := framebuffer.Palette[1].RGBA()
	assert.Equal(t, er, r)
	assert.Equal(t, eg, g)
	assert.Equal(t, eb, b)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	assert.NoError(t, Save(path, testFrame(), 1))

	err := Save(filepath.Join(t.TempDir(), "missing", "frame.png"), testFrame(), 1)
	assert.Error(t, err)
}
