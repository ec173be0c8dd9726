package terminal

import (
	"image"
	"strings"
)

const (
	escClear      = "\x1b[2J"
	escHome       = "\x1b[H"
	escHideCursor = "\x1b[?25l"
	escShowCursor = "\x1b[?25h"
	escClearLine  = "\x1b[K"
)

// halfBlocks is indexed by top pixel | bottom pixel<<1.
var halfBlocks = [4]string{" ", "▀", "▄", "█"}

// Render converts the frame to text, every character cell shows two
// vertically stacked pixels. Lines are terminated with CR LF as the
// terminal is in raw mode.
func Render(frame *image.Paletted) string {
	bounds := frame.Bounds()
	var sb strings.Builder
	sb.Grow((bounds.Dx()*3 + 2) * (bounds.Dy() + 1) / 2)

	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			index := 0
			if frame.ColorIndexAt(x, y) != 0 {
				index |= 1
			}
			if y+1 < bounds.Max.Y && frame.ColorIndexAt(x, y+1) != 0 {
				index |= 2
			}
			sb.WriteString(halfBlocks[index])
		}
		sb.WriteString("\r\n")
	}
	return sb.String()
}
