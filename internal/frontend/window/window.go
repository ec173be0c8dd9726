// Package window implements a desktop window frontend using ebiten.
package window

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/retroenv/retrochip8/internal/framebuffer"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
	"golang.org/x/image/font/basicfont"
)

const (
	statusBarHeight = 16
	lineHeight      = 13
)

var (
	overlayColor = color.RGBA{0, 0, 0, 180}
	textColor    = color.RGBA{190, 190, 190, 255}
	faultColor   = color.RGBA{220, 60, 60, 255}
)

// Config contains the window frontend settings.
type Config struct {
	Scale     int    // pixel scale of the display
	Title     string // window title
	ShowDebug bool   // show the register dump overlay
}

// Window is a frontend rendering the display into a desktop window.
type Window struct {
	logger  *log.Logger
	session *frontend.Session
	cfg     Config
	ctx     context.Context

	keys     []ebiten.Key
	held     set.Set[int]
	face     *text.GoXFace
	display  *ebiten.Image
	pixels   []byte
	showDbg  bool
	statusOn bool
}

var _ frontend.Frontend = (*Window)(nil)

// New returns a new window frontend.
func New(logger *log.Logger, session *frontend.Session, cfg Config) *Window {
	if cfg.Scale < 1 {
		cfg.Scale = 1
	}
	if cfg.Title == "" {
		cfg.Title = "retrochip8"
	}

	return &Window{
		logger:   logger,
		session:  session,
		cfg:      cfg,
		keys:     hostKeys(),
		held:     set.New[int](),
		face:     text.NewGoXFace(basicfont.Face7x13),
		pixels:   make([]byte, framebuffer.Width*framebuffer.Height*4),
		showDbg:  cfg.ShowDebug,
		statusOn: true,
	}
}

// Run opens the window and blocks until it is closed, Escape is pressed
// or the context is cancelled.
func (w *Window) Run(ctx context.Context) error {
	w.ctx = ctx

	ebiten.SetWindowSize(framebuffer.Width*w.cfg.Scale, framebuffer.Height*w.cfg.Scale)
	ebiten.SetWindowTitle(w.cfg.Title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	w.logger.Debug("Opening window", log.Int("scale", w.cfg.Scale))

	if err := ebiten.RunGame(w); err != nil {
		return fmt.Errorf("running window: %w", err)
	}
	return nil
}

// Update handles the input and executes the due steps, it is called at
// the ebiten tick rate.
func (w *Window) Update() error {
	if w.ctx.Err() != nil || ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		if err := w.session.Restart(); err != nil {
			return err
		}
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		w.session.TogglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		_ = w.session.SingleStep()
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		w.showDbg = !w.showDbg
	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		w.statusOn = !w.statusOn
	}

	w.handleKeypad()

	// faults are logged by the machine and shown in the status bar
	_, _ = w.session.Advance()
	return nil
}

// handleKeypad forwards the key transitions since the previous tick.
func (w *Window) handleKeypad() {
	pressed := set.New[int]()
	for key, hostKey := range w.keys {
		if !ebiten.IsKeyPressed(hostKey) {
			continue
		}
		pressed.Add(key)
		if !w.held.Contains(key) {
			w.session.SetKey(key, true)
		}
	}

	for key := range w.keys {
		if w.held.Contains(key) && !pressed.Contains(key) {
			w.session.SetKey(key, false)
		}
	}
	w.held = pressed
}

// Draw renders the display and the overlays.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.display == nil {
		w.display = ebiten.NewImage(framebuffer.Width, framebuffer.Height)
	}

	m := w.session.Machine()
	writeRGBA(w.pixels, m.Frame())
	w.display.WritePixels(w.pixels)

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(w.cfg.Scale), float64(w.cfg.Scale))
	screen.DrawImage(w.display, opts)

	if w.showDbg {
		w.drawDebug(screen)
	}
	if w.statusOn || m.Err() != nil || !m.Running() {
		w.drawStatusBar(screen)
	}
}

// Layout returns the fixed logical screen size.
func (w *Window) Layout(_, _ int) (int, int) {
	return framebuffer.Width * w.cfg.Scale, framebuffer.Height * w.cfg.Scale
}

func (w *Window) drawStatusBar(screen *ebiten.Image) {
	width, height := w.Layout(0, 0)
	y := height - statusBarHeight
	vector.FillRect(screen, 0, float32(y), float32(width), statusBarHeight, overlayColor, false)

	c := textColor
	if w.session.Machine().Err() != nil {
		c = faultColor
	}
	status := w.session.Status()
	if w.session.Machine().SoundActive() {
		status += " [sound]"
	}
	w.drawText(screen, status, 4, float64(y+(statusBarHeight-lineHeight)/2), c)
}

func (w *Window) drawDebug(screen *ebiten.Image) {
	dump := w.session.Machine().DebugState().String()
	width, height := text.Measure(dump, w.face, lineHeight)
	vector.FillRect(screen, 0, 0, float32(width+8), float32(height+8), overlayColor, false)
	w.drawText(screen, dump, 4, 4, textColor)
}

// drawText draws top left aligned text at the given position.
func (w *Window) drawText(screen *ebiten.Image, s string, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	op.LineSpacing = lineHeight
	text.Draw(screen, s, w.face, op)
}

// writeRGBA converts the paletted frame to RGBA pixel data.
func writeRGBA(dst []byte, frame *image.Paletted) {
	for i, index := range frame.Pix {
		r, g, b, a := frame.Palette[index].RGBA()
		dst[i*4] = byte(r >> 8)
		dst[i*4+1] = byte(g >> 8)
		dst[i*4+2] = byte(b >> 8)
		dst[i*4+3] = byte(a >> 8)
	}
}
