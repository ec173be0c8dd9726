// Package terminal implements a frontend that renders the display with
// unicode half blocks and reads the keypad from a raw mode terminal.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/retroenv/retrochip8/internal/framebuffer"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// frameInterval is the host loop period, matching the display refresh.
const frameInterval = time.Second / 60

// Control characters handled by the frontend itself.
const (
	keyCtrlC = 0x03
	keyCtrlD = 0x04
	keyCtrlR = 0x12
	keyTab   = '\t'
	keySpace = ' '
	keyStep  = 'n'
)

// ErrNotTerminal is returned when stdin is not a terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

var errQuit = errors.New("quit")

// Config contains the terminal frontend settings.
type Config struct {
	ShowDebug bool // show the register dump below the display
}

// Terminal is a frontend running in a text terminal.
type Terminal struct {
	logger  *log.Logger
	session *frontend.Session
	cfg     Config

	in  *os.File
	out io.Writer

	keys  *keyReleaser
	input chan byte
}

var _ frontend.Frontend = (*Terminal)(nil)

// New returns a new terminal frontend using stdin and stdout.
func New(logger *log.Logger, session *frontend.Session, cfg Config) *Terminal {
	return &Terminal{
		logger:  logger,
		session: session,
		cfg:     cfg,
		in:      os.Stdin,
		out:     os.Stdout,
		keys:    newKeyReleaser(keyHold),
		input:   make(chan byte, 64),
	}
}

// Run switches the terminal to raw mode and runs the machine until the
// user quits with Ctrl+C or Ctrl+D or the context is cancelled.
func (t *Terminal) Run(ctx context.Context) error {
	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}
	if width, height, err := term.GetSize(fd); err == nil {
		if width < framebuffer.Width || height < framebuffer.Height/2 {
			t.logger.Warn("Terminal too small for the display",
				log.Int("width", width), log.Int("height", height))
		}
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("setting raw mode: %w", err)
	}
	defer func() {
		_, _ = io.WriteString(t.out, escShowCursor+"\r\n")
		_ = term.Restore(fd, oldState)
	}()

	go t.readInput()

	_, _ = io.WriteString(t.out, escClear+escHideCursor)

	err = t.session.Run(ctx, frameInterval, func(due int) error {
		return t.frame(time.Now(), due)
	})
	if errors.Is(err, errQuit) || ctx.Err() != nil {
		return nil
	}
	return err
}

// readInput forwards the bytes read from the terminal. The goroutine ends
// with the process as the read can not be interrupted.
func (t *Terminal) readInput() {
	reader := bufio.NewReader(t.in)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			close(t.input)
			return
		}
		t.input <- b
	}
}

// frame handles the input since the previous frame, executes the due steps
// and redraws the screen.
func (t *Terminal) frame(now time.Time, due int) error {
	if err := t.handleInput(now); err != nil {
		return err
	}
	for _, key := range t.keys.expired(now) {
		t.session.SetKey(key, false)
	}

	// faults are logged by the machine and shown in the status line
	_, _ = t.session.Execute(due)

	return t.draw()
}

func (t *Terminal) handleInput(now time.Time) error {
	for {
		select {
		case b, ok := <-t.input:
			if !ok {
				return errQuit
			}
			if err := t.handleByte(b, now); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (t *Terminal) handleByte(b byte, now time.Time) error {
	switch b {
	case keyCtrlC, keyCtrlD:
		return errQuit
	case keySpace:
		t.session.TogglePause()
	case keyCtrlR:
		return t.session.Restart()
	case keyStep:
		_ = t.session.SingleStep()
	case keyTab:
		t.cfg.ShowDebug = !t.cfg.ShowDebug
		_, _ = io.WriteString(t.out, escClear)
	default:
		key, ok := frontend.KeyForRune(rune(b))
		if ok && t.keys.press(key, now) {
			t.session.SetKey(key, true)
		}
	}
	return nil
}

func (t *Terminal) draw() error {
	m := t.session.Machine()
	screen := escHome + Render(m.Frame())
	status := t.session.Status()
	if m.SoundActive() {
		status += " [sound]"
	}
	screen += status + escClearLine + "\r\n"
	if t.cfg.ShowDebug {
		screen += toRawLines(m.DebugState().String())
	}

	if _, err := io.WriteString(t.out, screen); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// toRawLines converts LF line endings to CR LF and clears line remainders.
func toRawLines(s string) string {
	var out []byte
	for i := range len(s) {
		if s[i] == '\n' {
			out = append(out, escClearLine+"\r\n"...)
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
