package terminal

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/retroenv/retrochip8/internal/framebuffer"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/scheduler"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestRender(t *testing.T) {
	fb := framebuffer.New(framebuffer.Clip)
	fb.DrawSprite(0, 0, []byte{0x80})       // top half of the first cell
	fb.DrawSprite(1, 1, []byte{0x80})       // bottom half of the second cell
	fb.DrawSprite(2, 0, []byte{0x80, 0x80}) // full third cell

	lines := strings.Split(Render(fb.Image()), "\r\n")
	assert.Len(t, lines, framebuffer.Height/2+1)
	assert.True(t, strings.HasPrefix(lines[0], "▀▄█ "))
	assert.Equal(t, framebuffer.Width, len([]rune(lines[0])))
	assert.Equal(t, strings.Repeat(" ", framebuffer.Width), lines[1])
	assert.Equal(t, "", lines[len(lines)-1])
}

func TestKeyReleaser(t *testing.T) {
	now := time.Unix(1000, 0)
	k := newKeyReleaser(100 * time.Millisecond)

	assert.True(t, k.press(5, now))
	assert.False(t, k.press(5, now.Add(50*time.Millisecond)))
	assert.Empty(t, k.expired(now.Add(100*time.Millisecond)))

	keys := k.expired(now.Add(150 * time.Millisecond))
	assert.Len(t, keys, 1)
	assert.Equal(t, 5, keys[0])
	assert.True(t, k.press(5, now.Add(200*time.Millisecond)))
}

func newTestTerminal(t *testing.T, program ...byte) (*Terminal, *machine.Machine, *bytes.Buffer) {
	t.Helper()

	logger := log.NewTestLogger(t)
	m := machine.New(machine.Config{Logger: logger})
	assert.NoError(t, m.LoadProgram(program))
	session := frontend.NewSession(logger, m, scheduler.New(scheduler.Config{Rate: 700}), program)

	var out bytes.Buffer
	term := New(logger, session, Config{})
	term.out = &out
	return term, m, &out
}

func TestTerminal_HandleByte(t *testing.T) {
	term, m, _ := newTestTerminal(t,
		0xF2, 0x0A, // LD V2, K
	)
	now := time.Unix(1000, 0)

	assert.NoError(t, term.handleByte(' ', now))
	assert.True(t, m.Running())
	assert.NoError(t, m.Step())

	assert.NoError(t, term.handleByte('w', now))
	assert.Equal(t, uint8(5), m.DebugState().V[2])

	assert.NoError(t, term.handleByte(' ', now))
	assert.False(t, m.Running())

	assert.NoError(t, term.handleByte('n', now))
	assert.NoError(t, term.handleByte(keyTab, now))
	assert.True(t, term.cfg.ShowDebug)

	assert.NoError(t, term.handleByte(keyCtrlR, now))
	assert.True(t, m.Running())
	assert.Equal(t, uint8(0), m.DebugState().V[2])

	assert.True(t, errors.Is(term.handleByte(keyCtrlC, now), errQuit))
	assert.True(t, errors.Is(term.handleByte(keyCtrlD, now), errQuit))
}

func TestTerminal_Frame(t *testing.T) {
	term, m, out := newTestTerminal(t, 0xF0, 0x0A)
	m.Start()
	term.cfg.ShowDebug = true
	now := time.Unix(1000, 0)

	term.input <- 'x'
	assert.NoError(t, term.frame(now, 1))
	assert.True(t, term.keys.deadline[0].After(now))

	s := out.String()
	assert.True(t, strings.HasPrefix(s, escHome))
	assert.Contains(t, s, "running")
	assert.Contains(t, s, "MEM[PC]")

	// the key is released once the hold time passed
	out.Reset()
	assert.NoError(t, term.frame(now.Add(keyHold), 1))
	assert.Len(t, term.keys.deadline, 0)
}

func TestTerminal_FrameInputClosed(t *testing.T) {
	term, _, _ := newTestTerminal(t, 0x12, 0x00)
	close(term.input)

	err := term.frame(time.Unix(1000, 0), 1)
	assert.True(t, errors.Is(err, errQuit))
}

func TestToRawLines(t *testing.T) {
	assert.Equal(t, "a"+escClearLine+"\r\nb", toRawLines("a\nb"))
}
