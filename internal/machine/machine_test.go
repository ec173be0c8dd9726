package machine

import (
	"errors"
	"testing"
	"time"

	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrochip8/internal/stack"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestMachine(t *testing.T, program ...byte) *Machine {
	t.Helper()

	start := time.Unix(1000, 0)
	m := New(Config{
		Logger: log.NewTestLogger(t),
		Now:    func() time.Time { return start },
		Random: func() byte { return 0xFF },
	})
	assert.NoError(t, m.LoadProgram(program))
	return m
}

func TestMachine_Lifecycle(t *testing.T) {
	m := newTestMachine(t, 0x60, 0x01)
	assert.Equal(t, Initialized, m.State())
	assert.False(t, m.Running())

	// steps are ignored until started
	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(memory.ProgramStart), m.DebugState().PC)

	m.Start()
	assert.Equal(t, Running, m.State())
	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0x202), m.DebugState().PC)

	m.Stop()
	assert.Equal(t, Halted, m.State())
	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0x202), m.DebugState().PC)
}

func TestMachine_SingleStep(t *testing.T) {
	m := newTestMachine(t, 0x60, 0x07)

	assert.NoError(t, m.SingleStep())

	ds := m.DebugState()
	assert.Equal(t, uint8(7), ds.V[0])
	assert.Equal(t, Initialized, m.State())
}

func TestMachine_LoadProgramRoundTrip(t *testing.T) {
	program := []byte{0x00, 0xE0, 0xA2, 0x2A, 0x60, 0x0C, 0xD0, 0x15}
	m := newTestMachine(t, program...)

	for i, expected := range program {
		b, err := m.ReadMemory(memory.ProgramStart + uint16(i))
		assert.NoError(t, err)
		assert.Equal(t, expected, b)
	}
	b, err := m.ReadMemory(memory.ProgramStart + uint16(len(program)))
	assert.NoError(t, err)
	assert.Equal(t, byte(0), b)
}

func TestMachine_LoadProgramTooLarge(t *testing.T) {
	m := newTestMachine(t, 0x12, 0x34)
	m.Start()

	err := m.LoadProgram(make([]byte, MaxProgramSize+1))
	assert.True(t, errors.Is(err, ErrProgramTooLarge))
	assert.True(t, errors.Is(err, memory.ErrOutOfBounds))

	// the previous program is untouched
	b, err := m.ReadMemory(memory.ProgramStart)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x12), b)

	assert.NoError(t, m.LoadProgram(make([]byte, MaxProgramSize)))
}

func TestMachine_LoadProgramResets(t *testing.T) {
	m := newTestMachine(t, 0x6A, 0x55, 0x22, 0x00)
	m.Start()
	assert.NoError(t, m.Step())
	assert.NoError(t, m.Step())

	assert.NoError(t, m.LoadProgram([]byte{0x00, 0xE0}))

	ds := m.DebugState()
	assert.Equal(t, uint8(0), ds.V[0xA])
	assert.Equal(t, uint8(0), ds.SP)
	assert.Equal(t, uint16(memory.ProgramStart), ds.PC)
	assert.Equal(t, Running, m.State())
}

func TestMachine_OutOfBoundsHalts(t *testing.T) {
	m := newTestMachine(t,
		0xAF, 0xFF, // LD I, FFF
		0xF1, 0x65, // LD V1, [I]
		0x60, 0x01, // LD V0, 01
	)
	m.Start()

	assert.NoError(t, m.Step())
	err := m.Step()
	assert.True(t, errors.Is(err, memory.ErrOutOfBounds))
	assert.Equal(t, Halted, m.State())
	assert.True(t, errors.Is(m.Err(), memory.ErrOutOfBounds))

	// no further execution, even when single stepping
	assert.NoError(t, m.Step())
	assert.True(t, errors.Is(m.SingleStep(), memory.ErrOutOfBounds))
	assert.Equal(t, uint8(0), m.DebugState().V[0])
	assert.Equal(t, uint16(0x202), m.DebugState().PC)

	assert.NoError(t, m.LoadProgram([]byte{0x60, 0x01}))
	assert.NoError(t, m.Err())
	assert.Equal(t, Halted, m.State())
	m.Start()
	assert.NoError(t, m.Step())
	assert.Equal(t, uint8(1), m.DebugState().V[0])
}

func TestMachine_StartAfterFault(t *testing.T) {
	m := newTestMachine(t,
		0xAF, 0xFF, // LD I, FFF
		0xF1, 0x65, // LD V1, [I]
		0x60, 0x07, // LD V0, 07
	)
	m.Start()
	assert.NoError(t, m.Step())
	assert.Error(t, m.Step())

	m.Start()
	assert.Equal(t, Halted, m.State())
	assert.False(t, m.Running())
	assert.NoError(t, m.Step())

	ds := m.DebugState()
	assert.Equal(t, uint8(0), ds.V[0])
	assert.Equal(t, uint16(0x202), ds.PC)
	assert.True(t, errors.Is(m.Err(), memory.ErrOutOfBounds))

	m.Reset()
	m.Start()
	assert.True(t, m.Running())
}

func TestMachine_StackOverflowHalts(t *testing.T) {
	m := newTestMachine(t, 0x22, 0x00)
	m.Start()

	var err error
	for range stack.Depth + 1 {
		if err = m.Step(); err != nil {
			break
		}
	}
	assert.True(t, errors.Is(err, stack.ErrOverflow))
	assert.Equal(t, Halted, m.State())

	ds := m.DebugState()
	assert.Equal(t, uint8(stack.Depth), ds.SP)
	assert.Equal(t, uint16(0x200), ds.PC)
	assert.NotNil(t, ds.Fault)
	assert.Contains(t, ds.String(), "fault: ")
}

func TestMachine_WaitForKey(t *testing.T) {
	m := newTestMachine(t,
		0xF0, 0x0A, // LD V0, K
		0x00, 0xE0, // CLS
	)
	m.Start()

	for range 5 {
		assert.NoError(t, m.Step())
		ds := m.DebugState()
		assert.Equal(t, uint16(0x200), ds.PC)
		assert.True(t, ds.AwaitingKey)
	}

	assert.NoError(t, m.SetKeyState(5, true))
	ds := m.DebugState()
	assert.Equal(t, uint8(5), ds.V[0])
	assert.Equal(t, uint16(0x202), ds.PC)
	assert.False(t, ds.AwaitingKey)

	// the held key and a second press do not resolve anything again
	assert.NoError(t, m.SetKeyState(5, true))
	assert.NoError(t, m.SetKeyState(6, true))
	assert.Equal(t, uint16(0x202), m.DebugState().PC)
	assert.Equal(t, uint8(5), m.DebugState().V[0])
}

func TestMachine_WaitForKeyWhileHalted(t *testing.T) {
	m := newTestMachine(t, 0xF4, 0x0A)
	m.Start()
	assert.NoError(t, m.Step())
	m.Stop()

	assert.NoError(t, m.SetKeyState(9, true))
	ds := m.DebugState()
	assert.Equal(t, uint16(0x200), ds.PC)
	assert.True(t, ds.AwaitingKey)

	m.Start()
	assert.NoError(t, m.Step())
	ds = m.DebugState()
	assert.Equal(t, uint8(9), ds.V[4])
	assert.Equal(t, uint16(0x202), ds.PC)
}

func TestMachine_InvalidKey(t *testing.T) {
	m := newTestMachine(t)

	err := m.SetKeyState(0x10, true)
	assert.True(t, errors.Is(err, keypad.ErrInvalidKey))
	err = m.SetKeyState(-1, false)
	assert.True(t, errors.Is(err, keypad.ErrInvalidKey))
}

func TestMachine_Frame(t *testing.T) {
	m := newTestMachine(t,
		0xD0, 0x05, // DRW V0, V0, 5
		0x00, 0xE0, // CLS
	)
	m.Start()

	assert.NoError(t, m.Step())
	frame := m.Frame()
	assert.Equal(t, uint8(1), frame.ColorIndexAt(0, 0))

	assert.NoError(t, m.Step())
	frame = m.Frame()
	for _, index := range frame.Pix {
		assert.Equal(t, uint8(0), index)
	}
}

func TestMachine_CallReturnRoundTrip(t *testing.T) {
	m := newTestMachine(t,
		0x22, 0x04, // 200: CALL 204
		0x12, 0x02, // 202: JP 202
		0x00, 0xEE, // 204: RET
	)
	m.Start()

	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0x204), m.DebugState().PC)
	assert.NoError(t, m.Step())
	assert.Equal(t, uint16(0x202), m.DebugState().PC)
	assert.Equal(t, uint8(0), m.DebugState().SP)
}

func TestMachine_SoundActive(t *testing.T) {
	m := newTestMachine(t,
		0x60, 0x05, // LD V0, 05
		0xF0, 0x18, // LD ST, V0
	)
	m.Start()
	assert.False(t, m.SoundActive())

	assert.NoError(t, m.Step())
	assert.NoError(t, m.Step())
	assert.True(t, m.SoundActive())
}

func TestMachine_DebugState(t *testing.T) {
	m := newTestMachine(t, 0xA1, 0x23)

	ds := m.DebugState()
	assert.Equal(t, uint16(0xA123), ds.Opcode)
	assert.NotEmpty(t, ds.Instruction)
	assert.Equal(t, Initialized, ds.State)
	assert.Nil(t, ds.Fault)

	s := ds.String()
	assert.Contains(t, s, "MEM[PC]: A1 23")
	assert.Contains(t, s, "PC: 200")
	assert.Contains(t, s, "VF: 00")
	assert.Contains(t, s, "MEM[I]: F0 90 90 90")
}

func TestMachine_DebugStateIndexAtEndOfMemory(t *testing.T) {
	m := newTestMachine(t, 0xAF, 0xFE) // LD I, FFE
	assert.NoError(t, m.SingleStep())

	ds := m.DebugState()
	assert.Equal(t, uint16(0xFFE), ds.I)
	assert.Len(t, ds.IndexBytes, 2)
}
