// Package machine provides the CHIP-8 machine facade used by the frontends.
// It owns the CPU and enforces that no instruction executes while halted.
package machine

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/framebuffer"
	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

// MaxProgramSize is the largest program that fits into memory.
const MaxProgramSize = memory.Size - memory.ProgramStart

// ErrProgramTooLarge is returned when loading a program that does not fit into memory.
var ErrProgramTooLarge = errors.New("program too large")

// State is the lifecycle state of the machine.
type State uint8

const (
	// Initialized is the state after creation, no instruction has been run yet.
	Initialized State = iota
	// Running executes an instruction on every step.
	Running
	// Halted ignores steps until started again.
	Halted
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Config contains the machine settings.
type Config struct {
	Logger     *log.Logger            // optional logger for loads and faults
	WrapPolicy framebuffer.WrapPolicy // sprite wrap policy
	Seed       uint64                 // random seed, 0 picks a random seed
	Now        func() time.Time       // time source for the timers, defaults to time.Now
	Random     func() byte            // random source, overrides Seed
}

// Machine is a CHIP-8 interpreter instance.
type Machine struct {
	logger *log.Logger
	cpu    *cpu.CPU
	state  State
	fault  error
}

// New returns a machine in the initialized state. It does not execute
// instructions until Start is called.
func New(cfg Config) *Machine {
	return &Machine{
		logger: cfg.Logger,
		cpu: cpu.New(cpu.Config{
			WrapPolicy: cfg.WrapPolicy,
			Now:        cfg.Now,
			Random:     cfg.Random,
			Seed:       cfg.Seed,
		}),
		state: Initialized,
	}
}

// Reset reinitializes all state and clears a previous fault. The run
// state is kept, a machine halted by a fault stays halted until started.
func (m *Machine) Reset() {
	m.cpu.Reset()
	m.fault = nil
}

// Start resumes instruction execution. A machine halted by a fault stays
// halted until it is reset.
func (m *Machine) Start() {
	if m.fault != nil {
		return
	}
	m.state = Running
}

// Stop halts instruction execution.
func (m *Machine) Stop() {
	m.state = Halted
}

// State returns the lifecycle state.
func (m *Machine) State() State {
	return m.state
}

// Running returns whether the machine executes instructions on Step.
func (m *Machine) Running() bool {
	return m.state == Running
}

// Err returns the fault that halted the machine, if any.
func (m *Machine) Err() error {
	return m.fault
}

// Step executes one instruction if the machine is running. A fault halts
// the machine and is returned.
func (m *Machine) Step() error {
	if m.state != Running {
		return nil
	}
	return m.execute()
}

// SingleStep executes one instruction regardless of the run state.
// A faulted machine has to be reset first.
func (m *Machine) SingleStep() error {
	if m.fault != nil {
		return m.fault
	}
	return m.execute()
}

func (m *Machine) execute() error {
	pc := m.cpu.Registers().PC
	if err := m.cpu.Step(); err != nil {
		m.fault = err
		m.state = Halted
		if m.logger != nil {
			m.logger.Warn("Machine halted", log.Hex("pc", pc), log.Err(err))
		}
		return err
	}
	return nil
}

// LoadProgram resets the machine and copies the program to the program
// start address. Memory is not modified if the program does not fit.
func (m *Machine) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, %d available: %w",
			ErrProgramTooLarge, len(program), MaxProgramSize, memory.ErrOutOfBounds)
	}

	m.Reset()
	if err := m.cpu.Load(program); err != nil {
		return err
	}

	if m.logger != nil {
		m.logger.Debug("Program loaded",
			log.Int("size", len(program)),
			log.Hex("address", uint16(memory.ProgramStart)))
	}
	return nil
}

// SetKeyState feeds a key transition into the keypad. A key press while
// a wait for key instruction is pending completes it immediately if the
// machine is running, otherwise on the next executed step.
func (m *Machine) SetKeyState(key int, pressed bool) error {
	if err := m.cpu.SetKeyState(key, pressed); err != nil {
		return err
	}
	if m.state == Running && m.fault == nil {
		m.cpu.ResolveKey()
	}
	return nil
}

// Frame returns a read only two color snapshot of the display.
func (m *Machine) Frame() *image.Paletted {
	return m.cpu.Frame()
}

// SoundActive returns whether the sound timer is running.
func (m *Machine) SoundActive() bool {
	return m.cpu.SoundActive()
}

// ReadMemory returns the byte at the given address.
func (m *Machine) ReadMemory(address uint16) (byte, error) {
	return m.cpu.ReadMemory(address)
}
