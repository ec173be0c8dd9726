// Package cpu implements the fetch, decode and execute cycle of the CHIP-8 interpreter.
// The CPU exclusively owns the memory, stack, frame buffer, keypad and timers.
package cpu

import (
	"fmt"
	"image"
	"math/rand/v2"
	"time"

	"github.com/retroenv/retrochip8/internal/framebuffer"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrochip8/internal/stack"
	"github.com/retroenv/retrochip8/internal/timer"
)

// State is the execution state of the CPU.
type State uint8

const (
	// Running executes one instruction per step.
	Running State = iota
	// AwaitingKey blocks the program counter until a key is pressed.
	AwaitingKey
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case AwaitingKey:
		return "awaiting key"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Config contains the optional dependencies of the CPU.
type Config struct {
	WrapPolicy framebuffer.WrapPolicy // sprite wrap policy of the frame buffer
	Now        func() time.Time       // time source for the timers, defaults to time.Now
	Random     func() byte            // random source for RND, overrides Seed
	Seed       uint64                 // random seed, 0 picks a random seed
}

// CPU is the CHIP-8 processor with all state it owns.
type CPU struct {
	v  [RegisterCount]uint8
	i  uint16
	pc uint16

	memory  *memory.Memory
	stack   stack.Stack
	display *framebuffer.FrameBuffer
	keypad  keypad.Keypad
	delay   timer.Timer
	sound   timer.Timer
	clock   *timer.Clock
	random  func() byte

	awaitRegister uint8 // target register of a pending wait for key
}

// New returns a CPU in its reset state.
func New(cfg Config) *CPU {
	random := cfg.Random
	if random == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
		random = func() byte {
			return byte(rng.UintN(256))
		}
	}

	c := &CPU{
		memory:  memory.New(),
		display: framebuffer.New(cfg.WrapPolicy),
		clock:   timer.NewClock(cfg.Now),
		random:  random,
	}
	c.Reset()
	return c
}

// Reset zeroes all registers and reinitializes all owned components.
func (c *CPU) Reset() {
	c.v = [RegisterCount]uint8{}
	c.i = 0
	c.pc = memory.ProgramStart
	c.awaitRegister = 0

	c.memory.Reset()
	c.stack.Reset()
	c.display.Clear()
	c.keypad.Reset()
	c.delay.Reset()
	c.sound.Reset()
	c.clock.Reset()
}

// Load copies a program into memory at the program start address.
func (c *CPU) Load(program []byte) error {
	if err := c.memory.Load(memory.ProgramStart, program); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	return nil
}

// Step advances the timers and executes one instruction. While awaiting
// a key no instruction is executed and the program counter does not
// move, unless a latched key press resolves the pending instruction.
func (c *CPU) Step() error {
	c.clock.Advance(&c.delay, &c.sound)

	if c.keypad.Awaiting() {
		c.ResolveKey()
		return nil
	}

	pc := c.pc
	opcode, err := c.fetch(pc)
	if err != nil {
		return err
	}

	c.pc = pc + 2

	if err := c.execute(opcode); err != nil {
		c.pc = pc
		return fmt.Errorf("executing %04X at %03X: %w", opcode, pc, err)
	}
	return nil
}

// SetKeyState updates the state of a key of the keypad.
func (c *CPU) SetKeyState(key int, pressed bool) error {
	if err := c.keypad.SetKeyState(key, pressed); err != nil {
		return fmt.Errorf("setting key state: %w", err)
	}
	return nil
}

// ResolveKey completes a pending wait for key instruction if a key press
// has been latched. It returns whether the instruction was completed.
func (c *CPU) ResolveKey() bool {
	key, ok := c.keypad.Resolve()
	if !ok {
		return false
	}
	c.v[c.awaitRegister] = key
	c.pc += 2
	return true
}

// State returns the execution state.
func (c *CPU) State() State {
	if c.keypad.Awaiting() {
		return AwaitingKey
	}
	return Running
}

// Registers returns a snapshot of the register file.
func (c *CPU) Registers() Registers {
	return Registers{
		V:  c.v,
		I:  c.i,
		PC: c.pc,
		SP: c.stack.SP(),
	}
}

// Opcode returns the instruction word at the program counter.
func (c *CPU) Opcode() (uint16, error) {
	return c.fetch(c.pc)
}

// ReadMemory returns the byte at the given address.
func (c *CPU) ReadMemory(address uint16) (byte, error) {
	b, err := c.memory.Read(address)
	if err != nil {
		return 0, fmt.Errorf("reading memory: %w", err)
	}
	return b, nil
}

// Frame returns a two color snapshot of the display.
func (c *CPU) Frame() *image.Paletted {
	return c.display.Image()
}

// DelayTimer returns the delay timer value.
func (c *CPU) DelayTimer() uint8 {
	return c.delay.Value()
}

// SoundTimer returns the sound timer value.
func (c *CPU) SoundTimer() uint8 {
	return c.sound.Value()
}

// SoundActive returns whether the sound timer is running.
func (c *CPU) SoundActive() bool {
	return c.sound.IsActive()
}

// fetch reads the big endian instruction word at the given address.
func (c *CPU) fetch(address uint16) (uint16, error) {
	high, err := c.memory.Read(address)
	if err != nil {
		return 0, fmt.Errorf("fetching instruction at %03X: %w", address, err)
	}
	low, err := c.memory.Read(address + 1)
	if err != nil {
		return 0, fmt.Errorf("fetching instruction at %03X: %w", address, err)
	}
	return uint16(high)<<8 | uint16(low), nil
}

// jump sets the program counter to a branch target.
func (c *CPU) jump(address uint16) error {
	if address > memory.MaxAddress {
		return fmt.Errorf("jumping to %#04x: %w", address, memory.ErrOutOfBounds)
	}
	c.pc = address
	return nil
}
