package cpu

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/memory"
)

// execute runs a decoded instruction. The program counter already points
// to the next instruction, branches override it with their absolute target
// and skips advance it by another instruction. Unknown opcodes are ignored.
// A failing instruction has no side effects besides the program counter,
// which the caller restores.
//
//nolint:cyclop // opcode dispatch
func (c *CPU) execute(opcode uint16) error {
	x := uint8(opcode>>8) & 0xF
	y := uint8(opcode>>4) & 0xF
	n := uint8(opcode) & 0xF
	kk := uint8(opcode)
	nnn := opcode & 0x0FFF

	switch opcode >> 12 {
	case 0x0:
		return c.executeSystem(opcode)

	case 0x1: // 1nnn - JP addr
		return c.jump(nnn)

	case 0x2: // 2nnn - CALL addr
		if err := c.stack.Push(c.pc); err != nil {
			return fmt.Errorf("calling %03X: %w", nnn, err)
		}
		return c.jump(nnn)

	case 0x3: // 3xkk - SE Vx, byte
		c.skipIf(c.v[x] == kk)

	case 0x4: // 4xkk - SNE Vx, byte
		c.skipIf(c.v[x] != kk)

	case 0x5: // 5xy0 - SE Vx, Vy
		if n == 0 {
			c.skipIf(c.v[x] == c.v[y])
		}

	case 0x6: // 6xkk - LD Vx, byte
		c.v[x] = kk

	case 0x7: // 7xkk - ADD Vx, byte
		c.v[x] += kk

	case 0x8:
		c.executeALU(x, y, n)

	case 0x9: // 9xy0 - SNE Vx, Vy
		if n == 0 {
			c.skipIf(c.v[x] != c.v[y])
		}

	case 0xA: // Annn - LD I, addr
		c.i = nnn

	case 0xB: // Bnnn - JP V0, addr
		return c.jump(uint16(c.v[0]) + nnn)

	case 0xC: // Cxkk - RND Vx, byte
		c.v[x] = c.random() & kk

	case 0xD: // Dxyn - DRW Vx, Vy, nibble
		return c.draw(x, y, n)

	case 0xE:
		c.executeKey(x, kk)

	case 0xF:
		return c.executeMisc(x, kk)
	}
	return nil
}

// executeSystem handles the 0nnn instruction group.
func (c *CPU) executeSystem(opcode uint16) error {
	switch opcode {
	case 0x00E0: // CLS
		c.display.Clear()

	case 0x00EE: // RET
		if err := c.jump(c.stack.At(int(c.stack.SP()) - 1)); err != nil {
			return err
		}
		c.stack.Pop()
	}
	return nil
}

// executeALU handles the 8xyn register arithmetic group.
func (c *CPU) executeALU(x, y, n uint8) {
	switch n {
	case 0x0: // LD Vx, Vy
		c.v[x] = c.v[y]

	case 0x1: // OR Vx, Vy
		c.v[x] |= c.v[y]

	case 0x2: // AND Vx, Vy
		c.v[x] &= c.v[y]

	case 0x3: // XOR Vx, Vy
		c.v[x] ^= c.v[y]

	case 0x4: // ADD Vx, Vy
		sum := uint16(c.v[x]) + uint16(c.v[y])
		c.v[x] = uint8(sum)
		c.v[flagRegister] = boolToFlag(sum > 0xFF)

	case 0x5: // SUB Vx, Vy
		noBorrow := c.v[x] >= c.v[y]
		c.v[x] -= c.v[y]
		c.v[flagRegister] = boolToFlag(noBorrow)

	case 0x6: // SHR Vx, Vy
		value := c.v[y]
		c.v[x] = value >> 1
		c.v[flagRegister] = value & 0x01

	case 0x7: // SUBN Vx, Vy
		noBorrow := c.v[y] >= c.v[x]
		c.v[x] = c.v[y] - c.v[x]
		c.v[flagRegister] = boolToFlag(noBorrow)

	case 0xE: // SHL Vx, Vy
		value := c.v[y]
		c.v[x] = value << 1
		c.v[flagRegister] = boolToFlag(value&0x80 != 0)
	}
}

// executeKey handles the Ex instruction group.
func (c *CPU) executeKey(x, kk uint8) {
	switch kk {
	case 0x9E: // SKP Vx
		c.skipIf(c.keypad.IsPressed(c.v[x]))

	case 0xA1: // SKNP Vx
		c.skipIf(!c.keypad.IsPressed(c.v[x]))
	}
}

// executeMisc handles the Fx instruction group.
//
//nolint:cyclop // opcode dispatch
func (c *CPU) executeMisc(x, kk uint8) error {
	switch kk {
	case 0x07: // LD Vx, DT
		c.v[x] = c.delay.Value()

	case 0x0A: // LD Vx, K
		c.awaitRegister = x
		c.keypad.Await()
		c.pc -= 2

	case 0x15: // LD DT, Vx
		c.delay.SetValue(int(c.v[x]))

	case 0x18: // LD ST, Vx
		c.sound.SetValue(int(c.v[x]))

	case 0x1E: // ADD I, Vx
		c.i += uint16(c.v[x])

	case 0x29: // LD F, Vx
		c.i = memory.FontAddress + uint16(c.v[x])*memory.GlyphSize

	case 0x33: // LD B, Vx
		value := c.v[x]
		digits := []byte{value / 100, value / 10 % 10, value % 10}
		return c.store(c.i, digits)

	case 0x55: // LD [I], Vx
		if err := c.store(c.i, c.v[:x+1]); err != nil {
			return err
		}
		c.i += uint16(x) + 1

	case 0x65: // LD Vx, [I]
		data, err := c.memory.Slice(c.i, int(x)+1)
		if err != nil {
			return fmt.Errorf("loading registers: %w", err)
		}
		copy(c.v[:x+1], data)
		c.i += uint16(x) + 1
	}
	return nil
}

// draw renders an n byte sprite read from I at Vx,Vy and sets VF on collision.
func (c *CPU) draw(x, y, n uint8) error {
	rows, err := c.memory.Slice(c.i, int(n))
	if err != nil {
		return fmt.Errorf("reading sprite: %w", err)
	}
	collision := c.display.DrawSprite(int(c.v[x]), int(c.v[y]), rows)
	c.v[flagRegister] = boolToFlag(collision)
	return nil
}

// store writes data to memory starting at address. Nothing is written if
// the data does not fit.
func (c *CPU) store(address uint16, data []byte) error {
	if err := c.memory.Load(address, data); err != nil {
		return fmt.Errorf("storing %d bytes: %w", len(data), err)
	}
	return nil
}

// skipIf skips the next instruction if the condition is true.
func (c *CPU) skipIf(condition bool) {
	if condition {
		c.pc += 2
	}
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
