// Package disasm decodes CHIP-8 instruction words into assembly text.
// It provides a bridge between the retrogolib CHIP-8 instruction definitions
// and the register dump of the interpreter.
package disasm

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Instruction is a decoded CHIP-8 instruction word.
type Instruction struct {
	Opcode uint16 // raw instruction word
	Name   string // mnemonic, empty for unknown opcodes
	Params string // formatted operands

	ins *chip8.Instruction
}

// Decode looks up the instruction word in the CHIP-8 opcode table.
func Decode(opcode uint16) Instruction {
	i := Instruction{
		Opcode: opcode,
	}

	firstNibble := (opcode & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&opcode == op.Info.Value {
			i.ins = op.Instruction
			break
		}
	}
	if i.ins == nil {
		return i
	}

	i.Name = i.ins.Name
	i.Params = formatParams(opcode)
	return i
}

// Known returns whether the opcode is a valid CHIP-8 instruction.
func (i Instruction) Known() bool {
	return i.ins != nil
}

// IsCall returns true if the instruction is a subroutine call.
func (i Instruction) IsCall() bool {
	return i.ins == chip8.CallInst
}

// IsReturn returns true if the instruction is a subroutine return.
func (i Instruction) IsReturn() bool {
	return i.ins == chip8.RetInst
}

// Target returns the absolute destination of a jump or call instruction.
// Indexed jumps have no static target.
func (i Instruction) Target() (uint16, bool) {
	switch i.Opcode & 0xF000 {
	case 0x1000, 0x2000:
		return i.Opcode & 0x0FFF, true
	default:
		return 0, false
	}
}

// IsSkip returns true if the instruction conditionally skips the next instruction.
func (i Instruction) IsSkip() bool {
	if i.ins == nil {
		return false
	}
	return chip8.SkipInstructions.Contains(i.ins.Name)
}

// String returns the assembly text of the instruction. Unknown opcodes
// are rendered as a data word.
func (i Instruction) String() string {
	switch {
	case i.ins == nil:
		return fmt.Sprintf(".word $%04X", i.Opcode)
	case i.Params == "":
		return i.Name
	default:
		return fmt.Sprintf("%s %s", i.Name, i.Params)
	}
}

// formatParams formats the operands of an instruction word based on its
// opcode pattern.
//
//nolint:cyclop // opcode dispatch
func formatParams(opcode uint16) string {
	x := extractRegisterX(opcode)
	y := extractRegisterY(opcode)

	switch opcode & 0xF000 {
	case 0x0000:
		return ""
	case 0x1000, 0x2000:
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case 0x3000, 0x4000, 0x6000, 0x7000, 0xC000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x5000, 0x8000, 0x9000:
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0xA000:
		return fmt.Sprintf("I, $%03X", opcode&0x0FFF)
	case 0xB000:
		return fmt.Sprintf("V0, $%03X", opcode&0x0FFF)
	case 0xD000:
		return fmt.Sprintf("V%X, V%X, $%X", x, y, opcode&0x000F)
	case 0xE000:
		return fmt.Sprintf("V%X", x)
	default:
		return formatMiscParams(opcode)
	}
}

// formatMiscParams formats the operands of the Fx instruction group.
func formatMiscParams(opcode uint16) string {
	x := extractRegisterX(opcode)

	switch opcode & 0x00FF {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x1E:
		return fmt.Sprintf("I, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return ""
}

// extractRegisterX extracts the X register nibble from a CHIP-8 opcode.
func extractRegisterX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

// extractRegisterY extracts the Y register nibble from a CHIP-8 opcode.
func extractRegisterY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}
