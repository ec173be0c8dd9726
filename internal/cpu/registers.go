package cpu

import "fmt"

// RegisterCount is the number of general purpose registers.
const RegisterCount = 16

// flagRegister is the index of VF, written by arithmetic, shift and draw instructions.
const flagRegister = 0xF

// Registers is a snapshot of the register file.
type Registers struct {
	V  [RegisterCount]uint8 // general purpose registers V0-VF
	I  uint16               // index register
	PC uint16               // program counter
	SP uint8                // stack pointer
}

// String returns a single line register dump.
func (r Registers) String() string {
	s := fmt.Sprintf("PC=%03X SP=%X I=%04X", r.PC, r.SP, r.I)
	for i, v := range r.V {
		s += fmt.Sprintf(" V%X=%02X", i, v)
	}
	return s
}
