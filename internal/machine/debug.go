package machine

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/disasm"
)

// indexDumpSize is the number of bytes at I shown in the debug state.
const indexDumpSize = 4

// DebugState is an advisory snapshot of the machine for inspection.
type DebugState struct {
	cpu.Registers

	State       State
	Opcode      uint16 // instruction word at PC
	Instruction string // decoded instruction at PC, empty if PC can not be fetched
	IndexBytes  []byte // memory starting at I, shorter at the end of memory
	DelayTimer  uint8
	SoundTimer  uint8
	AwaitingKey bool
	Fault       error
}

// DebugState returns the registers and the instruction at the program counter.
func (m *Machine) DebugState() DebugState {
	ds := DebugState{
		Registers:   m.cpu.Registers(),
		State:       m.state,
		DelayTimer:  m.cpu.DelayTimer(),
		SoundTimer:  m.cpu.SoundTimer(),
		AwaitingKey: m.cpu.State() == cpu.AwaitingKey,
		Fault:       m.fault,
	}

	if opcode, err := m.cpu.Opcode(); err == nil {
		ds.Opcode = opcode
		ds.Instruction = disasm.Decode(opcode).String()
	}

	for offset := range uint16(indexDumpSize) {
		b, err := m.ReadMemory(ds.I + offset)
		if err != nil {
			break
		}
		ds.IndexBytes = append(ds.IndexBytes, b)
	}
	return ds
}

// String returns a multi line register dump.
func (ds DebugState) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "state: %s", ds.State)
	if ds.AwaitingKey {
		sb.WriteString(" (awaiting key)")
	}
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "MEM[PC]: %02X %02X  %s\n", ds.Opcode>>8, ds.Opcode&0xFF, ds.Instruction)
	fmt.Fprintf(&sb, "PC: %03X  SP: %X  I: %04X  DT: %02X  ST: %02X\n",
		ds.PC, ds.SP, ds.I, ds.DelayTimer, ds.SoundTimer)
	fmt.Fprintf(&sb, "MEM[I]: % X\n", ds.IndexBytes)
	for i, v := range ds.V {
		fmt.Fprintf(&sb, "V%X: %02X", i, v)
		if i%8 == 7 {
			sb.WriteByte('\n')
		} else {
			sb.WriteString("  ")
		}
	}
	if ds.Fault != nil {
		fmt.Fprintf(&sb, "fault: %v\n", ds.Fault)
	}
	return sb.String()
}
