// Package memory implements the 4KB address space of the CHIP-8 interpreter.
//
// Memory layout:
//
//	0x000-0x04F: built-in hex digit font (16 glyphs of 5 bytes)
//	0x050-0x1FF: reserved interpreter area
//	0x200-0xFFF: program and data
package memory

import (
	"errors"
	"fmt"
)

const (
	// Size is the number of addressable bytes.
	Size = 0x1000

	// MaxAddress is the highest valid address.
	MaxAddress = Size - 1

	// ProgramStart is the address programs are loaded at and start executing from.
	ProgramStart = 0x200

	// FontAddress is the address of the first font glyph.
	FontAddress = 0x000

	// GlyphSize is the number of bytes of a single font glyph.
	GlyphSize = 5
)

// ErrOutOfBounds is returned for accesses outside of [0x000,0xFFF].
var ErrOutOfBounds = errors.New("memory address out of bounds")

// Font contains the glyphs for the hex digits 0-F, each 4 pixels wide and 5 rows high.
var Font = [16 * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the byte addressable RAM of the interpreter.
type Memory struct {
	data [Size]byte
}

// New returns a memory with the font loaded.
func New() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset clears all bytes and loads the font table.
func (m *Memory) Reset() {
	clear(m.data[:])
	copy(m.data[FontAddress:], Font[:])
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) (byte, error) {
	if err := checkAddress(int(address)); err != nil {
		return 0, err
	}
	return m.data[address], nil
}

// Write stores a byte at the given address.
func (m *Memory) Write(address uint16, value byte) error {
	if err := checkAddress(int(address)); err != nil {
		return err
	}
	m.data[address] = value
	return nil
}

// Load copies data into memory starting at offset. Nothing is written
// if any byte would land outside of the address space.
func (m *Memory) Load(offset uint16, data []byte) error {
	if len(data) == 0 {
		return checkAddress(int(offset))
	}
	if err := checkAddress(int(offset) + len(data) - 1); err != nil {
		return fmt.Errorf("loading %d bytes at %#04x: %w", len(data), offset, err)
	}
	copy(m.data[offset:], data)
	return nil
}

// Slice returns a copy of length bytes starting at address.
func (m *Memory) Slice(address uint16, length int) ([]byte, error) {
	if length == 0 {
		return []byte{}, nil
	}
	end := int(address) + length - 1
	if err := checkAddress(end); err != nil {
		return nil, err
	}
	buf := make([]byte, length)
	copy(buf, m.data[address:end+1])
	return buf, nil
}

func checkAddress(address int) error {
	if address < 0 || address > MaxAddress {
		return fmt.Errorf("%w: %#04x", ErrOutOfBounds, address)
	}
	return nil
}
