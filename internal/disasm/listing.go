package disasm

import (
	"fmt"
	"slices"

	"github.com/retroenv/retrogolib/set"
)

const (
	funcNaming  = "_func_%03x"
	labelNaming = "_label_%03x"
)

// Offset is a single entry of a program listing, either an instruction
// or a data byte.
type Offset struct {
	Address uint16
	Label   string
	Code    string // instruction text, empty for data
	Data    []byte
	Comment string
}

// IsCode returns whether the offset contains an instruction.
func (o Offset) IsCode() bool {
	return o.Code != ""
}

// Listing is a disassembled program, ordered by address.
type Listing struct {
	Base    uint16
	Offsets []Offset
}

type tracer struct {
	data []byte
	base uint16

	offsetsToParse     []uint16
	offsetsParsed      set.Set[uint16]
	branchDestinations set.Set[uint16]
	callDestinations   set.Set[uint16]
}

// Trace disassembles a program loaded at the base address. Code is found by
// following the control flow from the base address, everything that is not
// reached is treated as data.
func Trace(data []byte, base uint16) *Listing {
	t := &tracer{
		data:               data,
		base:               base,
		offsetsToParse:     []uint16{base},
		offsetsParsed:      set.New[uint16](),
		branchDestinations: set.New[uint16](),
		callDestinations:   set.New[uint16](),
	}
	t.followExecutionFlow()

	listing := t.buildListing()
	t.processJumpDestinations(listing)
	return listing
}

func (t *tracer) contains(address uint16) bool {
	return address >= t.base && int(address-t.base)+1 < len(t.data)
}

func (t *tracer) opcode(address uint16) uint16 {
	index := int(address - t.base)
	return uint16(t.data[index])<<8 | uint16(t.data[index+1])
}

func (t *tracer) followExecutionFlow() {
	for len(t.offsetsToParse) > 0 {
		address := t.offsetsToParse[0]
		t.offsetsToParse = t.offsetsToParse[1:]

		if t.offsetsParsed.Contains(address) || !t.contains(address) {
			continue
		}

		ins := Decode(t.opcode(address))
		if !ins.Known() {
			continue
		}
		t.offsetsParsed.Add(address)

		next := address + 2
		target, hasTarget := ins.Target()
		if hasTarget {
			t.branchDestinations.Add(target)
			t.offsetsToParse = append(t.offsetsToParse, target)
		}

		switch {
		case ins.IsReturn():
		case ins.IsCall():
			t.callDestinations.Add(target)
			t.offsetsToParse = append(t.offsetsToParse, next)
		case ins.Opcode&0xF000 == 0x1000, ins.Opcode&0xF000 == 0xB000:
		case ins.IsSkip():
			t.offsetsToParse = append(t.offsetsToParse, next, next+2)
		default:
			t.offsetsToParse = append(t.offsetsToParse, next)
		}
	}
}

func (t *tracer) buildListing() *Listing {
	listing := &Listing{
		Base: t.base,
	}

	for index := 0; index < len(t.data); {
		address := t.base + uint16(index)
		if t.offsetsParsed.Contains(address) && t.contains(address) {
			listing.Offsets = append(listing.Offsets, Offset{
				Address: address,
				Code:    Decode(t.opcode(address)).String(),
				Data:    t.data[index : index+2],
			})
			index += 2
			continue
		}

		listing.Offsets = append(listing.Offsets, Offset{
			Address: address,
			Data:    t.data[index : index+1],
		})
		index++
	}
	return listing
}

// processJumpDestinations names all jump destinations and replaces the
// target address of the callers with the label name.
func (t *tracer) processJumpDestinations(listing *Listing) {
	branchDestinations := make([]uint16, 0, len(t.branchDestinations))
	for dest := range t.branchDestinations {
		branchDestinations = append(branchDestinations, dest)
	}
	slices.Sort(branchDestinations)

	names := make(map[uint16]string, len(branchDestinations))
	for _, address := range branchDestinations {
		index, found := slices.BinarySearchFunc(listing.Offsets, address, func(o Offset, address uint16) int {
			return int(o.Address) - int(address)
		})
		if !found {
			handleJumpIntoInstruction(listing, index, address)
			continue
		}

		name := fmt.Sprintf(labelNaming, address)
		if t.callDestinations.Contains(address) {
			name = fmt.Sprintf(funcNaming, address)
		}
		listing.Offsets[index].Label = name
		names[address] = name
	}

	for i, offset := range listing.Offsets {
		if !offset.IsCode() {
			continue
		}
		ins := Decode(uint16(offset.Data[0])<<8 | uint16(offset.Data[1]))
		target, ok := ins.Target()
		if !ok {
			continue
		}
		if name, ok := names[target]; ok {
			listing.Offsets[i].Code = ins.Name + " " + name
		}
	}
}

// handleJumpIntoInstruction marks an instruction that has a jump
// destination inside its second byte. Destinations outside of the
// program are ignored.
func handleJumpIntoInstruction(listing *Listing, index int, address uint16) {
	if index == 0 || index > len(listing.Offsets) {
		return
	}
	offset := &listing.Offsets[index-1]
	if int(address) >= int(offset.Address)+len(offset.Data) {
		return
	}
	offset.Comment = fmt.Sprintf("branch into instruction detected: $%03X", address)
}
