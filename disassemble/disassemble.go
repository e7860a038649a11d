// Package disassemble renders instructions from memory as text. It decodes
// strictly through cpu.Describe, the same opcode table the execution
// driver dispatches against, so a listing can never diverge from what
// actually runs.
package disassemble

import (
	"errors"
	"fmt"

	"github.com/jpactor/65xx-emu/addrmode"
	"github.com/jpactor/65xx-emu/cpu"
	"github.com/jpactor/65xx-emu/memory"
)

// ErrInvalidRange is returned by Range when end <= start.
var ErrInvalidRange = errors.New("disassemble: invalid range")

// Line is one decoded instruction: its address, raw bytes, and rendered
// text, per §4.5.
type Line struct {
	Addr  addrmode.Addr
	Bytes []uint8
	Text  string
}

// One decodes the instruction at addr and returns it along with the address
// of the next instruction.
func One(addr addrmode.Addr, mem memory.Bank) (Line, addrmode.Addr) {
	opcode := mem.Read(addr)
	mnem, mode, length := cpu.Describe(opcode)

	raw := make([]uint8, 1, length+1)
	raw[0] = opcode
	for i := uint8(0); i < length; i++ {
		raw = append(raw, mem.Read(addr+addrmode.Addr(i)+1))
	}

	text := formatLine(mnem, mode, addr, raw[1:])
	return Line{Addr: addr, Bytes: raw, Text: text}, addr + addrmode.Addr(len(raw))
}

func formatLine(mnem cpu.Mnemonic, mode cpu.Mode, addr addrmode.Addr, operand []uint8) string {
	name := mnem.String()
	if mnem == cpu.MnemNone {
		// Reserved slots render as the bare sentinel regardless of how many
		// operand bytes they reserve.
		return name
	}
	switch mode {
	case cpu.ModeImplied:
		return name
	case cpu.ModeAccumulator:
		return fmt.Sprintf("%s A", name)
	case cpu.ModeImmediate:
		return fmt.Sprintf("%s #$%02X", name, operand[0])
	case cpu.ModeZeroPage:
		return fmt.Sprintf("%s $%02X", name, operand[0])
	case cpu.ModeZeroPageX:
		return fmt.Sprintf("%s $%02X,X", name, operand[0])
	case cpu.ModeZeroPageY:
		return fmt.Sprintf("%s $%02X,Y", name, operand[0])
	case cpu.ModeAbsolute:
		return fmt.Sprintf("%s $%04X", name, le16(operand))
	case cpu.ModeAbsoluteX:
		return fmt.Sprintf("%s $%04X,X", name, le16(operand))
	case cpu.ModeAbsoluteY:
		return fmt.Sprintf("%s $%04X,Y", name, le16(operand))
	case cpu.ModeIndirect:
		return fmt.Sprintf("%s ($%04X)", name, le16(operand))
	case cpu.ModeIndirectX:
		return fmt.Sprintf("%s ($%02X,X)", name, operand[0])
	case cpu.ModeIndirectY:
		return fmt.Sprintf("%s ($%02X),Y", name, operand[0])
	case cpu.ModeRelative:
		target := uint16(addr) + 2 + uint16(int16(int8(operand[0])))
		return fmt.Sprintf("%s $%04X", name, target)
	default:
		return name
	}
}

func le16(operand []uint8) uint16 {
	return uint16(operand[0]) | uint16(operand[1])<<8
}

// Range disassembles every instruction whose opcode byte lies in
// [start, end), per §4.5; the last instruction's operand bytes may extend
// past end. end <= start fails with ErrInvalidRange.
func Range(start, end addrmode.Addr, mem memory.Bank) ([]Line, error) {
	if end <= start {
		return nil, ErrInvalidRange
	}
	var lines []Line
	addr := start
	for addr < end {
		line, next := One(addr, mem)
		lines = append(lines, line)
		addr = next
	}
	return lines, nil
}

// Count disassembles exactly n instructions starting at start.
func Count(start addrmode.Addr, n int, mem memory.Bank) []Line {
	lines := make([]Line, 0, n)
	addr := start
	for i := 0; i < n; i++ {
		line, next := One(addr, mem)
		lines = append(lines, line)
		addr = next
	}
	return lines
}

// String renders a Line as "$ADDR: " followed by the hex bytes
// (space-separated per §4.5's byte-column rule, left-aligned in an
// 8-character column), one space, and the text: "$1002: 8D 00 02 STA $0200",
// "$1000: A9 42    LDA #$42".
func (l Line) String() string {
	bytesCol := ""
	for i, b := range l.Bytes {
		if i > 0 {
			bytesCol += " "
		}
		bytesCol += fmt.Sprintf("%02X", b)
	}
	return fmt.Sprintf("$%04X: %-8s %s", l.Addr, bytesCol, l.Text)
}
