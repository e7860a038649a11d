package cpu

import "github.com/jpactor/65xx-emu/addrmode"

// Width tags a Registers value with the CPU variant it belongs to. Only
// Width8 (65C02) has an implemented register body today; Width16 and
// Width32 are documented extension points for the 65816 (native mode) and
// a hypothetical 65832, per the register-file-as-tagged-variant design note
// — a tagged variant over width, not a generically-parameterized struct.
type Width uint8

const (
	Width8 Width = iota
	Width16
	Width32
)

// Registers is the 65C02 register file: A, X, Y, SP, P, PC. Widening to
// 65816/65832 means adding sibling fields gated by Width (e.g. a 16-bit A
// when the M flag is clear) rather than replacing this type; NewCPU rejects
// any Width other than Width8 today.
type Registers struct {
	Width Width
	A     uint8
	X     uint8
	Y     uint8
	SP    uint8
	P     addrmode.Status
	PC    addrmode.Word
}
