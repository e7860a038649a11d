package cpu

import "github.com/jpactor/65xx-emu/addrmode"

// InstructionTrace carries everything observable about a single step: the
// decoded instruction, its operand bytes, the effective address it
// resolved to (if any), and the cycle accounting for the step.
type InstructionTrace struct {
	StartPC           addrmode.Word
	Opcode            uint8
	Mnemonic          Mnemonic
	Mode              Mode
	OperandLength     uint8
	Operand           [4]uint8
	EffectiveAddr     addrmode.Addr
	HasEffectiveAddr  bool
	StartCycle        addrmode.Cycle
	InstructionCycles addrmode.Cycle
	Halt              HaltReason
	Registers         Registers
}

// Listener is the debug-hook contract: before/after-step event pairs. The
// driver holds at most one listener (a single owned slot, not a multicast
// list — a listener that needs to fan out can do so itself). Listeners must
// not mutate CPU state directly; the only state change available to them is
// RequestStop.
type Listener interface {
	OnBeforeStep(trace InstructionTrace)
	OnAfterStep(trace InstructionTrace)
}
