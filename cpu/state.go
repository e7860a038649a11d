package cpu

import "github.com/jpactor/65xx-emu/addrmode"

// HaltReason identifies why the CPU is not runnable. Collapsed into a
// single enum per the spec's data-model note instead of a separate
// Halted(bool) plus HaltReason pair.
type HaltReason uint8

const (
	// HaltNone is the normal, running state.
	HaltNone HaltReason = iota
	// HaltBrkLegacy exists for backward compatibility with a prior
	// revision that halted the CPU on BRK. Current BRK semantics service
	// the IRQ vector and do not halt; nothing in this implementation
	// transitions into this state today.
	HaltBrkLegacy
	// HaltWai is entered by WAI; it clears on any NMI or unmasked IRQ.
	HaltWai
	// HaltStp is entered by STP; only Reset clears it.
	HaltStp
)

// CpuState is the full, save/restorable state of a driver instance:
// register file, total cycle count, halt reason, and the interrupt/stop
// latches.
type CpuState struct {
	Registers     Registers
	TotalCycles   addrmode.Cycle
	Halt          HaltReason
	IRQPending    bool
	NMIPending    bool
	StopRequested bool
}

// Halted reports whether the state's halt reason is anything but HaltNone.
func (s CpuState) Halted() bool { return s.Halt != HaltNone }
