// Package cpu implements the 65C02 execution engine: register file, CPU
// state, addressing-mode evaluators, instruction primitives, the opcode
// table, and the execution/interrupt/halt driver. It is deliberately kept
// as one package, the way the teacher keeps register state, flag helpers,
// and opcode dispatch together in cpu/cpu.go.
package cpu

import (
	"errors"
	"sync"

	"github.com/jpactor/65xx-emu/addrmode"
	"github.com/jpactor/65xx-emu/irq"
	"github.com/jpactor/65xx-emu/memory"
)

// Hardware vectors, bit-exact per §6.
const (
	NMIVector   addrmode.Addr = 0xFFFA
	ResetVector addrmode.Addr = 0xFFFC
	IRQVector   addrmode.Addr = 0xFFFE
)

// ErrInvalidArgument is returned by AttachDebugger(nil). (The disassemble
// package reports an empty or inverted range with its own ErrInvalidRange.)
var ErrInvalidArgument = errors.New("cpu: invalid argument")

// ErrUnimplementedWidth is returned by NewCPU for any Width other than
// Width8; 65816/65832 register bodies are a documented extension point, not
// yet implemented.
var ErrUnimplementedWidth = errors.New("cpu: unimplemented register width")

// CPU is the execution driver: one instance owns one register file, one
// cycle counter, and a memory.Bank collaborator. It is single-threaded
// cooperative per §5 — step is atomic from the caller's perspective, and
// only SignalIRQ/SignalNMI/RequestStop/ClearStopRequest may be called
// concurrently with Step.
type CPU struct {
	mem memory.Bank
	reg Registers

	totalCycles addrmode.Cycle
	halt        HaltReason

	listener  Listener
	irqSender irq.Sender

	mu            sync.Mutex
	irqPending    bool
	nmiPending    bool
	stopRequested bool

	// instrCycles accumulates the total cycles of the instruction currently
	// executing: set to the universal 2-cycle fetch/decode baseline at the
	// top of executeOne, then increased by the addressing-mode evaluator and
	// instruction primitive.
	instrCycles int

	// lastEffectiveAddr/lastEffectiveAddrValid record the effective
	// address resolved by the current instruction's addressing-mode
	// evaluator, for debug-trace reporting. Cleared at the start of every
	// Step that runs, so an interrupt-service step reports none.
	lastEffectiveAddr      addrmode.Addr
	lastEffectiveAddrValid bool
}

// NewCPU constructs a driver over mem with an 8-bit (65C02) register file
// and runs Reset. Only Width8 is implemented today.
func NewCPU(mem memory.Bank, width Width) (*CPU, error) {
	if width != Width8 {
		return nil, ErrUnimplementedWidth
	}
	c := &CPU{mem: mem}
	c.reg.Width = Width8
	c.Reset()
	return c, nil
}

// Reset loads PC from the reset vector, sets SP to 0xFD, clears A/X/Y,
// sets P to {I=1, U=1}, clears the halt reason, the stop-request flag, and
// both interrupt latches. The total cycle counter is preserved, per Open
// Question 1's reference decision.
func (c *CPU) Reset() {
	c.mu.Lock()
	c.irqPending = false
	c.nmiPending = false
	c.stopRequested = false
	c.mu.Unlock()

	c.halt = HaltNone
	c.reg.A = 0
	c.reg.X = 0
	c.reg.Y = 0
	c.reg.SP = 0xFD
	c.reg.P = addrmode.FlagInterrupt.Set(addrmode.FlagUnused)
	c.reg.PC = c.mem.ReadWord(ResetVector)
}

// SignalIRQ latches a maskable interrupt request. Edge-triggered: the latch
// is cleared when serviced, per Open Question 3's reference decision.
func (c *CPU) SignalIRQ() {
	c.mu.Lock()
	c.irqPending = true
	c.mu.Unlock()
}

// SignalNMI latches a non-maskable interrupt request.
func (c *CPU) SignalNMI() {
	c.mu.Lock()
	c.nmiPending = true
	c.mu.Unlock()
}

// RequestStop asks ExecuteFrom to return after the in-flight step finishes.
func (c *CPU) RequestStop() {
	c.mu.Lock()
	c.stopRequested = true
	c.mu.Unlock()
}

// ClearStopRequest clears a prior RequestStop.
func (c *CPU) ClearStopRequest() {
	c.mu.Lock()
	c.stopRequested = false
	c.mu.Unlock()
}

func (c *CPU) pendingInterrupts() (nmi, irq bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nmiPending, c.irqPending
}

func (c *CPU) clearNMI() {
	c.mu.Lock()
	c.nmiPending = false
	c.mu.Unlock()
}

func (c *CPU) clearIRQ() {
	c.mu.Lock()
	c.irqPending = false
	c.mu.Unlock()
}

func (c *CPU) stopObserved() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopRequested
}

// AttachDebugger registers the single debug listener slot. Attaching nil
// fails fast with ErrInvalidArgument; the prior listener (if any) is
// replaced, matching the "at most one listener" contract.
func (c *CPU) AttachDebugger(l Listener) error {
	if l == nil {
		return ErrInvalidArgument
	}
	c.listener = l
	return nil
}

// DetachDebugger clears the debug listener slot.
func (c *CPU) DetachDebugger() {
	c.listener = nil
}

// AttachIRQSender wires an optional polled interrupt source. Step polls it
// once per call and latches SignalIRQ when it reports raised, bridging a
// collaborator that would rather be polled than call SignalIRQ itself.
func (c *CPU) AttachIRQSender(s irq.Sender) {
	c.irqSender = s
}

// GetState returns a full copy of the driver's state.
func (c *CPU) GetState() CpuState {
	nmi, irq := c.pendingInterrupts()
	return CpuState{
		Registers:     c.reg,
		TotalCycles:   c.totalCycles,
		Halt:          c.halt,
		IRQPending:    irq,
		NMIPending:    nmi,
		StopRequested: c.stopObserved(),
	}
}

// SetState restores a full driver state previously captured by GetState.
func (c *CPU) SetState(s CpuState) {
	c.reg = s.Registers
	c.totalCycles = s.TotalCycles
	c.halt = s.Halt
	c.mu.Lock()
	c.irqPending = s.IRQPending
	c.nmiPending = s.NMIPending
	c.stopRequested = s.StopRequested
	c.mu.Unlock()
}

// Step executes one instruction (or, if an interrupt is pending and
// unmasked, services it instead) and returns the cycles it consumed. If the
// CPU is halted and no resume condition is met, Step returns 0 without
// touching memory at all — not even the debug-listener opcode peek.
func (c *CPU) Step() addrmode.Cycle {
	if c.irqSender != nil && c.irqSender.Raised() {
		c.SignalIRQ()
	}

	nmi, irqPending := c.pendingInterrupts()

	switch c.halt {
	case HaltStp:
		return 0
	case HaltWai:
		if !(nmi || (irqPending && !c.reg.P.Has(addrmode.FlagInterrupt))) {
			return 0
		}
	}

	haveListener := c.listener != nil
	var pre InstructionTrace
	if haveListener {
		pre = c.capturePre()
		c.listener.OnBeforeStep(pre)
	}

	if c.halt == HaltWai {
		c.halt = HaltNone
	}

	c.lastEffectiveAddrValid = false
	var used addrmode.Cycle
	switch {
	case nmi:
		c.clearNMI()
		used = c.serviceInterrupt(NMIVector)
	case irqPending && !c.reg.P.Has(addrmode.FlagInterrupt):
		c.clearIRQ()
		used = c.serviceInterrupt(IRQVector)
	default:
		used = c.executeOne()
	}
	c.totalCycles += used

	if haveListener {
		post := c.completeTrace(pre, used)
		c.listener.OnAfterStep(post)
	}
	return used
}

// ExecuteFrom sets PC to start, clears the stop-request flag and halt
// reason, then steps until the CPU halts or a stop request is observed
// (checked after each step).
func (c *CPU) ExecuteFrom(start addrmode.Word) {
	c.reg.PC = start
	c.ClearStopRequest()
	c.halt = HaltNone
	for {
		c.Step()
		if c.halt != HaltNone {
			return
		}
		if c.stopObserved() {
			return
		}
	}
}

// executeOne fetches the opcode at PC, advances PC past it, and invokes the
// composed handler from the shared opcode table. It is only ever called
// when no interrupt is being serviced this step.
func (c *CPU) executeOne() addrmode.Cycle {
	op := c.mem.Read(addrmode.Addr(c.reg.PC))
	c.reg.PC++
	entry := opcodeTable[op]
	c.instrCycles = 2
	c.lastEffectiveAddrValid = false
	entry.exec(c)
	return addrmode.Cycle(c.instrCycles)
}

func (c *CPU) capturePre() InstructionTrace {
	pc := c.reg.PC
	op := c.mem.Read(addrmode.Addr(pc))
	entry := opcodeTable[op]
	var operand [4]uint8
	for i := uint8(0); i < entry.Length && i < 4; i++ {
		operand[i] = c.mem.Read(addrmode.Addr(pc) + addrmode.Addr(i) + 1)
	}
	return InstructionTrace{
		StartPC:       pc,
		Opcode:        op,
		Mnemonic:      entry.Mnemonic,
		Mode:          entry.Mode,
		OperandLength: entry.Length,
		Operand:       operand,
		StartCycle:    c.totalCycles,
		Halt:          c.halt,
		Registers:     c.reg,
	}
}

func (c *CPU) completeTrace(pre InstructionTrace, used addrmode.Cycle) InstructionTrace {
	post := pre
	post.InstructionCycles = used
	post.Halt = c.halt
	post.Registers = c.reg
	if c.lastEffectiveAddrValid {
		post.EffectiveAddr = c.lastEffectiveAddr
		post.HasEffectiveAddr = true
	}
	return post
}

// Describe returns the decoded (mnemonic, mode, operand length) for an
// opcode byte. The disassembler calls this instead of holding its own
// table, guaranteeing it always agrees with execution.
func Describe(opcode uint8) (Mnemonic, Mode, uint8) {
	e := opcodeTable[opcode]
	return e.Mnemonic, e.Mode, e.Length
}
