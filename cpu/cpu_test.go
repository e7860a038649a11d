package cpu

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/jpactor/65xx-emu/addrmode"
	"github.com/jpactor/65xx-emu/memory"
)

func newTestCPU(t *testing.T, resetVector addrmode.Word) (*CPU, memory.Bank) {
	t.Helper()
	mem, err := memory.New(1 << 16)
	if err != nil {
		t.Fatalf("memory.New: %v", err)
	}
	mem.WriteWord(ResetVector, resetVector)
	c, err := NewCPU(mem, Width8)
	if err != nil {
		t.Fatalf("NewCPU: %v", err)
	}
	return c, mem
}

func load(t *testing.T, mem memory.Bank, at addrmode.Addr, bytes ...uint8) {
	t.Helper()
	for i, b := range bytes {
		mem.Write(at+addrmode.Addr(i), b)
	}
}

// --- Universal invariants -------------------------------------------------

func TestResetState(t *testing.T) {
	c, _ := newTestCPU(t, 0x0800)
	st := c.GetState()
	want := CpuState{
		Registers: Registers{
			Width: Width8, A: 0, X: 0, Y: 0, SP: 0xFD,
			P: addrmode.FlagInterrupt | addrmode.FlagUnused, PC: 0x0800,
		},
	}
	if diff := deep.Equal(st, want); diff != nil {
		t.Errorf("post-reset state diff: %v", diff)
	}
}

func TestResetPreservesTotalCycles(t *testing.T) {
	c, mem := newTestCPU(t, 0x0800)
	load(t, mem, 0x0800, 0xEA) // NOP
	c.Step()
	before := c.GetState().TotalCycles
	if before == 0 {
		t.Fatal("expected Step to have consumed cycles")
	}
	c.Reset()
	if got := c.GetState().TotalCycles; got != before {
		t.Errorf("TotalCycles after Reset = %d, want %d (preserved)", got, before)
	}
}

func TestHaltedStepReturnsZeroCyclesAndTouchesNothing(t *testing.T) {
	c, mem := newTestCPU(t, 0x0800)
	load(t, mem, 0x0800, 0xDB) // STP
	c.Step()
	if c.GetState().Halt != HaltStp {
		t.Fatalf("expected HaltStp after STP")
	}
	before := c.GetState()
	if used := c.Step(); used != 0 {
		t.Errorf("Step on halted CPU returned %d cycles, want 0", used)
	}
	if diff := deep.Equal(c.GetState(), before); diff != nil {
		t.Errorf("state changed across a no-op halted Step: %v", diff)
	}
}

func TestUnknownOpcodeDecodesAsSentinelNOP(t *testing.T) {
	// 0x02 is one of WDC's reserved future 2-byte NOP slots: it must still
	// decode as the MnemNone sentinel, but with the real one-operand-byte
	// length so PC and the disassembler stay in sync.
	mnem, mode, length := Describe(0x02)
	if mnem != MnemNone || mode != ModeImmediate || length != 1 {
		t.Errorf("Describe(0x02) = (%v, %v, %d), want (MnemNone, ModeImmediate, 1)", mnem, mode, length)
	}

	// A genuinely unreserved unassigned slot still decodes as the plain
	// one-byte sentinel.
	mnem, mode, length = Describe(0x03)
	if mnem != MnemNone || mode != ModeImplied || length != 0 {
		t.Errorf("Describe(0x03) = (%v, %v, %d), want (MnemNone, ModeImplied, 0)", mnem, mode, length)
	}
}

func TestAttachDebuggerRejectsNil(t *testing.T) {
	c, _ := newTestCPU(t, 0x0800)
	if err := c.AttachDebugger(nil); err != ErrInvalidArgument {
		t.Errorf("AttachDebugger(nil) = %v, want ErrInvalidArgument", err)
	}
}

type recordingListener struct {
	before, after []InstructionTrace
}

func (l *recordingListener) OnBeforeStep(tr InstructionTrace) { l.before = append(l.before, tr) }
func (l *recordingListener) OnAfterStep(tr InstructionTrace)  { l.after = append(l.after, tr) }

func TestListenerSeesEveryStep(t *testing.T) {
	c, mem := newTestCPU(t, 0x0800)
	load(t, mem, 0x0800, 0xEA, 0xEA)
	var l recordingListener
	if err := c.AttachDebugger(&l); err != nil {
		t.Fatalf("AttachDebugger: %v", err)
	}
	c.Step()
	c.Step()
	if len(l.before) != 2 || len(l.after) != 2 {
		t.Fatalf("got %d before / %d after, want 2/2", len(l.before), len(l.after))
	}
	if l.after[0].InstructionCycles != 2 {
		t.Errorf("NOP cycles = %d, want 2", l.after[0].InstructionCycles)
	}
}

// --- Boundary cases --------------------------------------------------------

func TestZeroPageXWraps(t *testing.T) {
	c, mem := newTestCPU(t, 0x0800)
	load(t, mem, 0x0800, 0xB5, 0xFF) // LDA $FF,X
	mem.Write(0x007F, 0x99)
	c.SetState(CpuState{Registers: Registers{Width: Width8, X: 0x80, PC: 0x0800, SP: 0xFD}})
	used := c.Step()
	if c.GetState().Registers.A != 0x99 {
		t.Errorf("A = %#x, want 0x99 (zero-page wrap)", c.GetState().Registers.A)
	}
	if used != 4 {
		t.Errorf("cycles = %d, want 4", used)
	}
}

func TestAbsoluteXPageCrossAddsCycle(t *testing.T) {
	c, mem := newTestCPU(t, 0x0800)
	load(t, mem, 0x0800, 0xBD, 0xFF, 0x10) // LDA $10FF,X
	mem.Write(0x1100, 0x55)
	c.SetState(CpuState{Registers: Registers{Width: Width8, X: 0x01, PC: 0x0800, SP: 0xFD}})
	if used := c.Step(); used != 5 {
		t.Errorf("cycles with page cross = %d, want 5", used)
	}
}

func TestAbsoluteXWriteVariantNeverAddsPageCrossCycle(t *testing.T) {
	c, mem := newTestCPU(t, 0x0800)
	load(t, mem, 0x0800, 0x9D, 0xFF, 0x10) // STA $10FF,X
	c.SetState(CpuState{Registers: Registers{Width: Width8, A: 0x01, X: 0x01, PC: 0x0800, SP: 0xFD}})
	if used := c.Step(); used != 5 {
		t.Errorf("STA abs,X cycles = %d, want 5 (unconditional)", used)
	}
}

func TestBCDAdc(t *testing.T) {
	c, mem := newTestCPU(t, 0x0800)
	load(t, mem, 0x0800, 0x69, 0x01) // ADC #$01
	c.SetState(CpuState{Registers: Registers{
		Width: Width8, A: 0x09, PC: 0x0800, SP: 0xFD,
		P: addrmode.FlagDecimal,
	}})
	c.Step()
	st := c.GetState()
	if st.Registers.A != 0x10 {
		t.Errorf("A = %#x, want 0x10", st.Registers.A)
	}
	if st.Registers.P.Has(addrmode.FlagCarry) {
		t.Error("C set, want clear")
	}
	if st.Registers.P.Has(addrmode.FlagZero) {
		t.Error("Z set, want clear")
	}
}

func TestJMPIndirectPageWrapIsFixedOn65C02(t *testing.T) {
	c, mem := newTestCPU(t, 0x0800)
	load(t, mem, 0x0800, 0x6C, 0xFF, 0x02) // JMP ($02FF)
	mem.Write(0x02FF, 0x00)
	mem.Write(0x0300, 0x30) // high byte at 0x0300, NOT wrapped to 0x0200
	mem.Write(0x0200, 0xFF) // NMOS-bug byte; must not be used
	c.Step()
	if got := c.GetState().Registers.PC; got != 0x3000 {
		t.Errorf("PC = %#x, want 0x3000 (page-wrap bug fixed)", got)
	}
}

// --- End-to-end scenarios ---------------------------------------------------

func TestJSRRTSRoundTrip(t *testing.T) {
	c, mem := newTestCPU(t, 0x0800)
	load(t, mem, 0x0800, 0x20, 0x00, 0x09) // JSR $0900
	load(t, mem, 0x0900, 0x60)             // RTS
	used := c.Step()
	if used != 6 {
		t.Errorf("JSR cycles = %d, want 6", used)
	}
	if got := c.GetState().Registers.PC; got != 0x0900 {
		t.Errorf("PC after JSR = %#x, want 0x0900", got)
	}
	used = c.Step()
	if used != 6 {
		t.Errorf("RTS cycles = %d, want 6", used)
	}
	if got := c.GetState().Registers.PC; got != 0x0803 {
		t.Errorf("PC after RTS = %#x, want 0x0803", got)
	}
}

func TestBRKServicesIRQVectorWithBreakFlagSet(t *testing.T) {
	c, mem := newTestCPU(t, 0x0800)
	mem.WriteWord(IRQVector, 0x4000)
	load(t, mem, 0x0800, 0x00, 0xEA) // BRK <signature byte>
	used := c.Step()
	if used != 7 {
		t.Errorf("BRK cycles = %d, want 7", used)
	}
	st := c.GetState()
	if st.Registers.PC != 0x4000 {
		t.Errorf("PC after BRK = %#x, want 0x4000", st.Registers.PC)
	}
	if !st.Registers.P.Has(addrmode.FlagInterrupt) {
		t.Error("I not set after BRK")
	}
	pushedP := mem.Read(0x0100 + addrmode.Addr(st.Registers.SP) + 1)
	if addrmode.Status(pushedP)&addrmode.FlagBreak == 0 {
		t.Error("pushed P does not have B set for software BRK")
	}
}

func TestHardwareIRQDoesNotSetBreakFlag(t *testing.T) {
	c, mem := newTestCPU(t, 0x0800)
	mem.WriteWord(IRQVector, 0x5000)
	load(t, mem, 0x0800, 0xEA)
	st := c.GetState()
	st.Registers.P = st.Registers.P.Clear(addrmode.FlagInterrupt)
	c.SetState(st)
	c.SignalIRQ()
	used := c.Step()
	if used != 7 {
		t.Errorf("hardware IRQ service cycles = %d, want 7", used)
	}
	st = c.GetState()
	if st.Registers.PC != 0x5000 {
		t.Errorf("PC after IRQ = %#x, want 0x5000", st.Registers.PC)
	}
	pushedP := mem.Read(0x0100 + addrmode.Addr(st.Registers.SP) + 1)
	if addrmode.Status(pushedP)&addrmode.FlagBreak != 0 {
		t.Error("pushed P has B set for a hardware IRQ, want clear")
	}
}

func TestMaskedIRQIsDeferredUntilCLI(t *testing.T) {
	c, mem := newTestCPU(t, 0x0800)
	mem.WriteWord(IRQVector, 0x5000)
	load(t, mem, 0x0800, 0xEA, 0x58) // NOP ; CLI
	c.SetState(CpuState{Registers: Registers{
		Width: Width8, PC: 0x0800, SP: 0xFD, P: addrmode.FlagInterrupt,
	}})
	c.SignalIRQ()
	c.Step() // NOP; IRQ still masked
	if c.GetState().Registers.PC != 0x0801 {
		t.Fatalf("IRQ serviced while masked")
	}
	c.Step() // CLI; unmasks, but IRQ check already happened for this step
	c.Step() // now observed
	if got := c.GetState().Registers.PC; got != 0x5000 {
		t.Errorf("PC = %#x, want 0x5000 (IRQ finally serviced)", got)
	}
}

func TestWAIResumesOnUnmaskedIRQ(t *testing.T) {
	c, mem := newTestCPU(t, 0x0800)
	mem.WriteWord(IRQVector, 0x6000)
	load(t, mem, 0x0800, 0xCB) // WAI
	st := c.GetState()
	st.Registers.P = st.Registers.P.Clear(addrmode.FlagInterrupt)
	c.SetState(st)
	c.Step()
	if c.GetState().Halt != HaltWai {
		t.Fatalf("expected HaltWai after WAI")
	}
	c.SignalIRQ()
	used := c.Step()
	if used != 7 {
		t.Errorf("cycles resuming from WAI = %d, want 7", used)
	}
	if c.GetState().Halt != HaltNone {
		t.Error("still halted after servicing the waking IRQ")
	}
	if got := c.GetState().Registers.PC; got != 0x6000 {
		t.Errorf("PC = %#x, want 0x6000", got)
	}
}

func TestSTPOnlyClearsOnReset(t *testing.T) {
	c, mem := newTestCPU(t, 0x0800)
	load(t, mem, 0x0800, 0xDB) // STP
	c.Step()
	c.SignalIRQ()
	c.SignalNMI()
	c.Step()
	if c.GetState().Halt != HaltStp {
		t.Fatal("STP cleared by an interrupt signal, want only Reset to clear it")
	}
	c.Reset()
	if c.GetState().Halt != HaltNone {
		t.Error("STP not cleared by Reset")
	}
}

func TestExecuteFromStopsOnRequestStop(t *testing.T) {
	c, mem := newTestCPU(t, 0x0800)
	for i := addrmode.Addr(0); i < 0x100; i++ {
		mem.Write(0x0800+i, 0xEA)
	}
	var l countingListener
	c.AttachDebugger(&l)
	l.stopAfter = 5
	l.cpu = c
	c.ExecuteFrom(0x0800)
	if l.steps != 5 {
		t.Errorf("steps executed = %d, want 5", l.steps)
	}
}

type countingListener struct {
	cpu       *CPU
	steps     int
	stopAfter int
}

func (l *countingListener) OnBeforeStep(InstructionTrace) {}
func (l *countingListener) OnAfterStep(InstructionTrace) {
	l.steps++
	if l.steps >= l.stopAfter {
		l.cpu.RequestStop()
	}
}
