package cpu

import "github.com/jpactor/65xx-emu/addrmode"

// pushInterruptFrame pushes PC (high then low) and P (with U forced set and
// B set only for a software BRK), sets I, and loads PC from vector. This is
// the shared machinery behind hardware IRQ/NMI service and the BRK
// instruction primitive, per the design note that BRK "services like IRQ"
// (B=1) while hardware interrupts push B=0.
func (c *CPU) pushInterruptFrame(vector addrmode.Addr, brk bool) {
	c.pushStack(c.reg.PC.Hi())
	c.pushStack(c.reg.PC.Lo())
	p := c.reg.P.Set(addrmode.FlagUnused)
	p = p.With(addrmode.FlagBreak, brk)
	c.pushStack(uint8(p))
	c.reg.P = c.reg.P.Set(addrmode.FlagInterrupt)
	c.reg.PC = c.mem.ReadWord(vector)
}

// serviceInterrupt handles a hardware NMI/IRQ: push the frame with B=0 and
// charge the fixed 7-cycle service cost. Called directly from Step, outside
// the normal opcode-table dispatch.
func (c *CPU) serviceInterrupt(vector addrmode.Addr) addrmode.Cycle {
	c.pushInterruptFrame(vector, false)
	return 7
}
