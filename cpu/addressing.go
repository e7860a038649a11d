package cpu

import "github.com/jpactor/65xx-emu/addrmode"

// addrFunc is a pure-per-call addressing-mode evaluator: given the CPU (for
// its memory and register-file access), it consumes operand bytes, advances
// PC, charges its mode's cycle cost into c.instrCycles, and yields the
// effective address. Instruction primitives are written once and composed
// with whichever addrFunc matches the opcode's addressing mode, per §4.2's
// "given an effective-address producer" framing.
type addrFunc func(c *CPU) addrmode.Addr

func (c *CPU) recordEA(a addrmode.Addr) addrmode.Addr {
	c.lastEffectiveAddr = a
	c.lastEffectiveAddrValid = true
	return a
}

func addrImmediate(c *CPU) addrmode.Addr {
	a := addrmode.Addr(c.reg.PC)
	c.reg.PC++
	return a
}

func addrZeroPage(c *CPU) addrmode.Addr {
	b := c.fetchOperandByte()
	c.instrCycles++
	return c.recordEA(addrmode.Addr(b))
}

func addrZeroPageX(c *CPU) addrmode.Addr {
	b := c.fetchOperandByte()
	c.instrCycles += 2
	return c.recordEA(addrmode.Addr(uint8(b + c.reg.X)))
}

func addrZeroPageY(c *CPU) addrmode.Addr {
	b := c.fetchOperandByte()
	c.instrCycles += 2
	return c.recordEA(addrmode.Addr(uint8(b + c.reg.Y)))
}

func addrAbsolute(c *CPU) addrmode.Addr {
	lo := c.fetchOperandByte()
	hi := c.fetchOperandByte()
	c.instrCycles += 2
	return c.recordEA(addrmode.Addr(addrmode.WordFromBytes(lo, hi)))
}

// absIndexed is shared by the Absolute,X and Absolute,Y read/write variants
// (§4.1): read variants charge +2 plus a conditional page-cross cycle;
// write variants unconditionally charge +3.
func (c *CPU) absIndexed(index uint8, write bool) addrmode.Addr {
	lo := c.fetchOperandByte()
	hi := c.fetchOperandByte()
	base := addrmode.WordFromBytes(lo, hi)
	sum := base + addrmode.Word(index)
	if write {
		c.instrCycles += 3
	} else {
		c.instrCycles += 2
		if base&0xFF00 != sum&0xFF00 {
			c.instrCycles++
		}
	}
	return c.recordEA(addrmode.Addr(sum))
}

func addrAbsoluteXRead(c *CPU) addrmode.Addr  { return c.absIndexed(c.reg.X, false) }
func addrAbsoluteXWrite(c *CPU) addrmode.Addr { return c.absIndexed(c.reg.X, true) }
func addrAbsoluteYRead(c *CPU) addrmode.Addr  { return c.absIndexed(c.reg.Y, false) }
func addrAbsoluteYWrite(c *CPU) addrmode.Addr { return c.absIndexed(c.reg.Y, true) }

func addrIndirectX(c *CPU) addrmode.Addr {
	b := c.fetchOperandByte()
	zp := uint8(b + c.reg.X)
	lo := c.mem.Read(addrmode.Addr(zp))
	hi := c.mem.Read(addrmode.Addr(uint8(zp + 1)))
	c.instrCycles += 4
	return c.recordEA(addrmode.Addr(addrmode.WordFromBytes(lo, hi)))
}

// indirectY is shared by the (Indirect),Y read and write variants.
func (c *CPU) indirectY(write bool) addrmode.Addr {
	b := c.fetchOperandByte()
	lo := c.mem.Read(addrmode.Addr(b))
	hi := c.mem.Read(addrmode.Addr(uint8(b + 1)))
	base := addrmode.WordFromBytes(lo, hi)
	sum := base + addrmode.Word(c.reg.Y)
	if write {
		c.instrCycles += 4
	} else {
		c.instrCycles += 3
		if base&0xFF00 != sum&0xFF00 {
			c.instrCycles++
		}
	}
	return c.recordEA(addrmode.Addr(sum))
}

func addrIndirectYRead(c *CPU) addrmode.Addr  { return c.indirectY(false) }
func addrIndirectYWrite(c *CPU) addrmode.Addr { return c.indirectY(true) }
