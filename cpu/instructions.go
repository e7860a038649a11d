package cpu

import "github.com/jpactor/65xx-emu/addrmode"

// execFunc is the fully-composed handler stored in an opcode table entry:
// an instruction primitive bound to the addrFunc matching its opcode's
// addressing mode (or, for implied/control-flow instructions, a direct
// closure with no addressing step at all).
type execFunc func(c *CPU)

// --- Load / Store -----------------------------------------------------

func loadA(r addrFunc) execFunc {
	return func(c *CPU) {
		v := c.mem.Read(r(c))
		c.reg.A = v
		c.setZN(v)
	}
}

func loadX(r addrFunc) execFunc {
	return func(c *CPU) {
		v := c.mem.Read(r(c))
		c.reg.X = v
		c.setZN(v)
	}
}

func loadY(r addrFunc) execFunc {
	return func(c *CPU) {
		v := c.mem.Read(r(c))
		c.reg.Y = v
		c.setZN(v)
	}
}

func storeA(r addrFunc) execFunc { return func(c *CPU) { c.mem.Write(r(c), c.reg.A) } }
func storeX(r addrFunc) execFunc { return func(c *CPU) { c.mem.Write(r(c), c.reg.X) } }
func storeY(r addrFunc) execFunc { return func(c *CPU) { c.mem.Write(r(c), c.reg.Y) } }
func storeZ(r addrFunc) execFunc { return func(c *CPU) { c.mem.Write(r(c), 0) } }

// --- Transfer -----------------------------------------------------------

func execTAX(c *CPU) { c.reg.X = c.reg.A; c.setZN(c.reg.X) }
func execTAY(c *CPU) { c.reg.Y = c.reg.A; c.setZN(c.reg.Y) }
func execTXA(c *CPU) { c.reg.A = c.reg.X; c.setZN(c.reg.A) }
func execTYA(c *CPU) { c.reg.A = c.reg.Y; c.setZN(c.reg.A) }
func execTSX(c *CPU) { c.reg.X = c.reg.SP; c.setZN(c.reg.X) }
func execTXS(c *CPU) { c.reg.SP = c.reg.X }

// --- Stack ---------------------------------------------------------------

func execPHA(c *CPU) { c.pushStack(c.reg.A); c.instrCycles++ }
func execPHX(c *CPU) { c.pushStack(c.reg.X); c.instrCycles++ }
func execPHY(c *CPU) { c.pushStack(c.reg.Y); c.instrCycles++ }

// execPHP pushes P with B=1, U=1, per §4.2.
func execPHP(c *CPU) {
	p := c.reg.P.Set(addrmode.FlagBreak).Set(addrmode.FlagUnused)
	c.pushStack(uint8(p))
	c.instrCycles++
}

func execPLA(c *CPU) {
	c.reg.A = c.popStack()
	c.setZN(c.reg.A)
	c.instrCycles += 2
}

func execPLX(c *CPU) {
	c.reg.X = c.popStack()
	c.setZN(c.reg.X)
	c.instrCycles += 2
}

func execPLY(c *CPU) {
	c.reg.Y = c.popStack()
	c.setZN(c.reg.Y)
	c.instrCycles += 2
}

// execPLP pulls P, forcing U=1 and leaving B as pulled, per the §9
// reference decision (same treatment RTI uses).
func execPLP(c *CPU) {
	p := addrmode.Status(c.popStack())
	c.reg.P = p.Set(addrmode.FlagUnused)
	c.instrCycles += 2
}

// --- Arithmetic ------------------------------------------------------

// doADC implements ADC (and, via one's-complement, SBC) with BCD support,
// grounded on the teacher's iADC: per-nibble carry propagation with low-
// and high-nibble fixups. Unlike the NMOS teacher (whose TODO notes N/Z
// come out wrong in decimal mode), this 65C02 core corrects N/Z to reflect
// the decimal-adjusted result.
func (c *CPU) doADC(v uint8) {
	var carry uint8
	if c.reg.P.Has(addrmode.FlagCarry) {
		carry = 1
	}
	if c.reg.P.Has(addrmode.FlagDecimal) {
		lo := (c.reg.A & 0x0F) + (v & 0x0F) + carry
		if lo >= 0x0A {
			lo = ((lo + 0x06) & 0x0F) + 0x10
		}
		sum := uint16(c.reg.A&0xF0) + uint16(v&0xF0) + uint16(lo)
		if sum >= 0xA0 {
			sum += 0x60
		}
		res := uint8(sum & 0xFF)
		seq := (c.reg.A & 0xF0) + (v & 0xF0) + lo
		c.setOverflow(c.reg.A, v, seq)
		c.setCarry(sum)
		c.reg.P = c.reg.P.With(addrmode.FlagZero, res == 0)
		c.reg.P = c.reg.P.With(addrmode.FlagNegative, res&0x80 != 0)
		c.reg.A = res
		return
	}
	sum := uint16(c.reg.A) + uint16(v) + uint16(carry)
	c.setOverflow(c.reg.A, v, uint8(sum))
	c.setCarry(sum)
	c.reg.A = uint8(sum)
	c.setZN(c.reg.A)
}

// doSBC implements SBC; in binary mode it is ADC of the one's complement,
// exactly as real silicon does it. Decimal mode needs its own nibble
// fixups (grounded on the teacher's iSBC) since they subtract rather than
// add.
func (c *CPU) doSBC(v uint8) {
	if !c.reg.P.Has(addrmode.FlagDecimal) {
		c.doADC(^v)
		return
	}
	var carry uint8
	if c.reg.P.Has(addrmode.FlagCarry) {
		carry = 1
	}
	lo := int16(c.reg.A&0x0F) - int16(v&0x0F) + int16(carry) - 1
	if lo < 0 {
		lo = ((lo - 0x06) & 0x0F) - 0x10
	}
	sum := int16(c.reg.A&0xF0) - int16(v&0xF0) + lo
	if sum < 0 {
		sum -= 0x60
	}
	res := uint8(sum & 0xFF)
	b := c.reg.A + ^v + carry
	c.setOverflow(c.reg.A, ^v, b)
	c.setCarry(uint16(c.reg.A) + uint16(^v) + uint16(carry))
	c.reg.P = c.reg.P.With(addrmode.FlagZero, res == 0)
	c.reg.P = c.reg.P.With(addrmode.FlagNegative, res&0x80 != 0)
	c.reg.A = res
}

func adcOp(r addrFunc) execFunc { return func(c *CPU) { c.doADC(c.mem.Read(r(c))) } }
func sbcOp(r addrFunc) execFunc { return func(c *CPU) { c.doSBC(c.mem.Read(r(c))) } }

// --- Logical ---------------------------------------------------------

func andOp(r addrFunc) execFunc {
	return func(c *CPU) { c.reg.A &= c.mem.Read(r(c)); c.setZN(c.reg.A) }
}

func oraOp(r addrFunc) execFunc {
	return func(c *CPU) { c.reg.A |= c.mem.Read(r(c)); c.setZN(c.reg.A) }
}

func eorOp(r addrFunc) execFunc {
	return func(c *CPU) { c.reg.A ^= c.mem.Read(r(c)); c.setZN(c.reg.A) }
}

// bitMem implements BIT for every addressing mode except immediate: Z from
// A&M, N from M bit 7, V from M bit 6.
func bitMem(r addrFunc) execFunc {
	return func(c *CPU) {
		m := c.mem.Read(r(c))
		c.reg.P = c.reg.P.With(addrmode.FlagZero, c.reg.A&m == 0)
		c.reg.P = c.reg.P.With(addrmode.FlagNegative, m&0x80 != 0)
		c.reg.P = c.reg.P.With(addrmode.FlagOverflow, m&0x40 != 0)
	}
}

// bitImmediate implements the 65C02 BIT #imm variant, which only affects Z
// (N and V are left untouched, since there is no memory operand whose bits
// 6/7 are meaningful).
func bitImmediate(r addrFunc) execFunc {
	return func(c *CPU) {
		m := c.mem.Read(r(c))
		c.reg.P = c.reg.P.With(addrmode.FlagZero, c.reg.A&m == 0)
	}
}

// --- Compare ----------------------------------------------------------

func (c *CPU) compare(reg, v uint8) {
	res := uint16(reg) - uint16(v)
	c.reg.P = c.reg.P.With(addrmode.FlagCarry, reg >= v)
	c.reg.P = c.reg.P.With(addrmode.FlagZero, reg == v)
	c.reg.P = c.reg.P.With(addrmode.FlagNegative, uint8(res)&0x80 != 0)
}

func cmpOp(r addrFunc) execFunc { return func(c *CPU) { c.compare(c.reg.A, c.mem.Read(r(c))) } }
func cpxOp(r addrFunc) execFunc { return func(c *CPU) { c.compare(c.reg.X, c.mem.Read(r(c))) } }
func cpyOp(r addrFunc) execFunc { return func(c *CPU) { c.compare(c.reg.Y, c.mem.Read(r(c))) } }

// --- Shift / Rotate ----------------------------------------------------

func aslMem(r addrFunc) execFunc {
	return func(c *CPU) {
		addr := r(c)
		v := c.mem.Read(addr)
		res := v << 1
		c.mem.Write(addr, res)
		c.setCarry(uint16(v) << 1)
		c.setZN(res)
		c.instrCycles += 2
	}
}

func execASLAcc(c *CPU) {
	c.setCarry(uint16(c.reg.A) << 1)
	c.reg.A <<= 1
	c.setZN(c.reg.A)
}

func lsrMem(r addrFunc) execFunc {
	return func(c *CPU) {
		addr := r(c)
		v := c.mem.Read(addr)
		res := v >> 1
		c.mem.Write(addr, res)
		c.reg.P = c.reg.P.With(addrmode.FlagCarry, v&0x01 != 0)
		c.setZN(res)
		c.instrCycles += 2
	}
}

func execLSRAcc(c *CPU) {
	c.reg.P = c.reg.P.With(addrmode.FlagCarry, c.reg.A&0x01 != 0)
	c.reg.A >>= 1
	c.setZN(c.reg.A)
}

func rolMem(r addrFunc) execFunc {
	return func(c *CPU) {
		addr := r(c)
		v := c.mem.Read(addr)
		var carryIn uint8
		if c.reg.P.Has(addrmode.FlagCarry) {
			carryIn = 1
		}
		res := (v << 1) | carryIn
		c.mem.Write(addr, res)
		c.setCarry(uint16(v) << 1)
		c.setZN(res)
		c.instrCycles += 2
	}
}

func execROLAcc(c *CPU) {
	var carryIn uint8
	if c.reg.P.Has(addrmode.FlagCarry) {
		carryIn = 1
	}
	c.setCarry(uint16(c.reg.A) << 1)
	c.reg.A = (c.reg.A << 1) | carryIn
	c.setZN(c.reg.A)
}

func rorMem(r addrFunc) execFunc {
	return func(c *CPU) {
		addr := r(c)
		v := c.mem.Read(addr)
		var carryIn uint8
		if c.reg.P.Has(addrmode.FlagCarry) {
			carryIn = 0x80
		}
		res := (v >> 1) | carryIn
		c.mem.Write(addr, res)
		c.reg.P = c.reg.P.With(addrmode.FlagCarry, v&0x01 != 0)
		c.setZN(res)
		c.instrCycles += 2
	}
}

func execRORAcc(c *CPU) {
	var carryIn uint8
	if c.reg.P.Has(addrmode.FlagCarry) {
		carryIn = 0x80
	}
	carryOut := c.reg.A&0x01 != 0
	c.reg.A = (c.reg.A >> 1) | carryIn
	c.reg.P = c.reg.P.With(addrmode.FlagCarry, carryOut)
	c.setZN(c.reg.A)
}

// --- Increment / Decrement ---------------------------------------------

func incMem(r addrFunc) execFunc {
	return func(c *CPU) {
		addr := r(c)
		v := c.mem.Read(addr) + 1
		c.mem.Write(addr, v)
		c.setZN(v)
		c.instrCycles += 2
	}
}

func decMem(r addrFunc) execFunc {
	return func(c *CPU) {
		addr := r(c)
		v := c.mem.Read(addr) - 1
		c.mem.Write(addr, v)
		c.setZN(v)
		c.instrCycles += 2
	}
}

// execINCAcc/execDECAcc implement the 65C02 INC A / DEC A forms (opcodes
// 0x1A/0x3A), which operate on the accumulator directly with no memory
// round trip.
func execINCAcc(c *CPU) { c.reg.A++; c.setZN(c.reg.A) }
func execDECAcc(c *CPU) { c.reg.A--; c.setZN(c.reg.A) }

func execINX(c *CPU) { c.reg.X++; c.setZN(c.reg.X) }
func execDEX(c *CPU) { c.reg.X--; c.setZN(c.reg.X) }
func execINY(c *CPU) { c.reg.Y++; c.setZN(c.reg.Y) }
func execDEY(c *CPU) { c.reg.Y--; c.setZN(c.reg.Y) }

// --- Branch --------------------------------------------------------------

// branch builds a Relative-mode handler from a taken/not-taken predicate.
// Not taken costs the universal 2-cycle baseline only; taken adds +1, and a
// further +1 if the target crosses a page, per §4.1's Relative row.
func branch(cond func(c *CPU) bool) execFunc {
	return func(c *CPU) {
		offset := c.fetchOperandByte()
		if !cond(c) {
			return
		}
		c.instrCycles++
		before := c.reg.PC
		target := before + addrmode.Word(int16(int8(offset)))
		if before&0xFF00 != target&0xFF00 {
			c.instrCycles++
		}
		c.reg.PC = target
	}
}

func execBCC(c *CPU) { branch(func(c *CPU) bool { return !c.reg.P.Has(addrmode.FlagCarry) })(c) }
func execBCS(c *CPU) { branch(func(c *CPU) bool { return c.reg.P.Has(addrmode.FlagCarry) })(c) }
func execBEQ(c *CPU) { branch(func(c *CPU) bool { return c.reg.P.Has(addrmode.FlagZero) })(c) }
func execBNE(c *CPU) { branch(func(c *CPU) bool { return !c.reg.P.Has(addrmode.FlagZero) })(c) }
func execBMI(c *CPU) { branch(func(c *CPU) bool { return c.reg.P.Has(addrmode.FlagNegative) })(c) }
func execBPL(c *CPU) { branch(func(c *CPU) bool { return !c.reg.P.Has(addrmode.FlagNegative) })(c) }
func execBVC(c *CPU) { branch(func(c *CPU) bool { return !c.reg.P.Has(addrmode.FlagOverflow) })(c) }
func execBVS(c *CPU) { branch(func(c *CPU) bool { return c.reg.P.Has(addrmode.FlagOverflow) })(c) }
func execBRA(c *CPU) { branch(func(c *CPU) bool { return true })(c) }

// --- Jump / Subroutine ---------------------------------------------------

func execJMPAbsolute(c *CPU) {
	lo := c.fetchOperandByte()
	hi := c.fetchOperandByte()
	c.reg.PC = addrmode.WordFromBytes(lo, hi)
	c.instrCycles++
}

// execJMPIndirect implements JMP (addr) with the 65C02's page-wrap bug fix:
// the high byte is always read from ptr+1 as plain 16-bit arithmetic, never
// wrapped within the low page the way NMOS silicon does it.
func execJMPIndirect(c *CPU) {
	lo := c.fetchOperandByte()
	hi := c.fetchOperandByte()
	ptr := addrmode.WordFromBytes(lo, hi)
	tLo := c.mem.Read(addrmode.Addr(ptr))
	tHi := c.mem.Read(addrmode.Addr(ptr + 1))
	c.reg.PC = addrmode.WordFromBytes(tLo, tHi)
	c.instrCycles += 4
}

// execJSR pushes the address of the high operand byte (return-1, matching
// RTS's pull-then-increment) and jumps to the target.
func execJSR(c *CPU) {
	lo := c.fetchOperandByte()
	retAddr := c.reg.PC
	hi := c.mem.Read(addrmode.Addr(c.reg.PC))
	c.pushStack(retAddr.Hi())
	c.pushStack(retAddr.Lo())
	c.reg.PC = addrmode.WordFromBytes(lo, hi)
	c.instrCycles += 4
}

func execRTS(c *CPU) {
	lo := c.popStack()
	hi := c.popStack()
	c.reg.PC = addrmode.WordFromBytes(lo, hi) + 1
	c.instrCycles += 4
}

// execRTI pulls P (forcing U=1, leaving B as pulled) then PC, per the same
// §9 reference decision PLP uses.
func execRTI(c *CPU) {
	p := addrmode.Status(c.popStack())
	c.reg.P = p.Set(addrmode.FlagUnused)
	lo := c.popStack()
	hi := c.popStack()
	c.reg.PC = addrmode.WordFromBytes(lo, hi)
	c.instrCycles += 4
}

// execBRK services like a hardware interrupt (pushing B=1) via the IRQ
// vector, after skipping the signature byte that follows the BRK opcode —
// the real 6502/65C02 return address is start+2, not start+1.
func execBRK(c *CPU) {
	c.reg.PC++
	c.pushInterruptFrame(IRQVector, true)
	c.instrCycles += 5
}

// --- Flag control ---------------------------------------------------------

func execCLC(c *CPU) { c.reg.P = c.reg.P.Clear(addrmode.FlagCarry) }
func execSEC(c *CPU) { c.reg.P = c.reg.P.Set(addrmode.FlagCarry) }
func execCLI(c *CPU) { c.reg.P = c.reg.P.Clear(addrmode.FlagInterrupt) }
func execSEI(c *CPU) { c.reg.P = c.reg.P.Set(addrmode.FlagInterrupt) }
func execCLD(c *CPU) { c.reg.P = c.reg.P.Clear(addrmode.FlagDecimal) }
func execSED(c *CPU) { c.reg.P = c.reg.P.Set(addrmode.FlagDecimal) }
func execCLV(c *CPU) { c.reg.P = c.reg.P.Clear(addrmode.FlagOverflow) }

// --- 65C02 bit ops (TSB/TRB) ----------------------------------------------

func tsbOp(r addrFunc) execFunc {
	return func(c *CPU) {
		addr := r(c)
		m := c.mem.Read(addr)
		c.reg.P = c.reg.P.With(addrmode.FlagZero, c.reg.A&m == 0)
		c.mem.Write(addr, m|c.reg.A)
		c.instrCycles += 2
	}
}

func trbOp(r addrFunc) execFunc {
	return func(c *CPU) {
		addr := r(c)
		m := c.mem.Read(addr)
		c.reg.P = c.reg.P.With(addrmode.FlagZero, c.reg.A&m == 0)
		c.mem.Write(addr, m&^c.reg.A)
		c.instrCycles += 2
	}
}

// --- Halt / Wait / NOP ----------------------------------------------------

func execWAI(c *CPU) { c.halt = HaltWai; c.instrCycles++ }
func execSTP(c *CPU) { c.halt = HaltStp; c.instrCycles++ }
func execNOP(c *CPU) {}

// execNOP1 consumes one operand byte without using it, for reserved opcode
// slots WDC documents as future 2-byte NOPs.
func execNOP1(c *CPU) { c.fetchOperandByte() }

// execNOP2 consumes two operand bytes without using them, for reserved
// opcode slots WDC documents as future 3-byte NOPs.
func execNOP2(c *CPU) { c.fetchOperandByte(); c.fetchOperandByte() }
