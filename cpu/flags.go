package cpu

import "github.com/jpactor/65xx-emu/addrmode"

// setZN sets Z and N from the final byte of a load/ALU result, per the
// uniform flag rule in §4.2: Z := result == 0, N := result bit 7.
func (c *CPU) setZN(v uint8) {
	c.reg.P = c.reg.P.With(addrmode.FlagZero, v == 0)
	c.reg.P = c.reg.P.With(addrmode.FlagNegative, v&0x80 != 0)
}

// setCarry sets C from a 9-bit-or-wider ALU result.
func (c *CPU) setCarry(res uint16) {
	c.reg.P = c.reg.P.With(addrmode.FlagCarry, res >= 0x100)
}

// setOverflow sets V when the two operand signs agree and differ from the
// result's sign — the standard signed-overflow condition.
func (c *CPU) setOverflow(a, operand, res uint8) {
	c.reg.P = c.reg.P.With(addrmode.FlagOverflow, (a^res)&(operand^res)&0x80 != 0)
}

func (c *CPU) pushStack(v uint8) {
	c.mem.Write(addrmode.Addr(0x0100)+addrmode.Addr(c.reg.SP), v)
	c.reg.SP--
}

func (c *CPU) popStack() uint8 {
	c.reg.SP++
	return c.mem.Read(addrmode.Addr(0x0100) + addrmode.Addr(c.reg.SP))
}

// fetchOperandByte reads the byte at PC and advances PC past it.
func (c *CPU) fetchOperandByte() uint8 {
	v := c.mem.Read(addrmode.Addr(c.reg.PC))
	c.reg.PC++
	return v
}
