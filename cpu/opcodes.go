package cpu

// OpcodeEntry is one row of the shared opcode table: the decoded mnemonic
// and addressing mode (consumed by both execution and disassembly, per §9's
// "do not duplicate this table" note), the operand byte count, and the
// composed execution handler.
type OpcodeEntry struct {
	Mnemonic Mnemonic
	Mode     Mode
	Length   uint8
	exec     execFunc
}

// opcodeTable is built once, at package init, and never mutated again. Both
// CPU.executeOne/capturePre and the exported Describe accessor read from
// this single array — there is no second table anywhere in this module.
var opcodeTable [256]OpcodeEntry

func entry(m Mnemonic, mode Mode, fn execFunc) OpcodeEntry {
	return OpcodeEntry{Mnemonic: m, Mode: mode, Length: mode.OperandLength(), exec: fn}
}

// nopEntry is the reserved/unassigned-slot sentinel: a single-byte implied
// NOP tagged MnemNone so a disassembly listing can tell it apart from the
// real NOP at 0xEA. nopEntry1/nopEntry2 are the same sentinel for the
// handful of reserved slots WDC documents as consuming one or two operand
// bytes (read and discarded) rather than none, so PC still advances by the
// correct amount when one of those slots executes.
var nopEntry = OpcodeEntry{Mnemonic: MnemNone, Mode: ModeImplied, Length: 0, exec: execNOP}
var nopEntry1 = OpcodeEntry{Mnemonic: MnemNone, Mode: ModeImmediate, Length: 1, exec: execNOP1}
var nopEntry2 = OpcodeEntry{Mnemonic: MnemNone, Mode: ModeAbsolute, Length: 2, exec: execNOP2}

func init() {
	for i := range opcodeTable {
		opcodeTable[i] = nopEntry
	}

	// Reserved slots WDC documents as future multi-byte NOPs: the operand
	// bytes still get consumed so the disassembler and PC stay in sync.
	for _, op := range []uint8{0x02, 0x22, 0x42, 0x62, 0x82, 0xC2, 0xE2, 0x44, 0x54, 0xD4, 0xF4} {
		opcodeTable[op] = nopEntry1
	}
	for _, op := range []uint8{0x5C, 0xDC, 0xFC} {
		opcodeTable[op] = nopEntry2
	}

	// Load
	opcodeTable[0xA9] = entry(MnemLDA, ModeImmediate, loadA(addrImmediate))
	opcodeTable[0xA5] = entry(MnemLDA, ModeZeroPage, loadA(addrZeroPage))
	opcodeTable[0xB5] = entry(MnemLDA, ModeZeroPageX, loadA(addrZeroPageX))
	opcodeTable[0xAD] = entry(MnemLDA, ModeAbsolute, loadA(addrAbsolute))
	opcodeTable[0xBD] = entry(MnemLDA, ModeAbsoluteX, loadA(addrAbsoluteXRead))
	opcodeTable[0xB9] = entry(MnemLDA, ModeAbsoluteY, loadA(addrAbsoluteYRead))
	opcodeTable[0xA1] = entry(MnemLDA, ModeIndirectX, loadA(addrIndirectX))
	opcodeTable[0xB1] = entry(MnemLDA, ModeIndirectY, loadA(addrIndirectYRead))

	opcodeTable[0xA2] = entry(MnemLDX, ModeImmediate, loadX(addrImmediate))
	opcodeTable[0xA6] = entry(MnemLDX, ModeZeroPage, loadX(addrZeroPage))
	opcodeTable[0xB6] = entry(MnemLDX, ModeZeroPageY, loadX(addrZeroPageY))
	opcodeTable[0xAE] = entry(MnemLDX, ModeAbsolute, loadX(addrAbsolute))
	opcodeTable[0xBE] = entry(MnemLDX, ModeAbsoluteY, loadX(addrAbsoluteYRead))

	opcodeTable[0xA0] = entry(MnemLDY, ModeImmediate, loadY(addrImmediate))
	opcodeTable[0xA4] = entry(MnemLDY, ModeZeroPage, loadY(addrZeroPage))
	opcodeTable[0xB4] = entry(MnemLDY, ModeZeroPageX, loadY(addrZeroPageX))
	opcodeTable[0xAC] = entry(MnemLDY, ModeAbsolute, loadY(addrAbsolute))
	opcodeTable[0xBC] = entry(MnemLDY, ModeAbsoluteX, loadY(addrAbsoluteXRead))

	// Store
	opcodeTable[0x85] = entry(MnemSTA, ModeZeroPage, storeA(addrZeroPage))
	opcodeTable[0x95] = entry(MnemSTA, ModeZeroPageX, storeA(addrZeroPageX))
	opcodeTable[0x8D] = entry(MnemSTA, ModeAbsolute, storeA(addrAbsolute))
	opcodeTable[0x9D] = entry(MnemSTA, ModeAbsoluteX, storeA(addrAbsoluteXWrite))
	opcodeTable[0x99] = entry(MnemSTA, ModeAbsoluteY, storeA(addrAbsoluteYWrite))
	opcodeTable[0x81] = entry(MnemSTA, ModeIndirectX, storeA(addrIndirectX))
	opcodeTable[0x91] = entry(MnemSTA, ModeIndirectY, storeA(addrIndirectYWrite))

	opcodeTable[0x86] = entry(MnemSTX, ModeZeroPage, storeX(addrZeroPage))
	opcodeTable[0x96] = entry(MnemSTX, ModeZeroPageY, storeX(addrZeroPageY))
	opcodeTable[0x8E] = entry(MnemSTX, ModeAbsolute, storeX(addrAbsolute))

	opcodeTable[0x84] = entry(MnemSTY, ModeZeroPage, storeY(addrZeroPage))
	opcodeTable[0x94] = entry(MnemSTY, ModeZeroPageX, storeY(addrZeroPageX))
	opcodeTable[0x8C] = entry(MnemSTY, ModeAbsolute, storeY(addrAbsolute))

	// STZ, 65C02 addition
	opcodeTable[0x64] = entry(MnemSTZ, ModeZeroPage, storeZ(addrZeroPage))
	opcodeTable[0x74] = entry(MnemSTZ, ModeZeroPageX, storeZ(addrZeroPageX))
	opcodeTable[0x9C] = entry(MnemSTZ, ModeAbsolute, storeZ(addrAbsolute))
	opcodeTable[0x9E] = entry(MnemSTZ, ModeAbsoluteX, storeZ(addrAbsoluteXWrite))

	// Transfer
	opcodeTable[0xAA] = entry(MnemTAX, ModeImplied, execTAX)
	opcodeTable[0xA8] = entry(MnemTAY, ModeImplied, execTAY)
	opcodeTable[0x8A] = entry(MnemTXA, ModeImplied, execTXA)
	opcodeTable[0x98] = entry(MnemTYA, ModeImplied, execTYA)
	opcodeTable[0xBA] = entry(MnemTSX, ModeImplied, execTSX)
	opcodeTable[0x9A] = entry(MnemTXS, ModeImplied, execTXS)

	// Stack
	opcodeTable[0x48] = entry(MnemPHA, ModeImplied, execPHA)
	opcodeTable[0x08] = entry(MnemPHP, ModeImplied, execPHP)
	opcodeTable[0x68] = entry(MnemPLA, ModeImplied, execPLA)
	opcodeTable[0x28] = entry(MnemPLP, ModeImplied, execPLP)
	opcodeTable[0xDA] = entry(MnemPHX, ModeImplied, execPHX)
	opcodeTable[0xFA] = entry(MnemPLX, ModeImplied, execPLX)
	opcodeTable[0x5A] = entry(MnemPHY, ModeImplied, execPHY)
	opcodeTable[0x7A] = entry(MnemPLY, ModeImplied, execPLY)

	// Arithmetic
	opcodeTable[0x69] = entry(MnemADC, ModeImmediate, adcOp(addrImmediate))
	opcodeTable[0x65] = entry(MnemADC, ModeZeroPage, adcOp(addrZeroPage))
	opcodeTable[0x75] = entry(MnemADC, ModeZeroPageX, adcOp(addrZeroPageX))
	opcodeTable[0x6D] = entry(MnemADC, ModeAbsolute, adcOp(addrAbsolute))
	opcodeTable[0x7D] = entry(MnemADC, ModeAbsoluteX, adcOp(addrAbsoluteXRead))
	opcodeTable[0x79] = entry(MnemADC, ModeAbsoluteY, adcOp(addrAbsoluteYRead))
	opcodeTable[0x61] = entry(MnemADC, ModeIndirectX, adcOp(addrIndirectX))
	opcodeTable[0x71] = entry(MnemADC, ModeIndirectY, adcOp(addrIndirectYRead))

	opcodeTable[0xE9] = entry(MnemSBC, ModeImmediate, sbcOp(addrImmediate))
	opcodeTable[0xE5] = entry(MnemSBC, ModeZeroPage, sbcOp(addrZeroPage))
	opcodeTable[0xF5] = entry(MnemSBC, ModeZeroPageX, sbcOp(addrZeroPageX))
	opcodeTable[0xED] = entry(MnemSBC, ModeAbsolute, sbcOp(addrAbsolute))
	opcodeTable[0xFD] = entry(MnemSBC, ModeAbsoluteX, sbcOp(addrAbsoluteXRead))
	opcodeTable[0xF9] = entry(MnemSBC, ModeAbsoluteY, sbcOp(addrAbsoluteYRead))
	opcodeTable[0xE1] = entry(MnemSBC, ModeIndirectX, sbcOp(addrIndirectX))
	opcodeTable[0xF1] = entry(MnemSBC, ModeIndirectY, sbcOp(addrIndirectYRead))

	// Logical
	opcodeTable[0x29] = entry(MnemAND, ModeImmediate, andOp(addrImmediate))
	opcodeTable[0x25] = entry(MnemAND, ModeZeroPage, andOp(addrZeroPage))
	opcodeTable[0x35] = entry(MnemAND, ModeZeroPageX, andOp(addrZeroPageX))
	opcodeTable[0x2D] = entry(MnemAND, ModeAbsolute, andOp(addrAbsolute))
	opcodeTable[0x3D] = entry(MnemAND, ModeAbsoluteX, andOp(addrAbsoluteXRead))
	opcodeTable[0x39] = entry(MnemAND, ModeAbsoluteY, andOp(addrAbsoluteYRead))
	opcodeTable[0x21] = entry(MnemAND, ModeIndirectX, andOp(addrIndirectX))
	opcodeTable[0x31] = entry(MnemAND, ModeIndirectY, andOp(addrIndirectYRead))

	opcodeTable[0x09] = entry(MnemORA, ModeImmediate, oraOp(addrImmediate))
	opcodeTable[0x05] = entry(MnemORA, ModeZeroPage, oraOp(addrZeroPage))
	opcodeTable[0x15] = entry(MnemORA, ModeZeroPageX, oraOp(addrZeroPageX))
	opcodeTable[0x0D] = entry(MnemORA, ModeAbsolute, oraOp(addrAbsolute))
	opcodeTable[0x1D] = entry(MnemORA, ModeAbsoluteX, oraOp(addrAbsoluteXRead))
	opcodeTable[0x19] = entry(MnemORA, ModeAbsoluteY, oraOp(addrAbsoluteYRead))
	opcodeTable[0x01] = entry(MnemORA, ModeIndirectX, oraOp(addrIndirectX))
	opcodeTable[0x11] = entry(MnemORA, ModeIndirectY, oraOp(addrIndirectYRead))

	opcodeTable[0x49] = entry(MnemEOR, ModeImmediate, eorOp(addrImmediate))
	opcodeTable[0x45] = entry(MnemEOR, ModeZeroPage, eorOp(addrZeroPage))
	opcodeTable[0x55] = entry(MnemEOR, ModeZeroPageX, eorOp(addrZeroPageX))
	opcodeTable[0x4D] = entry(MnemEOR, ModeAbsolute, eorOp(addrAbsolute))
	opcodeTable[0x5D] = entry(MnemEOR, ModeAbsoluteX, eorOp(addrAbsoluteXRead))
	opcodeTable[0x59] = entry(MnemEOR, ModeAbsoluteY, eorOp(addrAbsoluteYRead))
	opcodeTable[0x41] = entry(MnemEOR, ModeIndirectX, eorOp(addrIndirectX))
	opcodeTable[0x51] = entry(MnemEOR, ModeIndirectY, eorOp(addrIndirectYRead))

	// BIT, including the 65C02 immediate/zp,x/abs,x additions
	opcodeTable[0x89] = entry(MnemBIT, ModeImmediate, bitImmediate(addrImmediate))
	opcodeTable[0x24] = entry(MnemBIT, ModeZeroPage, bitMem(addrZeroPage))
	opcodeTable[0x34] = entry(MnemBIT, ModeZeroPageX, bitMem(addrZeroPageX))
	opcodeTable[0x2C] = entry(MnemBIT, ModeAbsolute, bitMem(addrAbsolute))
	opcodeTable[0x3C] = entry(MnemBIT, ModeAbsoluteX, bitMem(addrAbsoluteXRead))

	// Compare
	opcodeTable[0xC9] = entry(MnemCMP, ModeImmediate, cmpOp(addrImmediate))
	opcodeTable[0xC5] = entry(MnemCMP, ModeZeroPage, cmpOp(addrZeroPage))
	opcodeTable[0xD5] = entry(MnemCMP, ModeZeroPageX, cmpOp(addrZeroPageX))
	opcodeTable[0xCD] = entry(MnemCMP, ModeAbsolute, cmpOp(addrAbsolute))
	opcodeTable[0xDD] = entry(MnemCMP, ModeAbsoluteX, cmpOp(addrAbsoluteXRead))
	opcodeTable[0xD9] = entry(MnemCMP, ModeAbsoluteY, cmpOp(addrAbsoluteYRead))
	opcodeTable[0xC1] = entry(MnemCMP, ModeIndirectX, cmpOp(addrIndirectX))
	opcodeTable[0xD1] = entry(MnemCMP, ModeIndirectY, cmpOp(addrIndirectYRead))

	opcodeTable[0xE0] = entry(MnemCPX, ModeImmediate, cpxOp(addrImmediate))
	opcodeTable[0xE4] = entry(MnemCPX, ModeZeroPage, cpxOp(addrZeroPage))
	opcodeTable[0xEC] = entry(MnemCPX, ModeAbsolute, cpxOp(addrAbsolute))

	opcodeTable[0xC0] = entry(MnemCPY, ModeImmediate, cpyOp(addrImmediate))
	opcodeTable[0xC4] = entry(MnemCPY, ModeZeroPage, cpyOp(addrZeroPage))
	opcodeTable[0xCC] = entry(MnemCPY, ModeAbsolute, cpyOp(addrAbsolute))

	// Shift / Rotate
	opcodeTable[0x0A] = entry(MnemASL, ModeAccumulator, execASLAcc)
	opcodeTable[0x06] = entry(MnemASL, ModeZeroPage, aslMem(addrZeroPage))
	opcodeTable[0x16] = entry(MnemASL, ModeZeroPageX, aslMem(addrZeroPageX))
	opcodeTable[0x0E] = entry(MnemASL, ModeAbsolute, aslMem(addrAbsolute))
	opcodeTable[0x1E] = entry(MnemASL, ModeAbsoluteX, aslMem(addrAbsoluteXWrite))

	opcodeTable[0x4A] = entry(MnemLSR, ModeAccumulator, execLSRAcc)
	opcodeTable[0x46] = entry(MnemLSR, ModeZeroPage, lsrMem(addrZeroPage))
	opcodeTable[0x56] = entry(MnemLSR, ModeZeroPageX, lsrMem(addrZeroPageX))
	opcodeTable[0x4E] = entry(MnemLSR, ModeAbsolute, lsrMem(addrAbsolute))
	opcodeTable[0x5E] = entry(MnemLSR, ModeAbsoluteX, lsrMem(addrAbsoluteXWrite))

	opcodeTable[0x2A] = entry(MnemROL, ModeAccumulator, execROLAcc)
	opcodeTable[0x26] = entry(MnemROL, ModeZeroPage, rolMem(addrZeroPage))
	opcodeTable[0x36] = entry(MnemROL, ModeZeroPageX, rolMem(addrZeroPageX))
	opcodeTable[0x2E] = entry(MnemROL, ModeAbsolute, rolMem(addrAbsolute))
	opcodeTable[0x3E] = entry(MnemROL, ModeAbsoluteX, rolMem(addrAbsoluteXWrite))

	opcodeTable[0x6A] = entry(MnemROR, ModeAccumulator, execRORAcc)
	opcodeTable[0x66] = entry(MnemROR, ModeZeroPage, rorMem(addrZeroPage))
	opcodeTable[0x76] = entry(MnemROR, ModeZeroPageX, rorMem(addrZeroPageX))
	opcodeTable[0x6E] = entry(MnemROR, ModeAbsolute, rorMem(addrAbsolute))
	opcodeTable[0x7E] = entry(MnemROR, ModeAbsoluteX, rorMem(addrAbsoluteXWrite))

	// Increment / Decrement
	opcodeTable[0x1A] = entry(MnemINC, ModeAccumulator, execINCAcc)
	opcodeTable[0xE6] = entry(MnemINC, ModeZeroPage, incMem(addrZeroPage))
	opcodeTable[0xF6] = entry(MnemINC, ModeZeroPageX, incMem(addrZeroPageX))
	opcodeTable[0xEE] = entry(MnemINC, ModeAbsolute, incMem(addrAbsolute))
	opcodeTable[0xFE] = entry(MnemINC, ModeAbsoluteX, incMem(addrAbsoluteXWrite))

	opcodeTable[0x3A] = entry(MnemDEC, ModeAccumulator, execDECAcc)
	opcodeTable[0xC6] = entry(MnemDEC, ModeZeroPage, decMem(addrZeroPage))
	opcodeTable[0xD6] = entry(MnemDEC, ModeZeroPageX, decMem(addrZeroPageX))
	opcodeTable[0xCE] = entry(MnemDEC, ModeAbsolute, decMem(addrAbsolute))
	opcodeTable[0xDE] = entry(MnemDEC, ModeAbsoluteX, decMem(addrAbsoluteXWrite))

	opcodeTable[0xE8] = entry(MnemINX, ModeImplied, execINX)
	opcodeTable[0xCA] = entry(MnemDEX, ModeImplied, execDEX)
	opcodeTable[0xC8] = entry(MnemINY, ModeImplied, execINY)
	opcodeTable[0x88] = entry(MnemDEY, ModeImplied, execDEY)

	// Branch, including the 65C02 unconditional BRA
	opcodeTable[0x90] = entry(MnemBCC, ModeRelative, execBCC)
	opcodeTable[0xB0] = entry(MnemBCS, ModeRelative, execBCS)
	opcodeTable[0xF0] = entry(MnemBEQ, ModeRelative, execBEQ)
	opcodeTable[0xD0] = entry(MnemBNE, ModeRelative, execBNE)
	opcodeTable[0x30] = entry(MnemBMI, ModeRelative, execBMI)
	opcodeTable[0x10] = entry(MnemBPL, ModeRelative, execBPL)
	opcodeTable[0x50] = entry(MnemBVC, ModeRelative, execBVC)
	opcodeTable[0x70] = entry(MnemBVS, ModeRelative, execBVS)
	opcodeTable[0x80] = entry(MnemBRA, ModeRelative, execBRA)

	// Jump / Subroutine / Return
	opcodeTable[0x4C] = entry(MnemJMP, ModeAbsolute, execJMPAbsolute)
	opcodeTable[0x6C] = entry(MnemJMP, ModeIndirect, execJMPIndirect)
	opcodeTable[0x20] = entry(MnemJSR, ModeAbsolute, execJSR)
	opcodeTable[0x60] = entry(MnemRTS, ModeImplied, execRTS)
	opcodeTable[0x40] = entry(MnemRTI, ModeImplied, execRTI)
	opcodeTable[0x00] = entry(MnemBRK, ModeImplied, execBRK)

	// Flag control
	opcodeTable[0x18] = entry(MnemCLC, ModeImplied, execCLC)
	opcodeTable[0x38] = entry(MnemSEC, ModeImplied, execSEC)
	opcodeTable[0x58] = entry(MnemCLI, ModeImplied, execCLI)
	opcodeTable[0x78] = entry(MnemSEI, ModeImplied, execSEI)
	opcodeTable[0xD8] = entry(MnemCLD, ModeImplied, execCLD)
	opcodeTable[0xF8] = entry(MnemSED, ModeImplied, execSED)
	opcodeTable[0xB8] = entry(MnemCLV, ModeImplied, execCLV)

	// 65C02 TSB/TRB
	opcodeTable[0x04] = entry(MnemTSB, ModeZeroPage, tsbOp(addrZeroPage))
	opcodeTable[0x0C] = entry(MnemTSB, ModeAbsolute, tsbOp(addrAbsolute))
	opcodeTable[0x14] = entry(MnemTRB, ModeZeroPage, trbOp(addrZeroPage))
	opcodeTable[0x1C] = entry(MnemTRB, ModeAbsolute, trbOp(addrAbsolute))

	// 65C02 WAI/STP
	opcodeTable[0xCB] = entry(MnemWAI, ModeImplied, execWAI)
	opcodeTable[0xDB] = entry(MnemSTP, ModeImplied, execSTP)

	// NOP
	opcodeTable[0xEA] = entry(MnemNOP, ModeImplied, execNOP)
}
