package cpu

import "github.com/lavendersprite/snes816/bus"

// setNZ8 and setNZ16 apply the universal N/Z update every load,
// transfer, and ALU op performs, sized to the operation's own width
// rather than the current M/X flag (callers pick which one to call).
func (c *CPU) setNZ8(v uint8) {
	c.state.setFlag(FlagZ, v == 0)
	c.state.setFlag(FlagN, v&0x80 != 0)
}

func (c *CPU) setNZ16(v uint16) {
	c.state.setFlag(FlagZ, v == 0)
	c.state.setFlag(FlagN, v&0x8000 != 0)
}

// --- arithmetic ---

// binaryAdd8 and binaryAdd16 implement plain two's-complement addition
// with carry-in, returning the result plus the carry and
// signed-overflow outputs ADC needs.
func binaryAdd8(a, v uint8, carryIn bool) (result uint8, carryOut, overflow bool) {
	cin := uint16(0)
	if carryIn {
		cin = 1
	}
	sum := uint16(a) + uint16(v) + cin
	result = uint8(sum)
	carryOut = sum > 0xFF
	overflow = (^(a ^ v) & (a ^ result) & 0x80) != 0
	return
}

func binaryAdd16(a, v uint16, carryIn bool) (result uint16, carryOut, overflow bool) {
	cin := uint32(0)
	if carryIn {
		cin = 1
	}
	sum := uint32(a) + uint32(v) + cin
	result = uint16(sum)
	carryOut = sum > 0xFFFF
	overflow = (^(a ^ v) & (a ^ result) & 0x8000) != 0
	return
}

// decimalAdd8 implements BCD addition one byte (two nibbles) at a time.
// Overflow is taken from the pre-correction binary sum, N/Z from the
// corrected result.
func decimalAdd8(a, v uint8, carryIn bool) (result uint8, carryOut, overflow bool) {
	cin := uint8(0)
	if carryIn {
		cin = 1
	}
	binSum := uint16(a) + uint16(v) + uint16(cin)
	overflow = (^(a ^ v) & (a ^ uint8(binSum)) & 0x80) != 0

	lo := int(a&0xF) + int(v&0xF) + int(cin)
	hi := int(a>>4) + int(v>>4)
	if lo > 9 {
		lo -= 10
		hi++
	}
	if hi > 9 {
		hi -= 10
		carryOut = true
	}
	result = uint8(hi<<4) | uint8(lo)
	return
}

func decimalAdd16(a, v uint16, carryIn bool) (result uint16, carryOut, overflow bool) {
	loR, carry1, _ := decimalAdd8(uint8(a), uint8(v), carryIn)
	hiR, carry2, _ := decimalAdd8(uint8(a>>8), uint8(v>>8), carry1)
	result = uint16(hiR)<<8 | uint16(loR)
	carryOut = carry2
	binSum := uint32(a) + uint32(v)
	if carryIn {
		binSum++
	}
	overflow = (^(a ^ v) & (a ^ uint16(binSum)) & 0x8000) != 0
	return
}

// decimalSub8 mirrors decimalAdd8 for SBC: carryIn follows 6502
// convention (set means "no borrow").
func decimalSub8(a, v uint8, carryIn bool) (result uint8, carryOut, overflow bool) {
	borrow := 0
	if !carryIn {
		borrow = 1
	}
	binDiff := int(a) - int(v) - borrow
	overflow = ((a ^ v) & (a ^ uint8(binDiff)) & 0x80) != 0

	lo := int(a&0xF) - int(v&0xF) - borrow
	hi := int(a>>4) - int(v>>4)
	if lo < 0 {
		lo += 10
		hi--
	}
	if hi < 0 {
		hi += 10
		carryOut = false
	} else {
		carryOut = true
	}
	result = uint8(hi<<4) | uint8(lo)
	return
}

func decimalSub16(a, v uint16, carryIn bool) (result uint16, carryOut, overflow bool) {
	loR, carry1, _ := decimalSub8(uint8(a), uint8(v), carryIn)
	hiR, carry2, _ := decimalSub8(uint8(a>>8), uint8(v>>8), carry1)
	result = uint16(hiR)<<8 | uint16(loR)
	carryOut = carry2
	binDiff := int32(a) - int32(v)
	if !carryIn {
		binDiff--
	}
	overflow = ((a ^ v) & (a ^ uint16(binDiff)) & 0x8000) != 0
	return
}

func execADC(c *CPU) {
	decimal := c.state.flag(FlagD)
	carryIn := c.state.flag(FlagC)
	if c.state.eightBitA() {
		v := c.getByte()
		a := uint8(c.state.A)
		var r uint8
		var carry, overflow bool
		if decimal {
			r, carry, overflow = decimalAdd8(a, v, carryIn)
		} else {
			r, carry, overflow = binaryAdd8(a, v, carryIn)
		}
		c.state.A = c.state.A&0xFF00 | uint16(r)
		c.state.setFlag(FlagC, carry)
		c.state.setFlag(FlagV, overflow)
		c.setNZ8(r)
	} else {
		v := c.getWord()
		var r uint16
		var carry, overflow bool
		if decimal {
			r, carry, overflow = decimalAdd16(c.state.A, v, carryIn)
		} else {
			r, carry, overflow = binaryAdd16(c.state.A, v, carryIn)
		}
		c.state.A = r
		c.state.setFlag(FlagC, carry)
		c.state.setFlag(FlagV, overflow)
		c.setNZ16(r)
	}
}

func execSBC(c *CPU) {
	decimal := c.state.flag(FlagD)
	carryIn := c.state.flag(FlagC)
	if c.state.eightBitA() {
		v := c.getByte()
		a := uint8(c.state.A)
		var r uint8
		var carry, overflow bool
		if decimal {
			r, carry, overflow = decimalSub8(a, v, carryIn)
		} else {
			r, carry, overflow = binaryAdd8(a, ^v, carryIn)
		}
		c.state.A = c.state.A&0xFF00 | uint16(r)
		c.state.setFlag(FlagC, carry)
		c.state.setFlag(FlagV, overflow)
		c.setNZ8(r)
	} else {
		v := c.getWord()
		var r uint16
		var carry, overflow bool
		if decimal {
			r, carry, overflow = decimalSub16(c.state.A, v, carryIn)
		} else {
			r, carry, overflow = binaryAdd16(c.state.A, ^v, carryIn)
		}
		c.state.A = r
		c.state.setFlag(FlagC, carry)
		c.state.setFlag(FlagV, overflow)
		c.setNZ16(r)
	}
}

// --- logical ---

func execAND(c *CPU) {
	if c.state.eightBitA() {
		r := uint8(c.state.A) & c.getByte()
		c.state.A = c.state.A&0xFF00 | uint16(r)
		c.setNZ8(r)
	} else {
		r := c.state.A & c.getWord()
		c.state.A = r
		c.setNZ16(r)
	}
}

func execORA(c *CPU) {
	if c.state.eightBitA() {
		r := uint8(c.state.A) | c.getByte()
		c.state.A = c.state.A&0xFF00 | uint16(r)
		c.setNZ8(r)
	} else {
		r := c.state.A | c.getWord()
		c.state.A = r
		c.setNZ16(r)
	}
}

func execEOR(c *CPU) {
	if c.state.eightBitA() {
		r := uint8(c.state.A) ^ c.getByte()
		c.state.A = c.state.A&0xFF00 | uint16(r)
		c.setNZ8(r)
	} else {
		r := c.state.A ^ c.getWord()
		c.state.A = r
		c.setNZ16(r)
	}
}

// execBIT implements both the immediate form (updates only Z) and the
// memory forms (also copy bits 7/6 of the operand into N/V).
func execBIT(c *CPU) {
	immediate := c.operand != operandNone
	if c.state.eightBitA() {
		v := c.getByte()
		c.state.setFlag(FlagZ, uint8(c.state.A)&v == 0)
		if !immediate {
			c.state.setFlag(FlagN, v&0x80 != 0)
			c.state.setFlag(FlagV, v&0x40 != 0)
		}
	} else {
		v := c.getWord()
		c.state.setFlag(FlagZ, c.state.A&v == 0)
		if !immediate {
			c.state.setFlag(FlagN, v&0x8000 != 0)
			c.state.setFlag(FlagV, v&0x4000 != 0)
		}
	}
}

func execTRB(c *CPU) {
	if c.state.eightBitA() {
		v := c.getByte()
		c.state.setFlag(FlagZ, uint8(c.state.A)&v == 0)
		c.rmwByte(v, func(old uint8) uint8 { return old &^ uint8(c.state.A) })
	} else {
		v := c.getWord()
		c.state.setFlag(FlagZ, c.state.A&v == 0)
		c.rmwWord(v, func(old uint16) uint16 { return old &^ c.state.A })
	}
}

func execTSB(c *CPU) {
	if c.state.eightBitA() {
		v := c.getByte()
		c.state.setFlag(FlagZ, uint8(c.state.A)&v == 0)
		c.rmwByte(v, func(old uint8) uint8 { return old | uint8(c.state.A) })
	} else {
		v := c.getWord()
		c.state.setFlag(FlagZ, c.state.A&v == 0)
		c.rmwWord(v, func(old uint16) uint16 { return old | c.state.A })
	}
}

// --- compare ---

func (c *CPU) compare8(reg, v uint8) {
	c.state.setFlag(FlagC, reg >= v)
	c.setNZ8(reg - v)
}

func (c *CPU) compare16(reg, v uint16) {
	c.state.setFlag(FlagC, reg >= v)
	c.setNZ16(reg - v)
}

func execCMP(c *CPU) {
	if c.state.eightBitA() {
		c.compare8(uint8(c.state.A), c.getByte())
	} else {
		c.compare16(c.state.A, c.getWord())
	}
}

func execCPX(c *CPU) {
	if c.state.eightBitIndex() {
		c.compare8(uint8(c.state.X), c.getByte())
	} else {
		c.compare16(c.state.X, c.getWord())
	}
}

func execCPY(c *CPU) {
	if c.state.eightBitIndex() {
		c.compare8(uint8(c.state.Y), c.getByte())
	} else {
		c.compare16(c.state.Y, c.getWord())
	}
}

// --- shifts ---

func shiftASL8(v uint8) (uint8, bool)    { return v << 1, v&0x80 != 0 }
func shiftASL16(v uint16) (uint16, bool) { return v << 1, v&0x8000 != 0 }
func shiftLSR8(v uint8) (uint8, bool)    { return v >> 1, v&1 != 0 }
func shiftLSR16(v uint16) (uint16, bool) { return v >> 1, v&1 != 0 }

func (c *CPU) shiftROL8(v uint8) (uint8, bool) {
	carryIn := uint8(0)
	if c.state.flag(FlagC) {
		carryIn = 1
	}
	return v<<1 | carryIn, v&0x80 != 0
}

func (c *CPU) shiftROL16(v uint16) (uint16, bool) {
	carryIn := uint16(0)
	if c.state.flag(FlagC) {
		carryIn = 1
	}
	return v<<1 | carryIn, v&0x8000 != 0
}

func (c *CPU) shiftROR8(v uint8) (uint8, bool) {
	carryIn := uint8(0)
	if c.state.flag(FlagC) {
		carryIn = 0x80
	}
	return v>>1 | carryIn, v&1 != 0
}

func (c *CPU) shiftROR16(v uint16) (uint16, bool) {
	carryIn := uint16(0)
	if c.state.flag(FlagC) {
		carryIn = 0x8000
	}
	return v>>1 | carryIn, v&1 != 0
}

func execASL(c *CPU) {
	if c.state.eightBitA() {
		var carry bool
		nv := c.rmwByte(c.getByte(), func(v uint8) uint8 { r, cr := shiftASL8(v); carry = cr; return r })
		c.state.setFlag(FlagC, carry)
		c.setNZ8(nv)
	} else {
		var carry bool
		nv := c.rmwWord(c.getWord(), func(v uint16) uint16 { r, cr := shiftASL16(v); carry = cr; return r })
		c.state.setFlag(FlagC, carry)
		c.setNZ16(nv)
	}
}

func execASLAcc(c *CPU) {
	if c.state.eightBitA() {
		r, carry := shiftASL8(uint8(c.state.A))
		c.state.A = c.state.A&0xFF00 | uint16(r)
		c.state.setFlag(FlagC, carry)
		c.setNZ8(r)
	} else {
		r, carry := shiftASL16(c.state.A)
		c.state.A = r
		c.state.setFlag(FlagC, carry)
		c.setNZ16(r)
	}
}

func execLSR(c *CPU) {
	if c.state.eightBitA() {
		var carry bool
		nv := c.rmwByte(c.getByte(), func(v uint8) uint8 { r, cr := shiftLSR8(v); carry = cr; return r })
		c.state.setFlag(FlagC, carry)
		c.setNZ8(nv)
	} else {
		var carry bool
		nv := c.rmwWord(c.getWord(), func(v uint16) uint16 { r, cr := shiftLSR16(v); carry = cr; return r })
		c.state.setFlag(FlagC, carry)
		c.setNZ16(nv)
	}
}

func execLSRAcc(c *CPU) {
	if c.state.eightBitA() {
		r, carry := shiftLSR8(uint8(c.state.A))
		c.state.A = c.state.A&0xFF00 | uint16(r)
		c.state.setFlag(FlagC, carry)
		c.setNZ8(r)
	} else {
		r, carry := shiftLSR16(c.state.A)
		c.state.A = r
		c.state.setFlag(FlagC, carry)
		c.setNZ16(r)
	}
}

func execROL(c *CPU) {
	if c.state.eightBitA() {
		var carry bool
		nv := c.rmwByte(c.getByte(), func(v uint8) uint8 { r, cr := c.shiftROL8(v); carry = cr; return r })
		c.state.setFlag(FlagC, carry)
		c.setNZ8(nv)
	} else {
		var carry bool
		nv := c.rmwWord(c.getWord(), func(v uint16) uint16 { r, cr := c.shiftROL16(v); carry = cr; return r })
		c.state.setFlag(FlagC, carry)
		c.setNZ16(nv)
	}
}

func execROLAcc(c *CPU) {
	if c.state.eightBitA() {
		r, carry := c.shiftROL8(uint8(c.state.A))
		c.state.A = c.state.A&0xFF00 | uint16(r)
		c.state.setFlag(FlagC, carry)
		c.setNZ8(r)
	} else {
		r, carry := c.shiftROL16(c.state.A)
		c.state.A = r
		c.state.setFlag(FlagC, carry)
		c.setNZ16(r)
	}
}

func execROR(c *CPU) {
	if c.state.eightBitA() {
		var carry bool
		nv := c.rmwByte(c.getByte(), func(v uint8) uint8 { r, cr := c.shiftROR8(v); carry = cr; return r })
		c.state.setFlag(FlagC, carry)
		c.setNZ8(nv)
	} else {
		var carry bool
		nv := c.rmwWord(c.getWord(), func(v uint16) uint16 { r, cr := c.shiftROR16(v); carry = cr; return r })
		c.state.setFlag(FlagC, carry)
		c.setNZ16(nv)
	}
}

func execRORAcc(c *CPU) {
	if c.state.eightBitA() {
		r, carry := c.shiftROR8(uint8(c.state.A))
		c.state.A = c.state.A&0xFF00 | uint16(r)
		c.state.setFlag(FlagC, carry)
		c.setNZ8(r)
	} else {
		r, carry := c.shiftROR16(c.state.A)
		c.state.A = r
		c.state.setFlag(FlagC, carry)
		c.setNZ16(r)
	}
}

// --- increment/decrement ---

func execINC(c *CPU) {
	if c.state.eightBitA() {
		nv := c.rmwByte(c.getByte(), func(v uint8) uint8 { return v + 1 })
		c.setNZ8(nv)
	} else {
		nv := c.rmwWord(c.getWord(), func(v uint16) uint16 { return v + 1 })
		c.setNZ16(nv)
	}
}

func execDEC(c *CPU) {
	if c.state.eightBitA() {
		nv := c.rmwByte(c.getByte(), func(v uint8) uint8 { return v - 1 })
		c.setNZ8(nv)
	} else {
		nv := c.rmwWord(c.getWord(), func(v uint16) uint16 { return v - 1 })
		c.setNZ16(nv)
	}
}

func execINCAcc(c *CPU) {
	if c.state.eightBitA() {
		r := uint8(c.state.A) + 1
		c.state.A = c.state.A&0xFF00 | uint16(r)
		c.setNZ8(r)
	} else {
		c.state.A++
		c.setNZ16(c.state.A)
	}
}

func execDECAcc(c *CPU) {
	if c.state.eightBitA() {
		r := uint8(c.state.A) - 1
		c.state.A = c.state.A&0xFF00 | uint16(r)
		c.setNZ8(r)
	} else {
		c.state.A--
		c.setNZ16(c.state.A)
	}
}

func (c *CPU) stepIndex(reg *uint16, delta int16) {
	if c.state.eightBitIndex() {
		*reg = uint16(uint8(int16(uint8(*reg)) + delta))
		c.setNZ8(uint8(*reg))
	} else {
		*reg = uint16(int16(*reg) + delta)
		c.setNZ16(*reg)
	}
}

func execINX(c *CPU) { c.stepIndex(&c.state.X, 1) }
func execINY(c *CPU) { c.stepIndex(&c.state.Y, 1) }
func execDEX(c *CPU) { c.stepIndex(&c.state.X, -1) }
func execDEY(c *CPU) { c.stepIndex(&c.state.Y, -1) }

// --- load/store ---

func execLDA(c *CPU) {
	if c.state.eightBitA() {
		v := c.getByte()
		c.state.A = c.state.A&0xFF00 | uint16(v)
		c.setNZ8(v)
	} else {
		v := c.getWord()
		c.state.A = v
		c.setNZ16(v)
	}
}

func execLDX(c *CPU) {
	if c.state.eightBitIndex() {
		v := c.getByte()
		c.state.X = uint16(v)
		c.setNZ8(v)
	} else {
		v := c.getWord()
		c.state.X = v
		c.setNZ16(v)
	}
}

func execLDY(c *CPU) {
	if c.state.eightBitIndex() {
		v := c.getByte()
		c.state.Y = uint16(v)
		c.setNZ8(v)
	} else {
		v := c.getWord()
		c.state.Y = v
		c.setNZ16(v)
	}
}

func execSTA(c *CPU) {
	if c.state.eightBitA() {
		c.storeByte(uint8(c.state.A))
	} else {
		c.storeWord(c.state.A)
	}
}

func execSTX(c *CPU) {
	if c.state.eightBitIndex() {
		c.storeByte(uint8(c.state.X))
	} else {
		c.storeWord(c.state.X)
	}
}

func execSTY(c *CPU) {
	if c.state.eightBitIndex() {
		c.storeByte(uint8(c.state.Y))
	} else {
		c.storeWord(c.state.Y)
	}
}

func execSTZ(c *CPU) {
	if c.state.eightBitA() {
		c.storeByte(0)
	} else {
		c.storeWord(0)
	}
}

// --- transfers ---

func execTAX(c *CPU) {
	if c.state.eightBitIndex() {
		v := uint8(c.state.A)
		c.state.X = uint16(v)
		c.setNZ8(v)
	} else {
		c.state.X = c.state.A
		c.setNZ16(c.state.X)
	}
}

func execTAY(c *CPU) {
	if c.state.eightBitIndex() {
		v := uint8(c.state.A)
		c.state.Y = uint16(v)
		c.setNZ8(v)
	} else {
		c.state.Y = c.state.A
		c.setNZ16(c.state.Y)
	}
}

func execTXA(c *CPU) {
	if c.state.eightBitA() {
		v := uint8(c.state.X)
		c.state.A = c.state.A&0xFF00 | uint16(v)
		c.setNZ8(v)
	} else {
		c.state.A = c.state.X
		c.setNZ16(c.state.A)
	}
}

func execTYA(c *CPU) {
	if c.state.eightBitA() {
		v := uint8(c.state.Y)
		c.state.A = c.state.A&0xFF00 | uint16(v)
		c.setNZ8(v)
	} else {
		c.state.A = c.state.Y
		c.setNZ16(c.state.A)
	}
}

func execTXY(c *CPU) {
	if c.state.eightBitIndex() {
		v := uint8(c.state.X)
		c.state.Y = uint16(v)
		c.setNZ8(v)
	} else {
		c.state.Y = c.state.X
		c.setNZ16(c.state.Y)
	}
}

func execTYX(c *CPU) {
	if c.state.eightBitIndex() {
		v := uint8(c.state.Y)
		c.state.X = uint16(v)
		c.setNZ8(v)
	} else {
		c.state.X = c.state.Y
		c.setNZ16(c.state.X)
	}
}

// execTXS copies X into SP verbatim; it sets no flags, and
// fixEmulationInvariants immediately re-pins the high byte in
// emulation mode.
func execTXS(c *CPU) {
	c.state.SP = c.state.X
	c.state.fixEmulationInvariants()
}

func execTSX(c *CPU) {
	if c.state.eightBitIndex() {
		v := uint8(c.state.SP)
		c.state.X = uint16(v)
		c.setNZ8(v)
	} else {
		c.state.X = c.state.SP
		c.setNZ16(c.state.X)
	}
}

// execTCS/execTSC and execTCD/execTDC move the full 16-bit accumulator
// to and from SP/D regardless of the M flag - these are the "C" (full
// accumulator) register forms, not the width-sensitive "A" forms.
func execTCS(c *CPU) {
	c.state.SP = c.state.A
	c.state.fixEmulationInvariants()
}

func execTSC(c *CPU) {
	c.state.A = c.state.SP
	c.setNZ16(c.state.A)
}

func execTCD(c *CPU) {
	c.state.D = c.state.A
	c.setNZ16(c.state.D)
}

func execTDC(c *CPU) {
	c.state.A = c.state.D
	c.setNZ16(c.state.A)
}

// execXBA swaps A's high and low bytes; N/Z are set from the new low
// byte (the former high byte), matching real 65C816 behavior.
func execXBA(c *CPU) {
	lo := uint8(c.state.A)
	hi := uint8(c.state.A >> 8)
	c.state.A = uint16(lo)<<8 | uint16(hi)
	c.setNZ8(hi)
}

// execXCE swaps the carry and emulation-mode bits. Going from native
// to emulation mode snaps M/X/SP back to their fixed values.
func execXCE(c *CPU) {
	oldE := c.state.EmulationMode
	newE := c.state.flag(FlagC)
	c.state.setFlag(FlagC, oldE)
	c.state.EmulationMode = newE
	c.state.fixEmulationInvariants()
}

// --- flag ops ---

func execCLC(c *CPU) { c.state.setFlag(FlagC, false) }
func execSEC(c *CPU) { c.state.setFlag(FlagC, true) }
func execCLI(c *CPU) { c.state.setFlag(FlagI, false) }
func execSEI(c *CPU) { c.state.setFlag(FlagI, true) }
func execCLD(c *CPU) { c.state.setFlag(FlagD, false) }
func execSED(c *CPU) { c.state.setFlag(FlagD, true) }
func execCLV(c *CPU) { c.state.setFlag(FlagV, false) }

// execREP clears the bits set in the immediate mask. Clearing X
// preserves the X/Y high halves; in emulation mode
// fixEmulationInvariants immediately re-forces M/X back to 1, matching
// real hardware where REP cannot actually widen either register while
// E=1.
func execREP(c *CPU) {
	mask := uint8(c.operand)
	c.state.PS &^= mask
	c.state.fixEmulationInvariants()
}

// execSEP sets the bits in the immediate mask. Setting X zeros the X/Y
// high halves immediately.
func execSEP(c *CPU) {
	mask := uint8(c.operand)
	c.state.PS |= mask
	if mask&FlagX != 0 {
		c.state.X &= 0xFF
		c.state.Y &= 0xFF
	}
	c.state.fixEmulationInvariants()
}

// --- branches ---

func (c *CPU) branchIf(taken bool) {
	if !taken {
		return
	}
	oldBank := c.state.PC & 0xFF00
	newPC := uint16(c.effectiveAddr)
	c.idle()
	if oldBank != newPC&0xFF00 {
		c.idle()
	}
	c.state.PC = newPC
}

func execBCC(c *CPU) { c.branchIf(!c.state.flag(FlagC)) }
func execBCS(c *CPU) { c.branchIf(c.state.flag(FlagC)) }
func execBEQ(c *CPU) { c.branchIf(c.state.flag(FlagZ)) }
func execBNE(c *CPU) { c.branchIf(!c.state.flag(FlagZ)) }
func execBMI(c *CPU) { c.branchIf(c.state.flag(FlagN)) }
func execBPL(c *CPU) { c.branchIf(!c.state.flag(FlagN)) }
func execBVC(c *CPU) { c.branchIf(!c.state.flag(FlagV)) }
func execBVS(c *CPU) { c.branchIf(c.state.flag(FlagV)) }
func execBRA(c *CPU) { c.branchIf(true) }

// execBRL is the unconditional long branch: no page-cross penalty since
// the 16-bit displacement already spans the whole bank.
func execBRL(c *CPU) {
	c.state.PC = uint16(c.effectiveAddr)
	c.idle()
}

// --- jumps ---

func execJMP(c *CPU) {
	c.state.PC = uint16(c.effectiveAddr)
}

// execJML additionally loads K, for the absolute-long and
// absolute-indirect-long forms of JMP (conventionally written JML).
func execJML(c *CPU) {
	c.state.PC = uint16(c.effectiveAddr)
	c.state.K = uint8(c.effectiveAddr >> 16)
}

// execJSR serves both JSR absolute and JSR (a,x); both only change PC
// within the current bank. The return address pushed is one less than
// the address of the next instruction, as the real 65C816 does.
func execJSR(c *CPU) {
	ret := c.state.PC - 1
	c.pushWord(ret)
	c.state.PC = uint16(c.effectiveAddr)
	c.idle()
}

func execJSL(c *CPU) {
	ret := c.state.PC - 1
	c.pushByte(c.state.K)
	c.idle()
	c.pushWord(ret)
	c.state.PC = uint16(c.effectiveAddr)
	c.state.K = uint8(c.effectiveAddr >> 16)
}

func execRTS(c *CPU) {
	addr := c.popWord()
	c.idle()
	c.idle()
	c.state.PC = addr + 1
}

func execRTL(c *CPU) {
	addr := c.popWord()
	k := c.popByte()
	c.idle()
	c.state.PC = addr + 1
	c.state.K = k
}

// execRTI restores PS, PC, and (native mode only) K from the stack, the
// reverse of serviceInterrupt's push sequence.
func execRTI(c *CPU) {
	c.idle()
	ps := c.popByte()
	c.state.PS = ps
	c.state.setIndexWidth(c.state.flag(FlagX))
	c.state.fixEmulationInvariants()
	pc := c.popWord()
	c.state.PC = pc
	if !c.state.EmulationMode {
		c.state.K = c.popByte()
	}
}

// --- stack ---

func execPHA(c *CPU) {
	if c.state.eightBitA() {
		c.pushByte(uint8(c.state.A))
	} else {
		c.pushWord(c.state.A)
	}
}

func execPLA(c *CPU) {
	if c.state.eightBitA() {
		v := c.popByte()
		c.state.A = c.state.A&0xFF00 | uint16(v)
		c.setNZ8(v)
	} else {
		v := c.popWord()
		c.state.A = v
		c.setNZ16(v)
	}
}

func execPHX(c *CPU) {
	if c.state.eightBitIndex() {
		c.pushByte(uint8(c.state.X))
	} else {
		c.pushWord(c.state.X)
	}
}

func execPLX(c *CPU) {
	if c.state.eightBitIndex() {
		v := c.popByte()
		c.state.X = uint16(v)
		c.setNZ8(v)
	} else {
		v := c.popWord()
		c.state.X = v
		c.setNZ16(v)
	}
}

func execPHY(c *CPU) {
	if c.state.eightBitIndex() {
		c.pushByte(uint8(c.state.Y))
	} else {
		c.pushWord(c.state.Y)
	}
}

func execPLY(c *CPU) {
	if c.state.eightBitIndex() {
		v := c.popByte()
		c.state.Y = uint16(v)
		c.setNZ8(v)
	} else {
		v := c.popWord()
		c.state.Y = v
		c.setNZ16(v)
	}
}

func execPHB(c *CPU) { c.pushByte(c.state.DBR) }
func execPLB(c *CPU) {
	v := c.popByte()
	c.state.DBR = v
	c.setNZ8(v)
}

func execPHD(c *CPU) { c.pushWord(c.state.D) }
func execPLD(c *CPU) {
	v := c.popWord()
	c.state.D = v
	c.setNZ16(v)
}

func execPHK(c *CPU) { c.pushByte(c.state.K) }
func execPHP(c *CPU) { c.pushByte(c.state.PS) }
func execPLP(c *CPU) {
	c.state.PS = c.popByte()
	c.state.setIndexWidth(c.state.flag(FlagX))
	c.state.fixEmulationInvariants()
}

func execPEA(c *CPU) { c.pushWord(uint16(c.operand)) }
func execPEI(c *CPU) { c.pushWord(uint16(c.operand)) }
func execPER(c *CPU) { c.pushWord(uint16(c.operand)) }

// --- block move ---

// execMVN and execMVP implement the two block-move instructions. The
// addressing mode packed the instruction's two bank bytes into
// c.operand as (src<<8)|dest. Each Step() call here moves
// exactly one byte and, unless the transfer has just finished, rewinds
// PC to the start of the instruction so the next Step() call re-enters
// it - this is what lets serviceIfPending see a pending interrupt
// between bytes instead of only after the whole block completes.
func execMVN(c *CPU) {
	dest := uint8(c.operand)
	src := uint8(c.operand >> 8)
	c.state.DBR = dest

	// 7 cycles per iteration: opcode, two bank bytes, read, write, and
	// these two internal cycles.
	v := c.read(uint32(src)<<16|uint32(c.state.X), bus.Read)
	c.write(uint32(dest)<<16|uint32(c.state.Y), v, bus.Write)
	c.idle()
	c.idle()

	c.state.A--
	c.state.X++
	c.state.Y++
	if c.state.eightBitIndex() {
		c.state.X &= 0xFF
		c.state.Y &= 0xFF
	}
	if c.state.A != 0xFFFF {
		c.state.PC -= 3
	}
}

func execMVP(c *CPU) {
	dest := uint8(c.operand)
	src := uint8(c.operand >> 8)
	c.state.DBR = dest

	// 7 cycles per iteration: opcode, two bank bytes, read, write, and
	// these two internal cycles.
	v := c.read(uint32(src)<<16|uint32(c.state.X), bus.Read)
	c.write(uint32(dest)<<16|uint32(c.state.Y), v, bus.Write)
	c.idle()
	c.idle()

	c.state.A--
	c.state.X--
	c.state.Y--
	if c.state.eightBitIndex() {
		c.state.X &= 0xFF
		c.state.Y &= 0xFF
	}
	if c.state.A != 0xFFFF {
		c.state.PC -= 3
	}
}

// --- misc ---

func execNOP(c *CPU) {}

func execSTP(c *CPU) { c.state.StopState = Stopped }
func execWAI(c *CPU) { c.state.StopState = Waiting }
