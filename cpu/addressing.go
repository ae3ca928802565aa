package cpu

import "github.com/lavendersprite/snes816/bus"

// addrMode tags which addressing-mode resolver an opcode binds to.
type addrMode int

const (
	amImplied addrMode = iota
	amAccumulator
	amImmediateM // sized by the M flag (8 or 16 bit)
	amImmediateX // sized by the X flag
	amImmediate8 // always one byte (REP/SEP operand)
	amRelative8
	amRelativeLong
	amDirect
	amDirectX
	amDirectY
	amDirectIndirect            // (d)
	amDirectIndirectLong        // [d]
	amDirectIndexedIndirect     // (d,x)
	amDirectIndirectIndexed     // (d),y
	amDirectIndirectLongIndexed // [d],y
	amAbsolute
	amAbsoluteX
	amAbsoluteY
	amAbsoluteLong
	amAbsoluteLongX
	amAbsoluteJMP             // absolute, stays in PBR (JMP/JSR)
	amAbsoluteIndirect        // (a), bank 0 pointer (JMP)
	amAbsoluteIndirectLong    // [a], bank 0 pointer (JML)
	amAbsoluteIndexedIndirect // (a,x), pointer from PBR:(a+X) (JMP/JSR)
	amStackRelative           // d,s
	amStackRelativeIndIdxY    // (d,s),y
	amBlockMove
	amPEA
	amPEI
	amPER
)

// operandNone is the sentinel for cpu.operand meaning "no immediate
// value was fetched by the addressing mode; use effectiveAddr instead".
const operandNone = -1

// readOperandByte fetches the byte at PC (bank K) and advances PC.
// PC wraps within the bank on overflow - PBR never changes here.
func (c *CPU) readOperandByte() uint8 {
	v := c.read(uint32(c.state.K)<<16|uint32(c.state.PC), bus.Read)
	c.state.PC++
	return v
}

func (c *CPU) readOperandWord() uint16 {
	lo := c.readOperandByte()
	hi := c.readOperandByte()
	return uint16(lo) | uint16(hi)<<8
}

func (c *CPU) readOperandLong() uint32 {
	lo := c.readOperandByte()
	mid := c.readOperandByte()
	hi := c.readOperandByte()
	return uint32(lo) | uint32(mid)<<8 | uint32(hi)<<16
}

// directPageLow reports whether D's low byte is non-zero, the
// condition that adds the one-cycle direct-page alignment penalty.
func (c *CPU) directPageLow() bool {
	return c.state.D&0xFF != 0
}

// resolve runs the addressing-mode resolver for mode, leaving the
// result in either c.operand (immediate) or c.effectiveAddr (memory),
// and issues the mode's idle/dummy cycles. isWrite distinguishes
// read-modify-write/store accesses, which always pay the page-cross
// penalty rather than only on an actual cross.
func (c *CPU) resolve(mode addrMode, isWrite bool) {
	c.operand = operandNone
	switch mode {
	case amImplied, amAccumulator:
		// No operand.
	case amImmediateM:
		if c.state.eightBitA() {
			c.operand = int32(c.readOperandByte())
		} else {
			c.operand = int32(c.readOperandWord())
		}
	case amImmediateX:
		if c.state.eightBitIndex() {
			c.operand = int32(c.readOperandByte())
		} else {
			c.operand = int32(c.readOperandWord())
		}
	case amImmediate8:
		c.operand = int32(c.readOperandByte())
	case amRelative8:
		off := int8(c.readOperandByte())
		c.effectiveAddr = uint32(c.state.K)<<16 | uint32(uint16(int16(c.state.PC)+int16(off)))
	case amRelativeLong:
		off := int16(c.readOperandWord())
		c.effectiveAddr = uint32(c.state.K)<<16 | uint32(uint16(int32(c.state.PC)+int32(off)))
	case amDirect:
		d := c.readOperandByte()
		if c.directPageLow() {
			c.idle()
		}
		c.effectiveAddr = uint32(c.state.D) + uint32(d)
	case amDirectX:
		d := c.readOperandByte()
		if c.directPageLow() {
			c.idle()
		}
		c.idle()
		c.effectiveAddr = (uint32(c.state.D) + uint32(d) + uint32(c.state.X)) & 0xFFFF
	case amDirectY:
		d := c.readOperandByte()
		if c.directPageLow() {
			c.idle()
		}
		c.idle()
		c.effectiveAddr = (uint32(c.state.D) + uint32(d) + uint32(c.state.Y)) & 0xFFFF
	case amDirectIndirect:
		d := c.readOperandByte()
		if c.directPageLow() {
			c.idle()
		}
		ptr := c.readDirectWord(d)
		c.effectiveAddr = uint32(c.state.DBR)<<16 | uint32(ptr)
	case amDirectIndirectLong:
		d := c.readOperandByte()
		if c.directPageLow() {
			c.idle()
		}
		c.effectiveAddr = c.readDirectLong(d)
	case amDirectIndexedIndirect:
		d := c.readOperandByte()
		if c.directPageLow() {
			c.idle()
		}
		c.idle()
		ptr := c.readDirectWord(d + uint8(c.state.X))
		c.effectiveAddr = uint32(c.state.DBR)<<16 | uint32(ptr)
	case amDirectIndirectIndexed:
		d := c.readOperandByte()
		if c.directPageLow() {
			c.idle()
		}
		ptr := c.readDirectWord(d)
		base := uint32(c.state.DBR)<<16 | uint32(ptr)
		eff := base + uint32(c.state.Y)
		c.crossPenalty(base, eff, isWrite)
		c.effectiveAddr = eff & 0xFFFFFF
	case amDirectIndirectLongIndexed:
		d := c.readOperandByte()
		if c.directPageLow() {
			c.idle()
		}
		base := c.readDirectLong(d)
		c.effectiveAddr = (base + uint32(c.state.Y)) & 0xFFFFFF
	case amAbsolute:
		a := c.readOperandWord()
		c.effectiveAddr = uint32(c.state.DBR)<<16 | uint32(a)
	case amAbsoluteX:
		a := c.readOperandWord()
		base := uint32(c.state.DBR)<<16 | uint32(a)
		eff := base + uint32(c.state.X)
		c.crossPenalty(base, eff, isWrite)
		c.effectiveAddr = eff & 0xFFFFFF
	case amAbsoluteY:
		a := c.readOperandWord()
		base := uint32(c.state.DBR)<<16 | uint32(a)
		eff := base + uint32(c.state.Y)
		c.crossPenalty(base, eff, isWrite)
		c.effectiveAddr = eff & 0xFFFFFF
	case amAbsoluteLong:
		c.effectiveAddr = c.readOperandLong()
	case amAbsoluteLongX:
		a := c.readOperandLong()
		c.effectiveAddr = (a + uint32(c.state.X)) & 0xFFFFFF
	case amAbsoluteJMP:
		a := c.readOperandWord()
		c.effectiveAddr = uint32(c.state.K)<<16 | uint32(a)
	case amAbsoluteIndirect:
		a := c.readOperandWord()
		lo := c.read(uint32(a), bus.Read)
		hi := c.read(uint32(a+1)&0xFFFF, bus.Read)
		c.effectiveAddr = uint32(c.state.K)<<16 | uint32(lo) | uint32(hi)<<8
	case amAbsoluteIndirectLong:
		a := c.readOperandWord()
		lo := c.read(uint32(a), bus.Read)
		mid := c.read(uint32(a+1)&0xFFFF, bus.Read)
		hi := c.read(uint32(a+2)&0xFFFF, bus.Read)
		c.effectiveAddr = uint32(lo) | uint32(mid)<<8 | uint32(hi)<<16
	case amAbsoluteIndexedIndirect:
		a := c.readOperandWord()
		c.idle()
		ptr := uint16(a) + c.state.X
		lo := c.read(uint32(c.state.K)<<16|uint32(ptr), bus.Read)
		hi := c.read(uint32(c.state.K)<<16|uint32(ptr+1), bus.Read)
		c.effectiveAddr = uint32(c.state.K)<<16 | uint32(lo) | uint32(hi)<<8
	case amStackRelative:
		d := c.readOperandByte()
		c.idle()
		c.effectiveAddr = uint32(uint16(c.state.SP + uint16(d)))
	case amStackRelativeIndIdxY:
		d := c.readOperandByte()
		c.idle()
		ptrAddr := uint16(c.state.SP + uint16(d))
		lo := c.read(uint32(ptrAddr), bus.Read)
		hi := c.read(uint32(ptrAddr+1), bus.Read)
		c.idle()
		base := uint32(c.state.DBR)<<16 | uint32(lo) | uint32(hi)<<8
		c.effectiveAddr = (base + uint32(c.state.Y)) & 0xFFFFFF
	case amBlockMove:
		dest := c.readOperandByte()
		src := c.readOperandByte()
		// Packed into operand as (src<<8)|dest for MVN/MVP to unpack.
		c.operand = int32(src)<<8 | int32(dest)
	case amPEA:
		c.operand = int32(c.readOperandWord())
	case amPEI:
		d := c.readOperandByte()
		if c.directPageLow() {
			c.idle()
		}
		c.operand = int32(c.readDirectWord(d))
	case amPER:
		off := int16(c.readOperandWord())
		c.operand = int32(uint16(int32(c.state.PC) + int32(off)))
	}
}

// crossPenalty issues the indexed-mode penalty cycle as a dummy read at
// the base's high bytes joined with the effective address's low byte:
// read-only accesses pay it only when the index actually crossed a
// page, writes pay it always.
func (c *CPU) crossPenalty(base, eff uint32, isWrite bool) {
	if isWrite || (eff&0xFFFF00) != (base&0xFFFF00) {
		c.read((base&0xFFFF00)|(eff&0xFF), bus.DummyRead)
	}
}

// readDirectWord fetches a 16-bit pointer out of the direct page at
// offset d (bank 0, wrapping within the page in emulation mode per
// real hardware - here always wrapped within 16 bits since D is a
// full 16-bit base).
func (c *CPU) readDirectWord(d uint8) uint16 {
	lo := c.read((uint32(c.state.D)+uint32(d))&0xFFFF, bus.Read)
	hi := c.read((uint32(c.state.D)+uint32(d)+1)&0xFFFF, bus.Read)
	return uint16(lo) | uint16(hi)<<8
}

func (c *CPU) readDirectLong(d uint8) uint32 {
	lo := c.read((uint32(c.state.D)+uint32(d))&0xFFFF, bus.Read)
	mid := c.read((uint32(c.state.D)+uint32(d)+1)&0xFFFF, bus.Read)
	hi := c.read((uint32(c.state.D)+uint32(d)+2)&0xFFFF, bus.Read)
	return uint32(lo) | uint32(mid)<<8 | uint32(hi)<<16
}

// getByte returns the operand's value as a byte, from the immediate
// cache if the mode was immediate, else from the resolved effective
// address (which costs a read cycle).
func (c *CPU) getByte() uint8 {
	if c.operand != operandNone {
		return uint8(c.operand)
	}
	return c.read(c.effectiveAddr, bus.Read)
}

// getWord is getByte's 16-bit counterpart. For memory operands the two
// bytes are read low-then-high from consecutive addresses (wrapping
// within the bank, not across it).
func (c *CPU) getWord() uint16 {
	if c.operand != operandNone {
		return uint16(c.operand)
	}
	lo := c.read(c.effectiveAddr, bus.Read)
	hiAddr := (c.effectiveAddr & 0xFF0000) | ((c.effectiveAddr + 1) & 0xFFFF)
	hi := c.read(hiAddr, bus.Read)
	return uint16(lo) | uint16(hi)<<8
}

// storeByte writes val to the resolved effective address.
func (c *CPU) storeByte(val uint8) {
	c.write(c.effectiveAddr, val, bus.Write)
}

// storeWord writes val (low byte first) across the resolved effective
// address, mirroring getWord's addressing.
func (c *CPU) storeWord(val uint16) {
	c.write(c.effectiveAddr, uint8(val), bus.Write)
	hiAddr := (c.effectiveAddr & 0xFF0000) | ((c.effectiveAddr + 1) & 0xFFFF)
	c.write(hiAddr, uint8(val>>8), bus.Write)
}

// rmwByte performs the dummy-write-then-real-write sequence real
// 65C816 read-modify-write instructions use on memory operands: the
// original value is written back unchanged before the modified value
// is stored, giving RMW opcodes their extra cycle.
func (c *CPU) rmwByte(old uint8, modify func(uint8) uint8) uint8 {
	if c.operand == operandNone {
		c.write(c.effectiveAddr, old, bus.DummyWrite)
	}
	n := modify(old)
	if c.operand == operandNone {
		c.storeByte(n)
	}
	return n
}

func (c *CPU) rmwWord(old uint16, modify func(uint16) uint16) uint16 {
	if c.operand == operandNone {
		c.write(c.effectiveAddr, uint8(old), bus.DummyWrite)
	}
	n := modify(old)
	if c.operand == operandNone {
		c.storeWord(n)
	}
	return n
}
