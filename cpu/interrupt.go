package cpu

// Interrupt vectors. RESET is the same address in both modes; every
// other vector has a distinct native and emulation address, and BRK
// shares the emulation-mode IRQ vector.
const (
	vectorCOPNative  = 0x00FFE4
	vectorCOPEmu     = 0x00FFF4
	vectorBRKNative  = 0x00FFE6
	vectorBRKEmu     = 0x00FFFE
	vectorAbortNativ = 0x00FFE8
	vectorAbortEmu   = 0x00FFF8
	vectorNmiNative  = 0x00FFEA
	vectorNmiEmu     = 0x00FFFA
	vectorReset      = 0x00FFFC
	vectorIrqNative  = 0x00FFEE
	vectorIrqEmu     = 0x00FFFE
)

type interruptKind int

const (
	kindNMI interruptKind = iota
	kindIRQ
	kindBRK
	kindCOP
	kindAbort
)

func vectorFor(kind interruptKind, emulation bool) uint32 {
	switch kind {
	case kindNMI:
		if emulation {
			return vectorNmiEmu
		}
		return vectorNmiNative
	case kindIRQ:
		if emulation {
			return vectorIrqEmu
		}
		return vectorIrqNative
	case kindBRK:
		if emulation {
			return vectorBRKEmu
		}
		return vectorBRKNative
	case kindCOP:
		if emulation {
			return vectorCOPEmu
		}
		return vectorCOPNative
	case kindAbort:
		if emulation {
			return vectorAbortEmu
		}
		return vectorAbortNativ
	}
	return vectorReset
}

// serviceInterrupt runs the common interrupt-entry sequence: push PBR
// (native only), PC, PS; clear D; set I; load PC from the vector.
// Only in emulation mode does PS carry a meaningful B bit, set for BRK
// and clear for every other source (native mode has no B flag - that
// bit position is the live X flag).
//
// This costs two internal cycles plus the PBR push (native only) plus
// three register pushes plus the two vector-byte reads: 8 cycles
// native, 7 in emulation. The PBR push is exactly the one operation
// emulation mode skips (see DESIGN.md).
func (c *CPU) serviceInterrupt(kind interruptKind) {
	c.idle()
	c.idle()
	if !c.state.EmulationMode {
		c.pushByte(c.state.K)
	}
	c.pushWord(c.state.PC)

	ps := c.state.PS
	if c.state.EmulationMode {
		if kind == kindBRK {
			ps |= FlagX
		} else {
			ps &^= FlagX
		}
	}
	c.pushByte(ps)

	c.state.setFlag(FlagI, true)
	c.state.setFlag(FlagD, false)
	c.state.K = 0

	vec := vectorFor(kind, c.state.EmulationMode)
	c.state.PC = c.readVector(vec)
}

// execBRK implements the BRK software interrupt. Its addressing mode
// (amImmediate8) already consumed and discarded the signature byte
// that follows the opcode before this runs.
func execBRK(c *CPU) {
	c.serviceInterrupt(kindBRK)
}

// execCOP implements the COP software interrupt, identical to BRK
// except for the vector and the B-flag handling in serviceInterrupt.
func execCOP(c *CPU) {
	c.serviceInterrupt(kindCOP)
}
