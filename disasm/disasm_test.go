package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type flatReader []uint8

func (r flatReader) Peek(addr uint32) uint8 {
	if int(addr) >= len(r) {
		return 0
	}
	return r[addr]
}

func TestStepImmediateSizedByWidthFlags(t *testing.T) {
	mem := flatReader{0xA9, 0x42, 0x99} // LDA #$xx

	text, n := Step(0, mem, Flags{Emulation: true})
	assert.Equal(t, "LDA #$42", text)
	assert.Equal(t, 2, n)

	text, n = Step(0, mem, Flags{Emulation: false, M: false})
	assert.Equal(t, "LDA #$9942", text)
	assert.Equal(t, 3, n)
}

func TestStepRelative8ComputesTargetFromNextInstruction(t *testing.T) {
	mem := make(flatReader, 0x8002)
	mem[0x8000], mem[0x8001] = 0xF0, 0xFE // BEQ -2 (branch to self)
	text, n := Step(0x8000, mem, Flags{Emulation: true})
	assert.Equal(t, "BEQ $8000", text)
	assert.Equal(t, 2, n)
}

func TestStepAbsoluteLongUsesThreeOperandBytes(t *testing.T) {
	mem := flatReader{0x22, 0x00, 0x90, 0x01} // JSL $019000
	text, n := Step(0, mem, Flags{Emulation: true})
	assert.Equal(t, "JSL $019000", text)
	assert.Equal(t, 4, n)
}

func TestStepBlockMoveOrdersDestThenSrc(t *testing.T) {
	mem := flatReader{0x54, 0x02, 0x01} // MVN dest=$02 src=$01
	text, n := Step(0, mem, Flags{Emulation: true})
	assert.Equal(t, "MVN $02,$01", text)
	assert.Equal(t, 3, n)
}

func TestStepImpliedHasNoOperandText(t *testing.T) {
	mem := flatReader{0xEA}
	text, n := Step(0, mem, Flags{Emulation: true})
	assert.Equal(t, "NOP", text)
	assert.Equal(t, 1, n)
}

func TestStepIndexImmediateSizedByXFlagIndependentOfM(t *testing.T) {
	mem := flatReader{0xA2, 0x05, 0x00} // LDX #$xx
	text, n := Step(0, mem, Flags{Emulation: false, M: false, X: true})
	assert.Equal(t, "LDX #$05", text)
	assert.Equal(t, 2, n)
}
