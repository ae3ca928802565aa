// Package cpu implements a cycle-accurate 65C816 interpreter:
// fetch-decode-execute, addressing-mode resolution, the interrupt
// pipeline, and the architectural register file. It consumes a
// bus.Bus supplied by the host and never reaches around it - the host
// assembles memory mapping, DMA, and the PPU on its own side of that
// interface.
package cpu

import "github.com/lavendersprite/snes816/irq"

// Processor status flag bits. N V M X D I Z C, matching the 65C816
// layout. In emulation mode the M and X bits are forced to 1 (fixed
// 8-bit registers) and the X bit position is reused by hardware as the
// "B" break flag on push.
const (
	FlagN uint8 = 0x80 // Negative
	FlagV uint8 = 0x40 // Overflow
	FlagM uint8 = 0x20 // Accumulator/memory width select (native mode only)
	FlagX uint8 = 0x10 // Index register width select (native) / B flag (emulation)
	FlagD uint8 = 0x08 // Decimal mode
	FlagI uint8 = 0x04 // IRQ disable
	FlagZ uint8 = 0x02 // Zero
	FlagC uint8 = 0x01 // Carry
)

// StopState is the CPU's run state. The executor is otherwise purely
// imperative per Step(); these are the only state-machine transitions
// that reach across Step() calls.
type StopState int

const (
	// Running is the normal fetch-decode-execute state.
	Running StopState = iota
	// Waiting is entered by WAI: fetch stops, the clock keeps ticking,
	// and any pending IRQ/NMI resumes fetch.
	Waiting
	// Stopped is entered by STP: fetch stops permanently until an
	// external Reset().
	Stopped
)

func (s StopState) String() string {
	switch s {
	case Running:
		return "Running"
	case Waiting:
		return "Waiting"
	case Stopped:
		return "Stopped"
	default:
		return "Invalid"
	}
}

// State is the architectural register file plus the interrupt pipeline
// latches - everything a save state must capture. It is a plain struct
// with no embedded interfaces, so it can be copied, compared, and
// serialized byte-for-byte.
type State struct {
	A  uint16 // Accumulator. Low byte active in 8-bit (M=1) mode; high byte ("B") survives mode toggles.
	X  uint16 // X index register. High byte forced to zero in 8-bit (X=1) mode.
	Y  uint16 // Y index register. High byte forced to zero in 8-bit (X=1) mode.
	SP uint16 // Stack pointer. High byte forced to 0x01 in emulation mode.
	D  uint16 // Direct-page base register.
	PC uint16 // Program counter (bank-relative; wraps within PBR on overflow).

	K   uint8 // PBR: program bank register.
	DBR uint8 // Data bank register.
	PS  uint8 // Processor status (N V M X D I Z C).

	EmulationMode bool // True on power-on and while E=1.
	CycleCount    uint64
	StopState     StopState

	NmiFlag     bool // Current level of the NMI line as last told by the host.
	PrevNmiFlag bool // Level sampled the previous edge-check.
	NeedNmi     bool // Latched: an NMI edge has been seen and not yet serviced.

	IrqSource   irq.Set // OR of all currently-asserted IRQ sources.
	IrqLock     irq.Set // Snapshot of IrqSource taken after each instruction's last cycle.
	PrevNeedIrq bool
	NeedIrq     bool // Latched: IRQ was asserted and unmasked at the last sample point.
}

// eightBitA reports whether the accumulator is in 8-bit mode: either
// the CPU is in emulation mode (where M is hard-wired to 1) or the M
// flag is explicitly set.
func (s *State) eightBitA() bool {
	return s.EmulationMode || s.PS&FlagM != 0
}

// eightBitIndex reports whether X/Y are in 8-bit mode.
func (s *State) eightBitIndex() bool {
	return s.EmulationMode || s.PS&FlagX != 0
}

func (s *State) flag(mask uint8) bool {
	return s.PS&mask != 0
}

func (s *State) setFlag(mask uint8, v bool) {
	if v {
		s.PS |= mask
	} else {
		s.PS &^= mask
	}
}

// setIndexWidth applies the X flag's width rule: clearing it (going
// 16-bit) preserves the current high halves of X/Y, setting it (going
// 8-bit) zeros them immediately.
func (s *State) setIndexWidth(eightBit bool) {
	s.setFlag(FlagX, eightBit)
	if eightBit {
		s.X &= 0xFF
		s.Y &= 0xFF
	}
}

// fixEmulationInvariants re-applies the emulation-mode register rules
// after any change to EmulationMode or SP: in emulation mode M=1, X=1
// (zeroing index high halves), and SP's high byte is pinned to 0x01.
func (s *State) fixEmulationInvariants() {
	if s.EmulationMode {
		s.PS |= FlagM | FlagX
		s.X &= 0xFF
		s.Y &= 0xFF
		s.SP = 0x0100 | (s.SP & 0xFF)
	}
}
