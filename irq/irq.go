// Package irq defines the interrupt source vocabulary shared between a
// 65C816 core and the host that owns its bus. Unlike a 6502, the 816
// does not have one pollable IRQ line per device; instead the host ORs
// a small set of named sources into a single level-triggered signal
// that the CPU samples once per instruction (in cpu.CPU.Step).
package irq

// Source identifies a single contributor to the CPU's level-triggered
// IRQ line. Multiple sources can be held asserted simultaneously; the
// CPU only cares whether the OR of all of them is non-zero.
type Source uint8

const (
	// Ppu is raised by the picture unit at the start of vblank (or on a
	// programmed scanline/cycle match) when its own IRQ enable is set.
	Ppu Source = 1 << iota
	// Apu is raised by the audio co-processor.
	Apu
	// Coprocessor is raised by a cartridge add-on chip (DSP, SA-1, etc).
	Coprocessor
	// Controller is raised by auto-joypad-read completion.
	Controller
)

// Set is a bitset of simultaneously-asserted Source values. It backs
// the CPU's IrqSource field.
type Set uint8

// With returns the set with source asserted.
func (s Set) With(source Source) Set {
	return s | Set(source)
}

// Without returns the set with source cleared.
func (s Set) Without(source Source) Set {
	return s &^ Set(source)
}

// Has reports whether source is currently asserted in the set.
func (s Set) Has(source Source) bool {
	return s&Set(source) != 0
}

// Any reports whether any source at all is asserted.
func (s Set) Any() bool {
	return s != 0
}
