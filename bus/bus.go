// Package bus defines the abstract contract a host must implement to
// drive a 65C816 core (cpu.CPU). Every transaction the CPU issues -
// read, write, or idle - goes through exactly one of these calls, and
// each call is defined to cost exactly one CPU cycle and to tick every
// cycle-driven collaborator (DMA, PPU, timers) before returning.
package bus

import (
	"fmt"
	"math/rand"
	"time"
)

// AccessType classifies a single bus transaction. The watch dispatcher
// (package watch) keys its Read/Write/Exec callback lists off this, so
// the distinction between a "real" and a "dummy" access matters even
// though both cost a cycle identically.
type AccessType int

const (
	// Read is a normal data fetch.
	Read AccessType = iota
	// Write is a normal data store.
	Write
	// ExecOpCode is the fetch of an instruction's opcode byte.
	ExecOpCode
	// DummyRead is a read whose value is discarded; issued for timing
	// only (page-crossing, indexed indirect, etc).
	DummyRead
	// DummyWrite is a write of a stale value performed purely for
	// timing, on some read-modify-write addressing paths.
	DummyWrite
)

// String renders the access type for logging/disassembly purposes.
func (a AccessType) String() string {
	switch a {
	case Read:
		return "read"
	case Write:
		return "write"
	case ExecOpCode:
		return "exec"
	case DummyRead:
		return "dummy-read"
	case DummyWrite:
		return "dummy-write"
	default:
		return fmt.Sprintf("AccessType(%d)", int(a))
	}
}

// MemoryType names the kind of absolute-memory region a logical address
// translates to, once the host's address decoder has resolved it. The
// CPU never interprets this value itself; it only threads it through
// to the watch dispatcher (package watch) so mapped-region boundaries
// can be discovered without the interpreter knowing anything about
// cartridge mapping.
type MemoryType int

const (
	// MemoryTypeNone marks an address with no absolute backing (open
	// bus). AddressInfo.Address is -1 in this case.
	MemoryTypeNone MemoryType = iota
	MemoryTypeWorkRam
	MemoryTypeSaveRam
	MemoryTypeRom
	MemoryTypeRegister
)

// AddressInfo is the result of translating a logical (bank:offset) CPU
// address into its absolute-memory coordinates.
type AddressInfo struct {
	Type MemoryType
	// Address is the offset within Type's backing store, or -1 if addr
	// has no direct memory backing (e.g. a hardware register).
	Address int32
}

// Bus is the capability a host provides to a cpu.CPU so it can read and
// write the 24-bit address space and discover how logical addresses map
// to absolute memory. The CPU owns none of its collaborators (Design
// Notes, "Shared mutable CPU object"): it is handed a Bus at
// construction and never reaches around it.
type Bus interface {
	// Read returns the byte at addr and ticks the clock by one cycle.
	Read(addr uint32, tag AccessType) uint8
	// Write stores value at addr and ticks the clock by one cycle.
	Write(addr uint32, value uint8, tag AccessType)
	// Idle ticks the clock by one cycle without any address transaction.
	Idle()
	// GetAbsoluteAddress resolves addr to its absolute-memory
	// coordinates without performing an access or ticking the clock.
	GetAbsoluteAddress(addr uint32) AddressInfo
}

// FlatBus is a reference Bus implementation backing the full 24-bit
// space with a single contiguous array. It exists so tests and the
// cmd/snescore and cmd/snestui front ends have something concrete to
// hand the CPU. Real hosts implement Bus against their own
// cartridge/WRAM/register decoding.
type FlatBus struct {
	mem   []uint8
	tick  func()
	watch func(addr uint32, value *uint8, tag AccessType)
}

// NewFlatBus allocates a 16MB flat address space. onTick, if non-nil,
// is invoked once per cycle (Read/Write/Idle) to let a caller simulate
// DMA/PPU stealing time. onAccess, if non-nil, is invoked on every
// Read/Write (not Idle), before the access completes, and is typically
// wired to watch.Dispatcher.OnBusAccess; it may overwrite *value, and
// for writes the overwritten value is what lands in memory.
func NewFlatBus(onTick func(), onAccess func(addr uint32, value *uint8, tag AccessType)) *FlatBus {
	return &FlatBus{
		mem:   make([]uint8, 1<<24),
		tick:  onTick,
		watch: onAccess,
	}
}

// PowerOn fills the backing array with pseudo-random bytes, mirroring
// real SRAM/DRAM power-on state.
func (f *FlatBus) PowerOn() {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range f.mem {
		f.mem[i] = uint8(rnd.Intn(256))
	}
}

// Load copies data into the flat space starting at addr, for test and
// CLI ROM loading.
func (f *FlatBus) Load(addr uint32, data []uint8) {
	copy(f.mem[addr&0xFFFFFF:], data)
}

// Read implements Bus.
func (f *FlatBus) Read(addr uint32, tag AccessType) uint8 {
	a := addr & 0xFFFFFF
	v := f.mem[a]
	if f.watch != nil {
		f.watch(a, &v, tag)
	}
	if f.tick != nil {
		f.tick()
	}
	return v
}

// Write implements Bus.
func (f *FlatBus) Write(addr uint32, value uint8, tag AccessType) {
	a := addr & 0xFFFFFF
	if f.watch != nil {
		f.watch(a, &value, tag)
	}
	f.mem[a] = value
	if f.tick != nil {
		f.tick()
	}
}

// Idle implements Bus.
func (f *FlatBus) Idle() {
	if f.tick != nil {
		f.tick()
	}
}

// Peek reads a byte with no cycle cost and no watch-callback side
// effect, for tooling that inspects memory without pretending to be
// the CPU (disassembly, a debugger's memory page view).
func (f *FlatBus) Peek(addr uint32) uint8 {
	return f.mem[addr&0xFFFFFF]
}

// GetAbsoluteAddress implements Bus. FlatBus has no banking so the
// mapped address is always the logical one and the type is always
// MemoryTypeWorkRam.
func (f *FlatBus) GetAbsoluteAddress(addr uint32) AddressInfo {
	return AddressInfo{Type: MemoryTypeWorkRam, Address: int32(addr & 0xFFFFFF)}
}
