package cpu

import (
	"github.com/lavendersprite/snes816/bus"
	"github.com/lavendersprite/snes816/irq"
)

// CPU is the 65C816 interpreter core: fetch-decode-execute, addressing
// resolution, and the interrupt pipeline, driven entirely through a
// host-supplied bus.Bus. It owns none of its collaborators - the host
// assembles memory mapping, DMA, and PPU behind the Bus and hands it
// to New.
type CPU struct {
	state State
	b     bus.Bus

	// Transient per-instruction pipeline state. Not part of State
	// because it never survives past the instruction that set it and
	// is irrelevant to save states.
	operand       int32
	effectiveAddr uint32
}

// New returns a CPU wired to b. Callers must call PowerOn before Step.
func New(b bus.Bus) *CPU {
	return &CPU{b: b}
}

// read issues a bus read, counts the cycle, and re-checks the NMI edge
// (every cycle is the sampling grain for the edge detector, so a line
// change during a DMA stall is still observed).
func (c *CPU) read(addr uint32, tag bus.AccessType) uint8 {
	v := c.b.Read(addr, tag)
	c.state.CycleCount++
	c.DetectNmiSignalEdge()
	return v
}

func (c *CPU) write(addr uint32, val uint8, tag bus.AccessType) {
	c.b.Write(addr, val, tag)
	c.state.CycleCount++
	c.DetectNmiSignalEdge()
}

func (c *CPU) idle() {
	c.b.Idle()
	c.state.CycleCount++
	c.DetectNmiSignalEdge()
}

func (c *CPU) readVector(addr uint32) uint16 {
	lo := c.read(addr, bus.Read)
	hi := c.read(addr+1, bus.Read)
	return uint16(lo) | uint16(hi)<<8
}

// pushByte and popByte implement the 65C816 stack. SP points at the
// next free byte; a push writes there and decrements, a pop increments
// and reads. fixEmulationInvariants re-pins SP's high byte to 0x01
// after every change so the stack wraps within page 1 in emulation
// mode.
func (c *CPU) pushByte(v uint8) {
	c.write(uint32(c.state.SP), v, bus.Write)
	c.state.SP--
	c.state.fixEmulationInvariants()
}

func (c *CPU) popByte() uint8 {
	c.state.SP++
	c.state.fixEmulationInvariants()
	return c.read(uint32(c.state.SP), bus.Read)
}

func (c *CPU) pushWord(v uint16) {
	c.pushByte(uint8(v >> 8))
	c.pushByte(uint8(v))
}

func (c *CPU) popWord() uint16 {
	lo := c.popByte()
	hi := c.popByte()
	return uint16(lo) | uint16(hi)<<8
}

// PowerOn initializes State to the 65C816's power-on defaults and runs
// Reset to load PC from the reset vector.
func (c *CPU) PowerOn() {
	c.state = State{
		SP:            0x01FF,
		PS:            FlagM | FlagX | FlagI,
		EmulationMode: true,
		StopState:     Running,
	}
	c.Reset()
}

// Reset performs the 65C816's reset mini-interrupt: forces emulation
// mode, sets I/M/X, zeros D/DBR/PBR, and loads PC from the reset
// vector. The whole sequence costs seven cycles: five internal, plus
// the two vector-byte reads. Unlike NMI/IRQ/BRK servicing, reset does
// not push anything to the stack.
func (c *CPU) Reset() {
	c.state.EmulationMode = true
	c.state.PS |= FlagI | FlagM | FlagX
	c.state.D = 0
	c.state.DBR = 0
	c.state.K = 0
	c.state.fixEmulationInvariants()
	c.state.StopState = Running
	c.state.NeedNmi = false
	c.state.NeedIrq = false
	for i := 0; i < 5; i++ {
		c.idle()
	}
	c.state.PC = c.readVector(vectorReset)
}

// State returns a copy of the architectural register file.
func (c *CPU) State() State {
	return c.state
}

// SetState overwrites the architectural register file wholesale, as
// used by save-state restore.
func (c *CPU) SetState(s State) {
	c.state = s
}

// CycleCount returns the monotonic cycle counter.
func (c *CPU) CycleCount() uint64 {
	return c.state.CycleCount
}

// SetNmiFlag updates the current level of the NMI line as observed by
// the host. The rising edge is picked up the next time the edge
// detector runs, which is on every bus cycle the CPU issues.
func (c *CPU) SetNmiFlag(level bool) {
	c.state.NmiFlag = level
}

// DetectNmiSignalEdge latches NeedNmi on a 0->1 transition of NmiFlag
// and otherwise just updates the previous-level sample. The latch
// persists across instruction boundaries until Step services it.
func (c *CPU) DetectNmiSignalEdge() {
	if c.state.NmiFlag && !c.state.PrevNmiFlag {
		c.state.NeedNmi = true
	}
	c.state.PrevNmiFlag = c.state.NmiFlag
}

// SetIrqSource asserts one IRQ source. The IRQ line as seen by the CPU
// is the OR of every asserted source.
func (c *CPU) SetIrqSource(source irq.Source) {
	c.state.IrqSource = c.state.IrqSource.With(source)
}

// ClearIrqSource deasserts one IRQ source.
func (c *CPU) ClearIrqSource(source irq.Source) {
	c.state.IrqSource = c.state.IrqSource.Without(source)
}

// CheckIrqSource reports whether source is currently asserted.
func (c *CPU) CheckIrqSource(source irq.Source) bool {
	return c.state.IrqSource.Has(source)
}

// Step executes exactly one instruction: sample interrupts, fetch
// opcode, resolve the operand, perform the operation, update flags.
// It never fails on well-formed input - every byte is a valid opcode -
// so the only error path is an internal precondition violated by
// SetState.
func (c *CPU) Step() error {
	if c.state.StopState < Running || c.state.StopState > Stopped {
		return StateError{Reason: "CPU.StopState out of range"}
	}

	switch c.state.StopState {
	case Stopped:
		// STP: halted until an external Reset(). Still ticks so a host
		// driving a fixed number of cycles per frame doesn't stall.
		c.idle()
		return nil
	case Waiting:
		return c.stepWaiting()
	}

	if c.serviceIfPending() {
		return nil
	}

	opcode := c.read(uint32(c.state.K)<<16|uint32(c.state.PC), bus.ExecOpCode)
	c.state.PC++

	info := &opcodeTable[opcode]
	c.resolve(info.mode, info.isWrite)
	info.exec(c)

	// Sample the IRQ line for service at the next instruction
	// boundary: an IRQ asserted and unmasked here is taken before the
	// next opcode fetch, one asserted later waits a full instruction.
	c.state.IrqLock = c.state.IrqSource
	c.state.PrevNeedIrq = c.state.NeedIrq
	c.state.NeedIrq = c.state.IrqLock.Any() && !c.state.flag(FlagI)
	return nil
}

// stepWaiting implements WAI's pause: the clock keeps ticking but no
// opcode is fetched until a pending interrupt appears. The interrupt
// is serviced immediately if unmasked, otherwise WAI simply resumes
// normal fetch on the next Step call.
func (c *CPU) stepWaiting() error {
	c.idle()
	if c.state.NeedNmi {
		c.state.StopState = Running
		c.state.NeedNmi = false
		c.serviceInterrupt(kindNMI)
		return nil
	}
	if c.state.IrqSource.Any() {
		c.state.StopState = Running
		if !c.state.flag(FlagI) {
			c.state.NeedIrq = false
			c.serviceInterrupt(kindIRQ)
		}
		return nil
	}
	return nil
}

// serviceIfPending checks for a latched NMI/IRQ at an instruction
// boundary and, if present, services it instead of fetching the next
// opcode. NMI takes priority over IRQ.
func (c *CPU) serviceIfPending() bool {
	if c.state.NeedNmi {
		c.state.NeedNmi = false
		c.serviceInterrupt(kindNMI)
		return true
	}
	if c.state.NeedIrq {
		c.state.NeedIrq = false
		c.serviceInterrupt(kindIRQ)
		return true
	}
	return false
}
