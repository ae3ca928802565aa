package cpu

import (
	"bytes"
	"testing"

	"github.com/davecgh/go-spew/spew"
	deep "github.com/go-test/deep"

	"github.com/lavendersprite/snes816/bus"
	"github.com/lavendersprite/snes816/irq"
)

// newTestCPU returns a CPU over a fresh FlatBus with the reset vector
// pointed at resetVec. load writes prog starting at loadAt.
func newTestCPU(t *testing.T, resetVec uint16, loadAt uint16, prog []byte) (*CPU, *bus.FlatBus) {
	t.Helper()
	b := bus.NewFlatBus(nil, nil)
	b.Load(0xFFFC, []byte{uint8(resetVec), uint8(resetVec >> 8)})
	b.Load(uint32(loadAt), prog)
	c := New(b)
	c.PowerOn()
	return c, b
}

// TestPowerOnFetch checks the power-on/reset defaults and the total
// cost of the reset sequence.
func TestPowerOnFetch(t *testing.T) {
	c, _ := newTestCPU(t, 0x8000, 0x8000, []byte{0xEA})
	s := c.State()
	if s.PC != 0x8000 {
		t.Errorf("PC = %.4X, want 0x8000", s.PC)
	}
	if s.SP != 0x01FF {
		t.Errorf("SP = %.4X, want 0x01FF", s.SP)
	}
	if s.PS != 0x34 {
		t.Errorf("PS = %.2X, want 0x34", s.PS)
	}
	if !s.EmulationMode {
		t.Error("EmulationMode = false, want true")
	}
	if s.CycleCount != 7 {
		t.Errorf("CycleCount = %d, want 7", s.CycleCount)
	}
}

// TestADCDecimal covers 16-bit BCD addition: E=0, M=0, D=1, A=0x0099,
// operand=0x0001, C=0 -> A=0x0100, with C/Z/N all clear (no carry out
// of the fourth BCD digit; see DESIGN.md on decimal-mode flags).
func TestADCDecimal(t *testing.T) {
	// ADC #$0001 at 0x8000; native mode, 16-bit A, decimal.
	prog := []byte{0x69, 0x01, 0x00}
	c, _ := newTestCPU(t, 0x8000, 0x8000, prog)
	c.state.EmulationMode = false
	c.state.setFlag(FlagM, false)
	c.state.setFlag(FlagD, true)
	c.state.setFlag(FlagC, false)
	c.state.A = 0x0099

	if err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	s := c.State()
	if s.A != 0x0100 {
		t.Errorf("A = %.4X, want 0x0100", s.A)
	}
	if s.flag(FlagC) {
		t.Error("C set, want clear (0099+0001 does not carry out of BCD 9999)")
	}
	if s.flag(FlagZ) {
		t.Error("Z set, want clear")
	}
	if s.flag(FlagN) {
		t.Error("N set, want clear")
	}
}

// TestPageCrossReadPenalty: LDA $12FF,X with X=1 crosses into $1300
// and costs 5 cycles total (8-bit A, bank 0 DBR): opcode fetch, 2
// operand bytes, one dummy read at ($12,00), then the real read.
func TestPageCrossReadPenalty(t *testing.T) {
	prog := []byte{0xBD, 0xFF, 0x12} // LDA $12FF,X
	c, b := newTestCPU(t, 0x8000, 0x8000, prog)
	c.state.setFlag(FlagM, true) // 8-bit A
	c.state.X = 0x0001
	b.Load(0x1300, []byte{0x42})

	before := c.CycleCount()
	if err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	got := c.CycleCount() - before
	if got != 5 {
		t.Errorf("cycle cost = %d, want 5", got)
	}
	if c.State().A&0xFF != 0x42 {
		t.Errorf("A = %.2X, want 0x42", c.State().A&0xFF)
	}
}

// TestNmiEdge: the NMI flag rises during instruction N's own opcode
// fetch; the edge latches there and is serviced at the very next
// instruction boundary, i.e. in place of N+1 rather than after it
// (State carries a single NeedNmi latch, checked at the top of each
// Step, with no further pipeline stage - see DESIGN.md).
func TestNmiEdge(t *testing.T) {
	prog := []byte{
		0xEA, // N:   NOP at 0x8000
		0xEA, // N+1: NOP at 0x8001 (preempted by the NMI service below)
	}
	c, b := newTestCPU(t, 0x8000, 0x8000, prog)
	b.Load(0xFFFA, []byte{0x00, 0x90}) // emulation-mode NMI vector -> 0x9000

	c.SetNmiFlag(false)
	c.DetectNmiSignalEdge()
	c.SetNmiFlag(true) // line goes high; the edge is latched on N's own opcode fetch

	if err := c.Step(); err != nil { // executes N; its opcode fetch detects the edge
		t.Fatalf("Step N: %v", err)
	}
	if !c.State().NeedNmi {
		t.Fatal("NeedNmi not latched after the edge occurred during N")
	}

	if err := c.Step(); err != nil { // services NMI instead of fetching N+1
		t.Fatalf("Step N+1 (serviced): %v", err)
	}

	s := c.State()
	if s.PC != 0x9000 {
		t.Fatalf("PC = %.4X, want 0x9000 (NMI vector)", s.PC)
	}
	c.popByte() // PS, pushed last by the service sequence
	pushedPC := c.popWord()
	if pushedPC != 0x8001 {
		t.Errorf("pushed PC = %.4X, want 0x8001 (address of the preempted N+1)", pushedPC)
	}
}

// TestMVNWraparound moves three bytes with X wrapping across the
// source bank's 64K boundary mid-transfer.
func TestMVNWraparound(t *testing.T) {
	prog := []byte{0x54, 0x02, 0x01} // MVN dest=$02, src=$01
	c, b := newTestCPU(t, 0x8000, 0x8000, prog)
	c.state.EmulationMode = false
	c.state.setFlag(FlagX, false)
	c.state.A = 0x0002
	c.state.X = 0xFFFE
	c.state.Y = 0x0000
	c.state.DBR = 0x00

	b.Load(0x01FFFE, []byte{0x11, 0x22, 0x33})

	for c.state.A != 0xFFFF {
		if err := c.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	s := c.State()
	if s.X != 0x0001 {
		t.Errorf("X = %.4X, want 0x0001", s.X)
	}
	if s.Y != 0x0003 {
		t.Errorf("Y = %.4X, want 0x0003", s.Y)
	}
	if s.A != 0xFFFF {
		t.Errorf("A = %.4X, want 0xFFFF", s.A)
	}
	if s.DBR != 0x02 {
		t.Errorf("DBR = %.2X, want 0x02", s.DBR)
	}
}

// TestSEPClearsIndexHighHalvesOnlyOnSet: clearing X preserves index
// high bytes; setting X zeros them.
func TestSEPClearsIndexHighHalvesOnlyOnSet(t *testing.T) {
	prog := []byte{0xC2, 0x10, 0xE2, 0x10} // REP #$10 ; SEP #$10
	c, _ := newTestCPU(t, 0x8000, 0x8000, prog)
	c.state.EmulationMode = false
	c.state.setFlag(FlagX, true)
	c.state.X = 0x1234
	c.state.Y = 0x5678

	if err := c.Step(); err != nil { // REP #$10: clear X flag (go 16-bit)
		t.Fatalf("Step REP: %v", err)
	}
	if c.state.X != 0x1234 || c.state.Y != 0x5678 {
		t.Errorf("REP clearing X must preserve high halves, got X=%.4X Y=%.4X", c.state.X, c.state.Y)
	}

	if err := c.Step(); err != nil { // SEP #$10: set X flag (go 8-bit)
		t.Fatalf("Step SEP: %v", err)
	}
	if c.state.X != 0x0034 || c.state.Y != 0x0078 {
		t.Errorf("SEP setting X must zero high halves, got X=%.4X Y=%.4X", c.state.X, c.state.Y)
	}
}

// TestJSRPushesLastOperandByte: the pushed return address is
// the address of the last operand byte, so RTS's +1 lands on the next
// instruction.
func TestJSRPushesLastOperandByte(t *testing.T) {
	prog := []byte{0x20, 0x00, 0x90} // JSR $9000, at 0x8000-0x8002
	c, _ := newTestCPU(t, 0x8000, 0x8000, prog)

	if err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.State().PC != 0x9000 {
		t.Fatalf("PC = %.4X, want 0x9000", c.State().PC)
	}
	pushed := c.popWord()
	if pushed != 0x8002 {
		t.Errorf("pushed return addr = %.4X, want 0x8002 (last operand byte)", pushed)
	}
}

// TestInterruptServiceInvariants: after service PBR=0, PC holds the
// vector contents, I is set, and D is cleared.
func TestInterruptServiceInvariants(t *testing.T) {
	prog := []byte{0xEA}
	c, b := newTestCPU(t, 0x8000, 0x8000, prog)
	c.state.EmulationMode = false
	b.Load(0xFFEA, []byte{0x00, 0xA0}) // native NMI vector -> 0xA000
	c.state.setFlag(FlagD, true)

	c.SetNmiFlag(false)
	c.DetectNmiSignalEdge()
	c.SetNmiFlag(true)
	c.DetectNmiSignalEdge()

	if err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	s := c.State()
	if s.K != 0 {
		t.Errorf("K (PBR) = %.2X, want 0", s.K)
	}
	if s.PC != 0xA000 {
		t.Errorf("PC = %.4X, want 0xA000", s.PC)
	}
	if !s.flag(FlagI) {
		t.Error("I not set after interrupt service")
	}
	if s.flag(FlagD) {
		t.Error("D not cleared after interrupt service")
	}
}

// TestStateRoundTrip: Serialize then Deserialize restores State
// field-for-field.
func TestStateRoundTrip(t *testing.T) {
	c, _ := newTestCPU(t, 0x8000, 0x8000, []byte{0xEA})
	c.state.A = 0x1234
	c.state.X = 0x5678
	c.state.Y = 0x9ABC
	c.state.D = 0x0200
	c.state.DBR = 0x7E
	c.state.CycleCount = 99999
	c.SetIrqSource(irq.Ppu)

	saved := c.State()

	var buf bytes.Buffer
	if err := c.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	c.SetState(State{}) // scribble over it
	if err := c.Deserialize(&buf); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	got := c.State()
	if diff := deep.Equal(saved, got); diff != nil {
		t.Errorf("round trip mismatch: %v\nwant: %s\ngot:  %s", diff, spew.Sdump(saved), spew.Sdump(got))
	}
}

// TestStopStateTransitions covers the Running/Waiting/Stopped
// state-machine shape.
func TestStopStateTransitions(t *testing.T) {
	prog := []byte{0xCB, 0xEA} // WAI ; NOP
	c, _ := newTestCPU(t, 0x8000, 0x8000, prog)

	if err := c.Step(); err != nil { // WAI
		t.Fatalf("Step WAI: %v", err)
	}
	if c.State().StopState != Waiting {
		t.Fatalf("StopState = %v, want Waiting", c.State().StopState)
	}

	c.SetIrqSource(irq.Ppu) // unmasked? I is set at reset, so it just resumes
	if err := c.Step(); err != nil {
		t.Fatalf("Step resume: %v", err)
	}
	if c.State().StopState != Running {
		t.Errorf("StopState = %v, want Running after a pending IRQ wakes WAI", c.State().StopState)
	}
}
