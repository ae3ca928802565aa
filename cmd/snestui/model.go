// snestui is an interactive stepping debugger: a bubbletea model
// holding the running CPU, one Step() per keypress, and a two-pane
// view (a hex memory page and a register/flag status block).
package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lavendersprite/snes816/bus"
	"github.com/lavendersprite/snes816/cpu"
	"github.com/lavendersprite/snes816/disasm"
)

type memPeeker interface {
	Peek(addr uint32) uint8
}

type model struct {
	core *cpu.CPU
	mem  memPeeker

	prevPC uint16
	err    error
	done   bool
}

func newModel(core *cpu.CPU, mem memPeeker) model {
	return model{core: core, mem: mem}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j", "n":
			s := m.core.State()
			m.prevPC = s.PC
			if err := m.core.Step(); err != nil {
				m.err = err
				return m, tea.Quit
			}
			if m.core.State().StopState == cpu.Stopped {
				m.done = true
			}
		}
	}
	return m, nil
}

// renderPage renders one 16-byte row of memory starting at start,
// bracketing the byte at the current PC.
func (m model) renderPage(bank uint8, start uint16) string {
	line := fmt.Sprintf("%02X:%04X | ", bank, start)
	pc := m.core.State().PC
	pcBank := m.core.State().K
	for i := 0; i < 16; i++ {
		addr := uint32(bank)<<16 | uint32(start+uint16(i))
		b := m.mem.Peek(addr)
		if bank == pcBank && start+uint16(i) == pc {
			line += fmt.Sprintf("[%02X]", b)
		} else {
			line += fmt.Sprintf(" %02X ", b)
		}
	}
	return line
}

func (m model) memoryPanel() string {
	s := m.core.State()
	base := s.PC &^ 0xF
	rows := []string{fmt.Sprintf("bank:addr | %s", strings.Join(hexColumnHeader(), ""))}
	for r := 0; r < 8; r++ {
		start := base + uint16(r*16)
		if start < base {
			break // wrapped past bank 0xFFFF
		}
		rows = append(rows, m.renderPage(s.K, start))
	}
	return strings.Join(rows, "\n")
}

func hexColumnHeader() []string {
	out := make([]string, 16)
	for i := range out {
		out[i] = fmt.Sprintf(" %01X  ", i)
	}
	return out
}

func (m model) flagLine() string {
	s := m.core.State()
	names := "NVMXDIZC"
	masks := []uint8{cpu.FlagN, cpu.FlagV, cpu.FlagM, cpu.FlagX, cpu.FlagD, cpu.FlagI, cpu.FlagZ, cpu.FlagC}
	var b strings.Builder
	for i, mask := range masks {
		if s.PS&mask != 0 {
			b.WriteByte(names[i])
		} else {
			b.WriteByte('.')
		}
		b.WriteByte(' ')
	}
	return b.String()
}

func (m model) statusPanel() string {
	s := m.core.State()
	width := "8"
	if !s.EmulationMode && s.PS&cpu.FlagM == 0 {
		width = "16"
	}
	text := fmt.Sprintf(`
 PC: %02X:%04X (was %04X)
  A: %04X   X: %04X   Y: %04X
 SP: %04X   D: %04X  DBR: %02X
  E: %v   A-width: %s
  %s
Cycles: %d
State: %s
`,
		s.K, s.PC, m.prevPC,
		s.A, s.X, s.Y,
		s.SP, s.D, s.DBR,
		s.EmulationMode, width,
		m.flagLine(),
		s.CycleCount, s.StopState)
	if m.done {
		text += "\n(STP - halted)"
	}
	return text
}

func (m model) disasmLine() string {
	s := m.core.State()
	flags := disasm.Flags{Emulation: s.EmulationMode, M: s.PS&cpu.FlagM != 0, X: s.PS&cpu.FlagX != 0}
	text, _ := disasm.Step(uint32(s.K)<<16|uint32(s.PC), peekAdapter{m.mem}, flags)
	return "next: " + text
}

type peekAdapter struct{ mem memPeeker }

func (p peekAdapter) Peek(addr uint32) uint8 { return p.mem.Peek(addr) }

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v\n", m.err)
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.memoryPanel(), m.statusPanel()),
		"",
		m.disasmLine(),
		"",
		"space/j: step    q: quit",
	)
}

// Run starts the interactive debugger over b, which must back core.
func Run(core *cpu.CPU, b *bus.FlatBus) error {
	_, err := tea.NewProgram(newModel(core, b)).Run()
	return err
}
