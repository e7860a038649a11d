package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/jpactor/65xx-emu/addrmode"
	"github.com/jpactor/65xx-emu/cpu"
	"github.com/jpactor/65xx-emu/memory"
)

// irqButton is a manually toggled irq.Sender standing in for an external
// peripheral's interrupt line: pressing "i" raises it, and the next Step
// poll consumes and clears it.
type irqButton struct {
	raised bool
}

func (b *irqButton) Raised() bool {
	r := b.raised
	b.raised = false
	return r
}

// model is the single-step debugger's bubbletea model. It attaches itself
// to the cpu.CPU as a cpu.Listener so every step's trace is available to
// render, without the driver ever calling back into model mutation beyond
// the documented RequestStop escape hatch. It also wires an irqButton as
// the cpu.CPU's polled interrupt source, so the "i" key exercises the core's
// irq.Sender bridge the way an external peripheral would.
type model struct {
	cpu *cpu.CPU
	mem memory.Bank
	irq *irqButton

	lastTrace cpu.InstructionTrace
	haveTrace bool
	err       error
}

func newModel(c *cpu.CPU, mem memory.Bank) *model {
	btn := &irqButton{}
	c.AttachIRQSender(btn)
	m := &model{cpu: c, mem: mem, irq: btn}
	_ = c.AttachDebugger(m)
	return m
}

// OnBeforeStep implements cpu.Listener. The debugger only observes; state
// mutation happens through cpu.CPU's own methods.
func (m *model) OnBeforeStep(trace cpu.InstructionTrace) {}

// OnAfterStep implements cpu.Listener.
func (m *model) OnAfterStep(trace cpu.InstructionTrace) {
	m.lastTrace = trace
	m.haveTrace = true
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "s":
			m.cpu.Step()
		case "i":
			m.irq.raised = true
		}
	}
	return m, nil
}

func (m *model) memWindow(start addrmode.Addr) string {
	s := fmt.Sprintf("%04X | ", start)
	for i := addrmode.Addr(0); i < 16; i++ {
		s += fmt.Sprintf("%02X ", m.mem.Read(start+i))
	}
	return s
}

func (m *model) status() string {
	st := m.cpu.GetState()
	return fmt.Sprintf(
		"PC: %04X\nA:  %02X\nX:  %02X\nY:  %02X\nSP: %02X\nP:  %02X\ncycles: %d\nhalt: %d",
		st.Registers.PC, st.Registers.A, st.Registers.X, st.Registers.Y,
		st.Registers.SP, uint8(st.Registers.P), st.TotalCycles, st.Halt,
	)
}

func (m *model) View() string {
	trace := "(no step yet)"
	if m.haveTrace {
		trace = fmt.Sprintf("%04X  %s  %d cycles",
			m.lastTrace.StartPC, m.lastTrace.Mnemonic.String(), m.lastTrace.InstructionCycles)
	}
	st := m.cpu.GetState()
	windowStart := addrmode.Addr(st.Registers.PC) &^ 0x0F
	view := lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.status(), "   ", trace),
		m.memWindow(windowStart),
		"",
		strings.Repeat("-", 40),
		"space/s: step   i: assert IRQ   q: quit",
	)
	if m.haveTrace {
		view += "\n" + spew.Sdump(m.lastTrace)
	}
	return view
}
