// Command tui is an interactive single-step debugger for the 65C02 core,
// built as a bubbletea/lipgloss model.
package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jpactor/65xx-emu/cpu"
	"github.com/jpactor/65xx-emu/memory"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <program.bin>", os.Args[0])
	}
	prog, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("reading program: %v", err)
	}

	mem, err := memory.New(1 << 16)
	if err != nil {
		log.Fatalf("allocating memory: %v", err)
	}
	view := mem.ViewMut()
	copy(view[0x0800:], prog)
	view[0xFFFC] = 0x00
	view[0xFFFD] = 0x08

	c, err := cpu.NewCPU(mem, cpu.Width8)
	if err != nil {
		log.Fatalf("constructing cpu: %v", err)
	}

	m := newModel(c, mem)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
