package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jpactor/65xx-emu/cpu"
	"github.com/jpactor/65xx-emu/memory"
)

func TestModelNonKeyMessageDoesNotStep(t *testing.T) {
	mem, err := memory.New(1 << 16)
	require.NoError(t, err)
	view := mem.ViewMut()
	view[0x0000] = 0xEA // NOP
	view[0xFFFC] = 0x00
	view[0xFFFD] = 0x00

	c, err := cpu.NewCPU(mem, cpu.Width8)
	require.NoError(t, err)

	m := newModel(c, mem)
	require.False(t, m.haveTrace)

	_, cmd := m.Update(nil)
	require.Nil(t, cmd)
	require.False(t, m.haveTrace, "a non-key message must not step the cpu")
}

func TestModelViewDoesNotPanicBeforeAnyStep(t *testing.T) {
	mem, err := memory.New(1 << 16)
	require.NoError(t, err)
	c, err := cpu.NewCPU(mem, cpu.Width8)
	require.NoError(t, err)
	m := newModel(c, mem)
	require.NotPanics(t, func() { _ = m.View() })
}
