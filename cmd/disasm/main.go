// Command disasm loads a raw binary into memory at a given offset and
// disassembles it, either as a byte range or an instruction count.
package main

import (
	"fmt"
	"log"
	"os"

	cli "gopkg.in/urfave/cli.v2"

	"github.com/jpactor/65xx-emu/addrmode"
	"github.com/jpactor/65xx-emu/disassemble"
	"github.com/jpactor/65xx-emu/memory"
)

func main() {
	app := &cli.App{
		Name:  "disasm",
		Usage: "disassemble a 65C02 binary image",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "offset", Value: 0x0800, Usage: "load offset into the address space"},
			&cli.IntFlag{Name: "start", Value: -1, Usage: "PC to start disassembling at (defaults to offset)"},
			&cli.IntFlag{Name: "count", Value: 0, Usage: "disassemble exactly N instructions instead of the whole load"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return cli.Exit("usage: disasm [options] <file>", 1)
	}
	fn := c.Args().Get(0)
	data, err := os.ReadFile(fn)
	if err != nil {
		return fmt.Errorf("reading %s: %w", fn, err)
	}

	offset := addrmode.Addr(c.Int("offset"))
	start := offset
	if s := c.Int("start"); s >= 0 {
		start = addrmode.Addr(s)
	}

	mem, err := memory.New(1 << 16)
	if err != nil {
		return fmt.Errorf("allocating memory: %w", err)
	}
	view := mem.ViewMut()
	for i, b := range data {
		view[int(offset)+i] = b
	}

	var lines []disassemble.Line
	if n := c.Int("count"); n > 0 {
		lines = disassemble.Count(start, n, mem)
	} else {
		lines, err = disassemble.Range(start, offset+addrmode.Addr(len(data)), mem)
		if err != nil {
			return err
		}
	}
	for _, l := range lines {
		fmt.Println(l.String())
	}
	return nil
}
