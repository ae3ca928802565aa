// snescore loads a flat binary image onto a bus.FlatBus and either
// runs the interpreter to completion/a breakpoint, or disassembles it.
// Everything architecturally interesting lives in packages cpu, bus,
// and watch; this command only wires them together.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v2"

	"github.com/lavendersprite/snes816/bus"
	"github.com/lavendersprite/snes816/cpu"
	"github.com/lavendersprite/snes816/disasm"
	"github.com/lavendersprite/snes816/watch"
)

func main() {
	app := &cli.App{
		Name:    "snescore",
		Usage:   "run or disassemble a 65C816 program against a flat memory image",
		Version: "v0.0.1",
		Commands: []*cli.Command{
			runCommand(),
			disasmCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func imageFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "rom",
			Aliases: []string{"r"},
			Usage:   "flat binary image to load",
		},
		&cli.IntFlag{
			Name:  "load-addr",
			Usage: "24-bit address to load the image at",
			Value: 0x8000,
		},
		&cli.IntFlag{
			Name:  "reset",
			Usage: "PC value the RESET vector should point to (defaults to load-addr)",
			Value: -1,
		},
	}
	sort.Sort(cli.FlagsByName(flags))
	return flags
}

// loadImage reads the -rom file and resolves its load address and
// reset-vector target, without constructing a bus - each command
// builds its own FlatBus so it can wire an onAccess callback (or not)
// at construction time, rather than patching one on afterward.
func loadImage(c *cli.Context) (data []byte, loadAddr, resetPC uint32, err error) {
	if c.String("rom") == "" {
		cli.ShowAppHelp(c)
		return nil, 0, 0, cli.Exit("a -rom is required", 86)
	}

	data, err = os.ReadFile(c.String("rom"))
	if err != nil {
		return nil, 0, 0, errors.Wrapf(err, "reading rom %s", c.String("rom"))
	}

	loadAddr = uint32(c.Int("load-addr"))
	reset := c.Int("reset")
	if reset < 0 {
		resetPC = loadAddr
	} else {
		resetPC = uint32(reset)
	}
	return data, loadAddr, resetPC, nil
}

func newImageBus(data []byte, loadAddr, resetPC uint32, onAccess func(addr uint32, value *uint8, tag bus.AccessType)) *bus.FlatBus {
	b := bus.NewFlatBus(nil, onAccess)
	b.PowerOn()
	b.Load(loadAddr, data)
	b.Load(0xFFFC, []byte{uint8(resetPC), uint8(resetPC >> 8)})
	return b
}

func runCommand() *cli.Command {
	flags := append(imageFlags(),
		&cli.IntFlag{
			Name:  "steps",
			Usage: "number of instructions to execute, 0 runs until STP",
			Value: 0,
		},
		&cli.IntFlag{
			Name:  "break-at",
			Usage: "24-bit PC value to stop at (run-to-breakpoint); -1 disables",
			Value: -1,
		},
		&cli.StringFlag{
			Name:  "watch-config",
			Usage: "optional yaml file describing watch registrations",
		},
		&cli.BoolFlag{
			Name:  "log",
			Usage: "print the watch dispatcher's log buffer on exit",
		},
	)

	return &cli.Command{
		Name:  "run",
		Usage: "execute the image for a step count or until it halts",
		Flags: flags,
		Action: func(c *cli.Context) error {
			data, loadAddr, resetPC, err := loadImage(c)
			if err != nil {
				return err
			}

			var core *cpu.CPU
			var dispatcher *watch.Dispatcher
			b := newImageBus(data, loadAddr, resetPC, func(addr uint32, value *uint8, tag bus.AccessType) {
				if dispatcher != nil {
					dispatcher.OnBusAccess(addr, value, tag)
				}
			})

			core = cpu.New(b)
			dispatcher = watch.New(b.GetAbsoluteAddress, nil, nil, &coreStore{cpu: core})

			if path := c.String("watch-config"); path != "" {
				cfg, err := loadWatchConfig(path)
				if err != nil {
					return err
				}
				if err := cfg.apply(dispatcher); err != nil {
					return err
				}
			}

			core.PowerOn()

			steps := c.Int("steps")
			breakAt := c.Int("break-at")
			for i := 0; steps == 0 || i < steps; i++ {
				if s := core.State(); breakAt >= 0 && int(uint32(s.K)<<16|uint32(s.PC)) == breakAt {
					break
				}
				if err := core.Step(); err != nil {
					return errors.Wrap(err, "core step")
				}
				if err := dispatcher.FrameBoundary(); err != nil {
					return errors.Wrap(err, "frame boundary")
				}
				if core.State().StopState == cpu.Stopped {
					break
				}
			}

			fmt.Println(spew.Sdump(core.State()))
			if c.Bool("log") {
				for _, line := range dispatcher.LogSnapshot() {
					fmt.Println(line)
				}
			}
			return nil
		},
	}
}

func disasmCommand() *cli.Command {
	flags := append(imageFlags(),
		&cli.IntFlag{
			Name:  "count",
			Usage: "number of instructions to disassemble",
			Value: 32,
		},
	)

	return &cli.Command{
		Name:  "disasm",
		Usage: "disassemble the image starting at its reset vector",
		Flags: flags,
		Action: func(c *cli.Context) error {
			data, loadAddr, resetPC, err := loadImage(c)
			if err != nil {
				return err
			}
			b := newImageBus(data, loadAddr, resetPC, nil)

			addr := resetPC
			flags := disasm.Flags{Emulation: true}
			for i := 0; i < c.Int("count"); i++ {
				text, n := disasm.Step(addr, b, flags)
				fmt.Printf("%06X  %s\n", addr, text)
				addr += uint32(n)
			}
			return nil
		},
	}
}
