package main

import (
	"flag"
	"log"
	"os"

	"github.com/lavendersprite/snes816/bus"
	"github.com/lavendersprite/snes816/cpu"
)

var (
	loadAddr = flag.Int("load_addr", 0x8000, "24-bit address to load the image at")
	reset    = flag.Int("reset", -1, "PC value the RESET vector should point to, defaults to load_addr")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("usage: %s [-load_addr <addr>] [-reset <pc>] <image>", os.Args[0])
	}

	data, err := os.ReadFile(flag.Args()[0])
	if err != nil {
		log.Fatalf("can't read %s: %v", flag.Args()[0], err)
	}

	resetPC := *reset
	if resetPC < 0 {
		resetPC = *loadAddr
	}

	b := bus.NewFlatBus(nil, nil)
	b.PowerOn()
	b.Load(uint32(*loadAddr), data)
	b.Load(0xFFFC, []byte{uint8(resetPC), uint8(resetPC >> 8)})

	core := cpu.New(b)
	core.PowerOn()

	if err := Run(core, b); err != nil {
		log.Fatalf("debugger exited: %v", err)
	}
}
