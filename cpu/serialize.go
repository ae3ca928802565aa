package cpu

import (
	"encoding/binary"
	"io"

	"github.com/lavendersprite/snes816/irq"
)

// Serialize writes the full architectural register file to w in
// declaration order, each field as a fixed-width little-endian value.
// The blob is opaque to every other collaborator: only round-tripping
// through this writer/reader pair is guaranteed, not cross-version
// compatibility.
func (c *CPU) Serialize(w io.Writer) error {
	return c.state.serialize(w)
}

// Deserialize restores the architectural register file from r, which
// must have been produced by Serialize.
func (c *CPU) Deserialize(r io.Reader) error {
	var s State
	if err := s.deserialize(r); err != nil {
		return err
	}
	c.state = s
	return nil
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func (s *State) serialize(w io.Writer) error {
	fields := []any{
		s.A, s.X, s.Y, s.SP, s.D, s.PC,
		s.K, s.DBR, s.PS,
		boolByte(s.EmulationMode),
		s.CycleCount,
		uint8(s.StopState),
		boolByte(s.NmiFlag), boolByte(s.PrevNmiFlag), boolByte(s.NeedNmi),
		uint8(s.IrqSource), uint8(s.IrqLock),
		boolByte(s.PrevNeedIrq), boolByte(s.NeedIrq),
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	return nil
}

func (s *State) deserialize(r io.Reader) error {
	read := func(v any) error { return binary.Read(r, binary.LittleEndian, v) }

	var emu, nmi, prevNmi, needNmi, prevIrq, needIrq, stop uint8
	var irqSrc, irqLock uint8

	for _, step := range []func() error{
		func() error { return read(&s.A) },
		func() error { return read(&s.X) },
		func() error { return read(&s.Y) },
		func() error { return read(&s.SP) },
		func() error { return read(&s.D) },
		func() error { return read(&s.PC) },
		func() error { return read(&s.K) },
		func() error { return read(&s.DBR) },
		func() error { return read(&s.PS) },
		func() error { return read(&emu) },
		func() error { return read(&s.CycleCount) },
		func() error { return read(&stop) },
		func() error { return read(&nmi) },
		func() error { return read(&prevNmi) },
		func() error { return read(&needNmi) },
		func() error { return read(&irqSrc) },
		func() error { return read(&irqLock) },
		func() error { return read(&prevIrq) },
		func() error { return read(&needIrq) },
	} {
		if err := step(); err != nil {
			return err
		}
	}

	s.EmulationMode = emu != 0
	s.StopState = StopState(stop)
	s.NmiFlag = nmi != 0
	s.PrevNmiFlag = prevNmi != 0
	s.NeedNmi = needNmi != 0
	s.IrqSource = irq.Set(irqSrc)
	s.IrqLock = irq.Set(irqLock)
	s.PrevNeedIrq = prevIrq != 0
	s.NeedIrq = needIrq != 0
	return nil
}
