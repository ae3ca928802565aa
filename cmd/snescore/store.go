package main

import (
	"bytes"
	"io"
)

// cpuStore is the minimal interface cpu.CPU satisfies (Serialize,
// Deserialize) and the only shape coreStore needs from it, so this
// file doesn't have to import package cpu just for the *CPU type name.
type cpuStore interface {
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
}

// coreStore adapts a CPU's Serialize/Deserialize pair to
// watch.StateStore; the dispatcher only sequences when a save or load
// happens relative to instruction boundaries, the blob encoding is the
// CPU's own.
type coreStore struct {
	cpu cpuStore
}

func (s *coreStore) SaveState() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.cpu.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *coreStore) LoadState(data []byte) error {
	return s.cpu.Deserialize(bytes.NewReader(data))
}
