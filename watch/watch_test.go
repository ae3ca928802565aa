package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lavendersprite/snes816/bus"
)

// bankedResolver mirrors a simple SNES-style split: 0x7E0000-0x7EFFFF
// is WRAM, everything from 0x7F0000 up is SaveRam.
func bankedResolver(addr uint32) bus.AddressInfo {
	if addr < 0x7F0000 {
		return bus.AddressInfo{Type: bus.MemoryTypeWorkRam, Address: int32(addr - 0x7E0000)}
	}
	return bus.AddressInfo{Type: bus.MemoryTypeSaveRam, Address: int32(addr - 0x7F0000)}
}

func TestRegisterSplitsAcrossMappedBoundary(t *testing.T) {
	// Range stays entirely within WRAM: exactly one mapped sibling.
	d := New(bankedResolver, nil, nil, nil)
	d.Register(CallbackRead, 0x7E0000, 0x7E0010, 0, 1, false, false)
	recs := d.callbacks[CallbackRead]
	require.Len(t, recs, 2, "one direct + one mapped record (single contiguous run)")
	assert.Equal(t, kindDirect, recs[0].kind)
	assert.Equal(t, kindMapped, recs[1].kind)

	// Range crosses the WRAM/SaveRam boundary: two mapped siblings,
	// disjoint by MappedType.
	d2 := New(bankedResolver, nil, nil, nil)
	d2.Register(CallbackRead, 0x7EFFFE, 0x7F0002, 0, 2, false, false)
	var mapped []MemoryCallback
	for _, cb := range d2.callbacks[CallbackRead] {
		if cb.kind == kindMapped {
			mapped = append(mapped, cb)
		}
	}
	require.Len(t, mapped, 2, "range crossing WRAM/SaveRam boundary produces two mapped records")
	assert.Equal(t, bus.MemoryTypeWorkRam, mapped[0].MappedType)
	assert.Equal(t, bus.MemoryTypeSaveRam, mapped[1].MappedType)
}

func TestCallbackDeduplication(t *testing.T) {
	var calls int
	d := New(bankedResolver, func(addr uint32, value *uint8, kind CallbackType, reference int) {
		calls++
	}, nil, nil)

	// Two callbacks sharing Reference=1, both matching the same
	// address, neither MultiReference.
	d.Register(CallbackRead, 0x7E0000, 0x7E0010, 0, 1, true, false)
	d.Register(CallbackRead, 0x7E0000, 0x7E0020, 0, 1, true, false)

	d.Dispatch(0x7E0005, 0x42, CallbackRead)
	assert.Equal(t, 1, calls, "deduplicated references must invoke the handler exactly once per access")
}

func TestMultiReferenceFiresEveryMatch(t *testing.T) {
	var calls int
	d := New(bankedResolver, func(addr uint32, value *uint8, kind CallbackType, reference int) {
		calls++
	}, nil, nil)

	d.Register(CallbackRead, 0x7E0000, 0x7E0010, 0, 1, true, true)
	d.Register(CallbackRead, 0x7E0000, 0x7E0020, 0, 1, true, true)

	d.Dispatch(0x7E0005, 0x42, CallbackRead)
	assert.Equal(t, 2, calls, "MultiReference callbacks are not deduplicated")
}

func TestRegistrationNoOpWhenEndBeforeStart(t *testing.T) {
	d := New(bankedResolver, nil, nil, nil)
	d.Register(CallbackRead, 10, 5, 0, 1, true, false)
	assert.Empty(t, d.callbacks[CallbackRead])
}

func TestRegistrationZeroZeroExpandsToFullSpace(t *testing.T) {
	d := New(bankedResolver, nil, nil, nil)
	d.Register(CallbackRead, 0, 0, 0, 1, true, false)
	require.Len(t, d.callbacks[CallbackRead], 1)
	assert.Equal(t, uint32(0), d.callbacks[CallbackRead][0].RequestedStart)
	assert.Equal(t, uint32(0x1000000), d.callbacks[CallbackRead][0].RequestedEnd)
}

func TestUnregisterDirectOnlyStopsAtFirstMatch(t *testing.T) {
	d := New(bankedResolver, nil, nil, nil)
	d.Register(CallbackRead, 0x100, 0x110, 0, 7, true, false)
	d.Register(CallbackRead, 0x100, 0x110, 0, 7, true, false)
	require.Len(t, d.callbacks[CallbackRead], 2)

	d.Unregister(CallbackRead, 0x100, 0x110, 0, 7, true)
	assert.Len(t, d.callbacks[CallbackRead], 1, "directOnly unregister removes only the first match")
}

func TestUnregisterNonDirectRemovesAllMatches(t *testing.T) {
	d := New(bankedResolver, nil, nil, nil)
	d.Register(CallbackRead, 0x7E0000, 0x7E0010, 0, 7, false, false)
	before := len(d.callbacks[CallbackRead])
	require.Greater(t, before, 1, "non-direct registration must have produced mapped siblings")

	d.Unregister(CallbackRead, 0x7E0000, 0x7E0010, 0, 7, false)
	assert.Empty(t, d.callbacks[CallbackRead], "non-directOnly unregister removes the direct record and every mapped sibling")
}

func TestUnregisterUnknownIsSilentlyIgnored(t *testing.T) {
	d := New(bankedResolver, nil, nil, nil)
	d.Unregister(CallbackRead, 0, 10, 0, 99, true)
	assert.Empty(t, d.callbacks[CallbackRead])
}

type fakeHost struct {
	watched map[uint32]int
}

func newFakeHost() *fakeHost { return &fakeHost{watched: make(map[uint32]int)} }

func (h *fakeHost) WatchMemory(addr uint32)   { h.watched[addr]++ }
func (h *fakeHost) UnwatchMemory(addr uint32) { h.watched[addr]-- }

func TestWatchRefcountReleasedOnUnregister(t *testing.T) {
	host := newFakeHost()
	d := New(bankedResolver, nil, host, nil)
	d.Register(CallbackRead, 0x10, 0x14, 0, 1, true, false)
	assert.Equal(t, 1, host.watched[0x10])

	d.Unregister(CallbackRead, 0x10, 0x14, 0, 1, true)
	assert.Equal(t, 0, host.watched[0x10])
}

type fakeStore struct {
	saveCount int
	data      []byte
	loadErr   error
}

func (s *fakeStore) SaveState() ([]byte, error) {
	s.saveCount++
	return []byte{byte(s.saveCount)}, nil
}

func (s *fakeStore) LoadState(data []byte) error {
	s.data = data
	return s.loadErr
}

func TestSaveStateDeferredOutsideExecOp(t *testing.T) {
	store := &fakeStore{}
	d := New(bankedResolver, nil, nil, store)

	d.RequestSaveState(1)
	assert.Equal(t, 0, store.saveCount, "save outside an exec callback is deferred to FrameBoundary")

	require.NoError(t, d.FrameBoundary())
	assert.Equal(t, 1, store.saveCount)
}

func TestSaveStateImmediateInsideExecOp(t *testing.T) {
	store := &fakeStore{}
	var d *Dispatcher
	d = New(bankedResolver, func(addr uint32, value *uint8, kind CallbackType, reference int) {
		d.RequestSaveState(2)
	}, nil, store)
	d.Register(CallbackExec, 0, 0, 0, 1, true, false)

	d.Dispatch(0x8000, 0, CallbackExec)
	assert.Equal(t, 1, store.saveCount, "a save requested from inside a callback fires immediately")
}

func TestLoadStateUnknownSlotReturnsError(t *testing.T) {
	d := New(bankedResolver, nil, nil, &fakeStore{})
	_, err := d.RequestLoadState(42)
	assert.ErrorIs(t, err, ErrSaveStateUnavailable)
}

func TestLoadStateRoundTripAndStateLoadedFlag(t *testing.T) {
	store := &fakeStore{}
	d := New(bankedResolver, nil, nil, store)

	d.RequestSaveState(3)
	require.NoError(t, d.FrameBoundary())

	ok, err := d.RequestLoadState(3)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, d.FrameBoundary())

	assert.True(t, d.StateLoaded(), "a successful load raises the one-shot stateLoaded flag")
	assert.False(t, d.StateLoaded(), "the flag clears itself on read")
}

func TestLogRingBufferCapsAt500(t *testing.T) {
	d := New(bankedResolver, nil, nil, nil)
	for i := 0; i < 600; i++ {
		d.Log("line")
	}
	assert.Len(t, d.LogSnapshot(), logCap)
}

func TestOnBusAccessRoutesThroughDispatch(t *testing.T) {
	var gotAddr uint32
	var gotKind CallbackType
	d := New(bankedResolver, func(addr uint32, value *uint8, kind CallbackType, reference int) {
		gotAddr, gotKind = addr, kind
		*value = 0xAA
	}, nil, nil)
	d.Register(CallbackWrite, 0x7E0000, 0x7E0001, 0, 1, true, false)

	v := uint8(0x11)
	d.OnBusAccess(0x7E0000, &v, bus.Write)
	assert.Equal(t, uint32(0x7E0000), gotAddr)
	assert.Equal(t, CallbackWrite, gotKind)
	assert.Equal(t, uint8(0xAA), v, "write handler mutation must reach the caller's value")
}
