// Package watch implements the script/event dispatcher: it sits on top
// of a bus.Bus and turns CPU memory accesses into callback invocations
// for an external scripting runtime, splitting user-requested ranges
// along mapped-memory boundaries and deduplicating repeated
// invocations of the same reference within a single access.
package watch

import (
	"errors"
	"sync"

	"github.com/lavendersprite/snes816/bus"
)

// CallbackType is one of the three access classes a MemoryCallback can
// be registered against.
type CallbackType int

const (
	CallbackRead CallbackType = iota
	CallbackWrite
	CallbackExec
	numCallbackTypes
)

func (t CallbackType) String() string {
	switch t {
	case CallbackRead:
		return "read"
	case CallbackWrite:
		return "write"
	case CallbackExec:
		return "exec"
	default:
		return "invalid"
	}
}

// KindFor classifies a bus.AccessType into the CallbackType sequence it
// is offered to. Dummy accesses still reach the same observers a real
// access would (a watched address doesn't stop being watched because
// the read was for timing only).
func KindFor(tag bus.AccessType) CallbackType {
	switch tag {
	case bus.Write, bus.DummyWrite:
		return CallbackWrite
	case bus.ExecOpCode:
		return CallbackExec
	default:
		return CallbackRead
	}
}

// addressKind discriminates a MemoryCallback's match rule.
type addressKind int

const (
	kindDirect addressKind = iota
	kindMapped
)

// MemoryCallback is a single watch record. kindDirect records match
// logical CPU addresses; kindMapped records are the siblings produced
// by Register's range-splitting pass and match translated
// absolute-memory coordinates instead.
type MemoryCallback struct {
	Type           CallbackType
	CpuType        int
	Reference      int
	RequestedStart uint32
	RequestedEnd   uint32 // exclusive

	kind        addressKind
	MappedType  bus.MemoryType
	MappedStart int32
	MappedEnd   int32 // exclusive

	// MultiReference, if true, lets this callback fire on every access
	// even if its Reference already fired earlier in the same
	// dispatch. Independent of the directOnly registration flag; see
	// DESIGN.md.
	MultiReference bool
}

// Handler is the opaque script-runtime callback contract. For writes
// the handler may overwrite *value; the CPU then stores the modified
// value instead of the one it originally computed.
type Handler func(addr uint32, value *uint8, kind CallbackType, reference int)

// StateStore is the external save-state serializer collaborator. The
// dispatcher only sequences *when* saves/loads happen relative to
// instruction boundaries; it never encodes CPU state itself.
type StateStore interface {
	SaveState() ([]byte, error)
	LoadState(data []byte) error
}

// Resolver resolves a logical CPU address to its absolute-memory
// coordinates, mirroring bus.Bus.GetAbsoluteAddress.
type Resolver func(addr uint32) bus.AddressInfo

var (
	// ErrInvalidRegistration is named for documentation but never
	// returned: an unregister of an unknown callback is silently
	// ignored.
	ErrInvalidRegistration = errors.New("watch: invalid registration")
	// ErrSaveStateUnavailable is returned by RequestLoadState for an
	// unknown slot.
	ErrSaveStateUnavailable = errors.New("watch: save state unavailable")
)

const logCap = 500

// Dispatcher is the script/watch dispatcher. It owns no collaborator
// beyond the Resolver, Handler, Host, and StateStore it is constructed
// with.
type Dispatcher struct {
	// callbacks, watched, inExecOp, and the save-slot fields below are
	// touched only from the CPU's own goroutine. The log ring buffer
	// is the sole exception, shared with a UI goroutine, hence logMu.
	callbacks [numCallbackTypes][]MemoryCallback
	resolve   Resolver
	handler   Handler
	host      Host

	watched map[uint32]int // per-address refcount for the debugger watch facility

	inExecOp bool

	store       StateStore
	slots       map[int][]byte
	saveSlot    int
	loadSlot    int
	stateLoaded bool

	logMu sync.Mutex
	log   []string
}

// Host is the debugger collaborator: it tracks which addresses
// currently have at least one live watch.
type Host interface {
	WatchMemory(addr uint32)
	UnwatchMemory(addr uint32)
}

// New builds a Dispatcher. host and store may be nil (a host that
// doesn't care about memory-watch UI state, or doesn't support save
// slots, simply doesn't get those calls).
func New(resolve Resolver, handler Handler, host Host, store StateStore) *Dispatcher {
	return &Dispatcher{
		resolve:  resolve,
		handler:  handler,
		host:     host,
		watched:  make(map[uint32]int),
		store:    store,
		slots:    make(map[int][]byte),
		saveSlot: -1,
		loadSlot: -1,
	}
}

// Dispatch offers one bus access to the matching callback sequence and
// returns the (possibly handler-mutated) value. Called once per
// Read/Write from the bus layer; Idle accesses never reach here since
// they carry no address.
func (d *Dispatcher) Dispatch(addr uint32, value uint8, kind CallbackType) uint8 {
	list := d.callbacks[kind]
	if len(list) == 0 {
		return value
	}
	// Resolve once per access, before walking the list.
	info := d.resolve(addr)

	// Any Read/Write/Exec callback counts as "inside an exec op" for
	// save-state sequencing: every one of them runs at a CPU access
	// boundary, where an immediate save/load is atomic.
	d.inExecOp = true
	visited := make(map[int]bool)
	for i := range list {
		cb := &list[i]
		if !cb.matches(addr, info) {
			continue
		}
		if !cb.MultiReference {
			if visited[cb.Reference] {
				continue
			}
			visited[cb.Reference] = true
		}
		if d.handler != nil {
			// The handler may itself call back into Register,
			// RequestSaveState, etc. (a script reacting to its own
			// watch); those only ever run on this same CPU thread, so
			// no lock is held across this call.
			d.handler(addr, &value, kind, cb.Reference)
		}
	}
	d.inExecOp = false
	return value
}

// OnBusAccess adapts Dispatch to the bus package's onAccess callback
// shape, so a host wires a Dispatcher into a bus.Bus with
// bus.NewFlatBus(tick, dispatcher.OnBusAccess).
func (d *Dispatcher) OnBusAccess(addr uint32, value *uint8, tag bus.AccessType) {
	*value = d.Dispatch(addr, *value, KindFor(tag))
}

// matches reports whether this record fires for an access at addr: a
// direct match against the requested logical range, or - for mapped
// siblings - a match against the translated absolute-memory
// coordinates.
func (cb *MemoryCallback) matches(addr uint32, info bus.AddressInfo) bool {
	if addr >= cb.RequestedStart && addr < cb.RequestedEnd {
		return true
	}
	if cb.kind == kindMapped && info.Type == cb.MappedType &&
		info.Address >= cb.MappedStart && info.Address < cb.MappedEnd {
		return true
	}
	return false
}

// InExecOp reports whether the dispatcher is currently inside a
// callback invocation.
func (d *Dispatcher) InExecOp() bool {
	return d.inExecOp
}

// Register installs a watch over [start, end). A direct record always
// covers the requested logical range; unless directOnly is set, mapped
// sibling records are additionally installed, one per contiguous
// mapped region within the range. multiReference lets the installed
// callback(s) fire more than once per reference within a single
// access. start=end=0 expands to the full 24-bit space; end<start is a
// no-op.
func (d *Dispatcher) Register(kind CallbackType, start, end uint32, cpuType, reference int, directOnly, multiReference bool) {
	if end < start {
		return
	}
	if start == 0 && end == 0 {
		end = 0x1000000
	}

	direct := MemoryCallback{
		Type: kind, CpuType: cpuType, Reference: reference,
		RequestedStart: start, RequestedEnd: end,
		kind: kindDirect, MultiReference: multiReference,
	}
	d.callbacks[kind] = append(d.callbacks[kind], direct)
	d.watchRange(start, end)

	if directOnly {
		return
	}

	for _, seg := range splitMappedRanges(start, end, d.resolve) {
		cb := MemoryCallback{
			Type: kind, CpuType: cpuType, Reference: reference,
			RequestedStart: start, RequestedEnd: end,
			kind: kindMapped, MappedType: seg.Type,
			MappedStart: seg.Start, MappedEnd: seg.End,
			MultiReference: multiReference,
		}
		d.callbacks[kind] = append(d.callbacks[kind], cb)
		d.watchRange(uint32(seg.Start), uint32(seg.End))
	}
}

// Unregister removes the record(s) matching (type, cpuType, reference,
// requestedStart, requestedEnd). directOnly stops after the first
// match; otherwise every matching record (the direct registration and
// all of its mapped siblings, which share the same requested range and
// reference) is removed. Unknown registrations are silently ignored.
func (d *Dispatcher) Unregister(kind CallbackType, start, end uint32, cpuType, reference int, directOnly bool) {
	if end < start {
		return
	}
	if start == 0 && end == 0 {
		end = 0x1000000
	}

	list := d.callbacks[kind]
	for i := 0; i < len(list); i++ {
		cb := list[i]
		if cb.Reference != reference || cb.CpuType != cpuType ||
			cb.RequestedStart != start || cb.RequestedEnd != end {
			continue
		}
		d.unwatchCallback(cb)
		list = append(list[:i], list[i+1:]...)
		i--
		if directOnly {
			break
		}
	}
	d.callbacks[kind] = list
}

func (d *Dispatcher) watchRange(start, end uint32) {
	if d.host == nil {
		return
	}
	for addr := start; addr < end; addr++ {
		d.watched[addr]++
		if d.watched[addr] == 1 && d.host != nil {
			d.host.WatchMemory(addr)
		}
	}
}

func (d *Dispatcher) unwatchCallback(cb MemoryCallback) {
	if d.host == nil {
		return
	}
	var start, end uint32
	if cb.kind == kindDirect {
		start, end = cb.RequestedStart, cb.RequestedEnd
	} else {
		start, end = uint32(cb.MappedStart), uint32(cb.MappedEnd)
	}
	for addr := start; addr < end; addr++ {
		if d.watched[addr] == 0 {
			continue
		}
		d.watched[addr]--
		if d.watched[addr] == 0 {
			delete(d.watched, addr)
			if d.host != nil {
				d.host.UnwatchMemory(addr)
			}
		}
	}
}

type mappedRange struct {
	Type  bus.MemoryType
	Start int32
	End   int32 // exclusive
}

// splitMappedRanges walks [start, end) resolving every address and
// emits one mappedRange per maximal contiguous run of a single
// MemoryType, skipping runs that resolve to no absolute backing
// (Address < 0, i.e. open bus / a register with no memory behind it).
// The last run is closed when the loop exhausts its own bound, so the
// terminal segment is emitted regardless of what type it resolves to.
func splitMappedRanges(start, end uint32, resolve Resolver) []mappedRange {
	if end <= start || resolve == nil {
		return nil
	}
	var out []mappedRange
	cur := resolve(start)
	runStart := cur
	for addr := start + 1; addr < end; addr++ {
		info := resolve(addr)
		if info.Type != cur.Type {
			if runStart.Address >= 0 {
				out = append(out, mappedRange{Type: runStart.Type, Start: runStart.Address, End: cur.Address + 1})
			}
			runStart = info
		}
		cur = info
	}
	if runStart.Address >= 0 {
		out = append(out, mappedRange{Type: runStart.Type, Start: runStart.Address, End: cur.Address + 1})
	}
	return out
}

// RequestSaveState records slot as pending. If called from inside a
// Read/Write/Exec callback the save happens immediately; otherwise it
// is deferred to the next FrameBoundary call.
func (d *Dispatcher) RequestSaveState(slot int) {
	d.saveSlot = slot
	if d.inExecOp {
		d.runSaveState()
	}
}

// RequestLoadState records slot as pending and, outside an exec
// callback, defers the actual load to FrameBoundary. It reports
// ErrSaveStateUnavailable immediately for a slot with no saved data.
func (d *Dispatcher) RequestLoadState(slot int) (bool, error) {
	if _, ok := d.slots[slot]; !ok {
		return false, ErrSaveStateUnavailable
	}
	d.loadSlot = slot
	if d.inExecOp {
		return d.runLoadState()
	}
	return true, nil
}

// FrameBoundary performs any save/load slot requested outside of an
// exec callback. A host calls this once per frame.
func (d *Dispatcher) FrameBoundary() error {
	d.runSaveState()
	_, err := d.runLoadState()
	return err
}

func (d *Dispatcher) runSaveState() {
	if d.saveSlot < 0 || d.store == nil {
		return
	}
	data, err := d.store.SaveState()
	if err == nil {
		d.slots[d.saveSlot] = data
	}
	d.saveSlot = -1
}

func (d *Dispatcher) runLoadState() (bool, error) {
	if d.loadSlot < 0 {
		return false, nil
	}
	data, ok := d.slots[d.loadSlot]
	d.loadSlot = -1
	if !ok || d.store == nil {
		return false, nil
	}
	if err := d.store.LoadState(data); err != nil {
		return false, err
	}
	d.stateLoaded = true
	return true, nil
}

// StateLoaded reports and clears the one-shot flag raised on any
// successful load.
func (d *Dispatcher) StateLoaded() bool {
	v := d.stateLoaded
	d.stateLoaded = false
	return v
}

// Log appends a line to the 500-entry ring buffer, discarding the
// oldest lines past the cap. It is the one Dispatcher entry point safe
// to use concurrently with a UI goroutine reading LogSnapshot.
func (d *Dispatcher) Log(line string) {
	d.logMu.Lock()
	defer d.logMu.Unlock()
	d.log = append(d.log, line)
	if len(d.log) > logCap {
		d.log = d.log[len(d.log)-logCap:]
	}
}

// LogSnapshot returns a copy of the current log contents, safe to read
// from any goroutine.
func (d *Dispatcher) LogSnapshot() []string {
	d.logMu.Lock()
	defer d.logMu.Unlock()
	out := make([]string, len(d.log))
	copy(out, d.log)
	return out
}
