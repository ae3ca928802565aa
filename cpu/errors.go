package cpu

import "fmt"

// StateError represents an internal precondition violated inside the
// core - not an architectural event (those are modeled as interrupts
// and handled in normal execution), but a programming error such as
// SetState being handed a StopState outside its valid range. The CPU
// cannot fail on well-formed 65C816 machine code; this type exists
// only for that narrow class of impossible conditions.
type StateError struct {
	Reason string
}

func (e StateError) Error() string {
	return fmt.Sprintf("invalid cpu state: %s", e.Reason)
}
