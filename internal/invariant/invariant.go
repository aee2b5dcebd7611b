// Package invariant provides contract assertions for the TinyWhale compiler.
//
// The arena stores in internal/source carry a number of structural invariants
// (postorder contiguity, forward-only SSA references, interning uniqueness,
// balanced INDENT/DEDENT nesting). Violating one of these is always a compiler
// bug, never a user input error, so these assertions panic rather than
// returning an error: Tiger Style treats them as a force multiplier for
// catching bugs close to where they are introduced.
package invariant

import (
	"fmt"
	"reflect"
	"runtime"
)

// Precondition checks an input contract at function entry.
func Precondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before function return.
func Postcondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks an internal consistency property.
//
// Example:
//
//	invariant.Invariant(i-node.SubtreeSize+1 >= 0, "subtree of node %d must not underflow store", i)
func Invariant(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// NotNil panics if value is nil, including a typed nil pointer/interface.
func NotNil(value interface{}, name string) {
	if value == nil || isNilValue(value) {
		fail("PRECONDITION", "%s must not be nil", name)
	}
}

func isNilValue(value interface{}) bool {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// InRange panics if value is outside [min, max].
func InRange(value, minVal, maxVal int, name string) {
	if value < minVal || value > maxVal {
		fail("PRECONDITION", "%s must be in range [%d, %d], got %d", name, minVal, maxVal, value)
	}
}

// MonotoneID panics if next is not strictly greater than prev, for store ids
// that must only ever grow (TokenId, NodeId, InstId, ...).
func MonotoneID(prev, next int, name string) {
	if next <= prev {
		fail("INVARIANT", "%s must strictly increase, got prev=%d next=%d", name, prev, next)
	}
}

// fail panics with a formatted message including the call site.
func fail(kind, format string, args ...interface{}) {
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]interface{}{kind}, args...)...)
	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}
	panic(msg)
}
