package invariant

import (
	"strings"
	"testing"
)

func expectPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic containing %q, got none", want)
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, want) {
			t.Fatalf("expected panic message to contain %q, got %v", want, r)
		}
	}()
	fn()
}

func TestPreconditionPassesSilently(t *testing.T) {
	Precondition(true, "should never fire")
}

func TestPreconditionPanicsOnFalse(t *testing.T) {
	expectPanic(t, "PRECONDITION VIOLATION", func() {
		Precondition(false, "value must be positive")
	})
}

func TestInvariantPanicsOnFalse(t *testing.T) {
	expectPanic(t, "INVARIANT VIOLATION", func() {
		Invariant(false, "node %d out of range", 3)
	})
}

func TestNotNilPanicsOnTypedNilPointer(t *testing.T) {
	var p *int
	expectPanic(t, "must not be nil", func() {
		NotNil(p, "p")
	})
}

func TestInRangePanicsOutsideBounds(t *testing.T) {
	expectPanic(t, "must be in range", func() {
		InRange(10, 0, 5, "index")
	})
}

func TestMonotoneIDPanicsWhenNotIncreasing(t *testing.T) {
	expectPanic(t, "must strictly increase", func() {
		MonotoneID(5, 5, "NodeId")
	})
}
