package source

import "github.com/tinywhale-lang/tinywhale/internal/invariant"

// FloatStore holds one entry per floating-point literal lexeme. Unlike
// StringStore it does not intern: two occurrences of the same literal text
// get distinct FloatIds, since each is a separate source-location fact the
// checker may need to re-diagnose independently (e.g. two out-of-range
// constants on different lines).
type FloatStore struct {
	values []float64
}

// NewFloatStore returns an empty store.
func NewFloatStore() *FloatStore {
	return &FloatStore{}
}

// Add appends v and returns its FloatId.
func (f *FloatStore) Add(v float64) FloatId {
	id := FloatId(len(f.values))
	f.values = append(f.values, v)
	return id
}

// Get returns the value for id.
func (f *FloatStore) Get(id FloatId) float64 {
	invariant.InRange(int(id), 0, len(f.values)-1, "FloatId")
	return f.values[id]
}

// Len returns the number of stored floats.
func (f *FloatStore) Len() int { return len(f.values) }
