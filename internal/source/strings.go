package source

import "github.com/tinywhale-lang/tinywhale/internal/invariant"

// StringStore interns every identifier and string-valued lexeme the lexer
// sees, so later phases compare StringIds instead of re-hashing text.
// Grounded on the teacher's core/types/registry.go Registry, which interns
// type names behind a map+slice pair under the same append-only discipline.
type StringStore struct {
	values []string
	index  map[string]StringId
}

// NewStringStore returns an empty store.
func NewStringStore() *StringStore {
	return &StringStore{index: make(map[string]StringId)}
}

// Intern returns the StringId for s, registering it on first sight.
// Interning law: equal s always yields the same StringId.
func (s *StringStore) Intern(str string) StringId {
	if id, ok := s.index[str]; ok {
		return id
	}
	id := StringId(len(s.values))
	s.values = append(s.values, str)
	s.index[str] = id
	return id
}

// Get returns the string for id.
func (s *StringStore) Get(id StringId) string {
	invariant.InRange(int(id), 0, len(s.values)-1, "StringId")
	return s.values[id]
}

// Len returns the number of distinct interned strings.
func (s *StringStore) Len() int { return len(s.values) }
