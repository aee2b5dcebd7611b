package source

import "testing"

func TestStringStoreInterns(t *testing.T) {
	s := NewStringStore()
	a := s.Intern("foo")
	b := s.Intern("bar")
	c := s.Intern("foo")
	if a != c {
		t.Fatalf("Intern(\"foo\") returned different ids: %d vs %d", a, c)
	}
	if a == b {
		t.Fatalf("Intern(\"foo\") and Intern(\"bar\") collided: %d", a)
	}
	if s.Get(a) != "foo" || s.Get(b) != "bar" {
		t.Fatalf("Get did not round-trip: %q %q", s.Get(a), s.Get(b))
	}
}

func TestTypeStoreBuiltins(t *testing.T) {
	types := NewTypeStore()
	if types.Get(TypeIdI32).Kind != TypeI32 {
		t.Fatalf("TypeIdI32 must be TypeI32")
	}
	if types.Len() != 4 {
		t.Fatalf("expected 4 builtins, got %d", types.Len())
	}
}

func TestTypeStoreInternsRefinedByStructure(t *testing.T) {
	types := NewTypeStore()
	a := types.InternRefined(TypeIdI32, 0, 100)
	b := types.InternRefined(TypeIdI32, 0, 100)
	c := types.InternRefined(TypeIdI32, 0, 101)
	if a != b {
		t.Fatalf("equal refinements must intern to the same TypeId: %d vs %d", a, b)
	}
	if a == c {
		t.Fatalf("different refinements must not collide: %d", a)
	}
}

func TestTypeStoreInternsListByStructure(t *testing.T) {
	types := NewTypeStore()
	a := types.InternList(TypeIdI32, 4)
	b := types.InternList(TypeIdI32, 4)
	c := types.InternList(TypeIdI32, 5)
	if a != b {
		t.Fatalf("equal list types must intern to the same TypeId: %d vs %d", a, b)
	}
	if a == c {
		t.Fatalf("different sizes must not collide: %d", a)
	}
}

func TestIsIntegerThroughRefinement(t *testing.T) {
	types := NewTypeStore()
	refined := types.InternRefined(TypeIdI32, 0, 10)
	if !types.IsInteger(refined) {
		t.Fatalf("a refinement of i32 must still be an integer type")
	}
	listOfI32 := types.InternList(TypeIdI32, 3)
	if types.IsInteger(listOfI32) {
		t.Fatalf("a list type must not be considered an integer type")
	}
}

func TestSymbolStoreFlattensRecord(t *testing.T) {
	strs := NewStringStore()
	types := NewTypeStore()
	symbols := NewSymbolStore()

	xName := strs.Intern("x")
	yName := strs.Intern("y")
	point := types.DeclareRecord(strs.Intern("Point"), []RecordField{
		{Name: xName, Type: TypeIdI32},
		{Name: yName, Type: TypeIdI64},
	})

	ids := symbols.Declare(types, point)
	if len(ids) != 2 {
		t.Fatalf("expected 2 flattened leaves, got %d", len(ids))
	}
	if symbols.Get(ids[0]).Type != TypeIdI32 || symbols.Get(ids[1]).Type != TypeIdI64 {
		t.Fatalf("flattened leaf types must match field declaration order")
	}
	if symbols.LocalCount() != 2 {
		t.Fatalf("LocalCount must equal the number of flattened leaves, got %d", symbols.LocalCount())
	}

	offset, width, fieldType, ok := FieldLayout(types, strs, point, yName)
	if !ok || offset != 1 || width != 1 || fieldType != TypeIdI64 {
		t.Fatalf("FieldLayout(y) = (%d, %d, %d, %v), want (1, 1, TypeIdI64, true)", offset, width, fieldType, ok)
	}
}

func TestSymbolStoreFlattensList(t *testing.T) {
	types := NewTypeStore()
	symbols := NewSymbolStore()

	listOfI32 := types.InternList(TypeIdI32, 3)
	ids := symbols.Declare(types, listOfI32)
	if len(ids) != 3 {
		t.Fatalf("expected 3 flattened leaves for [i32 size=3], got %d", len(ids))
	}

	offset, width, elemType, ok := IndexLayout(types, listOfI32, 1)
	if !ok || offset != 1 || width != 1 || elemType != TypeIdI32 {
		t.Fatalf("IndexLayout(1) = (%d, %d, %d, %v), want (1, 1, TypeIdI32, true)", offset, width, elemType, ok)
	}

	if _, _, _, ok := IndexLayout(types, listOfI32, 3); ok {
		t.Fatalf("IndexLayout(3) on a size=3 list must report out of range")
	}
}

func TestNodeStoreChildren(t *testing.T) {
	nodes := NewNodeStore()
	leaf1 := nodes.Add(ParseNode{Kind: NodeIntLiteral, SubtreeSize: 1})
	leaf2 := nodes.Add(ParseNode{Kind: NodeIntLiteral, SubtreeSize: 1})
	parent := nodes.Add(ParseNode{Kind: NodeBinaryExpr, SubtreeSize: 3, NumChildren: 2})

	children := nodes.Children(parent)
	if len(children) != 2 || children[0] != leaf1 || children[1] != leaf2 {
		t.Fatalf("Children(parent) = %v, want [%d %d]", children, leaf1, leaf2)
	}
	if nodes.Root() != parent {
		t.Fatalf("Root() must be the last-added node")
	}
}

func TestInstStoreRejectsForwardReference(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for a forward-referencing operand")
		}
	}()
	insts := NewInstStore()
	// Arg0 references InstId 0, which does not exist yet at the moment of
	// this first Add — this must panic rather than silently accept it.
	insts.Add(Inst{Kind: InstAdd, Arg0: 0, Arg1: InvalidID})
}
