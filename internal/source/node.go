package source

import "github.com/tinywhale-lang/tinywhale/internal/invariant"

// NodeKind classifies one parse-tree node. The grammar is small and flat: a
// program is a sequence of type declarations and statements, compiled into
// one implicit top-level body — tinywhale has no user-defined functions.
type NodeKind int

const (
	NodeInvalid NodeKind = iota

	NodeProgram

	// Declarations and statements.
	NodeTypeDecl    // `type Name` followed by an indented NodeFieldDecl list
	NodeFieldDecl   // one `name: <typeExpr>` inside a record type's field list
	NodeBindingStmt // `name: <typeExpr> = <initializer>`
	NodePanicStmt   // bare `panic` keyword

	// Type expressions.
	NodeTypeRefName    // bare name reference, e.g. `i32`, `Point`
	NodeTypeRefRefined // `i32<min=0, max=100>`
	NodeTypeRefList    // `i32[]<size=4>`

	// Expressions.
	NodeIdentifier
	NodeIntLiteral
	NodeFloatLiteral
	NodeUnaryExpr
	NodeBinaryExpr
	NodeFieldAccessExpr
	NodeIndexExpr
	NodeListLiteral
	NodeRecordInitExpr  // indented `name: value` field block, as a binding's initializer or a nested field value
	NodeRecordInitField // one `name: <expr>` inside a record init

	// Comparison chains: `a < b < c` parses as one NodeCompareChain whose
	// children alternate operand, NodeCompareOp, operand, NodeCompareOp, ...
	// (2*N+1 children for N pairwise comparisons), so the checker can see
	// every shared operand and every operator directly instead of losing
	// the middle operand to a left-nested binary tree.
	NodeCompareChain
	NodeCompareOp

	// Match.
	NodeMatchExpr
	NodeMatchArm
	NodePatternLiteral
	NodePatternWildcard
	NodePatternBinding
	NodePatternOr
)

var nodeKindNames = map[NodeKind]string{
	NodeInvalid: "invalid", NodeProgram: "Program",
	NodeTypeDecl: "TypeDecl", NodeFieldDecl: "FieldDecl",
	NodeBindingStmt: "BindingStmt", NodePanicStmt: "PanicStmt",
	NodeTypeRefName: "TypeRefName", NodeTypeRefRefined: "TypeRefRefined",
	NodeTypeRefList: "TypeRefList",
	NodeIdentifier:  "Identifier", NodeIntLiteral: "IntLiteral", NodeFloatLiteral: "FloatLiteral",
	NodeUnaryExpr: "UnaryExpr", NodeBinaryExpr: "BinaryExpr",
	NodeFieldAccessExpr: "FieldAccessExpr", NodeIndexExpr: "IndexExpr",
	NodeListLiteral: "ListLiteral", NodeRecordInitExpr: "RecordInitExpr", NodeRecordInitField: "RecordInitField",
	NodeCompareChain: "CompareChain", NodeCompareOp: "CompareOp",
	NodeMatchExpr: "MatchExpr", NodeMatchArm: "MatchArm",
	NodePatternLiteral: "PatternLiteral", NodePatternWildcard: "PatternWildcard",
	NodePatternBinding: "PatternBinding", NodePatternOr: "PatternOr",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseNode is one entry in the postorder parse tree. Operator/keyword text
// that distinguishes otherwise-identical node kinds (which binary operator,
// which literal's token) is captured via Token/Str/Int rather than a new
// NodeKind per operator, so the tree stays small and uniform.
type ParseNode struct {
	Kind NodeKind

	// Token is the node's defining token (operator, identifier, literal),
	// when one exists; InvalidID otherwise.
	Token TokenId

	// SubtreeSize is the number of nodes in this node's subtree, itself
	// included. Children of a node at store index i occupy the contiguous
	// range [i-SubtreeSize+1, i-1], stored in left-to-right postorder.
	SubtreeSize int

	// NumChildren is the count of this node's direct children, so a walker
	// can partition the SubtreeSize-1 descendant slots without re-deriving
	// arity from NodeKind.
	NumChildren int

	// IntA/IntB and HasA/HasB carry small literal payloads that don't
	// warrant their own child node: a refined type's min/max bounds
	// (NodeTypeRefRefined) and a list type's declared size (NodeTypeRefList,
	// IntA only). These are always literal integers by grammar construction,
	// never sub-expressions, so storing them inline keeps the tree shallow.
	IntA, IntB int64
	HasA, HasB bool
}

// NodeStore is the append-only postorder parse tree: every node's children
// are stored immediately before it, and the tree's root is always the last
// element. This mirrors the teacher's runtime/parser/tree.go Event-based
// postorder encoding, adapted from an event stream to a direct node array
// since TinyWhale's grammar has no "open but never closed" events to track.
type NodeStore struct {
	nodes []ParseNode
}

// NewNodeStore returns an empty store.
func NewNodeStore() *NodeStore {
	return &NodeStore{}
}

// Add appends n and returns its NodeId. Callers must have already appended
// all of n's children, with NumChildren/SubtreeSize reflecting the slice of
// store entries immediately preceding this call.
func (s *NodeStore) Add(n ParseNode) NodeId {
	invariant.Invariant(n.SubtreeSize >= 1, "node subtree size must be at least 1 (the node itself)")
	idx := len(s.nodes)
	invariant.Invariant(idx-n.SubtreeSize+1 >= 0, "node subtree must not underflow the store")
	id := NodeId(idx)
	s.nodes = append(s.nodes, n)
	return id
}

// Overwrite replaces the node at id in place. Only the parser uses this, to
// attach a literal payload (IntA/IntB) computed just after a node's
// structural Add, before any other node has been appended — every other
// phase treats NodeStore as read-only.
func (s *NodeStore) Overwrite(id NodeId, n ParseNode) {
	invariant.InRange(int(id), 0, len(s.nodes)-1, "NodeId")
	s.nodes[id] = n
}

// Get returns the node for id.
func (s *NodeStore) Get(id NodeId) ParseNode {
	invariant.InRange(int(id), 0, len(s.nodes)-1, "NodeId")
	return s.nodes[id]
}

// Len returns the number of nodes in the store.
func (s *NodeStore) Len() int { return len(s.nodes) }

// Root returns the id of the tree's root, which is always the final entry.
func (s *NodeStore) Root() NodeId {
	invariant.Precondition(len(s.nodes) > 0, "NodeStore.Root called on empty store")
	return NodeId(len(s.nodes) - 1)
}

// Children returns the ids of id's direct children, left to right.
func (s *NodeStore) Children(id NodeId) []NodeId {
	n := s.Get(id)
	if n.NumChildren == 0 {
		return nil
	}
	children := make([]NodeId, n.NumChildren)
	// Walk backwards from id-1, subtracting each child's own subtree size
	// to land on the next sibling to its left.
	cursor := int(id) - 1
	for i := n.NumChildren - 1; i >= 0; i-- {
		child := s.Get(NodeId(cursor))
		children[i] = NodeId(cursor)
		cursor -= child.SubtreeSize
	}
	invariant.Invariant(cursor == int(id)-n.SubtreeSize, "child walk must consume exactly the subtree")
	return children
}
