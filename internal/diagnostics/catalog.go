package diagnostics

// Entry is one catalog record: a message template with {name}-style
// placeholders, a longer description, and a default suggestion (may be
// overridden per-emission, e.g. for fuzzy "did you mean" text).
type Entry struct {
	Code            Code
	Severity        Severity
	MessageTemplate string
	Description     string
	Suggestion      string
}

// Catalog is the full coded diagnostic table, indexed by code.
var Catalog = map[Code]Entry{
	// ---- Preprocessor / lexer -------------------------------------------------
	"TWLEX001": {
		Code: "TWLEX001", Severity: Error,
		MessageTemplate: "mixed indentation: expected {expected}, found {found}",
		Description:     "A line mixes tabs and spaces relative to the file's established indent character.",
		Suggestion:      "Use only the indentation character established for this file.",
	},
	"TWLEX002": {
		Code: "TWLEX002", Severity: Error,
		MessageTemplate: "indentation of {found} characters is not a multiple of the unit ({unit})",
		Description:     "The indent unit is fixed by the first indented line; later lines must be whole multiples of it.",
		Suggestion:      "Indent by a whole number of the file's indent unit.",
	},
	"TWLEX003": {
		Code: "TWLEX003", Severity: Error,
		MessageTemplate: "dedent to level {level} does not match any enclosing indentation level (valid levels: {levels})",
		Description:     "A dedent must land exactly on a level that is currently open on the indent stack.",
		Suggestion:      "Align this line with one of the enclosing blocks.",
	},
	"TWLEX004": {
		Code: "TWLEX004", Severity: Error,
		MessageTemplate: "indentation increases by more than one level (from {from} to {to})",
		Description:     "Each indent step may only open exactly one new level.",
		Suggestion:      "Indent by exactly one more level than the previous line.",
	},
	"TWLEX005": {
		Code: "TWLEX005", Severity: Error,
		MessageTemplate: "file uses {found} indentation, but {expected} was established on line {establishedLine}",
		Description:     "Once the file's indentation character is fixed (by detection or by a directive), every line must use it.",
		Suggestion:      "Use the same indentation character throughout the file.",
	},
	"TWLEX006": {
		Code: "TWLEX006", Severity: Error,
		MessageTemplate: "unrecognized character {char}",
		Description:     "The lexer does not know this character and has skipped it.",
	},

	// ---- Parser ----------------------------------------------------------------
	"TWPARSE001": {
		Code: "TWPARSE001", Severity: Error,
		MessageTemplate: "syntax error: {detail}",
		Description:     "The parser could not build a valid parse tree from the token stream.",
	},

	// ---- Checker -----------------------------------------------------------------
	"TWCHECK010": {
		Code: "TWCHECK010", Severity: Error,
		MessageTemplate: "unknown type {name}",
		Description:     "The named type is not declared anywhere in the file. Type names resolve across the whole file, so a type declared after its first use is accepted.",
	},
	"TWCHECK012": {
		Code: "TWCHECK012", Severity: Error,
		MessageTemplate: "unsupported construct: {detail}",
		Description:     "The construct parses but has no defined checker semantics (e.g. nested list literals).",
	},
	"TWCHECK013": {
		Code: "TWCHECK013", Severity: Error,
		MessageTemplate: "undefined symbol {name}",
		Description:     "The name is used before it was bound, or a match binding pattern was used (bindings are not introduced into scope yet).",
	},
	"TWCHECK014": {
		Code: "TWCHECK014", Severity: Error,
		MessageTemplate: "integer literal {value} is out of range for i32",
		Description:     "i32 values must fit in [-2147483648, 2147483647].",
	},
	"TWCHECK015": {
		Code: "TWCHECK015", Severity: Error,
		MessageTemplate: "unary minus may only be applied to a literal",
		Description:     "The checker only constant-folds negation of literal operands.",
	},
	"TWCHECK017": {
		Code: "TWCHECK017", Severity: Error,
		MessageTemplate: "integer literal {value} is out of range for i64",
		Description:     "i64 values must fit in [-9223372036854775808, 9223372036854775807].",
	},
	"TWCHECK018": {
		Code: "TWCHECK018", Severity: Error,
		MessageTemplate: "match pattern requires an integer scrutinee, found {found}",
		Description:     "Literal integer patterns can only match against integer-typed scrutinees.",
	},
	"TWCHECK020": {
		Code: "TWCHECK020", Severity: Error,
		MessageTemplate: "match is not exhaustive: the last arm must be a catch-all",
		Description:     "Every match must end with a wildcard or binding arm. Or-patterns hold only integer literals, so they never count as a catch-all.",
		Suggestion:      "Add a final `_ -> ...` arm.",
	},
	"TWCHECK021": {
		Code: "TWCHECK021", Severity: Error,
		MessageTemplate: "operator {op} requires integer operands, found {found}",
		Description:     "Bitwise and shift operators, % and %%, are defined only for integer types.",
	},
	"TWCHECK022": {
		Code: "TWCHECK022", Severity: Error,
		MessageTemplate: "operand type mismatch: {left} vs {right}",
		Description:     "Both operands of a binary operator must have the same type.",
	},
	"TWCHECK023": {
		Code: "TWCHECK023", Severity: Error,
		MessageTemplate: "ambiguous chained != comparison",
		Description:     "a != b != c is ambiguous between (a!=b)&&(b!=c) and distinctness of all three; it is rejected.",
	},
	"TWCHECK024": {
		Code: "TWCHECK024", Severity: Error,
		MessageTemplate: "logical operator {op} requires integer operands, found {found}",
		Description:     "&& and || operate on integer (boolean-valued) operands only.",
	},
	"TWCHECK025": {
		Code: "TWCHECK025", Severity: Error,
		MessageTemplate: "division by literal zero",
		Description:     "A divisor that is a literal zero is always a mistake and is rejected at check time.",
	},
	"TWCHECK026": {
		Code: "TWCHECK026", Severity: Error,
		MessageTemplate: "duplicate field {name} in type declaration",
		Description:     "Each field name in a record type must be unique.",
	},
	"TWCHECK027": {
		Code: "TWCHECK027", Severity: Error,
		MessageTemplate: "missing field {name} in initializer for {typeName}",
		Description:     "Every declared field of a record type must be initialized exactly once.",
	},
	"TWCHECK028": {
		Code: "TWCHECK028", Severity: Error,
		MessageTemplate: "unknown field {name} in initializer for {typeName}",
		Description:     "The initializer names a field the record type does not declare.",
	},
	"TWCHECK029": {
		Code: "TWCHECK029", Severity: Error,
		MessageTemplate: "duplicate initializer for field {name}",
		Description:     "Each field may be initialized at most once.",
	},
	"TWCHECK030": {
		Code: "TWCHECK030", Severity: Error,
		MessageTemplate: "type {typeName} has no field {name}",
		Description:     "Field access names a field that does not exist on the record type.",
	},
	"TWCHECK031": {
		Code: "TWCHECK031", Severity: Error,
		MessageTemplate: "cannot access {kind} on a value of type {typeName}",
		Description:     "Field access requires a record type; index access requires a list type; chained/nested aggregate access is unsupported.",
	},
	"TWCHECK032": {
		Code: "TWCHECK032", Severity: Error,
		MessageTemplate: "recursive type {name}: {cycle}",
		Description:     "A record type may not contain itself, directly or transitively through other records or list element types.",
	},
	"TWCHECK033": {
		Code: "TWCHECK033", Severity: Error,
		MessageTemplate: "nested initializer for field {name} must initialize {expected}, found {found}",
		Description:     "A nested record initializer's declared type must match the field's declared record type.",
	},
	"TWCHECK034": {
		Code: "TWCHECK034", Severity: Error,
		MessageTemplate: "list index {index} is out of range for size {size}",
		Description:     "Constant list indices must satisfy 0 <= index < size.",
	},
	"TWCHECK035": {
		Code: "TWCHECK035", Severity: Error,
		MessageTemplate: "list index must be a constant",
		Description:     "Only indices that are provably constant at check time are supported; a variable index is rejected.",
	},
	"TWCHECK036": {
		Code: "TWCHECK036", Severity: Error,
		MessageTemplate: "list size must be a positive integer, found {found}",
		Description:     "The size= hint on a list type must be a positive constant.",
	},
	"TWCHECK037": {
		Code: "TWCHECK037", Severity: Error,
		MessageTemplate: "list literal has {found} elements, expected {expected}",
		Description:     "A list literal's element count must match the declared fixed size exactly.",
	},
	"TWCHECK040": {
		Code: "TWCHECK040", Severity: Error,
		MessageTemplate: "refined type hints require an integer base type, found {found}",
		Description:     "min/max hints are only defined for i32/i64 base types.",
	},
	"TWCHECK041": {
		Code: "TWCHECK041", Severity: Error,
		MessageTemplate: "value {value} violates refinement constraint {constraint}",
		Description:     "A literal or literal-initialized value bound to a refined type must satisfy all of its bounds.",
	},
	"TWCHECK045": {
		Code: "TWCHECK045", Severity: Error,
		MessageTemplate: "function {name} has no return statement",
		Description:     "Every function must end its body with a return statement.",
	},
	"TWCHECK050": {
		Code: "TWCHECK050", Severity: Warning,
		MessageTemplate: "unreachable code after panic",
		Description:     "Any statement following a panic in the same block can never execute.",
	},

	// ---- Codegen -----------------------------------------------------------------
	"TWGEN001": {
		Code: "TWGEN001", Severity: Error,
		MessageTemplate: "cannot generate code for an empty instruction stream",
		Description:     "The program produced no SemIR instructions at all.",
	},

	// ---- CLI (thin wrapper, external interface only) ------------------------------
	"TWCLI001": {
		Code: "TWCLI001", Severity: Error,
		MessageTemplate: "input file not found: {path}",
		Description:     "The path passed to `tinywhale build` does not exist or is not readable.",
	},
	"TWCLI004": {
		Code: "TWCLI004", Severity: Error,
		MessageTemplate: "unknown output type {kind}, expected \"wasm\" or \"wat\"",
		Description:     "The -t flag only accepts wasm or wat.",
	},
}
