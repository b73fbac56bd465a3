// Package source defines the boundary types the rest of the compiler
// consumes but never constructs itself: a pre-parsed object tree, its
// statement-level AST, and an annotation index that maps source positions
// back to proc headers and bodies. Parsing, preprocessing, and indentation
// handling of the source language produce these types; this package only
// names the shapes the semantic builder and procedure transpiler need.
package source

import "fmt"

// Location identifies a position in the parsed source: the file it came
// from and, within that file, a line/column pair. BuiltinFile is the
// sentinel distinguishing a built-in declaration from user code.
type Location struct {
	File   string
	Line   int
	Column int
}

// BuiltinFile is the sentinel source.Location.File value used for
// declarations synthesized by the built-in library rather than parsed
// from a user file.
const BuiltinFile = "<builtins>"

// IsBuiltin reports whether the location names the built-in sentinel file.
func (l Location) IsBuiltin() bool {
	return l.File == BuiltinFile
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Range is a half-open span of source, used to key annotation lookups.
type Range struct {
	Start Location
	End   Location
}

// TypePath is the raw slash-delimited type path a declaration names, as
// the parser produced it — parsed into a path.Path only by the semantic
// builder.
type TypePath []string

// VarType is a declaration's static-ish type annotation: a possibly-empty
// TypePath (empty meaning "unspecified/dynamic").
type VarType struct {
	TypePath TypePath
}

// Declaration carries the parser-observed attributes of a variable or
// parameter.
type Declaration struct {
	VarType  VarType
	IsConst  bool
	IsStatic bool
}

// Value is everything the parser recorded about a single declared name's
// right-hand side: its source Location, an optional constant (if the
// initializer was a literal), an optional raw expression (otherwise), and
// its declared parameters (when the Value belongs to a proc).
type Value struct {
	Location   Location
	Constant   *ConstantLiteral
	Expression *Expression
	Parameters []Parameter
}

// Parameter is a single declared proc parameter as the parser saw it.
type Parameter struct {
	Name    string
	VarType VarType
}

// ConstantLiteral is a literal value folded at parse time.
type ConstantLiteral struct {
	Kind   ConstantKind
	Int    int32
	Float  float32
	String string
}

// ConstantKind tags which variant of ConstantLiteral is populated.
type ConstantKind int

const (
	ConstantNull ConstantKind = iota
	ConstantInt
	ConstantFloat
	ConstantString
	ConstantOther
)

// Variable is a single var-table entry: its declaration and its resolved
// Value (constant or expression).
type Variable struct {
	Declaration *Declaration
	Value       Value
}

// ProcDecl is a single proc-table entry: every overload/redeclaration the
// parser observed for this name (more than one means an over-declaration,
// which the semantic builder skips with a warning).
type ProcDecl struct {
	Values []Value
}

// ObjectTree is the pre-built prototype/path hierarchy the compiler's
// semantic builder walks. The root node and every child expose the same
// shape: a name, its declared variables, and its declared procs.
type ObjectTree interface {
	Root() ObjectNode
}

// ObjectNode is one node (a type) of the object tree.
type ObjectNode interface {
	Name() string
	Path() TypePath
	Vars() map[string]Variable
	Procs() map[string]ProcDecl
	Children() []ObjectNode
}

// AnnotationKind tags which kind of annotation an index entry carries.
type AnnotationKind int

const (
	ProcHeader AnnotationKind = iota
	ProcBodyDetails
)

// Annotation is a single annotation-index entry: the kind, the range it
// covers, and, for ProcBodyDetails, the statement list it yields.
type Annotation struct {
	Kind       AnnotationKind
	Range      Range
	Statements []Statement
}

// AnnotationIndex answers "what annotations cover this location", the
// only query the procedure transpiler needs to recover a proc body from
// its Location.
type AnnotationIndex interface {
	At(loc Location) []Annotation
}
