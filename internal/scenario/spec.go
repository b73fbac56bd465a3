// Package scenario defines a YAML fixture format describing one complete
// end-to-end compile: the object tree the semantic builder consumes, the
// proc bodies the transpiler lowers, and the textual-IL assertions the
// result must satisfy. It is the stand-in for the real (out-of-scope)
// source-language parser: rather than parsing program text, a scenario
// file names the already-parsed tree directly, in the shape the semantic
// builder's source.ObjectTree interface expects. The same fixture files
// drive both the test suite and the CLI.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pathway-lang/pathwayc/internal/source"
)

// Scenario is one complete fixture: the compile's configuration, the
// object tree to build, and the assertions its output must satisfy.
type Scenario struct {
	Name      string   `yaml:"name"`
	Assembly  string   `yaml:"assembly"`
	RootClass string   `yaml:"root_class"`
	EntryProc string   `yaml:"entry_proc"`
	Tree      TreeSpec `yaml:"tree"`
	Expect    Expect   `yaml:"expect"`
}

// Expect lists the assertions a compiled scenario's output must satisfy.
// StdoutContains/ExitCode describe the behavior of actually running the
// assembled executable; ILContains checks
// the emitted textual IL directly, which is what this package's own
// tests verify without an installed CLR.
type Expect struct {
	ILContains     []string `yaml:"il_contains"`
	StdoutContains string   `yaml:"stdout_contains"`
	ExitCode       *int     `yaml:"exit_code"`
}

// TreeSpec is one ObjectNode's declarations: its global vars, its procs,
// and its named children.
type TreeSpec struct {
	Vars     map[string]VarSpec  `yaml:"vars"`
	Procs    map[string]ProcSpec `yaml:"procs"`
	Children map[string]TreeSpec `yaml:"children"`
}

// VarSpec is one declared variable: a literal constant, a raw expression,
// or neither (an uninitialized declaration), plus its const/static flags.
type VarSpec struct {
	Const    *ConstSpec `yaml:"const"`
	Expr     *ExprSpec  `yaml:"expr"`
	IsConst  bool       `yaml:"is_const"`
	IsStatic bool       `yaml:"is_static"`
}

// ConstSpec is a literal value folded at parse time, mirroring
// source.ConstantLiteral.
type ConstSpec struct {
	Null   bool     `yaml:"null"`
	Int    *int32   `yaml:"int"`
	Float  *float32 `yaml:"float"`
	String *string  `yaml:"string"`
}

// ProcSpec is one declared proc: its parameter names and its body.
type ProcSpec struct {
	Params []string   `yaml:"params"`
	Body   []StmtSpec `yaml:"body"`
}

// StmtSpec is a tagged union mirroring source.Statement: exactly one
// field should be set per entry.
type StmtSpec struct {
	Expr       *ExprSpec  `yaml:"expr"`
	Var        *VarDecl   `yaml:"var"`
	If         *IfSpec    `yaml:"if"`
	While      *LoopSpec  `yaml:"while"`
	DoWhile    *LoopSpec  `yaml:"do_while"`
	Return     *ExprSpec  `yaml:"return"`
	ReturnVoid bool       `yaml:"return_void"`
	Break      bool       `yaml:"break"`
	Continue   bool       `yaml:"continue"`
}

// VarDecl is a local `var name = init` declaration.
type VarDecl struct {
	Name string    `yaml:"name"`
	Init *ExprSpec `yaml:"init"`
}

// IfSpec is an if/else-if/else chain.
type IfSpec struct {
	Branches []CondBody `yaml:"branches"`
	Else     []StmtSpec `yaml:"else"`
}

// CondBody is one if/else-if branch.
type CondBody struct {
	Cond ExprSpec   `yaml:"cond"`
	Body []StmtSpec `yaml:"body"`
}

// LoopSpec is a while or do-while loop.
type LoopSpec struct {
	Cond ExprSpec   `yaml:"cond"`
	Body []StmtSpec `yaml:"body"`
}

// ExprSpec is a tagged union mirroring source.Expression/Term: it covers
// both term forms (a literal, identifier, call, or parenthesized
// sub-expression, each possibly followed by member-invoke Follows) and
// the binary/logical/assign expression forms.
type ExprSpec struct {
	// Term forms.
	Int         *int32     `yaml:"int"`
	Float       *float32   `yaml:"float"`
	String      *string    `yaml:"string"`
	Null        bool       `yaml:"null"`
	Ident       *string    `yaml:"ident"`
	ReturnValue bool       `yaml:"return_value"`
	Paren       *ExprSpec  `yaml:"paren"`
	Call        *CallSpec  `yaml:"call"`
	Follows     []Follow   `yaml:"follows"`

	// Composite expression forms.
	BinOp     *BinOpSpec  `yaml:"binop"`
	LogicalOp *BinOpSpec  `yaml:"logical"`
	Assign    *AssignSpec `yaml:"assign"`
}

// Follow is one chained `.method(args)` dynamic member invocation.
type Follow struct {
	Method string     `yaml:"method"`
	Args   []ExprSpec `yaml:"args"`
}

// CallSpec is an unqualified `name(args)` call to a global proc.
type CallSpec struct {
	Name string     `yaml:"name"`
	Args []ExprSpec `yaml:"args"`
}

// BinOpSpec is a binary (arithmetic/comparison) or logical (&&/||)
// operation.
type BinOpSpec struct {
	Op  string   `yaml:"op"`
	LHS ExprSpec `yaml:"lhs"`
	RHS ExprSpec `yaml:"rhs"`
}

// AssignSpec is `lhs = rhs`.
type AssignSpec struct {
	LHS ExprSpec `yaml:"lhs"`
	RHS ExprSpec `yaml:"rhs"`
}

// Load parses a scenario from raw YAML bytes.
func Load(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenario: parsing yaml: %w", err)
	}
	return &s, nil
}

// LoadFile reads and parses a scenario from path.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: reading %s: %w", path, err)
	}
	s, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("scenario: %s: %w", path, err)
	}
	return s, nil
}

func (s *Scenario) assemblyName() string {
	if s.Assembly != "" {
		return s.Assembly
	}
	return s.Name
}

func (s *Scenario) rootClassName() string {
	if s.RootClass != "" {
		return s.RootClass
	}
	return "Program"
}

func (s *Scenario) entryProc() string {
	if s.EntryProc != "" {
		return s.EntryProc
	}
	return "main"
}

// location allocates a fresh, non-builtin source.Location for one proc
// declaration: the scenario's name as the file, a monotonically
// increasing line per proc so each location is distinct.
func (b *builder) location() source.Location {
	b.line++
	return source.Location{File: b.name, Line: b.line, Column: 0}
}
