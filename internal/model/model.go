// Package model is the compiler-owned semantic model: the compiler state
// and everything it is built from. It is populated once by the semantic
// builder and the built-in installer, then treated as read-only for the
// rest of the pipeline.
package model

import (
	"github.com/pathway-lang/pathwayc/internal/path"
	"github.com/pathway-lang/pathwayc/internal/source"
)

// BuiltinSentinel is the source-location file value that marks a proc or
// variable declaration as coming from the built-in library rather than
// user code.
const BuiltinSentinel = "<builtins>"

// State is the central mutable model, built once by the semantic builder
// and the built-in installer, then read only during emission.
type State struct {
	Types       map[string]*Type // keyed by Path.Key()
	GlobalProcs map[string]*Proc
	GlobalVars  map[string]*GlobalVar
}

// NewState returns an empty State ready for the built-in installer and the
// semantic builder to populate.
func NewState() *State {
	return &State{
		Types:       map[string]*Type{},
		GlobalProcs: map[string]*Proc{},
		GlobalVars:  map[string]*GlobalVar{},
	}
}

// SpecialClass tags a Type as one of the handful of built-in classes the
// emission driver treats specially.
type SpecialClass int

const (
	NoSpecialClass SpecialClass = iota
	WorldClass
)

// Type is a single resolved type (a node of the source language's
// prototype/path hierarchy) in the compiler's flattened model.
type Type struct {
	Path     path.Path
	Children []string // child type names, for hierarchy iteration
	Procs    map[string]*Proc
	Special  SpecialClass
}

// NewType builds an empty Type at the given path.
func NewType(p path.Path) *Type {
	return &Type{
		Path:  p,
		Procs: map[string]*Proc{},
	}
}

// Proc is a single source-language procedure, either a built-in whose
// body the compiler synthesizes or user code to be transpiled.
type Proc struct {
	Name       string
	Parameters []ProcParameter
	VarArg     bool
	Source     ProcSource
	IsStatic   bool
}

// ProcSourceKind tags which variant of ProcSource a Proc carries.
type ProcSourceKind int

const (
	SourceStd ProcSourceKind = iota
	SourceCode
)

// ProcSource is the tagged variant distinguishing a built-in proc (whose
// body the compiler synthesizes) from user code (looked up by source
// Location at transpile time).
type ProcSource struct {
	Kind     ProcSourceKind
	Std      StdProc
	Location source.Location
}

// StdProc enumerates the built-in procs whose bodies the compiler
// synthesizes directly, without any user source to transpile.
type StdProc struct {
	Kind       StdProcKind
	UnimplName string // only set when Kind == StdUnimplemented
}

type StdProcKind int

const (
	StdAbs StdProcKind = iota
	StdSin
	StdCos
	StdWorldOutput
	StdUnimplemented
)

// ProcParameter is a single declared parameter: its name and declared
// type.
type ProcParameter struct {
	Name string
	Type VariableType
}

// VariableTypeKind tags which variant of VariableType a value holds.
type VariableTypeKind int

const (
	Unspecified VariableTypeKind = iota
	ObjectType
)

// VariableType is either left to the dynamic runtime type (Unspecified) or
// pinned to a specific user type (ObjectType), which drives casts in
// emitted code.
type VariableType struct {
	Kind VariableTypeKind
	Path path.Path // only meaningful when Kind == ObjectType
}

// Mutability controls whether a global variable's backing field is
// emitted init-only.
type Mutability int

const (
	Normal Mutability = iota
	Readonly
	Constant
)

// VariableInitializerKind tags which variant of VariableInitializer a
// value holds.
type VariableInitializerKind int

const (
	InitConstant VariableInitializerKind = iota
	InitExpression
)

// ConstantValueKind tags the literal kind of a constant initializer.
type ConstantValueKind int

const (
	ConstNull ConstantValueKind = iota
	ConstInt
	ConstFloat
	ConstString
	ConstOther // unsupported kinds: emission warns and skips
)

// ConstantValue is a literal value usable as a global initializer.
type ConstantValue struct {
	Kind   ConstantValueKind
	Int    int32
	Float  float32
	String string
}

// VariableInitializer is either a literal constant or an arbitrary
// expression to be lowered through the transpiler's expression path.
type VariableInitializer struct {
	Kind     VariableInitializerKind
	Constant ConstantValue
	Expr     *source.Expression
}

// GlobalVar is a single global variable: its declared type, optional
// initializer, and mutability.
type GlobalVar struct {
	Name        string
	Type        VariableType
	Initializer *VariableInitializer
	Mutability  Mutability
}
