// Package transpile is the procedure transpiler: it lowers source-language
// AST statements and expressions for one proc into a target-VM instruction
// stream, managing locals, control-flow labels, loop scopes, the
// return-value protocol, and dynamic call-site caching for the language's
// dynamically-typed operations.
package transpile

import (
	"fmt"

	"github.com/pathway-lang/pathwayc/internal/diag"
	"github.com/pathway-lang/pathwayc/internal/ir"
	"github.com/pathway-lang/pathwayc/internal/model"
	"github.com/pathway-lang/pathwayc/internal/path"
	"github.com/pathway-lang/pathwayc/internal/source"
)

// single is the target VM's boxed numeric type every source-language
// numeric literal and arithmetic result is boxed through; the source
// language has one numeric type.
const single = "[mscorlib]System.Single"

// runtimeAssembly/runtimeTruthy name the small runtime-support library:
// a fixed assembly providing `Truthy(object) -> bool`, used wherever the
// transpiler needs to map a dynamically-typed value to a primitive
// boolean (if/while/do-while conditions, short-circuit && and ||).
const (
	runtimeAssembly = "PathwayRuntime"
	runtimeTruthy   = "bool [" + runtimeAssembly + "]PathwayRuntime.Runtime::Truthy(object)"
)

// localVar is one declared local: its flat slot index and its declared
// type, which drives casts and static-vs-dynamic member dispatch.
type localVar struct {
	slot uint16
	typ  model.VariableType
}

// transpiler carries the data shared across one whole proc's lowering.
// Its class pointer is aliased into the enclosing class under
// construction so that dynamic call sites can add their cache-holder
// nested class/fields as they're discovered.
type transpiler struct {
	code     ir.InstructionBlob
	scopes   []map[string]localVar
	nextSlot uint16
	uniques  int

	loops []loopLabels

	class         *ir.Class
	rootClassName string
	procName      string
	isStatic      bool
	state         *model.State

	sites int
}

type loopLabels struct {
	repeat string
	exit   string
}

// Options bundles the context CreateProc needs beyond the Proc itself.
type Options struct {
	Class         *ir.Class
	RootClassName string
	ProcName      string
	IsStatic      bool
	Tree          source.ObjectTree
	Index         source.AnnotationIndex
	State         *model.State
}

// CreateProc builds the Method for one Code-sourced Proc: it recovers the
// proc body from the annotation index, runs the entry-point prologue, lowers
// every statement, and appends the epilogue return.
func CreateProc(proc *model.Proc, opts Options) (*ir.Method, error) {
	stmts, err := recoverBody(proc.Source.Location, opts.Index)
	if err != nil {
		return nil, err
	}

	tp := &transpiler{
		class:         opts.Class,
		rootClassName: opts.RootClassName,
		procName:      opts.ProcName,
		isStatic:      opts.IsStatic,
		state:         opts.State,
	}
	tp.pushScope()
	defer tp.popScope()

	// Slot 0 is reserved for the implicit return value `.`.
	tp.nextSlot = 1

	tp.emitPrologue(proc)

	for _, stmt := range stmts {
		if err := tp.writeStatement(stmt); err != nil {
			return nil, err
		}
	}

	// An explicit return has already loaded its value; falling off the end
	// returns with the default in slot 0 left untouched.
	tp.code.Push(ir.Ret)

	m := ir.NewMethod(opts.ProcName, "object", ir.Public, ir.NotVirtual, opts.IsStatic)
	m.Code = tp.code
	m.Params = make([]ir.Param, len(proc.Parameters))
	for i, p := range proc.Parameters {
		m.Params[i] = ir.Param{Name: p.Name, TypeName: "object"}
	}
	m.Locals = make([]ir.Local, tp.nextSlot)
	for i := range m.Locals {
		m.Locals[i] = ir.Local{TypeName: "object"}
	}
	return m, nil
}

// recoverBody finds the ProcHeader annotation at loc, then the
// ProcBodyDetails annotation one column past its end.
func recoverBody(loc source.Location, index source.AnnotationIndex) ([]source.Statement, error) {
	for _, ann := range index.At(loc) {
		if ann.Kind != source.ProcHeader {
			continue
		}
		end := ann.Range.End
		end.Column++
		for _, bodyAnn := range index.At(end) {
			if bodyAnn.Kind == source.ProcBodyDetails {
				return bodyAnn.Statements, nil
			}
		}
	}
	return nil, diag.New(fmt.Sprintf("Unable to find proc body: %s", loc))
}

func (tp *transpiler) emitPrologue(proc *model.Proc) {
	argBase := 0
	if !tp.isStatic {
		argBase = 1
	}
	tp.pushScope()
	for i, p := range proc.Parameters {
		slot := tp.declareLocal(p.Name, p.Type)
		tp.code.Push(ir.LdArg(uint16(argBase + i)))
		tp.code.Push(ir.StLoc(slot))
	}
	tp.code.Push(ir.LdNull)
	tp.code.Push(ir.StLoc0)
}

func (tp *transpiler) pushScope() {
	tp.scopes = append(tp.scopes, map[string]localVar{})
}

func (tp *transpiler) popScope() {
	tp.scopes = tp.scopes[:len(tp.scopes)-1]
}

func (tp *transpiler) declareLocal(name string, typ model.VariableType) uint16 {
	slot := tp.nextSlot
	tp.nextSlot++
	tp.scopes[len(tp.scopes)-1][name] = localVar{slot: slot, typ: typ}
	return slot
}

func (tp *transpiler) lookupLocal(name string) (localVar, bool) {
	for i := len(tp.scopes) - 1; i >= 0; i-- {
		if lv, ok := tp.scopes[i][name]; ok {
			return lv, true
		}
	}
	return localVar{}, false
}

// declaredType resolves a declaration's raw type path the same way the
// semantic builder does for globals and parameters: empty means dynamic,
// anything else is a rooted object type.
func declaredType(vt source.VarType) model.VariableType {
	if len(vt.TypePath) == 0 {
		return model.VariableType{Kind: model.Unspecified}
	}
	return model.VariableType{Kind: model.ObjectType, Path: path.New(vt.TypePath, true)}
}

func (tp *transpiler) uniqueID() int {
	id := tp.uniques
	tp.uniques++
	return id
}

func (tp *transpiler) pushLoop(repeat, exit string) {
	tp.loops = append(tp.loops, loopLabels{repeat: repeat, exit: exit})
}

func (tp *transpiler) popLoop() {
	tp.loops = tp.loops[:len(tp.loops)-1]
}

func (tp *transpiler) innermostLoop() (loopLabels, bool) {
	if len(tp.loops) == 0 {
		return loopLabels{}, false
	}
	return tp.loops[len(tp.loops)-1], true
}

