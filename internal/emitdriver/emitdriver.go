// Package emitdriver orchestrates one whole compile: it takes a built
// model.State and turns it into a complete ir.Assembly — the root class
// with its global fields, static constructor, and global procs, then
// every user type recursively underneath it — catching each proc's
// CompilerError at its own boundary so one bad proc never aborts the
// rest of the compile.
package emitdriver

import (
	"fmt"
	"sort"

	"github.com/pathway-lang/pathwayc/internal/builtins"
	"github.com/pathway-lang/pathwayc/internal/diag"
	"github.com/pathway-lang/pathwayc/internal/ir"
	"github.com/pathway-lang/pathwayc/internal/model"
	"github.com/pathway-lang/pathwayc/internal/path"
	"github.com/pathway-lang/pathwayc/internal/source"
	"github.com/pathway-lang/pathwayc/internal/transpile"
)

// Options configures one Run call.
type Options struct {
	AssemblyName  string
	RootClassName string
	EntryProc     string // global proc name wrapped by the synthesized <>EntryPoint, if present; "" to skip
	Index         source.AnnotationIndex
}

// Run builds the complete Assembly for state. Per-proc failures are
// recorded on sink and the containing method is simply omitted; the rest
// of the compile continues.
func Run(state *model.State, sink *diag.Sink, opts Options) *ir.Assembly {
	asm := ir.NewAssembly(opts.AssemblyName)
	asm.AddExtern("mscorlib")
	asm.AddExtern("System.Core")
	asm.AddExtern("PathwayRuntime")

	root := ir.NewClass(opts.RootClassName, opts.RootClassName, ir.ClassPublic, "")
	root.BeforeFieldInit = true

	d := &driver{state: state, sink: sink, opts: opts}

	d.buildGlobalFields(root)
	root.InsertMethod(transpile.BuildGlobalCctor(state, root, opts.RootClassName, sink))
	root.InsertMethod(builtins.StockCtor(ir.RootObject))
	d.buildGlobalProcs(root)
	d.buildUserTypes(root)

	if opts.EntryProc != "" {
		if _, ok := root.Method(opts.EntryProc); ok {
			root.InsertMethod(entryPointMethod(opts.RootClassName, opts.EntryProc))
		}
	}

	asm.AddClass(root)
	return asm
}

// entryPointMethod builds the explicit `<>EntryPoint` static wrapper: it
// invokes `object <root>::main()`, pops the result, and returns, rather
// than marking `main` itself as the `.entrypoint` (the target VM's entry
// point must return void or int, never object).
func entryPointMethod(rootClassName, entryProc string) *ir.Method {
	m := ir.NewMethod("<>EntryPoint", "void", ir.Public, ir.NotVirtual, true)
	m.IsEntryPoint = true
	m.MaxStack = 1
	m.Code.Push(ir.Call(fmt.Sprintf("object %s::'%s'()", rootClassName, entryProc)))
	m.Code.Push(ir.Pop)
	m.Code.Push(ir.Ret)
	return m
}

type driver struct {
	state *model.State
	sink  *diag.Sink
	opts  Options
}

func (d *driver) buildGlobalFields(root *ir.Class) {
	for _, name := range sortedGlobalVarNames(d.state) {
		gv := d.state.GlobalVars[name]
		if gv.Initializer != nil && gv.Initializer.Kind == model.InitConstant && gv.Initializer.Constant.Kind == model.ConstOther {
			d.sink.Warnf("Unsupported constant kind for global %s; emitting null", name)
		}
		root.InsertField(&ir.Field{
			Name:          name,
			TypeName:      "object",
			Accessibility: ir.Public,
			IsStatic:      true,
			IsInitOnly:    gv.Mutability != model.Normal,
		})
	}
}

func sortedGlobalVarNames(state *model.State) []string {
	names := make([]string, 0, len(state.GlobalVars))
	for name := range state.GlobalVars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedProcNames(procs map[string]*model.Proc) []string {
	names := make([]string, 0, len(procs))
	for name := range procs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildGlobalProcs compiles every root-level proc onto class, catching
// each proc's failure independently.
func (d *driver) buildGlobalProcs(class *ir.Class) {
	for _, name := range sortedProcNames(d.state.GlobalProcs) {
		proc := d.state.GlobalProcs[name]
		m, err := d.compileProc(class, proc)
		if err != nil {
			d.sink.ReportProcError(name, asCompilerError(err))
			continue
		}
		class.InsertMethod(m)
	}
}

func (d *driver) compileProc(class *ir.Class, proc *model.Proc) (*ir.Method, error) {
	if proc.Source.Kind == model.SourceStd {
		return builtins.StdMethod(proc), nil
	}
	return transpile.CreateProc(proc, transpile.Options{
		Class:         class,
		RootClassName: d.opts.RootClassName,
		ProcName:      proc.Name,
		IsStatic:      proc.IsStatic,
		Index:         d.opts.Index,
		State:         d.state,
	})
}

// buildUserTypes walks every root-level type in the compiler's flattened
// type table and recurses into its children, mirroring the source
// language's prototype hierarchy as nested classes all the way down.
func (d *driver) buildUserTypes(root *ir.Class) {
	for _, typ := range d.rootLevelTypes() {
		d.buildType(root, typ)
	}
}

func (d *driver) rootLevelTypes() []*model.Type {
	var top []*model.Type
	for _, typ := range d.state.Types {
		if typ.Path.SegmentCount() == 1 {
			top = append(top, typ)
		}
	}
	sort.Slice(top, func(i, j int) bool { return top[i].Path.String() < top[j].Path.String() })
	return top
}

func (d *driver) buildType(parent *ir.Class, typ *model.Type) {
	simpleName := typ.Path.LastSegment()
	fq := d.opts.RootClassName + "/" + joinSegments(typ.Path.Segments())

	cls := ir.NewClass(simpleName, fq, ir.ClassNestedPublic, ir.RootObject)
	cls.InsertMethod(builtins.StockCtor(ir.RootObject))

	for _, name := range sortedProcNames(typ.Procs) {
		proc := typ.Procs[name]
		m, err := d.compileProc(cls, proc)
		if err != nil {
			d.sink.ReportProcError(name, asCompilerError(err))
			continue
		}
		cls.InsertMethod(m)
	}

	parent.InsertChild(cls)

	for _, childName := range typ.Children {
		childSegments := append(append([]string{}, typ.Path.Segments()...), childName)
		childPath := path.New(childSegments, true)
		child, ok := d.state.Types[childPath.Key()]
		if !ok {
			continue
		}
		d.buildType(cls, child)
	}
}

func joinSegments(segs []string) string {
	out := segs[0]
	for _, s := range segs[1:] {
		out += "/" + s
	}
	return out
}

func asCompilerError(err error) *diag.CompilerError {
	if ce, ok := err.(*diag.CompilerError); ok {
		return ce
	}
	return diag.New(err.Error())
}
