package transpile

import (
	"fmt"
	"sort"

	"github.com/pathway-lang/pathwayc/internal/diag"
	"github.com/pathway-lang/pathwayc/internal/ir"
	"github.com/pathway-lang/pathwayc/internal/model"
)

// BuildGlobalCctor lowers every initialized global variable into the
// assembly's static constructor: each field is assigned in name-sorted
// order, the same determinism rule class-member emission follows, so the
// generated .cctor body never depends on map iteration order. A global
// whose initializer expression fails to lower is reported on sink and
// skipped; the cctor itself always comes out complete.
func BuildGlobalCctor(state *model.State, class *ir.Class, rootClassName string, sink *diag.Sink) *ir.Method {
	tp := &transpiler{
		class:         class,
		rootClassName: rootClassName,
		procName:      "cctor",
		isStatic:      true,
		state:         state,
	}
	tp.pushScope()
	defer tp.popScope()

	// Eagerly construct the world singleton first, unconditionally — it
	// has no VariableInitializer of its own (it is installed Readonly
	// with no initializer by the built-in library), so it cannot be
	// folded into the loop below.
	if _, ok := state.GlobalVars["world"]; ok {
		tp.code.Push(ir.NewObj(fmt.Sprintf("instance void %s/world::.ctor()", rootClassName)))
		tp.code.Push(ir.StSFld(fmt.Sprintf("object %s::'world'", rootClassName)))
	}

	names := make([]string, 0, len(state.GlobalVars))
	for name := range state.GlobalVars {
		if name == "world" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		gv := state.GlobalVars[name]
		if gv.Initializer == nil {
			continue
		}
		var blob *ir.InstructionBlob
		switch gv.Initializer.Kind {
		case model.InitConstant:
			c := gv.Initializer.Constant
			if c.Kind == model.ConstNull || c.Kind == model.ConstOther {
				// Null fields are null already; unsupported literal kinds
				// were warned about when the field was created.
				continue
			}
			blob = constantBlob(c)
		case model.InitExpression:
			var err error
			blob, err = tp.evaluateExpression(*gv.Initializer.Expr)
			if err != nil {
				sink.ReportProcError(".cctor", asCompilerError(err))
				continue
			}
		}
		tp.code.Absorb(blob)
		tp.code.Push(ir.StSFld(fmt.Sprintf("object %s::'%s'", rootClassName, name)))
	}
	tp.code.Push(ir.Ret)

	m := ir.NewMethod(".cctor", "void", ir.Private, ir.NotVirtual, true)
	m.IsRTSpecialName = true
	m.IsSpecialName = true
	m.MaxStack = 16
	m.Code = tp.code
	return m
}

func asCompilerError(err error) *diag.CompilerError {
	if ce, ok := err.(*diag.CompilerError); ok {
		return ce
	}
	return diag.New(err.Error())
}

// constantBlob renders a folded integer, float, or string literal
// initializer.
func constantBlob(c model.ConstantValue) *ir.InstructionBlob {
	var b ir.InstructionBlob
	switch c.Kind {
	case model.ConstInt:
		b.Push(ir.LdCR4(float32(c.Int)))
		b.Push(ir.Box(single))
	case model.ConstFloat:
		b.Push(ir.LdCR4(c.Float))
		b.Push(ir.Box(single))
	case model.ConstString:
		b.Push(ir.LdStr(c.String))
	}
	return &b
}
