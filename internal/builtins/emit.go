package builtins

import (
	"fmt"

	"github.com/pathway-lang/pathwayc/internal/ir"
	"github.com/pathway-lang/pathwayc/internal/model"
)

const single = "[mscorlib]System.Single"

// StockCtor builds the `.ctor` every class gets: load `this`, call the
// parent's no-arg constructor, return.
func StockCtor(parentTypeName string) *ir.Method {
	m := ir.NewMethod(".ctor", "void", ir.Public, ir.NotVirtual, false)
	m.IsRTSpecialName = true
	m.IsSpecialName = true
	m.MaxStack = 1
	m.Code.Push(ir.LdArg0)
	m.Code.Push(ir.Call(fmt.Sprintf("instance void %s::.ctor()", parentTypeName)))
	m.Code.Push(ir.Ret)
	return m
}

// StdMethod synthesizes the complete method body for a built-in proc. It
// is used uniformly for both global std procs (abs/sin/cos/min/max) and
// std procs installed on a type (world's instance `output`), so the
// generated code reads its argument-zero offset off proc.IsStatic rather
// than assuming a global static context.
func StdMethod(proc *model.Proc) *ir.Method {
	switch proc.Source.Std.Kind {
	case model.StdAbs:
		return mathUnary("abs", "Abs")
	case model.StdSin:
		return mathUnary("sin", "Sin")
	case model.StdCos:
		return mathUnary("cos", "Cos")
	case model.StdWorldOutput:
		return worldOutputMethod(proc.IsStatic)
	case model.StdUnimplemented:
		return unimplementedMethod(proc.Source.Std.UnimplName)
	}
	panic("builtins: unhandled StdProc kind")
}

// mathUnary builds `object name(object A) { return (object)Math.fn((float)A); }`
// by boxing/unboxing through Single and delegating to the host math library.
// The math built-ins are always global statics, so argument zero is
// always the first (and only) parameter.
func mathUnary(name, hostFn string) *ir.Method {
	m := ir.NewMethod(name, "object", ir.Public, ir.NotVirtual, true)
	m.Params = []ir.Param{{Name: "A", TypeName: "object"}}
	m.MaxStack = 1
	m.Code.Push(ir.LdArg0)
	m.Code.Push(ir.UnboxAny(single))
	m.Code.Push(ir.Call(fmt.Sprintf("float32 [mscorlib]System.Math::%s(float32)", hostFn)))
	m.Code.Push(ir.Box(single))
	m.Code.Push(ir.Ret)
	return m
}

// worldOutputMethod writes its argument to the console and returns null.
// world.output is installed as an instance method (the dynamic member-
// invoke call site resolves it on the runtime `world` object), so
// argument zero is `this` and the first real parameter is argument one.
func worldOutputMethod(isStatic bool) *ir.Method {
	m := ir.NewMethod("output", "object", ir.Public, ir.NotVirtual, isStatic)
	m.Params = []ir.Param{{Name: "O", TypeName: "object"}}
	m.MaxStack = 1
	if isStatic {
		m.Code.Push(ir.LdArg0)
	} else {
		m.Code.Push(ir.LdArg1)
	}
	m.Code.Push(ir.Call("void [mscorlib]System.Console::WriteLine(object)"))
	m.Code.Push(ir.LdNull)
	m.Code.Push(ir.Ret)
	return m
}

func unimplementedMethod(name string) *ir.Method {
	m := ir.NewMethod(name, "object", ir.Public, ir.NotVirtual, true)
	m.Code.NotImplemented("std proc not implemented.")
	return m
}
