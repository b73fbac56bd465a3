package transpile

import (
	"fmt"

	"github.com/pathway-lang/pathwayc/internal/diag"
	"github.com/pathway-lang/pathwayc/internal/ir"
)

// binaryOpCode maps each source operator to the ExpressionType value used
// to describe a dynamic binary operation to the runtime binder.
var binaryOpCode = map[string]int32{
	"+":  0,  // Add
	"-":  42, // Subtract
	"*":  26, // Multiply
	"/":  12, // Divide
	"%":  25, // Modulo
	"==": 13, // Equal
	"!=": 35, // NotEqual
	">":  15, // GreaterThan
	">=": 16, // GreaterThanOrEqual
	"<":  20, // LessThan
	"<=": 21, // LessThanOrEqual
}

// comparisonOps is the subset of binaryOpCode whose dynamic result is a
// boxed bool that must be converted back to the source language's
// numeric-boolean convention: unbox, convert to 0.0/1.0, rebox.
var comparisonOps = map[string]bool{
	"==": true, "!=": true, ">": true, ">=": true, "<": true, "<=": true,
}

const (
	csiteHolderPrefix = "<>o__"
	csiteFieldPrefix  = "<>_"

	binderFlagsNone            = 0
	binderFlagsResultDiscarded = 256

	callSiteType  = "[System.Core]System.Runtime.CompilerServices.CallSite"
	argumentInfo  = "[System.Core]Microsoft.CSharp.RuntimeBinder.CSharpArgumentInfo"
	argumentFlags = "[System.Core]Microsoft.CSharp.RuntimeBinder.CSharpArgumentInfoFlags"
	binderType    = "[System.Core]Microsoft.CSharp.RuntimeBinder.Binder"
	binderFlags   = "[System.Core]Microsoft.CSharp.RuntimeBinder.CSharpBinderFlags"

	getTypeFromHandle = "class [mscorlib]System.Type [mscorlib]System.Type::GetTypeFromHandle(valuetype [mscorlib]System.RuntimeTypeHandle)"
)

// siteHolder is the per-proc nested static class holding one cache field
// per dynamic call site discovered while lowering that proc's body.
func (tp *transpiler) siteHolder() *ir.Class {
	name := csiteHolderPrefix + tp.procName
	if existing, ok := tp.class.Child(name); ok {
		return existing
	}
	holder := ir.NewClass(name, tp.class.FullyQualified+"/"+name, ir.ClassNestedAssembly, "")
	holder.IsStatic = true
	tp.class.InsertChild(holder)
	return holder
}

// allocSite reserves the next cache field in this proc's site holder and
// returns its field reference metadata. Site fields are named `<>_<n>`, n
// counting up per proc.
func (tp *transpiler) allocSite(delegateType string) (fieldMeta string) {
	holder := tp.siteHolder()
	fieldName := fmt.Sprintf("%s%d", csiteFieldPrefix, tp.sites)
	tp.sites++

	siteFieldType := fmt.Sprintf("class %s`1<%s>", callSiteType, delegateType)
	holder.InsertField(&ir.Field{
		Name:          fieldName,
		TypeName:      siteFieldType,
		Accessibility: ir.Public,
		IsStatic:      true,
	})

	return fmt.Sprintf("%s %s::'%s'", siteFieldType, holder.FullyQualified, fieldName)
}

// funcType renders "class [mscorlib]System.Func`k<CallSite,object,...,object>"
// for a delegate taking the call site plus argCount object arguments and
// returning object (argCount includes the receiver for member invokes).
func funcType(argCount int) string {
	arity := argCount + 2 // CallSite + args + return
	sig := "class " + callSiteType
	for i := 0; i < argCount; i++ {
		sig += ",object"
	}
	sig += ",object"
	return fmt.Sprintf("class [mscorlib]System.Func`%d<%s>", arity, sig)
}

// actionType is funcType's void-returning counterpart, used for a dynamic
// member-invoke whose result is discarded.
func actionType(argCount int) string {
	arity := argCount + 1 // CallSite + args
	sig := "class " + callSiteType
	for i := 0; i < argCount; i++ {
		sig += ",object"
	}
	return fmt.Sprintf("class [mscorlib]System.Action`%d<%s>", arity, sig)
}

// invokeSig renders the delegate Invoke signature with generic-parameter
// slot references: `!0` is the call site, `!1..!argCount` the object
// arguments, and for a Func the return is the last slot `!argCount+1`.
func invokeSig(delegate string, argCount int, returning bool) string {
	params := ""
	for i := 0; i <= argCount; i++ {
		if i > 0 {
			params += ", "
		}
		params += fmt.Sprintf("!%d", i)
	}
	ret := "void"
	if returning {
		ret = fmt.Sprintf("!%d", argCount+1)
	}
	return fmt.Sprintf("instance %s %s::Invoke(%s)", ret, delegate, params)
}

// argInfoArray appends the instructions building a CSharpArgumentInfo[] of
// length n, every element using CSharpArgumentInfoFlags.None — this
// compiler never synthesizes named or ref/out dynamic arguments.
func argInfoArray(blob *ir.InstructionBlob, n int) {
	blob.Push(ir.LdC4(int32(n)))
	blob.Push(ir.NewArr(argumentInfo))
	for i := 0; i < n; i++ {
		blob.Push(ir.Dup)
		blob.Push(ir.LdC4(int32(i)))
		blob.Push(ir.LdC4(0))
		blob.Push(ir.LdNull)
		blob.Push(ir.NewObj(fmt.Sprintf("instance void %s::'.ctor'(valuetype %s, string)", argumentInfo, argumentFlags)))
		blob.Push(ir.StElemRef)
	}
}

// contextToken loads the enclosing class's type token for the binder's
// context argument.
func (tp *transpiler) contextToken(blob *ir.InstructionBlob) {
	context := tp.rootClassName
	if tp.class != nil {
		context = tp.class.FullyQualified
	}
	blob.Push(ir.LdToken(context))
	blob.Push(ir.Call(getTypeFromHandle))
}

// siteProlog emits the lazy-initialization preamble shared by every call
// site: load the cache field, skip to done if it is already populated,
// otherwise run init (which must leave a CallSiteBinder on the stack),
// wrap it through CallSite`1<delegate>::Create, and store it. At done the
// invocation sequence loads the cache, its Target delegate, and the cache
// again as the delegate's first argument.
func (tp *transpiler) siteProlog(out *ir.InstructionBlob, fieldMeta, delegate string, init func(*ir.InstructionBlob)) {
	done := fmt.Sprintf("cs_ready_%d", tp.uniqueID())

	out.Push(ir.LdSFld(fieldMeta))
	out.Push(ir.BrTrue(done))

	init(out)
	out.Push(ir.Call(fmt.Sprintf(
		"class %s`1<%s> class %s`1<%s>::Create(class [mscorlib]System.Runtime.CompilerServices.CallSiteBinder)",
		callSiteType, delegate, callSiteType, delegate)))
	out.Push(ir.StSFld(fieldMeta))

	out.Label(done)
	out.Push(ir.LdSFld(fieldMeta))
	out.Push(ir.LdFld(fmt.Sprintf("class %s class %s`1<%s>::'Target'", delegate, callSiteType, delegate)))
	out.Push(ir.LdSFld(fieldMeta))
}

// emitInvokeMember lowers a dynamic `.methodName(args...)` call through a
// lazily-initialized InvokeMember call site. When discard is true (the
// enclosing expression statement's result will never be read), the cache is
// typed as a void-returning Action and the binder is initialized with the
// ResultDiscarded flag (256); otherwise it is a Func returning object and
// the result is left on the stack as a boxed object.
func (tp *transpiler) emitInvokeMember(methodName string, receiver *ir.InstructionBlob, args []*ir.InstructionBlob, discard bool) *ir.InstructionBlob {
	argCount := len(args) + 1 // + receiver
	var delegate string
	flags := int32(binderFlagsNone)
	if discard {
		delegate = actionType(argCount)
		flags = binderFlagsResultDiscarded
	} else {
		delegate = funcType(argCount)
	}
	fieldMeta := tp.allocSite(delegate)

	var out ir.InstructionBlob
	tp.siteProlog(&out, fieldMeta, delegate, func(b *ir.InstructionBlob) {
		b.Push(ir.LdC4(flags))
		b.Push(ir.LdStr(methodName))
		b.Push(ir.LdNull) // no type-argument list
		tp.contextToken(b)
		argInfoArray(b, argCount)
		b.Push(ir.Call(fmt.Sprintf(
			"class [mscorlib]System.Runtime.CompilerServices.CallSiteBinder %s::InvokeMember(valuetype %s, string, class [mscorlib]System.Collections.Generic.IEnumerable`1<class [mscorlib]System.Type>, class [mscorlib]System.Type, class [mscorlib]System.Collections.Generic.IEnumerable`1<class %s>)",
			binderType, binderFlags, argumentInfo)))
	})

	out.Absorb(receiver)
	for _, a := range args {
		out.Absorb(a)
	}
	out.Push(ir.CallVirt(invokeSig(delegate, argCount, !discard)))
	return &out
}

// emitBinaryOp lowers a dynamic binary arithmetic/comparison operation
// through a BinaryOperation call site. lhs/rhs are consumed.
func (tp *transpiler) emitBinaryOp(op string, lhs, rhs *ir.InstructionBlob) (*ir.InstructionBlob, error) {
	code, ok := binaryOpCode[op]
	if !ok {
		return nil, diag.Newf("Unknown op: %s", op)
	}

	delegate := funcType(2)
	fieldMeta := tp.allocSite(delegate)

	var out ir.InstructionBlob
	tp.siteProlog(&out, fieldMeta, delegate, func(b *ir.InstructionBlob) {
		b.Push(ir.LdC4(binderFlagsNone))
		b.Push(ir.LdC4(code))
		tp.contextToken(b)
		argInfoArray(b, 2)
		b.Push(ir.Call(fmt.Sprintf(
			"class [mscorlib]System.Runtime.CompilerServices.CallSiteBinder %s::BinaryOperation(valuetype %s, valuetype [System.Core]System.Linq.Expressions.ExpressionType, class [mscorlib]System.Type, class [mscorlib]System.Collections.Generic.IEnumerable`1<class %s>)",
			binderType, binderFlags, argumentInfo)))
	})

	out.Absorb(lhs)
	out.Absorb(rhs)
	out.Push(ir.CallVirt(invokeSig(delegate, 2, true)))

	if comparisonOps[op] {
		out.Push(ir.UnboxAny("[mscorlib]System.Boolean"))
		out.Push(ir.ConvR4)
		out.Push(ir.Box(single))
	}
	return &out, nil
}
