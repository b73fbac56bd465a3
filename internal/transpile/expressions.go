package transpile

import (
	"fmt"

	"github.com/pathway-lang/pathwayc/internal/diag"
	"github.com/pathway-lang/pathwayc/internal/ir"
	"github.com/pathway-lang/pathwayc/internal/model"
	"github.com/pathway-lang/pathwayc/internal/path"
	"github.com/pathway-lang/pathwayc/internal/source"
)

// evaluateExpression lowers expr, leaving exactly one boxed object value on
// the stack.
func (tp *transpiler) evaluateExpression(expr source.Expression) (*ir.InstructionBlob, error) {
	switch expr.Kind {
	case source.ExprBase:
		return tp.evaluateBase(expr)

	case source.ExprBinaryOp:
		if expr.Op == "&&" || expr.Op == "||" {
			return tp.evaluateLogical(expr)
		}
		if expr.Op == "<<" {
			// In a value position the output invocation still has to leave
			// something on the stack; the invoke itself never returns.
			blob, err := tp.evaluateWorldOutput(expr)
			if err != nil {
				return nil, err
			}
			blob.Push(ir.LdNull)
			return blob, nil
		}
		lhs, err := tp.evaluateExpression(*expr.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := tp.evaluateExpression(*expr.RHS)
		if err != nil {
			return nil, err
		}
		return tp.emitBinaryOp(expr.Op, lhs, rhs)

	case source.ExprLogicalOp:
		return tp.evaluateLogical(expr)

	case source.ExprAssign:
		return tp.evaluateAssign(expr)
	}
	return nil, diag.New("unhandled expression kind")
}

// evaluateBase lowers a term followed by zero or more dynamic-member
// follows (`.method(args)`).
func (tp *transpiler) evaluateBase(expr source.Expression) (*ir.InstructionBlob, error) {
	blob, _, err := tp.evaluateBaseDiscardable(expr, false)
	return blob, err
}

// evaluateBaseDiscardable is evaluateBase's statement-context variant: when
// discard is true and the expression's last follow is a dynamic member
// invoke, that call site is built as a void-returning, result-discarded
// call site instead of one that returns a boxed object.
// The second return value reports whether the final blob leaves a value on
// the stack — false only for a discarded trailing member invoke.
func (tp *transpiler) evaluateBaseDiscardable(expr source.Expression, discard bool) (*ir.InstructionBlob, bool, error) {
	blob, termType, err := tp.evaluateTerm(*expr.Term)
	if err != nil {
		return nil, false, err
	}
	leavesValue := true
	for i, follow := range expr.Follows {
		wantDiscard := discard && i == len(expr.Follows)-1
		blob, leavesValue, err = tp.evaluateFollow(blob, termType, follow, wantDiscard)
		if err != nil {
			return nil, false, err
		}
		// A member invocation's result is always dynamically typed.
		termType = model.VariableType{Kind: model.Unspecified}
	}
	return blob, leavesValue, nil
}

// evaluateExpressionDiscardable is evaluateExpression's statement-context
// variant. Only a trailing dynamic member invoke on a bare term chain (or
// an output `<<`) changes shape when discarded; every other expression
// kind always leaves exactly one value.
func (tp *transpiler) evaluateExpressionDiscardable(expr source.Expression) (*ir.InstructionBlob, bool, error) {
	if expr.Kind == source.ExprBase {
		return tp.evaluateBaseDiscardable(expr, true)
	}
	if expr.Kind == source.ExprBinaryOp && expr.Op == "<<" {
		blob, err := tp.evaluateWorldOutput(expr)
		return blob, false, err
	}
	blob, err := tp.evaluateExpression(expr)
	return blob, true, err
}

// evaluateWorldOutput lowers the `<<` output operator: a dynamic member
// invoke of "output" with one argument on the left-hand side, no return
// expected (the source language's world-output convention).
func (tp *transpiler) evaluateWorldOutput(expr source.Expression) (*ir.InstructionBlob, error) {
	lhs, err := tp.evaluateExpression(*expr.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := tp.evaluateExpression(*expr.RHS)
	if err != nil {
		return nil, err
	}
	return tp.emitInvokeMember("output", lhs, []*ir.InstructionBlob{rhs}, true), nil
}

// evaluateTerm lowers one primary term, returning the instruction blob
// plus the term's declared type — Unspecified for everything except an
// identifier pinned to a user type, where the type drives static member
// dispatch in any follows chained off it.
func (tp *transpiler) evaluateTerm(term source.Term) (*ir.InstructionBlob, model.VariableType, error) {
	unspecified := model.VariableType{Kind: model.Unspecified}
	var blob ir.InstructionBlob
	switch term.Kind {
	case source.TermInt:
		// The source language has one numeric type; an int literal is
		// lowered through the same ldc.r4/Single path as a float literal
		// so arithmetic and binder call sites never have to distinguish
		// the two at a dynamic call site.
		blob.Push(ir.LdCR4(float32(term.IntVal)))
		blob.Push(ir.Box(single))
		return &blob, unspecified, nil

	case source.TermFloat:
		blob.Push(ir.LdCR4(term.FloatVal))
		blob.Push(ir.Box(single))
		return &blob, unspecified, nil

	case source.TermNull:
		blob.Push(ir.LdNull)
		return &blob, unspecified, nil

	case source.TermString:
		blob.Push(ir.LdStr(term.StringVal))
		return &blob, unspecified, nil

	case source.TermIdent:
		return tp.evaluateIdent(term.Ident)

	case source.TermReturnValue:
		blob.Push(ir.LdLoc0)
		return &blob, unspecified, nil

	case source.TermExpr:
		sub, err := tp.evaluateExpression(*term.Expr)
		return sub, unspecified, err

	case source.TermCall:
		call, err := tp.evaluateCall(term)
		return call, unspecified, err
	}
	return nil, unspecified, diag.New("unhandled term kind")
}

// evaluateIdent resolves a bare identifier: the implicit receiver `src`,
// then the local scope stack, then the global variable table. A typed
// global load is cast down to its declared class so follows on it can
// dispatch statically.
func (tp *transpiler) evaluateIdent(name string) (*ir.InstructionBlob, model.VariableType, error) {
	var blob ir.InstructionBlob
	if name == "src" && !tp.isStatic {
		blob.Push(ir.LdArg0)
		return &blob, model.VariableType{Kind: model.Unspecified}, nil
	}
	if lv, ok := tp.lookupLocal(name); ok {
		blob.Push(ir.LdLoc(lv.slot))
		return &blob, lv.typ, nil
	}
	if gv, ok := tp.state.GlobalVars[name]; ok {
		blob.Push(ir.LdSFld(fmt.Sprintf("object %s::'%s'", tp.rootClassName, name)))
		if gv.Type.Kind == model.ObjectType {
			blob.Push(ir.CastClass("class " + tp.typeRef(gv.Type.Path)))
		}
		return &blob, gv.Type, nil
	}
	return nil, model.VariableType{}, diag.New(fmt.Sprintf("undefined variable: %s", name))
}

// typeRef renders a user type's class reference: the root class with the
// rooted path's segments nested under it.
func (tp *transpiler) typeRef(p path.Path) string {
	return tp.rootClassName + p.String()
}

// evaluateCall lowers a direct call to a global proc resolved statically
// against the compiler's proc table. Only a static context has unqualified
// root-level calls.
func (tp *transpiler) evaluateCall(term source.Term) (*ir.InstructionBlob, error) {
	if !tp.isStatic {
		return nil, diag.New(fmt.Sprintf("unqualified call in instance context: %s", term.CallName))
	}
	proc, ok := tp.state.GlobalProcs[term.CallName]
	if !ok {
		return nil, diag.New(fmt.Sprintf("undefined proc: %s", term.CallName))
	}

	var blob ir.InstructionBlob
	for _, argExpr := range term.CallArgs {
		argBlob, err := tp.evaluateExpression(argExpr)
		if err != nil {
			return nil, err
		}
		blob.Absorb(argBlob)
	}
	blob.Push(ir.Call(fmt.Sprintf("object %s::'%s'(%s)", tp.rootClassName, term.CallName, objectList(len(proc.Parameters)))))
	return &blob, nil
}

// evaluateFollow lowers one member invocation chained off a base
// expression, e.g. the `.method(A)` in `X.method(A)`.
// An Unspecified receiver goes through a dynamic call site; a receiver
// pinned to a user type dispatches statically, after verifying the type
// and method exist. Returns whether the produced blob leaves a value on
// the stack.
func (tp *transpiler) evaluateFollow(receiver *ir.InstructionBlob, receiverType model.VariableType, follow source.Follow, discard bool) (*ir.InstructionBlob, bool, error) {
	if follow.Kind != source.FollowCall {
		return nil, false, diag.New("unsupported member access")
	}

	args := make([]*ir.InstructionBlob, 0, len(follow.Args))
	for _, a := range follow.Args {
		argBlob, err := tp.evaluateExpression(a)
		if err != nil {
			return nil, false, err
		}
		args = append(args, argBlob)
	}

	if receiverType.Kind == model.Unspecified {
		return tp.emitInvokeMember(follow.Method, receiver, args, discard), !discard, nil
	}

	typ, ok := tp.state.Types[receiverType.Path.Key()]
	if !ok {
		return nil, false, diag.New(fmt.Sprintf("unknown type: %s", receiverType.Path))
	}
	if _, ok := typ.Procs[follow.Method]; !ok {
		return nil, false, diag.New(fmt.Sprintf("unknown proc %s on type %s", follow.Method, receiverType.Path))
	}

	var blob ir.InstructionBlob
	blob.Absorb(receiver)
	for _, a := range args {
		blob.Absorb(a)
	}
	blob.Push(ir.Call(fmt.Sprintf("instance object %s::'%s'(%s)", tp.typeRef(receiverType.Path), follow.Method, objectList(len(args)))))
	return &blob, true, nil
}

func objectList(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			s += ", "
		}
		s += "object"
	}
	return s
}

// evaluateLogical lowers short-circuiting && and ||:
// evaluate the LHS, dup it, map it through Truthy; on the short-circuiting
// outcome (false for &&, true for ||) jump to the join label keeping the
// original LHS value on the stack, otherwise pop it and evaluate the RHS
// in its place. Unlike the binary comparison operators, the result here is
// whichever source-language value won, not a coerced boolean.
func (tp *transpiler) evaluateLogical(expr source.Expression) (*ir.InstructionBlob, error) {
	lhs, err := tp.evaluateExpression(*expr.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := tp.evaluateExpression(*expr.RHS)
	if err != nil {
		return nil, err
	}

	join := fmt.Sprintf("IL_logic_short_%d", tp.uniqueID())

	var blob ir.InstructionBlob
	blob.Absorb(lhs)
	blob.Push(ir.Dup)
	blob.Push(ir.Call(runtimeTruthy))
	if expr.Op == "&&" {
		blob.Push(ir.BrFalse(join))
	} else {
		blob.Push(ir.BrTrue(join))
	}
	blob.Push(ir.Pop)
	blob.Absorb(rhs)
	blob.Label(join)
	return &blob, nil
}

// evaluateAssign lowers `ident = expr`. Only a bare identifier target is
// supported; anything else is a CompilerError, not a panic, since it
// reflects unimplemented language surface rather than a broken invariant.
func (tp *transpiler) evaluateAssign(expr source.Expression) (*ir.InstructionBlob, error) {
	lhs := expr.AssignLHS
	if lhs == nil || lhs.Kind != source.ExprBase || lhs.Term == nil || lhs.Term.Kind != source.TermIdent || len(lhs.Follows) > 0 {
		return nil, diag.New("That lvalue is too complex for me.")
	}
	name := lhs.Term.Ident

	rhs, err := tp.evaluateExpression(*expr.AssignRHS)
	if err != nil {
		return nil, err
	}

	blob := rhs
	blob.Push(ir.Dup)

	if lv, ok := tp.lookupLocal(name); ok {
		blob.Push(ir.StLoc(lv.slot))
		return blob, nil
	}
	if _, ok := tp.state.GlobalVars[name]; ok {
		blob.Push(ir.StSFld(fmt.Sprintf("object %s::'%s'", tp.rootClassName, name)))
		return blob, nil
	}
	return nil, diag.New(fmt.Sprintf("undefined variable: %s", name))
}
