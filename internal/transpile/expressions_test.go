package transpile

import (
	"strconv"
	"strings"
	"testing"

	"github.com/pathway-lang/pathwayc/internal/builtins"
	"github.com/pathway-lang/pathwayc/internal/ir"
	"github.com/pathway-lang/pathwayc/internal/model"
	"github.com/pathway-lang/pathwayc/internal/source"
	"github.com/stretchr/testify/require"
)

func newTranspiler(state *model.State) *transpiler {
	cls := ir.NewClass("Probe", rootClass+"/Probe", ir.ClassNestedPublic, "")
	tp := &transpiler{class: cls, rootClassName: rootClass, procName: "probe", isStatic: true, state: state}
	tp.pushScope()
	return tp
}

func writeOut(t *testing.T, blob *ir.InstructionBlob) string {
	t.Helper()
	var out strings.Builder
	require.NoError(t, blob.Write(&out))
	return out.String()
}

func intExpr(v int32) *source.Expression {
	return &source.Expression{Kind: source.ExprBase, Term: &source.Term{Kind: source.TermInt, IntVal: v}}
}

func identExpr(name string) *source.Expression {
	return &source.Expression{Kind: source.ExprBase, Term: &source.Term{Kind: source.TermIdent, Ident: name}}
}

func TestEvaluateBinaryOpUsesAddOpCode(t *testing.T) {
	tp := newTranspiler(model.NewState())
	expr := source.Expression{Kind: source.ExprBinaryOp, Op: "+", LHS: intExpr(1), RHS: intExpr(2)}
	blob, err := tp.evaluateExpression(expr)
	require.NoError(t, err)
	text := writeOut(t, blob)
	require.Contains(t, text, "BinaryOperation")
	require.Contains(t, text, "ldc.i4 0") // Add's binder op code
	require.Contains(t, text, "'<>_0'")
}

func TestEvaluateComparisonCoercesBoolToFloat(t *testing.T) {
	tp := newTranspiler(model.NewState())
	expr := source.Expression{Kind: source.ExprBinaryOp, Op: "<", LHS: intExpr(1), RHS: intExpr(2)}
	blob, err := tp.evaluateExpression(expr)
	require.NoError(t, err)
	text := writeOut(t, blob)
	require.Contains(t, text, "ldc.i4 20") // LessThan's binder op code
	require.Contains(t, text, "unbox.any [mscorlib]System.Boolean")
	require.Contains(t, text, "conv.r4")
	require.Contains(t, text, "box [mscorlib]System.Single")
}

func TestEvaluateBinaryOpRejectsUnknownOperator(t *testing.T) {
	tp := newTranspiler(model.NewState())
	expr := source.Expression{Kind: source.ExprBinaryOp, Op: "~>", LHS: intExpr(1), RHS: intExpr(2)}
	_, err := tp.evaluateExpression(expr)
	require.EqualError(t, err, "Unknown op: ~>")
}

func TestEvaluateFollowOnUntypedReceiverEmitsInvokeMember(t *testing.T) {
	tp := newTranspiler(model.NewState())
	tp.declareLocal("thing", model.VariableType{Kind: model.Unspecified})

	expr := source.Expression{
		Kind: source.ExprBase,
		Term: &source.Term{Kind: source.TermIdent, Ident: "thing"},
		Follows: []source.Follow{
			{Kind: source.FollowCall, Method: "poke", Args: []source.Expression{*intExpr(1)}},
		},
	}
	blob, err := tp.evaluateExpression(expr)
	require.NoError(t, err)
	text := writeOut(t, blob)
	require.Contains(t, text, "InvokeMember")
	require.Contains(t, text, `"poke"`)
	require.Contains(t, text, "Invoke(!0, !1, !2)")
}

func TestEvaluateFollowOnTypedReceiverCallsStatically(t *testing.T) {
	state := model.NewState()
	builtins.Install(state)
	tp := newTranspiler(state)

	expr := source.Expression{
		Kind: source.ExprBase,
		Term: &source.Term{Kind: source.TermIdent, Ident: "world"},
		Follows: []source.Follow{
			{Kind: source.FollowCall, Method: "output", Args: []source.Expression{
				{Kind: source.ExprBase, Term: &source.Term{Kind: source.TermString, StringVal: "hi"}},
			}},
		},
	}
	blob, err := tp.evaluateExpression(expr)
	require.NoError(t, err)
	text := writeOut(t, blob)
	require.Contains(t, text, "ldsfld object "+rootClass+"::'world'")
	require.Contains(t, text, "castclass class "+rootClass+"/world")
	require.Contains(t, text, "call instance object "+rootClass+"/world::'output'(object)")
	require.NotContains(t, text, "InvokeMember")
}

func TestEvaluateFollowOnTypedReceiverUnknownMethodIsError(t *testing.T) {
	state := model.NewState()
	builtins.Install(state)
	tp := newTranspiler(state)

	expr := source.Expression{
		Kind:    source.ExprBase,
		Term:    &source.Term{Kind: source.TermIdent, Ident: "world"},
		Follows: []source.Follow{{Kind: source.FollowCall, Method: "explode"}},
	}
	_, err := tp.evaluateExpression(expr)
	require.Error(t, err)
}

func TestWorldOutputOperatorIsDiscardedInvokeMember(t *testing.T) {
	state := model.NewState()
	builtins.Install(state)
	tp := newTranspiler(state)

	expr := source.Expression{
		Kind: source.ExprBinaryOp,
		Op:   "<<",
		LHS:  identExpr("world"),
		RHS:  &source.Expression{Kind: source.ExprBase, Term: &source.Term{Kind: source.TermString, StringVal: "hi"}},
	}
	blob, leavesValue, err := tp.evaluateExpressionDiscardable(expr)
	require.NoError(t, err)
	require.False(t, leavesValue)
	text := writeOut(t, blob)
	require.Contains(t, text, "InvokeMember")
	require.Contains(t, text, `"output"`)
	require.Contains(t, text, "ldc.i4 256") // ResultDiscarded binder flags
	require.Contains(t, text, "System.Action`3")
	require.Contains(t, text, "instance void")
}

func TestEvaluateLogicalAndShortCircuits(t *testing.T) {
	tp := newTranspiler(model.NewState())
	expr := source.Expression{
		Kind: source.ExprLogicalOp,
		Op:   "&&",
		LHS:  &source.Expression{Kind: source.ExprBase, Term: &source.Term{Kind: source.TermNull}},
		RHS:  &source.Expression{Kind: source.ExprBase, Term: &source.Term{Kind: source.TermNull}},
	}
	blob, err := tp.evaluateExpression(expr)
	require.NoError(t, err)
	text := writeOut(t, blob)
	require.Contains(t, text, "dup")
	require.Contains(t, text, "brfalse")
	require.Contains(t, text, "IL_logic_short")
}

func TestEvaluateAssignToLocal(t *testing.T) {
	tp := newTranspiler(model.NewState())
	slot := tp.declareLocal("x", model.VariableType{Kind: model.Unspecified})
	expr := source.Expression{
		Kind:      source.ExprAssign,
		AssignLHS: identExpr("x"),
		AssignRHS: intExpr(7),
	}
	blob, err := tp.evaluateExpression(expr)
	require.NoError(t, err)
	text := writeOut(t, blob)
	require.Contains(t, text, "dup")
	require.Contains(t, text, "stloc "+strconv.Itoa(int(slot)))
}

func TestEvaluateAssignRejectsComplexTarget(t *testing.T) {
	tp := newTranspiler(model.NewState())
	expr := source.Expression{
		Kind: source.ExprAssign,
		AssignLHS: &source.Expression{
			Kind:    source.ExprBase,
			Term:    &source.Term{Kind: source.TermIdent, Ident: "world"},
			Follows: []source.Follow{{Kind: source.FollowCall, Method: "output"}},
		},
		AssignRHS: intExpr(1),
	}
	_, err := tp.evaluateExpression(expr)
	require.EqualError(t, err, "That lvalue is too complex for me.")
}

func TestEvaluateCallResolvesGlobalProc(t *testing.T) {
	state := model.NewState()
	builtins.Install(state)
	tp := newTranspiler(state)

	term := source.Term{Kind: source.TermCall, CallName: "sin", CallArgs: []source.Expression{
		{Kind: source.ExprBase, Term: &source.Term{Kind: source.TermFloat, FloatVal: 1.5}},
	}}
	blob, _, err := tp.evaluateTerm(term)
	require.NoError(t, err)
	text := writeOut(t, blob)
	require.Contains(t, text, "call object "+rootClass+"::'sin'(object)")
}

func TestEvaluateCallUndefinedProcIsError(t *testing.T) {
	tp := newTranspiler(model.NewState())
	term := source.Term{Kind: source.TermCall, CallName: "nope"}
	_, _, err := tp.evaluateTerm(term)
	require.Error(t, err)
}

func TestEvaluateCallInInstanceContextIsError(t *testing.T) {
	state := model.NewState()
	builtins.Install(state)
	tp := newTranspiler(state)
	tp.isStatic = false

	term := source.Term{Kind: source.TermCall, CallName: "sin"}
	_, _, err := tp.evaluateTerm(term)
	require.Error(t, err)
}
