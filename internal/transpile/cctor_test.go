package transpile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pathway-lang/pathwayc/internal/builtins"
	"github.com/pathway-lang/pathwayc/internal/diag"
	"github.com/pathway-lang/pathwayc/internal/ir"
	"github.com/pathway-lang/pathwayc/internal/model"
	"github.com/pathway-lang/pathwayc/internal/source"
)

func cctorText(t *testing.T, state *model.State) (string, *diag.Sink) {
	t.Helper()
	cls := ir.NewClass(rootClass, rootClass, ir.ClassPublic, "")
	sink := &diag.Sink{}
	m := BuildGlobalCctor(state, cls, rootClass, sink)
	require.Equal(t, 16, m.MaxStack)
	require.True(t, m.IsRTSpecialName)
	require.True(t, m.IsSpecialName)
	var out strings.Builder
	require.NoError(t, m.Write(&out))
	return out.String(), sink
}

func TestCctorConstructsWorldFirst(t *testing.T) {
	state := model.NewState()
	builtins.Install(state)
	state.GlobalVars["aardvark"] = &model.GlobalVar{
		Name: "aardvark",
		Initializer: &model.VariableInitializer{
			Kind:     model.InitConstant,
			Constant: model.ConstantValue{Kind: model.ConstInt, Int: 1},
		},
	}

	text, sink := cctorText(t, state)
	require.False(t, sink.HasErrors())

	worldIdx := strings.Index(text, "newobj instance void "+rootClass+"/world::.ctor()")
	aardvarkIdx := strings.Index(text, "stsfld object "+rootClass+"::'aardvark'")
	require.GreaterOrEqual(t, worldIdx, 0)
	require.GreaterOrEqual(t, aardvarkIdx, 0)
	require.Less(t, worldIdx, aardvarkIdx, "world singleton must be constructed before any initializer runs")
}

func TestCctorInitializesGlobalsInNameOrder(t *testing.T) {
	state := model.NewState()
	init := func(v float32) *model.VariableInitializer {
		return &model.VariableInitializer{
			Kind:     model.InitConstant,
			Constant: model.ConstantValue{Kind: model.ConstFloat, Float: v},
		}
	}
	state.GlobalVars["zeta"] = &model.GlobalVar{Name: "zeta", Initializer: init(1)}
	state.GlobalVars["alpha"] = &model.GlobalVar{Name: "alpha", Initializer: init(2)}

	text, _ := cctorText(t, state)
	require.Less(t,
		strings.Index(text, "stsfld object "+rootClass+"::'alpha'"),
		strings.Index(text, "stsfld object "+rootClass+"::'zeta'"))
}

func TestCctorConstantFloatBoxesThroughSingle(t *testing.T) {
	state := model.NewState()
	state.GlobalVars["PI"] = &model.GlobalVar{
		Name:       "PI",
		Mutability: model.Constant,
		Initializer: &model.VariableInitializer{
			Kind:     model.InitConstant,
			Constant: model.ConstantValue{Kind: model.ConstFloat, Float: 3.14},
		},
	}

	text, _ := cctorText(t, state)
	require.Contains(t, text, "ldc.r4 3.14")
	require.Contains(t, text, "box [mscorlib]System.Single")
	require.Contains(t, text, "stsfld object "+rootClass+"::'PI'")
}

func TestCctorExpressionInitializerGoesThroughCallSite(t *testing.T) {
	state := model.NewState()
	state.GlobalVars["x"] = &model.GlobalVar{
		Name: "x",
		Initializer: &model.VariableInitializer{
			Kind: model.InitExpression,
			Expr: &source.Expression{
				Kind: source.ExprBinaryOp,
				Op:   "+",
				LHS:  intExpr(2),
				RHS:  intExpr(3),
			},
		},
	}

	text, sink := cctorText(t, state)
	require.False(t, sink.HasErrors())
	require.Contains(t, text, "ldc.r4 2")
	require.Contains(t, text, "ldc.r4 3")
	require.Contains(t, text, "BinaryOperation")
	require.Contains(t, text, "stsfld object "+rootClass+"::'x'")
}

func TestCctorReportsExpressionErrorAndContinues(t *testing.T) {
	state := model.NewState()
	state.GlobalVars["broken"] = &model.GlobalVar{
		Name: "broken",
		Initializer: &model.VariableInitializer{
			Kind: model.InitExpression,
			Expr: &source.Expression{
				Kind: source.ExprBinaryOp,
				Op:   "~>",
				LHS:  intExpr(1),
				RHS:  intExpr(2),
			},
		},
	}
	state.GlobalVars["fine"] = &model.GlobalVar{
		Name: "fine",
		Initializer: &model.VariableInitializer{
			Kind:     model.InitConstant,
			Constant: model.ConstantValue{Kind: model.ConstString, String: "ok"},
		},
	}

	text, sink := cctorText(t, state)
	require.True(t, sink.HasErrors())
	require.NotContains(t, text, "stsfld object "+rootClass+"::'broken'")
	require.Contains(t, text, "stsfld object "+rootClass+"::'fine'")
	require.Contains(t, text, "ret")
}
