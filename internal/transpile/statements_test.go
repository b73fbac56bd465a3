package transpile

import (
	"testing"

	"github.com/pathway-lang/pathwayc/internal/model"
	"github.com/pathway-lang/pathwayc/internal/source"
	"github.com/stretchr/testify/require"
)

func nullExpr() source.Expression {
	return source.Expression{Kind: source.ExprBase, Term: &source.Term{Kind: source.TermNull}}
}

func TestWriteIfEmitsBranchPerBranch(t *testing.T) {
	tp := newTranspiler(model.NewState())
	stmt := source.Statement{
		Kind: source.StmtIf,
		IfBranches: []source.IfBranch{
			{Cond: nullExpr(), Body: []source.Statement{{Kind: source.StmtBreak}}},
		},
		ElseBody: []source.Statement{{Kind: source.StmtContinue}},
	}
	tp.pushLoop("w_9", "e_9")
	require.NoError(t, tp.writeStatement(stmt))
	text := writeOut(t, &tp.code)
	require.Contains(t, text, "PathwayRuntime.Runtime::Truthy")
	require.Contains(t, text, "ic_0_0: nop")
	require.Contains(t, text, "brfalse ic_0_else")
	require.Contains(t, text, "br ic_0_end")
	require.Contains(t, text, "br e_9")
	require.Contains(t, text, "br w_9")
	require.Contains(t, text, "ic_0_end: nop")
}

func TestWriteIfChainFallsToNextBranchThenEnd(t *testing.T) {
	tp := newTranspiler(model.NewState())
	stmt := source.Statement{
		Kind: source.StmtIf,
		IfBranches: []source.IfBranch{
			{Cond: nullExpr()},
			{Cond: nullExpr()},
		},
	}
	require.NoError(t, tp.writeStatement(stmt))
	text := writeOut(t, &tp.code)
	require.Contains(t, text, "brfalse ic_0_1")
	require.Contains(t, text, "brfalse ic_0_end")
	require.NotContains(t, text, "ic_0_else")
}

func TestWriteWhileLoopLabels(t *testing.T) {
	tp := newTranspiler(model.NewState())
	stmt := source.Statement{
		Kind: source.StmtWhile,
		Cond: nullExpr(),
		Body: []source.Statement{{Kind: source.StmtBreak}},
	}
	require.NoError(t, tp.writeStatement(stmt))
	text := writeOut(t, &tp.code)
	require.Contains(t, text, "w_0:")
	require.Contains(t, text, "brfalse e_0")
	require.Contains(t, text, "br e_0")
	require.Contains(t, text, "br w_0")
	require.Contains(t, text, "e_0: nop")
}

func TestWriteDoWhileLoopLabels(t *testing.T) {
	tp := newTranspiler(model.NewState())
	stmt := source.Statement{
		Kind: source.StmtDoWhile,
		Cond: nullExpr(),
		Body: []source.Statement{{Kind: source.StmtContinue}},
	}
	require.NoError(t, tp.writeStatement(stmt))
	text := writeOut(t, &tp.code)
	require.Contains(t, text, "dr_0:")
	require.Contains(t, text, "dw_0: nop")
	require.Contains(t, text, "brtrue dr_0")
	require.Contains(t, text, "br dr_0")
	require.Contains(t, text, "de_0: nop")
}

func TestBreakOutsideLoopIsError(t *testing.T) {
	tp := newTranspiler(model.NewState())
	err := tp.writeStatement(source.Statement{Kind: source.StmtBreak})
	require.EqualError(t, err, "Encountered break outside loop")
}

func TestContinueOutsideLoopIsError(t *testing.T) {
	tp := newTranspiler(model.NewState())
	err := tp.writeStatement(source.Statement{Kind: source.StmtContinue})
	require.EqualError(t, err, "Encountered continue outside loop")
}

func TestLabeledContinueIsError(t *testing.T) {
	tp := newTranspiler(model.NewState())
	tp.pushLoop("w_0", "e_0")
	label := "outer"
	err := tp.writeStatement(source.Statement{Kind: source.StmtContinue, Label: &label})
	require.EqualError(t, err, "Labelled loop flow control is not implemented yet.")
}

func TestVarDeclWithoutInitializerDefaultsNull(t *testing.T) {
	tp := newTranspiler(model.NewState())
	require.NoError(t, tp.writeStatement(source.Statement{Kind: source.StmtVar, VarName: "x"}))
	text := writeOut(t, &tp.code)
	require.Contains(t, text, "ldnull")
	require.Contains(t, text, "stloc")
}

func TestReturnWithValueEvaluatesThenRets(t *testing.T) {
	tp := newTranspiler(model.NewState())
	val := nullExpr()
	require.NoError(t, tp.writeStatement(source.Statement{Kind: source.StmtReturn, ReturnValue: &val}))
	require.Equal(t, "ldnull\nret\n", writeOut(t, &tp.code))
}

func TestReturnWithoutValueLoadsNull(t *testing.T) {
	tp := newTranspiler(model.NewState())
	require.NoError(t, tp.writeStatement(source.Statement{Kind: source.StmtReturn}))
	require.Equal(t, "ldnull\nret\n", writeOut(t, &tp.code))
}
