package transpile

import (
	"fmt"

	"github.com/pathway-lang/pathwayc/internal/diag"
	"github.com/pathway-lang/pathwayc/internal/ir"
	"github.com/pathway-lang/pathwayc/internal/source"
)

// writeStatement lowers one statement, appending to tp.code. The invariant
// held across every branch here: the evaluation stack depth after a
// statement equals its depth before.
func (tp *transpiler) writeStatement(stmt source.Statement) error {
	switch stmt.Kind {
	case source.StmtExpr:
		blob, leavesValue, err := tp.evaluateExpressionDiscardable(stmt.Expr)
		if err != nil {
			return err
		}
		tp.code.Absorb(blob)
		if leavesValue {
			tp.code.Push(ir.Pop)
		}
		return nil

	case source.StmtVar:
		slot := tp.declareLocal(stmt.VarName, declaredType(stmt.VarType))
		if stmt.VarInit != nil {
			blob, err := tp.evaluateExpression(*stmt.VarInit)
			if err != nil {
				return err
			}
			tp.code.Absorb(blob)
		} else {
			tp.code.Push(ir.LdNull)
		}
		tp.code.Push(ir.StLoc(slot))
		return nil

	case source.StmtIf:
		return tp.writeIf(stmt)

	case source.StmtWhile:
		return tp.writeWhile(stmt)

	case source.StmtDoWhile:
		return tp.writeDoWhile(stmt)

	case source.StmtReturn:
		if stmt.ReturnValue == nil {
			tp.code.Push(ir.LdNull)
		} else {
			blob, err := tp.evaluateExpression(*stmt.ReturnValue)
			if err != nil {
				return err
			}
			tp.code.Absorb(blob)
		}
		tp.code.Push(ir.Ret)
		return nil

	case source.StmtBreak:
		if stmt.Label != nil {
			return diag.New("Labelled loop flow control is not implemented yet.")
		}
		loop, ok := tp.innermostLoop()
		if !ok {
			return diag.New("Encountered break outside loop")
		}
		tp.code.Push(ir.Br(loop.exit))
		return nil

	case source.StmtContinue:
		if stmt.Label != nil {
			return diag.New("Labelled loop flow control is not implemented yet.")
		}
		loop, ok := tp.innermostLoop()
		if !ok {
			return diag.New("Encountered continue outside loop")
		}
		tp.code.Push(ir.Br(loop.repeat))
		return nil
	}
	return diag.New("unhandled statement kind")
}

// writeBody lowers a nested statement block in its own lexical scope.
func (tp *transpiler) writeBody(body []source.Statement) error {
	tp.pushScope()
	defer tp.popScope()
	for _, s := range body {
		if err := tp.writeStatement(s); err != nil {
			return err
		}
	}
	return nil
}

// writeIf lowers an if/else-if/else chain as a cascade of conditional
// branches, one shared end label, one chain-wide id: branch i sits at
// `ic_<id>_<i>`, a false condition falls to the next branch label (or the
// else/end label after the last branch), every taken branch ends br end.
func (tp *transpiler) writeIf(stmt source.Statement) error {
	id := tp.uniqueID()
	end := fmt.Sprintf("ic_%d_end", id)
	elseLabel := fmt.Sprintf("ic_%d_else", id)

	for i, branch := range stmt.IfBranches {
		tp.code.Label(fmt.Sprintf("ic_%d_%d", id, i))
		tp.code.Push(ir.Nop)
		condBlob, err := tp.evaluateBoolean(branch.Cond)
		if err != nil {
			return err
		}
		tp.code.Absorb(condBlob)

		next := end
		switch {
		case i+1 < len(stmt.IfBranches):
			next = fmt.Sprintf("ic_%d_%d", id, i+1)
		case len(stmt.ElseBody) > 0:
			next = elseLabel
		}
		tp.code.Push(ir.BrFalse(next))

		if err := tp.writeBody(branch.Body); err != nil {
			return err
		}
		tp.code.Push(ir.Br(end))
	}

	if len(stmt.ElseBody) > 0 {
		tp.code.Label(elseLabel)
		if err := tp.writeBody(stmt.ElseBody); err != nil {
			return err
		}
	}
	tp.code.Label(end)
	tp.code.Push(ir.Nop)
	return nil
}

func (tp *transpiler) writeWhile(stmt source.Statement) error {
	id := tp.uniqueID()
	test := fmt.Sprintf("w_%d", id)
	exit := fmt.Sprintf("e_%d", id)

	tp.code.Label(test)
	condBlob, err := tp.evaluateBoolean(stmt.Cond)
	if err != nil {
		return err
	}
	tp.code.Absorb(condBlob)
	tp.code.Push(ir.BrFalse(exit))

	tp.pushLoop(test, exit)
	err = tp.writeBody(stmt.Body)
	tp.popLoop()
	if err != nil {
		return err
	}

	tp.code.Push(ir.Br(test))
	tp.code.Label(exit)
	tp.code.Push(ir.Nop)
	return nil
}

func (tp *transpiler) writeDoWhile(stmt source.Statement) error {
	id := tp.uniqueID()
	repeat := fmt.Sprintf("dr_%d", id)
	test := fmt.Sprintf("dw_%d", id)
	exit := fmt.Sprintf("de_%d", id)

	tp.code.Label(repeat)

	tp.pushLoop(repeat, exit)
	err := tp.writeBody(stmt.Body)
	tp.popLoop()
	if err != nil {
		return err
	}

	tp.code.Label(test)
	tp.code.Push(ir.Nop)
	condBlob, err := tp.evaluateBoolean(stmt.Cond)
	if err != nil {
		return err
	}
	tp.code.Absorb(condBlob)
	tp.code.Push(ir.BrTrue(repeat))
	tp.code.Label(exit)
	tp.code.Push(ir.Nop)
	return nil
}

// evaluateBoolean lowers expr and maps its dynamically-typed result to a
// primitive bool via the runtime support library's Truthy helper, for use
// as a branch condition.
func (tp *transpiler) evaluateBoolean(expr source.Expression) (*ir.InstructionBlob, error) {
	blob, err := tp.evaluateExpression(expr)
	if err != nil {
		return nil, err
	}
	blob.Push(ir.Call(runtimeTruthy))
	return blob, nil
}
