package scenario

import (
	"fmt"

	"github.com/pathway-lang/pathwayc/internal/source"
)

// builder carries the state threaded through one scenario's conversion
// into an in-memory source.Tree/Index: a name to stamp every synthesized
// Location with, and a counter handing out a unique line per proc.
type builder struct {
	name string
	line int
	idx  *source.Index
}

// Build converts the scenario's TreeSpec into the source package's
// fixture types: an in-memory ObjectTree plus the AnnotationIndex
// recoverBody needs to find each proc's statement list by Location.
func (s *Scenario) Build() (source.ObjectTree, source.AnnotationIndex, error) {
	b := &builder{name: s.Name, idx: source.NewIndex()}
	tree := source.NewTree()
	if err := b.fillNode(tree.RootNode(), s.Tree); err != nil {
		return nil, nil, err
	}
	return tree, b.idx, nil
}

func (b *builder) fillNode(node *source.Node, spec TreeSpec) error {
	for name, v := range spec.Vars {
		variable, err := b.buildVar(v)
		if err != nil {
			return fmt.Errorf("var %s: %w", name, err)
		}
		node.AddVar(name, variable)
	}

	for name, p := range spec.Procs {
		value, err := b.buildProc(p)
		if err != nil {
			return fmt.Errorf("proc %s: %w", name, err)
		}
		node.AddProc(name, value)
	}

	for name, childSpec := range spec.Children {
		childPath := append(append(source.TypePath{}, node.Path()...), name)
		child := source.NewNode(childPath)
		if err := b.fillNode(child, childSpec); err != nil {
			return fmt.Errorf("child %s: %w", name, err)
		}
		node.AddChild(child)
	}
	return nil
}

func (b *builder) buildVar(v VarSpec) (source.Variable, error) {
	decl := &source.Declaration{IsConst: v.IsConst, IsStatic: v.IsStatic}
	value := source.Value{Location: b.location()}

	switch {
	case v.Const != nil:
		value.Constant = v.Const.toConstant()
	case v.Expr != nil:
		expr, err := v.Expr.toExpression()
		if err != nil {
			return source.Variable{}, err
		}
		value.Expression = &expr
	}

	return source.Variable{Declaration: decl, Value: value}, nil
}

func (b *builder) buildProc(p ProcSpec) (source.Value, error) {
	loc := b.location()

	params := make([]source.Parameter, len(p.Params))
	for i, name := range p.Params {
		params[i] = source.Parameter{Name: name}
	}

	stmts := make([]source.Statement, 0, len(p.Body))
	for _, s := range p.Body {
		stmt, err := s.toStatement()
		if err != nil {
			return source.Value{}, err
		}
		stmts = append(stmts, stmt)
	}

	// recoverBody (internal/transpile/transpile.go) looks up the
	// ProcHeader annotation at the proc's own Location, then the
	// ProcBodyDetails annotation one column past that header's end.
	headerEnd := loc
	headerEnd.Column = 1
	b.idx.Add(loc, source.Annotation{
		Kind:  source.ProcHeader,
		Range: source.Range{Start: loc, End: headerEnd},
	})
	bodyLoc := headerEnd
	bodyLoc.Column++
	b.idx.Add(bodyLoc, source.Annotation{
		Kind:       source.ProcBodyDetails,
		Statements: stmts,
	})

	return source.Value{Location: loc, Parameters: params}, nil
}

func (c *ConstSpec) toConstant() *source.ConstantLiteral {
	switch {
	case c.Int != nil:
		return &source.ConstantLiteral{Kind: source.ConstantInt, Int: *c.Int}
	case c.Float != nil:
		return &source.ConstantLiteral{Kind: source.ConstantFloat, Float: *c.Float}
	case c.String != nil:
		return &source.ConstantLiteral{Kind: source.ConstantString, String: *c.String}
	default:
		return &source.ConstantLiteral{Kind: source.ConstantNull}
	}
}

func (e *ExprSpec) toExpression() (source.Expression, error) {
	switch {
	case e.BinOp != nil:
		lhs, err := e.BinOp.LHS.toExpression()
		if err != nil {
			return source.Expression{}, err
		}
		rhs, err := e.BinOp.RHS.toExpression()
		if err != nil {
			return source.Expression{}, err
		}
		return source.Expression{Kind: source.ExprBinaryOp, Op: e.BinOp.Op, LHS: &lhs, RHS: &rhs}, nil

	case e.LogicalOp != nil:
		lhs, err := e.LogicalOp.LHS.toExpression()
		if err != nil {
			return source.Expression{}, err
		}
		rhs, err := e.LogicalOp.RHS.toExpression()
		if err != nil {
			return source.Expression{}, err
		}
		return source.Expression{Kind: source.ExprLogicalOp, Op: e.LogicalOp.Op, LHS: &lhs, RHS: &rhs}, nil

	case e.Assign != nil:
		lhs, err := e.Assign.LHS.toExpression()
		if err != nil {
			return source.Expression{}, err
		}
		rhs, err := e.Assign.RHS.toExpression()
		if err != nil {
			return source.Expression{}, err
		}
		return source.Expression{Kind: source.ExprAssign, AssignLHS: &lhs, AssignRHS: &rhs}, nil
	}

	term, err := e.toTerm()
	if err != nil {
		return source.Expression{}, err
	}

	follows := make([]source.Follow, len(e.Follows))
	for i, f := range e.Follows {
		args := make([]source.Expression, len(f.Args))
		for j, a := range f.Args {
			argExpr, err := a.toExpression()
			if err != nil {
				return source.Expression{}, err
			}
			args[j] = argExpr
		}
		follows[i] = source.Follow{Kind: source.FollowCall, Method: f.Method, Args: args}
	}

	return source.Expression{Kind: source.ExprBase, Term: &term, Follows: follows}, nil
}

func (e *ExprSpec) toTerm() (source.Term, error) {
	switch {
	case e.Int != nil:
		return source.Term{Kind: source.TermInt, IntVal: *e.Int}, nil
	case e.Float != nil:
		return source.Term{Kind: source.TermFloat, FloatVal: *e.Float}, nil
	case e.String != nil:
		return source.Term{Kind: source.TermString, StringVal: *e.String}, nil
	case e.Null:
		return source.Term{Kind: source.TermNull}, nil
	case e.Ident != nil:
		return source.Term{Kind: source.TermIdent, Ident: *e.Ident}, nil
	case e.ReturnValue:
		return source.Term{Kind: source.TermReturnValue}, nil
	case e.Paren != nil:
		sub, err := e.Paren.toExpression()
		if err != nil {
			return source.Term{}, err
		}
		return source.Term{Kind: source.TermExpr, Expr: &sub}, nil
	case e.Call != nil:
		args := make([]source.Expression, len(e.Call.Args))
		for i, a := range e.Call.Args {
			argExpr, err := a.toExpression()
			if err != nil {
				return source.Term{}, err
			}
			args[i] = argExpr
		}
		return source.Term{Kind: source.TermCall, CallName: e.Call.Name, CallArgs: args}, nil
	}
	return source.Term{}, fmt.Errorf("scenario: expression node has no recognized form")
}

func (s *StmtSpec) toStatement() (source.Statement, error) {
	switch {
	case s.Expr != nil:
		expr, err := s.Expr.toExpression()
		if err != nil {
			return source.Statement{}, err
		}
		return source.Statement{Kind: source.StmtExpr, Expr: expr}, nil

	case s.Var != nil:
		stmt := source.Statement{Kind: source.StmtVar, VarName: s.Var.Name}
		if s.Var.Init != nil {
			init, err := s.Var.Init.toExpression()
			if err != nil {
				return source.Statement{}, err
			}
			stmt.VarInit = &init
		}
		return stmt, nil

	case s.If != nil:
		branches := make([]source.IfBranch, len(s.If.Branches))
		for i, br := range s.If.Branches {
			cond, err := br.Cond.toExpression()
			if err != nil {
				return source.Statement{}, err
			}
			body, err := toStatements(br.Body)
			if err != nil {
				return source.Statement{}, err
			}
			branches[i] = source.IfBranch{Cond: cond, Body: body}
		}
		elseBody, err := toStatements(s.If.Else)
		if err != nil {
			return source.Statement{}, err
		}
		return source.Statement{Kind: source.StmtIf, IfBranches: branches, ElseBody: elseBody}, nil

	case s.While != nil:
		return loopStatement(source.StmtWhile, *s.While)

	case s.DoWhile != nil:
		return loopStatement(source.StmtDoWhile, *s.DoWhile)

	case s.Return != nil:
		val, err := s.Return.toExpression()
		if err != nil {
			return source.Statement{}, err
		}
		return source.Statement{Kind: source.StmtReturn, ReturnValue: &val}, nil

	case s.ReturnVoid:
		return source.Statement{Kind: source.StmtReturn}, nil

	case s.Break:
		return source.Statement{Kind: source.StmtBreak}, nil

	case s.Continue:
		return source.Statement{Kind: source.StmtContinue}, nil
	}
	return source.Statement{}, fmt.Errorf("scenario: statement node has no recognized form")
}

func loopStatement(kind source.StatementKind, l LoopSpec) (source.Statement, error) {
	cond, err := l.Cond.toExpression()
	if err != nil {
		return source.Statement{}, err
	}
	body, err := toStatements(l.Body)
	if err != nil {
		return source.Statement{}, err
	}
	return source.Statement{Kind: kind, Cond: cond, Body: body}, nil
}

func toStatements(specs []StmtSpec) ([]source.Statement, error) {
	out := make([]source.Statement, 0, len(specs))
	for _, s := range specs {
		stmt, err := s.toStatement()
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}
