package ir

// Mutator rewrites an IR tree. A pass implements the interface, handles
// the node kinds it rewrites, and calls MutateExprChildren or
// MutateStmtChildren for everything else so the traversal recurses.
type Mutator interface {
	MutateExpr(Expr) Expr
	MutateStmt(Stmt) Stmt
}

// MutateExprChildren rebuilds e with every child expression passed
// through m. Nodes without children are returned unchanged.
func MutateExprChildren(m Mutator, e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		return &Add{A: m.MutateExpr(v.A), B: m.MutateExpr(v.B)}
	case *Sub:
		return &Sub{A: m.MutateExpr(v.A), B: m.MutateExpr(v.B)}
	case *Mul:
		return &Mul{A: m.MutateExpr(v.A), B: m.MutateExpr(v.B)}
	case *Div:
		return &Div{A: m.MutateExpr(v.A), B: m.MutateExpr(v.B)}
	case *Cast:
		return &Cast{To: v.To, Value: m.MutateExpr(v.Value)}
	case *Load:
		return &Load{Name: v.Name, Coords: mutateExprs(m, v.Coords)}
	case *Call:
		return &Call{Name: v.Name, Args: mutateExprs(m, v.Args)}
	}
	return e
}

// MutateStmtChildren rebuilds s with every child node passed through m.
func MutateStmtChildren(m Mutator, s Stmt) Stmt {
	switch v := s.(type) {
	case *Store:
		return &Store{
			Name:   v.Name,
			Coords: mutateExprs(m, v.Coords),
			Values: mutateExprs(m, v.Values),
		}
	case *Evaluate:
		return &Evaluate{Value: m.MutateExpr(v.Value)}
	case *Let:
		return &Let{Name: v.Name, Value: m.MutateExpr(v.Value), Body: m.MutateStmt(v.Body)}
	case *For:
		return &For{
			Name:   v.Name,
			Min:    m.MutateExpr(v.Min),
			Extent: m.MutateExpr(v.Extent),
			Kind:   v.Kind,
			Body:   m.MutateStmt(v.Body),
		}
	case *Block:
		stmts := make([]Stmt, len(v.Stmts))
		for i, st := range v.Stmts {
			stmts[i] = m.MutateStmt(st)
		}
		return &Block{Stmts: stmts}
	}
	return s
}

func mutateExprs(m Mutator, exprs []Expr) []Expr {
	out := make([]Expr, len(exprs))
	for i, e := range exprs {
		out[i] = m.MutateExpr(e)
	}
	return out
}

// substitutor replaces free references to a variable with an expression.
type substitutor struct {
	name string
	repl Expr
}

func (sub *substitutor) MutateExpr(e Expr) Expr {
	if v, ok := e.(*Var); ok && v.Name == sub.name {
		return sub.repl
	}
	return MutateExprChildren(sub, e)
}

func (sub *substitutor) MutateStmt(s Stmt) Stmt {
	// A Let or For that rebinds the name shadows the substitution in its
	// body.
	switch v := s.(type) {
	case *Let:
		if v.Name == sub.name {
			return &Let{Name: v.Name, Value: sub.MutateExpr(v.Value), Body: v.Body}
		}
	case *For:
		if v.Name == sub.name {
			return &For{
				Name:   v.Name,
				Min:    sub.MutateExpr(v.Min),
				Extent: sub.MutateExpr(v.Extent),
				Kind:   v.Kind,
				Body:   v.Body,
			}
		}
	}
	return MutateStmtChildren(sub, s)
}

// SubstituteExpr replaces free references to name in e with repl.
func SubstituteExpr(name string, repl Expr, e Expr) Expr {
	return (&substitutor{name: name, repl: repl}).MutateExpr(e)
}

// Substitute replaces free references to name in s with repl.
func Substitute(name string, repl Expr, s Stmt) Stmt {
	return (&substitutor{name: name, repl: repl}).MutateStmt(s)
}
