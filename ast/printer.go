package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// printer renders the AST in the S-expression-like form used by the
// --dump-ast command-line flag. It implements both visitor interfaces
// and always returns a string.
type printer struct{}

// Print renders the full program rooted at g.
func Print(g Global) string {
	p := printer{}
	return g.Accept(p).(string)
}

func (p printer) VisitNumber(n Number) any {
	return strconv.FormatInt(n.Value, 10)
}

func (p printer) VisitVariable(va Variable) any {
	return va.Name
}

func (p printer) VisitUnary(u Unary) any {
	return fmt.Sprintf("(%s %s)", u.Operator, u.Operand.Accept(p))
}

func (p printer) VisitBinary(b Binary) any {
	return fmt.Sprintf("(%s, %s, %s)", b.Operator, b.Lhs.Accept(p), b.Rhs.Accept(p))
}

func (p printer) VisitCall(c Call) any {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = fmt.Sprintf("%s", a.Value.Accept(p))
	}
	return fmt.Sprintf("(%s %s)", c.Callee, strings.Join(args, " "))
}

func (p printer) VisitExprStmt(s ExprStmt) any {
	return fmt.Sprintf("%s", s.Expression.Accept(p))
}

func (p printer) VisitVariableDecl(d VariableDecl) any {
	return fmt.Sprintf("(var %s:%s)", d.Name, d.Type)
}

func (p printer) VisitFunctionDecl(d FunctionDecl) any {
	params := make([]string, len(d.Params))
	for i, param := range d.Params {
		params[i] = fmt.Sprintf("%s:%s", param.Name, param.Type)
	}
	return fmt.Sprintf("(%s(%s)->%s %s)", d.Name, strings.Join(params, ", "), d.ReturnType, d.Body.Accept(p))
}

func (p printer) VisitFunctionBody(b FunctionBody) any {
	var parts []string
	for _, decl := range b.Decls {
		parts = append(parts, decl.Accept(p).(string))
	}
	for _, stmt := range b.Statements {
		parts = append(parts, stmt.Accept(p).(string))
	}
	return strings.Join(parts, " ")
}

func (p printer) VisitBlock(b Block) any {
	parts := make([]string, len(b.Statements))
	for i, stmt := range b.Statements {
		parts[i] = stmt.Accept(p).(string)
	}
	return strings.Join(parts, " ")
}

func (p printer) VisitIf(s If) any {
	elseStr := ""
	if s.Else != nil {
		elseStr = s.Else.Accept(p).(string)
	}
	return fmt.Sprintf("(if %s %s %s)", s.Cond.Accept(p), s.Then.Accept(p), elseStr)
}

func (p printer) VisitWhile(s While) any {
	return fmt.Sprintf("(while %s %s)", s.Cond.Accept(p), s.Body.Accept(p))
}

func (p printer) VisitReturn(s Return) any {
	if s.Expr == nil {
		return "(return)"
	}
	return fmt.Sprintf("(return %s)", s.Expr.Accept(p))
}

func (p printer) VisitPass(s Pass) any {
	return "(pass)"
}

func (p printer) VisitGlobal(g Global) any {
	vars := make([]string, len(g.VarDecls))
	for i, d := range g.VarDecls {
		vars[i] = d.Accept(p).(string)
	}
	funcs := make([]string, len(g.FuncDecls))
	for i, d := range g.FuncDecls {
		funcs[i] = d.Accept(p).(string)
	}
	return fmt.Sprintf("(%s %s)", strings.Join(vars, " "), strings.Join(funcs, " "))
}
