// Package ast defines the tagged-union AST produced by the parser:
// expression nodes and statement/declaration nodes, each with an Accept
// method for the visitor pattern. The printer dispatches through the
// visitors; the resolver and code generator use type switches.
package ast

// ExpressionVisitor is the interface for operating on all Expression AST
// nodes. The AST printer implements it.
type ExpressionVisitor interface {
	VisitNumber(n Number) any
	VisitVariable(v Variable) any
	VisitUnary(u Unary) any
	VisitBinary(b Binary) any
	VisitCall(c Call) any
}

// Expression is the base interface for every expression node.
type Expression interface {
	Accept(v ExpressionVisitor) any
}

// StmtVisitor is the interface for operating on every statement and
// declaration node, including the Global root.
type StmtVisitor interface {
	VisitExprStmt(s ExprStmt) any
	VisitVariableDecl(d VariableDecl) any
	VisitFunctionDecl(d FunctionDecl) any
	VisitFunctionBody(b FunctionBody) any
	VisitBlock(b Block) any
	VisitIf(s If) any
	VisitWhile(s While) any
	VisitReturn(s Return) any
	VisitPass(s Pass) any
	VisitGlobal(g Global) any
}

// Stmt is the base interface for every statement, declaration, and the
// Global root node.
type Stmt interface {
	Accept(v StmtVisitor) any
}
