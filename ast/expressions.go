// expressions.go contains every expression AST node. An expression
// produces a value.

package ast

// Number is an integer literal. The lexer has already decoded its value.
type Number struct {
	Value int64
}

func (n Number) Accept(v ExpressionVisitor) any { return v.VisitNumber(n) }

// Variable is a reference to a named variable, resolved by the symbol
// resolver to either a local or a global VariableSymbol.
type Variable struct {
	Name string
}

func (va Variable) Accept(v ExpressionVisitor) any { return v.VisitVariable(va) }

// Unary is a prefix operator applied to a single operand: !, ~, or
// unary -.
type Unary struct {
	Operator string
	Operand  Expression
}

func (u Unary) Accept(v ExpressionVisitor) any { return v.VisitUnary(u) }

// Binary is a two-operand operator expression. Operator "=" is the
// assignment variant; its Lhs must be a Variable, a constraint enforced
// by the code generator rather than the parser.
type Binary struct {
	Operator string
	Lhs      Expression
	Rhs      Expression
}

func (b Binary) Accept(v ExpressionVisitor) any { return v.VisitBinary(b) }

// Arg is one (name, value) pair in an ordered call argument list. Name
// identifies which parameter the value binds to, enabling keyword-style
// unordered argument passing once the resolver sorts both sides.
type Arg struct {
	Name  string
	Value Expression
}

// Call is a function invocation. Args starts in source order and is
// rewritten in place to lexicographic order by the symbol resolver.
type Call struct {
	Callee string
	Args   []Arg
}

func (c Call) Accept(v ExpressionVisitor) any { return v.VisitCall(c) }
