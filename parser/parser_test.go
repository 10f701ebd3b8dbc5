package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tinylang/ast"
	"tinylang/lexer"
)

func parseExpr(t *testing.T, src string) ast.Expression {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	require.NoError(t, err)
	p := New(toks)
	expr, err := p.parseExpression()
	require.NoError(t, err)
	return expr
}

func TestPrecedenceLowerBindsLooser(t *testing.T) {
	// a + b * c  with prec(+) < prec(*) => +(a, *(b, c))
	expr := parseExpr(t, "a + b * c")
	bin, ok := expr.(ast.Binary)
	require.True(t, ok)
	require.Equal(t, "+", bin.Operator)
	require.Equal(t, ast.Variable{Name: "a"}, bin.Lhs)
	rhs, ok := bin.Rhs.(ast.Binary)
	require.True(t, ok)
	require.Equal(t, "*", rhs.Operator)
}

func TestPrecedenceHigherBindsTighter(t *testing.T) {
	// a * b + c with prec(*) > prec(+) => +(*(a, b), c)
	expr := parseExpr(t, "a * b + c")
	bin, ok := expr.(ast.Binary)
	require.True(t, ok)
	require.Equal(t, "+", bin.Operator)
	lhs, ok := bin.Lhs.(ast.Binary)
	require.True(t, ok)
	require.Equal(t, "*", lhs.Operator)
	require.Equal(t, ast.Variable{Name: "c"}, bin.Rhs)
}

func TestAssignmentRightAssociative(t *testing.T) {
	expr := parseExpr(t, "a = b = c")
	outer, ok := expr.(ast.Binary)
	require.True(t, ok)
	require.Equal(t, "=", outer.Operator)
	require.Equal(t, ast.Variable{Name: "a"}, outer.Lhs)
	inner, ok := outer.Rhs.(ast.Binary)
	require.True(t, ok)
	require.Equal(t, "=", inner.Operator)
	require.Equal(t, ast.Variable{Name: "b"}, inner.Lhs)
	require.Equal(t, ast.Variable{Name: "c"}, inner.Rhs)
}

func TestUnaryBindsTighterThanBinary(t *testing.T) {
	expr := parseExpr(t, "-a * b")
	bin, ok := expr.(ast.Binary)
	require.True(t, ok)
	require.Equal(t, "*", bin.Operator)
	unary, ok := bin.Lhs.(ast.Unary)
	require.True(t, ok)
	require.Equal(t, "-", unary.Operator)
}

func TestCallExpressionArgs(t *testing.T) {
	expr := parseExpr(t, "add(x: 3, y: 2)")
	call, ok := expr.(ast.Call)
	require.True(t, ok)
	require.Equal(t, "add", call.Callee)
	require.Len(t, call.Args, 2)
	require.Equal(t, "x", call.Args[0].Name)
	require.Equal(t, "y", call.Args[1].Name)
}

func TestHexBinaryLiteralArithmetic(t *testing.T) {
	// 0x1F + 0b11 * 2 -> (+, 31, (*, 3, 2))
	expr := parseExpr(t, "0x1F + 0b11 * 2")
	bin := expr.(ast.Binary)
	require.Equal(t, "+", bin.Operator)
	require.Equal(t, ast.Number{Value: 31}, bin.Lhs)
	rhs := bin.Rhs.(ast.Binary)
	require.Equal(t, "*", rhs.Operator)
	require.Equal(t, ast.Number{Value: 3}, rhs.Lhs)
	require.Equal(t, ast.Number{Value: 2}, rhs.Rhs)
}

func TestParseProgram(t *testing.T) {
	src := `
var n : Int
func add(x: Int, y: Int): Int {
	return x + y
}
`
	toks, err := lexer.New(src).Scan()
	require.NoError(t, err)
	global, err := New(toks).Parse()
	require.NoError(t, err)
	require.Len(t, global.VarDecls, 1)
	require.Equal(t, "n", global.VarDecls[0].Name)
	require.Len(t, global.FuncDecls, 1)
	require.Equal(t, "add", global.FuncDecls[0].Name)
}
