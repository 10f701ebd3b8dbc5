package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinylang/ast"
	"tinylang/lexer"
	"tinylang/parser"
)

func parseProgram(t *testing.T, src string) ast.Global {
	t.Helper()
	toks, err := lexer.New(src).Scan()
	require.NoError(t, err)
	global, err := parser.New(toks).Parse()
	require.NoError(t, err)
	return global
}

func TestArgumentSortAlignsWithSortedParams(t *testing.T) {
	global := parseProgram(t, `
var n : Int
func add(y: Int, x: Int): Int {
	return x + y
}
`)
	// manually append a call site, since the grammar requires calls to
	// live inside expressions/statements — build one directly instead
	// of threading it through another parse.
	global.FuncDecls = append(global.FuncDecls, ast.FunctionDecl{
		Name:       "main",
		ReturnType: "Int",
		Body: ast.FunctionBody{
			Statements: []ast.Stmt{
				ast.ExprStmt{Expression: ast.Call{
					Callee: "add",
					Args: []ast.Arg{
						{Name: "y", Value: ast.Number{Value: 2}},
						{Name: "x", Value: ast.Number{Value: 3}},
					},
				}},
			},
		},
	})

	r := New()
	table, err := r.Resolve(&global)
	require.NoError(t, err)

	addSym := table.Funcs["add"]
	require.Equal(t, []ast.Param{{Name: "x", Type: "Int"}, {Name: "y", Type: "Int"}}, addSym.Params)

	callStmt := global.FuncDecls[1].Body.Statements[0].(ast.ExprStmt)
	call := callStmt.Expression.(ast.Call)
	require.Equal(t, "x", call.Args[0].Name)
	require.Equal(t, "y", call.Args[1].Name)
	assert.Equal(t, int64(3), call.Args[0].Value.(ast.Number).Value)
	assert.Equal(t, int64(2), call.Args[1].Value.(ast.Number).Value)
}

func TestUndefinedFunctionFails(t *testing.T) {
	global := parseProgram(t, `
func main(): Int {
	foo(x: 1)
	return 0
}
`)
	_, err := New().Resolve(&global)
	require.Error(t, err)
	semErr, ok := err.(*SemanticError)
	require.True(t, ok)
	assert.Equal(t, UndefinedFunction, semErr.Kind)
}

func TestUndefinedVariableFails(t *testing.T) {
	global := parseProgram(t, `
func main(): Int {
	return missing
}
`)
	_, err := New().Resolve(&global)
	require.Error(t, err)
	semErr, ok := err.(*SemanticError)
	require.True(t, ok)
	assert.Equal(t, UndefinedVariable, semErr.Kind)
}

func TestFunctionRedefinitionFails(t *testing.T) {
	global := parseProgram(t, `
func f(): Int { return 0 }
func f(): Int { return 1 }
`)
	_, err := New().Resolve(&global)
	require.Error(t, err)
	semErr, ok := err.(*SemanticError)
	require.True(t, ok)
	assert.Equal(t, FunctionRedefinition, semErr.Kind)
}

func TestGlobalVariablePositionsAreSequential(t *testing.T) {
	global := parseProgram(t, `
var a : Int
var b : Int
`)
	table, err := New().Resolve(&global)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Vars["a"].Position)
	assert.Equal(t, 1, table.Vars["b"].Position)
}

func TestParamOffsetsFollowCallingConvention(t *testing.T) {
	global := parseProgram(t, `
func add(x: Int, y: Int): Int {
	return x + y
}
`)
	table, err := New().Resolve(&global)
	require.NoError(t, err)
	locals := table.Funcs["add"].Locals
	// N=2 params: offsets -2-N+i => -4, -3
	assert.Equal(t, -4, locals.Vars["x"].Position)
	assert.Equal(t, -3, locals.Vars["y"].Position)
}
