package codegen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinylang/lexer"
	"tinylang/parser"
	"tinylang/resolver"
	"tinylang/vm"
)

func compileAndRun(t *testing.T, source, stdin string) string {
	t.Helper()
	tokens, err := lexer.New(source).Scan()
	require.NoError(t, err)

	global, err := parser.New(tokens).Parse()
	require.NoError(t, err)

	table, err := resolver.New().Resolve(&global)
	require.NoError(t, err)

	prog, err := Generate(&global, table)
	require.NoError(t, err)

	var out bytes.Buffer
	m := vm.New(prog, strings.NewReader(stdin), &out)
	require.NoError(t, m.Run())
	return out.String()
}

func TestGlobalAssignmentAndPrint(t *testing.T) {
	src := `
var x:Int
func main(): Int {
	x = 21 + 21
	print(val: x)
	return 0
}
`
	assert.Equal(t, "42\nprogram exited\n", compileAndRun(t, src, ""))
}

func TestFunctionCallWithSortedKeywordArgs(t *testing.T) {
	src := `
func add(x:Int, y:Int): Int {
	return x + y
}
func main(): Int {
	print(val: add(y: 2, x: 40))
	return 0
}
`
	assert.Equal(t, "42\nprogram exited\n", compileAndRun(t, src, ""))
}

func TestIfElseBranching(t *testing.T) {
	src := `
func main(): Int {
	var r:Int
	if (0) {
		r = 1
	} else {
		r = 2
	}
	print(val: r)
	return 0
}
`
	assert.Equal(t, "2\nprogram exited\n", compileAndRun(t, src, ""))
}

func TestWhileLoopAccumulates(t *testing.T) {
	src := `
func main(): Int {
	var i:Int
	var sum:Int
	i = 0
	sum = 0
	while (i < 5) {
		sum = sum + i
		i = i + 1
	}
	print(val: sum)
	return 0
}
`
	assert.Equal(t, "10\nprogram exited\n", compileAndRun(t, src, ""))
}

func TestHexAndBinaryLiteralArithmetic(t *testing.T) {
	src := `
func main(): Int {
	print(val: 0x1F + 0b11 * 2)
	return 0
}
`
	assert.Equal(t, "37\nprogram exited\n", compileAndRun(t, src, ""))
}

func TestInputRoundTrip(t *testing.T) {
	src := `
func main(): Int {
	var n:Int
	n = input()
	print(val: n + 1)
	return 0
}
`
	assert.Equal(t, "43\nprogram exited\n", compileAndRun(t, src, "42\n"))
}

func TestRecursiveFunctionCall(t *testing.T) {
	src := `
func fact(n:Int): Int {
	if (n <= 1) {
		return 1
	}
	return n * fact(n: n - 1)
}
func main(): Int {
	print(val: fact(n: 5))
	return 0
}
`
	assert.Equal(t, "120\nprogram exited\n", compileAndRun(t, src, ""))
}

func TestExitHaltsImmediately(t *testing.T) {
	src := `
func main(): Int {
	print(val: 1)
	exit()
	print(val: 2)
	return 0
}
`
	assert.Equal(t, "1\nprogram exited\n", compileAndRun(t, src, ""))
}

func TestRvalueAssignmentIsRejected(t *testing.T) {
	src := `
func main(): Int {
	1 = 2
	return 0
}
`
	tokens, err := lexer.New(src).Scan()
	require.NoError(t, err)
	global, err := parser.New(tokens).Parse()
	require.NoError(t, err)
	table, err := resolver.New().Resolve(&global)
	require.NoError(t, err)

	_, err = Generate(&global, table)
	require.Error(t, err)
	cerr, ok := err.(CodegenError)
	require.True(t, ok)
	assert.Equal(t, RvalueAssignment, cerr.Kind)
}

func TestMissingMainIsRejected(t *testing.T) {
	src := `
func helper(): Int {
	return 0
}
`
	tokens, err := lexer.New(src).Scan()
	require.NoError(t, err)
	global, err := parser.New(tokens).Parse()
	require.NoError(t, err)
	table, err := resolver.New().Resolve(&global)
	require.NoError(t, err)

	_, err = Generate(&global, table)
	require.Error(t, err)
	cerr, ok := err.(CodegenError)
	require.True(t, ok)
	assert.Equal(t, MissingEntryPoint, cerr.Kind)
}
