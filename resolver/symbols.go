// Package resolver performs two-pass symbol resolution over a parsed
// Global AST: function hoisting (pass 1), then full lexical-scope
// resolution, call-site argument alignment, and reference counting
// (pass 2).
package resolver

import "tinylang/ast"

// Symbol is the common data every named entity carries: its name, how
// many times it was referenced during pass 2, and its resolved storage
// position (a data-segment index for a global, a stack-frame offset for
// a local, or a text-segment index for a function — filled in by the
// code generator for functions, by the resolver for variables).
type Symbol struct {
	Name       string
	References int
	Position   int
}

// FunctionSymbol describes a declared (or builtin) function. Params is
// kept in the sorted order pass 1 produces.
type FunctionSymbol struct {
	Symbol
	Params     []ast.Param
	ReturnType string
	Locals     *LocalTable
}

// VariableSymbol describes a declared variable, global or local.
type VariableSymbol struct {
	Symbol
	Type     string
	IsGlobal bool
}

// GlobalTable is the root symbol table: every global variable and every
// function (including the three builtins) lives here.
type GlobalTable struct {
	Vars  map[string]*VariableSymbol
	Funcs map[string]*FunctionSymbol
}

// NewGlobalTable returns a table pre-populated with the language's three
// builtins, matching their spec-mandated signatures.
func NewGlobalTable() *GlobalTable {
	t := &GlobalTable{
		Vars:  map[string]*VariableSymbol{},
		Funcs: map[string]*FunctionSymbol{},
	}
	t.Funcs["input"] = &FunctionSymbol{Symbol: Symbol{Name: "input"}, ReturnType: "Int"}
	t.Funcs["print"] = &FunctionSymbol{
		Symbol:     Symbol{Name: "print"},
		Params:     []ast.Param{{Name: "val", Type: "Int"}},
		ReturnType: "Int",
	}
	t.Funcs["exit"] = &FunctionSymbol{Symbol: Symbol{Name: "exit"}, ReturnType: "Int"}
	return t
}

// LocalTable is a function's child symbol table: its parameters and
// local variable declarations, plus a link back to the global table for
// chain lookups.
type LocalTable struct {
	Vars   map[string]*VariableSymbol
	Parent *GlobalTable
}

func newLocalTable(parent *GlobalTable) *LocalTable {
	return &LocalTable{Vars: map[string]*VariableSymbol{}, Parent: parent}
}

// lookupVariable searches the local table, then falls back to the global
// table, matching the scope-chain rule of §4.4.
func (l *LocalTable) lookupVariable(name string) (*VariableSymbol, bool) {
	if sym, ok := l.Vars[name]; ok {
		return sym, true
	}
	sym, ok := l.Parent.Vars[name]
	return sym, ok
}
