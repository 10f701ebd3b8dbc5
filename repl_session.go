package main

import (
	"io"

	"tinylang/ast"
	"tinylang/codegen"
	"tinylang/lexer"
	"tinylang/parser"
	"tinylang/resolver"
	"tinylang/token"
	"tinylang/vm"
)

// replSession holds the REPL's persistent state: every global variable
// declared so far, and the runtime value each one last held. Declaring
// a var has no side effect and is recorded directly; a bare statement
// is compiled into a throwaway `main` alongside the accumulated
// declarations and run on its own, so earlier lines' side effects
// (print, exit, ...) never replay — only that line's global variable
// values are carried forward into the next program, by copying the
// previous run's data segment into the new one at matching positions.
type replSession struct {
	varDecls []ast.VariableDecl
	data     []int64
}

// braceBalance returns the net count of '{' minus '}' among tokens,
// which the REPL uses to decide whether to keep buffering lines before
// attempting to parse a statement — adapted from the brace-balance
// check the teacher's compiled REPL used to detect incomplete input.
func braceBalance(tokens []token.Token) int {
	balance := 0
	for _, tok := range tokens {
		if tok.Kind != token.CHARACTER {
			continue
		}
		switch tok.Lexeme {
		case "{":
			balance++
		case "}":
			balance--
		}
	}
	return balance
}

// declareVar parses source as a standalone `var name:Type` declaration
// and, if it parses, records it for every subsequent line in the
// session.
func (s *replSession) declareVar(source string) error {
	tokens, err := lexer.New(source).Scan()
	if err != nil {
		return err
	}
	decl, err := parser.New(tokens).ParseVarDecl()
	if err != nil {
		return err
	}
	s.varDecls = append(s.varDecls, decl)
	return nil
}

// runStatement parses source as a standalone statement, wraps it in a
// synthetic main alongside every global declared so far, and executes
// it: only this line's statement runs, but it sees every global's
// value as the previous line left it.
func (s *replSession) runStatement(source string, stdin io.Reader, stdout io.Writer) error {
	tokens, err := lexer.New(source).Scan()
	if err != nil {
		return err
	}
	stmt, err := parser.New(tokens).ParseStatement()
	if err != nil {
		return err
	}

	program := ast.Global{
		VarDecls: s.varDecls,
		FuncDecls: []ast.FunctionDecl{{
			Name:       "main",
			ReturnType: "Int",
			Body:       ast.FunctionBody{Statements: []ast.Stmt{stmt}},
		}},
	}

	table, err := resolver.New().Resolve(&program)
	if err != nil {
		return err
	}
	prog, err := codegen.Generate(&program, table)
	if err != nil {
		return err
	}
	for i := 0; i < len(s.data) && i < len(prog.Data); i++ {
		prog.Data[i] = s.data[i]
	}

	m := vm.New(prog, stdin, stdout)
	if err := m.Run(); err != nil {
		return err
	}
	s.data = append([]int64(nil), m.Data...)
	return nil
}
