package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"tinylang/ast"
	"tinylang/codegen"
	"tinylang/lexer"
	"tinylang/parser"
	"tinylang/resolver"
	"tinylang/vm"
)

// runCmd implements the `run` command: lex, parse, resolve, generate
// and execute a source file end to end.
type runCmd struct {
	dumpAST      bool
	dumpAssembly bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Compile and execute a tinylang source file" }
func (*runCmd) Usage() string {
	return `run [--dump-ast] [--dump-assembly] <file>:
  Compile and execute tinylang source.
`
}

func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&r.dumpAST, "dump-ast", false, "print the parsed AST instead of running it")
	f.BoolVar(&r.dumpAssembly, "dump-assembly", false, "print the generated instructions instead of running them")
}

func (r *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return subcommands.ExitUsageError
	}
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	// Lexing, parsing, resolving, code generation and VM errors are all
	// "compile-time" in spec terms: printed to standard output, process
	// still exits 0, matching the observed behavior of the source this
	// was distilled from.
	tokens, err := lexer.New(string(data)).Scan()
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitSuccess
	}

	global, err := parser.New(tokens).Parse()
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitSuccess
	}

	// --dump-ast alone short-circuits before code generation; combined
	// with --dump-assembly it falls through so both get printed.
	if r.dumpAST && !r.dumpAssembly {
		fmt.Println(ast.Print(global))
		return subcommands.ExitSuccess
	}

	table, err := resolver.New().Resolve(&global)
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitSuccess
	}

	prog, err := codegen.Generate(&global, table)
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitSuccess
	}

	if r.dumpAST {
		fmt.Println(ast.Print(global))
	}
	if r.dumpAssembly {
		fmt.Println(vm.Disassemble(prog))
	}
	if !r.dumpAST && !r.dumpAssembly {
		m := vm.New(prog, os.Stdin, os.Stdout)
		if err := m.Run(); err != nil {
			fmt.Println(err)
		}
	}
	return subcommands.ExitSuccess
}
