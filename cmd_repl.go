package main

import (
	"context"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/google/subcommands"

	"tinylang/lexer"
	"tinylang/token"
)

var (
	bannerColor = color.New(color.FgBlue, color.Bold)
	errorColor  = color.New(color.FgRed)
	promptColor = color.New(color.FgCyan)
)

// replCmd implements the REPL command: a line-at-a-time session backed
// by replSession, using readline for input/history and color to
// separate the banner and errors from program output.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive tinylang session" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive tinylang session. Type 'exit' or Ctrl-D to quit.
`
}
func (r *replCmd) SetFlags(f *flag.FlagSet) {}

func (r *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	bannerColor.Fprintln(os.Stdout, "tinylang REPL — type 'exit' or Ctrl-D to quit")

	rl, err := readline.New(promptColor.Sprint(">>> "))
	if err != nil {
		errorColor.Fprintf(os.Stderr, "💥 %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	runRepl(rl, os.Stdin, os.Stdout)
	return subcommands.ExitSuccess
}

// runRepl drives the read-buffer-parse-run loop. It is split out from
// Execute so it can be driven by a plain *readline.Instance without a
// live terminal in tests.
func runRepl(rl *readline.Instance, stdin io.Reader, stdout io.Writer) {
	session := &replSession{}
	var buffer strings.Builder

	for {
		prompt := ">>> "
		if buffer.Len() > 0 {
			prompt = "... "
		}
		rl.SetPrompt(promptColor.Sprint(prompt))

		line, err := rl.Readline()
		if err != nil { // io.EOF on Ctrl-D, readline.ErrInterrupt on Ctrl-C
			return
		}
		rl.SaveHistory(line)

		if buffer.Len() == 0 && strings.TrimSpace(line) == "exit" {
			return
		}

		buffer.WriteString(line)
		buffer.WriteString("\n")

		chunk := buffer.String()
		tokens, err := lexer.New(chunk).Scan()
		if err != nil {
			errorColor.Fprintf(stdout, "💥 %v\n", err)
			buffer.Reset()
			continue
		}
		if braceBalance(tokens) > 0 {
			continue
		}
		buffer.Reset()

		if len(tokens) > 0 && tokens[0].Kind == token.VAR {
			if err := session.declareVar(chunk); err != nil {
				errorColor.Fprintf(stdout, "💥 %v\n", err)
			}
			continue
		}

		if err := session.runStatement(chunk, stdin, stdout); err != nil {
			errorColor.Fprintf(stdout, "💥 %v\n", err)
		}
	}
}
