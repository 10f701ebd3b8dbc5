package codegen

import "fmt"

// ErrorKind classifies a code generation failure.
type ErrorKind string

const (
	RvalueAssignment ErrorKind = "RvalueAssignment"
	UndefinedSymbol   ErrorKind = "UndefinedSymbol"
	MissingEntryPoint ErrorKind = "MissingEntryPoint"
)

// CodegenError is raised (via panic, recovered at the Generate boundary)
// when an AST node cannot be translated into valid target code.
type CodegenError struct {
	Kind    ErrorKind
	Message string
}

func (e CodegenError) Error() string {
	return fmt.Sprintf("💥 CodegenError: %s", e.Message)
}

// DeveloperError marks an invariant the resolver was supposed to have
// already enforced — reaching one here means codegen was handed an AST
// it should never see unresolved.
type DeveloperError struct {
	Message string
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("🤖 DeveloperError: %s", e.Message)
}

func newRvalueAssignment() CodegenError {
	return CodegenError{Kind: RvalueAssignment, Message: "left-hand side of assignment is not a variable"}
}

func newUndefinedSymbol(name string) CodegenError {
	return CodegenError{Kind: UndefinedSymbol, Message: fmt.Sprintf("variable %q has no resolved symbol", name)}
}

func newMissingEntryPoint() CodegenError {
	return CodegenError{Kind: MissingEntryPoint, Message: `program declares no "main" function`}
}
