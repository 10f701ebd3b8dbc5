package resolver

import "fmt"

// ErrorKind classifies a semantic error so callers can branch on category
// without string-matching messages.
type ErrorKind string

const (
	FunctionRedefinition ErrorKind = "FunctionRedefinition"
	VariableRedefinition ErrorKind = "VariableRedefinition"
	UndefinedVariable    ErrorKind = "UndefinedVariable"
	UndefinedFunction    ErrorKind = "UndefinedFunction"
	ArityMismatch        ErrorKind = "ArityMismatch"
	UnknownArgument      ErrorKind = "UnknownArgument"
)

// SemanticError is returned when the AST violates a binding or scoping
// rule during either resolution pass.
type SemanticError struct {
	Kind    ErrorKind
	Name    string
	Message string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("💥 %s: %s", e.Kind, e.Message)
}

func newFunctionRedefinition(name string) *SemanticError {
	return &SemanticError{Kind: FunctionRedefinition, Name: name, Message: fmt.Sprintf("function %q is already defined", name)}
}

func newVariableRedefinition(name string) *SemanticError {
	return &SemanticError{Kind: VariableRedefinition, Name: name, Message: fmt.Sprintf("variable %q is already defined in this scope", name)}
}

func newUndefinedVariable(name string) *SemanticError {
	return &SemanticError{Kind: UndefinedVariable, Name: name, Message: fmt.Sprintf("undefined variable %q", name)}
}

func newUndefinedFunction(name string) *SemanticError {
	return &SemanticError{Kind: UndefinedFunction, Name: name, Message: fmt.Sprintf("undefined function %q", name)}
}

func newArityMismatch(name string, want, got int) *SemanticError {
	return &SemanticError{Kind: ArityMismatch, Name: name, Message: fmt.Sprintf("%q expects %d argument(s), got %d", name, want, got)}
}

func newUnknownArgument(name, arg string) *SemanticError {
	return &SemanticError{Kind: UnknownArgument, Name: name, Message: fmt.Sprintf("%q has no parameter named %q", name, arg)}
}
