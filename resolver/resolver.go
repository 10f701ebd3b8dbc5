package resolver

import (
	"sort"

	"tinylang/ast"
)

// Resolver walks a Global AST in two passes, mutating it in place
// (sorting parameter and argument lists) and building the symbol tables
// the code generator will address against.
type Resolver struct {
	global *GlobalTable
}

// New constructs a Resolver with a fresh, builtin-populated global table.
func New() *Resolver {
	return &Resolver{global: NewGlobalTable()}
}

// Resolve runs both passes over g and returns the populated global
// symbol table, or the first error encountered.
func (r *Resolver) Resolve(g *ast.Global) (*GlobalTable, error) {
	if err := r.hoistFunctions(g); err != nil {
		return nil, err
	}
	if err := r.resolveAll(g); err != nil {
		return nil, err
	}
	return r.global, nil
}

// hoistFunctions is pass 1: it walks only the function declarations,
// sorts each parameter list lexicographically by name, and inserts a
// FunctionSymbol per declaration. Sorting the parameter list here is the
// entire mechanism behind keyword-style unordered argument passing —
// call sites are sorted the same way in pass 2 and the two line up.
func (r *Resolver) hoistFunctions(g *ast.Global) error {
	for i := range g.FuncDecls {
		fd := &g.FuncDecls[i]
		if _, exists := r.global.Funcs[fd.Name]; exists {
			return newFunctionRedefinition(fd.Name)
		}
		sort.Slice(fd.Params, func(a, b int) bool { return fd.Params[a].Name < fd.Params[b].Name })
		r.global.Funcs[fd.Name] = &FunctionSymbol{
			Symbol:     Symbol{Name: fd.Name},
			Params:     fd.Params,
			ReturnType: fd.ReturnType,
		}
	}
	return nil
}

// resolveAll is pass 2: full lexical-scope resolution.
func (r *Resolver) resolveAll(g *ast.Global) error {
	for i, decl := range g.VarDecls {
		if _, exists := r.global.Vars[decl.Name]; exists {
			return newVariableRedefinition(decl.Name)
		}
		r.global.Vars[decl.Name] = &VariableSymbol{
			Symbol:   Symbol{Name: decl.Name, Position: i},
			Type:     decl.Type,
			IsGlobal: true,
		}
	}

	for i := range g.FuncDecls {
		fd := &g.FuncDecls[i]
		funcSym := r.global.Funcs[fd.Name]
		local := newLocalTable(r.global)
		funcSym.Locals = local

		n := len(fd.Params)
		for paramIdx, param := range fd.Params {
			local.Vars[param.Name] = &VariableSymbol{
				Symbol: Symbol{Name: param.Name, Position: -2 - n + paramIdx},
				Type:   param.Type,
			}
		}

		if err := r.resolveFunctionBody(&fd.Body, local); err != nil {
			return err
		}
	}

	return nil
}

func (r *Resolver) resolveFunctionBody(body *ast.FunctionBody, scope *LocalTable) error {
	for localIdx, decl := range body.Decls {
		if _, exists := scope.Vars[decl.Name]; exists {
			return newVariableRedefinition(decl.Name)
		}
		scope.Vars[decl.Name] = &VariableSymbol{
			Symbol: Symbol{Name: decl.Name, Position: localIdx},
			Type:   decl.Type,
		}
	}

	for i := range body.Statements {
		stmt, err := r.resolveStmt(body.Statements[i], scope)
		if err != nil {
			return err
		}
		body.Statements[i] = stmt
	}
	return nil
}

func (r *Resolver) resolveStmt(s ast.Stmt, scope *LocalTable) (ast.Stmt, error) {
	switch stmt := s.(type) {
	case ast.ExprStmt:
		expr, err := r.resolveExpr(stmt.Expression, scope)
		if err != nil {
			return nil, err
		}
		stmt.Expression = expr
		return stmt, nil

	case ast.Block:
		for i := range stmt.Statements {
			resolved, err := r.resolveStmt(stmt.Statements[i], scope)
			if err != nil {
				return nil, err
			}
			stmt.Statements[i] = resolved
		}
		return stmt, nil

	case ast.If:
		cond, err := r.resolveExpr(stmt.Cond, scope)
		if err != nil {
			return nil, err
		}
		stmt.Cond = cond
		then, err := r.resolveStmt(stmt.Then, scope)
		if err != nil {
			return nil, err
		}
		stmt.Then = then
		if stmt.Else != nil {
			els, err := r.resolveStmt(stmt.Else, scope)
			if err != nil {
				return nil, err
			}
			stmt.Else = els
		}
		return stmt, nil

	case ast.While:
		cond, err := r.resolveExpr(stmt.Cond, scope)
		if err != nil {
			return nil, err
		}
		stmt.Cond = cond
		body, err := r.resolveStmt(stmt.Body, scope)
		if err != nil {
			return nil, err
		}
		stmt.Body = body
		return stmt, nil

	case ast.Return:
		if stmt.Expr != nil {
			expr, err := r.resolveExpr(stmt.Expr, scope)
			if err != nil {
				return nil, err
			}
			stmt.Expr = expr
		}
		return stmt, nil

	case ast.Pass:
		return stmt, nil

	default:
		return s, nil
	}
}

func (r *Resolver) resolveExpr(e ast.Expression, scope *LocalTable) (ast.Expression, error) {
	switch expr := e.(type) {
	case ast.Number:
		return expr, nil

	case ast.Variable:
		sym, ok := scope.lookupVariable(expr.Name)
		if !ok {
			return nil, newUndefinedVariable(expr.Name)
		}
		sym.References++
		return expr, nil

	case ast.Unary:
		operand, err := r.resolveExpr(expr.Operand, scope)
		if err != nil {
			return nil, err
		}
		expr.Operand = operand
		return expr, nil

	case ast.Binary:
		lhs, err := r.resolveExpr(expr.Lhs, scope)
		if err != nil {
			return nil, err
		}
		expr.Lhs = lhs
		rhs, err := r.resolveExpr(expr.Rhs, scope)
		if err != nil {
			return nil, err
		}
		expr.Rhs = rhs
		return expr, nil

	case ast.Call:
		return r.resolveCall(expr, scope)

	default:
		return e, nil
	}
}

// resolveCall resolves each argument expression, sorts the argument list
// lexicographically by name so it aligns with the callee's (already
// sorted) parameter list, and validates arity and argument names.
func (r *Resolver) resolveCall(call ast.Call, scope *LocalTable) (ast.Expression, error) {
	funcSym, ok := r.global.Funcs[call.Callee]
	if !ok {
		return nil, newUndefinedFunction(call.Callee)
	}

	for i := range call.Args {
		value, err := r.resolveExpr(call.Args[i].Value, scope)
		if err != nil {
			return nil, err
		}
		call.Args[i].Value = value
	}

	sort.Slice(call.Args, func(a, b int) bool { return call.Args[a].Name < call.Args[b].Name })

	if len(call.Args) != len(funcSym.Params) {
		return nil, newArityMismatch(call.Callee, len(funcSym.Params), len(call.Args))
	}
	for i, param := range funcSym.Params {
		if call.Args[i].Name != param.Name {
			return nil, newUnknownArgument(call.Callee, call.Args[i].Name)
		}
	}

	funcSym.References++
	return call, nil
}
