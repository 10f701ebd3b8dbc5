// Recursive descent parser with precedence climbing.
// https://en.wikipedia.org/wiki/Recursive_descent_parser
// https://en.wikipedia.org/wiki/Operator-precedence_parser

package parser

import (
	"tinylang/ast"
	"tinylang/token"
)

// Parser turns a token stream into an AST rooted at a Global node.
type Parser struct {
	tokens   []token.Token
	position int
}

// NOTE: the parser's position always names the *next* unconsumed token.

// New constructs a Parser over the given token stream, as produced by
// lexer.Scan.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.position]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.position-1]
}

func (p *Parser) isFinished() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) advance() token.Token {
	if !p.isFinished() {
		p.position++
	}
	return p.previous()
}

func (p *Parser) checkKind(kind token.Kind) bool {
	return !p.isFinished() && p.peek().Kind == kind
}

func (p *Parser) checkChar(lexeme string) bool {
	tok := p.peek()
	return tok.Kind == token.CHARACTER && tok.Lexeme == lexeme
}

func (p *Parser) isMatchKind(kind token.Kind) bool {
	if p.checkKind(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) isMatchChar(lexeme string) bool {
	if p.checkChar(lexeme) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consumeKind(kind token.Kind, description string) (token.Token, error) {
	if p.checkKind(kind) {
		return p.advance(), nil
	}
	tok := p.peek()
	return token.Token{}, newTokenMismatch(tok.Line, tok.Column, description, tok.String())
}

func (p *Parser) consumeChar(lexeme, description string) error {
	if p.checkChar(lexeme) {
		p.advance()
		return nil
	}
	tok := p.peek()
	return newTokenMismatch(tok.Line, tok.Column, description, tok.String())
}

// Parse parses the entire token stream into a Global root node.
func (p *Parser) Parse() (ast.Global, error) {
	var varDecls []ast.VariableDecl
	for p.checkKind(token.VAR) {
		decl, err := p.parseVarDecl()
		if err != nil {
			return ast.Global{}, err
		}
		varDecls = append(varDecls, decl)
	}

	var funcDecls []ast.FunctionDecl
	for p.checkKind(token.FUNC) {
		decl, err := p.parseFuncDecl()
		if err != nil {
			return ast.Global{}, err
		}
		funcDecls = append(funcDecls, decl)
	}

	if !p.isFinished() {
		tok := p.peek()
		return ast.Global{}, newTokenMismatch(tok.Line, tok.Column, "end of input", tok.String())
	}

	return ast.Global{VarDecls: varDecls, FuncDecls: funcDecls}, nil
}

// parseType parses a type name at the current position. Only "Int" is a
// recognized type; anything else fails with UnrecognizedType.
func (p *Parser) parseType() (string, error) {
	tok := p.peek()
	if tok.Kind == token.ID || tok.Kind == token.INT {
		if token.Types[tok.Lexeme] {
			p.advance()
			return tok.Lexeme, nil
		}
		return "", newUnrecognizedType(tok.Line, tok.Column, tok.Lexeme)
	}
	return "", newUnrecognizedType(tok.Line, tok.Column, tok.String())
}

func (p *Parser) parseVarDecl() (ast.VariableDecl, error) {
	if _, err := p.consumeKind(token.VAR, "'var'"); err != nil {
		return ast.VariableDecl{}, err
	}
	nameTok, err := p.consumeKind(token.ID, "an identifier")
	if err != nil {
		return ast.VariableDecl{}, err
	}
	if err := p.consumeChar(":", "':'"); err != nil {
		return ast.VariableDecl{}, err
	}
	typ, err := p.parseType()
	if err != nil {
		return ast.VariableDecl{}, err
	}
	return ast.VariableDecl{Name: nameTok.Lexeme, Type: typ}, nil
}

func (p *Parser) parseFuncDecl() (ast.FunctionDecl, error) {
	if _, err := p.consumeKind(token.FUNC, "'func'"); err != nil {
		return ast.FunctionDecl{}, err
	}
	nameTok, err := p.consumeKind(token.ID, "a function name")
	if err != nil {
		return ast.FunctionDecl{}, err
	}
	if err := p.consumeChar("(", "'('"); err != nil {
		return ast.FunctionDecl{}, err
	}

	var params []ast.Param
	if !p.checkChar(")") {
		params, err = p.parseParams()
		if err != nil {
			return ast.FunctionDecl{}, err
		}
	}
	if err := p.consumeChar(")", "')'"); err != nil {
		return ast.FunctionDecl{}, err
	}
	if err := p.consumeChar(":", "':'"); err != nil {
		return ast.FunctionDecl{}, err
	}
	returnType, err := p.parseType()
	if err != nil {
		return ast.FunctionDecl{}, err
	}
	if err := p.consumeChar("{", "'{'"); err != nil {
		return ast.FunctionDecl{}, err
	}
	body, err := p.parseBody()
	if err != nil {
		return ast.FunctionDecl{}, err
	}
	if err := p.consumeChar("}", "'}'"); err != nil {
		return ast.FunctionDecl{}, err
	}

	return ast.FunctionDecl{Name: nameTok.Lexeme, Params: params, ReturnType: returnType, Body: body}, nil
}

func (p *Parser) parseParams() ([]ast.Param, error) {
	var params []ast.Param
	for {
		nameTok, err := p.consumeKind(token.ID, "a parameter name")
		if err != nil {
			return nil, err
		}
		if err := p.consumeChar(":", "':'"); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: nameTok.Lexeme, Type: typ})
		if !p.isMatchChar(",") {
			break
		}
	}
	return params, nil
}

// parseBody parses a function's local variable declarations followed by
// its statements: body ::= var_decl* statement*.
func (p *Parser) parseBody() (ast.FunctionBody, error) {
	var decls []ast.VariableDecl
	for p.checkKind(token.VAR) {
		decl, err := p.parseVarDecl()
		if err != nil {
			return ast.FunctionBody{}, err
		}
		decls = append(decls, decl)
	}

	var statements []ast.Stmt
	for !p.checkChar("}") && !p.isFinished() {
		stmt, err := p.parseStatement()
		if err != nil {
			return ast.FunctionBody{}, err
		}
		statements = append(statements, stmt)
	}

	return ast.FunctionBody{Decls: decls, Statements: statements}, nil
}

// ParseStatement parses a single standalone statement and requires the
// token stream to be exhausted afterward. It exists for callers that
// don't have a whole program's var_decl*/func_decl* shape on hand — the
// REPL feeds it one line at a time — the same role go/parser.ParseExpr
// plays for a single expression rather than a whole file.
func (p *Parser) ParseStatement() (ast.Stmt, error) {
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if !p.isFinished() {
		tok := p.peek()
		return nil, newTokenMismatch(tok.Line, tok.Column, "end of input", tok.String())
	}
	return stmt, nil
}

// ParseVarDecl parses a single standalone `var name:Type` declaration
// and requires the token stream to be exhausted afterward. See
// ParseStatement.
func (p *Parser) ParseVarDecl() (ast.VariableDecl, error) {
	decl, err := p.parseVarDecl()
	if err != nil {
		return ast.VariableDecl{}, err
	}
	if !p.isFinished() {
		tok := p.peek()
		return ast.VariableDecl{}, newTokenMismatch(tok.Line, tok.Column, "end of input", tok.String())
	}
	return decl, nil
}

// parseStatement parses a single statement:
//
//	statement ::= if_stmt | while_stmt | '{' statement* '}'
//	            | 'return' expression | 'pass' | expression
func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch {
	case p.checkKind(token.IF):
		return p.parseIf()
	case p.checkKind(token.WHILE):
		return p.parseWhile()
	case p.checkChar("{"):
		return p.parseBlock()
	case p.checkKind(token.RETURN):
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.Return{Expr: expr}, nil
	case p.checkKind(token.PASS):
		p.advance()
		return ast.Pass{}, nil
	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.ExprStmt{Expression: expr}, nil
	}
}

func (p *Parser) parseBlock() (ast.Stmt, error) {
	if err := p.consumeChar("{", "'{'"); err != nil {
		return nil, err
	}
	var statements []ast.Stmt
	for !p.isMatchChar("}") {
		if p.isFinished() {
			tok := p.peek()
			return nil, newTokenMismatch(tok.Line, tok.Column, "'}'", tok.String())
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return ast.Block{Statements: statements}, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	p.advance()
	if err := p.consumeChar("(", "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consumeChar(")", "')'"); err != nil {
		return nil, err
	}
	thenStmt, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Stmt
	if p.isMatchKind(token.ELSE) {
		elseStmt, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return ast.If{Cond: cond, Then: thenStmt, Else: elseStmt}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	p.advance()
	if err := p.consumeChar("(", "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consumeChar(")", "')'"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return ast.While{Cond: cond, Body: body}, nil
}

// parseExpression is the entry point for expression parsing:
// expression ::= term expr_tail, with expr_tail driving precedence
// climbing from the lowest precedence level (1, assignment).
func (p *Parser) parseExpression() (ast.Expression, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return p.parseExpressionTail(lhs, 1)
}

// parseExpressionTail implements precedence climbing: it folds in binary
// operators whose precedence is at least minPriority, recursing on the
// right-hand side with a minPriority adjusted for the operator's
// associativity (current+1 for left-associative, current for
// right-associative).
func (p *Parser) parseExpressionTail(lhs ast.Expression, minPriority int) (ast.Expression, error) {
	for {
		tok := p.peek()
		info, ok := token.PrecedenceTable[tok.Kind]
		if !ok || info.Precedence < minPriority {
			return lhs, nil
		}

		p.advance()
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}

		nextMin := info.Precedence + 1
		if info.Associativity == token.RightAssoc {
			nextMin = info.Precedence
		}
		rhs, err = p.parseExpressionTail(rhs, nextMin)
		if err != nil {
			return nil, err
		}

		lhs = ast.Binary{Operator: tok.Lexeme, Lhs: lhs, Rhs: rhs}
	}
}

// parseTerm parses a single term: a number, a parenthesized expression, a
// unary-prefixed expression, or an identifier/call expression.
//
//	term ::= Num | '(' expression ')' | unary_op expression | id_expr
func (p *Parser) parseTerm() (ast.Expression, error) {
	tok := p.peek()

	switch {
	case tok.Kind == token.NUM:
		p.advance()
		return ast.Number{Value: tok.Value}, nil

	case p.checkChar("("):
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.consumeChar(")", "')'"); err != nil {
			return nil, err
		}
		return expr, nil

	case token.IsUnaryOperator(tok.Kind):
		p.advance()
		operand, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		operand, err = p.parseExpressionTail(operand, token.UnaryPrecedence)
		if err != nil {
			return nil, err
		}
		return ast.Unary{Operator: tok.Lexeme, Operand: operand}, nil

	case tok.Kind == token.ID:
		return p.parseIDExpr()

	default:
		return nil, newExpectedTerm(tok.Line, tok.Column, tok.String())
	}
}

// parseIDExpr parses either a bare variable reference or a call
// expression: id_expr ::= Id | Id '(' Id ':' expression (',' Id ':'
// expression)* ')'.
func (p *Parser) parseIDExpr() (ast.Expression, error) {
	nameTok, err := p.consumeKind(token.ID, "an identifier")
	if err != nil {
		return nil, err
	}
	if !p.isMatchChar("(") {
		return ast.Variable{Name: nameTok.Lexeme}, nil
	}

	var args []ast.Arg
	if !p.checkChar(")") {
		for {
			argNameTok, err := p.consumeKind(token.ID, "an argument name")
			if err != nil {
				return nil, err
			}
			if err := p.consumeChar(":", "':'"); err != nil {
				return nil, err
			}
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, ast.Arg{Name: argNameTok.Lexeme, Value: value})
			if !p.isMatchChar(",") {
				break
			}
		}
	}
	if err := p.consumeChar(")", "')'"); err != nil {
		return nil, err
	}
	return ast.Call{Callee: nameTok.Lexeme, Args: args}, nil
}
