// Package codegen lowers a resolved AST into a vm.Program: a linked text
// segment plus the initial contents of the data segment.
//
// It walks the tree with type switches over the concrete node types
// (genStmt, genExpr), the same way the resolver does; since emission is
// purely side-effecting (every expression leaves its result in rax by
// convention) the gen methods return nothing. Failures are reported by
// panicking with a CodegenError or DeveloperError, recovered at the
// Generate boundary.
package codegen

import (
	"tinylang/ast"
	"tinylang/resolver"
	"tinylang/vm"
)

// builtin call targets that the link pass rewrites into pseudo-
// instructions instead of a real call/ret frame.
const (
	builtinPrint = "print"
	builtinInput = "input"
	builtinExit  = "exit"
)

// codegen walks a resolved AST and emits a vm.Program. currentFunc is
// non-nil while generating a function body, selecting which local
// symbol table lookupVariable consults before the global one.
type codegen struct {
	text         []vm.Instruction
	placeholders map[int]string // addr -> unresolved callee name
	data         []int64

	global      *resolver.GlobalTable
	currentFunc *resolver.FunctionSymbol
}

// Generate compiles a resolved program into a vm.Program: a "main"
// call placeholder and iexit at address 0, one emitted function body
// per declaration, and a link pass rewriting every call placeholder
// into a real call or a builtin pseudo-instruction.
func Generate(g *ast.Global, table *resolver.GlobalTable) (prog vm.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case CodegenError:
				err = v
			case DeveloperError:
				err = v
			default:
				panic(r)
			}
		}
	}()

	c := &codegen{
		placeholders: make(map[int]string),
		data:         make([]int64, len(g.VarDecls)),
		global:       table,
	}

	c.emitCallPlaceholder("main")
	c.emit(vm.Encode(vm.IEXIT, 0, 0, 0))

	for i := range g.FuncDecls {
		c.genFunctionDecl(&g.FuncDecls[i])
	}

	c.link()

	return vm.Program{Text: c.text, Data: c.data}, nil
}

func (c *codegen) emit(instr vm.Instruction) int {
	addr := len(c.text)
	c.text = append(c.text, instr)
	return addr
}

// emitCallPlaceholder reserves a text cell for a call to name, to be
// resolved by the link pass once every function's address is known.
func (c *codegen) emitCallPlaceholder(name string) int {
	addr := c.emit(vm.Instruction(0))
	c.placeholders[addr] = name
	return addr
}

func (c *codegen) patch(addr int, instr vm.Instruction) {
	c.text[addr] = instr
}

func lea(dst, src byte, imm int64) vm.Instruction { return vm.Encode(vm.LEA, dst, src, imm) }
func push(reg byte) vm.Instruction                { return vm.Encode(vm.PUSH, reg, 0, 0) }
func pop(reg byte) vm.Instruction                 { return vm.Encode(vm.POP, reg, 0, 0) }
func op0(o vm.Opcode) vm.Instruction              { return vm.Encode(o, 0, 0, 0) }

// genFunctionDecl emits the function's prologue, body, and fall-through
// epilogue, and records its entry address in the global symbol table.
func (c *codegen) genFunctionDecl(fd *ast.FunctionDecl) {
	sym, ok := c.global.Funcs[fd.Name]
	if !ok {
		panic(DeveloperError{Message: "function " + fd.Name + " was not hoisted by the resolver"})
	}
	sym.Position = len(c.text)

	prevFunc := c.currentFunc
	c.currentFunc = sym
	defer func() { c.currentFunc = prevFunc }()

	c.emit(push(vm.RBP))
	c.emit(lea(vm.RBP, vm.RSP, 0))

	locals := len(fd.Body.Decls)
	if locals > 0 {
		c.emit(lea(vm.RSP, vm.RSP, int64(locals)))
	}
	for _, stmt := range fd.Body.Statements {
		c.genStmt(stmt)
	}
	if locals > 0 {
		c.emit(lea(vm.RSP, vm.RSP, int64(-locals)))
	}
	c.emit(pop(vm.RBP))
	c.emit(op0(vm.RET))
}

// genStmt dispatches on the concrete statement type. Statements never
// leave a residual value on the stack once emitted.
func (c *codegen) genStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case ast.ExprStmt:
		c.genExpr(stmt.Expression)
	case ast.Block:
		for _, inner := range stmt.Statements {
			c.genStmt(inner)
		}
	case ast.If:
		c.genIf(stmt)
	case ast.While:
		c.genWhile(stmt)
	case ast.Return:
		c.genReturn(stmt)
	case ast.Pass:
		// no-op
	default:
		panic(DeveloperError{Message: "codegen: unhandled statement type"})
	}
}

// genIf emits:
//
//	<condition>
//	jz false
//	<then>
//	jmp exit
//
// false:
//
//	<else>
//
// exit:
func (c *codegen) genIf(stmt ast.If) {
	c.genExpr(stmt.Cond)
	jzAddr := c.emit(vm.Instruction(0))
	c.genStmt(stmt.Then)
	jmpAddr := c.emit(vm.Instruction(0))
	c.patch(jzAddr, vm.Encode(vm.JZ, 0, 0, int64(len(c.text))))
	if stmt.Else != nil {
		c.genStmt(stmt.Else)
	}
	c.patch(jmpAddr, vm.Encode(vm.JMP, 0, 0, int64(len(c.text))))
}

// genWhile emits:
//
// loop:
//
//	<condition>
//	jz exit
//	<body>
//	jmp loop
//
// exit:
func (c *codegen) genWhile(stmt ast.While) {
	loopAddr := len(c.text)
	c.genExpr(stmt.Cond)
	jzAddr := c.emit(vm.Instruction(0))
	c.genStmt(stmt.Body)
	c.emit(vm.Encode(vm.JMP, 0, 0, int64(loopAddr)))
	c.patch(jzAddr, vm.Encode(vm.JZ, 0, 0, int64(len(c.text))))
}

// genReturn emits the return value, unwinds the current function's
// locals, and restores the caller's frame.
func (c *codegen) genReturn(stmt ast.Return) {
	if stmt.Expr != nil {
		c.genExpr(stmt.Expr)
	} else {
		c.emit(lea(vm.RAX, vm.RZERO, 0))
	}
	// Locals.Vars also holds the parameters (negative offsets); only the
	// locals (offsets 0..L-1) were reserved by the prologue.
	locals := 0
	if c.currentFunc != nil && c.currentFunc.Locals != nil {
		for _, v := range c.currentFunc.Locals.Vars {
			if v.Position >= 0 {
				locals++
			}
		}
	}
	if locals > 0 {
		c.emit(lea(vm.RSP, vm.RSP, int64(-locals)))
	}
	c.emit(pop(vm.RBP))
	c.emit(op0(vm.RET))
}

// genExpr dispatches on the concrete expression type, emitting code
// that leaves its result in rax.
func (c *codegen) genExpr(e ast.Expression) {
	switch expr := e.(type) {
	case ast.Number:
		c.emit(lea(vm.RAX, vm.RZERO, expr.Value))
	case ast.Variable:
		c.genVariableLoad(expr.Name)
	case ast.Unary:
		c.genUnary(expr)
	case ast.Binary:
		c.genBinary(expr)
	case ast.Call:
		c.genCall(expr)
	default:
		panic(DeveloperError{Message: "codegen: unhandled expression type"})
	}
}

// lookupVariable resolves name against the current function's local
// table (if any), falling back to the global table.
func (c *codegen) lookupVariable(name string) (*resolver.VariableSymbol, bool) {
	if c.currentFunc != nil && c.currentFunc.Locals != nil {
		if sym, ok := c.currentFunc.Locals.Vars[name]; ok {
			return sym, true
		}
	}
	if sym, ok := c.global.Vars[name]; ok {
		return sym, true
	}
	return nil, false
}

// genVariableAddress emits the address computation shared by variable
// reads and assignments: lea rax, <base>, <offset>.
func (c *codegen) genVariableAddress(name string) {
	sym, ok := c.lookupVariable(name)
	if !ok {
		panic(newUndefinedSymbol(name))
	}
	if sym.IsGlobal {
		c.emit(lea(vm.RAX, vm.RZERO, int64(sym.Position)))
	} else {
		c.emit(lea(vm.RAX, vm.RBP, int64(sym.Position)))
	}
}

func (c *codegen) genVariableLoad(name string) {
	sym, ok := c.lookupVariable(name)
	if !ok {
		panic(newUndefinedSymbol(name))
	}
	c.genVariableAddress(name)
	c.emit(push(vm.RAX))
	if sym.IsGlobal {
		c.emit(op0(vm.LID))
	} else {
		c.emit(op0(vm.LI))
	}
}

// genUnary emits ! ~ and unary - in terms of the same binary
// combinators the VM already exposes: logical not is (0 == operand),
// bitwise complement is notb, negate is (0 - operand).
func (c *codegen) genUnary(expr ast.Unary) {
	c.genExpr(expr.Operand)
	switch expr.Operator {
	case "!":
		c.emit(push(vm.RZERO))
		c.emit(op0(vm.EQ))
	case "~":
		c.emit(push(vm.RAX))
		c.emit(op0(vm.NOTB))
	case "-":
		c.emit(push(vm.RZERO))
		c.emit(op0(vm.SUB))
	default:
		panic(DeveloperError{Message: "codegen: unknown unary operator " + expr.Operator})
	}
}

var binaryOpcodes = map[string]vm.Opcode{
	"+": vm.ADD, "-": vm.SUB, "*": vm.MUL, "/": vm.DIV, "%": vm.MOD,
	"<<": vm.SHL, ">>": vm.SHR,
	"<": vm.LT, "<=": vm.LE, ">": vm.GT, ">=": vm.GE,
	"==": vm.EQ, "!=": vm.NE,
	"&": vm.ANDB, "^": vm.XORB, "|": vm.ORB,
}

// genBinary handles assignment as a special case (address first, then
// the right-hand side, then a store) and otherwise evaluates operands
// left-to-right through the stack before combining them. && and || do
// not short-circuit: they are computed at the bit-instruction level
// rather than with branches, so both operands are always evaluated.
func (c *codegen) genBinary(expr ast.Binary) {
	if expr.Operator == "=" {
		c.genAssign(expr)
		return
	}

	c.genExpr(expr.Lhs)
	c.emit(push(vm.RAX))
	c.genExpr(expr.Rhs)

	switch expr.Operator {
	case "&&":
		c.emit(op0(vm.MUL))
		c.emit(push(vm.RZERO))
		c.emit(op0(vm.NE))
	case "||":
		c.emit(op0(vm.ORB))
		c.emit(push(vm.RZERO))
		c.emit(op0(vm.NE))
	default:
		opcode, ok := binaryOpcodes[expr.Operator]
		if !ok {
			panic(DeveloperError{Message: "codegen: unknown binary operator " + expr.Operator})
		}
		c.emit(op0(opcode))
	}
}

func (c *codegen) genAssign(expr ast.Binary) {
	lhs, ok := expr.Lhs.(ast.Variable)
	if !ok {
		panic(newRvalueAssignment())
	}
	sym, ok := c.lookupVariable(lhs.Name)
	if !ok {
		panic(newUndefinedSymbol(lhs.Name))
	}
	c.genVariableAddress(lhs.Name)
	c.emit(push(vm.RAX))
	c.genExpr(expr.Rhs)
	if sym.IsGlobal {
		c.emit(op0(vm.SID))
	} else {
		c.emit(op0(vm.SI))
	}
}

// genCall pushes arguments in the sorted order the resolver already
// settled on, emits an unresolved call cell for the link pass, and
// unwinds the argument slots regardless of whether the callee turns
// out to be a user function or a builtin pseudo-instruction.
func (c *codegen) genCall(expr ast.Call) {
	for _, arg := range expr.Args {
		c.genExpr(arg.Value)
		c.emit(push(vm.RAX))
	}
	c.emitCallPlaceholder(expr.Callee)
	if n := len(expr.Args); n > 0 {
		c.emit(lea(vm.RSP, vm.RSP, int64(-n)))
	}
}
