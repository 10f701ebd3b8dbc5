package vm

import (
	"fmt"
	"strings"
)

// Disassemble renders the text segment as one line per instruction,
// decoding each bit-packed cell back into its mnemonic and operands.
func Disassemble(prog Program) string {
	var b strings.Builder
	for addr, instr := range prog.Text {
		op, reg0, reg1, imm := Decode(instr)
		fmt.Fprintf(&b, "%04d  %-6s", addr, op)
		switch op {
		case LEA:
			fmt.Fprintf(&b, "%s, %s, %d", registerNames[reg0], registerNames[reg1], imm)
		case JMP, JZ, JNZ, CALL:
			fmt.Fprintf(&b, "%d", imm)
		case PUSH, POP:
			fmt.Fprintf(&b, "%s", registerNames[reg0])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
