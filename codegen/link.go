package codegen

import "tinylang/vm"

// link rewrites every call placeholder cell into either a real call to
// a function's emitted address, or the pseudo-instruction standing in
// for one of the three builtins. It runs once, after every function
// declaration has been generated and therefore has a known Position.
func (c *codegen) link() {
	for addr, name := range c.placeholders {
		switch name {
		case builtinPrint:
			c.patch(addr, op0(vm.OUTPT))
		case builtinInput:
			c.patch(addr, op0(vm.INPT))
		case builtinExit:
			c.patch(addr, op0(vm.IEXIT))
		default:
			sym, ok := c.global.Funcs[name]
			if !ok {
				if name == "main" {
					panic(newMissingEntryPoint())
				}
				panic(newUndefinedSymbol(name))
			}
			c.patch(addr, vm.Encode(vm.CALL, 0, 0, int64(sym.Position)))
		}
	}
}
