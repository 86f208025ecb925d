package cpu

// Opcode is a line of assembled source with its location and output bytes.
type Opcode struct {
	LineNo    int      // Source line.
	Addr      int      // Load address of the first byte.
	Words     []string // Source words after expansion.
	Bytes     []byte   // Assembled output.
	LinkLabel string   // Label whose address is merged into the last word.
}

// Program is the output of the Assembler.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the source of a memory address.
type Debug struct {
	*Opcode
	Offset int // Byte offset of the address into the opcode.
}

// Debug returns the opcode assembled at addr, or a Debug with a nil Opcode.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= op.Addr && int(addr) < op.Addr+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Offset: int(addr) - op.Addr,
			}
			break
		}
	}

	return
}

// LineNo returns the source line assembled at addr, or 0 if unknown.
func (prog *Program) LineNo(addr uint16) int {
	if prog == nil {
		return 0
	}

	dbg := prog.Debug(addr)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Binary returns the loadable image, starting at PROGRAM_START. Gaps
// between opcodes are zero filled.
func (prog *Program) Binary() (image []byte) {
	end := PROGRAM_START
	for _, op := range prog.Opcodes {
		end = max(end, op.Addr+len(op.Bytes))
	}

	image = make([]byte, end-PROGRAM_START)
	for _, op := range prog.Opcodes {
		copy(image[op.Addr-PROGRAM_START:], op.Bytes)
	}

	return
}
