// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/font"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":        "0",
	"PROGRAM_START": fmt.Sprintf("0x%03x", PROGRAM_START),
	"MEMORY_SIZE":   fmt.Sprintf("0x%04x", MEMORY_SIZE),
	"FONT_BASE":     fmt.Sprintf("0x%03x", font.BASE),
	"SCREEN_WIDTH":  fmt.Sprintf("%d", display.WIDTH),
	"SCREEN_HEIGHT": fmt.Sprintf("%d", display.HEIGHT),
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reIdentifier = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
)

// Assembler is a single pass macro assembler for CHIP-8 programs.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	expansion int                 // Count of macro expansions, for '@' labels.
	Label     map[string]int      // Map of jump labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}
	value, err = strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// immediate parses a value that must fit in an unsigned field of the given
// width. Negative values down to half the field are accepted as two's
// complement.
func (asm *Assembler) immediate(word string, bits int) (value uint16, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}

	limit := int64(1) << bits
	if v64 >= limit || v64 < -(limit/2) {
		err = fmt.Errorf("%w: %v", ErrValueRange, word)
		return
	}

	value = uint16(v64) & uint16(limit-1)
	return
}

// address parses a 12-bit address, or names a label to link later.
func (asm *Assembler) address(word string) (addr uint16, label string, err error) {
	addr, err = asm.immediate(word, 12)
	if err == nil {
		return
	}

	if _, ok := err.(ErrParseNumber); ok && reIdentifier.MatchString(word) {
		label = word
		err = nil
	}

	return
}

// register parses a V register name.
func (asm *Assembler) register(word string) (x uint8, ok bool) {
	word = strings.ToLower(word)
	if len(word) != 2 || word[0] != 'v' {
		return
	}

	v, err := strconv.ParseUint(word[1:], 16, 4)
	if err != nil {
		return
	}

	x = uint8(v)
	ok = true
	return
}

// mustRegister parses a V register name, or fails with ErrRegisterInvalid.
func (asm *Assembler) mustRegister(word string) (x uint8, err error) {
	x, ok := asm.register(word)
	if !ok {
		err = fmt.Errorf("%w: %v", ErrRegisterInvalid, word)
	}
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, addr := range asm.Label {
		if reIdentifier.MatchString(key) && !strings.Contains(key, ".") {
			pred[key] = starlark.MakeInt(addr)
		}
	}
	err = nil

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(strings.ReplaceAll(line, ",", " "))

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansion++
		local := fmt.Sprintf("%v_%v_", name, asm.expansion)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentAddr gets the load address of the next opcode.
func (asm *Assembler) currentAddr() int {
	if len(asm.Opcode) == 0 {
		return PROGRAM_START
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Addr + len(last.Bytes)
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.expansion = 0
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = strings.Fields(strings.ReplaceAll(strings.Join(words[2:], " "), ",", " "))
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	if asm.currentAddr() > MEMORY_SIZE {
		err = fmt.Errorf("%w: ends at 0x%04x", ErrProgramTooLarge, asm.currentAddr())
		return
	}

	failed, err := asm.link()
	if err != nil {
		line = strings.Join(failed.Words, " ")
		lineno = failed.LineNo
		return
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// link patches label addresses into the low 12 bits of the last word of
// each opcode that references one. On failure, it returns the opcode that
// could not be linked.
func (asm *Assembler) link() (failed *Opcode, err error) {
	for n := range asm.Opcode {
		op := &asm.Opcode[n]
		label := op.LinkLabel
		if len(label) == 0 {
			continue
		}

		addr, ok := asm.Label[label]
		switch {
		case !ok:
			err = ErrLabelMissing(label)
		case addr > ADDRESS_MASK:
			err = fmt.Errorf("%w: %v = 0x%04x", ErrValueRange, label, addr)
		case len(op.Bytes) < 2:
			err = ErrInstructionInvalid
		}
		if err != nil {
			failed = op
			return
		}

		word := op.Bytes[len(op.Bytes)-2:]
		word[0] |= byte(addr>>8) & 0x0f
		word[1] |= byte(addr)
	}

	return
}

// aluMap maps the register to register ALU mnemonics.
var aluMap = map[string]Op{
	"or":   OP_OR,
	"and":  OP_AND,
	"xor":  OP_XOR,
	"sub":  OP_SUB,
	"subn": OP_SUBN,
	"shr":  OP_SHR,
	"shl":  OP_SHL,
}

// loadMap maps the special destinations of 'ld' that take VX as the source.
var loadMap = map[string]Op{
	"dt":  OP_LD_DT,
	"st":  OP_LD_ST,
	"f":   OP_LD_F,
	"b":   OP_LD_B,
	"[i]": OP_STORE,
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var data []byte
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(data) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Addr: asm.currentAddr(), Words: initial_words, Bytes: data, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	mnemonic := strings.ToLower(words[0])
	args := words[1:]

	switch mnemonic {
	case "db":
		if len(args) == 0 {
			err = ErrOpcodeMissing
			return
		}
		var bytes []byte
		for _, arg := range args {
			var value uint16
			value, err = asm.immediate(arg, 8)
			if err != nil {
				return
			}
			bytes = append(bytes, byte(value))
		}
		data = bytes
		return
	case "dw":
		if len(args) == 0 {
			err = ErrOpcodeMissing
			return
		}
		var bytes []byte
		for _, arg := range args {
			var value uint16
			value, err = asm.immediate(arg, 16)
			if _, ok := err.(ErrParseNumber); ok && len(args) == 1 && reIdentifier.MatchString(arg) {
				label = arg
				err = nil
			}
			if err != nil {
				return
			}
			bytes = append(bytes, byte(value>>8), byte(value))
		}
		data = bytes
		return
	}

	var code Code
	code, label, err = asm.encode(mnemonic, args)
	if err != nil {
		return
	}

	data = []byte{byte(code >> 8), byte(code)}

	return
}

// encode assembles a single instruction.
func (asm *Assembler) encode(mnemonic string, args []string) (code Code, label string, err error) {
	need := func(n int) bool {
		switch {
		case len(args) < n:
			err = ErrOpcodeMissing
		case len(args) > n:
			err = ErrOpcodeExtraArgs
		}
		return err == nil
	}

	var x, y uint8
	var imm uint16

	switch mnemonic {
	case "cls":
		if need(0) {
			code = MakeCode(OP_CLS, 0, 0, 0)
		}
	case "ret":
		if need(0) {
			code = MakeCode(OP_RET, 0, 0, 0)
		}
	case "jp":
		switch len(args) {
		case 0:
			err = ErrOpcodeMissing
		case 1:
			imm, label, err = asm.address(args[0])
			code = MakeCode(OP_JP, 0, 0, imm)
		case 2:
			x, err = asm.mustRegister(args[0])
			if err != nil {
				return
			}
			if x != 0 {
				err = fmt.Errorf("%w: %v", ErrRegisterInvalid, args[0])
				return
			}
			imm, label, err = asm.address(args[1])
			code = MakeCode(OP_JP_V0, 0, 0, imm)
		default:
			err = ErrOpcodeExtraArgs
		}
	case "call":
		if need(1) {
			imm, label, err = asm.address(args[0])
			code = MakeCode(OP_CALL, 0, 0, imm)
		}
	case "se", "sne":
		if !need(2) {
			return
		}
		x, err = asm.mustRegister(args[0])
		if err != nil {
			return
		}
		op := OP_SE_NN
		if mnemonic == "sne" {
			op = OP_SNE_NN
		}
		var ok bool
		y, ok = asm.register(args[1])
		if ok {
			op = OP_SE_VY
			if mnemonic == "sne" {
				op = OP_SNE_VY
			}
		} else {
			imm, err = asm.immediate(args[1], 8)
		}
		code = MakeCode(op, x, y, imm)
	case "ld":
		if need(2) {
			code, label, err = asm.encodeLoad(args[0], args[1])
		}
	case "add":
		if !need(2) {
			return
		}
		if strings.ToLower(args[0]) == "i" {
			x, err = asm.mustRegister(args[1])
			code = MakeCode(OP_ADD_I, x, 0, 0)
			return
		}
		x, err = asm.mustRegister(args[0])
		if err != nil {
			return
		}
		var ok bool
		y, ok = asm.register(args[1])
		if ok {
			code = MakeCode(OP_ADD_VY, x, y, 0)
			return
		}
		imm, err = asm.immediate(args[1], 8)
		code = MakeCode(OP_ADD_NN, x, 0, imm)
	case "or", "and", "xor", "sub", "subn", "shr", "shl":
		op := aluMap[mnemonic]
		shift := op == OP_SHR || op == OP_SHL
		if shift && len(args) == 1 {
			// Single operand shifts use VX as the source too.
			args = []string{args[0], args[0]}
		}
		if !need(2) {
			return
		}
		x, err = asm.mustRegister(args[0])
		if err != nil {
			return
		}
		y, err = asm.mustRegister(args[1])
		code = MakeCode(op, x, y, 0)
	case "rnd":
		if !need(2) {
			return
		}
		x, err = asm.mustRegister(args[0])
		if err != nil {
			return
		}
		imm, err = asm.immediate(args[1], 8)
		code = MakeCode(OP_RND, x, 0, imm)
	case "drw":
		if !need(3) {
			return
		}
		x, err = asm.mustRegister(args[0])
		if err != nil {
			return
		}
		y, err = asm.mustRegister(args[1])
		if err != nil {
			return
		}
		imm, err = asm.immediate(args[2], 4)
		code = MakeCode(OP_DRW, x, y, imm)
	case "skp", "sknp":
		if !need(1) {
			return
		}
		x, err = asm.mustRegister(args[0])
		op := OP_SKP
		if mnemonic == "sknp" {
			op = OP_SKNP
		}
		code = MakeCode(op, x, 0, 0)
	default:
		err = fmt.Errorf("%w: %v", ErrInstructionInvalid, mnemonic)
	}

	return
}

// encodeLoad assembles the many forms of 'ld'.
func (asm *Assembler) encodeLoad(dst, src string) (code Code, label string, err error) {
	var x, y uint8
	var imm uint16

	ldst := strings.ToLower(dst)
	lsrc := strings.ToLower(src)

	if ldst == "i" {
		imm, label, err = asm.address(src)
		code = MakeCode(OP_LD_I, 0, 0, imm)
		return
	}

	op, ok := loadMap[ldst]
	if ok {
		x, err = asm.mustRegister(src)
		code = MakeCode(op, x, 0, 0)
		return
	}

	x, ok = asm.register(dst)
	if !ok {
		err = fmt.Errorf("%w: %v", ErrOpcodeInvalid, dst)
		return
	}

	switch lsrc {
	case "dt":
		code = MakeCode(OP_LD_VX_DT, x, 0, 0)
	case "k":
		code = MakeCode(OP_LD_VX_K, x, 0, 0)
	case "[i]":
		code = MakeCode(OP_LOAD, x, 0, 0)
	default:
		y, ok = asm.register(src)
		if ok {
			code = MakeCode(OP_LD_VY, x, y, 0)
			return
		}
		imm, err = asm.immediate(src, 8)
		code = MakeCode(OP_LD_NN, x, 0, imm)
	}

	return
}
