package cpu

import (
	"fmt"
)

// Code is a single 16-bit instruction word, fetched big-endian.
type Code uint16

// Op is a decoded instruction kind.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_INVALID  = Op(0)  // invalid
	OP_CLS      = Op(1)  // cls
	OP_RET      = Op(2)  // ret
	OP_JP       = Op(3)  // jp nnn
	OP_CALL     = Op(4)  // call nnn
	OP_SE_NN    = Op(5)  // se vx, nn
	OP_SNE_NN   = Op(6)  // sne vx, nn
	OP_SE_VY    = Op(7)  // se vx, vy
	OP_LD_NN    = Op(8)  // ld vx, nn
	OP_ADD_NN   = Op(9)  // add vx, nn
	OP_LD_VY    = Op(10) // ld vx, vy
	OP_OR       = Op(11) // or vx, vy
	OP_AND      = Op(12) // and vx, vy
	OP_XOR      = Op(13) // xor vx, vy
	OP_ADD_VY   = Op(14) // add vx, vy
	OP_SUB      = Op(15) // sub vx, vy
	OP_SHR      = Op(16) // shr vx, vy
	OP_SUBN     = Op(17) // subn vx, vy
	OP_SHL      = Op(18) // shl vx, vy
	OP_SNE_VY   = Op(19) // sne vx, vy
	OP_LD_I     = Op(20) // ld i, nnn
	OP_JP_V0    = Op(21) // jp v0, nnn
	OP_RND      = Op(22) // rnd vx, nn
	OP_DRW      = Op(23) // drw vx, vy, n
	OP_SKP      = Op(24) // skp vx
	OP_SKNP     = Op(25) // sknp vx
	OP_LD_VX_DT = Op(26) // ld vx, dt
	OP_LD_VX_K  = Op(27) // ld vx, k
	OP_LD_DT    = Op(28) // ld dt, vx
	OP_LD_ST    = Op(29) // ld st, vx
	OP_ADD_I    = Op(30) // add i, vx
	OP_LD_F     = Op(31) // ld f, vx
	OP_LD_B     = Op(32) // ld b, vx
	OP_STORE    = Op(33) // ld [i], vx
	OP_LOAD     = Op(34) // ld vx, [i]
)

// Family returns the high nibble, which selects the instruction family.
func (code Code) Family() uint8 {
	return uint8(code >> 12)
}

// X returns the first register operand.
func (code Code) X() uint8 {
	return uint8(code>>8) & 0xf
}

// Y returns the second register operand.
func (code Code) Y() uint8 {
	return uint8(code>>4) & 0xf
}

// N returns the low nibble.
func (code Code) N() uint8 {
	return uint8(code) & 0xf
}

// NN returns the low byte.
func (code Code) NN() uint8 {
	return uint8(code)
}

// NNN returns the low 12 bits.
func (code Code) NNN() uint16 {
	return uint16(code) & 0xfff
}

// Op decodes the instruction kind, or OP_INVALID for an undefined word.
func (code Code) Op() (op Op) {
	switch code.Family() {
	case 0x0:
		switch code {
		case 0x00E0:
			op = OP_CLS
		case 0x00EE:
			op = OP_RET
		}
	case 0x1:
		op = OP_JP
	case 0x2:
		op = OP_CALL
	case 0x3:
		op = OP_SE_NN
	case 0x4:
		op = OP_SNE_NN
	case 0x5:
		if code.N() == 0 {
			op = OP_SE_VY
		}
	case 0x6:
		op = OP_LD_NN
	case 0x7:
		op = OP_ADD_NN
	case 0x8:
		switch code.N() {
		case 0x0:
			op = OP_LD_VY
		case 0x1:
			op = OP_OR
		case 0x2:
			op = OP_AND
		case 0x3:
			op = OP_XOR
		case 0x4:
			op = OP_ADD_VY
		case 0x5:
			op = OP_SUB
		case 0x6:
			op = OP_SHR
		case 0x7:
			op = OP_SUBN
		case 0xE:
			op = OP_SHL
		}
	case 0x9:
		if code.N() == 0 {
			op = OP_SNE_VY
		}
	case 0xA:
		op = OP_LD_I
	case 0xB:
		op = OP_JP_V0
	case 0xC:
		op = OP_RND
	case 0xD:
		op = OP_DRW
	case 0xE:
		switch code.NN() {
		case 0x9E:
			op = OP_SKP
		case 0xA1:
			op = OP_SKNP
		}
	case 0xF:
		switch code.NN() {
		case 0x07:
			op = OP_LD_VX_DT
		case 0x0A:
			op = OP_LD_VX_K
		case 0x15:
			op = OP_LD_DT
		case 0x18:
			op = OP_LD_ST
		case 0x1E:
			op = OP_ADD_I
		case 0x29:
			op = OP_LD_F
		case 0x33:
			op = OP_LD_B
		case 0x55:
			op = OP_STORE
		case 0x65:
			op = OP_LOAD
		}
	}

	return
}

// Decode returns the instruction kind, or ErrOpcodeDecode.
func (code Code) Decode() (op Op, err error) {
	op = code.Op()
	if op == OP_INVALID {
		err = ErrOpcodeDecode
	}
	return
}

// MakeCode builds the instruction word for op. Operands op does not use are
// ignored; imm is masked to the field width of op.
func MakeCode(op Op, x, y uint8, imm uint16) (code Code) {
	xy := func(family uint16, low uint16) Code {
		return Code(family<<12 | uint16(x&0xf)<<8 | uint16(y&0xf)<<4 | low&0xf)
	}
	xnn := func(family uint16, nn uint16) Code {
		return Code(family<<12 | uint16(x&0xf)<<8 | nn&0xff)
	}
	nnn := func(family uint16) Code {
		return Code(family<<12 | imm&0xfff)
	}

	switch op {
	case OP_CLS:
		code = 0x00E0
	case OP_RET:
		code = 0x00EE
	case OP_JP:
		code = nnn(0x1)
	case OP_CALL:
		code = nnn(0x2)
	case OP_SE_NN:
		code = xnn(0x3, imm)
	case OP_SNE_NN:
		code = xnn(0x4, imm)
	case OP_SE_VY:
		code = xy(0x5, 0x0)
	case OP_LD_NN:
		code = xnn(0x6, imm)
	case OP_ADD_NN:
		code = xnn(0x7, imm)
	case OP_LD_VY:
		code = xy(0x8, 0x0)
	case OP_OR:
		code = xy(0x8, 0x1)
	case OP_AND:
		code = xy(0x8, 0x2)
	case OP_XOR:
		code = xy(0x8, 0x3)
	case OP_ADD_VY:
		code = xy(0x8, 0x4)
	case OP_SUB:
		code = xy(0x8, 0x5)
	case OP_SHR:
		code = xy(0x8, 0x6)
	case OP_SUBN:
		code = xy(0x8, 0x7)
	case OP_SHL:
		code = xy(0x8, 0xE)
	case OP_SNE_VY:
		code = xy(0x9, 0x0)
	case OP_LD_I:
		code = nnn(0xA)
	case OP_JP_V0:
		code = nnn(0xB)
	case OP_RND:
		code = xnn(0xC, imm)
	case OP_DRW:
		code = xy(0xD, imm)
	case OP_SKP:
		code = xnn(0xE, 0x9E)
	case OP_SKNP:
		code = xnn(0xE, 0xA1)
	case OP_LD_VX_DT:
		code = xnn(0xF, 0x07)
	case OP_LD_VX_K:
		code = xnn(0xF, 0x0A)
	case OP_LD_DT:
		code = xnn(0xF, 0x15)
	case OP_LD_ST:
		code = xnn(0xF, 0x18)
	case OP_ADD_I:
		code = xnn(0xF, 0x1E)
	case OP_LD_F:
		code = xnn(0xF, 0x29)
	case OP_LD_B:
		code = xnn(0xF, 0x33)
	case OP_STORE:
		code = xnn(0xF, 0x55)
	case OP_LOAD:
		code = xnn(0xF, 0x65)
	}

	return
}

// String returns the hex word and the decoded instruction kind.
func (code Code) String() string {
	return fmt.Sprintf("%04X %v", uint16(code), code.Op())
}
