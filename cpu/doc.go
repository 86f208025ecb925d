// Package cpu implements the CHIP-8 interpreter and its assembler.
//
// The CPU consists of 4 KiB of memory holding the font table and the loaded
// program, sixteen 8-bit registers (V0-VF, VF doubling as the carry, borrow
// and collision flag), a 12-bit index register (I), a program counter, a call
// stack, and the delay and sound timers. The display framebuffer and keypad
// snapshot are owned by the CPU and only changed by instructions or by the
// caller installing a new key snapshot.
//
// Instructions where historical interpreters disagree are selected at
// construction time through Quirks.
//
// The assembler accepts the conventional CHIP-8 mnemonics, with labels,
// equates, macros, and compile-time expression evaluation.
package cpu
