package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"math/rand"
	"strings"
	"time"

	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/font"
	"github.com/ezrec/chip8/keypad"
)

const (
	MEMORY_SIZE    = 0x1000                      // Addressable memory in bytes.
	ADDRESS_MASK   = MEMORY_SIZE - 1             // Largest valid address.
	PROGRAM_START  = 0x200                       // Load and entry address of programs.
	PROGRAM_LIMIT  = MEMORY_SIZE - PROGRAM_START // Largest loadable image.
	REGISTER_COUNT = 16                          // V0-VF.
	FLAG           = 0xF                         // Index of VF.
)

// State is the execution state of the Cpu.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING   = State(0) // running
	STATE_AWAIT_KEY = State(1) // await-key
)

// Cpu is the CHIP-8 machine state.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Quirks   Quirks // Instruction variants in force.
	FontBase uint16 // Address of the hex digit glyphs.

	Memory     [MEMORY_SIZE]byte
	V          [REGISTER_COUNT]uint8 // General purpose registers.
	I          uint16                // Index register.
	Pc         uint16                // Program counter.
	Stack      Stack                 // Return addresses.
	DelayTimer uint8
	SoundTimer uint8

	Display display.Framebuffer
	Keys    keypad.State // Snapshot installed by SetKeys.

	Ticks int // Instructions executed since reset.

	state    State
	awaitReg uint8 // Destination of a pending FX0A.
	seed     int64
	rand     *rand.Rand
}

// NewCpu creates a reset Cpu with the font installed.
func NewCpu(cfg Config) (cpu *Cpu, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cpu = &Cpu{
		Verbose:  cfg.Verbose,
		Quirks:   cfg.Quirks,
		FontBase: cfg.FontBase,
		Stack:    Stack{Limit: cfg.StackLimit},
		seed:     seed,
	}

	err = cpu.Reset()
	if err != nil {
		cpu = nil
		return
	}

	return
}

// Defines returns the assembler equates describing this Cpu.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"PROGRAM_START": fmt.Sprintf("0x%03x", PROGRAM_START),
		"MEMORY_SIZE":   fmt.Sprintf("0x%04x", MEMORY_SIZE),
		"FONT_BASE":     fmt.Sprintf("0x%03x", cpu.FontBase),
		"SCREEN_WIDTH":  fmt.Sprintf("%d", display.WIDTH),
		"SCREEN_HEIGHT": fmt.Sprintf("%d", display.HEIGHT),
	})
}

// Reset the CPU state.
// - Zeros memory and reinstalls the font.
// - Clears the registers, stack, timers, display and keys.
// - Reseeds the random source, so a fixed seed replays identically.
// - Sets the program counter to PROGRAM_START.
func (cpu *Cpu) Reset() (err error) {
	clear(cpu.Memory[:])
	err = font.Write(cpu.Memory[:], cpu.FontBase)
	if err != nil {
		return
	}

	clear(cpu.V[:])
	cpu.I = 0
	cpu.Pc = PROGRAM_START
	cpu.Stack.Reset()
	cpu.DelayTimer = 0
	cpu.SoundTimer = 0
	cpu.Display.Clear()
	cpu.Keys = keypad.State{}
	cpu.Ticks = 0
	cpu.state = STATE_RUNNING
	cpu.awaitReg = 0
	cpu.rand = rand.New(rand.NewSource(cpu.seed))

	return
}

// Load copies a program image to PROGRAM_START, zeroing the rest of program
// memory first.
func (cpu *Cpu) Load(image []byte) (err error) {
	if len(image) == 0 {
		err = ErrProgramEmpty
		return
	}
	if len(image) > PROGRAM_LIMIT {
		err = fmt.Errorf("%w: %d > %d bytes", ErrProgramTooLarge, len(image), PROGRAM_LIMIT)
		return
	}

	clear(cpu.Memory[PROGRAM_START:])
	copy(cpu.Memory[PROGRAM_START:], image)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(image))
	}

	return
}

// State returns the execution state.
func (cpu *Cpu) State() State {
	return cpu.state
}

// SetKeys installs the keypad snapshot seen by following instructions.
func (cpu *Cpu) SetKeys(keys keypad.State) {
	cpu.Keys = keys
}

// Tone reports whether the buzzer should sound.
func (cpu *Cpu) Tone() bool {
	return cpu.SoundTimer > 0
}

// Frame returns a copy of the framebuffer.
func (cpu *Cpu) Frame() display.Framebuffer {
	return cpu.Display
}

// TickTimers decrements each non-zero timer by one.
func (cpu *Cpu) TickTimers() {
	if cpu.DelayTimer > 0 {
		cpu.DelayTimer--
	}
	if cpu.SoundTimer > 0 {
		cpu.SoundTimer--
	}
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "   pc: 0x%03X %v\n", cpu.Pc, cpu.state)
	fmt.Fprintf(&sb, "    i: 0x%03X\n", cpu.I)
	for n, v := range cpu.V {
		fmt.Fprintf(&sb, "   v%X: 0x%02X\n", n, v)
	}
	fmt.Fprintf(&sb, "   dt: 0x%02X\n", cpu.DelayTimer)
	fmt.Fprintf(&sb, "   st: 0x%02X\n", cpu.SoundTimer)
	top, ok := cpu.Stack.Top()
	if ok {
		fmt.Fprintf(&sb, "stack: 0x%03X (%d)\n", top, cpu.Stack.Depth())
	} else {
		fmt.Fprintf(&sb, "stack: -----\n")
	}
	fmt.Fprintf(&sb, " keys: %v\n", cpu.Keys)

	text = sb.String()
	return
}

// Fetch reads the big-endian instruction word at the program counter.
func (cpu *Cpu) Fetch() (code Code, err error) {
	mem, err := cpu.span(cpu.Pc, 2)
	if err != nil {
		err = fmt.Errorf("fetch: %w", err)
		return
	}

	code = Code(uint16(mem[0])<<8 | uint16(mem[1]))
	return
}

// Step executes a single instruction, or while awaiting a key, checks the
// key snapshot and completes the pending FX0A.
func (cpu *Cpu) Step() (err error) {
	if cpu.state == STATE_AWAIT_KEY {
		key, ok := cpu.Keys.First()
		if !ok {
			return
		}
		cpu.V[cpu.awaitReg] = key
		cpu.state = STATE_RUNNING
		cpu.Pc += 2
		if cpu.Verbose {
			log.Printf("cpu: key %X -> v%X", key, cpu.awaitReg)
		}
		return
	}

	code, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Execute(code)
	return
}

// span returns count bytes of memory at addr, or ErrAddress if any of them
// lie past the end of memory.
func (cpu *Cpu) span(addr uint16, count uint16) (mem []byte, err error) {
	end := int(addr) + int(count)
	if end > MEMORY_SIZE {
		err = fmt.Errorf("%w: 0x%03x+%d", ErrAddress, addr, count)
		return
	}

	mem = cpu.Memory[addr:end]
	return
}

// skipIf advances past the next instruction when cond holds.
func (cpu *Cpu) skipIf(cond bool) {
	if cond {
		cpu.Pc += 2
	}
}

// setFlag writes the result to VX, then the flag to VF.
func (cpu *Cpu) setFlag(x uint8, result uint8, flag bool) {
	cpu.V[x] = result
	cpu.V[FLAG] = b2u(flag)
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Execute executes a single instruction as if fetched from the program
// counter, which is advanced past it before dispatch. A failed instruction
// leaves the program counter on itself and is not counted in Ticks.
func (cpu *Cpu) Execute(code Code) (err error) {
	pc, ticks := cpu.Pc, cpu.Ticks
	defer func() {
		if err != nil {
			cpu.Pc, cpu.Ticks = pc, ticks
			err = errors.Join(ErrOpcode{Code: code, Pc: pc}, err)
		}
	}()
	if cpu.Verbose {
		log.Printf("cpu: 0x%03X: %v", pc, code)
	}

	op, err := code.Decode()
	if err != nil {
		return
	}

	cpu.Pc += 2
	cpu.Ticks++

	x, y := code.X(), code.Y()
	vx, vy := cpu.V[x], cpu.V[y]
	nn, nnn := code.NN(), code.NNN()

	switch op {
	case OP_CLS:
		cpu.Display.Clear()
	case OP_RET:
		var ret uint16
		ret, err = cpu.Stack.Return()
		if err != nil {
			return
		}
		cpu.Pc = ret
	case OP_JP:
		cpu.Pc = nnn
	case OP_CALL:
		err = cpu.Stack.Call(cpu.Pc)
		if err != nil {
			return
		}
		cpu.Pc = nnn
	case OP_SE_NN:
		cpu.skipIf(vx == nn)
	case OP_SNE_NN:
		cpu.skipIf(vx != nn)
	case OP_SE_VY:
		cpu.skipIf(vx == vy)
	case OP_SNE_VY:
		cpu.skipIf(vx != vy)
	case OP_LD_NN:
		cpu.V[x] = nn
	case OP_ADD_NN:
		cpu.V[x] = vx + nn
	case OP_LD_VY:
		cpu.V[x] = vy
	case OP_OR:
		cpu.V[x] = vx | vy
	case OP_AND:
		cpu.V[x] = vx & vy
	case OP_XOR:
		cpu.V[x] = vx ^ vy
	case OP_ADD_VY:
		sum := uint16(vx) + uint16(vy)
		cpu.setFlag(x, uint8(sum), sum > 0xff)
	case OP_SUB:
		cpu.setFlag(x, vx-vy, vx >= vy)
	case OP_SUBN:
		cpu.setFlag(x, vy-vx, vy >= vx)
	case OP_SHR:
		if cpu.Quirks.LegacyShift {
			vx = vy
		}
		cpu.setFlag(x, vx>>1, vx&0x01 != 0)
	case OP_SHL:
		if cpu.Quirks.LegacyShift {
			vx = vy
		}
		cpu.setFlag(x, vx<<1, vx&0x80 != 0)
	case OP_LD_I:
		cpu.I = nnn
	case OP_JP_V0:
		offset := cpu.V[0]
		if cpu.Quirks.JumpWithVX {
			offset = vx
		}
		target := nnn + uint16(offset)
		if target > ADDRESS_MASK {
			err = fmt.Errorf("%w: jump 0x%03x+0x%02x", ErrAddress, nnn, offset)
			return
		}
		cpu.Pc = target
	case OP_RND:
		cpu.V[x] = uint8(cpu.rand.Intn(256)) & nn
	case OP_DRW:
		var rows []byte
		rows, err = cpu.span(cpu.I, uint16(code.N()))
		if err != nil {
			return
		}
		collision := cpu.Display.Draw(rows, int(vx), int(vy), cpu.Quirks.SpriteWrap)
		cpu.V[FLAG] = b2u(collision)
	case OP_SKP:
		cpu.skipIf(cpu.Keys.Pressed(vx))
	case OP_SKNP:
		cpu.skipIf(!cpu.Keys.Pressed(vx))
	case OP_LD_VX_DT:
		cpu.V[x] = cpu.DelayTimer
	case OP_LD_VX_K:
		key, ok := cpu.Keys.First()
		if ok {
			cpu.V[x] = key
			break
		}
		// Hold the program counter on this instruction until a key arrives.
		cpu.Pc = pc
		cpu.awaitReg = x
		cpu.state = STATE_AWAIT_KEY
	case OP_LD_DT:
		cpu.DelayTimer = vx
	case OP_LD_ST:
		cpu.SoundTimer = vx
	case OP_ADD_I:
		sum := cpu.I + uint16(vx)
		cpu.I = sum & ADDRESS_MASK
		cpu.V[FLAG] = b2u(sum > ADDRESS_MASK)
	case OP_LD_F:
		cpu.I = font.Address(cpu.FontBase, vx)
	case OP_LD_B:
		var mem []byte
		mem, err = cpu.span(cpu.I, 3)
		if err != nil {
			return
		}
		mem[0] = vx / 100
		mem[1] = (vx / 10) % 10
		mem[2] = vx % 10
	case OP_STORE, OP_LOAD:
		count := uint16(x) + 1
		var mem []byte
		mem, err = cpu.span(cpu.I, count)
		if err != nil {
			return
		}
		if op == OP_STORE {
			copy(mem, cpu.V[:count])
		} else {
			copy(cpu.V[:count], mem)
		}
		if cpu.Quirks.IndexAdvance {
			cpu.I = (cpu.I + count) & ADDRESS_MASK
		}
	}

	return
}
