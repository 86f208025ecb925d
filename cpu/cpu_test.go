package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/font"
	"github.com/ezrec/chip8/keypad"
)

// newTestCpu builds a seeded Cpu with the words loaded at PROGRAM_START.
func newTestCpu(t *testing.T, quirks Quirks, words ...uint16) (cpu *Cpu) {
	cfg := DefaultConfig()
	cfg.Quirks = quirks
	cfg.Seed = 1

	cpu, err := NewCpu(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if len(words) == 0 {
		return
	}

	var image []byte
	for _, word := range words {
		image = append(image, byte(word>>8), byte(word))
	}

	err = cpu.Load(image)
	if err != nil {
		t.Fatal(err)
	}

	return
}

// steps runs count instructions, stopping at the first error.
func steps(cpu *Cpu, count int) (err error) {
	for range count {
		err = cpu.Step()
		if err != nil {
			return
		}
	}
	return
}

func TestNewCpu(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, DefaultQuirks())
	assert.Equal(uint16(PROGRAM_START), cpu.Pc)
	assert.Equal(STATE_RUNNING, cpu.State())
	assert.Equal(font.Glyphs[0][:], cpu.Memory[font.BASE:font.BASE+font.GLYPH_HEIGHT])
	assert.Equal(font.Glyphs[0xF][:], cpu.Memory[font.BASE+15*font.GLYPH_HEIGHT:font.BASE+16*font.GLYPH_HEIGHT])
	assert.Equal(0, cpu.Stack.Depth())
	assert.Equal(STACK_LIMIT, cpu.Stack.Limit)
}

func TestNewCpu_Config(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	cfg.StackLimit = 0
	_, err := NewCpu(cfg)
	assert.ErrorIs(err, ErrConfigStack)

	cfg = DefaultConfig()
	cfg.FontBase = 0x1D0
	_, err = NewCpu(cfg)
	assert.ErrorIs(err, font.ErrFontBase)

	cfg = DefaultConfig()
	cfg.FontBase = 0x000
	cpu, err := NewCpu(cfg)
	assert.NoError(err)
	assert.Equal(font.Glyphs[0][:], cpu.Memory[0:font.GLYPH_HEIGHT])
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, DefaultQuirks())

	assert.ErrorIs(cpu.Load(nil), ErrProgramEmpty)
	assert.ErrorIs(cpu.Load(make([]byte, PROGRAM_LIMIT+1)), ErrProgramTooLarge)

	full := make([]byte, PROGRAM_LIMIT)
	for n := range full {
		full[n] = 0xAA
	}
	assert.NoError(cpu.Load(full))
	assert.Equal(byte(0xAA), cpu.Memory[MEMORY_SIZE-1])

	// A shorter image leaves no trace of the previous one.
	assert.NoError(cpu.Load([]byte{0x12, 0x34}))
	assert.Equal(byte(0x12), cpu.Memory[PROGRAM_START])
	assert.Equal(byte(0x34), cpu.Memory[PROGRAM_START+1])
	assert.Equal(byte(0x00), cpu.Memory[PROGRAM_START+2])
	assert.Equal(byte(0x00), cpu.Memory[MEMORY_SIZE-1])

	// Font is untouched
	assert.Equal(font.Glyphs[1][:], cpu.Memory[font.BASE+font.GLYPH_HEIGHT:font.BASE+2*font.GLYPH_HEIGHT])
}

func TestArithmetic(t *testing.T) {
	table := [](struct {
		name   string
		quirks Quirks
		words  []uint16
		reg    uint8
		value  uint8
		flag   uint8
	}){
		{"ld", DefaultQuirks(), []uint16{0x6A42}, 0xA, 0x42, 0},
		{"ld_vy", DefaultQuirks(), []uint16{0x6133, 0x8010}, 0, 0x33, 0},
		{"add_nn", DefaultQuirks(), []uint16{0x6005, 0x7003}, 0, 0x08, 0},
		{"add_nn_wrap", DefaultQuirks(), []uint16{0x60FF, 0x7002}, 0, 0x01, 0},
		{"or", DefaultQuirks(), []uint16{0x600C, 0x6103, 0x8011}, 0, 0x0F, 0},
		{"and", DefaultQuirks(), []uint16{0x600C, 0x6106, 0x8012}, 0, 0x04, 0},
		{"xor", DefaultQuirks(), []uint16{0x600C, 0x6106, 0x8013}, 0, 0x0A, 0},
		{"add", DefaultQuirks(), []uint16{0x6005, 0x6103, 0x8014}, 0, 0x08, 0},
		{"add_carry", DefaultQuirks(), []uint16{0x60FF, 0x6102, 0x8014}, 0, 0x01, 1},
		{"sub", DefaultQuirks(), []uint16{0x6005, 0x6103, 0x8015}, 0, 0x02, 1},
		{"sub_equal", DefaultQuirks(), []uint16{0x6005, 0x6105, 0x8015}, 0, 0x00, 1},
		{"sub_borrow", DefaultQuirks(), []uint16{0x6003, 0x6105, 0x8015}, 0, 0xFE, 0},
		{"subn", DefaultQuirks(), []uint16{0x6003, 0x6105, 0x8017}, 0, 0x02, 1},
		{"subn_borrow", DefaultQuirks(), []uint16{0x6005, 0x6103, 0x8017}, 0, 0xFE, 0},
		{"shr_legacy", DefaultQuirks(), []uint16{0x6000, 0x6105, 0x8016}, 0, 0x02, 1},
		{"shl_legacy", DefaultQuirks(), []uint16{0x6000, 0x6181, 0x801E}, 0, 0x02, 1},
		{"shr_modern", Quirks{}, []uint16{0x6004, 0x61FF, 0x8016}, 0, 0x02, 0},
		{"shl_modern", Quirks{}, []uint16{0x6040, 0x61FF, 0x801E}, 0, 0x80, 0},
		{"shr_modern_flag", Quirks{}, []uint16{0x6081, 0x61FF, 0x8016}, 0, 0x40, 1},
		{"shl_modern_flag", Quirks{}, []uint16{0x6081, 0x61FF, 0x801E}, 0, 0x02, 1},
		{"shr_legacy_vy_flag", DefaultQuirks(), []uint16{0x60FF, 0x6181, 0x8016}, 0, 0x40, 1},
	}

	for _, entry := range table {
		assert := assert.New(t)

		cpu := newTestCpu(t, entry.quirks, entry.words...)
		err := steps(cpu, len(entry.words))
		assert.NoError(err, entry.name)
		assert.Equal(entry.value, cpu.V[entry.reg], entry.name)
		assert.Equal(entry.flag, cpu.V[FLAG], entry.name)
	}
}

func TestArithmetic_AddAllPairs(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, DefaultQuirks())
	code := MakeCode(OP_ADD_VY, 0, 1, 0)

	for a := range 256 {
		for b := range 256 {
			cpu.V[0], cpu.V[1] = uint8(a), uint8(b)
			cpu.Pc = PROGRAM_START
			if !assert.NoError(cpu.Execute(code)) {
				return
			}

			sum := a + b
			if cpu.V[0] != uint8(sum) || cpu.V[FLAG] != b2u(sum > 0xFF) {
				assert.Fail("8XY4", "0x%02X + 0x%02X = 0x%02X vf=%d", a, b, cpu.V[0], cpu.V[FLAG])
				return
			}
		}
	}
}

func TestArithmetic_FlagLast(t *testing.T) {
	assert := assert.New(t)

	// With VF as the destination, the flag overwrites the result.
	cpu := newTestCpu(t, DefaultQuirks(), 0x6FFF, 0x6101, 0x8F14)
	assert.NoError(steps(cpu, 3))
	assert.Equal(uint8(1), cpu.V[FLAG])

	cpu = newTestCpu(t, DefaultQuirks(), 0x6F10, 0x6101, 0x8F15)
	assert.NoError(steps(cpu, 3))
	assert.Equal(uint8(1), cpu.V[FLAG])
}

func TestSkip(t *testing.T) {
	table := [](struct {
		name  string
		words []uint16
		pc    uint16
	}){
		{"se_nn_taken", []uint16{0x6005, 0x3005}, 0x206},
		{"se_nn_not", []uint16{0x6005, 0x3006}, 0x204},
		{"sne_nn_taken", []uint16{0x6005, 0x4006}, 0x206},
		{"sne_nn_not", []uint16{0x6005, 0x4005}, 0x204},
		{"se_vy_taken", []uint16{0x6005, 0x6105, 0x5010}, 0x208},
		{"se_vy_not", []uint16{0x6005, 0x6106, 0x5010}, 0x206},
		{"sne_vy_taken", []uint16{0x6005, 0x6106, 0x9010}, 0x208},
		{"sne_vy_not", []uint16{0x6005, 0x6105, 0x9010}, 0x206},
	}

	for _, entry := range table {
		assert := assert.New(t)

		cpu := newTestCpu(t, DefaultQuirks(), entry.words...)
		assert.NoError(steps(cpu, len(entry.words)), entry.name)
		assert.Equal(entry.pc, cpu.Pc, entry.name)
	}
}

func TestJump(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, DefaultQuirks(), 0x1ABC)
	assert.NoError(cpu.Step())
	assert.Equal(uint16(0xABC), cpu.Pc)

	cpu = newTestCpu(t, DefaultQuirks(), 0x6010, 0x6320, 0xB300)
	assert.NoError(steps(cpu, 3))
	assert.Equal(uint16(0x310), cpu.Pc)

	cpu = newTestCpu(t, Quirks{JumpWithVX: true}, 0x6010, 0x6320, 0xB300)
	assert.NoError(steps(cpu, 3))
	assert.Equal(uint16(0x320), cpu.Pc)

	cpu = newTestCpu(t, DefaultQuirks(), 0x60FF, 0xBFFF)
	err := steps(cpu, 2)
	assert.ErrorIs(err, ErrAddress)
}

func TestCallReturn(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, DefaultQuirks(), 0x2206, 0x0000, 0x0000, 0x00EE)

	assert.NoError(cpu.Step())
	assert.Equal(uint16(0x206), cpu.Pc)
	assert.Equal([]uint16{0x202}, cpu.Stack.Data)

	assert.NoError(cpu.Step())
	assert.Equal(uint16(0x202), cpu.Pc)
	assert.Equal(0, cpu.Stack.Depth())
}

func TestStackErrors(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, DefaultQuirks(), 0x00EE)
	err := cpu.Step()
	assert.ErrorIs(err, ErrStackEmpty)

	var eo ErrOpcode
	assert.True(errors.As(err, &eo))
	assert.Equal(Code(0x00EE), eo.Code)
	assert.Equal(uint16(0x200), eo.Pc)
	assert.Equal(uint16(0x200), cpu.Pc)
	assert.Equal(0, cpu.Ticks)

	// Recursive call to self
	cpu = newTestCpu(t, DefaultQuirks(), 0x2200)
	assert.NoError(steps(cpu, STACK_LIMIT))
	assert.Equal(STACK_LIMIT, cpu.Stack.Depth())
	err = cpu.Step()
	assert.ErrorIs(err, ErrStackFull)
	assert.Equal(STACK_LIMIT, cpu.Stack.Depth())
	assert.Equal(uint16(0x200), cpu.Pc)
	assert.Equal(STACK_LIMIT, cpu.Ticks)
}

func TestAddressErrors(t *testing.T) {
	table := [](struct {
		name  string
		words []uint16
		pc    uint16
	}){
		{"jp_v0", []uint16{0x60FF, 0xBF01}, 0x202},
		{"drw", []uint16{0xAFFE, 0xD005}, 0x202},
		{"bcd", []uint16{0xAFFE, 0xF033}, 0x202},
		{"store", []uint16{0xAFFC, 0xF555}, 0x202},
		{"load", []uint16{0xAFFC, 0xF565}, 0x202},
	}

	for _, entry := range table {
		assert := assert.New(t)

		cpu := newTestCpu(t, DefaultQuirks(), entry.words...)
		assert.NoError(cpu.Step(), entry.name)
		err := cpu.Step()
		assert.ErrorIs(err, ErrAddress, entry.name)
		assert.Equal(entry.pc, cpu.Pc, entry.name)
		assert.Equal(1, cpu.Ticks, entry.name)

		// Stepping again fails the same way.
		assert.ErrorIs(cpu.Step(), ErrAddress, entry.name)
		assert.Equal(entry.pc, cpu.Pc, entry.name)
	}
}

func TestIndex(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, DefaultQuirks(), 0xA100, 0x6005, 0xF01E)
	assert.NoError(steps(cpu, 3))
	assert.Equal(uint16(0x105), cpu.I)
	assert.Equal(uint8(0), cpu.V[FLAG])

	cpu = newTestCpu(t, DefaultQuirks(), 0xAFFE, 0x6005, 0xF01E)
	assert.NoError(steps(cpu, 3))
	assert.Equal(uint16(0x003), cpu.I)
	assert.Equal(uint8(1), cpu.V[FLAG])

	cpu = newTestCpu(t, DefaultQuirks(), 0x600A, 0xF029)
	assert.NoError(steps(cpu, 2))
	assert.Equal(uint16(font.BASE+10*font.GLYPH_HEIGHT), cpu.I)

	// Only the low nibble selects the glyph.
	cpu = newTestCpu(t, DefaultQuirks(), 0x601A, 0xF029)
	assert.NoError(steps(cpu, 2))
	assert.Equal(uint16(font.BASE+10*font.GLYPH_HEIGHT), cpu.I)
}

func TestBcd(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, DefaultQuirks(), 0xA300, 0x60FE, 0xF033)
	assert.NoError(steps(cpu, 3))
	assert.Equal([]byte{2, 5, 4}, cpu.Memory[0x300:0x303])
	assert.Equal(uint16(0x300), cpu.I)

	cpu = newTestCpu(t, DefaultQuirks(), 0xAFFE, 0x6001, 0xF033)
	err := steps(cpu, 3)
	assert.ErrorIs(err, ErrAddress)
}

func TestStoreLoad(t *testing.T) {
	assert := assert.New(t)

	words := []uint16{0xA300, 0x6011, 0x6122, 0x6233, 0xF255, 0x6000, 0x6100, 0x6200, 0xF165}

	cpu := newTestCpu(t, DefaultQuirks(), words...)
	assert.NoError(steps(cpu, len(words)))
	assert.Equal([]byte{0x11, 0x22, 0x33, 0x00}, cpu.Memory[0x300:0x304])
	assert.Equal(uint16(0x300), cpu.I)
	assert.Equal(uint8(0x11), cpu.V[0])
	assert.Equal(uint8(0x22), cpu.V[1])
	assert.Equal(uint8(0x00), cpu.V[2])

	cpu = newTestCpu(t, Quirks{IndexAdvance: true}, words[:5]...)
	assert.NoError(steps(cpu, 5))
	assert.Equal(uint16(0x303), cpu.I)

	cpu = newTestCpu(t, DefaultQuirks(), 0xAFFE, 0xF255)
	err := steps(cpu, 2)
	assert.ErrorIs(err, ErrAddress)
}

func TestDraw(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, DefaultQuirks(), 0xA050, 0x6000, 0x6100, 0xD015, 0xD015)
	assert.NoError(steps(cpu, 4))
	assert.Equal(uint8(0), cpu.V[FLAG])
	frame := cpu.Frame()
	assert.True(frame.Pixel(0, 0))
	assert.True(frame.Pixel(3, 0))
	assert.False(frame.Pixel(1, 1))
	assert.Equal(14, frame.Lit())

	assert.NoError(cpu.Step())
	assert.Equal(uint8(1), cpu.V[FLAG])
	assert.Equal(0, cpu.Display.Lit())

	cpu = newTestCpu(t, DefaultQuirks(), 0xA050, 0xD005, 0x00E0)
	assert.NoError(steps(cpu, 2))
	assert.NotEqual(0, cpu.Display.Lit())
	assert.NoError(cpu.Step())
	assert.Equal(0, cpu.Display.Lit())

	cpu = newTestCpu(t, DefaultQuirks(), 0xAFFE, 0xD005)
	err := steps(cpu, 2)
	assert.ErrorIs(err, ErrAddress)
}

func TestTimers(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, DefaultQuirks(), 0x6003, 0xF015, 0xF018, 0xF107)
	assert.NoError(steps(cpu, 3))
	assert.Equal(uint8(3), cpu.DelayTimer)
	assert.Equal(uint8(3), cpu.SoundTimer)
	assert.True(cpu.Tone())

	cpu.TickTimers()
	assert.NoError(cpu.Step())
	assert.Equal(uint8(2), cpu.V[1])

	cpu.TickTimers()
	cpu.TickTimers()
	assert.Equal(uint8(0), cpu.DelayTimer)
	assert.False(cpu.Tone())

	cpu.TickTimers()
	assert.Equal(uint8(0), cpu.DelayTimer)
	assert.Equal(uint8(0), cpu.SoundTimer)
}

func TestKeys(t *testing.T) {
	assert := assert.New(t)

	var keys keypad.State
	keys[5] = true

	cpu := newTestCpu(t, DefaultQuirks(), 0x6005, 0xE09E)
	cpu.SetKeys(keys)
	assert.NoError(steps(cpu, 2))
	assert.Equal(uint16(0x206), cpu.Pc)

	cpu = newTestCpu(t, DefaultQuirks(), 0x6005, 0xE0A1)
	cpu.SetKeys(keys)
	assert.NoError(steps(cpu, 2))
	assert.Equal(uint16(0x204), cpu.Pc)

	cpu = newTestCpu(t, DefaultQuirks(), 0x6006, 0xE0A1)
	cpu.SetKeys(keys)
	assert.NoError(steps(cpu, 2))
	assert.Equal(uint16(0x206), cpu.Pc)

	// Only the low nibble of VX names the key.
	cpu = newTestCpu(t, DefaultQuirks(), 0x6035, 0xE09E)
	cpu.SetKeys(keys)
	assert.NoError(steps(cpu, 2))
	assert.Equal(uint16(0x206), cpu.Pc)
}

func TestAwaitKey(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, DefaultQuirks(), 0x6010, 0xF015, 0xF30A, 0x6401)
	assert.NoError(steps(cpu, 3))
	assert.Equal(STATE_AWAIT_KEY, cpu.State())
	assert.Equal(uint16(0x204), cpu.Pc)

	// Nothing runs while waiting, but the timers still tick.
	assert.NoError(steps(cpu, 10))
	cpu.TickTimers()
	assert.Equal(STATE_AWAIT_KEY, cpu.State())
	assert.Equal(uint16(0x204), cpu.Pc)
	assert.Equal(uint8(0x0F), cpu.DelayTimer)
	assert.Equal(uint8(0), cpu.V[4])

	var keys keypad.State
	keys[0xB] = true
	keys[0xC] = true
	cpu.SetKeys(keys)
	assert.NoError(cpu.Step())
	assert.Equal(STATE_RUNNING, cpu.State())
	assert.Equal(uint8(0xB), cpu.V[3])
	assert.Equal(uint16(0x206), cpu.Pc)

	assert.NoError(cpu.Step())
	assert.Equal(uint8(1), cpu.V[4])
}

func TestAwaitKey_Held(t *testing.T) {
	assert := assert.New(t)

	var keys keypad.State
	keys[2] = true

	cpu := newTestCpu(t, DefaultQuirks(), 0xF30A)
	cpu.SetKeys(keys)
	assert.NoError(cpu.Step())
	assert.Equal(STATE_RUNNING, cpu.State())
	assert.Equal(uint8(2), cpu.V[3])
	assert.Equal(uint16(0x202), cpu.Pc)
}

func TestRandom(t *testing.T) {
	assert := assert.New(t)

	words := []uint16{0xC0FF, 0xC1FF, 0xC2FF, 0xC30F}

	a := newTestCpu(t, DefaultQuirks(), words...)
	b := newTestCpu(t, DefaultQuirks(), words...)
	assert.NoError(steps(a, len(words)))
	assert.NoError(steps(b, len(words)))
	assert.Equal(a.V, b.V)
	assert.Less(a.V[3], uint8(0x10))

	// Reset replays the same sequence.
	first := a.V
	assert.NoError(a.Reset())
	var image []byte
	for _, word := range words {
		image = append(image, byte(word>>8), byte(word))
	}
	assert.NoError(a.Load(image))
	assert.NoError(steps(a, len(words)))
	assert.Equal(first, a.V)

	cpu := newTestCpu(t, DefaultQuirks(), 0xC000)
	assert.NoError(cpu.Step())
	assert.Equal(uint8(0), cpu.V[0])
}

func TestDecodeErrors(t *testing.T) {
	for _, word := range []uint16{0x0000, 0x0123, 0x5001, 0x8008, 0x800F, 0x9001, 0xE000, 0xF000, 0xF0FF} {
		assert := assert.New(t)

		cpu := newTestCpu(t, DefaultQuirks(), word)
		err := cpu.Step()
		assert.ErrorIs(err, ErrOpcodeDecode, "%04X", word)

		var eo ErrOpcode
		assert.True(errors.As(err, &eo))
		assert.Equal(Code(word), eo.Code)
		assert.Equal(uint16(0x200), cpu.Pc)
	}
}

func TestFetchPastEnd(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, DefaultQuirks())
	cpu.Pc = 0xFFF
	assert.ErrorIs(cpu.Step(), ErrAddress)

	cpu.Pc = 0xFFE
	cpu.Memory[0xFFE] = 0x12
	cpu.Memory[0xFFF] = 0x00
	assert.NoError(cpu.Step())
	assert.Equal(uint16(0x200), cpu.Pc)
}

func TestOddPc(t *testing.T) {
	assert := assert.New(t)

	// Jump to an odd address and execute from there.
	cpu := newTestCpu(t, DefaultQuirks(), 0x1203, 0x0060, 0x2A00)
	assert.NoError(steps(cpu, 2))
	assert.Equal(uint8(0x2A), cpu.V[0])
	assert.Equal(uint16(0x205), cpu.Pc)
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, DefaultQuirks(), 0x6F01, 0xA123, 0x2208, 0x0000, 0xF015)
	assert.NoError(steps(cpu, 3))
	cpu.DelayTimer = 9
	cpu.Display[1][1] = true

	assert.NoError(cpu.Reset())
	assert.Equal(uint16(PROGRAM_START), cpu.Pc)
	assert.Equal(uint16(0), cpu.I)
	assert.Equal(uint8(0), cpu.V[FLAG])
	assert.Equal(uint8(0), cpu.DelayTimer)
	assert.Equal(0, cpu.Stack.Depth())
	assert.Equal(0, cpu.Display.Lit())
	assert.Equal(0, cpu.Ticks)
	assert.Equal(byte(0), cpu.Memory[PROGRAM_START])
	assert.Equal(font.Glyphs[0][:], cpu.Memory[font.BASE:font.BASE+font.GLYPH_HEIGHT])
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, DefaultQuirks(), 0x6A42)
	assert.NoError(cpu.Step())

	text := cpu.String()
	assert.True(strings.Contains(text, "pc: 0x202 running"), text)
	assert.True(strings.Contains(text, "vA: 0x42"), text)
	assert.True(strings.Contains(text, "stack: -----"), text)
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	cfg.FontBase = 0x000
	cpu, err := NewCpu(cfg)
	assert.NoError(err)

	defines := map[string]string{}
	for key, value := range cpu.Defines() {
		defines[key] = value
	}
	assert.Equal("0x000", defines["FONT_BASE"])
	assert.Equal("0x200", defines["PROGRAM_START"])
	assert.Equal("64", defines["SCREEN_WIDTH"])
	assert.Equal("32", defines["SCREEN_HEIGHT"])
}

func TestQuirks_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("shift=vy jump=v0 index=fixed sprite=clip", DefaultQuirks().String())
	all := Quirks{JumpWithVX: true, IndexAdvance: true, SpriteWrap: true}
	assert.Equal("shift=vx jump=vx index=advance sprite=wrap", all.String())
}
