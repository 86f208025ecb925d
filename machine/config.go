package machine

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/ezrec/chip8/cpu"
)

const (
	INSTRUCTIONS_PER_SECOND = 700 // Default instruction rate.
	LOOPS_PER_SECOND        = 60  // Default iteration (frame) rate.
	TIMER_HZ                = 60  // Delay and sound timer rate.
)

// Config is the construction time configuration of an Emulator.
type Config struct {
	Cpu                   cpu.Config
	InstructionsPerSecond int
	LoopsPerSecond        int
	TimerHz               int
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		Cpu:                   cpu.DefaultConfig(),
		InstructionsPerSecond: INSTRUCTIONS_PER_SECOND,
		LoopsPerSecond:        LOOPS_PER_SECOND,
		TimerHz:               TIMER_HZ,
	}
}

// Validate checks the rates and the cpu configuration.
func (cfg Config) Validate() (err error) {
	switch {
	case cfg.InstructionsPerSecond < 1:
		err = fmt.Errorf("%w: %d instructions/s", ErrConfigRate, cfg.InstructionsPerSecond)
	case cfg.LoopsPerSecond < 1:
		err = fmt.Errorf("%w: %d loops/s", ErrConfigRate, cfg.LoopsPerSecond)
	case cfg.TimerHz < 1:
		err = fmt.Errorf("%w: %d Hz timer", ErrConfigRate, cfg.TimerHz)
	default:
		err = cfg.Cpu.Validate()
	}

	return
}

// addressValue is a flag.Value for a 12-bit address.
type addressValue struct {
	addr *uint16
}

func (av addressValue) String() string {
	if av.addr == nil {
		return ""
	}
	return fmt.Sprintf("0x%03x", *av.addr)
}

func (av addressValue) Set(text string) (err error) {
	value, err := strconv.ParseUint(text, 0, 12)
	if err != nil {
		return
	}
	*av.addr = uint16(value)
	return
}

// RegisterFlags exposes the configuration on a flag set, using the current
// values as defaults.
func (cfg *Config) RegisterFlags(fs *flag.FlagSet) {
	quirks := &cfg.Cpu.Quirks

	fs.IntVar(&cfg.InstructionsPerSecond, "ips", cfg.InstructionsPerSecond, "Instructions per second")
	fs.IntVar(&cfg.LoopsPerSecond, "lps", cfg.LoopsPerSecond, "Frames per second")
	fs.BoolVar(&quirks.LegacyShift, "shift-legacy", quirks.LegacyShift, "8XY6/8XYE shift VY into VX")
	fs.BoolVar(&quirks.JumpWithVX, "jump-vx", quirks.JumpWithVX, "BNNN jumps to NNN + VX")
	fs.BoolVar(&quirks.IndexAdvance, "index-advance", quirks.IndexAdvance, "FX55/FX65 advance I")
	fs.BoolVar(&quirks.SpriteWrap, "wrap", quirks.SpriteWrap, "Sprites wrap at the screen edge")
	fs.Var(addressValue{&cfg.Cpu.FontBase}, "font", "Font base address")
	fs.IntVar(&cfg.Cpu.StackLimit, "stack", cfg.Cpu.StackLimit, "Call stack depth")
	fs.Int64Var(&cfg.Cpu.Seed, "seed", cfg.Cpu.Seed, "Random seed (0 for time based)")
	fs.BoolVar(&cfg.Cpu.Verbose, "v", cfg.Cpu.Verbose, "Verbose mode")
}
