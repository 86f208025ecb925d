package cpu

import (
	"fmt"

	"github.com/ezrec/chip8/font"
)

// Quirks selects between the behaviours historical interpreters disagree on.
type Quirks struct {
	LegacyShift  bool // 8XY6/8XYE copy VY into VX before shifting.
	JumpWithVX   bool // BNNN adds VX (X = high nibble of NNN) instead of V0.
	IndexAdvance bool // FX55/FX65 leave I pointing past the last register.
	SpriteWrap   bool // DXYN wraps pixels past the edge instead of clipping.
}

// DefaultQuirks returns the COSMAC VIP shift behaviour with every other
// quirk disabled.
func DefaultQuirks() Quirks {
	return Quirks{
		LegacyShift: true,
	}
}

func (q Quirks) String() string {
	pick := func(on bool, yes, no string) string {
		if on {
			return yes
		}
		return no
	}

	return fmt.Sprintf("shift=%v jump=%v index=%v sprite=%v",
		pick(q.LegacyShift, "vy", "vx"),
		pick(q.JumpWithVX, "vx", "v0"),
		pick(q.IndexAdvance, "advance", "fixed"),
		pick(q.SpriteWrap, "wrap", "clip"),
	)
}

// Config is the construction time configuration of a Cpu.
type Config struct {
	Quirks     Quirks
	FontBase   uint16 // Address of the hex digit glyphs.
	StackLimit int    // Maximum call depth.
	Seed       int64  // Seed for CXNN; 0 selects a time based seed.
	Verbose    bool
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		Quirks:     DefaultQuirks(),
		FontBase:   font.BASE,
		StackLimit: STACK_LIMIT,
	}
}

// Validate checks the configuration for values the Cpu cannot honour.
func (cfg Config) Validate() (err error) {
	err = font.Check(cfg.FontBase)
	if err != nil {
		return
	}

	if cfg.StackLimit < 1 {
		err = fmt.Errorf("%w: %d", ErrConfigStack, cfg.StackLimit)
		return
	}

	return
}
