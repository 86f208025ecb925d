// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package machine drives a cpu.Cpu at a fixed rate and connects it to the
// display, audio and keyboard collaborators of a front end.
package machine

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"slices"
	"sync/atomic"
	"time"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/keypad"
)

// Presenter receives the framebuffer once per iteration. The frame is a copy
// the Presenter may keep.
type Presenter interface {
	Present(frame *display.Framebuffer)
}

// Speaker receives the buzzer state once per iteration.
type Speaker interface {
	SetTone(on bool)
}

// Input supplies the keypad snapshot once per iteration.
type Input interface {
	Keys() keypad.State
}

// Speakers fans the buzzer state out to several Speakers.
type Speakers []Speaker

func (s Speakers) SetTone(on bool) {
	for _, speaker := range s {
		speaker.SetTone(on)
	}
}

// Emulator state. CPU + pacing + collaborators.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Listing of the loaded program, if assembled.

	Presenter Presenter // Optional display output.
	Speaker   Speaker   // Optional audio output.
	Input     Input     // Optional keypad input.
	Clock     Clock     // Time source; nil is the SystemClock.

	Loops int // Iterations since reset.

	config   Config
	image    []byte
	batchAcc int // Instruction remainder carried between iterations.
	timerAcc int // Timer remainder carried between iterations.
	halt     atomic.Bool
}

// NewEmulator creates a new emulator with an empty program.
func NewEmulator(cfg Config) (emu *Emulator, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	cp, err := cpu.NewCpu(cfg.Cpu)
	if err != nil {
		return
	}

	emu = &Emulator{
		Verbose: cfg.Cpu.Verbose,
		Cpu:     cp,
		Program: &cpu.Program{},
		config:  cfg,
	}

	return
}

// Config returns the configuration the emulator was built with.
func (emu *Emulator) Config() Config {
	return emu.config
}

// Defines returns an iterator over all of the assembler defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(map[string]string{
		"INSTRUCTIONS_PER_SECOND": fmt.Sprintf("%d", emu.config.InstructionsPerSecond),
		"LOOPS_PER_SECOND":        fmt.Sprintf("%d", emu.config.LoopsPerSecond),
		"TIMER_HZ":                fmt.Sprintf("%d", emu.config.TimerHz),
	}),
		emu.Cpu.Defines(),
	)
}

// Assemble assembles source text, with the emulator defines in scope, and
// loads the result.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	err = emu.LoadImage(prog.Binary())
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// LoadImage loads a binary program image. The image is kept for Reset.
func (emu *Emulator) LoadImage(image []byte) (err error) {
	err = emu.Cpu.Load(image)
	if err != nil {
		return
	}

	emu.image = slices.Clone(image)
	emu.Program = &cpu.Program{}
	return
}

// Image returns a copy of the loaded program image.
func (emu *Emulator) Image() []byte {
	return slices.Clone(emu.image)
}

// Reset the emulator, reloading the last program image.
func (emu *Emulator) Reset() (err error) {
	err = emu.Cpu.Reset()
	if err != nil {
		return
	}

	if len(emu.image) > 0 {
		err = emu.Cpu.Load(emu.image)
		if err != nil {
			return
		}
	}

	emu.Loops = 0
	emu.batchAcc = 0
	emu.timerAcc = 0
	emu.halt.Store(false)

	return
}

// Halt stops Run at the top of its next iteration. Safe to call from any
// goroutine.
func (emu *Emulator) Halt() {
	emu.halt.Store(true)
}

// Halted reports whether Halt was called, or a runtime error stopped the
// emulator.
func (emu *Emulator) Halted() bool {
	return emu.halt.Load()
}

// LineNo returns the source line of the opcode at the program counter, or
// 0 if the program was not assembled.
func (emu *Emulator) LineNo() int {
	return emu.Program.LineNo(emu.Cpu.Pc)
}

// Cycle performs one iteration: tick the timers on their schedule, poll the
// input, execute the instruction batch, then present the frame and tone.
func (emu *Emulator) Cycle() (err error) {
	cfg := &emu.config

	emu.timerAcc += cfg.TimerHz
	for emu.timerAcc >= cfg.LoopsPerSecond {
		emu.timerAcc -= cfg.LoopsPerSecond
		emu.Cpu.TickTimers()
	}

	if emu.Input != nil {
		emu.Cpu.SetKeys(emu.Input.Keys())
	}

	emu.batchAcc += cfg.InstructionsPerSecond
	batch := emu.batchAcc / cfg.LoopsPerSecond
	emu.batchAcc %= cfg.LoopsPerSecond

	emu.Cpu.Verbose = emu.Verbose
	for range batch {
		err = emu.Cpu.Step()
		if err != nil {
			// The failed instruction is still at the program counter.
			emu.halt.Store(true)
			err = &ErrRuntime{Pc: emu.Cpu.Pc, LineNo: emu.LineNo(), Err: err}
			return
		}
	}

	if emu.Presenter != nil {
		frame := emu.Cpu.Frame()
		emu.Presenter.Present(&frame)
	}
	if emu.Speaker != nil {
		emu.Speaker.SetTone(emu.Cpu.Tone())
	}

	emu.Loops++

	return
}

// RunFrames performs count iterations without pacing, stopping early if
// halted.
func (emu *Emulator) RunFrames(count int) (err error) {
	for range count {
		if emu.halt.Load() {
			return
		}
		err = emu.Cycle()
		if err != nil {
			return
		}
	}

	return
}

// Run the pacing loop until halted, cancelled, or a runtime error occurs.
// Halting returns nil; cancellation returns the context error.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	clock := emu.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	period := time.Second / time.Duration(emu.config.LoopsPerSecond)

	if emu.Verbose {
		log.Printf("emulator: %d loops/s, %d instructions/s, %v",
			emu.config.LoopsPerSecond, emu.config.InstructionsPerSecond, emu.Cpu.Quirks)
	}

	defer func() {
		if emu.Verbose {
			log.Printf("emulator: stopped after %d loops: %v", emu.Loops, err)
			if err != nil {
				log.Printf("emulator: state\n%v", emu.Cpu)
			}
		}
	}()

	for {
		if emu.halt.Load() {
			return
		}

		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		start := clock.Now()
		err = emu.Cycle()
		if err != nil {
			return
		}

		pace(clock, start, period)
	}
}
