// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/ezrec/chip8/machine"
	"github.com/ezrec/chip8/terminal"
	"github.com/ezrec/chip8/tone"
	"github.com/ezrec/chip8/translate"
)

func main() {
	var compile string
	var lang string
	var logFile string
	var wavFile string

	cfg := machine.DefaultConfig()
	cfg.RegisterFlags(flag.CommandLine)

	hold := terminal.HOLD
	flag.StringVar(&compile, "c", "", "Assembly source file to compile")
	flag.StringVar(&lang, "lang", "", "Message language, e.g. en-US")
	flag.StringVar(&logFile, "log", "", "Write log messages to file")
	flag.StringVar(&wavFile, "wav", "", "Record the buzzer to a .wav file")
	flag.DurationVar(&hold, "hold", hold, "How long a keystroke holds its key down")

	flag.Parse()

	if len(lang) != 0 {
		err := translate.SetLanguage(lang)
		if err != nil {
			log.Fatalf("%v: %v", lang, err)
		}
	}

	if len(compile) != 0 && flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}
	if len(compile) == 0 && flag.NArg() != 1 {
		log.Fatalf("%v: Expected one program image, or -c source", os.Args[0])
	}

	emu, err := machine.NewEmulator(cfg)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		err = emu.Assemble(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	} else {
		rom := flag.Arg(0)
		image, err := os.ReadFile(rom)
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}

		err = emu.LoadImage(image)
		if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}
	}

	// The terminal belongs to the display while running.
	if len(logFile) != 0 {
		ouf, err := os.Create(logFile)
		if err != nil {
			log.Fatalf("%v: %v", logFile, err)
		}
		defer ouf.Close()
		log.SetOutput(ouf)
	}

	term := terminal.NewTerminal(emu)
	term.Hold = hold

	var recorder *tone.Recorder
	if len(wavFile) != 0 {
		recorder = tone.NewRecorder(tone.SAMPLE_RATE, cfg.LoopsPerSecond)
		recorder.Verbose = emu.Verbose
		term.Speaker = recorder
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runErr := term.Run(ctx)
	log.SetOutput(os.Stderr)

	if recorder != nil {
		err = recorder.SaveFile(wavFile)
		if err != nil {
			log.Fatalf("%v: %v", wavFile, err)
		}
	}

	if runErr != nil {
		log.Fatalf("%v: %v", os.Args[0], runErr)
	}
}
