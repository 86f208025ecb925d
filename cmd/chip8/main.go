// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/ezrec/chip8/desktop"
	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/machine"
	"github.com/ezrec/chip8/tone"
	"github.com/ezrec/chip8/translate"
)

func main() {
	var compile string
	var lang string
	var output string
	var wavFile string
	var pngFile string
	var scale int
	var frames int

	cfg := machine.DefaultConfig()
	cfg.RegisterFlags(flag.CommandLine)

	flag.StringVar(&compile, "c", "", "Assembly source file to compile")
	flag.StringVar(&lang, "lang", "", "Message language, e.g. en-US")
	flag.StringVar(&output, "o", "", "Save program image to file, do not execute")
	flag.StringVar(&wavFile, "wav", "", "Record the buzzer to a .wav file")
	flag.StringVar(&pngFile, "png", "", "Save the last frame to a .png file")
	flag.IntVar(&scale, "scale", desktop.SCALE, "Window pixels per CHIP-8 pixel")
	flag.IntVar(&frames, "frames", 0, "Run this many frames without a window, then exit")

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

	if len(output) != 0 {
		err = os.WriteFile(output, emu.Image(), 0o644)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	var recorder *tone.Recorder
	if len(wavFile) != 0 {
		recorder = tone.NewRecorder(tone.SAMPLE_RATE, cfg.LoopsPerSecond)
		recorder.Verbose = emu.Verbose
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var runErr error
	if frames > 0 {
		if recorder != nil {
			emu.Speaker = recorder
		}
		runErr = emu.RunFrames(frames)
	} else {
		game, err := desktop.NewGame(emu)
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
		game.Scale = scale
		if recorder != nil {
			game.Speaker = recorder
		}
		runErr = game.Run(ctx)
	}

	if recorder != nil {
		err = recorder.SaveFile(wavFile)
		if err != nil {
			log.Fatalf("%v: %v", wavFile, err)
		}
	}

	if len(pngFile) != 0 {
		ouf, err := os.Create(pngFile)
		if err != nil {
			log.Fatalf("%v: %v", pngFile, err)
		}
		frame := emu.Frame()
		err = frame.WritePNG(ouf, display.DefaultPalette, scale)
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", pngFile, err)
		}
	}

	if runErr != nil {
		if emu.Verbose {
			log.Printf("%v", emu.Cpu)
		}
		log.Fatalf("%v: %v", os.Args[0], runErr)
	}
}
