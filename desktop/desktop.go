// Package desktop runs an Emulator in a window, with keyboard input and
// audio, using ebiten.
package desktop

import (
	"context"
	"errors"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/keypad"
	"github.com/ezrec/chip8/machine"
	"github.com/ezrec/chip8/tone"
)

const (
	SCALE         = 10 // Default window pixels per CHIP-8 pixel.
	AUDIO_LATENCY = 50 * time.Millisecond
)

// keyMap is the host key for each keypad key; see keypad.Layout.
var keyMap = [keypad.KEY_COUNT]ebiten.Key{
	0x0: ebiten.KeyX,
	0x1: ebiten.KeyDigit1, 0x2: ebiten.KeyDigit2, 0x3: ebiten.KeyDigit3,
	0x4: ebiten.KeyQ, 0x5: ebiten.KeyW, 0x6: ebiten.KeyE,
	0x7: ebiten.KeyA, 0x8: ebiten.KeyS, 0x9: ebiten.KeyD,
	0xA: ebiten.KeyZ, 0xB: ebiten.KeyC,
	0xC: ebiten.KeyDigit4, 0xD: ebiten.KeyR, 0xE: ebiten.KeyF, 0xF: ebiten.KeyV,
}

// Game is the ebiten.Game of an emulator window. It is the emulator's
// Presenter and Input; the tone is played through its audio player.
type Game struct {
	Verbose bool
	Title   string          // Window title.
	Scale   int             // Window pixels per CHIP-8 pixel.
	Palette display.Palette // Display colours.
	Speaker machine.Speaker // Optional extra Speaker, e.g. a tone.Recorder.

	emu    *machine.Emulator
	square *tone.Square
	player *audio.Player

	mutex sync.Mutex
	frame display.Framebuffer
	keys  keypad.State
	dirty bool

	pixels []byte
	canvas *ebiten.Image

	done   chan struct{}
	runErr error
}

func newGame(emu *machine.Emulator) *Game {
	return &Game{
		Verbose: emu.Verbose,
		Title:   "CHIP-8",
		Scale:   SCALE,
		Palette: display.DefaultPalette,
		emu:     emu,
		square:  tone.NewSquare(tone.SAMPLE_RATE),
		pixels:  make([]byte, display.WIDTH*display.HEIGHT*4),
		dirty:   true,
		done:    make(chan struct{}),
	}
}

// NewGame creates the window state for emu, and its audio player.
func NewGame(emu *machine.Emulator) (g *Game, err error) {
	g = newGame(emu)

	audioContext := audio.NewContext(tone.SAMPLE_RATE)
	g.player, err = audioContext.NewPlayer(g.square)
	if err != nil {
		return
	}
	g.player.SetBufferSize(AUDIO_LATENCY)

	return
}

// Present implements machine.Presenter.
func (g *Game) Present(frame *display.Framebuffer) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.frame = *frame
	g.dirty = true
}

// Keys implements machine.Input.
func (g *Game) Keys() keypad.State {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	return g.keys
}

func (g *Game) setKeys(keys keypad.State) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.keys = keys
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	var keys keypad.State
	for n, key := range keyMap {
		keys[n] = ebiten.IsKeyPressed(key)
	}
	g.setKeys(keys)

	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mutex.Lock()
	if g.dirty {
		fill(g.pixels, &g.frame, g.Palette)
		g.dirty = false
	}
	g.mutex.Unlock()

	if g.canvas == nil {
		g.canvas = ebiten.NewImage(display.WIDTH, display.HEIGHT)
	}
	g.canvas.WritePixels(g.pixels)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.Scale), float64(g.Scale))
	screen.DrawImage(g.canvas, op)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return display.WIDTH * g.Scale, display.HEIGHT * g.Scale
}

// Run the emulator until the window is closed, Escape is pressed, the
// emulator stops, or ctx is cancelled. Closing the window is not an error.
func (g *Game) Run(ctx context.Context) (err error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g.emu.Presenter = g
	g.emu.Input = g
	g.emu.Speaker = g.speakers()

	if g.player != nil {
		g.player.Play()
		defer g.player.Pause()
	}

	go func() {
		defer close(g.done)
		g.runErr = g.emu.Run(runCtx)
		if g.Verbose {
			log.Printf("desktop: emulator stopped: %v", g.runErr)
		}
	}()

	ebiten.SetWindowSize(display.WIDTH*g.Scale, display.HEIGHT*g.Scale)
	ebiten.SetWindowTitle(g.Title)
	ebiten.SetTPS(ebiten.DefaultTPS)

	err = ebiten.RunGame(g)
	cancel()
	<-g.done
	if err != nil {
		return
	}

	err = g.runErr
	if errors.Is(err, context.Canceled) && ctx.Err() == nil {
		err = nil
	}

	return
}

func (g *Game) speakers() (speakers machine.Speakers) {
	speakers = machine.Speakers{g.square}
	if g.Speaker != nil {
		speakers = append(speakers, g.Speaker)
	}
	return
}

// fill renders frame as RGBA pixels into dst.
func fill(dst []byte, frame *display.Framebuffer, pal display.Palette) {
	off := color.RGBAModel.Convert(pal.Off).(color.RGBA)
	on := color.RGBAModel.Convert(pal.On).(color.RGBA)

	for y := range frame {
		for x := range frame[y] {
			c := off
			if frame[y][x] {
				c = on
			}
			n := (y*display.WIDTH + x) * 4
			dst[n+0] = c.R
			dst[n+1] = c.G
			dst[n+2] = c.B
			dst[n+3] = c.A
		}
	}
}
