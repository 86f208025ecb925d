// Package terminal runs an Emulator in a text terminal, using gocui.
//
// Terminals report key presses but not releases, so a keystroke holds its
// keypad key down for a short latch time.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
	"unicode"

	"github.com/jroimartin/gocui"

	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/keypad"
	"github.com/ezrec/chip8/machine"
)

const (
	HOLD = 150 * time.Millisecond // Default latch time of a keystroke.

	VIEW_SCREEN = "screen"
	VIEW_STATUS = "status"
)

// Terminal is the Presenter, Input and Speaker of an emulator running in a
// text terminal.
type Terminal struct {
	Verbose bool
	Hold    time.Duration   // Latch time of a keystroke.
	Speaker machine.Speaker // Optional extra Speaker, e.g. a tone.Recorder.

	emu *machine.Emulator
	now func() time.Time

	mutex   sync.Mutex
	queue   func(func(*gocui.Gui) error) // Nil unless the main loop runs.
	frame   display.Framebuffer
	expires [keypad.KEY_COUNT]time.Time
	tone    bool
	loops   int
}

// NewTerminal creates the terminal front end for emu.
func NewTerminal(emu *machine.Emulator) *Terminal {
	return &Terminal{
		Verbose: emu.Verbose,
		Hold:    HOLD,
		emu:     emu,
		now:     time.Now,
	}
}

// Present implements machine.Presenter.
func (term *Terminal) Present(frame *display.Framebuffer) {
	term.mutex.Lock()
	term.frame = *frame
	term.loops++
	term.mutex.Unlock()

	term.update(term.draw)
}

// update queues fn on the running main loop. Once the loop has stopped
// nothing would receive fn, so it is dropped.
func (term *Terminal) update(fn func(*gocui.Gui) error) (queued bool) {
	term.mutex.Lock()
	defer term.mutex.Unlock()

	if term.queue == nil {
		return
	}

	term.queue(fn)
	queued = true
	return
}

// setQueue attaches, or with nil detaches, the main loop's update queue.
func (term *Terminal) setQueue(queue func(func(*gocui.Gui) error)) {
	term.mutex.Lock()
	defer term.mutex.Unlock()

	term.queue = queue
}

// SetTone implements machine.Speaker.
func (term *Terminal) SetTone(on bool) {
	term.mutex.Lock()
	defer term.mutex.Unlock()

	term.tone = on
}

// Keys implements machine.Input.
func (term *Terminal) Keys() (keys keypad.State) {
	term.mutex.Lock()
	defer term.mutex.Unlock()

	keys = term.held()
	return
}

// held returns the latched keys. The caller holds the mutex.
func (term *Terminal) held() (keys keypad.State) {
	now := term.now()
	for n, expires := range term.expires {
		keys[n] = now.Before(expires)
	}
	return
}

// press latches key down for the hold time.
func (term *Terminal) press(key uint8) {
	term.mutex.Lock()
	defer term.mutex.Unlock()

	term.expires[key&0xf] = term.now().Add(term.Hold)
}

func (term *Terminal) keyHandler(key uint8) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		term.press(key)
		return nil
	}
}

// status returns the status line.
func (term *Terminal) status() string {
	term.mutex.Lock()
	defer term.mutex.Unlock()

	buzzer := "off"
	if term.tone {
		buzzer = "ON"
	}

	return fmt.Sprintf("keys %v  tone %-3s  loops %d  ^C quit", term.held(), buzzer, term.loops)
}

func (term *Terminal) layout(gui *gocui.Gui) (err error) {
	width := display.WIDTH + 1
	height := display.HEIGHT/2 + 1

	view, err := gui.SetView(VIEW_SCREEN, 0, 0, width, height)
	if err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return
		}
		view.Title = "CHIP-8"
		view.Frame = true
	}

	view, err = gui.SetView(VIEW_STATUS, 0, height+1, width, height+3)
	if err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return
		}
		view.Frame = true
	}

	return nil
}

func (term *Terminal) draw(gui *gocui.Gui) (err error) {
	view, err := gui.View(VIEW_SCREEN)
	if err != nil {
		return
	}

	term.mutex.Lock()
	text := term.frame.Blocks()
	term.mutex.Unlock()

	view.Clear()
	fmt.Fprint(view, text)

	view, err = gui.View(VIEW_STATUS)
	if err != nil {
		return
	}
	view.Clear()
	fmt.Fprint(view, term.status())

	return
}

func quit(*gocui.Gui, *gocui.View) error {
	return gocui.ErrQuit
}

func (term *Terminal) keybindings(gui *gocui.Gui) (err error) {
	err = gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit)
	if err != nil {
		return
	}

	for n, r := range keypad.Layout {
		runes := []rune{r}
		if upper := unicode.ToUpper(r); upper != r {
			runes = append(runes, upper)
		}

		handler := term.keyHandler(uint8(n))
		for _, ch := range runes {
			err = gui.SetKeybinding("", ch, gocui.ModNone, handler)
			if err != nil {
				return
			}
		}
	}

	return
}

// Run the emulator until Ctrl-C, the emulator stops, or ctx is cancelled.
// Quitting is not an error.
func (term *Terminal) Run(ctx context.Context) (err error) {
	gui, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return
	}
	defer gui.Close()

	gui.SetManagerFunc(term.layout)
	err = term.keybindings(gui)
	if err != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	term.emu.Presenter = term
	term.emu.Input = term
	term.emu.Speaker = term.speakers()

	done := make(chan error, 1)
	go func() {
		err := term.emu.Run(runCtx)
		if term.Verbose {
			log.Printf("terminal: emulator stopped: %v", err)
		}
		done <- err
		term.update(func(*gocui.Gui) error {
			return gocui.ErrQuit
		})
	}()

	term.setQueue(gui.Update)
	err = gui.MainLoop()
	term.setQueue(nil)
	cancel()
	runErr := <-done

	if err != nil && !errors.Is(err, gocui.ErrQuit) {
		return
	}

	err = runErr
	if errors.Is(err, context.Canceled) && ctx.Err() == nil {
		err = nil
	}

	return
}

func (term *Terminal) speakers() (speakers machine.Speakers) {
	speakers = machine.Speakers{term}
	if term.Speaker != nil {
		speakers = append(speakers, term.Speaker)
	}
	return
}
