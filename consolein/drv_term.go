// drv_term.go uses the Termbox library to handle console-based input.
//
// A goroutine is launched which collects any keyboard input and
// saves that to a buffer where it can be peeled off on-demand.
//
// The portability of this solution is unknown, however this driver
// _seems_ reasonable and is the default.

package consolein

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/nsf/termbox-go"
	"golang.org/x/term"
)

// TermboxInput is our input-driver, using termbox.
type TermboxInput struct {

	// oldState contains the state of the terminal, before switching
	// to RAW mode.
	oldState *term.State

	// cancel holds a context which can be used to close our polling
	// goroutine.
	cancel context.CancelFunc

	// mu guards the key buffer, which is appended to by the polling
	// goroutine and consumed by the BIOS thread.
	mu sync.Mutex

	// stuffed holds fake input which has been forced into the buffer.
	stuffed string

	// keyBuffer builds up keys read "in the background", via termbox.
	keyBuffer []rune
}

// Setup ensures that the termbox init functions are called, and our
// terminal is set into RAW mode.
func (ti *TermboxInput) Setup() error {

	var err error

	// switch STDIN into 'raw' mode - we must do this before
	// we setup termbox.
	ti.oldState, err = term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to make raw terminal %s", err)
	}

	// Setup the terminal.
	err = termbox.Init()
	if err != nil {
		return fmt.Errorf("failed to init termbox %s", err)
	}

	// This is "Show Cursor" which termbox hides by default.
	fmt.Printf("\x1b[?25h")

	// Allow our polling of keyboard to be canceled.
	ctx, cancel := context.WithCancel(context.Background())
	ti.cancel = cancel

	// Start polling for keyboard input "in the background".
	go ti.pollKeyboard(ctx)

	return nil
}

// pollKeyboard runs in a goroutine and collects keyboard input
// into a buffer where it will be read from in the future.
func (ti *TermboxInput) pollKeyboard(ctx context.Context) {
	for {
		// Are we done?
		select {
		case <-ctx.Done():
			return
		default:
			// NOP
		}

		// Now look for keyboard input
		switch ev := termbox.PollEvent(); ev.Type {
		case termbox.EventKey:
			ti.mu.Lock()
			if ev.Ch != 0 {
				ti.keyBuffer = append(ti.keyBuffer, ev.Ch)
			} else {
				ti.keyBuffer = append(ti.keyBuffer, rune(ev.Key))
			}
			ti.mu.Unlock()
		}
	}
}

// TearDown resets the state of the terminal, disables the background
// polling of characters and generally gets us ready for exit.
func (ti *TermboxInput) TearDown() error {

	// Cancel the keyboard reading
	if ti.cancel != nil {
		ti.cancel()
		ti.cancel = nil
	}

	// Terminate the GUI.
	termbox.Close()

	// Restore the terminal
	if ti.oldState != nil {
		err := term.Restore(int(os.Stdin.Fd()), ti.oldState)
		ti.oldState = nil
		if err != nil {
			return fmt.Errorf("failed to restore terminal state %s", err)
		}
	}
	return nil
}

// StuffInput inserts fake values into our input-buffer.
func (ti *TermboxInput) StuffInput(input string) {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	ti.stuffed = input
}

// PendingInput returns true if there is pending input.
func (ti *TermboxInput) PendingInput() bool {
	ti.mu.Lock()
	defer ti.mu.Unlock()

	// Do we have faked/stuffed input to process?
	if len(ti.stuffed) > 0 {
		return true
	}

	// Otherwise only if we've read stuff.
	return len(ti.keyBuffer) > 0
}

// ReadCharacter returns the next character from the console, without
// blocking.
func (ti *TermboxInput) ReadCharacter() (byte, error) {
	ti.mu.Lock()
	defer ti.mu.Unlock()

	// Do we have faked/stuffed input to process?
	if len(ti.stuffed) > 0 {
		c := ti.stuffed[0]
		ti.stuffed = ti.stuffed[1:]
		return c, nil
	}

	if len(ti.keyBuffer) == 0 {
		return 0x00, ErrNoInput
	}

	// Return the character
	c := ti.keyBuffer[0]
	ti.keyBuffer = ti.keyBuffer[1:]
	return byte(c), nil
}

// GetName is part of the module API, and returns the name of this
// driver.
func (ti *TermboxInput) GetName() string {
	return "term"
}

// init registers our driver, by name.
func init() {
	Register("term", func() ConsoleInput {
		return new(TermboxInput)
	})
}
