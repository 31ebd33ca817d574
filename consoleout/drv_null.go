package consoleout

import (
	"io"
	"os"
)

// NullOutputDriver holds our state.
type NullOutputDriver struct {

	// writer is where we send our output
	writer io.Writer
}

// GetName returns the name of this driver.
//
// This is part of the ConsoleOutput interface.
func (no *NullOutputDriver) GetName() string {
	return "null"
}

// PutCharacter discards the given character.
//
// This is part of the ConsoleOutput interface.
func (no *NullOutputDriver) PutCharacter(c uint8) {
}

// PutCharacterAttr discards the given character and attribute.
//
// This is part of the ConsoleOutput interface.
func (no *NullOutputDriver) PutCharacterAttr(c uint8, attr uint8) {
}

// MoveCursor does nothing.
//
// This is part of the ConsoleOutput interface.
func (no *NullOutputDriver) MoveCursor(row uint8, col uint8) {
}

// SetMode does nothing.
//
// This is part of the ConsoleOutput interface.
func (no *NullOutputDriver) SetMode(cols uint8, rows uint8) {
}

// ClearScreen does nothing.
//
// This is part of the ConsoleOutput interface.
func (no *NullOutputDriver) ClearScreen() {
}

// SetWriter will update the writer.
func (no *NullOutputDriver) SetWriter(w io.Writer) {
	no.writer = w
}

// init registers our driver, by name.
func init() {
	Register("null", func() ConsoleOutput {
		return &NullOutputDriver{
			writer: os.Stdout,
		}
	})
}
