package consoleout

import (
	"fmt"
	"io"
	"os"
)

// OutputLoggingDriver holds our state.
//
// Rather than rendering anything this driver records what the BIOS
// asked the console to do, including cursor movement and mode
// changes, so that tests can make assertions about it.
type OutputLoggingDriver struct {

	// writer is where we send our output
	writer io.Writer

	// history stores our history
	history string
}

// GetName returns the name of this driver.
//
// This is part of the ConsoleOutput interface.
func (ol *OutputLoggingDriver) GetName() string {
	return "logger"
}

// PutCharacter records the character in our history.
//
// This is part of the ConsoleOutput interface.
func (ol *OutputLoggingDriver) PutCharacter(c uint8) {
	ol.history += string(c)
}

// PutCharacterAttr records the character and its attribute in our
// history.
//
// This is part of the ConsoleOutput interface.
func (ol *OutputLoggingDriver) PutCharacterAttr(c uint8, attr uint8) {
	ol.history += fmt.Sprintf("[attr %02X]", attr)
	ol.history += string(c)
}

// MoveCursor records the movement in our history.
//
// This is part of the ConsoleOutput interface.
func (ol *OutputLoggingDriver) MoveCursor(row uint8, col uint8) {
	ol.history += fmt.Sprintf("[move %d,%d]", row, col)
}

// SetMode records the geometry change in our history.
//
// This is part of the ConsoleOutput interface.
func (ol *OutputLoggingDriver) SetMode(cols uint8, rows uint8) {
	ol.history += fmt.Sprintf("[mode %dx%d]", cols, rows)
}

// ClearScreen records the erase in our history.
//
// This is part of the ConsoleOutput interface.
func (ol *OutputLoggingDriver) ClearScreen() {
	ol.history += "[clear]"
}

// SetWriter will update the writer.
func (ol *OutputLoggingDriver) SetWriter(w io.Writer) {
	ol.writer = w
}

// GetOutput returns our history.
//
// This is part of the ConsoleRecorder interface.
func (ol *OutputLoggingDriver) GetOutput() string {
	return ol.history
}

// Reset removes our history.
//
// This is part of the ConsoleRecorder interface.
func (ol *OutputLoggingDriver) Reset() {
	ol.history = ""
}

// init registers our driver, by name.
func init() {
	Register("logger", func() ConsoleOutput {
		return &OutputLoggingDriver{
			writer: os.Stdout,
		}
	})
}
