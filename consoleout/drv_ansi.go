package consoleout

import (
	"fmt"
	"io"
	"os"
)

// AnsiOutputDriver holds our state.
type AnsiOutputDriver struct {
	// writer is where we send our output
	writer io.Writer
}

// GetName returns the name of this driver.
//
// This is part of the ConsoleOutput interface.
func (ad *AnsiOutputDriver) GetName() string {
	return "ansi"
}

// PutCharacter writes the specified character to the console.
//
// This is part of the ConsoleOutput interface.
func (ad *AnsiOutputDriver) PutCharacter(c uint8) {
	fmt.Fprintf(ad.writer, "%c", c)
}

// cgaToAnsi maps a three-bit CGA colour to its ANSI colour number.
// CGA orders the primaries blue/green/red, ANSI red/green/blue.
var cgaToAnsi = []int{0, 4, 2, 6, 1, 5, 3, 7}

// PutCharacterAttr writes the character wrapped in SGR sequences for
// its CGA attribute, then restores the default rendition.
//
// This is part of the ConsoleOutput interface.
func (ad *AnsiOutputDriver) PutCharacterAttr(c uint8, attr uint8) {
	fg := cgaToAnsi[attr&0x07] + 30
	if attr&0x08 != 0 {
		// Intensity bit selects the bright palette.
		fg += 60
	}
	bg := cgaToAnsi[(attr>>4)&0x07] + 40

	fmt.Fprintf(ad.writer, "\x1b[%d;%dm%c\x1b[0m", fg, bg, c)
}

// MoveCursor emits the ANSI cursor-position sequence.
//
// BIOS positions are zero-based, ANSI positions are one-based.
//
// This is part of the ConsoleOutput interface.
func (ad *AnsiOutputDriver) MoveCursor(row uint8, col uint8) {
	fmt.Fprintf(ad.writer, "\x1b[%d;%dH", int(row)+1, int(col)+1)
}

// SetMode clears the display and homes the cursor.  Real terminals
// can't change their geometry, so this is the best approximation.
//
// This is part of the ConsoleOutput interface.
func (ad *AnsiOutputDriver) SetMode(cols uint8, rows uint8) {
	fmt.Fprintf(ad.writer, "\x1b[2J\x1b[H")
}

// ClearScreen erases the display.
//
// This is part of the ConsoleOutput interface.
func (ad *AnsiOutputDriver) ClearScreen() {
	fmt.Fprintf(ad.writer, "\x1b[2J")
}

// SetWriter will update the writer.
func (ad *AnsiOutputDriver) SetWriter(w io.Writer) {
	ad.writer = w
}

// init registers our driver, by name.
func init() {
	Register("ansi", func() ConsoleOutput {
		return &AnsiOutputDriver{
			writer: os.Stdout,
		}
	})
}
