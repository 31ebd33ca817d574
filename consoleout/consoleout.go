// Package consoleout is an abstraction over the screen of the
// console hosting the virtual machine.
//
// The BIOS video services need a little more than a character sink:
// they move the visible cursor, change the text mode, and clear the
// display.  We know we need a real ANSI terminal driver, and we want
// recording/null drivers for the test-suite, so we use a factory
// that can instantiate a driver given just a name.
package consoleout

import (
	"fmt"
	"io"
	"strings"
)

// ConsoleOutput is the interface that must be implemented by anything
// that wishes to be used as a console output driver.
//
// Providing this interface is implemented an object may register
// itself, by name, via the Register method.
type ConsoleOutput interface {

	// PutCharacter writes the specified character at the current
	// cursor position, advancing it.
	PutCharacter(c uint8)

	// PutCharacterAttr writes the specified character with the
	// given CGA attribute byte: foreground colour in the low
	// nibble, background colour in bits 4-6.
	PutCharacterAttr(c uint8, attr uint8)

	// MoveCursor moves the visible cursor to the given position.
	MoveCursor(row uint8, col uint8)

	// SetMode adjusts the display for a new text geometry, clearing
	// the screen.
	SetMode(cols uint8, rows uint8)

	// ClearScreen erases the display without moving the cursor.
	ClearScreen()

	// GetName returns the name of the driver.
	GetName() string

	// SetWriter updates the writer the driver sends output to.
	SetWriter(io.Writer)
}

// ConsoleRecorder is an interface that allows returning the contents
// that have been previously sent to the console.
//
// This is used solely for the test-suite.
type ConsoleRecorder interface {

	// GetOutput returns the contents which have been displayed.
	GetOutput() string

	// Reset removes any stored state.
	Reset()
}

// This is a map of known-drivers.
var handlers = struct {
	m map[string]Constructor
}{m: make(map[string]Constructor)}

// Constructor is the signature of a constructor-function
// which is used to instantiate an instance of a driver.
type Constructor func() ConsoleOutput

// Register makes a console driver available, by name.
//
// When one needs to be created the constructor will be called
// to create an instance of it.
func Register(name string, obj Constructor) {
	// Downcase for consistency.
	name = strings.ToLower(name)

	handlers.m[name] = obj
}

// ConsoleOut holds our state, which is basically just a
// pointer to the object handling our output.
type ConsoleOut struct {

	// driver is the thing that actually writes our output.
	driver ConsoleOutput
}

// New is our constructor, it creates an output device which uses
// the specified driver.
func New(name string) (*ConsoleOut, error) {
	// Downcase for consistency.
	name = strings.ToLower(name)

	// Do we have a constructor with the given name?
	ctor, ok := handlers.m[name]
	if !ok {
		return nil, fmt.Errorf("failed to lookup driver by name '%s'", name)
	}

	// OK we do, return ourselves with that driver.
	return &ConsoleOut{
		driver: ctor(),
	}, nil
}

// GetDriver allows getting our driver at runtime.
func (co *ConsoleOut) GetDriver() ConsoleOutput {
	return co.driver
}

// GetName returns the name of our selected driver.
func (co *ConsoleOut) GetName() string {
	return co.driver.GetName()
}

// GetDrivers returns all available driver-names.
//
// We hide the internal "null" and "logger" drivers.
func (co *ConsoleOut) GetDrivers() []string {
	valid := []string{}

	for x := range handlers.m {
		if x != "null" && x != "logger" {
			valid = append(valid, x)
		}
	}
	return valid
}

// PutCharacter outputs a character, using our selected driver.
func (co *ConsoleOut) PutCharacter(c byte) {
	co.driver.PutCharacter(c)
}

// PutCharacterAttr outputs a character with a CGA attribute, using
// our selected driver.
func (co *ConsoleOut) PutCharacterAttr(c byte, attr uint8) {
	co.driver.PutCharacterAttr(c, attr)
}

// WriteString outputs a string, using our selected driver.
func (co *ConsoleOut) WriteString(s string) {
	for _, c := range s {
		co.driver.PutCharacter(byte(c))
	}
}

// MoveCursor moves the visible cursor, using our selected driver.
func (co *ConsoleOut) MoveCursor(row uint8, col uint8) {
	co.driver.MoveCursor(row, col)
}

// SetMode adjusts the display geometry, using our selected driver.
func (co *ConsoleOut) SetMode(cols uint8, rows uint8) {
	co.driver.SetMode(cols, rows)
}

// ClearScreen erases the display, using our selected driver.
func (co *ConsoleOut) ClearScreen() {
	co.driver.ClearScreen()
}
