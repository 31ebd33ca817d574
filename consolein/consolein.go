// Package consolein handles the reading of console input for our
// BIOS emulation.
//
// Keyboard input originates with the user, asynchronously with
// respect to the guest, so drivers collect characters as they arrive
// and the BIOS drains them into the guest-visible keystroke buffer.
// The package supports the minimum required functionality we need -
// seeing whether input is pending, and reading a single character
// without blocking.
//
// Note that no output functions are handled by this package, it is
// exclusively used for input.
package consolein

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoInput is returned by ReadCharacter when no input is pending.
//
// It should be handled and expected by callers.
var ErrNoInput = errors.New("NOINPUT")

// ConsoleInput is the interface that must be implemented by anything
// that wishes to be used as a console input driver.
//
// Providing this interface is implemented an object may register
// itself, by name, via the Register method.
type ConsoleInput interface {

	// Setup performs any initialization the driver requires,
	// such as placing the terminal into raw mode.
	Setup() error

	// TearDown undoes whatever Setup did.
	TearDown() error

	// PendingInput returns true if there is pending input.
	PendingInput() bool

	// ReadCharacter returns the next available character without
	// blocking, or ErrNoInput when nothing is pending.
	ReadCharacter() (byte, error)

	// StuffInput inserts fake input, as if the user had typed it.
	StuffInput(input string)

	// GetName returns the name of the driver.
	GetName() string
}

// This is a map of known-drivers.
var handlers = struct {
	m map[string]Constructor
}{m: make(map[string]Constructor)}

// Constructor is the signature of a constructor-function
// which is used to instantiate an instance of a driver.
type Constructor func() ConsoleInput

// Register makes a console driver available, by name.
//
// When one needs to be created the constructor will be called
// to create an instance of it.
func Register(name string, obj Constructor) {
	// Downcase for consistency.
	name = strings.ToLower(name)

	handlers.m[name] = obj
}

// ConsoleIn holds our state, which is basically just a
// pointer to the object handling our input.
type ConsoleIn struct {

	// driver is the thing that actually reads our input.
	driver ConsoleInput
}

// New is our constructor, it creates an input device which uses
// the specified driver.
func New(name string) (*ConsoleIn, error) {
	// Downcase for consistency.
	name = strings.ToLower(name)

	// Do we have a constructor with the given name?
	ctor, ok := handlers.m[name]
	if !ok {
		return nil, fmt.Errorf("failed to lookup driver by name '%s'", name)
	}

	// OK we do, return ourselves with that driver.
	return &ConsoleIn{
		driver: ctor(),
	}, nil
}

// GetDriver allows getting our driver at runtime.
func (ci *ConsoleIn) GetDriver() ConsoleInput {
	return ci.driver
}

// GetName returns the name of our selected driver.
func (ci *ConsoleIn) GetName() string {
	return ci.driver.GetName()
}

// Setup initializes our selected driver.
func (ci *ConsoleIn) Setup() error {
	return ci.driver.Setup()
}

// TearDown uninitializes our selected driver.
func (ci *ConsoleIn) TearDown() error {
	return ci.driver.TearDown()
}

// PendingInput returns true if there is pending input.
func (ci *ConsoleIn) PendingInput() bool {
	return ci.driver.PendingInput()
}

// ReadCharacter returns the next available character without
// blocking, or ErrNoInput when nothing is pending.
func (ci *ConsoleIn) ReadCharacter() (byte, error) {
	return ci.driver.ReadCharacter()
}

// StuffInput inserts fake input, as if the user had typed it.
func (ci *ConsoleIn) StuffInput(input string) {
	ci.driver.StuffInput(input)
}
