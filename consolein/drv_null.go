// drv_null provides an input-driver which never receives user input,
// but which supports stuffed input.
//
// It exists for the test-suite, and for running the emulator with no
// console attached.

package consolein

// NullInput is an input-driver returning only stuffed input.
type NullInput struct {

	// stuffed holds fake input which has been forced into the buffer.
	stuffed string
}

// Setup is a NOP.
func (ni *NullInput) Setup() error {
	return nil
}

// TearDown is a NOP.
func (ni *NullInput) TearDown() error {
	return nil
}

// StuffInput inserts fake values into our input-buffer.
func (ni *NullInput) StuffInput(input string) {
	ni.stuffed = input
}

// PendingInput returns true if there is stuffed input remaining.
func (ni *NullInput) PendingInput() bool {
	return len(ni.stuffed) > 0
}

// ReadCharacter returns the next stuffed character, if any.
func (ni *NullInput) ReadCharacter() (byte, error) {
	if len(ni.stuffed) > 0 {
		c := ni.stuffed[0]
		ni.stuffed = ni.stuffed[1:]
		return c, nil
	}
	return 0x00, ErrNoInput
}

// GetName is part of the module API, and returns the name of this
// driver.
func (ni *NullInput) GetName() string {
	return "null"
}

// init registers our driver, by name.
func init() {
	Register("null", func() ConsoleInput {
		return new(NullInput)
	})
}
