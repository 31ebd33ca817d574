// drv_file creates a console input-driver which reads and returns
// fake console input from a file.
//
// The intent is that this driver will be useful for scripted
// automation - a DOS session can be driven end-to-end without a
// user at the keyboard.

package consolein

import (
	"os"
)

// FileInput is an input-driver that returns fake "console input"
// by reading the content of a file.
//
// The filename is taken from the environmental variable $INPUT_FILE,
// defaulting to "input.txt".
type FileInput struct {

	// offset shows the offset into the buffer we're at.
	offset int

	// content contains the content of the input file.
	content []byte

	// stuffed holds fake input which takes precedence over the
	// file content.
	stuffed string
}

// Setup reads the contents of the input file, and saves it away as
// a source of fake console input.
func (fi *FileInput) Setup() error {

	fileName := os.Getenv("INPUT_FILE")
	if fileName == "" {
		fileName = "input.txt"
	}

	dat, err := os.ReadFile(fileName)
	if err != nil {
		return err
	}

	fi.offset = 0
	fi.content = dat
	return nil
}

// TearDown is a NOP.
func (fi *FileInput) TearDown() error {
	return nil
}

// StuffInput inserts fake values into our input-buffer.
func (fi *FileInput) StuffInput(input string) {
	fi.stuffed = input
}

// PendingInput returns true if there is pending input, which is
// always true unless we've exhausted the contents of our input-file.
func (fi *FileInput) PendingInput() bool {
	if len(fi.stuffed) > 0 {
		return true
	}
	return fi.offset < len(fi.content)
}

// ReadCharacter returns the next character from the file we use to
// fake our input.
func (fi *FileInput) ReadCharacter() (byte, error) {

	if len(fi.stuffed) > 0 {
		c := fi.stuffed[0]
		fi.stuffed = fi.stuffed[1:]
		return c, nil
	}

	if fi.offset < len(fi.content) {
		x := fi.content[fi.offset]
		fi.offset++
		return x, nil
	}

	// Input is over.
	return 0x00, ErrNoInput
}

// GetName is part of the module API, and returns the name of this
// driver.
func (fi *FileInput) GetName() string {
	return "file"
}

// init registers our driver, by name.
func init() {
	Register("file", func() ConsoleInput {
		return new(FileInput)
	})
}
